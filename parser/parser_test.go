package parser

import (
	"testing"

	"github.com/mk3008/carbunqlex-go/ast"
	"github.com/mk3008/carbunqlex-go/errs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseQuerySimpleSelect(t *testing.T) {
	q, err := New("select id, name from users where id = 1").ParseQuery()
	require.NoError(t, err)

	sel, ok := q.(*ast.SimpleSelect)
	require.True(t, ok)
	require.Len(t, sel.Select.Items, 2)
	require.NotNil(t, sel.From)
	require.NotNil(t, sel.Where)
}

func TestParseQueryRejectsTrailingInput(t *testing.T) {
	_, err := New("select id from users select").ParseQuery()
	require.Error(t, err)
	var pe *errs.ParseError
	require.ErrorAs(t, err, &pe)
	assert.Equal(t, "end of input", pe.Expected)
}

func TestParseQueryReportsExpectedTokenOnSyntaxError(t *testing.T) {
	_, err := New("select from users").ParseQuery()
	require.Error(t, err)
	var pe *errs.ParseError
	require.ErrorAs(t, err, &pe)
}

func TestParseQueryUnionChainIsLeftAssociative(t *testing.T) {
	q, err := New("select a from t1 union select a from t2 union all select a from t3").ParseQuery()
	require.NoError(t, err)

	outer, ok := q.(*ast.BinarySelect)
	require.True(t, ok)
	assert.Equal(t, ast.SetOpUnionAll, outer.Op)

	inner, ok := outer.Left.(*ast.BinarySelect)
	require.True(t, ok)
	assert.Equal(t, ast.SetOpUnion, inner.Op)
}

func TestParseQueryWithClauseAttachesToSimpleSelect(t *testing.T) {
	q, err := New("with a as (select id from raw) select id from a").ParseQuery()
	require.NoError(t, err)

	sel, ok := q.(*ast.SimpleSelect)
	require.True(t, ok)
	require.NotNil(t, sel.With)
	require.Len(t, sel.With.Tables, 1)
	assert.Equal(t, "a", sel.With.Tables[0].Alias)
}

func TestParseQueryRecursiveWithClause(t *testing.T) {
	q, err := New("with recursive a as (select id from raw) select id from a").ParseQuery()
	require.NoError(t, err)
	sel := q.(*ast.SimpleSelect)
	assert.True(t, sel.With.Recursive)
}

func TestParseQueryValuesAsTopLevelQuery(t *testing.T) {
	q, err := New("values (1, 'a'), (2, 'b')").ParseQuery()
	require.NoError(t, err)
	vq, ok := q.(*ast.ValuesQuery)
	require.True(t, ok)
	assert.Len(t, vq.Rows, 2)
}

func TestParserPoolGetPutRoundTrip(t *testing.T) {
	p := Get("select id from users")
	q, err := p.ParseQuery()
	require.NoError(t, err)
	require.NotNil(t, q)
	Put(p)

	p2 := Get("select name from accounts")
	q2, err := p2.ParseQuery()
	require.NoError(t, err)
	sel := q2.(*ast.SimpleSelect)
	assert.Equal(t, "accounts", sel.From.Source.(*ast.TableSource).Name)
	Put(p2)
}
