package carbunqlex

import (
	"testing"

	"github.com/mk3008/carbunqlex-go/ast"
	"github.com/mk3008/carbunqlex-go/format"
	"github.com/mk3008/carbunqlex-go/token"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenizeProducesEOFTerminatedStream(t *testing.T) {
	items, err := Tokenize("select id from users")
	require.NoError(t, err)
	require.NotEmpty(t, items)
	assert.Equal(t, token.EOF, items[len(items)-1].Type)
}

func TestTokenizeReportsIllegalInput(t *testing.T) {
	_, err := Tokenize("select \x00 from users")
	require.Error(t, err)
	var te *TokenizeError
	assert.ErrorAs(t, err, &te)
}

func TestParseSelectAndFormatRoundTrip(t *testing.T) {
	q, err := ParseSelect("select id from users where id = 1")
	require.NoError(t, err)

	res, err := Format(q, format.DefaultOptions())
	require.NoError(t, err)
	assert.Equal(t, `select "id" from "users" where "id" = 1`, res.SQL)
	assert.Equal(t, res.SQL, String(q))
}

func TestWalkVisitsColumnRefs(t *testing.T) {
	q, err := ParseSelect("select id from users")
	require.NoError(t, err)

	var names []string
	Walk(q, func(n Node) bool {
		if c, ok := n.(*ast.ColumnRef); ok {
			names = append(names, c.Name)
		}
		return true
	})
	assert.Equal(t, []string{"id"}, names)
}

func TestRewriteReplacesNode(t *testing.T) {
	q, err := ParseSelect("select id from users")
	require.NoError(t, err)

	result := Rewrite(q, func(n Node) Node {
		if c, ok := n.(*ast.ColumnRef); ok && c.Name == "id" {
			return &ast.ColumnRef{Name: "renamed"}
		}
		return n
	})

	sel := result.(*ast.SimpleSelect)
	item := sel.Select.Items[0].Value.(*ast.ColumnRef)
	assert.Equal(t, "renamed", item.Name)
}

func TestCTEGraphLeafNames(t *testing.T) {
	q, err := ParseSelect("with a as (select id from raw), b as (select id from a) select id from a, b")
	require.NoError(t, err)
	sel := q.(*ast.SimpleSelect)

	g := CTEGraph(sel.With)
	assert.ElementsMatch(t, []string{"b"}, g.LeafNames(), "a is referenced by b, so only b is a leaf")
}

func TestRepoolDoesNotPanic(t *testing.T) {
	q, err := ParseSelect("select id from users")
	require.NoError(t, err)
	assert.NotPanics(t, func() { Repool(q) })
}
