package visitor

import (
	"testing"

	"github.com/mk3008/carbunqlex-go/ast"
	"github.com/mk3008/carbunqlex-go/parser"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func parseQuery(t *testing.T, sql string) ast.Query {
	t.Helper()
	p := parser.New(sql)
	q, err := p.ParseQuery()
	require.NoError(t, err)
	return q
}

func TestWalkFuncVisitsEveryColumnRef(t *testing.T) {
	q := parseQuery(t, "select a.id, b.name from a join b on a.id = b.a_id where a.active = 1")

	var cols []string
	WalkFunc(q, func(n ast.Node) bool {
		if c, ok := n.(*ast.ColumnRef); ok && !c.Wildcard {
			cols = append(cols, c.Name)
		}
		return true
	})

	assert.ElementsMatch(t, []string{"id", "name", "id", "a_id", "active"}, cols)
}

func TestWalkFuncStopsDescendingWhenFalse(t *testing.T) {
	q := parseQuery(t, "select id from users where id = 1")

	var sawWhere, sawCondition bool
	WalkFunc(q, func(n ast.Node) bool {
		if _, ok := n.(*ast.WhereClause); ok {
			sawWhere = true
			return false // don't descend into the condition
		}
		if _, ok := n.(*ast.Binary); ok {
			sawCondition = true
		}
		return true
	})

	assert.True(t, sawWhere)
	assert.False(t, sawCondition, "Binary condition should not be visited once WhereClause returns false")
}

func TestWalkVisitsForClause(t *testing.T) {
	q := parseQuery(t, "select id from users where id = 1 for update")

	var sawFor bool
	WalkFunc(q, func(n ast.Node) bool {
		if _, ok := n.(*ast.ForClause); ok {
			sawFor = true
		}
		return true
	})

	assert.True(t, sawFor, "FOR UPDATE clause must be reachable from Walk")
}

func TestInspectIsWalkFuncAlias(t *testing.T) {
	q := parseQuery(t, "select * from users")

	var viaInspect, viaWalkFunc int
	Inspect(q, func(ast.Node) bool { viaInspect++; return true })
	WalkFunc(q, func(ast.Node) bool { viaWalkFunc++; return true })

	assert.Equal(t, viaWalkFunc, viaInspect)
}
