package visitor

import (
	"testing"

	"github.com/mk3008/carbunqlex-go/ast"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRewriteReplacesColumnRef(t *testing.T) {
	q := parseQuery(t, "select id from users where id = 1")

	result := Rewrite(q, func(n ast.Node) ast.Node {
		if c, ok := n.(*ast.ColumnRef); ok && c.Name == "id" {
			return &ast.ColumnRef{Name: "renamed"}
		}
		return n
	})

	sel, ok := result.(*ast.SimpleSelect)
	require.True(t, ok)
	binary, ok := sel.Where.Condition.(*ast.Binary)
	require.True(t, ok)
	col, ok := binary.Left.(*ast.ColumnRef)
	require.True(t, ok)
	assert.Equal(t, "renamed", col.Name)
}

func TestRewriteCanRemoveAClause(t *testing.T) {
	q := parseQuery(t, "select id from users where id = 1")

	result := Rewrite(q, func(n ast.Node) ast.Node {
		if _, ok := n.(*ast.WhereClause); ok {
			return nil
		}
		return n
	})

	sel, ok := result.(*ast.SimpleSelect)
	require.True(t, ok)
	assert.Nil(t, sel.Where)
}

func TestRewriteExprOnlyTouchesExpressionNodes(t *testing.T) {
	q := parseQuery(t, "select id from users where id = 1")
	sel := q.(*ast.SimpleSelect)

	rewritten := RewriteExpr(sel.Where.Condition, func(e ast.Expr) ast.Expr {
		if lit, ok := e.(*ast.Literal); ok && lit.Raw == "1" {
			return &ast.Literal{Kind: ast.LiteralNumeric, Raw: "2"}
		}
		return e
	})

	binary, ok := rewritten.(*ast.Binary)
	require.True(t, ok)
	lit, ok := binary.Right.(*ast.Literal)
	require.True(t, ok)
	assert.Equal(t, "2", lit.Raw)
}
