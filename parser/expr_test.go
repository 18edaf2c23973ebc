package parser

import (
	"testing"

	"github.com/mk3008/carbunqlex-go/ast"
	"github.com/mk3008/carbunqlex-go/token"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func whereCondition(t *testing.T, sql string) ast.Expr {
	t.Helper()
	q, err := New(sql).ParseQuery()
	require.NoError(t, err)
	sel, ok := q.(*ast.SimpleSelect)
	require.True(t, ok)
	require.NotNil(t, sel.Where)
	return sel.Where.Condition
}

func TestExprPrecedenceMultiplicationBeforeAddition(t *testing.T) {
	cond := whereCondition(t, "select 1 from t where a + b * c = 1")
	top, ok := cond.(*ast.Binary)
	require.True(t, ok)
	add, ok := top.Left.(*ast.Binary)
	require.True(t, ok)
	_, ok = add.Right.(*ast.Binary)
	require.True(t, ok, "b * c must bind tighter than +, nesting under the addition's right operand")
}

func TestExprPrecedenceAndBeforeOr(t *testing.T) {
	cond := whereCondition(t, "select 1 from t where a = 1 or b = 2 and c = 3")
	top, ok := cond.(*ast.Binary)
	require.True(t, ok)
	_, ok = top.Right.(*ast.Binary)
	require.True(t, ok, "the AND term must nest under OR's right operand")
}

func TestExprParenthesesOverridePrecedence(t *testing.T) {
	cond := whereCondition(t, "select 1 from t where (a + b) * c = 1")
	top := cond.(*ast.Binary)
	mul := top.Left.(*ast.Binary)
	_, ok := mul.Left.(*ast.Paren)
	assert.True(t, ok)
}

func TestExprBetweenPredicate(t *testing.T) {
	cond := whereCondition(t, "select 1 from t where a between 1 and 10")
	b, ok := cond.(*ast.Between)
	require.True(t, ok)
	assert.False(t, b.Negated)
}

func TestExprNotBetweenPredicate(t *testing.T) {
	cond := whereCondition(t, "select 1 from t where a not between 1 and 10")
	b, ok := cond.(*ast.Between)
	require.True(t, ok)
	assert.True(t, b.Negated)
}

func TestExprBitwiseOperatorsShareOneLeftToRightTier(t *testing.T) {
	cond := whereCondition(t, "select 1 from t where a | b & c = 1")
	top, ok := cond.(*ast.Binary)
	require.True(t, ok)
	require.Equal(t, token.EQ, top.Op)
	and, ok := top.Left.(*ast.Binary)
	require.True(t, ok)
	require.Equal(t, token.BITAND, and.Op, "& stays at the same tier as |, so it's the outermost op of the left-hand chain")
	or, ok := and.Left.(*ast.Binary)
	require.True(t, ok)
	assert.Equal(t, token.BITOR, or.Op, "a | b groups first, left-to-right, within the shared tier")
}

func TestExprHashIsBitwiseXorOperator(t *testing.T) {
	cond := whereCondition(t, "select 1 from t where a # b = 1")
	top, ok := cond.(*ast.Binary)
	require.True(t, ok)
	require.Equal(t, token.EQ, top.Op)
	hash, ok := top.Left.(*ast.Binary)
	require.True(t, ok)
	assert.Equal(t, token.HASHOP, hash.Op)
}

func TestExprHashSharesTierWithBitOrAndBitAnd(t *testing.T) {
	cond := whereCondition(t, "select 1 from t where a | b # c = 1")
	top, ok := cond.(*ast.Binary)
	require.True(t, ok)
	left, ok := top.Left.(*ast.Binary)
	require.True(t, ok)
	assert.Equal(t, token.HASHOP, left.Op, "# stays at the same tier as |, grouping left-to-right")
}

func TestExprCaretBindsTighterThanUnaryMinus(t *testing.T) {
	cond := whereCondition(t, "select 1 from t where -a ^ b = 1")
	top, ok := cond.(*ast.Binary)
	require.True(t, ok)
	require.Equal(t, token.EQ, top.Op)
	neg, ok := top.Left.(*ast.Unary)
	require.True(t, ok)
	require.Equal(t, token.MINUS, neg.Op)
	caret, ok := neg.Operand.(*ast.Binary)
	require.True(t, ok, "^ should bind tighter than unary minus, nesting under its operand")
	assert.Equal(t, token.BITXOR, caret.Op)
}

func TestExprInList(t *testing.T) {
	cond := whereCondition(t, "select 1 from t where a in (1, 2, 3)")
	in, ok := cond.(*ast.In)
	require.True(t, ok)
	assert.Len(t, in.List, 3)
	assert.Nil(t, in.Subquery)
}

func TestExprInSubquery(t *testing.T) {
	cond := whereCondition(t, "select 1 from t where a in (select id from other)")
	in, ok := cond.(*ast.In)
	require.True(t, ok)
	assert.NotNil(t, in.Subquery)
}

func TestExprIsNotDistinctFrom(t *testing.T) {
	cond := whereCondition(t, "select 1 from t where a is not distinct from b")
	is, ok := cond.(*ast.Is)
	require.True(t, ok)
	assert.Equal(t, ast.IsNotDistinctFrom, is.Target)
}

func TestExprFunctionCallWithDistinctAndArgs(t *testing.T) {
	cond := whereCondition(t, "select 1 from t where count(distinct a, b) = 1")
	bin := cond.(*ast.Binary)
	fc, ok := bin.Left.(*ast.FunctionCall)
	require.True(t, ok)
	assert.True(t, fc.Distinct)
	assert.Len(t, fc.Args, 2)
}

func TestExprCastDoubleColon(t *testing.T) {
	cond := whereCondition(t, "select 1 from t where a::int = 1")
	bin := cond.(*ast.Binary)
	cast, ok := bin.Left.(*ast.Cast)
	require.True(t, ok)
	assert.Equal(t, ast.CastDoubleColon, cast.Style)
	assert.Equal(t, "int", cast.Type.Name)
}

func TestExprSubscriptOnColumn(t *testing.T) {
	cond := whereCondition(t, "select 1 from t where a[1] = 1")
	bin := cond.(*ast.Binary)
	sub, ok := bin.Left.(*ast.Subscript)
	require.True(t, ok)
	lit, ok := sub.Index.(*ast.Literal)
	require.True(t, ok)
	assert.Equal(t, "1", lit.Raw)
}

func TestExprCaseSearchedForm(t *testing.T) {
	cond := whereCondition(t, "select 1 from t where (case when a = 1 then 2 else 3 end) = 2")
	paren := cond.(*ast.Binary).Left.(*ast.Paren)
	c, ok := paren.Inner.(*ast.Case)
	require.True(t, ok)
	assert.Nil(t, c.Subject)
	require.Len(t, c.Branches, 1)
	assert.NotNil(t, c.ElseValue)
}
