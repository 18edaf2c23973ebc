package ast

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGetColumnRefReturnsZeroedNode(t *testing.T) {
	c := GetColumnRef()
	c.Name = "id"
	c.Wildcard = true
	ReleaseColumnRef(c)

	c2 := GetColumnRef()
	assert.Equal(t, "", c2.Name)
	assert.False(t, c2.Wildcard)
}

func TestReleaseColumnRefNilIsNoop(t *testing.T) {
	assert.NotPanics(t, func() { ReleaseColumnRef(nil) })
}

func TestGetExprSliceIsZeroLengthAndReusable(t *testing.T) {
	s := GetExprSlice()
	assert.Empty(t, s)
	s = append(s, GetLiteral())
	ReleaseExprSlice(s)

	s2 := GetExprSlice()
	assert.Empty(t, s2)
}

func TestReleaseASTRecursesThroughBinary(t *testing.T) {
	left := GetColumnRef()
	left.Name = "id"
	right := GetLiteral()
	right.Raw = "1"
	b := GetBinary()
	b.Left = left
	b.Right = right

	assert.NotPanics(t, func() { ReleaseAST(b) })
}

func TestReleaseASTOnNilInterfaceIsNoop(t *testing.T) {
	var q Query
	assert.NotPanics(t, func() { ReleaseAST(q) })
}

func TestReleaseASTOnTypedNilPointerIsNoop(t *testing.T) {
	var s *SimpleSelect
	assert.NotPanics(t, func() { ReleaseAST(s) })
}
