package ast

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSelectItemDisplayNamePrefersAlias(t *testing.T) {
	item := &SelectItem{Value: &ColumnRef{Name: "id"}, Alias: "user_id"}
	name, ok := item.DisplayName()
	assert.True(t, ok)
	assert.Equal(t, "user_id", name)
}

func TestSelectItemDisplayNameFallsBackToColumnName(t *testing.T) {
	item := &SelectItem{Value: &ColumnRef{Name: "id"}}
	name, ok := item.DisplayName()
	assert.True(t, ok)
	assert.Equal(t, "id", name)
}

func TestSelectItemDisplayNameIsAbsentForWildcard(t *testing.T) {
	item := &SelectItem{Value: &ColumnRef{Wildcard: true}}
	_, ok := item.DisplayName()
	assert.False(t, ok)
}

func TestSelectItemDisplayNameIsAbsentForComputedExpression(t *testing.T) {
	item := &SelectItem{Value: &Binary{Left: &ColumnRef{Name: "a"}, Right: &ColumnRef{Name: "b"}}}
	_, ok := item.DisplayName()
	assert.False(t, ok)
}

func TestSetOpKindString(t *testing.T) {
	assert.Equal(t, "union all", SetOpUnionAll.String())
	assert.Equal(t, "except", SetOpExcept.String())
}
