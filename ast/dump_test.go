package ast

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDumpIncludesFieldValues(t *testing.T) {
	col := &ColumnRef{Name: "id"}
	out := Dump(col)
	assert.Contains(t, out, "ColumnRef")
	assert.Contains(t, out, "id")
}

func TestDumpOmitsEmptyFields(t *testing.T) {
	col := &ColumnRef{Name: "id"} // Qualifiers left nil
	out := Dump(col)
	assert.NotContains(t, out, "Qualifiers")
}
