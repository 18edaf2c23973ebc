package transform

import (
	"testing"

	"github.com/mk3008/carbunqlex-go/ast"
	"github.com/mk3008/carbunqlex-go/parser"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func withClauseOf(t *testing.T, sql string) *ast.WithClause {
	t.Helper()
	p := parser.New(sql)
	q, err := p.ParseQuery()
	require.NoError(t, err)
	sel, ok := q.(*ast.SimpleSelect)
	require.True(t, ok, "expected a SimpleSelect, got %T", q)
	require.NotNil(t, sel.With, "query has no WITH clause")
	return sel.With
}

func TestBuildCTEGraphLinearChain(t *testing.T) {
	with := withClauseOf(t, `
		with a as (select id from raw),
		     b as (select id from a),
		     c as (select id from b)
		select id from c`)

	g := BuildCTEGraph(with)
	assert.Equal(t, []string{"a", "b", "c"}, g.Names())
	assert.Empty(t, g.Edges("a"), "a references only the physical table raw")
	assert.Equal(t, []string{"a"}, g.Edges("b"))
	assert.Equal(t, []string{"b"}, g.Edges("c"))
}

func TestBuildCTEGraphLeafNamesExcludesReferencedCTEs(t *testing.T) {
	with := withClauseOf(t, `
		with a as (select id from raw),
		     b as (select id from a)
		select id from a join b on a.id = b.id`)

	g := BuildCTEGraph(with)
	// b depends on a, so a is not a leaf even though the outer query also
	// references it directly; b is a leaf since nothing else depends on it.
	assert.ElementsMatch(t, []string{"b"}, g.LeafNames())
}

func TestBuildCTEGraphTopologicalOrderRespectsDependencies(t *testing.T) {
	with := withClauseOf(t, `
		with a as (select id from raw),
		     b as (select id from a),
		     c as (select a.id from a join b on a.id = b.id)
		select id from c`)

	g := BuildCTEGraph(with)
	order, ok := g.TopologicalOrder()
	require.True(t, ok)

	pos := make(map[string]int, len(order))
	for i, name := range order {
		pos[name] = i
	}
	assert.Less(t, pos["a"], pos["b"], "a must be emitted before b")
	assert.Less(t, pos["b"], pos["c"], "b must be emitted before c")
}

func TestBuildCTEGraphValuesQueryAsSourceIsNotAReference(t *testing.T) {
	with := withClauseOf(t, `with a as (values (1), (2)) select * from a, (values (3)) as v(n)`)

	g := BuildCTEGraph(with)
	assert.Empty(t, g.Edges("a"), "a VALUES body references no sibling CTE")
}

func TestBuildCTEGraphNestedWithClauseShadowsOuterScope(t *testing.T) {
	with := withClauseOf(t, `
		with a as (select id from raw)
		select * from (
			with a as (select id from other)
			select id from a
		) sub`)

	g := BuildCTEGraph(with)
	// the outer "a" is never referenced: the subquery's own WITH clause
	// redeclares "a" and shadows the outer one for its body.
	assert.ElementsMatch(t, []string{"a"}, g.LeafNames())
}

func TestCTEGraphHasCycleDetectsSelfReference(t *testing.T) {
	with := withClauseOf(t, `with recursive a as (select id from a) select id from a`)

	g := BuildCTEGraph(with)
	assert.True(t, g.HasCycle())
	_, ok := g.TopologicalOrder()
	assert.False(t, ok)
}
