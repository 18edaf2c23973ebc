// Package transform holds tree-in, tree-out passes over a parsed query.
// The CTE dependency tracer is the representative transformer: it builds a
// directed graph over the common table expressions declared in one
// WithClause and answers which are leaves, what order they can be emitted
// in, and whether the graph is actually a DAG.
package transform

import (
	"sort"

	"github.com/mk3008/carbunqlex-go/ast"
)

// CTEGraph is a directed dependency graph over the CTE names declared in a
// single WithClause: an edge A -> B exists iff A's body references B as a
// source. A self-loop (A -> A) represents a recursive CTE referencing
// itself.
type CTEGraph struct {
	names []string
	edges map[string][]string
}

// BuildCTEGraph walks each common table's body and records which sibling
// CTEs it references. Reference detection is syntactic: an unqualified
// TableSource name equal to a CTE alias in scope counts as a reference. A
// nested WithClause shadows/extends the enclosing scope for its own body
// and the query that follows it.
func BuildCTEGraph(with *ast.WithClause) *CTEGraph {
	scope := make(map[string]bool, len(with.Tables))
	for _, ct := range with.Tables {
		scope[ct.Alias] = true
	}

	g := &CTEGraph{edges: make(map[string][]string, len(with.Tables))}
	for _, ct := range with.Tables {
		g.names = append(g.names, ct.Alias)
		refs := map[string]bool{}
		scanQuery(ct.Query, scope, refs)
		deps := make([]string, 0, len(refs))
		for name := range refs {
			deps = append(deps, name)
		}
		sort.Strings(deps)
		g.edges[ct.Alias] = deps
	}
	return g
}

// Names returns the CTE names in declaration order.
func (g *CTEGraph) Names() []string { return g.names }

// Edges returns the names ct references.
func (g *CTEGraph) Edges(ct string) []string { return g.edges[ct] }

// LeafNames returns the CTEs no other CTE in the graph references: the
// full-graph leaf-ness rule. A CTE referenced only by the outer query, or
// not referenced at all, is a leaf; a CTE referenced by a sibling CTE is
// not, even if the outer query also references it directly.
func (g *CTEGraph) LeafNames() []string {
	referenced := make(map[string]bool, len(g.names))
	for _, from := range g.names {
		for _, to := range g.edges[from] {
			if to != from {
				referenced[to] = true
			}
		}
	}
	var leaves []string
	for _, name := range g.names {
		if !referenced[name] {
			leaves = append(leaves, name)
		}
	}
	return leaves
}

// TopologicalOrder returns the CTE names ordered so each name appears
// after every CTE its body references. ok is false when the graph has a
// cycle, including a CTE that references itself.
func (g *CTEGraph) TopologicalOrder() (order []string, ok bool) {
	const (
		white = iota
		gray
		black
	)
	color := make(map[string]int, len(g.names))
	order = make([]string, 0, len(g.names))

	var visit func(name string) bool
	visit = func(name string) bool {
		switch color[name] {
		case gray:
			return false
		case black:
			return true
		}
		color[name] = gray
		for _, dep := range g.edges[name] {
			if !visit(dep) {
				return false
			}
		}
		color[name] = black
		order = append(order, name)
		return true
	}

	for _, name := range g.names {
		if !visit(name) {
			return nil, false
		}
	}
	return order, true
}

// HasCycle reports whether the graph contains a cycle.
func (g *CTEGraph) HasCycle() bool {
	_, ok := g.TopologicalOrder()
	return !ok
}

func scanQuery(q ast.Query, scope map[string]bool, refs map[string]bool) {
	if q == nil {
		return
	}
	switch n := q.(type) {
	case *ast.SimpleSelect:
		effective := scope
		if n.With != nil {
			effective = shadowScope(scope, n.With)
			for _, ct := range n.With.Tables {
				scanQuery(ct.Query, effective, refs)
			}
		}
		if n.Select != nil {
			for _, item := range n.Select.Items {
				scanExpr(item.Value, effective, refs)
			}
			for _, v := range n.Select.OnValues {
				scanExpr(v, effective, refs)
			}
		}
		if n.From != nil {
			scanSource(n.From.Source, effective, refs)
			for _, j := range n.From.Joins {
				scanSource(j.Source, effective, refs)
				scanExpr(j.Condition, effective, refs)
			}
		}
		if n.Where != nil {
			scanExpr(n.Where.Condition, effective, refs)
		}
		if n.GroupBy != nil {
			for _, e := range n.GroupBy.Items {
				scanExpr(e, effective, refs)
			}
		}
		if n.Having != nil {
			scanExpr(n.Having.Condition, effective, refs)
		}
		if n.OrderBy != nil {
			for _, item := range n.OrderBy.Items {
				scanExpr(item.Value, effective, refs)
			}
		}
		if n.Limit != nil {
			scanExpr(n.Limit.Value, effective, refs)
		}
		if n.Offset != nil {
			scanExpr(n.Offset.Value, effective, refs)
		}
	case *ast.BinarySelect:
		scanQuery(n.Left, scope, refs)
		scanQuery(n.Right, scope, refs)
	case *ast.ValuesQuery:
		for _, row := range n.Rows {
			for _, item := range row.Items {
				scanExpr(item, scope, refs)
			}
		}
	}
}

// shadowScope returns a scope extending parent with with's own CTE names,
// redeclaring (and so shadowing) any name parent already defines: those
// names map to false, so a reference to them is not recorded as a
// reference to the enclosing clause's CTEs.
func shadowScope(parent map[string]bool, with *ast.WithClause) map[string]bool {
	next := make(map[string]bool, len(parent)+len(with.Tables))
	for name, inScope := range parent {
		next[name] = inScope
	}
	for _, ct := range with.Tables {
		next[ct.Alias] = false
	}
	return next
}

func scanSource(s ast.Source, scope map[string]bool, refs map[string]bool) {
	if s == nil {
		return
	}
	switch n := s.(type) {
	case *ast.TableSource:
		if len(n.Qualifiers) == 0 && scope[n.Name] {
			refs[n.Name] = true
		}
	case *ast.SubQuerySource:
		scanQuery(n.Query, scope, refs)
	case *ast.FunctionSource:
		for _, a := range n.Args {
			scanExpr(a, scope, refs)
		}
	case *ast.ParenSource:
		scanSource(n.Inner, scope, refs)
	case *ast.ValuesQuery:
		scanQuery(n, scope, refs)
	}
}

func scanExpr(e ast.Expr, scope map[string]bool, refs map[string]bool) {
	if e == nil {
		return
	}
	switch n := e.(type) {
	case *ast.Binary:
		scanExpr(n.Left, scope, refs)
		scanExpr(n.Right, scope, refs)
	case *ast.Unary:
		scanExpr(n.Operand, scope, refs)
	case *ast.Paren:
		scanExpr(n.Inner, scope, refs)
	case *ast.FunctionCall:
		for _, a := range n.Args {
			scanExpr(a, scope, refs)
		}
		scanExpr(n.FilterWhere, scope, refs)
		scanOrderBy(n.OrderBy, scope, refs)
		scanOrderBy(n.WithinGroup, scope, refs)
		if n.OverWindow != nil {
			for _, pb := range n.OverWindow.PartitionBy {
				scanExpr(pb, scope, refs)
			}
			scanOrderBy(n.OverWindow.OrderBy, scope, refs)
		}
	case *ast.Case:
		scanExpr(n.Subject, scope, refs)
		for _, b := range n.Branches {
			scanExpr(b.When, scope, refs)
			scanExpr(b.Then, scope, refs)
		}
		scanExpr(n.ElseValue, scope, refs)
	case *ast.Between:
		scanExpr(n.Value, scope, refs)
		scanExpr(n.Low, scope, refs)
		scanExpr(n.High, scope, refs)
	case *ast.In:
		scanExpr(n.Value, scope, refs)
		for _, v := range n.List {
			scanExpr(v, scope, refs)
		}
		scanQuery(n.Subquery, scope, refs)
	case *ast.Is:
		scanExpr(n.Value, scope, refs)
		scanExpr(n.Other, scope, refs)
	case *ast.Like:
		scanExpr(n.Value, scope, refs)
		scanExpr(n.Pattern, scope, refs)
		scanExpr(n.Escape, scope, refs)
	case *ast.Cast:
		scanExpr(n.Value, scope, refs)
	case *ast.Array:
		for _, el := range n.Elements {
			scanExpr(el, scope, refs)
		}
	case *ast.Interval:
		scanExpr(n.Literal, scope, refs)
	case *ast.Extract:
		scanExpr(n.From, scope, refs)
	case *ast.Position:
		scanExpr(n.Needle, scope, refs)
		scanExpr(n.Haystack, scope, refs)
	case *ast.Substring:
		scanExpr(n.Target, scope, refs)
		scanExpr(n.From, scope, refs)
		scanExpr(n.For, scope, refs)
		scanExpr(n.Pattern, scope, refs)
		scanExpr(n.Escape, scope, refs)
	case *ast.Trim:
		scanExpr(n.Characters, scope, refs)
		scanExpr(n.Target, scope, refs)
	case *ast.Overlay:
		scanExpr(n.Target, scope, refs)
		scanExpr(n.Placing, scope, refs)
		scanExpr(n.From, scope, refs)
		scanExpr(n.For, scope, refs)
	case *ast.AtTimeZone:
		scanExpr(n.Value, scope, refs)
		scanExpr(n.Zone, scope, refs)
	case *ast.InlineQuery:
		scanQuery(n.Query, scope, refs)
	case *ast.Exists:
		scanQuery(n.Subquery, scope, refs)
	case *ast.Collate:
		scanExpr(n.Value, scope, refs)
	case *ast.Subscript:
		scanExpr(n.Value, scope, refs)
		scanExpr(n.Index, scope, refs)
	}
}

func scanOrderBy(ob *ast.OrderByClause, scope map[string]bool, refs map[string]bool) {
	if ob == nil {
		return
	}
	for _, item := range ob.Items {
		scanExpr(item.Value, scope, refs)
	}
}
