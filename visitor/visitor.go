// Package visitor provides AST traversal and rewriting utilities.
package visitor

import "github.com/mk3008/carbunqlex-go/ast"

// Visitor is the interface for AST traversal.
type Visitor interface {
	Visit(node ast.Node) Visitor
}

// Walk traverses an AST in depth-first order.
func Walk(v Visitor, node ast.Node) {
	if node == nil {
		return
	}
	if v = v.Visit(node); v == nil {
		return
	}
	walkChildren(v, node)
}

func walkQuery(v Visitor, q ast.Query) {
	if q == nil {
		return
	}
	Walk(v, q)
}

func walkExpr(v Visitor, e ast.Expr) {
	if e == nil {
		return
	}
	Walk(v, e)
}

func walkOrderBy(v Visitor, ob *ast.OrderByClause) {
	if ob == nil {
		return
	}
	for _, item := range ob.Items {
		walkExpr(v, item.Value)
	}
}

func walkWindowSpec(v Visitor, w *ast.WindowSpec) {
	if w == nil {
		return
	}
	for _, pb := range w.PartitionBy {
		walkExpr(v, pb)
	}
	walkOrderBy(v, w.OrderBy)
	if w.Frame != nil {
		if w.Frame.Start != nil {
			walkExpr(v, w.Frame.Start.Offset)
		}
		if w.Frame.End != nil {
			walkExpr(v, w.Frame.End.Offset)
		}
	}
}

func walkChildren(v Visitor, node ast.Node) {
	switch n := node.(type) {

	// Queries
	case *ast.SimpleSelect:
		if n.With != nil {
			Walk(v, n.With)
		}
		if n.Select != nil {
			Walk(v, n.Select)
		}
		if n.From != nil {
			Walk(v, n.From)
		}
		if n.Where != nil {
			Walk(v, n.Where)
		}
		if n.GroupBy != nil {
			Walk(v, n.GroupBy)
		}
		if n.Having != nil {
			Walk(v, n.Having)
		}
		if n.Window != nil {
			Walk(v, n.Window)
		}
		if n.OrderBy != nil {
			Walk(v, n.OrderBy)
		}
		if n.Limit != nil {
			walkExpr(v, n.Limit.Value)
		}
		if n.Offset != nil {
			walkExpr(v, n.Offset.Value)
		}
		if n.For != nil {
			Walk(v, n.For)
		}

	case *ast.BinarySelect:
		walkQuery(v, n.Left)
		walkQuery(v, n.Right)

	case *ast.ValuesQuery:
		for _, row := range n.Rows {
			Walk(v, row)
		}

	case *ast.ValuesRow:
		for _, item := range n.Items {
			walkExpr(v, item)
		}

	case *ast.WithClause:
		for _, ct := range n.Tables {
			Walk(v, ct)
		}

	case *ast.CommonTable:
		walkQuery(v, n.Query)

	// Clauses
	case *ast.SelectClause:
		for _, val := range n.OnValues {
			walkExpr(v, val)
		}
		for _, item := range n.Items {
			Walk(v, item)
		}

	case *ast.SelectItem:
		walkExpr(v, n.Value)

	case *ast.FromClause:
		if n.Source != nil {
			Walk(v, n.Source)
		}
		for _, j := range n.Joins {
			Walk(v, j)
		}

	case *ast.Join:
		if n.Source != nil {
			Walk(v, n.Source)
		}
		walkExpr(v, n.Condition)

	case *ast.WhereClause:
		walkExpr(v, n.Condition)

	case *ast.GroupByClause:
		for _, e := range n.Items {
			walkExpr(v, e)
		}

	case *ast.HavingClause:
		walkExpr(v, n.Condition)

	case *ast.WindowClause:
		for _, nw := range n.Defs {
			walkWindowSpec(v, nw.Spec)
		}

	case *ast.OrderByClause:
		for _, item := range n.Items {
			walkExpr(v, item.Value)
		}

	// Sources
	case *ast.ForClause:
		// leaf: mode/tables/wait are plain values

	case *ast.TableSource:
		// no child nodes: qualifiers/name/alias are plain strings

	case *ast.SubQuerySource:
		walkQuery(v, n.Query)

	case *ast.FunctionSource:
		for _, a := range n.Args {
			walkExpr(v, a)
		}

	case *ast.ParenSource:
		if n.Inner != nil {
			Walk(v, n.Inner)
		}

	// Expressions
	case *ast.ColumnRef:
		// parts are strings, nothing to walk

	case *ast.Literal:
		// leaf

	case *ast.Parameter:
		// leaf

	case *ast.Binary:
		walkExpr(v, n.Left)
		walkExpr(v, n.Right)

	case *ast.Unary:
		walkExpr(v, n.Operand)

	case *ast.Paren:
		walkExpr(v, n.Inner)

	case *ast.FunctionCall:
		for _, a := range n.Args {
			walkExpr(v, a)
		}
		walkOrderBy(v, n.OrderBy)
		walkExpr(v, n.FilterWhere)
		walkWindowSpec(v, n.OverWindow)
		walkOrderBy(v, n.WithinGroup)

	case *ast.Case:
		walkExpr(v, n.Subject)
		for _, b := range n.Branches {
			walkExpr(v, b.When)
			walkExpr(v, b.Then)
		}
		walkExpr(v, n.ElseValue)

	case *ast.Between:
		walkExpr(v, n.Value)
		walkExpr(v, n.Low)
		walkExpr(v, n.High)

	case *ast.In:
		walkExpr(v, n.Value)
		for _, val := range n.List {
			walkExpr(v, val)
		}
		walkQuery(v, n.Subquery)

	case *ast.Is:
		walkExpr(v, n.Value)
		walkExpr(v, n.Other)

	case *ast.Like:
		walkExpr(v, n.Value)
		walkExpr(v, n.Pattern)
		walkExpr(v, n.Escape)

	case *ast.Cast:
		walkExpr(v, n.Value)

	case *ast.Array:
		for _, e := range n.Elements {
			walkExpr(v, e)
		}

	case *ast.Interval:
		walkExpr(v, n.Literal)

	case *ast.Extract:
		walkExpr(v, n.From)

	case *ast.Position:
		walkExpr(v, n.Needle)
		walkExpr(v, n.Haystack)

	case *ast.Substring:
		walkExpr(v, n.Target)
		walkExpr(v, n.From)
		walkExpr(v, n.For)
		walkExpr(v, n.Pattern)
		walkExpr(v, n.Escape)

	case *ast.Trim:
		walkExpr(v, n.Characters)
		walkExpr(v, n.Target)

	case *ast.Overlay:
		walkExpr(v, n.Target)
		walkExpr(v, n.Placing)
		walkExpr(v, n.From)
		walkExpr(v, n.For)

	case *ast.AtTimeZone:
		walkExpr(v, n.Value)
		walkExpr(v, n.Zone)

	case *ast.InlineQuery:
		walkQuery(v, n.Query)

	case *ast.Exists:
		walkQuery(v, n.Subquery)

	case *ast.Collate:
		walkExpr(v, n.Value)

	case *ast.Subscript:
		walkExpr(v, n.Value)
		walkExpr(v, n.Index)
	}
}

// WalkFunc is a convenience wrapper that calls a function for each node.
func WalkFunc(node ast.Node, fn func(ast.Node) bool) {
	Walk(&funcVisitor{fn: fn}, node)
}

type funcVisitor struct {
	fn func(ast.Node) bool
}

func (v *funcVisitor) Visit(node ast.Node) Visitor {
	if v.fn(node) {
		return v
	}
	return nil
}

// Inspect calls f for each node in the AST.
// If f returns false, children are not visited.
func Inspect(node ast.Node, f func(ast.Node) bool) {
	WalkFunc(node, f)
}
