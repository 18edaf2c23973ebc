package visitor

import "github.com/mk3008/carbunqlex-go/ast"

// ApplyFunc is called once per node during Rewrite, after that node's
// children have already been rewritten. Returning a different value
// than was passed in replaces the node in its parent. Returning nil
// clears most single-node fields (SimpleSelect.Select keeps its original
// clause). Slices never shrink: a nil result for an expression element
// is stored as nil, and a nil result for a node element (select items,
// joins, common tables, VALUES rows) keeps the original element.
type ApplyFunc func(ast.Node) ast.Node

// Rewrite traverses node depth-first, rewriting children before the
// node itself, and returns the (possibly replaced) node.
func Rewrite(node ast.Node, f ApplyFunc) ast.Node {
	if node == nil {
		return nil
	}
	rewriteChildren(node, f)
	return f(node)
}

func rewriteQuery(q ast.Query, f ApplyFunc) ast.Query {
	if q == nil {
		return nil
	}
	result := Rewrite(q, f)
	if result == nil {
		return nil
	}
	return result.(ast.Query)
}

func rewriteExpr(e ast.Expr, f ApplyFunc) ast.Expr {
	if e == nil {
		return nil
	}
	result := Rewrite(e, f)
	if result == nil {
		return nil
	}
	return result.(ast.Expr)
}

func rewriteSource(s ast.Source, f ApplyFunc) ast.Source {
	if s == nil {
		return nil
	}
	result := Rewrite(s, f)
	if result == nil {
		return nil
	}
	return result.(ast.Source)
}

func rewriteOrderBy(ob *ast.OrderByClause, f ApplyFunc) {
	if ob == nil {
		return
	}
	for i, item := range ob.Items {
		ob.Items[i].Value = rewriteExpr(item.Value, f)
	}
}

func rewriteWindowSpec(w *ast.WindowSpec, f ApplyFunc) {
	if w == nil {
		return
	}
	for i, pb := range w.PartitionBy {
		w.PartitionBy[i] = rewriteExpr(pb, f)
	}
	rewriteOrderBy(w.OrderBy, f)
	if w.Frame != nil {
		if w.Frame.Start != nil {
			w.Frame.Start.Offset = rewriteExpr(w.Frame.Start.Offset, f)
		}
		if w.Frame.End != nil {
			w.Frame.End.Offset = rewriteExpr(w.Frame.End.Offset, f)
		}
	}
}

func rewriteChildren(node ast.Node, f ApplyFunc) {
	switch n := node.(type) {

	case *ast.SimpleSelect:
		if n.With != nil {
			if result := Rewrite(n.With, f); result != nil {
				n.With = result.(*ast.WithClause)
			} else {
				n.With = nil
			}
		}
		if n.Select != nil {
			if result := Rewrite(n.Select, f); result != nil {
				n.Select = result.(*ast.SelectClause)
			}
		}
		if n.From != nil {
			if result := Rewrite(n.From, f); result != nil {
				n.From = result.(*ast.FromClause)
			} else {
				n.From = nil
			}
		}
		if n.Where != nil {
			if result := Rewrite(n.Where, f); result != nil {
				n.Where = result.(*ast.WhereClause)
			} else {
				n.Where = nil
			}
		}
		if n.GroupBy != nil {
			if result := Rewrite(n.GroupBy, f); result != nil {
				n.GroupBy = result.(*ast.GroupByClause)
			} else {
				n.GroupBy = nil
			}
		}
		if n.Having != nil {
			if result := Rewrite(n.Having, f); result != nil {
				n.Having = result.(*ast.HavingClause)
			} else {
				n.Having = nil
			}
		}
		if n.Window != nil {
			if result := Rewrite(n.Window, f); result != nil {
				n.Window = result.(*ast.WindowClause)
			} else {
				n.Window = nil
			}
		}
		if n.OrderBy != nil {
			if result := Rewrite(n.OrderBy, f); result != nil {
				n.OrderBy = result.(*ast.OrderByClause)
			} else {
				n.OrderBy = nil
			}
		}
		if n.Limit != nil {
			n.Limit.Value = rewriteExpr(n.Limit.Value, f)
		}
		if n.Offset != nil {
			n.Offset.Value = rewriteExpr(n.Offset.Value, f)
		}
		if n.For != nil {
			if result := Rewrite(n.For, f); result != nil {
				n.For = result.(*ast.ForClause)
			} else {
				n.For = nil
			}
		}

	case *ast.BinarySelect:
		n.Left = rewriteQuery(n.Left, f)
		n.Right = rewriteQuery(n.Right, f)

	case *ast.ValuesQuery:
		for i, row := range n.Rows {
			if result := Rewrite(row, f); result != nil {
				n.Rows[i] = result.(*ast.ValuesRow)
			}
		}

	case *ast.ValuesRow:
		for i, item := range n.Items {
			n.Items[i] = rewriteExpr(item, f)
		}

	case *ast.WithClause:
		for i, ct := range n.Tables {
			if result := Rewrite(ct, f); result != nil {
				n.Tables[i] = result.(*ast.CommonTable)
			}
		}

	case *ast.CommonTable:
		n.Query = rewriteQuery(n.Query, f)

	case *ast.SelectClause:
		for i, val := range n.OnValues {
			n.OnValues[i] = rewriteExpr(val, f)
		}
		for i, item := range n.Items {
			if result := Rewrite(item, f); result != nil {
				n.Items[i] = result.(*ast.SelectItem)
			}
		}

	case *ast.SelectItem:
		n.Value = rewriteExpr(n.Value, f)

	case *ast.FromClause:
		if n.Source != nil {
			n.Source = rewriteSource(n.Source, f)
		}
		for i, j := range n.Joins {
			if result := Rewrite(j, f); result != nil {
				n.Joins[i] = result.(*ast.Join)
			}
		}

	case *ast.Join:
		if n.Source != nil {
			n.Source = rewriteSource(n.Source, f)
		}
		n.Condition = rewriteExpr(n.Condition, f)

	case *ast.WhereClause:
		n.Condition = rewriteExpr(n.Condition, f)

	case *ast.GroupByClause:
		for i, e := range n.Items {
			n.Items[i] = rewriteExpr(e, f)
		}

	case *ast.HavingClause:
		n.Condition = rewriteExpr(n.Condition, f)

	case *ast.WindowClause:
		for _, nw := range n.Defs {
			rewriteWindowSpec(nw.Spec, f)
		}

	case *ast.OrderByClause:
		rewriteOrderBy(n, f)

	case *ast.ForClause:
		// leaf

	case *ast.TableSource:
		// leaf

	case *ast.SubQuerySource:
		n.Query = rewriteQuery(n.Query, f)

	case *ast.FunctionSource:
		for i, a := range n.Args {
			n.Args[i] = rewriteExpr(a, f)
		}

	case *ast.ParenSource:
		if n.Inner != nil {
			n.Inner = rewriteSource(n.Inner, f)
		}

	case *ast.ColumnRef:
		// leaf

	case *ast.Literal:
		// leaf

	case *ast.Parameter:
		// leaf

	case *ast.Binary:
		n.Left = rewriteExpr(n.Left, f)
		n.Right = rewriteExpr(n.Right, f)

	case *ast.Unary:
		n.Operand = rewriteExpr(n.Operand, f)

	case *ast.Paren:
		n.Inner = rewriteExpr(n.Inner, f)

	case *ast.FunctionCall:
		for i, a := range n.Args {
			n.Args[i] = rewriteExpr(a, f)
		}
		rewriteOrderBy(n.OrderBy, f)
		n.FilterWhere = rewriteExpr(n.FilterWhere, f)
		rewriteWindowSpec(n.OverWindow, f)
		rewriteOrderBy(n.WithinGroup, f)

	case *ast.Case:
		n.Subject = rewriteExpr(n.Subject, f)
		for i, b := range n.Branches {
			n.Branches[i].When = rewriteExpr(b.When, f)
			n.Branches[i].Then = rewriteExpr(b.Then, f)
		}
		n.ElseValue = rewriteExpr(n.ElseValue, f)

	case *ast.Between:
		n.Value = rewriteExpr(n.Value, f)
		n.Low = rewriteExpr(n.Low, f)
		n.High = rewriteExpr(n.High, f)

	case *ast.In:
		n.Value = rewriteExpr(n.Value, f)
		for i, val := range n.List {
			n.List[i] = rewriteExpr(val, f)
		}
		n.Subquery = rewriteQuery(n.Subquery, f)

	case *ast.Is:
		n.Value = rewriteExpr(n.Value, f)
		n.Other = rewriteExpr(n.Other, f)

	case *ast.Like:
		n.Value = rewriteExpr(n.Value, f)
		n.Pattern = rewriteExpr(n.Pattern, f)
		n.Escape = rewriteExpr(n.Escape, f)

	case *ast.Cast:
		n.Value = rewriteExpr(n.Value, f)

	case *ast.Array:
		for i, e := range n.Elements {
			n.Elements[i] = rewriteExpr(e, f)
		}

	case *ast.Interval:
		n.Literal = rewriteExpr(n.Literal, f)

	case *ast.Extract:
		n.From = rewriteExpr(n.From, f)

	case *ast.Position:
		n.Needle = rewriteExpr(n.Needle, f)
		n.Haystack = rewriteExpr(n.Haystack, f)

	case *ast.Substring:
		n.Target = rewriteExpr(n.Target, f)
		n.From = rewriteExpr(n.From, f)
		n.For = rewriteExpr(n.For, f)
		n.Pattern = rewriteExpr(n.Pattern, f)
		n.Escape = rewriteExpr(n.Escape, f)

	case *ast.Trim:
		n.Characters = rewriteExpr(n.Characters, f)
		n.Target = rewriteExpr(n.Target, f)

	case *ast.Overlay:
		n.Target = rewriteExpr(n.Target, f)
		n.Placing = rewriteExpr(n.Placing, f)
		n.From = rewriteExpr(n.From, f)
		n.For = rewriteExpr(n.For, f)

	case *ast.AtTimeZone:
		n.Value = rewriteExpr(n.Value, f)
		n.Zone = rewriteExpr(n.Zone, f)

	case *ast.InlineQuery:
		n.Query = rewriteQuery(n.Query, f)

	case *ast.Exists:
		n.Subquery = rewriteQuery(n.Subquery, f)

	case *ast.Collate:
		n.Value = rewriteExpr(n.Value, f)

	case *ast.Subscript:
		n.Value = rewriteExpr(n.Value, f)
		n.Index = rewriteExpr(n.Index, f)
	}
}

// RewriteExpr is a convenience wrapper for callers that only rewrite
// expression nodes.
func RewriteExpr(expr ast.Expr, f func(ast.Expr) ast.Expr) ast.Expr {
	result := Rewrite(expr, func(n ast.Node) ast.Node {
		if e, ok := n.(ast.Expr); ok {
			return f(e)
		}
		return n
	})
	if result == nil {
		return nil
	}
	return result.(ast.Expr)
}
