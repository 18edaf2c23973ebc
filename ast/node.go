// Package ast defines the abstract syntax tree for the SELECT/VALUES grammar
// and its expression sub-grammar.
package ast

import "github.com/mk3008/carbunqlex-go/token"

// Node is the base interface implemented by every AST node.
type Node interface {
	Pos() token.Pos
	End() token.Pos
}

// Query is a top-level query: SimpleSelect, BinarySelect, or ValuesQuery.
type Query interface {
	Node
	queryNode()
}

// Expr is a value-producing expression node.
type Expr interface {
	Node
	exprNode()
}

// Source is a FROM-clause table source: TableSource, SubQuerySource,
// FunctionSource, ParenSource, or ValuesQuery.
type Source interface {
	Node
	sourceNode()
}
