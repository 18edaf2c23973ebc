package ast

import "github.com/mk3008/carbunqlex-go/token"

// TableSource is a reference to a physical (or, pending scope resolution, a
// CTE) table, with optional qualifiers and alias.
type TableSource struct {
	StartPos      token.Pos
	EndPos        token.Pos
	Qualifiers    []string // schema/catalog qualifiers, outermost first
	Name          string
	Alias         string
	ColumnAliases []string
}

func (*TableSource) sourceNode()      {}
func (t *TableSource) Pos() token.Pos { return t.StartPos }
func (t *TableSource) End() token.Pos { return t.EndPos }

// SubQuerySource is a derived table: `(SELECT ...) AS alias(col,...)`.
type SubQuerySource struct {
	StartPos      token.Pos
	EndPos        token.Pos
	Query         Query
	Alias         string
	ColumnAliases []string
}

func (*SubQuerySource) sourceNode()      {}
func (s *SubQuerySource) Pos() token.Pos { return s.StartPos }
func (s *SubQuerySource) End() token.Pos { return s.EndPos }

// FunctionSource is a table-valued function reference in a FROM clause,
// e.g. `generate_series(1, 10) AS g(n)`.
type FunctionSource struct {
	StartPos token.Pos
	EndPos   token.Pos
	Name     string
	Args     []Expr
	Alias    string
}

func (*FunctionSource) sourceNode()      {}
func (f *FunctionSource) Pos() token.Pos { return f.StartPos }
func (f *FunctionSource) End() token.Pos { return f.EndPos }

// ParenSource is a parenthesized source, used to group a join chain so it
// can be joined against as a unit: `(a JOIN b ON ...) JOIN c ON ...`. Not
// named directly in the grammar's node list, but required to express
// grouped joins; shaped after the teacher's ParenTableExpr.
type ParenSource struct {
	StartPos token.Pos
	EndPos   token.Pos
	Inner    Source
}

func (*ParenSource) sourceNode()      {}
func (p *ParenSource) Pos() token.Pos { return p.StartPos }
func (p *ParenSource) End() token.Pos { return p.EndPos }
