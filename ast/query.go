package ast

import "github.com/mk3008/carbunqlex-go/token"

// SimpleSelect is a single SELECT...FROM...WHERE... query body.
type SimpleSelect struct {
	StartPos token.Pos
	EndPos   token.Pos
	With     *WithClause
	Select   *SelectClause
	From     *FromClause
	Where    *WhereClause
	GroupBy  *GroupByClause
	Having   *HavingClause
	Window   *WindowClause
	OrderBy  *OrderByClause
	Limit    *LimitClause
	Offset   *OffsetClause
	For      *ForClause
}

func (*SimpleSelect) queryNode()        {}
func (s *SimpleSelect) Pos() token.Pos { return s.StartPos }
func (s *SimpleSelect) End() token.Pos { return s.EndPos }

// SetOpKind identifies a binary set operator.
type SetOpKind int

const (
	SetOpUnion SetOpKind = iota
	SetOpUnionAll
	SetOpIntersect
	SetOpIntersectAll
	SetOpExcept
	SetOpExceptAll
)

func (k SetOpKind) String() string {
	switch k {
	case SetOpUnion:
		return "union"
	case SetOpUnionAll:
		return "union all"
	case SetOpIntersect:
		return "intersect"
	case SetOpIntersectAll:
		return "intersect all"
	case SetOpExcept:
		return "except"
	case SetOpExceptAll:
		return "except all"
	default:
		return "unknown"
	}
}

// BinarySelect is a UNION/INTERSECT/EXCEPT combination of two queries.
// Chains of set operators are left-associative: `a UNION b UNION c` parses
// as BinarySelect{Left: BinarySelect{a,b}, Right: c}.
type BinarySelect struct {
	StartPos token.Pos
	EndPos   token.Pos
	Op       SetOpKind
	Left     Query
	Right    Query
}

func (*BinarySelect) queryNode()        {}
func (b *BinarySelect) Pos() token.Pos { return b.StartPos }
func (b *BinarySelect) End() token.Pos { return b.EndPos }

// ValuesQuery is a standalone VALUES (...), (...) query.
type ValuesQuery struct {
	StartPos token.Pos
	EndPos   token.Pos
	Rows     []*ValuesRow
}

func (*ValuesQuery) queryNode()        {}
func (*ValuesQuery) sourceNode()       {} // VALUES may also appear as a FROM source
func (v *ValuesQuery) Pos() token.Pos { return v.StartPos }
func (v *ValuesQuery) End() token.Pos { return v.EndPos }

// ValuesRow is one row of a VALUES query. Rows need not be rectangular;
// the parser does not validate shape.
type ValuesRow struct {
	StartPos token.Pos
	EndPos   token.Pos
	Items    []Expr
}

func (r *ValuesRow) Pos() token.Pos { return r.StartPos }
func (r *ValuesRow) End() token.Pos { return r.EndPos }

// WithClause is an optional leading WITH [RECURSIVE] clause.
type WithClause struct {
	StartPos  token.Pos
	EndPos    token.Pos
	Recursive bool
	Tables    []*CommonTable
}

func (w *WithClause) Pos() token.Pos { return w.StartPos }
func (w *WithClause) End() token.Pos { return w.EndPos }

// Materialized is a tri-state flag for CTE materialization hints.
type Materialized int

const (
	MaterializedUnspecified Materialized = iota
	MaterializedYes
	MaterializedNo
)

// CommonTable is a single entry of a WITH clause: `alias [(cols)] AS
// [[NOT] MATERIALIZED] (query)`.
type CommonTable struct {
	StartPos      token.Pos
	EndPos        token.Pos
	Alias         string
	ColumnAliases []string
	Query         Query
	Materialized  Materialized
}

func (c *CommonTable) Pos() token.Pos { return c.StartPos }
func (c *CommonTable) End() token.Pos { return c.EndPos }

// DistinctKind identifies the form of DISTINCT on a SelectClause.
type DistinctKind int

const (
	DistinctNone DistinctKind = iota
	DistinctAll
	DistinctOn
)

// SelectClause is the SELECT list with an optional DISTINCT/DISTINCT ON.
type SelectClause struct {
	StartPos   token.Pos
	EndPos     token.Pos
	Distinct   DistinctKind
	OnValues   []Expr // populated when Distinct == DistinctOn
	Items      []*SelectItem
}

func (s *SelectClause) Pos() token.Pos { return s.StartPos }
func (s *SelectClause) End() token.Pos { return s.EndPos }

// SelectItem is one projected value, with an optional alias. Wildcard
// projections are represented by a ColumnRef: `*` with Wildcard set, `t.*`
// with QualifiedWildcard set and `t` in Qualifiers.
type SelectItem struct {
	StartPos token.Pos
	EndPos   token.Pos
	Value    Expr
	Alias    string
}

func (s *SelectItem) Pos() token.Pos { return s.StartPos }
func (s *SelectItem) End() token.Pos { return s.EndPos }

// DisplayName returns the item's alias, or — for an alias-less item whose
// value is a plain column reference — that column's identifier. Items that
// are neither aliased nor a plain column reference have no stable name.
func (s *SelectItem) DisplayName() (string, bool) {
	if s.Alias != "" {
		return s.Alias, true
	}
	if ref, ok := s.Value.(*ColumnRef); ok && !ref.Wildcard && !ref.QualifiedWildcard {
		return ref.Name, true
	}
	return "", false
}

// JoinKind identifies the kind of join between two sources.
type JoinKind int

const (
	JoinInner JoinKind = iota
	JoinLeft
	JoinRight
	JoinFull
	JoinCross
	JoinNaturalInner
	JoinNaturalLeft
	JoinNaturalRight
	JoinNaturalFull
)

// FromClause is the FROM clause: a leading source followed by zero or more
// joins applied left to right.
type FromClause struct {
	StartPos token.Pos
	EndPos   token.Pos
	Source   Source
	Joins    []*Join
}

func (f *FromClause) Pos() token.Pos { return f.StartPos }
func (f *FromClause) End() token.Pos { return f.EndPos }

// Join is one join-prefix entry in a FromClause.
type Join struct {
	StartPos  token.Pos
	EndPos    token.Pos
	Kind      JoinKind
	Lateral   bool
	Source    Source
	Condition Expr     // ON condition (mutually exclusive with Using)
	Using     []string // USING(columns)
}

func (j *Join) Pos() token.Pos { return j.StartPos }
func (j *Join) End() token.Pos { return j.EndPos }

// WhereClause holds the WHERE condition.
type WhereClause struct {
	StartPos  token.Pos
	EndPos    token.Pos
	Condition Expr
}

func (w *WhereClause) Pos() token.Pos { return w.StartPos }
func (w *WhereClause) End() token.Pos { return w.EndPos }

// HavingClause holds the HAVING condition.
type HavingClause struct {
	StartPos  token.Pos
	EndPos    token.Pos
	Condition Expr
}

func (h *HavingClause) Pos() token.Pos { return h.StartPos }
func (h *HavingClause) End() token.Pos { return h.EndPos }

// GroupByClause holds the GROUP BY item list.
type GroupByClause struct {
	StartPos token.Pos
	EndPos   token.Pos
	Items    []Expr
}

func (g *GroupByClause) Pos() token.Pos { return g.StartPos }
func (g *GroupByClause) End() token.Pos { return g.EndPos }

// NullsOrder identifies an explicit NULLS FIRST/LAST in an ORDER BY item.
type NullsOrder int

const (
	NullsUnspecified NullsOrder = iota
	NullsFirst
	NullsLast
)

// SortDirection identifies ASC/DESC on an ORDER BY item.
type SortDirection int

const (
	SortUnspecified SortDirection = iota
	SortAsc
	SortDesc
)

// OrderByClause holds the ORDER BY item list.
type OrderByClause struct {
	StartPos token.Pos
	EndPos   token.Pos
	Items    []*OrderItem
}

func (o *OrderByClause) Pos() token.Pos { return o.StartPos }
func (o *OrderByClause) End() token.Pos { return o.EndPos }

// OrderItem is a single ORDER BY expression with optional direction and
// NULLS placement.
type OrderItem struct {
	StartPos  token.Pos
	EndPos    token.Pos
	Value     Expr
	Direction SortDirection
	Nulls     NullsOrder
}

func (o *OrderItem) Pos() token.Pos { return o.StartPos }
func (o *OrderItem) End() token.Pos { return o.EndPos }

// WindowClause holds the top-level WINDOW name AS (spec) definitions.
type WindowClause struct {
	StartPos token.Pos
	EndPos   token.Pos
	Defs     []*NamedWindow
}

func (w *WindowClause) Pos() token.Pos { return w.StartPos }
func (w *WindowClause) End() token.Pos { return w.EndPos }

// NamedWindow binds a name to a WindowSpec in a WINDOW clause.
type NamedWindow struct {
	Name string
	Spec *WindowSpec
}

// LimitClause holds the LIMIT value.
type LimitClause struct {
	StartPos token.Pos
	EndPos   token.Pos
	Value    Expr
}

func (l *LimitClause) Pos() token.Pos { return l.StartPos }
func (l *LimitClause) End() token.Pos { return l.EndPos }

// OffsetClause holds the OFFSET value.
type OffsetClause struct {
	StartPos token.Pos
	EndPos   token.Pos
	Value    Expr
}

func (o *OffsetClause) Pos() token.Pos { return o.StartPos }
func (o *OffsetClause) End() token.Pos { return o.EndPos }

// ForMode identifies a row-locking mode in a FOR clause.
type ForMode int

const (
	ForUpdate ForMode = iota
	ForNoKeyUpdate
	ForShare
	ForKeyShare
)

// ForClause is a trailing row-locking clause (`FOR UPDATE OF t NOWAIT`).
type ForClause struct {
	StartPos token.Pos
	EndPos   token.Pos
	Mode     ForMode
	Tables   []string
	Wait     ForWait
}

func (f *ForClause) Pos() token.Pos { return f.StartPos }
func (f *ForClause) End() token.Pos { return f.EndPos }

// ForWait identifies the wait behavior of a FOR clause.
type ForWait int

const (
	WaitUnspecified ForWait = iota
	WaitNowait
	WaitSkipLocked
)
