package ast

import "github.com/mk3008/carbunqlex-go/token"

// ColumnRef is a (possibly qualified) column reference, or a wildcard
// projection (`*`, `t.*`).
type ColumnRef struct {
	StartPos          token.Pos
	EndPos            token.Pos
	Qualifiers        []string
	Name              string
	Wildcard          bool // true for bare `*`
	QualifiedWildcard bool // true for `t.*`; Qualifiers holds the table part
}

func (*ColumnRef) exprNode()        {}
func (c *ColumnRef) Pos() token.Pos { return c.StartPos }
func (c *ColumnRef) End() token.Pos { return c.EndPos }

// LiteralKind classifies a Literal's textual value.
type LiteralKind int

const (
	LiteralNumeric LiteralKind = iota
	LiteralString
	LiteralBoolean
	LiteralNull
	LiteralUnicodeEscape
	LiteralInterval
)

// Literal is a literal value carried as its raw source text.
type Literal struct {
	StartPos token.Pos
	EndPos   token.Pos
	Kind     LiteralKind
	Raw      string
}

func (*Literal) exprNode()        {}
func (l *Literal) Pos() token.Pos { return l.StartPos }
func (l *Literal) End() token.Pos { return l.EndPos }

// ParamStyle identifies how a Parameter was written in source.
type ParamStyle int

const (
	ParamAnonymous ParamStyle = iota // ?
	ParamIndexed                     // $1, $2, ...
	ParamNamed                       // :name or @name
)

// Parameter is a bind parameter. Two parameters have the same identity iff
// they have the same Style and, for ParamIndexed, the same Index, or for
// ParamNamed, the same Name.
type Parameter struct {
	StartPos token.Pos
	EndPos   token.Pos
	Style    ParamStyle
	Name     string // set when Style == ParamNamed
	Index    int    // set when Style == ParamIndexed
	Symbol   byte   // the leading symbol as written: '$', ':', or '@'
}

func (*Parameter) exprNode()        {}
func (p *Parameter) Pos() token.Pos { return p.StartPos }
func (p *Parameter) End() token.Pos { return p.EndPos }

// Binary is a binary operator expression.
type Binary struct {
	StartPos token.Pos
	EndPos   token.Pos
	Op       token.Token
	Left     Expr
	Right    Expr
}

func (*Binary) exprNode()        {}
func (b *Binary) Pos() token.Pos { return b.StartPos }
func (b *Binary) End() token.Pos { return b.EndPos }

// Unary is a prefix unary operator expression: +, -, NOT, ~.
type Unary struct {
	StartPos token.Pos
	EndPos   token.Pos
	Op       token.Token
	Operand  Expr
}

func (*Unary) exprNode()        {}
func (u *Unary) Pos() token.Pos { return u.StartPos }
func (u *Unary) End() token.Pos { return u.EndPos }

// Paren is a parenthesized expression, preserved so the formatter can
// decide whether the parens are still necessary.
type Paren struct {
	StartPos token.Pos
	EndPos   token.Pos
	Inner    Expr
}

func (*Paren) exprNode()        {}
func (p *Paren) Pos() token.Pos { return p.StartPos }
func (p *Paren) End() token.Pos { return p.EndPos }

// FunctionCall is a scalar, aggregate, or window function invocation.
// OverWindow and WithinGroup are mutually exclusive; Filter may combine
// with either.
type FunctionCall struct {
	StartPos    token.Pos
	EndPos      token.Pos
	Qualifiers  []string // e.g. schema-qualified function names
	Name        string
	Distinct    bool
	Args        []Expr
	OrderBy     *OrderByClause // aggregate ORDER BY inside the arg list
	FilterWhere Expr           // FILTER (WHERE ...)
	OverWindow  *WindowSpec    // OVER (...) / OVER name
	WithinGroup *OrderByClause // WITHIN GROUP (ORDER BY ...)
}

func (*FunctionCall) exprNode()        {}
func (f *FunctionCall) Pos() token.Pos { return f.StartPos }
func (f *FunctionCall) End() token.Pos { return f.EndPos }

// CaseBranch is one WHEN ... THEN ... arm of a Case expression.
type CaseBranch struct {
	When Expr
	Then Expr
}

// Case represents both simple (`CASE x WHEN ...`) and searched
// (`CASE WHEN ...`) CASE expressions, distinguished by whether Subject
// is nil.
type Case struct {
	StartPos  token.Pos
	EndPos    token.Pos
	Subject   Expr // nil for a searched CASE
	Branches  []*CaseBranch
	ElseValue Expr
}

func (*Case) exprNode()        {}
func (c *Case) Pos() token.Pos { return c.StartPos }
func (c *Case) End() token.Pos { return c.EndPos }

// Between represents `expr [NOT] BETWEEN low AND high`.
type Between struct {
	StartPos token.Pos
	EndPos   token.Pos
	Value    Expr
	Negated  bool
	Low      Expr
	High     Expr
}

func (*Between) exprNode()        {}
func (b *Between) Pos() token.Pos { return b.StartPos }
func (b *Between) End() token.Pos { return b.EndPos }

// In represents `expr [NOT] IN (list)` or `expr [NOT] IN (subquery)`.
// Exactly one of List or Subquery is set.
type In struct {
	StartPos token.Pos
	EndPos   token.Pos
	Value    Expr
	Negated  bool
	List     []Expr
	Subquery Query
}

func (*In) exprNode()        {}
func (i *In) Pos() token.Pos { return i.StartPos }
func (i *In) End() token.Pos { return i.EndPos }

// IsTargetKind identifies the right-hand predicate of an Is expression.
type IsTargetKind int

const (
	IsNull IsTargetKind = iota
	IsTrue
	IsFalse
	IsUnknown
	IsDistinctFrom
	IsNotDistinctFrom
)

// Is represents `expr IS [NOT] NULL/TRUE/FALSE/UNKNOWN` and
// `expr IS [NOT] DISTINCT FROM other`.
type Is struct {
	StartPos token.Pos
	EndPos   token.Pos
	Value    Expr
	Negated  bool
	Target   IsTargetKind
	Other    Expr // set when Target is (Not)DistinctFrom
}

func (*Is) exprNode()        {}
func (i *Is) Pos() token.Pos { return i.StartPos }
func (i *Is) End() token.Pos { return i.EndPos }

// Like represents LIKE/ILIKE/SIMILAR TO predicates.
type Like struct {
	StartPos token.Pos
	EndPos   token.Pos
	Value    Expr
	Pattern  Expr
	Escape   Expr
	Negated  bool
	Similar  bool // SIMILAR TO rather than LIKE
	CaseFold bool // ILIKE
}

func (*Like) exprNode()        {}
func (l *Like) Pos() token.Pos { return l.StartPos }
func (l *Like) End() token.Pos { return l.EndPos }

// CastStyle identifies whether a Cast was written as `CAST(x AS t)` or
// `x::t`.
type CastStyle int

const (
	CastAs CastStyle = iota
	CastDoubleColon
)

// Cast represents a type cast.
type Cast struct {
	StartPos token.Pos
	EndPos   token.Pos
	Value    Expr
	Type     *TypeRef
	Style    CastStyle
}

func (*Cast) exprNode()        {}
func (c *Cast) Pos() token.Pos { return c.StartPos }
func (c *Cast) End() token.Pos { return c.EndPos }

// TimeZoneQualifier identifies WITH/WITHOUT TIME ZONE on a TypeRef.
type TimeZoneQualifier int

const (
	TimeZoneUnspecified TimeZoneQualifier = iota
	TimeZoneWith
	TimeZoneWithout
)

// TypeRef is a referenced SQL type name with optional precision/scale.
type TypeRef struct {
	StartPos  token.Pos
	EndPos    token.Pos
	Name      string
	Precision *int
	Scale     *int
	TimeZone  TimeZoneQualifier
}

func (t *TypeRef) Pos() token.Pos { return t.StartPos }
func (t *TypeRef) End() token.Pos { return t.EndPos }

// Array represents an `ARRAY[...]` constructor.
type Array struct {
	StartPos token.Pos
	EndPos   token.Pos
	Elements []Expr
}

func (*Array) exprNode()        {}
func (a *Array) Pos() token.Pos { return a.StartPos }
func (a *Array) End() token.Pos { return a.EndPos }

// Interval represents an `INTERVAL 'literal' [qualifier]` expression.
type Interval struct {
	StartPos  token.Pos
	EndPos    token.Pos
	Literal   Expr
	Qualifier string
}

func (*Interval) exprNode()        {}
func (i *Interval) Pos() token.Pos { return i.StartPos }
func (i *Interval) End() token.Pos { return i.EndPos }

// Extract represents `EXTRACT(field FROM source)`.
type Extract struct {
	StartPos token.Pos
	EndPos   token.Pos
	Field    string
	From     Expr
}

func (*Extract) exprNode()        {}
func (e *Extract) Pos() token.Pos { return e.StartPos }
func (e *Extract) End() token.Pos { return e.EndPos }

// Position represents `POSITION(needle IN haystack)`.
type Position struct {
	StartPos token.Pos
	EndPos   token.Pos
	Needle   Expr
	Haystack Expr
}

func (*Position) exprNode()        {}
func (p *Position) Pos() token.Pos { return p.StartPos }
func (p *Position) End() token.Pos { return p.EndPos }

// Substring represents the several SUBSTRING forms:
// `SUBSTRING(target FROM start FOR length)`,
// `SUBSTRING(target, start, length)`, and
// `SUBSTRING(target SIMILAR pattern ESCAPE escape)`.
type Substring struct {
	StartPos token.Pos
	EndPos   token.Pos
	Target   Expr
	From     Expr
	For      Expr
	Pattern  Expr // set for the SIMILAR/ESCAPE form
	Escape   Expr
}

func (*Substring) exprNode()        {}
func (s *Substring) Pos() token.Pos { return s.StartPos }
func (s *Substring) End() token.Pos { return s.EndPos }

// TrimSide identifies which side(s) TRIM removes characters from.
type TrimSide int

const (
	TrimBoth TrimSide = iota
	TrimLeading
	TrimTrailing
)

// Trim represents TRIM expressions, including the PostgreSQL reversed
// form `TRIM(chars FROM target)` with no LEADING/TRAILING/BOTH keyword.
type Trim struct {
	StartPos      token.Pos
	EndPos        token.Pos
	Side          TrimSide
	Characters    Expr
	Target        Expr
	PostgresStyle bool
}

func (*Trim) exprNode()        {}
func (t *Trim) Pos() token.Pos { return t.StartPos }
func (t *Trim) End() token.Pos { return t.EndPos }

// Overlay represents `OVERLAY(target PLACING placing FROM from [FOR for])`.
type Overlay struct {
	StartPos token.Pos
	EndPos   token.Pos
	Target   Expr
	Placing  Expr
	From     Expr
	For      Expr
}

func (*Overlay) exprNode()        {}
func (o *Overlay) Pos() token.Pos { return o.StartPos }
func (o *Overlay) End() token.Pos { return o.EndPos }

// AtTimeZone represents the postfix `value AT TIME ZONE zone` operator.
type AtTimeZone struct {
	StartPos token.Pos
	EndPos   token.Pos
	Value    Expr
	Zone     Expr
}

func (*AtTimeZone) exprNode()        {}
func (a *AtTimeZone) Pos() token.Pos { return a.StartPos }
func (a *AtTimeZone) End() token.Pos { return a.EndPos }

// WindowSpec is an inline or named-reference window specification.
type WindowSpec struct {
	StartPos    token.Pos
	EndPos      token.Pos
	Ref         string // reference to a WindowClause name; mutually exclusive with the fields below
	PartitionBy []Expr
	OrderBy     *OrderByClause
	Frame       *WindowFrame
}

func (w *WindowSpec) Pos() token.Pos { return w.StartPos }
func (w *WindowSpec) End() token.Pos { return w.EndPos }

// FrameUnit identifies ROWS/RANGE/GROUPS on a window frame.
type FrameUnit int

const (
	FrameRows FrameUnit = iota
	FrameRange
	FrameGroups
)

// FrameBoundKind identifies a window frame boundary kind.
type FrameBoundKind int

const (
	BoundUnboundedPreceding FrameBoundKind = iota
	BoundPreceding
	BoundCurrentRow
	BoundFollowing
	BoundUnboundedFollowing
)

// FrameBound is one boundary (start or end) of a WindowFrame.
type FrameBound struct {
	Kind   FrameBoundKind
	Offset Expr // set for Preceding/Following
}

// WindowFrame is a ROWS/RANGE/GROUPS frame clause on a WindowSpec.
type WindowFrame struct {
	Unit  FrameUnit
	Start *FrameBound
	End   *FrameBound // nil when the frame has no explicit upper bound
}

// InlineQuery wraps a Query used as a scalar expression, e.g. a subquery
// in a projection or WHERE condition (`WHERE x = (SELECT max(y) FROM t)`).
type InlineQuery struct {
	StartPos token.Pos
	EndPos   token.Pos
	Query    Query
}

func (*InlineQuery) exprNode()        {}
func (i *InlineQuery) Pos() token.Pos { return i.StartPos }
func (i *InlineQuery) End() token.Pos { return i.EndPos }

// Exists represents `[NOT] EXISTS (subquery)`. Not named in the core
// grammar's node list but required for a complete predicate set; carried
// over from the teacher's ExistsExpr.
type Exists struct {
	StartPos token.Pos
	EndPos   token.Pos
	Subquery Query
	Negated  bool
}

func (*Exists) exprNode()        {}
func (e *Exists) Pos() token.Pos { return e.StartPos }
func (e *Exists) End() token.Pos { return e.EndPos }

// Collate represents a postfix `value COLLATE collation` operator; carried
// over from the teacher's CollateExpr.
type Collate struct {
	StartPos  token.Pos
	EndPos    token.Pos
	Value     Expr
	Collation string
}

func (*Collate) exprNode()        {}
func (c *Collate) Pos() token.Pos { return c.StartPos }
func (c *Collate) End() token.Pos { return c.EndPos }

// Subscript represents array element access: `value[index]`.
type Subscript struct {
	StartPos token.Pos
	EndPos   token.Pos
	Value    Expr
	Index    Expr
}

func (*Subscript) exprNode()        {}
func (s *Subscript) Pos() token.Pos { return s.StartPos }
func (s *Subscript) End() token.Pos { return s.EndPos }
