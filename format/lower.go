package format

import (
	"strconv"
	"strings"

	"github.com/mk3008/carbunqlex-go/ast"
	"github.com/mk3008/carbunqlex-go/errs"
	"github.com/mk3008/carbunqlex-go/token"
	"github.com/mk3008/carbunqlex-go/transform"
)

// paramTracker assigns a stable identity to each Parameter the lowering
// pass encounters. Indexed and Named parameters share identity across
// occurrences with the same Index/Name; an Anonymous parameter never
// shares identity with another occurrence, matching ast.Parameter's own
// identity rule rather than the glossary's looser "name-normalised form"
// phrasing.
type paramTracker struct {
	style   ParamStyle
	order   []paramIdentity
	indexed map[int]int // Parameter.Index -> position in order
	named   map[string]int
}

type paramIdentity struct {
	style ast.ParamStyle
	name  string
	index int
}

func newParamTracker(style ParamStyle) *paramTracker {
	return &paramTracker{
		style:   style,
		indexed: make(map[int]int),
		named:   make(map[string]int),
	}
}

// assign returns the stable 0-based position for p, allocating a new one
// on first encounter.
func (t *paramTracker) assign(p *ast.Parameter) int {
	switch p.Style {
	case ast.ParamIndexed:
		if pos, ok := t.indexed[p.Index]; ok {
			return pos
		}
		pos := len(t.order)
		t.indexed[p.Index] = pos
		t.order = append(t.order, paramIdentity{style: p.Style, index: p.Index})
		return pos
	case ast.ParamNamed:
		if pos, ok := t.named[p.Name]; ok {
			return pos
		}
		pos := len(t.order)
		t.named[p.Name] = pos
		t.order = append(t.order, paramIdentity{style: p.Style, name: p.Name})
		return pos
	default: // ast.ParamAnonymous: every occurrence is a distinct identity
		pos := len(t.order)
		t.order = append(t.order, paramIdentity{style: p.Style})
		return pos
	}
}

// Param describes one resolved output parameter slot.
type Param struct {
	Style ParamStyle
	Name  string
	Index int
}

func (t *paramTracker) params() []Param {
	out := make([]Param, len(t.order))
	for i, id := range t.order {
		out[i] = Param{Style: t.style, Index: i, Name: id.name}
	}
	return out
}

type lowerer struct {
	opts   Options
	params *paramTracker
}

func newLowerer(opts Options) *lowerer {
	return &lowerer{opts: opts, params: newParamTracker(opts.ParameterStyle)}
}

func (lw *lowerer) lowerQuery(q ast.Query) (PrintToken, error) {
	switch n := q.(type) {
	case *ast.SimpleSelect:
		return lw.lowerSimpleSelect(n)
	case *ast.BinarySelect:
		return lw.lowerBinarySelect(n)
	case *ast.ValuesQuery:
		return lw.lowerValuesQuery(n)
	default:
		return PrintToken{}, &errs.FormatError{Message: "unknown query node"}
	}
}

func (lw *lowerer) lowerSimpleSelect(n *ast.SimpleSelect) (PrintToken, error) {
	var children []PrintToken
	if n.With != nil {
		with, err := lw.lowerWithClause(n.With)
		if err != nil {
			return PrintToken{}, err
		}
		children = append(children, with)
	}
	sel, err := lw.lowerSelectClause(n.Select)
	if err != nil {
		return PrintToken{}, err
	}
	children = append(children, forceNewlineExceptFirst(children, sel))

	if n.From != nil {
		from, err := lw.lowerFromClause(n.From)
		if err != nil {
			return PrintToken{}, err
		}
		children = append(children, forceNewlineExceptFirst(children, from))
	}
	if n.Where != nil {
		cond, err := lw.lowerExpr(n.Where.Condition)
		if err != nil {
			return PrintToken{}, err
		}
		where := container(ContainerWhereClause, kw("where"), cond)
		children = append(children, forceNewlineExceptFirst(children, where))
	}
	if n.GroupBy != nil {
		items := make([]PrintToken, 0, len(n.GroupBy.Items))
		for _, e := range n.GroupBy.Items {
			pt, err := lw.lowerExpr(e)
			if err != nil {
				return PrintToken{}, err
			}
			items = append(items, pt)
		}
		gb := container(ContainerGroupByClause, append([]PrintToken{kw("group by")}, join(items...)...)...)
		children = append(children, forceNewlineExceptFirst(children, gb))
	}
	if n.Having != nil {
		cond, err := lw.lowerExpr(n.Having.Condition)
		if err != nil {
			return PrintToken{}, err
		}
		having := container(ContainerHavingClause, kw("having"), cond)
		children = append(children, forceNewlineExceptFirst(children, having))
	}
	if n.Window != nil {
		win, err := lw.lowerWindowClause(n.Window)
		if err != nil {
			return PrintToken{}, err
		}
		children = append(children, forceNewlineExceptFirst(children, win))
	}
	if n.OrderBy != nil {
		ob, err := lw.lowerOrderByClause(n.OrderBy)
		if err != nil {
			return PrintToken{}, err
		}
		children = append(children, forceNewlineExceptFirst(children, ob))
	}
	if n.Limit != nil {
		v, err := lw.lowerExpr(n.Limit.Value)
		if err != nil {
			return PrintToken{}, err
		}
		lim := container(ContainerLimitClause, kw("limit"), v)
		children = append(children, forceNewlineExceptFirst(children, lim))
	}
	if n.Offset != nil {
		v, err := lw.lowerExpr(n.Offset.Value)
		if err != nil {
			return PrintToken{}, err
		}
		off := container(ContainerOffsetClause, kw("offset"), v)
		children = append(children, forceNewlineExceptFirst(children, off))
	}
	if n.For != nil {
		fc := lw.lowerForClause(n.For)
		children = append(children, forceNewlineExceptFirst(children, fc))
	}
	return container(ContainerGeneric, children...), nil
}

// forceNewlineExceptFirst marks t to always start a new line in
// pretty-print mode, unless it is the first clause of the statement (no
// boundary precedes it).
func forceNewlineExceptFirst(soFar []PrintToken, t PrintToken) PrintToken {
	if len(soFar) == 0 {
		return t
	}
	t.ForceNewline = true
	return t
}

func (lw *lowerer) lowerBinarySelect(n *ast.BinarySelect) (PrintToken, error) {
	left, err := lw.lowerQuery(n.Left)
	if err != nil {
		return PrintToken{}, err
	}
	right, err := lw.lowerQuery(n.Right)
	if err != nil {
		return PrintToken{}, err
	}
	opTok := kw(n.Op.String())
	opTok.ForceNewline = true
	return container(ContainerBinarySelect, left, opTok, right), nil
}

func (lw *lowerer) lowerValuesQuery(n *ast.ValuesQuery) (PrintToken, error) {
	rows := make([]PrintToken, 0, len(n.Rows))
	for _, row := range n.Rows {
		items := make([]PrintToken, 0, len(row.Items))
		for _, e := range row.Items {
			pt, err := lw.lowerExpr(e)
			if err != nil {
				return PrintToken{}, err
			}
			items = append(items, pt)
		}
		inner := append([]PrintToken{openDelim("(")}, join(items...)...)
		inner = append(inner, tight(op(")")))
		rows = append(rows, PrintToken{Kind: KindContainer, Container: ContainerGeneric, Children: inner})
	}
	return container(ContainerValues, append([]PrintToken{kw("values")}, join(rows...)...)...), nil
}

func (lw *lowerer) lowerWithClause(n *ast.WithClause) (PrintToken, error) {
	lead := "with"
	if n.Recursive {
		lead = "with recursive"
	}
	leafNames := map[string]bool{}
	if lw.opts.CTEOnelineDependency && !lw.opts.CTEOneline {
		for _, name := range transform.BuildCTEGraph(n).LeafNames() {
			leafNames[name] = true
		}
	}

	ctes := make([]PrintToken, 0, len(n.Tables))
	for _, ct := range n.Tables {
		// cteOneline collapses every CTE; cteOnelineDependency collapses
		// only the leaves (CTEs nothing else depends on), leaving the
		// ones other CTEs depend on expanded.
		oneline := lw.opts.CTEOneline ||
			(lw.opts.CTEOnelineDependency && leafNames[ct.Alias])
		pt, err := lw.lowerCommonTable(ct, oneline)
		if err != nil {
			return PrintToken{}, err
		}
		ctes = append(ctes, pt)
	}
	return container(ContainerWithClause, append([]PrintToken{kw(lead)}, join(ctes...)...)...), nil
}

func (lw *lowerer) lowerCommonTable(ct *ast.CommonTable, oneline bool) (PrintToken, error) {
	q, err := lw.lowerQuery(ct.Query)
	if err != nil {
		return PrintToken{}, err
	}
	var children []PrintToken
	if oneline && lw.opts.ExportComment {
		lead := lw.quotedIdent(ct.Alias)
		lead.Comments = []string{"/* import " + ct.Alias + ".cte.sql */"}
		children = append(children, lead)
	} else {
		children = append(children, lw.quotedIdent(ct.Alias))
	}
	if len(ct.ColumnAliases) > 0 {
		children = append(children, columnAliasList(ct.ColumnAliases)...)
	}
	children = append(children, kw("as"))
	switch ct.Materialized {
	case ast.MaterializedYes:
		children = append(children, kw("materialized"))
	case ast.MaterializedNo:
		children = append(children, kw("not materialized"))
	}
	children = append(children, openDelim("("), q, tight(op(")")))
	pt := PrintToken{Kind: KindContainer, Container: ContainerGeneric, Children: children}
	if oneline {
		pt.ForceOneline = true
	}
	return pt, nil
}

func columnAliasList(cols []string) []PrintToken {
	items := make([]PrintToken, len(cols))
	for i, c := range cols {
		items[i] = ident(c)
	}
	out := append([]PrintToken{openDelim("(")}, join(items...)...)
	out = append(out, tight(op(")")))
	return out
}

func (lw *lowerer) lowerSelectClause(n *ast.SelectClause) (PrintToken, error) {
	children := []PrintToken{kw("select")}
	switch n.Distinct {
	case ast.DistinctAll:
		children = append(children, kw("distinct"))
	case ast.DistinctOn:
		onItems := make([]PrintToken, 0, len(n.OnValues))
		for _, e := range n.OnValues {
			pt, err := lw.lowerExpr(e)
			if err != nil {
				return PrintToken{}, err
			}
			onItems = append(onItems, pt)
		}
		children = append(children, kw("distinct on"), openDelim("("))
		children = append(children, join(onItems...)...)
		children = append(children, tight(op(")")))
	}
	items := make([]PrintToken, 0, len(n.Items))
	for _, item := range n.Items {
		pt, err := lw.lowerSelectItem(item)
		if err != nil {
			return PrintToken{}, err
		}
		items = append(items, pt)
	}
	children = append(children, join(items...)...)
	return container(ContainerSelectClause, children...), nil
}

func (lw *lowerer) lowerSelectItem(n *ast.SelectItem) (PrintToken, error) {
	v, err := lw.lowerExpr(n.Value)
	if err != nil {
		return PrintToken{}, err
	}
	if n.Alias == "" {
		return PrintToken{Kind: KindContainer, Container: ContainerGeneric, Children: []PrintToken{v}}, nil
	}
	return PrintToken{Kind: KindContainer, Container: ContainerGeneric, Children: []PrintToken{v, kw("as"), lw.quotedIdent(n.Alias)}}, nil
}

func (lw *lowerer) lowerFromClause(n *ast.FromClause) (PrintToken, error) {
	src, err := lw.lowerSource(n.Source)
	if err != nil {
		return PrintToken{}, err
	}
	children := []PrintToken{kw("from"), src}
	for _, j := range n.Joins {
		jt, err := lw.lowerJoin(j)
		if err != nil {
			return PrintToken{}, err
		}
		children = append(children, jt)
	}
	return container(ContainerFromClause, children...), nil
}

func (lw *lowerer) lowerJoin(n *ast.Join) (PrintToken, error) {
	src, err := lw.lowerSource(n.Source)
	if err != nil {
		return PrintToken{}, err
	}
	head := joinKeyword(n.Kind)
	if n.Lateral {
		head += " lateral"
	}
	kwTok := kw(head)
	kwTok.ForceNewline = true
	children := []PrintToken{kwTok, src}
	if n.Condition != nil {
		cond, err := lw.lowerExpr(n.Condition)
		if err != nil {
			return PrintToken{}, err
		}
		children = append(children, kw("on"), cond)
	} else if len(n.Using) > 0 {
		items := make([]PrintToken, len(n.Using))
		for i, c := range n.Using {
			items[i] = lw.quotedIdent(c)
		}
		children = append(children, kw("using"), openDelim("("))
		children = append(children, join(items...)...)
		children = append(children, tight(op(")")))
	}
	return PrintToken{Kind: KindContainer, Container: ContainerGeneric, Children: children}, nil
}

func joinKeyword(k ast.JoinKind) string {
	switch k {
	case ast.JoinInner:
		return "join"
	case ast.JoinLeft:
		return "left join"
	case ast.JoinRight:
		return "right join"
	case ast.JoinFull:
		return "full join"
	case ast.JoinCross:
		return "cross join"
	case ast.JoinNaturalInner:
		return "natural join"
	case ast.JoinNaturalLeft:
		return "natural left join"
	case ast.JoinNaturalRight:
		return "natural right join"
	case ast.JoinNaturalFull:
		return "natural full join"
	default:
		return "join"
	}
}

func (lw *lowerer) lowerSource(s ast.Source) (PrintToken, error) {
	switch n := s.(type) {
	case *ast.TableSource:
		var children []PrintToken
		children = append(children, lw.quotedQualifiedName(n.Qualifiers, n.Name))
		if n.Alias != "" {
			children = append(children, lw.quotedIdent(n.Alias))
		}
		if len(n.ColumnAliases) > 0 {
			children = append(children, columnAliasList(n.ColumnAliases)...)
		}
		return PrintToken{Kind: KindContainer, Container: ContainerGeneric, Children: children}, nil
	case *ast.SubQuerySource:
		q, err := lw.lowerQuery(n.Query)
		if err != nil {
			return PrintToken{}, err
		}
		children := []PrintToken{openDelim("("), q, tight(op(")"))}
		if n.Alias != "" {
			children = append(children, lw.quotedIdent(n.Alias))
		}
		if len(n.ColumnAliases) > 0 {
			children = append(children, columnAliasList(n.ColumnAliases)...)
		}
		return container(ContainerSubQuerySource, children...), nil
	case *ast.FunctionSource:
		args := make([]PrintToken, 0, len(n.Args))
		for _, a := range n.Args {
			pt, err := lw.lowerExpr(a)
			if err != nil {
				return PrintToken{}, err
			}
			args = append(args, pt)
		}
		children := []PrintToken{ident(n.Name), openDelim("(")}
		children = append(children, join(args...)...)
		children = append(children, tight(op(")")))
		if n.Alias != "" {
			children = append(children, kw("as"), lw.quotedIdent(n.Alias))
		}
		return PrintToken{Kind: KindContainer, Container: ContainerGeneric, Children: children}, nil
	case *ast.ParenSource:
		inner, err := lw.lowerSource(n.Inner)
		if err != nil {
			return PrintToken{}, err
		}
		return PrintToken{Kind: KindContainer, Container: ContainerGeneric, Children: []PrintToken{openDelim("("), inner, tight(op(")"))}}, nil
	case *ast.ValuesQuery:
		return lw.lowerValuesQuery(n)
	default:
		return PrintToken{}, &errs.FormatError{Message: "unknown source node"}
	}
}

func (lw *lowerer) lowerGroupBy(n *ast.GroupByClause) (PrintToken, error) {
	items := make([]PrintToken, 0, len(n.Items))
	for _, e := range n.Items {
		pt, err := lw.lowerExpr(e)
		if err != nil {
			return PrintToken{}, err
		}
		items = append(items, pt)
	}
	return container(ContainerGroupByClause, append([]PrintToken{kw("group by")}, join(items...)...)...), nil
}

func (lw *lowerer) lowerOrderByClause(n *ast.OrderByClause) (PrintToken, error) {
	items := make([]PrintToken, 0, len(n.Items))
	for _, it := range n.Items {
		pt, err := lw.lowerOrderItem(it)
		if err != nil {
			return PrintToken{}, err
		}
		items = append(items, pt)
	}
	return container(ContainerOrderByClause, append([]PrintToken{kw("order by")}, join(items...)...)...), nil
}

func (lw *lowerer) lowerOrderItem(n *ast.OrderItem) (PrintToken, error) {
	v, err := lw.lowerExpr(n.Value)
	if err != nil {
		return PrintToken{}, err
	}
	children := []PrintToken{v}
	switch n.Direction {
	case ast.SortAsc:
		children = append(children, kw("asc"))
	case ast.SortDesc:
		children = append(children, kw("desc"))
	}
	switch n.Nulls {
	case ast.NullsFirst:
		children = append(children, kw("nulls first"))
	case ast.NullsLast:
		children = append(children, kw("nulls last"))
	}
	return PrintToken{Kind: KindContainer, Container: ContainerGeneric, Children: children}, nil
}

func (lw *lowerer) lowerWindowClause(n *ast.WindowClause) (PrintToken, error) {
	defs := make([]PrintToken, 0, len(n.Defs))
	for _, d := range n.Defs {
		spec, err := lw.lowerWindowSpec(d.Spec)
		if err != nil {
			return PrintToken{}, err
		}
		defs = append(defs, PrintToken{Kind: KindContainer, Container: ContainerGeneric,
			Children: []PrintToken{ident(d.Name), kw("as"), spec}})
	}
	return container(ContainerWindowClause, append([]PrintToken{kw("window")}, join(defs...)...)...), nil
}

func (lw *lowerer) lowerWindowSpec(n *ast.WindowSpec) (PrintToken, error) {
	if n == nil {
		return tight(op("()")), nil
	}
	if n.Ref != "" {
		return ident(n.Ref), nil
	}
	var body []PrintToken
	if len(n.PartitionBy) > 0 {
		items := make([]PrintToken, 0, len(n.PartitionBy))
		for _, e := range n.PartitionBy {
			pt, err := lw.lowerExpr(e)
			if err != nil {
				return PrintToken{}, err
			}
			items = append(items, pt)
		}
		body = append(body, append([]PrintToken{kw("partition by")}, join(items...)...)...)
	}
	if n.OrderBy != nil {
		ob, err := lw.lowerOrderByClause(n.OrderBy)
		if err != nil {
			return PrintToken{}, err
		}
		body = append(body, ob)
	}
	if n.Frame != nil {
		ft, err := lw.lowerWindowFrame(n.Frame)
		if err != nil {
			return PrintToken{}, err
		}
		body = append(body, ft)
	}
	children := append([]PrintToken{openDelim("(")}, body...)
	children = append(children, tight(op(")")))
	return PrintToken{Kind: KindContainer, Container: ContainerGeneric, Children: children}, nil
}

func (lw *lowerer) lowerWindowFrame(f *ast.WindowFrame) (PrintToken, error) {
	unit := "rows"
	switch f.Unit {
	case ast.FrameRange:
		unit = "range"
	case ast.FrameGroups:
		unit = "groups"
	}
	start, err := lw.lowerFrameBound(f.Start)
	if err != nil {
		return PrintToken{}, err
	}
	children := []PrintToken{kw(unit)}
	if f.End != nil {
		end, err := lw.lowerFrameBound(f.End)
		if err != nil {
			return PrintToken{}, err
		}
		children = append(children, kw("between"), start, kw("and"), end)
	} else {
		children = append(children, start)
	}
	return PrintToken{Kind: KindContainer, Container: ContainerGeneric, Children: children}, nil
}

func (lw *lowerer) lowerFrameBound(b *ast.FrameBound) (PrintToken, error) {
	switch b.Kind {
	case ast.BoundUnboundedPreceding:
		return kw("unbounded preceding"), nil
	case ast.BoundUnboundedFollowing:
		return kw("unbounded following"), nil
	case ast.BoundCurrentRow:
		return kw("current row"), nil
	case ast.BoundPreceding:
		v, err := lw.lowerExpr(b.Offset)
		if err != nil {
			return PrintToken{}, err
		}
		return PrintToken{Kind: KindContainer, Container: ContainerGeneric, Children: []PrintToken{v, kw("preceding")}}, nil
	case ast.BoundFollowing:
		v, err := lw.lowerExpr(b.Offset)
		if err != nil {
			return PrintToken{}, err
		}
		return PrintToken{Kind: KindContainer, Container: ContainerGeneric, Children: []PrintToken{v, kw("following")}}, nil
	default:
		return PrintToken{}, &errs.FormatError{Message: "unknown window frame bound"}
	}
}

func (lw *lowerer) lowerForClause(n *ast.ForClause) PrintToken {
	children := []PrintToken{kw("for " + forModeText(n.Mode))}
	if len(n.Tables) > 0 {
		items := make([]PrintToken, len(n.Tables))
		for i, t := range n.Tables {
			items[i] = lw.quotedIdent(t)
		}
		children = append(children, kw("of"))
		children = append(children, join(items...)...)
	}
	switch n.Wait {
	case ast.WaitNowait:
		children = append(children, kw("nowait"))
	case ast.WaitSkipLocked:
		children = append(children, kw("skip locked"))
	}
	return PrintToken{Kind: KindContainer, Container: ContainerForClause, Children: children}
}

func forModeText(m ast.ForMode) string {
	switch m {
	case ast.ForUpdate:
		return "update"
	case ast.ForNoKeyUpdate:
		return "no key update"
	case ast.ForShare:
		return "share"
	case ast.ForKeyShare:
		return "key share"
	default:
		return "update"
	}
}

// lowerExpr dispatches on expression node kind. Every case here mirrors a
// construct the teacher's byte-writing formatSelect switch handled, now
// producing a PrintToken tree instead of writing straight to a buffer.
func (lw *lowerer) lowerExpr(e ast.Expr) (PrintToken, error) {
	switch n := e.(type) {
	case *ast.ColumnRef:
		return lw.lowerColumnRef(n), nil
	case *ast.Literal:
		return lw.lowerLiteral(n), nil
	case *ast.Parameter:
		return lw.lowerParameter(n), nil
	case *ast.Binary:
		return lw.lowerBinary(n)
	case *ast.Unary:
		return lw.lowerUnary(n)
	case *ast.Paren:
		inner, err := lw.lowerExpr(n.Inner)
		if err != nil {
			return PrintToken{}, err
		}
		return PrintToken{Kind: KindContainer, Container: ContainerGeneric,
			Children: []PrintToken{openDelim("("), inner, tight(op(")"))}}, nil
	case *ast.FunctionCall:
		return lw.lowerFunctionCall(n)
	case *ast.Case:
		return lw.lowerCase(n)
	case *ast.Between:
		return lw.lowerBetween(n)
	case *ast.In:
		return lw.lowerIn(n)
	case *ast.Is:
		return lw.lowerIs(n)
	case *ast.Like:
		return lw.lowerLike(n)
	case *ast.Cast:
		return lw.lowerCast(n)
	case *ast.Array:
		return lw.lowerArray(n)
	case *ast.Interval:
		return lw.lowerInterval(n)
	case *ast.Extract:
		return lw.lowerExtract(n)
	case *ast.Position:
		return lw.lowerPosition(n)
	case *ast.Substring:
		return lw.lowerSubstring(n)
	case *ast.Trim:
		return lw.lowerTrim(n)
	case *ast.Overlay:
		return lw.lowerOverlay(n)
	case *ast.AtTimeZone:
		return lw.lowerAtTimeZone(n)
	case *ast.InlineQuery:
		q, err := lw.lowerQuery(n.Query)
		if err != nil {
			return PrintToken{}, err
		}
		return PrintToken{Kind: KindContainer, Container: ContainerGeneric,
			Children: []PrintToken{openDelim("("), q, tight(op(")"))}}, nil
	case *ast.Exists:
		q, err := lw.lowerQuery(n.Subquery)
		if err != nil {
			return PrintToken{}, err
		}
		lead := "exists"
		if n.Negated {
			lead = "not exists"
		}
		return PrintToken{Kind: KindContainer, Container: ContainerGeneric,
			Children: []PrintToken{kw(lead), openDelim("("), q, tight(op(")"))}}, nil
	case *ast.Collate:
		v, err := lw.lowerExpr(n.Value)
		if err != nil {
			return PrintToken{}, err
		}
		return PrintToken{Kind: KindContainer, Container: ContainerGeneric,
			Children: []PrintToken{v, kw("collate"), ident(n.Collation)}}, nil
	case *ast.Subscript:
		v, err := lw.lowerExpr(n.Value)
		if err != nil {
			return PrintToken{}, err
		}
		idx, err := lw.lowerExpr(n.Index)
		if err != nil {
			return PrintToken{}, err
		}
		return PrintToken{Kind: KindContainer, Container: ContainerGeneric,
			Children: []PrintToken{v, openDelim("["), idx, tight(op("]"))}}, nil
	default:
		return PrintToken{}, &errs.FormatError{Message: "unknown expression node"}
	}
}

func (lw *lowerer) lowerColumnRef(n *ast.ColumnRef) PrintToken {
	if n.Wildcard {
		return op("*")
	}
	if n.QualifiedWildcard {
		children := []PrintToken{lw.quotedQualifiedName(n.Qualifiers, ""), tight(op(".")), tight(op("*"))}
		return PrintToken{Kind: KindContainer, Container: ContainerGeneric, Children: children}
	}
	return lw.quotedQualifiedName(n.Qualifiers, n.Name)
}

func (lw *lowerer) quotedQualifiedName(qualifiers []string, name string) PrintToken {
	parts := make([]PrintToken, 0, len(qualifiers)+1)
	for _, q := range qualifiers {
		parts = append(parts, lw.quotedIdent(q))
	}
	if name != "" {
		parts = append(parts, lw.quotedIdent(name))
	}
	if len(parts) == 1 {
		return parts[0]
	}
	var children []PrintToken
	for i, p := range parts {
		if i > 0 {
			children = append(children, tight(op(".")), tight(p))
		} else {
			children = append(children, p)
		}
	}
	return PrintToken{Kind: KindContainer, Container: ContainerGeneric, Children: children}
}

func (lw *lowerer) quotedIdent(name string) PrintToken {
	esc := lw.opts.IdentifierEscape
	escaped := strings.ReplaceAll(name, esc.Close, esc.Close+esc.Close)
	return ident(esc.Open + escaped + esc.Close)
}

func needsQuoting(name string) bool {
	if name == "" {
		return true
	}
	for i, r := range name {
		if r >= 'a' && r <= 'z' || r == '_' {
			continue
		}
		if i > 0 && r >= '0' && r <= '9' {
			continue
		}
		return true
	}
	return isReservedIdentifier(name)
}

// isReservedIdentifier reports whether name collides with one of the
// reserved words in the token package's keyword table, across every
// dialect it carries (DDL, DML, transaction control, locking hints,
// vendor-specific extensions). name has already passed needsQuoting's
// character check, so it's safe to hand straight to LookupIdent.
func isReservedIdentifier(name string) bool {
	return token.LookupIdent(name).IsKeyword()
}

func (lw *lowerer) lowerLiteral(n *ast.Literal) PrintToken {
	switch n.Kind {
	case ast.LiteralString:
		return lit("'" + strings.ReplaceAll(n.Raw, "'", "''") + "'")
	default:
		return lit(n.Raw)
	}
}

func (lw *lowerer) lowerParameter(n *ast.Parameter) PrintToken {
	pos := lw.params.assign(n)
	switch lw.opts.ParameterStyle {
	case ParamStyleAnonymous:
		return param("?")
	case ParamStyleNamed:
		name := n.Name
		if name == "" {
			name = strconv.Itoa(pos + 1)
		}
		return param(lw.opts.ParameterSymbol + name)
	default: // ParamStyleIndexed
		return param(lw.opts.ParameterSymbol + strconv.Itoa(pos+1))
	}
}

func (lw *lowerer) lowerBinary(n *ast.Binary) (PrintToken, error) {
	left, err := lw.lowerExpr(n.Left)
	if err != nil {
		return PrintToken{}, err
	}
	right, err := lw.lowerExpr(n.Right)
	if err != nil {
		return PrintToken{}, err
	}
	opTok := kw(opText(n.Op))
	if n.Op == token.AND {
		opTok.IsAndBreak = true
	}
	return PrintToken{Kind: KindContainer, Container: ContainerGeneric, Children: []PrintToken{left, opTok, right}}, nil
}

func (lw *lowerer) lowerUnary(n *ast.Unary) (PrintToken, error) {
	operand, err := lw.lowerExpr(n.Operand)
	if err != nil {
		return PrintToken{}, err
	}
	text := opText(n.Op)
	if n.Op == token.NOT {
		return PrintToken{Kind: KindContainer, Container: ContainerGeneric, Children: []PrintToken{kw(text), operand}}, nil
	}
	return PrintToken{Kind: KindContainer, Container: ContainerGeneric, Children: []PrintToken{op(text), tight(operand)}}, nil
}

func (lw *lowerer) lowerFunctionCall(n *ast.FunctionCall) (PrintToken, error) {
	if n.OverWindow != nil && n.WithinGroup != nil {
		return PrintToken{}, &errs.FormatError{Message: "function call has both OVER and WITHIN GROUP set"}
	}
	args := make([]PrintToken, 0, len(n.Args))
	for _, a := range n.Args {
		pt, err := lw.lowerExpr(a)
		if err != nil {
			return PrintToken{}, err
		}
		args = append(args, pt)
	}
	name := ident(strings.Join(append(append([]string(nil), n.Qualifiers...), n.Name), "."))
	children := []PrintToken{name, openDelim("(")}
	if n.Distinct {
		children = append(children, kw("distinct"))
	}
	children = append(children, join(args...)...)
	if n.OrderBy != nil {
		ob, err := lw.lowerOrderByClause(n.OrderBy)
		if err != nil {
			return PrintToken{}, err
		}
		children = append(children, ob)
	}
	children = append(children, tight(op(")")))

	if n.WithinGroup != nil {
		wg, err := lw.lowerOrderByClause(n.WithinGroup)
		if err != nil {
			return PrintToken{}, err
		}
		children = append(children, kw("within group"), openDelim("("), wg, tight(op(")")))
	}
	if n.FilterWhere != nil {
		fw, err := lw.lowerExpr(n.FilterWhere)
		if err != nil {
			return PrintToken{}, err
		}
		children = append(children, kw("filter"), openDelim("("), kw("where"), fw, tight(op(")")))
	}
	if n.OverWindow != nil {
		spec, err := lw.lowerWindowSpec(n.OverWindow)
		if err != nil {
			return PrintToken{}, err
		}
		children = append(children, kw("over"), spec)
	}
	return PrintToken{Kind: KindContainer, Container: ContainerGeneric, Children: children}, nil
}

func (lw *lowerer) lowerCase(n *ast.Case) (PrintToken, error) {
	children := []PrintToken{kw("case")}
	if n.Subject != nil {
		s, err := lw.lowerExpr(n.Subject)
		if err != nil {
			return PrintToken{}, err
		}
		children = append(children, s)
	}
	for _, b := range n.Branches {
		when, err := lw.lowerExpr(b.When)
		if err != nil {
			return PrintToken{}, err
		}
		then, err := lw.lowerExpr(b.Then)
		if err != nil {
			return PrintToken{}, err
		}
		whenTok := kw("when")
		whenTok.ForceNewline = true
		children = append(children, whenTok, when, kw("then"), then)
	}
	if n.ElseValue != nil {
		ev, err := lw.lowerExpr(n.ElseValue)
		if err != nil {
			return PrintToken{}, err
		}
		elseTok := kw("else")
		elseTok.ForceNewline = true
		children = append(children, elseTok, ev)
	}
	endTok := kw("end")
	endTok.ForceNewline = true
	children = append(children, endTok)
	return container(ContainerCase, children...), nil
}

func (lw *lowerer) lowerBetween(n *ast.Between) (PrintToken, error) {
	v, err := lw.lowerExpr(n.Value)
	if err != nil {
		return PrintToken{}, err
	}
	low, err := lw.lowerExpr(n.Low)
	if err != nil {
		return PrintToken{}, err
	}
	high, err := lw.lowerExpr(n.High)
	if err != nil {
		return PrintToken{}, err
	}
	lead := "between"
	if n.Negated {
		lead = "not between"
	}
	return PrintToken{Kind: KindContainer, Container: ContainerGeneric,
		Children: []PrintToken{v, kw(lead), low, kw("and"), high}}, nil
}

func (lw *lowerer) lowerIn(n *ast.In) (PrintToken, error) {
	v, err := lw.lowerExpr(n.Value)
	if err != nil {
		return PrintToken{}, err
	}
	lead := "in"
	if n.Negated {
		lead = "not in"
	}
	children := []PrintToken{v, kw(lead), openDelim("(")}
	if n.Subquery != nil {
		q, err := lw.lowerQuery(n.Subquery)
		if err != nil {
			return PrintToken{}, err
		}
		children = append(children, q)
	} else {
		items := make([]PrintToken, 0, len(n.List))
		for _, e := range n.List {
			pt, err := lw.lowerExpr(e)
			if err != nil {
				return PrintToken{}, err
			}
			items = append(items, pt)
		}
		children = append(children, join(items...)...)
	}
	children = append(children, tight(op(")")))
	return PrintToken{Kind: KindContainer, Container: ContainerGeneric, Children: children}, nil
}

func (lw *lowerer) lowerIs(n *ast.Is) (PrintToken, error) {
	v, err := lw.lowerExpr(n.Value)
	if err != nil {
		return PrintToken{}, err
	}
	lead := "is"
	if n.Negated {
		lead = "is not"
	}
	children := []PrintToken{v, kw(lead)}
	switch n.Target {
	case ast.IsNull:
		children = append(children, kw("null"))
	case ast.IsTrue:
		children = append(children, kw("true"))
	case ast.IsFalse:
		children = append(children, kw("false"))
	case ast.IsUnknown:
		children = append(children, kw("unknown"))
	case ast.IsDistinctFrom:
		other, err := lw.lowerExpr(n.Other)
		if err != nil {
			return PrintToken{}, err
		}
		children = append(children, kw("distinct from"), other)
	case ast.IsNotDistinctFrom:
		other, err := lw.lowerExpr(n.Other)
		if err != nil {
			return PrintToken{}, err
		}
		children = append(children, kw("not distinct from"), other)
	}
	return PrintToken{Kind: KindContainer, Container: ContainerGeneric, Children: children}, nil
}

func (lw *lowerer) lowerLike(n *ast.Like) (PrintToken, error) {
	v, err := lw.lowerExpr(n.Value)
	if err != nil {
		return PrintToken{}, err
	}
	pattern, err := lw.lowerExpr(n.Pattern)
	if err != nil {
		return PrintToken{}, err
	}
	lead := "like"
	switch {
	case n.Similar:
		lead = "similar to"
	case n.CaseFold:
		lead = "ilike"
	}
	if n.Negated {
		lead = "not " + lead
	}
	children := []PrintToken{v, kw(lead), pattern}
	if n.Escape != nil {
		esc, err := lw.lowerExpr(n.Escape)
		if err != nil {
			return PrintToken{}, err
		}
		children = append(children, kw("escape"), esc)
	}
	return PrintToken{Kind: KindContainer, Container: ContainerGeneric, Children: children}, nil
}

func (lw *lowerer) lowerCast(n *ast.Cast) (PrintToken, error) {
	v, err := lw.lowerExpr(n.Value)
	if err != nil {
		return PrintToken{}, err
	}
	typ := lowerTypeRef(n.Type)
	if n.Style == ast.CastDoubleColon {
		return PrintToken{Kind: KindContainer, Container: ContainerGeneric,
			Children: []PrintToken{v, tight(op("::")), tight(typ)}}, nil
	}
	return PrintToken{Kind: KindContainer, Container: ContainerGeneric,
		Children: []PrintToken{kw("cast"), openDelim("("), v, kw("as"), typ, tight(op(")"))}}, nil
}

func lowerTypeRef(t *ast.TypeRef) PrintToken {
	name := t.Name
	if t.Precision != nil {
		if t.Scale != nil {
			name += "(" + strconv.Itoa(*t.Precision) + ", " + strconv.Itoa(*t.Scale) + ")"
		} else {
			name += "(" + strconv.Itoa(*t.Precision) + ")"
		}
	}
	switch t.TimeZone {
	case ast.TimeZoneWith:
		name += " with time zone"
	case ast.TimeZoneWithout:
		name += " without time zone"
	}
	return kw(name)
}

func (lw *lowerer) lowerArray(n *ast.Array) (PrintToken, error) {
	items := make([]PrintToken, 0, len(n.Elements))
	for _, e := range n.Elements {
		pt, err := lw.lowerExpr(e)
		if err != nil {
			return PrintToken{}, err
		}
		items = append(items, pt)
	}
	children := append([]PrintToken{kw("array"), openDelim("[")}, join(items...)...)
	children = append(children, tight(op("]")))
	return PrintToken{Kind: KindContainer, Container: ContainerGeneric, Children: children}, nil
}

func (lw *lowerer) lowerInterval(n *ast.Interval) (PrintToken, error) {
	v, err := lw.lowerExpr(n.Literal)
	if err != nil {
		return PrintToken{}, err
	}
	children := []PrintToken{kw("interval"), v}
	if n.Qualifier != "" {
		children = append(children, kw(strings.ToLower(n.Qualifier)))
	}
	return PrintToken{Kind: KindContainer, Container: ContainerGeneric, Children: children}, nil
}

func (lw *lowerer) lowerExtract(n *ast.Extract) (PrintToken, error) {
	from, err := lw.lowerExpr(n.From)
	if err != nil {
		return PrintToken{}, err
	}
	return PrintToken{Kind: KindContainer, Container: ContainerGeneric,
		Children: []PrintToken{kw("extract"), openDelim("("), kw(strings.ToLower(n.Field)), kw("from"), from, tight(op(")"))}}, nil
}

func (lw *lowerer) lowerPosition(n *ast.Position) (PrintToken, error) {
	needle, err := lw.lowerExpr(n.Needle)
	if err != nil {
		return PrintToken{}, err
	}
	haystack, err := lw.lowerExpr(n.Haystack)
	if err != nil {
		return PrintToken{}, err
	}
	return PrintToken{Kind: KindContainer, Container: ContainerGeneric,
		Children: []PrintToken{kw("position"), openDelim("("), needle, kw("in"), haystack, tight(op(")"))}}, nil
}

func (lw *lowerer) lowerSubstring(n *ast.Substring) (PrintToken, error) {
	target, err := lw.lowerExpr(n.Target)
	if err != nil {
		return PrintToken{}, err
	}
	children := []PrintToken{kw("substring"), openDelim("("), target}
	if n.Pattern != nil {
		pattern, err := lw.lowerExpr(n.Pattern)
		if err != nil {
			return PrintToken{}, err
		}
		children = append(children, kw("similar"), pattern)
		if n.Escape != nil {
			esc, err := lw.lowerExpr(n.Escape)
			if err != nil {
				return PrintToken{}, err
			}
			children = append(children, kw("escape"), esc)
		}
	} else {
		if n.From != nil {
			from, err := lw.lowerExpr(n.From)
			if err != nil {
				return PrintToken{}, err
			}
			children = append(children, kw("from"), from)
		}
		if n.For != nil {
			forv, err := lw.lowerExpr(n.For)
			if err != nil {
				return PrintToken{}, err
			}
			children = append(children, kw("for"), forv)
		}
	}
	children = append(children, tight(op(")")))
	return PrintToken{Kind: KindContainer, Container: ContainerGeneric, Children: children}, nil
}

func (lw *lowerer) lowerTrim(n *ast.Trim) (PrintToken, error) {
	target, err := lw.lowerExpr(n.Target)
	if err != nil {
		return PrintToken{}, err
	}
	children := []PrintToken{kw("trim"), openDelim("(")}
	if n.PostgresStyle {
		if n.Characters != nil {
			chars, err := lw.lowerExpr(n.Characters)
			if err != nil {
				return PrintToken{}, err
			}
			children = append(children, chars, kw("from"), target)
		} else {
			children = append(children, target)
		}
	} else {
		switch n.Side {
		case ast.TrimLeading:
			children = append(children, kw("leading"))
		case ast.TrimTrailing:
			children = append(children, kw("trailing"))
		default:
			children = append(children, kw("both"))
		}
		if n.Characters != nil {
			chars, err := lw.lowerExpr(n.Characters)
			if err != nil {
				return PrintToken{}, err
			}
			children = append(children, chars)
		}
		children = append(children, kw("from"), target)
	}
	children = append(children, tight(op(")")))
	return PrintToken{Kind: KindContainer, Container: ContainerGeneric, Children: children}, nil
}

func (lw *lowerer) lowerOverlay(n *ast.Overlay) (PrintToken, error) {
	target, err := lw.lowerExpr(n.Target)
	if err != nil {
		return PrintToken{}, err
	}
	placing, err := lw.lowerExpr(n.Placing)
	if err != nil {
		return PrintToken{}, err
	}
	from, err := lw.lowerExpr(n.From)
	if err != nil {
		return PrintToken{}, err
	}
	children := []PrintToken{kw("overlay"), openDelim("("), target, kw("placing"), placing, kw("from"), from}
	if n.For != nil {
		forv, err := lw.lowerExpr(n.For)
		if err != nil {
			return PrintToken{}, err
		}
		children = append(children, kw("for"), forv)
	}
	children = append(children, tight(op(")")))
	return PrintToken{Kind: KindContainer, Container: ContainerGeneric, Children: children}, nil
}

func (lw *lowerer) lowerAtTimeZone(n *ast.AtTimeZone) (PrintToken, error) {
	v, err := lw.lowerExpr(n.Value)
	if err != nil {
		return PrintToken{}, err
	}
	zone, err := lw.lowerExpr(n.Zone)
	if err != nil {
		return PrintToken{}, err
	}
	return PrintToken{Kind: KindContainer, Container: ContainerGeneric,
		Children: []PrintToken{v, kw("at time zone"), zone}}, nil
}

// opText renders a binary/unary operator token as SQL text. token.Token's
// own String() has no entries for XOR, #>, or #>> (tokenNames in
// token/token.go never filled them in), so operator rendering goes
// through this table rather than Token.String().
func opText(t token.Token) string {
	switch t {
	case token.EQ:
		return "="
	case token.NEQ:
		return "!="
	case token.LT:
		return "<"
	case token.GT:
		return ">"
	case token.LTE:
		return "<="
	case token.GTE:
		return ">="
	case token.PLUS:
		return "+"
	case token.MINUS:
		return "-"
	case token.ASTERISK:
		return "*"
	case token.SLASH:
		return "/"
	case token.PERCENT:
		return "%"
	case token.CONCAT:
		return "||"
	case token.BITAND:
		return "&"
	case token.BITOR:
		return "|"
	case token.BITXOR:
		return "^"
	case token.BITNOT:
		return "~"
	case token.LSHIFT:
		return "<<"
	case token.RSHIFT:
		return ">>"
	case token.ARROW:
		return "->"
	case token.DARROW:
		return "->>"
	case token.HASHGT:
		return "#>"
	case token.HASHDGT:
		return "#>>"
	case token.HASHOP:
		return "#"
	case token.AND:
		return "and"
	case token.OR:
		return "or"
	case token.XOR:
		return "xor"
	case token.NOT:
		return "not"
	default:
		return strings.ToLower(t.String())
	}
}
