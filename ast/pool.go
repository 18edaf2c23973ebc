package ast

import (
	"reflect"
	"sync"
)

// isNil reports whether n holds a typed nil pointer, the same check the
// teacher uses before deciding whether a node is present.
func isNil(n Node) bool {
	if n == nil {
		return true
	}
	v := reflect.ValueOf(n)
	return v.Kind() == reflect.Ptr && v.IsNil()
}

// Node pools for reducing allocations during parsing.
// Use Get* functions to obtain nodes and Release* to return them.

var (
	columnRefPool = sync.Pool{New: func() any { return &ColumnRef{} }}
	literalPool   = sync.Pool{New: func() any { return &Literal{} }}
	binaryPool    = sync.Pool{New: func() any { return &Binary{} }}
	functionPool  = sync.Pool{New: func() any { return &FunctionCall{} }}
	selectStmt    = sync.Pool{New: func() any { return &SimpleSelect{} }}
	tableSource   = sync.Pool{New: func() any { return &TableSource{} }}
	joinPool      = sync.Pool{New: func() any { return &Join{} }}

	selectItemSlicePool = sync.Pool{New: func() any { s := make([]*SelectItem, 0, 8); return &s }}
	exprSlicePool       = sync.Pool{New: func() any { s := make([]Expr, 0, 8); return &s }}
)

// GetColumnRef returns a zeroed ColumnRef from the pool.
func GetColumnRef() *ColumnRef {
	c := columnRefPool.Get().(*ColumnRef)
	*c = ColumnRef{}
	return c
}

// ReleaseColumnRef returns c to the pool.
func ReleaseColumnRef(c *ColumnRef) {
	if c == nil {
		return
	}
	columnRefPool.Put(c)
}

// GetLiteral returns a zeroed Literal from the pool.
func GetLiteral() *Literal {
	l := literalPool.Get().(*Literal)
	*l = Literal{}
	return l
}

// ReleaseLiteral returns l to the pool.
func ReleaseLiteral(l *Literal) {
	if l == nil {
		return
	}
	literalPool.Put(l)
}

// GetBinary returns a zeroed Binary from the pool.
func GetBinary() *Binary {
	b := binaryPool.Get().(*Binary)
	*b = Binary{}
	return b
}

// ReleaseBinary returns b to the pool.
func ReleaseBinary(b *Binary) {
	if b == nil {
		return
	}
	binaryPool.Put(b)
}

// GetFunctionCall returns a zeroed FunctionCall from the pool.
func GetFunctionCall() *FunctionCall {
	f := functionPool.Get().(*FunctionCall)
	*f = FunctionCall{}
	return f
}

// ReleaseFunctionCall returns f to the pool.
func ReleaseFunctionCall(f *FunctionCall) {
	if f == nil {
		return
	}
	functionPool.Put(f)
}

// GetSimpleSelect returns a zeroed SimpleSelect from the pool.
func GetSimpleSelect() *SimpleSelect {
	s := selectStmt.Get().(*SimpleSelect)
	*s = SimpleSelect{}
	return s
}

// ReleaseSimpleSelect returns s to the pool.
func ReleaseSimpleSelect(s *SimpleSelect) {
	if s == nil {
		return
	}
	selectStmt.Put(s)
}

// GetTableSource returns a zeroed TableSource from the pool.
func GetTableSource() *TableSource {
	t := tableSource.Get().(*TableSource)
	*t = TableSource{}
	return t
}

// ReleaseTableSource returns t to the pool.
func ReleaseTableSource(t *TableSource) {
	if t == nil {
		return
	}
	tableSource.Put(t)
}

// GetJoin returns a zeroed Join from the pool.
func GetJoin() *Join {
	j := joinPool.Get().(*Join)
	*j = Join{}
	return j
}

// ReleaseJoin returns j to the pool.
func ReleaseJoin(j *Join) {
	if j == nil {
		return
	}
	joinPool.Put(j)
}

// GetSelectItemSlice returns a zero-length, pool-backed []*SelectItem.
func GetSelectItemSlice() []*SelectItem {
	p := selectItemSlicePool.Get().(*[]*SelectItem)
	return (*p)[:0]
}

// ReleaseSelectItemSlice returns s's backing array to the pool.
func ReleaseSelectItemSlice(s []*SelectItem) {
	s = s[:0]
	selectItemSlicePool.Put(&s)
}

// GetExprSlice returns a zero-length, pool-backed []Expr.
func GetExprSlice() []Expr {
	p := exprSlicePool.Get().(*[]Expr)
	return (*p)[:0]
}

// ReleaseExprSlice returns s's backing array to the pool.
func ReleaseExprSlice(s []Expr) {
	s = s[:0]
	exprSlicePool.Put(&s)
}

// ReleaseAST recursively returns the pool-eligible nodes of tree back to
// their pools. Callers are never required to call this; it is a pure
// allocation optimization for hot parse/discard loops, not a correctness
// requirement.
func ReleaseAST(n Node) {
	if isNil(n) {
		return
	}
	switch v := n.(type) {
	case *SimpleSelect:
		if v.Select != nil {
			for _, item := range v.Select.Items {
				ReleaseAST(item.Value)
			}
		}
		if v.From != nil {
			ReleaseAST(v.From.Source)
			for _, j := range v.From.Joins {
				ReleaseAST(j.Source)
				ReleaseAST(j.Condition)
				ReleaseJoin(j)
			}
		}
		if v.Where != nil {
			ReleaseAST(v.Where.Condition)
		}
		ReleaseSimpleSelect(v)
	case *TableSource:
		ReleaseTableSource(v)
	case *ColumnRef:
		ReleaseColumnRef(v)
	case *Literal:
		ReleaseLiteral(v)
	case *Binary:
		ReleaseAST(v.Left)
		ReleaseAST(v.Right)
		ReleaseBinary(v)
	case *FunctionCall:
		for _, a := range v.Args {
			ReleaseAST(a)
		}
		ReleaseFunctionCall(v)
	}
}
