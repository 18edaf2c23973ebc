// Package carbunqlex tokenizes, parses, and reformats SELECT/VALUES
// queries. It wires together the lexer, parser, transform, and format
// packages behind a small surface:
//
//	q, err := carbunqlex.ParseSelect("select * from users where id = $1")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	res, err := carbunqlex.Format(q, format.DefaultOptions())
//	fmt.Println(res.SQL)
//
// Walking the AST:
//
//	carbunqlex.Walk(q, func(node ast.Node) bool {
//	    if col, ok := node.(*ast.ColumnRef); ok {
//	        fmt.Println("found column:", col.Name)
//	    }
//	    return true
//	})
package carbunqlex

import (
	"github.com/mk3008/carbunqlex-go/ast"
	"github.com/mk3008/carbunqlex-go/errs"
	"github.com/mk3008/carbunqlex-go/format"
	"github.com/mk3008/carbunqlex-go/lexer"
	"github.com/mk3008/carbunqlex-go/parser"
	"github.com/mk3008/carbunqlex-go/token"
	"github.com/mk3008/carbunqlex-go/transform"
	"github.com/mk3008/carbunqlex-go/visitor"
)

// Tokenize scans sql into its full lexeme stream, stopping at EOF. It
// never participates in parsing; it exists for tooling that wants the
// raw token stream (syntax highlighters, linters).
func Tokenize(sql string) ([]token.Item, error) {
	lx := lexer.Get(sql)
	defer lexer.Put(lx)

	var items []token.Item
	for {
		it := lx.Next()
		if it.Type == token.ILLEGAL {
			return nil, &errs.TokenizeError{Offset: it.Pos.Offset, Message: it.Value}
		}
		items = append(items, it)
		if it.Type == token.EOF {
			return items, nil
		}
	}
}

// ParseSelect parses a single top-level query: a SimpleSelect, a VALUES
// query, or a chain of these combined with UNION/INTERSECT/EXCEPT.
func ParseSelect(sql string) (ast.Query, error) {
	p := parser.Get(sql)
	defer parser.Put(p)
	return p.ParseQuery()
}

// NewCursor returns a lower-level Parser positioned at the start of sql,
// for callers that need to drive parsing a production at a time (an
// embedding tool that parses one query then inspects trailing input)
// rather than calling ParseSelect's single top-level-query contract.
func NewCursor(sql string) *parser.Parser {
	return parser.New(sql)
}

// Repool returns q's pool-eligible nodes to their pools. Optional: if
// never called, nodes are left for the garbage collector. Calling it
// after you're done with q improves allocation behavior in hot
// parse/discard loops.
func Repool(q ast.Query) {
	ast.ReleaseAST(q)
}

// Format renders q to SQL text under opts, alongside its parameter bag.
func Format(q ast.Query, opts format.Options) (format.Result, error) {
	return format.New(opts).Format(q)
}

// String formats q under format.DefaultOptions, discarding the
// parameter bag.
func String(q ast.Query) string {
	return format.String(q)
}

// LoadPreset re-exports format.LoadPreset for callers that only import
// the root package.
var LoadPreset = format.LoadPreset

// Walk traverses the AST, calling fn for each node. If fn returns false,
// that node's children are not visited.
func Walk(node ast.Node, fn func(ast.Node) bool) {
	visitor.WalkFunc(node, fn)
}

// Rewrite traverses the AST depth-first, rewriting children before the
// node itself, and replacing each node with whatever fn returns for it.
func Rewrite(node ast.Node, fn func(ast.Node) ast.Node) ast.Node {
	return visitor.Rewrite(node, fn)
}

// CTEGraph builds the dependency graph over the common table expressions
// declared in with, re-exporting transform.BuildCTEGraph.
func CTEGraph(with *ast.WithClause) *transform.CTEGraph {
	return transform.BuildCTEGraph(with)
}

// Re-exported typed errors, so callers importing only the root package
// can still type-switch on failures returned from Tokenize/ParseSelect/
// Format/LoadPreset.
type (
	TokenizeError = errs.TokenizeError
	ParseError    = errs.ParseError
	FormatError   = errs.FormatError
	PresetError   = errs.PresetError
)

// Node, Query, Expr, and Source alias the ast package's core interfaces
// for callers that don't otherwise need to import it.
type (
	Node   = ast.Node
	Query  = ast.Query
	Expr   = ast.Expr
	Source = ast.Source
)
