// Package parser builds an ast.Query from a token stream, covering the
// SELECT/VALUES grammar and its expression sub-grammar.
package parser

import (
	"strconv"
	"sync"

	"github.com/mk3008/carbunqlex-go/ast"
	"github.com/mk3008/carbunqlex-go/errs"
	"github.com/mk3008/carbunqlex-go/internal/obs"
	"github.com/mk3008/carbunqlex-go/lexer"
	"github.com/mk3008/carbunqlex-go/token"
)

var log = obs.Component("parser")

// Parser holds the lexer and lookahead state for a single parse.
type Parser struct {
	lex *lexer.Lexer
	cur token.Item
}

var parserPool = sync.Pool{
	New: func() any { return &Parser{} },
}

// New creates a Parser over sql, ready to parse a single top-level query.
func New(sql string) *Parser {
	p := &Parser{lex: lexer.New(sql)}
	p.cur = p.lex.Next()
	return p
}

// Get returns a pooled Parser reset to scan sql.
func Get(sql string) *Parser {
	p := parserPool.Get().(*Parser)
	p.lex = lexer.Get(sql)
	p.cur = p.lex.Next()
	return p
}

// Put returns p and its lexer to their pools. p must not be used afterward.
func Put(p *Parser) {
	lexer.Put(p.lex)
	p.lex = nil
	parserPool.Put(p)
}

// ParseQuery parses a single top-level query: a SimpleSelect, a VALUES
// query, or a chain of these combined with UNION/INTERSECT/EXCEPT.
func (p *Parser) ParseQuery() (ast.Query, error) {
	q, err := p.parseQuery()
	if err != nil {
		return nil, err
	}
	if p.cur.Type != token.EOF {
		return nil, p.errorf("end of input", "trailing input")
	}
	return q, nil
}

func (p *Parser) advance() {
	p.cur = p.lex.Next()
}

func (p *Parser) curIs(t token.Token) bool {
	return p.cur.Type == t
}

func (p *Parser) peekIs(t token.Token) bool {
	return p.lex.Peek().Type == t
}

// expect verifies the current token and advances past it, returning the
// consumed item.
func (p *Parser) expect(t token.Token, context string) (token.Item, error) {
	if p.cur.Type != t {
		return token.Item{}, p.errorfIn(context, t.String(), p.describeCur())
	}
	it := p.cur
	p.advance()
	return it, nil
}

// expectIdent consumes an IDENT and returns its text.
func (p *Parser) expectIdent(context string) (string, error) {
	if p.cur.Type != token.IDENT {
		return "", p.errorfIn(context, "identifier", p.describeCur())
	}
	name := p.cur.Value
	p.advance()
	return name, nil
}

func (p *Parser) describeCur() string {
	if p.cur.Type == token.EOF {
		return "end of input"
	}
	if p.cur.Value != "" {
		return p.cur.Value
	}
	return p.cur.Type.String()
}

func (p *Parser) errorf(expected, context string) error {
	e := &errs.ParseError{
		Offset:   p.cur.Pos.Offset,
		Expected: expected,
		Found:    p.describeCur(),
		Context:  context,
	}
	log.WithFields(logFields(e)).Debug("parse error")
	return e
}

func (p *Parser) errorfIn(context, expected, found string) error {
	e := &errs.ParseError{
		Offset:   p.cur.Pos.Offset,
		Expected: expected,
		Found:    found,
		Context:  context,
	}
	log.WithFields(logFields(e)).Debug("parse error")
	return e
}

func logFields(e *errs.ParseError) map[string]any {
	return map[string]any{
		"offset":   e.Offset,
		"expected": e.Expected,
		"found":    e.Found,
		"context":  e.Context,
	}
}

func (p *Parser) pos() token.Pos { return p.cur.Pos }

// parseQualifiedName parses a dotted name chain (schema.table, a.b.c) and
// returns the leading qualifiers and the final component.
func (p *Parser) parseQualifiedName(context string) ([]string, string, error) {
	first, err := p.expectIdent(context)
	if err != nil {
		return nil, "", err
	}
	var qualifiers []string
	name := first
	for p.curIs(token.DOT) {
		p.advance()
		next, err := p.expectIdent(context)
		if err != nil {
			return nil, "", err
		}
		qualifiers = append(qualifiers, name)
		name = next
	}
	return qualifiers, name, nil
}

// parseOptionalAlias consumes an optional `[AS] alias`.
func (p *Parser) parseOptionalAlias() (alias string, err error) {
	if p.curIs(token.AS) {
		p.advance()
		return p.expectIdent("alias")
	}
	if p.curIs(token.IDENT) {
		alias = p.cur.Value
		p.advance()
		return alias, nil
	}
	return "", nil
}

func (p *Parser) parseOptionalColumnAliasList() ([]string, error) {
	if !p.curIs(token.LPAREN) {
		return nil, nil
	}
	p.advance()
	var cols []string
	for {
		name, err := p.expectIdent("column alias list")
		if err != nil {
			return nil, err
		}
		cols = append(cols, name)
		if p.curIs(token.COMMA) {
			p.advance()
			continue
		}
		break
	}
	if _, err := p.expect(token.RPAREN, "column alias list"); err != nil {
		return nil, err
	}
	return cols, nil
}

func parseInt(s string) int {
	n, _ := strconv.Atoi(s)
	return n
}

// parseWithClause parses a leading `WITH [RECURSIVE] name AS (...) , ...`.
func (p *Parser) parseWithClause() (*ast.WithClause, error) {
	start := p.pos()
	p.advance() // consume WITH

	recursive := false
	if p.curIs(token.RECURSIVE) {
		recursive = true
		p.advance()
	}

	var tables []*ast.CommonTable
	for {
		ct, err := p.parseCommonTable()
		if err != nil {
			return nil, err
		}
		tables = append(tables, ct)
		if p.curIs(token.COMMA) {
			p.advance()
			continue
		}
		break
	}

	return &ast.WithClause{
		StartPos:  start,
		EndPos:    p.pos(),
		Recursive: recursive,
		Tables:    tables,
	}, nil
}

func (p *Parser) parseCommonTable() (*ast.CommonTable, error) {
	start := p.pos()
	alias, err := p.expectIdent("common table expression")
	if err != nil {
		return nil, err
	}
	cols, err := p.parseOptionalColumnAliasList()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.AS, "common table expression"); err != nil {
		return nil, err
	}

	materialized := ast.MaterializedUnspecified
	switch {
	case p.curIs(token.MATERIALIZED):
		materialized = ast.MaterializedYes
		p.advance()
	case p.curIs(token.NOT_MATERIALIZED):
		materialized = ast.MaterializedNo
		p.advance()
	}

	if _, err := p.expect(token.LPAREN, "common table expression"); err != nil {
		return nil, err
	}
	q, err := p.parseQuery()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.RPAREN, "common table expression"); err != nil {
		return nil, err
	}

	return &ast.CommonTable{
		StartPos:      start,
		EndPos:        p.pos(),
		Alias:         alias,
		ColumnAliases: cols,
		Query:         q,
		Materialized:  materialized,
	}, nil
}
