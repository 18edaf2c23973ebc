package parser

import (
	"github.com/mk3008/carbunqlex-go/ast"
	"github.com/mk3008/carbunqlex-go/errs"
	"github.com/mk3008/carbunqlex-go/token"
)

// Precedence levels for the Pratt expression parser, lowest to tightest
// binding. Keyword predicates (IS, IN, BETWEEN, LIKE/ILIKE/SIMILAR TO)
// bind at precComparison alongside the comparison operators.
const (
	precLowest = iota
	precOr
	precAnd
	precComparison
	precBitwise // |, &, # (one shared left-to-right tier)
	precShift
	precAdditive
	precMultiplicative
	precUnary
	precBitXor // ^ binds tighter than unary prefix operators
)

func binaryPrecedence(t token.Token) (int, bool) {
	switch t {
	case token.OR:
		return precOr, true
	case token.AND:
		return precAnd, true
	case token.EQ, token.NEQ, token.LT, token.GT, token.LTE, token.GTE:
		return precComparison, true
	case token.BITOR, token.BITAND, token.HASHOP:
		return precBitwise, true
	case token.LSHIFT, token.RSHIFT:
		return precShift, true
	case token.PLUS, token.MINUS, token.CONCAT:
		return precAdditive, true
	case token.ASTERISK, token.SLASH, token.PERCENT,
		token.ARROW, token.DARROW, token.HASHGT, token.HASHDGT:
		return precMultiplicative, true
	case token.BITXOR:
		return precBitXor, true
	}
	return 0, false
}

// parseExpr parses an expression, stopping at the first operator whose
// precedence is below minPrec.
func (p *Parser) parseExpr(minPrec int) (ast.Expr, error) {
	left, err := p.parseUnary()
	if err != nil {
		return nil, err
	}
	left, err = p.parsePostfix(left)
	if err != nil {
		return nil, err
	}

	for {
		if precComparison >= minPrec {
			handled, next, err := p.tryParsePredicate(left)
			if err != nil {
				return nil, err
			}
			if handled {
				left, err = p.parsePostfix(next)
				if err != nil {
					return nil, err
				}
				continue
			}
		}

		opPrec, ok := binaryPrecedence(p.cur.Type)
		if !ok || opPrec < minPrec {
			break
		}
		op := p.cur.Type
		p.advance()
		right, err := p.parseExpr(opPrec + 1)
		if err != nil {
			return nil, err
		}
		left = &ast.Binary{StartPos: left.Pos(), EndPos: right.End(), Op: op, Left: left, Right: right}
	}
	return left, nil
}

func (p *Parser) parseUnary() (ast.Expr, error) {
	switch p.cur.Type {
	case token.NOT:
		start := p.pos()
		p.advance()
		operand, err := p.parseExpr(precComparison)
		if err != nil {
			return nil, err
		}
		return &ast.Unary{StartPos: start, EndPos: operand.End(), Op: token.NOT, Operand: operand}, nil
	case token.PLUS, token.MINUS, token.BITNOT:
		start := p.pos()
		op := p.cur.Type
		p.advance()
		operand, err := p.parseExpr(precUnary)
		if err != nil {
			return nil, err
		}
		return &ast.Unary{StartPos: start, EndPos: operand.End(), Op: op, Operand: operand}, nil
	default:
		return p.parseAtom()
	}
}

// parsePostfix applies postfix operators that are not modeled as plain
// left-associative binary operators: `::type`, `AT TIME ZONE`, `COLLATE`,
// and `[index]` subscripting.
func (p *Parser) parsePostfix(left ast.Expr) (ast.Expr, error) {
	for {
		switch p.cur.Type {
		case token.DCOLON:
			p.advance()
			typ, err := p.parseTypeRef()
			if err != nil {
				return nil, err
			}
			left = &ast.Cast{StartPos: left.Pos(), EndPos: typ.End(), Value: left, Type: typ, Style: ast.CastDoubleColon}
		case token.AT_TIME_ZONE:
			p.advance()
			zone, err := p.parseExpr(precUnary)
			if err != nil {
				return nil, err
			}
			left = &ast.AtTimeZone{StartPos: left.Pos(), EndPos: zone.End(), Value: left, Zone: zone}
		case token.COLLATE:
			p.advance()
			name, err := p.expectIdent("collate clause")
			if err != nil {
				return nil, err
			}
			left = &ast.Collate{StartPos: left.Pos(), EndPos: p.pos(), Value: left, Collation: name}
		case token.LBRACKET:
			p.advance()
			idx, err := p.parseExpr(precLowest)
			if err != nil {
				return nil, err
			}
			if _, err := p.expect(token.RBRACKET, "subscript"); err != nil {
				return nil, err
			}
			left = &ast.Subscript{StartPos: left.Pos(), EndPos: p.pos(), Value: left, Index: idx}
		default:
			return left, nil
		}
	}
}

// tryParsePredicate recognizes the keyword-form predicates that wrap an
// already-parsed left operand: [NOT] IN/BETWEEN/LIKE/ILIKE/SIMILAR TO,
// IS [NOT] .../DISTINCT FROM, ISNULL, NOTNULL.
func (p *Parser) tryParsePredicate(left ast.Expr) (bool, ast.Expr, error) {
	negated := false
	if p.curIs(token.NOT) {
		switch p.lex.Peek().Type {
		case token.IN, token.BETWEEN, token.LIKE, token.ILIKE, token.SIMILAR:
			negated = true
			p.advance()
		default:
			return false, left, nil
		}
	}

	switch p.cur.Type {
	case token.IN:
		p.advance()
		e, err := p.parseInExpr(left, negated)
		return true, e, err
	case token.BETWEEN:
		p.advance()
		e, err := p.parseBetweenExpr(left, negated)
		return true, e, err
	case token.LIKE:
		p.advance()
		e, err := p.parseLikeExpr(left, negated, false, false)
		return true, e, err
	case token.ILIKE:
		p.advance()
		e, err := p.parseLikeExpr(left, negated, false, true)
		return true, e, err
	case token.SIMILAR:
		p.advance()
		if _, err := p.expect(token.TO, "similar to predicate"); err != nil {
			return true, nil, err
		}
		e, err := p.parseLikeExpr(left, negated, true, false)
		return true, e, err
	case token.IS:
		p.advance()
		e, err := p.parseIsExpr(left)
		return true, e, err
	case token.ISNULL:
		p.advance()
		return true, &ast.Is{StartPos: left.Pos(), EndPos: p.pos(), Value: left, Target: ast.IsNull}, nil
	case token.NOTNULL:
		p.advance()
		return true, &ast.Is{StartPos: left.Pos(), EndPos: p.pos(), Value: left, Negated: true, Target: ast.IsNull}, nil
	case token.IS_DISTINCT_FROM:
		p.advance()
		other, err := p.parseExpr(precComparison + 1)
		if err != nil {
			return true, nil, err
		}
		return true, &ast.Is{StartPos: left.Pos(), EndPos: other.End(), Value: left, Target: ast.IsDistinctFrom, Other: other}, nil
	case token.IS_NOT_DISTINCT_FROM:
		p.advance()
		other, err := p.parseExpr(precComparison + 1)
		if err != nil {
			return true, nil, err
		}
		return true, &ast.Is{StartPos: left.Pos(), EndPos: other.End(), Value: left, Negated: true, Target: ast.IsNotDistinctFrom, Other: other}, nil
	}

	if negated {
		return false, left, p.errorf("IN, BETWEEN, LIKE, ILIKE, or SIMILAR", "negated predicate")
	}
	return false, left, nil
}

func (p *Parser) parseInExpr(left ast.Expr, negated bool) (ast.Expr, error) {
	if _, err := p.expect(token.LPAREN, "in predicate"); err != nil {
		return nil, err
	}
	if p.curIs(token.SELECT) || p.curIs(token.WITH) {
		q, err := p.parseQuery()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(token.RPAREN, "in predicate"); err != nil {
			return nil, err
		}
		return &ast.In{StartPos: left.Pos(), EndPos: p.pos(), Value: left, Negated: negated, Subquery: q}, nil
	}
	var list []ast.Expr
	for {
		e, err := p.parseExpr(precLowest)
		if err != nil {
			return nil, err
		}
		list = append(list, e)
		if p.curIs(token.COMMA) {
			p.advance()
			continue
		}
		break
	}
	if _, err := p.expect(token.RPAREN, "in predicate"); err != nil {
		return nil, err
	}
	return &ast.In{StartPos: left.Pos(), EndPos: p.pos(), Value: left, Negated: negated, List: list}, nil
}

func (p *Parser) parseBetweenExpr(left ast.Expr, negated bool) (ast.Expr, error) {
	low, err := p.parseExpr(precAdditive)
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.AND, "between predicate"); err != nil {
		return nil, err
	}
	high, err := p.parseExpr(precAdditive)
	if err != nil {
		return nil, err
	}
	return &ast.Between{StartPos: left.Pos(), EndPos: high.End(), Value: left, Negated: negated, Low: low, High: high}, nil
}

func (p *Parser) parseLikeExpr(left ast.Expr, negated, similar, caseFold bool) (ast.Expr, error) {
	pattern, err := p.parseExpr(precAdditive)
	if err != nil {
		return nil, err
	}
	var escape ast.Expr
	end := pattern.End()
	if p.curIs(token.ESCAPE) {
		p.advance()
		escape, err = p.parseExpr(precAdditive)
		if err != nil {
			return nil, err
		}
		end = escape.End()
	}
	return &ast.Like{
		StartPos: left.Pos(), EndPos: end,
		Value: left, Pattern: pattern, Escape: escape,
		Negated: negated, Similar: similar, CaseFold: caseFold,
	}, nil
}

func (p *Parser) parseIsExpr(left ast.Expr) (ast.Expr, error) {
	negated := false
	if p.curIs(token.NOT) {
		negated = true
		p.advance()
	}
	switch {
	case p.curIs(token.NULL):
		p.advance()
		return &ast.Is{StartPos: left.Pos(), EndPos: p.pos(), Value: left, Negated: negated, Target: ast.IsNull}, nil
	case p.curIs(token.TRUE):
		p.advance()
		return &ast.Is{StartPos: left.Pos(), EndPos: p.pos(), Value: left, Negated: negated, Target: ast.IsTrue}, nil
	case p.curIs(token.FALSE):
		p.advance()
		return &ast.Is{StartPos: left.Pos(), EndPos: p.pos(), Value: left, Negated: negated, Target: ast.IsFalse}, nil
	case p.curIs(token.UNKNOWN):
		p.advance()
		return &ast.Is{StartPos: left.Pos(), EndPos: p.pos(), Value: left, Negated: negated, Target: ast.IsUnknown}, nil
	}
	return nil, p.errorf("NULL, TRUE, FALSE, or UNKNOWN", "is predicate")
}

func isIntervalUnit(t token.Token) bool {
	switch t {
	case token.YEAR, token.MONTH, token.DAY, token.HOUR, token.MINUTE, token.SECOND,
		token.WEEK, token.QUARTER, token.MICROSECOND, token.CENTURY, token.DECADE,
		token.MILLENNIUM, token.EPOCH:
		return true
	}
	return false
}

func isFunctionKeyword(t token.Token) bool {
	switch t {
	case token.COUNT, token.SUM, token.AVG, token.MIN, token.MAX, token.COALESCE,
		token.NULLIF, token.GREATEST, token.LEAST, token.ANY, token.SOME, token.EVERY:
		return true
	}
	return false
}

func (p *Parser) parseAtom() (ast.Expr, error) {
	start := p.pos()
	switch p.cur.Type {
	case token.INT, token.FLOAT:
		v := p.cur.Value
		p.advance()
		return &ast.Literal{StartPos: start, EndPos: p.pos(), Kind: ast.LiteralNumeric, Raw: v}, nil
	case token.STRING, token.BLOB:
		v := p.cur.Value
		p.advance()
		return &ast.Literal{StartPos: start, EndPos: p.pos(), Kind: ast.LiteralString, Raw: v}, nil
	case token.TRUE:
		p.advance()
		return &ast.Literal{StartPos: start, EndPos: p.pos(), Kind: ast.LiteralBoolean, Raw: "true"}, nil
	case token.FALSE:
		p.advance()
		return &ast.Literal{StartPos: start, EndPos: p.pos(), Kind: ast.LiteralBoolean, Raw: "false"}, nil
	case token.NULL:
		p.advance()
		return &ast.Literal{StartPos: start, EndPos: p.pos(), Kind: ast.LiteralNull, Raw: "null"}, nil
	case token.PARAM:
		return p.parseParameter()
	case token.ASTERISK:
		p.advance()
		return &ast.ColumnRef{StartPos: start, EndPos: p.pos(), Wildcard: true}, nil
	case token.LPAREN:
		p.advance()
		if p.curIs(token.SELECT) || p.curIs(token.WITH) || p.curIs(token.VALUES) {
			q, err := p.parseQuery()
			if err != nil {
				return nil, err
			}
			if _, err := p.expect(token.RPAREN, "subquery expression"); err != nil {
				return nil, err
			}
			return &ast.InlineQuery{StartPos: start, EndPos: p.pos(), Query: q}, nil
		}
		inner, err := p.parseExpr(precLowest)
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(token.RPAREN, "parenthesized expression"); err != nil {
			return nil, err
		}
		return &ast.Paren{StartPos: start, EndPos: p.pos(), Inner: inner}, nil
	case token.EXISTS:
		p.advance()
		if _, err := p.expect(token.LPAREN, "exists predicate"); err != nil {
			return nil, err
		}
		q, err := p.parseQuery()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(token.RPAREN, "exists predicate"); err != nil {
			return nil, err
		}
		return &ast.Exists{StartPos: start, EndPos: p.pos(), Subquery: q}, nil
	case token.CASE:
		return p.parseCase()
	case token.CAST:
		return p.parseCast()
	case token.EXTRACT:
		return p.parseExtract()
	case token.POSITION:
		return p.parsePosition()
	case token.SUBSTRING:
		return p.parseSubstring()
	case token.TRIM:
		return p.parseTrim()
	case token.OVERLAY:
		return p.parseOverlay()
	case token.ARRAY:
		return p.parseArray()
	case token.INTERVAL:
		return p.parseInterval()
	case token.IDENT:
		return p.parseIdentChain()
	default:
		if isFunctionKeyword(p.cur.Type) {
			return p.parseIdentChain()
		}
		return nil, p.errorf("expression", "expression")
	}
}

func (p *Parser) parseParameter() (ast.Expr, error) {
	start := p.pos()
	v := p.cur.Value
	p.advance()
	if v == "" {
		return nil, p.errorfIn("parameter", "parameter", "empty parameter")
	}
	switch v[0] {
	case '?':
		return &ast.Parameter{StartPos: start, EndPos: p.pos(), Style: ast.ParamAnonymous, Symbol: '?'}, nil
	case '$':
		return &ast.Parameter{StartPos: start, EndPos: p.pos(), Style: ast.ParamIndexed, Index: parseInt(v[1:]), Symbol: '$'}, nil
	case ':':
		return &ast.Parameter{StartPos: start, EndPos: p.pos(), Style: ast.ParamNamed, Name: v[1:], Symbol: ':'}, nil
	case '@':
		return &ast.Parameter{StartPos: start, EndPos: p.pos(), Style: ast.ParamNamed, Name: v[1:], Symbol: '@'}, nil
	}
	return nil, p.errorfIn("parameter", "parameter", v)
}

// parseIdentChain parses a dotted identifier chain, resolving it into a
// qualified wildcard, a plain column reference, or a function call when
// followed by `(`.
func (p *Parser) parseIdentChain() (ast.Expr, error) {
	start := p.pos()
	name := p.cur.Value
	p.advance()

	var qualifiers []string
	for p.curIs(token.DOT) {
		p.advance()
		if p.curIs(token.ASTERISK) {
			p.advance()
			qualifiers = append(qualifiers, name)
			return &ast.ColumnRef{StartPos: start, EndPos: p.pos(), Qualifiers: qualifiers, QualifiedWildcard: true}, nil
		}
		next := p.cur.Value
		if p.cur.Type != token.IDENT && !isFunctionKeyword(p.cur.Type) {
			return nil, p.errorfIn("qualified name", "identifier", p.describeCur())
		}
		p.advance()
		qualifiers = append(qualifiers, name)
		name = next
	}

	if p.curIs(token.LPAREN) {
		return p.parseFunctionCallTail(start, qualifiers, name)
	}
	return &ast.ColumnRef{StartPos: start, EndPos: p.pos(), Qualifiers: qualifiers, Name: name}, nil
}

func (p *Parser) parseFunctionCallTail(startPos token.Pos, qualifiers []string, name string) (ast.Expr, error) {
	p.advance() // consume (

	distinct := false
	switch {
	case p.curIs(token.DISTINCT):
		distinct = true
		p.advance()
	case p.curIs(token.ALL):
		p.advance()
	}

	var args []ast.Expr
	switch {
	case p.curIs(token.ASTERISK):
		wpos := p.pos()
		p.advance()
		args = append(args, &ast.ColumnRef{StartPos: wpos, EndPos: p.pos(), Wildcard: true})
	case !p.curIs(token.RPAREN):
		for {
			e, err := p.parseExpr(precLowest)
			if err != nil {
				return nil, err
			}
			args = append(args, e)
			if p.curIs(token.COMMA) {
				p.advance()
				continue
			}
			break
		}
	}

	var orderBy *ast.OrderByClause
	if p.curIs(token.ORDER_BY) {
		obStart := p.pos()
		p.advance()
		items, err := p.parseOrderItems()
		if err != nil {
			return nil, err
		}
		orderBy = &ast.OrderByClause{StartPos: obStart, EndPos: p.pos(), Items: items}
	}

	if _, err := p.expect(token.RPAREN, "function call"); err != nil {
		return nil, err
	}

	var filterWhere ast.Expr
	if p.curIs(token.FILTER) {
		p.advance()
		if _, err := p.expect(token.LPAREN, "filter clause"); err != nil {
			return nil, err
		}
		if _, err := p.expect(token.WHERE, "filter clause"); err != nil {
			return nil, err
		}
		fw, err := p.parseExpr(precLowest)
		if err != nil {
			return nil, err
		}
		filterWhere = fw
		if _, err := p.expect(token.RPAREN, "filter clause"); err != nil {
			return nil, err
		}
	}

	var withinGroup *ast.OrderByClause
	if p.curIs(token.WITHIN_GROUP) {
		p.advance()
		if _, err := p.expect(token.LPAREN, "within group clause"); err != nil {
			return nil, err
		}
		wgStart := p.pos()
		if _, err := p.expect(token.ORDER_BY, "within group clause"); err != nil {
			return nil, err
		}
		items, err := p.parseOrderItems()
		if err != nil {
			return nil, err
		}
		withinGroup = &ast.OrderByClause{StartPos: wgStart, EndPos: p.pos(), Items: items}
		if _, err := p.expect(token.RPAREN, "within group clause"); err != nil {
			return nil, err
		}
	}

	var overWindow *ast.WindowSpec
	if p.curIs(token.OVER) {
		p.advance()
		if p.curIs(token.LPAREN) {
			spec, err := p.parseWindowSpec()
			if err != nil {
				return nil, err
			}
			overWindow = spec
		} else {
			refStart := p.pos()
			name, err := p.expectIdent("over clause")
			if err != nil {
				return nil, err
			}
			overWindow = &ast.WindowSpec{StartPos: refStart, EndPos: p.pos(), Ref: name}
		}
	}

	if overWindow != nil && withinGroup != nil {
		return nil, &errs.ParseError{
			Offset:   startPos.Offset,
			Expected: "OVER or WITHIN GROUP, not both",
			Found:    "both",
			Context:  "function call",
		}
	}

	return &ast.FunctionCall{
		StartPos:    startPos,
		EndPos:      p.pos(),
		Qualifiers:  qualifiers,
		Name:        name,
		Distinct:    distinct,
		Args:        args,
		OrderBy:     orderBy,
		FilterWhere: filterWhere,
		OverWindow:  overWindow,
		WithinGroup: withinGroup,
	}, nil
}

func (p *Parser) parseWindowSpec() (*ast.WindowSpec, error) {
	start := p.pos()
	if _, err := p.expect(token.LPAREN, "window specification"); err != nil {
		return nil, err
	}

	var ref string
	if p.curIs(token.IDENT) {
		ref = p.cur.Value
		p.advance()
	}

	var partitionBy []ast.Expr
	if p.curIs(token.PARTITION) {
		p.advance()
		if _, err := p.expect(token.BY, "window specification"); err != nil {
			return nil, err
		}
		for {
			e, err := p.parseExpr(precLowest)
			if err != nil {
				return nil, err
			}
			partitionBy = append(partitionBy, e)
			if p.curIs(token.COMMA) {
				p.advance()
				continue
			}
			break
		}
	}

	var orderBy *ast.OrderByClause
	if p.curIs(token.ORDER_BY) {
		obStart := p.pos()
		p.advance()
		items, err := p.parseOrderItems()
		if err != nil {
			return nil, err
		}
		orderBy = &ast.OrderByClause{StartPos: obStart, EndPos: p.pos(), Items: items}
	}

	var frame *ast.WindowFrame
	if p.curIs(token.ROWS) || p.curIs(token.RANGE) || p.curIs(token.GROUPS) {
		f, err := p.parseWindowFrame()
		if err != nil {
			return nil, err
		}
		frame = f
	}

	if _, err := p.expect(token.RPAREN, "window specification"); err != nil {
		return nil, err
	}

	return &ast.WindowSpec{StartPos: start, EndPos: p.pos(), Ref: ref, PartitionBy: partitionBy, OrderBy: orderBy, Frame: frame}, nil
}

func (p *Parser) parseWindowFrame() (*ast.WindowFrame, error) {
	var unit ast.FrameUnit
	switch p.cur.Type {
	case token.ROWS:
		unit = ast.FrameRows
	case token.RANGE:
		unit = ast.FrameRange
	case token.GROUPS:
		unit = ast.FrameGroups
	}
	p.advance()

	if p.curIs(token.BETWEEN) {
		p.advance()
		start, err := p.parseFrameBound()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(token.AND, "window frame"); err != nil {
			return nil, err
		}
		end, err := p.parseFrameBound()
		if err != nil {
			return nil, err
		}
		return &ast.WindowFrame{Unit: unit, Start: start, End: end}, nil
	}

	start, err := p.parseFrameBound()
	if err != nil {
		return nil, err
	}
	return &ast.WindowFrame{Unit: unit, Start: start}, nil
}

func (p *Parser) parseFrameBound() (*ast.FrameBound, error) {
	switch {
	case p.curIs(token.UNBOUNDED):
		p.advance()
		switch {
		case p.curIs(token.PRECEDING):
			p.advance()
			return &ast.FrameBound{Kind: ast.BoundUnboundedPreceding}, nil
		case p.curIs(token.FOLLOWING):
			p.advance()
			return &ast.FrameBound{Kind: ast.BoundUnboundedFollowing}, nil
		}
		return nil, p.errorf("PRECEDING or FOLLOWING", "window frame bound")
	case p.curIs(token.CURRENT):
		p.advance()
		if _, err := p.expect(token.ROW, "window frame bound"); err != nil {
			return nil, err
		}
		return &ast.FrameBound{Kind: ast.BoundCurrentRow}, nil
	default:
		offset, err := p.parseExpr(precAdditive)
		if err != nil {
			return nil, err
		}
		switch {
		case p.curIs(token.PRECEDING):
			p.advance()
			return &ast.FrameBound{Kind: ast.BoundPreceding, Offset: offset}, nil
		case p.curIs(token.FOLLOWING):
			p.advance()
			return &ast.FrameBound{Kind: ast.BoundFollowing, Offset: offset}, nil
		}
		return nil, p.errorf("PRECEDING or FOLLOWING", "window frame bound")
	}
}

func (p *Parser) parseCase() (*ast.Case, error) {
	start := p.pos()
	p.advance()

	var subject ast.Expr
	if !p.curIs(token.WHEN) {
		e, err := p.parseExpr(precLowest)
		if err != nil {
			return nil, err
		}
		subject = e
	}

	var branches []*ast.CaseBranch
	for p.curIs(token.WHEN) {
		p.advance()
		when, err := p.parseExpr(precLowest)
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(token.THEN, "case expression"); err != nil {
			return nil, err
		}
		then, err := p.parseExpr(precLowest)
		if err != nil {
			return nil, err
		}
		branches = append(branches, &ast.CaseBranch{When: when, Then: then})
	}

	var elseValue ast.Expr
	if p.curIs(token.ELSE) {
		p.advance()
		e, err := p.parseExpr(precLowest)
		if err != nil {
			return nil, err
		}
		elseValue = e
	}

	if _, err := p.expect(token.END, "case expression"); err != nil {
		return nil, err
	}
	return &ast.Case{StartPos: start, EndPos: p.pos(), Subject: subject, Branches: branches, ElseValue: elseValue}, nil
}

func (p *Parser) parseCast() (*ast.Cast, error) {
	start := p.pos()
	p.advance()
	if _, err := p.expect(token.LPAREN, "cast expression"); err != nil {
		return nil, err
	}
	value, err := p.parseExpr(precLowest)
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.AS, "cast expression"); err != nil {
		return nil, err
	}
	typ, err := p.parseTypeRef()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.RPAREN, "cast expression"); err != nil {
		return nil, err
	}
	return &ast.Cast{StartPos: start, EndPos: p.pos(), Value: value, Type: typ, Style: ast.CastAs}, nil
}

func (p *Parser) parseTypeRef() (*ast.TypeRef, error) {
	start := p.pos()
	var name string
	tz := ast.TimeZoneUnspecified

	switch p.cur.Type {
	case token.DOUBLE_PRECISION:
		name = "double precision"
		p.advance()
	case token.CHARACTER_VARYING:
		name = "character varying"
		p.advance()
	case token.TIMESTAMP_WITH_TIME_ZONE:
		name, tz = "timestamp", ast.TimeZoneWith
		p.advance()
	case token.TIMESTAMP_WITHOUT_TIME_ZONE:
		name, tz = "timestamp", ast.TimeZoneWithout
		p.advance()
	case token.TIME_WITH_TIME_ZONE:
		name, tz = "time", ast.TimeZoneWith
		p.advance()
	case token.TIME_WITHOUT_TIME_ZONE:
		name, tz = "time", ast.TimeZoneWithout
		p.advance()
	default:
		if p.cur.Type != token.IDENT && !p.cur.Type.IsKeyword() {
			return nil, p.errorf("type name", "type reference")
		}
		name = p.cur.Value
		p.advance()
	}

	for p.curIs(token.LBRACKET) {
		p.advance()
		if _, err := p.expect(token.RBRACKET, "array type"); err != nil {
			return nil, err
		}
		name += "[]"
	}

	var precision, scale *int
	if p.curIs(token.LPAREN) {
		p.advance()
		n, err := p.expect(token.INT, "type precision")
		if err != nil {
			return nil, err
		}
		pv := parseInt(n.Value)
		precision = &pv
		if p.curIs(token.COMMA) {
			p.advance()
			n2, err := p.expect(token.INT, "type scale")
			if err != nil {
				return nil, err
			}
			sv := parseInt(n2.Value)
			scale = &sv
		}
		if _, err := p.expect(token.RPAREN, "type precision"); err != nil {
			return nil, err
		}
	}

	return &ast.TypeRef{StartPos: start, EndPos: p.pos(), Name: name, Precision: precision, Scale: scale, TimeZone: tz}, nil
}

func (p *Parser) parseExtract() (*ast.Extract, error) {
	start := p.pos()
	p.advance()
	if _, err := p.expect(token.LPAREN, "extract expression"); err != nil {
		return nil, err
	}
	if p.cur.Type != token.IDENT && !p.cur.Type.IsKeyword() {
		return nil, p.errorf("field name", "extract field")
	}
	field := p.cur.Value
	p.advance()
	if _, err := p.expect(token.FROM, "extract expression"); err != nil {
		return nil, err
	}
	from, err := p.parseExpr(precLowest)
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.RPAREN, "extract expression"); err != nil {
		return nil, err
	}
	return &ast.Extract{StartPos: start, EndPos: p.pos(), Field: field, From: from}, nil
}

func (p *Parser) parsePosition() (*ast.Position, error) {
	start := p.pos()
	p.advance()
	if _, err := p.expect(token.LPAREN, "position expression"); err != nil {
		return nil, err
	}
	needle, err := p.parseExpr(precAdditive)
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.IN, "position expression"); err != nil {
		return nil, err
	}
	haystack, err := p.parseExpr(precLowest)
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.RPAREN, "position expression"); err != nil {
		return nil, err
	}
	return &ast.Position{StartPos: start, EndPos: p.pos(), Needle: needle, Haystack: haystack}, nil
}

func (p *Parser) parseSubstring() (*ast.Substring, error) {
	start := p.pos()
	p.advance()
	if _, err := p.expect(token.LPAREN, "substring expression"); err != nil {
		return nil, err
	}
	target, err := p.parseExpr(precAdditive)
	if err != nil {
		return nil, err
	}
	sub := &ast.Substring{StartPos: start, Target: target}

	switch {
	case p.curIs(token.FROM):
		p.advance()
		from, err := p.parseExpr(precAdditive)
		if err != nil {
			return nil, err
		}
		sub.From = from
		if p.curIs(token.FOR) {
			p.advance()
			forExpr, err := p.parseExpr(precAdditive)
			if err != nil {
				return nil, err
			}
			sub.For = forExpr
		}
	case p.curIs(token.SIMILAR):
		p.advance()
		pattern, err := p.parseExpr(precAdditive)
		if err != nil {
			return nil, err
		}
		sub.Pattern = pattern
		if _, err := p.expect(token.ESCAPE, "substring expression"); err != nil {
			return nil, err
		}
		escape, err := p.parseExpr(precAdditive)
		if err != nil {
			return nil, err
		}
		sub.Escape = escape
	case p.curIs(token.COMMA):
		p.advance()
		from, err := p.parseExpr(precAdditive)
		if err != nil {
			return nil, err
		}
		sub.From = from
		if p.curIs(token.COMMA) {
			p.advance()
			forExpr, err := p.parseExpr(precAdditive)
			if err != nil {
				return nil, err
			}
			sub.For = forExpr
		}
	}

	if _, err := p.expect(token.RPAREN, "substring expression"); err != nil {
		return nil, err
	}
	sub.EndPos = p.pos()
	return sub, nil
}

func (p *Parser) parseTrim() (*ast.Trim, error) {
	start := p.pos()
	p.advance()
	if _, err := p.expect(token.LPAREN, "trim expression"); err != nil {
		return nil, err
	}

	side := ast.TrimBoth
	sideSpecified := false
	switch {
	case p.curIs(token.LEADING):
		side, sideSpecified = ast.TrimLeading, true
		p.advance()
	case p.curIs(token.TRAILING):
		side, sideSpecified = ast.TrimTrailing, true
		p.advance()
	case p.curIs(token.BOTH):
		side, sideSpecified = ast.TrimBoth, true
		p.advance()
	}

	first, err := p.parseExpr(precAdditive)
	if err != nil {
		return nil, err
	}

	var characters, target ast.Expr
	if p.curIs(token.FROM) {
		p.advance()
		t, err := p.parseExpr(precAdditive)
		if err != nil {
			return nil, err
		}
		characters, target = first, t
	} else {
		target = first
	}

	if _, err := p.expect(token.RPAREN, "trim expression"); err != nil {
		return nil, err
	}

	return &ast.Trim{
		StartPos: start, EndPos: p.pos(),
		Side: side, Characters: characters, Target: target,
		PostgresStyle: characters != nil && !sideSpecified,
	}, nil
}

func (p *Parser) parseOverlay() (*ast.Overlay, error) {
	start := p.pos()
	p.advance()
	if _, err := p.expect(token.LPAREN, "overlay expression"); err != nil {
		return nil, err
	}
	target, err := p.parseExpr(precAdditive)
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.PLACING, "overlay expression"); err != nil {
		return nil, err
	}
	placing, err := p.parseExpr(precAdditive)
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.FROM, "overlay expression"); err != nil {
		return nil, err
	}
	from, err := p.parseExpr(precAdditive)
	if err != nil {
		return nil, err
	}
	var forExpr ast.Expr
	if p.curIs(token.FOR) {
		p.advance()
		fe, err := p.parseExpr(precAdditive)
		if err != nil {
			return nil, err
		}
		forExpr = fe
	}
	if _, err := p.expect(token.RPAREN, "overlay expression"); err != nil {
		return nil, err
	}
	return &ast.Overlay{StartPos: start, EndPos: p.pos(), Target: target, Placing: placing, From: from, For: forExpr}, nil
}

func (p *Parser) parseArray() (*ast.Array, error) {
	start := p.pos()
	p.advance()
	if _, err := p.expect(token.LBRACKET, "array constructor"); err != nil {
		return nil, err
	}
	var elems []ast.Expr
	if !p.curIs(token.RBRACKET) {
		for {
			e, err := p.parseExpr(precLowest)
			if err != nil {
				return nil, err
			}
			elems = append(elems, e)
			if p.curIs(token.COMMA) {
				p.advance()
				continue
			}
			break
		}
	}
	if _, err := p.expect(token.RBRACKET, "array constructor"); err != nil {
		return nil, err
	}
	return &ast.Array{StartPos: start, EndPos: p.pos(), Elements: elems}, nil
}

func (p *Parser) parseInterval() (*ast.Interval, error) {
	start := p.pos()
	p.advance()
	lit, err := p.parseExpr(precUnary)
	if err != nil {
		return nil, err
	}

	qualifier := ""
	if isIntervalUnit(p.cur.Type) {
		qualifier = p.cur.Value
		p.advance()
		if p.curIs(token.TO) {
			p.advance()
			if isIntervalUnit(p.cur.Type) {
				qualifier += " to " + p.cur.Value
				p.advance()
			}
		}
	}

	return &ast.Interval{StartPos: start, EndPos: p.pos(), Literal: lit, Qualifier: qualifier}, nil
}
