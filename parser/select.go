package parser

import (
	"github.com/mk3008/carbunqlex-go/ast"
	"github.com/mk3008/carbunqlex-go/token"
)

// parseQuery parses a top-level query: an optional WITH clause, followed
// by a chain of SimpleSelect/ValuesQuery/parenthesized-query terms combined
// left-associatively with UNION/INTERSECT/EXCEPT [ALL].
func (p *Parser) parseQuery() (ast.Query, error) {
	var with *ast.WithClause
	if p.curIs(token.WITH) {
		w, err := p.parseWithClause()
		if err != nil {
			return nil, err
		}
		with = w
	}

	left, err := p.parseQueryPrimary(with)
	if err != nil {
		return nil, err
	}

	for {
		base, ok := p.setOpBase()
		if !ok {
			break
		}
		p.advance()
		kind := base
		if p.curIs(token.ALL) {
			p.advance()
			kind = setOpAllVariant(base)
		} else if p.curIs(token.DISTINCT) {
			p.advance()
		}
		right, err := p.parseQueryPrimary(nil)
		if err != nil {
			return nil, err
		}
		left = &ast.BinarySelect{
			StartPos: left.Pos(),
			EndPos:   right.End(),
			Op:       kind,
			Left:     left,
			Right:    right,
		}
	}
	return left, nil
}

func (p *Parser) setOpBase() (ast.SetOpKind, bool) {
	switch p.cur.Type {
	case token.UNION:
		return ast.SetOpUnion, true
	case token.INTERSECT:
		return ast.SetOpIntersect, true
	case token.EXCEPT:
		return ast.SetOpExcept, true
	}
	return 0, false
}

func setOpAllVariant(base ast.SetOpKind) ast.SetOpKind {
	switch base {
	case ast.SetOpUnion:
		return ast.SetOpUnionAll
	case ast.SetOpIntersect:
		return ast.SetOpIntersectAll
	case ast.SetOpExcept:
		return ast.SetOpExceptAll
	}
	return base
}

// parseQueryPrimary parses one set-op operand: a parenthesized query, a
// VALUES query, or a SimpleSelect. with is attached to the result when the
// result is a SimpleSelect (the only Query variant with a With field).
func (p *Parser) parseQueryPrimary(with *ast.WithClause) (ast.Query, error) {
	switch {
	case p.curIs(token.LPAREN):
		p.advance()
		inner, err := p.parseQuery()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(token.RPAREN, "parenthesized query"); err != nil {
			return nil, err
		}
		if with != nil {
			if sel, ok := inner.(*ast.SimpleSelect); ok {
				sel.With = with
			}
		}
		return inner, nil
	case p.curIs(token.VALUES):
		return p.parseValuesQuery()
	default:
		return p.parseSimpleSelect(with)
	}
}

func (p *Parser) parseSimpleSelect(with *ast.WithClause) (*ast.SimpleSelect, error) {
	start := p.pos()
	if with != nil {
		start = with.Pos()
	}

	selectClause, err := p.parseSelectClause()
	if err != nil {
		return nil, err
	}
	from, err := p.parseFromClauseOpt()
	if err != nil {
		return nil, err
	}
	where, err := p.parseWhereOpt()
	if err != nil {
		return nil, err
	}
	groupBy, err := p.parseGroupByOpt()
	if err != nil {
		return nil, err
	}
	having, err := p.parseHavingOpt()
	if err != nil {
		return nil, err
	}
	window, err := p.parseWindowOpt()
	if err != nil {
		return nil, err
	}
	orderBy, err := p.parseOrderByOpt()
	if err != nil {
		return nil, err
	}
	limit, err := p.parseLimitClauseOpt()
	if err != nil {
		return nil, err
	}
	offset, err := p.parseOffsetClauseOpt()
	if err != nil {
		return nil, err
	}
	forClause, err := p.parseForOpt()
	if err != nil {
		return nil, err
	}

	return &ast.SimpleSelect{
		StartPos: start,
		EndPos:   p.pos(),
		With:     with,
		Select:   selectClause,
		From:     from,
		Where:    where,
		GroupBy:  groupBy,
		Having:   having,
		Window:   window,
		OrderBy:  orderBy,
		Limit:    limit,
		Offset:   offset,
		For:      forClause,
	}, nil
}

func (p *Parser) parseSelectClause() (*ast.SelectClause, error) {
	start := p.pos()
	if _, err := p.expect(token.SELECT, "select clause"); err != nil {
		return nil, err
	}

	distinct := ast.DistinctNone
	var onValues []ast.Expr
	switch {
	case p.curIs(token.DISTINCT):
		p.advance()
		if p.curIs(token.ON) {
			p.advance()
			if _, err := p.expect(token.LPAREN, "distinct on"); err != nil {
				return nil, err
			}
			for {
				e, err := p.parseExpr(precLowest)
				if err != nil {
					return nil, err
				}
				onValues = append(onValues, e)
				if p.curIs(token.COMMA) {
					p.advance()
					continue
				}
				break
			}
			if _, err := p.expect(token.RPAREN, "distinct on"); err != nil {
				return nil, err
			}
			distinct = ast.DistinctOn
		} else {
			distinct = ast.DistinctAll
		}
	case p.curIs(token.ALL):
		p.advance()
	}

	var items []*ast.SelectItem
	for {
		item, err := p.parseSelectItem()
		if err != nil {
			return nil, err
		}
		items = append(items, item)
		if p.curIs(token.COMMA) {
			p.advance()
			continue
		}
		break
	}

	return &ast.SelectClause{
		StartPos: start,
		EndPos:   p.pos(),
		Distinct: distinct,
		OnValues: onValues,
		Items:    items,
	}, nil
}

func (p *Parser) parseSelectItem() (*ast.SelectItem, error) {
	start := p.pos()
	if p.curIs(token.ASTERISK) {
		p.advance()
		ref := &ast.ColumnRef{StartPos: start, EndPos: p.pos(), Wildcard: true}
		return &ast.SelectItem{StartPos: start, EndPos: p.pos(), Value: ref}, nil
	}

	value, err := p.parseExpr(precLowest)
	if err != nil {
		return nil, err
	}
	alias, err := p.parseOptionalAlias()
	if err != nil {
		return nil, err
	}
	return &ast.SelectItem{StartPos: start, EndPos: p.pos(), Value: value, Alias: alias}, nil
}

func (p *Parser) parseFromClauseOpt() (*ast.FromClause, error) {
	if !p.curIs(token.FROM) {
		return nil, nil
	}
	start := p.pos()
	p.advance()

	source, err := p.parseSource()
	if err != nil {
		return nil, err
	}

	var joins []*ast.Join
	for {
		j, ok, err := p.parseJoinOpt()
		if err != nil {
			return nil, err
		}
		if !ok {
			break
		}
		joins = append(joins, j)
	}

	return &ast.FromClause{StartPos: start, EndPos: p.pos(), Source: source, Joins: joins}, nil
}

// parseSource parses one FROM-clause source: a table, a table-valued
// function call, a parenthesized subquery/VALUES, or a parenthesized
// source (used to make parenthesization explicit around a single source;
// a parenthesized join tree is out of scope).
func (p *Parser) parseSource() (ast.Source, error) {
	start := p.pos()

	if p.curIs(token.LPAREN) {
		p.advance()
		switch {
		case p.curIs(token.VALUES):
			vq, err := p.parseValuesQuery()
			if err != nil {
				return nil, err
			}
			if _, err := p.expect(token.RPAREN, "values source"); err != nil {
				return nil, err
			}
			return p.finishSubquerySource(start, vq)
		case p.curIs(token.SELECT) || p.curIs(token.WITH):
			q, err := p.parseQuery()
			if err != nil {
				return nil, err
			}
			if _, err := p.expect(token.RPAREN, "subquery source"); err != nil {
				return nil, err
			}
			return p.finishSubquerySource(start, q)
		default:
			inner, err := p.parseSource()
			if err != nil {
				return nil, err
			}
			if _, err := p.expect(token.RPAREN, "parenthesized source"); err != nil {
				return nil, err
			}
			return &ast.ParenSource{StartPos: start, EndPos: p.pos(), Inner: inner}, nil
		}
	}

	qualifiers, name, err := p.parseQualifiedName("from clause")
	if err != nil {
		return nil, err
	}

	if p.curIs(token.LPAREN) {
		p.advance()
		var args []ast.Expr
		if !p.curIs(token.RPAREN) {
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
		if _, err := p.expect(token.RPAREN, "function source"); err != nil {
			return nil, err
		}
		alias, err := p.parseOptionalAlias()
		if err != nil {
			return nil, err
		}
		return &ast.FunctionSource{StartPos: start, EndPos: p.pos(), Name: name, Args: args, Alias: alias}, nil
	}

	alias, err := p.parseOptionalAlias()
	if err != nil {
		return nil, err
	}
	cols, err := p.parseOptionalColumnAliasList()
	if err != nil {
		return nil, err
	}
	return &ast.TableSource{
		StartPos:      start,
		EndPos:        p.pos(),
		Qualifiers:    qualifiers,
		Name:          name,
		Alias:         alias,
		ColumnAliases: cols,
	}, nil
}

func (p *Parser) finishSubquerySource(start token.Pos, q ast.Query) (ast.Source, error) {
	alias, err := p.parseOptionalAlias()
	if err != nil {
		return nil, err
	}
	cols, err := p.parseOptionalColumnAliasList()
	if err != nil {
		return nil, err
	}
	return &ast.SubQuerySource{StartPos: start, EndPos: p.pos(), Query: q, Alias: alias, ColumnAliases: cols}, nil
}

func (p *Parser) parseJoinOpt() (*ast.Join, bool, error) {
	start := p.pos()

	if p.curIs(token.COMMA) {
		p.advance()
		lateral := false
		if p.curIs(token.LATERAL) {
			lateral = true
			p.advance()
		}
		src, err := p.parseSource()
		if err != nil {
			return nil, false, err
		}
		return &ast.Join{StartPos: start, EndPos: p.pos(), Kind: ast.JoinCross, Lateral: lateral, Source: src}, true, nil
	}

	kind, ok := p.joinKind()
	if !ok {
		return nil, false, nil
	}
	if err := p.consumeJoinTokens(); err != nil {
		return nil, false, err
	}

	lateral := false
	if p.curIs(token.LATERAL) {
		lateral = true
		p.advance()
	}
	src, err := p.parseSource()
	if err != nil {
		return nil, false, err
	}

	var cond ast.Expr
	var using []string
	switch {
	case p.curIs(token.ON):
		p.advance()
		cond, err = p.parseExpr(precLowest)
		if err != nil {
			return nil, false, err
		}
	case p.curIs(token.USING):
		p.advance()
		if _, err := p.expect(token.LPAREN, "using clause"); err != nil {
			return nil, false, err
		}
		for {
			name, err := p.expectIdent("using clause")
			if err != nil {
				return nil, false, err
			}
			using = append(using, name)
			if p.curIs(token.COMMA) {
				p.advance()
				continue
			}
			break
		}
		if _, err := p.expect(token.RPAREN, "using clause"); err != nil {
			return nil, false, err
		}
	}

	return &ast.Join{
		StartPos:  start,
		EndPos:    p.pos(),
		Kind:      kind,
		Lateral:   lateral,
		Source:    src,
		Condition: cond,
		Using:     using,
	}, true, nil
}

func (p *Parser) joinKind() (ast.JoinKind, bool) {
	switch p.cur.Type {
	case token.JOIN, token.INNER:
		return ast.JoinInner, true
	case token.LEFT, token.LEFT_OUTER_JOIN:
		return ast.JoinLeft, true
	case token.RIGHT, token.RIGHT_OUTER_JOIN:
		return ast.JoinRight, true
	case token.FULL, token.FULL_OUTER_JOIN:
		return ast.JoinFull, true
	case token.CROSS:
		return ast.JoinCross, true
	case token.NATURAL:
		switch p.lex.Peek().Type {
		case token.LEFT, token.LEFT_OUTER_JOIN:
			return ast.JoinNaturalLeft, true
		case token.RIGHT, token.RIGHT_OUTER_JOIN:
			return ast.JoinNaturalRight, true
		case token.FULL, token.FULL_OUTER_JOIN:
			return ast.JoinNaturalFull, true
		default:
			return ast.JoinNaturalInner, true
		}
	}
	return 0, false
}

// consumeJoinTokens advances past the keyword sequence identified by
// joinKind (JOIN / INNER JOIN / LEFT [OUTER] JOIN / fused LEFT_OUTER_JOIN /
// CROSS JOIN / NATURAL ... JOIN).
func (p *Parser) consumeJoinTokens() error {
	switch p.cur.Type {
	case token.JOIN:
		p.advance()
		return nil
	case token.INNER, token.CROSS:
		p.advance()
		_, err := p.expect(token.JOIN, "join")
		return err
	case token.LEFT, token.RIGHT, token.FULL:
		p.advance()
		if p.curIs(token.OUTER) {
			p.advance()
		}
		_, err := p.expect(token.JOIN, "join")
		return err
	case token.LEFT_OUTER_JOIN, token.RIGHT_OUTER_JOIN, token.FULL_OUTER_JOIN:
		p.advance()
		return nil
	case token.NATURAL:
		p.advance()
		return p.consumeJoinTokens()
	}
	return p.errorf("join keyword", "join")
}

func (p *Parser) parseWhereOpt() (*ast.WhereClause, error) {
	if !p.curIs(token.WHERE) {
		return nil, nil
	}
	start := p.pos()
	p.advance()
	cond, err := p.parseExpr(precLowest)
	if err != nil {
		return nil, err
	}
	return &ast.WhereClause{StartPos: start, EndPos: p.pos(), Condition: cond}, nil
}

func (p *Parser) parseGroupByOpt() (*ast.GroupByClause, error) {
	if !p.curIs(token.GROUP_BY) {
		return nil, nil
	}
	start := p.pos()
	p.advance()
	var items []ast.Expr
	for {
		e, err := p.parseExpr(precLowest)
		if err != nil {
			return nil, err
		}
		items = append(items, e)
		if p.curIs(token.COMMA) {
			p.advance()
			continue
		}
		break
	}
	return &ast.GroupByClause{StartPos: start, EndPos: p.pos(), Items: items}, nil
}

func (p *Parser) parseHavingOpt() (*ast.HavingClause, error) {
	if !p.curIs(token.HAVING) {
		return nil, nil
	}
	start := p.pos()
	p.advance()
	cond, err := p.parseExpr(precLowest)
	if err != nil {
		return nil, err
	}
	return &ast.HavingClause{StartPos: start, EndPos: p.pos(), Condition: cond}, nil
}

func (p *Parser) parseWindowOpt() (*ast.WindowClause, error) {
	if !p.curIs(token.WINDOW) {
		return nil, nil
	}
	start := p.pos()
	p.advance()
	var defs []*ast.NamedWindow
	for {
		name, err := p.expectIdent("window clause")
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(token.AS, "window clause"); err != nil {
			return nil, err
		}
		spec, err := p.parseWindowSpec()
		if err != nil {
			return nil, err
		}
		defs = append(defs, &ast.NamedWindow{Name: name, Spec: spec})
		if p.curIs(token.COMMA) {
			p.advance()
			continue
		}
		break
	}
	return &ast.WindowClause{StartPos: start, EndPos: p.pos(), Defs: defs}, nil
}

func (p *Parser) parseOrderByOpt() (*ast.OrderByClause, error) {
	if !p.curIs(token.ORDER_BY) {
		return nil, nil
	}
	start := p.pos()
	p.advance()
	items, err := p.parseOrderItems()
	if err != nil {
		return nil, err
	}
	return &ast.OrderByClause{StartPos: start, EndPos: p.pos(), Items: items}, nil
}

func (p *Parser) parseOrderItems() ([]*ast.OrderItem, error) {
	var items []*ast.OrderItem
	for {
		start := p.pos()
		e, err := p.parseExpr(precLowest)
		if err != nil {
			return nil, err
		}
		dir := ast.SortUnspecified
		if p.curIs(token.ASC) {
			dir = ast.SortAsc
			p.advance()
		} else if p.curIs(token.DESC) {
			dir = ast.SortDesc
			p.advance()
		}
		nulls := ast.NullsUnspecified
		if p.curIs(token.NULLS) {
			p.advance()
			switch {
			case p.curIs(token.FIRST):
				nulls = ast.NullsFirst
				p.advance()
			case p.curIs(token.LAST):
				nulls = ast.NullsLast
				p.advance()
			default:
				return nil, p.errorf("FIRST or LAST", "order by nulls placement")
			}
		}
		items = append(items, &ast.OrderItem{StartPos: start, EndPos: p.pos(), Value: e, Direction: dir, Nulls: nulls})
		if p.curIs(token.COMMA) {
			p.advance()
			continue
		}
		break
	}
	return items, nil
}

func (p *Parser) parseLimitClauseOpt() (*ast.LimitClause, error) {
	if !p.curIs(token.LIMIT) {
		return nil, nil
	}
	start := p.pos()
	p.advance()
	if p.curIs(token.ALL) {
		p.advance()
		return &ast.LimitClause{StartPos: start, EndPos: p.pos()}, nil
	}
	e, err := p.parseExpr(precLowest)
	if err != nil {
		return nil, err
	}
	return &ast.LimitClause{StartPos: start, EndPos: p.pos(), Value: e}, nil
}

func (p *Parser) parseOffsetClauseOpt() (*ast.OffsetClause, error) {
	if !p.curIs(token.OFFSET) {
		return nil, nil
	}
	start := p.pos()
	p.advance()
	e, err := p.parseExpr(precLowest)
	if err != nil {
		return nil, err
	}
	if p.curIs(token.ROW) || p.curIs(token.ROWS) {
		p.advance()
	}
	return &ast.OffsetClause{StartPos: start, EndPos: p.pos(), Value: e}, nil
}

func (p *Parser) parseForOpt() (*ast.ForClause, error) {
	if !p.curIs(token.FOR) {
		return nil, nil
	}
	start := p.pos()
	p.advance()

	var mode ast.ForMode
	switch {
	case p.curIs(token.UPDATE):
		mode = ast.ForUpdate
		p.advance()
	case p.curIs(token.NO):
		p.advance()
		if _, err := p.expect(token.KEY, "for clause"); err != nil {
			return nil, err
		}
		if _, err := p.expect(token.UPDATE, "for clause"); err != nil {
			return nil, err
		}
		mode = ast.ForNoKeyUpdate
	case p.curIs(token.SHARE):
		mode = ast.ForShare
		p.advance()
	case p.curIs(token.KEY):
		p.advance()
		if _, err := p.expect(token.SHARE, "for clause"); err != nil {
			return nil, err
		}
		mode = ast.ForKeyShare
	default:
		return nil, p.errorf("UPDATE, NO KEY UPDATE, SHARE, or KEY SHARE", "for clause")
	}

	var tables []string
	if p.curIs(token.OF) {
		p.advance()
		for {
			name, err := p.expectIdent("for clause")
			if err != nil {
				return nil, err
			}
			tables = append(tables, name)
			if p.curIs(token.COMMA) {
				p.advance()
				continue
			}
			break
		}
	}

	wait := ast.WaitUnspecified
	switch {
	case p.curIs(token.NOWAIT):
		wait = ast.WaitNowait
		p.advance()
	case p.curIs(token.SKIP):
		p.advance()
		if _, err := p.expect(token.LOCKED, "for clause"); err != nil {
			return nil, err
		}
		wait = ast.WaitSkipLocked
	}

	return &ast.ForClause{StartPos: start, EndPos: p.pos(), Mode: mode, Tables: tables, Wait: wait}, nil
}

func (p *Parser) parseValuesQuery() (*ast.ValuesQuery, error) {
	start := p.pos()
	if _, err := p.expect(token.VALUES, "values query"); err != nil {
		return nil, err
	}
	var rows []*ast.ValuesRow
	for {
		row, err := p.parseValuesRow()
		if err != nil {
			return nil, err
		}
		rows = append(rows, row)
		if p.curIs(token.COMMA) {
			p.advance()
			continue
		}
		break
	}
	return &ast.ValuesQuery{StartPos: start, EndPos: p.pos(), Rows: rows}, nil
}

func (p *Parser) parseValuesRow() (*ast.ValuesRow, error) {
	start := p.pos()
	if _, err := p.expect(token.LPAREN, "values row"); err != nil {
		return nil, err
	}
	var items []ast.Expr
	if !p.curIs(token.RPAREN) {
		for {
			e, err := p.parseExpr(precLowest)
			if err != nil {
				return nil, err
			}
			items = append(items, e)
			if p.curIs(token.COMMA) {
				p.advance()
				continue
			}
			break
		}
	}
	if _, err := p.expect(token.RPAREN, "values row"); err != nil {
		return nil, err
	}
	return &ast.ValuesRow{StartPos: start, EndPos: p.pos(), Items: items}, nil
}
