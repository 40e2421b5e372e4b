package parser

import (
	"algotex/internal/diag"
	"algotex/internal/pyast"
	"algotex/internal/source"
	"algotex/internal/token"
)

func (p *Parser) exprs() *pyast.Exprs { return p.b.Exprs }

func (p *Parser) exprSpan(id pyast.ExprID) source.Span {
	if e := p.exprs().Get(id); e != nil {
		return e.Span
	}
	return p.lastSpan
}

// parseTestList: test (',' test)* [','], кортеж, если есть запятая.
func (p *Parser) parseTestList() pyast.ExprID {
	return p.parseOpenSeq(p.parseNamedTest)
}

func (p *Parser) parseTestOrStar(allowStar bool) pyast.ExprID {
	if allowStar && p.at(token.Star) {
		return p.parseStarExpr()
	}
	return p.parseNamedTest()
}

func (p *Parser) parseStarExpr() pyast.ExprID {
	star := p.advance()
	value := p.parseBinary(levelBitOr)
	if value == pyast.NoExprID {
		return pyast.NoExprID
	}
	return p.exprs().NewStarred(p.spanFrom(star.Span), value, pyast.Load)
}

// parseExprList: цели for/del/comprehension: уровень bitor, без сравнений,
// чтобы не съесть `in`.
func (p *Parser) parseExprList() pyast.ExprID {
	return p.parseOpenSeq(func() pyast.ExprID { return p.parseBinary(levelBitOr) })
}

// parseOpenSeq: item (',' item)* [','] без скобок; item: *expr или elem().
func (p *Parser) parseOpenSeq(elem func() pyast.ExprID) pyast.ExprID {
	start := p.peek().Span
	one := func() pyast.ExprID {
		if p.at(token.Star) {
			return p.parseStarExpr()
		}
		return elem()
	}
	first := one()
	if first == pyast.NoExprID || !p.at(token.Comma) {
		return first
	}
	elts := []pyast.ExprID{first}
	for p.eat(token.Comma) {
		if !p.startsExpr() {
			break
		}
		el := one()
		if el == pyast.NoExprID {
			return pyast.NoExprID
		}
		elts = append(elts, el)
	}
	return p.exprs().NewSeq(p.spanFrom(start), pyast.ExprTuple, elts, pyast.Load)
}

// parseNamedTest: NAME ':=' test | test
func (p *Parser) parseNamedTest() pyast.ExprID {
	if p.at(token.Ident) && p.peekN(1).Kind == token.ColonAssign {
		name := p.advance()
		target := p.exprs().NewName(name.Span, name.Text, pyast.Store)
		p.advance()
		value := p.parseTest()
		if value == pyast.NoExprID {
			return pyast.NoExprID
		}
		return p.exprs().NewNamedExpr(p.spanFrom(name.Span), target, value)
	}
	return p.parseTest()
}

// parseTest: lambda | or_test ['if' or_test 'else' test]
func (p *Parser) parseTest() pyast.ExprID {
	if !p.enter() {
		p.leave()
		return pyast.NoExprID
	}
	defer p.leave()

	if p.at(token.KwLambda) {
		return p.parseLambda()
	}
	start := p.peek().Span
	body := p.parseOr()
	if body == pyast.NoExprID || !p.at(token.KwIf) {
		return body
	}
	p.advance()
	test := p.parseOr()
	if test == pyast.NoExprID {
		return pyast.NoExprID
	}
	if _, ok := p.expect(token.KwElse, diag.SynUnexpectedToken, "expected 'else' in conditional expression"); !ok {
		return pyast.NoExprID
	}
	orelse := p.parseTest()
	if orelse == pyast.NoExprID {
		return pyast.NoExprID
	}
	return p.exprs().NewIfExp(p.spanFrom(start), test, body, orelse)
}

// parseTestNoCond: условие в comprehension: без тернарника
func (p *Parser) parseTestNoCond() pyast.ExprID {
	if p.at(token.KwLambda) {
		return p.parseLambda()
	}
	return p.parseOr()
}

func (p *Parser) parseLambda() pyast.ExprID {
	kw := p.advance()
	args := p.parseParams(token.Colon, false)
	if _, ok := p.expect(token.Colon, diag.SynExpectColon, "expected ':' after lambda parameters"); !ok {
		return pyast.NoExprID
	}
	body := p.parseTest()
	if body == pyast.NoExprID {
		return pyast.NoExprID
	}
	return p.exprs().NewLambda(p.spanFrom(kw.Span), args, body)
}

func (p *Parser) parseOr() pyast.ExprID {
	return p.parseBoolOp(token.KwOr, pyast.Or, p.parseAnd)
}

func (p *Parser) parseAnd() pyast.ExprID {
	return p.parseBoolOp(token.KwAnd, pyast.And, p.parseNot)
}

// parseBoolOp собирает цепочку a op b op c в один узел BoolOp
func (p *Parser) parseBoolOp(kw token.Kind, op pyast.BoolOp, next func() pyast.ExprID) pyast.ExprID {
	start := p.peek().Span
	first := next()
	if first == pyast.NoExprID || !p.at(kw) {
		return first
	}
	values := []pyast.ExprID{first}
	for p.eat(kw) {
		v := next()
		if v == pyast.NoExprID {
			return pyast.NoExprID
		}
		values = append(values, v)
	}
	return p.exprs().NewBoolOp(p.spanFrom(start), op, values)
}

func (p *Parser) parseNot() pyast.ExprID {
	if p.at(token.KwNot) {
		kw := p.advance()
		if !p.enter() {
			p.leave()
			return pyast.NoExprID
		}
		operand := p.parseNot()
		p.leave()
		if operand == pyast.NoExprID {
			return pyast.NoExprID
		}
		return p.exprs().NewUnaryOp(p.spanFrom(kw.Span), pyast.Not, operand)
	}
	return p.parseComparison()
}

func (p *Parser) parseComparison() pyast.ExprID {
	start := p.peek().Span
	left := p.parseBinary(levelBitOr)
	if left == pyast.NoExprID {
		return left
	}
	var ops []pyast.CmpOp
	var rights []pyast.ExprID
	for {
		op, ok := p.compareOp()
		if !ok {
			break
		}
		right := p.parseBinary(levelBitOr)
		if right == pyast.NoExprID {
			return pyast.NoExprID
		}
		ops = append(ops, op)
		rights = append(rights, right)
	}
	if len(ops) == 0 {
		return left
	}
	return p.exprs().NewCompare(p.spanFrom(start), left, ops, rights)
}

// parseBinary: левоассоциативная лестница от bitor до term
func (p *Parser) parseBinary(level binLevel) pyast.ExprID {
	if level == levelFactor {
		return p.parseFactor()
	}
	start := p.peek().Span
	left := p.parseBinary(level + 1)
	for left != pyast.NoExprID {
		info, ok := binOps[p.peek().Kind]
		if !ok || info.level != level {
			break
		}
		p.advance()
		right := p.parseBinary(level + 1)
		if right == pyast.NoExprID {
			return pyast.NoExprID
		}
		left = p.exprs().NewBinOp(p.spanFrom(start), left, info.op, right)
	}
	return left
}

// parseFactor: ('+'|'-'|'~') factor | power
func (p *Parser) parseFactor() pyast.ExprID {
	op, ok := unaryOps[p.peek().Kind]
	if !ok {
		return p.parsePower()
	}
	tok := p.advance()
	if !p.enter() {
		p.leave()
		return pyast.NoExprID
	}
	operand := p.parseFactor()
	p.leave()
	if operand == pyast.NoExprID {
		return pyast.NoExprID
	}
	return p.exprs().NewUnaryOp(p.spanFrom(tok.Span), op, operand)
}

// parsePower: await_primary ['**' factor]: правоассоциативно через factor
func (p *Parser) parsePower() pyast.ExprID {
	start := p.peek().Span
	base := p.parseAwaitPrimary()
	if base == pyast.NoExprID || !p.at(token.StarStar) {
		return base
	}
	p.advance()
	exp := p.parseFactor()
	if exp == pyast.NoExprID {
		return pyast.NoExprID
	}
	return p.exprs().NewBinOp(p.spanFrom(start), base, pyast.Pow, exp)
}

func (p *Parser) parseAwaitPrimary() pyast.ExprID {
	if p.at(token.KwAwait) {
		kw := p.advance()
		value := p.parsePrimary()
		if value == pyast.NoExprID {
			return pyast.NoExprID
		}
		return p.exprs().NewValue(p.spanFrom(kw.Span), pyast.ExprAwait, value)
	}
	return p.parsePrimary()
}

// parsePrimary: atom trailer*
func (p *Parser) parsePrimary() pyast.ExprID {
	start := p.peek().Span
	e := p.parseAtom()
	for e != pyast.NoExprID {
		switch p.peek().Kind {
		case token.LParen:
			e = p.parseCall(start, e)
		case token.LBracket:
			open := p.advance()
			slice := p.parseSubscriptList()
			if slice == pyast.NoExprID || !p.closeBracket(open) {
				return pyast.NoExprID
			}
			e = p.exprs().NewSubscript(p.spanFrom(start), e, slice, pyast.Load)
		case token.Dot:
			p.advance()
			name, ok := p.expect(token.Ident, diag.SynExpectIdentifier, "expected attribute name after '.'")
			if !ok {
				return pyast.NoExprID
			}
			e = p.exprs().NewAttribute(p.spanFrom(start), e, name.Text, pyast.Load)
		default:
			return e
		}
	}
	return e
}

func (p *Parser) parseCall(start source.Span, fn pyast.ExprID) pyast.ExprID {
	open := p.advance()
	args, keywords, ok := p.parseArgList()
	if !ok || !p.closeBracket(open) {
		return pyast.NoExprID
	}
	return p.exprs().NewCall(p.spanFrom(start), fn, args, keywords)
}

// parseArgList разбирает аргументы вызова (или базы класса) до ')'.
func (p *Parser) parseArgList() ([]pyast.ExprID, []pyast.Keyword, bool) {
	var args []pyast.ExprID
	var keywords []pyast.Keyword
	for !p.at(token.RParen) {
		argStart := p.peek().Span
		switch {
		case p.at(token.StarStar):
			p.advance()
			v := p.parseTest()
			if v == pyast.NoExprID {
				return nil, nil, false
			}
			keywords = append(keywords, pyast.Keyword{Value: v, Span: p.spanFrom(argStart)})
		case p.at(token.Star):
			v := p.parseStarExpr()
			if v == pyast.NoExprID {
				return nil, nil, false
			}
			args = append(args, v)
		case p.at(token.Ident) && p.peekN(1).Kind == token.Assign:
			name := p.advance()
			p.advance()
			v := p.parseTest()
			if v == pyast.NoExprID {
				return nil, nil, false
			}
			keywords = append(keywords, pyast.Keyword{Arg: name.Text, Value: v, Span: p.spanFrom(argStart)})
		default:
			v := p.parseNamedTest()
			if v == pyast.NoExprID {
				return nil, nil, false
			}
			if p.atOr(token.KwFor, token.KwAsync) {
				v = p.parseComprehension(argStart, pyast.ExprGeneratorExp, pyast.NoExprID, v)
				if v == pyast.NoExprID {
					return nil, nil, false
				}
			}
			args = append(args, v)
		}
		if !p.eat(token.Comma) {
			break
		}
	}
	return args, keywords, true
}

// parseSubscriptList: subscript (',' subscript)* [',']
func (p *Parser) parseSubscriptList() pyast.ExprID {
	start := p.peek().Span
	first := p.parseSubscript()
	if first == pyast.NoExprID || !p.at(token.Comma) {
		return first
	}
	elts := []pyast.ExprID{first}
	for p.eat(token.Comma) {
		if p.at(token.RBracket) {
			break
		}
		el := p.parseSubscript()
		if el == pyast.NoExprID {
			return pyast.NoExprID
		}
		elts = append(elts, el)
	}
	return p.exprs().NewSeq(p.spanFrom(start), pyast.ExprTuple, elts, pyast.Load)
}

// parseSubscript: test | [test] ':' [test] [':' [test]]
func (p *Parser) parseSubscript() pyast.ExprID {
	start := p.peek().Span
	if p.at(token.Star) {
		return p.parseStarExpr()
	}
	lower := pyast.NoExprID
	if !p.at(token.Colon) {
		lower = p.parseNamedTest()
		if lower == pyast.NoExprID || !p.at(token.Colon) {
			return lower
		}
	}
	p.advance()
	upper, step := pyast.NoExprID, pyast.NoExprID
	if p.startsExpr() {
		if upper = p.parseTest(); upper == pyast.NoExprID {
			return pyast.NoExprID
		}
	}
	if p.eat(token.Colon) && p.startsExpr() {
		if step = p.parseTest(); step == pyast.NoExprID {
			return pyast.NoExprID
		}
	}
	return p.exprs().NewSlice(p.spanFrom(start), lower, upper, step)
}

// parseComprehension: comp_for+ с условиями; elt (и key для dict) уже разобраны.
func (p *Parser) parseComprehension(start source.Span, kind pyast.ExprKind, key, elt pyast.ExprID) pyast.ExprID {
	var gens []pyast.Comprehension
	for p.atOr(token.KwFor, token.KwAsync) {
		async := p.eat(token.KwAsync)
		if _, ok := p.expect(token.KwFor, diag.SynUnexpectedToken, "expected 'for' after 'async'"); !ok {
			return pyast.NoExprID
		}
		target := p.parseExprList()
		if target == pyast.NoExprID {
			return pyast.NoExprID
		}
		p.storeTarget(target, pyast.Store)
		if _, ok := p.expect(token.KwIn, diag.SynForMissingIn, "expected 'in' in comprehension"); !ok {
			return pyast.NoExprID
		}
		iter := p.parseOr()
		if iter == pyast.NoExprID {
			return pyast.NoExprID
		}
		gen := pyast.Comprehension{Target: target, Iter: iter, IsAsync: async}
		for p.at(token.KwIf) {
			p.advance()
			cond := p.parseTestNoCond()
			if cond == pyast.NoExprID {
				return pyast.NoExprID
			}
			gen.Ifs = append(gen.Ifs, cond)
		}
		gens = append(gens, gen)
	}
	return p.exprs().NewComp(p.spanFrom(start), kind, pyast.CompData{Key: key, Elt: elt, Generators: gens})
}

func (p *Parser) parseYield() pyast.ExprID {
	kw := p.advance()
	if p.eat(token.KwFrom) {
		v := p.parseTest()
		if v == pyast.NoExprID {
			return pyast.NoExprID
		}
		return p.exprs().NewValue(p.spanFrom(kw.Span), pyast.ExprYieldFrom, v)
	}
	v := pyast.NoExprID
	if p.startsExpr() {
		if v = p.parseTestList(); v == pyast.NoExprID {
			return pyast.NoExprID
		}
	}
	return p.exprs().NewValue(p.spanFrom(kw.Span), pyast.ExprYield, v)
}

// storeTarget проставляет контекст цели и репортит недопустимые цели
func (p *Parser) storeTarget(id pyast.ExprID, ctx pyast.ExprCtx) bool {
	if p.exprs().SetCtx(id, ctx) {
		return true
	}
	what := "assign to"
	if ctx == pyast.Del {
		what = "delete"
	}
	label := "expression"
	if e := p.exprs().Get(id); e != nil {
		label = e.Kind.String()
	}
	p.errAt(diag.SynInvalidTarget, p.exprSpan(id), "cannot "+what+" "+label)
	return false
}

// startsExpr: может ли текущий токен начинать выражение
func (p *Parser) startsExpr() bool {
	tok := p.peek()
	switch tok.Kind {
	case token.Ident, token.IntLit, token.FloatLit, token.ImagLit, token.StringLit,
		token.BytesLit, token.FStringLit, token.LParen, token.LBracket, token.LBrace,
		token.Minus, token.Plus, token.Tilde, token.Star, token.Ellipsis,
		token.KwNot, token.KwLambda, token.KwAwait, token.KwNone, token.KwTrue, token.KwFalse:
		return true
	}
	return false
}
