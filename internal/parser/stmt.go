package parser

import (
	"algotex/internal/diag"
	"algotex/internal/pyast"
	"algotex/internal/source"
	"algotex/internal/token"
)

func (p *Parser) stmts() *pyast.Stmts { return p.b.Stmts }

func one(id pyast.StmtID) []pyast.StmtID {
	if id == pyast.NoStmtID {
		return nil
	}
	return []pyast.StmtID{id}
}

// parseStatement разбирает один оператор; простые операторы через ';'
// дают несколько узлов.
func (p *Parser) parseStatement() []pyast.StmtID {
	switch p.peek().Kind {
	case token.KwIf:
		return one(p.parseIf())
	case token.KwWhile:
		return one(p.parseWhile())
	case token.KwFor:
		return one(p.parseFor(p.peek().Span, false))
	case token.KwTry:
		return one(p.parseTry())
	case token.KwWith:
		return one(p.parseWith(p.peek().Span, false))
	case token.KwDef:
		return one(p.parseFuncDef(p.peek().Span, false, nil))
	case token.KwClass:
		return one(p.parseClassDef(nil))
	case token.At:
		return one(p.parseDecorated())
	case token.KwAsync:
		return one(p.parseAsync(nil))
	}
	if p.atSoft("match") && p.looksLikeMatch() {
		return one(p.parseMatch())
	}
	return p.parseSimpleStatements()
}

// parseBlock: ':' (simple_stmts | NEWLINE INDENT stmt+ DEDENT)
func (p *Parser) parseBlock(owner string) ([]pyast.StmtID, bool) {
	if _, ok := p.expect(token.Colon, diag.SynExpectColon, "expected ':' after "+owner); !ok {
		return nil, false
	}
	if !p.at(token.Newline) {
		return p.parseSimpleStatements(), true
	}
	p.advance()
	if !p.at(token.Indent) {
		p.err(diag.SynExpectIndent, "expected an indented block after "+owner)
		return nil, true
	}
	p.advance()
	if !p.enter() {
		p.leave()
		p.skipBlock()
		return nil, false
	}
	defer p.leave()

	var body []pyast.StmtID
	stray := 0
	for !p.at(token.EOF) {
		switch {
		case p.at(token.Dedent):
			if stray == 0 {
				p.advance()
				return body, true
			}
			stray--
			p.advance()
		case p.at(token.Newline):
			p.advance()
		case p.at(token.Indent):
			p.err(diag.SynUnexpectedToken, "unexpected indent")
			stray++
			p.advance()
		default:
			body = append(body, p.parseStatement()...)
		}
		if p.opts.Enough() {
			break
		}
	}
	return body, true
}

// skipBlock пропускает тело блока до парного Dedent
func (p *Parser) skipBlock() {
	depth := 1
	for !p.at(token.EOF) && depth > 0 {
		switch p.advance().Kind {
		case token.Indent:
			depth++
		case token.Dedent:
			depth--
		}
	}
}

// parseIf обслуживает и 'if', и 'elif': elif становится вложенным If в orelse.
func (p *Parser) parseIf() pyast.StmtID {
	kw := p.advance()
	test := p.parseNamedTest()
	if test == pyast.NoExprID {
		p.resyncLine()
		return pyast.NoStmtID
	}
	body, ok := p.parseBlock("'" + kw.Text + "' statement")
	if !ok {
		p.resyncLine()
		return pyast.NoStmtID
	}
	sp := p.spanFrom(kw.Span)
	var orelse []pyast.StmtID
	switch {
	case p.at(token.KwElif):
		orelse = one(p.parseIf())
	case p.at(token.KwElse):
		orelse = p.parseElse()
	}
	return p.stmts().NewIf(sp, pyast.CondData{Test: test, Body: body, Orelse: orelse})
}

func (p *Parser) parseElse() []pyast.StmtID {
	p.advance()
	body, ok := p.parseBlock("'else'")
	if !ok {
		p.resyncLine()
	}
	return body
}

func (p *Parser) parseWhile() pyast.StmtID {
	kw := p.advance()
	test := p.parseNamedTest()
	if test == pyast.NoExprID {
		p.resyncLine()
		return pyast.NoStmtID
	}
	body, ok := p.parseBlock("'while' statement")
	if !ok {
		p.resyncLine()
		return pyast.NoStmtID
	}
	sp := p.spanFrom(kw.Span)
	var orelse []pyast.StmtID
	if p.at(token.KwElse) {
		orelse = p.parseElse()
	}
	return p.stmts().NewWhile(sp, pyast.CondData{Test: test, Body: body, Orelse: orelse})
}

func (p *Parser) parseFor(start source.Span, async bool) pyast.StmtID {
	p.advance()
	target := p.parseExprList()
	if target == pyast.NoExprID || !p.storeTarget(target, pyast.Store) {
		p.resyncLine()
		return pyast.NoStmtID
	}
	if _, ok := p.expect(token.KwIn, diag.SynForMissingIn, "expected 'in' after for-loop target"); !ok {
		p.resyncLine()
		return pyast.NoStmtID
	}
	iter := p.parseTestList()
	if iter == pyast.NoExprID {
		p.resyncLine()
		return pyast.NoStmtID
	}
	body, ok := p.parseBlock("'for' statement")
	if !ok {
		p.resyncLine()
		return pyast.NoStmtID
	}
	sp := p.spanFrom(start)
	var orelse []pyast.StmtID
	if p.at(token.KwElse) {
		orelse = p.parseElse()
	}
	return p.stmts().NewFor(sp, async, pyast.ForData{Target: target, Iter: iter, Body: body, Orelse: orelse})
}

func (p *Parser) parseTry() pyast.StmtID {
	kw := p.advance()
	body, ok := p.parseBlock("'try'")
	if !ok {
		p.resyncLine()
		return pyast.NoStmtID
	}
	data := pyast.TryData{Body: body}
	for p.at(token.KwExcept) {
		ex := p.advance()
		p.eat(token.Star) // except*
		h := pyast.ExceptHandler{Type: pyast.NoExprID, Line: p.file.Position(ex.Span.Start).Line}
		if !p.at(token.Colon) {
			if h.Type = p.parseTest(); h.Type == pyast.NoExprID {
				p.resyncLine()
				return pyast.NoStmtID
			}
			if p.eat(token.KwAs) {
				name, ok := p.expect(token.Ident, diag.SynExpectIdentifier, "expected name after 'as'")
				if !ok {
					p.resyncLine()
					return pyast.NoStmtID
				}
				h.Name = name.Text
			}
		}
		if h.Body, ok = p.parseBlock("'except' clause"); !ok {
			p.resyncLine()
			return pyast.NoStmtID
		}
		data.Handlers = append(data.Handlers, h)
	}
	if p.at(token.KwElse) {
		data.Orelse = p.parseElse()
	}
	if p.at(token.KwFinally) {
		p.advance()
		if data.Finalbody, ok = p.parseBlock("'finally'"); !ok {
			p.resyncLine()
		}
	}
	if len(data.Handlers) == 0 && len(data.Finalbody) == 0 {
		p.errAt(diag.SynUnexpectedToken, kw.Span, "expected 'except' or 'finally' block")
	}
	return p.stmts().NewTry(p.spanFrom(kw.Span), data)
}

func (p *Parser) parseWith(start source.Span, async bool) pyast.StmtID {
	p.advance()
	var items []pyast.WithItem
	var ok bool
	if p.at(token.LParen) && p.parenthesizedWithItems() {
		open := p.advance()
		items, ok = p.parseWithItems(token.RParen)
		ok = ok && p.closeBracket(open)
	} else {
		items, ok = p.parseWithItems(token.Colon)
	}
	if !ok {
		p.resyncLine()
		return pyast.NoStmtID
	}
	body, ok := p.parseBlock("'with' statement")
	if !ok {
		p.resyncLine()
		return pyast.NoStmtID
	}
	return p.stmts().NewWith(p.spanFrom(start), async, pyast.WithData{Items: items, Body: body})
}

func (p *Parser) parseWithItems(closer token.Kind) ([]pyast.WithItem, bool) {
	var items []pyast.WithItem
	for {
		ctx := p.parseTest()
		if ctx == pyast.NoExprID {
			return nil, false
		}
		item := pyast.WithItem{Context: ctx, Vars: pyast.NoExprID}
		if p.eat(token.KwAs) {
			item.Vars = p.parseBinary(levelBitOr)
			if item.Vars == pyast.NoExprID || !p.storeTarget(item.Vars, pyast.Store) {
				return nil, false
			}
		}
		items = append(items, item)
		if !p.eat(token.Comma) || p.at(closer) {
			return items, true
		}
	}
}

// parenthesizedWithItems: `with (a as b, c):`: скобка закрывается прямо
// перед ':' и внутри на первом уровне есть 'as'.
func (p *Parser) parenthesizedWithItems() bool {
	depth, sawAs := 0, false
	for i := p.pos; i < len(p.toks); i++ {
		switch p.toks[i].Kind {
		case token.LParen, token.LBracket, token.LBrace:
			depth++
		case token.RParen, token.RBracket, token.RBrace:
			depth--
			if depth == 0 {
				return sawAs && i+1 < len(p.toks) && p.toks[i+1].Kind == token.Colon
			}
		case token.KwAs:
			if depth == 1 {
				sawAs = true
			}
		case token.Newline, token.EOF:
			return false
		}
	}
	return false
}

func (p *Parser) parseDecorated() pyast.StmtID {
	var decorators []pyast.ExprID
	for p.at(token.At) {
		p.advance()
		d := p.parseNamedTest()
		if d == pyast.NoExprID {
			p.resyncLine()
			return pyast.NoStmtID
		}
		decorators = append(decorators, d)
		if _, ok := p.expect(token.Newline, diag.SynExpectNewline, "expected end of line after decorator"); !ok {
			p.resyncLine()
			return pyast.NoStmtID
		}
	}
	switch p.peek().Kind {
	case token.KwDef:
		return p.parseFuncDef(p.peek().Span, false, decorators)
	case token.KwClass:
		return p.parseClassDef(decorators)
	case token.KwAsync:
		return p.parseAsync(decorators)
	}
	p.unexpected(diag.SynUnexpectedToken, "'def' or 'class' after decorator")
	p.resyncLine()
	return pyast.NoStmtID
}

func (p *Parser) parseAsync(decorators []pyast.ExprID) pyast.StmtID {
	kw := p.advance()
	switch p.peek().Kind {
	case token.KwDef:
		return p.parseFuncDef(kw.Span, true, decorators)
	case token.KwFor:
		if decorators == nil {
			return p.parseFor(kw.Span, true)
		}
	case token.KwWith:
		if decorators == nil {
			return p.parseWith(kw.Span, true)
		}
	}
	p.unexpected(diag.SynUnexpectedToken, "'def', 'for' or 'with' after 'async'")
	p.resyncLine()
	return pyast.NoStmtID
}

func (p *Parser) parseFuncDef(start source.Span, async bool, decorators []pyast.ExprID) pyast.StmtID {
	p.advance()
	name, ok := p.expect(token.Ident, diag.SynExpectIdentifier, "expected function name")
	if !ok {
		p.resyncLine()
		return pyast.NoStmtID
	}
	open, ok := p.expect(token.LParen, diag.SynUnexpectedToken, "expected '(' after function name")
	if !ok {
		p.resyncLine()
		return pyast.NoStmtID
	}
	args := p.parseParams(token.RParen, true)
	if !p.closeBracket(open) {
		p.resyncLine()
		return pyast.NoStmtID
	}
	returns := pyast.NoExprID
	if p.eat(token.Arrow) {
		if returns = p.parseTest(); returns == pyast.NoExprID {
			p.resyncLine()
			return pyast.NoStmtID
		}
	}
	body, ok := p.parseBlock("function definition")
	if !ok {
		p.resyncLine()
		return pyast.NoStmtID
	}
	return p.stmts().NewFunctionDef(p.spanFrom(start), async, pyast.FunctionDefData{
		Name:       name.Text,
		Args:       args,
		Body:       body,
		Decorators: decorators,
		Returns:    returns,
	})
}

func (p *Parser) parseClassDef(decorators []pyast.ExprID) pyast.StmtID {
	kw := p.advance()
	name, ok := p.expect(token.Ident, diag.SynExpectIdentifier, "expected class name")
	if !ok {
		p.resyncLine()
		return pyast.NoStmtID
	}
	data := pyast.ClassDefData{Name: name.Text, Decorators: decorators}
	if p.at(token.LParen) {
		open := p.advance()
		data.Bases, data.Keywords, ok = p.parseArgList()
		if !ok || !p.closeBracket(open) {
			p.resyncLine()
			return pyast.NoStmtID
		}
	}
	if data.Body, ok = p.parseBlock("class definition"); !ok {
		p.resyncLine()
		return pyast.NoStmtID
	}
	return p.stmts().NewClassDef(p.spanFrom(kw.Span), data)
}

// looksLikeMatch: `match`: soft keyword, только если логическая строка
// заканчивается ':' и следом идёт блок, начинающийся с `case`.
func (p *Parser) looksLikeMatch() bool {
	next := p.peekN(1).Kind
	switch next {
	case token.Assign, token.Dot, token.Colon, token.Comma, token.Newline, token.EOF:
		return false
	}
	if p.peekN(1).IsAugAssign() {
		return false
	}
	for i := p.pos + 1; i+2 < len(p.toks); i++ {
		if p.toks[i].Kind != token.Newline {
			continue
		}
		return p.toks[i-1].Kind == token.Colon &&
			p.toks[i+1].Kind == token.Indent &&
			p.toks[i+2].Kind == token.Ident && p.toks[i+2].Text == "case"
	}
	return false
}

func (p *Parser) parseMatch() pyast.StmtID {
	kw := p.advance()
	subject := p.parseTestList()
	if subject == pyast.NoExprID {
		p.resyncLine()
		return pyast.NoStmtID
	}
	p.expect(token.Colon, diag.SynExpectColon, "expected ':' after match subject")
	p.expect(token.Newline, diag.SynExpectNewline, "expected end of line")
	p.expect(token.Indent, diag.SynExpectIndent, "expected an indented block of 'case' clauses")

	data := pyast.MatchData{Subject: subject}
	for !p.atOr(token.Dedent, token.EOF) {
		if p.eat(token.Newline) {
			continue
		}
		if !p.atSoft("case") {
			p.unexpected(diag.SynUnexpectedToken, "'case'")
			p.resyncLine()
			continue
		}
		p.advance()
		c, ok := p.parseCase()
		if !ok {
			p.resyncLine()
			continue
		}
		data.Cases = append(data.Cases, c)
	}
	p.eat(token.Dedent)
	return p.stmts().NewMatch(p.spanFrom(kw.Span), data)
}

// parseCase: pattern ['as' NAME] ['if' guard] block. Паттерн разбирается как
// выражение; `as` превращается в NamedExpr над паттерном.
func (p *Parser) parseCase() (pyast.MatchCase, bool) {
	start := p.peek().Span
	c := pyast.MatchCase{Guard: pyast.NoExprID}
	if c.Pattern = p.parsePattern(); c.Pattern == pyast.NoExprID {
		return c, false
	}
	if p.eat(token.KwAs) {
		name, ok := p.expect(token.Ident, diag.SynExpectIdentifier, "expected capture name after 'as'")
		if !ok {
			return c, false
		}
		target := p.exprs().NewName(name.Span, name.Text, pyast.Store)
		c.Pattern = p.exprs().NewNamedExpr(p.spanFrom(start), target, c.Pattern)
	}
	if p.eat(token.KwIf) {
		if c.Guard = p.parseNamedTest(); c.Guard == pyast.NoExprID {
			return c, false
		}
	}
	body, ok := p.parseBlock("'case' clause")
	c.Body = body
	return c, ok
}

// parsePattern: открытая последовательность паттернов без тернарника,
// чтобы `if` остался за guard.
func (p *Parser) parsePattern() pyast.ExprID {
	return p.parseOpenSeq(p.parseOr)
}
