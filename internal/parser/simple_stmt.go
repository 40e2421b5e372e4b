package parser

import (
	"strings"

	"algotex/internal/diag"
	"algotex/internal/pyast"
	"algotex/internal/token"
)

// parseSimpleStatements: small_stmt (';' small_stmt)* [';'] NEWLINE
func (p *Parser) parseSimpleStatements() []pyast.StmtID {
	var out []pyast.StmtID
	for {
		id := p.parseSmallStatement()
		if id == pyast.NoStmtID {
			p.resyncLine()
			return out
		}
		out = append(out, id)
		if !p.eat(token.Semicolon) || p.atOr(token.Newline, token.EOF) {
			break
		}
	}
	if !p.eat(token.Newline) && !p.at(token.EOF) {
		p.unexpected(diag.SynExpectNewline, "end of line")
		p.resyncLine()
	}
	return out
}

func (p *Parser) parseSmallStatement() pyast.StmtID {
	tok := p.peek()
	switch tok.Kind {
	case token.KwPass:
		p.advance()
		return p.stmts().NewSimple(tok.Span, pyast.StmtPass)
	case token.KwBreak:
		p.advance()
		return p.stmts().NewSimple(tok.Span, pyast.StmtBreak)
	case token.KwContinue:
		p.advance()
		return p.stmts().NewSimple(tok.Span, pyast.StmtContinue)
	case token.KwReturn:
		p.advance()
		value := pyast.NoExprID
		if p.startsExpr() {
			if value = p.parseTestList(); value == pyast.NoExprID {
				return pyast.NoStmtID
			}
		}
		return p.stmts().NewReturn(p.spanFrom(tok.Span), value)
	case token.KwDel:
		return p.parseDel()
	case token.KwRaise:
		return p.parseRaise()
	case token.KwAssert:
		p.advance()
		test := p.parseTest()
		if test == pyast.NoExprID {
			return pyast.NoStmtID
		}
		msg := pyast.NoExprID
		if p.eat(token.Comma) {
			if msg = p.parseTest(); msg == pyast.NoExprID {
				return pyast.NoStmtID
			}
		}
		return p.stmts().NewAssert(p.spanFrom(tok.Span), test, msg)
	case token.KwImport:
		return p.parseImport()
	case token.KwFrom:
		return p.parseFromImport()
	case token.KwGlobal, token.KwNonlocal:
		return p.parseNameList()
	}
	return p.parseExprStatement()
}

func (p *Parser) parseDel() pyast.StmtID {
	kw := p.advance()
	var targets []pyast.ExprID
	for {
		t := p.parseBinary(levelBitOr)
		if t == pyast.NoExprID || !p.storeTarget(t, pyast.Del) {
			return pyast.NoStmtID
		}
		targets = append(targets, t)
		if !p.eat(token.Comma) || !p.startsExpr() {
			break
		}
	}
	return p.stmts().NewDelete(p.spanFrom(kw.Span), targets)
}

func (p *Parser) parseRaise() pyast.StmtID {
	kw := p.advance()
	exc, cause := pyast.NoExprID, pyast.NoExprID
	if p.startsExpr() {
		if exc = p.parseTest(); exc == pyast.NoExprID {
			return pyast.NoStmtID
		}
		if p.eat(token.KwFrom) {
			if cause = p.parseTest(); cause == pyast.NoExprID {
				return pyast.NoStmtID
			}
		}
	}
	return p.stmts().NewRaise(p.spanFrom(kw.Span), exc, cause)
}

func (p *Parser) parseDottedName() (string, bool) {
	first, ok := p.expect(token.Ident, diag.SynExpectIdentifier, "expected module name")
	if !ok {
		return "", false
	}
	parts := []string{first.Text}
	for p.at(token.Dot) && p.peekN(1).Kind == token.Ident {
		p.advance()
		parts = append(parts, p.advance().Text)
	}
	return strings.Join(parts, "."), true
}

func (p *Parser) parseAlias(dotted bool) (pyast.Alias, bool) {
	var a pyast.Alias
	var ok bool
	if dotted {
		a.Name, ok = p.parseDottedName()
	} else {
		var name token.Token
		name, ok = p.expect(token.Ident, diag.SynExpectIdentifier, "expected name to import")
		a.Name = name.Text
	}
	if !ok {
		return a, false
	}
	if p.eat(token.KwAs) {
		name, ok := p.expect(token.Ident, diag.SynExpectIdentifier, "expected name after 'as'")
		if !ok {
			return a, false
		}
		a.AsName = name.Text
	}
	return a, true
}

func (p *Parser) parseImport() pyast.StmtID {
	kw := p.advance()
	var data pyast.ImportData
	for {
		a, ok := p.parseAlias(true)
		if !ok {
			return pyast.NoStmtID
		}
		data.Names = append(data.Names, a)
		if !p.eat(token.Comma) {
			break
		}
	}
	return p.stmts().NewImport(p.spanFrom(kw.Span), false, data)
}

func (p *Parser) parseFromImport() pyast.StmtID {
	kw := p.advance()
	var data pyast.ImportData
	for p.atOr(token.Dot, token.Ellipsis) {
		if p.advance().Kind == token.Ellipsis {
			data.Level += 3
		} else {
			data.Level++
		}
	}
	if !p.at(token.KwImport) || data.Level == 0 {
		module, ok := p.parseDottedName()
		if !ok {
			return pyast.NoStmtID
		}
		data.Module = module
	}
	if _, ok := p.expect(token.KwImport, diag.SynUnexpectedToken, "expected 'import'"); !ok {
		return pyast.NoStmtID
	}
	if p.at(token.Star) {
		p.advance()
		data.Names = []pyast.Alias{{Name: "*"}}
		return p.stmts().NewImport(p.spanFrom(kw.Span), true, data)
	}
	var open token.Token
	paren := p.at(token.LParen)
	if paren {
		open = p.advance()
	}
	for {
		a, ok := p.parseAlias(false)
		if !ok {
			return pyast.NoStmtID
		}
		data.Names = append(data.Names, a)
		if !p.eat(token.Comma) || paren && p.at(token.RParen) {
			break
		}
	}
	if paren && !p.closeBracket(open) {
		return pyast.NoStmtID
	}
	return p.stmts().NewImport(p.spanFrom(kw.Span), true, data)
}

func (p *Parser) parseNameList() pyast.StmtID {
	kw := p.advance()
	kind := pyast.StmtGlobal
	if kw.Kind == token.KwNonlocal {
		kind = pyast.StmtNonlocal
	}
	var names []string
	for {
		name, ok := p.expect(token.Ident, diag.SynExpectIdentifier, "expected name after '"+kw.Text+"'")
		if !ok {
			return pyast.NoStmtID
		}
		names = append(names, name.Text)
		if !p.eat(token.Comma) {
			break
		}
	}
	return p.stmts().NewNames(p.spanFrom(kw.Span), kind, names)
}

func (p *Parser) parseExprOrYield() pyast.ExprID {
	if p.at(token.KwYield) {
		return p.parseYield()
	}
	return p.parseTestList()
}

// parseExprStatement: выражение, присваивание (в том числе цепочкой),
// аннотированное или составное присваивание.
func (p *Parser) parseExprStatement() pyast.StmtID {
	start := p.peek()
	first := p.parseExprOrYield()
	if first == pyast.NoExprID {
		return pyast.NoStmtID
	}
	switch {
	case p.at(token.Colon):
		p.advance()
		if !p.singleTarget(first, "annotated") {
			return pyast.NoStmtID
		}
		data := pyast.AnnAssignData{
			Target: first,
			Value:  pyast.NoExprID,
			Simple: start.Kind == token.Ident && p.exprs().Get(first).Kind == pyast.ExprName,
		}
		if data.Annotation = p.parseTest(); data.Annotation == pyast.NoExprID {
			return pyast.NoStmtID
		}
		if p.eat(token.Assign) {
			if data.Value = p.parseExprOrYield(); data.Value == pyast.NoExprID {
				return pyast.NoStmtID
			}
		}
		return p.stmts().NewAnnAssign(p.spanFrom(start.Span), data)

	case p.peek().IsAugAssign():
		op := augOps[p.advance().Kind]
		if !p.singleTarget(first, "augmented") {
			return pyast.NoStmtID
		}
		value := p.parseExprOrYield()
		if value == pyast.NoExprID {
			return pyast.NoStmtID
		}
		return p.stmts().NewAugAssign(p.spanFrom(start.Span), first, op, value)

	case p.at(token.Assign):
		chain := []pyast.ExprID{first}
		for p.eat(token.Assign) {
			v := p.parseExprOrYield()
			if v == pyast.NoExprID {
				return pyast.NoStmtID
			}
			chain = append(chain, v)
		}
		targets, value := chain[:len(chain)-1], chain[len(chain)-1]
		for _, t := range targets {
			if !p.storeTarget(t, pyast.Store) {
				return pyast.NoStmtID
			}
		}
		return p.stmts().NewAssign(p.spanFrom(start.Span), targets, value)
	}
	return p.stmts().NewExprStmt(p.spanFrom(start.Span), first)
}

// singleTarget: цель аннотированного или составного присваивания:
// только имя, атрибут или индекс.
func (p *Parser) singleTarget(id pyast.ExprID, what string) bool {
	switch p.exprs().Get(id).Kind {
	case pyast.ExprName, pyast.ExprAttribute, pyast.ExprSubscript:
		return p.storeTarget(id, pyast.Store)
	}
	p.errAt(diag.SynInvalidTarget, p.exprSpan(id), "illegal target for "+what+" assignment")
	return false
}
