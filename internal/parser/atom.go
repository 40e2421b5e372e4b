package parser

import (
	"algotex/internal/diag"
	"algotex/internal/pyast"
	"algotex/internal/token"
)

func (p *Parser) parseAtom() pyast.ExprID {
	tok := p.peek()
	switch tok.Kind {
	case token.Ident:
		p.advance()
		return p.exprs().NewName(tok.Span, tok.Text, pyast.Load)
	case token.IntLit, token.FloatLit, token.ImagLit:
		p.advance()
		return p.exprs().NewConstant(tok.Span, pyast.ConstantData{Kind: numberKind(tok.Kind), Text: tok.Text})
	case token.StringLit, token.BytesLit, token.FStringLit:
		return p.parseStrings()
	case token.Ellipsis:
		p.advance()
		return p.exprs().NewConstant(tok.Span, pyast.ConstantData{Kind: pyast.LitEllipsis, Text: "..."})
	case token.KwNone:
		p.advance()
		return p.exprs().NewConstant(tok.Span, pyast.ConstantData{Kind: pyast.LitNone, Text: "None"})
	case token.KwTrue, token.KwFalse:
		p.advance()
		return p.exprs().NewConstant(tok.Span, pyast.ConstantData{
			Kind: pyast.LitBool, Text: tok.Text, Bool: tok.Kind == token.KwTrue,
		})
	case token.LParen:
		return p.parseParenAtom()
	case token.LBracket:
		return p.parseListAtom()
	case token.LBrace:
		return p.parseBraceAtom()
	}
	p.expectedExpression()
	return pyast.NoExprID
}

func (p *Parser) expectedExpression() {
	p.unexpected(diag.SynExpectExpression, "expression")
}

func numberKind(k token.Kind) pyast.LitKind {
	switch k {
	case token.FloatLit:
		return pyast.LitFloat
	case token.ImagLit:
		return pyast.LitComplex
	default:
		return pyast.LitInt
	}
}

// '(' [yield_expr | testlist_comp] ')'
func (p *Parser) parseParenAtom() pyast.ExprID {
	open := p.advance()
	if !p.enter() {
		p.leave()
		return pyast.NoExprID
	}
	defer p.leave()

	if p.at(token.RParen) {
		p.advance()
		return p.exprs().NewSeq(p.spanFrom(open.Span), pyast.ExprTuple, nil, pyast.Load)
	}
	if p.at(token.KwYield) {
		y := p.parseYield()
		if y == pyast.NoExprID || !p.closeBracket(open) {
			return pyast.NoExprID
		}
		return y
	}
	first := p.parseTestOrStar(true)
	if first == pyast.NoExprID {
		return pyast.NoExprID
	}
	if p.atOr(token.KwFor, token.KwAsync) {
		gen := p.parseComprehension(open.Span, pyast.ExprGeneratorExp, pyast.NoExprID, first)
		if gen == pyast.NoExprID || !p.closeBracket(open) {
			return pyast.NoExprID
		}
		return gen
	}
	if !p.at(token.Comma) {
		if !p.closeBracket(open) {
			return pyast.NoExprID
		}
		return first
	}
	elts, ok := p.parseEltsTail(first, token.RParen)
	if !ok || !p.closeBracket(open) {
		return pyast.NoExprID
	}
	return p.exprs().NewSeq(p.spanFrom(open.Span), pyast.ExprTuple, elts, pyast.Load)
}

// parseEltsTail дочитывает (',' elt)* [','] до закрывающей скобки
func (p *Parser) parseEltsTail(first pyast.ExprID, closer token.Kind) ([]pyast.ExprID, bool) {
	elts := []pyast.ExprID{first}
	for p.eat(token.Comma) {
		if p.at(closer) {
			break
		}
		el := p.parseTestOrStar(true)
		if el == pyast.NoExprID {
			return nil, false
		}
		elts = append(elts, el)
	}
	return elts, true
}

func (p *Parser) parseListAtom() pyast.ExprID {
	open := p.advance()
	if !p.enter() {
		p.leave()
		return pyast.NoExprID
	}
	defer p.leave()

	if p.at(token.RBracket) {
		p.advance()
		return p.exprs().NewSeq(p.spanFrom(open.Span), pyast.ExprList, nil, pyast.Load)
	}
	first := p.parseTestOrStar(true)
	if first == pyast.NoExprID {
		return pyast.NoExprID
	}
	if p.atOr(token.KwFor, token.KwAsync) {
		comp := p.parseComprehension(open.Span, pyast.ExprListComp, pyast.NoExprID, first)
		if comp == pyast.NoExprID || !p.closeBracket(open) {
			return pyast.NoExprID
		}
		return comp
	}
	elts, ok := p.parseEltsTail(first, token.RBracket)
	if !ok || !p.closeBracket(open) {
		return pyast.NoExprID
	}
	return p.exprs().NewSeq(p.spanFrom(open.Span), pyast.ExprList, elts, pyast.Load)
}

// '{' [dictorsetmaker] '}'
func (p *Parser) parseBraceAtom() pyast.ExprID {
	open := p.advance()
	if !p.enter() {
		p.leave()
		return pyast.NoExprID
	}
	defer p.leave()

	if p.at(token.RBrace) {
		p.advance()
		return p.exprs().NewDict(p.spanFrom(open.Span), nil, nil)
	}
	if p.at(token.StarStar) {
		return p.parseDictTail(open, pyast.NoExprID)
	}
	first := p.parseTestOrStar(true)
	if first == pyast.NoExprID {
		return pyast.NoExprID
	}
	if p.at(token.Colon) {
		return p.parseDictTail(open, first)
	}
	if p.atOr(token.KwFor, token.KwAsync) {
		comp := p.parseComprehension(open.Span, pyast.ExprSetComp, pyast.NoExprID, first)
		if comp == pyast.NoExprID || !p.closeBracket(open) {
			return pyast.NoExprID
		}
		return comp
	}
	elts, ok := p.parseEltsTail(first, token.RBrace)
	if !ok || !p.closeBracket(open) {
		return pyast.NoExprID
	}
	return p.exprs().NewSeq(p.spanFrom(open.Span), pyast.ExprSet, elts, pyast.Load)
}

// parseDictTail разбирает словарь начиная с первого ключа (или '**').
func (p *Parser) parseDictTail(open token.Token, firstKey pyast.ExprID) pyast.ExprID {
	var keys, values []pyast.ExprID
	key := firstKey
	for first := true; ; first = false {
		if !first {
			if p.at(token.RBrace) {
				break
			}
			key = pyast.NoExprID
			if !p.at(token.StarStar) {
				if key = p.parseTest(); key == pyast.NoExprID {
					return pyast.NoExprID
				}
			}
		}
		var value pyast.ExprID
		if key == pyast.NoExprID {
			if _, ok := p.expect(token.StarStar, diag.SynExpectExpression, "expected '**' or key"); !ok {
				return pyast.NoExprID
			}
			value = p.parseBinary(levelBitOr)
		} else {
			if _, ok := p.expect(token.Colon, diag.SynExpectColon, "expected ':' after dictionary key"); !ok {
				return pyast.NoExprID
			}
			value = p.parseTest()
		}
		if value == pyast.NoExprID {
			return pyast.NoExprID
		}
		if first && key != pyast.NoExprID && p.atOr(token.KwFor, token.KwAsync) {
			comp := p.parseComprehension(open.Span, pyast.ExprDictComp, key, value)
			if comp == pyast.NoExprID || !p.closeBracket(open) {
				return pyast.NoExprID
			}
			return comp
		}
		keys = append(keys, key)
		values = append(values, value)
		if !p.eat(token.Comma) {
			break
		}
	}
	if !p.closeBracket(open) {
		return pyast.NoExprID
	}
	return p.exprs().NewDict(p.spanFrom(open.Span), keys, values)
}
