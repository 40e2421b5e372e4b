package parser

import (
	"algotex/internal/diag"
	"algotex/internal/pyast"
	"algotex/internal/token"
)

// parseParams разбирает список параметров def (annotated) или lambda до closer.
// Закрывающий токен не съедается.
func (p *Parser) parseParams(closer token.Kind, annotated bool) pyast.Arguments {
	var args pyast.Arguments
	sawSlash, sawStar := false, false
	for !p.at(closer) && !p.at(token.EOF) {
		switch {
		case p.at(token.Slash):
			tok := p.advance()
			if sawSlash || sawStar || len(args.Args) == 0 {
				p.errAt(diag.SynUnexpectedToken, tok.Span, "unexpected '/' in parameter list")
			}
			args.PosOnly = append(args.PosOnly, args.Args...)
			args.Args = nil
			sawSlash = true
		case p.at(token.StarStar):
			p.advance()
			a, ok := p.parseParam(annotated)
			if !ok {
				return args
			}
			args.Kwarg = &a
		case p.at(token.Star):
			tok := p.advance()
			if sawStar {
				p.errAt(diag.SynUnexpectedToken, tok.Span, "'*' may appear only once in a parameter list")
			}
			sawStar = true
			if p.at(token.Ident) {
				a, ok := p.parseParam(annotated)
				if !ok {
					return args
				}
				args.Vararg = &a
			}
		default:
			a, ok := p.parseParam(annotated)
			if !ok {
				return args
			}
			def := pyast.NoExprID
			if p.eat(token.Assign) {
				if def = p.parseTest(); def == pyast.NoExprID {
					return args
				}
			}
			if sawStar {
				args.KwOnly = append(args.KwOnly, a)
				args.KwDefaults = append(args.KwDefaults, def)
				break
			}
			args.Args = append(args.Args, a)
			if def != pyast.NoExprID {
				args.Defaults = append(args.Defaults, def)
			} else if len(args.Defaults) > 0 {
				p.errAt(diag.SynUnexpectedToken, a.Span, "parameter without a default follows parameter with a default")
			}
		}
		if !p.eat(token.Comma) {
			break
		}
	}
	return args
}

func (p *Parser) parseParam(annotated bool) (pyast.Arg, bool) {
	name, ok := p.expect(token.Ident, diag.SynExpectIdentifier, "expected parameter name")
	if !ok {
		return pyast.Arg{}, false
	}
	a := pyast.Arg{
		Name:       name.Text,
		Annotation: pyast.NoExprID,
		Span:       name.Span,
		Line:       p.file.Position(name.Span.Start).Line,
	}
	if annotated && p.eat(token.Colon) {
		if a.Annotation = p.parseTest(); a.Annotation == pyast.NoExprID {
			return a, false
		}
	}
	return a, true
}
