package parser

import (
	"algotex/internal/diag"
	"algotex/internal/source"
	"algotex/internal/token"
)

// advance: съедает следующий токен и обновляет lastSpan
func (p *Parser) advance() token.Token {
	tok := p.peek()
	if tok.Kind != token.EOF {
		p.pos++
	}
	switch tok.Kind {
	case token.EOF, token.Invalid, token.Newline, token.Indent, token.Dedent:
	default:
		p.lastSpan = tok.Span
	}
	return tok
}

// eat съедает токен, если он совпадает
func (p *Parser) eat(k token.Kind) bool {
	if p.at(k) {
		p.advance()
		return true
	}
	return false
}

// getDiagnosticSpan: возвращает лучший span для диагностики:
// для синтетических токенов (Newline в конце, Dedent, EOF): позицию после lastSpan
func (p *Parser) getDiagnosticSpan() source.Span {
	peek := p.peek()
	switch peek.Kind {
	case token.EOF, token.Dedent, token.Indent, token.Newline:
		return source.At(p.lastSpan.File, p.lastSpan.End)
	}
	return peek.Span
}

// expect: ожидаем конкретный токен. Если нет: репортим и возвращаем (invalid,false).
func (p *Parser) expect(k token.Kind, code diag.Code, msg string) (token.Token, bool) {
	if p.at(k) {
		return p.advance(), true
	}
	sp := p.getDiagnosticSpan()
	p.report(code, diag.SevError, sp, msg)
	return token.Token{Kind: token.Invalid, Span: sp, Text: p.peek().Text}, false
}

// репортует ошибку и передает текущий спан.
// На Invalid-токене молчим: лексер уже сообщил.
func (p *Parser) err(code diag.Code, msg string) bool {
	if p.at(token.Invalid) {
		p.opts.CurrentErrors++
		return false
	}
	return p.report(code, diag.SevError, p.getDiagnosticSpan(), msg)
}

func (p *Parser) errAt(code diag.Code, sp source.Span, msg string) bool {
	return p.report(code, diag.SevError, sp, msg)
}

func (p *Parser) report(code diag.Code, sev diag.Severity, sp source.Span, msg string) bool {
	if sev == diag.SevError {
		p.opts.CurrentErrors++
	}
	if p.opts.Reporter == nil || p.opts.overLimit() {
		return false
	}
	p.opts.Reporter.Report(diag.New(sev, code, sp, msg))
	return true
}

// unexpected репортует неожиданный токен с его текстом
func (p *Parser) unexpected(code diag.Code, what string) {
	tok := p.peek()
	text := tok.Text
	switch tok.Kind {
	case token.Newline:
		text = "end of line"
	case token.EOF:
		text = "end of file"
	case token.Indent:
		text = "indent"
	case token.Dedent:
		text = "dedent"
	}
	p.err(code, "expected "+what+", got "+quoteTok(text))
}

func quoteTok(s string) string {
	switch s {
	case "end of line", "end of file", "indent", "dedent":
		return s
	}
	return "'" + s + "'"
}

// resyncLine: восстановление после ошибки в простом операторе:
// прокручиваем до Newline (съедаем его) или EOF. Блоки пропускаются целиком.
func (p *Parser) resyncLine() {
	depth := 0
	for !p.at(token.EOF) {
		switch p.peek().Kind {
		case token.Indent:
			depth++
		case token.Dedent:
			if depth == 0 {
				return
			}
			depth--
			p.advance()
			if depth == 0 {
				return
			}
			continue
		case token.Newline:
			if depth == 0 {
				p.advance()
				if !p.at(token.Indent) {
					return
				}
				continue
			}
		}
		p.advance()
	}
}

func (p *Parser) spanFrom(start source.Span) source.Span {
	return start.Cover(p.lastSpan)
}
