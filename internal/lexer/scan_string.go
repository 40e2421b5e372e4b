package lexer

import (
	"algotex/internal/diag"
	"algotex/internal/token"
)

// stringPrefixLen возвращает длину префикса строки (r, b, f, u, rb, br, fr, rf
// в любом регистре), если сразу за ним идёт кавычка; иначе -1.
func (lx *Lexer) stringPrefixLen() int {
	var n uint32
	for n < 3 {
		b := lx.cursor.PeekAt(n)
		if b == '"' || b == '\'' {
			break
		}
		switch b | 0x20 {
		case 'r', 'b', 'f', 'u':
			n++
			continue
		}
		return -1
	}
	if n == 0 || n > 2 {
		return -1
	}
	if q := lx.cursor.PeekAt(n); q != '"' && q != '\'' {
		return -1
	}
	p0, p1 := lx.cursor.Peek()|0x20, lx.cursor.PeekAt(1)|0x20
	if n == 1 {
		return 1
	}
	switch {
	case p0 == 'r' && (p1 == 'b' || p1 == 'f'),
		p1 == 'r' && (p0 == 'b' || p0 == 'f'):
		return 2
	}
	return -1
}

// scanString сканирует строковый литерал целиком, вместе с префиксом и кавычками.
// Содержимое не декодируется: это делает парсер.
func (lx *Lexer) scanString() token.Token {
	start := lx.cursor.Mark()
	kind := token.StringLit
	for {
		b := lx.cursor.Peek()
		if b == '"' || b == '\'' {
			break
		}
		switch b | 0x20 {
		case 'b':
			kind = token.BytesLit
		case 'f':
			kind = token.FStringLit
		}
		lx.cursor.Bump()
	}

	q := lx.cursor.Bump()
	triple := false
	if lx.cursor.Peek() == q && lx.cursor.PeekAt(1) == q {
		lx.cursor.Off += 2
		triple = true
	}

	for !lx.cursor.EOF() {
		b := lx.cursor.Peek()
		switch {
		case b == '\\':
			lx.cursor.Bump()
			lx.cursor.Bump()
			continue
		case triple && lx.try3(q, q, q):
			return lx.stringToken(kind, start)
		case !triple && b == q:
			lx.cursor.Bump()
			return lx.stringToken(kind, start)
		case !triple && b == '\n':
			sp := lx.cursor.SpanFrom(start)
			lx.errLex(diag.LexUnterminatedString, sp, "newline in string literal")
			return token.Token{Kind: token.Invalid, Span: sp, Text: lx.text(sp)}
		}
		lx.cursor.Bump()
	}
	sp := lx.cursor.SpanFrom(start)
	lx.errLex(diag.LexUnterminatedString, sp, "unterminated string literal")
	return token.Token{Kind: token.Invalid, Span: sp, Text: lx.text(sp)}
}

func (lx *Lexer) stringToken(kind token.Kind, start Mark) token.Token {
	sp := lx.cursor.SpanFrom(start)
	return token.Token{Kind: kind, Span: sp, Text: lx.text(sp)}
}
