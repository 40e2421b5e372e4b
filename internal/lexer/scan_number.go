package lexer

import (
	"algotex/internal/diag"
	"algotex/internal/token"
)

// Поддержка: 0, 1_000, 0b..., 0o..., 0x..., 1.0, .5, 1., 1e-3, 1.5e+10, 2j, 1.5J.
// Token.Text хранит исходный текст: в десятичную запись его переводит рендер.
func (lx *Lexer) scanNumber() token.Token {
	start := lx.cursor.Mark()
	kind := token.IntLit

	if lx.cursor.Peek() == '0' {
		var digit func(byte) bool
		switch lx.cursor.PeekAt(1) {
		case 'x', 'X':
			digit = isHex
		case 'o', 'O':
			digit = isOct
		case 'b', 'B':
			digit = isBin
		}
		if digit != nil {
			lx.cursor.Off += 2
			n := lx.eatDigits(digit)
			sp := lx.cursor.SpanFrom(start)
			if n == 0 {
				lx.errLex(diag.LexBadNumber, sp, "missing digits after base prefix")
				return token.Token{Kind: token.Invalid, Span: sp, Text: lx.text(sp)}
			}
			return token.Token{Kind: token.IntLit, Span: sp, Text: lx.text(sp)}
		}
	}

	lx.eatDigits(isDec)

	// дробная часть
	if lx.cursor.Peek() == '.' {
		lx.cursor.Bump()
		lx.eatDigits(isDec)
		kind = token.FloatLit
	}

	// экспонента
	if b := lx.cursor.Peek(); b == 'e' || b == 'E' {
		mark := lx.cursor.Mark()
		lx.cursor.Bump()
		if b := lx.cursor.Peek(); b == '+' || b == '-' {
			lx.cursor.Bump()
		}
		if lx.eatDigits(isDec) == 0 {
			// "1else" и подобное: 'e' не наша
			lx.cursor.Reset(mark)
		} else {
			kind = token.FloatLit
		}
	}

	if b := lx.cursor.Peek(); b == 'j' || b == 'J' {
		lx.cursor.Bump()
		kind = token.ImagLit
	}

	sp := lx.cursor.SpanFrom(start)
	if isIdentStartByte(lx.cursor.Peek()) {
		for isIdentContinueByte(lx.cursor.Peek()) {
			lx.cursor.Bump()
		}
		sp = lx.cursor.SpanFrom(start)
		lx.errLex(diag.LexBadNumber, sp, "invalid decimal literal")
		return token.Token{Kind: token.Invalid, Span: sp, Text: lx.text(sp)}
	}
	return token.Token{Kind: kind, Span: sp, Text: lx.text(sp)}
}

// eatDigits съедает цифры и одиночные '_' между ними, возвращает число цифр.
func (lx *Lexer) eatDigits(digit func(byte) bool) int {
	n := 0
	for {
		b := lx.cursor.Peek()
		switch {
		case digit(b):
			n++
			lx.cursor.Bump()
		case b == '_' && digit(lx.cursor.PeekAt(1)):
			lx.cursor.Bump()
		default:
			return n
		}
	}
}
