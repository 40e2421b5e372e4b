package lexer

import (
	"algotex/internal/token"
)

// collectLeadingTrivia собирает подряд идущие trivia перед значимым токеном.
//   - ' ', '\t', '\f' коалесцируются в один TriviaSpace
//   - # ... до \n -> TriviaComment
//   - '\' + '\n' -> TriviaContinuation
//   - внутри скобок '\n' -> TriviaNewline (логическая строка продолжается)
func (lx *Lexer) collectLeadingTrivia() {
	for !lx.cursor.EOF() {
		start := lx.cursor.Mark()
		b := lx.cursor.Peek()

		switch {
		case b == ' ' || b == '\t' || b == '\f':
			for {
				b2 := lx.cursor.Peek()
				if b2 != ' ' && b2 != '\t' && b2 != '\f' {
					break
				}
				lx.cursor.Bump()
			}
			sp := lx.cursor.SpanFrom(start)
			lx.hold = append(lx.hold, token.Trivia{Kind: token.TriviaSpace, Span: sp, Text: lx.text(sp)})

		case b == '#':
			lx.scanCommentIntoHold()

		case b == '\\' && lx.cursor.PeekAt(1) == '\n':
			lx.cursor.Bump()
			lx.cursor.Bump()
			sp := lx.cursor.SpanFrom(start)
			lx.hold = append(lx.hold, token.Trivia{Kind: token.TriviaContinuation, Span: sp, Text: lx.text(sp)})

		case b == '\n' && (lx.nested || len(lx.parens) > 0):
			lx.pushNewlineTrivia()

		default:
			// нет больше trivia
			return
		}
	}
}

func (lx *Lexer) scanCommentIntoHold() {
	start := lx.cursor.Mark()
	for !lx.cursor.EOF() && lx.cursor.Peek() != '\n' {
		lx.cursor.Bump()
	}
	sp := lx.cursor.SpanFrom(start)
	lx.hold = append(lx.hold, token.Trivia{Kind: token.TriviaComment, Span: sp, Text: lx.text(sp)})
}
