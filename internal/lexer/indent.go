package lexer

import (
	"algotex/internal/diag"
	"algotex/internal/source"
	"algotex/internal/token"
)

const tabSize = 8

// scanIndentation обрабатывает начало физической строки: пропускает пустые
// строки и строки-комментарии, меряет отступ и кладёт Indent/Dedent в pending.
func (lx *Lexer) scanIndentation() {
	for {
		start := lx.cursor.Mark()
		var col uint32
		sawTab, sawSpace := false, false
	measure:
		for {
			switch lx.cursor.Peek() {
			case ' ':
				col++
				sawSpace = true
			case '\t':
				col = (col/tabSize + 1) * tabSize
				sawTab = true
			case '\f':
				col = 0
			default:
				break measure
			}
			lx.cursor.Bump()
		}
		if sp := lx.cursor.SpanFrom(start); !sp.Empty() {
			lx.hold = append(lx.hold, token.Trivia{Kind: token.TriviaSpace, Span: sp, Text: lx.text(sp)})
		}

		switch lx.cursor.Peek() {
		case '\n':
			lx.pushNewlineTrivia()
			continue
		case '#':
			lx.scanCommentIntoHold()
			if lx.cursor.Peek() == '\n' {
				lx.pushNewlineTrivia()
			}
			continue
		}
		if lx.cursor.EOF() {
			return
		}
		if sawTab && sawSpace {
			lx.warnLex(diag.LexInconsistentTabs, lx.cursor.SpanFrom(start), "indentation mixes tabs and spaces")
		}
		lx.applyIndent(col)
		return
	}
}

func (lx *Lexer) applyIndent(col uint32) {
	at := lx.emptySpan()
	top := lx.indents[len(lx.indents)-1]
	switch {
	case col > top:
		lx.indents = append(lx.indents, col)
		lx.pending = append(lx.pending, token.Token{Kind: token.Indent, Span: at})
	case col < top:
		for len(lx.indents) > 1 && lx.indents[len(lx.indents)-1] > col {
			lx.indents = lx.indents[:len(lx.indents)-1]
			lx.pending = append(lx.pending, token.Token{Kind: token.Dedent, Span: at})
		}
		if lx.indents[len(lx.indents)-1] != col {
			lx.errLex(diag.LexBadDedent, at, "unindent does not match any outer indentation level")
		}
	}
}

func (lx *Lexer) pushNewlineTrivia() {
	start := lx.cursor.Mark()
	lx.cursor.Bump()
	sp := lx.cursor.SpanFrom(start)
	lx.hold = append(lx.hold, token.Trivia{Kind: token.TriviaNewline, Span: sp, Text: "\n"})
}

func (lx *Lexer) text(sp source.Span) string {
	return string(lx.file.Content[sp.Start:sp.End])
}
