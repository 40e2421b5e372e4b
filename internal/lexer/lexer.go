package lexer

import (
	"algotex/internal/diag"
	"algotex/internal/source"
	"algotex/internal/token"
)

type Lexer struct {
	file   *source.File
	cursor Cursor
	opts   Options
	look   *token.Token   // 1 элементный буфер для токена
	hold   []token.Trivia // накопленные leading trivia

	pending []token.Token // синтезированные Indent/Dedent
	indents []uint32      // стек отступов, всегда начинается с 0
	parens  []token.Token // открытые скобки
	nested  bool          // лексим поле f-строки: без Newline/Indent/Dedent

	atLineStart   bool
	lineHasTokens bool
	fatal         bool // после слишком длинного токена прыгаем в EOF
}

// New creates a lexer over the whole file.
func New(file *source.File, opts Options) *Lexer {
	return &Lexer{
		file:        file,
		cursor:      NewCursor(file),
		opts:        opts,
		indents:     []uint32{0},
		atLineStart: true,
	}
}

// NewRange creates a lexer over content[start:end] that behaves as if it were
// inside brackets: newlines are insignificant and no layout tokens are produced.
func NewRange(file *source.File, start, end uint32, opts Options) *Lexer {
	return &Lexer{
		file:    file,
		cursor:  NewRangeCursor(file, start, end),
		opts:    opts,
		indents: []uint32{0},
		nested:  true,
	}
}

// Tokenize returns every token of the file up to and including EOF.
func Tokenize(file *source.File, opts Options) []token.Token {
	lx := New(file, opts)
	return lx.All()
}

// All drains the lexer.
func (lx *Lexer) All() []token.Token {
	out := make([]token.Token, 0, 64)
	for {
		tok := lx.Next()
		out = append(out, tok)
		if tok.Kind == token.EOF {
			return out
		}
	}
}

// Next возвращает следующий **значимый** токен с уже собранным Leading.
// После EOF всегда возвращает EOF.
func (lx *Lexer) Next() token.Token {
	if lx.look != nil {
		tok := *lx.look
		lx.look = nil
		return tok
	}
	if tok, ok := lx.popPending(); ok {
		return tok
	}

	for {
		if lx.fatal {
			return lx.eofToken()
		}
		if lx.atLineStart && !lx.nested && len(lx.parens) == 0 {
			lx.atLineStart = false
			lx.scanIndentation()
			if tok, ok := lx.popPending(); ok {
				return tok
			}
		}

		lx.collectLeadingTrivia()

		if lx.cursor.EOF() {
			return lx.finish()
		}

		if lx.cursor.Peek() == '\n' {
			start := lx.cursor.Mark()
			lx.cursor.Bump()
			lx.atLineStart = true
			if lx.lineHasTokens {
				lx.lineHasTokens = false
				return token.Token{Kind: token.Newline, Span: lx.cursor.SpanFrom(start), Text: "\n"}
			}
			continue
		}

		tok := lx.scanToken()
		if tok.Span.Len() > maxTokenLength {
			lx.errLex(diag.LexTokenTooLong, tok.Span, "token exceeds maximum length")
			lx.fatal = true
			lx.cursor.Off = lx.cursor.Limit
			tok.Kind = token.Invalid
		}
		lx.trackBrackets(tok)
		lx.lineHasTokens = true
		tok.Leading = lx.hold
		lx.hold = nil
		return tok
	}
}

// Peek возвращает следующий токен, не потребляя его.
func (lx *Lexer) Peek() token.Token {
	t := lx.Next()
	lx.look = &t
	return t
}

func (lx *Lexer) scanToken() token.Token {
	ch := lx.cursor.Peek()
	switch {
	case isIdentStartByte(ch):
		if n := lx.stringPrefixLen(); n >= 0 {
			return lx.scanString()
		}
		return lx.scanIdentOrKeyword()
	case ch >= utf8RuneSelf:
		// Возможный Unicode идентификатор → scanIdentOrKeyword() разберётся
		return lx.scanIdentOrKeyword()
	case isDec(ch):
		return lx.scanNumber()
	case ch == '.' && isDec(lx.cursor.PeekAt(1)):
		return lx.scanNumber()
	case ch == '"' || ch == '\'':
		return lx.scanString()
	default:
		return lx.scanOperatorOrPunct()
	}
}

// finish выдаёт хвост: Newline (если строка не закрыта), Dedent'ы, EOF.
func (lx *Lexer) finish() token.Token {
	if lx.nested {
		return lx.eofToken()
	}
	for _, open := range lx.parens {
		lx.errLex(diag.LexUnbalancedBracket, open.Span, "'"+open.Text+"' was never closed")
	}
	lx.parens = nil
	if lx.lineHasTokens {
		lx.lineHasTokens = false
		return token.Token{Kind: token.Newline, Span: lx.emptySpan()}
	}
	if len(lx.indents) > 1 {
		lx.indents = lx.indents[:len(lx.indents)-1]
		return token.Token{Kind: token.Dedent, Span: lx.emptySpan()}
	}
	return lx.eofToken()
}

func (lx *Lexer) eofToken() token.Token {
	// Leading из hold не приклеиваем к EOF
	lx.hold = nil
	return token.Token{Kind: token.EOF, Span: lx.emptySpan()}
}

func (lx *Lexer) popPending() (token.Token, bool) {
	if len(lx.pending) == 0 {
		return token.Token{}, false
	}
	tok := lx.pending[0]
	lx.pending = lx.pending[1:]
	return tok, true
}

func (lx *Lexer) trackBrackets(tok token.Token) {
	switch tok.Kind {
	case token.LParen, token.LBracket, token.LBrace:
		lx.parens = append(lx.parens, tok)
	case token.RParen, token.RBracket, token.RBrace:
		if len(lx.parens) == 0 {
			if !lx.nested {
				lx.errLex(diag.LexUnbalancedBracket, tok.Span, "unmatched '"+tok.Text+"'")
			}
			return
		}
		open := lx.parens[len(lx.parens)-1]
		lx.parens = lx.parens[:len(lx.parens)-1]
		if closerFor(open.Kind) != tok.Kind {
			lx.errLex(diag.LexUnbalancedBracket, tok.Span, "closing '"+tok.Text+"' does not match '"+open.Text+"'")
		}
	}
}

func closerFor(k token.Kind) token.Kind {
	switch k {
	case token.LParen:
		return token.RParen
	case token.LBracket:
		return token.RBracket
	default:
		return token.RBrace
	}
}

func (lx *Lexer) emptySpan() source.Span {
	return source.At(lx.file.ID, lx.cursor.Off)
}
