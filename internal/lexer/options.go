package lexer

import (
	"algotex/internal/diag"
	"algotex/internal/source"
)

// maxTokenLength ограничивает длину одного токена; всё длиннее считается мусором.
const maxTokenLength = 1 << 16

type Options struct {
	Reporter diag.Reporter // может быть nil: тогда ошибки игнорируем (но продолжаем лексить)
}

func (lx *Lexer) errLex(code diag.Code, sp source.Span, msg string) {
	diag.Emit(lx.opts.Reporter, diag.NewError(code, sp, msg))
}

func (lx *Lexer) warnLex(code diag.Code, sp source.Span, msg string) {
	diag.Emit(lx.opts.Reporter, diag.NewWarning(code, sp, msg))
}
