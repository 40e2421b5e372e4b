package parser

import (
	"algotex/internal/diag"
	"algotex/internal/pyast"
	"algotex/internal/token"
)

// binLevel: уровни бинарных операторов от слабого к сильному.
type binLevel uint8

const (
	levelBitOr binLevel = iota
	levelBitXor
	levelBitAnd
	levelShift
	levelArith
	levelTerm
	levelFactor // дальше идёт унарный разбор
)

var binOps = map[token.Kind]struct {
	level binLevel
	op    pyast.BinaryOp
}{
	token.Pipe:       {levelBitOr, pyast.BitOr},
	token.Caret:      {levelBitXor, pyast.BitXor},
	token.Amp:        {levelBitAnd, pyast.BitAnd},
	token.Shl:        {levelShift, pyast.LShift},
	token.Shr:        {levelShift, pyast.RShift},
	token.Plus:       {levelArith, pyast.Add},
	token.Minus:      {levelArith, pyast.Sub},
	token.Star:       {levelTerm, pyast.Mult},
	token.At:         {levelTerm, pyast.MatMult},
	token.Slash:      {levelTerm, pyast.Div},
	token.SlashSlash: {levelTerm, pyast.FloorDiv},
	token.Percent:    {levelTerm, pyast.Mod},
}

var augOps = map[token.Kind]pyast.BinaryOp{
	token.PlusAssign:    pyast.Add,
	token.MinusAssign:   pyast.Sub,
	token.StarAssign:    pyast.Mult,
	token.AtAssign:      pyast.MatMult,
	token.SlashAssign:   pyast.Div,
	token.SlashSlashEq:  pyast.FloorDiv,
	token.PercentAssign: pyast.Mod,
	token.StarStarEq:    pyast.Pow,
	token.ShlAssign:     pyast.LShift,
	token.ShrAssign:     pyast.RShift,
	token.AmpAssign:     pyast.BitAnd,
	token.PipeAssign:    pyast.BitOr,
	token.CaretAssign:   pyast.BitXor,
}

var unaryOps = map[token.Kind]pyast.UnaryOp{
	token.Plus:  pyast.UAdd,
	token.Minus: pyast.USub,
	token.Tilde: pyast.Invert,
}

// compareOp распознаёт оператор сравнения в текущей позиции; двухсловные
// `not in` и `is not` съедаются целиком.
func (p *Parser) compareOp() (pyast.CmpOp, bool) {
	switch p.peek().Kind {
	case token.EqEq:
		p.advance()
		return pyast.Eq, true
	case token.BangEq:
		p.advance()
		return pyast.NotEq, true
	case token.Lt:
		p.advance()
		return pyast.Lt, true
	case token.LtEq:
		p.advance()
		return pyast.LtE, true
	case token.Gt:
		p.advance()
		return pyast.Gt, true
	case token.GtEq:
		p.advance()
		return pyast.GtE, true
	case token.KwIn:
		p.advance()
		return pyast.In, true
	case token.KwIs:
		p.advance()
		if p.eat(token.KwNot) {
			return pyast.IsNot, true
		}
		return pyast.Is, true
	case token.KwNot:
		if p.peekN(1).Kind == token.KwIn {
			p.advance()
			p.advance()
			return pyast.NotIn, true
		}
	}
	return 0, false
}

var closers = map[token.Kind]struct {
	kind token.Kind
	code diag.Code
	msg  string
}{
	token.LParen:   {token.RParen, diag.SynUnclosedParen, "expected ')'"},
	token.LBracket: {token.RBracket, diag.SynUnclosedBracket, "expected ']'"},
	token.LBrace:   {token.RBrace, diag.SynUnclosedBrace, "expected '}'"},
}

// closeBracket съедает закрывающую скобку для open; при ошибке добавляет
// заметку на открывающую.
func (p *Parser) closeBracket(open token.Token) bool {
	c := closers[open.Kind]
	if p.at(c.kind) {
		p.advance()
		return true
	}
	if p.at(token.Invalid) {
		p.opts.CurrentErrors++
		return false
	}
	p.opts.CurrentErrors++
	if p.opts.Reporter != nil && !p.opts.overLimit() {
		diag.Emit(p.opts.Reporter, diag.NewError(c.code, p.getDiagnosticSpan(), c.msg).
			WithNote(open.Span, "opened here"))
	}
	return false
}
