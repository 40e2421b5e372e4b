package parser

import (
	"slices"

	"algotex/internal/diag"
	"algotex/internal/lexer"
	"algotex/internal/pyast"
	"algotex/internal/source"
	"algotex/internal/token"
)

const defaultMaxDepth = 200

type Options struct {
	MaxErrors     uint
	MaxDepth      int // вложенность выражений и блоков; 0 = defaultMaxDepth
	CurrentErrors uint
	Reporter      diag.Reporter
}

// Enough - проверить, достигли ли мы максимального количества ошибок
func (o *Options) Enough() bool {
	if o.MaxErrors == 0 {
		return false
	}
	return o.CurrentErrors >= o.MaxErrors
}

func (o *Options) overLimit() bool {
	return o.MaxErrors > 0 && o.CurrentErrors > o.MaxErrors
}

type Result struct {
	Tree   *pyast.Tree
	Tokens int
	Errors uint
}

// Parser: состояние парсера на один файл (или на одно поле f-строки)
type Parser struct {
	file     *source.File
	toks     []token.Token
	pos      int
	b        *pyast.Builder
	opts     *Options
	lastSpan source.Span // span последнего съеденного токена для лучшей диагностики
	depth    int
}

// ParseFile lexes and parses one Python file. Lexer and parser diagnostics go
// to opts.Reporter; the returned tree is always usable, statements that failed
// to parse are dropped.
func ParseFile(file *source.File, opts Options) Result {
	if opts.MaxDepth == 0 {
		opts.MaxDepth = defaultMaxDepth
	}
	toks := lexer.Tokenize(file, lexer.Options{Reporter: opts.Reporter})
	p := &Parser{
		file:     file,
		toks:     toks,
		b:        pyast.NewBuilder(file, pyast.Hints{Stmts: uint(len(toks)/8 + 1), Exprs: uint(len(toks)/2 + 1)}),
		opts:     &opts,
		lastSpan: source.At(file.ID, 0),
	}
	body := p.parseFileInput()
	sp := source.Span{File: file.ID, Start: 0, End: p.peek().Span.End}
	return Result{
		Tree:   p.b.Finish(sp, body),
		Tokens: len(toks),
		Errors: opts.CurrentErrors,
	}
}

// sub создаёт парсер поля f-строки поверх того же builder'а
func (p *Parser) sub(start, end uint32) *Parser {
	lx := lexer.NewRange(p.file, start, end, lexer.Options{Reporter: p.opts.Reporter})
	return &Parser{
		file:     p.file,
		toks:     lx.All(),
		b:        p.b,
		opts:     p.opts,
		lastSpan: source.At(p.file.ID, start),
		depth:    p.depth,
	}
}

func (p *Parser) peek() token.Token {
	return p.peekN(0)
}

func (p *Parser) peekN(n int) token.Token {
	if p.pos+n < len(p.toks) {
		return p.toks[p.pos+n]
	}
	return p.toks[len(p.toks)-1] // EOF
}

func (p *Parser) at(k token.Kind) bool {
	return p.peek().Kind == k
}

func (p *Parser) atOr(kinds ...token.Kind) bool {
	return slices.Contains(kinds, p.peek().Kind)
}

// atSoft проверяет soft keyword (match, case, ...).
func (p *Parser) atSoft(word string) bool {
	tok := p.peek()
	return tok.Kind == token.Ident && tok.Text == word
}

// parseFileInput: основной цикл верхнего уровня: пока не EOF: parseStatement.
func (p *Parser) parseFileInput() []pyast.StmtID {
	var body []pyast.StmtID
	for !p.at(token.EOF) {
		switch {
		case p.at(token.Newline):
			p.advance()
		case p.at(token.Indent):
			p.err(diag.SynUnexpectedToken, "unexpected indent")
			p.advance()
		case p.at(token.Dedent):
			p.advance()
		default:
			body = append(body, p.parseStatement()...)
		}
		if p.opts.Enough() {
			break
		}
	}
	return body
}

// enter/leave ограничивают глубину рекурсии
func (p *Parser) enter() bool {
	p.depth++
	if p.depth > p.opts.MaxDepth {
		p.err(diag.SynTooDeep, "expression or block nested too deeply")
		return false
	}
	return true
}

func (p *Parser) leave() {
	p.depth--
}
