package pyast

import (
	"algotex/internal/source"
)

type Hints struct{ Stmts, Exprs uint }

// Builder owns the arenas of one parsed file.
type Builder struct {
	Stmts *Stmts
	Exprs *Exprs
	file  *source.File
}

// NewBuilder creates arenas; when file is non-nil every new node records the
// 1-based line of its first byte.
func NewBuilder(file *source.File, hints Hints) *Builder {
	if hints.Stmts == 0 {
		hints.Stmts = 1 << 7
	}
	if hints.Exprs == 0 {
		hints.Exprs = 1 << 8
	}
	b := &Builder{
		Stmts: NewStmts(hints.Stmts),
		Exprs: NewExprs(hints.Exprs),
		file:  file,
	}
	if file != nil {
		lines := func(off uint32) uint32 { return file.Position(off).Line }
		b.Stmts.lines = lines
		b.Exprs.lines = lines
	}
	return b
}

// Finish wraps the top-level statements into a Tree.
func (b *Builder) Finish(span source.Span, body []StmtID) *Tree {
	t := &Tree{
		Module: Module{Span: span, Body: body},
		Stmts:  b.Stmts,
		Exprs:  b.Exprs,
	}
	if b.file != nil {
		t.Module.File = b.file.ID
	}
	return t
}

type Module struct {
	File source.FileID
	Span source.Span
	Body []StmtID
}

// Tree bundles a parsed module with the arenas holding its nodes.
// A Tree is read-only once the parser returns it.
type Tree struct {
	Module Module
	Stmts  *Stmts
	Exprs  *Exprs
}

// Docstring returns the cleaned module docstring, like ast.get_docstring.
// An empty docstring reports false.
func (t *Tree) Docstring() (string, bool) {
	return t.BodyDocstring(t.Module.Body)
}

// BodyDocstring returns the cleaned docstring of a statement list (module or def body).
func (t *Tree) BodyDocstring(body []StmtID) (string, bool) {
	if len(body) == 0 {
		return "", false
	}
	v, ok := t.Stmts.Value(body[0])
	if !ok || t.Stmts.Get(body[0]).Kind != StmtExpr {
		return "", false
	}
	c, ok := t.Exprs.Constant(v.Value)
	if !ok || c.Kind != LitStr {
		return "", false
	}
	doc := CleanDoc(c.Str)
	return doc, doc != ""
}
