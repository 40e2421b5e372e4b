package render

import (
	"bytes"
	"errors"
	"io"

	"algotex/internal/collect"
	"algotex/internal/naming"
	"algotex/internal/pyast"
	"algotex/internal/trace"
)

const (
	DefaultIndent   = "   "
	DefaultMaxDepth = 512
)

// Keyword macros declared in every output.
var keywordDecls = []string{
	`\SetKw{KwYield}{yield}`,
	`\SetKw{KwYieldFrom}{yield from}`,
	`\SetKw{KwBreak}{break}`,
	`\SetKw{KwContinue}{continue}`,
	`\SetKw{KwPass}{pass}`,
}

type Options struct {
	Indent     string             // indentation unit, DefaultIndent when empty
	MaxDepth   int                // recursion guard, DefaultMaxDepth when <= 0
	RawStrings bool               // emit string literals without LaTeX escaping
	Normalizer *naming.Normalizer // shared with collect.Names; nil = no verbatim names
	Names      *collect.Set       // precollected names; nil = collect from the tree
	Tracer     trace.Tracer       // node points at debug level
	ParentSpan uint64
}

func (o Options) withDefaults() Options {
	if o.Indent == "" {
		o.Indent = DefaultIndent
	}
	if o.MaxDepth <= 0 {
		o.MaxDepth = DefaultMaxDepth
	}
	if o.Normalizer == nil {
		o.Normalizer = naming.New()
	}
	if o.Tracer == nil {
		o.Tracer = trace.Nop
	}
	return o
}

// Renderer renders one tree once. It is not safe for concurrent use.
type Renderer struct {
	tree  *pyast.Tree
	out   io.Writer
	opts  Options
	w     *writer
	names *collect.Set

	indent      int
	lastLine    int64 // -1 until the first statement
	suppressSep bool
	depth       int
	plain       int // >0 while rendering parts of an unpacking target
	used        bool
	traceNodes  bool
}

var errReused = errors.New("render: renderer already used")

func New(tree *pyast.Tree, out io.Writer, opts Options) *Renderer {
	opts = opts.withDefaults()
	return &Renderer{
		tree:       tree,
		out:        out,
		opts:       opts,
		w:          newWriter(1 << 10),
		lastLine:   -1,
		traceNodes: opts.Tracer.Level().ShouldEmit(trace.ScopeNode),
	}
}

// Render is New(...).RenderModule().
func Render(tree *pyast.Tree, out io.Writer, opts Options) error {
	return New(tree, out, opts).RenderModule()
}

// String renders tree and returns the markup.
func String(tree *pyast.Tree, opts Options) (string, error) {
	var buf bytes.Buffer
	if err := Render(tree, &buf, opts); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// Names returns the declared macro names; nil before RenderModule.
func (r *Renderer) Names() *collect.Set {
	return r.names
}

// RenderModule writes the markup of the whole module to the sink. Nothing
// is written when rendering fails.
func (r *Renderer) RenderModule() error {
	if r.used {
		return errReused
	}
	r.used = true
	if r.tree == nil {
		return errors.New("render: nil tree")
	}

	r.names = r.opts.Names
	if r.names == nil {
		r.names = collect.Names(r.tree, r.opts.Normalizer)
	}
	r.declare()

	body := r.tree.Module.Body
	if doc, ok := r.tree.Docstring(); ok {
		r.w.tokenEnd(`\KwResult{`+r.text(doc)+`}`, neutral, "\n")
		body = body[1:]
	}
	if err := r.stmts(body); err != nil {
		return err
	}
	r.w.closeMath()

	_, err := r.out.Write(r.w.Bytes())
	return err
}

func (r *Renderer) declare() {
	if r.names.Len() > 0 {
		r.w.tokenEnd(`\SetKwProg{Fn}{Function}{:}{end}`, neutral, "\n")
	}
	for _, n := range r.names.Names() {
		r.w.tokenEnd(`\SetKwFunction{`+n+`}{`+n+`}`, neutral, "\n")
	}
	for _, kw := range keywordDecls {
		r.w.tokenEnd(kw, neutral, "\n")
	}
}

// boundary runs before every statement; a statement on a later line than the
// previous one starts a new pseudocode line unless a block just opened or closed.
func (r *Renderer) boundary(line uint32) {
	if int64(line) <= r.lastLine {
		return
	}
	if r.lastLine != -1 && !r.suppressSep {
		r.w.separator(r.opts.Indent, r.indent)
	}
	r.lastLine = int64(line)
	r.suppressSep = false
}

func (r *Renderer) enter(n pyast.Node) error {
	r.depth++
	if r.depth > r.opts.MaxDepth {
		return r.fail(ErrTooDeep, n, "")
	}
	if r.traceNodes {
		trace.Point(r.opts.Tracer, trace.ScopeNode, r.tree.Label(n), r.opts.ParentSpan)
	}
	return nil
}

func (r *Renderer) leave() {
	r.depth--
}

func (r *Renderer) fail(kind error, n pyast.Node, detail string) error {
	return &Error{
		Kind:   kind,
		Node:   r.tree.Label(n),
		Line:   r.tree.Line(n),
		Span:   r.tree.Span(n),
		Detail: detail,
	}
}
