package pyast

import (
	"fmt"
	"strconv"

	"algotex/internal/source"
)

// Node references either a statement or an expression of a Tree.
type Node struct {
	Stmt StmtID
	Expr ExprID
}

func StmtNode(id StmtID) Node { return Node{Stmt: id} }
func ExprNode(id ExprID) Node { return Node{Expr: id} }

func (n Node) IsStmt() bool  { return n.Stmt.IsValid() }
func (n Node) IsValid() bool { return n.Stmt.IsValid() || n.Expr.IsValid() }

// Attr is a scalar field of a node (names, operators, literal values).
type Attr struct {
	Name  string
	Value string
}

// Slot is a named child position of a node, in source order.
type Slot struct {
	Role  string
	Nodes []Node
}

// Label returns the node kind name.
func (t *Tree) Label(n Node) string {
	if n.IsStmt() {
		if st := t.Stmts.Get(n.Stmt); st != nil {
			return st.Kind.String()
		}
	} else if ex := t.Exprs.Get(n.Expr); ex != nil {
		return ex.Kind.String()
	}
	return "?"
}

// Line returns the 1-based source line of the node (0 when unknown).
func (t *Tree) Line(n Node) uint32 {
	if n.IsStmt() {
		if st := t.Stmts.Get(n.Stmt); st != nil {
			return st.Line
		}
	} else if ex := t.Exprs.Get(n.Expr); ex != nil {
		return ex.Line
	}
	return 0
}

// Span returns the source span of the node.
func (t *Tree) Span(n Node) source.Span {
	if n.IsStmt() {
		if st := t.Stmts.Get(n.Stmt); st != nil {
			return st.Span
		}
	} else if ex := t.Exprs.Get(n.Expr); ex != nil {
		return ex.Span
	}
	return source.Span{}
}

// Inspect walks the subtree rooted at n in depth-first source order. fn is
// called for every node; returning false skips that node's children.
func (t *Tree) Inspect(n Node, fn func(Node) bool) {
	if !n.IsValid() || !fn(n) {
		return
	}
	for _, slot := range t.Slots(n) {
		for _, child := range slot.Nodes {
			t.Inspect(child, fn)
		}
	}
}

// InspectModule walks every top-level statement.
func (t *Tree) InspectModule(fn func(Node) bool) {
	for _, id := range t.Module.Body {
		t.Inspect(StmtNode(id), fn)
	}
}

func stmtNodes(ids []StmtID) []Node {
	out := make([]Node, 0, len(ids))
	for _, id := range ids {
		out = append(out, StmtNode(id))
	}
	return out
}

func exprNodes(ids ...ExprID) []Node {
	out := make([]Node, 0, len(ids))
	for _, id := range ids {
		if id.IsValid() {
			out = append(out, ExprNode(id))
		}
	}
	return out
}

func slot(role string, nodes []Node) []Slot {
	if len(nodes) == 0 {
		return nil
	}
	return []Slot{{Role: role, Nodes: nodes}}
}

func argsSlots(a *Arguments) []Slot {
	var out []Slot
	var ann []ExprID
	for _, p := range a.Named() {
		ann = append(ann, p.Annotation)
	}
	if a.Vararg != nil {
		ann = append(ann, a.Vararg.Annotation)
	}
	if a.Kwarg != nil {
		ann = append(ann, a.Kwarg.Annotation)
	}
	out = append(out, slot("annotations", exprNodes(ann...))...)
	out = append(out, slot("defaults", exprNodes(a.Defaults...))...)
	out = append(out, slot("kw_defaults", exprNodes(a.KwDefaults...))...)
	return out
}

func keywordNodes(kws []Keyword) []Node {
	ids := make([]ExprID, 0, len(kws))
	for _, kw := range kws {
		ids = append(ids, kw.Value)
	}
	return exprNodes(ids...)
}

// Slots enumerates the child positions of a node. Every child of every node
// kind is reachable through Slots, which makes it the single source of truth
// for traversals and dumps.
func (t *Tree) Slots(n Node) []Slot {
	if n.IsStmt() {
		return t.stmtSlots(n.Stmt)
	}
	return t.exprSlots(n.Expr)
}

func (t *Tree) stmtSlots(id StmtID) []Slot {
	st := t.Stmts.Get(id)
	if st == nil {
		return nil
	}
	var out []Slot
	switch st.Kind {
	case StmtFunctionDef, StmtAsyncFunctionDef:
		d, _ := t.Stmts.FunctionDef(id)
		out = append(out, slot("decorators", exprNodes(d.Decorators...))...)
		out = append(out, argsSlots(&d.Args)...)
		out = append(out, slot("returns", exprNodes(d.Returns))...)
		out = append(out, slot("body", stmtNodes(d.Body))...)
	case StmtClassDef:
		d, _ := t.Stmts.ClassDef(id)
		out = append(out, slot("decorators", exprNodes(d.Decorators...))...)
		out = append(out, slot("bases", exprNodes(d.Bases...))...)
		out = append(out, slot("keywords", keywordNodes(d.Keywords))...)
		out = append(out, slot("body", stmtNodes(d.Body))...)
	case StmtReturn, StmtExpr:
		d, _ := t.Stmts.Value(id)
		out = slot("value", exprNodes(d.Value))
	case StmtDelete:
		d, _ := t.Stmts.Delete(id)
		out = slot("targets", exprNodes(d.Targets...))
	case StmtAssign:
		d, _ := t.Stmts.Assign(id)
		out = append(slot("targets", exprNodes(d.Targets...)), slot("value", exprNodes(d.Value))...)
	case StmtAugAssign:
		d, _ := t.Stmts.AugAssign(id)
		out = append(slot("target", exprNodes(d.Target)), slot("value", exprNodes(d.Value))...)
	case StmtAnnAssign:
		d, _ := t.Stmts.AnnAssign(id)
		out = append(out, slot("target", exprNodes(d.Target))...)
		out = append(out, slot("annotation", exprNodes(d.Annotation))...)
		out = append(out, slot("value", exprNodes(d.Value))...)
	case StmtFor, StmtAsyncFor:
		d, _ := t.Stmts.For(id)
		out = append(out, slot("target", exprNodes(d.Target))...)
		out = append(out, slot("iter", exprNodes(d.Iter))...)
		out = append(out, slot("body", stmtNodes(d.Body))...)
		out = append(out, slot("orelse", stmtNodes(d.Orelse))...)
	case StmtWhile, StmtIf:
		d, _ := t.Stmts.Cond(id)
		out = append(out, slot("test", exprNodes(d.Test))...)
		out = append(out, slot("body", stmtNodes(d.Body))...)
		out = append(out, slot("orelse", stmtNodes(d.Orelse))...)
	case StmtWith, StmtAsyncWith:
		d, _ := t.Stmts.With(id)
		var items []ExprID
		for _, it := range d.Items {
			items = append(items, it.Context, it.Vars)
		}
		out = append(out, slot("items", exprNodes(items...))...)
		out = append(out, slot("body", stmtNodes(d.Body))...)
	case StmtMatch:
		d, _ := t.Stmts.Match(id)
		out = append(out, slot("subject", exprNodes(d.Subject))...)
		for i, c := range d.Cases {
			role := fmt.Sprintf("cases[%d]", i)
			nodes := exprNodes(c.Pattern, c.Guard)
			nodes = append(nodes, stmtNodes(c.Body)...)
			out = append(out, slot(role, nodes)...)
		}
	case StmtRaise:
		d, _ := t.Stmts.Raise(id)
		out = append(slot("exc", exprNodes(d.Exc)), slot("cause", exprNodes(d.Cause))...)
	case StmtTry:
		d, _ := t.Stmts.Try(id)
		out = append(out, slot("body", stmtNodes(d.Body))...)
		for i, h := range d.Handlers {
			nodes := append(exprNodes(h.Type), stmtNodes(h.Body)...)
			out = append(out, slot(fmt.Sprintf("handlers[%d]", i), nodes)...)
		}
		out = append(out, slot("orelse", stmtNodes(d.Orelse))...)
		out = append(out, slot("finalbody", stmtNodes(d.Finalbody))...)
	case StmtAssert:
		d, _ := t.Stmts.Assert(id)
		out = append(slot("test", exprNodes(d.Test)), slot("msg", exprNodes(d.Msg))...)
	case StmtImport, StmtImportFrom, StmtGlobal, StmtNonlocal, StmtPass, StmtBreak, StmtContinue:
		// листья
	}
	return out
}

func (t *Tree) exprSlots(id ExprID) []Slot {
	ex := t.Exprs.Get(id)
	if ex == nil {
		return nil
	}
	var out []Slot
	switch ex.Kind {
	case ExprBoolOp:
		d, _ := t.Exprs.BoolOp(id)
		out = slot("values", exprNodes(d.Values...))
	case ExprNamedExpr:
		d, _ := t.Exprs.NamedExpr(id)
		out = append(slot("target", exprNodes(d.Target)), slot("value", exprNodes(d.Value))...)
	case ExprBinOp:
		d, _ := t.Exprs.BinOp(id)
		out = append(slot("left", exprNodes(d.Left)), slot("right", exprNodes(d.Right))...)
	case ExprUnaryOp:
		d, _ := t.Exprs.UnaryOp(id)
		out = slot("operand", exprNodes(d.Operand))
	case ExprLambda:
		d, _ := t.Exprs.Lambda(id)
		out = append(argsSlots(&d.Args), slot("body", exprNodes(d.Body))...)
	case ExprIfExp:
		d, _ := t.Exprs.IfExp(id)
		out = append(out, slot("test", exprNodes(d.Test))...)
		out = append(out, slot("body", exprNodes(d.Body))...)
		out = append(out, slot("orelse", exprNodes(d.Orelse))...)
	case ExprDict:
		d, _ := t.Exprs.Dict(id)
		var kv []ExprID
		for i := range d.Values {
			kv = append(kv, d.Keys[i], d.Values[i])
		}
		out = slot("items", exprNodes(kv...))
	case ExprListComp, ExprSetComp, ExprDictComp, ExprGeneratorExp:
		d, _ := t.Exprs.Comp(id)
		out = append(out, slot("key", exprNodes(d.Key))...)
		out = append(out, slot("elt", exprNodes(d.Elt))...)
		for i, g := range d.Generators {
			nodes := exprNodes(append([]ExprID{g.Target, g.Iter}, g.Ifs...)...)
			out = append(out, slot(fmt.Sprintf("generators[%d]", i), nodes)...)
		}
	case ExprAwait, ExprYield, ExprYieldFrom:
		d, _ := t.Exprs.Value(id)
		out = slot("value", exprNodes(d.Value))
	case ExprCompare:
		d, _ := t.Exprs.Compare(id)
		out = append(slot("left", exprNodes(d.Left)), slot("comparators", exprNodes(d.Comparators...))...)
	case ExprCall:
		d, _ := t.Exprs.Call(id)
		out = append(out, slot("func", exprNodes(d.Func))...)
		out = append(out, slot("args", exprNodes(d.Args...))...)
		out = append(out, slot("keywords", keywordNodes(d.Keywords))...)
	case ExprFormattedValue:
		d, _ := t.Exprs.FormattedValue(id)
		out = append(slot("value", exprNodes(d.Value)), slot("format_spec", exprNodes(d.FormatSpec))...)
	case ExprJoinedStr:
		d, _ := t.Exprs.JoinedStr(id)
		out = slot("values", exprNodes(d.Values...))
	case ExprAttribute:
		d, _ := t.Exprs.Attribute(id)
		out = slot("value", exprNodes(d.Value))
	case ExprSubscript:
		d, _ := t.Exprs.Subscript(id)
		out = append(slot("value", exprNodes(d.Value)), slot("slice", exprNodes(d.Slice))...)
	case ExprStarred:
		d, _ := t.Exprs.Starred(id)
		out = slot("value", exprNodes(d.Value))
	case ExprList, ExprTuple, ExprSet:
		d, _ := t.Exprs.Seq(id)
		out = slot("elts", exprNodes(d.Elts...))
	case ExprSlice:
		d, _ := t.Exprs.Slice(id)
		out = append(out, slot("lower", exprNodes(d.Lower))...)
		out = append(out, slot("upper", exprNodes(d.Upper))...)
		out = append(out, slot("step", exprNodes(d.Step))...)
	case ExprConstant, ExprName:
		// листья
	}
	return out
}

// Attrs returns the scalar fields of a node for dumps.
func (t *Tree) Attrs(n Node) []Attr {
	if n.IsStmt() {
		return t.stmtAttrs(n.Stmt)
	}
	return t.exprAttrs(n.Expr)
}

func paramAttr(name string, params []Arg) []Attr {
	if len(params) == 0 {
		return nil
	}
	names := make([]string, 0, len(params))
	for _, p := range params {
		names = append(names, p.Name)
	}
	return []Attr{{Name: name, Value: fmt.Sprint(names)}}
}

func argsAttrs(a *Arguments) []Attr {
	var out []Attr
	out = append(out, paramAttr("posonlyargs", a.PosOnly)...)
	out = append(out, paramAttr("args", a.Args)...)
	if a.Vararg != nil {
		out = append(out, Attr{Name: "vararg", Value: a.Vararg.Name})
	}
	out = append(out, paramAttr("kwonlyargs", a.KwOnly)...)
	if a.Kwarg != nil {
		out = append(out, Attr{Name: "kwarg", Value: a.Kwarg.Name})
	}
	return out
}

func (t *Tree) stmtAttrs(id StmtID) []Attr {
	st := t.Stmts.Get(id)
	if st == nil {
		return nil
	}
	switch st.Kind {
	case StmtFunctionDef, StmtAsyncFunctionDef:
		d, _ := t.Stmts.FunctionDef(id)
		return append([]Attr{{Name: "name", Value: d.Name}}, argsAttrs(&d.Args)...)
	case StmtClassDef:
		d, _ := t.Stmts.ClassDef(id)
		return []Attr{{Name: "name", Value: d.Name}}
	case StmtAugAssign:
		d, _ := t.Stmts.AugAssign(id)
		return []Attr{{Name: "op", Value: d.Op.String()}}
	case StmtImport, StmtImportFrom:
		d, _ := t.Stmts.Import(id)
		out := make([]Attr, 0, len(d.Names)+1)
		if st.Kind == StmtImportFrom {
			out = append(out, Attr{Name: "module", Value: d.Module})
		}
		for _, a := range d.Names {
			v := a.Name
			if a.AsName != "" {
				v += " as " + a.AsName
			}
			out = append(out, Attr{Name: "name", Value: v})
		}
		return out
	case StmtGlobal, StmtNonlocal:
		d, _ := t.Stmts.NameList(id)
		return []Attr{{Name: "names", Value: fmt.Sprint(d.Names)}}
	case StmtTry:
		d, _ := t.Stmts.Try(id)
		var out []Attr
		for i, h := range d.Handlers {
			if h.Name != "" {
				out = append(out, Attr{Name: fmt.Sprintf("handlers[%d].name", i), Value: h.Name})
			}
		}
		return out
	}
	return nil
}

func (t *Tree) exprAttrs(id ExprID) []Attr {
	ex := t.Exprs.Get(id)
	if ex == nil {
		return nil
	}
	switch ex.Kind {
	case ExprBoolOp:
		d, _ := t.Exprs.BoolOp(id)
		return []Attr{{Name: "op", Value: d.Op.String()}}
	case ExprBinOp:
		d, _ := t.Exprs.BinOp(id)
		return []Attr{{Name: "op", Value: d.Op.String()}}
	case ExprUnaryOp:
		d, _ := t.Exprs.UnaryOp(id)
		return []Attr{{Name: "op", Value: d.Op.String()}}
	case ExprLambda:
		d, _ := t.Exprs.Lambda(id)
		return argsAttrs(&d.Args)
	case ExprCompare:
		d, _ := t.Exprs.Compare(id)
		return []Attr{{Name: "ops", Value: fmt.Sprint(d.Ops)}}
	case ExprCall:
		d, _ := t.Exprs.Call(id)
		out := make([]Attr, 0, len(d.Keywords))
		for _, kw := range d.Keywords {
			name := kw.Arg
			if name == "" {
				name = "**"
			}
			out = append(out, Attr{Name: "keyword", Value: name})
		}
		return out
	case ExprFormattedValue:
		d, _ := t.Exprs.FormattedValue(id)
		if d.Conversion == NoConversion {
			return nil
		}
		return []Attr{{Name: "conversion", Value: "!" + string(rune(d.Conversion))}}
	case ExprConstant:
		d, _ := t.Exprs.Constant(id)
		value := d.Text
		if d.Kind == LitStr || d.Kind == LitBytes {
			value = strconv.Quote(d.Str)
		}
		return []Attr{{Name: "kind", Value: d.Kind.String()}, {Name: "value", Value: value}}
	case ExprAttribute:
		d, _ := t.Exprs.Attribute(id)
		return []Attr{{Name: "attr", Value: d.Attr}, {Name: "ctx", Value: d.Ctx.String()}}
	case ExprSubscript:
		d, _ := t.Exprs.Subscript(id)
		return []Attr{{Name: "ctx", Value: d.Ctx.String()}}
	case ExprStarred:
		d, _ := t.Exprs.Starred(id)
		return []Attr{{Name: "ctx", Value: d.Ctx.String()}}
	case ExprName:
		d, _ := t.Exprs.Name(id)
		return []Attr{{Name: "id", Value: d.ID}, {Name: "ctx", Value: d.Ctx.String()}}
	case ExprList, ExprTuple:
		d, _ := t.Exprs.Seq(id)
		return []Attr{{Name: "ctx", Value: d.Ctx.String()}}
	}
	return nil
}
