package pyast

import (
	"testing"

	"algotex/internal/source"
)

func newTestBuilder(t *testing.T, src string) (*Builder, *source.File) {
	t.Helper()
	fs := source.NewFileSet()
	f := fs.Get(fs.AddVirtual("t.py", []byte(src)))
	return NewBuilder(f, Hints{}), f
}

func span(start, end uint32) source.Span {
	return source.Span{Start: start, End: end}
}

func TestCleanDoc(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"Summary.", "Summary."},
		{"  Summary.\n\n    Body line.\n      indented\n    ", "Summary.\n\nBody line.\n  indented"},
		{"\n    First.\n    Second.\n", "First.\nSecond."},
		{"\tTabbed.\n\tBody.", "Tabbed.\nBody."},
		{"   \n\n", ""},
	}
	for _, tt := range tests {
		if got := CleanDoc(tt.in); got != tt.want {
			t.Errorf("CleanDoc(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestArenaIDsStartAtOne(t *testing.T) {
	a := NewArena[int](0)
	if a.Get(0) != nil || a.Get(1) != nil {
		t.Fatalf("empty arena returned an element")
	}
	id := a.Allocate(42)
	if id != 1 || *a.Get(id) != 42 || a.Len() != 1 {
		t.Errorf("Allocate = %d, Get = %v", id, a.Get(id))
	}
}

func TestSetCtx(t *testing.T) {
	b, _ := newTestBuilder(t, "a, *b = c\n")
	e := b.Exprs
	a := e.NewName(span(0, 1), "a", Load)
	bn := e.NewName(span(4, 5), "b", Load)
	star := e.NewStarred(span(3, 5), bn, Load)
	tup := e.NewSeq(span(0, 5), ExprTuple, []ExprID{a, star}, Load)

	if !e.SetCtx(tup, Store) {
		t.Fatalf("tuple target rejected")
	}
	for _, id := range []ExprID{a, bn} {
		if d, _ := e.Name(id); d.Ctx != Store {
			t.Errorf("%s ctx = %v, want Store", d.ID, d.Ctx)
		}
	}
	if d, _ := e.Starred(star); d.Ctx != Store {
		t.Errorf("starred ctx = %v", d.Ctx)
	}

	call := e.NewCall(span(0, 3), a, nil, nil)
	if e.SetCtx(call, Store) {
		t.Errorf("call accepted as a target")
	}
	bad := e.NewSeq(span(0, 5), ExprList, []ExprID{a, call}, Load)
	if e.SetCtx(bad, Del) {
		t.Errorf("list with a call accepted as a target")
	}
}

func TestLinesFromSpans(t *testing.T) {
	b, f := newTestBuilder(t, "x = 1\ny = 2\n")
	e := b.Exprs
	y := e.NewName(source.Span{File: f.ID, Start: 6, End: 7}, "y", Store)
	if got := e.Get(y).Line; got != 2 {
		t.Errorf("line = %d, want 2", got)
	}
	st := b.Stmts.NewSimple(source.Span{File: f.ID, Start: 0, End: 5}, StmtPass)
	if got := b.Stmts.Get(st).Line; got != 1 {
		t.Errorf("stmt line = %d, want 1", got)
	}
	b.Stmts.SetLine(st, 7)
	if got := b.Stmts.Get(st).Line; got != 7 {
		t.Errorf("SetLine ignored: %d", got)
	}
}

func TestInspectOrder(t *testing.T) {
	// x = f(a) + 1
	b, _ := newTestBuilder(t, "x = f(a) + 1\n")
	e := b.Exprs
	x := e.NewName(span(0, 1), "x", Store)
	fn := e.NewName(span(4, 5), "f", Load)
	arg := e.NewName(span(6, 7), "a", Load)
	call := e.NewCall(span(4, 8), fn, []ExprID{arg}, nil)
	one := e.NewConstant(span(11, 12), ConstantData{Kind: LitInt, Text: "1"})
	sum := e.NewBinOp(span(4, 12), call, Add, one)
	assign := b.Stmts.NewAssign(span(0, 12), []ExprID{x}, sum)
	tree := b.Finish(span(0, 13), []StmtID{assign})

	var labels []string
	tree.InspectModule(func(n Node) bool {
		labels = append(labels, tree.Label(n))
		return true
	})
	want := []string{"Assign", "Name", "BinOp", "Call", "Name", "Name", "Constant"}
	if len(labels) != len(want) {
		t.Fatalf("visited %v, want %v", labels, want)
	}
	for i := range want {
		if labels[i] != want[i] {
			t.Fatalf("visited %v, want %v", labels, want)
		}
	}

	// returning false prunes the subtree
	count := 0
	tree.InspectModule(func(n Node) bool {
		count++
		return tree.Label(n) != "BinOp"
	})
	if count != 3 {
		t.Errorf("pruned walk visited %d nodes, want 3", count)
	}
}

func TestBodyDocstring(t *testing.T) {
	b, _ := newTestBuilder(t, "'''  Doc.  '''\n")
	doc := b.Exprs.NewConstant(span(0, 14), ConstantData{Kind: LitStr, Text: "'''  Doc.  '''", Str: "  Doc.  "})
	st := b.Stmts.NewExprStmt(span(0, 14), doc)
	tree := b.Finish(span(0, 15), []StmtID{st})
	if got, ok := tree.Docstring(); !ok || got != "Doc.  " {
		t.Errorf("Docstring = %q, %v", got, ok)
	}

	num := b.Exprs.NewConstant(span(0, 1), ConstantData{Kind: LitInt, Text: "1"})
	if _, ok := tree.BodyDocstring([]StmtID{b.Stmts.NewExprStmt(span(0, 1), num)}); ok {
		t.Errorf("numeric constant treated as a docstring")
	}
	if _, ok := tree.BodyDocstring(nil); ok {
		t.Errorf("empty body has a docstring")
	}
}
