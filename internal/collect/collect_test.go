package collect_test

import (
	"reflect"
	"testing"

	"algotex/internal/collect"
	"algotex/internal/diag"
	"algotex/internal/naming"
	"algotex/internal/parser"
	"algotex/internal/pyast"
	"algotex/internal/source"
)

func parse(t *testing.T, src string) *pyast.Tree {
	t.Helper()
	fs := source.NewFileSet()
	file := fs.Get(fs.AddVirtual("test.py", []byte(src)))
	bag := diag.NewBag(16)
	res := parser.ParseFile(file, parser.Options{MaxErrors: 16, Reporter: &diag.BagReporter{Bag: bag}})
	if bag.HasErrors() {
		t.Fatalf("parse %q: %d diagnostics", src, bag.Len())
	}
	return res.Tree
}

func TestNames(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want []string
	}{
		{"empty", "", nil},
		{"no calls", "x = 1\n", nil},
		{"def", "def binary_search(a, x):\n    pass\n", []string{"BinarySearch"}},
		{"direct call", "foo(1)\n", []string{"Foo"}},
		{"attribute call keeps member", "a.push_back(1)\n", []string{"push_back"}},
		{"first encounter order", "def g():\n    h()\nf()\ng()\n", []string{"G", "H", "F"}},
		{"nested args", "f(g(h(1)), key=k(2))\n", []string{"F", "G", "H", "K"}},
		{"builtins skipped", "n = len(a) + abs(b) + max(c, d)\ns = set()\n", nil},
		{"math builtins skipped", "y = math.ceil(x) + math.floor(x)\n", nil},
		{"other math attr", "y = math.sqrt(x)\n", []string{"sqrt"}},
		{"nested def", "def outer():\n    def inner_fn():\n        pass\n", []string{"Outer", "InnerFn"}},
		{"lambda body", "f = lambda x: g(x)\n", []string{"G"}},
		{"verbatim", "print(x)\n", []string{"print"}},
		{"call in condition", "if ok(x):\n    pass\nelse:\n    fail()\n", []string{"Ok", "Fail"}},
		{"async def", "async def fetch_all():\n    pass\n", []string{"FetchAll"}},
		{"call result called", "f()()\n", []string{"F"}},
	}
	norm := naming.New("print")
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := collect.Names(parse(t, tt.src), norm).Names()
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Names(%q) = %q, want %q", tt.src, got, tt.want)
			}
		})
	}
}

func TestNamesDeduplicated(t *testing.T) {
	tree := parse(t, "def fib(n):\n    return fib(n - 1) + fib(n - 2)\n")
	set := collect.Names(tree, naming.New())
	if set.Len() != 1 || !set.Has("Fib") {
		t.Fatalf("Names = %q, want [Fib]", set.Names())
	}
}

func TestSetOrder(t *testing.T) {
	s := collect.NewSet()
	for _, n := range []string{"b", "a", "b", "c", "a"} {
		s.Add(n)
	}
	if got := s.Names(); !reflect.DeepEqual(got, []string{"b", "a", "c"}) {
		t.Errorf("Names = %q", got)
	}
	if s.Add("c") {
		t.Errorf("Add of existing name reported new")
	}
	var nilSet *collect.Set
	if nilSet.Len() != 0 || nilSet.Has("a") || nilSet.Names() != nil {
		t.Errorf("nil set is not empty")
	}
}

func TestSymbolic(t *testing.T) {
	for _, name := range []string{"len", "abs", "set", "all", "any", "min", "max", "ceil", "floor"} {
		if !collect.IsSymbolic(name) {
			t.Errorf("IsSymbolic(%q) = false", name)
		}
	}
	if collect.IsSymbolic("sorted") {
		t.Errorf("IsSymbolic(sorted) = true")
	}
	// the preset only lists builtins that reach the normalizer
	for _, name := range naming.PythonBuiltins {
		if collect.IsSymbolic(name) {
			t.Errorf("PythonBuiltins lists symbolic %q", name)
		}
	}
}
