package parser

import (
	"strings"
	"testing"

	"algotex/internal/pyast"
)

func TestStatements(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want []string
	}{
		{
			name: "if elif else",
			src:  "if a:\n    pass\nelif b:\n    x = 1\nelse:\n    y = 2\n",
			want: []string{"If(Name[a Load] Pass If(Name[b Load] Assign(Name[x Store] Constant[int 1]) Assign(Name[y Store] Constant[int 2])))"},
		},
		{
			name: "inline suite",
			src:  "while x: x -= 1\n",
			want: []string{"While(Name[x Load] AugAssign[Sub](Name[x Store] Constant[int 1]))"},
		},
		{
			name: "for else",
			src:  "for i, j in pairs:\n    continue\nelse:\n    break\n",
			want: []string{"For(Tuple[Store](Name[i Store] Name[j Store]) Name[pairs Load] Continue Break)"},
		},
		{
			name: "def",
			src:  "@dec\ndef f(a: int, /, b=2, *args, c, d=3, **kw) -> int:\n    return a\n",
			want: []string{"FunctionDef[f [a] [b] args [c d] kw](Name[dec Load] Name[int Load] Constant[int 2] Constant[int 3] Name[int Load] Return(Name[a Load]))"},
		},
		{
			name: "async def",
			src:  "async def g():\n    async for x in xs:\n        await x\n",
			want: []string{"AsyncFunctionDef[g](AsyncFor(Name[x Store] Name[xs Load] Expr(Await(Name[x Load]))))"},
		},
		{
			name: "class",
			src:  "class A(B, metaclass=M):\n    x: int = 0\n",
			want: []string{"ClassDef[A](Name[B Load] Name[M Load] AnnAssign(Name[x Store] Name[int Load] Constant[int 0]))"},
		},
		{
			name: "try",
			src:  "try:\n    pass\nexcept ValueError as e:\n    pass\nelse:\n    pass\nfinally:\n    pass\n",
			want: []string{"Try[e](Pass Name[ValueError Load] Pass Pass Pass)"},
		},
		{
			name: "with",
			src:  "with open(p) as f, g:\n    pass\n",
			want: []string{"With(Call(Name[open Load] Name[p Load]) Name[f Store] Name[g Load] Pass)"},
		},
		{
			name: "parenthesized with",
			src:  "with (a as b, c as d):\n    pass\n",
			want: []string{"With(Name[a Load] Name[b Store] Name[c Load] Name[d Store] Pass)"},
		},
		{
			name: "imports",
			src:  "import os.path as p, sys\nfrom ..mod import (a, b as c)\nfrom . import *\n",
			want: []string{"Import[os.path as p sys]", "ImportFrom[mod a b as c]", "ImportFrom[ *]"},
		},
		{
			name: "simple statements",
			src:  "global a, b\ndel x[0], y\nassert x, 'm'\nraise E from c\nreturn\n",
			want: []string{
				"Global[[a b]]",
				"Delete(Subscript[Del](Name[x Load] Constant[int 0]) Name[y Del])",
				`Assert(Name[x Load] Constant[str "m"])`,
				"Raise(Name[E Load] Name[c Load])",
				"Return",
			},
		},
		{
			name: "semicolons",
			src:  "a = 1; b = 2;\n",
			want: []string{"Assign(Name[a Store] Constant[int 1])", "Assign(Name[b Store] Constant[int 2])"},
		},
		{
			name: "match",
			src: "match cmd:\n" +
				"    case [x, *rest] if x:\n        pass\n" +
				"    case Point(x=0) as p:\n        pass\n" +
				"    case _:\n        pass\n",
			want: []string{"Match(Name[cmd Load] " +
				"List[Load](Name[x Load] Starred[Load](Name[rest Load])) Name[x Load] Pass " +
				"NamedExpr(Name[p Store] Call[x](Name[Point Load] Constant[int 0])) Pass " +
				"Name[_ Load] Pass)"},
		},
		{
			name: "match as a name",
			src:  "match = 1\nmatch(x)\n",
			want: []string{"Assign(Name[match Store] Constant[int 1])", "Expr(Call(Name[match Load] Name[x Load]))"},
		},
		{
			name: "comments and blank lines",
			src:  "# header\n\nx = 1  # trailing\n\n\n    # indented comment\ny = 2\n",
			want: []string{"Assign(Name[x Store] Constant[int 1])", "Assign(Name[y Store] Constant[int 2])"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tree := mustParse(t, tt.src)
			got := moduleSexpr(tree)
			if strings.Join(got, "\n") != strings.Join(tt.want, "\n") {
				t.Errorf("got:\n%s\nwant:\n%s", strings.Join(got, "\n"), strings.Join(tt.want, "\n"))
			}
		})
	}
}

func TestImportLevel(t *testing.T) {
	tree := mustParse(t, "from ...pkg.sub import x\n")
	d, ok := tree.Stmts.Import(tree.Module.Body[0])
	if !ok {
		t.Fatalf("expected ImportFrom")
	}
	if d.Level != 3 || d.Module != "pkg.sub" {
		t.Errorf("level=%d module=%q", d.Level, d.Module)
	}
}

func TestStatementLines(t *testing.T) {
	tree := mustParse(t, "x = 1\n\n@dec\ndef f():\n    y = (1 +\n         2)\n    return y\n")
	var lines []uint32
	tree.InspectModule(func(n pyast.Node) bool {
		if n.IsStmt() {
			lines = append(lines, tree.Line(n))
		}
		return true
	})
	want := []uint32{1, 4, 5, 7}
	if len(lines) != len(want) {
		t.Fatalf("lines = %v, want %v", lines, want)
	}
	for i := range want {
		if lines[i] != want[i] {
			t.Errorf("lines = %v, want %v", lines, want)
			break
		}
	}
}

func TestDocstring(t *testing.T) {
	tree := mustParse(t, "\"\"\"\n    Binary search.\n\n    Returns the index.\n    \"\"\"\nx = 1\n")
	doc, ok := tree.Docstring()
	if !ok {
		t.Fatalf("docstring not found")
	}
	if doc != "Binary search.\n\nReturns the index." {
		t.Errorf("docstring = %q", doc)
	}

	tree = mustParse(t, "x = 1\n")
	if _, ok := tree.Docstring(); ok {
		t.Errorf("unexpected docstring")
	}
}

func TestFunctionArguments(t *testing.T) {
	tree := mustParse(t, "def f(a, b=1, *, c, d=2):\n    pass\n")
	d, ok := tree.Stmts.FunctionDef(tree.Module.Body[0])
	if !ok {
		t.Fatalf("expected FunctionDef")
	}
	if len(d.Args.Args) != 2 || len(d.Args.Defaults) != 1 || d.Args.Vararg != nil {
		t.Errorf("positional args parsed wrong: %+v", d.Args)
	}
	if len(d.Args.KwOnly) != 2 || len(d.Args.KwDefaults) != 2 || d.Args.KwDefaults[0] != pyast.NoExprID {
		t.Errorf("keyword-only args parsed wrong: %+v", d.Args)
	}
}
