package render_test

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"algotex/internal/collect"
	"algotex/internal/diag"
	"algotex/internal/naming"
	"algotex/internal/parser"
	"algotex/internal/pyast"
	"algotex/internal/render"
	"algotex/internal/source"
	"algotex/internal/trace"
)

const keywordHeader = `\SetKw{KwYield}{yield}` + "\n" +
	`\SetKw{KwYieldFrom}{yield from}` + "\n" +
	`\SetKw{KwBreak}{break}` + "\n" +
	`\SetKw{KwContinue}{continue}` + "\n" +
	`\SetKw{KwPass}{pass}` + "\n"

func header(names ...string) string {
	var b strings.Builder
	if len(names) > 0 {
		b.WriteString(`\SetKwProg{Fn}{Function}{:}{end}` + "\n")
	}
	for _, n := range names {
		b.WriteString(`\SetKwFunction{` + n + `}{` + n + `}` + "\n")
	}
	b.WriteString(keywordHeader)
	return b.String()
}

func parse(t *testing.T, src string) *pyast.Tree {
	t.Helper()
	fs := source.NewFileSet()
	file := fs.Get(fs.AddVirtual("test.py", []byte(src)))
	bag := diag.NewBag(16)
	res := parser.ParseFile(file, parser.Options{MaxErrors: 16, Reporter: &diag.BagReporter{Bag: bag}})
	if bag.HasErrors() {
		t.Fatalf("parse %q: %d diagnostics, first: %s", src, bag.Len(), bag.Items()[0].Message)
	}
	return res.Tree
}

func renderString(t *testing.T, src string, opts render.Options) string {
	t.Helper()
	out, err := render.String(parse(t, src), opts)
	if err != nil {
		t.Fatalf("render %q: %v", src, err)
	}
	return out
}

func TestRenderBody(t *testing.T) {
	tests := []struct {
		name  string
		src   string
		names []string
		want  string
	}{
		{"assign", "x = 1\n", nil, `$x \gets 1 $ `},
		{"two lines", "x = 1\ny = 2\n", nil, `$x \gets 1 $  \; ` + "\n" + `$y \gets 2 $ `},
		{"same line", "x = 1; y = 2\n", nil, `$x \gets 1 y \gets 2 $ `},
		{"division", "x = 1/2\n", nil, `$x \gets \frac{ 1 }{ 2 } $ `},
		{"floor division", "q = a // b\n", nil, `$q \gets \lfloor \frac{ a }{ b } \rfloor $ `},
		{"nested division", "y = 1 / (2 / 3)\n", nil, `$y \gets \frac{ 1 }{ \frac{ 2 }{ 3 } } $ `},
		{"denominator sum", "y = 2 / (5 + x)\n", nil, `$y \gets \frac{ 2 }{ 5 + x } $ `},
		{"float unrounded", "y = 0.1 + 2.675\n", nil, `$y \gets 0.1 + 2.675 $ `},
		{"digit separators", "n = 1_000\n", nil, `$n \gets 1000 $ `},
		{"hex literal", "x = 0xFF\n", nil, `$x \gets 255 $ `},
		{"octal binary literals", "x = 0o17 + 0b101\n", nil, `$x \gets 15 + 5 $ `},
		{"big hex literal", "x = 0x1_0000_0000_0000_0000\n", nil, `$x \gets 18446744073709551616 $ `},
		{"exponent literal", "x = 1e3\n", nil, `$x \gets 1000.0 $ `},
		{"small exponent", "x = 1.5e-5\n", nil, `$x \gets 1.5e-05 $ `},
		{"large exponent", "x = 1e20\n", nil, `$x \gets 1e+20 $ `},
		{"trailing dot float", "x = 2.\n", nil, `$x \gets 2.0 $ `},
		{"lambda", "f = lambda x: x ** 2\n", nil, `$f \gets \lambda x : x ^{ 2 } $ `},
		{"bool ops", "ok = True and not False\n", nil, `$ok \gets \top \land \neg \bot $ `},
		{"none", "x = None\n", nil, `$x \gets \blacktriangle $ `},
		{"string", "s = \"a_b\"\n", nil, `$s \gets $` + "``a\\_b'' "},
		{"compare chain", "ok = 0 <= i < n\n", nil, `$ok \gets 0 \leq i < n $ `},
		{"membership", "ok = x not in s or y is not z\n", nil, `$ok \gets x \not\in s \lor y \not\equiv z $ `},
		{"bitwise", "m = a & b | c ^ ~d\n", nil, `$m \gets a \mathbin{\&} b \mathbin{|} c \mathbin{\oplus} \mathord{\sim} d $ `},
		{"shift mod", "r = a << 1 >> b % c\n", nil, `$r \gets a \ll 1 \gg b \mod c $ `},
		{"matmul", "c = a @ b * k\n", nil, `$c \gets a \times b \cdot k $ `},
		{"len", "n = len(a)\n", nil, `$n \gets \lvert a \rvert $ `},
		{"abs", "n = abs(a - b)\n", nil, `$n \gets \lVert a - b \rVert $ `},
		{"min", "m = min(a, b)\n", nil, `$m \gets \min( a , b ) $ `},
		{"empty set call", "s = set()\n", nil, `$s \gets \emptyset $ `},
		{"set call", "s = set(a)\n", nil, `$s \gets \{ a \} $ `},
		{"quantifier", "ok = all(v)\n", nil, `$ok \gets \forall v $ `},
		{"ceil", "k = math.ceil(x)\n", nil, `$k \gets \lceil x \rceil $ `},
		{"floor", "k = floor(x)\n", nil, `$k \gets \lfloor x \rfloor $ `},
		{"empty dict", "d = {}\n", nil, `$d \gets \{\} $ `},
		{"dict", "d = {1: 2, k: v}\n", nil, `$d \gets \{ 1 \mapsto 2 , k \mapsto v \} $ `},
		{"set literal", "s = {1, 2}\n", nil, `$s \gets \{ 1 , 2 \} $ `},
		{"list", "a = [1, x]\n", nil, `$a \gets [ 1 , x ] $ `},
		{"tuple unpack", "a, b = b, a\n", nil, `( $a , b ) \gets ( b , a ) $ `},
		{"aug assign", "x += 1\n", nil, `$x \gets x + 1 $ `},
		{"aug floor div", "x //= 2\n", nil, `$x \gets \lfloor \frac{ x }{ 2 } \rfloor $ `},
		{"aug power", "x **= 2\n", nil, `$x \gets x ^{ 2 } $ `},
		{"ann assign", "x: int = 5\n", nil, `$x \gets 5 $ `},
		{"bare annotation", "x: int\n", nil, `$x $ `},
		{"subscript store", "a[i] = 0\n", nil, `$a [ i ] \gets 0 $ `},
		{"slice", "b = a[1:n]\n", nil, `$b \gets a [ 1 : n ] $ `},
		{"slice step", "b = a[::2]\n", nil, `$b \gets a [ : : 2 ] $ `},
		{"tuple index", "v = m[i, j]\n", nil, `$v \gets m [ i , j ] $ `},
		{"attribute store", "p.x = 1\n", nil, `$p $.x $\gets 1 $ `},
		{"delete", "del x, a[0]\n", nil, `DEL x , DEL $a [ 0 ] $ `},
		{"if expression", "y = a if c else b\n", nil, `$y \gets a \text{ if } c \text{ else } b $ `},
		{"walrus", "(y := 3)\n", nil, `$y := 3 $ `},
		{"call", "f(x)\n", []string{"F"}, `\F{ $x $} `},
		{"call keyword", "f(x, key=1)\n", []string{"F"}, `\F{ $x $key= 1 } `},
		{"call starred", "f(*args)\n", []string{"F"}, `\F{ * $args $} `},
		{"call kwargs", "f(**kw)\n", []string{"F"}, `\F{ ** $kw $} `},
		{"attribute call", "a.append(x)\n", []string{"append"}, `\append{ $x $} `},
		{"multi-line call", "f(a,\n  b)\n", []string{"F"}, `\F{ $a b $} `},
		{"multi-line fraction", "x = (1 +\n     2) / 3\n", nil, `$x \gets \frac{ 1 + 2 }{ 3 } $ `},
		{"normalized call", "binary_search(a, x)\n", []string{"BinarySearch"}, `\BinarySearch{ $a x $} `},
		{"pass", "pass\n", nil, `\KwPass `},
		{"import elided", "import math\nfrom x import y\nx = 1\n", nil, `$x \gets 1 $ `},
		{
			"function",
			"def f(a, b):\n    return a + b\n",
			[]string{"F"},
			`\Fn{\F{ $a , b $}}{ \KwRet{ $a + b $} } `,
		},
		{
			"function collectors",
			"def f(a, *rest, k, **kw):\n    pass\n",
			[]string{"F"},
			`\Fn{\F{ $a , *rest , k , **kw $}}{ \KwPass } `,
		},
		{
			"function docstring",
			"def f():\n    \"\"\"Doc.\"\"\"\n    return\n",
			[]string{"F"},
			`\Fn{\F{ }}{ \tcc{Doc.} \KwRet{ } } `,
		},
		{
			"generator",
			"def g():\n    yield 1\n    yield from h()\n",
			[]string{"G", "H"},
			`\Fn{\G{ }}{ \KwYield 1  \; ` + "\n   " + `\KwYieldFrom \H{ } } `,
		},
		{
			"if else",
			"if x > 0:\n    y = 1\nelse:\n    y = 2\nz = 3\n",
			nil,
			`\eIf{ $x > 0 $}{ $y \gets 1 $}{ $y \gets 2 $} $z \gets 3 $ `,
		},
		{
			"elif",
			"if a:\n    x = 1\nelif b:\n    x = 2\n",
			nil,
			`\eIf{ $a $}{ $x \gets 1 $}{ \If{ $b $}{ $x \gets 2 $} } `,
		},
		{
			"while",
			"while i < n:\n    i = i + 1\n    j = i\n",
			nil,
			`\While{ $i < n $}{ $i \gets i + 1 $  \; ` + "\n   " + `$j \gets i $} `,
		},
		{
			"for",
			"for i in range(n):\n    s = s + i\n",
			[]string{"Range"},
			`\ForAll{ $i \in $\Range{ $n $} }{ $s \gets s + i $} `,
		},
		{
			"for tuple target",
			"for k, v in d:\n    break\n",
			nil,
			`\ForAll{ ( $k , v ) \in d $}{ \KwBreak } `,
		},
		{
			"loop else",
			"while c:\n    continue\nelse:\n    pass\n",
			nil,
			`\While{ $c $}{ \KwContinue } { \KwPass } `,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := renderString(t, tt.src, render.Options{})
			want := header(tt.names...) + tt.want
			if got != want {
				t.Errorf("render %q\n got: %q\nwant: %q", tt.src, got, want)
			}
		})
	}
}

func TestModuleDocstring(t *testing.T) {
	got := renderString(t, "\"\"\"Sorts a_list.\"\"\"\nx = 1\n", render.Options{})
	want := keywordHeader + `\KwResult{Sorts a\_list.}` + "\n" + `$x \gets 1 $ `
	if got != want {
		t.Errorf("got %q\nwant %q", got, want)
	}
}

func TestRawStrings(t *testing.T) {
	got := renderString(t, "s = \"50%\"\n", render.Options{RawStrings: true})
	if !strings.HasSuffix(got, "``50%'' ") {
		t.Errorf("raw string escaped: %q", got)
	}
	got = renderString(t, "s = \"50%\"\n", render.Options{})
	if !strings.HasSuffix(got, "``50\\%'' ") {
		t.Errorf("string not escaped: %q", got)
	}
}

func TestIndentUnit(t *testing.T) {
	got := renderString(t, "while c:\n    a = 1\n    b = 2\n", render.Options{Indent: "\t"})
	if !strings.Contains(got, " \\; \n\t$b") {
		t.Errorf("indent unit not used: %q", got)
	}
}

func TestNestedIndent(t *testing.T) {
	src := "def f():\n    while c:\n        a = 1\n        b = 2\n    return a\n"
	got := renderString(t, src, render.Options{})
	if !strings.Contains(got, " \\; \n      $b") {
		t.Errorf("two levels should indent six spaces: %q", got)
	}
	// the return follows the closed while block, so no separator precedes it
	if !strings.Contains(got, `$} \KwRet{`) {
		t.Errorf("separator after block: %q", got)
	}
}

func TestVerbatimNames(t *testing.T) {
	got := renderString(t, "print(x)\n", render.Options{Normalizer: naming.New("print")})
	want := header("print") + `\print{ $x $} `
	if got != want {
		t.Errorf("got %q\nwant %q", got, want)
	}
}

func TestSeededNames(t *testing.T) {
	names := collect.NewSet()
	names.Add("Extra")
	got := renderString(t, "x = 1\n", render.Options{Names: names})
	want := header("Extra") + `$x \gets 1 $ `
	if got != want {
		t.Errorf("got %q\nwant %q", got, want)
	}
}

func TestSameNameSameMacro(t *testing.T) {
	got := renderString(t, "my_func(1)\ny = my_func(2)\n", render.Options{})
	if n := strings.Count(got, `\MyFunc{`); n != 2 {
		t.Errorf("expected two identical invocations, got %d in %q", n, got)
	}
	if n := strings.Count(got, `\SetKwFunction{MyFunc}{MyFunc}`); n != 1 {
		t.Errorf("expected one declaration, got %d", n)
	}
}

func TestRecursionDeclaredFirst(t *testing.T) {
	got := renderString(t, "def fact(n):\n    return n * fact(n - 1)\n", render.Options{})
	decl := strings.Index(got, `\SetKwFunction{Fact}{Fact}`)
	def := strings.Index(got, `\Fn{\Fact{`)
	use := strings.Index(got, `\Fact{ $n - 1 $}`)
	if decl < 0 || def < 0 || use < 0 {
		t.Fatalf("missing pieces in %q", got)
	}
	if decl >= def || def >= use {
		t.Errorf("order decl=%d def=%d use=%d", decl, def, use)
	}
}

func TestMathRunsBalanced(t *testing.T) {
	sources := []string{
		"x = 1\n",
		"s = 'text'\nn = len(s)\n",
		"def f(a):\n    if a:\n        return a / 2\n    return f(a - 1)\n",
		"for i in range(n):\n    a[i] = i ** 2\n",
		"x = [1, 'a', None, {1: 2}]\n",
		"while x:\n    x = x // 2\n    y = f'{x}'\n",
	}
	for _, src := range sources {
		got := renderString(t, src, render.Options{RawStrings: true})
		if n := strings.Count(got, "$"); n%2 != 0 {
			t.Errorf("unbalanced $ (%d) in render of %q:\n%s", n, src, got)
		}
	}
}

func TestFStrings(t *testing.T) {
	got := renderString(t, "s = f\"v={x!r:>4}\"\n", render.Options{})
	want := `$s \gets $f' ` + "``v='' " + `$x !r : $` + "``>4'' ' "
	if !strings.HasSuffix(got, want) {
		t.Errorf("got %q\nwant suffix %q", got, want)
	}
}

func TestErrors(t *testing.T) {
	tests := []struct {
		src  string
		kind error
		node string
		line uint32
	}{
		{"class A:\n    pass\n", render.ErrUnhandledConstruct, "ClassDef", 1},
		{"x = 1\ny = 2j\n", render.ErrUnsupportedLiteral, "Constant", 2},
		{"b = b'x'\n", render.ErrUnsupportedLiteral, "Constant", 1},
		{"e = ...\n", render.ErrUnsupportedLiteral, "Constant", 1},
		{"x = [i for i in a]\n", render.ErrUnhandledConstruct, "ListComp", 1},
		{"try:\n    pass\nexcept E:\n    pass\n", render.ErrUnhandledConstruct, "Try", 1},
		{"with open(p) as f:\n    pass\n", render.ErrUnhandledConstruct, "With", 1},
		{"async def f():\n    pass\n", render.ErrUnhandledConstruct, "AsyncFunctionDef", 1},
		{"assert x\n", render.ErrUnhandledConstruct, "Assert", 1},
		{"f()()\n", render.ErrUnhandledConstruct, "Call", 1},
		{"if x:\n    raise E\n", render.ErrUnhandledConstruct, "Raise", 2},
	}
	for _, tt := range tests {
		var buf bytes.Buffer
		err := render.Render(parse(t, tt.src), &buf, render.Options{})
		if !errors.Is(err, tt.kind) {
			t.Errorf("render %q: err = %v, want %v", tt.src, err, tt.kind)
			continue
		}
		var re *render.Error
		if !errors.As(err, &re) || re.Node != tt.node || re.Line != tt.line {
			t.Errorf("render %q: error = %+v, want node %s line %d", tt.src, re, tt.node, tt.line)
		}
		if buf.Len() != 0 {
			t.Errorf("render %q: partial output written: %q", tt.src, buf.String())
		}
	}
}

// assignValue returns the right-hand side of the first statement, which
// must be an assignment.
func assignValue(t *testing.T, tree *pyast.Tree) pyast.ExprID {
	t.Helper()
	d, ok := tree.Stmts.Assign(tree.Module.Body[0])
	if !ok {
		t.Fatalf("first statement is not an assignment")
	}
	return d.Value
}

func TestUnexpectedOperator(t *testing.T) {
	tests := []struct {
		name   string
		src    string
		node   string
		mutate func(t *testing.T, tree *pyast.Tree)
	}{
		{"binary", "x = a + b\n", "BinOp", func(t *testing.T, tree *pyast.Tree) {
			d, ok := tree.Exprs.BinOp(assignValue(t, tree))
			if !ok {
				t.Fatal("not a BinOp")
			}
			d.Op = pyast.BinaryOp(200)
		}},
		{"compare", "ok = a < b < c\n", "Compare", func(t *testing.T, tree *pyast.Tree) {
			d, ok := tree.Exprs.Compare(assignValue(t, tree))
			if !ok {
				t.Fatal("not a Compare")
			}
			d.Ops[1] = pyast.CmpOp(200)
		}},
		{"unary", "x = -a\n", "UnaryOp", func(t *testing.T, tree *pyast.Tree) {
			d, ok := tree.Exprs.UnaryOp(assignValue(t, tree))
			if !ok {
				t.Fatal("not a UnaryOp")
			}
			d.Op = pyast.UnaryOp(200)
		}},
		{"bool", "ok = a and b\n", "BoolOp", func(t *testing.T, tree *pyast.Tree) {
			d, ok := tree.Exprs.BoolOp(assignValue(t, tree))
			if !ok {
				t.Fatal("not a BoolOp")
			}
			d.Op = pyast.BoolOp(200)
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tree := parse(t, tt.src)
			tt.mutate(t, tree)
			var buf bytes.Buffer
			err := render.Render(tree, &buf, render.Options{})
			if !errors.Is(err, render.ErrUnexpectedOperator) {
				t.Fatalf("err = %v, want ErrUnexpectedOperator", err)
			}
			var re *render.Error
			if !errors.As(err, &re) || re.Node != tt.node || re.Line != 1 {
				t.Errorf("error = %+v, want node %s line 1", re, tt.node)
			}
			if buf.Len() != 0 {
				t.Errorf("partial output written: %q", buf.String())
			}
			if d, ok := render.Diagnostic(err); !ok || d.Code != diag.RenderUnexpectedOperator {
				t.Errorf("Diagnostic = %+v, %v", d, ok)
			}
		})
	}
}

func TestErrorDiagnostic(t *testing.T) {
	err := render.Render(parse(t, "class A:\n    pass\n"), &bytes.Buffer{}, render.Options{})
	if got := err.Error(); got != "line 1: unhandled construct: ClassDef" {
		t.Errorf("Error() = %q", got)
	}
	d, ok := render.Diagnostic(err)
	if !ok || d.Code != diag.RenderUnhandledConstruct || d.Severity != diag.SevError {
		t.Errorf("Diagnostic = %+v, %v", d, ok)
	}
	if _, ok := render.Diagnostic(errors.New("other")); ok {
		t.Errorf("plain error converted to diagnostic")
	}
}

func TestTooDeep(t *testing.T) {
	tree := parse(t, "x = -(-(-(-(-(-1)))))\n")
	err := render.Render(tree, &bytes.Buffer{}, render.Options{MaxDepth: 5})
	if !errors.Is(err, render.ErrTooDeep) {
		t.Fatalf("err = %v, want ErrTooDeep", err)
	}
	if err := render.Render(tree, &bytes.Buffer{}, render.Options{}); err != nil {
		t.Errorf("default depth: %v", err)
	}
}

func TestRendererSingleUse(t *testing.T) {
	r := render.New(parse(t, "f(1)\n"), &bytes.Buffer{}, render.Options{})
	if err := r.RenderModule(); err != nil {
		t.Fatal(err)
	}
	if got := r.Names().Names(); len(got) != 1 || got[0] != "F" {
		t.Errorf("Names = %q", got)
	}
	if err := r.RenderModule(); err == nil {
		t.Errorf("second RenderModule succeeded")
	}
}

func TestNodeTracing(t *testing.T) {
	ring := trace.NewRingTracer(64, trace.LevelDebug)
	renderString(t, "x = 1\n", render.Options{Tracer: ring})
	var names []string
	for _, ev := range ring.Snapshot() {
		names = append(names, ev.Name)
	}
	if strings.Join(names, " ") != "Assign Name Constant" {
		t.Errorf("node points = %v", names)
	}
}
