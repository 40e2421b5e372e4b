package parser

import (
	"testing"

	"algotex/internal/pyast"
)

func TestExpressions(t *testing.T) {
	tests := []struct {
		src  string
		want string
	}{
		{"x = 1", "Assign(Name[x Store] Constant[int 1])"},
		{"a = b = c", "Assign(Name[a Store] Name[b Store] Name[c Load])"},
		{"x += 2", "AugAssign[Add](Name[x Store] Constant[int 2])"},
		{"1 + 2 * 3", "Expr(BinOp[Add](Constant[int 1] BinOp[Mult](Constant[int 2] Constant[int 3])))"},
		{"a - b - c", "Expr(BinOp[Sub](BinOp[Sub](Name[a Load] Name[b Load]) Name[c Load]))"},
		{"-x ** 2", "Expr(UnaryOp[USub](BinOp[Pow](Name[x Load] Constant[int 2])))"},
		{"2 ** -1", "Expr(BinOp[Pow](Constant[int 2] UnaryOp[USub](Constant[int 1])))"},
		{"a // b % c", "Expr(BinOp[Mod](BinOp[FloorDiv](Name[a Load] Name[b Load]) Name[c Load]))"},
		{"a | b ^ c & d << 1", "Expr(BinOp[BitOr](Name[a Load] BinOp[BitXor](Name[b Load] BinOp[BitAnd](Name[c Load] BinOp[LShift](Name[d Load] Constant[int 1])))))"},
		{"a < b <= c", "Expr(Compare[[Lt LtE]](Name[a Load] Name[b Load] Name[c Load]))"},
		{"a not in b and c is not d", "Expr(BoolOp[And](Compare[[NotIn]](Name[a Load] Name[b Load]) Compare[[IsNot]](Name[c Load] Name[d Load])))"},
		{"not a or b", "Expr(BoolOp[Or](UnaryOp[Not](Name[a Load]) Name[b Load]))"},
		{"a or b or c", "Expr(BoolOp[Or](Name[a Load] Name[b Load] Name[c Load]))"},
		{"x if c else y", "Expr(IfExp(Name[c Load] Name[x Load] Name[y Load]))"},
		{"lambda x, y=1: x", "Expr(Lambda[[x y]](Constant[int 1] Name[x Load]))"},
		{"f(a, *b, k=1, **kw)", "Expr(Call[k **](Name[f Load] Name[a Load] Starred[Load](Name[b Load]) Constant[int 1] Name[kw Load]))"},
		{"f(x for x in y)", "Expr(Call(Name[f Load] GeneratorExp(Name[x Load] Name[x Store] Name[y Load])))"},
		{"a[1:2, ::3]", "Expr(Subscript[Load](Name[a Load] Tuple[Load](Slice(Constant[int 1] Constant[int 2]) Slice(Constant[int 3]))))"},
		{"a[i]", "Expr(Subscript[Load](Name[a Load] Name[i Load]))"},
		{"x.y.z", "Expr(Attribute[z Load](Attribute[y Load](Name[x Load])))"},
		{"[i for i in range(n) if i]", "Expr(ListComp(Name[i Load] Name[i Store] Call(Name[range Load] Name[n Load]) Name[i Load]))"},
		{"{k: v for k, v in d}", "Expr(DictComp(Name[k Load] Name[v Load] Tuple[Store](Name[k Store] Name[v Store]) Name[d Load]))"},
		{"{x for x in s}", "Expr(SetComp(Name[x Load] Name[x Store] Name[s Load]))"},
		{"{1, 2}", "Expr(Set(Constant[int 1] Constant[int 2]))"},
		{"{}", "Expr(Dict)"},
		{"{'a': 1, **m}", `Expr(Dict(Constant[str "a"] Constant[int 1] Name[m Load]))`},
		{"()", "Expr(Tuple[Load])"},
		{"(1,)", "Expr(Tuple[Load](Constant[int 1]))"},
		{"(1)", "Expr(Constant[int 1])"},
		{"[1, 2,]", "Expr(List[Load](Constant[int 1] Constant[int 2]))"},
		{"1, 2", "Expr(Tuple[Load](Constant[int 1] Constant[int 2]))"},
		{"'a' 'b'", `Expr(Constant[str "ab"])`},
		{"b'x'", `Expr(Constant[bytes "x"])`},
		{"1.5e3 + 2j", "Expr(BinOp[Add](Constant[float 1.5e3] Constant[complex 2j]))"},
		{"None, True, ...", "Expr(Tuple[Load](Constant[None None] Constant[bool True] Constant[Ellipsis ...]))"},
		{"(y := 3)", "Expr(NamedExpr(Name[y Store] Constant[int 3]))"},
		{"yield x", "Expr(Yield(Name[x Load]))"},
		{"x = yield from g", "Assign(Name[x Store] YieldFrom(Name[g Load]))"},
		{"await f()", "Expr(Await(Call(Name[f Load])))"},
		{"*a, b = c", "Assign(Tuple[Store](Starred[Store](Name[a Store]) Name[b Store]) Name[c Load])"},
		{"[a, b] = c", "Assign(List[Store](Name[a Store] Name[b Store]) Name[c Load])"},
		{"x: int = 0", "AnnAssign(Name[x Store] Name[int Load] Constant[int 0])"},
		{"self.n: int", "AnnAssign(Attribute[n Store](Name[self Load]) Name[int Load])"},
	}
	for _, tt := range tests {
		tree := mustParse(t, tt.src+"\n")
		got := moduleSexpr(tree)
		if len(got) != 1 || got[0] != tt.want {
			t.Errorf("%q:\n got  %v\n want %s", tt.src, got, tt.want)
		}
	}
}

func TestStringEscapes(t *testing.T) {
	tree := mustParse(t, `s = '\n\x41\u00e9\q' + r'\n'`+"\n")
	want := `Assign(Name[s Store] BinOp[Add](Constant[str "\nAé\\q"] Constant[str "\\n"]))`
	if got := moduleSexpr(tree)[0]; got != want {
		t.Errorf("got  %s\nwant %s", got, want)
	}
}

func TestFStrings(t *testing.T) {
	tests := []struct {
		src  string
		want string
	}{
		{`f"a{x!r:>{w}}b"`, `Expr(JoinedStr(Constant[str "a"] FormattedValue[!r](Name[x Load] JoinedStr(Constant[str ">"] FormattedValue(Name[w Load]))) Constant[str "b"]))`},
		{`f"{x=}"`, `Expr(JoinedStr(Constant[str "x="] FormattedValue[!r](Name[x Load])))`},
		{`f"{{}}"`, `Expr(JoinedStr(Constant[str "{}"]))`},
		{`f"{a['k']}" 'z'`, `Expr(JoinedStr(FormattedValue(Subscript[Load](Name[a Load] Constant[str "k"])) Constant[str "z"]))`},
		{`f"{a != b}"`, `Expr(JoinedStr(FormattedValue(Compare[[NotEq]](Name[a Load] Name[b Load]))))`},
	}
	for _, tt := range tests {
		tree := mustParse(t, tt.src+"\n")
		if got := moduleSexpr(tree); len(got) != 1 || got[0] != tt.want {
			t.Errorf("%s:\n got  %v\n want %s", tt.src, got, tt.want)
		}
	}
}

func TestFStringFieldLines(t *testing.T) {
	tree := mustParse(t, "x = 1\ns = f'''\n{x}'''\n")
	var line uint32
	tree.InspectModule(func(n pyast.Node) bool {
		if tree.Label(n) == "FormattedValue" {
			line = tree.Line(n)
		}
		return true
	})
	if line != 3 {
		t.Errorf("formatted value line = %d, want 3", line)
	}
}
