// Package collect finds the names that the rendered pseudocode uses as
// algorithm2e function macros: defined functions and called functions.
package collect

import (
	"algotex/internal/naming"
	"algotex/internal/pyast"
)

// symbolic lists the builtins rendered as mathematical notation instead of
// a macro call.
var symbolic = map[string]struct{}{
	"len": {}, "abs": {}, "set": {}, "all": {}, "any": {},
	"min": {}, "max": {}, "ceil": {}, "floor": {},
}

// mathOnly are the symbolic builtins also recognised as math.<name>.
var mathOnly = map[string]struct{}{"ceil": {}, "floor": {}}

// IsSymbolic reports whether name is a builtin with a dedicated rendering.
func IsSymbolic(name string) bool {
	_, ok := symbolic[name]
	return ok
}

// Symbolic resolves the builtin a call target refers to: a bare name like
// len, or math.ceil / math.floor.
func Symbolic(tree *pyast.Tree, fn pyast.ExprID) (string, bool) {
	if n, ok := tree.Exprs.Name(fn); ok {
		return n.ID, IsSymbolic(n.ID)
	}
	a, ok := tree.Exprs.Attribute(fn)
	if !ok {
		return "", false
	}
	if _, ok := mathOnly[a.Attr]; !ok {
		return "", false
	}
	if mod, ok := tree.Exprs.Name(a.Value); ok && mod.ID == "math" {
		return a.Attr, true
	}
	return "", false
}

// Names walks the whole module and returns the declared macro names in
// first-encounter order:
//   - every def's normalized name;
//   - every call through a bare name, normalized;
//   - every call through an attribute, by the member name as written.
func Names(tree *pyast.Tree, norm *naming.Normalizer) *Set {
	set := NewSet()
	if tree == nil {
		return set
	}
	tree.InspectModule(func(n pyast.Node) bool {
		if n.IsStmt() {
			if fd, ok := tree.Stmts.FunctionDef(n.Stmt); ok {
				set.Add(norm.Normalize(fd.Name))
			}
			return true
		}
		call, ok := tree.Exprs.Call(n.Expr)
		if !ok {
			return true
		}
		if name, ok := CallName(tree, call.Func, norm); ok {
			set.Add(name)
		}
		return true
	})
	return set
}

// CallName returns the macro name a call is rendered with, or false when the
// call target is symbolic or not a plain name or attribute.
func CallName(tree *pyast.Tree, fn pyast.ExprID, norm *naming.Normalizer) (string, bool) {
	if _, ok := Symbolic(tree, fn); ok {
		return "", false
	}
	if n, ok := tree.Exprs.Name(fn); ok {
		return norm.Normalize(n.ID), true
	}
	if a, ok := tree.Exprs.Attribute(fn); ok {
		return a.Attr, true
	}
	return "", false
}
