package render

import "algotex/internal/pyast"

func (r *Renderer) stmts(ids []pyast.StmtID) error {
	for _, id := range ids {
		if err := r.stmt(id); err != nil {
			return err
		}
	}
	return nil
}

func (r *Renderer) stmt(id pyast.StmtID) error {
	n := pyast.StmtNode(id)
	st := r.tree.Stmts.Get(id)
	if st == nil {
		return r.fail(ErrUnhandledConstruct, n, "missing statement")
	}
	switch st.Kind {
	case pyast.StmtImport, pyast.StmtImportFrom, pyast.StmtGlobal, pyast.StmtNonlocal:
		// объявления, не алгоритм
		return nil
	}
	if err := r.enter(n); err != nil {
		return err
	}
	defer r.leave()
	r.boundary(st.Line)

	switch st.Kind {
	case pyast.StmtFunctionDef:
		return r.functionDef(id)
	case pyast.StmtReturn:
		return r.returnStmt(id)
	case pyast.StmtDelete:
		return r.deleteStmt(id)
	case pyast.StmtAssign:
		return r.assign(id)
	case pyast.StmtAugAssign:
		return r.augAssign(id)
	case pyast.StmtAnnAssign:
		return r.annAssign(id)
	case pyast.StmtFor:
		return r.forStmt(id)
	case pyast.StmtWhile, pyast.StmtIf:
		return r.cond(id, st.Kind)
	case pyast.StmtExpr:
		d, _ := r.tree.Stmts.Value(id)
		return r.expr(d.Value)
	case pyast.StmtPass:
		r.w.token(`\KwPass`, noMath)
		return nil
	case pyast.StmtBreak:
		r.w.token(`\KwBreak`, noMath)
		return nil
	case pyast.StmtContinue:
		r.w.token(`\KwContinue`, noMath)
		return nil
	case pyast.StmtAsyncFunctionDef, pyast.StmtClassDef, pyast.StmtAsyncFor,
		pyast.StmtWith, pyast.StmtAsyncWith, pyast.StmtMatch, pyast.StmtRaise,
		pyast.StmtTry, pyast.StmtAssert:
		return r.fail(ErrUnhandledConstruct, n, "")
	}
	return r.fail(ErrUnhandledConstruct, n, "unknown statement kind")
}

// block renders a nested body one level deeper. The separator is suppressed
// on both edges so `}` and `{` never get a `\;` of their own.
func (r *Renderer) block(body []pyast.StmtID) error {
	r.suppressSep = true
	r.indent++
	err := r.stmts(body)
	r.indent--
	r.suppressSep = true
	return err
}

func (r *Renderer) functionDef(id pyast.StmtID) error {
	d, _ := r.tree.Stmts.FunctionDef(id)
	r.w.token(`\Fn{\`+r.opts.Normalizer.Normalize(d.Name)+`{`, noMath)
	r.params(&d.Args)
	r.w.token(`}}{`, noMath)

	body := d.Body
	r.suppressSep = true
	if doc, ok := r.tree.BodyDocstring(body); ok {
		r.w.token(`\tcc{`+r.text(doc)+`}`, noMath)
		body = body[1:]
	}
	if err := r.block(body); err != nil {
		return err
	}
	r.w.token(`}`, noMath)
	return nil
}

func (r *Renderer) returnStmt(id pyast.StmtID) error {
	d, _ := r.tree.Stmts.Value(id)
	r.w.token(`\KwRet{`, noMath)
	if d.Value.IsValid() {
		if err := r.expr(d.Value); err != nil {
			return err
		}
	}
	r.w.token(`}`, noMath)
	return nil
}

func (r *Renderer) deleteStmt(id pyast.StmtID) error {
	d, _ := r.tree.Stmts.Delete(id)
	return r.joined(d.Targets, ",")
}

func (r *Renderer) assign(id pyast.StmtID) error {
	d, _ := r.tree.Stmts.Assign(id)
	for _, target := range d.Targets {
		if err := r.expr(target); err != nil {
			return err
		}
	}
	return r.expr(d.Value)
}

// augAssign spells `x += y` out as `x ← x + y`.
func (r *Renderer) augAssign(id pyast.StmtID) error {
	d, _ := r.tree.Stmts.AugAssign(id)
	if err := r.expr(d.Target); err != nil {
		return err
	}
	return r.binary(pyast.StmtNode(id), d.Op,
		func() error { return r.plainExpr(d.Target) },
		func() error { return r.expr(d.Value) })
}

func (r *Renderer) annAssign(id pyast.StmtID) error {
	d, _ := r.tree.Stmts.AnnAssign(id)
	if !d.Value.IsValid() {
		return r.plainExpr(d.Target)
	}
	if err := r.expr(d.Target); err != nil {
		return err
	}
	return r.expr(d.Value)
}

func (r *Renderer) forStmt(id pyast.StmtID) error {
	d, _ := r.tree.Stmts.For(id)
	r.w.token(`\ForAll{`, noMath)
	if err := r.plainExpr(d.Target); err != nil {
		return err
	}
	r.w.token(`\in`, inMath)
	if err := r.expr(d.Iter); err != nil {
		return err
	}
	r.w.token(`}{`, noMath)
	if err := r.block(d.Body); err != nil {
		return err
	}
	r.w.token(`}`, noMath)
	return r.orelse(d.Orelse)
}

// cond renders If and While. An if with an else branch becomes \eIf.
func (r *Renderer) cond(id pyast.StmtID, kind pyast.StmtKind) error {
	d, _ := r.tree.Stmts.Cond(id)
	macro := `\While{`
	if kind == pyast.StmtIf {
		macro = `\If{`
		if len(d.Orelse) > 0 {
			macro = `\eIf{`
		}
	}
	r.w.token(macro, noMath)
	if err := r.expr(d.Test); err != nil {
		return err
	}
	r.w.token(`}{`, noMath)
	if err := r.block(d.Body); err != nil {
		return err
	}
	if kind == pyast.StmtIf && len(d.Orelse) > 0 {
		r.w.token(`}{`, noMath)
		if err := r.block(d.Orelse); err != nil {
			return err
		}
		r.w.token(`}`, noMath)
		return nil
	}
	r.w.token(`}`, noMath)
	return r.orelse(d.Orelse)
}

// orelse renders the else body of a loop as an extra brace group.
func (r *Renderer) orelse(body []pyast.StmtID) error {
	if len(body) == 0 {
		return nil
	}
	r.w.token(`{`, noMath)
	if err := r.block(body); err != nil {
		return err
	}
	r.w.token(`}`, noMath)
	return nil
}

// params renders a parameter list as math names separated by commas.
func (r *Renderer) params(a *pyast.Arguments) {
	first := true
	param := func(text string) {
		if !first {
			r.w.token(",", neutral)
		}
		first = false
		r.w.token(text, inMath)
	}
	for _, p := range a.Positional() {
		param(p.Name)
	}
	if a.Vararg != nil {
		param("*" + a.Vararg.Name)
	}
	for _, p := range a.KwOnly {
		param(p.Name)
	}
	if a.Kwarg != nil {
		param("**" + a.Kwarg.Name)
	}
}
