package pyast

import (
	"algotex/internal/source"
)

// Stmts manages allocation of statements and their payloads.
type Stmts struct {
	Arena        *Arena[Stmt]
	FunctionDefs *Arena[FunctionDefData]
	ClassDefs    *Arena[ClassDefData]
	Values       *Arena[StmtValueData]
	Deletes      *Arena[DeleteData]
	Assigns      *Arena[AssignData]
	AugAssigns   *Arena[AugAssignData]
	AnnAssigns   *Arena[AnnAssignData]
	Fors         *Arena[ForData]
	Conds        *Arena[CondData]
	Withs        *Arena[WithData]
	Matches      *Arena[MatchData]
	Raises       *Arena[RaiseData]
	Tries        *Arena[TryData]
	Asserts      *Arena[AssertData]
	Imports      *Arena[ImportData]
	Names        *Arena[NamesData]

	lines func(off uint32) uint32
}

// NewStmts creates statement arenas with capHint initial capacity (1<<8 when zero).
func NewStmts(capHint uint) *Stmts {
	if capHint == 0 {
		capHint = 1 << 8
	}
	small := capHint/8 + 1
	return &Stmts{
		Arena:        NewArena[Stmt](capHint),
		FunctionDefs: NewArena[FunctionDefData](small),
		ClassDefs:    NewArena[ClassDefData](small),
		Values:       NewArena[StmtValueData](capHint),
		Deletes:      NewArena[DeleteData](small),
		Assigns:      NewArena[AssignData](capHint),
		AugAssigns:   NewArena[AugAssignData](small),
		AnnAssigns:   NewArena[AnnAssignData](small),
		Fors:         NewArena[ForData](small),
		Conds:        NewArena[CondData](small),
		Withs:        NewArena[WithData](small),
		Matches:      NewArena[MatchData](small),
		Raises:       NewArena[RaiseData](small),
		Tries:        NewArena[TryData](small),
		Asserts:      NewArena[AssertData](small),
		Imports:      NewArena[ImportData](small),
		Names:        NewArena[NamesData](small),
	}
}

func (s *Stmts) new(kind StmtKind, span source.Span, payload uint32) StmtID {
	var line uint32
	if s.lines != nil {
		line = s.lines(span.Start)
	}
	return StmtID(s.Arena.Allocate(Stmt{
		Kind:    kind,
		Span:    span,
		Line:    line,
		Payload: PayloadID(payload),
	}))
}

// Get returns the statement with the given ID.
func (s *Stmts) Get(id StmtID) *Stmt {
	return s.Arena.Get(uint32(id))
}

// SetLine overrides the recorded line of a statement.
func (s *Stmts) SetLine(id StmtID, line uint32) {
	if st := s.Get(id); st != nil {
		st.Line = line
	}
}

func (s *Stmts) payload(id StmtID, kinds ...StmtKind) (PayloadID, bool) {
	st := s.Get(id)
	if st == nil {
		return NoPayloadID, false
	}
	for _, k := range kinds {
		if st.Kind == k {
			return st.Payload, true
		}
	}
	return NoPayloadID, false
}

// NewFunctionDef creates a def (or async def when async is set).
func (s *Stmts) NewFunctionDef(span source.Span, async bool, data FunctionDefData) StmtID {
	kind := StmtFunctionDef
	if async {
		kind = StmtAsyncFunctionDef
	}
	return s.new(kind, span, s.FunctionDefs.Allocate(data))
}

// FunctionDef returns the payload of a def or async def.
func (s *Stmts) FunctionDef(id StmtID) (*FunctionDefData, bool) {
	p, ok := s.payload(id, StmtFunctionDef, StmtAsyncFunctionDef)
	if !ok {
		return nil, false
	}
	return s.FunctionDefs.Get(uint32(p)), true
}

func (s *Stmts) NewClassDef(span source.Span, data ClassDefData) StmtID {
	return s.new(StmtClassDef, span, s.ClassDefs.Allocate(data))
}

func (s *Stmts) ClassDef(id StmtID) (*ClassDefData, bool) {
	p, ok := s.payload(id, StmtClassDef)
	if !ok {
		return nil, false
	}
	return s.ClassDefs.Get(uint32(p)), true
}

// NewReturn creates a return statement; value may be NoExprID.
func (s *Stmts) NewReturn(span source.Span, value ExprID) StmtID {
	return s.new(StmtReturn, span, s.Values.Allocate(StmtValueData{Value: value}))
}

// NewExprStmt wraps an expression evaluated for its side effects.
func (s *Stmts) NewExprStmt(span source.Span, value ExprID) StmtID {
	return s.new(StmtExpr, span, s.Values.Allocate(StmtValueData{Value: value}))
}

// Value returns the payload of Return and Expr statements.
func (s *Stmts) Value(id StmtID) (*StmtValueData, bool) {
	p, ok := s.payload(id, StmtReturn, StmtExpr)
	if !ok {
		return nil, false
	}
	return s.Values.Get(uint32(p)), true
}

func (s *Stmts) NewDelete(span source.Span, targets []ExprID) StmtID {
	return s.new(StmtDelete, span, s.Deletes.Allocate(DeleteData{Targets: targets}))
}

func (s *Stmts) Delete(id StmtID) (*DeleteData, bool) {
	p, ok := s.payload(id, StmtDelete)
	if !ok {
		return nil, false
	}
	return s.Deletes.Get(uint32(p)), true
}

func (s *Stmts) NewAssign(span source.Span, targets []ExprID, value ExprID) StmtID {
	return s.new(StmtAssign, span, s.Assigns.Allocate(AssignData{Targets: targets, Value: value}))
}

func (s *Stmts) Assign(id StmtID) (*AssignData, bool) {
	p, ok := s.payload(id, StmtAssign)
	if !ok {
		return nil, false
	}
	return s.Assigns.Get(uint32(p)), true
}

func (s *Stmts) NewAugAssign(span source.Span, target ExprID, op BinaryOp, value ExprID) StmtID {
	return s.new(StmtAugAssign, span, s.AugAssigns.Allocate(AugAssignData{Target: target, Op: op, Value: value}))
}

func (s *Stmts) AugAssign(id StmtID) (*AugAssignData, bool) {
	p, ok := s.payload(id, StmtAugAssign)
	if !ok {
		return nil, false
	}
	return s.AugAssigns.Get(uint32(p)), true
}

func (s *Stmts) NewAnnAssign(span source.Span, data AnnAssignData) StmtID {
	return s.new(StmtAnnAssign, span, s.AnnAssigns.Allocate(data))
}

func (s *Stmts) AnnAssign(id StmtID) (*AnnAssignData, bool) {
	p, ok := s.payload(id, StmtAnnAssign)
	if !ok {
		return nil, false
	}
	return s.AnnAssigns.Get(uint32(p)), true
}

// NewFor creates a for (or async for) loop.
func (s *Stmts) NewFor(span source.Span, async bool, data ForData) StmtID {
	kind := StmtFor
	if async {
		kind = StmtAsyncFor
	}
	return s.new(kind, span, s.Fors.Allocate(data))
}

func (s *Stmts) For(id StmtID) (*ForData, bool) {
	p, ok := s.payload(id, StmtFor, StmtAsyncFor)
	if !ok {
		return nil, false
	}
	return s.Fors.Get(uint32(p)), true
}

func (s *Stmts) NewWhile(span source.Span, data CondData) StmtID {
	return s.new(StmtWhile, span, s.Conds.Allocate(data))
}

func (s *Stmts) NewIf(span source.Span, data CondData) StmtID {
	return s.new(StmtIf, span, s.Conds.Allocate(data))
}

// Cond returns the payload of While and If statements.
func (s *Stmts) Cond(id StmtID) (*CondData, bool) {
	p, ok := s.payload(id, StmtWhile, StmtIf)
	if !ok {
		return nil, false
	}
	return s.Conds.Get(uint32(p)), true
}

func (s *Stmts) NewWith(span source.Span, async bool, data WithData) StmtID {
	kind := StmtWith
	if async {
		kind = StmtAsyncWith
	}
	return s.new(kind, span, s.Withs.Allocate(data))
}

func (s *Stmts) With(id StmtID) (*WithData, bool) {
	p, ok := s.payload(id, StmtWith, StmtAsyncWith)
	if !ok {
		return nil, false
	}
	return s.Withs.Get(uint32(p)), true
}

func (s *Stmts) NewMatch(span source.Span, data MatchData) StmtID {
	return s.new(StmtMatch, span, s.Matches.Allocate(data))
}

func (s *Stmts) Match(id StmtID) (*MatchData, bool) {
	p, ok := s.payload(id, StmtMatch)
	if !ok {
		return nil, false
	}
	return s.Matches.Get(uint32(p)), true
}

func (s *Stmts) NewRaise(span source.Span, exc, cause ExprID) StmtID {
	return s.new(StmtRaise, span, s.Raises.Allocate(RaiseData{Exc: exc, Cause: cause}))
}

func (s *Stmts) Raise(id StmtID) (*RaiseData, bool) {
	p, ok := s.payload(id, StmtRaise)
	if !ok {
		return nil, false
	}
	return s.Raises.Get(uint32(p)), true
}

func (s *Stmts) NewTry(span source.Span, data TryData) StmtID {
	return s.new(StmtTry, span, s.Tries.Allocate(data))
}

func (s *Stmts) Try(id StmtID) (*TryData, bool) {
	p, ok := s.payload(id, StmtTry)
	if !ok {
		return nil, false
	}
	return s.Tries.Get(uint32(p)), true
}

func (s *Stmts) NewAssert(span source.Span, test, msg ExprID) StmtID {
	return s.new(StmtAssert, span, s.Asserts.Allocate(AssertData{Test: test, Msg: msg}))
}

func (s *Stmts) Assert(id StmtID) (*AssertData, bool) {
	p, ok := s.payload(id, StmtAssert)
	if !ok {
		return nil, false
	}
	return s.Asserts.Get(uint32(p)), true
}

// NewImport creates Import (from == false) or ImportFrom.
func (s *Stmts) NewImport(span source.Span, from bool, data ImportData) StmtID {
	kind := StmtImport
	if from {
		kind = StmtImportFrom
	}
	return s.new(kind, span, s.Imports.Allocate(data))
}

func (s *Stmts) Import(id StmtID) (*ImportData, bool) {
	p, ok := s.payload(id, StmtImport, StmtImportFrom)
	if !ok {
		return nil, false
	}
	return s.Imports.Get(uint32(p)), true
}

// NewNames creates Global or Nonlocal.
func (s *Stmts) NewNames(span source.Span, kind StmtKind, names []string) StmtID {
	return s.new(kind, span, s.Names.Allocate(NamesData{Names: names}))
}

func (s *Stmts) NameList(id StmtID) (*NamesData, bool) {
	p, ok := s.payload(id, StmtGlobal, StmtNonlocal)
	if !ok {
		return nil, false
	}
	return s.Names.Get(uint32(p)), true
}

// NewSimple creates Pass, Break or Continue.
func (s *Stmts) NewSimple(span source.Span, kind StmtKind) StmtID {
	return s.new(kind, span, 0)
}
