package pyast

import (
	"algotex/internal/source"
)

type StmtKind uint8

const (
	StmtFunctionDef StmtKind = iota
	StmtAsyncFunctionDef
	StmtClassDef
	StmtReturn
	StmtDelete
	StmtAssign
	StmtAugAssign
	StmtAnnAssign
	StmtFor
	StmtAsyncFor
	StmtWhile
	StmtIf
	StmtWith
	StmtAsyncWith
	StmtMatch
	StmtRaise
	StmtTry
	StmtAssert
	StmtImport
	StmtImportFrom
	StmtGlobal
	StmtNonlocal
	StmtExpr
	StmtPass
	StmtBreak
	StmtContinue

	stmtKindCount
)

var stmtNames = [...]string{
	StmtFunctionDef: "FunctionDef", StmtAsyncFunctionDef: "AsyncFunctionDef",
	StmtClassDef: "ClassDef", StmtReturn: "Return", StmtDelete: "Delete",
	StmtAssign: "Assign", StmtAugAssign: "AugAssign", StmtAnnAssign: "AnnAssign",
	StmtFor: "For", StmtAsyncFor: "AsyncFor", StmtWhile: "While", StmtIf: "If",
	StmtWith: "With", StmtAsyncWith: "AsyncWith", StmtMatch: "Match",
	StmtRaise: "Raise", StmtTry: "Try", StmtAssert: "Assert", StmtImport: "Import",
	StmtImportFrom: "ImportFrom", StmtGlobal: "Global", StmtNonlocal: "Nonlocal",
	StmtExpr: "Expr", StmtPass: "Pass", StmtBreak: "Break", StmtContinue: "Continue",
}

func (k StmtKind) String() string {
	if k < stmtKindCount {
		return stmtNames[k]
	}
	return "StmtKind(?)"
}

type Stmt struct {
	Kind    StmtKind
	Span    source.Span
	Line    uint32 // 1-based
	Payload PayloadID
}

type FunctionDefData struct {
	Name       string
	Args       Arguments
	Body       []StmtID
	Decorators []ExprID
	Returns    ExprID
}

type ClassDefData struct {
	Name       string
	Bases      []ExprID
	Keywords   []Keyword
	Body       []StmtID
	Decorators []ExprID
}

// StmtValueData serves Return and Expr; Value may be NoExprID for a bare return.
type StmtValueData struct {
	Value ExprID
}

type DeleteData struct {
	Targets []ExprID
}

type AssignData struct {
	Targets []ExprID
	Value   ExprID
}

type AugAssignData struct {
	Target ExprID
	Op     BinaryOp
	Value  ExprID
}

type AnnAssignData struct {
	Target     ExprID
	Annotation ExprID
	Value      ExprID // NoExprID for a bare annotation
	Simple     bool
}

// ForData serves For and AsyncFor.
type ForData struct {
	Target ExprID
	Iter   ExprID
	Body   []StmtID
	Orelse []StmtID
}

// CondData serves While and If.
type CondData struct {
	Test   ExprID
	Body   []StmtID
	Orelse []StmtID
}

type WithItem struct {
	Context ExprID
	Vars    ExprID
}

type WithData struct {
	Items []WithItem
	Body  []StmtID
}

// MatchCase keeps the pattern as an expression tree; patterns are never rendered.
type MatchCase struct {
	Pattern ExprID
	Guard   ExprID
	Body    []StmtID
}

type MatchData struct {
	Subject ExprID
	Cases   []MatchCase
}

type RaiseData struct {
	Exc   ExprID
	Cause ExprID
}

type ExceptHandler struct {
	Type ExprID
	Name string
	Body []StmtID
	Line uint32
}

type TryData struct {
	Body      []StmtID
	Handlers  []ExceptHandler
	Orelse    []StmtID
	Finalbody []StmtID
}

type AssertData struct {
	Test ExprID
	Msg  ExprID
}

type Alias struct {
	Name   string
	AsName string
}

type ImportData struct {
	Module string // пусто для Import
	Names  []Alias
	Level  int
}

// NamesData serves Global and Nonlocal.
type NamesData struct {
	Names []string
}
