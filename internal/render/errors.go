package render

import (
	"errors"
	"fmt"

	"algotex/internal/diag"
	"algotex/internal/source"
)

var (
	ErrUnsupportedLiteral = errors.New("unsupported literal")
	ErrUnexpectedOperator = errors.New("unexpected operator")
	ErrUnhandledConstruct = errors.New("unhandled construct")
	ErrTooDeep            = errors.New("nesting too deep")
)

// Error is the fatal failure of a render. Kind is one of the Err* sentinels
// and is exposed through Unwrap.
type Error struct {
	Kind   error
	Node   string // kind name of the offending node
	Line   uint32
	Span   source.Span
	Detail string
}

func (e *Error) Error() string {
	msg := e.Kind.Error() + ": " + e.Node + detailSuffix(e.Detail)
	if e.Line > 0 {
		return fmt.Sprintf("line %d: %s", e.Line, msg)
	}
	return msg
}

func (e *Error) Unwrap() error { return e.Kind }

// Code maps the error kind to its diagnostic code.
func (e *Error) Code() diag.Code {
	switch e.Kind {
	case ErrUnsupportedLiteral:
		return diag.RenderUnsupportedLiteral
	case ErrUnexpectedOperator:
		return diag.RenderUnexpectedOperator
	case ErrUnhandledConstruct:
		return diag.RenderUnhandledConstruct
	case ErrTooDeep:
		return diag.RenderTooDeep
	}
	return diag.RenderInfo
}

// Diagnostic converts err into a diagnostic; false if err is not a render Error.
func Diagnostic(err error) (diag.Diagnostic, bool) {
	var re *Error
	if !errors.As(err, &re) {
		return diag.Diagnostic{}, false
	}
	return diag.New(diag.SevError, re.Code(), re.Span, re.Kind.Error()+": "+re.Node+detailSuffix(re.Detail)), true
}

func detailSuffix(d string) string {
	if d == "" {
		return ""
	}
	return " (" + d + ")"
}
