package diag

import (
	"fmt"
)

type Code uint16

const (
	// Неизвестная ошибка
	UnknownCode Code = 0

	// Лексические
	LexInfo               Code = 1000
	LexUnknownChar        Code = 1001
	LexUnterminatedString Code = 1002
	LexBadNumber          Code = 1003
	LexBadDedent          Code = 1004
	LexInconsistentTabs   Code = 1005
	LexUnbalancedBracket  Code = 1006
	LexTokenTooLong       Code = 1007

	// Парсерные
	SynInfo             Code = 2000
	SynUnexpectedToken  Code = 2001
	SynExpectExpression Code = 2002
	SynExpectColon      Code = 2003
	SynExpectIdentifier Code = 2004
	SynExpectIndent     Code = 2005
	SynExpectNewline    Code = 2006
	SynUnclosedParen    Code = 2007
	SynUnclosedBracket  Code = 2008
	SynUnclosedBrace    Code = 2009
	SynInvalidTarget    Code = 2010
	SynForMissingIn     Code = 2011
	SynBadFString       Code = 2012
	SynTooDeep          Code = 2013

	// Рендер
	RenderInfo               Code = 3000
	RenderUnsupportedLiteral Code = 3001
	RenderUnexpectedOperator Code = 3002
	RenderUnhandledConstruct Code = 3003
	RenderTooDeep            Code = 3004

	// IO
	IOLoadFileError Code = 4001
	IOWriteError    Code = 4002
	IOCacheError    Code = 4003

	// Проект
	ProjConfigInvalid   Code = 5001
	ProjVersionMismatch Code = 5002

	// Наблюдаемость
	ObsInfo    Code = 6000
	ObsTimings Code = 6001
)

var codeDescription = map[Code]string{
	UnknownCode:              "Unknown error",
	LexInfo:                  "Lexical information",
	LexUnknownChar:           "Unknown character",
	LexUnterminatedString:    "Unterminated string",
	LexBadNumber:             "Bad number literal",
	LexBadDedent:             "Unindent does not match any outer level",
	LexInconsistentTabs:      "Inconsistent use of tabs and spaces",
	LexUnbalancedBracket:     "Unbalanced bracket",
	LexTokenTooLong:          "Token too long",
	SynInfo:                  "Syntax information",
	SynUnexpectedToken:       "Unexpected token",
	SynExpectExpression:      "Expected expression",
	SynExpectColon:           "Expected ':'",
	SynExpectIdentifier:      "Expected identifier",
	SynExpectIndent:          "Expected an indented block",
	SynExpectNewline:         "Expected end of statement",
	SynUnclosedParen:         "Unclosed parenthesis",
	SynUnclosedBracket:       "Unclosed bracket",
	SynUnclosedBrace:         "Unclosed brace",
	SynInvalidTarget:         "Invalid assignment target",
	SynForMissingIn:          "Missing 'in' in for statement",
	SynBadFString:            "Malformed f-string",
	SynTooDeep:               "Nesting too deep",
	RenderInfo:               "Render information",
	RenderUnsupportedLiteral: "Unsupported literal kind",
	RenderUnexpectedOperator: "Unexpected operator",
	RenderUnhandledConstruct: "Unhandled construct",
	RenderTooDeep:            "Tree too deep to render",
	IOLoadFileError:          "Failed to load file",
	IOWriteError:             "Failed to write output",
	IOCacheError:             "Render cache failure",
	ProjConfigInvalid:        "Invalid project configuration",
	ProjVersionMismatch:      "Tool version does not satisfy project constraint",
	ObsInfo:                  "Observability information",
	ObsTimings:               "Pipeline timings",
}

func (c Code) ID() string {
	switch ic := int(c); {
	case ic >= 1000 && ic < 2000:
		return fmt.Sprintf("LEX%04d", ic)
	case ic >= 2000 && ic < 3000:
		return fmt.Sprintf("SYN%04d", ic)
	case ic >= 3000 && ic < 4000:
		return fmt.Sprintf("RND%04d", ic)
	case ic >= 4000 && ic < 5000:
		return fmt.Sprintf("IO%04d", ic)
	case ic >= 5000 && ic < 6000:
		return fmt.Sprintf("PRJ%04d", ic)
	case ic >= 6000 && ic < 7000:
		return fmt.Sprintf("OBS%04d", ic)
	}
	return "E0000"
}

func (c Code) Title() string {
	desc, ok := codeDescription[c]
	if !ok {
		return codeDescription[UnknownCode]
	}
	return desc
}

func (c Code) String() string {
	return fmt.Sprintf("[%s]: %s", c.ID(), c.Title())
}
