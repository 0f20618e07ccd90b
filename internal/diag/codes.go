package diag

import (
	"fmt"
)

type Code uint16

const (
	// Неизвестная ошибка
	UnknownCode Code = 0

	// Лексические
	LexUnknownChar Code = 1001
	LexBadNumber   Code = 1004

	// Синтаксические
	SynUnexpectedToken Code = 2001
	SynUnclosedParen   Code = 2006
	SynTrailingTokens  Code = 2012
	SynUnknownUnit     Code = 2020
	SynReservedName    Code = 2030
	SynDepthLimit      Code = 2040

	// Вычисление
	EvalUndefinedSymbol   Code = 3005
	EvalArity             Code = 3010
	EvalReservedName      Code = 3011
	EvalIncompatibleUnits Code = 3020
	EvalUnitMismatch      Code = 3021
	EvalDivisionByZero    Code = 3030
	EvalDomain            Code = 3031
	EvalSymbolKind        Code = 3040
	EvalDepthLimit        Code = 3050
)

var codeDescription = map[Code]string{
	UnknownCode:           "Unknown error",
	LexUnknownChar:        "Unknown character",
	LexBadNumber:          "Malformed number literal",
	SynUnexpectedToken:    "Unexpected token",
	SynUnclosedParen:      "Unmatched parenthesis",
	SynTrailingTokens:     "Trailing tokens after expression",
	SynUnknownUnit:        "Unknown unit",
	SynReservedName:       "Assignment to reserved name",
	SynDepthLimit:         "Expression nested too deeply",
	EvalUndefinedSymbol:   "Undefined symbol",
	EvalArity:             "Wrong number of arguments",
	EvalReservedName:      "Assignment to reserved name",
	EvalIncompatibleUnits: "Incompatible units",
	EvalUnitMismatch:      "Unit mismatch",
	EvalDivisionByZero:    "Division by zero",
	EvalDomain:            "Result is not a finite number",
	EvalSymbolKind:        "Wrong kind of symbol",
	EvalDepthLimit:        "Evaluation nested too deeply",
}

func (c Code) ID() string {
	switch ic := int(c); {
	case ic >= 1000 && ic < 2000:
		return fmt.Sprintf("LEX%04d", ic)
	case ic >= 2000 && ic < 3000:
		return fmt.Sprintf("SYN%04d", ic)
	case ic >= 3000 && ic < 4000:
		return fmt.Sprintf("EVL%04d", ic)
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
