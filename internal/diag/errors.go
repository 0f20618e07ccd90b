package diag

import (
	"fmt"
	"strconv"

	"exprua/internal/source"
)

// Error is implemented by every failure the engine reports.
type Error interface {
	error
	Code() Code
	Primary() source.Span
}

// LexError aborts tokenization at the first unrecognized character.
type LexError struct {
	Pos  source.Span
	Char rune
	// Detail is set for malformed literals, e.g. "expected digit after exponent".
	Detail string
}

func (e *LexError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("lex error at offset %d: %s", e.Pos.Start, e.Detail)
	}
	return fmt.Sprintf("lex error at offset %d: unexpected character %s", e.Pos.Start, strconv.QuoteRune(e.Char))
}

func (e *LexError) Code() Code {
	if e.Detail != "" {
		return LexBadNumber
	}
	return LexUnknownChar
}

func (e *LexError) Primary() source.Span { return e.Pos }

// SyntaxError reports a token mismatch.
type SyntaxError struct {
	Expected string
	Found    string
	Pos      source.Span
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("syntax error at offset %d: expected %s, found %s", e.Pos.Start, e.Expected, e.Found)
}

func (e *SyntaxError) Code() Code           { return SynUnexpectedToken }
func (e *SyntaxError) Primary() source.Span { return e.Pos }

// UnmatchedParenError reports a '(' without ')' (Open) or a stray ')'.
type UnmatchedParenError struct {
	Pos  source.Span
	Open bool
}

func (e *UnmatchedParenError) Error() string {
	if e.Open {
		return fmt.Sprintf("unmatched '(' at offset %d", e.Pos.Start)
	}
	return fmt.Sprintf("unmatched ')' at offset %d", e.Pos.Start)
}

func (e *UnmatchedParenError) Code() Code           { return SynUnclosedParen }
func (e *UnmatchedParenError) Primary() source.Span { return e.Pos }

// TrailingTokensError reports input left over after a complete form.
type TrailingTokensError struct {
	Found string
	Pos   source.Span
}

func (e *TrailingTokensError) Error() string {
	return fmt.Sprintf("unexpected %s at offset %d after end of expression", e.Found, e.Pos.Start)
}

func (e *TrailingTokensError) Code() Code           { return SynTrailingTokens }
func (e *TrailingTokensError) Primary() source.Span { return e.Pos }

// UnknownUnitError reports a unit suffix the registry cannot resolve.
type UnknownUnitError struct {
	Name string
	Pos  source.Span
}

func (e *UnknownUnitError) Error() string {
	return fmt.Sprintf("unknown unit %q at offset %d", e.Name, e.Pos.Start)
}

func (e *UnknownUnitError) Code() Code           { return SynUnknownUnit }
func (e *UnknownUnitError) Primary() source.Span { return e.Pos }

// UndefinedSymbolError reports a lookup of an unbound name.
type UndefinedSymbolError struct {
	Name string
	Pos  source.Span
}

func (e *UndefinedSymbolError) Error() string {
	return fmt.Sprintf("undefined symbol %q", e.Name)
}

func (e *UndefinedSymbolError) Code() Code           { return EvalUndefinedSymbol }
func (e *UndefinedSymbolError) Primary() source.Span { return e.Pos }

// ArityError reports a call with the wrong number of arguments.
// Variadic means Expected is a lower bound.
type ArityError struct {
	Name     string
	Expected int
	Variadic bool
	Got      int
	Pos      source.Span
}

func (e *ArityError) Error() string {
	return fmt.Sprintf("%s expects %s, got %d", e.Name, e.ExpectedString(), e.Got)
}

// ExpectedString phrases the accepted argument count.
func (e *ArityError) ExpectedString() string {
	noun := "arguments"
	if e.Expected == 1 {
		noun = "argument"
	}
	if e.Variadic {
		return fmt.Sprintf("at least %d %s", e.Expected, noun)
	}
	return fmt.Sprintf("%d %s", e.Expected, noun)
}

func (e *ArityError) Code() Code           { return EvalArity }
func (e *ArityError) Primary() source.Span { return e.Pos }

// ReservedNameError reports an assignment to a built-in function name.
// AtParse distinguishes the parse-time check from the table's own guard.
type ReservedNameError struct {
	Name    string
	Pos     source.Span
	AtParse bool
}

func (e *ReservedNameError) Error() string {
	return fmt.Sprintf("cannot assign to %q: name is reserved for a built-in function", e.Name)
}

func (e *ReservedNameError) Code() Code {
	if e.AtParse {
		return SynReservedName
	}
	return EvalReservedName
}

func (e *ReservedNameError) Primary() source.Span { return e.Pos }

// IncompatibleUnitsError reports an addition-like operation across dimensions.
type IncompatibleUnitsError struct {
	Op    string
	UnitA string
	UnitB string
	Pos   source.Span
}

func (e *IncompatibleUnitsError) Error() string {
	op := e.Op
	if op == "" {
		op = "combine"
	}
	return fmt.Sprintf("incompatible units: cannot %s %s and %s", op, unitLabel(e.UnitA), unitLabel(e.UnitB))
}

func (e *IncompatibleUnitsError) Code() Code           { return EvalIncompatibleUnits }
func (e *IncompatibleUnitsError) Primary() source.Span { return e.Pos }

// UnitMismatchError reports a value whose unit does not satisfy a requirement,
// e.g. a dimensioned exponent or a dimensioned argument to sin.
type UnitMismatchError struct {
	Expected string
	Found    string
	Context  string
	Pos      source.Span
}

func (e *UnitMismatchError) Error() string {
	msg := "unit mismatch"
	if e.Context != "" {
		msg += " in " + e.Context
	}
	msg += ": expected " + e.Expected
	if e.Found != "" {
		msg += ", found " + unitLabel(e.Found)
	}
	return msg
}

func (e *UnitMismatchError) Code() Code           { return EvalUnitMismatch }
func (e *UnitMismatchError) Primary() source.Span { return e.Pos }

// DivisionByZeroError reports a divisor whose magnitude is exactly zero.
type DivisionByZeroError struct {
	Pos source.Span
}

func (e *DivisionByZeroError) Error() string        { return "division by zero" }
func (e *DivisionByZeroError) Code() Code           { return EvalDivisionByZero }
func (e *DivisionByZeroError) Primary() source.Span { return e.Pos }

// DomainError reports an operation whose result would be NaN or infinite.
type DomainError struct {
	Op     string
	Detail string
	Pos    source.Span
}

func (e *DomainError) Error() string {
	if e.Detail == "" {
		return fmt.Sprintf("%s: result is not a finite number", e.Op)
	}
	return fmt.Sprintf("%s: %s", e.Op, e.Detail)
}

func (e *DomainError) Code() Code           { return EvalDomain }
func (e *DomainError) Primary() source.Span { return e.Pos }

// SymbolKindError reports a function used as a value or a value called as a function.
type SymbolKindError struct {
	Name string
	Want string // "function" or "value"
	Pos  source.Span
}

func (e *SymbolKindError) Error() string {
	if e.Want == "function" {
		return fmt.Sprintf("%q is not a function", e.Name)
	}
	return fmt.Sprintf("%q is a function and must be called", e.Name)
}

func (e *SymbolKindError) Code() Code           { return EvalSymbolKind }
func (e *SymbolKindError) Primary() source.Span { return e.Pos }

// DepthLimitError reports nesting beyond the configured ceiling.
type DepthLimitError struct {
	Limit   int
	AtParse bool
	Pos     source.Span
}

func (e *DepthLimitError) Error() string {
	return fmt.Sprintf("expression nesting exceeds limit of %d", e.Limit)
}

func (e *DepthLimitError) Code() Code {
	if e.AtParse {
		return SynDepthLimit
	}
	return EvalDepthLimit
}

func (e *DepthLimitError) Primary() source.Span { return e.Pos }

func unitLabel(u string) string {
	if u == "" {
		return "dimensionless"
	}
	return "'" + u + "'"
}
