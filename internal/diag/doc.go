// Package diag defines the error taxonomy shared by the lexer, parser and
// evaluator, plus a small diagnostic model used by the CLI for rendering.
//
// # Errors
//
// Every failure of the pipeline is a concrete struct implementing Error:
//
//   - LexError, SyntaxError, UnmatchedParenError, TrailingTokensError,
//     UnknownUnitError – produced while turning text into an AST;
//   - UndefinedSymbolError, ArityError, ReservedNameError,
//     IncompatibleUnitsError, UnitMismatchError, DivisionByZeroError,
//     DomainError, SymbolKindError, DepthLimitError – produced while
//     evaluating.
//
// Each error carries the structured data needed to phrase a complete message
// (expected vs found, both conflicting units, the offending name) and the
// primary source span. Callers discriminate with errors.As; nothing in the
// engine converts an error into a numeric sentinel.
//
// # Diagnostics
//
// Diagnostic is the rendering-oriented record (severity, code, message,
// primary span, notes). FromError lifts any engine error into one. Bag
// collects diagnostics for batch runs and keeps output deterministic via
// Sort and Dedup.
//
// Package diag does not perform formatting or IO; see internal/diagfmt.
package diag
