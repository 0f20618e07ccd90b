// Package token defines lexical token kinds for exprua expressions.
// Invariants:
//   - Token.Text is a copy of the normalized source covered by Token.Span.
//   - Numeric literals never include a sign or a unit suffix; "-" is always
//     a separate Minus token and unit symbols are ordinary identifiers.
//   - Comments and whitespace are skipped and never reach the token stream.
//   - Exactly one EOF token terminates every successful Tokenize result.
package token
