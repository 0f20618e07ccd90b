package token

import (
	"exprua/internal/source"
)

// Token represents a single source token with its location.
type Token struct {
	Kind Kind
	Span source.Span
	Text string
}

// IsOperator reports whether the token is one of + - * / ^ =.
func (t Token) IsOperator() bool {
	return t.Kind.Class() == ClassOperator
}

// Describe renders the token for "found ..." parts of diagnostics.
func (t Token) Describe() string {
	switch t.Kind {
	case EOF:
		return "end of input"
	case Number, Ident:
		return t.Kind.Class().String() + " '" + t.Text + "'"
	default:
		return "'" + t.Text + "'"
	}
}
