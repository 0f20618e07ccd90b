package units

import (
	"errors"
	"fmt"
	"strings"
)

// Term is one factor of a unit literal: Name^Exp, divided into the
// accumulated unit when Div is set. A plain term has Exp Int(1).
type Term struct {
	Div  bool // '/' перед термом
	Name string
	Exp  Rat
}

// UnknownError reports a unit symbol missing from the catalogue.
type UnknownError struct {
	Name  string
	Index int // номер терма
}

func (e *UnknownError) Error() string {
	return fmt.Sprintf("unknown unit %q", e.Name)
}

// ErrExponentRange reports a unit exponent that leaves the supported range.
var ErrExponentRange = errors.New("unit exponent out of range")

// Compose folds unit-literal terms left to right through Multiply, Divide
// and Pow. A single plain term keeps the catalogue unit, offset included;
// composites get a symbol rendered from their terms.
func Compose(terms []Term) (Unit, error) {
	if len(terms) == 0 {
		return Dimensionless, nil
	}
	var acc Unit
	for i, t := range terms {
		base, ok := Lookup(t.Name)
		if !ok {
			return Unit{}, &UnknownError{Name: t.Name, Index: i}
		}
		u, ok := Pow(base, t.Exp)
		if !ok {
			return Unit{}, ErrExponentRange
		}
		switch {
		case i == 0:
			acc = u
		case t.Div:
			acc, ok = Divide(acc, u)
		default:
			acc, ok = Multiply(acc, u)
		}
		if !ok {
			return Unit{}, ErrExponentRange
		}
	}
	if len(terms) > 1 || terms[0].Exp != Int(1) {
		acc.Offset = 0
		acc.Symbol = FormatTerms(terms)
	}
	return acc, nil
}

// FormatTerms renders terms back to unit-literal syntax.
func FormatTerms(terms []Term) string {
	var sb strings.Builder
	for i, t := range terms {
		if i > 0 {
			if t.Div {
				sb.WriteByte('/')
			} else {
				sb.WriteByte('*')
			}
		}
		sb.WriteString(powString(t.Name, t.Exp))
	}
	return sb.String()
}
