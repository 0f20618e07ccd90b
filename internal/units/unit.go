package units

import (
	"math"
	"strconv"
)

// Unit is a physical unit: dimension exponents, scale to canonical SI and an
// additive offset (non-zero only for affine units such as degC).
//
// A value v in unit u corresponds to v*u.Scale + u.Offset in canonical SI.
type Unit struct {
	Dim    Dim
	Scale  float64
	Offset float64
	// Symbol is the display name carried from a unit literal ("km",
	// "m/s^2"). Arithmetic resets it; printing then looks for a named match.
	Symbol string
}

// Dimensionless is the identity unit.
var Dimensionless = Unit{Scale: 1}

// IsDimensionless reports whether all exponents are zero. Scaled
// dimensionless units such as deg count as dimensionless.
func (u Unit) IsDimensionless() bool {
	return u.Dim.IsZero()
}

// IsIdentity reports whether u is a plain number unit: no dimension, scale 1
// and no offset.
func (u Unit) IsIdentity() bool {
	return u.Dim.IsZero() && u.Scale == 1 && u.Offset == 0
}

// Compatible reports whether a and b measure the same kind of quantity.
func Compatible(a, b Unit) bool {
	return a.Dim == b.Dim
}

// Same reports whether a and b describe the same unit, ignoring symbols.
func Same(a, b Unit) bool {
	return a.Dim == b.Dim && a.Scale == b.Scale && a.Offset == b.Offset
}

// Multiply returns a*b. Multiplying by the identity keeps the other unit
// untouched, so 2 * 5 km stays in km and 2 * 5 degC stays in degC. It fails
// when an exponent of the product leaves the supported range.
func Multiply(a, b Unit) (Unit, bool) {
	if b.IsIdentity() {
		return a, true
	}
	if a.IsIdentity() {
		return b, true
	}
	d, ok := a.Dim.Add(b.Dim)
	if !ok {
		return Unit{}, false
	}
	return Unit{Dim: d, Scale: a.Scale * b.Scale}, true
}

// Divide returns a/b with the same rules as Multiply.
func Divide(a, b Unit) (Unit, bool) {
	if b.IsIdentity() {
		return a, true
	}
	d, ok := a.Dim.Sub(b.Dim)
	if !ok {
		return Unit{}, false
	}
	return Unit{Dim: d, Scale: a.Scale / b.Scale}, true
}

// Pow returns u^n. It fails when the resulting exponents are out of range.
func Pow(u Unit, n Rat) (Unit, bool) {
	if n == Int(1) {
		return u, true
	}
	if n.IsZero() {
		return Dimensionless, true
	}
	d, ok := u.Dim.Scale(n)
	if !ok {
		return Unit{}, false
	}
	if u.IsIdentity() {
		return Dimensionless, true
	}
	return Unit{Dim: d, Scale: math.Pow(u.Scale, n.Float64())}, true
}

// Convert expresses v given in from as a magnitude in to. Only compatible
// units convert.
func Convert(v float64, from, to Unit) (float64, bool) {
	if !Compatible(from, to) {
		return 0, false
	}
	if Same(from, to) {
		return v, true
	}
	return (v*from.Scale + from.Offset - to.Offset) / to.Scale, true
}

// SI returns the canonical SI unit with the dimension of u.
func (u Unit) SI() Unit {
	return Unit{Dim: u.Dim, Scale: 1}
}

// Name returns the preferred display name of u and whether one exists:
// the carried symbol, else a catalogue unit with the same dimension, scale
// and offset, else the base expansion when u is unscaled.
func (u Unit) Name() (string, bool) {
	if u.Symbol != "" {
		return u.Symbol, true
	}
	if u.IsIdentity() {
		return "", true
	}
	if name, ok := reverseLookup(u); ok {
		return name, true
	}
	if u.Offset == 0 && approxEqual(u.Scale, 1) {
		return u.Dim.String(), true
	}
	return "", false
}

// String renders u for diagnostics. Units without a display name show their
// scale against the base expansion, e.g. "1e+06*m^2".
func (u Unit) String() string {
	if name, ok := u.Name(); ok {
		return name
	}
	s := strconv.FormatFloat(u.Scale, 'g', -1, 64)
	if base := u.Dim.String(); base != "" {
		s += "*" + base
	}
	return s
}

func approxEqual(a, b float64) bool {
	if a == b {
		return true
	}
	return math.Abs(a-b) <= 1e-12*math.Max(math.Abs(a), math.Abs(b))
}
