package units

import (
	"strconv"
)

// DefaultPrecision is the number of significant digits used by Value.String.
const DefaultPrecision = 12

// Value is a magnitude paired with a unit.
type Value struct {
	Mag  float64
	Unit Unit
}

// Scalar returns a dimensionless value.
func Scalar(f float64) Value {
	return Value{Mag: f, Unit: Dimensionless}
}

// Of returns f in unit u.
func Of(f float64, u Unit) Value {
	return Value{Mag: f, Unit: u}
}

// Canonical returns the magnitude expressed in canonical SI base units.
func (v Value) Canonical() float64 {
	return v.Mag*v.Unit.Scale + v.Unit.Offset
}

// SI returns v converted to the canonical SI unit of its dimension.
func (v Value) SI() Value {
	return Value{Mag: v.Canonical(), Unit: v.Unit.SI()}
}

// In converts v to unit u. Incompatible units fail.
func (v Value) In(u Unit) (Value, bool) {
	mag, ok := Convert(v.Mag, v.Unit, u)
	if !ok {
		return Value{}, false
	}
	return Value{Mag: mag, Unit: u}, true
}

// String formats v with DefaultPrecision significant digits.
func (v Value) String() string {
	return v.Format(DefaultPrecision)
}

// Format renders "<magnitude> <unit>", omitting the unit when v is a plain
// number. Units without a display name are converted to canonical SI first.
func (v Value) Format(prec int) string {
	name, ok := v.Unit.Name()
	if !ok {
		v = v.SI()
		name, _ = v.Unit.Name()
	}
	s := FormatMagnitude(v.Mag, prec)
	if name == "" {
		return s
	}
	return s + " " + name
}

// FormatMagnitude renders f with prec significant digits; negative zero
// prints as 0.
func FormatMagnitude(f float64, prec int) string {
	if f == 0 {
		f = 0
	}
	if prec <= 0 {
		prec = -1
	}
	return strconv.FormatFloat(f, 'g', prec, 64)
}
