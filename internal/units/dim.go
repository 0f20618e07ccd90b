package units

import (
	"strings"
)

// BaseDim indexes the seven SI base dimensions.
type BaseDim uint8

const (
	Length BaseDim = iota
	Mass
	Time
	Current
	Temperature
	Amount
	Luminosity

	NumBaseDims = 7
)

var baseSymbols = [NumBaseDims]string{
	Length:      "m",
	Mass:        "kg",
	Time:        "s",
	Current:     "A",
	Temperature: "K",
	Amount:      "mol",
	Luminosity:  "cd",
}

// displayOrder lists dimensions in the order they are printed: kg*m/s^2.
var displayOrder = [NumBaseDims]BaseDim{Mass, Length, Time, Current, Temperature, Amount, Luminosity}

func (b BaseDim) String() string {
	switch b {
	case Length:
		return "length"
	case Mass:
		return "mass"
	case Time:
		return "time"
	case Current:
		return "current"
	case Temperature:
		return "temperature"
	case Amount:
		return "amount"
	case Luminosity:
		return "luminosity"
	default:
		return "unknown"
	}
}

// Dim is the exponent vector of a unit. The zero value is dimensionless.
type Dim [NumBaseDims]Rat

// DimOf returns the dimension with a single base raised to exp.
func DimOf(b BaseDim, exp int64) Dim {
	var d Dim
	d[b] = Int(exp)
	return d
}

func (d Dim) IsZero() bool {
	return d == Dim{}
}

// Add sums exponents base by base. It fails when a sum leaves the
// supported exponent range.
func (d Dim) Add(o Dim) (Dim, bool) {
	for i := range d {
		sum, ok := d[i].Add(o[i])
		if !ok || !sum.bounded() {
			return Dim{}, false
		}
		d[i] = sum
	}
	return d, true
}

func (d Dim) Sub(o Dim) (Dim, bool) {
	return d.Add(o.Neg())
}

func (d Dim) Neg() Dim {
	for i := range d {
		d[i] = d[i].Neg()
	}
	return d
}

// Scale multiplies every exponent by r. It fails when an exponent leaves
// the supported range.
func (d Dim) Scale(r Rat) (Dim, bool) {
	if !r.bounded() {
		return Dim{}, false
	}
	for i := range d {
		if d[i].IsZero() {
			continue
		}
		p, ok := d[i].Mul(r)
		if !ok || !p.bounded() {
			return Dim{}, false
		}
		d[i] = p
	}
	return d, true
}

// String renders the dimension in base units: kg*m/s^2, m^(1/2), s^-1.
// The dimensionless vector renders as the empty string.
func (d Dim) String() string {
	var pos []string
	for _, b := range displayOrder {
		if e := d[b]; e.num > 0 {
			pos = append(pos, powString(baseSymbols[b], e))
		}
	}
	var sb strings.Builder
	if len(pos) == 0 {
		// без числителя пишем отрицательные степени: s^-1
		first := true
		for _, b := range displayOrder {
			if e := d[b]; e.num < 0 {
				if !first {
					sb.WriteByte('*')
				}
				first = false
				sb.WriteString(powString(baseSymbols[b], e))
			}
		}
		return sb.String()
	}
	sb.WriteString(strings.Join(pos, "*"))
	for _, b := range displayOrder {
		if e := d[b]; e.num < 0 {
			sb.WriteByte('/')
			sb.WriteString(powString(baseSymbols[b], e.Neg()))
		}
	}
	return sb.String()
}

func powString(sym string, e Rat) string {
	switch {
	case e == Int(1):
		return sym
	case e.IsInt():
		return sym + "^" + e.String()
	default:
		return sym + "^(" + e.String() + ")"
	}
}
