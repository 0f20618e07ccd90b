package units

import (
	"math"
	"slices"
	"strings"
)

// Prefix is an SI prefix.
type Prefix struct {
	Symbol string
	Factor float64
}

// Prefixes are tried longest symbol first so "da" wins over "d".
var Prefixes = []Prefix{
	{"da", 1e1},
	{"Y", 1e24}, {"Z", 1e21}, {"E", 1e18}, {"P", 1e15}, {"T", 1e12},
	{"G", 1e9}, {"M", 1e6}, {"k", 1e3}, {"h", 1e2},
	{"d", 1e-1}, {"c", 1e-2}, {"m", 1e-3},
	{"μ", 1e-6}, {"u", 1e-6},
	{"n", 1e-9}, {"p", 1e-12}, {"f", 1e-15}, {"a", 1e-18}, {"z", 1e-21}, {"y", 1e-24},
}

type entry struct {
	unit       Unit
	prefixable bool
}

// catalogue is immutable after package initialization.
var (
	catalogue = map[string]entry{}
	// named lists catalogue names in reverse-lookup preference order.
	named []string
)

func define(name string, d Dim, scale, offset float64, prefixable bool) {
	catalogue[name] = entry{
		unit:       Unit{Dim: d, Scale: scale, Offset: offset, Symbol: name},
		prefixable: prefixable,
	}
	named = append(named, name)
}

func init() {
	// производные единицы раньше базовых: kg*m/s^2 печатается как N
	define("N", Dim{Mass: Int(1), Length: Int(1), Time: Int(-2)}, 1, 0, true)
	define("Pa", Dim{Mass: Int(1), Length: Int(-1), Time: Int(-2)}, 1, 0, true)
	define("J", Dim{Mass: Int(1), Length: Int(2), Time: Int(-2)}, 1, 0, true)
	define("W", Dim{Mass: Int(1), Length: Int(2), Time: Int(-3)}, 1, 0, true)
	define("C", Dim{Current: Int(1), Time: Int(1)}, 1, 0, true)
	define("V", Dim{Mass: Int(1), Length: Int(2), Time: Int(-3), Current: Int(-1)}, 1, 0, true)
	define("F", Dim{Mass: Int(-1), Length: Int(-2), Time: Int(4), Current: Int(2)}, 1, 0, true)
	define("Ω", Dim{Mass: Int(1), Length: Int(2), Time: Int(-3), Current: Int(-2)}, 1, 0, true)
	define("H", Dim{Mass: Int(1), Length: Int(2), Time: Int(-2), Current: Int(-2)}, 1, 0, true)
	define("Hz", Dim{Time: Int(-1)}, 1, 0, true)

	define("m", DimOf(Length, 1), 1, 0, true)
	define("kg", DimOf(Mass, 1), 1, 0, false)
	define("s", DimOf(Time, 1), 1, 0, true)
	define("A", DimOf(Current, 1), 1, 0, true)
	define("K", DimOf(Temperature, 1), 1, 0, true)
	define("mol", DimOf(Amount, 1), 1, 0, true)
	define("cd", DimOf(Luminosity, 1), 1, 0, true)

	define("g", DimOf(Mass, 1), 1e-3, 0, true)
	define("L", DimOf(Length, 3), 1e-3, 0, false)
	define("min", DimOf(Time, 1), 60, 0, false)
	define("h", DimOf(Time, 1), 3600, 0, false)
	define("bar", Dim{Mass: Int(1), Length: Int(-1), Time: Int(-2)}, 1e5, 0, false)

	define("degC", DimOf(Temperature, 1), 1, 273.15, false)
	define("degF", DimOf(Temperature, 1), 5.0/9.0, 273.15-32*5.0/9.0, false)

	define("rad", Dim{}, 1, 0, false)
	define("deg", Dim{}, math.Pi/180, 0, false)
}

// Lookup resolves a unit symbol: an exact catalogue name first, then an SI
// prefix followed by a prefixable unit ("km", "μs", "kHz").
func Lookup(name string) (Unit, bool) {
	if e, ok := catalogue[name]; ok {
		return e.unit, true
	}
	for _, p := range Prefixes {
		rest, ok := strings.CutPrefix(name, p.Symbol)
		if !ok || rest == "" {
			continue
		}
		e, ok := catalogue[rest]
		if !ok || !e.prefixable {
			continue
		}
		u := e.unit
		u.Scale *= p.Factor
		u.Symbol = name
		return u, true
	}
	return Unit{}, false
}

// IsUnit reports whether name resolves to a unit.
func IsUnit(name string) bool {
	_, ok := Lookup(name)
	return ok
}

// Names returns the catalogue names without prefixed forms, sorted.
func Names() []string {
	out := slices.Clone(named)
	slices.Sort(out)
	return out
}

// reverseLookup finds a display name for an unnamed unit: a catalogue unit
// first, then a prefixed form of a prefixable one.
func reverseLookup(u Unit) (string, bool) {
	if u.Dim.IsZero() {
		// безразмерные (rad, deg) не подставляем сами по себе
		return "", false
	}
	for _, name := range named {
		e := catalogue[name]
		if e.unit.Dim == u.Dim && approxEqual(e.unit.Scale, u.Scale) && e.unit.Offset == u.Offset {
			return name, true
		}
	}
	if u.Offset != 0 {
		return "", false
	}
	for _, name := range named {
		e := catalogue[name]
		if !e.prefixable || e.unit.Dim != u.Dim {
			continue
		}
		ratio := u.Scale / e.unit.Scale
		for _, p := range Prefixes {
			if p.Symbol == "u" {
				continue
			}
			if approxEqual(ratio, p.Factor) {
				return p.Symbol + name, true
			}
		}
	}
	return "", false
}
