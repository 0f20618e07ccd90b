package symbols

import (
	"errors"
	"math"

	"exprua/internal/units"
)

// ArgRule states what units a built-in accepts.
type ArgRule uint8

const (
	// ArgDimensionless: every argument must be dimensionless. The function
	// receives canonical magnitudes, so sin(90 deg) sees pi/2.
	ArgDimensionless ArgRule = iota + 1
	// ArgAny: a single argument of any unit, passed through unchanged.
	ArgAny
	// ArgSameAsFirst: all arguments share the first argument's dimension and
	// are converted into its unit before the call.
	ArgSameAsFirst
	// ArgCompatible: all arguments share one dimension; no conversion.
	ArgCompatible
)

func (r ArgRule) String() string {
	switch r {
	case ArgDimensionless:
		return "dimensionless"
	case ArgAny:
		return "any"
	case ArgSameAsFirst, ArgCompatible:
		return "compatible"
	default:
		return "invalid"
	}
}

// Builtin describes a built-in function. Arity is exact unless Variadic, in
// which case it is the minimum.
type Builtin struct {
	Name     string
	Arity    int
	Variadic bool
	Args     ArgRule
	Params   []string // имена для Signature; по умолчанию x
	Doc      string
	Impl     func(args []units.Value) (units.Value, error)
}

// Accepts reports whether n arguments satisfy the arity.
func (b *Builtin) Accepts(n int) bool {
	if b.Variadic {
		return n >= b.Arity
	}
	return n == b.Arity
}

// Signature renders the call shape, e.g. "atan2(y, x)" or "sum(x, ...)".
func (b *Builtin) Signature() string {
	s := b.Name + "("
	for i := range b.Arity {
		if i > 0 {
			s += ", "
		}
		if i < len(b.Params) {
			s += b.Params[i]
		} else {
			s += "x"
		}
	}
	if b.Variadic {
		s += ", ..."
	}
	return s + ")"
}

var constants = []struct {
	name  string
	value float64
}{
	{"pi", math.Pi},
	{"e", math.E},
}

// ErrExponentRange is returned by sqrt when halving exponents overflows.
var ErrExponentRange = errors.New("unit exponent out of range")

func scalar1(f func(float64) float64) func([]units.Value) (units.Value, error) {
	return func(args []units.Value) (units.Value, error) {
		return units.Scalar(f(args[0].Mag)), nil
	}
}

// keepUnit applies f to the magnitude in the argument's own unit.
func keepUnit(f func(float64) float64) func([]units.Value) (units.Value, error) {
	return func(args []units.Value) (units.Value, error) {
		return units.Of(f(args[0].Mag), args[0].Unit), nil
	}
}

var builtins = []*Builtin{
	{Name: "sin", Arity: 1, Args: ArgDimensionless, Doc: "sine", Impl: scalar1(math.Sin)},
	{Name: "cos", Arity: 1, Args: ArgDimensionless, Doc: "cosine", Impl: scalar1(math.Cos)},
	{Name: "tan", Arity: 1, Args: ArgDimensionless, Doc: "tangent", Impl: scalar1(math.Tan)},
	{Name: "asin", Arity: 1, Args: ArgDimensionless, Doc: "arcsine in radians", Impl: scalar1(math.Asin)},
	{Name: "acos", Arity: 1, Args: ArgDimensionless, Doc: "arccosine in radians", Impl: scalar1(math.Acos)},
	{Name: "atan", Arity: 1, Args: ArgDimensionless, Doc: "arctangent in radians", Impl: scalar1(math.Atan)},
	{Name: "atan2", Arity: 2, Args: ArgSameAsFirst, Params: []string{"y", "x"}, Doc: "angle of the point (x, y)", Impl: func(args []units.Value) (units.Value, error) {
		return units.Scalar(math.Atan2(args[0].Mag, args[1].Mag)), nil
	}},
	{Name: "exp", Arity: 1, Args: ArgDimensionless, Doc: "e raised to x", Impl: scalar1(math.Exp)},
	{Name: "log", Arity: 1, Args: ArgDimensionless, Doc: "natural logarithm", Impl: scalar1(math.Log)},
	{Name: "log10", Arity: 1, Args: ArgDimensionless, Doc: "base-10 logarithm", Impl: scalar1(math.Log10)},
	{Name: "log2", Arity: 1, Args: ArgDimensionless, Doc: "base-2 logarithm", Impl: scalar1(math.Log2)},
	{Name: "sqrt", Arity: 1, Args: ArgAny, Doc: "square root; halves unit exponents", Impl: sqrt},
	{Name: "abs", Arity: 1, Args: ArgAny, Doc: "absolute value", Impl: keepUnit(math.Abs)},
	{Name: "floor", Arity: 1, Args: ArgAny, Doc: "round down in the argument's unit", Impl: keepUnit(math.Floor)},
	{Name: "ceil", Arity: 1, Args: ArgAny, Doc: "round up in the argument's unit", Impl: keepUnit(math.Ceil)},
	{Name: "round", Arity: 1, Args: ArgAny, Doc: "round half away from zero in the argument's unit", Impl: keepUnit(math.Round)},
	{Name: "hypot", Arity: 2, Args: ArgSameAsFirst, Params: []string{"x", "y"}, Doc: "sqrt(x^2 + y^2)", Impl: func(args []units.Value) (units.Value, error) {
		return units.Of(math.Hypot(args[0].Mag, args[1].Mag), args[0].Unit), nil
	}},
	{Name: "sum", Arity: 1, Variadic: true, Args: ArgSameAsFirst, Doc: "sum in the first argument's unit", Impl: sum},
	{Name: "avg", Arity: 1, Variadic: true, Args: ArgSameAsFirst, Doc: "mean in the first argument's unit", Impl: func(args []units.Value) (units.Value, error) {
		total, _ := sum(args)
		total.Mag /= float64(len(args))
		return total, nil
	}},
	{Name: "convert", Arity: 2, Args: ArgCompatible, Params: []string{"x", "unit"}, Doc: "x expressed in the unit of y", Impl: func(args []units.Value) (units.Value, error) {
		v, _ := args[0].In(args[1].Unit)
		return v, nil
	}},
	{Name: "si", Arity: 1, Args: ArgAny, Doc: "x in canonical SI base units", Impl: func(args []units.Value) (units.Value, error) {
		return args[0].SI(), nil
	}},
	{Name: "magnitude", Arity: 1, Args: ArgAny, Doc: "x without its unit", Impl: func(args []units.Value) (units.Value, error) {
		return units.Scalar(args[0].Mag), nil
	}},
}

// sqrt agrees with x^(1/2): affine units are taken absolute first.
func sqrt(args []units.Value) (units.Value, error) {
	x := args[0]
	if x.Unit.Offset != 0 {
		x = x.SI()
	}
	u, ok := units.Pow(x.Unit, units.NewRat(1, 2))
	if !ok {
		return units.Value{}, ErrExponentRange
	}
	return units.Of(math.Sqrt(x.Mag), u), nil
}

func sum(args []units.Value) (units.Value, error) {
	total := units.Of(0, args[0].Unit)
	for _, a := range args {
		total.Mag += a.Mag
	}
	return total, nil
}

// Builtins returns the built-in function descriptors in declaration order.
func Builtins() []*Builtin {
	out := make([]*Builtin, len(builtins))
	copy(out, builtins)
	return out
}
