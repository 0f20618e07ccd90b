package units

import (
	"errors"
	"math"
	"testing"
)

func mustLookup(t *testing.T, name string) Unit {
	t.Helper()
	u, ok := Lookup(name)
	if !ok {
		t.Fatalf("Lookup(%q) failed", name)
	}
	return u
}

func mul(t *testing.T, a, b Unit) Unit {
	t.Helper()
	u, ok := Multiply(a, b)
	if !ok {
		t.Fatalf("Multiply(%s, %s) out of range", a, b)
	}
	return u
}

func div(t *testing.T, a, b Unit) Unit {
	t.Helper()
	u, ok := Divide(a, b)
	if !ok {
		t.Fatalf("Divide(%s, %s) out of range", a, b)
	}
	return u
}

func closeTo(a, b float64) bool {
	return math.Abs(a-b) <= 1e-9*math.Max(1, math.Abs(b))
}

func TestRatNormalization(t *testing.T) {
	if NewRat(2, 4) != NewRat(1, 2) {
		t.Errorf("2/4 != 1/2")
	}
	if r := NewRat(3, -6); r.String() != "-1/2" {
		t.Errorf("3/-6 = %s", r)
	}
	if Int(0) != (Rat{}) {
		t.Errorf("zero value is not 0")
	}
	if r, ok := NewRat(1, 2).Add(NewRat(1, 2)); !ok || r != Int(1) || !r.IsInt() {
		t.Errorf("1/2+1/2 = %s", r)
	}
	if r, ok := NewRat(2, 3).Mul(NewRat(3, 4)); !ok || r != NewRat(1, 2) {
		t.Errorf("2/3*3/4 = %s", r)
	}
	if r, ok := Int(1).Sub(Int(3)); !ok || r != Int(-2) {
		t.Errorf("1-3 = %s", r)
	}
}

func TestRatOverflow(t *testing.T) {
	cases := []struct {
		name string
		op   func() (Rat, bool)
	}{
		{"add max", func() (Rat, bool) { return Int(math.MaxInt64).Add(Int(1)) }},
		{"sub min", func() (Rat, bool) { return Int(math.MinInt64 + 1).Sub(Int(2)) }},
		{"mul", func() (Rat, bool) { return Int(1 << 40).Mul(Int(1 << 40)) }},
		{"mul min", func() (Rat, bool) { return Int(math.MinInt64).Mul(Int(-1)) }},
		{"add dens", func() (Rat, bool) { return NewRat(1, 1<<40).Add(NewRat(1, 1<<40-1)) }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if r, ok := tc.op(); ok {
				t.Errorf("overflow accepted: %s", r)
			}
		})
	}
	if r, ok := Int(math.MaxInt64 - 1).Add(Int(1)); !ok || r.Num() != math.MaxInt64 {
		t.Errorf("MaxInt64-1 + 1 = %s, %v", r, ok)
	}
}

// Exponents near the bound must not wrap when products accumulate.
func TestProductExponentRange(t *testing.T) {
	m := mustLookup(t, "m")
	root := func(den int64) Unit {
		u, ok := Pow(m, NewRat(1, den))
		if !ok {
			t.Fatalf("m^(1/%d) rejected", den)
		}
		return u
	}
	a, b := root(16777216), root(16777215)
	if _, ok := Multiply(a, b); ok {
		t.Errorf("m^(1/16777216) * m^(1/16777215) accepted")
	}
	if _, ok := Divide(a, b); ok {
		t.Errorf("m^(1/16777216) / m^(1/16777215) accepted")
	}
	// в пределах диапазона произведение точное
	half := root(2)
	if got := mul(t, half, half); got.Dim != m.Dim {
		t.Errorf("m^(1/2)*m^(1/2) = %s", got.Dim)
	}
	_, err := Compose([]Term{
		{Name: "m", Exp: NewRat(1, 16777216)},
		{Name: "m", Exp: NewRat(1, 16777215)},
	})
	if !errors.Is(err, ErrExponentRange) {
		t.Errorf("Compose overflow: %v", err)
	}
}

func TestRatFromFloat(t *testing.T) {
	cases := []struct {
		in   float64
		want Rat
		ok   bool
	}{
		{2, Int(2), true},
		{0.5, NewRat(1, 2), true},
		{-1.5, NewRat(-3, 2), true},
		{1.0 / 3.0, NewRat(1, 3), true},
		{0, Int(0), true},
		{math.Pi, Rat{}, false},
		{math.Inf(1), Rat{}, false},
		{math.NaN(), Rat{}, false},
		{1e30, Rat{}, false},
	}
	for _, tc := range cases {
		got, ok := RatFromFloat(tc.in, 64)
		if ok != tc.ok || (ok && got != tc.want) {
			t.Errorf("RatFromFloat(%v) = %s, %v; want %s, %v", tc.in, got, ok, tc.want, tc.ok)
		}
	}
}

func TestDimString(t *testing.T) {
	cases := []struct {
		dim  Dim
		want string
	}{
		{Dim{}, ""},
		{Dim{Mass: Int(1), Length: Int(1), Time: Int(-2)}, "kg*m/s^2"},
		{Dim{Time: Int(-1)}, "s^-1"},
		{Dim{Length: NewRat(1, 2)}, "m^(1/2)"},
		{Dim{Length: Int(-1), Time: Int(-1)}, "m^-1*s^-1"},
		{Dim{Mass: Int(1), Length: Int(2), Time: Int(-3), Current: Int(-2)}, "kg*m^2/s^3/A^2"},
	}
	for _, tc := range cases {
		if got := tc.dim.String(); got != tc.want {
			t.Errorf("got %q, want %q", got, tc.want)
		}
	}
}

func TestLookup(t *testing.T) {
	cases := []struct {
		name  string
		scale float64
		dim   Dim
	}{
		{"m", 1, DimOf(Length, 1)},
		{"km", 1e3, DimOf(Length, 1)},
		{"mm", 1e-3, DimOf(Length, 1)},
		{"μs", 1e-6, DimOf(Time, 1)},
		{"us", 1e-6, DimOf(Time, 1)},
		{"kHz", 1e3, DimOf(Time, -1)},
		{"min", 60, DimOf(Time, 1)},
		{"h", 3600, DimOf(Time, 1)},
		{"mol", 1, DimOf(Amount, 1)},
		{"cd", 1, DimOf(Luminosity, 1)},
		{"hPa", 100, Dim{Mass: Int(1), Length: Int(-1), Time: Int(-2)}},
		{"g", 1e-3, DimOf(Mass, 1)},
		{"mg", 1e-6, DimOf(Mass, 1)},
		{"dam", 10, DimOf(Length, 1)},
		{"L", 1e-3, DimOf(Length, 3)},
		{"kΩ", 1e3, Dim{Mass: Int(1), Length: Int(2), Time: Int(-3), Current: Int(-2)}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			u := mustLookup(t, tc.name)
			if !closeTo(u.Scale, tc.scale) || u.Dim != tc.dim {
				t.Errorf("got scale %v dim %s", u.Scale, u.Dim)
			}
			if u.Symbol != tc.name {
				t.Errorf("symbol %q", u.Symbol)
			}
		})
	}
	for _, bad := range []string{"foo", "kkg", "da", "mL", "k", ""} {
		if IsUnit(bad) {
			t.Errorf("IsUnit(%q) = true", bad)
		}
	}
}

func TestAlgebraNames(t *testing.T) {
	kg, m, s := mustLookup(t, "kg"), mustLookup(t, "m"), mustLookup(t, "s")
	s2, ok := Pow(s, Int(2))
	if !ok {
		t.Fatal("s^2")
	}
	newton := div(t, mul(t, kg, m), s2)
	if name, _ := newton.Name(); name != "N" {
		t.Errorf("kg*m/s^2 printed as %q", name)
	}
	if name, _ := div(t, Dimensionless, s).Name(); name != "Hz" {
		t.Errorf("1/s printed as %q", name)
	}
	m2, _ := Pow(m, Int(2))
	if name, _ := m2.Name(); name != "m^2" {
		t.Errorf("m^2 printed as %q", name)
	}
	root, _ := Pow(m, NewRat(1, 2))
	if name, _ := root.Name(); name != "m^(1/2)" {
		t.Errorf("sqrt(m) printed as %q", name)
	}
	km := mustLookup(t, "km")
	kmkm := mul(t, km, km)
	if _, ok := kmkm.Name(); ok {
		t.Errorf("km*km should have no display name")
	}
	if got := kmkm.String(); got != "1e+06*m^2" {
		t.Errorf("km*km String = %q", got)
	}
	if got := mul(t, m, mul(t, m, Dimensionless)); got.Symbol != "" || got.Dim != DimOf(Length, 2) {
		t.Errorf("m*m = %+v", got)
	}
	// умножение на число сохраняет символ
	if got := mul(t, Dimensionless, km); got.Symbol != "km" {
		t.Errorf("1*km lost symbol: %+v", got)
	}
	if got := mul(t, kg, m); got.Offset != 0 || got.Symbol != "" {
		t.Errorf("composite kept symbol or offset: %+v", got)
	}
	degC := mustLookup(t, "degC")
	if got := mul(t, degC, m); got.Offset != 0 {
		t.Errorf("offset survived multiply: %+v", got)
	}
	// умножение на число масштабирует значение в той же шкале
	if got := mul(t, Dimensionless, degC); !Same(got, degC) {
		t.Errorf("1*degC = %+v", got)
	}
}

func TestRepeatedAlgebraIsExact(t *testing.T) {
	m, s := mustLookup(t, "m"), mustLookup(t, "s")
	u := m
	for range 50 {
		u = div(t, mul(t, u, s), s)
	}
	if u.Dim != m.Dim {
		t.Errorf("drift: %s", u.Dim)
	}
	third, _ := Pow(m, NewRat(1, 3))
	back := mul(t, mul(t, third, third), third)
	if back.Dim != m.Dim {
		t.Errorf("(m^(1/3))^3 = %s", back.Dim)
	}
}

func TestPowRange(t *testing.T) {
	m := mustLookup(t, "m")
	big, ok := Pow(m, Int(1<<20))
	if !ok {
		t.Fatal("m^(2^20) rejected")
	}
	if _, ok := Pow(big, Int(1<<20)); ok {
		t.Errorf("exponent overflow accepted")
	}
	if u, ok := Pow(m, Int(0)); !ok || !u.IsIdentity() {
		t.Errorf("m^0 = %+v", u)
	}
}

func TestConvert(t *testing.T) {
	cases := []struct {
		v        float64
		from, to string
		want     float64
	}{
		{1, "km", "m", 1000},
		{1500, "m", "km", 1.5},
		{2, "h", "min", 120},
		{20, "degC", "K", 293.15},
		{212, "degF", "degC", 100},
		{1, "bar", "kPa", 100},
		{180, "deg", "rad", math.Pi},
	}
	for _, tc := range cases {
		got, ok := Convert(tc.v, mustLookup(t, tc.from), mustLookup(t, tc.to))
		if !ok || !closeTo(got, tc.want) {
			t.Errorf("convert %v %s -> %s = %v, %v; want %v", tc.v, tc.from, tc.to, got, ok, tc.want)
		}
	}
	if _, ok := Convert(1, mustLookup(t, "m"), mustLookup(t, "s")); ok {
		t.Errorf("m -> s converted")
	}
}

func TestCanonicalEquivalence(t *testing.T) {
	a := Of(1, mustLookup(t, "km"))
	b := Of(1000, mustLookup(t, "m"))
	if a.Canonical() != b.Canonical() {
		t.Errorf("1 km = %v, 1000 m = %v", a.Canonical(), b.Canonical())
	}
	if got := a.SI().String(); got != "1000 m" {
		t.Errorf("si(1 km) = %q", got)
	}
}

func TestValueFormat(t *testing.T) {
	km, h := mustLookup(t, "km"), mustLookup(t, "h")
	cases := []struct {
		v    Value
		want string
	}{
		{Scalar(4), "4"},
		{Scalar(math.Copysign(0, -1)), "0"},
		{Scalar(0.1 + 0.2), "0.3"},
		{Of(8, mustLookup(t, "m")), "8 m"},
		{Of(10, mustLookup(t, "kg")), "10 kg"},
		{Of(36, div(t, km, h)), "10 m/s"},
		{Of(2, mul(t, km, km)), "2000000 m^2"},
		{Of(-3.5, mustLookup(t, "degC")), "-3.5 degC"},
		{Scalar(6.02e23), "6.02e+23"},
	}
	for _, tc := range cases {
		if got := tc.v.String(); got != tc.want {
			t.Errorf("got %q, want %q", got, tc.want)
		}
	}
	if got := Scalar(math.Pi).Format(3); got != "3.14" {
		t.Errorf("Format(3) = %q", got)
	}
}

func TestComposeTerms(t *testing.T) {
	u, err := Compose([]Term{
		{Name: "m", Exp: Int(1)},
		{Name: "s", Exp: NewRat(1, 2), Div: true},
	})
	if err != nil {
		t.Fatal(err)
	}
	if u.Dim != (Dim{Length: Int(1), Time: NewRat(-1, 2)}) {
		t.Errorf("dim %s", u.Dim)
	}
	if u.Symbol != "m/s^(1/2)" {
		t.Errorf("symbol %q", u.Symbol)
	}
	u, err = Compose([]Term{{Name: "km", Exp: Int(1)}})
	if err != nil || u.Symbol != "km" || u.Scale != 1000 {
		t.Errorf("Compose(km) = %+v, %v", u, err)
	}
	u, err = Compose([]Term{{Name: "degC", Exp: Int(1)}})
	if err != nil || u.Offset != 273.15 {
		t.Errorf("degC lost offset: %+v", u)
	}
	u, err = Compose([]Term{{Name: "degC", Exp: Int(1)}, {Name: "m", Exp: Int(1)}})
	if err != nil || u.Offset != 0 {
		t.Errorf("composite degC*m kept offset: %+v", u)
	}

	_, err = Compose([]Term{{Name: "m", Exp: Int(1)}, {Name: "foo", Exp: Int(1)}})
	var ue *UnknownError
	if !errors.As(err, &ue) || ue.Name != "foo" || ue.Index != 1 {
		t.Errorf("expected UnknownError for foo, got %v", err)
	}
}

func TestNames(t *testing.T) {
	names := Names()
	seen := map[string]bool{}
	for _, n := range names {
		seen[n] = true
	}
	for _, want := range []string{"m", "kg", "N", "Ω", "degC", "rad", "bar"} {
		if !seen[want] {
			t.Errorf("catalogue misses %q", want)
		}
	}
}
