package units

import (
	"math"
	"strconv"

	"fortio.org/safecast"
)

// Rat is an exact rational exponent. Values are always kept normalized so
// that two equal rationals compare equal with ==; the zero value is 0.
type Rat struct {
	num int64
	den int64 // 0 кодирует знаменатель 1
}

// maxExponent bounds numerators and denominators produced by Pow.
const maxExponent = 1 << 24

// Int returns n as a rational.
func Int(n int64) Rat {
	return Rat{num: n}
}

// NewRat returns num/den reduced to lowest terms. It panics if den is zero.
func NewRat(num, den int64) Rat {
	if den == 0 {
		panic("units: zero denominator")
	}
	if den < 0 {
		num, den = -num, -den
	}
	if g := gcd(absInt(num), den); g > 1 {
		num /= g
		den /= g
	}
	if den == 1 {
		den = 0
	}
	return Rat{num: num, den: den}
}

func (r Rat) Num() int64 { return r.num }

func (r Rat) Den() int64 {
	if r.den == 0 {
		return 1
	}
	return r.den
}

func (r Rat) IsZero() bool { return r.num == 0 }
func (r Rat) IsInt() bool  { return r.den == 0 }
func (r Rat) Neg() Rat     { return Rat{num: -r.num, den: r.den} }

// Add returns r+o. It fails when an intermediate product leaves int64.
func (r Rat) Add(o Rat) (Rat, bool) {
	a, ok1 := mulInt(r.num, o.Den())
	b, ok2 := mulInt(o.num, r.Den())
	den, ok3 := mulInt(r.Den(), o.Den())
	num, ok4 := addInt(a, b)
	if !ok1 || !ok2 || !ok3 || !ok4 {
		return Rat{}, false
	}
	return NewRat(num, den), true
}

func (r Rat) Sub(o Rat) (Rat, bool) {
	return r.Add(o.Neg())
}

// Mul returns r*o with the same overflow rule as Add.
func (r Rat) Mul(o Rat) (Rat, bool) {
	num, ok1 := mulInt(r.num, o.num)
	den, ok2 := mulInt(r.Den(), o.Den())
	if !ok1 || !ok2 {
		return Rat{}, false
	}
	return NewRat(num, den), true
}

// Float64 returns the nearest float64.
func (r Rat) Float64() float64 {
	return float64(r.num) / float64(r.Den())
}

func (r Rat) String() string {
	if r.IsInt() {
		return strconv.FormatInt(r.num, 10)
	}
	return strconv.FormatInt(r.num, 10) + "/" + strconv.FormatInt(r.den, 10)
}

// bounded reports whether r is small enough to be used as an exponent.
func (r Rat) bounded() bool {
	return absInt(r.num) <= maxExponent && r.Den() <= maxExponent
}

// RatFromFloat recovers a rational with denominator at most maxDen from f
// using continued fractions. It fails for non-finite or huge values and
// for values that are not within 1e-12 of such a rational.
func RatFromFloat(f float64, maxDen int64) (Rat, bool) {
	if math.IsNaN(f) || math.IsInf(f, 0) || math.Abs(f) > maxExponent {
		return Rat{}, false
	}
	tol := 1e-12 * math.Max(1, math.Abs(f))
	var h0, h1 int64 = 0, 1
	var k0, k1 int64 = 1, 0
	x := f
	for range 40 {
		a := math.Floor(x)
		ai, err := safecast.Convert[int64](a)
		if err != nil {
			return Rat{}, false
		}
		h2 := ai*h1 + h0
		k2 := ai*k1 + k0
		if k2 > maxDen {
			break
		}
		h0, h1 = h1, h2
		k0, k1 = k1, k2
		if math.Abs(float64(h1)/float64(k1)-f) <= tol {
			return NewRat(h1, k1), true
		}
		frac := x - a
		if frac == 0 {
			break
		}
		x = 1 / frac
	}
	return Rat{}, false
}

func gcd(a, b int64) int64 {
	for b != 0 {
		a, b = b, a%b
	}
	return a
}

func absInt(n int64) int64 {
	if n < 0 {
		return -n
	}
	return n
}

func mulInt(a, b int64) (int64, bool) {
	if a == 0 || b == 0 {
		return 0, true
	}
	if (a == -1 && b == math.MinInt64) || (b == -1 && a == math.MinInt64) {
		return 0, false
	}
	c := a * b
	return c, c/b == a
}

func addInt(a, b int64) (int64, bool) {
	c := a + b
	if (b > 0 && c < a) || (b < 0 && c > a) {
		return 0, false
	}
	return c, true
}
