// Package units implements dimensional analysis for the expression engine.
//
// A Unit is a vector of rational exponents over the seven SI base
// dimensions, a scale factor to canonical SI and an additive offset for
// affine families such as degC. Units compose with Multiply, Divide and Pow;
// offsets never survive composition. Exponents are exact rationals, so
// repeated multiplication and division never drift.
//
// The catalogue of named units (base, derived, SI-prefixed and a few
// customary ones) is immutable and shared by every session.
package units
