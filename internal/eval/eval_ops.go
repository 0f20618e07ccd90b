package eval

import (
	"math"

	"exprua/internal/ast"
	"exprua/internal/diag"
	"exprua/internal/source"
	"exprua/internal/units"
)

// maxExponentDen bounds the denominator of a rational exponent on a unit.
const maxExponentDen = 64

func (ev *Evaluator) evalUnary(tree *ast.Tree, id ast.ExprID, expr *ast.Expr) (units.Value, error) {
	data, _ := tree.Exprs.Unary(id)
	v, err := ev.eval(tree, data.Operand)
	if err != nil {
		return units.Value{}, err
	}
	switch data.Op {
	case ast.ExprUnaryNeg:
		v.Mag = -v.Mag
		return v, nil
	default:
		return units.Value{}, &diag.SyntaxError{Expected: "unary operator", Found: data.Op.String(), Pos: expr.Span}
	}
}

func (ev *Evaluator) evalBinary(tree *ast.Tree, id ast.ExprID, expr *ast.Expr) (units.Value, error) {
	data, _ := tree.Exprs.Binary(id)
	left, err := ev.eval(tree, data.Left)
	if err != nil {
		return units.Value{}, err
	}
	right, err := ev.eval(tree, data.Right)
	if err != nil {
		return units.Value{}, err
	}

	var (
		v  units.Value
		op string
	)
	switch data.Op {
	case ast.ExprBinaryAdd:
		op = "add"
		v, err = evalAdditive(op, left, right, expr, 1)
	case ast.ExprBinarySub:
		op = "subtract"
		v, err = evalAdditive(op, left, right, expr, -1)
	case ast.ExprBinaryMul:
		op = "multiply"
		v, err = evalMul(left, right, expr)
	case ast.ExprBinaryDiv:
		op = "divide"
		v, err = evalDiv(left, right, expr, tree.Exprs.Get(data.Right).Span)
	case ast.ExprBinaryPow:
		op = "power"
		v, err = evalPow(left, right, expr, tree.Exprs.Get(data.Right).Span)
	default:
		return units.Value{}, &diag.SyntaxError{Expected: "binary operator", Found: data.Op.String(), Pos: expr.Span}
	}
	if err != nil {
		return units.Value{}, err
	}
	if !finite(v) {
		return units.Value{}, &diag.DomainError{Op: op, Pos: expr.Span}
	}
	return v, nil
}

// evalAdditive converts right into left's unit and combines the magnitudes.
// The result keeps left's unit.
func evalAdditive(op string, left, right units.Value, expr *ast.Expr, sign float64) (units.Value, error) {
	mag, ok := units.Convert(right.Mag, right.Unit, left.Unit)
	if !ok {
		return units.Value{}, &diag.IncompatibleUnitsError{
			Op:    op,
			UnitA: left.Unit.String(),
			UnitB: right.Unit.String(),
			Pos:   expr.Span,
		}
	}
	return units.Of(left.Mag+sign*mag, left.Unit), nil
}

// absolute drops an affine offset by moving v onto its SI unit. Offsets have
// no meaning once a unit is multiplied into another.
func absolute(v units.Value) units.Value {
	if v.Unit.Offset != 0 {
		return v.SI()
	}
	return v
}

func evalMul(left, right units.Value, expr *ast.Expr) (units.Value, error) {
	if !left.Unit.IsIdentity() && !right.Unit.IsIdentity() {
		left, right = absolute(left), absolute(right)
	}
	u, ok := units.Multiply(left.Unit, right.Unit)
	if !ok {
		return units.Value{}, exponentRange("multiply", expr)
	}
	return units.Of(left.Mag*right.Mag, u), nil
}

// evalDiv проверяет ноль уже после снятия смещения: -273.15 degC это 0 K.
func evalDiv(left, right units.Value, expr *ast.Expr, rightSpan source.Span) (units.Value, error) {
	if !right.Unit.IsIdentity() {
		left, right = absolute(left), absolute(right)
	}
	if right.Mag == 0 {
		return units.Value{}, &diag.DivisionByZeroError{Pos: rightSpan}
	}
	u, ok := units.Divide(left.Unit, right.Unit)
	if !ok {
		return units.Value{}, exponentRange("divide", expr)
	}
	return units.Of(left.Mag/right.Mag, u), nil
}

func exponentRange(op string, expr *ast.Expr) error {
	return &diag.DomainError{Op: op, Detail: "unit exponent out of range", Pos: expr.Span}
}

func evalPow(base, exp units.Value, expr *ast.Expr, expSpan source.Span) (units.Value, error) {
	if !exp.Unit.IsDimensionless() {
		return units.Value{}, &diag.UnitMismatchError{
			Expected: "dimensionless",
			Found:    exp.Unit.String(),
			Context:  "exponent",
			Pos:      expSpan,
		}
	}
	n := exp.Canonical()
	if n < 0 && base.Canonical() == 0 {
		return units.Value{}, &diag.DivisionByZeroError{Pos: expr.Span}
	}
	if base.Unit.IsDimensionless() {
		return units.Scalar(math.Pow(base.Canonical(), n)), nil
	}

	r, ok := units.RatFromFloat(n, maxExponentDen)
	if !ok {
		return units.Value{}, &diag.UnitMismatchError{
			Expected: "rational exponent",
			Found:    units.FormatMagnitude(n, units.DefaultPrecision),
			Context:  "exponent of a value with unit " + base.Unit.String(),
			Pos:      expSpan,
		}
	}
	if r != units.Int(1) {
		base = absolute(base)
	}
	u, ok := units.Pow(base.Unit, r)
	if !ok {
		return units.Value{}, exponentRange("power", expr)
	}
	return units.Of(math.Pow(base.Mag, r.Float64()), u), nil
}
