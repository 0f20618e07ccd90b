package eval

import (
	"strconv"

	"exprua/internal/ast"
	"exprua/internal/diag"
	"exprua/internal/source"
	"exprua/internal/symbols"
	"exprua/internal/units"
)

func (ev *Evaluator) evalCall(tree *ast.Tree, id ast.ExprID, expr *ast.Expr) (units.Value, error) {
	data, _ := tree.Exprs.Call(id)
	name := tree.Name(data.Name)

	sym, ok := ev.table.Lookup(name)
	if !ok {
		return units.Value{}, &diag.UndefinedSymbolError{Name: name, Pos: data.NameSpan}
	}
	if sym.Kind != symbols.KindFunction || sym.Fn == nil {
		return units.Value{}, &diag.SymbolKindError{Name: name, Want: "function", Pos: data.NameSpan}
	}
	fn := sym.Fn
	if !fn.Accepts(len(data.Args)) {
		return units.Value{}, &diag.ArityError{
			Name:     name,
			Expected: fn.Arity,
			Variadic: fn.Variadic,
			Got:      len(data.Args),
			Pos:      expr.Span,
		}
	}

	args := make([]units.Value, len(data.Args))
	spans := make([]source.Span, len(data.Args))
	for i, argID := range data.Args {
		v, err := ev.eval(tree, argID)
		if err != nil {
			return units.Value{}, err
		}
		args[i] = v
		spans[i] = tree.Exprs.Get(argID).Span
	}
	if err := checkArgs(fn, args, spans); err != nil {
		return units.Value{}, err
	}

	v, err := fn.Impl(args)
	if err != nil {
		return units.Value{}, &diag.DomainError{Op: name, Detail: err.Error(), Pos: expr.Span}
	}
	if !finite(v) {
		return units.Value{}, &diag.DomainError{Op: name, Pos: expr.Span}
	}
	return v, nil
}

// checkArgs enforces fn's argument rule, rewriting args in place into the
// form the implementation expects.
func checkArgs(fn *symbols.Builtin, args []units.Value, spans []source.Span) error {
	switch fn.Args {
	case symbols.ArgDimensionless:
		for i, a := range args {
			if !a.Unit.IsDimensionless() {
				return &diag.UnitMismatchError{
					Expected: "dimensionless",
					Found:    a.Unit.String(),
					Context:  argContext(fn, i),
					Pos:      spans[i],
				}
			}
			// sin(90 deg) видит pi/2
			args[i] = units.Scalar(a.Canonical())
		}
	case symbols.ArgSameAsFirst, symbols.ArgCompatible:
		first := args[0].Unit
		for i := 1; i < len(args); i++ {
			if !units.Compatible(first, args[i].Unit) {
				return &diag.UnitMismatchError{
					Expected: "unit compatible with " + quoteUnit(first),
					Found:    args[i].Unit.String(),
					Context:  argContext(fn, i),
					Pos:      spans[i],
				}
			}
			if fn.Args == symbols.ArgSameAsFirst {
				args[i], _ = args[i].In(first)
			}
		}
	case symbols.ArgAny:
	}
	return nil
}

func argContext(fn *symbols.Builtin, i int) string {
	return "argument " + strconv.Itoa(i+1) + " of " + fn.Name
}

func quoteUnit(u units.Unit) string {
	s := u.String()
	if s == "" {
		return "dimensionless"
	}
	return "'" + s + "'"
}
