package eval

import (
	"errors"
	"fmt"
	"math"

	"exprua/internal/ast"
	"exprua/internal/diag"
	"exprua/internal/symbols"
	"exprua/internal/trace"
	"exprua/internal/units"
)

// DefaultMaxDepth bounds recursion when Options.MaxDepth is unset.
const DefaultMaxDepth = 256

// Table is the view of the symbol table the evaluator needs.
type Table interface {
	Lookup(name string) (symbols.Symbol, bool)
	Define(name string, v units.Value) error
}

// Options tune one Evaluator.
type Options struct {
	// MaxDepth is the nesting ceiling; zero or negative selects DefaultMaxDepth.
	MaxDepth int
	// Tracer receives node and symbol events; nil disables tracing.
	Tracer trace.Tracer
	// Parent is the span node events are attached to.
	Parent uint64
}

// Evaluator computes values of trees against one table.
type Evaluator struct {
	table  Table
	opts   Options
	tracer trace.Tracer
	depth  int
	nodes  int
}

// New creates an Evaluator bound to table.
func New(table Table, opts Options) *Evaluator {
	if opts.MaxDepth <= 0 {
		opts.MaxDepth = DefaultMaxDepth
	}
	tracer := opts.Tracer
	if tracer == nil {
		tracer = trace.Nop
	}
	return &Evaluator{table: table, opts: opts, tracer: tracer}
}

// Nodes returns how many nodes the last Evaluate visited.
func (ev *Evaluator) Nodes() int {
	return ev.nodes
}

// Evaluate computes the value of tree. An assignment returns the stored value.
func (ev *Evaluator) Evaluate(tree *ast.Tree) (units.Value, error) {
	ev.depth = 0
	ev.nodes = 0
	if tree == nil || !tree.Root.IsValid() {
		return units.Value{}, fmt.Errorf("eval: empty tree")
	}
	return ev.eval(tree, tree.Root)
}

func (ev *Evaluator) eval(tree *ast.Tree, id ast.ExprID) (units.Value, error) {
	expr := tree.Exprs.Get(id)
	if expr == nil {
		return units.Value{}, fmt.Errorf("eval: dangling expression id %d", id)
	}
	ev.depth++
	defer func() { ev.depth-- }()
	if ev.depth > ev.opts.MaxDepth {
		return units.Value{}, &diag.DepthLimitError{Limit: ev.opts.MaxDepth, Pos: expr.Span}
	}
	ev.nodes++

	var (
		v   units.Value
		err error
	)
	switch expr.Kind {
	case ast.ExprLit:
		data, _ := tree.Exprs.Literal(id)
		v = data.Value
	case ast.ExprIdent:
		data, _ := tree.Exprs.Ident(id)
		v, err = ev.evalIdent(tree.Name(data.Name), expr)
	case ast.ExprUnary:
		v, err = ev.evalUnary(tree, id, expr)
	case ast.ExprBinary:
		v, err = ev.evalBinary(tree, id, expr)
	case ast.ExprCall:
		v, err = ev.evalCall(tree, id, expr)
	case ast.ExprAssign:
		v, err = ev.evalAssign(tree, id)
	default:
		return units.Value{}, fmt.Errorf("eval: unexpected expression kind %v", expr.Kind)
	}
	if err != nil {
		return units.Value{}, err
	}
	if ev.tracer.Level() >= trace.LevelDebug {
		trace.Point(ev.tracer, trace.ScopeNode, "node", ev.opts.Parent, expr.Kind.String()+" => "+v.String())
	}
	return v, nil
}

func (ev *Evaluator) evalIdent(name string, expr *ast.Expr) (units.Value, error) {
	sym, ok := ev.table.Lookup(name)
	if !ok {
		return units.Value{}, &diag.UndefinedSymbolError{Name: name, Pos: expr.Span}
	}
	if sym.Kind == symbols.KindFunction {
		return units.Value{}, &diag.SymbolKindError{Name: name, Want: "value", Pos: expr.Span}
	}
	return sym.Value, nil
}

func (ev *Evaluator) evalAssign(tree *ast.Tree, id ast.ExprID) (units.Value, error) {
	data, _ := tree.Exprs.Assign(id)
	name := tree.Name(data.Name)
	// правая часть вычисляется до связывания: x = x + 1 без x это ошибка
	v, err := ev.eval(tree, data.Value)
	if err != nil {
		return units.Value{}, err
	}
	if err := ev.table.Define(name, v); err != nil {
		var reserved *diag.ReservedNameError
		if errors.As(err, &reserved) {
			reserved.Pos = data.NameSpan
		}
		return units.Value{}, err
	}
	trace.Point(ev.tracer, trace.ScopeSymbol, "define", ev.opts.Parent, name+" = "+v.String())
	return v, nil
}

// finite guards every computed magnitude.
func finite(v units.Value) bool {
	return !math.IsNaN(v.Mag) && !math.IsInf(v.Mag, 0)
}
