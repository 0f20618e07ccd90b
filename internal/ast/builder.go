package ast

import (
	"exprua/internal/source"
)

type Hints struct{ Exprs uint }

// Builder owns the arenas and the name interner of one parse.
type Builder struct {
	Exprs           *Exprs
	StringsInterner *source.Interner
}

func NewBuilder(hints Hints) *Builder {
	return &Builder{
		Exprs:           NewExprs(hints.Exprs),
		StringsInterner: source.NewInterner(),
	}
}

// Name resolves an interned identifier.
func (b *Builder) Name(id source.StringID) string {
	return b.StringsInterner.MustLookup(id)
}

// Tree is the result of one parse: the node arenas plus the single root.
// Nodes are only reachable from Root, so the tree is acyclic by construction.
type Tree struct {
	*Builder
	Root ExprID
}

// Children returns the direct children of id in source order.
func (t *Tree) Children(id ExprID) []ExprID {
	expr := t.Exprs.Get(id)
	if expr == nil {
		return nil
	}
	switch expr.Kind {
	case ExprUnary:
		data, _ := t.Exprs.Unary(id)
		return []ExprID{data.Operand}
	case ExprBinary:
		data, _ := t.Exprs.Binary(id)
		return []ExprID{data.Left, data.Right}
	case ExprCall:
		data, _ := t.Exprs.Call(id)
		return data.Args
	case ExprAssign:
		data, _ := t.Exprs.Assign(id)
		return []ExprID{data.Value}
	default:
		return nil
	}
}

// Walk visits the subtree under id in pre-order. Returning false from fn
// skips the children of the visited node.
func (t *Tree) Walk(id ExprID, fn func(id ExprID, depth int) bool) {
	t.walk(id, 0, fn)
}

func (t *Tree) walk(id ExprID, depth int, fn func(ExprID, int) bool) {
	if !id.IsValid() || !fn(id, depth) {
		return
	}
	for _, child := range t.Children(id) {
		t.walk(child, depth+1, fn)
	}
}

// Depth returns the height of the tree; a single node has depth 1.
func (t *Tree) Depth() int {
	maxDepth := 0
	t.Walk(t.Root, func(_ ExprID, depth int) bool {
		maxDepth = max(maxDepth, depth+1)
		return true
	})
	return maxDepth
}
