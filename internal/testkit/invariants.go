// Package testkit holds structural checks shared by tests and fuzz targets.
package testkit

import (
	"fmt"

	"exprua/internal/ast"
	"exprua/internal/source"
)

// CheckTree runs the structural invariants of a parsed expression:
// 1) the root is valid and every node is reached exactly once (no cycles,
// no shared children)
// 2) every span is ordered and lies within the text
// 3) every child span is contained in its parent's span
// 4) leaves (literals, identifiers) have non-empty spans
func CheckTree(tree *ast.Tree, text *source.Text) error {
	if tree == nil || text == nil {
		return fmt.Errorf("nil tree or text")
	}
	if !tree.Root.IsValid() {
		return fmt.Errorf("tree has no root")
	}
	seen := make(map[ast.ExprID]bool, tree.Exprs.Len())
	return checkNode(tree, text, tree.Root, source.Span{Start: 0, End: text.Len()}, seen)
}

func checkNode(tree *ast.Tree, text *source.Text, id ast.ExprID, bounds source.Span, seen map[ast.ExprID]bool) error {
	if seen[id] {
		return fmt.Errorf("node %d reached twice", id)
	}
	seen[id] = true

	expr := tree.Exprs.Get(id)
	if expr == nil {
		return fmt.Errorf("node %d not found", id)
	}
	sp := expr.Span
	if sp.End < sp.Start {
		return fmt.Errorf("%s node %d: inverted span %v", expr.Kind, id, sp)
	}
	if sp.Start < bounds.Start || sp.End > bounds.End {
		return fmt.Errorf("%s node %d: span %v outside %v", expr.Kind, id, sp, bounds)
	}
	if (expr.Kind == ast.ExprLit || expr.Kind == ast.ExprIdent) && sp.Empty() {
		return fmt.Errorf("%s node %d: empty span", expr.Kind, id)
	}
	for _, child := range tree.Children(id) {
		if err := checkNode(tree, text, child, sp, seen); err != nil {
			return err
		}
	}
	return nil
}
