package ast

import (
	"exprua/internal/units"
)

// Equal reports whether two subtrees have the same shape, operators, names
// and literal values. Spans and raw spellings are ignored.
func Equal(a *Tree, aid ExprID, b *Tree, bid ExprID) bool {
	ea, eb := a.Exprs.Get(aid), b.Exprs.Get(bid)
	if ea == nil || eb == nil {
		return ea == eb
	}
	if ea.Kind != eb.Kind {
		return false
	}
	switch ea.Kind {
	case ExprLit:
		la, _ := a.Exprs.Literal(aid)
		lb, _ := b.Exprs.Literal(bid)
		return la.Value.Mag == lb.Value.Mag && units.Same(la.Value.Unit, lb.Value.Unit)
	case ExprIdent:
		ia, _ := a.Exprs.Ident(aid)
		ib, _ := b.Exprs.Ident(bid)
		return a.Name(ia.Name) == b.Name(ib.Name)
	case ExprUnary:
		ua, _ := a.Exprs.Unary(aid)
		ub, _ := b.Exprs.Unary(bid)
		return ua.Op == ub.Op && Equal(a, ua.Operand, b, ub.Operand)
	case ExprBinary:
		ba, _ := a.Exprs.Binary(aid)
		bb, _ := b.Exprs.Binary(bid)
		return ba.Op == bb.Op && Equal(a, ba.Left, b, bb.Left) && Equal(a, ba.Right, b, bb.Right)
	case ExprCall:
		ca, _ := a.Exprs.Call(aid)
		cb, _ := b.Exprs.Call(bid)
		if a.Name(ca.Name) != b.Name(cb.Name) || len(ca.Args) != len(cb.Args) {
			return false
		}
		for i := range ca.Args {
			if !Equal(a, ca.Args[i], b, cb.Args[i]) {
				return false
			}
		}
		return true
	case ExprAssign:
		sa, _ := a.Exprs.Assign(aid)
		sb, _ := b.Exprs.Assign(bid)
		return a.Name(sa.Name) == b.Name(sb.Name) && Equal(a, sa.Value, b, sb.Value)
	}
	return false
}
