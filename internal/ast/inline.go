package ast

import (
	"strings"
)

// Inline renders the tree as fully parenthesized source. Parsing the result
// against the same symbol table yields an equivalent tree.
func (t *Tree) Inline() string {
	var sb strings.Builder
	t.inline(&sb, t.Root)
	return sb.String()
}

// InlineExpr renders the subtree rooted at id.
func (t *Tree) InlineExpr(id ExprID) string {
	var sb strings.Builder
	t.inline(&sb, id)
	return sb.String()
}

func (t *Tree) inline(sb *strings.Builder, id ExprID) {
	expr := t.Exprs.Get(id)
	if expr == nil {
		sb.WriteString("<nil>")
		return
	}
	switch expr.Kind {
	case ExprLit:
		lit, _ := t.Exprs.Literal(id)
		if lit.UnitText == "" {
			sb.WriteString(lit.Raw)
			return
		}
		// единица в скобках, иначе следующий идентификатор прилипнет к ней
		sb.WriteByte('(')
		sb.WriteString(lit.Raw)
		sb.WriteByte(' ')
		sb.WriteString(lit.UnitText)
		sb.WriteByte(')')
	case ExprIdent:
		ident, _ := t.Exprs.Ident(id)
		sb.WriteString(t.Name(ident.Name))
	case ExprUnary:
		un, _ := t.Exprs.Unary(id)
		sb.WriteByte('(')
		sb.WriteString(un.Op.String())
		t.inline(sb, un.Operand)
		sb.WriteByte(')')
	case ExprBinary:
		bin, _ := t.Exprs.Binary(id)
		sb.WriteByte('(')
		t.inline(sb, bin.Left)
		sb.WriteByte(' ')
		sb.WriteString(bin.Op.String())
		sb.WriteByte(' ')
		t.inline(sb, bin.Right)
		sb.WriteByte(')')
	case ExprCall:
		call, _ := t.Exprs.Call(id)
		sb.WriteString(t.Name(call.Name))
		sb.WriteByte('(')
		for i, arg := range call.Args {
			if i > 0 {
				sb.WriteString(", ")
			}
			t.inline(sb, arg)
		}
		sb.WriteByte(')')
	case ExprAssign:
		as, _ := t.Exprs.Assign(id)
		sb.WriteString(t.Name(as.Name))
		sb.WriteString(" = ")
		t.inline(sb, as.Value)
	}
}
