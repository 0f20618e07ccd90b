package ast

import (
	"slices"

	"exprua/internal/source"
	"exprua/internal/units"
)

// Exprs keeps node headers in one arena and kind-specific payloads in
// per-kind arenas; Expr.Payload indexes the latter.
type Exprs struct {
	Arena    *Arena[Expr]
	Literals *Arena[ExprLiteralData]
	Idents   *Arena[ExprIdentData]
	Unaries  *Arena[ExprUnaryData]
	Binaries *Arena[ExprBinaryData]
	Calls    *Arena[ExprCallData]
	Assigns  *Arena[ExprAssignData]
}

// NewExprs creates per-kind arenas preallocated with capHint slots
// (1<<5 when capHint is 0).
func NewExprs(capHint uint) *Exprs {
	if capHint == 0 {
		capHint = 1 << 5
	}
	return &Exprs{
		Arena:    NewArena[Expr](capHint),
		Literals: NewArena[ExprLiteralData](capHint),
		Idents:   NewArena[ExprIdentData](capHint),
		Unaries:  NewArena[ExprUnaryData](capHint),
		Binaries: NewArena[ExprBinaryData](capHint),
		Calls:    NewArena[ExprCallData](capHint / 4),
		Assigns:  NewArena[ExprAssignData](1),
	}
}

func (e *Exprs) new(kind ExprKind, span source.Span, payload PayloadID) ExprID {
	return ExprID(e.Arena.Allocate(Expr{
		Kind:    kind,
		Span:    span,
		Payload: payload,
	}))
}

// payloadOf resolves the kind-specific data of id; false when id is not a
// node of that kind.
func payloadOf[T any](e *Exprs, id ExprID, kind ExprKind, arena *Arena[T]) (*T, bool) {
	expr := e.Get(id)
	if expr == nil || expr.Kind != kind {
		return nil, false
	}
	return arena.Get(uint32(expr.Payload)), true
}

// Get returns the expression with the given ID.
func (e *Exprs) Get(id ExprID) *Expr {
	return e.Arena.Get(uint32(id))
}

// Len returns the number of allocated nodes.
func (e *Exprs) Len() uint32 {
	return e.Arena.Len()
}

// NewLiteral stores a number with its optional unit suffix.
func (e *Exprs) NewLiteral(span source.Span, value units.Value, raw, unitText string) ExprID {
	payload := e.Literals.Allocate(ExprLiteralData{Value: value, Raw: raw, UnitText: unitText})
	return e.new(ExprLit, span, PayloadID(payload))
}

func (e *Exprs) Literal(id ExprID) (*ExprLiteralData, bool) { return payloadOf(e, id, ExprLit, e.Literals) }

func (e *Exprs) NewIdent(span source.Span, name source.StringID) ExprID {
	payload := e.Idents.Allocate(ExprIdentData{Name: name})
	return e.new(ExprIdent, span, PayloadID(payload))
}

func (e *Exprs) Ident(id ExprID) (*ExprIdentData, bool) { return payloadOf(e, id, ExprIdent, e.Idents) }

func (e *Exprs) NewUnary(span source.Span, op ExprUnaryOp, operand ExprID) ExprID {
	payload := e.Unaries.Allocate(ExprUnaryData{Op: op, Operand: operand})
	return e.new(ExprUnary, span, PayloadID(payload))
}

func (e *Exprs) Unary(id ExprID) (*ExprUnaryData, bool) { return payloadOf(e, id, ExprUnary, e.Unaries) }

func (e *Exprs) NewBinary(span source.Span, op ExprBinaryOp, left, right ExprID) ExprID {
	payload := e.Binaries.Allocate(ExprBinaryData{Op: op, Left: left, Right: right})
	return e.new(ExprBinary, span, PayloadID(payload))
}

func (e *Exprs) Binary(id ExprID) (*ExprBinaryData, bool) { return payloadOf(e, id, ExprBinary, e.Binaries) }

// NewCall copies args, so callers may reuse their slice.
func (e *Exprs) NewCall(span source.Span, name source.StringID, nameSpan source.Span, args []ExprID) ExprID {
	payload := e.Calls.Allocate(ExprCallData{
		Name:     name,
		NameSpan: nameSpan,
		Args:     slices.Clone(args),
	})
	return e.new(ExprCall, span, PayloadID(payload))
}

func (e *Exprs) Call(id ExprID) (*ExprCallData, bool) { return payloadOf(e, id, ExprCall, e.Calls) }

func (e *Exprs) NewAssign(span source.Span, name source.StringID, nameSpan source.Span, value ExprID) ExprID {
	payload := e.Assigns.Allocate(ExprAssignData{Name: name, NameSpan: nameSpan, Value: value})
	return e.new(ExprAssign, span, PayloadID(payload))
}

func (e *Exprs) Assign(id ExprID) (*ExprAssignData, bool) { return payloadOf(e, id, ExprAssign, e.Assigns) }
