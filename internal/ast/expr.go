package ast

import (
	"exprua/internal/source"
	"exprua/internal/units"
)

// ExprKind enumerates the node variants of an expression tree.
type ExprKind uint8

const (
	// ExprLit is a number literal with an optional unit suffix.
	ExprLit ExprKind = iota + 1
	// ExprIdent is a variable or constant reference.
	ExprIdent
	// ExprUnary is a prefix operator application.
	ExprUnary
	// ExprBinary is an infix operator application.
	ExprBinary
	// ExprCall is a built-in function call.
	ExprCall
	// ExprAssign binds a name; it only appears as the root.
	ExprAssign
)

func (k ExprKind) String() string {
	switch k {
	case ExprLit:
		return "Literal"
	case ExprIdent:
		return "Identifier"
	case ExprUnary:
		return "UnaryOp"
	case ExprBinary:
		return "BinaryOp"
	case ExprCall:
		return "FunctionCall"
	case ExprAssign:
		return "Assignment"
	default:
		return "Invalid"
	}
}

// Expr is the common header of every node; Payload indexes the per-kind arena.
type Expr struct {
	Kind    ExprKind
	Span    source.Span
	Payload PayloadID
}

// ExprBinaryOp enumerates binary operators.
type ExprBinaryOp uint8

const (
	ExprBinaryAdd ExprBinaryOp = iota + 1 // +
	ExprBinarySub                         // -
	ExprBinaryMul                         // *
	ExprBinaryDiv                         // /
	ExprBinaryPow                         // ^
)

func (op ExprBinaryOp) String() string {
	switch op {
	case ExprBinaryAdd:
		return "+"
	case ExprBinarySub:
		return "-"
	case ExprBinaryMul:
		return "*"
	case ExprBinaryDiv:
		return "/"
	case ExprBinaryPow:
		return "^"
	default:
		return "?"
	}
}

// ExprUnaryOp enumerates prefix operators.
type ExprUnaryOp uint8

const (
	ExprUnaryNeg ExprUnaryOp = iota + 1 // -
)

func (op ExprUnaryOp) String() string {
	if op == ExprUnaryNeg {
		return "-"
	}
	return "?"
}

// ExprLiteralData holds a literal's value as parsed. Raw is the number text
// and UnitText the unit suffix as written ("" when absent).
type ExprLiteralData struct {
	Value    units.Value
	Raw      string
	UnitText string
}

type ExprIdentData struct {
	Name source.StringID
}

type ExprUnaryData struct {
	Op      ExprUnaryOp
	Operand ExprID
}

type ExprBinaryData struct {
	Op    ExprBinaryOp
	Left  ExprID
	Right ExprID
}

type ExprCallData struct {
	Name     source.StringID
	NameSpan source.Span
	Args     []ExprID
}

type ExprAssignData struct {
	Name     source.StringID
	NameSpan source.Span
	Value    ExprID
}
