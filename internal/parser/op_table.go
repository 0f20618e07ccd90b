package parser

import (
	"exprua/internal/ast"
	"exprua/internal/token"
)

// binaryOp describes one infix operator. Higher prec binds tighter; unary
// minus sits above all of them.
type binaryOp struct {
	op    ast.ExprBinaryOp
	prec  int
	right bool // правоассоциативный
}

var binaryOps = map[token.Kind]binaryOp{
	token.Plus:  {ast.ExprBinaryAdd, 2, false},
	token.Minus: {ast.ExprBinarySub, 2, false},
	token.Star:  {ast.ExprBinaryMul, 3, false},
	token.Slash: {ast.ExprBinaryDiv, 3, false},
	token.Caret: {ast.ExprBinaryPow, 4, true},
}

// lookupBinary returns the operator for kind, if it is infix.
func lookupBinary(kind token.Kind) (binaryOp, bool) {
	op, ok := binaryOps[kind]
	return op, ok
}

func lookupUnary(kind token.Kind) (ast.ExprUnaryOp, bool) {
	if kind == token.Minus {
		return ast.ExprUnaryNeg, true
	}
	return 0, false
}
