package lexer

import (
	"exprua/internal/token"
)

// scanOperatorOrPunct handles the single-byte operators + - * / ^ = and the
// punctuation ( ) ,. Anything else aborts tokenization.
func (lx *Lexer) scanOperatorOrPunct() token.Token {
	start := lx.cursor.Mark()

	var kind token.Kind
	switch lx.cursor.Peek() {
	case '+':
		kind = token.Plus
	case '-':
		kind = token.Minus
	case '*':
		kind = token.Star
	case '/':
		kind = token.Slash
	case '^':
		kind = token.Caret
	case '=':
		kind = token.Assign
	case '(':
		kind = token.LParen
	case ')':
		kind = token.RParen
	case ',':
		kind = token.Comma
	default:
		r, _ := lx.cursor.Rune()
		return lx.unknownChar(start, r)
	}
	lx.cursor.Bump()
	return lx.emit(kind, start)
}
