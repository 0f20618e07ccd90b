package lexer

import (
	"exprua/internal/diag"
	"exprua/internal/token"
)

// scanNumber accepts 12, 1_000, 1.5, .5, 1., 6.02e23, 1e-3.
// The unit suffix (9.8m/s^2) is left for the parser: scanning stops at the
// first byte that cannot continue the literal. An 'e' that is not followed
// by exponent digits is not part of the number, so "2e" lexes as 2 and e.
func (lx *Lexer) scanNumber() token.Token {
	start := lx.cursor.Mark()

	if lx.cursor.Peek() == '.' {
		lx.cursor.Bump()
		lx.scanDigits()
	} else {
		lx.scanDigits()
		if lx.cursor.Peek() == '.' {
			lx.cursor.Bump()
			lx.scanDigits()
		}
	}

	if b := lx.cursor.Peek(); b == 'e' || b == 'E' {
		expMark := lx.cursor.Mark()
		lx.cursor.Bump()
		if b := lx.cursor.Peek(); b == '+' || b == '-' {
			lx.cursor.Bump()
		}
		if isDec(lx.cursor.Peek()) {
			lx.scanDigits()
		} else {
			// не экспонента: откатываемся, 'e' станет идентификатором
			lx.cursor.Reset(expMark)
		}
	}

	tok := lx.emit(token.Number, start)
	if lx.cursor.Peek() == '.' && lx.digitAt(1) {
		// 1.2.3: вторая точка не может начать новое число вплотную
		lx.fail(&diag.LexError{Pos: lx.cursor.SpanFrom(start), Char: '.', Detail: "malformed number literal"})
		return token.Token{Kind: token.Invalid, Span: tok.Span}
	}
	return tok
}

// scanDigits consumes [0-9] with single '_' separators between digits.
func (lx *Lexer) scanDigits() {
	for {
		b := lx.cursor.Peek()
		if isDec(b) {
			lx.cursor.Bump()
			continue
		}
		if b == '_' {
			if lx.digitAt(1) {
				lx.cursor.Bump()
				continue
			}
		}
		return
	}
}
