package lexer

import (
	"exprua/internal/diag"
	"exprua/internal/token"
)

// scanIdent scans letters, digits and '_' not starting with a digit.
// Identifiers cover variables, functions and unit symbols alike; the
// parser decides which is which.
func (lx *Lexer) scanIdent() token.Token {
	start := lx.cursor.Mark()

	r, sz := lx.cursor.Rune()
	if sz == 0 || !isIdentStartRune(r) {
		return lx.unknownChar(start, r)
	}
	lx.cursor.BumpRune()
	for {
		r, sz = lx.cursor.Rune()
		if sz == 0 || !isIdentContinueRune(r) {
			break
		}
		lx.cursor.BumpRune()
	}
	return lx.emit(token.Ident, start)
}

func (lx *Lexer) unknownChar(start Mark, r rune) token.Token {
	_, sz := lx.cursor.Rune()
	lx.cursor.BumpRune()
	sp := lx.cursor.SpanFrom(start)
	if sz == 0 {
		sp.End = sp.Start
	}
	lx.fail(&diag.LexError{Pos: sp, Char: r})
	return token.Token{Kind: token.Invalid, Span: sp}
}
