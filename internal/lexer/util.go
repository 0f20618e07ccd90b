package lexer

import "unicode"

// fail records the first error; later errors are dropped.
func (lx *Lexer) fail(err error) {
	if lx.err == nil {
		lx.err = err
	}
}

// Идентификаторы: буквы (включая µ и Ω) и '_', дальше ещё и цифры.
// Знак градуса не буква, поэтому температуры пишутся как degC/degF.
func isIdentStartByte(b byte) bool {
	return b == '_' || (b|0x20 >= 'a' && b|0x20 <= 'z')
}

func isIdentStartRune(r rune) bool {
	return r == '_' || unicode.IsLetter(r)
}

func isIdentContinueRune(r rune) bool {
	return isIdentStartRune(r) || unicode.IsDigit(r)
}

func isDec(b byte) bool { return '0' <= b && b <= '9' }

// digitAt reports whether the byte n ahead is a decimal digit.
func (lx *Lexer) digitAt(n uint32) bool {
	b, ok := lx.cursor.PeekAt(n)
	return ok && isDec(b)
}
