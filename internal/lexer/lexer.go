package lexer

import (
	"unicode/utf8"

	"exprua/internal/source"
	"exprua/internal/token"
)

// Lexer turns normalized source text into tokens. It stops at the first
// error: after that Next keeps returning an Invalid token and Err reports
// the failure.
type Lexer struct {
	text   *source.Text
	cursor Cursor
	look   *token.Token // 1 элементный буфер для токена
	err    error
}

func New(text *source.Text) *Lexer {
	return &Lexer{
		text:   text,
		cursor: NewCursor(text),
	}
}

// Tokenize lexes the whole text. On success the result ends with exactly
// one EOF token.
func Tokenize(text *source.Text) ([]token.Token, error) {
	lx := New(text)
	out := make([]token.Token, 0, 16)
	for {
		tok := lx.Next()
		if lx.err != nil {
			return nil, lx.err
		}
		out = append(out, tok)
		if tok.Kind == token.EOF {
			return out, nil
		}
	}
}

// Next returns the next significant token. After EOF it always returns EOF.
func (lx *Lexer) Next() token.Token {
	if lx.look != nil {
		tok := *lx.look
		lx.look = nil
		return tok
	}
	if lx.err != nil {
		return token.Token{Kind: token.Invalid, Span: lx.emptySpan()}
	}

	lx.skipTrivia()

	if lx.cursor.EOF() {
		return token.Token{
			Kind: token.EOF,
			Span: lx.emptySpan(),
		}
	}

	ch := lx.cursor.Peek()
	switch {
	case isIdentStartByte(ch):
		return lx.scanIdent()
	case ch >= utf8.RuneSelf:
		// возможный Unicode идентификатор (μm, Ω)
		return lx.scanIdent()
	case isDec(ch):
		return lx.scanNumber()
	case ch == '.' && lx.digitAt(1):
		return lx.scanNumber()
	default:
		return lx.scanOperatorOrPunct()
	}
}

// Peek returns the next token without consuming it.
func (lx *Lexer) Peek() token.Token {
	t := lx.Next()
	lx.look = &t
	return t
}

// Err returns the error that stopped the lexer, if any.
func (lx *Lexer) Err() error {
	return lx.err
}

func (lx *Lexer) emptySpan() source.Span {
	return source.At(lx.cursor.Off)
}

func (lx *Lexer) emit(kind token.Kind, start Mark) token.Token {
	sp := lx.cursor.SpanFrom(start)
	return token.Token{Kind: kind, Span: sp, Text: lx.text.Slice(sp)}
}
