package lexer

import (
	"unicode/utf8"

	"fortio.org/safecast"

	"exprua/internal/source"
)

// Cursor walks the bytes of a normalized text. Multi-byte runes only occur
// inside identifiers (µ, Ω), so most of the lexer works on bytes.
type Cursor struct {
	Text *source.Text
	Off  uint32
}

func NewCursor(t *source.Text) Cursor {
	return Cursor{Text: t}
}

func (c *Cursor) EOF() bool {
	return c.Off >= c.Text.Len()
}

// Peek returns the current byte, 0 at EOF.
func (c *Cursor) Peek() byte {
	b, _ := c.PeekAt(0)
	return b
}

// PeekAt returns the byte n positions ahead.
func (c *Cursor) PeekAt(n uint32) (byte, bool) {
	if c.Off+n >= c.Text.Len() {
		return 0, false
	}
	return c.Text.Content[c.Off+n], true
}

// Bump consumes one byte.
func (c *Cursor) Bump() byte {
	b, ok := c.PeekAt(0)
	if ok {
		c.Off++
	}
	return b
}

// Rune decodes the rune at the cursor; size is 0 at EOF.
func (c *Cursor) Rune() (r rune, size int) {
	b, ok := c.PeekAt(0)
	switch {
	case !ok:
		return utf8.RuneError, 0
	case b < utf8.RuneSelf:
		return rune(b), 1
	}
	return utf8.DecodeRune(c.Text.Content[c.Off:])
}

// BumpRune consumes the rune at the cursor.
func (c *Cursor) BumpRune() {
	_, size := c.Rune()
	n, err := safecast.Conv[uint32](size)
	if err != nil {
		panic(err)
	}
	c.Off += n
}

// Mark запоминает позицию для SpanFrom и Reset.
type Mark uint32

func (c *Cursor) Mark() Mark { return Mark(c.Off) }

// SpanFrom returns the span between m and the cursor.
func (c *Cursor) SpanFrom(m Mark) source.Span {
	return source.Span{Start: uint32(m), End: c.Off}
}

// Reset откатывает курсор к метке.
func (c *Cursor) Reset(m Mark) { c.Off = uint32(m) }

// Eat consumes the next byte if it is b.
func (c *Cursor) Eat(b byte) bool {
	if next, ok := c.PeekAt(0); ok && next == b {
		c.Off++
		return true
	}
	return false
}
