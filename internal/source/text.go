package source

import (
	"fmt"
	"slices"

	"fortio.org/safecast"
	"golang.org/x/text/unicode/norm"
)

// LineCol represents a human-readable position in source text.
type LineCol struct {
	Line uint32 // 1-based
	Col  uint32 // 1-based, in bytes
}

func (lc LineCol) String() string {
	return fmt.Sprintf("%d:%d", lc.Line, lc.Col)
}

// Text is one unit of input: the normalized bytes handed to the lexer plus a
// line index for position resolution. Spans produced by the lexer always
// refer to Content, never to the caller's original string.
type Text struct {
	Content []byte
	LineIdx []uint32
}

// NewText normalizes src and indexes its lines.
//
// Normalization strips a UTF-8 BOM, folds CRLF to LF and applies NFKC, so the
// compatibility forms of unit symbols (U+00B5 MICRO SIGN, U+2126 OHM SIGN)
// collapse onto the Greek letters the unit registry is keyed by.
func NewText(src string) *Text {
	content := Normalize([]byte(src))
	return &Text{
		Content: content,
		LineIdx: buildLineIndex(content),
	}
}

// Normalize applies BOM removal, CRLF folding and NFKC to content.
func Normalize(content []byte) []byte {
	content, _ = removeBOM(content)
	content, _ = normalizeCRLF(content)
	if norm.NFKC.IsNormal(content) {
		return content
	}
	return norm.NFKC.Bytes(content)
}

// Len returns the content length as uint32.
func (t *Text) Len() uint32 {
	n, err := safecast.Conv[uint32](len(t.Content))
	if err != nil {
		panic(fmt.Errorf("source length overflow: %w", err))
	}
	return n
}

// Slice returns the text covered by sp.
func (t *Text) Slice(sp Span) string {
	end := min(sp.End, t.Len())
	start := min(sp.Start, end)
	return string(t.Content[start:end])
}

// Resolve converts a span into line and column positions.
func (t *Text) Resolve(sp Span) (start, end LineCol) {
	return toLineCol(t.LineIdx, sp.Start), toLineCol(t.LineIdx, sp.End)
}

// Line returns the 1-based line lineNum without its terminator.
func (t *Text) Line(lineNum uint32) string {
	if lineNum == 0 {
		return ""
	}
	var start uint32
	if lineNum > 1 {
		if int(lineNum-2) >= len(t.LineIdx) {
			return ""
		}
		start = t.LineIdx[lineNum-2] + 1
	}
	end := t.Len()
	if int(lineNum-1) < len(t.LineIdx) {
		end = t.LineIdx[lineNum-1]
	}
	if start > end {
		return ""
	}
	return string(t.Content[start:end])
}

// normalizeCRLF заменяет все \r\n на \n, не трогая одиночные \r.
func normalizeCRLF(content []byte) ([]byte, bool) {
	if !slices.Contains(content, '\r') {
		return content, false
	}
	out := make([]byte, 0, len(content))
	changed := false
	for i := 0; i < len(content); i++ {
		if content[i] == '\r' && i+1 < len(content) && content[i+1] == '\n' {
			changed = true
			continue
		}
		out = append(out, content[i])
	}
	return out, changed
}

func removeBOM(content []byte) ([]byte, bool) {
	if len(content) >= 3 && content[0] == 0xEF && content[1] == 0xBB && content[2] == 0xBF {
		return content[3:], true
	}
	return content, false
}

func buildLineIndex(content []byte) []uint32 {
	out := make([]uint32, 0, 4)
	for i, b := range content {
		if b == '\n' {
			out = append(out, uint32(i))
		}
	}
	return out
}

func toLineCol(lineIdx []uint32, off uint32) LineCol {
	// бинпоиск: находим количество переводов строк строго до off
	lo, hi := 0, len(lineIdx)
	for lo < hi {
		mid := (lo + hi) >> 1
		if lineIdx[mid] < off {
			lo = mid + 1
		} else {
			hi = mid
		}
	}
	if lo == 0 {
		return LineCol{Line: 1, Col: off + 1}
	}
	lineStart := lineIdx[lo-1] + 1
	return LineCol{Line: uint32(lo) + 1, Col: off - lineStart + 1}
}
