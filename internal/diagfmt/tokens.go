package diagfmt

import (
	"fmt"
	"io"
	"strconv"

	"github.com/mattn/go-runewidth"

	"exprua/internal/source"
	"exprua/internal/token"
)

type TokenOutput struct {
	Kind  string      `json:"kind" msgpack:"kind"`
	Text  string      `json:"text,omitempty" msgpack:"text,omitempty"`
	Span  source.Span `json:"span" msgpack:"span"`
	Start string      `json:"start,omitempty" msgpack:"start,omitempty"`
	End   string      `json:"end,omitempty" msgpack:"end,omitempty"`
}

// BuildTokensOutput converts tokens into export records; positions are
// filled when text is given.
func BuildTokensOutput(tokens []token.Token, text *source.Text) []TokenOutput {
	out := make([]TokenOutput, 0, len(tokens))
	for _, tok := range tokens {
		rec := TokenOutput{Kind: tok.Kind.String(), Text: tok.Text, Span: tok.Span}
		if text != nil {
			start, end := text.Resolve(tok.Span)
			rec.Start, rec.End = start.String(), end.String()
		}
		out = append(out, rec)
		if tok.Kind == token.EOF {
			break
		}
	}
	return out
}

// FormatTokensPretty выводит токены в человекочитаемом формате:
//
//	1: Number  "5"   1:1-1:2
func FormatTokensPretty(w io.Writer, tokens []token.Token, text *source.Text) error {
	recs := BuildTokensOutput(tokens, text)

	// ширина колонок в ячейках терминала: μ и Ω многобайтные
	kindW, textW := 0, 0
	quoted := make([]string, len(recs))
	for i, rec := range recs {
		kindW = max(kindW, len(rec.Kind))
		if rec.Text != "" {
			quoted[i] = strconv.Quote(rec.Text)
		}
		textW = max(textW, runewidth.StringWidth(quoted[i]))
	}
	numW := len(strconv.Itoa(len(recs)))

	for i, rec := range recs {
		line := fmt.Sprintf("%*d: %-*s %s", numW, i+1, kindW, rec.Kind, runewidth.FillRight(quoted[i], textW))
		if rec.Start != "" {
			line += " " + rec.Start + "-" + rec.End
		} else {
			line += " " + rec.Span.String()
		}
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}

// FormatTokens writes tokens in format.
func FormatTokens(w io.Writer, tokens []token.Token, text *source.Text, format Format) error {
	if format == FormatPretty {
		return FormatTokensPretty(w, tokens, text)
	}
	return Encode(w, format, BuildTokensOutput(tokens, text))
}
