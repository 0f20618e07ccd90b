package diagfmt

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"

	"exprua/internal/diag"
	"exprua/internal/source"
)

type palette struct {
	err, warn, info, code, gutter, caret, note *color.Color
}

func newPalette(enabled bool) palette {
	p := palette{
		err:    color.New(color.FgRed, color.Bold),
		warn:   color.New(color.FgYellow, color.Bold),
		info:   color.New(color.FgCyan, color.Bold),
		code:   color.New(color.Bold),
		gutter: color.New(color.FgBlue, color.Bold),
		caret:  color.New(color.FgRed, color.Bold),
		note:   color.New(color.FgCyan),
	}
	// глобальный color.NoColor не трогаем: решение принимает вызывающий
	for _, c := range []*color.Color{p.err, p.warn, p.info, p.code, p.gutter, p.caret, p.note} {
		if enabled {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}
	return p
}

func (p palette) severity(sev diag.Severity) *color.Color {
	switch sev {
	case diag.SevError:
		return p.err
	case diag.SevWarning:
		return p.warn
	default:
		return p.info
	}
}

// Pretty форматирует диагностики в человекочитаемый вид.
// Идёт по bag.Items() (ожидается bag.Sort() заранее).
func Pretty(w io.Writer, bag *diag.Bag, text *source.Text, opts PrettyOpts) {
	for i, d := range bag.Items() {
		if i > 0 {
			fmt.Fprintln(w)
		}
		PrettyDiagnostic(w, d, text, opts)
	}
}

// PrettyError renders one engine error against the text it came from.
func PrettyError(w io.Writer, err error, text *source.Text, opts PrettyOpts) {
	PrettyDiagnostic(w, diag.FromError(err), text, opts)
}

// PrettyDiagnostic prints
//
//	error[EVL3020]: <message>
//	  --> origin:1:5
//	   |
//	 1 | 5 m + 3 s
//	   | ^^^^^^^^^
//	   = note: ...
//
// The snippet is skipped when text is nil.
func PrettyDiagnostic(w io.Writer, d diag.Diagnostic, text *source.Text, opts PrettyOpts) {
	p := newPalette(opts.Color)
	sev := strings.ToLower(d.Severity.String())
	fmt.Fprintf(w, "%s%s %s\n",
		p.severity(d.Severity).Sprint(sev),
		p.code.Sprintf("[%s]:", d.Code.ID()),
		d.Message)

	if text == nil {
		return
	}
	start, _ := text.Resolve(d.Primary)
	origin := opts.Origin
	if origin == "" {
		origin = d.Origin
	}
	shown := source.LineCol{Line: start.Line + opts.LineOffset, Col: start.Col}
	loc := shown.String()
	if origin != "" {
		loc = origin + ":" + loc
	}

	lineNo := fmt.Sprintf("%d", shown.Line)
	pad := strings.Repeat(" ", len(lineNo))
	fmt.Fprintf(w, "%s%s %s\n", pad, p.gutter.Sprint("-->"), loc)
	fmt.Fprintf(w, "%s %s\n", pad, p.gutter.Sprint("|"))

	line := text.Line(start.Line)
	fmt.Fprintf(w, "%s %s %s\n", p.gutter.Sprint(lineNo), p.gutter.Sprint("|"), line)

	before, width := underline(line, d.Primary, start)
	fmt.Fprintf(w, "%s %s %s%s\n", pad, p.gutter.Sprint("|"),
		strings.Repeat(" ", before), p.caret.Sprint(strings.Repeat("^", width)))

	if opts.ShowNotes {
		for _, n := range d.Notes {
			fmt.Fprintf(w, "%s %s %s %s\n", pad, p.gutter.Sprint("="), p.note.Sprint("note:"), n.Msg)
		}
	}
}

// underline returns the display offset and width of the caret run for sp on
// line. Widths are in terminal cells, so μ and Ω take one column and wide
// runes take two. Spans running past the line are clipped to it.
func underline(line string, sp source.Span, start source.LineCol) (before, width int) {
	col := int(start.Col) - 1
	if col > len(line) {
		col = len(line)
	}
	end := col + int(sp.Len())
	if end > len(line) {
		end = len(line)
	}
	before = runewidth.StringWidth(line[:col])
	width = max(1, runewidth.StringWidth(line[col:end]))
	return before, width
}
