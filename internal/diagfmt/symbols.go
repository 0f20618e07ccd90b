package diagfmt

import (
	"fmt"
	"io"
	"strings"

	"github.com/mattn/go-runewidth"

	"exprua/internal/symbols"
	"exprua/internal/units"
)

type SymbolOutput struct {
	Name      string  `json:"name" msgpack:"name"`
	Kind      string  `json:"kind" msgpack:"kind"`
	Value     string  `json:"value,omitempty" msgpack:"value,omitempty"`
	Magnitude float64 `json:"magnitude,omitempty" msgpack:"magnitude,omitempty"`
	Unit      string  `json:"unit,omitempty" msgpack:"unit,omitempty"`
	Signature string  `json:"signature,omitempty" msgpack:"signature,omitempty"`
	Doc       string  `json:"doc,omitempty" msgpack:"doc,omitempty"`
}

// BuildSymbolsOutput lists the table in insertion order. Functions are
// included only when withFunctions is set.
func BuildSymbolsOutput(table *symbols.Table, precision int, withFunctions bool) []SymbolOutput {
	var out []SymbolOutput
	for _, sym := range table.Symbols() {
		rec := SymbolOutput{Name: sym.Name, Kind: sym.Kind.String()}
		if sym.Kind == symbols.KindFunction {
			if !withFunctions {
				continue
			}
			rec.Signature = sym.Fn.Signature()
			rec.Doc = sym.Fn.Doc
		} else {
			rec.Value = sym.Value.Format(precision)
			rec.Magnitude = sym.Value.Mag
			rec.Unit, _ = sym.Value.Unit.Name()
		}
		out = append(out, rec)
	}
	return out
}

// FormatSymbolsPretty prints one binding per line with aligned columns:
//
//	pi  constant  3.14159265359
//	x   variable  5 kg
func FormatSymbolsPretty(w io.Writer, table *symbols.Table, precision int) error {
	if precision <= 0 {
		precision = units.DefaultPrecision
	}
	recs := BuildSymbolsOutput(table, precision, false)
	nameW, kindW := 0, 0
	for _, rec := range recs {
		nameW = max(nameW, runewidth.StringWidth(rec.Name))
		kindW = max(kindW, len(rec.Kind))
	}
	for _, rec := range recs {
		line := runewidth.FillRight(rec.Name, nameW) + "  " + fmt.Sprintf("%-*s", kindW, rec.Kind) + "  " + rec.Value
		if _, err := fmt.Fprintln(w, strings.TrimRight(line, " ")); err != nil {
			return err
		}
	}
	return nil
}

// FormatSymbols writes the table in format; exports include functions.
func FormatSymbols(w io.Writer, table *symbols.Table, precision int, format Format) error {
	if format == FormatPretty {
		return FormatSymbolsPretty(w, table, precision)
	}
	return Encode(w, format, BuildSymbolsOutput(table, precision, true))
}
