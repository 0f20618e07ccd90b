package diagfmt

import (
	"bytes"
	"encoding/json"
	"errors"
	"reflect"
	"strings"
	"testing"

	"github.com/vmihailenco/msgpack/v5"

	"exprua/internal/ast"
	"exprua/internal/diag"
	"exprua/internal/lexer"
	"exprua/internal/parser"
	"exprua/internal/source"
	"exprua/internal/symbols"
	"exprua/internal/units"
)

func parseTree(t *testing.T, src string) *ast.Tree {
	t.Helper()
	tree, err := parser.ParseSource(source.NewText(src), symbols.NewTable(), parser.Options{})
	if err != nil {
		t.Fatalf("parse %q: %v", src, err)
	}
	return tree
}

func TestPrettyDiagnosticCaret(t *testing.T) {
	text := source.NewText("5 m + 3 s")
	err := &diag.IncompatibleUnitsError{Op: "add", UnitA: "m", UnitB: "s", Pos: source.Span{Start: 0, End: 9}}

	var buf bytes.Buffer
	PrettyError(&buf, err, text, PrettyOpts{})
	want := strings.Join([]string{
		"error[EVL3020]: incompatible units: cannot add 'm' and 's'",
		" --> 1:1",
		"  |",
		"1 | 5 m + 3 s",
		"  | ^^^^^^^^^",
		"",
	}, "\n")
	if buf.String() != want {
		t.Errorf("got:\n%s\nwant:\n%s", buf.String(), want)
	}
}

func TestPrettyDiagnosticWideRunes(t *testing.T) {
	src := "3 μm + 2 furlong"
	text := source.NewText(src)
	start := uint32(strings.Index(src, "furlong"))
	err := &diag.UnknownUnitError{Name: "furlong", Pos: source.Span{Start: start, End: start + 7}}

	var buf bytes.Buffer
	PrettyError(&buf, err, text, PrettyOpts{Origin: "calc.expr"})
	lines := strings.Split(buf.String(), "\n")
	if lines[1] != " --> calc.expr:1:11" {
		t.Errorf("location line = %q", lines[1])
	}
	// μ занимает два байта, но одну колонку
	if lines[4] != "  |          ^^^^^^^" {
		t.Errorf("caret line = %q", lines[4])
	}
}

func TestPrettyNotesAndColor(t *testing.T) {
	text := source.NewText("sin(1, 2)")
	err := &diag.ArityError{Name: "sin", Expected: 1, Got: 2, Pos: source.Span{Start: 0, End: 9}}

	var plain, colored bytes.Buffer
	PrettyError(&plain, err, text, PrettyOpts{ShowNotes: true})
	PrettyError(&colored, err, text, PrettyOpts{ShowNotes: true, Color: true})

	if !strings.Contains(plain.String(), "  = note: sin takes 1 argument") {
		t.Errorf("missing note:\n%s", plain.String())
	}
	if strings.Contains(plain.String(), "\x1b[") {
		t.Error("plain output contains escape codes")
	}
	if !strings.Contains(colored.String(), "\x1b[") {
		t.Error("colored output has no escape codes")
	}
}

func TestPrettyBagWithoutText(t *testing.T) {
	bag := diag.NewBag(0)
	bag.Add(diag.FromError(errors.New("boom")))
	var buf bytes.Buffer
	Pretty(&buf, bag, nil, PrettyOpts{})
	if buf.String() != "error[E0000]: boom\n" {
		t.Errorf("got %q", buf.String())
	}
}

func TestFormatTokensPretty(t *testing.T) {
	text := source.NewText("x = 5 μm")
	toks, err := lexer.Tokenize(text)
	if err != nil {
		t.Fatal(err)
	}
	var buf bytes.Buffer
	if err := FormatTokensPretty(&buf, toks, text); err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	if len(lines) != 5 {
		t.Fatalf("got %d lines:\n%s", len(lines), buf.String())
	}
	if lines[0] != `1: Ident  "x"  1:1-1:2` {
		t.Errorf("line 1 = %q", lines[0])
	}
	if lines[3] != `4: Ident  "μm" 1:7-1:10` {
		t.Errorf("line 4 = %q", lines[3])
	}
	if !strings.HasPrefix(lines[4], "5: EOF") {
		t.Errorf("line 5 = %q", lines[4])
	}
}

func TestFormatASTPretty(t *testing.T) {
	tree := parseTree(t, "F = -(2 m) * sin(x)")
	var buf bytes.Buffer
	if err := FormatASTPretty(&buf, tree); err != nil {
		t.Fatal(err)
	}
	want := strings.Join([]string{
		"Assignment F",
		"└─ BinaryOp *",
		"   ├─ UnaryOp -",
		"   │  └─ Literal 2 m",
		"   └─ FunctionCall sin",
		"      └─ Identifier x",
		"",
	}, "\n")
	if buf.String() != want {
		t.Errorf("got:\n%s\nwant:\n%s", buf.String(), want)
	}
}

func TestASTExports(t *testing.T) {
	tree := parseTree(t, "hypot(3 m, 4 m) + 1 m")
	want := BuildASTOutput(tree, tree.Root)

	var js bytes.Buffer
	if err := FormatAST(&js, tree, FormatJSON); err != nil {
		t.Fatal(err)
	}
	var fromJSON ASTNodeOutput
	if err := json.Unmarshal(js.Bytes(), &fromJSON); err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(fromJSON, want) {
		t.Errorf("json round trip:\n%+v\nwant\n%+v", fromJSON, want)
	}
	if !strings.Contains(js.String(), `"span": {`) {
		t.Errorf("span not exported as object: %s", js.String())
	}

	var mp bytes.Buffer
	if err := FormatAST(&mp, tree, FormatMsgpack); err != nil {
		t.Fatal(err)
	}
	var fromMsgpack ASTNodeOutput
	if err := msgpack.Unmarshal(mp.Bytes(), &fromMsgpack); err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(fromMsgpack, want) {
		t.Errorf("msgpack round trip:\n%+v\nwant\n%+v", fromMsgpack, want)
	}
}

func TestFormatSymbols(t *testing.T) {
	table := symbols.NewTable()
	kg, _ := units.Lookup("kg")
	if err := table.Define("x", units.Of(5, kg)); err != nil {
		t.Fatal(err)
	}

	var buf bytes.Buffer
	if err := FormatSymbolsPretty(&buf, table, 0); err != nil {
		t.Fatal(err)
	}
	want := "pi  constant  3.14159265359\ne   constant  2.71828182846\nx   variable  5 kg\n"
	if buf.String() != want {
		t.Errorf("got:\n%s\nwant:\n%s", buf.String(), want)
	}

	var js bytes.Buffer
	if err := FormatSymbols(&js, table, 0, FormatJSON); err != nil {
		t.Fatal(err)
	}
	var recs []SymbolOutput
	if err := json.Unmarshal(js.Bytes(), &recs); err != nil {
		t.Fatal(err)
	}
	var sawSqrt, sawX bool
	for _, r := range recs {
		if r.Name == "sqrt" && r.Signature == "sqrt(x)" {
			sawSqrt = true
		}
		if r.Name == "x" && r.Unit == "kg" && r.Magnitude == 5 {
			sawX = true
		}
	}
	if !sawSqrt || !sawX {
		t.Errorf("export missing entries: %+v", recs)
	}
}

func TestDiagnosticsJSON(t *testing.T) {
	text := source.NewText("1 +\n(2")
	bag := diag.NewBag(0)
	bag.Add(diag.FromError(&diag.UnmatchedParenError{Pos: source.Span{Start: 4, End: 5}, Open: true}).WithOrigin("in.expr:1"))

	var buf bytes.Buffer
	if err := JSON(&buf, bag, text, JSONOpts{IncludePositions: true}); err != nil {
		t.Fatal(err)
	}
	var out DiagnosticsOutput
	if err := json.Unmarshal(buf.Bytes(), &out); err != nil {
		t.Fatal(err)
	}
	if out.Count != 1 {
		t.Fatalf("count = %d", out.Count)
	}
	d := out.Diagnostics[0]
	if d.Code != "SYN2006" || d.Origin != "in.expr:1" || d.Severity != "ERROR" {
		t.Errorf("got %+v", d)
	}
	if d.Location.StartLine != 2 || d.Location.StartCol != 1 {
		t.Errorf("location = %+v", d.Location)
	}
}

func TestParseFormat(t *testing.T) {
	for in, want := range map[string]Format{"": FormatPretty, "JSON": FormatJSON, "msgpack": FormatMsgpack} {
		got, err := ParseFormat(in)
		if err != nil || got != want {
			t.Errorf("ParseFormat(%q) = %v, %v", in, got, err)
		}
	}
	if _, err := ParseFormat("xml"); err == nil {
		t.Error("xml accepted")
	}
}

func TestPrettyLineOffset(t *testing.T) {
	text := source.NewText("1 / 0")
	err := &diag.DivisionByZeroError{Pos: source.Span{Start: 4, End: 5}}

	var buf bytes.Buffer
	PrettyError(&buf, err, text, PrettyOpts{Origin: "a.expr", LineOffset: 9})
	out := buf.String()
	if !strings.Contains(out, " --> a.expr:10:5\n") {
		t.Errorf("location not shifted:\n%s", out)
	}
	if !strings.Contains(out, "10 | 1 / 0\n") || !strings.Contains(out, "   |     ^\n") {
		t.Errorf("gutter not shifted:\n%s", out)
	}
}
