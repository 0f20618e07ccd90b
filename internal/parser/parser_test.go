package parser_test

import (
	"errors"
	"strings"
	"testing"

	"exprua/internal/ast"
	"exprua/internal/diag"
	"exprua/internal/parser"
	"exprua/internal/source"
	"exprua/internal/symbols"
	"exprua/internal/testkit"
	"exprua/internal/units"
)

func parse(t *testing.T, table *symbols.Table, src string) (*ast.Tree, error) {
	t.Helper()
	return parser.ParseSource(source.NewText(src), table, parser.Options{CheckArity: true})
}

func mustParse(t *testing.T, table *symbols.Table, src string) *ast.Tree {
	t.Helper()
	tree, err := parse(t, table, src)
	if err != nil {
		t.Fatalf("parse %q: %v", src, err)
	}
	return tree
}

func TestPrecedenceAndAssociativity(t *testing.T) {
	cases := []struct {
		src  string
		want string
	}{
		{"1 + 2 * 3", "(1 + (2 * 3))"},
		{"(1 + 2) * 3", "((1 + 2) * 3)"},
		{"1 - 2 - 3", "((1 - 2) - 3)"},
		{"8 / 4 / 2", "((8 / 4) / 2)"},
		{"2 ^ 3 ^ 2", "(2 ^ (3 ^ 2))"},
		{"-2 ^ 2", "((-2) ^ 2)"},
		{"2 ^ -1", "(2 ^ (-1))"},
		{"--x", "(-(-x))"},
		{"1 + -x * 2", "(1 + ((-x) * 2))"},
		{"(((1)))", "1"},
		{"x = 1 + 2", "x = (1 + 2)"},
		{"sin(pi / 2)", "sin((pi / 2))"},
		{"atan2(1, 2)", "atan2(1, 2)"},
		{"f()", "f()"},
		{"# comment only before\n3", "3"},
	}
	for _, tc := range cases {
		t.Run(tc.src, func(t *testing.T) {
			tree := mustParse(t, symbols.NewTable(), tc.src)
			if got := tree.Inline(); got != tc.want {
				t.Errorf("got %q, want %q", got, tc.want)
			}
		})
	}
}

func TestUnitLiterals(t *testing.T) {
	table := symbols.NewTable()
	cases := []struct {
		src  string
		want string
	}{
		{"5 kg", "(5 kg)"},
		{"F = 5 kg * 9.8 m/s^2", "F = ((5 kg) * (9.8 m/s^2))"},
		{"9.8m/s^2", "(9.8 m/s^2)"},
		{"2 m^2", "(2 m^2)"},
		{"3 m^(1/2)", "(3 m^(1/2))"},
		{"2 s^-1", "(2 s^-1)"},
		{"1 kg*m/s^2", "(1 kg*m/s^2)"},
		{"5 m / t", "((5 m) / t)"},
		{"4 m^x", "((4 m) ^ x)"},
		{"1_000 km + 1 m", "((1_000 km) + (1 m))"},
		{"2 m * 3", "((2 m) * 3)"},
		{"2 m * sin(1)", "((2 m) * sin(1))"},
		{"10 m / s", "(10 m/s)"},
	}
	for _, tc := range cases {
		t.Run(tc.src, func(t *testing.T) {
			tree := mustParse(t, table, tc.src)
			if got := tree.Inline(); got != tc.want {
				t.Errorf("got %q, want %q", got, tc.want)
			}
		})
	}
}

func TestUnitLiteralShadowedByVariable(t *testing.T) {
	table := symbols.NewTable()
	if err := table.Define("s", units.Scalar(2)); err != nil {
		t.Fatal(err)
	}
	tree := mustParse(t, table, "10 m / s")
	if got := tree.Inline(); got != "((10 m) / s)" {
		t.Errorf("got %q", got)
	}
	// первый идентификатор после числа всегда единица
	tree = mustParse(t, table, "3 s")
	if got := tree.Inline(); got != "(3 s)" {
		t.Errorf("got %q", got)
	}
}

func TestLiteralValueAndSpan(t *testing.T) {
	tree := mustParse(t, symbols.NewTable(), "9.8 m/s^2")
	lit, ok := tree.Exprs.Literal(tree.Root)
	if !ok {
		t.Fatalf("root is %v", tree.Exprs.Get(tree.Root).Kind)
	}
	if lit.Value.Mag != 9.8 || lit.Value.Unit.Dim != (units.Dim{units.Length: units.Int(1), units.Time: units.Int(-2)}) {
		t.Errorf("value %+v", lit.Value)
	}
	if sp := tree.Exprs.Get(tree.Root).Span; sp != (source.Span{Start: 0, End: 9}) {
		t.Errorf("span %v", sp)
	}
	tree = mustParse(t, symbols.NewTable(), "2 km")
	lit, _ = tree.Exprs.Literal(tree.Root)
	if lit.Value.Canonical() != 2000 || lit.Value.Unit.Symbol != "km" {
		t.Errorf("2 km = %+v", lit.Value)
	}
}

func TestParseErrors(t *testing.T) {
	table := symbols.NewTable()
	cases := []struct {
		src   string
		check func(t *testing.T, err error)
	}{
		{"1 +", func(t *testing.T, err error) {
			var se *diag.SyntaxError
			if !errors.As(err, &se) || se.Expected != "expression" || se.Found != "end of input" {
				t.Errorf("got %v", err)
			}
		}},
		{"(1 + 2", func(t *testing.T, err error) {
			var ue *diag.UnmatchedParenError
			if !errors.As(err, &ue) || !ue.Open || ue.Pos.Start != 0 {
				t.Errorf("got %v", err)
			}
		}},
		{"1 + 2)", func(t *testing.T, err error) {
			var ue *diag.UnmatchedParenError
			if !errors.As(err, &ue) || ue.Open || ue.Pos.Start != 5 {
				t.Errorf("got %v", err)
			}
		}},
		{"f(1", func(t *testing.T, err error) {
			var ue *diag.UnmatchedParenError
			if !errors.As(err, &ue) || !ue.Open || ue.Pos.Start != 1 {
				t.Errorf("got %v", err)
			}
		}},
		{"1 2", func(t *testing.T, err error) {
			var te *diag.TrailingTokensError
			if !errors.As(err, &te) || te.Found != "number '2'" {
				t.Errorf("got %v", err)
			}
		}},
		{"sin = 3", func(t *testing.T, err error) {
			var rn *diag.ReservedNameError
			if !errors.As(err, &rn) || rn.Name != "sin" || !rn.AtParse || rn.Code() != diag.SynReservedName {
				t.Errorf("got %v", err)
			}
		}},
		{"a + b = 3", func(t *testing.T, err error) {
			var se *diag.SyntaxError
			if !errors.As(err, &se) || se.Found != "'='" {
				t.Errorf("got %v", err)
			}
		}},
		{"x = y = 3", func(t *testing.T, err error) {
			var se *diag.SyntaxError
			if !errors.As(err, &se) {
				t.Errorf("got %v", err)
			}
		}},
		{"= 3", func(t *testing.T, err error) {
			var se *diag.SyntaxError
			if !errors.As(err, &se) || se.Found != "'='" {
				t.Errorf("got %v", err)
			}
		}},
		{"(1, 2)", func(t *testing.T, err error) {
			var se *diag.SyntaxError
			if !errors.As(err, &se) || se.Expected != "')'" {
				t.Errorf("got %v", err)
			}
		}},
		{"5 furlong", func(t *testing.T, err error) {
			var ue *diag.UnknownUnitError
			if !errors.As(err, &ue) || ue.Name != "furlong" || ue.Pos != (source.Span{Start: 2, End: 9}) {
				t.Errorf("got %v", err)
			}
		}},
		{"sin(1, 2)", func(t *testing.T, err error) {
			var ae *diag.ArityError
			if !errors.As(err, &ae) || ae.Name != "sin" || ae.Expected != 1 || ae.Got != 2 {
				t.Errorf("got %v", err)
			}
		}},
		{"sum()", func(t *testing.T, err error) {
			var ae *diag.ArityError
			if !errors.As(err, &ae) || !ae.Variadic {
				t.Errorf("got %v", err)
			}
		}},
		{"1 + $", func(t *testing.T, err error) {
			var le *diag.LexError
			if !errors.As(err, &le) || le.Char != '$' {
				t.Errorf("got %v", err)
			}
		}},
		{"1e400", func(t *testing.T, err error) {
			var le *diag.LexError
			if !errors.As(err, &le) || le.Code() != diag.LexBadNumber {
				t.Errorf("got %v", err)
			}
		}},
		{"", func(t *testing.T, err error) {
			var se *diag.SyntaxError
			if !errors.As(err, &se) {
				t.Errorf("got %v", err)
			}
		}},
	}
	for _, tc := range cases {
		t.Run(tc.src, func(t *testing.T) {
			tree, err := parse(t, table, tc.src)
			if err == nil {
				t.Fatalf("expected error, got %s", tree.Inline())
			}
			tc.check(t, err)
		})
	}
}

func TestDepthLimit(t *testing.T) {
	src := strings.Repeat("(", 300) + "1" + strings.Repeat(")", 300)
	_, err := parse(t, symbols.NewTable(), src)
	var de *diag.DepthLimitError
	if !errors.As(err, &de) || !de.AtParse || de.Limit != parser.DefaultMaxDepth {
		t.Fatalf("got %v", err)
	}
	_, err = parser.ParseSource(source.NewText(strings.Repeat("-", 20)+"1"), nil, parser.Options{MaxDepth: 10})
	if !errors.As(err, &de) {
		t.Fatalf("prefix chain: got %v", err)
	}
	if _, err := parser.ParseSource(source.NewText("((1))"), nil, parser.Options{MaxDepth: 10}); err != nil {
		t.Fatalf("shallow input rejected: %v", err)
	}
}

func TestRoundTrip(t *testing.T) {
	table := symbols.NewTable()
	inputs := []string{
		"1 + 2 * 3 - 4 / 5",
		"-2 ^ 3 ^ -1",
		"F = 5 kg * 9.8 m/s^2",
		"sqrt(3 m^2 + 4 m^2) / 2",
		"avg(1 m, 2 km, 3 mm)",
		"x = -(pi * 2 rad)",
		"10 m^(1/2) * 3 s^-1",
		"convert(36 km/h, 1 m/s)",
	}
	for _, src := range inputs {
		t.Run(src, func(t *testing.T) {
			first := mustParse(t, table, src)
			rendered := first.Inline()
			second := mustParse(t, table, rendered)
			if !ast.Equal(first, first.Root, second, second.Root) {
				t.Errorf("round trip changed tree:\n  %s\n  %s", rendered, second.Inline())
			}
			if second.Inline() != rendered {
				t.Errorf("rendering not stable: %q vs %q", rendered, second.Inline())
			}
		})
	}
}

func FuzzParse(f *testing.F) {
	for _, s := range []string{"1+2", "x = 5 kg", "9.8m/s^2", "sin(pi/2)", "((1)", "2 m^(1/2)", "1 2 3"} {
		f.Add(s)
	}
	table := symbols.NewTable()
	f.Fuzz(func(t *testing.T, s string) {
		tree, err := parser.ParseSource(source.NewText(s), table, parser.Options{})
		if err != nil {
			var de diag.Error
			if !errors.As(err, &de) {
				t.Fatalf("untyped error %T: %v", err, err)
			}
			return
		}
		if !tree.Root.IsValid() {
			t.Fatalf("valid parse without root for %q", s)
		}
		if err := testkit.CheckTree(tree, source.NewText(s)); err != nil {
			t.Fatalf("%q: %v", s, err)
		}
	})
}

func TestTreeInvariants(t *testing.T) {
	table := symbols.NewTable()
	for _, src := range []string{
		"F = 5 kg * 9.8 m/s^2",
		"-(-(2 m)) ^ 2",
		"atan2(1 m, sqrt(4 m^2)) + convert(100 degC, 1 K) / 1 K",
		"  x  =  ( ( 1 ) )  ",
		"10 µs + 1 Ω / 1 Ω",
	} {
		text := source.NewText(src)
		tree, err := parser.ParseSource(text, table, parser.Options{CheckArity: true})
		if err != nil {
			t.Fatalf("parse %q: %v", src, err)
		}
		if err := testkit.CheckTree(tree, text); err != nil {
			t.Errorf("%q: %v", src, err)
		}
	}
}
