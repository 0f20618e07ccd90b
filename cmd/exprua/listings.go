package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"exprua/internal/diagfmt"
	"exprua/internal/driver"
	"exprua/internal/source"
	"exprua/internal/symbols"
)

func newTokensCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tokens [flags] [expression...]",
		Short: "List the tokens of an expression",
		Long:  `Tokens lexes an expression (arguments joined by spaces, or stdin) and lists its tokens`,
		RunE:  runTokens,
	}
	cmd.Flags().String("format", "", "output format (pretty|json|msgpack)")
	return cmd
}

func newASTCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ast [flags] [expression...]",
		Short: "Print the syntax tree of an expression",
		RunE:  runAST,
	}
	cmd.Flags().String("format", "", "output format (pretty|json|msgpack)")
	return cmd
}

func newSymbolsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "symbols [flags]",
		Short: "List constants, predefined variables and built-in functions",
		Args:  cobra.NoArgs,
		RunE:  runSymbols,
	}
	cmd.Flags().String("format", "", "output format (pretty|json|msgpack)")
	cmd.Flags().Bool("functions", false, "include built-in functions in pretty output")
	return cmd
}

// expressionSource joins args, or reads stdin when there are none.
func expressionSource(cmd *cobra.Command, args []string) (string, error) {
	if len(args) > 0 {
		return strings.Join(args, " "), nil
	}
	in, err := readInput(cmd, "-")
	if err != nil {
		return "", err
	}
	return strings.TrimRight(in.Source, "\r\n"), nil
}

func runTokens(cmd *cobra.Command, args []string) (err error) {
	s, cleanup, err := loadSettings(cmd)
	if err != nil {
		return err
	}
	defer func() { cleanup(err != nil) }()

	format, err := outputFormat(cmd, s)
	if err != nil {
		return err
	}
	src, err := expressionSource(cmd, args)
	if err != nil {
		return err
	}
	session, err := driver.NewSession(s.sessionOptions())
	if err != nil {
		return err
	}
	toks, err := session.Tokenize(src)
	if err != nil {
		reportError(cmd, s, err, source.NewText(src))
		return fmt.Errorf("tokenization failed")
	}
	text := source.NewText(src)
	if format == diagfmt.FormatPretty {
		return diagfmt.FormatTokensPretty(cmd.OutOrStdout(), toks, text)
	}
	return diagfmt.FormatTokens(cmd.OutOrStdout(), toks, text, format)
}

func runAST(cmd *cobra.Command, args []string) (err error) {
	s, cleanup, err := loadSettings(cmd)
	if err != nil {
		return err
	}
	defer func() { cleanup(err != nil) }()

	format, err := outputFormat(cmd, s)
	if err != nil {
		return err
	}
	src, err := expressionSource(cmd, args)
	if err != nil {
		return err
	}
	session, err := driver.NewSession(s.sessionOptions())
	if err != nil {
		return err
	}
	tree, err := session.Parse(src)
	if err != nil {
		reportError(cmd, s, err, session.LastText())
		return fmt.Errorf("parse failed")
	}
	s.printTimings(cmd)
	if format == diagfmt.FormatPretty {
		return diagfmt.FormatASTPretty(cmd.OutOrStdout(), tree)
	}
	return diagfmt.FormatAST(cmd.OutOrStdout(), tree, format)
}

func runSymbols(cmd *cobra.Command, _ []string) (err error) {
	s, cleanup, err := loadSettings(cmd)
	if err != nil {
		return err
	}
	defer func() { cleanup(err != nil) }()

	format, err := outputFormat(cmd, s)
	if err != nil {
		return err
	}
	withFunctions, _ := cmd.Flags().GetBool("functions")
	session, err := driver.NewSession(s.sessionOptions())
	if err != nil {
		return err
	}
	if format == diagfmt.FormatPretty {
		renderSymbolsTable(cmd.OutOrStdout(), session.Table(), s.precision(), withFunctions)
		return nil
	}
	return diagfmt.FormatSymbols(cmd.OutOrStdout(), session.Table(), s.precision(), format)
}

// renderSymbolsTable prints the table as a bordered grid.
func renderSymbolsTable(w io.Writer, tab *symbols.Table, precision int, withFunctions bool) {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)

	if withFunctions {
		t.AppendHeader(table.Row{"Name", "Kind", "Value", "Doc"})
	} else {
		t.AppendHeader(table.Row{"Name", "Kind", "Value"})
	}
	recs := diagfmt.BuildSymbolsOutput(tab, precision, withFunctions)
	for _, rec := range recs {
		value := rec.Value
		if rec.Signature != "" {
			value = rec.Signature
		}
		if withFunctions {
			t.AppendRow(table.Row{rec.Name, rec.Kind, value, rec.Doc})
		} else {
			t.AppendRow(table.Row{rec.Name, rec.Kind, value})
		}
	}
	t.Render()
	_, _ = fmt.Fprintf(w, "(%d symbols)\n", len(recs))
}

// reportError renders an engine error to stderr.
func reportError(cmd *cobra.Command, s *settings, err error, text *source.Text) {
	diagfmt.PrettyError(cmd.ErrOrStderr(), err, text, diagfmt.PrettyOpts{
		Color:     s.errColor,
		ShowNotes: !s.quiet,
	})
}
