package main

import (
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"exprua/internal/version"
)

// newRootCmd builds the command tree. Tests build a fresh tree per case.
func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "exprua",
		Short:         "Unit-aware expression interpreter",
		Long:          `exprua evaluates arithmetic with physical units, e.g. F = 5 kg * 9.8 m/s^2`,
		Version:       version.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.AddCommand(newEvalCmd())
	rootCmd.AddCommand(newTokensCmd())
	rootCmd.AddCommand(newASTCmd())
	rootCmd.AddCommand(newSymbolsCmd())
	rootCmd.AddCommand(newREPLCmd())
	rootCmd.AddCommand(newUICmd())
	rootCmd.AddCommand(newServeCmd())
	rootCmd.AddCommand(newVersionCmd())

	// Глобальные флаги
	pf := rootCmd.PersistentFlags()
	pf.String("config", "", "path to exprua.toml (default: nearest one above the working directory)")
	pf.String("color", "", "colorize output (auto|on|off)")
	pf.Bool("quiet", false, "suppress non-essential output")
	pf.Bool("timings", false, "show timing information")
	pf.Int("precision", 0, "significant digits in results")
	pf.Int("max-depth", 0, "maximum expression nesting")
	pf.Bool("check-arity", false, "check built-in arity while parsing")
	pf.StringArray("var", nil, "predefine a variable, name=expression (repeatable)")
	pf.String("trace", "", "trace output file ('-' for stderr, *.ndjson for NDJSON)")
	pf.String("trace-level", "", "trace level (off|error|phase|detail|debug)")
	pf.String("trace-mode", "", "trace storage mode (stream|ring|both)")
	pf.Int("trace-ring-size", 0, "ring buffer size for ring mode")
	pf.String("cpu-profile", "", "write CPU profile to file")
	pf.String("mem-profile", "", "write heap profile to file on exit")
	pf.String("runtime-trace", "", "write Go runtime trace to file")

	return rootCmd
}

// main executes the root command and exits with status 1 on failure.
func main() {
	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		rootCmd.PrintErrln("error:", err)
		os.Exit(1)
	}
}

// isTerminal проверяет, является ли файл терминалом
func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}
