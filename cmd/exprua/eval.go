package main

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"fortio.org/safecast"
	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"exprua/internal/diag"
	"exprua/internal/diagfmt"
	"exprua/internal/driver"
	"exprua/internal/source"
	"exprua/internal/ui"
)

type evalLineJSON struct {
	Line   int                     `json:"line" msgpack:"line"`
	Source string                  `json:"source" msgpack:"source"`
	Result string                  `json:"result,omitempty" msgpack:"result,omitempty"`
	Error  *diagfmt.DiagnosticJSON `json:"error,omitempty" msgpack:"error,omitempty"`
}

type evalInputJSON struct {
	Name    string                 `json:"name" msgpack:"name"`
	Lines   []evalLineJSON         `json:"lines" msgpack:"lines"`
	Symbols []diagfmt.SymbolOutput `json:"symbols" msgpack:"symbols"`
}

func newEvalCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "eval [flags] [expression...]",
		Short: "Evaluate expressions",
		Long: `Evaluate expressions given as arguments, read from files (-f, one session
per file, files in parallel) or from stdin. Each line is one expression;
blank lines and lines starting with # are skipped.`,
		RunE: runEval,
	}
	cmd.Flags().StringArrayP("file", "f", nil, "evaluate the lines of a file (repeatable, '-' for stdin)")
	cmd.Flags().IntP("jobs", "j", 0, "files evaluated in parallel (0 = GOMAXPROCS)")
	cmd.Flags().String("format", "", "output format (pretty|json|msgpack)")
	cmd.Flags().Bool("progress", false, "show a progress view while evaluating files")
	return cmd
}

func runEval(cmd *cobra.Command, args []string) (err error) {
	s, cleanup, err := loadSettings(cmd)
	if err != nil {
		return err
	}
	defer func() { cleanup(err != nil) }()

	format, err := outputFormat(cmd, s)
	if err != nil {
		return err
	}
	inputs, err := collectInputs(cmd, args)
	if err != nil {
		return err
	}
	jobs, err := cmd.Flags().GetInt("jobs")
	if err != nil {
		return fmt.Errorf("failed to get jobs flag: %w", err)
	}
	progress, _ := cmd.Flags().GetBool("progress")

	bopts := driver.BatchOptions{Session: s.sessionOptions(), Jobs: jobs}
	idx := s.timer.Begin("batch")
	var results []driver.BatchResult
	if progress && !s.quiet && isTerminal(os.Stderr) {
		results, err = ui.RunBatch(cmd.Context(), cmd.ErrOrStderr(), "evaluating", inputs, bopts)
	} else {
		results, err = driver.RunBatch(cmd.Context(), inputs, bopts)
	}
	s.timer.End(idx, strconv.Itoa(len(inputs))+" inputs")
	if err != nil {
		return fmt.Errorf("evaluation failed: %w", err)
	}

	all := diag.NewBag(0)
	total := 0
	for _, res := range results {
		total += len(res.Lines)
		all.Merge(res.Bag)
	}
	failed := all.Len()

	if format == diagfmt.FormatPretty {
		printEvalPretty(cmd, s, results)
	} else {
		payload := make([]evalInputJSON, 0, len(results))
		for _, res := range results {
			payload = append(payload, buildEvalJSON(res, s.precision()))
		}
		if err := diagfmt.Encode(cmd.OutOrStdout(), format, payload); err != nil {
			return err
		}
	}
	s.printTimings(cmd)

	if failed > 0 {
		return fmt.Errorf("%d of %d expressions failed", failed, total)
	}
	return nil
}

// collectInputs turns arguments and -f files into batch inputs. Arguments
// form one input, evaluated in order in a single session.
func collectInputs(cmd *cobra.Command, args []string) ([]driver.BatchInput, error) {
	files, err := cmd.Flags().GetStringArray("file")
	if err != nil {
		return nil, fmt.Errorf("failed to get file flag: %w", err)
	}
	var inputs []driver.BatchInput
	if len(args) > 0 {
		inputs = append(inputs, driver.BatchInput{Name: "<args>", Source: strings.Join(args, "\n")})
	}
	for _, path := range files {
		in, err := readInput(cmd, path)
		if err != nil {
			return nil, err
		}
		inputs = append(inputs, in)
	}
	if len(inputs) == 0 {
		in, err := readInput(cmd, "-")
		if err != nil {
			return nil, err
		}
		inputs = append(inputs, in)
	}
	return inputs, nil
}

func readInput(cmd *cobra.Command, path string) (driver.BatchInput, error) {
	if path == "-" {
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return driver.BatchInput{}, fmt.Errorf("failed to read stdin: %w", err)
		}
		return driver.BatchInput{Name: "<stdin>", Source: string(data)}, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return driver.BatchInput{}, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return driver.BatchInput{Name: path, Source: string(data)}, nil
}

func printEvalPretty(cmd *cobra.Command, s *settings, results []driver.BatchResult) {
	out, errOut := cmd.OutOrStdout(), cmd.ErrOrStderr()
	resultColor := color.New(color.FgGreen)
	if s.color {
		resultColor.EnableColor()
	} else {
		resultColor.DisableColor()
	}
	headers := len(results) > 1 && !s.quiet

	for i, res := range results {
		if headers {
			if i > 0 {
				fmt.Fprintln(out)
			}
			fmt.Fprintf(out, "==> %s <==\n", res.Name)
		}
		for _, lr := range res.Lines {
			if lr.Err != nil {
				diagfmt.PrettyError(errOut, lr.Err, source.NewText(lr.Source), diagfmt.PrettyOpts{
					Color:      s.errColor,
					ShowNotes:  !s.quiet,
					Origin:     res.Name,
					LineOffset: lineOffset(lr.Line),
				})
				continue
			}
			fmt.Fprintln(out, resultColor.Sprint(lr.Result))
		}
	}
}

// lineOffset shifts diagnostics of a single line to its place in the file.
func lineOffset(line int) uint32 {
	off, err := safecast.Conv[uint32](line - 1)
	if err != nil {
		return 0
	}
	return off
}

func buildEvalJSON(res driver.BatchResult, precision int) evalInputJSON {
	rec := evalInputJSON{
		Name:    res.Name,
		Lines:   make([]evalLineJSON, 0, len(res.Lines)),
		Symbols: diagfmt.BuildSymbolsOutput(res.Symbols, precision, false),
	}
	for _, lr := range res.Lines {
		line := evalLineJSON{Line: lr.Line, Source: lr.Source, Result: lr.Result}
		if lr.Err != nil {
			d := diagfmt.DiagnosticToJSON(diag.FromError(lr.Err), source.NewText(lr.Source), diagfmt.JSONOpts{
				IncludePositions: true,
				IncludeNotes:     true,
			})
			d.Origin = res.Name + ":" + strconv.Itoa(lr.Line)
			line.Error = &d
		}
		rec.Lines = append(rec.Lines, line)
	}
	return rec
}

// outputFormat reads --format, falling back to output.format from the
// config.
func outputFormat(cmd *cobra.Command, s *settings) (diagfmt.Format, error) {
	name, err := cmd.Flags().GetString("format")
	if err != nil {
		return 0, fmt.Errorf("failed to get format flag: %w", err)
	}
	if name == "" {
		name = s.cfg.Output.Format
	}
	return diagfmt.ParseFormat(name)
}
