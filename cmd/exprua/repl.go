package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/chzyer/readline"
	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"exprua/internal/diagfmt"
	"exprua/internal/driver"
	"exprua/internal/symbols"
)

const replPrompt = "exprua> "

var promptStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("6"))

func newREPLCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "repl",
		Short: "Start an interactive session",
		Long: `Start an interactive session. Variables persist between lines.
Type .help for commands, .quit to exit.`,
		Args: cobra.NoArgs,
		RunE: runREPL,
	}
	cmd.Flags().String("history", "", "history file (default: user cache dir, 'none' disables)")
	return cmd
}

// repl is one interactive session bound to the command's streams.
type repl struct {
	s       *settings
	session *driver.Session
	out     io.Writer
	errOut  io.Writer
	result  *color.Color
}

func newREPL(cmd *cobra.Command, s *settings) (*repl, error) {
	session, err := driver.NewSession(s.sessionOptions())
	if err != nil {
		return nil, err
	}
	result := color.New(color.FgGreen, color.Bold)
	if s.color {
		result.EnableColor()
	} else {
		result.DisableColor()
	}
	return &repl{
		s:       s,
		session: session,
		out:     cmd.OutOrStdout(),
		errOut:  cmd.ErrOrStderr(),
		result:  result,
	}, nil
}

func runREPL(cmd *cobra.Command, _ []string) (err error) {
	s, cleanup, err := loadSettings(cmd)
	if err != nil {
		return err
	}
	defer func() { cleanup(err != nil) }()

	r, err := newREPL(cmd, s)
	if err != nil {
		return err
	}

	in, ok := cmd.InOrStdin().(*os.File)
	if !ok || !isTerminal(in) {
		return r.runPiped(cmd.InOrStdin())
	}

	history, _ := cmd.Flags().GetString("history")
	prompt := replPrompt
	if s.color {
		prompt = promptStyle.Render(replPrompt)
	}
	rl, err := readline.NewEx(&readline.Config{
		Prompt:          prompt,
		HistoryFile:     historyPath(history),
		AutoComplete:    newCompleter(r.session.Table()),
		InterruptPrompt: "^C",
		EOFPrompt:       ".quit",
		Stdin:           in,
		Stdout:          cmd.OutOrStdout(),
		Stderr:          cmd.ErrOrStderr(),
	})
	if err != nil {
		return fmt.Errorf("failed to initialize REPL: %w", err)
	}
	defer func() { _ = rl.Close() }()

	if !s.quiet {
		_, _ = fmt.Fprintln(r.out, "exprua REPL. Type .help for commands, .quit to exit")
	}
	for {
		line, err := rl.Readline()
		if errors.Is(err, readline.ErrInterrupt) {
			continue
		}
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return err
		}
		if r.handleLine(line) {
			break
		}
	}
	s.printTimings(cmd)
	return nil
}

// runPiped evaluates lines from a non-terminal input without line editing.
func (r *repl) runPiped(in io.Reader) error {
	sc := bufio.NewScanner(in)
	for sc.Scan() {
		if r.handleLine(sc.Text()) {
			return nil
		}
	}
	return sc.Err()
}

// handleLine runs one input line and reports whether the REPL should exit.
func (r *repl) handleLine(line string) bool {
	line = strings.TrimSpace(line)
	if line == "" || strings.HasPrefix(line, "#") {
		return false
	}
	if strings.HasPrefix(line, ".") {
		return r.dotCommand(line)
	}

	v, err := r.session.ParseAndEvaluate(line)
	if err != nil {
		diagfmt.PrettyError(r.errOut, err, r.session.LastText(), diagfmt.PrettyOpts{
			Color:     r.s.errColor,
			ShowNotes: !r.s.quiet,
		})
		return false
	}
	_, _ = fmt.Fprintln(r.out, r.result.Sprint(r.session.Format(v)))
	return false
}

func (r *repl) dotCommand(line string) bool {
	parts := strings.Fields(line)
	switch strings.ToLower(parts[0]) {
	case ".quit", ".exit":
		return true
	case ".help":
		printREPLHelp(r.out)
	case ".symbols":
		renderSymbolsTable(r.out, r.session.Table(), r.session.Precision(), false)
	case ".functions":
		renderSymbolsTable(r.out, r.session.Table(), r.session.Precision(), true)
	case ".ast":
		if tree := r.session.LastTree(); tree != nil {
			_, _ = fmt.Fprint(r.out, r.session.DescribeAst(tree))
		} else {
			_, _ = fmt.Fprintln(r.errOut, "no expression parsed yet")
		}
	case ".tokens":
		if len(parts) > 1 {
			listing, err := r.session.DescribeTokens(strings.TrimSpace(strings.TrimPrefix(line, parts[0])))
			if err != nil {
				_, _ = fmt.Fprintf(r.errOut, "error: %v\n", err)
				return false
			}
			_, _ = fmt.Fprint(r.out, listing)
			return false
		}
		if listing := r.session.DescribeLastTokens(); listing != "" {
			_, _ = fmt.Fprint(r.out, listing)
		} else {
			_, _ = fmt.Fprintln(r.errOut, "no expression parsed yet")
		}
	default:
		_, _ = fmt.Fprintf(r.errOut, "unknown command: %s (type .help for commands)\n", parts[0])
	}
	return false
}

func printREPLHelp(w io.Writer) {
	help := `Commands:
  .help            Show this help message
  .symbols         List constants and variables
  .functions       List built-in functions too
  .ast             Show the syntax tree of the last expression
  .tokens [expr]   Show the tokens of expr or of the last expression
  .quit / .exit    Exit the REPL

Expressions:
  5 kg * 9.8 m/s^2      units combine and convert
  v = 3 m / 1 s         assignments persist for the session
  convert(1 km, 1 m)    built-ins: sin, sqrt, convert, si, ...`
	_, _ = fmt.Fprintln(w, help)
}

// historyPath resolves --history; "none" disables the file.
func historyPath(flag string) string {
	switch flag {
	case "none":
		return ""
	case "":
		dir, err := os.UserCacheDir()
		if err != nil {
			return ""
		}
		dir = filepath.Join(dir, "exprua")
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return ""
		}
		return filepath.Join(dir, "history")
	default:
		return flag
	}
}

// newCompleter completes dot-commands and the names in tab.
func newCompleter(tab *symbols.Table) *readline.PrefixCompleter {
	var items []readline.PrefixCompleterInterface
	for _, name := range tab.Names() {
		items = append(items, readline.PcItem(name))
	}
	for _, cmd := range []string{".help", ".symbols", ".functions", ".ast", ".tokens", ".quit", ".exit"} {
		items = append(items, readline.PcItem(cmd))
	}
	return readline.NewPrefixCompleter(items...)
}
