package main

import (
	"errors"
	"os"

	"github.com/spf13/cobra"

	"exprua/internal/ui"
)

var errNotTerminal = errors.New("ui needs an interactive terminal (try exprua repl)")

func newUICmd() *cobra.Command {
	return &cobra.Command{
		Use:   "ui",
		Short: "Open the interactive workbench",
		Long:  `Open a full-screen workbench: an input line, the result, and tabs listing symbols, the syntax tree and tokens`,
		Args:  cobra.NoArgs,
		RunE:  runUI,
	}
}

func runUI(cmd *cobra.Command, _ []string) (err error) {
	s, cleanup, err := loadSettings(cmd)
	if err != nil {
		return err
	}
	defer func() { cleanup(err != nil) }()

	if !isTerminal(os.Stdin) || !isTerminal(os.Stdout) {
		return errNotTerminal
	}
	opts := s.sessionOptions()
	// таймер пишет фазы в статус-бар воркбенча
	opts.Timer = nil
	return ui.RunWorkbench(cmd.InOrStdin(), cmd.OutOrStdout(), ui.WorkbenchOptions{
		Session: opts,
		Color:   s.color,
	})
}
