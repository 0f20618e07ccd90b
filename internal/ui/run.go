package ui

import (
	"context"
	"io"

	tea "github.com/charmbracelet/bubbletea"

	"exprua/internal/driver"
)

// RunWorkbench runs the interactive workbench until the user quits.
func RunWorkbench(in io.Reader, out io.Writer, opts WorkbenchOptions) error {
	w, err := NewWorkbench(opts)
	if err != nil {
		return err
	}
	program := tea.NewProgram(w, tea.WithAltScreen(), tea.WithInput(in), tea.WithOutput(out))
	_, err = program.Run()
	return err
}

type batchOutcome struct {
	results []driver.BatchResult
	err     error
}

// RunBatch evaluates inputs via driver.RunBatch while rendering progress to
// out. Quitting the view early cancels the batch.
func RunBatch(ctx context.Context, out io.Writer, title string, inputs []driver.BatchInput, opts driver.BatchOptions) ([]driver.BatchResult, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	events := make(chan driver.BatchEvent, 256)
	outcomeCh := make(chan batchOutcome, 1)
	go func() {
		o := opts
		o.Events = events
		res, err := driver.RunBatch(ctx, inputs, o)
		outcomeCh <- batchOutcome{results: res, err: err}
		close(events)
	}()

	names := make([]string, len(inputs))
	for i, in := range inputs {
		names[i] = in.Name
	}
	program := tea.NewProgram(NewProgressModel(title, names, events), tea.WithOutput(out))
	_, uiErr := program.Run()
	cancel()
	outcome := <-outcomeCh
	if uiErr != nil {
		return outcome.results, uiErr
	}
	return outcome.results, outcome.err
}
