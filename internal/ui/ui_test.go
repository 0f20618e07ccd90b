package ui

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"exprua/internal/driver"
)

func newWorkbench(t *testing.T, opts WorkbenchOptions) *Workbench {
	t.Helper()
	w, err := NewWorkbench(opts)
	if err != nil {
		t.Fatalf("NewWorkbench: %v", err)
	}
	return w
}

func typeLine(w *Workbench, line string) {
	w.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(line)})
	w.Update(tea.KeyMsg{Type: tea.KeyEnter})
}

func TestWorkbenchEvaluate(t *testing.T) {
	w := newWorkbench(t, WorkbenchOptions{})
	typeLine(w, "v = 3 m / 1 s")
	if w.result != "3 m/s" || w.errText != "" {
		t.Fatalf("result = %q, err = %q", w.result, w.errText)
	}
	if w.input.Value() != "" {
		t.Errorf("input not cleared: %q", w.input.Value())
	}
	view := w.View()
	for _, want := range []string{"= 3 m/s", "Symbols", "v", "variable"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q:\n%s", want, view)
		}
	}
	if len(w.phases) != 3 {
		t.Errorf("phases = %+v, want lex, parse, eval", w.phases)
	}
	if !strings.Contains(w.status(), "eval ") {
		t.Errorf("status = %q", w.status())
	}
}

func TestWorkbenchError(t *testing.T) {
	w := newWorkbench(t, WorkbenchOptions{})
	typeLine(w, "5 m + 3 s")
	if w.result != "" {
		t.Errorf("result = %q after error", w.result)
	}
	for _, want := range []string{"error[EVL", "--> input:1:", "^^^^^^^^^"} {
		if !strings.Contains(w.errText, want) {
			t.Errorf("error text missing %q:\n%s", want, w.errText)
		}
	}
	if strings.Contains(w.errText, "\x1b[") {
		t.Errorf("colors leaked with Color=false: %q", w.errText)
	}

	typeLine(w, "2 + 2")
	if w.result != "4" || w.errText != "" {
		t.Errorf("recovery: result = %q, err = %q", w.result, w.errText)
	}
}

func TestWorkbenchTabs(t *testing.T) {
	w := newWorkbench(t, WorkbenchOptions{})
	typeLine(w, "x = 2 * pi")

	w.Update(tea.KeyMsg{Type: tea.KeyTab})
	if w.tab != TabAST {
		t.Fatalf("tab = %v, want AST", w.tab)
	}
	if view := w.pane.View(); !strings.Contains(view, "Assignment x") {
		t.Errorf("AST pane:\n%s", view)
	}

	w.Update(tea.KeyMsg{Type: tea.KeyTab})
	if w.tab != TabTokens || !strings.Contains(w.pane.View(), "Ident") {
		t.Errorf("tokens pane (%v):\n%s", w.tab, w.pane.View())
	}

	w.Update(tea.KeyMsg{Type: tea.KeyTab})
	if w.tab != TabSymbols {
		t.Errorf("tab did not wrap: %v", w.tab)
	}
	w.Update(tea.KeyMsg{Type: tea.KeyShiftTab})
	if w.tab != TabTokens {
		t.Errorf("shift+tab: %v", w.tab)
	}
}

func TestWorkbenchHistory(t *testing.T) {
	w := newWorkbench(t, WorkbenchOptions{})
	typeLine(w, "1 + 1")
	typeLine(w, "2 + 2")

	w.Update(tea.KeyMsg{Type: tea.KeyUp})
	if got := w.input.Value(); got != "2 + 2" {
		t.Errorf("up = %q", got)
	}
	w.Update(tea.KeyMsg{Type: tea.KeyUp})
	w.Update(tea.KeyMsg{Type: tea.KeyUp})
	if got := w.input.Value(); got != "1 + 1" {
		t.Errorf("up past oldest = %q", got)
	}
	w.Update(tea.KeyMsg{Type: tea.KeyDown})
	w.Update(tea.KeyMsg{Type: tea.KeyDown})
	if got := w.input.Value(); got != "" {
		t.Errorf("down past newest = %q", got)
	}
}

func TestWorkbenchQuitAndResize(t *testing.T) {
	w := newWorkbench(t, WorkbenchOptions{})
	w.Update(tea.WindowSizeMsg{Width: 100, Height: 30})
	if w.pane.Width != 100 || w.pane.Height != 30-chrome {
		t.Errorf("pane = %dx%d", w.pane.Width, w.pane.Height)
	}
	w.Update(tea.WindowSizeMsg{Width: 40, Height: 5})
	if w.pane.Height != 3 {
		t.Errorf("pane height floor = %d", w.pane.Height)
	}

	_, cmd := w.Update(tea.KeyMsg{Type: tea.KeyEsc})
	if cmd == nil {
		t.Fatal("esc returned no command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("esc did not quit")
	}
}

func TestWorkbenchPredefinedVars(t *testing.T) {
	var seen []string
	w := newWorkbench(t, WorkbenchOptions{Session: driver.Options{
		Vars:     []driver.Var{{Name: "g0", Source: "9.80665 m/s^2"}},
		Observer: func(ev driver.PhaseEvent) { seen = append(seen, ev.Name) },
	}})
	if len(w.phases) != 0 {
		t.Errorf("phases from predefined vars leaked: %+v", w.phases)
	}
	if len(seen) == 0 {
		t.Error("caller observer not chained")
	}
	typeLine(w, "2 kg * g0")
	if w.result != "19.6133 N" {
		t.Errorf("result = %q", w.result)
	}

	_, err := NewWorkbench(WorkbenchOptions{Session: driver.Options{
		Vars: []driver.Var{{Name: "pi", Source: "3"}},
	}})
	if err == nil {
		t.Error("reserved predefined var accepted")
	}
}

func TestProgressModel(t *testing.T) {
	events := make(chan driver.BatchEvent)
	m := NewProgressModel("evaluating", []string{"a.expr", "b.expr"}, events).(*progressModel)

	m.Update(eventMsg(driver.BatchEvent{Name: "a.expr", Status: driver.BatchRunning, Done: 1, Lines: 2}))
	if got := m.fraction(); got != 0.25 {
		t.Errorf("fraction = %v, want 0.25", got)
	}
	m.Update(eventMsg(driver.BatchEvent{Name: "a.expr", Status: driver.BatchDone, Done: 2, Lines: 2}))
	m.Update(eventMsg(driver.BatchEvent{Name: "b.expr", Status: driver.BatchFailed, Lines: 0, Errors: 1}))
	m.Update(eventMsg(driver.BatchEvent{Name: "unknown", Status: driver.BatchDone}))
	if got := m.fraction(); got != 1 {
		t.Errorf("fraction = %v, want 1", got)
	}

	view := m.View()
	for _, want := range []string{"evaluating", "done", "failed", "2/2", "(1 errors)"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q:\n%s", want, view)
		}
	}

	close(events)
	if _, ok := m.listenForEvent()().(doneMsg); !ok {
		t.Error("closed channel did not yield doneMsg")
	}
	_, cmd := m.Update(doneMsg{})
	if !m.done || cmd == nil {
		t.Error("doneMsg did not finish the model")
	}
	if !strings.Contains(m.View(), "done: evaluating") {
		t.Errorf("final view:\n%s", m.View())
	}
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		in    string
		width int
		want  string
	}{
		{"short", 10, "short"},
		{"abcdefghij", 8, "abcde..."},
		{"abcdef", 2, "ab"},
		{"any", 0, "any"},
	}
	for _, tt := range tests {
		if got := truncate(tt.in, tt.width); got != tt.want {
			t.Errorf("truncate(%q, %d) = %q, want %q", tt.in, tt.width, got, tt.want)
		}
	}
}

func TestTabString(t *testing.T) {
	if TabAST.String() != "AST" || Tab(9).String() != "?" {
		t.Error("Tab.String")
	}
}
