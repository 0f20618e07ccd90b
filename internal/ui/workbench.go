package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"exprua/internal/diagfmt"
	"exprua/internal/driver"
)

// Tab selects the pane shown under the input line.
type Tab int

const (
	TabSymbols Tab = iota
	TabAST
	TabTokens
	tabCount
)

var tabNames = [tabCount]string{"Symbols", "AST", "Tokens"}

func (t Tab) String() string {
	if t < 0 || t >= tabCount {
		return "?"
	}
	return tabNames[t]
}

// chrome is the number of lines the workbench draws around the pane.
const chrome = 7

var (
	activeTabStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("0")).Background(lipgloss.Color("6")).Padding(0, 1)
	inactiveTabStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("7")).Padding(0, 1)
	resultStyle      = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("2"))
	errorStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	statusStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	paneStyle        = lipgloss.NewStyle().BorderStyle(lipgloss.NormalBorder()).BorderTop(true).BorderForeground(lipgloss.Color("8"))
)

// WorkbenchOptions configures NewWorkbench.
type WorkbenchOptions struct {
	Session driver.Options
	// Color enables ANSI colors inside rendered diagnostics.
	Color bool
}

// Workbench is an interactive session: an input line, the last result and
// a pane listing symbols, the AST or tokens of the last input.
type Workbench struct {
	session *driver.Session
	input   textinput.Model
	pane    viewport.Model
	tab     Tab
	color   bool

	result  string
	errText string
	phases  []driver.PhaseEvent

	history []string
	histPos int

	width, height int
}

// NewWorkbench starts a session and returns the model driving it.
func NewWorkbench(opts WorkbenchOptions) (*Workbench, error) {
	w := &Workbench{color: opts.Color, width: 80, height: 24}

	sopts := opts.Session
	next := sopts.Observer
	sopts.Observer = func(ev driver.PhaseEvent) {
		if ev.Status == driver.PhaseEnd {
			w.phases = append(w.phases, ev)
		}
		if next != nil {
			next(ev)
		}
	}
	s, err := driver.NewSession(sopts)
	if err != nil {
		return nil, err
	}
	w.session = s
	w.phases = nil

	in := textinput.New()
	in.Prompt = "» "
	in.Placeholder = "5 kg * 9.8 m/s^2"
	in.Focus()
	w.input = in

	w.pane = viewport.New(w.width, w.height-chrome)
	w.refresh()
	return w, nil
}

// Session returns the session the workbench evaluates in.
func (w *Workbench) Session() *driver.Session { return w.session }

func (w *Workbench) Init() tea.Cmd {
	return textinput.Blink
}

func (w *Workbench) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		w.resize(msg.Width, msg.Height)
		return w, nil
	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc, tea.KeyCtrlD:
			return w, tea.Quit
		case tea.KeyEnter:
			w.submit()
			return w, nil
		case tea.KeyTab:
			w.tab = (w.tab + 1) % tabCount
			w.refresh()
			return w, nil
		case tea.KeyShiftTab:
			w.tab = (w.tab + tabCount - 1) % tabCount
			w.refresh()
			return w, nil
		case tea.KeyUp:
			w.recall(-1)
			return w, nil
		case tea.KeyDown:
			w.recall(1)
			return w, nil
		case tea.KeyPgUp, tea.KeyPgDown:
			var cmd tea.Cmd
			w.pane, cmd = w.pane.Update(msg)
			return w, cmd
		}
	}
	var cmd tea.Cmd
	w.input, cmd = w.input.Update(msg)
	return w, cmd
}

func (w *Workbench) resize(width, height int) {
	if width > 0 {
		w.width = width
		w.input.Width = max(width-4, 10)
	}
	if height > 0 {
		w.height = height
	}
	w.pane.Width = w.width
	w.pane.Height = max(w.height-chrome, 3)
}

func (w *Workbench) submit() {
	src := strings.TrimSpace(w.input.Value())
	if src == "" {
		return
	}
	w.history = append(w.history, src)
	w.histPos = len(w.history)
	w.phases = nil

	v, err := w.session.ParseAndEvaluate(src)
	if err != nil {
		var sb strings.Builder
		diagfmt.PrettyError(&sb, err, w.session.LastText(), diagfmt.PrettyOpts{
			Color:     w.color,
			ShowNotes: true,
			Origin:    "input",
		})
		w.errText = strings.TrimRight(sb.String(), "\n")
		w.result = ""
	} else {
		w.result = w.session.Format(v)
		w.errText = ""
	}
	w.input.Reset()
	w.refresh()
}

// recall walks the input history; stepping past the newest entry clears
// the line.
func (w *Workbench) recall(step int) {
	if len(w.history) == 0 {
		return
	}
	w.histPos = min(max(w.histPos+step, 0), len(w.history))
	if w.histPos == len(w.history) {
		w.input.Reset()
		return
	}
	w.input.SetValue(w.history[w.histPos])
	w.input.CursorEnd()
}

func (w *Workbench) refresh() {
	var content string
	switch w.tab {
	case TabSymbols:
		content = w.session.DescribeSymbolTable()
	case TabAST:
		content = w.session.DescribeAst(w.session.LastTree())
	case TabTokens:
		content = w.session.DescribeLastTokens()
	}
	if content == "" {
		content = "(empty)"
	}
	w.pane.SetContent(strings.TrimRight(content, "\n"))
	w.pane.GotoTop()
}

func (w *Workbench) View() string {
	var b strings.Builder

	tabs := make([]string, 0, tabCount)
	for t := Tab(0); t < tabCount; t++ {
		style := inactiveTabStyle
		if t == w.tab {
			style = activeTabStyle
		}
		tabs = append(tabs, style.Render(t.String()))
	}
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, tabs...))
	b.WriteString("\n\n")

	b.WriteString(w.input.View())
	b.WriteString("\n")
	switch {
	case w.errText != "":
		b.WriteString(errorStyle.Render(w.errText))
	case w.result != "":
		b.WriteString(resultStyle.Render("= " + w.result))
	}
	b.WriteString("\n")

	b.WriteString(paneStyle.Width(w.width).Render(w.pane.View()))
	b.WriteString("\n")
	b.WriteString(statusStyle.Render(truncate(w.status(), w.width)))
	return b.String()
}

// status lists the phases of the last evaluation with their durations.
func (w *Workbench) status() string {
	if len(w.phases) == 0 {
		return "tab: switch pane  ↑/↓: history  esc: quit"
	}
	parts := make([]string, 0, len(w.phases))
	for _, ph := range w.phases {
		part := fmt.Sprintf("%s %s", ph.Name, ph.Elapsed.Round(time.Microsecond))
		if ph.Err != nil {
			part += " (failed)"
		}
		parts = append(parts, part)
	}
	return strings.Join(parts, "  ")
}
