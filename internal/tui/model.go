// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package tui is the interactive front end of a conversion run. The
// bubbletea program is the event loop that runner callbacks are
// dispatched onto.
package tui

import (
	"fmt"
	"math"
	"path/filepath"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/pdiddy/doc2md/internal/runner"
	"github.com/pdiddy/doc2md/pkg/types"
)

// dispatchMsg carries a function posted by the worker. Update runs it.
type dispatchMsg func()

// Dispatcher posts functions to p. Once p has exited, posts are dropped.
func Dispatcher(p *tea.Program) runner.Dispatcher {
	return func(fn func()) {
		p.Send(dispatchMsg(fn))
	}
}

// State is what the callbacks have reported so far. It is only touched
// from the program's event loop.
type State struct {
	InputDir    string
	OutputDir   string
	Total       int
	Index       int
	CurrentFile string
	Summary     *types.RunSummary
	Err         error
}

// Done reports whether the run has finished, successfully or not.
func (s *State) Done() bool {
	return s.Summary != nil || s.Err != nil
}

// Model renders the progress of a single run.
type Model struct {
	state       *State
	started     time.Time
	width       int
	interrupted bool
}

// NewModel returns a model for a run over inputDir.
func NewModel(inputDir string) Model {
	return Model{state: &State{InputDir: inputDir}, started: time.Now()}
}

// State returns the shared run state. Read it only after the program has
// exited.
func (m Model) State() *State {
	return m.state
}

// Callbacks returns runner callbacks that record into the model state.
// They must be delivered through Dispatcher.
func (m Model) Callbacks() runner.Callbacks {
	st := m.state
	return runner.Callbacks{
		OnStart: func(outputDir string, total int) {
			st.OutputDir = outputDir
			st.Total = total
		},
		OnProgress: func(ev types.ProgressEvent) {
			st.Index = ev.Index
			st.Total = ev.Total
			st.CurrentFile = ev.CurrentFile
		},
		OnComplete: func(s types.RunSummary) {
			st.Summary = &s
		},
		OnError: func(err error) {
			st.Err = err
		},
	}
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case dispatchMsg:
		msg()
		if m.state.Done() {
			return m, tea.Quit
		}
		return m, nil
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			m.interrupted = true
		}
		return m, nil
	case tea.WindowSizeMsg:
		m.width = msg.Width
		return m, nil
	default:
		return m, nil
	}
}

func (m Model) View() string {
	st := m.state
	if st.Done() {
		return ""
	}

	barWidth := 40
	if m.width > 0 {
		barWidth = int(math.Min(60, float64(m.width-10)))
		if barWidth < 20 {
			barWidth = 20
		}
	}

	ev := types.ProgressEvent{Index: st.Index, Total: st.Total}
	current := "scanning..."
	if st.CurrentFile != "" {
		current = relativeName(st.InputDir, st.CurrentFile)
	}

	lines := []string{
		titleStyle.Render("doc2md"),
		labelStyle.Render(fmt.Sprintf("Files: %d/%d", st.Index, st.Total)) + dimStyle.Render(fmt.Sprintf("  %3.0f%%", ev.Percent())),
		labelStyle.Render("Current: ") + dimStyle.Render(current),
		dimStyle.Render(fmt.Sprintf("Elapsed: %s", time.Since(m.started).Round(time.Second))),
		barStyle.Render(renderBar(barWidth, ev.Percent()/100)),
	}
	if m.interrupted {
		lines = append(lines, warnStyle.Render("A run cannot be cancelled; waiting for it to finish."))
	}
	return strings.Join(lines, "\n")
}

func relativeName(root, path string) string {
	if rel, err := filepath.Rel(root, path); err == nil && !strings.HasPrefix(rel, "..") {
		return rel
	}
	return path
}

func renderBar(width int, ratio float64) string {
	filled := int(math.Round(ratio * float64(width)))
	filled = min(max(filled, 0), width)
	return "[" + strings.Repeat("=", filled) + strings.Repeat(" ", width-filled) + "]"
}
