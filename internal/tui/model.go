// Package tui is the interactive timeline: a slider that scrubs through the
// commit history and a narrative that steps through it commit by commit.
package tui

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/huangsam/locmeta/core"
	"github.com/huangsam/locmeta/schema"
)

// Mode is what the arrow keys drive.
type Mode int

const (
	ModeSlider Mode = iota
	ModeStory
)

// Slider steps.
const (
	smallStep = 1.0
	largeStep = 10.0
)

// Model is the bubbletea model over one view state.
type Model struct {
	state   *core.ViewState
	scatter *core.StepObserver
	files   *core.StepObserver
	steps   []schema.NarrativeStep

	mode       Mode
	view       schema.StoryView
	width      int
	height     int
	shouldQuit bool
}

// New returns a model positioned at the state's current cutoff.
func New(state *core.ViewState) Model {
	return Model{
		state:   state,
		scatter: state.ScatterObserver(),
		files:   state.FilesObserver(),
		steps:   core.NarrativeSteps(state.Commits, state.Location),
		view:    schema.ScatterView,
		width:   80,
		height:  24,
	}
}

// Run starts the program in the alternate screen and blocks until it quits.
func Run(state *core.ViewState) error {
	p := tea.NewProgram(New(state), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("error running program: %w", err)
	}
	return nil
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd { return nil }

// Update handles all messages and updates state.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c", "q", "esc":
		m.shouldQuit = true
		return m, tea.Quit
	case "tab":
		if m.mode == ModeSlider {
			m.mode = ModeStory
			m.enterStep(max(m.observer().Current(), 0))
		} else {
			m.mode = ModeSlider
		}
		return m, nil
	case "v":
		m.toggleView()
		return m, nil
	}

	if m.mode == ModeStory {
		return m.handleStoryKey(msg)
	}
	return m.handleSliderKey(msg)
}

func (m Model) handleSliderKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	p := m.state.Progress()
	switch msg.String() {
	case "left", "h":
		m.state.SetProgress(p - smallStep)
	case "right", "l":
		m.state.SetProgress(p + smallStep)
	case "pgdown", "H", "shift+left":
		m.state.SetProgress(p - largeStep)
	case "pgup", "L", "shift+right":
		m.state.SetProgress(p + largeStep)
	case "home", "g":
		m.state.SetProgress(core.MinProgress)
	case "end", "G":
		m.state.SetProgress(core.MaxProgress)
	}
	return m, nil
}

func (m Model) handleStoryKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	obs := m.observer()
	switch msg.String() {
	case "down", "j", "right", "l", "enter", " ":
		_, _ = obs.Next()
	case "up", "k", "left", "h":
		_, _ = obs.Prev()
	case "home", "g":
		m.enterStep(0)
	case "end", "G":
		m.enterStep(obs.Len() - 1)
	}
	return m, nil
}

// observer is the step observer for the active view.
func (m Model) observer() *core.StepObserver {
	if m.view == schema.FilesView {
		return m.files
	}
	return m.scatter
}

func (m *Model) enterStep(i int) {
	_, _ = m.observer().Enter(i)
}

// toggleView switches between the scatter and file views. In story mode the
// newly active observer re-enters its own current step.
func (m *Model) toggleView() {
	if m.view == schema.ScatterView {
		m.view = schema.FilesView
	} else {
		m.view = schema.ScatterView
	}
	if m.mode == ModeStory {
		m.enterStep(max(m.observer().Current(), 0))
	}
}

// Mode returns what the arrow keys currently drive.
func (m Model) Mode() Mode { return m.mode }

// StoryView returns the view being shown.
func (m Model) StoryView() schema.StoryView { return m.view }

// State returns the underlying view state.
func (m Model) State() *core.ViewState { return m.state }
