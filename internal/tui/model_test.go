package tui

import (
	"path/filepath"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/huangsam/locmeta/core"
	"github.com/huangsam/locmeta/core/agg"
	"github.com/huangsam/locmeta/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestModel(t *testing.T) Model {
	t.Helper()
	records, err := agg.LoadRecordsFile(filepath.FromSlash("../../core/testdata/loc.csv"))
	require.NoError(t, err)
	state, err := core.NewViewState(records, agg.ProcessCommits(records, agg.CommitOptions{}), nil)
	require.NoError(t, err)
	m, _ := New(state).Update(tea.WindowSizeMsg{Width: 200, Height: 40})
	return m.(Model)
}

func press(t *testing.T, m Model, keys ...tea.KeyMsg) Model {
	t.Helper()
	for _, k := range keys {
		next, _ := m.Update(k)
		m = next.(Model)
	}
	return m
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestNew(t *testing.T) {
	m := newTestModel(t)
	assert.Equal(t, ModeSlider, m.Mode())
	assert.Equal(t, schema.ScatterView, m.StoryView())
	assert.Equal(t, core.MaxProgress, m.State().Progress())
	assert.Nil(t, m.Init())
}

func TestSliderKeys(t *testing.T) {
	m := newTestModel(t)

	m = press(t, m, tea.KeyMsg{Type: tea.KeyLeft})
	assert.InDelta(t, 99.0, m.State().Progress(), 1e-9)

	m = press(t, m, runes("H"))
	assert.InDelta(t, 89.0, m.State().Progress(), 1e-9)

	m = press(t, m, runes("l"))
	assert.InDelta(t, 90.0, m.State().Progress(), 1e-9)

	m = press(t, m, tea.KeyMsg{Type: tea.KeyHome})
	assert.Equal(t, core.MinProgress, m.State().Progress())
	assert.Len(t, m.State().View().Commits, 1)

	m = press(t, m, tea.KeyMsg{Type: tea.KeyLeft})
	assert.Equal(t, core.MinProgress, m.State().Progress(), "clamped at the start")

	m = press(t, m, tea.KeyMsg{Type: tea.KeyEnd})
	assert.Equal(t, core.MaxProgress, m.State().Progress())
	assert.Len(t, m.State().View().Commits, 4)
}

func TestStoryMode(t *testing.T) {
	m := newTestModel(t)

	m = press(t, m, tea.KeyMsg{Type: tea.KeyTab})
	require.Equal(t, ModeStory, m.Mode())
	assert.Equal(t, 0, m.observer().Current())
	assert.Len(t, m.State().ScatterFrame().View.Commits, 1)
	assert.Len(t, m.State().View().Commits, 4, "steps do not move the slider")
	out := m.View()
	assert.Contains(t, out, "Step 1 of 4")
	assert.Contains(t, out, "my first commit")
	require.Len(t, m.steps, 4)
	assert.Equal(t, "c1", m.steps[0].CommitID)
	assert.Equal(t, m.steps[0].Text, core.NarrativeText(m.State().Commits[0], 0, m.State().Location))

	m = press(t, m, tea.KeyMsg{Type: tea.KeyDown}, runes("j"))
	assert.Equal(t, 2, m.observer().Current())
	assert.Len(t, m.State().ScatterFrame().Points, 3)
	assert.Contains(t, m.View(), "Step 3 of 4")

	m = press(t, m, runes("G"), tea.KeyMsg{Type: tea.KeyDown})
	assert.Equal(t, 3, m.observer().Current(), "stops at the last step")

	m = press(t, m, runes("g"), tea.KeyMsg{Type: tea.KeyUp})
	assert.Equal(t, 0, m.observer().Current(), "stops at the first step")

	m = press(t, m, tea.KeyMsg{Type: tea.KeyTab})
	assert.Equal(t, ModeSlider, m.Mode())
	assert.NotContains(t, m.View(), "Step 1 of 4")
	assert.Equal(t, core.MaxProgress, m.State().Progress(), "slider resumes where it was")
	assert.Len(t, m.State().Points(), 4)
}

func TestToggleView(t *testing.T) {
	m := newTestModel(t)

	m = press(t, m, runes("v"))
	assert.Equal(t, schema.FilesView, m.StoryView())
	out := m.View()
	assert.Contains(t, out, "global.js")
	assert.Contains(t, out, "■ css")

	// Story steps are tracked per view.
	m = press(t, m, tea.KeyMsg{Type: tea.KeyTab}, tea.KeyMsg{Type: tea.KeyDown})
	assert.Equal(t, 1, m.files.Current())
	assert.Equal(t, -1, m.scatter.Current())

	m = press(t, m, runes("v"))
	assert.Equal(t, schema.ScatterView, m.StoryView())
	assert.Equal(t, 0, m.scatter.Current())
	assert.Equal(t, 1, m.files.Current())
}

func TestQuit(t *testing.T) {
	for _, k := range []tea.KeyMsg{runes("q"), {Type: tea.KeyCtrlC}, {Type: tea.KeyEsc}} {
		t.Run(k.String(), func(t *testing.T) {
			next, cmd := newTestModel(t).Update(k)
			require.NotNil(t, cmd)
			assert.IsType(t, tea.QuitMsg{}, cmd())
			assert.Empty(t, next.View())
		})
	}
}

func TestRenderScatter(t *testing.T) {
	m := newTestModel(t)
	out := m.renderScatter()
	assert.Contains(t, out, "24:00")
	assert.Contains(t, out, "00:00")
	assert.Contains(t, out, "•")
}

func TestRenderSlider(t *testing.T) {
	m := newTestModel(t)
	out := m.renderSlider()
	assert.Contains(t, out, "100%")
	assert.Contains(t, out, "4 commits, 8 lines")
	assert.Contains(t, out, "February 14, 2025")
}

func TestCell(t *testing.T) {
	assert.Equal(t, 0, cell(-5, 100, 10))
	assert.Equal(t, 5, cell(50, 100, 10))
	assert.Equal(t, 9, cell(100, 100, 10))
	assert.Equal(t, 5, cell(1, 0, 10))
}
