package core

import (
	"encoding/json"
	"math"
	"testing"
	"time"

	"github.com/huangsam/locmeta/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFilter(t *testing.T) {
	_, commits := loadFixture(t)

	t.Run("cutoff is inclusive", func(t *testing.T) {
		view := Filter(commits, commits[1].Datetime)
		assert.Equal(t, []string{"c1", "c2"}, commitIDs(view.Commits))
		assert.Len(t, view.Lines, 6)
		assert.Equal(t, commits[1].Datetime, view.Cutoff)
	})

	t.Run("before everything", func(t *testing.T) {
		view := Filter(commits, commits[0].Datetime.Add(-time.Second))
		assert.Empty(t, view.Commits)
		assert.Empty(t, view.Lines)
	})

	t.Run("after everything", func(t *testing.T) {
		view := Filter(commits, time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC))
		assert.Len(t, view.Commits, 4)
		assert.Len(t, view.Lines, 8)
	})
}

func TestNewViewState(t *testing.T) {
	t.Run("no commits", func(t *testing.T) {
		_, err := NewViewState(nil, nil, nil)
		assert.ErrorIs(t, err, schema.ErrNoCommits)
	})

	t.Run("starts at the last commit", func(t *testing.T) {
		state := newFixtureState(t)
		assert.Equal(t, MaxProgress, state.Progress())
		assert.True(t, state.Cutoff().Equal(state.Commits[3].Datetime))
		assert.Len(t, state.View().Commits, 4)
		assert.Len(t, state.Points(), 4)
		assert.Len(t, state.Breakdown().Files, 4)
	})
}

func TestSetProgress(t *testing.T) {
	state := newFixtureState(t)

	tests := []struct {
		name     string
		progress float64
		want     []string
		wantP    float64
	}{
		{"start shows the first commit", 0, []string{"c1"}, 0},
		{"midpoint", 50, []string{"c1", "c2"}, 50},
		{"end", 100, []string{"c1", "c2", "c3", "c4"}, 100},
		{"clamped low", -5, []string{"c1"}, 0},
		{"clamped high", 250, []string{"c1", "c2", "c3", "c4"}, 100},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			state.SetProgress(tt.progress)
			assert.Equal(t, tt.want, commitIDs(state.View().Commits))
			assert.Equal(t, tt.wantP, state.Progress())
			assert.Len(t, state.Points(), len(tt.want))
		})
	}
}

func TestSetProgressNonFinite(t *testing.T) {
	state := newFixtureState(t)
	state.SetProgress(50)

	state.SetProgress(math.NaN())
	assert.Equal(t, 50.0, state.Progress(), "NaN keeps the slider in place")
	assert.Equal(t, []string{"c1", "c2"}, commitIDs(state.View().Commits))
	assert.Equal(t, state.Commits[0].Datetime.Year(), state.Cutoff().Year())

	state.SetProgress(math.Inf(1))
	assert.Equal(t, MaxProgress, state.Progress())
	state.SetProgress(math.Inf(-1))
	assert.Equal(t, MinProgress, state.Progress())

	_, err := json.Marshal(BuildCommits(state))
	assert.NoError(t, err)
}

func TestSetCutoff(t *testing.T) {
	state := newFixtureState(t)

	state.SetCutoff(state.Commits[2].Datetime)
	assert.Equal(t, []string{"c1", "c2", "c3"}, commitIDs(state.View().Commits))
	assert.Greater(t, state.Progress(), 0.0)
	assert.Less(t, state.Progress(), 100.0)

	state.SetCutoff(state.Commits[0].Datetime.Add(-time.Hour))
	assert.Empty(t, state.View().Commits)
	assert.Empty(t, state.Points())
	assert.Empty(t, state.Breakdown().Files)
	assert.Equal(t, 0.0, state.Progress())
}

func TestCutoffLabel(t *testing.T) {
	state := newFixtureState(t)
	state.SetProgress(0)
	assert.Equal(t, "February 9, 2025 at 9:15 AM", state.CutoffLabel())

	state.Location = time.UTC
	assert.Equal(t, "February 9, 2025 at 2:15 PM", state.CutoffLabel())
}

func TestOnChange(t *testing.T) {
	state := newFixtureState(t)

	var seen []int
	state.OnChange(func(s *ViewState) { seen = append(seen, len(s.View().Commits)) })
	state.SetProgress(0)
	state.SetCutoff(state.Commits[1].Datetime)
	state.SetProgress(100)

	assert.Equal(t, []int{1, 2, 4}, seen)
}

func TestViewStateSelection(t *testing.T) {
	state := newFixtureState(t)
	state.SetProgress(0)

	text, types := state.SelectionBreakdown()
	assert.Equal(t, "No commits selected", text)
	assert.Nil(t, types)

	// The brush covers every commit, not just the visible ones.
	selected := state.SetSelection(schema.NewSelection(0, 0, CanvasWidth, CanvasHeight))
	require.Len(t, selected, 4)
	text, types = state.SelectionBreakdown()
	assert.Equal(t, "4 commits selected", text)
	assert.Len(t, types, 4)

	state.SetSelection(nil)
	assert.Nil(t, state.Selection())
}

func TestViewStateSummary(t *testing.T) {
	state := newFixtureState(t)
	state.SetProgress(0)
	stats := state.Summary()
	assert.Equal(t, "8", stats[0].Value, "summary covers the full dataset")
}
