package core

import (
	"testing"
	"time"

	"github.com/huangsam/locmeta/core/algo"
	"github.com/huangsam/locmeta/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewScatterLayout(t *testing.T) {
	_, commits := loadFixture(t)

	t.Run("no commits", func(t *testing.T) {
		_, err := NewScatterLayout(nil)
		assert.ErrorIs(t, err, schema.ErrNoCommits)
	})

	t.Run("geometry", func(t *testing.T) {
		l, err := NewScatterLayout(commits)
		require.NoError(t, err)
		assert.Equal(t, Area{Top: 10, Right: 990, Bottom: 570, Left: 20, Width: 970, Height: 560}, l.Area)
		assert.Equal(t, 570.0, l.Y.Scale(0))
		assert.Equal(t, 10.0, l.Y.Scale(24))
	})

	t.Run("points stay inside the area", func(t *testing.T) {
		l, err := NewScatterLayout(commits)
		require.NoError(t, err)
		for _, c := range commits {
			x, y := l.Project(c)
			assert.GreaterOrEqual(t, x, l.Area.Left, c.ID)
			assert.LessOrEqual(t, x, l.Area.Right, c.ID)
			assert.GreaterOrEqual(t, y, l.Area.Top, c.ID)
			assert.LessOrEqual(t, y, l.Area.Bottom, c.ID)
		}
		_, y := l.Project(commits[0])
		assert.InDelta(t, 570-9.25/24*560, y, 1e-9)
	})
}

func TestPoints(t *testing.T) {
	_, commits := loadFixture(t)
	l, err := NewScatterLayout(commits)
	require.NoError(t, err)

	points := l.Points(commits)
	require.Len(t, points, 4)
	assert.Equal(t, []string{"c2", "c1", "c3", "c4"}, pointIDs(points), "largest first, ties keep order")
	assert.InDelta(t, MaxRadius, points[0].R, 1e-9)
	assert.InDelta(t, 3+22*(1.4142135623730951-1), points[1].R, 1e-9)
	assert.InDelta(t, MinRadius, points[3].R, 1e-9)
	for _, p := range points {
		assert.True(t, p.Entering, p.CommitID)
	}

	again := l.Points(commits[:2])
	for _, p := range again {
		assert.False(t, p.Entering, p.CommitID)
	}

	grown := l.Points(commits)
	entering := map[string]bool{}
	for _, p := range grown {
		entering[p.CommitID] = p.Entering
	}
	assert.Equal(t, map[string]bool{"c1": false, "c2": false, "c3": true, "c4": true}, entering)
}

func TestPointsSingleCommit(t *testing.T) {
	_, commits := loadFixture(t)
	l, err := NewScatterLayout(commits)
	require.NoError(t, err)

	points := l.Points(commits[:1])
	require.Len(t, points, 1)
	assert.InDelta(t, (MinRadius+MaxRadius)/2, points[0].R, 1e-9)
}

func TestGridlines(t *testing.T) {
	_, commits := loadFixture(t)
	l, err := NewScatterLayout(commits)
	require.NoError(t, err)

	lines := l.Gridlines()
	require.NotEmpty(t, lines)
	blue, _ := algo.ParseHex(algo.SteelBlue)
	orange, _ := algo.ParseHex(algo.Orange)

	first, last := lines[0], lines[len(lines)-1]
	assert.Equal(t, 0.0, first.Hour)
	assert.Equal(t, "00:00", first.Label)
	assert.Equal(t, blue.String(), first.Color)
	assert.Equal(t, 24.0, last.Hour)
	assert.Equal(t, "00:00", last.Label)

	for _, g := range lines {
		if g.Hour == 12 {
			assert.Equal(t, orange.String(), g.Color)
			assert.Equal(t, "12:00", g.Label)
			assert.Equal(t, l.Y.Scale(12), g.Y)
		}
	}
}

func TestHourColor(t *testing.T) {
	tests := []struct {
		hour float64
		want string
	}{
		{0, algo.SteelBlue},
		{6, "#c99b35"},
		{12, algo.Orange},
		{24, algo.SteelBlue},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, HourColor(tt.hour).Hex(), "hour %v", tt.hour)
	}
}

func TestSelection(t *testing.T) {
	_, commits := loadFixture(t)
	l, err := NewScatterLayout(commits)
	require.NoError(t, err)

	t.Run("nil selects nothing", func(t *testing.T) {
		assert.False(t, l.IsCommitSelected(nil, commits[0]))
		assert.Empty(t, l.SelectedCommits(nil, commits))
	})

	t.Run("whole canvas", func(t *testing.T) {
		sel := schema.NewSelection(CanvasWidth, CanvasHeight, 0, 0)
		assert.Equal(t, []string{"c1", "c2", "c3", "c4"}, commitIDs(l.SelectedCommits(sel, commits)))
	})

	t.Run("bounds are inclusive", func(t *testing.T) {
		x, y := l.Project(commits[1])
		sel := schema.NewSelection(x, y, x, y)
		assert.True(t, l.IsCommitSelected(sel, commits[1]))
		assert.Equal(t, []string{"c2"}, commitIDs(l.SelectedCommits(sel, commits)))
	})
}

func TestSelectionCountText(t *testing.T) {
	assert.Equal(t, "No commits selected", SelectionCountText(0))
	assert.Equal(t, "1 commits selected", SelectionCountText(1))
	assert.Equal(t, "12 commits selected", SelectionCountText(12))
}

func TestTooltipFor(t *testing.T) {
	_, commits := loadFixture(t)

	tip := TooltipFor(commits[0], 100, 200, nil)
	assert.Equal(t, schema.Tooltip{
		CommitID: "c1",
		URL:      "https://github.com/ada/site/commit/c1",
		Date:     "Sunday, February 9, 2025",
		Time:     "09:15 AM",
		Author:   "Ada",
		Lines:    "2",
		Left:     110,
		Top:      210,
	}, tip)

	utc := TooltipFor(commits[0], 0, 0, time.UTC)
	assert.Equal(t, "02:15 PM", utc.Time)

	anon := TooltipFor(commits[2], 0, 0, nil)
	assert.Equal(t, schema.UnknownAuthor, anon.Author)
}

func TestHourLabel(t *testing.T) {
	assert.Equal(t, "00:00", HourLabel(0))
	assert.Equal(t, "06:00", HourLabel(6))
	assert.Equal(t, "22:00", HourLabel(22))
	assert.Equal(t, "00:00", HourLabel(24))
}
