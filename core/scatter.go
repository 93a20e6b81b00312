package core

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"time"

	"github.com/huangsam/locmeta/core/algo"
	"github.com/huangsam/locmeta/schema"
)

// Plot geometry.
const (
	CanvasWidth  = 1000.0
	CanvasHeight = 600.0
	MinRadius    = 3.0
	MaxRadius    = 25.0
)

// Date and time formats used in tooltips, the slider label and the story.
const (
	FullDateFormat  = "Monday, January 2, 2006"
	ShortTimeFormat = "03:04 PM"
	LongDateTime    = "January 2, 2006 at 3:04 PM"
	FullDateTime    = "Monday, January 2, 2006 at 3:04 PM"
)

// Margin is the padding around the plotting area.
type Margin struct {
	Top, Right, Bottom, Left float64
}

// DefaultMargin leaves room for the axes.
var DefaultMargin = Margin{Top: 10, Right: 10, Bottom: 30, Left: 20}

// Area is the usable plotting rectangle.
type Area struct {
	Top, Right, Bottom, Left float64
	Width, Height            float64
}

// ScatterLayout projects commits onto a time-of-day scatter plot. The X and
// Y scales are fixed when the layout is built; the radius scale is
// recomputed for every set of commits drawn.
type ScatterLayout struct {
	Area Area
	X    algo.TimeScale
	Y    algo.LinearScale

	drawn map[string]struct{}
}

// NewScatterLayout builds the layout for the full commit set.
func NewScatterLayout(commits []schema.Commit) (*ScatterLayout, error) {
	return NewScatterLayoutSized(commits, CanvasWidth, CanvasHeight, DefaultMargin)
}

// NewScatterLayoutSized is NewScatterLayout with explicit geometry.
func NewScatterLayoutSized(commits []schema.Commit, width, height float64, m Margin) (*ScatterLayout, error) {
	if len(commits) == 0 {
		return nil, schema.ErrNoCommits
	}
	times := make([]time.Time, len(commits))
	for i, c := range commits {
		times[i] = c.Datetime
	}
	lo, hi, _ := algo.TimeExtent(times)

	area := Area{
		Top:    m.Top,
		Right:  width - m.Right,
		Bottom: height - m.Bottom,
		Left:   m.Left,
		Width:  width - m.Left - m.Right,
		Height: height - m.Top - m.Bottom,
	}
	return &ScatterLayout{
		Area:  area,
		X:     algo.NewTimeScale(lo, hi, area.Left, area.Right).Nice(),
		Y:     algo.NewLinearScale(0, 24, area.Bottom, area.Top),
		drawn: make(map[string]struct{}),
	}, nil
}

// fork returns a layout with the same scales and its own entering state.
func (l *ScatterLayout) fork() *ScatterLayout {
	return &ScatterLayout{Area: l.Area, X: l.X, Y: l.Y, drawn: make(map[string]struct{})}
}

// Project returns the plot coordinates of a commit.
func (l *ScatterLayout) Project(c schema.Commit) (x, y float64) {
	return l.X.Scale(c.Datetime), l.Y.Scale(c.HourFrac)
}

// RadiusScale returns the radius scale for a set of commits.
func RadiusScale(commits []schema.Commit) algo.SqrtScale {
	sizes := make([]float64, len(commits))
	for i, c := range commits {
		sizes[i] = float64(c.TotalLines)
	}
	lo, hi, _ := algo.Extent(sizes)
	return algo.NewSqrtScale(lo, hi, MinRadius, MaxRadius)
}

// Points lays out commits largest first so smaller circles draw on top.
// Commits absent from the previous call are marked as entering.
func (l *ScatterLayout) Points(commits []schema.Commit) []schema.Point {
	sorted := append([]schema.Commit(nil), commits...)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].TotalLines > sorted[j].TotalLines
	})

	r := RadiusScale(commits)
	next := make(map[string]struct{}, len(sorted))
	points := make([]schema.Point, len(sorted))
	for i, c := range sorted {
		x, y := l.Project(c)
		_, wasDrawn := l.drawn[c.ID]
		points[i] = schema.Point{
			CommitID: c.ID,
			X:        x,
			Y:        y,
			R:        r.Scale(float64(c.TotalLines)),
			Entering: !wasDrawn,
			Commit:   c,
		}
		next[c.ID] = struct{}{}
	}
	l.drawn = next
	return points
}

// Gridlines returns one horizontal guide per Y tick, shaded from steelblue
// at midnight to orange at noon.
func (l *ScatterLayout) Gridlines() []schema.Gridline {
	ticks := l.Y.Ticks(10)
	lines := make([]schema.Gridline, len(ticks))
	for i, h := range ticks {
		lines[i] = schema.Gridline{
			Hour:  h,
			Y:     l.Y.Scale(h),
			Color: HourColor(h).String(),
			Label: HourLabel(h),
		}
	}
	return lines
}

// HourColor shades an hour of the day from steelblue at midnight to orange
// at noon.
func HourColor(h float64) algo.RGB {
	from, _ := algo.ParseHex(algo.SteelBlue)
	to, _ := algo.ParseHex(algo.Orange)
	return algo.InterpolateRGB(from, to, math.Sin(h/24*math.Pi))
}

// HourLabel formats an hour tick as HH:00.
func HourLabel(h float64) string {
	return fmt.Sprintf("%02d:00", int(h)%24)
}

// IsCommitSelected reports whether the commit's plotted position lies inside
// sel, bounds included. A nil selection selects nothing.
func (l *ScatterLayout) IsCommitSelected(sel *schema.Selection, c schema.Commit) bool {
	if sel == nil {
		return false
	}
	x, y := l.Project(c)
	return sel.Contains(x, y)
}

// SelectedCommits returns the commits inside sel, in input order.
func (l *ScatterLayout) SelectedCommits(sel *schema.Selection, commits []schema.Commit) []schema.Commit {
	if sel == nil {
		return nil
	}
	var out []schema.Commit
	for _, c := range commits {
		if l.IsCommitSelected(sel, c) {
			out = append(out, c)
		}
	}
	return out
}

// SelectionCountText renders the selection counter.
func SelectionCountText(n int) string {
	if n == 0 {
		return "No commits selected"
	}
	return strconv.Itoa(n) + " commits selected"
}

// TooltipFor builds the hover card for a commit shown at the cursor position.
func TooltipFor(c schema.Commit, cursorX, cursorY float64, loc *time.Location) schema.Tooltip {
	at := c.Datetime
	if loc != nil {
		at = at.In(loc)
	}
	author := c.Author
	if author == "" {
		author = schema.UnknownAuthor
	}
	return schema.Tooltip{
		CommitID: c.ID,
		URL:      c.URL,
		Date:     at.Format(FullDateFormat),
		Time:     at.Format(ShortTimeFormat),
		Author:   author,
		Lines:    strconv.Itoa(c.TotalLines),
		Left:     cursorX + 10,
		Top:      cursorY + 10,
	}
}
