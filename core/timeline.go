package core

import (
	"math"
	"time"

	"github.com/huangsam/locmeta/core/algo"
	"github.com/huangsam/locmeta/schema"
)

// Slider bounds.
const (
	MinProgress = 0.0
	MaxProgress = 100.0
)

// FilteredView is the subset of commits at or before a cutoff.
type FilteredView struct {
	Cutoff  time.Time
	Commits []schema.Commit
	Lines   []schema.LineRecord
}

// Filter returns the commits with datetime <= cutoff, keeping their order.
func Filter(commits []schema.Commit, cutoff time.Time) FilteredView {
	view := FilteredView{Cutoff: cutoff}
	for _, c := range commits {
		if !c.Datetime.After(cutoff) {
			view.Commits = append(view.Commits, c)
		}
	}
	view.Lines = schema.FlattenLines(view.Commits)
	return view
}

// StoryFrame is the last render of one narrative observer.
type StoryFrame struct {
	View      FilteredView
	Points    []schema.Point
	Breakdown schema.Breakdown
}

// ViewState holds everything the interactive views share: the dataset, the
// fixed scales, the color palette, the slider cutoff and brush selection.
// Narrative observers render into their own frames and never move the slider.
// It is owned by a single goroutine.
type ViewState struct {
	Records  []schema.LineRecord
	Commits  []schema.Commit
	Layout   *ScatterLayout
	Timeline algo.TimeScale
	Palette  *algo.OrdinalScale
	Location *time.Location

	progress  float64
	view      FilteredView
	points    []schema.Point
	breakdown schema.Breakdown
	selection *schema.Selection
	listeners []func(*ViewState)

	storyLayout  *ScatterLayout
	scatterFrame StoryFrame
	filesFrame   StoryFrame
}

// NewViewState builds the state for a dataset with the slider at 100.
func NewViewState(records []schema.LineRecord, commits []schema.Commit, loc *time.Location) (*ViewState, error) {
	layout, err := NewScatterLayout(commits)
	if err != nil {
		return nil, err
	}
	first, last := commits[0].Datetime, commits[0].Datetime
	for _, c := range commits[1:] {
		if c.Datetime.Before(first) {
			first = c.Datetime
		}
		if c.Datetime.After(last) {
			last = c.Datetime
		}
	}
	s := &ViewState{
		Records:     records,
		Commits:     commits,
		Layout:      layout,
		Timeline:    algo.NewTimeScale(first, last, MinProgress, MaxProgress),
		Palette:     algo.NewOrdinalScale(algo.Tableau10),
		Location:    loc,
		storyLayout: layout.fork(),
	}
	s.SetProgress(MaxProgress)
	return s, nil
}

// OnChange registers fn to run after every cutoff change.
func (s *ViewState) OnChange(fn func(*ViewState)) {
	s.listeners = append(s.listeners, fn)
}

// SetProgress moves the slider. p is clamped to [0, 100]; the endpoints map
// exactly to the first and last commit times. NaN leaves the slider where it is.
func (s *ViewState) SetProgress(p float64) {
	if math.IsNaN(p) {
		return
	}
	p = math.Max(MinProgress, math.Min(MaxProgress, p))
	var cutoff time.Time
	switch p {
	case MinProgress:
		cutoff = s.Timeline.D0
	case MaxProgress:
		cutoff = s.Timeline.D1
	default:
		cutoff = s.Timeline.Invert(p)
	}
	s.progress = p
	s.applyCutoff(cutoff)
}

// SetCutoff filters to commits at or before t and re-renders the views.
func (s *ViewState) SetCutoff(t time.Time) {
	s.progress = math.Max(MinProgress, math.Min(MaxProgress, s.Timeline.Scale(t)))
	s.applyCutoff(t)
}

func (s *ViewState) applyCutoff(t time.Time) {
	s.view = Filter(s.Commits, t)
	s.RenderScatter()
	s.RenderFiles()
	for _, fn := range s.listeners {
		fn(s)
	}
}

// RenderScatter recomputes the scatter points for the current view.
func (s *ViewState) RenderScatter() []schema.Point {
	s.points = s.Layout.Points(s.view.Commits)
	return s.points
}

// RenderFiles recomputes the file breakdown for the current view.
func (s *ViewState) RenderFiles() schema.Breakdown {
	s.breakdown = BuildBreakdown(s.view.Commits, s.Palette)
	return s.breakdown
}

// Progress returns the slider position.
func (s *ViewState) Progress() float64 { return s.progress }

// Cutoff returns the current cutoff time.
func (s *ViewState) Cutoff() time.Time { return s.view.Cutoff }

// View returns the current filtered view.
func (s *ViewState) View() FilteredView { return s.view }

// Points returns the scatter points from the last render.
func (s *ViewState) Points() []schema.Point { return s.points }

// Breakdown returns the file breakdown from the last render.
func (s *ViewState) Breakdown() schema.Breakdown { return s.breakdown }

// CutoffLabel formats the cutoff as shown next to the slider.
func (s *ViewState) CutoffLabel() string {
	return s.FormatCutoff(s.view.Cutoff)
}

// FormatCutoff formats t in the state's location.
func (s *ViewState) FormatCutoff(t time.Time) string {
	if s.Location != nil {
		t = t.In(s.Location)
	}
	return t.Format(LongDateTime)
}

// SetSelection stores the brush rectangle and returns the selected commits
// among all commits. nil clears the selection.
func (s *ViewState) SetSelection(sel *schema.Selection) []schema.Commit {
	s.selection = sel
	return s.Layout.SelectedCommits(sel, s.Commits)
}

// Selection returns the current brush rectangle, or nil.
func (s *ViewState) Selection() *schema.Selection { return s.selection }

// SelectionBreakdown returns the count text and language shares for the
// current selection.
func (s *ViewState) SelectionBreakdown() (string, []schema.TypeShare) {
	selected := s.Layout.SelectedCommits(s.selection, s.Commits)
	return SelectionCountText(len(selected)), LanguageBreakdown(selected, s.Palette)
}

// Summary returns the summary statistics for the full dataset.
func (s *ViewState) Summary() []schema.StatPair {
	return Summarize(s.Records, s.Commits, s.Location)
}
