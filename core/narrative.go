package core

import (
	"fmt"
	"time"

	"github.com/huangsam/locmeta/core/agg"
	"github.com/huangsam/locmeta/schema"
)

// StepObserver maps narrative steps to timeline cutoffs. Each step is a
// commit; entering it filters to everything up to that commit and hands the
// result to the render callback. Observers are independent of each other.
type StepObserver struct {
	steps   []schema.Commit
	all     []schema.Commit
	render  func(FilteredView)
	current int
}

// NewStepObserver returns an observer over steps that filters all and calls
// render on every entered step.
func NewStepObserver(steps, all []schema.Commit, render func(FilteredView)) *StepObserver {
	return &StepObserver{steps: steps, all: all, render: render, current: -1}
}

// Len returns the number of steps.
func (o *StepObserver) Len() int { return len(o.steps) }

// Current returns the index of the last entered step, or -1.
func (o *StepObserver) Current() int { return o.current }

// Enter activates step i.
func (o *StepObserver) Enter(i int) (FilteredView, error) {
	if i < 0 || i >= len(o.steps) {
		return FilteredView{}, fmt.Errorf("%w: %d not in [0, %d)", schema.ErrStepRange, i, len(o.steps))
	}
	o.current = i
	view := Filter(o.all, o.steps[i].Datetime)
	if o.render != nil {
		o.render(view)
	}
	return view, nil
}

// Next enters the step after the current one, stopping at the last.
func (o *StepObserver) Next() (FilteredView, error) {
	return o.Enter(min(o.current+1, len(o.steps)-1))
}

// Prev enters the step before the current one, stopping at the first.
func (o *StepObserver) Prev() (FilteredView, error) {
	return o.Enter(max(o.current-1, 0))
}

// ScatterObserver returns an observer that re-renders the story scatter of s.
// The slider view is left untouched.
func (s *ViewState) ScatterObserver() *StepObserver {
	return NewStepObserver(s.Commits, s.Commits, func(v FilteredView) {
		s.scatterFrame = StoryFrame{View: v, Points: s.storyLayout.Points(v.Commits)}
	})
}

// FilesObserver returns an observer that re-renders the story file breakdown
// of s. The slider view is left untouched.
func (s *ViewState) FilesObserver() *StepObserver {
	return NewStepObserver(s.Commits, s.Commits, func(v FilteredView) {
		s.filesFrame = StoryFrame{View: v, Breakdown: BuildBreakdown(v.Commits, s.Palette)}
	})
}

// ScatterFrame returns the last scatter story render.
func (s *ViewState) ScatterFrame() StoryFrame { return s.scatterFrame }

// FilesFrame returns the last file story render.
func (s *ViewState) FilesFrame() StoryFrame { return s.filesFrame }

// NarrativeText writes the story paragraph for the i-th commit.
func NarrativeText(c schema.Commit, i int, loc *time.Location) string {
	at := c.Datetime
	if loc != nil {
		at = at.In(loc)
	}
	what := "another glorious commit"
	if i == 0 {
		what = "my first commit, and it was glorious"
	}
	files := len(agg.DistinctFiles(c.Lines()))
	return fmt.Sprintf("On %s, I made %s. I edited %d lines across %d files. Then I looked over all I had made, and I saw that it was very good.",
		at.Format(FullDateTime), what, c.TotalLines, files)
}

// NarrativeSteps builds one story step per commit.
func NarrativeSteps(commits []schema.Commit, loc *time.Location) []schema.NarrativeStep {
	steps := make([]schema.NarrativeStep, len(commits))
	for i, c := range commits {
		steps[i] = schema.NarrativeStep{
			Index:    i,
			CommitID: c.ID,
			Datetime: c.Datetime,
			Text:     NarrativeText(c, i, loc),
		}
	}
	return steps
}
