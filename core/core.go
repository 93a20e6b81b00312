// Package core has the data pipeline: loading, aggregation, summary, scatter
// layout, breakdown and the timeline filter.
package core

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/huangsam/locmeta/core/agg"
	"github.com/huangsam/locmeta/internal/chart"
	"github.com/huangsam/locmeta/internal/contract"
	"github.com/huangsam/locmeta/internal/outwriter"
	"github.com/huangsam/locmeta/schema"
)

// ExecutorFunc defines the function signature for executing the data commands.
type ExecutorFunc func(ctx context.Context, cfg *contract.Config, mgr contract.StoreManager) error

// LoadDataset loads the configured data file and aggregates it into commits.
func LoadDataset(cfg *contract.Config) ([]schema.LineRecord, []schema.Commit, error) {
	records, err := agg.LoadRecordsFile(cfg.DataFile)
	if err != nil {
		return nil, nil, err
	}
	commits := agg.ProcessCommits(records, agg.CommitOptions{RepoURL: cfg.RepoURL, Location: cfg.Location})
	return records, commits, nil
}

// NewViewStateFromConfig loads the dataset and applies the configured cutoff
// or slider position.
func NewViewStateFromConfig(cfg *contract.Config) (*ViewState, error) {
	records, commits, err := LoadDataset(cfg)
	if err != nil {
		return nil, err
	}
	if len(commits) == 0 {
		return nil, fmt.Errorf("%s: %w", cfg.DataFile, schema.ErrNoCommits)
	}
	state, err := NewViewState(records, commits, cfg.Location)
	if err != nil {
		return nil, err
	}
	ApplyTimeline(state, cfg)
	return state, nil
}

// ApplyTimeline moves the state to the configured cutoff or progress.
func ApplyTimeline(state *ViewState, cfg *contract.Config) {
	switch {
	case !cfg.Cutoff.IsZero():
		state.SetCutoff(cfg.Cutoff)
	case cfg.HasProgress:
		state.SetProgress(cfg.Progress)
	}
}

// ExecuteStats prints the summary statistics and records the run.
func ExecuteStats(_ context.Context, cfg *contract.Config, mgr contract.StoreManager) error {
	start := time.Now()
	records, commits, err := LoadDataset(cfg)
	if err != nil {
		return err
	}
	recordRun(mgr, cfg, start, records, commits)
	return outwriter.NewOutWriter().WriteStats(BuildStats(cfg, records, commits), cfg, time.Since(start))
}

// BuildStats summarizes a loaded dataset.
func BuildStats(cfg *contract.Config, records []schema.LineRecord, commits []schema.Commit) schema.StatsResult {
	return schema.StatsResult{
		DataFile: cfg.DataFile,
		Stats:    Summarize(records, commits, cfg.Location),
		Periods:  PeriodCounts(records, cfg.Location),
	}
}

// recordRun stores the run and its commits when run tracking is enabled.
// Tracking failures are reported but never fail the command.
func recordRun(mgr contract.StoreManager, cfg *contract.Config, start time.Time, records []schema.LineRecord, commits []schema.Commit) {
	if mgr == nil {
		return
	}
	store := mgr.GetRunStore()
	if store == nil {
		return
	}
	runID, err := store.BeginRun(start, cfg.DataFile)
	if err != nil {
		contract.LogWarn("Cannot begin run", err)
		return
	}
	if err := store.RecordCommits(runID, commits); err != nil {
		contract.LogWarn("Cannot record run commits", err)
	}
	if err := store.EndRun(runID, time.Now(), len(records), len(commits), len(agg.DistinctFiles(records))); err != nil {
		contract.LogWarn("Cannot end run", err)
	}
}

// BuildCommits returns the commits visible at the state's cutoff.
func BuildCommits(state *ViewState) schema.CommitsResult {
	return schema.CommitsResult{
		Cutoff:      state.Cutoff(),
		CutoffLabel: state.CutoffLabel(),
		Progress:    state.Progress(),
		Total:       len(state.Commits),
		Commits:     state.View().Commits,
	}
}

// ExecuteCommits prints the commits up to the configured cutoff.
func ExecuteCommits(_ context.Context, cfg *contract.Config, _ contract.StoreManager) error {
	start := time.Now()
	state, err := NewViewStateFromConfig(cfg)
	if err != nil {
		return err
	}
	return outwriter.NewOutWriter().WriteCommits(BuildCommits(state), cfg, time.Since(start))
}

// BuildSelection runs a brush query against all commits.
func BuildSelection(state *ViewState, sel *schema.Selection) schema.SelectionResult {
	selected := state.SetSelection(sel)
	text, types := state.SelectionBreakdown()
	return schema.SelectionResult{Selection: sel, Text: text, Commits: selected, Types: types}
}

// ExecuteSelect prints the commits and languages inside the configured brush.
func ExecuteSelect(_ context.Context, cfg *contract.Config, _ contract.StoreManager) error {
	start := time.Now()
	if cfg.Selection == nil {
		return errors.New("a brush rectangle is required (--brush x0,y0,x1,y1)")
	}
	state, err := NewViewStateFromConfig(cfg)
	if err != nil {
		return err
	}
	return outwriter.NewOutWriter().WriteSelection(BuildSelection(state, cfg.Selection), cfg, time.Since(start))
}

// BuildFiles returns the file breakdown at the state's cutoff.
func BuildFiles(state *ViewState) schema.FilesResult {
	view := state.View()
	return schema.FilesResult{
		Cutoff:      view.Cutoff,
		CutoffLabel: state.CutoffLabel(),
		Commits:     len(view.Commits),
		Breakdown:   state.Breakdown(),
		Lines:       view.Lines,
	}
}

// ExecuteFiles prints the file breakdown up to the configured cutoff.
func ExecuteFiles(_ context.Context, cfg *contract.Config, _ contract.StoreManager) error {
	start := time.Now()
	state, err := NewViewStateFromConfig(cfg)
	if err != nil {
		return err
	}
	return outwriter.NewOutWriter().WriteFiles(BuildFiles(state), cfg, time.Since(start))
}

// BuildStory enters narrative step i and re-renders the chosen view.
func BuildStory(state *ViewState, i int, view schema.StoryView) (schema.StoryResult, error) {
	obs := state.ScatterObserver()
	if view == schema.FilesView {
		obs = state.FilesObserver()
	}
	filtered, err := obs.Enter(i)
	if err != nil {
		return schema.StoryResult{}, err
	}
	result := schema.StoryResult{
		Step: schema.NarrativeStep{
			Index:    i,
			CommitID: state.Commits[i].ID,
			Datetime: state.Commits[i].Datetime,
			Text:     NarrativeText(state.Commits[i], i, state.Location),
		},
		Total:       obs.Len(),
		View:        view,
		CutoffLabel: state.FormatCutoff(filtered.Cutoff),
		Commits:     len(filtered.Commits),
	}
	if view == schema.FilesView {
		b := state.FilesFrame().Breakdown
		result.Breakdown = &b
	} else {
		result.Points = state.ScatterFrame().Points
	}
	return result, nil
}

// ExecuteStory prints one step of the scroll narrative.
func ExecuteStory(_ context.Context, cfg *contract.Config, _ contract.StoreManager) error {
	start := time.Now()
	state, err := NewViewStateFromConfig(cfg)
	if err != nil {
		return err
	}
	result, err := BuildStory(state, cfg.Step, cfg.StoryView)
	if err != nil {
		return err
	}
	return outwriter.NewOutWriter().WriteStory(result, cfg, time.Since(start))
}

// BuildProjects summarizes projects for the projects page.
func BuildProjects(projects []schema.Project) schema.ProjectsResult {
	years := RollupByYear(projects)
	return schema.ProjectsResult{
		Title:  ProjectsTitle(projects),
		Years:  years,
		Slices: PieSlices(years),
	}
}

// ExecuteProjects prints the projects count and pie slices.
func ExecuteProjects(_ context.Context, cfg *contract.Config, _ contract.StoreManager) error {
	start := time.Now()
	projects, err := LoadProjectsFile(cfg.ProjectsFile)
	if err != nil {
		return err
	}
	return outwriter.NewOutWriter().WriteProjects(BuildProjects(projects), cfg, time.Since(start))
}

// BuildPlot gathers the chart page input from the state. A missing projects
// file leaves the projects pie out.
func BuildPlot(state *ViewState, projectsFile string) (chart.Input, error) {
	points := state.Points()
	items := make([]chart.ScatterItem, len(points))
	for i, p := range points {
		items[i] = chart.ScatterItem{Point: p, Tooltip: TooltipFor(p.Commit, p.X, p.Y, state.Location)}
	}

	types := LanguageBreakdown(state.View().Commits, state.Palette)
	if state.Selection() != nil {
		_, types = state.SelectionBreakdown()
	}

	in := chart.Input{
		Title:    "Commits by time of day",
		Subtitle: fmt.Sprintf("%d of %d commits up to %s", len(state.View().Commits), len(state.Commits), state.CutoffLabel()),
		Items:    items,
		Types:    types,
	}
	if projectsFile == "" {
		return in, nil
	}
	projects, err := LoadProjectsFile(projectsFile)
	switch {
	case errors.Is(err, os.ErrNotExist):
		return in, nil
	case err != nil:
		return in, err
	}
	in.Projects = BuildProjects(projects)
	return in, nil
}

// ExecutePlot writes the HTML chart page.
func ExecutePlot(_ context.Context, cfg *contract.Config, _ contract.StoreManager) error {
	state, err := NewViewStateFromConfig(cfg)
	if err != nil {
		return err
	}
	if cfg.Selection != nil {
		state.SetSelection(cfg.Selection)
	}
	in, err := BuildPlot(state, cfg.ProjectsFile)
	if err != nil {
		return err
	}

	file, err := contract.SelectOutputFile(cfg.OutputFile)
	if err != nil {
		return err
	}
	if file != os.Stdout {
		defer func() { _ = file.Close() }()
	}
	if err := chart.RenderPage(file, in); err != nil {
		return err
	}
	if file != os.Stdout {
		_, _ = fmt.Fprintf(os.Stderr, "💾 Wrote HTML to %s\n", cfg.OutputFile)
	}
	return nil
}
