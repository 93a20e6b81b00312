package schema

import "time"

// StatsResult is the output of the stats command.
type StatsResult struct {
	DataFile string        `json:"data_file"`
	Stats    []StatPair    `json:"stats"`
	Periods  []PeriodCount `json:"periods"`
}

// CommitsResult is the output of the commits command.
type CommitsResult struct {
	Cutoff      time.Time `json:"cutoff"`
	CutoffLabel string    `json:"cutoff_label"`
	Progress    float64   `json:"progress"`
	Total       int       `json:"total"` // Commits before filtering
	Commits     []Commit  `json:"commits"`
}

// SelectionResult is the output of a brush query.
type SelectionResult struct {
	Selection *Selection  `json:"selection"`
	Text      string      `json:"text"`
	Commits   []Commit    `json:"commits"`
	Types     []TypeShare `json:"types"`
}

// FilesResult is the file breakdown for a filtered view.
type FilesResult struct {
	Cutoff      time.Time    `json:"cutoff"`
	CutoffLabel string       `json:"cutoff_label"`
	Commits     int          `json:"commits"`
	Breakdown   Breakdown    `json:"breakdown"`
	Lines       []LineRecord `json:"-"`
}

// StoryResult is one entered narrative step and the view it re-rendered.
type StoryResult struct {
	Step        NarrativeStep `json:"step"`
	Total       int           `json:"total"`
	View        StoryView     `json:"view"`
	CutoffLabel string        `json:"cutoff_label"`
	Commits     int           `json:"commits"`
	Points      []Point       `json:"points,omitempty"`
	Breakdown   *Breakdown    `json:"breakdown,omitempty"`
}

// ProjectsResult is the projects page summary.
type ProjectsResult struct {
	Title  string      `json:"title"`
	Years  []YearCount `json:"years"`
	Slices []PieSlice  `json:"slices"`
}
