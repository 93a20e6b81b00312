// Package schema has the models and constants shared by all parts of locmeta.
package schema

import (
	"slices"
	"time"
)

// LineRecord is one changed source line as recorded in loc.csv.
type LineRecord struct {
	File     string    `json:"file"`               // Path of the file the line belongs to
	Line     int       `json:"line"`               // 1-based line number
	Depth    int       `json:"depth"`              // Indentation depth
	Length   int       `json:"length"`             // Line length in characters
	Commit   string    `json:"commit"`             // Commit id that last touched the line
	Author   string    `json:"author,omitempty"`   // Commit author
	Date     time.Time `json:"date"`               // Calendar date at 00:00 in the commit timezone
	Time     string    `json:"time,omitempty"`     // Wall clock time as written in the source row
	Timezone string    `json:"timezone,omitempty"` // UTC offset as written in the source row
	Datetime time.Time `json:"datetime"`           // Full commit timestamp
	Type     string    `json:"type"`               // Language or file type tag
}

// Commit aggregates every LineRecord that shares a commit id.
type Commit struct {
	ID         string    `json:"id"`
	URL        string    `json:"url,omitempty"`
	Author     string    `json:"author,omitempty"`
	Date       time.Time `json:"date"`
	Time       string    `json:"time,omitempty"`
	Timezone   string    `json:"timezone,omitempty"`
	Datetime   time.Time `json:"datetime"`
	HourFrac   float64   `json:"hour_frac"`
	TotalLines int       `json:"total_lines"`

	lines []LineRecord
}

// NewCommit attaches the constituent lines to c and sets TotalLines to match.
func NewCommit(c Commit, lines []LineRecord) Commit {
	c.lines = lines
	c.TotalLines = len(lines)
	return c
}

// Lines returns a copy of the records that make up the commit.
func (c Commit) Lines() []LineRecord {
	return slices.Clone(c.lines)
}

// FlattenLines concatenates the lines of all given commits, in commit order.
func FlattenLines(commits []Commit) []LineRecord {
	total := 0
	for _, c := range commits {
		total += len(c.lines)
	}
	out := make([]LineRecord, 0, total)
	for _, c := range commits {
		out = append(out, c.lines...)
	}
	return out
}
