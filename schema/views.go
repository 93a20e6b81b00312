package schema

import (
	"strconv"
	"time"
)

// StatPair is one labelled summary statistic.
type StatPair struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

// PeriodCount is how many lines fall into a period of the day.
type PeriodCount struct {
	Period Period `json:"period"`
	Count  int    `json:"count"`
}

// Selection is a brush rectangle in plot coordinates with X0 <= X1 and Y0 <= Y1.
type Selection struct {
	X0 float64 `json:"x0"`
	Y0 float64 `json:"y0"`
	X1 float64 `json:"x1"`
	Y1 float64 `json:"y1"`
}

// NewSelection builds a Selection from two opposite corners in any order.
func NewSelection(x0, y0, x1, y1 float64) *Selection {
	if x0 > x1 {
		x0, x1 = x1, x0
	}
	if y0 > y1 {
		y0, y1 = y1, y0
	}
	return &Selection{X0: x0, Y0: y0, X1: x1, Y1: y1}
}

// Contains reports whether (x, y) lies inside the rectangle, bounds included.
func (s Selection) Contains(x, y float64) bool {
	return s.X0 <= x && x <= s.X1 && s.Y0 <= y && y <= s.Y1
}

// Point is a commit projected onto the scatter plot.
type Point struct {
	CommitID string  `json:"commit_id"`
	X        float64 `json:"x"`
	Y        float64 `json:"y"`
	R        float64 `json:"r"`
	Entering bool    `json:"entering"` // Not drawn in the previous render; grows from r=0
	Commit   Commit  `json:"-"`
}

// Gridline is one horizontal guide on the scatter plot.
type Gridline struct {
	Hour  float64 `json:"hour"`
	Y     float64 `json:"y"`
	Color string  `json:"color"`
	Label string  `json:"label"`
}

// Tooltip is the hover card for one commit.
type Tooltip struct {
	CommitID string  `json:"commit_id"`
	URL      string  `json:"url,omitempty"`
	Date     string  `json:"date"`
	Time     string  `json:"time"`
	Author   string  `json:"author"`
	Lines    string  `json:"lines"`
	Left     float64 `json:"left"`
	Top      float64 `json:"top"`
}

// Marker is one line dot in the file breakdown.
type Marker struct {
	Type  string `json:"type"`
	Color string `json:"color"`
}

// FileEntry is one file in the breakdown with a marker per line.
type FileEntry struct {
	Name    string   `json:"name"`
	Lines   int      `json:"lines"`
	Markers []Marker `json:"markers"`
}

// TypeShare is the share of lines of one type.
type TypeShare struct {
	Type      string  `json:"type"`
	Count     int     `json:"count"`
	Percent   float64 `json:"percent"`
	Formatted string  `json:"formatted"`
	Color     string  `json:"color"`
}

// Text renders the share as "<count> lines (<percent>)".
func (s TypeShare) Text() string {
	return strconv.Itoa(s.Count) + " lines (" + s.Formatted + ")"
}

// LegendItem maps a type to its swatch color.
type LegendItem struct {
	Type  string `json:"type"`
	Color string `json:"color"`
}

// Breakdown is the file and language breakdown for a set of commits.
type Breakdown struct {
	Files  []FileEntry  `json:"files"`
	Types  []TypeShare  `json:"types"`
	Legend []LegendItem `json:"legend"`
}

// NarrativeStep is one paragraph of the scroll story.
type NarrativeStep struct {
	Index    int       `json:"index"`
	CommitID string    `json:"commit_id"`
	Datetime time.Time `json:"datetime"`
	Text     string    `json:"text"`
}
