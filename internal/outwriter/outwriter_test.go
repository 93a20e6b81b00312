package outwriter

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/huangsam/locmeta/internal/contract"
	"github.com/huangsam/locmeta/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig() *contract.Config {
	return &contract.Config{
		ResultLimit: 10,
		Precision:   1,
		Output:      schema.TextOut,
		Width:       120,
	}
}

func testCommits() []schema.Commit {
	at := time.Date(2025, 2, 9, 9, 30, 0, 0, time.UTC)
	css := []schema.LineRecord{
		{File: "style.css", Line: 1, Type: "css", Commit: "0123456789abcdef", Datetime: at},
		{File: "style.css", Line: 2, Type: "css", Commit: "0123456789abcdef", Datetime: at},
	}
	js := []schema.LineRecord{{File: "main.js", Line: 1, Type: "js", Commit: "fedcba", Author: "Bo", Datetime: at.Add(time.Hour)}}
	return []schema.Commit{
		schema.NewCommit(schema.Commit{ID: "0123456789abcdef", Datetime: at, HourFrac: 9.5, URL: "https://github.com/x/y/commit/0123456789abcdef"}, css),
		schema.NewCommit(schema.Commit{ID: "fedcba", Author: "Bo", Datetime: at.Add(time.Hour), HourFrac: 10.5}, js),
	}
}

func readCSV(t *testing.T, buf *bytes.Buffer) [][]string {
	t.Helper()
	rows, err := csv.NewReader(buf).ReadAll()
	require.NoError(t, err)
	return rows
}

func TestCreateFormatters(t *testing.T) {
	tests := []struct {
		name      string
		precision int
		value     float64
		expected  string
	}{
		{name: "precision 1", precision: 1, value: 9.25, expected: "9.2"},
		{name: "precision 2", precision: 2, value: 3.14159, expected: "3.14"},
		{name: "negative value", precision: 2, value: -42.567, expected: "-42.57"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fmtFloat, intFmt := createFormatters(tt.precision)
			assert.Equal(t, tt.expected, fmtFloat(tt.value))
			assert.Equal(t, "%d", intFmt)
		})
	}
}

func TestWriteJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, writeJSON(&buf, map[string]any{"value": 42}))
	assert.Equal(t, "{\n  \"value\": 42\n}\n", buf.String())
}

func TestWriteStats(t *testing.T) {
	result := schema.StatsResult{
		DataFile: "loc.csv",
		Stats: []schema.StatPair{
			{Label: schema.LabelTotalLOC, Value: "3"},
			{Label: schema.LabelMostActive, Value: "Morning"},
		},
		Periods: []schema.PeriodCount{{Period: schema.Morning, Count: 3}},
	}

	t.Run("table", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, writeStatsTable(&buf, result, testConfig(), time.Second))
		out := buf.String()
		assert.Contains(t, out, "Total LOC")
		assert.Contains(t, out, "Morning: 3 lines")
		assert.Contains(t, out, "Runs backend: disabled")
	})

	t.Run("csv", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, writeStatsCSV(&buf, result))
		rows := readCSV(t, &buf)
		require.Len(t, rows, 4)
		assert.Equal(t, []string{"label", "value"}, rows[0])
		assert.Equal(t, []string{"Most Active Time of Day", "Morning"}, rows[2])
		assert.Equal(t, []string{"period:Morning", "3"}, rows[3])
	})
}

func TestWriteCommits(t *testing.T) {
	commits := testCommits()
	fmtFloat, intFmt := createFormatters(1)

	t.Run("csv", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, writeCommitsCSV(&buf, commits, fmtFloat))
		rows := readCSV(t, &buf)
		require.Len(t, rows, 3)
		assert.Equal(t, commitsHeader, rows[0])
		assert.Equal(t, "0123456789abcdef", rows[1][0])
		assert.Equal(t, "9.5", rows[1][3])
		assert.Equal(t, "2", rows[1][4])
	})

	t.Run("table respects limit", func(t *testing.T) {
		cfg := testConfig()
		cfg.ResultLimit = 1
		var buf bytes.Buffer
		require.NoError(t, writeCommitsTable(&buf, commits, cfg, fmtFloat, intFmt))
		out := buf.String()
		assert.Contains(t, out, "0123456")
		assert.Contains(t, out, schema.UnknownAuthor)
		assert.NotContains(t, out, "fedcba")
	})

	t.Run("json omits lines", func(t *testing.T) {
		cfg := testConfig()
		cfg.Output = schema.JSONOut
		cfg.OutputFile = filepath.Join(t.TempDir(), "commits.json")
		require.NoError(t, PrintCommitsResults(schema.CommitsResult{Total: 2, Commits: commits}, cfg, time.Second))

		data, err := os.ReadFile(cfg.OutputFile)
		require.NoError(t, err)
		var decoded map[string]any
		require.NoError(t, json.Unmarshal(data, &decoded))
		list := decoded["commits"].([]any)
		require.Len(t, list, 2)
		first := list[0].(map[string]any)
		assert.Equal(t, float64(2), first["total_lines"])
		assert.NotContains(t, first, "lines")
	})

	t.Run("parquet", func(t *testing.T) {
		cfg := testConfig()
		cfg.Output = schema.ParquetOut
		cfg.OutputFile = filepath.Join(t.TempDir(), "commits.parquet")
		require.NoError(t, PrintCommitsResults(schema.CommitsResult{Commits: commits}, cfg, time.Second))
		info, err := os.Stat(cfg.OutputFile)
		require.NoError(t, err)
		assert.Greater(t, info.Size(), int64(0))
	})
}

func TestDispatchErrors(t *testing.T) {
	cfg := testConfig()

	cfg.Output = schema.ParquetOut
	err := PrintStatsResults(schema.StatsResult{}, cfg, 0)
	assert.ErrorIs(t, err, errNoParquet)

	err = PrintCommitsResults(schema.CommitsResult{}, cfg, 0)
	assert.ErrorContains(t, err, "--output-file is required")

	cfg.Output = schema.HTMLOut
	err = PrintProjectsResults(schema.ProjectsResult{}, cfg, 0)
	assert.ErrorIs(t, err, errNoHTML)
}

func TestWriteFiles(t *testing.T) {
	b := schema.Breakdown{
		Files: []schema.FileEntry{
			{Name: "style.css", Lines: 2, Markers: []schema.Marker{{Type: "css"}, {Type: "css"}}},
			{Name: "index.html", Lines: 2, Markers: []schema.Marker{{Type: "html"}, {Type: "js"}}},
		},
		Types: []schema.TypeShare{{Type: "css", Count: 2, Formatted: "50%"}, {Type: "html", Count: 1, Formatted: "25%"}, {Type: "js", Count: 1, Formatted: "25%"}},
	}

	t.Run("table", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, writeFilesTable(&buf, schema.FilesResult{Breakdown: b, Commits: 2, CutoffLabel: "now"}, testConfig(), time.Second))
		out := buf.String()
		assert.Contains(t, out, "html:1 js:1")
		assert.Contains(t, out, "Types: css 50%, html 25%, js 25%")
		assert.Contains(t, out, "Showing 2 files from 2 commits up to now")
	})

	t.Run("csv", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, writeFilesCSV(&buf, b))
		rows := readCSV(t, &buf)
		require.Len(t, rows, 3)
		assert.Equal(t, []string{"1", "style.css", "2", "css:2"}, rows[1])
	})
}

func TestMarkerSummary(t *testing.T) {
	assert.Equal(t, "", markerSummary(nil))
	assert.Equal(t, "js:2 css:1", markerSummary([]schema.Marker{{Type: "js"}, {Type: "css"}, {Type: "js"}}))
}

func TestWriteSelectionText(t *testing.T) {
	var buf bytes.Buffer
	result := schema.SelectionResult{
		Selection: schema.NewSelection(10, 20, 300, 400),
		Text:      "2 commits selected",
		Types:     []schema.TypeShare{{Type: "css", Count: 2, Formatted: "66.7%"}},
	}
	require.NoError(t, writeSelectionText(&buf, result, time.Millisecond))
	out := buf.String()
	assert.True(t, strings.HasPrefix(out, "2 commits selected\n"))
	assert.Contains(t, out, "2 lines (66.7%)")
	assert.Contains(t, out, "Brush [10,20]-[300,400]")

	buf.Reset()
	require.NoError(t, writeSelectionText(&buf, schema.SelectionResult{Text: "No commits selected"}, 0))
	assert.Equal(t, "No commits selected\n", buf.String())
}

func TestWriteStory(t *testing.T) {
	points := []schema.Point{
		{CommitID: "0123456789", X: 20, Y: 300, R: 25, Entering: false},
		{CommitID: "abcdef0123", X: 980, Y: 100, R: 3, Entering: true},
	}
	result := schema.StoryResult{
		Step:        schema.NarrativeStep{Index: 1, Text: "On a day, I made another glorious commit."},
		Total:       3,
		View:        schema.ScatterView,
		CutoffLabel: "Feb 9, 2025",
		Points:      points,
	}

	var buf bytes.Buffer
	require.NoError(t, writeStoryText(&buf, result, testConfig(), 0))
	out := buf.String()
	assert.Contains(t, out, "Step 2 of 3")
	assert.Contains(t, out, "2 points drawn")
	assert.Contains(t, out, "+ abcdef0")
	assert.NotContains(t, out, "+ 0123456")

	buf.Reset()
	require.NoError(t, writeStoryCSV(&buf, result))
	rows := readCSV(t, &buf)
	require.Len(t, rows, 3)
	assert.Equal(t, []string{"abcdef0123", "980.00", "100.00", "3.00", "true"}, rows[2])
}

func TestWriteProjectsCSV(t *testing.T) {
	fmtFloat, _ := createFormatters(2)
	result := schema.ProjectsResult{
		Title:  "3 Projects",
		Slices: []schema.PieSlice{{Label: "2024", Value: 2, StartAngle: 0, EndAngle: 4.18879, Color: "#4e79a7"}},
	}
	var buf bytes.Buffer
	require.NoError(t, writeProjectsCSV(&buf, result, fmtFloat))
	rows := readCSV(t, &buf)
	assert.Equal(t, []string{"2024", "2", "0.00", "4.19", "#4e79a7"}, rows[1])
}

func TestGetMaxTablePathWidth(t *testing.T) {
	tests := []struct {
		width    int
		expected int
	}{
		{width: 40, expected: 15},
		{width: 100, expected: 50},
		{width: 300, expected: 70},
	}
	for _, tt := range tests {
		cfg := testConfig()
		cfg.Width = tt.width
		assert.Equal(t, tt.expected, GetMaxTablePathWidth(cfg), "width %d", tt.width)
	}
}

func TestAuthorAndShortID(t *testing.T) {
	assert.Equal(t, schema.UnknownAuthor, authorOrUnknown(""))
	assert.Equal(t, "Ana", authorOrUnknown("Ana"))
	assert.Equal(t, "abc", shortID("abc"))
	assert.Equal(t, "0123456", shortID("0123456789"))
}
