// Package agg loads loc.csv line records and aggregates them into commits.
package agg

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"strconv"
	"strings"
	"time"

	"github.com/huangsam/locmeta/schema"
	"github.com/src-d/enry/v2"
)

// Column names recognised in the loc.csv header.
const (
	ColCommit   = "commit"
	ColFile     = "file"
	ColLine     = "line"
	ColDepth    = "depth"
	ColLength   = "length"
	ColType     = "type"
	ColAuthor   = "author"
	ColDate     = "date"
	ColTime     = "time"
	ColTimezone = "timezone"
	ColDatetime = "datetime"
)

// Header is the column order written by the generator.
var Header = []string{
	ColFile, ColLine, ColType, ColCommit, ColAuthor,
	ColDate, ColTime, ColTimezone, ColDatetime, ColDepth, ColLength,
}

// datetimeLayouts are tried in order when parsing the datetime column.
var datetimeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04Z07:00",
	"2006-01-02 15:04:05Z07:00",
	"2006-01-02 15:04:05 -0700",
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
}

// OtherType tags lines whose type cannot be detected.
const OtherType = "other"

// ErrMissingColumn is returned when a required column is absent from the header.
var ErrMissingColumn = errors.New("missing required column")

// LoadRecordsFile opens the file at filePath and loads it with LoadRecords.
func LoadRecordsFile(filePath string) ([]schema.LineRecord, error) {
	f, err := os.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("cannot open %q: %w", filePath, err)
	}
	defer func() { _ = f.Close() }()

	records, err := LoadRecords(f)
	if err != nil {
		return nil, fmt.Errorf("cannot load %q: %w", filePath, err)
	}
	return records, nil
}

// LoadRecords parses CSV with a header row into line records. Columns are
// matched by name so their order is free. Any malformed row fails the whole load.
func LoadRecords(r io.Reader) ([]schema.LineRecord, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("empty input: %w", ErrMissingColumn)
	}
	if err != nil {
		return nil, fmt.Errorf("cannot read header: %w", err)
	}
	cols, err := indexHeader(header)
	if err != nil {
		return nil, err
	}

	var records []schema.LineRecord
	for row := 1; ; row++ {
		fields, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", row, err)
		}
		rec, err := parseRow(cols, fields)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", row, err)
		}
		records = append(records, rec)
	}
	return records, nil
}

// columns maps a column name to its index in the header.
type columns map[string]int

func (c columns) get(fields []string, name string) string {
	i, ok := c[name]
	if !ok || i >= len(fields) {
		return ""
	}
	return strings.TrimSpace(fields[i])
}

func indexHeader(header []string) (columns, error) {
	cols := make(columns, len(header))
	for i, h := range header {
		name := strings.ToLower(strings.TrimSpace(strings.TrimPrefix(h, "\ufeff")))
		if _, dup := cols[name]; !dup {
			cols[name] = i
		}
	}
	for _, name := range []string{ColCommit, ColFile, ColLine} {
		if _, ok := cols[name]; !ok {
			return nil, fmt.Errorf("%w %q", ErrMissingColumn, name)
		}
	}
	if _, ok := cols[ColDatetime]; !ok {
		for _, name := range []string{ColDate, ColTime, ColTimezone} {
			if _, ok := cols[name]; !ok {
				return nil, fmt.Errorf("%w %q (needed without %q)", ErrMissingColumn, name, ColDatetime)
			}
		}
	}
	return cols, nil
}

func parseRow(cols columns, fields []string) (schema.LineRecord, error) {
	rec := schema.LineRecord{
		File:     cols.get(fields, ColFile),
		Commit:   cols.get(fields, ColCommit),
		Author:   cols.get(fields, ColAuthor),
		Time:     cols.get(fields, ColTime),
		Timezone: cols.get(fields, ColTimezone),
		Type:     cols.get(fields, ColType),
	}

	var err error
	if rec.Line, err = parseNumber(cols.get(fields, ColLine)); err != nil {
		return rec, fmt.Errorf("invalid %s: %w", ColLine, err)
	}
	if rec.Depth, err = parseNumber(cols.get(fields, ColDepth)); err != nil {
		return rec, fmt.Errorf("invalid %s: %w", ColDepth, err)
	}
	if rec.Length, err = parseNumber(cols.get(fields, ColLength)); err != nil {
		return rec, fmt.Errorf("invalid %s: %w", ColLength, err)
	}

	date := cols.get(fields, ColDate)
	if rec.Date, err = ParseDate(date, rec.Timezone); err != nil {
		return rec, fmt.Errorf("invalid %s: %w", ColDate, err)
	}

	raw := cols.get(fields, ColDatetime)
	if raw == "" && date != "" {
		raw = date + "T" + rec.Time + rec.Timezone
	}
	if rec.Datetime, err = ParseDatetime(raw); err != nil {
		return rec, fmt.Errorf("invalid %s: %w", ColDatetime, err)
	}

	if rec.Type == "" {
		rec.Type = DetectType(rec.File)
	}
	return rec, nil
}

// parseNumber coerces a cell to an int. Empty cells are 0.
func parseNumber(s string) (int, error) {
	if s == "" {
		return 0, nil
	}
	if n, err := strconv.Atoi(s); err == nil {
		return n, nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("%q is not a number", s)
	}
	return int(f), nil
}

// ParseDate returns midnight of date in the given UTC offset. A missing
// offset means UTC. An empty date yields the zero time.
func ParseDate(date, timezone string) (time.Time, error) {
	if date == "" {
		return time.Time{}, nil
	}
	if timezone == "" {
		return time.Parse("2006-01-02T15:04", date+"T00:00")
	}
	return time.Parse("2006-01-02T15:04Z07:00", date+"T00:00"+timezone)
}

// ParseDatetime parses an ISO 8601 timestamp.
func ParseDatetime(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, errors.New("empty timestamp")
	}
	var firstErr error
	for _, layout := range datetimeLayouts {
		t, err := time.Parse(layout, s)
		if err == nil {
			return t, nil
		}
		if firstErr == nil {
			firstErr = err
		}
	}
	return time.Time{}, firstErr
}

// DetectType returns the type tag for a file: its lowercase extension, or the
// detected language for extensionless files, or OtherType.
func DetectType(filePath string) string {
	base := path.Base(filePath)
	if ext := path.Ext(base); len(ext) > 1 && ext != base {
		return strings.ToLower(ext[1:])
	}
	if lang := enry.GetLanguage(base, nil); lang != "" {
		return strings.ToLower(lang)
	}
	return OtherType
}
