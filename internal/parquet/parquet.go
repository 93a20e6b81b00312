// Package parquet provides data structures and functions for exporting locmeta
// data to Parquet files using github.com/parquet-go/parquet-go.
package parquet

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/huangsam/locmeta/schema"
	"github.com/parquet-go/parquet-go"
)

// Run represents a single recorded command run.
// This struct maps to the locmeta_runs database table.
type Run struct {
	RunID        int64      `parquet:"run_id,snappy"`
	StartTime    time.Time  `parquet:"start_time,snappy"`
	EndTime      *time.Time `parquet:"end_time,optional,snappy"`
	DurationMs   *int64     `parquet:"run_duration_ms,optional,snappy"`
	DataFile     string     `parquet:"data_file,snappy"`
	TotalLines   *int64     `parquet:"total_lines,optional,snappy"`
	TotalCommits *int64     `parquet:"total_commits,optional,snappy"`
	TotalFiles   *int64     `parquet:"total_files,optional,snappy"`
}

// RunCommit is one commit seen by a run.
// This struct maps to the locmeta_run_commits database table.
type RunCommit struct {
	RunID      int64     `parquet:"run_id,snappy"`
	CommitID   string    `parquet:"commit_id,snappy,dict"`
	Author     string    `parquet:"author,snappy,dict"`
	Datetime   time.Time `parquet:"commit_time,snappy"`
	HourFrac   float64   `parquet:"hour_frac,snappy"`
	TotalLines int32     `parquet:"total_lines,snappy"`
}

// Commit is an aggregated commit as written by the parquet output mode.
type Commit struct {
	ID         string    `parquet:"commit,snappy"`
	URL        string    `parquet:"url,optional,snappy"`
	Author     string    `parquet:"author,snappy,dict"`
	Datetime   time.Time `parquet:"datetime,snappy"`
	Timezone   string    `parquet:"timezone,snappy,dict"`
	HourFrac   float64   `parquet:"hour_frac,snappy"`
	TotalLines int32     `parquet:"total_lines,snappy"`
}

// Line is one loc.csv row.
type Line struct {
	File     string    `parquet:"file,snappy,dict"`
	Line     int32     `parquet:"line,snappy"`
	Type     string    `parquet:"type,snappy,dict"`
	Commit   string    `parquet:"commit,snappy,dict"`
	Author   string    `parquet:"author,snappy,dict"`
	Datetime time.Time `parquet:"datetime,snappy"`
	Depth    int32     `parquet:"depth,snappy"`
	Length   int32     `parquet:"length,snappy"`
}

// Write encodes data as a single Parquet file on w.
func Write[T any](w io.Writer, data []T) error {
	// The schema is derived from the struct tags of T
	writer := parquet.NewGenericWriter[T](w)
	if _, err := writer.Write(data); err != nil {
		_ = writer.Close()
		return fmt.Errorf("failed to write data to parquet file: %w", err)
	}
	if err := writer.Close(); err != nil {
		return fmt.Errorf("failed to finish parquet file: %w", err)
	}
	return nil
}

// WriteFile writes data to a new Parquet file at outputPath.
func WriteFile[T any](data []T, outputPath string) error {
	file, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	if err := Write(file, data); err != nil {
		_ = file.Close()
		return err
	}
	return file.Close()
}

// ConvertRunRecords converts schema.RunRecord to Run for Parquet export.
func ConvertRunRecords(records []schema.RunRecord) []Run {
	result := make([]Run, len(records))
	for i, record := range records {
		result[i] = Run{
			RunID:        record.RunID,
			StartTime:    record.StartTime,
			EndTime:      record.EndTime,
			DurationMs:   record.DurationMs,
			DataFile:     record.DataFile,
			TotalLines:   record.TotalLines,
			TotalCommits: record.TotalCommits,
			TotalFiles:   record.TotalFiles,
		}
	}
	return result
}

// ConvertRunCommitRecords converts schema.RunCommitRecord to RunCommit for Parquet export.
func ConvertRunCommitRecords(records []schema.RunCommitRecord) []RunCommit {
	result := make([]RunCommit, len(records))
	for i, record := range records {
		result[i] = RunCommit{
			RunID:      record.RunID,
			CommitID:   record.CommitID,
			Author:     record.Author,
			Datetime:   record.Datetime,
			HourFrac:   record.HourFrac,
			TotalLines: record.TotalLines,
		}
	}
	return result
}

// ConvertCommits converts aggregated commits for Parquet output.
func ConvertCommits(commits []schema.Commit) []Commit {
	result := make([]Commit, len(commits))
	for i, c := range commits {
		result[i] = Commit{
			ID:         c.ID,
			URL:        c.URL,
			Author:     c.Author,
			Datetime:   c.Datetime,
			Timezone:   c.Timezone,
			HourFrac:   c.HourFrac,
			TotalLines: int32(c.TotalLines),
		}
	}
	return result
}

// ConvertLines converts line records for Parquet output.
func ConvertLines(lines []schema.LineRecord) []Line {
	result := make([]Line, len(lines))
	for i, l := range lines {
		result[i] = Line{
			File:     l.File,
			Line:     int32(l.Line),
			Type:     l.Type,
			Commit:   l.Commit,
			Author:   l.Author,
			Datetime: l.Datetime,
			Depth:    int32(l.Depth),
			Length:   int32(l.Length),
		}
	}
	return result
}
