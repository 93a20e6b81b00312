package schema

import "time"

// PrefStatus represents the status of the preference store.
type PrefStatus struct {
	Backend         string    `json:"backend"`
	Connected       bool      `json:"connected"`
	TotalEntries    int       `json:"total_entries"`
	LastEntryTime   time.Time `json:"last_entry_time"`
	OldestEntryTime time.Time `json:"oldest_entry_time"`
	TableSizeBytes  int64     `json:"table_size_bytes"`
}

// RunStatus represents the status of the run history store.
type RunStatus struct {
	Backend       string           `json:"backend"`
	Connected     bool             `json:"connected"`
	TotalRuns     int              `json:"total_runs"`
	LastRunID     int64            `json:"last_run_id"`
	LastRunTime   time.Time        `json:"last_run_time"`
	OldestRunTime time.Time        `json:"oldest_run_time"`
	TotalCommits  int              `json:"total_commits"`
	TableSizes    map[string]int64 `json:"table_sizes"`
}

// RunRecord represents a row from the locmeta_runs table.
type RunRecord struct {
	RunID        int64
	StartTime    time.Time
	EndTime      *time.Time
	DurationMs   *int64
	DataFile     string
	TotalLines   *int64
	TotalCommits *int64
	TotalFiles   *int64
}

// RunCommitRecord represents a row from the locmeta_run_commits table.
type RunCommitRecord struct {
	RunID      int64
	CommitID   string
	Author     string
	Datetime   time.Time
	HourFrac   float64
	TotalLines int32
}
