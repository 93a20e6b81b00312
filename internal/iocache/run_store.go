package iocache

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/huangsam/locmeta/internal/contract"
	"github.com/huangsam/locmeta/schema"
)

// Table names for run tracking.
const (
	runsTable       = "locmeta_runs"
	runCommitsTable = "locmeta_run_commits"
)

// RunStoreImpl implements the RunStore interface.
type RunStoreImpl struct {
	db      *sql.DB
	backend schema.DatabaseBackend
}

var _ contract.RunStore = &RunStoreImpl{} // Compile-time check

// NewRunStore creates a new RunStore with the specified backend.
func NewRunStore(backend schema.DatabaseBackend, connStr string) (*RunStoreImpl, error) {
	if backend == schema.NoneBackend {
		// Return a no-op store for disabled tracking
		return &RunStoreImpl{backend: backend}, nil
	}

	db, err := openSQL(backend, connStr, contract.GetRunsDBFilePath())
	if err != nil {
		return nil, err
	}

	if err := createRunTables(db, backend); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create run tables: %w", err)
	}

	return &RunStoreImpl{db: db, backend: backend}, nil
}

// createRunTables creates the run tracking tables.
func createRunTables(db *sql.DB, backend schema.DatabaseBackend) error {
	tables := []struct {
		name  string
		query string
	}{
		{runsTable, getCreateRunsQuery(backend)},
		{runCommitsTable, getCreateRunCommitsQuery(backend)},
	}
	for _, table := range tables {
		if _, err := db.Exec(table.query); err != nil {
			return fmt.Errorf("failed to create table %s: %w", table.name, err)
		}
	}
	return nil
}

// getCreateRunsQuery returns the CREATE TABLE query for locmeta_runs.
func getCreateRunsQuery(backend schema.DatabaseBackend) string {
	quotedTableName := quoteTableName(runsTable, backend)

	switch backend {
	case schema.MySQLBackend:
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				run_id BIGINT AUTO_INCREMENT PRIMARY KEY,
				start_time DATETIME(6) NOT NULL,
				end_time DATETIME(6),
				run_duration_ms BIGINT,
				data_file TEXT NOT NULL,
				total_lines BIGINT,
				total_commits BIGINT,
				total_files BIGINT
			);
		`, quotedTableName)

	case schema.PostgreSQLBackend:
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				run_id BIGSERIAL PRIMARY KEY,
				start_time TIMESTAMPTZ NOT NULL,
				end_time TIMESTAMPTZ,
				run_duration_ms BIGINT,
				data_file TEXT NOT NULL,
				total_lines BIGINT,
				total_commits BIGINT,
				total_files BIGINT
			);
		`, quotedTableName)

	default: // SQLite
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				run_id INTEGER PRIMARY KEY AUTOINCREMENT,
				start_time TEXT NOT NULL,
				end_time TEXT,
				run_duration_ms INTEGER,
				data_file TEXT NOT NULL,
				total_lines INTEGER,
				total_commits INTEGER,
				total_files INTEGER
			);
		`, quotedTableName)
	}
}

// getCreateRunCommitsQuery returns the CREATE TABLE query for locmeta_run_commits.
func getCreateRunCommitsQuery(backend schema.DatabaseBackend) string {
	quotedTableName := quoteTableName(runCommitsTable, backend)

	switch backend {
	case schema.MySQLBackend:
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				run_id BIGINT NOT NULL,
				commit_id VARCHAR(64) NOT NULL,
				author TEXT,
				commit_time DATETIME(6) NOT NULL,
				hour_frac DOUBLE NOT NULL,
				total_lines INT NOT NULL,
				PRIMARY KEY (run_id, commit_id)
			);
		`, quotedTableName)

	case schema.PostgreSQLBackend:
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				run_id BIGINT NOT NULL,
				commit_id TEXT NOT NULL,
				author TEXT,
				commit_time TIMESTAMPTZ NOT NULL,
				hour_frac DOUBLE PRECISION NOT NULL,
				total_lines INTEGER NOT NULL,
				PRIMARY KEY (run_id, commit_id)
			);
		`, quotedTableName)

	default: // SQLite
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				run_id INTEGER NOT NULL,
				commit_id TEXT NOT NULL,
				author TEXT,
				commit_time TEXT NOT NULL,
				hour_frac REAL NOT NULL,
				total_lines INTEGER NOT NULL,
				PRIMARY KEY (run_id, commit_id)
			);
		`, quotedTableName)
	}
}

// BeginRun creates a new run and returns its unique ID.
func (rs *RunStoreImpl) BeginRun(startTime time.Time, dataFile string) (int64, error) {
	if rs.backend == schema.NoneBackend || rs.db == nil {
		return 0, nil
	}

	quotedTableName := quoteTableName(runsTable, rs.backend)

	var runID int64
	var err error
	switch rs.backend {
	case schema.PostgreSQLBackend:
		query := fmt.Sprintf(`INSERT INTO %s (start_time, data_file) VALUES ($1, $2) RETURNING run_id`, quotedTableName)
		err = rs.db.QueryRow(query, formatTime(startTime, rs.backend), dataFile).Scan(&runID)
	default: // SQLite and MySQL
		query := fmt.Sprintf(`INSERT INTO %s (start_time, data_file) VALUES (?, ?)`, quotedTableName)
		var result sql.Result
		result, err = rs.db.Exec(query, formatTime(startTime, rs.backend), dataFile)
		if err == nil {
			runID, err = result.LastInsertId()
		}
	}
	if err != nil {
		return 0, fmt.Errorf("failed to insert run: %w", err)
	}
	return runID, nil
}

// EndRun updates the run with completion data.
func (rs *RunStoreImpl) EndRun(runID int64, endTime time.Time, totalLines, totalCommits, totalFiles int) error {
	if rs.backend == schema.NoneBackend || rs.db == nil {
		return nil
	}

	quotedTableName := quoteTableName(runsTable, rs.backend)

	var rawStart any
	query := fmt.Sprintf(`SELECT start_time FROM %s WHERE run_id = %s`, quotedTableName, placeholder(rs.backend, 1))
	if err := rs.db.QueryRow(query, runID).Scan(&rawStart); err != nil {
		return fmt.Errorf("failed to get start_time for run %d: %w", runID, err)
	}
	startTime, err := scanTime(rawStart, rs.backend)
	if err != nil {
		return fmt.Errorf("failed to parse start_time: %w", err)
	}

	durationMs := endTime.Sub(startTime).Milliseconds()

	var updateQuery string
	switch rs.backend {
	case schema.PostgreSQLBackend:
		updateQuery = fmt.Sprintf(`UPDATE %s SET end_time = $1, run_duration_ms = $2, total_lines = $3, total_commits = $4, total_files = $5 WHERE run_id = $6`, quotedTableName)
	default: // SQLite and MySQL
		updateQuery = fmt.Sprintf(`UPDATE %s SET end_time = ?, run_duration_ms = ?, total_lines = ?, total_commits = ?, total_files = ? WHERE run_id = ?`, quotedTableName)
	}
	if _, err := rs.db.Exec(updateQuery, formatTime(endTime, rs.backend), durationMs, totalLines, totalCommits, totalFiles, runID); err != nil {
		return fmt.Errorf("failed to update run: %w", err)
	}
	return nil
}

// RecordCommits stores one row per commit in a single transaction.
func (rs *RunStoreImpl) RecordCommits(runID int64, commits []schema.Commit) error {
	if rs.backend == schema.NoneBackend || rs.db == nil || len(commits) == 0 {
		return nil
	}

	query := fmt.Sprintf(`INSERT INTO %s (run_id, commit_id, author, commit_time, hour_frac, total_lines) VALUES (%s, %s, %s, %s, %s, %s)`,
		quoteTableName(runCommitsTable, rs.backend),
		placeholder(rs.backend, 1), placeholder(rs.backend, 2), placeholder(rs.backend, 3),
		placeholder(rs.backend, 4), placeholder(rs.backend, 5), placeholder(rs.backend, 6))

	tx, err := rs.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	stmt, err := tx.Prepare(query)
	if err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("failed to prepare commit insert: %w", err)
	}
	defer func() { _ = stmt.Close() }()

	for _, c := range commits {
		if _, err := stmt.Exec(runID, c.ID, c.Author, formatTime(c.Datetime, rs.backend), c.HourFrac, c.TotalLines); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("failed to insert commit %s: %w", c.ID, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit run commits: %w", err)
	}
	return nil
}

// Close closes the underlying connection.
func (rs *RunStoreImpl) Close() error {
	if rs.db != nil {
		return rs.db.Close()
	}
	return nil
}

// GetStatus returns status information about the run store.
func (rs *RunStoreImpl) GetStatus() (schema.RunStatus, error) {
	status := schema.RunStatus{
		Backend:    string(rs.backend),
		Connected:  rs.db != nil,
		TableSizes: make(map[string]int64),
	}
	if rs.backend == schema.NoneBackend || rs.db == nil {
		return status, nil
	}

	quotedRuns := quoteTableName(runsTable, rs.backend)
	if err := rs.db.QueryRow(fmt.Sprintf("SELECT COUNT(*) FROM %s", quotedRuns)).Scan(&status.TotalRuns); err != nil {
		return status, fmt.Errorf("failed to get total runs: %w", err)
	}

	if status.TotalRuns > 0 {
		var rawLast, rawOldest any
		lastRunQuery := fmt.Sprintf("SELECT run_id, start_time FROM %s ORDER BY run_id DESC LIMIT 1", quotedRuns)
		if err := rs.db.QueryRow(lastRunQuery).Scan(&status.LastRunID, &rawLast); err != nil {
			return status, fmt.Errorf("failed to get last run info: %w", err)
		}
		oldestRunQuery := fmt.Sprintf("SELECT start_time FROM %s ORDER BY run_id ASC LIMIT 1", quotedRuns)
		if err := rs.db.QueryRow(oldestRunQuery).Scan(&rawOldest); err != nil {
			return status, fmt.Errorf("failed to get oldest run time: %w", err)
		}

		var err error
		if status.LastRunTime, err = scanTime(rawLast, rs.backend); err != nil {
			return status, fmt.Errorf("failed to parse last run time: %w", err)
		}
		if status.OldestRunTime, err = scanTime(rawOldest, rs.backend); err != nil {
			return status, fmt.Errorf("failed to parse oldest run time: %w", err)
		}

		commitsQuery := fmt.Sprintf("SELECT COALESCE(SUM(total_commits), 0) FROM %s", quotedRuns)
		if err := rs.db.QueryRow(commitsQuery).Scan(&status.TotalCommits); err != nil {
			return status, fmt.Errorf("failed to get total commits: %w", err)
		}
	}

	for _, table := range []string{runsTable, runCommitsTable} {
		var count int64
		countQuery := fmt.Sprintf("SELECT COUNT(*) FROM %s", quoteTableName(table, rs.backend))
		if err := rs.db.QueryRow(countQuery).Scan(&count); err != nil {
			return status, fmt.Errorf("failed to get count for table %s: %w", table, err)
		}
		status.TableSizes[table] = count
	}

	return status, nil
}

// GetAllRuns retrieves all runs from the store.
func (rs *RunStoreImpl) GetAllRuns() ([]schema.RunRecord, error) {
	if rs.backend == schema.NoneBackend || rs.db == nil {
		return nil, nil
	}

	query := fmt.Sprintf(`SELECT run_id, start_time, end_time, run_duration_ms, data_file, total_lines, total_commits, total_files
		FROM %s ORDER BY run_id`, quoteTableName(runsTable, rs.backend))
	rows, err := rs.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to query runs: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var results []schema.RunRecord
	for rows.Next() {
		var record schema.RunRecord
		var rawStart, rawEnd any
		var duration, lines, commits, files sql.NullInt64
		if err := rows.Scan(&record.RunID, &rawStart, &rawEnd, &duration, &record.DataFile, &lines, &commits, &files); err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}
		if record.StartTime, err = scanTime(rawStart, rs.backend); err != nil {
			return nil, fmt.Errorf("failed to parse start_time: %w", err)
		}
		if rawEnd != nil {
			end, err := scanTime(rawEnd, rs.backend)
			if err != nil {
				return nil, fmt.Errorf("failed to parse end_time: %w", err)
			}
			record.EndTime = &end
		}
		record.DurationMs = nullInt(duration)
		record.TotalLines = nullInt(lines)
		record.TotalCommits = nullInt(commits)
		record.TotalFiles = nullInt(files)
		results = append(results, record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating runs: %w", err)
	}
	return results, nil
}

// GetAllRunCommits retrieves all commit rows from the store.
func (rs *RunStoreImpl) GetAllRunCommits() ([]schema.RunCommitRecord, error) {
	if rs.backend == schema.NoneBackend || rs.db == nil {
		return nil, nil
	}

	query := fmt.Sprintf(`SELECT run_id, commit_id, author, commit_time, hour_frac, total_lines
		FROM %s ORDER BY run_id, commit_id`, quoteTableName(runCommitsTable, rs.backend))
	rows, err := rs.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to query run commits: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var results []schema.RunCommitRecord
	for rows.Next() {
		var record schema.RunCommitRecord
		var author sql.NullString
		var rawTime any
		if err := rows.Scan(&record.RunID, &record.CommitID, &author, &rawTime, &record.HourFrac, &record.TotalLines); err != nil {
			return nil, fmt.Errorf("failed to scan run commit: %w", err)
		}
		record.Author = author.String
		if record.Datetime, err = scanTime(rawTime, rs.backend); err != nil {
			return nil, fmt.Errorf("failed to parse commit_time: %w", err)
		}
		results = append(results, record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating run commits: %w", err)
	}
	return results, nil
}

func nullInt(v sql.NullInt64) *int64 {
	if !v.Valid {
		return nil
	}
	n := v.Int64
	return &n
}
