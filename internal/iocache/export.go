package iocache

import (
	"errors"
	"fmt"
	"io"

	"github.com/huangsam/locmeta/internal/contract"
	"github.com/huangsam/locmeta/internal/parquet"
)

// ExecuteRunsExport writes the recorded run history to two Parquet files
// named after outputFile.
func ExecuteRunsExport(w io.Writer, store contract.RunStore, outputFile string) error {
	if outputFile == "" {
		return errors.New("--output-file is required for export command")
	}

	status, err := store.GetStatus()
	if err != nil {
		return fmt.Errorf("failed to get run status: %w", err)
	}
	if status.TotalRuns == 0 {
		return errors.New("no run data found to export")
	}

	_, _ = fmt.Fprintf(w, "Exporting data from %s backend...\n", status.Backend)
	_, _ = fmt.Fprintf(w, "Total runs: %d\n", status.TotalRuns)
	_, _ = fmt.Fprintf(w, "Total commit records: %d\n", status.TableSizes[runCommitsTable])

	runs, err := store.GetAllRuns()
	if err != nil {
		return fmt.Errorf("failed to retrieve runs: %w", err)
	}
	runCommits, err := store.GetAllRunCommits()
	if err != nil {
		return fmt.Errorf("failed to retrieve run commits: %w", err)
	}

	runsFile := outputFile + ".runs.parquet"
	parquetRuns := parquet.ConvertRunRecords(runs)
	if err := parquet.WriteFile(parquetRuns, runsFile); err != nil {
		return fmt.Errorf("failed to write runs: %w", err)
	}
	_, _ = fmt.Fprintf(w, "Exported %d runs to: %s\n", len(parquetRuns), runsFile)

	commitsFile := outputFile + ".run_commits.parquet"
	parquetCommits := parquet.ConvertRunCommitRecords(runCommits)
	if err := parquet.WriteFile(parquetCommits, commitsFile); err != nil {
		return fmt.Errorf("failed to write run commits: %w", err)
	}
	_, _ = fmt.Fprintf(w, "Exported %d commit records to: %s\n", len(parquetCommits), commitsFile)

	_, _ = fmt.Fprintln(w, "\nExport complete! The Parquet files can be read with DuckDB, pandas or Spark.")
	return nil
}
