package outwriter

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/huangsam/locmeta/internal/contract"
	"github.com/huangsam/locmeta/internal/parquet"
	"github.com/huangsam/locmeta/schema"
)

// errNoParquet is returned for results that have no columnar form.
var errNoParquet = errors.New("parquet output is only available for commits, select and files")

// errNoHTML is returned when html output is requested outside the plot command.
var errNoHTML = errors.New("html output is only available for the plot command")

// writeWithFile handles the common pattern of opening a file, writing to it, and cleaning up.
// It accepts a writer function that takes an io.Writer and returns an error.
func writeWithFile(outputFile string, writer func(io.Writer) error, successMsg string) error {
	file, err := contract.SelectOutputFile(outputFile)
	if err != nil {
		return err
	}
	// Only close if it's not stdout
	if file != os.Stdout {
		defer func() { _ = file.Close() }()
	}

	if err := writer(file); err != nil {
		return err
	}

	if file != os.Stdout {
		fmt.Fprintf(os.Stderr, "💾 %s to %s\n", successMsg, outputFile)
	}
	return nil
}

// writeJSON is a generic JSON encoder that handles indentation consistently.
func writeJSON(w io.Writer, data any) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(data); err != nil {
		return fmt.Errorf("failed to encode JSON: %w", err)
	}
	return nil
}

// writeCSVWithHeader handles the common pattern of creating a CSV writer,
// writing a header, and writing data rows.
func writeCSVWithHeader(w io.Writer, header []string, writeRows func(*csv.Writer) error) error {
	csvWriter := csv.NewWriter(w)
	defer csvWriter.Flush()

	if err := csvWriter.Write(header); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}

	if err := writeRows(csvWriter); err != nil {
		return err
	}

	return nil
}

// writeParquetFile writes rows to the configured output file. Parquet is
// binary, so an output file is required.
func writeParquetFile[T any](outputFile string, rows []T) error {
	if outputFile == "" {
		return errors.New("--output-file is required for parquet output")
	}
	return writeWithFile(outputFile, func(w io.Writer) error {
		return parquet.Write(w, rows)
	}, "Wrote Parquet")
}

// createFormatters creates the common formatter closures used across multiple output types.
func createFormatters(precision int) (fmtFloat func(float64) string, intFmt string) {
	numFmt := "%.*f"
	intFmt = "%d"
	fmtFloat = func(v float64) string {
		return fmt.Sprintf(numFmt, precision, v)
	}
	return fmtFloat, intFmt
}

// periodLabel colors a period name when colors are enabled.
func periodLabel(value string, cfg *contract.Config) string {
	if !cfg.UseColors {
		return value
	}
	return contract.GetColorPeriod(value)
}

// authorOrUnknown returns the author, or the placeholder for a missing one.
func authorOrUnknown(author string) string {
	if author == "" {
		return schema.UnknownAuthor
	}
	return author
}

// dispatch runs the writer for the configured output mode.
func dispatch(cfg *contract.Config, text, csvFn, jsonFn func(io.Writer) error, parquetFn func() error) error {
	switch cfg.Output {
	case schema.JSONOut:
		if err := writeWithFile(cfg.OutputFile, jsonFn, "Wrote JSON"); err != nil {
			return fmt.Errorf("error writing JSON output: %w", err)
		}
	case schema.CSVOut:
		if err := writeWithFile(cfg.OutputFile, csvFn, "Wrote CSV"); err != nil {
			return fmt.Errorf("error writing CSV output: %w", err)
		}
	case schema.ParquetOut:
		if parquetFn == nil {
			return errNoParquet
		}
		if err := parquetFn(); err != nil {
			return fmt.Errorf("error writing Parquet output: %w", err)
		}
	case schema.HTMLOut:
		return errNoHTML
	default:
		// Default to human-readable table
		return writeWithFile(cfg.OutputFile, text, "Wrote table")
	}
	return nil
}
