package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/huangsam/locmeta/internal/contract"
	"github.com/huangsam/locmeta/internal/parquet"
	"github.com/huangsam/locmeta/schema"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
)

// PrintFilesResults outputs the file breakdown, dispatching based on the output format configured.
func PrintFilesResults(result schema.FilesResult, cfg *contract.Config, duration time.Duration) error {
	return dispatch(cfg,
		func(w io.Writer) error { return writeFilesTable(w, result, cfg, duration) },
		func(w io.Writer) error { return writeFilesCSV(w, result.Breakdown) },
		func(w io.Writer) error { return writeJSON(w, result) },
		func() error { return writeParquetFile(cfg.OutputFile, parquet.ConvertLines(result.Lines)) },
	)
}

// writeFilesTable writes the top files with their per-type line counts.
func writeFilesTable(w io.Writer, result schema.FilesResult, cfg *contract.Config, duration time.Duration) error {
	table := tablewriter.NewWriter(w)
	table.Header([]string{"Rank", "File", "Lines", "Types"})
	table.Configure(func(c *tablewriter.Config) {
		c.Row.Alignment.Global = tw.AlignRight
	})

	maxWidth := GetMaxTablePathWidth(cfg)
	var data [][]string
	for i, f := range result.Breakdown.Files {
		if cfg.ResultLimit > 0 && i >= cfg.ResultLimit {
			break
		}
		data = append(data, []string{
			strconv.Itoa(i + 1),
			contract.TruncatePath(f.Name, maxWidth),
			strconv.Itoa(f.Lines),
			markerSummary(f.Markers),
		})
	}
	if err := table.Bulk(data); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}

	legend := make([]string, len(result.Breakdown.Types))
	for i, s := range result.Breakdown.Types {
		legend[i] = fmt.Sprintf("%s %s", s.Type, s.Formatted)
	}
	if len(legend) > 0 {
		if _, err := fmt.Fprintf(w, "Types: %s\n", strings.Join(legend, ", ")); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintf(w, "Showing %d files from %d commits up to %s. Completed in %v\n",
		len(data), result.Commits, result.CutoffLabel, duration)
	return err
}

// markerSummary condenses a file's markers into "type:count" pairs in first-seen order.
func markerSummary(markers []schema.Marker) string {
	var order []string
	counts := make(map[string]int)
	for _, m := range markers {
		if counts[m.Type] == 0 {
			order = append(order, m.Type)
		}
		counts[m.Type]++
	}
	parts := make([]string, len(order))
	for i, t := range order {
		parts[i] = fmt.Sprintf("%s:%d", t, counts[t])
	}
	return strings.Join(parts, " ")
}

// writeFilesCSV writes one row per file.
func writeFilesCSV(w io.Writer, b schema.Breakdown) error {
	return writeCSVWithHeader(w, []string{"rank", "file", "lines", "types"}, func(cw *csv.Writer) error {
		for i, f := range b.Files {
			if err := cw.Write([]string{strconv.Itoa(i + 1), f.Name, strconv.Itoa(f.Lines), markerSummary(f.Markers)}); err != nil {
				return err
			}
		}
		return nil
	})
}
