package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/huangsam/locmeta/internal/contract"
	"github.com/huangsam/locmeta/internal/parquet"
	"github.com/huangsam/locmeta/schema"
	"github.com/olekukonko/tablewriter"
)

// PrintSelectionResults outputs a brush query, dispatching based on the output format configured.
func PrintSelectionResults(result schema.SelectionResult, cfg *contract.Config, duration time.Duration) error {
	return dispatch(cfg,
		func(w io.Writer) error { return writeSelectionText(w, result, duration) },
		func(w io.Writer) error { return writeTypeSharesCSV(w, result.Types) },
		func(w io.Writer) error { return writeJSON(w, result) },
		func() error {
			return writeParquetFile(cfg.OutputFile, parquet.ConvertLines(schema.FlattenLines(result.Commits)))
		},
	)
}

// writeSelectionText writes the count line and the language shares.
func writeSelectionText(w io.Writer, result schema.SelectionResult, duration time.Duration) error {
	if _, err := fmt.Fprintln(w, result.Text); err != nil {
		return err
	}
	if len(result.Types) > 0 {
		if err := writeTypeSharesTable(w, result.Types); err != nil {
			return err
		}
	}
	if sel := result.Selection; sel != nil {
		_, err := fmt.Fprintf(w, "Brush [%.0f,%.0f]-[%.0f,%.0f] in %v\n", sel.X0, sel.Y0, sel.X1, sel.Y1, duration)
		return err
	}
	return nil
}

// writeTypeSharesTable writes one row per language.
func writeTypeSharesTable(w io.Writer, types []schema.TypeShare) error {
	table := tablewriter.NewWriter(w)
	table.Header([]string{"Type", "Lines"})
	var data [][]string
	for _, s := range types {
		data = append(data, []string{s.Type, s.Text()})
	}
	if err := table.Bulk(data); err != nil {
		return err
	}
	return table.Render()
}

// writeTypeSharesCSV writes one row per language.
func writeTypeSharesCSV(w io.Writer, types []schema.TypeShare) error {
	return writeCSVWithHeader(w, []string{"type", "count", "percent", "color"}, func(cw *csv.Writer) error {
		for _, s := range types {
			if err := cw.Write([]string{s.Type, strconv.Itoa(s.Count), s.Formatted, s.Color}); err != nil {
				return err
			}
		}
		return nil
	})
}
