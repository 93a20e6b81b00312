package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/huangsam/locmeta/internal/contract"
	"github.com/huangsam/locmeta/schema"
	"github.com/olekukonko/tablewriter"
)

// PrintProjectsResults outputs the projects summary, dispatching based on the output format configured.
func PrintProjectsResults(result schema.ProjectsResult, cfg *contract.Config, duration time.Duration) error {
	fmtFloat, _ := createFormatters(cfg.Precision)
	return dispatch(cfg,
		func(w io.Writer) error { return writeProjectsTable(w, result, fmtFloat, duration) },
		func(w io.Writer) error { return writeProjectsCSV(w, result, fmtFloat) },
		func(w io.Writer) error { return writeJSON(w, result) },
		nil,
	)
}

func writeProjectsTable(w io.Writer, result schema.ProjectsResult, fmtFloat func(float64) string, duration time.Duration) error {
	if _, err := fmt.Fprintln(w, result.Title); err != nil {
		return err
	}
	table := tablewriter.NewWriter(w)
	table.Header([]string{"Year", "Projects", "Start", "End", "Color"})
	var data [][]string
	for _, s := range result.Slices {
		data = append(data, []string{s.Label, strconv.Itoa(s.Value), fmtFloat(s.StartAngle), fmtFloat(s.EndAngle), s.Color})
	}
	if err := table.Bulk(data); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}
	_, err := fmt.Fprintf(w, "Completed in %v\n", duration)
	return err
}

func writeProjectsCSV(w io.Writer, result schema.ProjectsResult, fmtFloat func(float64) string) error {
	return writeCSVWithHeader(w, []string{"year", "count", "start_angle", "end_angle", "color"}, func(cw *csv.Writer) error {
		for _, s := range result.Slices {
			if err := cw.Write([]string{s.Label, strconv.Itoa(s.Value), fmtFloat(s.StartAngle), fmtFloat(s.EndAngle), s.Color}); err != nil {
				return err
			}
		}
		return nil
	})
}
