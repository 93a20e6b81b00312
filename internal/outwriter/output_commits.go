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
	"github.com/olekukonko/tablewriter/tw"
)

// commitsHeader is shared by the CSV writers of commit lists.
var commitsHeader = []string{"commit", "author", "datetime", "hour_frac", "total_lines", "url"}

// PrintCommitsResults outputs aggregated commits, dispatching based on the output format configured.
func PrintCommitsResults(result schema.CommitsResult, cfg *contract.Config, duration time.Duration) error {
	fmtFloat, intFmt := createFormatters(cfg.Precision)
	return dispatch(cfg,
		func(w io.Writer) error {
			if err := writeCommitsTable(w, result.Commits, cfg, fmtFloat, intFmt); err != nil {
				return err
			}
			_, err := fmt.Fprintf(w, "%d of %d commits up to %s (%.0f%%). Completed in %v\n",
				len(result.Commits), result.Total, result.CutoffLabel, result.Progress, duration)
			return err
		},
		func(w io.Writer) error { return writeCommitsCSV(w, result.Commits, fmtFloat) },
		func(w io.Writer) error { return writeJSON(w, result) },
		func() error { return writeParquetFile(cfg.OutputFile, parquet.ConvertCommits(result.Commits)) },
	)
}

// writeCommitsTable writes at most cfg.ResultLimit commits as a table.
func writeCommitsTable(w io.Writer, commits []schema.Commit, cfg *contract.Config, fmtFloat func(float64) string, intFmt string) error {
	table := tablewriter.NewWriter(w)
	table.Header([]string{"#", "Commit", "Author", "Datetime", "Hour", "Lines"})
	table.Configure(func(c *tablewriter.Config) {
		c.Row.Alignment.Global = tw.AlignRight
	})

	var data [][]string
	for i, c := range commits {
		if cfg.ResultLimit > 0 && i >= cfg.ResultLimit {
			break
		}
		data = append(data, []string{
			strconv.Itoa(i + 1),
			shortID(c.ID),
			authorOrUnknown(c.Author),
			c.Datetime.Format(contract.DateTimeFormat),
			fmtFloat(c.HourFrac),
			fmt.Sprintf(intFmt, c.TotalLines),
		})
	}
	if err := table.Bulk(data); err != nil {
		return err
	}
	return table.Render()
}

// writeCommitsCSV writes every commit, without the constituent lines.
func writeCommitsCSV(w io.Writer, commits []schema.Commit, fmtFloat func(float64) string) error {
	return writeCSVWithHeader(w, commitsHeader, func(cw *csv.Writer) error {
		for _, c := range commits {
			rec := []string{
				c.ID,
				c.Author,
				c.Datetime.Format(time.RFC3339),
				fmtFloat(c.HourFrac),
				strconv.Itoa(c.TotalLines),
				c.URL,
			}
			if err := cw.Write(rec); err != nil {
				return err
			}
		}
		return nil
	})
}

// shortID abbreviates a commit hash the way git log --oneline does.
func shortID(id string) string {
	if len(id) > 7 {
		return id[:7]
	}
	return id
}
