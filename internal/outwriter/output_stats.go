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

// PrintStatsResults outputs the summary statistics, dispatching based on the output format configured.
func PrintStatsResults(result schema.StatsResult, cfg *contract.Config, duration time.Duration) error {
	return dispatch(cfg,
		func(w io.Writer) error { return writeStatsTable(w, result, cfg, duration) },
		func(w io.Writer) error { return writeStatsCSV(w, result) },
		func(w io.Writer) error { return writeJSON(w, result) },
		nil,
	)
}

// writeStatsTable writes the summary as a two-column table followed by the period counts.
func writeStatsTable(w io.Writer, result schema.StatsResult, cfg *contract.Config, duration time.Duration) error {
	table := tablewriter.NewWriter(w)
	table.Header([]string{"Statistic", "Value"})
	var data [][]string
	for _, s := range result.Stats {
		value := s.Value
		if s.Label == schema.LabelMostActive {
			value = periodLabel(value, cfg)
		}
		data = append(data, []string{s.Label, value})
	}
	if err := table.Bulk(data); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}

	for _, p := range result.Periods {
		if _, err := fmt.Fprintf(w, "%s: %d lines\n", periodLabel(string(p.Period), cfg), p.Count); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintf(w, "Summarized %s in %v. Runs backend: %s\n", result.DataFile, duration, runsBackendLabel(cfg))
	return err
}

// writeStatsCSV writes one label/value row per statistic.
func writeStatsCSV(w io.Writer, result schema.StatsResult) error {
	return writeCSVWithHeader(w, []string{"label", "value"}, func(cw *csv.Writer) error {
		for _, s := range result.Stats {
			if err := cw.Write([]string{s.Label, s.Value}); err != nil {
				return err
			}
		}
		for _, p := range result.Periods {
			if err := cw.Write([]string{"period:" + string(p.Period), strconv.Itoa(p.Count)}); err != nil {
				return err
			}
		}
		return nil
	})
}

func runsBackendLabel(cfg *contract.Config) string {
	if cfg.RunsBackend == "" {
		return "disabled"
	}
	return string(cfg.RunsBackend)
}
