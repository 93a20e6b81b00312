package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/huangsam/locmeta/internal/contract"
	"github.com/huangsam/locmeta/schema"
)

// PrintStoryResults outputs one narrative step, dispatching based on the output format configured.
func PrintStoryResults(result schema.StoryResult, cfg *contract.Config, duration time.Duration) error {
	return dispatch(cfg,
		func(w io.Writer) error { return writeStoryText(w, result, cfg, duration) },
		func(w io.Writer) error { return writeStoryCSV(w, result) },
		func(w io.Writer) error { return writeJSON(w, result) },
		nil,
	)
}

// writeStoryText writes the paragraph and a digest of the re-rendered view.
func writeStoryText(w io.Writer, result schema.StoryResult, cfg *contract.Config, duration time.Duration) error {
	header := fmt.Sprintf("Step %d of %d", result.Step.Index+1, result.Total)
	if cfg.UseColors {
		header = contract.LabelColor.Sprint(header)
	}
	if _, err := fmt.Fprintf(w, "%s\n%s\n\n", header, result.Step.Text); err != nil {
		return err
	}

	switch result.View {
	case schema.FilesView:
		if result.Breakdown != nil {
			sub := schema.FilesResult{CutoffLabel: result.CutoffLabel, Commits: result.Commits, Breakdown: *result.Breakdown}
			return writeFilesTable(w, sub, cfg, duration)
		}
	default:
		if _, err := fmt.Fprintf(w, "%d points drawn up to %s\n", len(result.Points), result.CutoffLabel); err != nil {
			return err
		}
		for _, p := range result.Points {
			if !p.Entering {
				continue
			}
			if _, err := fmt.Fprintf(w, "  + %s at (%.1f, %.1f) r=%.1f\n", shortID(p.CommitID), p.X, p.Y, p.R); err != nil {
				return err
			}
		}
	}
	return nil
}

// writeStoryCSV writes the points of a scatter step or the files of a files step.
func writeStoryCSV(w io.Writer, result schema.StoryResult) error {
	if result.View == schema.FilesView && result.Breakdown != nil {
		return writeFilesCSV(w, *result.Breakdown)
	}
	return writeCSVWithHeader(w, []string{"commit", "x", "y", "r", "entering"}, func(cw *csv.Writer) error {
		for _, p := range result.Points {
			rec := []string{
				p.CommitID,
				strconv.FormatFloat(p.X, 'f', 2, 64),
				strconv.FormatFloat(p.Y, 'f', 2, 64),
				strconv.FormatFloat(p.R, 'f', 2, 64),
				strconv.FormatBool(p.Entering),
			}
			if err := cw.Write(rec); err != nil {
				return err
			}
		}
		return nil
	})
}
