package cmd

import (
	"github.com/huangsam/locmeta/core"
	"github.com/huangsam/locmeta/internal/contract"
	"github.com/spf13/cobra"
)

// statsCmd prints the summary statistics of a line log.
var statsCmd = &cobra.Command{
	Use:   "stats [loc.csv]",
	Short: "Summarize lines, commits, files and the busiest time of day.",
	Long: `Load a per-line blame log and print its summary statistics.

Shows:
- Total lines of code and commits
- Number of distinct files and the longest file
- Average line length in characters
- The period of the day (Morning, Afternoon, Evening, Night) with the most lines

When run history is enabled (--runs-backend), every invocation is recorded.

Examples:
  # Summarize the default loc.csv
  locmeta stats

  # Count hours in New York time instead of each commit's own offset
  locmeta stats --tz America/New_York

  # Export as JSON
  locmeta stats meta/loc.csv --output json --output-file stats.json`,
	Args:    cobra.MaximumNArgs(1),
	PreRunE: dataSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteStats(rootCtx, cfg, storeManager); err != nil {
			contract.LogFatal("Cannot summarize line log", err)
		}
	},
}
