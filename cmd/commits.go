package cmd

import (
	"github.com/huangsam/locmeta/core"
	"github.com/huangsam/locmeta/internal/contract"
	"github.com/spf13/cobra"
)

// commitsCmd lists the commits up to a point on the timeline.
var commitsCmd = &cobra.Command{
	Use:   "commits [loc.csv]",
	Short: "List commits, optionally up to a cutoff on the timeline.",
	Long: `Group the line log by commit and list each commit with its author,
time of day and number of lines.

The timeline can be moved with either --cutoff (a date or "N units ago") or
--progress (a slider position from 0 to 100, where 0 is the first commit and
100 the last). The two cannot be combined.

Examples:
  # Every commit
  locmeta commits

  # Commits in the first half of the project
  locmeta commits --progress 50

  # Commits before a date, as Parquet
  locmeta commits --cutoff 2025-02-11 --output parquet --output-file commits.parquet`,
	Args:    cobra.MaximumNArgs(1),
	PreRunE: dataSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteCommits(rootCtx, cfg, storeManager); err != nil {
			contract.LogFatal("Cannot list commits", err)
		}
	},
}
