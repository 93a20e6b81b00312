package cmd

import (
	"github.com/huangsam/locmeta/core"
	"github.com/huangsam/locmeta/internal/contract"
	"github.com/spf13/cobra"
)

// filesCmd prints the file breakdown up to a point on the timeline.
var filesCmd = &cobra.Command{
	Use:   "files [loc.csv]",
	Short: "Break lines down by file and language.",
	Long: `List every file with its line count and one colored marker per line,
largest files first, followed by the language legend.

Accepts the same --cutoff and --progress flags as the commits command.

Examples:
  # Files as of today
  locmeta files

  # Files as they were three months ago
  locmeta files --cutoff "3 months ago"`,
	Args:    cobra.MaximumNArgs(1),
	PreRunE: dataSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteFiles(rootCtx, cfg, storeManager); err != nil {
			contract.LogFatal("Cannot break down files", err)
		}
	},
}
