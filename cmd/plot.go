package cmd

import (
	"github.com/huangsam/locmeta/core"
	"github.com/huangsam/locmeta/internal/contract"
	"github.com/spf13/cobra"
)

// plotCmd renders the interactive HTML page.
var plotCmd = &cobra.Command{
	Use:   "plot [loc.csv]",
	Short: "Render the scatter plot and pies as an HTML page.",
	Long: `Render the commits-by-time-of-day scatter plot with tooltips and a
brush, the language pie and the projects pie into one HTML page.

The page ignores --output. Use --output-file to write it to disk.

Examples:
  # Write the page
  locmeta plot --output-file meta.html

  # Start with a selection and an earlier cutoff
  locmeta plot --progress 60 --brush 0,0,500,300 --output-file meta.html`,
	Args:    cobra.MaximumNArgs(1),
	PreRunE: dataSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecutePlot(rootCtx, cfg, storeManager); err != nil {
			contract.LogFatal("Cannot render plot", err)
		}
	},
}
