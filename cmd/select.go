package cmd

import (
	"github.com/huangsam/locmeta/core"
	"github.com/huangsam/locmeta/internal/contract"
	"github.com/spf13/cobra"
)

// selectCmd runs a brush query on the scatter plot.
var selectCmd = &cobra.Command{
	Use:   "select [loc.csv] --brush x0,y0,x1,y1",
	Short: "Select commits inside a rectangle of the scatter plot.",
	Long: `Select the commits whose points fall inside a rectangle of the
time-of-day scatter plot and break their lines down by language.

Coordinates are plot pixels on a 1000x600 canvas: x grows with the commit
date, y=10 is 24:00 and y=570 is 00:00. Corners may be given in any
order.

Examples:
  # Everything drawn in the left half of the plot
  locmeta select --brush 0,0,500,600

  # Export the selected commits
  locmeta select --brush 100,50,400,300 --output csv`,
	Args:    cobra.MaximumNArgs(1),
	PreRunE: dataSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteSelect(rootCtx, cfg, storeManager); err != nil {
			contract.LogFatal("Cannot select commits", err)
		}
	},
}
