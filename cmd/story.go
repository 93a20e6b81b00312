package cmd

import (
	"github.com/huangsam/locmeta/core"
	"github.com/huangsam/locmeta/internal/contract"
	"github.com/spf13/cobra"
)

// storyCmd prints one step of the commit narrative.
var storyCmd = &cobra.Command{
	Use:   "story [loc.csv]",
	Short: "Tell the story of one commit.",
	Long: `Print the narrative paragraph for one commit and the view (scatter
points or file breakdown) as it looked right after that commit.

Examples:
  # The first commit
  locmeta story --step 0

  # The files after the tenth commit
  locmeta story --step 9 --view files`,
	Args:    cobra.MaximumNArgs(1),
	PreRunE: dataSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteStory(rootCtx, cfg, storeManager); err != nil {
			contract.LogFatal("Cannot tell story", err)
		}
	},
}
