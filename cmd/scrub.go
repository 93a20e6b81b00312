package cmd

import (
	"github.com/huangsam/locmeta/core"
	"github.com/huangsam/locmeta/internal/contract"
	"github.com/huangsam/locmeta/internal/tui"
	"github.com/spf13/cobra"
)

// scrubCmd opens the interactive timeline.
var scrubCmd = &cobra.Command{
	Use:   "scrub [loc.csv]",
	Short: "Scrub through the commit history interactively.",
	Long: `Open a full-screen timeline. Move the slider to watch the scatter
plot and file breakdown grow, or switch to story mode and step through the
commits one at a time.

Keys:
  ←/→ h/l    move the slider by 1%
  H/L        move the slider by 10%
  g/G        jump to the first or last commit
  tab        switch between slider and story mode
  ↑/↓ j/k    previous or next commit in story mode
  v          switch between the scatter and files view
  q          quit

Examples:
  locmeta scrub
  locmeta scrub --progress 25`,
	Args:    cobra.MaximumNArgs(1),
	PreRunE: dataSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		state, err := core.NewViewStateFromConfig(cfg)
		if err != nil {
			contract.LogFatal("Cannot load timeline", err)
		}
		if err := tui.Run(state); err != nil {
			contract.LogFatal("Cannot run timeline", err)
		}
	},
}
