package cmd

import (
	"github.com/huangsam/locmeta/core"
	"github.com/huangsam/locmeta/internal/contract"
	"github.com/spf13/cobra"
)

// projectsCmd summarizes projects.json.
var projectsCmd = &cobra.Command{
	Use:   "projects [projects.json]",
	Short: "Count projects and group them by year.",
	Long: `Validate projects.json, then print the projects title and one pie
slice per year in order of first appearance.

Examples:
  locmeta projects
  locmeta projects lib/projects.json --output json`,
	Args:    cobra.MaximumNArgs(1),
	PreRunE: projectsSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteProjects(rootCtx, cfg, storeManager); err != nil {
			contract.LogFatal("Cannot summarize projects", err)
		}
	},
}
