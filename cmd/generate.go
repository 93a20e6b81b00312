package cmd

import (
	"github.com/huangsam/locmeta/core"
	"github.com/huangsam/locmeta/internal/contract"
	"github.com/spf13/cobra"
)

// generateCmd builds loc.csv from a Git repository.
var generateCmd = &cobra.Command{
	Use:   "generate [repo-path]",
	Short: "Build loc.csv from a Git repository with git blame.",
	Long: `Blame every tracked file at HEAD and write one row per line with its
file, line number, type, indentation depth, length, commit, author and time.

Files matching --exclude are skipped and a path inside the repository acts as
an implicit --filter. Files are blamed in parallel by --workers goroutines and
blame output is cached per file content in the cache backend.

The result goes to --output-file, or to --data (loc.csv) when unset.

Examples:
  # Blame the current repository into loc.csv
  locmeta generate

  # Only the src folder of another checkout
  locmeta generate ~/code/site/src --output-file meta/loc.csv`,
	Args:    cobra.MaximumNArgs(1),
	PreRunE: repoSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteGenerate(rootCtx, cfg, contract.NewLocalGitClient(), storeManager); err != nil {
			contract.LogFatal("Cannot generate line log", err)
		}
	},
}
