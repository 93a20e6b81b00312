package cmd

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/huangsam/locmeta/internal/contract"
	"github.com/huangsam/locmeta/internal/site"
	"github.com/huangsam/locmeta/schema"
	"github.com/spf13/cobra"
)

// themeCmd manages the persisted color scheme.
var themeCmd = &cobra.Command{
	Use:   "theme",
	Short: "Get or set the site color scheme",
	Long: `Manage the color scheme preference the site applies on load.

Values:
  "light dark"  Automatic, follows the operating system (default)
  light         Light
  dark          Dark

Preferences are kept per site host (--origin) in the cache backend.

Examples:
  locmeta theme set dark
  locmeta theme get --origin example.github.io`,
}

// themeGetCmd prints the stored scheme.
var themeGetCmd = &cobra.Command{
	Use:     "get",
	Short:   "Print the color scheme for an origin",
	Args:    cobra.NoArgs,
	PreRunE: prefSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		scheme, stored, err := site.NewThemeStore(storeManager.GetPrefStore()).Get(cfg.Origin)
		if err != nil {
			contract.LogFatal("Failed to read theme", err)
		}
		printScheme(scheme, stored)
	},
}

// themeSetCmd stores a scheme.
var themeSetCmd = &cobra.Command{
	Use:     "set <light dark|light|dark>",
	Short:   "Store the color scheme for an origin",
	Args:    cobra.ExactArgs(1),
	PreRunE: prefSetupWrapper,
	Run: func(_ *cobra.Command, args []string) {
		scheme, err := site.NewThemeStore(storeManager.GetPrefStore()).Set(cfg.Origin, args[0])
		if err != nil {
			contract.LogFatal("Failed to save theme", err)
		}
		printScheme(scheme, storeManager.GetPrefStore() != nil)
	},
}

// themeResetCmd forgets the stored scheme.
var themeResetCmd = &cobra.Command{
	Use:     "reset",
	Short:   "Forget the color scheme for an origin",
	Args:    cobra.NoArgs,
	PreRunE: prefSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := site.NewThemeStore(storeManager.GetPrefStore()).Clear(cfg.Origin); err != nil {
			contract.LogFatal("Failed to reset theme", err)
		}
		printScheme(schema.AutoScheme, false)
	},
}

// themeStatusCmd shows the preference store status.
var themeStatusCmd = &cobra.Command{
	Use:     "status",
	Short:   "Display preference store statistics",
	Args:    cobra.NoArgs,
	PreRunE: prefSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		printPrefStatus("Preferences", storeManager.GetPrefStore())
	},
}

func printScheme(scheme schema.ColorScheme, stored bool) {
	note := "stored"
	if !stored {
		note = "default"
	}
	fmt.Printf("%s: %s %s\n", cfg.Origin, color.New(color.Bold).Sprint(site.SchemeLabel(scheme)),
		color.New(color.FgHiBlack).Sprintf("(%q, %s)", string(scheme), note))
}
