// Package cmd defines the command-line interface for locmeta.
package cmd

import (
	"github.com/huangsam/locmeta/internal/contract"
	"github.com/huangsam/locmeta/schema"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func init() {
	// Call initConfig on Cobra's initialization
	cobra.OnInitialize(initConfig)

	// Add primary subcommands to the root command
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(commitsCmd)
	rootCmd.AddCommand(selectCmd)
	rootCmd.AddCommand(filesCmd)
	rootCmd.AddCommand(storyCmd)
	rootCmd.AddCommand(plotCmd)
	rootCmd.AddCommand(scrubCmd)
	rootCmd.AddCommand(projectsCmd)
	rootCmd.AddCommand(generateCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(themeCmd)
	rootCmd.AddCommand(cacheCmd)
	rootCmd.AddCommand(runsCmd)
	rootCmd.AddCommand(mcpCmd)
	rootCmd.AddCommand(versionCmd)

	// Add the theme subcommands to the parent theme command
	themeCmd.AddCommand(themeGetCmd)
	themeCmd.AddCommand(themeSetCmd)
	themeCmd.AddCommand(themeResetCmd)
	themeCmd.AddCommand(themeStatusCmd)

	// Add the cache subcommands to the parent cache command
	cacheCmd.AddCommand(cacheClearCmd)
	cacheCmd.AddCommand(cacheStatusCmd)

	// Add the runs subcommands to the parent runs command
	runsCmd.AddCommand(runsClearCmd)
	runsCmd.AddCommand(runsStatusCmd)
	runsCmd.AddCommand(runsExportCmd)
	runsCmd.AddCommand(runsMigrateCmd)

	// Bind all persistent flags of rootCmd to Viper
	rootCmd.PersistentFlags().String("data", contract.DefaultDataFile, "Path to the loc.csv line log")
	rootCmd.PersistentFlags().String("projects", contract.DefaultProjectsFile, "Path to projects.json")
	rootCmd.PersistentFlags().String("exclude", "", "Comma-separated list of path prefixes or patterns to ignore")
	rootCmd.PersistentFlags().StringP("filter", "f", "", "Filter files by path prefix")
	rootCmd.PersistentFlags().IntP("limit", "l", contract.DefaultResultLimit, "Number of rows to display")
	rootCmd.PersistentFlags().String("output", string(schema.TextOut), "Output format: text or csv or json or parquet or html")
	rootCmd.PersistentFlags().String("output-file", "", "Optional path to write output to")
	rootCmd.PersistentFlags().Int("precision", contract.DefaultPrecision, "Decimal precision for numeric columns")
	rootCmd.PersistentFlags().String("profile", "", "Enable profiling and write profiles to files with this prefix")
	rootCmd.PersistentFlags().Int("workers", contract.DefaultWorkers, "Number of concurrent workers")
	rootCmd.PersistentFlags().Int("width", 0, "Terminal width override (0 = auto-detect)")
	rootCmd.PersistentFlags().String("tz", "", "Time zone for hours and labels (IANA name or Local; default keeps each commit's own offset)")
	rootCmd.PersistentFlags().String("repo-url", "", "Repository web URL used to build commit links")
	rootCmd.PersistentFlags().String("cutoff", "", "Only include commits at or before this time (ISO8601 or time ago)")
	rootCmd.PersistentFlags().String("progress", "", "Timeline slider position from 0 to 100")
	rootCmd.PersistentFlags().String("brush", "", "Scatter plot selection rectangle as x0,y0,x1,y1")
	rootCmd.PersistentFlags().String("cache-backend", string(schema.SQLiteBackend), "Preference and blame cache backend: sqlite or mysql or postgresql or bolt or none")
	rootCmd.PersistentFlags().String("cache-db-connect", "", "Database connection string for mysql/postgresql (e.g., user:pass@tcp(host:port)/dbname)")
	rootCmd.PersistentFlags().String("runs-backend", "", "Run history backend: sqlite or mysql or postgresql or none")
	rootCmd.PersistentFlags().String("runs-db-connect", "", "Database connection string for run history (must differ from cache-db-connect)")
	rootCmd.PersistentFlags().String("color", "yes", "Enable colored labels in output (yes/no/true/false/1/0)")
	rootCmd.PersistentFlags().String("config", "", "Path to config file")
	if err := viper.BindPFlags(rootCmd.PersistentFlags()); err != nil {
		contract.LogFatal("Error binding root flags", err)
	}

	// Bind all flags of storyCmd to Viper
	storyCmd.Flags().Int("step", 0, "Zero-based commit index in time order")
	storyCmd.Flags().String("view", string(schema.ScatterView), "View re-rendered by the step: scatter or files")
	if err := viper.BindPFlags(storyCmd.Flags()); err != nil {
		contract.LogFatal("Error binding story flags", err)
	}

	// Bind all flags of serveCmd to Viper
	serveCmd.Flags().String("listen", contract.DefaultListenAddr, "Address to listen on")
	serveCmd.Flags().String("base-path", contract.DefaultBasePath, "Base path of the site when not served from localhost")
	serveCmd.Flags().String("github-url", contract.DefaultGitHubURL, "GitHub profile linked from the navigation")
	serveCmd.Flags().String("contact-email", "", "Address the contact form sends to")
	if err := viper.BindPFlags(serveCmd.Flags()); err != nil {
		contract.LogFatal("Error binding serve flags", err)
	}

	// Bind all persistent flags of themeCmd to Viper
	themeCmd.PersistentFlags().String("origin", contract.DefaultOrigin, "Site host the preference belongs to")
	if err := viper.BindPFlags(themeCmd.PersistentFlags()); err != nil {
		contract.LogFatal("Error binding theme flags", err)
	}

	// Bind all flags of runsMigrateCmd to Viper
	runsMigrateCmd.Flags().Int("target-version", -1, "Target migration version (-1 means latest, 0 means rollback to initial state)")
	if err := viper.BindPFlags(runsMigrateCmd.Flags()); err != nil {
		contract.LogFatal("Error binding runs migrate flags", err)
	}
}
