package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/huangsam/locmeta/internal/contract"
	"github.com/huangsam/locmeta/internal/iocache"
	"github.com/huangsam/locmeta/schema"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// prefSetup loads minimal configuration needed for preference and blame cache operations.
// This is used by commands that need cache access without full shared setup.
func prefSetup() error {
	if err := loadConfigFile(); err != nil {
		return err
	}

	backend := schema.DatabaseBackend(strings.ToLower(viper.GetString("cache-backend")))
	if _, ok := schema.ValidPrefBackends[backend]; !ok {
		return fmt.Errorf("invalid cache backend '%s'. must be sqlite, mysql, postgresql, bolt, none", backend)
	}
	connStr := viper.GetString("cache-db-connect")
	if err := contract.ValidateDatabaseConnectionString(backend, connStr); err != nil {
		return err
	}

	// No run tracking for cache commands
	if err := iocache.InitStores(backend, connStr, "", ""); err != nil {
		return fmt.Errorf("failed to initialize cache: %w", err)
	}

	cfg.CacheBackend = backend
	cfg.CacheDBConnect = connStr
	cfg.Origin = strings.ToLower(strings.TrimSpace(viper.GetString("origin")))
	if cfg.Origin == "" {
		cfg.Origin = contract.DefaultOrigin
	}
	return nil
}

// prefSetupWrapper wraps prefSetup to provide PreRunE for cache and theme commands.
func prefSetupWrapper(_ *cobra.Command, _ []string) error {
	return prefSetup()
}

// cacheCmd focused on cache management.
//
// Note: Cache subcommands use minimal initialization (prefSetup) instead of
// the full sharedSetup used by data commands. This avoids loading loc.csv
// and complex config processing for simple cache operations.
var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Manage the preference and blame cache",
	Long: `Manage the store holding color scheme preferences and cached git blame output.

Supported backends: SQLite (default), MySQL, PostgreSQL, bolt, or None (disabled)

Subcommands:
  status - Show cache statistics and connection info
  clear  - Remove all cached data

Examples:
  # Check cache status
  locmeta cache status

  # Clear the cache after rewriting repository history
  locmeta cache clear`,
}

// cacheClearCmd clears the cache.
var cacheClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove all preferences and cached blame output",
	Long: `Delete all preferences and cached blame output from the configured backend.

For SQLite and bolt: Deletes the database file
For MySQL/PostgreSQL: Drops the cache tables

Examples:
  locmeta cache clear

  # Clear a MySQL cache (set connection string via env variable)
  LOCMETA_CACHE_BACKEND=mysql LOCMETA_CACHE_DB_CONNECT="..." locmeta cache clear`,
	PreRunE: prefSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		// Release open handles before removing the files underneath them
		iocache.CloseStores()
		if err := iocache.ClearCache(cfg.CacheBackend, cfg.CacheDBConnect); err != nil {
			contract.LogFatal("Failed to clear cache", err)
		}
		fmt.Println("Cache cleared successfully.")
	},
}

// cacheStatusCmd shows cache status.
var cacheStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Display cache statistics and connection details",
	Long: `Show the backend, entry counts, entry times and size of the
preference and blame stores.

Examples:
  locmeta cache status`,
	PreRunE: prefSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		printPrefStatus("Preferences", storeManager.GetPrefStore())
		printPrefStatus("Blame cache", storeManager.GetBlameStore())
	},
}

func printPrefStatus(label string, store contract.KVStore) {
	status := schema.PrefStatus{Backend: string(cfg.CacheBackend)}
	if store != nil {
		var err error
		if status, err = store.GetStatus(); err != nil {
			contract.LogFatal("Failed to get cache status", err)
		}
	}
	iocache.PrintPrefStatus(os.Stdout, label, status)
}
