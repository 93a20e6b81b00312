package contract

import (
	"context"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"
	"time"

	"github.com/huangsam/locmeta/schema"
)

// Default values for configuration.
const (
	DefaultDataFile     = "loc.csv"
	DefaultProjectsFile = "projects.json"
	DefaultResultLimit  = 25
	MaxResultLimit      = 1000
	DefaultPrecision    = 1
	DefaultListenAddr   = "127.0.0.1:8080"
	DefaultBasePath     = "/portfolio/"
	DefaultGitHubURL    = "https://github.com/"
	DefaultOrigin       = "localhost"
)

// DefaultWorkers is the default number of concurrent workers to use.
var DefaultWorkers = runtime.GOMAXPROCS(0)

// DateTimeFormat is the default date time representation.
var DateTimeFormat = time.RFC3339

// ProfileConfig holds profiling settings.
type ProfileConfig struct {
	Enabled bool
	Prefix  string
}

// Config holds the runtime configuration for a command.
// This struct remains the "final, validated" config.
type Config struct {
	DataFile     string
	ProjectsFile string
	RepoPath     string
	PathFilter   string
	RepoURL      string

	Location    *time.Location // nil keeps each timestamp's own offset
	Cutoff      time.Time      // zero means no cutoff
	Progress    float64
	HasProgress bool
	Selection   *schema.Selection
	Step        int
	StoryView   schema.StoryView

	ResultLimit int
	Workers     int
	Excludes    []string
	Precision   int
	Output      schema.OutputMode
	OutputFile  string
	Width       int // Terminal width override (0 = auto-detect)

	ListenAddr   string
	BasePath     string
	GitHubURL    string
	ContactEmail string
	Pages        []schema.NavPage
	Origin       string

	CacheBackend   schema.DatabaseBackend
	CacheDBConnect string // Please use env var as this is plaintext

	RunsBackend   schema.DatabaseBackend
	RunsDBConnect string // Please use env var as this is plaintext

	UseColors bool // Enable colored labels in table output
}

// ConfigRawInput holds the raw inputs from all sources (flags, env, config file).
// Viper unmarshals into this struct.
type ConfigRawInput struct {
	// This is set manually from positional args of the generate command, so no tag
	RepoPathStr string

	// --- Fields from rootCmd.PersistentFlags() ---
	Data           string `mapstructure:"data"`
	Filter         string `mapstructure:"filter"`
	OutputFile     string `mapstructure:"output-file"`
	Limit          int    `mapstructure:"limit"`
	Workers        int    `mapstructure:"workers"`
	Exclude        string `mapstructure:"exclude"`
	Precision      int    `mapstructure:"precision"`
	Output         string `mapstructure:"output"`
	Width          int    `mapstructure:"width"`
	TZ             string `mapstructure:"tz"`
	RepoURL        string `mapstructure:"repo-url"`
	CacheBackend   string `mapstructure:"cache-backend"`
	CacheDBConnect string `mapstructure:"cache-db-connect"`
	RunsBackend    string `mapstructure:"runs-backend"`
	RunsDBConnect  string `mapstructure:"runs-db-connect"`
	Color          string `mapstructure:"color"`

	// --- Fields from the timeline commands ---
	Cutoff   string `mapstructure:"cutoff"`
	Progress string `mapstructure:"progress"`
	Brush    string `mapstructure:"brush"`
	Step     int    `mapstructure:"step"`
	View     string `mapstructure:"view"`

	// --- Fields from projects and plot ---
	Projects string `mapstructure:"projects"`

	// --- Fields from serve and theme ---
	Listen       string `mapstructure:"listen"`
	BasePath     string `mapstructure:"base-path"`
	GitHubURL    string `mapstructure:"github-url"`
	ContactEmail string `mapstructure:"contact-email"`
	Origin       string `mapstructure:"origin"`

	// --- Navigation pages from config file ---
	Pages []schema.NavPage `mapstructure:"pages"`
}

// Clone returns a deep copy of the Config struct.
func (c *Config) Clone() *Config {
	clone := *c
	if c.Excludes != nil {
		clone.Excludes = make([]string, len(c.Excludes))
		copy(clone.Excludes, c.Excludes)
	}
	if c.Pages != nil {
		clone.Pages = make([]schema.NavPage, len(c.Pages))
		copy(clone.Pages, c.Pages)
	}
	if c.Selection != nil {
		sel := *c.Selection
		clone.Selection = &sel
	}
	return &clone
}

// ProcessAndValidate performs all complex parsing and validation on the raw inputs
// and updates the final Config struct.
func ProcessAndValidate(ctx context.Context, cfg *Config, client GitClient, input *ConfigRawInput) error {
	if err := validateSimpleInputs(cfg, input); err != nil {
		return err
	}
	if err := processTimeline(cfg, input, time.Now()); err != nil {
		return err
	}
	if err := processBrush(cfg, input); err != nil {
		return err
	}
	if err := processSite(cfg, input); err != nil {
		return err
	}
	if input.RepoPathStr != "" {
		if err := resolveGitPathAndFilter(ctx, cfg, client, input); err != nil {
			return err
		}
	}
	return nil
}

// ValidateDatabaseConnectionString validates the format of database connection strings
// for MySQL and PostgreSQL backends.
func ValidateDatabaseConnectionString(backend schema.DatabaseBackend, connStr string) error {
	switch backend {
	case schema.SQLiteBackend, schema.BoltBackend, schema.NoneBackend:
		return nil
	case schema.MySQLBackend:
		if connStr == "" {
			return fmt.Errorf("a connection string is required when using %s backend", backend)
		}
		if !strings.Contains(connStr, "@tcp(") {
			return fmt.Errorf("MySQL connection string must contain '@tcp(' for host:port specification")
		}
		if !strings.Contains(connStr, "/") {
			return fmt.Errorf("MySQL connection string must contain '/' followed by database name")
		}
	case schema.PostgreSQLBackend:
		if connStr == "" {
			return fmt.Errorf("a connection string is required when using %s backend", backend)
		}
		if !strings.Contains(connStr, "host=") {
			return fmt.Errorf("PostgreSQL connection string must contain 'host=' parameter")
		}
		if !strings.Contains(connStr, "dbname=") {
			return fmt.Errorf("PostgreSQL connection string must contain 'dbname=' parameter")
		}
	}
	return nil
}

// validateBackendConfigs validates cache and run history backend configurations.
func validateBackendConfigs(cfg *Config, input *ConfigRawInput) error {
	// --- Cache Backend Validation ---
	cfg.CacheBackend = schema.DatabaseBackend(strings.ToLower(input.CacheBackend))
	if _, ok := schema.ValidPrefBackends[cfg.CacheBackend]; !ok {
		return fmt.Errorf("invalid cache backend '%s'. must be sqlite, mysql, postgresql, bolt, none", input.CacheBackend)
	}
	cfg.CacheDBConnect = input.CacheDBConnect
	if err := ValidateDatabaseConnectionString(cfg.CacheBackend, cfg.CacheDBConnect); err != nil {
		return err
	}

	// --- Runs Backend Validation ---
	cfg.RunsBackend = schema.DatabaseBackend(strings.ToLower(input.RunsBackend))
	if cfg.RunsBackend == "" {
		return nil
	}
	if _, ok := schema.ValidDatabaseBackends[cfg.RunsBackend]; !ok {
		return fmt.Errorf("invalid runs backend '%s'. must be sqlite, mysql, postgresql, none", input.RunsBackend)
	}
	cfg.RunsDBConnect = input.RunsDBConnect
	if err := ValidateDatabaseConnectionString(cfg.RunsBackend, cfg.RunsDBConnect); err != nil {
		return err
	}

	// Cache and runs must not share a SQLite file
	if cfg.CacheBackend == schema.SQLiteBackend && cfg.RunsBackend == schema.SQLiteBackend {
		cacheDBPath := cfg.CacheDBConnect
		if cacheDBPath == "" {
			cacheDBPath = GetCacheDBFilePath()
		}
		runsDBPath := cfg.RunsDBConnect
		if runsDBPath == "" {
			runsDBPath = GetRunsDBFilePath()
		}
		if cacheDBPath == runsDBPath {
			return fmt.Errorf("cache and run storage must use different SQLite database files. Both resolve to %q", cacheDBPath)
		}
	}
	return nil
}

// validateSimpleInputs processes and validates all non-path related fields.
func validateSimpleInputs(cfg *Config, input *ConfigRawInput) error {
	// --- 0. Transfer simple non-validated fields from input -> cfg ---
	cfg.DataFile = input.Data
	if cfg.DataFile == "" {
		cfg.DataFile = DefaultDataFile
	}
	cfg.ProjectsFile = input.Projects
	if cfg.ProjectsFile == "" {
		cfg.ProjectsFile = DefaultProjectsFile
	}
	cfg.PathFilter = input.Filter
	cfg.OutputFile = input.OutputFile
	cfg.Width = input.Width
	cfg.RepoURL = strings.TrimSpace(input.RepoURL)

	colors, err := ParseBoolString(input.Color)
	if err != nil {
		return fmt.Errorf("invalid --color value: %w", err)
	}
	cfg.UseColors = colors

	// --- 1. ResultLimit Validation ---
	if input.Limit <= 0 || input.Limit > MaxResultLimit {
		return fmt.Errorf("limit must be greater than 0 and cannot exceed %d (received %d)", MaxResultLimit, input.Limit)
	}
	cfg.ResultLimit = input.Limit

	// --- 2. Workers Validation ---
	if input.Workers <= 0 {
		return fmt.Errorf("workers must be greater than 0 (received %d)", input.Workers)
	}
	cfg.Workers = input.Workers

	// --- 3. Precision and Output Validation ---
	if input.Precision < 1 || input.Precision > 2 {
		return fmt.Errorf("precision must be 1 or 2 (received %d)", input.Precision)
	}
	cfg.Precision = input.Precision

	cfg.Output = schema.OutputMode(strings.ToLower(input.Output))
	if _, ok := schema.ValidOutputModes[cfg.Output]; !ok {
		return fmt.Errorf("invalid output format '%s'. must be text, csv, json, parquet, html", cfg.Output)
	}

	// --- 4. Timezone Validation ---
	switch tz := strings.TrimSpace(input.TZ); tz {
	case "":
		cfg.Location = nil
	case "Local", "local":
		cfg.Location = time.Local
	default:
		loc, err := time.LoadLocation(tz)
		if err != nil {
			return fmt.Errorf("invalid --tz value %q: %w", tz, err)
		}
		cfg.Location = loc
	}

	// --- 5. Backend Validation ---
	if err := validateBackendConfigs(cfg, input); err != nil {
		return err
	}

	// --- 6. Excludes Processing ---
	defaults := []string{
		"Cargo.lock", "go.sum", "package-lock.json", "yarn.lock", "pnpm-lock.yaml", "composer.lock", "uv.lock",
		".min.js", ".min.css",
		".jpg", ".jpeg", ".png", ".gif", ".svg", ".ico", ".mp4", ".mov", ".webm", ".mp3", ".ogg", ".pdf", ".webp",
		".csv", "LICENSE",
		".DS_Store", ".gitignore",
		"node_modules/", "dist/", "build/", "out/", "target/", "bin/",
	}
	cfg.Excludes = defaults // Set defaults first

	if input.Exclude != "" {
		for p := range strings.SplitSeq(input.Exclude, ",") {
			trimmedP := strings.TrimSpace(p)
			if trimmedP != "" {
				cfg.Excludes = append(cfg.Excludes, trimmedP)
			}
		}
	}

	return nil
}

// processTimeline handles the cutoff, slider and narrative inputs.
func processTimeline(cfg *Config, input *ConfigRawInput, now time.Time) error {
	if err := processCutoff(cfg, input.Cutoff, input.Progress, now); err != nil {
		return err
	}

	if input.Step < 0 {
		return fmt.Errorf("step must not be negative (received %d)", input.Step)
	}
	cfg.Step = input.Step

	cfg.StoryView = schema.StoryView(strings.ToLower(input.View))
	switch cfg.StoryView {
	case "":
		cfg.StoryView = schema.ScatterView
	case schema.ScatterView, schema.FilesView:
	default:
		return fmt.Errorf("invalid view '%s'. must be scatter, files", input.View)
	}
	return nil
}

// RevalidateTimeline re-applies cutoff and progress inputs to an already
// validated config, e.g. for a single MCP tool call.
func RevalidateTimeline(cfg *Config, cutoff, progress string) error {
	return processCutoff(cfg, cutoff, progress, time.Now())
}

func processCutoff(cfg *Config, cutoff, progress string, now time.Time) error {
	cfg.Cutoff = time.Time{}
	cfg.HasProgress = false
	cfg.Progress = 0

	cutoff = strings.TrimSpace(cutoff)
	progress = strings.TrimSpace(progress)
	if cutoff != "" && progress != "" {
		return fmt.Errorf("--cutoff and --progress cannot be combined")
	}

	if cutoff != "" {
		t, err := ParseCutoff(cutoff, now, cfg.Location)
		if err != nil {
			return fmt.Errorf("invalid --cutoff value: %w", err)
		}
		cfg.Cutoff = t
	}

	if progress != "" {
		p, err := ParseProgress(progress)
		if err != nil {
			return err
		}
		cfg.Progress = p
		cfg.HasProgress = true
	}
	return nil
}

// ParseProgress parses a slider position. It must be a finite number in
// [0, 100].
func ParseProgress(s string) (float64, error) {
	p, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, fmt.Errorf("invalid --progress value %q: %w", s, err)
	}
	if math.IsNaN(p) || p < 0 || p > 100 {
		return 0, fmt.Errorf("progress must be between 0 and 100 (received %g)", p)
	}
	return p, nil
}

// processBrush parses the brush rectangle "x0,y0,x1,y1".
func processBrush(cfg *Config, input *ConfigRawInput) error {
	sel, err := ParseBrush(input.Brush)
	if err != nil {
		return err
	}
	cfg.Selection = sel
	return nil
}

// ParseBrush parses "x0,y0,x1,y1" into a selection. An empty string means
// no selection.
func ParseBrush(s string) (*schema.Selection, error) {
	if strings.TrimSpace(s) == "" {
		return nil, nil
	}
	parts := strings.Split(s, ",")
	if len(parts) != 4 {
		return nil, fmt.Errorf("brush must have four comma-separated numbers x0,y0,x1,y1 (received %q)", s)
	}
	var v [4]float64
	for i, p := range parts {
		f, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return nil, fmt.Errorf("invalid brush coordinate %q: %w", p, err)
		}
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return nil, fmt.Errorf("brush coordinate %q must be finite", strings.TrimSpace(p))
		}
		v[i] = f
	}
	return schema.NewSelection(v[0], v[1], v[2], v[3]), nil
}

// processSite handles the server and navigation settings.
func processSite(cfg *Config, input *ConfigRawInput) error {
	cfg.ListenAddr = input.Listen
	if cfg.ListenAddr == "" {
		cfg.ListenAddr = DefaultListenAddr
	}

	cfg.BasePath = input.BasePath
	if cfg.BasePath == "" {
		cfg.BasePath = DefaultBasePath
	}
	if !strings.HasPrefix(cfg.BasePath, "/") || !strings.HasSuffix(cfg.BasePath, "/") {
		return fmt.Errorf("base path must start and end with '/' (received %q)", input.BasePath)
	}

	cfg.GitHubURL = input.GitHubURL
	if cfg.GitHubURL == "" {
		cfg.GitHubURL = DefaultGitHubURL
	}
	cfg.ContactEmail = input.ContactEmail

	cfg.Origin = strings.ToLower(strings.TrimSpace(input.Origin))
	if cfg.Origin == "" {
		cfg.Origin = DefaultOrigin
	}

	cfg.Pages = nil
	for _, p := range input.Pages {
		if p.Title == "" {
			return fmt.Errorf("navigation page %q must have a title", p.URL)
		}
		cfg.Pages = append(cfg.Pages, p)
	}
	return nil
}

// ProcessProfilingConfig handles the profiling flag and sets up profiling configuration.
func ProcessProfilingConfig(profile *ProfileConfig, profilePrefix string) error {
	if profilePrefix != "" {
		profile.Enabled = true
		profile.Prefix = profilePrefix
	}
	return nil
}

// resolveGitPathAndFilter resolves the Git repository path and sets the implicit path filter.
func resolveGitPathAndFilter(ctx context.Context, cfg *Config, client GitClient, input *ConfigRawInput) error {
	absSearchPath, err := filepath.Abs(input.RepoPathStr)
	if err != nil {
		return err
	}
	absSearchPath = filepath.Clean(absSearchPath)

	info, statErr := os.Stat(absSearchPath)
	gitContextPath := absSearchPath
	if statErr == nil && !info.IsDir() {
		gitContextPath = filepath.Dir(absSearchPath)
	}

	gitRoot, err := client.GetRepoRoot(ctx, gitContextPath)
	if err != nil {
		return err
	}
	cfg.RepoPath = gitRoot

	if cfg.PathFilter != "" { // User-provided --filter flag takes precedence
		return nil
	}

	if absSearchPath != gitRoot {
		relativePath, err := filepath.Rel(gitRoot, absSearchPath)
		if err != nil {
			return err
		}
		cfg.PathFilter = filepath.ToSlash(relativePath)
		if statErr == nil && info.IsDir() {
			cfg.PathFilter += "/"
		}
	}
	return nil
}
