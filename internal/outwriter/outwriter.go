// Package outwriter has output and writer logic.
package outwriter

import (
	"os"
	"time"

	"github.com/huangsam/locmeta/internal/contract"
	"github.com/huangsam/locmeta/schema"
	"golang.org/x/term"
)

// OutWriter provides a unified interface for all output operations.
// It encapsulates the various output formats and provides a clean API for the core logic.
type OutWriter struct{}

// NewOutWriter creates a new instance of the output writer.
func NewOutWriter() *OutWriter {
	return &OutWriter{}
}

// WriteStats prints summary statistics using the configured output format.
func (ow *OutWriter) WriteStats(result schema.StatsResult, cfg *contract.Config, duration time.Duration) error {
	return PrintStatsResults(result, cfg, duration)
}

// WriteCommits prints aggregated commits using the configured output format.
func (ow *OutWriter) WriteCommits(result schema.CommitsResult, cfg *contract.Config, duration time.Duration) error {
	return PrintCommitsResults(result, cfg, duration)
}

// WriteSelection prints a brush query using the configured output format.
func (ow *OutWriter) WriteSelection(result schema.SelectionResult, cfg *contract.Config, duration time.Duration) error {
	return PrintSelectionResults(result, cfg, duration)
}

// WriteFiles prints the file breakdown using the configured output format.
func (ow *OutWriter) WriteFiles(result schema.FilesResult, cfg *contract.Config, duration time.Duration) error {
	return PrintFilesResults(result, cfg, duration)
}

// WriteStory prints one narrative step using the configured output format.
func (ow *OutWriter) WriteStory(result schema.StoryResult, cfg *contract.Config, duration time.Duration) error {
	return PrintStoryResults(result, cfg, duration)
}

// WriteProjects prints the projects summary using the configured output format.
func (ow *OutWriter) WriteProjects(result schema.ProjectsResult, cfg *contract.Config, duration time.Duration) error {
	return PrintProjectsResults(result, cfg, duration)
}

// GetMaxTablePathWidth calculates the maximum width for file paths in table output
// based on terminal width and table configuration.
func GetMaxTablePathWidth(cfg *contract.Config) int {
	var termWidth int

	// Check for absolute width override from flag/env
	if cfg.Width > 0 {
		termWidth = cfg.Width
	}

	if termWidth == 0 { // Not set by override
		detectedWidth, _, err := term.GetSize(int(os.Stdout.Fd()))
		if err != nil || detectedWidth <= 0 {
			// Conservative default for narrow terminals and CI
			termWidth = 80
		} else {
			termWidth = detectedWidth
		}
	}

	// Rank + Lines + Types columns with borders/padding
	baseWidth := 50

	available := termWidth - baseWidth
	if available < 15 {
		return 15
	}
	if available > 70 {
		return 70
	}
	return available
}
