// Package contract provides interfaces and shared utilities for internal architecture.
package contract

import (
	"context"
	"time"

	"github.com/huangsam/locmeta/schema"
)

// GitClient defines the Git operations needed to build a line log.
// This allows the generator to be tested without needing a real git executable.
type GitClient interface {
	// Run executes a git command and returns the combined output.
	// Its use should be minimized in favor of the explicit methods below.
	Run(ctx context.Context, repoPath string, args ...string) ([]byte, error)

	// GetRepoHash returns the current HEAD commit hash of the repository.
	GetRepoHash(ctx context.Context, repoPath string) (string, error)

	// GetRepoRoot returns the absolute path to the root of the Git repository
	// containing the given context path.
	GetRepoRoot(ctx context.Context, contextPath string) (string, error)

	// GetRemoteURL returns the fetch URL of the origin remote, or "" when unset.
	GetRemoteURL(ctx context.Context, repoPath string) (string, error)

	// ListFiles returns all tracked files at HEAD.
	ListFiles(ctx context.Context, repoPath string) ([]string, error)

	// Blame returns the line-porcelain blame output for a file at HEAD.
	Blame(ctx context.Context, repoPath string, path string) ([]byte, error)
}

// StoreManager defines the interface for managing the persistent stores.
// This allows the storage layer to be mocked for testing.
type StoreManager interface {
	GetPrefStore() KVStore
	GetBlameStore() KVStore
	GetRunStore() RunStore
}

// KVStore defines the interface for versioned key/value storage.
// This allows mocking the store for testing.
type KVStore interface {
	Get(key string) ([]byte, int, int64, error)
	Set(key string, value []byte, version int, timestamp int64) error
	Delete(key string) error
	GetStatus() (schema.PrefStatus, error)
	Close() error
}

// RunStore defines the interface for tracking command runs over a loc.csv.
type RunStore interface {
	// BeginRun creates a new run and returns its unique ID
	BeginRun(startTime time.Time, dataFile string) (int64, error)

	// EndRun updates the run with completion data
	EndRun(runID int64, endTime time.Time, totalLines, totalCommits, totalFiles int) error

	// RecordCommits stores the commit summaries seen by a run
	RecordCommits(runID int64, commits []schema.Commit) error

	// GetStatus returns status information about the run store
	GetStatus() (schema.RunStatus, error)

	// GetAllRuns returns every recorded run ordered by ID
	GetAllRuns() ([]schema.RunRecord, error)

	// GetAllRunCommits returns every recorded commit row ordered by run and commit
	GetAllRunCommits() ([]schema.RunCommitRecord, error)

	// Close closes the underlying connection
	Close() error
}
