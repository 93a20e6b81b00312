package iocache

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/huangsam/locmeta/internal/contract"
	"github.com/huangsam/locmeta/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// resetManager lets each test run InitStores from scratch.
func resetManager(t *testing.T) {
	t.Helper()
	t.Setenv("HOME", t.TempDir())
	initOnce = sync.Once{}
	closeOnce = sync.Once{}
	Manager = &StoreManager{}
}

func TestInitStores(t *testing.T) {
	t.Run("sqlite defaults", func(t *testing.T) {
		resetManager(t)
		require.NoError(t, InitStores(schema.SQLiteBackend, "", schema.SQLiteBackend, ""))
		assert.NotNil(t, Manager.GetPrefStore())
		assert.NotNil(t, Manager.GetBlameStore())
		assert.NotNil(t, Manager.GetRunStore())
		CloseStores()

		_, err := os.Stat(contract.GetCacheDBFilePath())
		assert.NoError(t, err)
		_, err = os.Stat(contract.GetRunsDBFilePath())
		assert.NoError(t, err)
	})

	t.Run("idempotent", func(t *testing.T) {
		resetManager(t)
		require.NoError(t, InitStores(schema.BoltBackend, "", "", ""))
		prefs := Manager.GetPrefStore()
		require.NoError(t, InitStores(schema.SQLiteBackend, "", "", ""))
		assert.Same(t, prefs, Manager.GetPrefStore())
		assert.Nil(t, Manager.GetRunStore())
		CloseStores()
		CloseStores()
	})

	t.Run("concurrent", func(t *testing.T) {
		resetManager(t)
		var wg sync.WaitGroup
		for range 8 {
			wg.Add(1)
			go func() {
				defer wg.Done()
				assert.NoError(t, InitStores(schema.NoneBackend, "", schema.NoneBackend, ""))
			}()
		}
		wg.Wait()
		CloseStores()
	})
}

func TestClearCache(t *testing.T) {
	dir := t.TempDir()
	dbPath := filepath.Join(dir, "cache.db")
	require.NoError(t, os.WriteFile(dbPath, []byte("x"), 0o600))

	require.NoError(t, ClearCache(schema.SQLiteBackend, dbPath))
	_, err := os.Stat(dbPath)
	assert.True(t, os.IsNotExist(err))

	// Clearing a missing file is fine
	assert.NoError(t, ClearCache(schema.BoltBackend, filepath.Join(dir, "absent.bolt")))
	assert.NoError(t, ClearCache(schema.NoneBackend, ""))
	assert.Error(t, ClearCache("redis", ""))
}

func TestClearRuns(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "runs.db")
	store, err := NewRunStore(schema.SQLiteBackend, dbPath)
	require.NoError(t, err)
	require.NoError(t, store.Close())

	require.NoError(t, ClearRuns(schema.SQLiteBackend, dbPath))
	_, err = os.Stat(dbPath)
	assert.True(t, os.IsNotExist(err))
	assert.Error(t, ClearRuns(schema.BoltBackend, ""))
}

func TestPrintStatus(t *testing.T) {
	var buf bytes.Buffer
	PrintPrefStatus(&buf, "Cache", schema.PrefStatus{Backend: "sqlite", Connected: true, TotalEntries: 1200, LastEntryTime: time.Now(), OldestEntryTime: time.Now(), TableSizeBytes: 2048})
	out := buf.String()
	assert.Contains(t, out, "Cache Backend: sqlite")
	assert.Contains(t, out, "Total Entries: 1,200")
	assert.Contains(t, out, "Table Size: 2.0 kB")

	buf.Reset()
	PrintRunStatus(&buf, schema.RunStatus{Backend: "none"})
	assert.Contains(t, buf.String(), "Connected: false")
	assert.NotContains(t, buf.String(), "Table Sizes")

	buf.Reset()
	PrintRunStatus(&buf, schema.RunStatus{
		Backend: "sqlite", Connected: true, TotalRuns: 2, LastRunID: 2, TotalCommits: 5,
		TableSizes: map[string]int64{runsTable: 2, runCommitsTable: 5},
	})
	out = buf.String()
	assert.Contains(t, out, "Last Run ID: 2")
	assert.Less(t, bytes.Index(buf.Bytes(), []byte(runCommitsTable)), bytes.Index(buf.Bytes(), []byte(runsTable+":")))
}

func TestExecuteRunsExport(t *testing.T) {
	t.Run("requires output file", func(t *testing.T) {
		err := ExecuteRunsExport(&bytes.Buffer{}, &MockRunStore{}, "")
		assert.Error(t, err)
	})

	t.Run("no runs", func(t *testing.T) {
		store := &MockRunStore{}
		store.On("GetStatus").Return(schema.RunStatus{Backend: "sqlite", Connected: true}, nil)
		err := ExecuteRunsExport(&bytes.Buffer{}, store, filepath.Join(t.TempDir(), "out"))
		assert.ErrorContains(t, err, "no run data")
	})

	t.Run("status error", func(t *testing.T) {
		store := &MockRunStore{}
		store.On("GetStatus").Return(schema.RunStatus{}, errors.New("boom"))
		assert.Error(t, ExecuteRunsExport(&bytes.Buffer{}, store, "out"))
	})

	t.Run("writes both files", func(t *testing.T) {
		store := &MockRunStore{}
		store.On("GetStatus").Return(schema.RunStatus{Backend: "sqlite", Connected: true, TotalRuns: 1}, nil)
		store.On("GetAllRuns").Return([]schema.RunRecord{{RunID: 1, StartTime: time.Now(), DataFile: "loc.csv"}}, nil)
		store.On("GetAllRunCommits").Return([]schema.RunCommitRecord{{RunID: 1, CommitID: "a1", Datetime: time.Now()}}, nil)

		out := filepath.Join(t.TempDir(), "export")
		var buf bytes.Buffer
		require.NoError(t, ExecuteRunsExport(&buf, store, out))
		for _, suffix := range []string{".runs.parquet", ".run_commits.parquet"} {
			_, err := os.Stat(out + suffix)
			assert.NoError(t, err)
		}
		assert.Contains(t, buf.String(), "Exported 1 runs")
		store.AssertExpectations(t)
	})
}
