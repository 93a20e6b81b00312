package iocache

import (
	"fmt"
	"os"
	"sync"

	"github.com/huangsam/locmeta/internal/contract"
	"github.com/huangsam/locmeta/schema"
)

// Global Manager instance for main logic.
var (
	Manager   = &StoreManager{}
	initOnce  sync.Once
	closeOnce sync.Once
)

// NewKVStores opens the preference and blame stores on one backend.
func NewKVStores(backend schema.DatabaseBackend, connStr string) (prefs, blame contract.KVStore, err error) {
	if backend == schema.BoltBackend {
		stores, err := OpenBolt(connStr, prefsTable, blameTable)
		if err != nil {
			return nil, nil, err
		}
		return stores[0], stores[1], nil
	}

	prefStore, err := NewKVStore(prefsTable, backend, connStr)
	if err != nil {
		return nil, nil, err
	}
	blameStore, err := NewKVStore(blameTable, backend, connStr)
	if err != nil {
		_ = prefStore.Close()
		return nil, nil, err
	}
	return prefStore, blameStore, nil
}

// InitStores initializes the global manager with the key/value stores and the run store.
// cacheBackend can be empty to disable key/value storage.
// runsBackend can be empty to disable run tracking.
func InitStores(cacheBackend schema.DatabaseBackend, cacheConnStr string, runsBackend schema.DatabaseBackend, runsConnStr string) error {
	var initErr error

	initOnce.Do(func() {
		var prefs, blame contract.KVStore
		if cacheBackend != "" {
			var err error
			prefs, blame, err = NewKVStores(cacheBackend, cacheConnStr)
			if err != nil {
				initErr = fmt.Errorf("failed to initialize cache storage: %w", err)
				return
			}
		}

		var runs contract.RunStore
		if runsBackend != "" {
			store, err := NewRunStore(runsBackend, runsConnStr)
			if err != nil {
				closeAll(prefs, blame)
				initErr = fmt.Errorf("failed to initialize run store: %w", err)
				return
			}
			runs = store
		}

		Manager.Lock()
		defer Manager.Unlock()
		Manager.prefs = prefs
		Manager.blame = blame
		Manager.runs = runs
	})

	return initErr
}

// CloseStores should be called on application shutdown.
func CloseStores() {
	closeOnce.Do(func() {
		Manager.Lock()
		defer Manager.Unlock()
		closeAll(Manager.prefs, Manager.blame)
		if Manager.runs != nil {
			_ = Manager.runs.Close()
		}
	})
}

func closeAll(stores ...contract.KVStore) {
	for _, s := range stores {
		if s != nil {
			_ = s.Close()
		}
	}
}

// removeFile deletes path, ignoring a missing file.
func removeFile(path string) error {
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove %s: %w", path, err)
	}
	return nil
}

// ClearCache clears the preference and blame data for the specified backend.
// For SQLite and bolt, it deletes the file.
// For SQL backends (MySQL/PostgreSQL), it drops the tables.
// For NoneBackend, it does nothing.
func ClearCache(backend schema.DatabaseBackend, connStr string) error {
	switch backend {
	case schema.SQLiteBackend:
		if connStr == "" {
			connStr = contract.GetCacheDBFilePath()
		}
		return removeFile(connStr)
	case schema.BoltBackend:
		if connStr == "" {
			connStr = contract.GetBoltFilePath()
		}
		return removeFile(connStr)
	case schema.MySQLBackend, schema.PostgreSQLBackend:
		for _, table := range []string{prefsTable, blameTable} {
			if err := clearSQLTable(backend, connStr, table); err != nil {
				return err
			}
		}
		return nil
	case schema.NoneBackend:
		return nil
	default:
		return fmt.Errorf("unsupported cache backend for clearing: %s", backend)
	}
}

// ClearRuns clears the run history for the specified backend.
func ClearRuns(backend schema.DatabaseBackend, connStr string) error {
	switch backend {
	case schema.SQLiteBackend:
		if connStr == "" {
			connStr = contract.GetRunsDBFilePath()
		}
		return removeFile(connStr)
	case schema.MySQLBackend, schema.PostgreSQLBackend:
		for _, table := range []string{runCommitsTable, runsTable, "schema_migrations"} {
			if err := clearSQLTable(backend, connStr, table); err != nil {
				return err
			}
		}
		return nil
	case schema.NoneBackend:
		return nil
	default:
		return fmt.Errorf("unsupported runs backend for clearing: %s", backend)
	}
}
