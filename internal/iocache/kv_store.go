// Package iocache persists preferences, blame results and run history.
package iocache

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/go-sql-driver/mysql"
	"github.com/huangsam/locmeta/internal/contract"
	"github.com/huangsam/locmeta/schema"
)

// KVStoreImpl handles durable key/value storage using various SQL backends.
type KVStoreImpl struct {
	db        *sql.DB
	tableName string
	backend   schema.DatabaseBackend
	connStr   string
}

var _ contract.KVStore = &KVStoreImpl{} // Compile-time check

// NewKVStore initializes and returns a new KVStore based on the backend type.
// Bolt stores are created through OpenBolt since they share one file handle.
func NewKVStore(tableName string, backend schema.DatabaseBackend, connStr string) (*KVStoreImpl, error) {
	// Validate table name to prevent SQL injection
	if err := validateTableName(tableName); err != nil {
		return nil, err
	}

	if backend == schema.NoneBackend {
		// Return a no-op store for disabled persistence
		return &KVStoreImpl{tableName: tableName, backend: backend, connStr: connStr}, nil
	}

	db, err := openSQL(backend, connStr, contract.GetCacheDBFilePath())
	if err != nil {
		return nil, err
	}

	query := getCreateKVTableQuery(tableName, backend)
	if _, err := db.Exec(query); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create table %s: %w", tableName, err)
	}

	return &KVStoreImpl{
		db:        db,
		tableName: tableName,
		backend:   backend,
		connStr:   connStr,
	}, nil
}

// getCreateKVTableQuery returns the CREATE TABLE query for the given backend.
func getCreateKVTableQuery(tableName string, backend schema.DatabaseBackend) string {
	quotedTableName := quoteTableName(tableName, backend)
	switch backend {
	case schema.MySQLBackend:
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				kv_key VARCHAR(255) PRIMARY KEY,
				kv_value LONGBLOB NOT NULL,
				kv_version INT NOT NULL,
				kv_timestamp BIGINT NOT NULL
			);
		`, quotedTableName)

	case schema.PostgreSQLBackend:
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				kv_key TEXT PRIMARY KEY,
				kv_value BYTEA NOT NULL,
				kv_version INTEGER NOT NULL,
				kv_timestamp BIGINT NOT NULL
			);
		`, quotedTableName)

	default: // SQLite
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				kv_key TEXT PRIMARY KEY,
				kv_value BLOB NOT NULL,
				kv_version INTEGER NOT NULL,
				kv_timestamp INTEGER NOT NULL
			);
		`, quotedTableName)
	}
}

// Get retrieves a value by key from the store.
// A missing key returns sql.ErrNoRows.
func (s *KVStoreImpl) Get(key string) ([]byte, int, int64, error) {
	if s.backend == schema.NoneBackend || s.db == nil {
		return nil, 0, 0, sql.ErrNoRows
	}

	var value []byte
	var version int
	var ts int64

	query := fmt.Sprintf(`SELECT kv_value, kv_version, kv_timestamp FROM %s WHERE kv_key = %s`,
		quoteTableName(s.tableName, s.backend), placeholder(s.backend, 1))
	if err := s.db.QueryRow(query, key).Scan(&value, &version, &ts); err != nil {
		return nil, 0, 0, err
	}
	return value, version, ts, nil
}

// Set inserts or replaces a key/value pair in the store.
func (s *KVStoreImpl) Set(key string, value []byte, version int, timestamp int64) error {
	if s.backend == schema.NoneBackend || s.db == nil {
		return nil
	}
	_, err := s.db.Exec(s.getUpsertQuery(), key, value, version, timestamp)
	return err
}

// Delete removes a key. Deleting a missing key is not an error.
func (s *KVStoreImpl) Delete(key string) error {
	if s.backend == schema.NoneBackend || s.db == nil {
		return nil
	}
	query := fmt.Sprintf(`DELETE FROM %s WHERE kv_key = %s`,
		quoteTableName(s.tableName, s.backend), placeholder(s.backend, 1))
	_, err := s.db.Exec(query, key)
	return err
}

// getUpsertQuery returns the UPSERT query for the backend.
func (s *KVStoreImpl) getUpsertQuery() string {
	quotedTableName := quoteTableName(s.tableName, s.backend)
	switch s.backend {
	case schema.MySQLBackend:
		return fmt.Sprintf(`INSERT INTO %s (kv_key, kv_value, kv_version, kv_timestamp) VALUES (?, ?, ?, ?) AS new
			ON DUPLICATE KEY UPDATE kv_value = new.kv_value, kv_version = new.kv_version, kv_timestamp = new.kv_timestamp`, quotedTableName)

	case schema.PostgreSQLBackend:
		return fmt.Sprintf(`INSERT INTO %s (kv_key, kv_value, kv_version, kv_timestamp) VALUES ($1, $2, $3, $4)
			ON CONFLICT (kv_key) DO UPDATE SET kv_value = EXCLUDED.kv_value, kv_version = EXCLUDED.kv_version, kv_timestamp = EXCLUDED.kv_timestamp`, quotedTableName)

	default: // SQLite
		return fmt.Sprintf(`INSERT OR REPLACE INTO %s (kv_key, kv_value, kv_version, kv_timestamp) VALUES (?, ?, ?, ?)`, quotedTableName)
	}
}

// Close closes the underlying DB connection.
func (s *KVStoreImpl) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// GetStatus returns status information about the store.
func (s *KVStoreImpl) GetStatus() (schema.PrefStatus, error) {
	status := schema.PrefStatus{
		Backend:   string(s.backend),
		Connected: s.db != nil,
	}
	if s.backend == schema.NoneBackend || s.db == nil {
		return status, nil
	}

	quotedTableName := quoteTableName(s.tableName, s.backend)

	countQuery := fmt.Sprintf("SELECT COUNT(*) FROM %s", quotedTableName)
	if err := s.db.QueryRow(countQuery).Scan(&status.TotalEntries); err != nil {
		return status, fmt.Errorf("failed to get total entries: %w", err)
	}
	if status.TotalEntries == 0 {
		return status, nil
	}

	var lastTs, oldestTs int64
	rangeQuery := fmt.Sprintf("SELECT MAX(kv_timestamp), MIN(kv_timestamp) FROM %s", quotedTableName)
	if err := s.db.QueryRow(rangeQuery).Scan(&lastTs, &oldestTs); err != nil {
		return status, fmt.Errorf("failed to get entry times: %w", err)
	}
	status.LastEntryTime = time.Unix(lastTs, 0)
	status.OldestEntryTime = time.Unix(oldestTs, 0)

	// Fallback rough estimate when a backend-specific size query fails
	estimate := int64(status.TotalEntries) * 1000
	switch s.backend {
	case schema.SQLiteBackend:
		sizeQuery := "SELECT page_count * page_size FROM pragma_page_count(), pragma_page_size()"
		if err := s.db.QueryRow(sizeQuery).Scan(&status.TableSizeBytes); err != nil {
			status.TableSizeBytes = 0
		}
	case schema.MySQLBackend:
		status.TableSizeBytes = estimate
		cfg, err := mysql.ParseDSN(s.connStr)
		if err != nil || cfg.DBName == "" {
			break
		}
		sizeQuery := "SELECT data_length + index_length FROM information_schema.tables WHERE table_schema = ? AND table_name = ?"
		if err := s.db.QueryRow(sizeQuery, cfg.DBName, s.tableName).Scan(&status.TableSizeBytes); err != nil {
			status.TableSizeBytes = estimate
		}
	case schema.PostgreSQLBackend:
		if err := s.db.QueryRow("SELECT pg_total_relation_size($1)", s.tableName).Scan(&status.TableSizeBytes); err != nil {
			status.TableSizeBytes = estimate
		}
	default:
		status.TableSizeBytes = estimate
	}

	return status, nil
}
