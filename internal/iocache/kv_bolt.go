package iocache

import (
	"database/sql"
	"encoding/binary"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/huangsam/locmeta/internal/contract"
	"github.com/huangsam/locmeta/schema"
	bolt "go.etcd.io/bbolt"
)

// boltHeaderSize is the version (uint32) plus timestamp (int64) prefix of every value.
const boltHeaderSize = 12

// boltFile is a bbolt database shared by every bucket store opened on it.
type boltFile struct {
	mu   sync.Mutex
	db   *bolt.DB
	refs int
}

// BoltStore is a KVStore backed by one bucket of a bbolt file.
type BoltStore struct {
	file   *boltFile
	bucket []byte
	closed bool
}

var _ contract.KVStore = &BoltStore{} // Compile-time check

// OpenBolt opens path once and returns one store per bucket. Every store
// must be closed; the file is released when the last one is.
func OpenBolt(path string, buckets ...string) ([]*BoltStore, error) {
	if path == "" {
		path = contract.GetBoltFilePath()
	}
	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: 2 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("failed to open bolt file %q: %w. Check that no other locmeta process holds it", path, err)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		for _, name := range buckets {
			if _, err := tx.CreateBucketIfNotExists([]byte(name)); err != nil {
				return fmt.Errorf("failed to create bucket %s: %w", name, err)
			}
		}
		return nil
	})
	if err != nil {
		_ = db.Close()
		return nil, err
	}

	file := &boltFile{db: db, refs: len(buckets)}
	stores := make([]*BoltStore, len(buckets))
	for i, name := range buckets {
		stores[i] = &BoltStore{file: file, bucket: []byte(name)}
	}
	return stores, nil
}

// Get retrieves a value by key. A missing key returns sql.ErrNoRows so
// callers can treat every backend alike.
func (s *BoltStore) Get(key string) ([]byte, int, int64, error) {
	var value []byte
	var version int
	var ts int64
	err := s.file.db.View(func(tx *bolt.Tx) error {
		raw := tx.Bucket(s.bucket).Get([]byte(key))
		if raw == nil {
			return sql.ErrNoRows
		}
		if len(raw) < boltHeaderSize {
			return fmt.Errorf("corrupt bolt entry %q", key)
		}
		version = int(binary.BigEndian.Uint32(raw[:4]))
		ts = int64(binary.BigEndian.Uint64(raw[4:boltHeaderSize]))
		value = append([]byte(nil), raw[boltHeaderSize:]...)
		return nil
	})
	if err != nil {
		return nil, 0, 0, err
	}
	return value, version, ts, nil
}

// Set inserts or replaces a key/value pair.
func (s *BoltStore) Set(key string, value []byte, version int, timestamp int64) error {
	raw := make([]byte, boltHeaderSize+len(value))
	binary.BigEndian.PutUint32(raw[:4], uint32(version))
	binary.BigEndian.PutUint64(raw[4:boltHeaderSize], uint64(timestamp))
	copy(raw[boltHeaderSize:], value)
	return s.file.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(s.bucket).Put([]byte(key), raw)
	})
}

// Delete removes a key. Deleting a missing key is not an error.
func (s *BoltStore) Delete(key string) error {
	return s.file.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(s.bucket).Delete([]byte(key))
	})
}

// GetStatus returns entry counts and times for the bucket.
func (s *BoltStore) GetStatus() (schema.PrefStatus, error) {
	status := schema.PrefStatus{Backend: string(schema.BoltBackend), Connected: true}
	err := s.file.db.View(func(tx *bolt.Tx) error {
		status.TableSizeBytes = tx.Size()
		var oldest, last int64
		err := tx.Bucket(s.bucket).ForEach(func(_, raw []byte) error {
			if len(raw) < boltHeaderSize {
				return nil
			}
			ts := int64(binary.BigEndian.Uint64(raw[4:boltHeaderSize]))
			if status.TotalEntries == 0 || ts < oldest {
				oldest = ts
			}
			if status.TotalEntries == 0 || ts > last {
				last = ts
			}
			status.TotalEntries++
			return nil
		})
		if status.TotalEntries > 0 {
			status.OldestEntryTime = time.Unix(oldest, 0)
			status.LastEntryTime = time.Unix(last, 0)
		}
		return err
	})
	return status, err
}

// Close releases this store's reference to the file.
func (s *BoltStore) Close() error {
	s.file.mu.Lock()
	defer s.file.mu.Unlock()
	if s.closed {
		return errors.New("bolt store already closed")
	}
	s.closed = true
	s.file.refs--
	if s.file.refs == 0 {
		return s.file.db.Close()
	}
	return nil
}
