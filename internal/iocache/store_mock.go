package iocache

import (
	"time"

	"github.com/huangsam/locmeta/internal/contract"
	"github.com/huangsam/locmeta/schema"
	"github.com/stretchr/testify/mock"
)

// MockStoreManager is a mock implementation of StoreManager for testing.
type MockStoreManager struct {
	mock.Mock
}

var _ contract.StoreManager = &MockStoreManager{} // Compile-time check

// GetPrefStore implements the StoreManager interface.
func (m *MockStoreManager) GetPrefStore() contract.KVStore {
	ret := m.Called()
	store, _ := ret.Get(0).(contract.KVStore)
	return store
}

// GetBlameStore implements the StoreManager interface.
func (m *MockStoreManager) GetBlameStore() contract.KVStore {
	ret := m.Called()
	store, _ := ret.Get(0).(contract.KVStore)
	return store
}

// GetRunStore implements the StoreManager interface.
func (m *MockStoreManager) GetRunStore() contract.RunStore {
	ret := m.Called()
	store, _ := ret.Get(0).(contract.RunStore)
	return store
}

// MockKVStore is a mock implementation of KVStore for testing.
type MockKVStore struct {
	mock.Mock
}

var _ contract.KVStore = &MockKVStore{} // Compile-time check

// Get implements the KVStore interface.
func (m *MockKVStore) Get(key string) ([]byte, int, int64, error) {
	args := m.Called(key)
	data, _ := args.Get(0).([]byte)
	return data, args.Int(1), args.Get(2).(int64), args.Error(3)
}

// Set implements the KVStore interface.
func (m *MockKVStore) Set(key string, data []byte, version int, ts int64) error {
	args := m.Called(key, data, version, ts)
	return args.Error(0)
}

// Delete implements the KVStore interface.
func (m *MockKVStore) Delete(key string) error {
	args := m.Called(key)
	return args.Error(0)
}

// GetStatus implements the KVStore interface.
func (m *MockKVStore) GetStatus() (schema.PrefStatus, error) {
	args := m.Called()
	return args.Get(0).(schema.PrefStatus), args.Error(1)
}

// Close implements the KVStore interface.
func (m *MockKVStore) Close() error {
	args := m.Called()
	return args.Error(0)
}

// MockRunStore is a mock implementation of RunStore for testing.
type MockRunStore struct {
	mock.Mock
}

var _ contract.RunStore = &MockRunStore{} // Compile-time check

// BeginRun implements the RunStore interface.
func (m *MockRunStore) BeginRun(startTime time.Time, dataFile string) (int64, error) {
	args := m.Called(startTime, dataFile)
	return args.Get(0).(int64), args.Error(1)
}

// EndRun implements the RunStore interface.
func (m *MockRunStore) EndRun(runID int64, endTime time.Time, totalLines, totalCommits, totalFiles int) error {
	args := m.Called(runID, endTime, totalLines, totalCommits, totalFiles)
	return args.Error(0)
}

// RecordCommits implements the RunStore interface.
func (m *MockRunStore) RecordCommits(runID int64, commits []schema.Commit) error {
	args := m.Called(runID, commits)
	return args.Error(0)
}

// GetStatus implements the RunStore interface.
func (m *MockRunStore) GetStatus() (schema.RunStatus, error) {
	args := m.Called()
	return args.Get(0).(schema.RunStatus), args.Error(1)
}

// GetAllRuns implements the RunStore interface.
func (m *MockRunStore) GetAllRuns() ([]schema.RunRecord, error) {
	args := m.Called()
	runs, _ := args.Get(0).([]schema.RunRecord)
	return runs, args.Error(1)
}

// GetAllRunCommits implements the RunStore interface.
func (m *MockRunStore) GetAllRunCommits() ([]schema.RunCommitRecord, error) {
	args := m.Called()
	commits, _ := args.Get(0).([]schema.RunCommitRecord)
	return commits, args.Error(1)
}

// Close implements the RunStore interface.
func (m *MockRunStore) Close() error {
	args := m.Called()
	return args.Error(0)
}
