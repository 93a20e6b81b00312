package iocache

import (
	"sync"

	"github.com/huangsam/locmeta/internal/contract"
)

// Table and bucket names for key/value storage.
const (
	prefsTable = "locmeta_prefs"
	blameTable = "locmeta_blame"
)

// StoreManager manages the preference, blame and run stores.
type StoreManager struct {
	sync.RWMutex // Protects the store pointers during initialization
	prefs        contract.KVStore
	blame        contract.KVStore
	runs         contract.RunStore
}

var _ contract.StoreManager = &StoreManager{} // Compile-time check

// GetPrefStore returns the preference KVStore.
func (mgr *StoreManager) GetPrefStore() contract.KVStore {
	mgr.RLock()
	defer mgr.RUnlock()
	return mgr.prefs
}

// GetBlameStore returns the KVStore caching blame output.
func (mgr *StoreManager) GetBlameStore() contract.KVStore {
	mgr.RLock()
	defer mgr.RUnlock()
	return mgr.blame
}

// GetRunStore returns the run history store, or nil when tracking is off.
func (mgr *StoreManager) GetRunStore() contract.RunStore {
	mgr.RLock()
	defer mgr.RUnlock()
	return mgr.runs
}
