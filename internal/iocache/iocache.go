// Package iocache persists series snapshots and probe sessions.
package iocache

import (
	"sync"

	"github.com/chartwerk/line-chart/internal/contract"
)

// ChartStoreManager manages the snapshot and session stores.
type ChartStoreManager struct {
	sync.RWMutex // Protects the store pointers during initialization
	snapshot     contract.SnapshotStore
	session      contract.SessionStore
}

var _ contract.StoreManager = &ChartStoreManager{} // Compile-time check

// GetSnapshotStore returns the snapshot store.
func (mgr *ChartStoreManager) GetSnapshotStore() contract.SnapshotStore {
	mgr.RLock()
	defer mgr.RUnlock()
	return mgr.snapshot
}

// GetSessionStore returns the session store.
func (mgr *ChartStoreManager) GetSessionStore() contract.SessionStore {
	mgr.RLock()
	defer mgr.RUnlock()
	return mgr.session
}
