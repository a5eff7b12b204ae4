package iocache

import (
	"time"

	"github.com/chartwerk/line-chart/internal/contract"
	"github.com/chartwerk/line-chart/schema"
	"github.com/stretchr/testify/mock"
)

// MockStoreManager is a mock implementation of StoreManager for testing.
type MockStoreManager struct {
	mock.Mock
}

var _ contract.StoreManager = &MockStoreManager{} // Compile-time check

// GetSnapshotStore returns the mocked snapshot store.
func (m *MockStoreManager) GetSnapshotStore() contract.SnapshotStore {
	args := m.Called()
	if s := args.Get(0); s != nil {
		return s.(contract.SnapshotStore)
	}
	return nil
}

// GetSessionStore returns the mocked session store.
func (m *MockStoreManager) GetSessionStore() contract.SessionStore {
	args := m.Called()
	if s := args.Get(0); s != nil {
		return s.(contract.SessionStore)
	}
	return nil
}

// MockSnapshotStore is a mock implementation of SnapshotStore for testing.
type MockSnapshotStore struct {
	mock.Mock
}

var _ contract.SnapshotStore = &MockSnapshotStore{} // Compile-time check

// Get mocks the Get method.
func (m *MockSnapshotStore) Get(key string) ([]byte, int, int64, error) {
	args := m.Called(key)
	var value []byte
	if v := args.Get(0); v != nil {
		value = v.([]byte)
	}
	return value, args.Int(1), args.Get(2).(int64), args.Error(3)
}

// Set mocks the Set method.
func (m *MockSnapshotStore) Set(key string, value []byte, version int, timestamp int64) error {
	args := m.Called(key, value, version, timestamp)
	return args.Error(0)
}

// Keys mocks the Keys method.
func (m *MockSnapshotStore) Keys() ([]string, error) {
	args := m.Called()
	var keys []string
	if v := args.Get(0); v != nil {
		keys = v.([]string)
	}
	return keys, args.Error(1)
}

// GetStatus mocks the GetStatus method.
func (m *MockSnapshotStore) GetStatus() (schema.SnapshotStatus, error) {
	args := m.Called()
	return args.Get(0).(schema.SnapshotStatus), args.Error(1)
}

// Close mocks the Close method.
func (m *MockSnapshotStore) Close() error {
	args := m.Called()
	return args.Error(0)
}

// MockSessionStore is a mock implementation of SessionStore for testing.
type MockSessionStore struct {
	mock.Mock
}

var _ contract.SessionStore = &MockSessionStore{} // Compile-time check

// BeginSession mocks the BeginSession method.
func (m *MockSessionStore) BeginSession(startTime time.Time, configParams map[string]any) (int64, error) {
	args := m.Called(startTime, configParams)
	return args.Get(0).(int64), args.Error(1)
}

// RecordHit mocks the RecordHit method.
func (m *MockSessionStore) RecordHit(sessionID int64, hit schema.HitRecord) error {
	args := m.Called(sessionID, hit)
	return args.Error(0)
}

// EndSession mocks the EndSession method.
func (m *MockSessionStore) EndSession(sessionID int64, endTime time.Time, totalProbes int) error {
	args := m.Called(sessionID, endTime, totalProbes)
	return args.Error(0)
}

// GetStatus mocks the GetStatus method.
func (m *MockSessionStore) GetStatus() (schema.SessionStatus, error) {
	args := m.Called()
	return args.Get(0).(schema.SessionStatus), args.Error(1)
}

// GetAllSessions mocks the GetAllSessions method.
func (m *MockSessionStore) GetAllSessions() ([]schema.SessionRecord, error) {
	args := m.Called()
	return args.Get(0).([]schema.SessionRecord), args.Error(1)
}

// GetAllHits mocks the GetAllHits method.
func (m *MockSessionStore) GetAllHits() ([]schema.HitRecord, error) {
	args := m.Called()
	return args.Get(0).([]schema.HitRecord), args.Error(1)
}

// Close mocks the Close method.
func (m *MockSessionStore) Close() error {
	args := m.Called()
	return args.Error(0)
}
