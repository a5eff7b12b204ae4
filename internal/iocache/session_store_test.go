package iocache

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/chartwerk/line-chart/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newSQLiteSessionStore(t *testing.T) *SessionStoreImpl {
	t.Helper()
	store, err := NewSessionStore(schema.SQLiteBackend, filepath.Join(t.TempDir(), "sessions.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store.(*SessionStoreImpl)
}

func TestSessionStore_NoneBackend(t *testing.T) {
	store, err := NewSessionStore(schema.NoneBackend, "")
	require.NoError(t, err)

	id, err := store.BeginSession(time.Now(), map[string]any{"orientation": "vertical"})
	assert.NoError(t, err)
	assert.Equal(t, int64(0), id)
	assert.NoError(t, store.RecordHit(1, schema.HitRecord{Target: "cpu"}))
	assert.NoError(t, store.EndSession(1, time.Now(), 3))

	sessions, err := store.GetAllSessions()
	assert.NoError(t, err)
	assert.Nil(t, sessions)
	hits, err := store.GetAllHits()
	assert.NoError(t, err)
	assert.Nil(t, hits)

	status, err := store.GetStatus()
	require.NoError(t, err)
	assert.False(t, status.Connected)
	assert.NoError(t, store.Close())
}

func TestSessionStore_SQLiteLifecycle(t *testing.T) {
	store := newSQLiteSessionStore(t)

	start := time.Date(2026, 5, 1, 8, 0, 0, 0, time.UTC)
	id, err := store.BeginSession(start, map[string]any{"orientation": "both", "bounds": false})
	require.NoError(t, err)
	assert.Greater(t, id, int64(0))

	probeTime := start.Add(time.Second)
	require.NoError(t, store.RecordHit(id, schema.HitRecord{ProbeIndex: 0, Target: "cpu", Label: "CPU", Key: 10, Value: 3, Distance: 0.5, ProbeTime: probeTime}))
	require.NoError(t, store.RecordHit(id, schema.HitRecord{ProbeIndex: 0, Target: "mem", Label: "mem", Key: 10, Value: 7, ProbeTime: probeTime}))
	require.NoError(t, store.RecordHit(id, schema.HitRecord{ProbeIndex: 1, Target: "cpu", Label: "CPU", Key: 20, Value: 4, ProbeTime: probeTime}))

	err = store.RecordHit(id, schema.HitRecord{ProbeIndex: 1, Target: "cpu", ProbeTime: probeTime})
	assert.Error(t, err, "one hit per series per probe")

	end := start.Add(2500 * time.Millisecond)
	require.NoError(t, store.EndSession(id, end, 2))

	sessions, err := store.GetAllSessions()
	require.NoError(t, err)
	require.Len(t, sessions, 1)
	s := sessions[0]
	assert.Equal(t, id, s.SessionID)
	assert.True(t, start.Equal(s.StartTime))
	require.NotNil(t, s.EndTime)
	assert.True(t, end.Equal(*s.EndTime))
	require.NotNil(t, s.RunDurationMs)
	assert.Equal(t, int64(2500), *s.RunDurationMs)
	assert.Equal(t, int64(2), s.TotalProbes)
	require.NotNil(t, s.ConfigParams)
	assert.JSONEq(t, `{"orientation":"both","bounds":false}`, *s.ConfigParams)

	hits, err := store.GetAllHits()
	require.NoError(t, err)
	require.Len(t, hits, 3)
	assert.Equal(t, "cpu", hits[0].Target)
	assert.Equal(t, "mem", hits[1].Target)
	assert.Equal(t, 1, hits[2].ProbeIndex)
	assert.Equal(t, 0.5, hits[0].Distance)
	assert.True(t, probeTime.Equal(hits[0].ProbeTime))

	status, err := store.GetStatus()
	require.NoError(t, err)
	assert.Equal(t, 1, status.TotalSessions)
	assert.Equal(t, id, status.LastSessionID)
	assert.Equal(t, 2, status.TotalProbes)
	assert.True(t, start.Equal(status.OldestSession))
	assert.Equal(t, map[string]int64{sessionsTable: 1, probeHitsTable: 3}, status.TableSizes)
}

func TestSessionStore_EndUnknownSession(t *testing.T) {
	store := newSQLiteSessionStore(t)
	err := store.EndSession(42, time.Now(), 1)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to get start_time for session 42")
}

func TestSessionStore_MultipleSessions(t *testing.T) {
	store := newSQLiteSessionStore(t)
	base := time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC)

	var ids []int64
	for i := 0; i < 3; i++ {
		id, err := store.BeginSession(base.Add(time.Duration(i)*time.Hour), nil)
		require.NoError(t, err)
		ids = append(ids, id)
	}
	assert.Less(t, ids[0], ids[1])
	assert.Less(t, ids[1], ids[2])

	sessions, err := store.GetAllSessions()
	require.NoError(t, err)
	require.Len(t, sessions, 3)
	assert.Nil(t, sessions[0].EndTime)
	assert.Nil(t, sessions[0].RunDurationMs)

	status, err := store.GetStatus()
	require.NoError(t, err)
	assert.Equal(t, ids[2], status.LastSessionID)
	assert.True(t, base.Add(2*time.Hour).Equal(status.LastSessionTime))
	assert.Equal(t, 0, status.TotalProbes)
}

func TestNewSessionStoreUnsupported(t *testing.T) {
	_, err := NewSessionStore("oracle", "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported backend")
}
