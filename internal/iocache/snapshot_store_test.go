package iocache

import (
	"database/sql"
	"path/filepath"
	"testing"
	"time"

	"github.com/chartwerk/line-chart/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSnapshotStore_NoneBackend(t *testing.T) {
	store, err := NewSnapshotStore(snapshotTable, schema.NoneBackend, "")
	require.NoError(t, err)

	assert.NoError(t, store.Set("cpu", []byte("x"), 1, 10))
	_, _, _, err = store.Get("cpu")
	assert.ErrorIs(t, err, sql.ErrNoRows)

	keys, err := store.Keys()
	assert.NoError(t, err)
	assert.Empty(t, keys)

	status, err := store.GetStatus()
	require.NoError(t, err)
	assert.Equal(t, "none", status.Backend)
	assert.False(t, status.Connected)
	assert.NoError(t, store.Close())
}

func TestSnapshotStore_SQLite(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "snapshots.db")
	store, err := NewSnapshotStore(snapshotTable, schema.SQLiteBackend, dbPath)
	require.NoError(t, err)
	defer func() { _ = store.Close() }()

	status, err := store.GetStatus()
	require.NoError(t, err)
	assert.True(t, status.Connected)
	assert.Equal(t, 0, status.TotalEntries)

	require.NoError(t, store.Set("mem", []byte(`{"a":1}`), 1, 100))
	require.NoError(t, store.Set("cpu", []byte(`{"b":2}`), 1, 200))

	value, version, ts, err := store.Get("cpu")
	require.NoError(t, err)
	assert.Equal(t, []byte(`{"b":2}`), value)
	assert.Equal(t, 1, version)
	assert.Equal(t, int64(200), ts)

	// Upsert replaces in place
	require.NoError(t, store.Set("cpu", []byte(`{"b":3}`), 2, 300))
	value, version, ts, err = store.Get("cpu")
	require.NoError(t, err)
	assert.Equal(t, []byte(`{"b":3}`), value)
	assert.Equal(t, 2, version)
	assert.Equal(t, int64(300), ts)

	keys, err := store.Keys()
	require.NoError(t, err)
	assert.Equal(t, []string{"cpu", "mem"}, keys)

	_, _, _, err = store.Get("missing")
	assert.ErrorIs(t, err, sql.ErrNoRows)

	status, err = store.GetStatus()
	require.NoError(t, err)
	assert.Equal(t, 2, status.TotalEntries)
	assert.Equal(t, time.Unix(300, 0), status.LastEntryTime)
	assert.Equal(t, time.Unix(100, 0), status.OldestEntryTime)
	assert.Greater(t, status.TableSizeBytes, int64(0))
}

func TestSnapshotStore_Reopen(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "snapshots.db")
	store, err := NewSnapshotStore(snapshotTable, schema.SQLiteBackend, dbPath)
	require.NoError(t, err)
	require.NoError(t, store.Set("cpu", []byte("v"), 1, 1))
	require.NoError(t, store.Close())

	store, err = NewSnapshotStore(snapshotTable, schema.SQLiteBackend, dbPath)
	require.NoError(t, err)
	defer func() { _ = store.Close() }()
	value, _, _, err := store.Get("cpu")
	require.NoError(t, err)
	assert.Equal(t, []byte("v"), value)
}

func TestNewSnapshotStoreErrors(t *testing.T) {
	tests := []struct {
		name      string
		table     string
		backend   schema.DatabaseBackend
		wantError string
	}{
		{"injection in table name", "snap; DROP TABLE x", schema.SQLiteBackend, "invalid table name"},
		{"empty table name", "", schema.SQLiteBackend, "invalid table name"},
		{"unknown backend", snapshotTable, "oracle", "unsupported backend"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store, err := NewSnapshotStore(tt.table, tt.backend, "")
			require.Error(t, err)
			assert.Nil(t, store)
			assert.Contains(t, err.Error(), tt.wantError)
		})
	}
}

func TestValidateTableName(t *testing.T) {
	tests := []struct {
		name  string
		valid bool
	}{
		{"linechart_snapshots", true},
		{"_private", true},
		{"T1", true},
		{"1starts_with_digit", false},
		{"has-dash", false},
		{"has space", false},
		{"quote\"d", false},
		{"a123456789012345678901234567890123456789012345678901234567890123", true},
		{"a1234567890123456789012345678901234567890123456789012345678901234", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateTableName(tt.name)
			if tt.valid {
				assert.NoError(t, err)
			} else {
				assert.Error(t, err)
			}
		})
	}
}

func TestQueryBuilders(t *testing.T) {
	tests := []struct {
		backend     schema.DatabaseBackend
		quoted      string
		placeholder string
		upsert      string
		create      string
	}{
		{schema.SQLiteBackend, `"t"`, "?", "INSERT OR REPLACE", "snapshot_value BLOB"},
		{schema.MySQLBackend, "`t`", "?", "ON DUPLICATE KEY UPDATE", "snapshot_value LONGBLOB"},
		{schema.PostgreSQLBackend, `"t"`, "$1", "ON CONFLICT (snapshot_key)", "snapshot_value BYTEA"},
	}
	for _, tt := range tests {
		t.Run(string(tt.backend), func(t *testing.T) {
			assert.Equal(t, tt.quoted, quoteTableName("t", tt.backend))
			assert.Equal(t, tt.placeholder, placeholder(tt.backend, 1))
			assert.Contains(t, getUpsertSnapshotQuery("t", tt.backend), tt.upsert)
			assert.Contains(t, getCreateSnapshotTableQuery("t", tt.backend), tt.create)
			assert.Contains(t, getCreateSessionsQuery(tt.backend), "CREATE TABLE IF NOT EXISTS")
			assert.Contains(t, getCreateProbeHitsQuery(tt.backend), "PRIMARY KEY (session_id, probe_index, target)")
		})
	}

	assert.Equal(t, "$1, $2, $3", placeholders(schema.PostgreSQLBackend, 3))
	assert.Equal(t, "?, ?", placeholders(schema.MySQLBackend, 2))
}

func TestFormatTime(t *testing.T) {
	when := time.Date(2026, 1, 2, 3, 4, 5, 6, time.FixedZone("x", 3600))
	assert.Equal(t, "2026-01-02T02:04:05.000000006Z", formatTime(when, schema.SQLiteBackend))
	assert.Equal(t, when, formatTime(when, schema.PostgreSQLBackend))

	parsed, err := parseStoredTime("start_time", "2026-01-02T02:04:05.000000006Z")
	require.NoError(t, err)
	assert.True(t, parsed.Equal(when))

	_, err = parseStoredTime("start_time", "yesterday")
	assert.ErrorContains(t, err, "failed to parse start_time")
}
