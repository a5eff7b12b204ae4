package iocache

import (
	"database/sql"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/chartwerk/line-chart/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestSaveAndLoadSeries(t *testing.T) {
	store, err := NewSnapshotStore(snapshotTable, schema.SQLiteBackend, filepath.Join(t.TempDir(), "snap.db"))
	require.NoError(t, err)
	defer func() { _ = store.Close() }()

	series := []schema.Series{
		{Target: "cpu", Alias: "CPU", Mode: schema.ChargeMode, MaxLength: 5,
			Datapoints: []schema.Datapoint{{Key: 1, Value: 2}, {Key: 2, Value: 3}}},
		{Target: "cpu upper", Hidden: true, Datapoints: []schema.Datapoint{{Key: 1, Value: 4}}},
	}
	now := time.Unix(1_700_000_000, 0)
	require.NoError(t, SaveSeries(store, series, now))

	loaded, err := LoadSeries(store)
	require.NoError(t, err)
	assert.Equal(t, series, loaded, "keys come back sorted, which matches insertion here")

	one, err := LoadSeries(store, "cpu upper")
	require.NoError(t, err)
	require.Len(t, one, 1)
	assert.Equal(t, series[1], one[0])

	_, err = LoadSeries(store, "disk")
	assert.ErrorIs(t, err, ErrSnapshotNotFound)

	_, _, ts, err := store.Get("cpu")
	require.NoError(t, err)
	assert.Equal(t, now.Unix(), ts)
}

func TestSaveSeriesRequiresTarget(t *testing.T) {
	store := &MockSnapshotStore{}
	err := SaveSeries(store, []schema.Series{{Alias: "nameless"}}, time.Now())
	assert.Error(t, err)
	store.AssertNotCalled(t, "Set", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestSaveSeriesPropagatesStoreError(t *testing.T) {
	store := &MockSnapshotStore{}
	store.On("Set", "cpu", mock.Anything, snapshotFormatVersion, int64(5)).Return(errors.New("disk full"))

	err := SaveSeries(store, []schema.Series{{Target: "cpu"}}, time.Unix(5, 0))
	assert.ErrorContains(t, err, "disk full")
	store.AssertExpectations(t)
}

func TestLoadSeriesErrors(t *testing.T) {
	tests := []struct {
		name    string
		setup   func(m *MockSnapshotStore)
		wantErr string
	}{
		{
			name: "keys fail",
			setup: func(m *MockSnapshotStore) {
				m.On("Keys").Return(nil, errors.New("offline"))
			},
			wantErr: "offline",
		},
		{
			name: "missing",
			setup: func(m *MockSnapshotStore) {
				m.On("Keys").Return([]string{"cpu"}, nil)
				m.On("Get", "cpu").Return(nil, 0, int64(0), sql.ErrNoRows)
			},
			wantErr: "snapshot not found: cpu",
		},
		{
			name: "version mismatch",
			setup: func(m *MockSnapshotStore) {
				m.On("Keys").Return([]string{"cpu"}, nil)
				m.On("Get", "cpu").Return([]byte(`{}`), 99, int64(0), nil)
			},
			wantErr: "snapshot version 99",
		},
		{
			name: "corrupt value",
			setup: func(m *MockSnapshotStore) {
				m.On("Keys").Return([]string{"cpu"}, nil)
				m.On("Get", "cpu").Return([]byte(`{not json`), snapshotFormatVersion, int64(0), nil)
			},
			wantErr: "failed to decode series",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := &MockSnapshotStore{}
			tt.setup(store)
			_, err := LoadSeries(store)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
