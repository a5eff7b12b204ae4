package parquet

import (
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/chartwerk/line-chart/schema"
	"github.com/parquet-go/parquet-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func readAll[T any](t *testing.T, path string) []T {
	t.Helper()
	file, err := os.Open(path)
	require.NoError(t, err)
	defer func() { _ = file.Close() }()

	reader := parquet.NewGenericReader[T](file)
	defer func() { _ = reader.Close() }()

	rows := make([]T, reader.NumRows())
	n, err := reader.Read(rows)
	if err != nil && err != io.EOF {
		require.NoError(t, err)
	}
	return rows[:n]
}

func TestStructTags(t *testing.T) {
	tests := []struct {
		name    string
		schema  *parquet.Schema
		columns []string
	}{
		{
			name:    "session",
			schema:  parquet.SchemaOf(new(Session)),
			columns: []string{"session_id", "start_time", "end_time", "run_duration_ms", "total_probes", "config_params"},
		},
		{
			name:    "probe hit",
			schema:  parquet.SchemaOf(new(ProbeHit)),
			columns: []string{"session_id", "probe_index", "target", "label", "point_key", "point_value", "distance", "probe_time"},
		},
		{
			name:    "datapoint",
			schema:  parquet.SchemaOf(new(Datapoint)),
			columns: []string{"target", "label", "point_index", "point_key", "point_value", "visible"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for _, col := range tt.columns {
				_, ok := tt.schema.Lookup(col)
				assert.True(t, ok, "column %s should exist", col)
			}
		})
	}
}

func TestWriteSessionsParquet(t *testing.T) {
	start := time.Date(2026, 3, 1, 12, 0, 0, 123456789, time.UTC)
	end := start.Add(1500 * time.Millisecond)
	duration := int64(1500)
	params := `{"orientation":"vertical"}`

	records := []schema.SessionRecord{
		{SessionID: 1, StartTime: start, EndTime: &end, RunDurationMs: &duration, TotalProbes: 4, ConfigParams: &params},
		{SessionID: 2, StartTime: end},
	}
	path := filepath.Join(t.TempDir(), "sessions.parquet")
	require.NoError(t, WriteSessionsParquet(ConvertSessionRecords(records), path))

	rows := readAll[Session](t, path)
	require.Len(t, rows, 2)

	assert.Equal(t, int64(1), rows[0].SessionID)
	assert.True(t, start.Equal(rows[0].StartTime), "start time keeps nanosecond precision")
	require.NotNil(t, rows[0].EndTime)
	assert.True(t, end.Equal(*rows[0].EndTime))
	require.NotNil(t, rows[0].RunDurationMs)
	assert.Equal(t, int64(1500), *rows[0].RunDurationMs)
	require.NotNil(t, rows[0].ConfigParams)
	assert.Equal(t, params, *rows[0].ConfigParams)
	assert.Equal(t, int64(4), rows[0].TotalProbes)

	assert.Nil(t, rows[1].EndTime)
	assert.Nil(t, rows[1].RunDurationMs)
	assert.Nil(t, rows[1].ConfigParams)
}

func TestWriteProbeHitsParquet(t *testing.T) {
	when := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	hits := []schema.HitRecord{
		{SessionID: 7, ProbeIndex: 0, Target: "cpu", Label: "CPU", Key: 10, Value: 3.5, Distance: 0.25, ProbeTime: when},
		{SessionID: 7, ProbeIndex: 1, Target: "mem", Label: "mem", Key: 20, Value: 1, Distance: 0, ProbeTime: when},
	}
	path := filepath.Join(t.TempDir(), "hits.parquet")
	require.NoError(t, WriteProbeHitsParquet(ConvertHitRecords(hits), path))

	rows := readAll[ProbeHit](t, path)
	require.Len(t, rows, 2)
	assert.Equal(t, "CPU", rows[0].Label)
	assert.Equal(t, int32(1), rows[1].ProbeIndex)
	assert.Equal(t, 0.25, rows[0].Distance)
	assert.True(t, when.Equal(rows[1].ProbeTime))
}

func TestFlattenSeries(t *testing.T) {
	series := []schema.Series{
		{Target: "a", Alias: "Alpha", Datapoints: []schema.Datapoint{{Key: 0, Value: 1}, {Key: 1, Value: 2}}},
		{Target: "b", Hidden: true, Datapoints: []schema.Datapoint{{Key: 5, Value: 9}}},
		{Target: "empty"},
	}

	rows := FlattenSeries(series)
	require.Len(t, rows, 3)
	assert.Equal(t, Datapoint{Target: "a", Label: "Alpha", Index: 1, Key: 1, Value: 2, Visible: true}, rows[1])
	assert.Equal(t, Datapoint{Target: "b", Label: "b", Index: 0, Key: 5, Value: 9}, rows[2])

	path := filepath.Join(t.TempDir(), "points.parquet")
	require.NoError(t, WriteDatapointsParquet(rows, path))
	assert.Equal(t, rows, readAll[Datapoint](t, path))
}

func TestWriteEmptyAndInvalidPath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.parquet")
	require.NoError(t, WriteSessionsParquet(nil, path))
	assert.Empty(t, readAll[Session](t, path))

	err := WriteProbeHitsParquet(nil, filepath.Join(t.TempDir(), "missing", "dir", "x.parquet"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to create output file")
}
