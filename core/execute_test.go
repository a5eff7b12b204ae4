package core

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/chartwerk/line-chart/internal/contract"
	"github.com/chartwerk/line-chart/internal/iocache"
	"github.com/chartwerk/line-chart/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// captureWriter keeps whatever a command printed.
type captureWriter struct {
	probe    *schema.ProbeResult
	spacing  *schema.SpacingResult
	segments []schema.SegmentsResult
	series   []schema.Series
}

var _ contract.ResultWriter = &captureWriter{}

func (w *captureWriter) WriteProbe(result schema.ProbeResult, _ *contract.Config, _ time.Duration) error {
	w.probe = &result
	return nil
}

func (w *captureWriter) WriteSpacing(result schema.SpacingResult, _ *contract.Config) error {
	w.spacing = &result
	return nil
}

func (w *captureWriter) WriteSegments(results []schema.SegmentsResult, _ *contract.Config) error {
	w.segments = results
	return nil
}

func (w *captureWriter) WriteSeries(series []schema.Series, _ *contract.Config) error {
	w.series = series
	return nil
}

func testConfig(orientation schema.Orientation) *contract.Config {
	return &contract.Config{
		Orientation: orientation,
		Layout:      schema.Layout{Width: 200, Height: 100},
		Precision:   2,
		Output:      schema.TextOut,
	}
}

func writeSeriesFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "series.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestGetProbeResult(t *testing.T) {
	series := []schema.Series{uniform("a", 3, 0, 10), mkSeries("b", 0, 1, 100, 2)}

	tests := []struct {
		name     string
		req      ProbeRequest
		wantHits []bool
	}{
		{"both series within radius", ProbeRequest{X: 12}, []bool{true, true}},
		{"inside the coarse radius", ProbeRequest{X: 60}, []bool{true, true}},
		{"only b within radius", ProbeRequest{X: 140}, []bool{false, true}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := GetProbeResult(testConfig(schema.Vertical), nil, series, tt.req)
			require.NoError(t, err)
			assert.Equal(t, schema.AxisX, result.Axis)
			assert.Equal(t, 100.0, result.Spacing)
			require.Len(t, result.Hits, len(tt.wantHits))
			for i, want := range tt.wantHits {
				assert.Equal(t, want, result.Hits[i].Hit, "series %s", result.Hits[i].Target)
			}
		})
	}
}

func TestGetProbeResultPixel(t *testing.T) {
	series := []schema.Series{uniform("a", 11, 0, 10)}
	result, err := GetProbeResult(testConfig(schema.Vertical), nil, series, ProbeRequest{X: 100, Y: 50, Pixel: true})
	require.NoError(t, err)
	assert.InDelta(t, 50, result.Position.X, 1e-9, "pixel 100 of 200 is the middle of [0, 100]")
	require.Len(t, result.Hits, 1)
	assert.Equal(t, 50.0, result.Hits[0].Nearest.Key)
}

func TestGetProbeResultUnknownOrientation(t *testing.T) {
	_, err := GetProbeResult(testConfig("diagonal"), nil, nil, ProbeRequest{})
	assert.ErrorIs(t, err, contract.ErrUnknownOrientation)
}

func TestGetProbeResultRecordsSession(t *testing.T) {
	store := &iocache.MockSessionStore{}
	mgr := &iocache.MockStoreManager{}
	mgr.On("GetSessionStore").Return(store)

	store.On("BeginSession", mock.Anything, mock.Anything).Return(int64(7), nil)
	store.On("RecordHit", int64(7), mock.MatchedBy(func(h schema.HitRecord) bool {
		return h.Target == "a" && h.Key == 10 && h.Distance == 2 && h.ProbeIndex == 0
	})).Return(nil).Once()
	store.On("EndSession", int64(7), mock.Anything, 1).Return(nil)

	series := []schema.Series{uniform("a", 3, 0, 10)}
	result, err := GetProbeResult(testConfig(schema.Vertical), mgr, series, ProbeRequest{X: 12})
	require.NoError(t, err)
	assert.Equal(t, schema.CrosshairVisibleHit, result.Status)

	store.AssertExpectations(t)
	mgr.AssertExpectations(t)
}

func TestGetProbeResultNoSessionStore(t *testing.T) {
	mgr := &iocache.MockStoreManager{}
	mgr.On("GetSessionStore").Return(nil)

	_, err := GetProbeResult(testConfig(schema.Vertical), mgr, []schema.Series{uniform("a", 3, 0, 10)}, ProbeRequest{X: 1})
	require.NoError(t, err)
	mgr.AssertExpectations(t)
}

func TestGetSpacingResult(t *testing.T) {
	hidden := uniform("hidden", 2, 0, 1000)
	hidden.Hidden = true
	series := []schema.Series{uniform("a", 3, 0, 10), mkSeries("b", 0, 1, 100, 2), hidden, mkSeries("single", 5, 5)}

	result, err := GetSpacingResult(testConfig(schema.Vertical), series)
	require.NoError(t, err)
	assert.Equal(t, schema.AxisX, result.Axis)
	assert.True(t, result.Defined)
	assert.Equal(t, 100.0, result.Spacing)
	assert.Equal(t, map[string]float64{"a": 10, "b": 100}, result.PerSeries)

	result, err = GetSpacingResult(testConfig(schema.Both), series)
	require.NoError(t, err)
	assert.Equal(t, schema.AxisY, result.Axis)
	assert.Equal(t, 10.0, result.Spacing, "both hit-tests on values")

	result, err = GetSpacingResult(testConfig(schema.Vertical), []schema.Series{mkSeries("single", 5, 5)})
	require.NoError(t, err)
	assert.False(t, result.Defined)
	assert.Empty(t, result.PerSeries)
}

func TestGetSegmentsResults(t *testing.T) {
	charge := mkSeries("c", 0, 1, 1, 3, 2, 3, 3, 2)
	charge.Mode = schema.ChargeMode
	series := []schema.Series{charge, mkSeries("flat", 0, 0)}

	results, err := GetSegmentsResults(testConfig(schema.Vertical), series)
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, "c", results[0].Target)
	require.Len(t, results[0].Segments, 3)
	assert.Equal(t, schema.Increasing, results[0].Segments[0].Direction)
	assert.Equal(t, schema.Flat, results[0].Segments[1].Direction)
	assert.Equal(t, schema.Decreasing, results[0].Segments[2].Direction)
	assert.Empty(t, results[1].Segments)

	results, err = GetSegmentsResults(testConfig(schema.Vertical), nil)
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestLoadSeries(t *testing.T) {
	path := writeSeriesFile(t, `[{"target":"a","datapoints":[[1,0],[2,1]]}]`)
	series, err := LoadSeries(&contract.Config{SeriesFile: path}, nil)
	require.NoError(t, err)
	require.Len(t, series, 1)

	_, err = LoadSeries(&contract.Config{}, nil)
	assert.ErrorContains(t, err, "a series file is required")

	snapshots, err := iocache.NewSnapshotStore("snapshots", schema.SQLiteBackend, filepath.Join(t.TempDir(), "snap.db"))
	require.NoError(t, err)
	defer func() { _ = snapshots.Close() }()
	mgr := &iocache.MockStoreManager{}
	mgr.On("GetSnapshotStore").Return(snapshots)

	_, err = LoadSeries(&contract.Config{}, mgr)
	assert.ErrorContains(t, err, "no snapshots stored")

	require.NoError(t, iocache.SaveSeries(snapshots, series, time.Now()))
	loaded, err := LoadSeries(&contract.Config{}, mgr)
	require.NoError(t, err)
	assert.Equal(t, series, loaded)
}

func TestExecuteCommands(t *testing.T) {
	cfg := testConfig(schema.Vertical)
	cfg.SeriesFile = writeSeriesFile(t, `[{"target":"a","datapoints":[[1,0],[2,10],[1,20]]}]`)

	w := &captureWriter{}
	require.NoError(t, ExecuteProbe(cfg, nil, w, ProbeRequest{X: 9}))
	require.NotNil(t, w.probe)
	assert.Equal(t, 10.0, w.probe.Hits[0].Nearest.Key)

	require.NoError(t, ExecuteSpacing(cfg, nil, w))
	require.NotNil(t, w.spacing)
	assert.Equal(t, 10.0, w.spacing.Spacing)

	require.NoError(t, ExecuteSegments(cfg, nil, w))
	require.Len(t, w.segments, 1)
	assert.Len(t, w.segments[0].Segments, 2)
}

func TestExecuteSnapshotSaveAndLoad(t *testing.T) {
	cfg := testConfig(schema.Vertical)
	cfg.SnapshotBackend = schema.SQLiteBackend
	cfg.SeriesFile = writeSeriesFile(t, `[{"target":"a","datapoints":[[1,0]]},{"target":"b","datapoints":[[2,0]]}]`)

	assert.ErrorContains(t, ExecuteSnapshotSave(cfg, nil), "not configured")

	snapshots, err := iocache.NewSnapshotStore("snapshots", schema.SQLiteBackend, filepath.Join(t.TempDir(), "snap.db"))
	require.NoError(t, err)
	defer func() { _ = snapshots.Close() }()
	mgr := &iocache.MockStoreManager{}
	mgr.On("GetSnapshotStore").Return(snapshots)

	require.NoError(t, ExecuteSnapshotSave(cfg, mgr))

	w := &captureWriter{}
	require.NoError(t, ExecuteSnapshotLoad(cfg, mgr, w, []string{"b"}))
	require.Len(t, w.series, 1)
	assert.Equal(t, "b", w.series[0].Target)

	err = ExecuteSnapshotLoad(cfg, mgr, w, []string{"missing"})
	assert.ErrorIs(t, err, iocache.ErrSnapshotNotFound)
}
