package core

import (
	"testing"

	"github.com/chartwerk/line-chart/schema"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// mkSeries builds a visible series from alternating key, value pairs.
func mkSeries(target string, keyValues ...float64) schema.Series {
	s := schema.Series{Target: target}
	for i := 0; i+1 < len(keyValues); i += 2 {
		s.Datapoints = append(s.Datapoints, schema.Datapoint{Key: keyValues[i], Value: keyValues[i+1]})
	}
	return s
}

// uniform builds a visible series with keys start, start+step, ... and value = key.
func uniform(target string, n int, start, step float64) schema.Series {
	s := schema.Series{Target: target}
	for i := 0; i < n; i++ {
		k := start + float64(i)*step
		s.Datapoints = append(s.Datapoints, schema.Datapoint{Key: k, Value: k})
	}
	return s
}

// hostLog records every host callback.
type hostLog struct {
	moves    []schema.MouseMovePayload
	outs     int
	zoomIns  []schema.Range
	zoomOuts []schema.ZoomOutPayload
	shared   []schema.SharedCrosshairPayload
}

func (h *hostLog) callbacks() Callbacks {
	return Callbacks{
		MouseMove:           func(p schema.MouseMovePayload) { h.moves = append(h.moves, p) },
		MouseOut:            func() { h.outs++ },
		ZoomIn:              func(r schema.Range) { h.zoomIns = append(h.zoomIns, r) },
		ZoomOut:             func(p schema.ZoomOutPayload) { h.zoomOuts = append(h.zoomOuts, p) },
		SharedCrosshairMove: func(p schema.SharedCrosshairPayload) { h.shared = append(h.shared, p) },
	}
}

// captureTarget records render plans and crosshair views.
type captureTarget struct {
	plans []schema.RenderPlan
	views []schema.CrosshairView
}

func (t *captureTarget) Render(plan schema.RenderPlan) { t.plans = append(t.plans, plan) }

func (t *captureTarget) UpdateCrosshair(view schema.CrosshairView) {
	t.views = append(t.views, view)
}

func (t *captureTarget) lastView() schema.CrosshairView {
	if len(t.views) == 0 {
		return schema.CrosshairView{}
	}
	return t.views[len(t.views)-1]
}

// MockChartRecorder is a mock implementation of contract.ChartRecorder.
type MockChartRecorder struct {
	mock.Mock
}

func (m *MockChartRecorder) RecordEmission(kind schema.EventKind, delivered bool) {
	m.Called(kind, delivered)
}

func (m *MockChartRecorder) RecordResolve(source string, hits int) {
	m.Called(source, hits)
}

func (m *MockChartRecorder) RecordAppend(appended, evicted int) {
	m.Called(appended, evicted)
}

// identity maps domain [0, 100] onto pixels [0, 100].
func identity() *LinearScale { return NewLinearScale(0, 100, 0, 100) }

// newTestChart builds a 100x100 chart with identity scales.
func newTestChart(t *testing.T, orientation schema.Orientation, host *hostLog, series ...schema.Series) *LineChart {
	t.Helper()
	c, err := NewLineChart(ChartParams{
		Options: schema.ChartOptions{
			Crosshair: schema.CrosshairOptions{Orientation: orientation},
			Layout:    schema.Layout{Width: 100, Height: 100},
		},
		Series:    series,
		XScale:    identity(),
		YScale:    identity(),
		Callbacks: host.callbacks(),
		Quiet:     true,
	})
	require.NoError(t, err)
	return c
}

// newTestController builds a controller over store with identity scales.
func newTestController(t *testing.T, orientation schema.Orientation, store *SeriesStore, host *hostLog, target *captureTarget) *CrosshairController {
	t.Helper()
	emitter := NewEmitter(host.callbacks(), nil)
	emitter.SetQuiet(true)
	params := CrosshairParams{
		Orientation: orientation,
		Store:       store,
		Scales:      FixedScales{X: identity(), Y: identity()},
		Layout:      schema.Layout{Width: 100, Height: 100},
		Sink:        emitter,
	}
	if target != nil {
		params.Target = target
	}
	c, err := NewCrosshairController(params)
	require.NoError(t, err)
	return c
}
