package core

import (
	"fmt"

	"github.com/chartwerk/line-chart/internal/contract"
	"github.com/chartwerk/line-chart/schema"
	"github.com/google/uuid"
)

// ChartParams configures a LineChart. Only Options.Crosshair.Orientation and
// Options.Layout are required. With no scales the chart fits them to the data.
type ChartParams struct {
	ID               string // sync bus origin; generated when empty
	Options          schema.ChartOptions
	Series           []schema.Series
	XScale           contract.ScaleAdapter
	YScale           contract.ScaleAdapter
	Callbacks        Callbacks
	Target           contract.RenderTarget
	Recorder         contract.ChartRecorder
	DefaultMaxLength int  // applied to series with MaxLength 0
	Quiet            bool // do not log missing callbacks
}

// LineChart ties the store, scales, crosshair and emitter together behind the host API.
// It must be driven from one goroutine. Calls made from inside a host callback fail
// with contract.ErrReentrantCall.
type LineChart struct {
	id               string
	options          schema.ChartOptions
	defaultMaxLength int

	store     *SeriesStore
	buffer    *StreamingBuffer
	scales    ScaleSource
	emitter   *Emitter
	crosshair *CrosshairController
	target    contract.RenderTarget
	recorder  contract.ChartRecorder
	lastPlan  schema.RenderPlan
}

// NewLineChart validates the options, loads the initial series and renders once.
func NewLineChart(p ChartParams) (*LineChart, error) {
	if p.Options.Layout.Width <= 0 || p.Options.Layout.Height <= 0 {
		return nil, fmt.Errorf("chart layout must be positive (received %vx%v)",
			p.Options.Layout.Width, p.Options.Layout.Height)
	}
	if (p.XScale == nil) != (p.YScale == nil) {
		return nil, fmt.Errorf("provide both x and y scales or neither")
	}
	if p.DefaultMaxLength < 0 {
		return nil, fmt.Errorf("default max length must not be negative (received %d)", p.DefaultMaxLength)
	}

	store := NewSeriesStore(p.Options.Bounds)
	var scales ScaleSource = NewAutoScales(store, p.Options.Layout)
	if p.XScale != nil {
		scales = FixedScales{X: p.XScale, Y: p.YScale}
	}

	var emissions contract.EmissionRecorder
	if p.Recorder != nil {
		emissions = p.Recorder
	}
	emitter := NewEmitter(p.Callbacks, emissions)
	emitter.SetQuiet(p.Quiet)

	crosshair, err := NewCrosshairController(CrosshairParams{
		Orientation: p.Options.Crosshair.Orientation,
		Store:       store,
		Scales:      scales,
		Layout:      p.Options.Layout,
		Sink:        emitter,
		Target:      p.Target,
		Recorder:    p.Recorder,
	})
	if err != nil {
		return nil, err
	}

	id := p.ID
	if id == "" {
		id = uuid.NewString()
	}
	c := &LineChart{
		id:               id,
		options:          p.Options,
		defaultMaxLength: p.DefaultMaxLength,
		store:            store,
		buffer:           NewStreamingBuffer(store),
		scales:           scales,
		emitter:          emitter,
		crosshair:        crosshair,
		target:           p.Target,
		recorder:         p.Recorder,
	}
	if err := c.SetSeries(p.Series); err != nil {
		return nil, err
	}
	return c, nil
}

// ID identifies this chart instance on a sync bus.
func (c *LineChart) ID() string { return c.id }

// Options returns the chart configuration.
func (c *LineChart) Options() schema.ChartOptions { return c.options }

// SetSeries replaces all series and re-renders.
func (c *LineChart) SetSeries(series []schema.Series) error {
	if err := c.guard(); err != nil {
		return err
	}
	prepared := make([]schema.Series, len(series))
	for i := range series {
		s := series[i]
		if s.Mode != "" {
			if _, ok := schema.ValidSeriesModes[s.Mode]; !ok {
				return fmt.Errorf("series %q: invalid mode '%s'. must be standard, charge", s.Target, s.Mode)
			}
		}
		if s.Confidence < 0 {
			return fmt.Errorf("series %q: confidence must not be negative (received %v)", s.Target, s.Confidence)
		}
		if s.MaxLength < 0 {
			return fmt.Errorf("series %q: max length must not be negative (received %d)", s.Target, s.MaxLength)
		}
		if s.MaxLength == 0 {
			s.MaxLength = c.defaultMaxLength
		}
		prepared[i] = s
	}
	c.store.Replace(prepared)
	c.render()
	return nil
}

// SetVisible toggles one series and re-renders.
func (c *LineChart) SetVisible(target string, visible bool) error {
	if err := c.guard(); err != nil {
		return err
	}
	if err := c.store.SetVisible(target, visible); err != nil {
		return err
	}
	c.render()
	return nil
}

// Render rebuilds the render plan and starts a fresh crosshair.
func (c *LineChart) Render() (schema.RenderPlan, error) {
	if err := c.guard(); err != nil {
		return schema.RenderPlan{}, err
	}
	c.render()
	return c.lastPlan, nil
}

// Plan returns the most recent render plan.
func (c *LineChart) Plan() schema.RenderPlan { return c.lastPlan }

// AppendData adds values[i] to series i. values must hold exactly one datapoint
// per series in store order, hidden and bound series included; otherwise it
// returns contract.ErrValueCountMismatch and nothing is appended. The value at a
// hidden series' index is read and discarded.
// The crosshair is kept; only the series layer is re-rendered.
func (c *LineChart) AppendData(values []schema.Datapoint) (AppendResult, error) {
	if err := c.guard(); err != nil {
		return AppendResult{}, err
	}
	res, err := c.buffer.AppendAll(values)
	if err != nil {
		return res, err
	}
	if c.recorder != nil {
		c.recorder.RecordAppend(res.Appended, res.Evicted)
	}
	c.renderSeries()
	return res, nil
}

// PointerEnter handles the pointer entering the chart area.
func (c *LineChart) PointerEnter() error {
	if err := c.guard(); err != nil {
		return err
	}
	c.crosshair.PointerEnter()
	return nil
}

// PointerLeave handles the pointer leaving the chart area.
func (c *LineChart) PointerLeave() error {
	if err := c.guard(); err != nil {
		return err
	}
	c.crosshair.PointerLeave()
	return nil
}

// PointerMove handles a pointer move inside the chart area.
func (c *LineChart) PointerMove(ev schema.PointerEvent) error {
	if err := c.guard(); err != nil {
		return err
	}
	c.crosshair.PointerMove(ev)
	return nil
}

// RenderSharedCrosshair mirrors a crosshair pushed from another chart.
func (c *LineChart) RenderSharedCrosshair(coords schema.SharedCoords) error {
	if err := c.guard(); err != nil {
		return err
	}
	c.crosshair.RenderShared(coords)
	return nil
}

// HideSharedCrosshair hides a mirrored crosshair. It is idempotent.
func (c *LineChart) HideSharedCrosshair() error {
	if err := c.guard(); err != nil {
		return err
	}
	c.crosshair.HideShared()
	return nil
}

// OnBrushEnd converts a pixel selection on the x axis into a zoomIn range.
// A selection with fewer than two values is ignored.
func (c *LineChart) OnBrushEnd(selection []float64) error {
	if err := c.guard(); err != nil {
		return err
	}
	if len(selection) < 2 {
		return nil
	}
	xs, _ := c.scales.Scales()
	c.emitter.ZoomIn(schema.Range{Start: xs.ToDomain(selection[0]), End: xs.ToDomain(selection[1])})
	return nil
}

// OnDoubleClick emits zoomOut with the domain center of the chart:
// the x center, plus the y center for the Both orientation.
func (c *LineChart) OnDoubleClick() error {
	if err := c.guard(); err != nil {
		return err
	}
	xs, ys := c.scales.Scales()
	centers := []float64{xs.ToDomain(c.options.Layout.Width / 2)}
	if c.options.Crosshair.Orientation == schema.Both {
		centers = append(centers, ys.ToDomain(c.options.Layout.Height/2))
	}
	c.emitter.ZoomOut(schema.ZoomOutPayload{Centers: centers})
	return nil
}

// State returns the crosshair state.
func (c *LineChart) State() schema.CrosshairState { return c.crosshair.State() }

// Probe runs the hit test at domain coordinates without side effects.
func (c *LineChart) Probe(coords schema.SharedCoords) schema.ProbeResult {
	return c.crosshair.Probe(coords)
}

// PixelToDomain inverts a chart-local pixel position.
func (c *LineChart) PixelToDomain(px, py float64) schema.SharedCoords {
	xs, ys := c.scales.Scales()
	return schema.SharedCoords{X: xs.ToDomain(px), Y: ys.ToDomain(py)}
}

// TypicalSpacing returns the cached spacing on the hit-test axis. Half of it is the hit radius.
func (c *LineChart) TypicalSpacing() (float64, bool) { return c.crosshair.TypicalSpacing() }

// Series returns a copy of all series.
func (c *LineChart) Series() []schema.Series { return c.store.Snapshot() }

// Diagnostics returns the dropped emissions so far.
func (c *LineChart) Diagnostics() []Diagnostic { return c.emitter.Diagnostics() }

func (c *LineChart) guard() error {
	if c.emitter.Dispatching() {
		return contract.ErrReentrantCall
	}
	return nil
}

func (c *LineChart) render() {
	c.crosshair.Reset()
	if c.target != nil {
		c.target.UpdateCrosshair(c.crosshair.View())
	}
	c.renderSeries()
}

func (c *LineChart) renderSeries() {
	xs, ys := c.scales.Scales()
	c.lastPlan = BuildRenderPlan(c.store, xs, ys, c.options.Layout)
	if c.target != nil {
		c.target.Render(c.lastPlan)
	}
}
