package core

import (
	"fmt"
	"math"
	"sort"

	"github.com/chartwerk/line-chart/core/algo"
	"github.com/chartwerk/line-chart/internal/contract"
	"github.com/chartwerk/line-chart/schema"
)

// Resolve sources reported to the recorder.
const (
	sourcePointer = "pointer"
	sourceShared  = "shared"
)

// AxisKeyFor returns the datapoint component the orientation hit-tests on.
// Both hit-tests on the value axis only, although it draws both guide lines.
func AxisKeyFor(o schema.Orientation) (schema.AxisKey, error) {
	switch o {
	case schema.Vertical:
		return schema.AxisX, nil
	case schema.Horizontal, schema.Both:
		return schema.AxisY, nil
	default:
		return "", fmt.Errorf("%w: %q", contract.ErrUnknownOrientation, o)
	}
}

// WithinHitRadius reports whether a candidate at distance is a hit for the given spacing.
// With no defined spacing every candidate is accepted.
func WithinHitRadius(distance, spacing float64, defined bool) bool {
	return !defined || distance <= spacing/2
}

// CrosshairParams wires a CrosshairController. Target and Recorder are optional.
type CrosshairParams struct {
	Orientation schema.Orientation
	Store       *SeriesStore
	Scales      ScaleSource
	Layout      schema.Layout
	Sink        contract.EventSink
	Target      contract.RenderTarget
	Recorder    contract.ChartRecorder
}

// spacingCache holds the typical spacing for one store version.
type spacingCache struct {
	version uint64
	valid   bool
	value   float64
	defined bool
}

// CrosshairController is the crosshair state machine. It is not safe for
// concurrent use; drive it from one goroutine (see EventLoop).
type CrosshairController struct {
	orientation schema.Orientation
	key         schema.AxisKey
	store       *SeriesStore
	scales      ScaleSource
	layout      schema.Layout
	sink        contract.EventSink
	target      contract.RenderTarget
	recorder    contract.ChartRecorder

	status     schema.CrosshairStatus
	position   *schema.SharedCoords
	pixel      schema.PixelPoint
	highlights map[int]schema.Highlight
	spacing    spacingCache
}

// NewCrosshairController validates the orientation and returns a hidden crosshair.
func NewCrosshairController(p CrosshairParams) (*CrosshairController, error) {
	key, err := AxisKeyFor(p.Orientation)
	if err != nil {
		return nil, err
	}
	return &CrosshairController{
		orientation: p.Orientation,
		key:         key,
		store:       p.Store,
		scales:      p.Scales,
		layout:      p.Layout,
		sink:        p.Sink,
		target:      p.Target,
		recorder:    p.Recorder,
		status:      schema.CrosshairHidden,
		highlights:  map[int]schema.Highlight{},
	}, nil
}

// Status returns the current state.
func (c *CrosshairController) Status() schema.CrosshairStatus { return c.status }

// AxisKey returns the hit-test axis.
func (c *CrosshairController) AxisKey() schema.AxisKey { return c.key }

// Reset discards all crosshair state without notifying the host.
func (c *CrosshairController) Reset() {
	c.status = schema.CrosshairHidden
	c.position = nil
	c.pixel = schema.PixelPoint{}
	c.highlights = map[int]schema.Highlight{}
}

// PointerEnter shows the crosshair with no hits.
func (c *CrosshairController) PointerEnter() {
	if c.status != schema.CrosshairHidden {
		return
	}
	c.status = schema.CrosshairVisibleNoHit
	c.publishView()
}

// PointerLeave hides the crosshair. The host's mouseOut fires only on a visible-to-hidden transition.
func (c *CrosshairController) PointerLeave() {
	c.hide(true)
}

// PointerMove processes a local pointer position. A position outside the plotted
// extent hides the crosshair like PointerLeave.
func (c *CrosshairController) PointerMove(ev schema.PointerEvent) {
	xs, ys := c.scales.Scales()
	coords := schema.SharedCoords{X: xs.ToDomain(ev.PX), Y: ys.ToDomain(ev.PY)}
	if !c.inExtent(coords, xs, ys) {
		c.hide(true)
		return
	}

	hits, points := c.moveTo(coords, schema.PixelPoint{X: ev.PX, Y: ev.PY}, sourcePointer)

	c.sink.MouseMove(schema.MouseMovePayload{
		X:          ev.ClientX,
		Y:          ev.ClientY,
		XValue:     coords.X,
		YValue:     coords.Y,
		Series:     hits,
		ChartX:     ev.PX,
		ChartWidth: c.layout.Width,
	})
	c.sink.SharedCrosshairMove(schema.SharedCrosshairPayload{
		Datapoints: points,
		EventX:     ev.PX,
		EventY:     ev.PY,
		XValue:     coords.X,
		YValue:     coords.Y,
	})
}

// RenderShared applies coordinates pushed from another chart. Highlights and the
// mouseMove emission match a local move; nothing is re-broadcast, and leaving the
// extent hides silently.
func (c *CrosshairController) RenderShared(coords schema.SharedCoords) {
	xs, ys := c.scales.Scales()
	if !c.inExtent(coords, xs, ys) {
		c.hide(false)
		return
	}

	px := schema.PixelPoint{X: xs.ToPixel(coords.X), Y: ys.ToPixel(coords.Y)}
	hits, _ := c.moveTo(coords, px, sourceShared)

	c.sink.MouseMove(schema.MouseMovePayload{
		X:          px.X,
		Y:          px.Y,
		XValue:     coords.X,
		YValue:     coords.Y,
		Series:     hits,
		ChartX:     px.X,
		ChartWidth: c.layout.Width,
	})
}

// HideShared hides the crosshair without notifying the host. Calling it again is a no-op.
func (c *CrosshairController) HideShared() {
	c.hide(false)
}

// Probe runs the hit test at coords without changing state or emitting anything.
func (c *CrosshairController) Probe(coords schema.SharedCoords) schema.ProbeResult {
	spacing, defined := c.typicalSpacing()
	target := c.axisValue(coords)
	res := schema.ProbeResult{
		Orientation: c.orientation,
		Axis:        c.key,
		Position:    coords,
		Spacing:     spacing,
		SpacingOK:   defined,
		Status:      schema.CrosshairVisibleNoHit,
		Hits:        []schema.ProbeHit{},
	}
	for i := 0; i < c.store.Len(); i++ {
		s := c.store.At(i)
		if s.Hidden || c.store.IsBound(i) {
			continue
		}
		dp, ok := algo.ClosestDatapoint(s.Datapoints, target, c.key)
		if !ok {
			continue
		}
		distance := math.Abs(dp.Axis(c.key) - target)
		hit := WithinHitRadius(distance, spacing, defined)
		if hit {
			res.Status = schema.CrosshairVisibleHit
		}
		res.Hits = append(res.Hits, schema.ProbeHit{
			Target:   s.Target,
			Label:    s.Label(),
			Nearest:  dp,
			Distance: distance,
			Hit:      hit,
		})
	}
	return res
}

// TypicalSpacing returns the cached spacing on the hit-test axis.
func (c *CrosshairController) TypicalSpacing() (float64, bool) {
	return c.typicalSpacing()
}

// View returns what a render target needs to draw the crosshair.
func (c *CrosshairController) View() schema.CrosshairView {
	view := schema.CrosshairView{
		Visible:     c.status != schema.CrosshairHidden,
		Orientation: c.orientation,
	}
	if !view.Visible || c.position == nil {
		return view
	}
	if c.orientation == schema.Vertical || c.orientation == schema.Both {
		lineX := c.pixel.X
		view.LineX = &lineX
	}
	if c.orientation == schema.Horizontal || c.orientation == schema.Both {
		lineY := c.pixel.Y
		view.LineY = &lineY
	}
	view.Highlights = c.sortedHighlights()
	return view
}

// State returns a copy of the controller state.
func (c *CrosshairController) State() schema.CrosshairState {
	state := schema.CrosshairState{
		Status:      c.status,
		Orientation: c.orientation,
		Highlights:  c.sortedHighlights(),
	}
	if c.position != nil {
		pos := *c.position
		state.Position = &pos
	}
	return state
}

func (c *CrosshairController) moveTo(coords schema.SharedCoords, px schema.PixelPoint, source string) ([]schema.HitSeries, []schema.Datapoint) {
	c.position = &coords
	c.pixel = px
	hits, points := c.resolve(coords)
	if len(hits) > 0 {
		c.status = schema.CrosshairVisibleHit
	} else {
		c.status = schema.CrosshairVisibleNoHit
	}
	if c.recorder != nil {
		c.recorder.RecordResolve(source, len(hits))
	}
	c.publishView()
	return hits, points
}

// resolve updates the highlight cache for every visible primary series and
// returns the accepted hits in series order.
func (c *CrosshairController) resolve(coords schema.SharedCoords) ([]schema.HitSeries, []schema.Datapoint) {
	spacing, defined := c.typicalSpacing()
	target := c.axisValue(coords)
	xs, ys := c.scales.Scales()

	hits := []schema.HitSeries{}
	points := []schema.Datapoint{}
	for i := 0; i < c.store.Len(); i++ {
		s := c.store.At(i)
		if s.Hidden || c.store.IsBound(i) {
			c.hideHighlight(i)
			continue
		}
		dp, ok := algo.ClosestDatapoint(s.Datapoints, target, c.key)
		if !ok || !WithinHitRadius(math.Abs(dp.Axis(c.key)-target), spacing, defined) {
			c.hideHighlight(i)
			continue
		}
		c.highlights[i] = schema.Highlight{
			SeriesIndex: i,
			Target:      s.Target,
			Datapoint:   dp,
			Pixel:       schema.PixelPoint{X: xs.ToPixel(dp.Key), Y: ys.ToPixel(dp.Value)},
			Visible:     true,
		}
		hits = append(hits, schema.HitSeries{Value: dp.Value, Key: dp.Key, Color: s.Color, Label: s.Label()})
		points = append(points, dp)
	}
	return hits, points
}

// hideHighlight hides a cached marker but keeps its last position.
func (c *CrosshairController) hideHighlight(i int) {
	if h, ok := c.highlights[i]; ok && h.Visible {
		h.Visible = false
		c.highlights[i] = h
	}
}

func (c *CrosshairController) hide(notify bool) {
	if c.status == schema.CrosshairHidden {
		return
	}
	c.status = schema.CrosshairHidden
	c.position = nil
	c.publishView()
	if notify {
		c.sink.MouseOut()
	}
}

func (c *CrosshairController) typicalSpacing() (float64, bool) {
	if !c.spacing.valid || c.spacing.version != c.store.Version() {
		value, defined := algo.TypicalSpacing(c.store.Primaries(), c.key)
		c.spacing = spacingCache{version: c.store.Version(), valid: true, value: value, defined: defined}
	}
	return c.spacing.value, c.spacing.defined
}

func (c *CrosshairController) axisValue(coords schema.SharedCoords) float64 {
	if c.key == schema.AxisY {
		return coords.Y
	}
	return coords.X
}

// inExtent checks coords against the extent of every axis the orientation draws on.
func (c *CrosshairController) inExtent(coords schema.SharedCoords, xs, ys contract.ScaleAdapter) bool {
	checkX := c.orientation == schema.Vertical || c.orientation == schema.Both
	checkY := c.orientation == schema.Horizontal || c.orientation == schema.Both
	if checkX && !within(coords.X, xs) {
		return false
	}
	if checkY && !within(coords.Y, ys) {
		return false
	}
	return true
}

func within(v float64, scale contract.ScaleAdapter) bool {
	lo, hi := scale.Extent()
	eps := 1e-9 * math.Max(1, hi-lo)
	return v >= lo-eps && v <= hi+eps
}

func (c *CrosshairController) sortedHighlights() []schema.Highlight {
	if len(c.highlights) == 0 {
		return nil
	}
	out := make([]schema.Highlight, 0, len(c.highlights))
	for _, h := range c.highlights {
		out = append(out, h)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].SeriesIndex < out[j].SeriesIndex })
	return out
}

func (c *CrosshairController) publishView() {
	if c.target != nil {
		c.target.UpdateCrosshair(c.View())
	}
}
