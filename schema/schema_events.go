package schema

import "time"

// PointerEvent is a pointer position reported by the host.
// PX/PY are chart-local pixels; ClientX/ClientY are screen coordinates passed through to payloads.
type PointerEvent struct {
	PX      float64 `json:"px"`
	PY      float64 `json:"py"`
	ClientX float64 `json:"client_x"`
	ClientY float64 `json:"client_y"`
}

// SharedCoords carries domain coordinates pushed from another chart.
// Only the axes the receiving orientation draws on are read.
type SharedCoords struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// HitSeries is one accepted hit in a mouse move payload.
type HitSeries struct {
	Value float64 `json:"value"`
	Key   float64 `json:"key"`
	Color string  `json:"color"`
	Label string  `json:"label"`
}

// MouseMovePayload is emitted for every processed in-area pointer move.
type MouseMovePayload struct {
	X          float64     `json:"x"`
	Y          float64     `json:"y"`
	XValue     float64     `json:"x_value"`
	YValue     float64     `json:"y_value"`
	Series     []HitSeries `json:"series"`
	ChartX     float64     `json:"chart_x"`
	ChartWidth float64     `json:"chart_width"`
}

// Clone returns a payload that shares no slice storage with p.
func (p MouseMovePayload) Clone() MouseMovePayload {
	p.Series = append([]HitSeries(nil), p.Series...)
	return p
}

// SharedCrosshairPayload is broadcast so other charts can mirror the crosshair.
type SharedCrosshairPayload struct {
	Datapoints []Datapoint `json:"datapoints"`
	EventX     float64     `json:"event_x"`
	EventY     float64     `json:"event_y"`
	XValue     float64     `json:"x_value"`
	YValue     float64     `json:"y_value"`
}

// Clone returns a payload that shares no slice storage with p.
func (p SharedCrosshairPayload) Clone() SharedCrosshairPayload {
	p.Datapoints = append([]Datapoint(nil), p.Datapoints...)
	return p
}

// Range is a closed domain interval.
type Range struct {
	Start float64 `json:"start"`
	End   float64 `json:"end"`
}

// ZoomOutPayload carries the domain center(s) of the chart: [x] or [x, y].
type ZoomOutPayload struct {
	Centers []float64 `json:"centers"`
}

// Clone returns a payload that shares no slice storage with p.
func (p ZoomOutPayload) Clone() ZoomOutPayload {
	p.Centers = append([]float64(nil), p.Centers...)
	return p
}

// SyncKind is the action carried by a sync message.
type SyncKind string

// Sync message kinds.
const (
	SyncMove SyncKind = "move"
	SyncHide SyncKind = "hide"
)

// SyncMessage is the wire form of a shared crosshair update between charts.
// Origin is the sending chart's ID so a chart can drop its own messages.
type SyncMessage struct {
	ID        string       `json:"id"`
	Origin    string       `json:"origin"`
	Kind      SyncKind     `json:"kind"`
	Coords    SharedCoords `json:"coords"`
	Timestamp time.Time    `json:"timestamp"`
}
