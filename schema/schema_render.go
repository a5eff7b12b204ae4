package schema

// PixelPoint is a position in chart-local pixels.
type PixelPoint struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// BandPoint is one vertical slice of a shaded region.
type BandPoint struct {
	X     float64 `json:"x"`
	Upper float64 `json:"upper"`
	Lower float64 `json:"lower"`
}

// Segment is one classified transition between consecutive datapoints.
type Segment struct {
	From      Datapoint `json:"from"`
	To        Datapoint `json:"to"`
	Direction Direction `json:"direction"`
}

// PixelSegment is a Segment projected to pixels.
type PixelSegment struct {
	From      PixelPoint `json:"from"`
	To        PixelPoint `json:"to"`
	Direction Direction  `json:"direction"`
}

// MetricPlan describes how one visible primary series should be drawn.
type MetricPlan struct {
	Index       int            `json:"index"`
	Target      string         `json:"target"`
	Label       string         `json:"label"`
	Color       string         `json:"color"`
	Mode        SeriesMode     `json:"mode"`
	RenderDots  bool           `json:"render_dots"`
	RenderLines bool           `json:"render_lines"`
	Path        []PixelPoint   `json:"path,omitempty"`
	Segments    []PixelSegment `json:"segments,omitempty"`
	Confidence  []BandPoint    `json:"confidence,omitempty"`
	Bound       []BandPoint    `json:"bound,omitempty"`
}

// Placeholder is the explicit empty-data state.
type Placeholder struct {
	Text string  `json:"text"`
	X    float64 `json:"x"`
	Y    float64 `json:"y"`
}

// RenderPlan is the full description handed to a render target on each render pass.
type RenderPlan struct {
	NoData      bool         `json:"no_data"`
	Placeholder *Placeholder `json:"placeholder,omitempty"`
	Metrics     []MetricPlan `json:"metrics,omitempty"`
	Layout      Layout       `json:"layout"`
}

// Highlight is the cached marker of one series on the crosshair.
type Highlight struct {
	SeriesIndex int        `json:"series_index"`
	Target      string     `json:"target"`
	Datapoint   Datapoint  `json:"datapoint"`
	Pixel       PixelPoint `json:"pixel"`
	Visible     bool       `json:"visible"`
}

// CrosshairView is what a render target needs to draw the crosshair.
// LineX/LineY are nil when the orientation does not draw that guide line.
type CrosshairView struct {
	Visible     bool        `json:"visible"`
	Orientation Orientation `json:"orientation"`
	LineX       *float64    `json:"line_x,omitempty"`
	LineY       *float64    `json:"line_y,omitempty"`
	Highlights  []Highlight `json:"highlights,omitempty"`
}

// CrosshairState is a snapshot of the controller state.
type CrosshairState struct {
	Status      CrosshairStatus `json:"status"`
	Orientation Orientation     `json:"orientation"`
	Position    *SharedCoords   `json:"position,omitempty"`
	Highlights  []Highlight     `json:"highlights,omitempty"`
}
