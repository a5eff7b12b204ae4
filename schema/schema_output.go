package schema

// ProbeHit is one series' outcome for a probe, hit or not.
type ProbeHit struct {
	Target   string    `json:"target"`
	Label    string    `json:"label"`
	Nearest  Datapoint `json:"nearest"`
	Distance float64   `json:"distance"`
	Hit      bool      `json:"hit"`
}

// ProbeResult is the result of probing a chart at one position.
type ProbeResult struct {
	Orientation Orientation     `json:"orientation"`
	Axis        AxisKey         `json:"axis"`
	Position    SharedCoords    `json:"position"`
	Spacing     float64         `json:"spacing"`
	SpacingOK   bool            `json:"spacing_defined"`
	Status      CrosshairStatus `json:"status"`
	Hits        []ProbeHit      `json:"hits"`
}

// SpacingResult is the typical spacing per series plus the chart-wide maximum.
type SpacingResult struct {
	Axis      AxisKey            `json:"axis"`
	PerSeries map[string]float64 `json:"per_series"`
	Spacing   float64            `json:"spacing"`
	Defined   bool               `json:"defined"`
}

// SegmentsResult is the charge classification of one series.
type SegmentsResult struct {
	Target   string    `json:"target"`
	Segments []Segment `json:"segments"`
}

// SeriesSummary describes the buffered state of one series.
type SeriesSummary struct {
	Target    string  `json:"target"`
	Visible   bool    `json:"visible"`
	Count     int     `json:"count"`
	MaxLength int     `json:"max_length"`
	FirstKey  float64 `json:"first_key"`
	LastKey   float64 `json:"last_key"`
	LastValue float64 `json:"last_value"`
}

// SummarizeSeries builds a summary row for each series.
func SummarizeSeries(series []Series) []SeriesSummary {
	out := make([]SeriesSummary, 0, len(series))
	for i := range series {
		s := &series[i]
		sum := SeriesSummary{
			Target:    s.Target,
			Visible:   s.Visible(),
			Count:     len(s.Datapoints),
			MaxLength: s.MaxLength,
		}
		if n := len(s.Datapoints); n > 0 {
			sum.FirstKey = s.Datapoints[0].Key
			sum.LastKey = s.Datapoints[n-1].Key
			sum.LastValue = s.Datapoints[n-1].Value
		}
		out = append(out, sum)
	}
	return out
}
