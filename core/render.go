package core

import (
	"github.com/chartwerk/line-chart/core/algo"
	"github.com/chartwerk/line-chart/internal/contract"
	"github.com/chartwerk/line-chart/schema"
)

// BuildRenderPlan describes what to draw for the current store contents.
// An empty store yields a NoData plan with the placeholder centered in layout.
func BuildRenderPlan(store *SeriesStore, xs, ys contract.ScaleAdapter, layout schema.Layout) schema.RenderPlan {
	plan := schema.RenderPlan{Layout: layout}
	if store.Empty() {
		plan.NoData = true
		plan.Placeholder = &schema.Placeholder{
			Text: schema.NoDataText,
			X:    layout.Width / 2,
			Y:    layout.Height / 2,
		}
		return plan
	}

	for i := 0; i < store.Len(); i++ {
		s := store.At(i)
		if s.Hidden || store.IsBound(i) {
			continue
		}
		metric := schema.MetricPlan{
			Index:       i,
			Target:      s.Target,
			Label:       s.Label(),
			Color:       s.Color,
			Mode:        s.EffectiveMode(),
			RenderDots:  s.RenderDots,
			RenderLines: s.RenderLines,
		}

		switch metric.Mode {
		case schema.ChargeMode:
			metric.Segments = projectSegments(algo.ClassifyTransitions(s.Datapoints), xs, ys)
		default:
			metric.Path = projectPath(s.Datapoints, xs, ys)
		}

		if s.Confidence > 0 {
			metric.Confidence = confidenceBand(s.Datapoints, s.Confidence, xs, ys)
		}

		upper, lower := store.BoundsFor(i)
		if upper != nil || lower != nil {
			metric.Bound = boundBand(s.Datapoints, upper, lower, xs, ys)
		}

		plan.Metrics = append(plan.Metrics, metric)
	}
	return plan
}

func projectPath(points []schema.Datapoint, xs, ys contract.ScaleAdapter) []schema.PixelPoint {
	out := make([]schema.PixelPoint, len(points))
	for i, dp := range points {
		out[i] = schema.PixelPoint{X: xs.ToPixel(dp.Key), Y: ys.ToPixel(dp.Value)}
	}
	return out
}

func projectSegments(segments []schema.Segment, xs, ys contract.ScaleAdapter) []schema.PixelSegment {
	out := make([]schema.PixelSegment, len(segments))
	for i, seg := range segments {
		out[i] = schema.PixelSegment{
			From:      schema.PixelPoint{X: xs.ToPixel(seg.From.Key), Y: ys.ToPixel(seg.From.Value)},
			To:        schema.PixelPoint{X: xs.ToPixel(seg.To.Key), Y: ys.ToPixel(seg.To.Value)},
			Direction: seg.Direction,
		}
	}
	return out
}

// confidenceBand shades value ± confidence around each point.
func confidenceBand(points []schema.Datapoint, confidence float64, xs, ys contract.ScaleAdapter) []schema.BandPoint {
	out := make([]schema.BandPoint, len(points))
	for i, dp := range points {
		out[i] = schema.BandPoint{
			X:     xs.ToPixel(dp.Key),
			Upper: ys.ToPixel(dp.Value + confidence),
			Lower: ys.ToPixel(dp.Value - confidence),
		}
	}
	return out
}

// boundBand zips primary, upper and lower by index. Keys are taken from the primary
// and never matched against the bound series. A missing side falls back to the
// primary's own values. The band stops at the shortest of the three.
func boundBand(primary []schema.Datapoint, upper, lower *schema.Series, xs, ys contract.ScaleAdapter) []schema.BandPoint {
	upperPoints, lowerPoints := primary, primary
	if upper != nil {
		upperPoints = upper.Datapoints
	}
	if lower != nil {
		lowerPoints = lower.Datapoints
	}
	n := min(len(primary), len(upperPoints), len(lowerPoints))
	out := make([]schema.BandPoint, n)
	for i := 0; i < n; i++ {
		out[i] = schema.BandPoint{
			X:     xs.ToPixel(primary[i].Key),
			Upper: ys.ToPixel(upperPoints[i].Value),
			Lower: ys.ToPixel(lowerPoints[i].Value),
		}
	}
	return out
}
