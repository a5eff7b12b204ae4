package algo

import (
	"math"

	"github.com/chartwerk/line-chart/schema"
)

// SeriesSpacing returns |last-first|/(n-1) over the key component.
// It assumes uniform sampling and is undefined for fewer than two points.
func SeriesSpacing(points []schema.Datapoint, key schema.AxisKey) (float64, bool) {
	n := len(points)
	if n < 2 {
		return 0, false
	}
	return math.Abs(points[n-1].Axis(key)-points[0].Axis(key)) / float64(n-1), true
}

// TypicalSpacing returns the coarsest SeriesSpacing across the set.
// It is undefined when no series has at least two points.
func TypicalSpacing(series [][]schema.Datapoint, key schema.AxisKey) (float64, bool) {
	best, defined := 0.0, false
	for _, points := range series {
		spacing, ok := SeriesSpacing(points, key)
		if !ok {
			continue
		}
		if !defined || spacing > best {
			best = spacing
			defined = true
		}
	}
	return best, defined
}

// Extent returns the min and max of the key component, false when points is empty.
func Extent(points []schema.Datapoint, key schema.AxisKey) (lo, hi float64, ok bool) {
	for i, p := range points {
		v := p.Axis(key)
		if i == 0 {
			lo, hi = v, v
			continue
		}
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}
	return lo, hi, len(points) > 0
}
