package algo

import "github.com/chartwerk/line-chart/schema"

// Classify compares two consecutive values. Equal values are flat.
func Classify(prev, next float64) schema.Direction {
	switch {
	case next > prev:
		return schema.Increasing
	case next < prev:
		return schema.Decreasing
	default:
		return schema.Flat
	}
}

// ClassifyTransitions splits a series into one segment per consecutive pair.
func ClassifyTransitions(points []schema.Datapoint) []schema.Segment {
	if len(points) < 2 {
		return nil
	}
	segments := make([]schema.Segment, 0, len(points)-1)
	for i := 1; i < len(points); i++ {
		segments = append(segments, schema.Segment{
			From:      points[i-1],
			To:        points[i],
			Direction: Classify(points[i-1].Value, points[i].Value),
		})
	}
	return segments
}

// CountDirections tallies segments per direction.
func CountDirections(segments []schema.Segment) map[schema.Direction]int {
	counts := map[schema.Direction]int{
		schema.Increasing: 0,
		schema.Decreasing: 0,
		schema.Flat:       0,
	}
	for _, s := range segments {
		counts[s.Direction]++
	}
	return counts
}
