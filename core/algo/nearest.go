// Package algo has the pure search and classification algorithms behind the chart core.
package algo

import (
	"math"
	"sort"

	"github.com/chartwerk/line-chart/schema"
)

// FindClosest returns the index of the datapoint whose key component is closest to target.
// Points must be sorted ascending by that component. The search is a lower-bound binary
// search clamped to both ends; on an exact distance tie the higher index wins.
// The second return value is false only when points is empty.
func FindClosest(points []schema.Datapoint, target float64, key schema.AxisKey) (int, bool) {
	n := len(points)
	if n == 0 {
		return 0, false
	}

	i := sort.Search(n, func(j int) bool {
		return points[j].Axis(key) >= target
	})

	switch {
	case i <= 0:
		return 0, true
	case i >= n:
		return n - 1, true
	}

	before := math.Abs(target - points[i-1].Axis(key))
	after := math.Abs(target - points[i].Axis(key))
	if before < after {
		return i - 1, true
	}
	return i, true
}

// ClosestDatapoint is FindClosest returning the datapoint itself.
func ClosestDatapoint(points []schema.Datapoint, target float64, key schema.AxisKey) (schema.Datapoint, bool) {
	idx, ok := FindClosest(points, target, key)
	if !ok {
		return schema.Datapoint{}, false
	}
	return points[idx], true
}
