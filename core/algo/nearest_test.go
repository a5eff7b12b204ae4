package algo

import (
	"math"
	"testing"

	"github.com/chartwerk/line-chart/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// linear builds n points with keys start, start+step, ... and value = index.
func linear(n int, start, step float64) []schema.Datapoint {
	points := make([]schema.Datapoint, n)
	for i := range points {
		points[i] = schema.Datapoint{Value: float64(i), Key: start + float64(i)*step}
	}
	return points
}

// bruteClosest returns the highest index achieving the minimum distance.
func bruteClosest(points []schema.Datapoint, target float64, key schema.AxisKey) int {
	best := -1
	bestDist := math.Inf(1)
	for i, p := range points {
		d := math.Abs(target - p.Axis(key))
		if d <= bestDist {
			best, bestDist = i, d
		}
	}
	return best
}

func TestFindClosest(t *testing.T) {
	tests := []struct {
		name    string
		points  []schema.Datapoint
		target  float64
		wantIdx int
		wantOK  bool
	}{
		{"empty", nil, 5, 0, false},
		{"single before", linear(1, 10, 1), -100, 0, true},
		{"single after", linear(1, 10, 1), 100, 0, true},
		{"single exact", linear(1, 10, 1), 10, 0, true},
		{"two before first clamps to 0", linear(2, 0, 10), -1, 0, true},
		{"two after last clamps to last", linear(2, 0, 10), 11, 1, true},
		{"two nearer first", linear(2, 0, 10), 4.9, 0, true},
		{"two nearer second", linear(2, 0, 10), 7, 1, true},
		{"two tie prefers higher index", linear(2, 0, 10), 5, 1, true},
		{"exact match", linear(100, 0, 1), 42, 42, true},
		{"between prefers closer lower", linear(100, 0, 1), 42.3, 42, true},
		{"between prefers closer upper", linear(100, 0, 1), 42.7, 43, true},
		{"between tie prefers upper", linear(100, 0, 1), 42.5, 43, true},
		{"hundred before first", linear(100, 0, 1), -3, 0, true},
		{"hundred after last", linear(100, 0, 1), 1e9, 99, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			idx, ok := FindClosest(tt.points, tt.target, schema.AxisX)
			assert.Equal(t, tt.wantOK, ok)
			if ok {
				assert.Equal(t, tt.wantIdx, idx)
			}
		})
	}
}

func TestFindClosestScenario(t *testing.T) {
	points := []schema.Datapoint{{Value: 1, Key: 0}, {Value: 3, Key: 10}}
	dp, ok := ClosestDatapoint(points, 7, schema.AxisX)
	require.True(t, ok)
	assert.Equal(t, schema.Datapoint{Value: 3, Key: 10}, dp)
}

func TestFindClosestOnValueAxis(t *testing.T) {
	// Sorted by value for horizontal hit-testing.
	points := []schema.Datapoint{{Value: 1, Key: 30}, {Value: 5, Key: 10}, {Value: 9, Key: 20}}
	idx, ok := FindClosest(points, 6, schema.AxisY)
	require.True(t, ok)
	assert.Equal(t, 1, idx)
}

func TestClosestDatapointEmpty(t *testing.T) {
	dp, ok := ClosestDatapoint(nil, 1, schema.AxisX)
	assert.False(t, ok)
	assert.Equal(t, schema.Datapoint{}, dp)
}

func TestFindClosestMatchesBruteForce(t *testing.T) {
	for _, n := range []int{1, 2, 3, 100} {
		points := linear(n, -7, 2)
		for target := -20.0; target <= float64(2*n); target += 0.5 {
			idx, ok := FindClosest(points, target, schema.AxisX)
			require.True(t, ok)
			assert.Equal(t, bruteClosest(points, target, schema.AxisX), idx, "n=%d target=%v", n, target)
		}
	}
}

// FuzzFindClosest checks minimality and the higher-index tie rule on integer grids.
func FuzzFindClosest(f *testing.F) {
	f.Add(uint8(0), int16(0), uint8(1), int16(0))
	f.Add(uint8(1), int16(5), uint8(3), int16(-100))
	f.Add(uint8(2), int16(0), uint8(10), int16(5))
	f.Add(uint8(100), int16(-50), uint8(1), int16(25))

	f.Fuzz(func(t *testing.T, n uint8, start int16, step uint8, target int16) {
		if step == 0 {
			step = 1
		}
		points := linear(int(n), float64(start), float64(step))
		idx, ok := FindClosest(points, float64(target)/2, schema.AxisX)
		if n == 0 {
			if ok {
				t.Fatalf("expected not found for empty series")
			}
			return
		}
		if !ok || idx < 0 || idx >= len(points) {
			t.Fatalf("index %d out of range for %d points", idx, len(points))
		}
		if want := bruteClosest(points, float64(target)/2, schema.AxisX); want != idx {
			t.Fatalf("got %d, want %d", idx, want)
		}
	})
}
