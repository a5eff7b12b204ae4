//go:build integration

// Package integration contains integration tests for linechart.
// These tests are excluded from normal test runs due to build tags.
// To run these tests: go test -tags integration ./integration
package integration

import (
	"encoding/json"
	"fmt"
	"math"
	"os"
	"strings"
	"testing"

	"github.com/chartwerk/line-chart/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// bruteNearest scans every datapoint for the smallest key distance, preferring the later one on ties.
func bruteNearest(points []schema.Datapoint, x float64) schema.Datapoint {
	best := points[0]
	for _, dp := range points[1:] {
		if math.Abs(dp.Key-x) <= math.Abs(best.Key-x) {
			best = dp
		}
	}
	return best
}

// TestProbeVerification runs linechart probe across the domain and checks every
// reported nearest datapoint and hit verdict against a linear scan.
func TestProbeVerification(t *testing.T) {
	dir := t.TempDir()
	path := writeFixture(t, dir, "series.json", fixtureSeries)

	var fixture []struct {
		Target     string       `json:"target"`
		Datapoints [][2]float64 `json:"datapoints"`
	}
	require.NoError(t, json.Unmarshal([]byte(fixtureSeries), &fixture))
	series := make(map[string][]schema.Datapoint, len(fixture))
	for _, s := range fixture {
		for _, pair := range s.Datapoints {
			series[s.Target] = append(series[s.Target], schema.Datapoint{Value: pair[0], Key: pair[1]})
		}
	}

	// The coarsest series steps by 20, so the hit radius is 10.
	const radius = 10.0
	for _, x := range []float64{-15, 0, 3, 9, 14, 26, 33, 40, 52, 61} {
		t.Run(fmt.Sprintf("x=%v", x), func(t *testing.T) {
			out, err := runLinechart(t, dir, nil, "probe", path,
				"--orientation", "vertical", "--x", fmt.Sprint(x), "--output", "json")
			require.NoError(t, err)

			var result schema.ProbeResult
			require.NoError(t, json.Unmarshal([]byte(out), &result))
			assert.Equal(t, 2*radius, result.Spacing)
			require.Len(t, result.Hits, len(series))

			for _, hit := range result.Hits {
				want := bruteNearest(series[hit.Target], x)
				assert.Equal(t, want.Key, hit.Nearest.Key, "nearest key for %s", hit.Target)
				assert.Equal(t, math.Abs(want.Key-x) <= radius, hit.Hit, "hit verdict for %s", hit.Target)
			}
		})
	}
}

// TestStreamVerification replays ticks through linechart stream and checks the bounded buffers.
// Each append evicts at most one datapoint, so a series loaded above its max length stays above it.
func TestStreamVerification(t *testing.T) {
	dir := t.TempDir()
	path := writeFixture(t, dir, "series.json", fixtureSeries)

	var ticks []string
	for i := 1; i <= 4; i++ {
		key := 40 + 10*i
		ticks = append(ticks, fmt.Sprintf(`{"values":[{"value":%d,"key":%d},{"value":%d,"key":%d}]}`, i, key, 10+i, key))
	}
	input := writeFixture(t, dir, "ticks.jsonl", strings.Join(ticks, "\n"))

	stdin, err := os.Open(input)
	require.NoError(t, err)
	defer func() { _ = stdin.Close() }()

	out, err := runLinechartWithInput(t, dir, stdin, "stream", path,
		"--orientation", "vertical", "--max-length", "4", "--output", "json")
	require.NoError(t, err)

	var buffers []schema.Series
	require.NoError(t, json.Unmarshal([]byte(out), &buffers))
	require.Len(t, buffers, 2)
	keys := func(s schema.Series) []float64 {
		out := make([]float64, 0, len(s.Datapoints))
		for _, dp := range s.Datapoints {
			out = append(out, dp.Key)
		}
		return out
	}
	assert.Equal(t, []float64{40, 50, 60, 70, 80}, keys(buffers[0]), "cpu started above its max length")
	assert.Equal(t, []float64{50, 60, 70, 80}, keys(buffers[1]), "mem filled up then slid")
}
