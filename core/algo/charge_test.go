package algo

import (
	"testing"

	"github.com/chartwerk/line-chart/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		prev, next float64
		want       schema.Direction
	}{
		{5, 3, schema.Decreasing},
		{2, 2, schema.Flat},
		{1, 4, schema.Increasing},
		{-1, -1, schema.Flat},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Classify(tt.prev, tt.next), "pair (%v,%v)", tt.prev, tt.next)
	}
}

func TestClassifyTransitions(t *testing.T) {
	assert.Nil(t, ClassifyTransitions(nil))
	assert.Nil(t, ClassifyTransitions([]schema.Datapoint{{Value: 1}}))

	points := []schema.Datapoint{{Value: 5, Key: 0}, {Value: 3, Key: 1}, {Value: 3, Key: 2}, {Value: 8, Key: 3}}
	segments := ClassifyTransitions(points)
	require.Len(t, segments, 3)
	assert.Equal(t, schema.Decreasing, segments[0].Direction)
	assert.Equal(t, schema.Flat, segments[1].Direction)
	assert.Equal(t, schema.Increasing, segments[2].Direction)
	assert.Equal(t, points[2], segments[2].From)
	assert.Equal(t, points[3], segments[2].To)

	counts := CountDirections(segments)
	assert.Equal(t, map[schema.Direction]int{schema.Increasing: 1, schema.Decreasing: 1, schema.Flat: 1}, counts)
}
