package core

import (
	"testing"

	"github.com/chartwerk/line-chart/schema"
	"github.com/stretchr/testify/assert"
)

func TestLinearScale(t *testing.T) {
	tests := []struct {
		name           string
		d0, d1, r0, r1 float64
		domain, pixel  float64
	}{
		{"identity", 0, 100, 0, 100, 25, 25},
		{"stretched", 0, 10, 0, 100, 2.5, 25},
		{"offset", 1000, 2000, 0, 500, 1500, 250},
		{"inverted range", 0, 10, 300, 0, 10, 0},
		{"inverted mid", 0, 10, 300, 0, 5, 150},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewLinearScale(tt.d0, tt.d1, tt.r0, tt.r1)
			assert.InDelta(t, tt.pixel, s.ToPixel(tt.domain), 1e-9)
			assert.InDelta(t, tt.domain, s.ToDomain(tt.pixel), 1e-9)
		})
	}
}

func TestLinearScaleDegenerate(t *testing.T) {
	s := NewLinearScale(5, 5, 0, 100)
	assert.Equal(t, 50.0, s.ToPixel(5))
	assert.Equal(t, 5.0, s.ToDomain(80))

	lo, hi := NewLinearScale(10, 0, 0, 100).Extent()
	assert.Equal(t, 0.0, lo)
	assert.Equal(t, 10.0, hi)
}

func TestAutoScalesRefitAfterAppend(t *testing.T) {
	store := NewSeriesStore(schema.BoundConfig{})
	s := mkSeries("a", 0, 10, 10, 20)
	s.Confidence = 5
	store.Replace([]schema.Series{s})
	auto := NewAutoScales(store, schema.Layout{Width: 200, Height: 100})

	xs, ys := auto.Scales()
	lo, hi := xs.Extent()
	assert.Equal(t, [2]float64{0, 10}, [2]float64{lo, hi})
	lo, hi = ys.Extent()
	assert.Equal(t, [2]float64{5, 25}, [2]float64{lo, hi}, "includes the confidence band")
	assert.Equal(t, 100.0, ys.ToPixel(5), "y grows downward")
	assert.Equal(t, 200.0, xs.ToPixel(10))

	NewStreamingBuffer(store).Append(0, schema.Datapoint{Key: 20, Value: 40})
	xs, ys = auto.Scales()
	_, hi = xs.Extent()
	assert.Equal(t, 20.0, hi)
	_, hi = ys.Extent()
	assert.Equal(t, 45.0, hi)
}

func TestAutoScalesIgnoreHiddenSeries(t *testing.T) {
	store := NewSeriesStore(schema.BoundConfig{})
	hidden := mkSeries("h", -100, -100, 500, 500)
	hidden.Hidden = true
	store.Replace([]schema.Series{mkSeries("a", 0, 0, 10, 10), hidden})

	xs, _ := NewAutoScales(store, schema.Layout{Width: 100, Height: 100}).Scales()
	lo, hi := xs.Extent()
	assert.Equal(t, 0.0, lo)
	assert.Equal(t, 10.0, hi)
}
