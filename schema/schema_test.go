package schema

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormatBound(t *testing.T) {
	tests := []struct {
		label, target, want string
	}{
		{"$__metric_name upper", "cpu", "cpu upper"},
		{"lower($__metric_name)", "mem.used", "lower(mem.used)"},
		{"static", "cpu", "static"},
		{"", "cpu", ""},
		{"$__metric_name/$__metric_name", "a", "a/a"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, FormatBound(tt.label, tt.target), "label %q", tt.label)
	}
}

func TestDatapointAxis(t *testing.T) {
	dp := Datapoint{Value: 3, Key: 10}
	assert.Equal(t, 10.0, dp.Axis(AxisX))
	assert.Equal(t, 3.0, dp.Axis(AxisY))
}

func TestSeriesLabelAndMode(t *testing.T) {
	s := Series{Target: "cpu"}
	assert.Equal(t, "cpu", s.Label())
	assert.Equal(t, StandardMode, s.EffectiveMode())

	s.Alias = "CPU %"
	s.Mode = ChargeMode
	assert.Equal(t, "CPU %", s.Label())
	assert.Equal(t, ChargeMode, s.EffectiveMode())
}

func TestSeriesClone(t *testing.T) {
	s := Series{Target: "a", Datapoints: []Datapoint{{Value: 1, Key: 0}}}
	c := s.Clone()
	c.Datapoints[0].Value = 99
	assert.Equal(t, 1.0, s.Datapoints[0].Value)
}

func TestPayloadClonesAreIndependent(t *testing.T) {
	mm := MouseMovePayload{Series: []HitSeries{{Value: 1}}}
	mmc := mm.Clone()
	mmc.Series[0].Value = 2
	assert.Equal(t, 1.0, mm.Series[0].Value)

	sc := SharedCrosshairPayload{Datapoints: []Datapoint{{Value: 1}}}
	scc := sc.Clone()
	scc.Datapoints[0].Value = 2
	assert.Equal(t, 1.0, sc.Datapoints[0].Value)

	zo := ZoomOutPayload{Centers: []float64{5}}
	zoc := zo.Clone()
	zoc.Centers[0] = 6
	assert.Equal(t, 5.0, zo.Centers[0])
}

func TestSummarizeSeries(t *testing.T) {
	series := []Series{
		{Target: "a", MaxLength: 3, Datapoints: []Datapoint{{Value: 1, Key: 0}, {Value: 4, Key: 10}}},
		{Target: "empty", Hidden: true},
	}
	sums := SummarizeSeries(series)
	assert.Len(t, sums, 2)
	assert.Equal(t, SeriesSummary{Target: "a", Visible: true, Count: 2, MaxLength: 3, FirstKey: 0, LastKey: 10, LastValue: 4}, sums[0])
	assert.Equal(t, SeriesSummary{Target: "empty"}, sums[1])
}

func TestBoundConfigEnabled(t *testing.T) {
	assert.False(t, BoundConfig{}.Enabled())
	assert.True(t, BoundConfig{Upper: "u"}.Enabled())
	assert.True(t, BoundConfig{Lower: "l"}.Enabled())
}
