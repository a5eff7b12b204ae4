package core

import (
	"testing"

	"github.com/chartwerk/line-chart/internal/contract"
	"github.com/chartwerk/line-chart/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAppendBoundedFIFO(t *testing.T) {
	for _, n := range []int{1, 2, 5, 50} {
		s := schema.Series{Target: "a", MaxLength: n}
		for i := 0; i <= n; i++ {
			appended, _ := AppendBounded(&s, schema.Datapoint{Key: float64(i), Value: float64(i)})
			require.True(t, appended)
		}
		require.Len(t, s.Datapoints, n)
		for i, dp := range s.Datapoints {
			assert.Equal(t, float64(i+1), dp.Key, "retains the %d most recent", n)
		}
	}
}

func TestAppendBoundedEvictsExactlyOne(t *testing.T) {
	s := mkSeries("a", 0, 0, 1, 1, 2, 2, 3, 3, 4, 4)
	s.MaxLength = 2

	appended, evicted := AppendBounded(&s, schema.Datapoint{Key: 5, Value: 5})
	assert.True(t, appended)
	assert.True(t, evicted)
	assert.Len(t, s.Datapoints, 5)
	assert.Equal(t, 1.0, s.Datapoints[0].Key)
}

func TestAppendBoundedUnbounded(t *testing.T) {
	s := schema.Series{Target: "a"}
	for i := 0; i < 1000; i++ {
		_, evicted := AppendBounded(&s, schema.Datapoint{Key: float64(i)})
		assert.False(t, evicted)
	}
	assert.Len(t, s.Datapoints, 1000)
}

func TestAppendBoundedSkipsHidden(t *testing.T) {
	s := mkSeries("a", 0, 0, 1, 1)
	s.Hidden = true
	s.MaxLength = 1

	appended, evicted := AppendBounded(&s, schema.Datapoint{Key: 2, Value: 2})
	assert.False(t, appended)
	assert.False(t, evicted)
	assert.Len(t, s.Datapoints, 2)
}

func TestStreamingBufferAppendAll(t *testing.T) {
	hidden := mkSeries("b", 0, 10)
	hidden.Hidden = true
	bounded := mkSeries("c", 0, 20, 1, 21)
	bounded.MaxLength = 2

	store := NewSeriesStore(schema.BoundConfig{})
	store.Replace([]schema.Series{mkSeries("a", 0, 0), hidden, bounded})
	buffer := NewStreamingBuffer(store)
	v := store.Version()

	res, err := buffer.AppendAll([]schema.Datapoint{{Key: 1, Value: 1}, {Key: 1, Value: 11}, {Key: 2, Value: 22}})
	require.NoError(t, err)
	assert.Equal(t, AppendResult{Appended: 2, Evicted: 1, Skipped: 1}, res)
	assert.Greater(t, store.Version(), v)

	assert.Len(t, store.At(0).Datapoints, 2)
	assert.Len(t, store.At(1).Datapoints, 1)
	assert.Equal(t, []schema.Datapoint{{Key: 1, Value: 21}, {Key: 2, Value: 22}}, store.At(2).Datapoints)
}

func TestStreamingBufferValueCountMismatch(t *testing.T) {
	store := NewSeriesStore(schema.BoundConfig{})
	store.Replace([]schema.Series{mkSeries("a", 0, 0), mkSeries("b", 0, 0)})
	v := store.Version()

	_, err := NewStreamingBuffer(store).AppendAll([]schema.Datapoint{{Key: 1}})
	assert.ErrorIs(t, err, contract.ErrValueCountMismatch)
	assert.Equal(t, v, store.Version())
	assert.Len(t, store.At(0).Datapoints, 1)
}
