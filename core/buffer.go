package core

import (
	"fmt"

	"github.com/chartwerk/line-chart/internal/contract"
	"github.com/chartwerk/line-chart/schema"
)

// AppendResult counts what one AppendData call did.
type AppendResult struct {
	Appended int `json:"appended"`
	Evicted  int `json:"evicted"`
	Skipped  int `json:"skipped"`
}

// AppendBounded appends dp to the tail of s and, when MaxLength is set and exceeded,
// evicts exactly one datapoint from the head. Hidden series are left untouched.
// The caller guarantees dp.Key is not below the current tail key.
func AppendBounded(s *schema.Series, dp schema.Datapoint) (appended, evicted bool) {
	if s.Hidden {
		return false, false
	}
	s.Datapoints = append(s.Datapoints, dp)
	if s.MaxLength > 0 && len(s.Datapoints) > s.MaxLength {
		// Shift in place to keep the backing array bounded.
		copy(s.Datapoints, s.Datapoints[1:])
		s.Datapoints = s.Datapoints[:len(s.Datapoints)-1]
		evicted = true
	}
	return true, evicted
}

// StreamingBuffer applies live ticks to a SeriesStore.
type StreamingBuffer struct {
	store *SeriesStore
}

// NewStreamingBuffer creates a buffer over store.
func NewStreamingBuffer(store *SeriesStore) *StreamingBuffer {
	return &StreamingBuffer{store: store}
}

// Append adds dp to series i. Any append invalidates derived caches.
func (b *StreamingBuffer) Append(i int, dp schema.Datapoint) (appended, evicted bool) {
	appended, evicted = AppendBounded(b.store.At(i), dp)
	if appended {
		b.store.Touch()
	}
	return appended, evicted
}

// AppendAll adds values[i] to series i for every series, in series order.
// Hidden series skip their value. len(values) must equal the series count.
func (b *StreamingBuffer) AppendAll(values []schema.Datapoint) (AppendResult, error) {
	if len(values) != b.store.Len() {
		return AppendResult{}, fmt.Errorf("%w: got %d values for %d series",
			contract.ErrValueCountMismatch, len(values), b.store.Len())
	}
	var res AppendResult
	for i, dp := range values {
		appended, evicted := b.Append(i, dp)
		switch {
		case !appended:
			res.Skipped++
		case evicted:
			res.Appended++
			res.Evicted++
		default:
			res.Appended++
		}
	}
	return res, nil
}
