// Package core has the chart state machine: series storage, the crosshair controller,
// the streaming buffer and host event dispatch.
package core

import (
	"fmt"

	"github.com/chartwerk/line-chart/internal/contract"
	"github.com/chartwerk/line-chart/schema"
)

// boundPair holds the store indices of a primary series' bound series, -1 when absent.
type boundPair struct {
	upper int
	lower int
}

// SeriesStore owns the chart's series. It is mutated only through Replace,
// SetVisible and the StreamingBuffer. Every mutation bumps Version so derived
// caches (spacing, auto scales) know to recompute.
type SeriesStore struct {
	series  []schema.Series
	bounds  schema.BoundConfig
	isBound []bool
	pairs   []boundPair
	index   map[string]int
	version uint64
}

// NewSeriesStore creates an empty store that pairs bound series using the given labels.
func NewSeriesStore(bounds schema.BoundConfig) *SeriesStore {
	return &SeriesStore{bounds: bounds, index: map[string]int{}}
}

// Replace swaps the whole series set. The input is copied.
func (s *SeriesStore) Replace(series []schema.Series) {
	s.series = make([]schema.Series, len(series))
	s.index = make(map[string]int, len(series))
	for i := range series {
		s.series[i] = series[i].Clone()
		if _, dup := s.index[series[i].Target]; !dup {
			s.index[series[i].Target] = i
		}
	}
	s.detectBounds()
	s.Touch()
}

// detectBounds marks every series whose target is the formatted bound label of another series.
func (s *SeriesStore) detectBounds() {
	s.isBound = make([]bool, len(s.series))
	s.pairs = make([]boundPair, len(s.series))
	for i := range s.pairs {
		s.pairs[i] = boundPair{upper: -1, lower: -1}
	}
	if !s.bounds.Enabled() {
		return
	}

	lookup := func(label string, self int) int {
		if label == "" {
			return -1
		}
		idx, ok := s.index[schema.FormatBound(label, s.series[self].Target)]
		if !ok || idx == self {
			return -1
		}
		return idx
	}

	for i := range s.series {
		pair := boundPair{upper: lookup(s.bounds.Upper, i), lower: lookup(s.bounds.Lower, i)}
		s.pairs[i] = pair
		if pair.upper >= 0 {
			s.isBound[pair.upper] = true
		}
		if pair.lower >= 0 {
			s.isBound[pair.lower] = true
		}
	}
	// A bound series never acts as a primary itself.
	for i := range s.pairs {
		if s.isBound[i] {
			s.pairs[i] = boundPair{upper: -1, lower: -1}
		}
	}
}

// Len returns the number of series, bound series included.
func (s *SeriesStore) Len() int { return len(s.series) }

// At returns the series at index i for in-place reads and buffer mutation.
func (s *SeriesStore) At(i int) *schema.Series { return &s.series[i] }

// Index returns the position of target.
func (s *SeriesStore) Index(target string) (int, bool) {
	i, ok := s.index[target]
	return i, ok
}

// IsBound reports whether series i is registered as an upper or lower bound.
func (s *SeriesStore) IsBound(i int) bool {
	return i >= 0 && i < len(s.isBound) && s.isBound[i]
}

// BoundsFor returns the upper and lower bound series of primary i; either may be nil.
func (s *SeriesStore) BoundsFor(i int) (upper, lower *schema.Series) {
	if i < 0 || i >= len(s.pairs) {
		return nil, nil
	}
	if p := s.pairs[i]; p.upper >= 0 {
		upper = &s.series[p.upper]
	}
	if p := s.pairs[i]; p.lower >= 0 {
		lower = &s.series[p.lower]
	}
	return upper, lower
}

// SetVisible toggles a series on or off.
func (s *SeriesStore) SetVisible(target string, visible bool) error {
	i, ok := s.index[target]
	if !ok {
		return fmt.Errorf("%w: %q", contract.ErrSeriesNotFound, target)
	}
	if s.series[i].Hidden == visible {
		s.series[i].Hidden = !visible
		s.Touch()
	}
	return nil
}

// Empty reports whether there is nothing to plot: no series, or no datapoints in any series.
func (s *SeriesStore) Empty() bool {
	for i := range s.series {
		if len(s.series[i].Datapoints) > 0 {
			return false
		}
	}
	return true
}

// Snapshot returns a deep copy of all series.
func (s *SeriesStore) Snapshot() []schema.Series {
	out := make([]schema.Series, len(s.series))
	for i := range s.series {
		out[i] = s.series[i].Clone()
	}
	return out
}

// Primaries returns the datapoints of every visible, non-bound series.
func (s *SeriesStore) Primaries() [][]schema.Datapoint {
	out := make([][]schema.Datapoint, 0, len(s.series))
	for i := range s.series {
		if !s.series[i].Hidden && !s.isBound[i] {
			out = append(out, s.series[i].Datapoints)
		}
	}
	return out
}

// Version increases on every mutation.
func (s *SeriesStore) Version() uint64 { return s.version }

// Touch marks the store as changed.
func (s *SeriesStore) Touch() { s.version++ }
