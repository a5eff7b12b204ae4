package core

import (
	"math"

	"github.com/chartwerk/line-chart/internal/contract"
	"github.com/chartwerk/line-chart/schema"
)

// LinearScale maps a closed domain interval linearly onto a pixel range.
// The range may be inverted (y axes grow downward).
type LinearScale struct {
	d0, d1 float64
	r0, r1 float64
}

var _ contract.ScaleAdapter = &LinearScale{} // Compile-time check

// NewLinearScale creates a scale mapping [d0, d1] onto [r0, r1].
func NewLinearScale(d0, d1, r0, r1 float64) *LinearScale {
	return &LinearScale{d0: d0, d1: d1, r0: r0, r1: r1}
}

// ToPixel maps a domain value to a pixel. A zero-width domain maps to the range midpoint.
func (s *LinearScale) ToPixel(v float64) float64 {
	if s.d1 == s.d0 {
		return (s.r0 + s.r1) / 2
	}
	return s.r0 + (v-s.d0)*(s.r1-s.r0)/(s.d1-s.d0)
}

// ToDomain maps a pixel back to a domain value. A zero-width range maps to d0.
func (s *LinearScale) ToDomain(px float64) float64 {
	if s.r1 == s.r0 {
		return s.d0
	}
	return s.d0 + (px-s.r0)*(s.d1-s.d0)/(s.r1-s.r0)
}

// Extent returns the domain interval with lo <= hi.
func (s *LinearScale) Extent() (lo, hi float64) {
	return math.Min(s.d0, s.d1), math.Max(s.d0, s.d1)
}

// ScaleSource supplies the current x and y scales.
type ScaleSource interface {
	Scales() (x, y contract.ScaleAdapter)
}

// FixedScales returns host-provided scales unchanged.
type FixedScales struct {
	X contract.ScaleAdapter
	Y contract.ScaleAdapter
}

// Scales implements ScaleSource.
func (f FixedScales) Scales() (x, y contract.ScaleAdapter) { return f.X, f.Y }

// AutoScales derives linear scales from the data extent of visible series and
// recomputes them whenever the store version changes.
type AutoScales struct {
	store   *SeriesStore
	layout  schema.Layout
	version uint64
	valid   bool
	x, y    *LinearScale
}

// NewAutoScales creates scales fitted to store within layout.
func NewAutoScales(store *SeriesStore, layout schema.Layout) *AutoScales {
	return &AutoScales{store: store, layout: layout}
}

// Scales implements ScaleSource.
func (a *AutoScales) Scales() (x, y contract.ScaleAdapter) {
	if !a.valid || a.version != a.store.Version() {
		a.refit()
	}
	return a.x, a.y
}

func (a *AutoScales) refit() {
	var xlo, xhi, ylo, yhi float64
	seen := false
	for i := 0; i < a.store.Len(); i++ {
		s := a.store.At(i)
		if s.Hidden {
			continue
		}
		for _, dp := range s.Datapoints {
			lo, hi := dp.Value-s.Confidence, dp.Value+s.Confidence
			if !seen {
				xlo, xhi, ylo, yhi = dp.Key, dp.Key, lo, hi
				seen = true
				continue
			}
			xlo, xhi = math.Min(xlo, dp.Key), math.Max(xhi, dp.Key)
			ylo, yhi = math.Min(ylo, lo), math.Max(yhi, hi)
		}
	}
	a.x = NewLinearScale(xlo, xhi, 0, a.layout.Width)
	a.y = NewLinearScale(ylo, yhi, a.layout.Height, 0)
	a.version = a.store.Version()
	a.valid = true
}
