package contract

import "errors"

// Sentinel errors shared across packages. Wrap with fmt.Errorf("...: %w", err).
var (
	// ErrUnknownOrientation is a configuration error and is never defaulted.
	ErrUnknownOrientation = errors.New("unknown crosshair orientation")

	// ErrReentrantCall is returned when a host callback calls back into the chart.
	ErrReentrantCall = errors.New("chart called from inside its own event callback")

	// ErrMissingCallback is recorded when an emission is dropped for lack of a callback.
	ErrMissingCallback = errors.New("no callback registered")

	// ErrValueCountMismatch is returned when appended values do not line up with the series.
	ErrValueCountMismatch = errors.New("value count does not match series count")

	// ErrSeriesNotFound is returned for an unknown series target.
	ErrSeriesNotFound = errors.New("series not found")

	// ErrLoopClosed is returned when posting to a stopped event loop.
	ErrLoopClosed = errors.New("event loop closed")
)
