// Package outwriter has output and writer logic.
package outwriter

import (
	"time"

	"github.com/chartwerk/line-chart/internal/contract"
	"github.com/chartwerk/line-chart/schema"
)

// OutWriter provides a unified interface for all output operations.
type OutWriter struct{}

var _ contract.ResultWriter = &OutWriter{} // Compile-time check

// NewOutWriter creates a new instance of the output writer.
func NewOutWriter() *OutWriter {
	return &OutWriter{}
}

// WriteProbe prints a probe result using the configured output format.
func (ow *OutWriter) WriteProbe(result schema.ProbeResult, cfg *contract.Config, duration time.Duration) error {
	return PrintProbeResult(result, cfg, duration)
}

// WriteSpacing prints typical spacing using the configured output format.
func (ow *OutWriter) WriteSpacing(result schema.SpacingResult, cfg *contract.Config) error {
	return PrintSpacingResult(result, cfg)
}

// WriteSegments prints charge classifications using the configured output format.
func (ow *OutWriter) WriteSegments(results []schema.SegmentsResult, cfg *contract.Config) error {
	return PrintSegmentsResults(results, cfg)
}

// WriteSeries prints buffered series using the configured output format.
func (ow *OutWriter) WriteSeries(series []schema.Series, cfg *contract.Config) error {
	return PrintSeries(series, cfg)
}
