package feed

import (
	"context"
	"io"

	"github.com/chartwerk/line-chart/core"
	"github.com/chartwerk/line-chart/internal/contract"
	"github.com/chartwerk/line-chart/schema"
)

// StreamStats totals what a stream did to the chart buffers.
type StreamStats struct {
	Ticks     int `json:"ticks"`
	Appended  int `json:"appended"`
	Evicted   int `json:"evicted"`
	Skipped   int `json:"skipped"`
	Dropped   int `json:"dropped"`
	Malformed int `json:"malformed"`
}

// Stream applies every tick from the configured websocket feed, or from the JSON
// lines of r when no feed URL is set, to a chart over series. It returns the
// buffered series once the source is exhausted or ctx ends.
func Stream(ctx context.Context, cfg *contract.Config, series []schema.Series, r io.Reader) ([]schema.Series, StreamStats, error) {
	var stats StreamStats
	chart, err := core.NewLineChart(core.ChartParams{
		Options:          cfg.ChartOptions(),
		Series:           series,
		DefaultMaxLength: cfg.MaxLength,
		Quiet:            true,
	})
	if err != nil {
		return nil, stats, err
	}

	handle := func(_ context.Context, tick Tick) error {
		stats.Ticks++
		res, err := chart.AppendData(tick.Values)
		if err != nil {
			stats.Dropped++
			return err
		}
		stats.Appended += res.Appended
		stats.Evicted += res.Evicted
		stats.Skipped += res.Skipped
		return nil
	}

	malformed := func(error) { stats.Malformed++ }

	if cfg.FeedURL != "" {
		client := NewClient(cfg.FeedURL)
		client.OnMalformed = malformed
		err = client.Run(ctx, handle)
	} else {
		err = ReadLines(ctx, r, handle, malformed)
	}
	if err != nil && ctx.Err() == nil {
		return nil, stats, err
	}
	return chart.Series(), stats, nil
}
