package core

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/chartwerk/line-chart/core/algo"
	"github.com/chartwerk/line-chart/internal/contract"
	"github.com/chartwerk/line-chart/internal/iocache"
	"github.com/chartwerk/line-chart/internal/seriesio"
	"github.com/chartwerk/line-chart/schema"
)

// ProbeRequest is one probe position. Pixel positions go through the chart scales first.
type ProbeRequest struct {
	X     float64
	Y     float64
	Pixel bool
}

// NewChartFromConfig builds a chart over series with scales fitted to the data.
func NewChartFromConfig(cfg *contract.Config, series []schema.Series) (*LineChart, error) {
	return NewLineChart(ChartParams{
		Options:          cfg.ChartOptions(),
		Series:           series,
		DefaultMaxLength: cfg.MaxLength,
		Quiet:            true,
	})
}

// LoadSeries reads series from cfg.SeriesFile, falling back to every stored snapshot.
func LoadSeries(cfg *contract.Config, mgr contract.StoreManager) ([]schema.Series, error) {
	if cfg.SeriesFile != "" {
		return seriesio.LoadFile(cfg.SeriesFile)
	}
	if mgr != nil {
		if store := mgr.GetSnapshotStore(); store != nil {
			series, err := iocache.LoadSeries(store)
			if err != nil {
				return nil, fmt.Errorf("failed to load series from snapshots: %w", err)
			}
			if len(series) > 0 {
				return series, nil
			}
		}
	}
	return nil, errors.New("a series file is required (no snapshots stored)")
}

// GetProbeResult probes series at req. When a session store is configured the
// accepted hits are recorded as a one-probe session.
func GetProbeResult(cfg *contract.Config, mgr contract.StoreManager, series []schema.Series, req ProbeRequest) (schema.ProbeResult, error) {
	chart, err := NewChartFromConfig(cfg, series)
	if err != nil {
		return schema.ProbeResult{}, err
	}
	coords := schema.SharedCoords{X: req.X, Y: req.Y}
	if req.Pixel {
		coords = chart.PixelToDomain(req.X, req.Y)
	}
	result := chart.Probe(coords)
	recordProbeSession(cfg, mgr, []schema.ProbeResult{result})
	return result, nil
}

// GetSpacingResult computes the typical spacing of every visible primary series
// and the chart-wide maximum on the hit-test axis.
func GetSpacingResult(cfg *contract.Config, series []schema.Series) (schema.SpacingResult, error) {
	chart, err := NewChartFromConfig(cfg, series)
	if err != nil {
		return schema.SpacingResult{}, err
	}
	key, err := AxisKeyFor(cfg.Orientation)
	if err != nil {
		return schema.SpacingResult{}, err
	}

	result := schema.SpacingResult{Axis: key, PerSeries: map[string]float64{}}
	result.Spacing, result.Defined = chart.TypicalSpacing()
	current := chart.Series()
	for _, m := range chart.Plan().Metrics {
		if v, ok := algo.SeriesSpacing(current[m.Index].Datapoints, key); ok {
			result.PerSeries[m.Target] = v
		}
	}
	return result, nil
}

// GetSegmentsResults classifies consecutive transitions of every visible primary series.
func GetSegmentsResults(cfg *contract.Config, series []schema.Series) ([]schema.SegmentsResult, error) {
	chart, err := NewChartFromConfig(cfg, series)
	if err != nil {
		return nil, err
	}
	current := chart.Series()
	results := make([]schema.SegmentsResult, 0, len(chart.Plan().Metrics))
	for _, m := range chart.Plan().Metrics {
		results = append(results, schema.SegmentsResult{
			Target:   m.Target,
			Segments: algo.ClassifyTransitions(current[m.Index].Datapoints),
		})
	}
	return results, nil
}

// ExecuteProbe loads the configured series, probes them once and prints the result.
func ExecuteProbe(cfg *contract.Config, mgr contract.StoreManager, w contract.ResultWriter, req ProbeRequest) error {
	start := time.Now()
	series, err := LoadSeries(cfg, mgr)
	if err != nil {
		return err
	}
	result, err := GetProbeResult(cfg, mgr, series, req)
	if err != nil {
		return err
	}
	return w.WriteProbe(result, cfg, time.Since(start))
}

// ExecuteSpacing loads the configured series and prints their typical spacing.
func ExecuteSpacing(cfg *contract.Config, mgr contract.StoreManager, w contract.ResultWriter) error {
	series, err := LoadSeries(cfg, mgr)
	if err != nil {
		return err
	}
	result, err := GetSpacingResult(cfg, series)
	if err != nil {
		return err
	}
	return w.WriteSpacing(result, cfg)
}

// ExecuteSegments loads the configured series and prints their charge classification.
func ExecuteSegments(cfg *contract.Config, mgr contract.StoreManager, w contract.ResultWriter) error {
	series, err := LoadSeries(cfg, mgr)
	if err != nil {
		return err
	}
	results, err := GetSegmentsResults(cfg, series)
	if err != nil {
		return err
	}
	return w.WriteSegments(results, cfg)
}

// ExecuteSnapshotSave stores every series of cfg.SeriesFile in the snapshot store.
func ExecuteSnapshotSave(cfg *contract.Config, mgr contract.StoreManager) error {
	store := snapshotStore(mgr)
	if store == nil {
		return errors.New("snapshot store is not configured (set --snapshot-backend)")
	}
	if cfg.SeriesFile == "" {
		return errors.New("a series file is required for snapshot save")
	}
	series, err := seriesio.LoadFile(cfg.SeriesFile)
	if err != nil {
		return err
	}
	if err := iocache.SaveSeries(store, series, time.Now()); err != nil {
		return err
	}
	_, err = fmt.Fprintf(os.Stderr, "💾 Saved %d series to the %s snapshot store\n", len(series), cfg.SnapshotBackend)
	return err
}

// ExecuteSnapshotLoad prints the stored series for targets, or all of them.
func ExecuteSnapshotLoad(cfg *contract.Config, mgr contract.StoreManager, w contract.ResultWriter, targets []string) error {
	store := snapshotStore(mgr)
	if store == nil {
		return errors.New("snapshot store is not configured (set --snapshot-backend)")
	}
	series, err := iocache.LoadSeries(store, targets...)
	if err != nil {
		return err
	}
	return w.WriteSeries(series, cfg)
}

func snapshotStore(mgr contract.StoreManager) contract.SnapshotStore {
	if mgr == nil {
		return nil
	}
	return mgr.GetSnapshotStore()
}

func recordProbeSession(cfg *contract.Config, mgr contract.StoreManager, results []schema.ProbeResult) {
	if mgr == nil {
		return
	}
	store := mgr.GetSessionStore()
	if store == nil {
		return
	}

	startTime := time.Now()
	configParams := map[string]any{
		"orientation": string(cfg.Orientation),
		"series_file": cfg.SeriesFile,
		"max_length":  cfg.MaxLength,
		"chart_width": cfg.Layout.Width,
	}
	sessionID, err := store.BeginSession(startTime, configParams)
	if err != nil {
		contract.LogWarn("Session tracking initialization failed", err)
		return
	}

	for i, result := range results {
		for _, hit := range result.Hits {
			if !hit.Hit {
				continue
			}
			record := schema.HitRecord{
				SessionID:  sessionID,
				ProbeIndex: i,
				Target:     hit.Target,
				Label:      hit.Label,
				Key:        hit.Nearest.Key,
				Value:      hit.Nearest.Value,
				Distance:   hit.Distance,
				ProbeTime:  startTime,
			}
			if err := store.RecordHit(sessionID, record); err != nil {
				contract.LogWarn(fmt.Sprintf("Session tracking failed for %s", hit.Target), err)
			}
		}
	}

	if err := store.EndSession(sessionID, time.Now(), len(results)); err != nil {
		contract.LogWarn("Failed to finalize session tracking", err)
	}
}
