// Package parquet provides data structures and functions for exporting chart
// sessions and series data to Parquet files using github.com/parquet-go/parquet-go.
package parquet

import (
	"fmt"
	"os"
	"time"

	"github.com/chartwerk/line-chart/schema"
	"github.com/parquet-go/parquet-go"
)

// Session represents a single probe session with metadata.
// This struct maps to the linechart_sessions database table.
type Session struct {
	// SessionID is the unique identifier for this session
	SessionID int64 `parquet:"session_id,snappy"`

	// StartTime is when the session began
	StartTime time.Time `parquet:"start_time,snappy"`

	// EndTime is when the session completed (nullable)
	EndTime *time.Time `parquet:"end_time,optional,snappy"`

	// RunDurationMs is the session duration in milliseconds (nullable)
	RunDurationMs *int64 `parquet:"run_duration_ms,optional,snappy"`

	// TotalProbes is the number of probes issued during the session
	TotalProbes int64 `parquet:"total_probes,snappy"`

	// ConfigParams contains the JSON-encoded configuration parameters (nullable)
	ConfigParams *string `parquet:"config_params,optional,snappy"`
}

// ProbeHit is one series outcome of one probe.
// This struct maps to the linechart_probe_hits database table.
type ProbeHit struct {
	SessionID  int64     `parquet:"session_id,snappy"`
	ProbeIndex int32     `parquet:"probe_index,snappy"`
	Target     string    `parquet:"target,snappy"`
	Label      string    `parquet:"label,snappy"`
	Key        float64   `parquet:"point_key,snappy"`
	Value      float64   `parquet:"point_value,snappy"`
	Distance   float64   `parquet:"distance,snappy"`
	ProbeTime  time.Time `parquet:"probe_time,snappy"`
}

// Datapoint is a flattened series sample.
type Datapoint struct {
	Target  string  `parquet:"target,dict,snappy"`
	Label   string  `parquet:"label,dict,snappy"`
	Index   int32   `parquet:"point_index,snappy"`
	Key     float64 `parquet:"point_key,snappy"`
	Value   float64 `parquet:"point_value,snappy"`
	Visible bool    `parquet:"visible,snappy"`
}

// writeRows writes rows of any tagged struct type to a Parquet file.
func writeRows[T any](data []T, outputPath string) error {
	file, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer func() { _ = file.Close() }()

	// The schema is derived from the struct tags of T
	writer := parquet.NewGenericWriter[T](file)
	if _, err := writer.Write(data); err != nil {
		_ = writer.Close()
		return fmt.Errorf("failed to write data to parquet file: %w", err)
	}
	if err := writer.Close(); err != nil {
		return fmt.Errorf("failed to finalize parquet file: %w", err)
	}
	return nil
}

// WriteSessionsParquet writes sessions to a Parquet file.
func WriteSessionsParquet(data []Session, outputPath string) error {
	return writeRows(data, outputPath)
}

// WriteProbeHitsParquet writes probe hits to a Parquet file.
func WriteProbeHitsParquet(data []ProbeHit, outputPath string) error {
	return writeRows(data, outputPath)
}

// WriteDatapointsParquet writes flattened series samples to a Parquet file.
func WriteDatapointsParquet(data []Datapoint, outputPath string) error {
	return writeRows(data, outputPath)
}

// ConvertSessionRecords converts schema.SessionRecord to Session for Parquet export.
func ConvertSessionRecords(records []schema.SessionRecord) []Session {
	result := make([]Session, len(records))
	for i, record := range records {
		result[i] = Session{
			SessionID:     record.SessionID,
			StartTime:     record.StartTime,
			EndTime:       record.EndTime,
			RunDurationMs: record.RunDurationMs,
			TotalProbes:   record.TotalProbes,
			ConfigParams:  record.ConfigParams,
		}
	}
	return result
}

// ConvertHitRecords converts schema.HitRecord to ProbeHit for Parquet export.
func ConvertHitRecords(records []schema.HitRecord) []ProbeHit {
	result := make([]ProbeHit, len(records))
	for i, record := range records {
		result[i] = ProbeHit{
			SessionID:  record.SessionID,
			ProbeIndex: int32(record.ProbeIndex),
			Target:     record.Target,
			Label:      record.Label,
			Key:        record.Key,
			Value:      record.Value,
			Distance:   record.Distance,
			ProbeTime:  record.ProbeTime,
		}
	}
	return result
}

// FlattenSeries converts series into one row per datapoint, in series order.
func FlattenSeries(series []schema.Series) []Datapoint {
	var result []Datapoint
	for _, s := range series {
		label := s.Label()
		for i, dp := range s.Datapoints {
			result = append(result, Datapoint{
				Target:  s.Target,
				Label:   label,
				Index:   int32(i),
				Key:     dp.Key,
				Value:   dp.Value,
				Visible: s.Visible(),
			})
		}
	}
	return result
}
