// Package contract provides interfaces and shared utilities for the linechart internal architecture.
package contract

import (
	"context"
	"time"

	"github.com/chartwerk/line-chart/schema"
)

// ScaleAdapter maps one axis between domain values and pixels.
// Extent returns the plotted domain range; lo <= hi.
type ScaleAdapter interface {
	ToPixel(domain float64) float64
	ToDomain(pixel float64) float64
	Extent() (lo, hi float64)
}

// RenderTarget receives descriptions of what to draw. The core never draws itself.
type RenderTarget interface {
	Render(plan schema.RenderPlan)
	UpdateCrosshair(view schema.CrosshairView)
}

// EventSink receives host notifications. Payloads are copies owned by the receiver.
type EventSink interface {
	MouseMove(payload schema.MouseMovePayload)
	MouseOut()
	ZoomIn(r schema.Range)
	ZoomOut(payload schema.ZoomOutPayload)
	SharedCrosshairMove(payload schema.SharedCrosshairPayload)
}

// EmissionRecorder observes every attempted host notification.
// delivered is false when the host registered no callback for kind.
type EmissionRecorder interface {
	RecordEmission(kind schema.EventKind, delivered bool)
}

// ChartRecorder observes chart activity. Implementations must be cheap; they run inside event dispatch.
type ChartRecorder interface {
	EmissionRecorder

	// RecordResolve is called once per processed crosshair position.
	// source is "pointer" or "shared".
	RecordResolve(source string, hits int)

	// RecordAppend is called once per AppendData call.
	RecordAppend(appended, evicted int)
}

// CrosshairBus carries shared crosshair updates between chart instances.
type CrosshairBus interface {
	// Publish sends msg to every subscriber, including the sender's own subscription.
	Publish(ctx context.Context, msg schema.SyncMessage) error

	// Subscribe returns a channel of messages that is closed when ctx ends or the bus closes.
	Subscribe(ctx context.Context) (<-chan schema.SyncMessage, error)

	// Close releases the underlying transport.
	Close() error
}

// StoreManager defines the interface for managing the persistent stores.
// This allows the storage layer to be mocked for testing.
type StoreManager interface {
	GetSnapshotStore() SnapshotStore
	GetSessionStore() SessionStore
}

// SnapshotStore persists serialized series keyed by target.
type SnapshotStore interface {
	Get(key string) ([]byte, int, int64, error)
	Set(key string, value []byte, version int, timestamp int64) error
	Keys() ([]string, error)
	GetStatus() (schema.SnapshotStatus, error)
	Close() error
}

// SessionStore records probe sessions and the hits they produced.
type SessionStore interface {
	// BeginSession creates a new session and returns its unique ID
	BeginSession(startTime time.Time, configParams map[string]any) (int64, error)

	// RecordHit stores one probe outcome for a series
	RecordHit(sessionID int64, hit schema.HitRecord) error

	// EndSession updates the session with completion data
	EndSession(sessionID int64, endTime time.Time, totalProbes int) error

	// GetStatus returns status information about the session store
	GetStatus() (schema.SessionStatus, error)

	// GetAllSessions retrieves all sessions ordered by ID
	GetAllSessions() ([]schema.SessionRecord, error)

	// GetAllHits retrieves all recorded hits ordered by session and probe
	GetAllHits() ([]schema.HitRecord, error)

	// Close closes the underlying connection
	Close() error
}

// ResultWriter prints command results in the configured output format.
type ResultWriter interface {
	WriteProbe(result schema.ProbeResult, cfg *Config, duration time.Duration) error
	WriteSpacing(result schema.SpacingResult, cfg *Config) error
	WriteSegments(results []schema.SegmentsResult, cfg *Config) error
	WriteSeries(series []schema.Series, cfg *Config) error
}
