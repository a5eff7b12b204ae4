package schema

import "time"

// SnapshotStatus represents the status of the snapshot store.
type SnapshotStatus struct {
	Backend         string    `json:"backend"`
	Connected       bool      `json:"connected"`
	TotalEntries    int       `json:"total_entries"`
	LastEntryTime   time.Time `json:"last_entry_time"`
	OldestEntryTime time.Time `json:"oldest_entry_time"`
	TableSizeBytes  int64     `json:"table_size_bytes"`
}

// SessionStatus represents the status of the session store.
type SessionStatus struct {
	Backend         string           `json:"backend"`
	Connected       bool             `json:"connected"`
	TotalSessions   int              `json:"total_sessions"`
	LastSessionID   int64            `json:"last_session_id"`
	LastSessionTime time.Time        `json:"last_session_time"`
	OldestSession   time.Time        `json:"oldest_session_time"`
	TotalProbes     int              `json:"total_probes"`
	TableSizes      map[string]int64 `json:"table_sizes"`
}

// SessionRecord represents a row from the linechart_sessions table.
type SessionRecord struct {
	SessionID     int64
	StartTime     time.Time
	EndTime       *time.Time
	RunDurationMs *int64
	TotalProbes   int64
	ConfigParams  *string
}

// HitRecord represents a row from the linechart_probe_hits table.
type HitRecord struct {
	SessionID  int64
	ProbeIndex int
	Target     string
	Label      string
	Key        float64
	Value      float64
	Distance   float64
	ProbeTime  time.Time
}
