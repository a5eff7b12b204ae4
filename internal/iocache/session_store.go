package iocache

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/chartwerk/line-chart/internal/contract"
	"github.com/chartwerk/line-chart/schema"
)

// Table names for session tracking.
const (
	sessionsTable  = "linechart_sessions"
	probeHitsTable = "linechart_probe_hits"
)

// SessionStoreImpl implements the SessionStore interface.
type SessionStoreImpl struct {
	db      *sql.DB
	backend schema.DatabaseBackend
}

var _ contract.SessionStore = &SessionStoreImpl{} // Compile-time check

// NewSessionStore creates a new SessionStore with the specified backend.
func NewSessionStore(backend schema.DatabaseBackend, connStr string) (contract.SessionStore, error) {
	if backend == schema.NoneBackend {
		return &SessionStoreImpl{backend: backend}, nil
	}

	db, err := openDatabase(backend, connStr, GetSessionDBFilePath())
	if err != nil {
		return nil, err
	}

	if err := createSessionTables(db, backend); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create session tables: %w", err)
	}

	return &SessionStoreImpl{db: db, backend: backend}, nil
}

// createSessionTables creates the session tracking tables.
func createSessionTables(db *sql.DB, backend schema.DatabaseBackend) error {
	tables := []struct {
		name  string
		query string
	}{
		{sessionsTable, getCreateSessionsQuery(backend)},
		{probeHitsTable, getCreateProbeHitsQuery(backend)},
	}

	for _, table := range tables {
		if _, err := db.Exec(table.query); err != nil {
			return fmt.Errorf("failed to create table %s: %w", table.name, err)
		}
	}
	return nil
}

// getCreateSessionsQuery returns the CREATE TABLE query for linechart_sessions.
func getCreateSessionsQuery(backend schema.DatabaseBackend) string {
	quotedTableName := quoteTableName(sessionsTable, backend)

	switch backend {
	case schema.MySQLBackend:
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				session_id BIGINT AUTO_INCREMENT PRIMARY KEY,
				start_time DATETIME(6) NOT NULL,
				end_time DATETIME(6),
				run_duration_ms BIGINT,
				total_probes BIGINT NOT NULL DEFAULT 0,
				config_params TEXT
			);
		`, quotedTableName)

	case schema.PostgreSQLBackend:
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				session_id BIGSERIAL PRIMARY KEY,
				start_time TIMESTAMPTZ NOT NULL,
				end_time TIMESTAMPTZ,
				run_duration_ms BIGINT,
				total_probes BIGINT NOT NULL DEFAULT 0,
				config_params TEXT
			);
		`, quotedTableName)

	default: // SQLite
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				session_id INTEGER PRIMARY KEY AUTOINCREMENT,
				start_time TEXT NOT NULL,
				end_time TEXT,
				run_duration_ms INTEGER,
				total_probes INTEGER NOT NULL DEFAULT 0,
				config_params TEXT
			);
		`, quotedTableName)
	}
}

// getCreateProbeHitsQuery returns the CREATE TABLE query for linechart_probe_hits.
func getCreateProbeHitsQuery(backend schema.DatabaseBackend) string {
	quotedTableName := quoteTableName(probeHitsTable, backend)

	switch backend {
	case schema.MySQLBackend:
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				session_id BIGINT NOT NULL,
				probe_index INT NOT NULL,
				target VARCHAR(255) NOT NULL,
				label VARCHAR(255) NOT NULL,
				point_key DOUBLE NOT NULL,
				point_value DOUBLE NOT NULL,
				distance DOUBLE NOT NULL,
				probe_time DATETIME(6) NOT NULL,
				PRIMARY KEY (session_id, probe_index, target)
			);
		`, quotedTableName)

	case schema.PostgreSQLBackend:
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				session_id BIGINT NOT NULL,
				probe_index INT NOT NULL,
				target TEXT NOT NULL,
				label TEXT NOT NULL,
				point_key DOUBLE PRECISION NOT NULL,
				point_value DOUBLE PRECISION NOT NULL,
				distance DOUBLE PRECISION NOT NULL,
				probe_time TIMESTAMPTZ NOT NULL,
				PRIMARY KEY (session_id, probe_index, target)
			);
		`, quotedTableName)

	default: // SQLite
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				session_id INTEGER NOT NULL,
				probe_index INTEGER NOT NULL,
				target TEXT NOT NULL,
				label TEXT NOT NULL,
				point_key REAL NOT NULL,
				point_value REAL NOT NULL,
				distance REAL NOT NULL,
				probe_time TEXT NOT NULL,
				PRIMARY KEY (session_id, probe_index, target)
			);
		`, quotedTableName)
	}
}

// BeginSession creates a new session and returns its unique ID.
func (ss *SessionStoreImpl) BeginSession(startTime time.Time, configParams map[string]any) (int64, error) {
	if ss.backend == schema.NoneBackend || ss.db == nil {
		return 0, nil
	}

	configJSON, err := json.Marshal(configParams)
	if err != nil {
		return 0, fmt.Errorf("failed to marshal config params: %w", err)
	}

	quotedTableName := quoteTableName(sessionsTable, ss.backend)

	var sessionID int64
	switch ss.backend {
	case schema.PostgreSQLBackend:
		query := fmt.Sprintf(`INSERT INTO %s (start_time, config_params) VALUES ($1, $2) RETURNING session_id`, quotedTableName)
		err = ss.db.QueryRow(query, startTime, string(configJSON)).Scan(&sessionID)
	default: // SQLite and MySQL
		query := fmt.Sprintf(`INSERT INTO %s (start_time, config_params) VALUES (?, ?)`, quotedTableName)
		var result sql.Result
		result, err = ss.db.Exec(query, formatTime(startTime, ss.backend), string(configJSON))
		if err != nil {
			return 0, fmt.Errorf("failed to insert session: %w", err)
		}
		sessionID, err = result.LastInsertId()
	}

	if err != nil {
		return 0, fmt.Errorf("failed to insert session: %w", err)
	}
	return sessionID, nil
}

// RecordHit stores one probe outcome for a series.
func (ss *SessionStoreImpl) RecordHit(sessionID int64, hit schema.HitRecord) error {
	if ss.backend == schema.NoneBackend || ss.db == nil {
		return nil
	}

	query := fmt.Sprintf(`
		INSERT INTO %s (session_id, probe_index, target, label, point_key, point_value, distance, probe_time)
		VALUES (%s)
	`, quoteTableName(probeHitsTable, ss.backend), placeholders(ss.backend, 8))

	_, err := ss.db.Exec(query, sessionID, hit.ProbeIndex, hit.Target, hit.Label,
		hit.Key, hit.Value, hit.Distance, formatTime(hit.ProbeTime, ss.backend))
	if err != nil {
		return fmt.Errorf("failed to insert probe hit: %w", err)
	}
	return nil
}

// EndSession updates the session with completion data.
func (ss *SessionStoreImpl) EndSession(sessionID int64, endTime time.Time, totalProbes int) error {
	if ss.backend == schema.NoneBackend || ss.db == nil {
		return nil
	}

	quotedTableName := quoteTableName(sessionsTable, ss.backend)
	query := fmt.Sprintf(`SELECT start_time FROM %s WHERE session_id = %s`, quotedTableName, placeholder(ss.backend, 1))
	row := ss.db.QueryRow(query, sessionID)

	var startTime time.Time
	switch ss.backend {
	case schema.SQLiteBackend:
		var startTimeStr string
		if err := row.Scan(&startTimeStr); err != nil {
			return fmt.Errorf("failed to get start_time for session %d: %w", sessionID, err)
		}
		var err error
		if startTime, err = parseStoredTime("start_time", startTimeStr); err != nil {
			return err
		}
	default: // MySQL and PostgreSQL store as native datetime
		if err := row.Scan(&startTime); err != nil {
			return fmt.Errorf("failed to get start_time for session %d: %w", sessionID, err)
		}
	}

	durationMs := endTime.Sub(startTime).Milliseconds()

	updateQuery := fmt.Sprintf(`UPDATE %s SET end_time = %s, run_duration_ms = %s, total_probes = %s WHERE session_id = %s`,
		quotedTableName,
		placeholder(ss.backend, 1), placeholder(ss.backend, 2), placeholder(ss.backend, 3), placeholder(ss.backend, 4))
	if _, err := ss.db.Exec(updateQuery, formatTime(endTime, ss.backend), durationMs, totalProbes, sessionID); err != nil {
		return fmt.Errorf("failed to update session: %w", err)
	}
	return nil
}

// Close closes the underlying connection.
func (ss *SessionStoreImpl) Close() error {
	if ss.db != nil {
		return ss.db.Close()
	}
	return nil
}

// GetStatus returns status information about the session store.
func (ss *SessionStoreImpl) GetStatus() (schema.SessionStatus, error) {
	status := schema.SessionStatus{
		Backend:    string(ss.backend),
		Connected:  ss.db != nil,
		TableSizes: make(map[string]int64),
	}

	if ss.backend == schema.NoneBackend || ss.db == nil {
		return status, nil
	}

	quotedSessions := quoteTableName(sessionsTable, ss.backend)

	row := ss.db.QueryRow(fmt.Sprintf("SELECT COUNT(*) FROM %s", quotedSessions))
	if err := row.Scan(&status.TotalSessions); err != nil {
		return status, fmt.Errorf("failed to get total sessions: %w", err)
	}

	if status.TotalSessions > 0 {
		row = ss.db.QueryRow(fmt.Sprintf("SELECT session_id, start_time FROM %s ORDER BY session_id DESC LIMIT 1", quotedSessions))
		switch ss.backend {
		case schema.SQLiteBackend:
			var lastTimeStr string
			if err := row.Scan(&status.LastSessionID, &lastTimeStr); err != nil {
				return status, fmt.Errorf("failed to get last session info: %w", err)
			}
			lastTime, err := parseStoredTime("last session time", lastTimeStr)
			if err != nil {
				return status, err
			}
			status.LastSessionTime = lastTime
		default:
			if err := row.Scan(&status.LastSessionID, &status.LastSessionTime); err != nil {
				return status, fmt.Errorf("failed to get last session info: %w", err)
			}
		}

		row = ss.db.QueryRow(fmt.Sprintf("SELECT start_time FROM %s ORDER BY session_id ASC LIMIT 1", quotedSessions))
		switch ss.backend {
		case schema.SQLiteBackend:
			var oldestStr string
			if err := row.Scan(&oldestStr); err != nil {
				return status, fmt.Errorf("failed to get oldest session time: %w", err)
			}
			oldest, err := parseStoredTime("oldest session time", oldestStr)
			if err != nil {
				return status, err
			}
			status.OldestSession = oldest
		default:
			if err := row.Scan(&status.OldestSession); err != nil {
				return status, fmt.Errorf("failed to get oldest session time: %w", err)
			}
		}

		row = ss.db.QueryRow(fmt.Sprintf("SELECT COALESCE(SUM(total_probes), 0) FROM %s", quotedSessions))
		if err := row.Scan(&status.TotalProbes); err != nil {
			return status, fmt.Errorf("failed to get total probes: %w", err)
		}
	}

	for _, table := range []string{sessionsTable, probeHitsTable} {
		var count int64
		row = ss.db.QueryRow(fmt.Sprintf("SELECT COUNT(*) FROM %s", quoteTableName(table, ss.backend)))
		if err := row.Scan(&count); err != nil {
			return status, fmt.Errorf("failed to get count for table %s: %w", table, err)
		}
		status.TableSizes[table] = count
	}

	return status, nil
}

// GetAllSessions retrieves all sessions from the store.
func (ss *SessionStoreImpl) GetAllSessions() ([]schema.SessionRecord, error) {
	if ss.backend == schema.NoneBackend || ss.db == nil {
		return nil, nil
	}

	query := fmt.Sprintf("SELECT session_id, start_time, end_time, run_duration_ms, total_probes, config_params FROM %s ORDER BY session_id",
		quoteTableName(sessionsTable, ss.backend))
	rows, err := ss.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to query sessions: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var results []schema.SessionRecord
	for rows.Next() {
		var record schema.SessionRecord

		switch ss.backend {
		case schema.SQLiteBackend:
			var startTimeStr string
			var endTimeStr *string
			if err := rows.Scan(&record.SessionID, &startTimeStr, &endTimeStr, &record.RunDurationMs, &record.TotalProbes, &record.ConfigParams); err != nil {
				return nil, fmt.Errorf("failed to scan session: %w", err)
			}
			if record.StartTime, err = parseStoredTime("start_time", startTimeStr); err != nil {
				return nil, err
			}
			if endTimeStr != nil {
				endTime, err := parseStoredTime("end_time", *endTimeStr)
				if err != nil {
					return nil, err
				}
				record.EndTime = &endTime
			}
		default: // MySQL and PostgreSQL
			if err := rows.Scan(&record.SessionID, &record.StartTime, &record.EndTime, &record.RunDurationMs, &record.TotalProbes, &record.ConfigParams); err != nil {
				return nil, fmt.Errorf("failed to scan session: %w", err)
			}
		}

		results = append(results, record)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating sessions: %w", err)
	}
	return results, nil
}

// GetAllHits retrieves all recorded probe hits from the store.
func (ss *SessionStoreImpl) GetAllHits() ([]schema.HitRecord, error) {
	if ss.backend == schema.NoneBackend || ss.db == nil {
		return nil, nil
	}

	query := fmt.Sprintf(`SELECT session_id, probe_index, target, label, point_key, point_value, distance, probe_time
		FROM %s ORDER BY session_id, probe_index, target`, quoteTableName(probeHitsTable, ss.backend))
	rows, err := ss.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to query probe hits: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var results []schema.HitRecord
	for rows.Next() {
		var record schema.HitRecord

		switch ss.backend {
		case schema.SQLiteBackend:
			var probeTimeStr string
			if err := rows.Scan(&record.SessionID, &record.ProbeIndex, &record.Target, &record.Label,
				&record.Key, &record.Value, &record.Distance, &probeTimeStr); err != nil {
				return nil, fmt.Errorf("failed to scan probe hit: %w", err)
			}
			if record.ProbeTime, err = parseStoredTime("probe_time", probeTimeStr); err != nil {
				return nil, err
			}
		default:
			if err := rows.Scan(&record.SessionID, &record.ProbeIndex, &record.Target, &record.Label,
				&record.Key, &record.Value, &record.Distance, &record.ProbeTime); err != nil {
				return nil, fmt.Errorf("failed to scan probe hit: %w", err)
			}
		}

		results = append(results, record)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating probe hits: %w", err)
	}
	return results, nil
}
