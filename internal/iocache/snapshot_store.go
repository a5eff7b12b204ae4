package iocache

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/chartwerk/line-chart/internal/contract"
	"github.com/chartwerk/line-chart/schema"
	"github.com/go-sql-driver/mysql"
)

// SnapshotStoreImpl stores serialized series using various database backends.
type SnapshotStoreImpl struct {
	db        *sql.DB
	tableName string
	backend   schema.DatabaseBackend
	connStr   string
}

var _ contract.SnapshotStore = &SnapshotStoreImpl{} // Compile-time check

// NewSnapshotStore initializes and returns a new SnapshotStore based on the backend type.
func NewSnapshotStore(tableName string, backend schema.DatabaseBackend, connStr string) (contract.SnapshotStore, error) {
	if err := validateTableName(tableName); err != nil {
		return nil, err
	}

	if backend == schema.NoneBackend {
		return &SnapshotStoreImpl{tableName: tableName, backend: backend, connStr: connStr}, nil
	}

	db, err := openDatabase(backend, connStr, GetSnapshotDBFilePath())
	if err != nil {
		return nil, err
	}

	query := getCreateSnapshotTableQuery(tableName, backend)
	if _, err := db.Exec(query); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create table %s: %w", tableName, err)
	}

	return &SnapshotStoreImpl{
		db:        db,
		tableName: tableName,
		backend:   backend,
		connStr:   connStr,
	}, nil
}

// getCreateSnapshotTableQuery returns the CREATE TABLE query for the given backend.
func getCreateSnapshotTableQuery(tableName string, backend schema.DatabaseBackend) string {
	quotedTableName := quoteTableName(tableName, backend)
	switch backend {
	case schema.MySQLBackend:
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				snapshot_key VARCHAR(255) PRIMARY KEY,
				snapshot_value LONGBLOB NOT NULL,
				snapshot_version INT NOT NULL,
				snapshot_timestamp BIGINT NOT NULL
			);
		`, quotedTableName)

	case schema.PostgreSQLBackend:
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				snapshot_key TEXT PRIMARY KEY,
				snapshot_value BYTEA NOT NULL,
				snapshot_version INTEGER NOT NULL,
				snapshot_timestamp BIGINT NOT NULL
			);
		`, quotedTableName)

	default: // SQLite
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				snapshot_key TEXT PRIMARY KEY,
				snapshot_value BLOB NOT NULL,
				snapshot_version INTEGER NOT NULL,
				snapshot_timestamp INTEGER NOT NULL
			);
		`, quotedTableName)
	}
}

// getUpsertSnapshotQuery returns the UPSERT query for the backend.
func getUpsertSnapshotQuery(tableName string, backend schema.DatabaseBackend) string {
	quotedTableName := quoteTableName(tableName, backend)
	switch backend {
	case schema.MySQLBackend:
		return fmt.Sprintf(`INSERT INTO %s (snapshot_key, snapshot_value, snapshot_version, snapshot_timestamp) VALUES (?, ?, ?, ?) AS new
			ON DUPLICATE KEY UPDATE snapshot_value = new.snapshot_value, snapshot_version = new.snapshot_version, snapshot_timestamp = new.snapshot_timestamp`, quotedTableName)

	case schema.PostgreSQLBackend:
		return fmt.Sprintf(`INSERT INTO %s (snapshot_key, snapshot_value, snapshot_version, snapshot_timestamp) VALUES ($1, $2, $3, $4)
			ON CONFLICT (snapshot_key) DO UPDATE SET snapshot_value = EXCLUDED.snapshot_value, snapshot_version = EXCLUDED.snapshot_version, snapshot_timestamp = EXCLUDED.snapshot_timestamp`, quotedTableName)

	default: // SQLite
		return fmt.Sprintf(`INSERT OR REPLACE INTO %s (snapshot_key, snapshot_value, snapshot_version, snapshot_timestamp) VALUES (?, ?, ?, ?)`, quotedTableName)
	}
}

// Get retrieves a value by key from the store.
func (ss *SnapshotStoreImpl) Get(key string) ([]byte, int, int64, error) {
	if ss.backend == schema.NoneBackend || ss.db == nil {
		return nil, 0, 0, sql.ErrNoRows
	}

	var value []byte
	var version int
	var ts int64

	query := fmt.Sprintf(`SELECT snapshot_value, snapshot_version, snapshot_timestamp FROM %s WHERE snapshot_key = %s`,
		quoteTableName(ss.tableName, ss.backend), placeholder(ss.backend, 1))
	if err := ss.db.QueryRow(query, key).Scan(&value, &version, &ts); err != nil {
		return nil, 0, 0, err
	}
	return value, version, ts, nil
}

// Set inserts or replaces a key/value pair in the store.
func (ss *SnapshotStoreImpl) Set(key string, value []byte, version int, timestamp int64) error {
	if ss.backend == schema.NoneBackend || ss.db == nil {
		return nil
	}
	_, err := ss.db.Exec(getUpsertSnapshotQuery(ss.tableName, ss.backend), key, value, version, timestamp)
	return err
}

// Keys lists every stored key in ascending order.
func (ss *SnapshotStoreImpl) Keys() ([]string, error) {
	if ss.backend == schema.NoneBackend || ss.db == nil {
		return nil, nil
	}

	query := fmt.Sprintf("SELECT snapshot_key FROM %s ORDER BY snapshot_key", quoteTableName(ss.tableName, ss.backend))
	rows, err := ss.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to query snapshot keys: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var keys []string
	for rows.Next() {
		var key string
		if err := rows.Scan(&key); err != nil {
			return nil, fmt.Errorf("failed to scan snapshot key: %w", err)
		}
		keys = append(keys, key)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating snapshot keys: %w", err)
	}
	return keys, nil
}

// Close closes the underlying DB connection.
func (ss *SnapshotStoreImpl) Close() error {
	if ss.db != nil {
		return ss.db.Close()
	}
	return nil
}

// GetStatus returns status information about the snapshot store.
func (ss *SnapshotStoreImpl) GetStatus() (schema.SnapshotStatus, error) {
	status := schema.SnapshotStatus{
		Backend:   string(ss.backend),
		Connected: ss.db != nil,
	}

	if ss.backend == schema.NoneBackend || ss.db == nil {
		return status, nil
	}

	quotedTableName := quoteTableName(ss.tableName, ss.backend)

	row := ss.db.QueryRow(fmt.Sprintf("SELECT COUNT(*) FROM %s", quotedTableName))
	if err := row.Scan(&status.TotalEntries); err != nil {
		return status, fmt.Errorf("failed to get total entries: %w", err)
	}

	if status.TotalEntries == 0 {
		return status, nil
	}

	var lastTs, oldestTs int64
	row = ss.db.QueryRow(fmt.Sprintf("SELECT MAX(snapshot_timestamp), MIN(snapshot_timestamp) FROM %s", quotedTableName))
	if err := row.Scan(&lastTs, &oldestTs); err != nil {
		return status, fmt.Errorf("failed to get entry times: %w", err)
	}
	status.LastEntryTime = time.Unix(lastTs, 0)
	status.OldestEntryTime = time.Unix(oldestTs, 0)

	// Rough estimate when the backend cannot report a size
	fallback := int64(status.TotalEntries) * 1000

	switch ss.backend {
	case schema.SQLiteBackend:
		row = ss.db.QueryRow("SELECT page_count * page_size FROM pragma_page_count(), pragma_page_size()")
		if err := row.Scan(&status.TableSizeBytes); err != nil {
			status.TableSizeBytes = 0
		}

	case schema.MySQLBackend:
		status.TableSizeBytes = fallback
		cfg, err := mysql.ParseDSN(ss.connStr)
		if err != nil || cfg.DBName == "" {
			break
		}
		sizeQuery := "SELECT data_length + index_length FROM information_schema.tables WHERE table_schema = ? AND table_name = ?"
		if err := ss.db.QueryRow(sizeQuery, cfg.DBName, ss.tableName).Scan(&status.TableSizeBytes); err != nil {
			status.TableSizeBytes = fallback
		}

	case schema.PostgreSQLBackend:
		if err := ss.db.QueryRow("SELECT pg_total_relation_size($1)", ss.tableName).Scan(&status.TableSizeBytes); err != nil {
			status.TableSizeBytes = fallback
		}
	}

	return status, nil
}
