package iocache

import (
	"database/sql"
	"fmt"
	"os"
	"sync"

	"github.com/chartwerk/line-chart/internal/contract"
	"github.com/chartwerk/line-chart/schema"
)

// snapshotTable is the name of the table for series snapshots.
const snapshotTable = "linechart_snapshots"

// Global Manager instance for main logic.
var (
	Manager   = &ChartStoreManager{}
	initOnce  sync.Once
	closeOnce sync.Once
)

// GetSnapshotDBFilePath returns the path to the SQLite DB file for snapshots.
func GetSnapshotDBFilePath() string {
	return contract.GetSnapshotDBFilePath()
}

// GetSessionDBFilePath returns the path to the SQLite DB file for sessions.
func GetSessionDBFilePath() string {
	return contract.GetSessionDBFilePath()
}

// InitStores initializes the global manager with separate snapshot and session stores.
// An empty backend leaves the corresponding store unset.
func InitStores(snapshotBackend schema.DatabaseBackend, snapshotConnStr string, sessionBackend schema.DatabaseBackend, sessionConnStr string) error {
	var initErr error

	initOnce.Do(func() {
		var err error

		var snapshots contract.SnapshotStore
		if snapshotBackend != "" {
			snapshots, err = NewSnapshotStore(snapshotTable, snapshotBackend, snapshotConnStr)
			if err != nil {
				initErr = fmt.Errorf("failed to initialize snapshot store: %w", err)
				return
			}
		}

		var sessions contract.SessionStore
		if sessionBackend != "" {
			sessions, err = NewSessionStore(sessionBackend, sessionConnStr)
			if err != nil {
				if snapshots != nil {
					_ = snapshots.Close()
				}
				initErr = fmt.Errorf("failed to initialize session store: %w", err)
				return
			}
		}

		Manager.Lock()
		Manager.snapshot = snapshots
		Manager.session = sessions
		Manager.Unlock()
	})

	return initErr
}

// CloseStores should be called on application shutdown.
func CloseStores() {
	closeOnce.Do(func() {
		Manager.Lock()
		defer Manager.Unlock()
		if Manager.snapshot != nil {
			_ = Manager.snapshot.Close()
		}
		if Manager.session != nil {
			_ = Manager.session.Close()
		}
	})
}

// ClearSnapshots removes all snapshots for the specified backend.
// SQLite deletes the database file; MySQL and PostgreSQL drop the table.
func ClearSnapshots(backend schema.DatabaseBackend, dbFilePath, connStr string) error {
	return clearBackend(backend, dbFilePath, connStr, snapshotTable)
}

// ClearSessions removes all session data for the specified backend.
func ClearSessions(backend schema.DatabaseBackend, dbFilePath, connStr string) error {
	return clearBackend(backend, dbFilePath, connStr, probeHitsTable, sessionsTable, "schema_migrations")
}

func clearBackend(backend schema.DatabaseBackend, dbFilePath, connStr string, tables ...string) error {
	switch backend {
	case schema.SQLiteBackend:
		if dbFilePath == "" {
			return fmt.Errorf("dbFilePath cannot be empty for SQLite backend")
		}
		if err := os.Remove(dbFilePath); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("failed to remove SQLite database file %s: %w", dbFilePath, err)
		}
		return nil

	case schema.MySQLBackend, schema.PostgreSQLBackend:
		driverName, _ := driverFor(backend)
		for _, table := range tables {
			if err := clearSQLTable(driverName, connStr, quoteTableName(table, backend)); err != nil {
				return err
			}
		}
		return nil

	case schema.NoneBackend:
		return nil

	default:
		return fmt.Errorf("unsupported backend for clearing: %s", backend)
	}
}

// clearSQLTable connects to the SQL database and drops the table if it exists.
func clearSQLTable(driverName, connStr, tableName string) error {
	db, err := sql.Open(driverName, connStr)
	if err != nil {
		return fmt.Errorf("failed to connect to %s database: %w", driverName, err)
	}
	defer func() { _ = db.Close() }()

	if err := db.Ping(); err != nil {
		return fmt.Errorf("failed to ping %s database: %w", driverName, err)
	}

	if _, err := db.Exec(fmt.Sprintf("DROP TABLE IF EXISTS %s", tableName)); err != nil {
		return fmt.Errorf("failed to drop table %s: %w", tableName, err)
	}
	return nil
}
