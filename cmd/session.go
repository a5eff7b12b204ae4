package cmd

import (
	"fmt"

	"github.com/chartwerk/line-chart/internal/contract"
	"github.com/chartwerk/line-chart/internal/iocache"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// sessionBackendSetup reads and validates the session backend settings.
func sessionBackendSetup() error {
	if err := loadConfigFile(); err != nil {
		return err
	}
	cfg.SessionBackend = backendFromViper("session-backend")
	cfg.SessionDBConnect = viper.GetString("session-db-connect")
	return contract.ValidateDatabaseConnectionString(cfg.SessionBackend, cfg.SessionDBConnect)
}

// sessionSetup loads minimal configuration needed for session operations.
func sessionSetup() error {
	if err := sessionBackendSetup(); err != nil {
		return err
	}

	// Get output-related config values (used by export command)
	cfg.OutputFile = viper.GetString("output-file")

	// Initialize sessions only (no snapshots for session commands)
	if err := iocache.InitStores("", "", cfg.SessionBackend, cfg.SessionDBConnect); err != nil {
		return fmt.Errorf("failed to initialize sessions: %w", err)
	}
	return nil
}

// sessionSetupWrapper wraps sessionSetup to provide PreRunE for session commands.
func sessionSetupWrapper(_ *cobra.Command, _ []string) error {
	return sessionSetup()
}

// sessionMigrateSetupWrapper validates the backend without opening the store,
// so migrations can run on a fresh database.
func sessionMigrateSetupWrapper(_ *cobra.Command, _ []string) error {
	return sessionBackendSetup()
}

// sessionCmd focused on probe session data.
//
// Note: Session subcommands use minimal initialization instead of the full
// sharedSetup. No series or crosshair settings are needed to manage the store.
var sessionCmd = &cobra.Command{
	Use:   "session",
	Short: "Manage recorded probe sessions and exports",
	Long: `Manage the probe history recorded when --session-backend is set.

Every probe run is stored as a session with:
- Run metadata (start and end time, configuration, probe count)
- Every accepted hit (series, nearest datapoint, distance)

Supported backends: SQLite, MySQL, PostgreSQL, or None (disabled)

Subcommands:
  status  - Show session statistics
  export  - Export sessions and hits to Parquet
  clear   - Remove all session data
  migrate - Run database schema migrations

Examples:
  # Check what has been recorded
  linechart session status --session-backend sqlite

  # Export for analysis in pandas/DuckDB
  linechart session export --session-backend sqlite --output-file probes`,
}

// sessionClearCmd clears the session data.
var sessionClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove all recorded probe sessions",
	Long: `Delete all stored sessions, hits and the migration history.

WARNING: This action cannot be undone. Consider exporting data first.

Examples:
  linechart session export --session-backend sqlite --output-file backup
  linechart session clear --session-backend sqlite`,
	PreRunE: sessionMigrateSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		dbFile := cfg.SessionDBConnect
		if dbFile == "" {
			dbFile = iocache.GetSessionDBFilePath()
		}
		if err := iocache.ClearSessions(cfg.SessionBackend, dbFile, cfg.SessionDBConnect); err != nil {
			contract.LogFatal("Failed to clear session data", err)
		}
		fmt.Println("Session data cleared successfully.")
	},
}

// sessionStatusCmd shows session status.
var sessionStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Display session statistics and connection details",
	Long: `Show the backend, connection status, number of sessions and hits,
and the newest and oldest session timestamps.

Examples:
  linechart session status --session-backend sqlite`,
	PreRunE: sessionSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		store := iocache.Manager.GetSessionStore()
		if store == nil {
			contract.LogFatal("Failed to get session status", fmt.Errorf("session store is not configured"))
		}
		status, err := store.GetStatus()
		if err != nil {
			contract.LogFatal("Failed to get session status", err)
		}
		iocache.PrintSessionStatus(status)
	},
}

// sessionExportCmd exports session data to Parquet files.
var sessionExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export probe sessions to Parquet",
	Long: `Export stored sessions and hits to two Parquet files:
<output-file>.sessions.parquet and <output-file>.probe_hits.parquet

Requires: --output-file parameter

Examples:
  linechart session export --session-backend sqlite --output-file probes
  duckdb -c "SELECT target, count(*) FROM read_parquet('probes.probe_hits.parquet') GROUP BY 1"`,
	PreRunE: sessionSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := iocache.ExecuteSessionExport(iocache.Manager.GetSessionStore(), cfg.OutputFile); err != nil {
			contract.LogFatal("Failed to export session data", err)
		}
	},
}

// sessionMigrateCmd runs database migrations for the session store.
var sessionMigrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Run database schema migrations (upgrades/downgrades)",
	Long: `Manage database schema versions for the session store.

By default, migrates to the latest version. Use --target-version for specific versions.

Examples:
  # Migrate to latest version (default)
  linechart session migrate --session-backend sqlite

  # Rollback everything
  linechart session migrate --session-backend sqlite --target-version 0`,
	PreRunE: sessionMigrateSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		targetVersion := viper.GetInt("target-version")
		if err := iocache.MigrateSessions(cfg.SessionBackend, cfg.SessionDBConnect, targetVersion); err != nil {
			contract.LogFatal("Failed to run migrations", err)
		}
	},
}
