package cmd

import (
	"fmt"
	"strings"

	"github.com/chartwerk/line-chart/core"
	"github.com/chartwerk/line-chart/internal/contract"
	"github.com/chartwerk/line-chart/internal/iocache"
	"github.com/chartwerk/line-chart/internal/outwriter"
	"github.com/chartwerk/line-chart/schema"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// snapshotSetup loads minimal configuration needed for snapshot operations.
// No orientation is needed to move series in and out of the store.
func snapshotSetup(args []string) error {
	if err := loadConfigFile(); err != nil {
		return err
	}

	backend := backendFromViper("snapshot-backend")
	connStr := viper.GetString("snapshot-db-connect")
	if err := contract.ValidateDatabaseConnectionString(backend, connStr); err != nil {
		return err
	}
	if err := outputSetup(); err != nil {
		return err
	}

	// Initialize snapshots only (no session tracking for snapshot commands)
	if err := iocache.InitStores(backend, connStr, "", ""); err != nil {
		return fmt.Errorf("failed to initialize snapshots: %w", err)
	}

	cfg.SnapshotBackend = backend
	cfg.SnapshotDBConnect = connStr
	if len(args) == 1 {
		cfg.SeriesFile = strings.TrimSpace(args[0])
	}
	return nil
}

// outputSetup copies the printing options into cfg.
func outputSetup() error {
	cfg.Output = schema.OutputMode(strings.ToLower(viper.GetString("output")))
	if _, ok := schema.ValidOutputModes[cfg.Output]; !ok {
		return fmt.Errorf("invalid output format '%s'. must be text, csv, json, parquet", cfg.Output)
	}
	cfg.OutputFile = viper.GetString("output-file")
	if cfg.Output == schema.ParquetOut && cfg.OutputFile == "" {
		return fmt.Errorf("--output-file is required for parquet output")
	}
	cfg.Precision = viper.GetInt("precision")
	if cfg.Precision < 1 || cfg.Precision > contract.MaxPrecision {
		return fmt.Errorf("precision must be between 1 and %d (received %d)", contract.MaxPrecision, cfg.Precision)
	}
	cfg.Width = viper.GetInt("width")
	useColors, err := contract.ParseBoolString(viper.GetString("color"))
	if err != nil {
		return fmt.Errorf("invalid color value: %w", err)
	}
	cfg.UseColors = useColors
	return nil
}

// snapshotSetupWrapper wraps snapshotSetup to provide PreRunE for snapshot commands.
func snapshotSetupWrapper(_ *cobra.Command, args []string) error {
	return snapshotSetup(args)
}

// snapshotCmd focused on series snapshots.
//
// Note: Snapshot subcommands use minimal initialization (snapshotSetup) instead of
// the full sharedSetup. Storing and printing series needs no crosshair settings.
var snapshotCmd = &cobra.Command{
	Use:   "snapshot",
	Short: "Manage stored series snapshots",
	Long: `Store series so later commands can run without a series file.

Each series is stored under its target with its datapoints, visibility, mode and
max length. Commands given no series file load every stored series instead.

Supported backends: SQLite, MySQL, PostgreSQL, or None (in-memory)

Subcommands:
  save   - Store every series of a series file
  load   - Print stored series
  status - Show snapshot statistics and connection info
  clear  - Remove all snapshots

Examples:
  # Store series once, probe many times
  linechart snapshot save series.json --snapshot-backend sqlite
  linechart probe --orientation vertical --x 1700000000000 --snapshot-backend sqlite`,
}

// snapshotSaveCmd stores series.
var snapshotSaveCmd = &cobra.Command{
	Use:   "save <series-file>",
	Short: "Store every series of a series file",
	Long: `Read a JSON, YAML, CSV or XLSX series file and store each series by target.

Existing snapshots with the same target are replaced.

Examples:
  linechart snapshot save series.json --snapshot-backend sqlite

  # Store in PostgreSQL (set connection string via env variable)
  LINECHART_SNAPSHOT_BACKEND=postgresql LINECHART_SNAPSHOT_DB_CONNECT="..." linechart snapshot save series.csv`,
	Args:    cobra.ExactArgs(1),
	PreRunE: snapshotSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteSnapshotSave(cfg, iocache.Manager); err != nil {
			contract.LogFatal("Failed to save snapshots", err)
		}
	},
}

// snapshotLoadCmd prints stored series.
var snapshotLoadCmd = &cobra.Command{
	Use:   "load [target...]",
	Short: "Print stored series",
	Long: `Print the stored series for the given targets, or all of them.

Examples:
  linechart snapshot load --snapshot-backend sqlite
  linechart snapshot load cpu mem --snapshot-backend sqlite --output json`,
	PreRunE: func(_ *cobra.Command, _ []string) error {
		return snapshotSetup(nil)
	},
	Run: func(_ *cobra.Command, args []string) {
		if err := core.ExecuteSnapshotLoad(cfg, iocache.Manager, outwriter.NewOutWriter(), args); err != nil {
			contract.LogFatal("Failed to load snapshots", err)
		}
	},
}

// snapshotStatusCmd shows snapshot status.
var snapshotStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Display snapshot statistics and connection details",
	Long: `Show the backend, connection status, number of stored series and the
newest and oldest snapshot timestamps.

Examples:
  linechart snapshot status --snapshot-backend sqlite`,
	PreRunE: snapshotSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		store := iocache.Manager.GetSnapshotStore()
		if store == nil {
			contract.LogFatal("Failed to get snapshot status", fmt.Errorf("snapshot store is not configured"))
		}
		status, err := store.GetStatus()
		if err != nil {
			contract.LogFatal("Failed to get snapshot status", err)
		}
		iocache.PrintSnapshotStatus(status)
	},
}

// snapshotClearCmd clears the snapshots.
var snapshotClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove all stored series",
	Long: `Delete all snapshots from the configured backend.

For SQLite: Deletes the database file
For MySQL/PostgreSQL: Drops the snapshot table

Examples:
  linechart snapshot clear --snapshot-backend sqlite`,
	PreRunE: func(_ *cobra.Command, _ []string) error {
		if err := loadConfigFile(); err != nil {
			return err
		}
		cfg.SnapshotBackend = backendFromViper("snapshot-backend")
		cfg.SnapshotDBConnect = viper.GetString("snapshot-db-connect")
		return contract.ValidateDatabaseConnectionString(cfg.SnapshotBackend, cfg.SnapshotDBConnect)
	},
	Run: func(_ *cobra.Command, _ []string) {
		dbFile := cfg.SnapshotDBConnect
		if dbFile == "" {
			dbFile = iocache.GetSnapshotDBFilePath()
		}
		if err := iocache.ClearSnapshots(cfg.SnapshotBackend, dbFile, cfg.SnapshotDBConnect); err != nil {
			contract.LogFatal("Failed to clear snapshots", err)
		}
		fmt.Println("Snapshots cleared successfully.")
	},
}
