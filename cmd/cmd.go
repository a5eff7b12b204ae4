// Package cmd defines the command-line interface for linechart.
package cmd

import (
	"github.com/chartwerk/line-chart/internal/contract"
	"github.com/chartwerk/line-chart/schema"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func init() {
	// Call initConfig on Cobra's initialization
	cobra.OnInitialize(initConfig)

	// Add primary subcommands to the root command
	rootCmd.AddCommand(probeCmd)
	rootCmd.AddCommand(spacingCmd)
	rootCmd.AddCommand(segmentsCmd)
	rootCmd.AddCommand(streamCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(snapshotCmd)
	rootCmd.AddCommand(sessionCmd)
	rootCmd.AddCommand(mcpCmd)
	rootCmd.AddCommand(versionCmd)

	// Add the snapshot subcommands to the parent snapshot command
	snapshotCmd.AddCommand(snapshotSaveCmd)
	snapshotCmd.AddCommand(snapshotLoadCmd)
	snapshotCmd.AddCommand(snapshotStatusCmd)
	snapshotCmd.AddCommand(snapshotClearCmd)

	// Add the session subcommands to the parent session command
	sessionCmd.AddCommand(sessionClearCmd)
	sessionCmd.AddCommand(sessionStatusCmd)
	sessionCmd.AddCommand(sessionExportCmd)
	sessionCmd.AddCommand(sessionMigrateCmd)

	// Bind all persistent flags of rootCmd to Viper
	rootCmd.PersistentFlags().String("orientation", "", "Crosshair orientation: vertical or horizontal or both (required)")
	rootCmd.PersistentFlags().String("bound-upper", "", "Upper confidence bound target pattern ($__metric_name is replaced by the primary target)")
	rootCmd.PersistentFlags().String("bound-lower", "", "Lower confidence bound target pattern")
	rootCmd.PersistentFlags().Float64("chart-width", contract.DefaultChartWidth, "Plot area width in pixels")
	rootCmd.PersistentFlags().Float64("chart-height", contract.DefaultChartHeight, "Plot area height in pixels")
	rootCmd.PersistentFlags().Int("max-length", 0, "Buffer length applied to series without their own (0 = unbounded)")
	rootCmd.PersistentFlags().Int("precision", contract.DefaultPrecision, "Decimal precision for numeric columns")
	rootCmd.PersistentFlags().String("output", string(schema.TextOut), "Output format: text or csv or json or parquet")
	rootCmd.PersistentFlags().String("output-file", "", "Optional path to write output to")
	rootCmd.PersistentFlags().Int("width", 0, "Terminal width override (0 = auto-detect)")
	rootCmd.PersistentFlags().String("color", "yes", "Enable colored labels in output (yes/no/true/false/1/0)")
	rootCmd.PersistentFlags().String("snapshot-backend", string(schema.NoneBackend), "Snapshot backend: sqlite or mysql or postgresql or none")
	rootCmd.PersistentFlags().String("snapshot-db-connect", "", "Database connection string for mysql/postgresql (e.g., user:pass@tcp(host:port)/dbname)")
	rootCmd.PersistentFlags().String("session-backend", string(schema.NoneBackend), "Probe session backend: sqlite or mysql or postgresql or none")
	rootCmd.PersistentFlags().String("session-db-connect", "", "Database connection string for session tracking (must differ from snapshot-db-connect)")
	rootCmd.PersistentFlags().String("config", "", "Path to config file")
	if err := viper.BindPFlags(rootCmd.PersistentFlags()); err != nil {
		contract.LogFatal("Error binding root flags", err)
	}

	// Bind all flags of probeCmd to Viper
	probeCmd.Flags().Float64("x", 0, "Domain key to probe")
	probeCmd.Flags().Float64("y", 0, "Value to probe (horizontal and both orientations)")
	probeCmd.Flags().Float64("px", 0, "Pixel x to probe (used with --py instead of --x/--y)")
	probeCmd.Flags().Float64("py", 0, "Pixel y to probe")
	probeCmd.MarkFlagsRequiredTogether("px", "py")
	probeCmd.MarkFlagsMutuallyExclusive("x", "px")
	probeCmd.MarkFlagsMutuallyExclusive("y", "py")
	if err := viper.BindPFlags(probeCmd.Flags()); err != nil {
		contract.LogFatal("Error binding probe flags", err)
	}

	// Bind all flags of streamCmd to Viper
	streamCmd.Flags().String("feed", "", "Websocket feed URL (ws:// or wss://). Reads JSON lines from stdin when empty")
	streamCmd.Flags().Bool("save", false, "Save the resulting buffers to the snapshot store")
	if err := viper.BindPFlags(streamCmd.Flags()); err != nil {
		contract.LogFatal("Error binding stream flags", err)
	}

	// Bind all flags of serveCmd to Viper. --feed is shared with streamCmd.
	serveCmd.Flags().String("feed", "", "Websocket feed URL (ws:// or wss://)")
	serveCmd.Flags().String("bus", string(schema.MemoryBus), "Crosshair sync bus: memory or redis or none")
	serveCmd.Flags().String("redis-addr", "", "Redis address for the redis bus (host:port)")
	serveCmd.Flags().String("bus-channel", contract.DefaultBusChannel, "Pub/sub channel for crosshair sync")
	serveCmd.Flags().String("listen", contract.DefaultListenAddr, "HTTP listen address")
	if err := viper.BindPFlags(serveCmd.Flags()); err != nil {
		contract.LogFatal("Error binding serve flags", err)
	}

	// Bind all flags of sessionMigrateCmd to Viper
	sessionMigrateCmd.Flags().Int("target-version", -1, "Target migration version (-1 means latest, 0 means rollback to initial state)")
	if err := viper.BindPFlags(sessionMigrateCmd.Flags()); err != nil {
		contract.LogFatal("Error binding session migrate flags", err)
	}
}
