package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/chartwerk/line-chart/internal/contract"
	"github.com/chartwerk/line-chart/internal/iocache"
	"github.com/chartwerk/line-chart/schema"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// All linker flags will be set by goreleaser infra at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// rootCtx is the root context for all operations.
var rootCtx = context.Background()

// cfg will hold the validated, final configuration.
var cfg = &contract.Config{}

// input holds the raw, unvalidated configuration from all sources (file, env, flags).
// Viper will unmarshal into this struct.
var input = &contract.ConfigRawInput{}

// storeManager is the global persistence manager instance.
var storeManager contract.StoreManager

// rootCmd is the command-line entrypoint for all other commands.
var rootCmd = &cobra.Command{
	Use:                "linechart",
	Short:              "Probe, stream and sync line chart crosshairs.",
	Long:               `Linechart loads time series into a headless line chart and answers the questions its crosshair answers: which datapoints sit under a position, how far apart points are, and how values move.`,
	Version:            version,
	SilenceErrors:      true,
	SilenceUsage:       true,
	DisableSuggestions: true,
	Run: func(cmd *cobra.Command, _ []string) {
		_ = cmd.Help()
	},
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	// Check if a specific config file is provided
	if configFile := viper.GetString("config"); configFile != "" {
		viper.SetConfigFile(configFile)
	} else {
		viper.SetConfigName(".linechart")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")
		viper.AddConfigPath("$HOME")
	}

	// Set environment variable prefix
	viper.SetEnvPrefix("LINECHART")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()

	// Set defaults in Viper. Orientation has none: it must come from the file, env or flags.
	viper.SetDefault("chart-width", contract.DefaultChartWidth)
	viper.SetDefault("chart-height", contract.DefaultChartHeight)
	viper.SetDefault("precision", contract.DefaultPrecision)
	viper.SetDefault("output", schema.TextOut)
	viper.SetDefault("snapshot-backend", schema.NoneBackend)
	viper.SetDefault("snapshot-db-connect", "")
	viper.SetDefault("session-backend", schema.NoneBackend)
	viper.SetDefault("session-db-connect", "")
	viper.SetDefault("bus", schema.MemoryBus)
	viper.SetDefault("bus-channel", contract.DefaultBusChannel)
	viper.SetDefault("listen", contract.DefaultListenAddr)
	viper.SetDefault("color", "yes")
}

// sharedSetup unmarshals config and runs validation.
func sharedSetup(_ context.Context, _ *cobra.Command, args []string) error {
	// 1. Read config file. This merges defaults, file, env, and flags.
	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return fmt.Errorf("error reading config file: %w", err)
		}
	}

	// 2. Unmarshal all resolved values from Viper into our raw input struct.
	if err := viper.Unmarshal(input); err != nil {
		return fmt.Errorf("unable to unmarshal config: %w", err)
	}

	// 3. Handle positional arguments (which Viper doesn't do).
	if len(args) == 1 {
		input.SeriesFileStr = args[0]
	}

	// 4. Run all validation and complex parsing.
	if err := contract.ProcessAndValidate(cfg, input); err != nil {
		return err
	}

	// 5. Initialize persistence layer with validated config
	if err := iocache.InitStores(cfg.SnapshotBackend, cfg.SnapshotDBConnect, cfg.SessionBackend, cfg.SessionDBConnect); err != nil {
		return fmt.Errorf("failed to initialize persistence: %w", err)
	}

	return nil
}

// sharedSetupWrapper wraps sharedSetup to provide context for Cobra's PreRunE.
func sharedSetupWrapper(cmd *cobra.Command, args []string) error {
	return sharedSetup(rootCtx, cmd, args)
}

// loadConfigFile handles config file loading logic common to all setup functions.
func loadConfigFile() error {
	if configFile := viper.GetString("config"); configFile != "" {
		viper.SetConfigFile(configFile)
	} else {
		viper.SetConfigName(".linechart")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")
		viper.AddConfigPath("$HOME")
	}

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return fmt.Errorf("error reading config file: %w", err)
		}
	}

	return nil
}

// backendFromViper reads a backend setting, treating empty as NoneBackend.
func backendFromViper(key string) schema.DatabaseBackend {
	backend := schema.DatabaseBackend(strings.ToLower(viper.GetString(key)))
	if backend == "" {
		return schema.NoneBackend
	}
	return backend
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// SetRootContext sets the context every command runs under.
func SetRootContext(ctx context.Context) {
	rootCtx = ctx
}

// SetStoreManager sets the global store manager.
func SetStoreManager(mgr contract.StoreManager) {
	storeManager = mgr
}
