package contract

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/chartwerk/line-chart/schema"
)

// Default values for configuration.
const (
	DefaultPrecision   = 2
	MaxPrecision       = 6
	DefaultChartWidth  = 800
	DefaultChartHeight = 300
	DefaultBusChannel  = "linechart:crosshair"
	DefaultListenAddr  = ":8080"
)

// Config holds the runtime configuration for the chart tooling.
// This struct remains the "final, validated" config.
type Config struct {
	SeriesFile  string
	Orientation schema.Orientation
	Bounds      schema.BoundConfig
	Layout      schema.Layout
	MaxLength   int // Applied to every series when > 0

	Precision  int
	Output     schema.OutputMode
	OutputFile string
	Width      int // Terminal width override (0 = auto-detect)
	UseColors  bool

	SnapshotBackend   schema.DatabaseBackend
	SnapshotDBConnect string // Please use env var as this is plaintext

	SessionBackend   schema.DatabaseBackend
	SessionDBConnect string // Please use env var as this is plaintext

	FeedURL    string
	BusBackend schema.BusBackend
	RedisAddr  string
	BusChannel string
	ListenAddr string
}

// ConfigRawInput holds the raw inputs from all sources (flags, env, config file).
// Viper unmarshals into this struct.
type ConfigRawInput struct {
	// This is set manually from positional args, so no tag
	SeriesFileStr string

	// --- Fields from rootCmd.PersistentFlags() ---
	Orientation       string  `mapstructure:"orientation"`
	BoundUpper        string  `mapstructure:"bound-upper"`
	BoundLower        string  `mapstructure:"bound-lower"`
	ChartWidth        float64 `mapstructure:"chart-width"`
	ChartHeight       float64 `mapstructure:"chart-height"`
	MaxLength         int     `mapstructure:"max-length"`
	Precision         int     `mapstructure:"precision"`
	Output            string  `mapstructure:"output"`
	OutputFile        string  `mapstructure:"output-file"`
	Width             int     `mapstructure:"width"`
	Color             string  `mapstructure:"color"`
	SnapshotBackend   string  `mapstructure:"snapshot-backend"`
	SnapshotDBConnect string  `mapstructure:"snapshot-db-connect"`
	SessionBackend    string  `mapstructure:"session-backend"`
	SessionDBConnect  string  `mapstructure:"session-db-connect"`

	// --- Fields from streamCmd and serveCmd flags ---
	Feed       string `mapstructure:"feed"`
	Bus        string `mapstructure:"bus"`
	RedisAddr  string `mapstructure:"redis-addr"`
	BusChannel string `mapstructure:"bus-channel"`
	Listen     string `mapstructure:"listen"`
}

// Clone returns a copy of the Config struct.
func (c *Config) Clone() *Config {
	clone := *c
	return &clone
}

// ChartOptions returns the chart configuration derived from the validated config.
func (c *Config) ChartOptions() schema.ChartOptions {
	return schema.ChartOptions{
		Crosshair: schema.CrosshairOptions{Orientation: c.Orientation},
		Bounds:    c.Bounds,
		Layout:    c.Layout,
	}
}

// ProcessAndValidate performs all parsing and validation on the raw inputs
// and updates the final Config struct.
func ProcessAndValidate(cfg *Config, input *ConfigRawInput) error {
	if err := validateSimpleInputs(cfg, input); err != nil {
		return err
	}
	if err := validateBackendConfigs(cfg, input); err != nil {
		return err
	}
	if err := processStreaming(cfg, input); err != nil {
		return err
	}
	return processSync(cfg, input)
}

// ValidateOrientation parses a crosshair orientation. Empty and unknown values are errors.
func ValidateOrientation(raw string) (schema.Orientation, error) {
	o := schema.Orientation(strings.ToLower(strings.TrimSpace(raw)))
	if o == "" {
		return "", fmt.Errorf("%w: orientation is required. must be vertical, horizontal, both", ErrUnknownOrientation)
	}
	if _, ok := schema.ValidOrientations[o]; !ok {
		return "", fmt.Errorf("%w: '%s'. must be vertical, horizontal, both", ErrUnknownOrientation, raw)
	}
	return o, nil
}

// ValidateDatabaseConnectionString validates the format of database connection strings
// for MySQL and PostgreSQL backends.
func ValidateDatabaseConnectionString(backend schema.DatabaseBackend, connStr string) error {
	switch backend {
	case schema.SQLiteBackend, schema.NoneBackend:
		return nil
	case schema.MySQLBackend:
		if connStr == "" {
			return fmt.Errorf("a connection string is required when using %s backend", backend)
		}
		if !strings.Contains(connStr, "@tcp(") {
			return fmt.Errorf("MySQL connection string must contain '@tcp(' for the host and port")
		}
		if !strings.Contains(connStr, "/") {
			return fmt.Errorf("MySQL connection string must contain '/' followed by database name")
		}
	case schema.PostgreSQLBackend:
		if connStr == "" {
			return fmt.Errorf("a connection string is required when using %s backend", backend)
		}
		if !strings.Contains(connStr, "host=") {
			return fmt.Errorf("PostgreSQL connection string must contain 'host=' parameter")
		}
		if !strings.Contains(connStr, "dbname=") {
			return fmt.Errorf("PostgreSQL connection string must contain 'dbname=' parameter")
		}
	}
	return nil
}

// validateSimpleInputs validates chart, output and display settings.
func validateSimpleInputs(cfg *Config, input *ConfigRawInput) error {
	cfg.SeriesFile = strings.TrimSpace(input.SeriesFileStr)

	orientation, err := ValidateOrientation(input.Orientation)
	if err != nil {
		return err
	}
	cfg.Orientation = orientation

	cfg.Bounds = schema.BoundConfig{
		Upper: strings.TrimSpace(input.BoundUpper),
		Lower: strings.TrimSpace(input.BoundLower),
	}

	cfg.Layout = schema.Layout{Width: input.ChartWidth, Height: input.ChartHeight}
	if cfg.Layout.Width == 0 {
		cfg.Layout.Width = DefaultChartWidth
	}
	if cfg.Layout.Height == 0 {
		cfg.Layout.Height = DefaultChartHeight
	}
	if cfg.Layout.Width < 0 || cfg.Layout.Height < 0 {
		return fmt.Errorf("chart size must be positive (received %vx%v)", cfg.Layout.Width, cfg.Layout.Height)
	}

	if input.MaxLength < 0 {
		return fmt.Errorf("--max-length must be zero (unbounded) or positive (received %d)", input.MaxLength)
	}
	cfg.MaxLength = input.MaxLength

	if input.Precision < 1 || input.Precision > MaxPrecision {
		return fmt.Errorf("precision must be between 1 and %d (received %d)", MaxPrecision, input.Precision)
	}
	cfg.Precision = input.Precision

	cfg.Output = schema.OutputMode(strings.ToLower(input.Output))
	if cfg.Output == "" {
		cfg.Output = schema.TextOut
	}
	if _, ok := schema.ValidOutputModes[cfg.Output]; !ok {
		return fmt.Errorf("invalid output format '%s'. must be text, csv, json, parquet", input.Output)
	}
	if cfg.Output == schema.ParquetOut && strings.TrimSpace(input.OutputFile) == "" {
		return fmt.Errorf("--output-file is required for parquet output")
	}
	cfg.OutputFile = strings.TrimSpace(input.OutputFile)

	if input.Width < 0 {
		return fmt.Errorf("width must be zero (auto) or positive (received %d)", input.Width)
	}
	cfg.Width = input.Width

	cfg.UseColors = true
	if input.Color != "" {
		useColors, err := ParseBoolString(input.Color)
		if err != nil {
			return fmt.Errorf("invalid color value: %w", err)
		}
		cfg.UseColors = useColors
	}

	return nil
}

// validateBackendConfigs validates snapshot and session backend configurations.
func validateBackendConfigs(cfg *Config, input *ConfigRawInput) error {
	// --- Snapshot Backend Validation ---
	cfg.SnapshotBackend = schema.DatabaseBackend(strings.ToLower(input.SnapshotBackend))
	if cfg.SnapshotBackend == "" {
		cfg.SnapshotBackend = schema.NoneBackend
	}
	if _, ok := schema.ValidDatabaseBackends[cfg.SnapshotBackend]; !ok {
		return fmt.Errorf("invalid snapshot backend '%s'. must be sqlite, mysql, postgresql, none", input.SnapshotBackend)
	}
	cfg.SnapshotDBConnect = input.SnapshotDBConnect
	if err := ValidateDatabaseConnectionString(cfg.SnapshotBackend, cfg.SnapshotDBConnect); err != nil {
		return err
	}

	// --- Session Backend Validation ---
	cfg.SessionBackend = schema.DatabaseBackend(strings.ToLower(input.SessionBackend))
	if cfg.SessionBackend == "" {
		cfg.SessionBackend = schema.NoneBackend
	}
	if _, ok := schema.ValidDatabaseBackends[cfg.SessionBackend]; !ok {
		return fmt.Errorf("invalid session backend '%s'. must be sqlite, mysql, postgresql, none", input.SessionBackend)
	}
	cfg.SessionDBConnect = input.SessionDBConnect
	if err := ValidateDatabaseConnectionString(cfg.SessionBackend, cfg.SessionDBConnect); err != nil {
		return err
	}

	// Both SQLite stores must not resolve to the same file
	if cfg.SnapshotBackend == schema.SQLiteBackend && cfg.SessionBackend == schema.SQLiteBackend {
		snapshotPath := cfg.SnapshotDBConnect
		if snapshotPath == "" {
			snapshotPath = GetSnapshotDBFilePath()
		}
		sessionPath := cfg.SessionDBConnect
		if sessionPath == "" {
			sessionPath = GetSessionDBFilePath()
		}
		if snapshotPath == sessionPath {
			return fmt.Errorf("snapshot and session storage must use different SQLite database files. Both resolve to %q", snapshotPath)
		}
	}

	return nil
}

// processStreaming validates the live feed endpoint.
func processStreaming(cfg *Config, input *ConfigRawInput) error {
	cfg.FeedURL = strings.TrimSpace(input.Feed)
	if cfg.FeedURL == "" {
		return nil
	}
	u, err := url.Parse(cfg.FeedURL)
	if err != nil {
		return fmt.Errorf("invalid feed URL '%s': %w", input.Feed, err)
	}
	if u.Scheme != "ws" && u.Scheme != "wss" {
		return fmt.Errorf("feed URL must use ws:// or wss:// (received %q)", u.Scheme)
	}
	return nil
}

// processSync validates the crosshair sync bus and HTTP listener.
func processSync(cfg *Config, input *ConfigRawInput) error {
	cfg.BusBackend = schema.BusBackend(strings.ToLower(input.Bus))
	if cfg.BusBackend == "" {
		cfg.BusBackend = schema.MemoryBus
	}
	if _, ok := schema.ValidBusBackends[cfg.BusBackend]; !ok {
		return fmt.Errorf("invalid bus backend '%s'. must be memory, redis, none", input.Bus)
	}
	cfg.RedisAddr = strings.TrimSpace(input.RedisAddr)
	if cfg.BusBackend == schema.RedisBus && cfg.RedisAddr == "" {
		return fmt.Errorf("--redis-addr is required when using the redis bus")
	}
	cfg.BusChannel = strings.TrimSpace(input.BusChannel)
	if cfg.BusChannel == "" {
		cfg.BusChannel = DefaultBusChannel
	}
	cfg.ListenAddr = strings.TrimSpace(input.Listen)
	if cfg.ListenAddr == "" {
		cfg.ListenAddr = DefaultListenAddr
	}
	return nil
}
