package schema

// Custom string types for type safety.
type (
	// OutputMode represents the format of the output.
	OutputMode string

	// DatabaseBackend represents the database backend for snapshots and sessions.
	DatabaseBackend string

	// BusBackend represents the transport used for shared crosshair sync.
	BusBackend string

	// Orientation represents which guide lines the crosshair draws and which axis it hit-tests on.
	Orientation string

	// SeriesMode represents how a series' datapoints are interpreted for rendering.
	SeriesMode string

	// AxisKey selects the datapoint component used for search and spacing.
	AxisKey string

	// Direction represents the classification of a consecutive value pair.
	Direction string

	// CrosshairStatus represents the crosshair state machine state.
	CrosshairStatus string

	// EventKind names a host callback.
	EventKind string
)

// All output modes supported.
const (
	CSVOut     OutputMode = "csv"
	TextOut    OutputMode = "text" // default
	JSONOut    OutputMode = "json"
	ParquetOut OutputMode = "parquet"
)

// All database backends supported.
const (
	SQLiteBackend     DatabaseBackend = "sqlite" // default
	MySQLBackend      DatabaseBackend = "mysql"
	PostgreSQLBackend DatabaseBackend = "postgresql"
	NoneBackend       DatabaseBackend = "none"
)

// All sync bus backends supported.
const (
	MemoryBus BusBackend = "memory" // default
	RedisBus  BusBackend = "redis"
	NoBus     BusBackend = "none"
)

// All crosshair orientations supported. There is no default.
const (
	Vertical   Orientation = "vertical"
	Horizontal Orientation = "horizontal"
	Both       Orientation = "both"
)

// All series modes supported.
const (
	StandardMode SeriesMode = "standard" // default
	ChargeMode   SeriesMode = "charge"
)

// Axis keys of a datapoint.
const (
	AxisX AxisKey = "x" // domain key (time or numeric)
	AxisY AxisKey = "y" // value
)

// Charge transition directions.
const (
	Increasing Direction = "increasing"
	Decreasing Direction = "decreasing"
	Flat       Direction = "flat"
)

// Crosshair states.
const (
	CrosshairHidden       CrosshairStatus = "hidden"
	CrosshairVisibleNoHit CrosshairStatus = "visible_no_hit"
	CrosshairVisibleHit   CrosshairStatus = "visible_hit"
)

// Host callback names.
const (
	MouseMoveEvent           EventKind = "mouse_move"
	MouseOutEvent            EventKind = "mouse_out"
	ZoomInEvent              EventKind = "zoom_in"
	ZoomOutEvent             EventKind = "zoom_out"
	SharedCrosshairMoveEvent EventKind = "shared_crosshair_move"
)

// NoDataText is the placeholder shown when there is nothing to plot.
const NoDataText = "No data points"

// MetricNamePlaceholder is replaced by the primary target in bound labels.
const MetricNamePlaceholder = "$__metric_name"

// ValidOutputModes lists all valid output modes.
var ValidOutputModes = map[OutputMode]struct{}{
	CSVOut:     {},
	TextOut:    {},
	JSONOut:    {},
	ParquetOut: {},
}

// ValidDatabaseBackends lists all valid database backends.
var ValidDatabaseBackends = map[DatabaseBackend]struct{}{
	SQLiteBackend:     {},
	MySQLBackend:      {},
	PostgreSQLBackend: {},
	NoneBackend:       {},
}

// ValidBusBackends lists all valid sync bus backends.
var ValidBusBackends = map[BusBackend]struct{}{
	MemoryBus: {},
	RedisBus:  {},
	NoBus:     {},
}

// ValidOrientations lists all valid crosshair orientations.
var ValidOrientations = map[Orientation]struct{}{
	Vertical:   {},
	Horizontal: {},
	Both:       {},
}

// ValidSeriesModes lists all valid series modes.
var ValidSeriesModes = map[SeriesMode]struct{}{
	StandardMode: {},
	ChargeMode:   {},
}
