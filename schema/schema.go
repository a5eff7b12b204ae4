// Package schema has configs, models and constants shared by all parts of linechart.
package schema

import "strings"

// Datapoint is one sample of a series: a scalar value at a domain key.
// Time axes use epoch milliseconds as the key.
type Datapoint struct {
	Value float64 `json:"value" yaml:"value"`
	Key   float64 `json:"key" yaml:"key"`
}

// Axis returns the component selected by key.
func (d Datapoint) Axis(key AxisKey) float64 {
	if key == AxisY {
		return d.Value
	}
	return d.Key
}

// Series is one named, ordered sequence of datapoints plus display metadata.
// Datapoints are kept in insertion order, which is non-decreasing by key.
// The zero value is visible; only Hidden series are skipped.
type Series struct {
	Target      string      `json:"target" yaml:"target"`
	Alias       string      `json:"alias,omitempty" yaml:"alias,omitempty"`
	Datapoints  []Datapoint `json:"datapoints" yaml:"datapoints"`
	Hidden      bool        `json:"hidden,omitempty" yaml:"hidden,omitempty"`
	Mode        SeriesMode  `json:"mode,omitempty" yaml:"mode,omitempty"`
	Confidence  float64     `json:"confidence,omitempty" yaml:"confidence,omitempty"`
	MaxLength   int         `json:"max_length,omitempty" yaml:"max_length,omitempty"` // 0 = unbounded
	Color       string      `json:"color,omitempty" yaml:"color,omitempty"`
	RenderDots  bool        `json:"render_dots,omitempty" yaml:"render_dots,omitempty"`
	RenderLines bool        `json:"render_lines,omitempty" yaml:"render_lines,omitempty"`
}

// Label returns the display label: the alias when set, the target otherwise.
func (s *Series) Label() string {
	if s.Alias != "" {
		return s.Alias
	}
	return s.Target
}

// Visible reports whether the series takes part in rendering, hit-testing and streaming.
func (s *Series) Visible() bool { return !s.Hidden }

// EffectiveMode returns the series mode, defaulting to StandardMode.
func (s *Series) EffectiveMode() SeriesMode {
	if s.Mode == "" {
		return StandardMode
	}
	return s.Mode
}

// Clone returns a copy that shares no datapoint storage with s.
func (s Series) Clone() Series {
	s.Datapoints = append([]Datapoint(nil), s.Datapoints...)
	return s
}

// BoundConfig holds the labels used to derive upper/lower bound series targets.
type BoundConfig struct {
	Upper string `json:"upper,omitempty" yaml:"upper,omitempty" mapstructure:"upper"`
	Lower string `json:"lower,omitempty" yaml:"lower,omitempty" mapstructure:"lower"`
}

// Enabled reports whether any bound label is configured.
func (b BoundConfig) Enabled() bool {
	return b.Upper != "" || b.Lower != ""
}

// FormatBound substitutes the primary target into a bound label.
// "$__metric_name upper" with target "cpu" yields "cpu upper".
func FormatBound(label, target string) string {
	return strings.ReplaceAll(label, MetricNamePlaceholder, target)
}

// Layout is the plotted area in pixels.
type Layout struct {
	Width  float64 `json:"width" yaml:"width" mapstructure:"width"`
	Height float64 `json:"height" yaml:"height" mapstructure:"height"`
}

// CrosshairOptions configures the crosshair. Orientation is required.
type CrosshairOptions struct {
	Orientation Orientation `json:"orientation" yaml:"orientation" mapstructure:"orientation"`
}

// ChartOptions is the explicit chart configuration.
// Per-series defaults: Mode StandardMode, Confidence 0, MaxLength 0 (unbounded).
type ChartOptions struct {
	Crosshair CrosshairOptions `json:"crosshair" yaml:"crosshair"`
	Bounds    BoundConfig      `json:"bounds,omitempty" yaml:"bounds,omitempty"`
	Layout    Layout           `json:"layout" yaml:"layout"`
}
