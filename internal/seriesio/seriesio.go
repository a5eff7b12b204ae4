// Package seriesio loads chart series from JSON, YAML, CSV and XLSX files.
package seriesio

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/chartwerk/line-chart/schema"
	"gopkg.in/yaml.v3"
)

// Format is a supported series file format.
type Format string

// Supported formats.
const (
	JSONFormat Format = "json"
	YAMLFormat Format = "yaml"
	CSVFormat  Format = "csv"
	XLSXFormat Format = "xlsx"
)

// ErrUnsortedKeys is returned when a series has a key lower than its predecessor.
var ErrUnsortedKeys = errors.New("datapoint keys must be non-decreasing")

// FormatFromPath infers the format from a file extension.
func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return JSONFormat, nil
	case ".yaml", ".yml":
		return YAMLFormat, nil
	case ".csv":
		return CSVFormat, nil
	case ".xlsx":
		return XLSXFormat, nil
	default:
		return "", fmt.Errorf("unsupported series file %q: expected .json, .yaml, .yml, .csv or .xlsx", path)
	}
}

// LoadFile reads and validates all series in path.
func LoadFile(path string) ([]schema.Series, error) {
	format, err := FormatFromPath(path)
	if err != nil {
		return nil, err
	}
	if format == XLSXFormat {
		return loadXLSX(path)
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open series file: %w", err)
	}
	defer func() { _ = file.Close() }()
	return Decode(file, format)
}

// Decode reads series in the given format from r.
func Decode(r io.Reader, format Format) ([]schema.Series, error) {
	var docs []seriesDoc
	switch format {
	case JSONFormat:
		raw, err := io.ReadAll(r)
		if err != nil {
			return nil, err
		}
		if docs, err = decodeJSONDocs(raw); err != nil {
			return nil, err
		}
	case YAMLFormat:
		var err error
		if docs, err = decodeYAMLDocs(r); err != nil {
			return nil, err
		}
	case CSVFormat:
		records, err := readCSVRecords(r)
		if err != nil {
			return nil, err
		}
		return fromRecords(records)
	case XLSXFormat:
		return decodeXLSX(r)
	default:
		return nil, fmt.Errorf("unsupported series format: %s", format)
	}
	return fromDocs(docs)
}

// decodeJSONDocs accepts either a bare list of series or {"series": [...]}.
func decodeJSONDocs(raw []byte) ([]seriesDoc, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) > 0 && trimmed[0] == '{' {
		var wrapped struct {
			Series []seriesDoc `json:"series"`
		}
		if err := json.Unmarshal(trimmed, &wrapped); err != nil {
			return nil, fmt.Errorf("failed to decode JSON series: %w", err)
		}
		return wrapped.Series, nil
	}
	var docs []seriesDoc
	if err := json.Unmarshal(trimmed, &docs); err != nil {
		return nil, fmt.Errorf("failed to decode JSON series: %w", err)
	}
	return docs, nil
}

func decodeYAMLDocs(r io.Reader) ([]seriesDoc, error) {
	var node yaml.Node
	if err := yaml.NewDecoder(r).Decode(&node); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to decode YAML series: %w", err)
	}
	root := &node
	if root.Kind == yaml.DocumentNode && len(root.Content) > 0 {
		root = root.Content[0]
	}

	if root.Kind == yaml.MappingNode {
		var wrapped struct {
			Series []seriesDoc `yaml:"series"`
		}
		if err := root.Decode(&wrapped); err != nil {
			return nil, fmt.Errorf("failed to decode YAML series: %w", err)
		}
		return wrapped.Series, nil
	}
	var docs []seriesDoc
	if err := root.Decode(&docs); err != nil {
		return nil, fmt.Errorf("failed to decode YAML series: %w", err)
	}
	return docs, nil
}

// Validate checks the invariants every loaded series must hold.
func Validate(series []schema.Series) error {
	seen := make(map[string]bool, len(series))
	for i := range series {
		s := &series[i]
		if s.Target == "" {
			return fmt.Errorf("series %d has no target", i)
		}
		if seen[s.Target] {
			return fmt.Errorf("duplicate series target %q", s.Target)
		}
		seen[s.Target] = true
		if _, ok := schema.ValidSeriesModes[s.EffectiveMode()]; !ok {
			return fmt.Errorf("series %q has invalid mode %q", s.Target, s.Mode)
		}
		if s.Confidence < 0 {
			return fmt.Errorf("series %q has negative confidence", s.Target)
		}
		if s.MaxLength < 0 {
			return fmt.Errorf("series %q has negative max_length", s.Target)
		}
		for j := 1; j < len(s.Datapoints); j++ {
			if s.Datapoints[j].Key < s.Datapoints[j-1].Key {
				return fmt.Errorf("series %q at index %d: %w", s.Target, j, ErrUnsortedKeys)
			}
		}
	}
	return nil
}
