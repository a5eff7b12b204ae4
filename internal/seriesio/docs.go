package seriesio

import (
	"encoding/json"
	"fmt"

	"github.com/chartwerk/line-chart/schema"
	"gopkg.in/yaml.v3"
)

// seriesDoc is the on-disk shape of a series. Visible is a pointer so an
// omitted field defaults to true; either visible: false or hidden: true hides it.
type seriesDoc struct {
	Target      string            `json:"target" yaml:"target"`
	Alias       string            `json:"alias" yaml:"alias"`
	Datapoints  []pointDoc        `json:"datapoints" yaml:"datapoints"`
	Visible     *bool             `json:"visible" yaml:"visible"`
	Hidden      bool              `json:"hidden" yaml:"hidden"`
	Mode        schema.SeriesMode `json:"mode" yaml:"mode"`
	Confidence  float64           `json:"confidence" yaml:"confidence"`
	MaxLength   int               `json:"max_length" yaml:"max_length"`
	Color       string            `json:"color" yaml:"color"`
	RenderDots  bool              `json:"render_dots" yaml:"render_dots"`
	RenderLines *bool             `json:"render_lines" yaml:"render_lines"`
}

// pointDoc accepts either {"value": v, "key": k} or the compact [value, key] pair.
type pointDoc schema.Datapoint

// UnmarshalJSON implements json.Unmarshaler.
func (p *pointDoc) UnmarshalJSON(data []byte) error {
	var pair []float64
	if err := json.Unmarshal(data, &pair); err == nil {
		return p.fromPair(pair)
	}
	var obj schema.Datapoint
	if err := json.Unmarshal(data, &obj); err != nil {
		return fmt.Errorf("datapoint must be [value, key] or {value, key}: %w", err)
	}
	*p = pointDoc(obj)
	return nil
}

// UnmarshalYAML implements yaml.Unmarshaler.
func (p *pointDoc) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind == yaml.SequenceNode {
		var pair []float64
		if err := node.Decode(&pair); err != nil {
			return err
		}
		return p.fromPair(pair)
	}
	var obj schema.Datapoint
	if err := node.Decode(&obj); err != nil {
		return fmt.Errorf("datapoint must be [value, key] or {value, key}: %w", err)
	}
	*p = pointDoc(obj)
	return nil
}

func (p *pointDoc) fromPair(pair []float64) error {
	if len(pair) != 2 {
		return fmt.Errorf("datapoint pair must have 2 elements, got %d", len(pair))
	}
	*p = pointDoc{Value: pair[0], Key: pair[1]}
	return nil
}

func (d seriesDoc) toSeries() schema.Series {
	s := schema.Series{
		Target:      d.Target,
		Alias:       d.Alias,
		Hidden:      d.Hidden || (d.Visible != nil && !*d.Visible),
		Mode:        d.Mode,
		Confidence:  d.Confidence,
		MaxLength:   d.MaxLength,
		Color:       d.Color,
		RenderDots:  d.RenderDots,
		RenderLines: d.RenderLines == nil || *d.RenderLines,
	}
	if len(d.Datapoints) > 0 {
		s.Datapoints = make([]schema.Datapoint, len(d.Datapoints))
		for i, p := range d.Datapoints {
			s.Datapoints[i] = schema.Datapoint(p)
		}
	}
	return s
}

func fromDocs(docs []seriesDoc) ([]schema.Series, error) {
	series := make([]schema.Series, 0, len(docs))
	for _, d := range docs {
		series = append(series, d.toSeries())
	}
	if err := Validate(series); err != nil {
		return nil, err
	}
	return series, nil
}
