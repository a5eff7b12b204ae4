package outwriter

import (
	"encoding/csv"
	"io"
	"sort"
	"strconv"

	"github.com/chartwerk/line-chart/internal/contract"
	"github.com/chartwerk/line-chart/schema"
)

// writeCSVProbe writes one row per series candidate of a probe.
func writeCSVProbe(w io.Writer, result schema.ProbeResult, fmtFloat func(float64) string) error {
	header := []string{"orientation", "axis", "x", "y", "spacing", "target", "label", "key", "value", "distance", "hit"}
	return writeCSVWithHeader(w, header, func(cw *csv.Writer) error {
		for _, h := range result.Hits {
			row := []string{
				string(result.Orientation),
				string(result.Axis),
				fmtFloat(result.Position.X),
				fmtFloat(result.Position.Y),
				formatSpacing(result.Spacing, result.SpacingOK, fmtFloat),
				h.Target,
				h.Label,
				fmtFloat(h.Nearest.Key),
				fmtFloat(h.Nearest.Value),
				fmtFloat(h.Distance),
				contract.GetPlainHitLabel(h.Hit),
			}
			if err := cw.Write(row); err != nil {
				return err
			}
		}
		return nil
	})
}

// writeCSVSpacing writes per-series spacing sorted by target, then the chart-wide value.
func writeCSVSpacing(w io.Writer, result schema.SpacingResult, fmtFloat func(float64) string) error {
	return writeCSVWithHeader(w, []string{"target", "axis", "spacing"}, func(cw *csv.Writer) error {
		for _, target := range sortedTargets(result.PerSeries) {
			if err := cw.Write([]string{target, string(result.Axis), fmtFloat(result.PerSeries[target])}); err != nil {
				return err
			}
		}
		return cw.Write([]string{"*", string(result.Axis), formatSpacing(result.Spacing, result.Defined, fmtFloat)})
	})
}

// writeCSVSegments writes one row per classified transition.
func writeCSVSegments(w io.Writer, results []schema.SegmentsResult, fmtFloat func(float64) string) error {
	header := []string{"target", "index", "from_key", "from_value", "to_key", "to_value", "direction"}
	return writeCSVWithHeader(w, header, func(cw *csv.Writer) error {
		for _, r := range results {
			for i, seg := range r.Segments {
				row := []string{
					r.Target,
					strconv.Itoa(i),
					fmtFloat(seg.From.Key),
					fmtFloat(seg.From.Value),
					fmtFloat(seg.To.Key),
					fmtFloat(seg.To.Value),
					string(seg.Direction),
				}
				if err := cw.Write(row); err != nil {
					return err
				}
			}
		}
		return nil
	})
}

// writeCSVSeries writes the buffered datapoints of every series.
func writeCSVSeries(w io.Writer, series []schema.Series, fmtFloat func(float64) string) error {
	return writeCSVWithHeader(w, []string{"target", "index", "key", "value", "visible"}, func(cw *csv.Writer) error {
		for _, s := range series {
			for i, dp := range s.Datapoints {
				row := []string{s.Target, strconv.Itoa(i), fmtFloat(dp.Key), fmtFloat(dp.Value), strconv.FormatBool(s.Visible())}
				if err := cw.Write(row); err != nil {
					return err
				}
			}
		}
		return nil
	})
}

func formatSpacing(spacing float64, defined bool, fmtFloat func(float64) string) string {
	if !defined {
		return "undefined"
	}
	return fmtFloat(spacing)
}

func sortedTargets(m map[string]float64) []string {
	targets := make([]string, 0, len(m))
	for t := range m {
		targets = append(targets, t)
	}
	sort.Strings(targets)
	return targets
}
