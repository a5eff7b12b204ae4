package outwriter

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/chartwerk/line-chart/internal/contract"
	"github.com/chartwerk/line-chart/internal/parquet"
	"github.com/chartwerk/line-chart/schema"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
)

// PrintProbeResult outputs a probe result, dispatching on the configured output format.
func PrintProbeResult(result schema.ProbeResult, cfg *contract.Config, duration time.Duration) error {
	fmtFloat := createFormatter(cfg.Precision)

	switch cfg.Output {
	case schema.JSONOut:
		if err := writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeJSON(w, result)
		}, "Wrote JSON probe result"); err != nil {
			return fmt.Errorf("error writing JSON output: %w", err)
		}
	case schema.CSVOut:
		if err := writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeCSVProbe(w, result, fmtFloat)
		}, "Wrote CSV probe result"); err != nil {
			return fmt.Errorf("error writing CSV output: %w", err)
		}
	case schema.ParquetOut:
		rows := probeRows(result, time.Now())
		if err := parquet.WriteProbeHitsParquet(rows, cfg.OutputFile); err != nil {
			return fmt.Errorf("error writing Parquet output: %w", err)
		}
		fmt.Fprintf(os.Stderr, "💾 Wrote %d probe rows to %s\n", len(rows), cfg.OutputFile)
	default:
		if err := printProbeTable(os.Stdout, result, cfg, fmtFloat, duration); err != nil {
			return fmt.Errorf("error writing probe table output: %w", err)
		}
	}
	return nil
}

// probeRows flattens a standalone probe into Parquet rows with no session.
func probeRows(result schema.ProbeResult, now time.Time) []parquet.ProbeHit {
	rows := make([]parquet.ProbeHit, 0, len(result.Hits))
	for _, h := range result.Hits {
		rows = append(rows, parquet.ProbeHit{
			Target:    h.Target,
			Label:     h.Label,
			Key:       h.Nearest.Key,
			Value:     h.Nearest.Value,
			Distance:  h.Distance,
			ProbeTime: now,
		})
	}
	return rows
}

// printProbeTable prints every series candidate with its hit verdict.
func printProbeTable(w io.Writer, result schema.ProbeResult, cfg *contract.Config, fmtFloat func(float64) string, duration time.Duration) error {
	table := tablewriter.NewWriter(w)
	table.Header([]string{"Series", "Key", "Value", "Distance", "Result"})
	table.Configure(func(c *tablewriter.Config) {
		c.Row.Alignment.Global = tw.AlignRight
	})

	labelWidth := GetMaxTableLabelWidth(cfg, 50)
	var data [][]string
	for _, h := range result.Hits {
		verdict := contract.GetPlainHitLabel(h.Hit)
		if cfg.UseColors {
			verdict = contract.GetColorHitLabel(h.Hit)
		}
		data = append(data, []string{
			contract.TruncateLabel(h.Label, labelWidth),
			fmtFloat(h.Nearest.Key),
			fmtFloat(h.Nearest.Value),
			fmtFloat(h.Distance),
			verdict,
		})
	}

	if err := table.Bulk(data); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}

	_, err := fmt.Fprintf(w, "Probe at (%s, %s) on %s axis: %s, spacing %s, completed in %v\n",
		fmtFloat(result.Position.X), fmtFloat(result.Position.Y), result.Axis, result.Status,
		formatSpacing(result.Spacing, result.SpacingOK, fmtFloat), duration)
	return err
}
