package outwriter

import (
	"fmt"
	"io"
	"os"

	"github.com/chartwerk/line-chart/core/algo"
	"github.com/chartwerk/line-chart/internal/contract"
	"github.com/chartwerk/line-chart/schema"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
)

// PrintSegmentsResults outputs charge classifications, dispatching on the configured output format.
func PrintSegmentsResults(results []schema.SegmentsResult, cfg *contract.Config) error {
	fmtFloat := createFormatter(cfg.Precision)

	switch cfg.Output {
	case schema.JSONOut:
		if err := writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeJSON(w, results)
		}, "Wrote JSON segments"); err != nil {
			return fmt.Errorf("error writing JSON output: %w", err)
		}
	case schema.CSVOut:
		if err := writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeCSVSegments(w, results, fmtFloat)
		}, "Wrote CSV segments"); err != nil {
			return fmt.Errorf("error writing CSV output: %w", err)
		}
	case schema.ParquetOut:
		return ErrParquetUnsupported
	default:
		if err := printSegmentsTable(os.Stdout, results, cfg, fmtFloat); err != nil {
			return fmt.Errorf("error writing segments table output: %w", err)
		}
	}
	return nil
}

func printSegmentsTable(w io.Writer, results []schema.SegmentsResult, cfg *contract.Config, fmtFloat func(float64) string) error {
	table := tablewriter.NewWriter(w)
	table.Header([]string{"Series", "From", "To", "Direction"})
	table.Configure(func(c *tablewriter.Config) {
		c.Row.Alignment.Global = tw.AlignRight
	})

	labelWidth := GetMaxTableLabelWidth(cfg, 45)
	var data [][]string
	for _, r := range results {
		label := contract.TruncateLabel(r.Target, labelWidth)
		for _, seg := range r.Segments {
			direction := string(seg.Direction)
			if cfg.UseColors {
				direction = contract.GetColorDirection(seg.Direction)
			}
			data = append(data, []string{
				label,
				fmt.Sprintf("%s → %s", fmtFloat(seg.From.Key), fmtFloat(seg.From.Value)),
				fmt.Sprintf("%s → %s", fmtFloat(seg.To.Key), fmtFloat(seg.To.Value)),
				direction,
			})
		}
	}
	if err := table.Bulk(data); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}

	for _, r := range results {
		counts := algo.CountDirections(r.Segments)
		if _, err := fmt.Fprintf(w, "%s: %d increasing, %d decreasing, %d flat\n", r.Target,
			counts[schema.Increasing], counts[schema.Decreasing], counts[schema.Flat]); err != nil {
			return err
		}
	}
	return nil
}
