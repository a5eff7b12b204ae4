package outwriter

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/chartwerk/line-chart/internal/contract"
	"github.com/chartwerk/line-chart/schema"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
)

// ErrParquetUnsupported is returned for results that have no Parquet layout.
var ErrParquetUnsupported = errors.New("parquet output is not supported for this command; use text, json or csv")

// PrintSpacingResult outputs the typical spacing, dispatching on the configured output format.
func PrintSpacingResult(result schema.SpacingResult, cfg *contract.Config) error {
	fmtFloat := createFormatter(cfg.Precision)

	switch cfg.Output {
	case schema.JSONOut:
		if err := writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeJSON(w, result)
		}, "Wrote JSON spacing"); err != nil {
			return fmt.Errorf("error writing JSON output: %w", err)
		}
	case schema.CSVOut:
		if err := writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeCSVSpacing(w, result, fmtFloat)
		}, "Wrote CSV spacing"); err != nil {
			return fmt.Errorf("error writing CSV output: %w", err)
		}
	case schema.ParquetOut:
		return ErrParquetUnsupported
	default:
		if err := printSpacingTable(os.Stdout, result, cfg, fmtFloat); err != nil {
			return fmt.Errorf("error writing spacing table output: %w", err)
		}
	}
	return nil
}

func printSpacingTable(w io.Writer, result schema.SpacingResult, cfg *contract.Config, fmtFloat func(float64) string) error {
	table := tablewriter.NewWriter(w)
	table.Header([]string{"Series", "Spacing"})
	table.Configure(func(c *tablewriter.Config) {
		c.Row.Alignment.Global = tw.AlignRight
	})

	labelWidth := GetMaxTableLabelWidth(cfg, 16)
	var data [][]string
	for _, target := range sortedTargets(result.PerSeries) {
		data = append(data, []string{contract.TruncateLabel(target, labelWidth), fmtFloat(result.PerSeries[target])})
	}
	if err := table.Bulk(data); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}

	_, err := fmt.Fprintf(w, "Typical spacing on %s axis: %s (hit radius %s)\n", result.Axis,
		formatSpacing(result.Spacing, result.Defined, fmtFloat),
		formatSpacing(result.Spacing/2, result.Defined, fmtFloat))
	return err
}
