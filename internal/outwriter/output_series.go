package outwriter

import (
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/chartwerk/line-chart/internal/contract"
	"github.com/chartwerk/line-chart/internal/parquet"
	"github.com/chartwerk/line-chart/schema"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
)

// PrintSeries outputs buffered series. Text mode prints one summary row per series;
// the other formats carry every datapoint.
func PrintSeries(series []schema.Series, cfg *contract.Config) error {
	fmtFloat := createFormatter(cfg.Precision)

	switch cfg.Output {
	case schema.JSONOut:
		if err := writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeJSON(w, series)
		}, "Wrote JSON series"); err != nil {
			return fmt.Errorf("error writing JSON output: %w", err)
		}
	case schema.CSVOut:
		if err := writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeCSVSeries(w, series, fmtFloat)
		}, "Wrote CSV series"); err != nil {
			return fmt.Errorf("error writing CSV output: %w", err)
		}
	case schema.ParquetOut:
		rows := parquet.FlattenSeries(series)
		if err := parquet.WriteDatapointsParquet(rows, cfg.OutputFile); err != nil {
			return fmt.Errorf("error writing Parquet output: %w", err)
		}
		fmt.Fprintf(os.Stderr, "💾 Wrote %d datapoints to %s\n", len(rows), cfg.OutputFile)
	default:
		if err := printSeriesTable(os.Stdout, series, cfg, fmtFloat); err != nil {
			return fmt.Errorf("error writing series table output: %w", err)
		}
	}
	return nil
}

func printSeriesTable(w io.Writer, series []schema.Series, cfg *contract.Config, fmtFloat func(float64) string) error {
	table := tablewriter.NewWriter(w)
	table.Header([]string{"Series", "Visible", "Points", "Max", "First Key", "Last Key", "Last Value"})
	table.Configure(func(c *tablewriter.Config) {
		c.Row.Alignment.Global = tw.AlignRight
	})

	labelWidth := GetMaxTableLabelWidth(cfg, 70)
	var data [][]string
	for _, sum := range schema.SummarizeSeries(series) {
		maxLength := "∞"
		if sum.MaxLength > 0 {
			maxLength = strconv.Itoa(sum.MaxLength)
		}
		row := []string{
			contract.TruncateLabel(sum.Target, labelWidth),
			strconv.FormatBool(sum.Visible),
			strconv.Itoa(sum.Count),
			maxLength,
			"-", "-", "-",
		}
		if sum.Count > 0 {
			row[4] = fmtFloat(sum.FirstKey)
			row[5] = fmtFloat(sum.LastKey)
			row[6] = fmtFloat(sum.LastValue)
		}
		data = append(data, row)
	}
	if err := table.Bulk(data); err != nil {
		return err
	}
	return table.Render()
}
