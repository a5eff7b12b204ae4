package seriesio

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/chartwerk/line-chart/schema"
	"github.com/xuri/excelize/v2"
)

// Tabular files use a long layout: one row per datapoint with a header naming
// at least the target, key and value columns. An optional alias column labels the series.
var requiredColumns = []string{"target", "key", "value"}

func readCSVRecords(r io.Reader) ([][]string, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true
	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV series: %w", err)
	}
	return records, nil
}

func loadXLSX(path string) ([]schema.Series, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open XLSX series file: %w", err)
	}
	defer func() { _ = f.Close() }()
	return seriesFromWorkbook(f)
}

func decodeXLSX(r io.Reader) ([]schema.Series, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read XLSX series: %w", err)
	}
	defer func() { _ = f.Close() }()
	return seriesFromWorkbook(f)
}

// seriesFromWorkbook reads the first sheet of the workbook.
func seriesFromWorkbook(f *excelize.File) ([]schema.Series, error) {
	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("workbook has no sheets")
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %q: %w", sheets[0], err)
	}
	return fromRecords(rows)
}

// fromRecords groups rows by target in order of first appearance.
func fromRecords(records [][]string) ([]schema.Series, error) {
	if len(records) == 0 {
		return nil, nil
	}

	columns := make(map[string]int, len(records[0]))
	for i, name := range records[0] {
		columns[strings.ToLower(strings.TrimSpace(name))] = i
	}
	for _, name := range requiredColumns {
		if _, ok := columns[name]; !ok {
			return nil, fmt.Errorf("missing %q column in header %v", name, records[0])
		}
	}
	aliasCol, hasAlias := columns["alias"]

	var series []schema.Series
	index := make(map[string]int)
	for rowNum, row := range records[1:] {
		line := rowNum + 2 // 1-based, after the header
		if isBlank(row) {
			continue
		}

		target := cell(row, columns["target"])
		if target == "" {
			return nil, fmt.Errorf("row %d: empty target", line)
		}
		key, err := parseNumber(cell(row, columns["key"]))
		if err != nil {
			return nil, fmt.Errorf("row %d: invalid key: %w", line, err)
		}
		value, err := parseNumber(cell(row, columns["value"]))
		if err != nil {
			return nil, fmt.Errorf("row %d: invalid value: %w", line, err)
		}

		i, ok := index[target]
		if !ok {
			i = len(series)
			index[target] = i
			series = append(series, schema.Series{Target: target, RenderLines: true})
		}
		if hasAlias && series[i].Alias == "" {
			series[i].Alias = cell(row, aliasCol)
		}
		series[i].Datapoints = append(series[i].Datapoints, schema.Datapoint{Key: key, Value: value})
	}

	if err := Validate(series); err != nil {
		return nil, err
	}
	return series, nil
}

func cell(row []string, i int) string {
	if i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}

func isBlank(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}

func parseNumber(s string) (float64, error) {
	if s == "" {
		return 0, fmt.Errorf("empty cell")
	}
	return strconv.ParseFloat(s, 64)
}
