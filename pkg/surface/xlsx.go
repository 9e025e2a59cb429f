package surface

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/updatelens/updatelens/pkg/metrics"
)

const (
	sheetSummary   = "Summary"
	sheetBreakdown = "Breakdown"
	sheetChart     = "Chart"
)

// XLSXRenderer writes a Result as an Excel workbook with summary, breakdown
// and chart sheets.
type XLSXRenderer struct{}

func (r *XLSXRenderer) Render(w io.Writer, result *metrics.Result) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", sheetSummary); err != nil {
		return err
	}
	if err := writeSummarySheet(f, result); err != nil {
		return fmt.Errorf("summary sheet: %w", err)
	}
	if err := writeBreakdownSheet(f, result); err != nil {
		return fmt.Errorf("breakdown sheet: %w", err)
	}
	if result.Chart != nil && len(result.Chart.Values) > 0 {
		if err := writeChartSheet(f, result); err != nil {
			return fmt.Errorf("chart sheet: %w", err)
		}
	}
	return f.Write(w)
}

func setRow(f *excelize.File, sheet string, row int, values []any) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	return f.SetSheetRow(sheet, cell, &values)
}

func writeSummarySheet(f *excelize.File, result *metrics.Result) error {
	rows := [][]any{
		{"Metric", result.Name},
		{"Key", result.Key},
		{"Value", result.Value},
		{"Classification", result.Classification},
	}
	if fl := filterLabel(result); fl != "" {
		rows = append(rows, []any{"Filter", fl})
	}
	if result.RunID != "" {
		rows = append(rows,
			[]any{"Run ID", result.RunID},
			[]any{"Computed At", result.ComputedAt.Format("2006-01-02T15:04:05Z07:00")})
	}
	keys := make([]string, 0, len(result.Totals))
	for k := range result.Totals {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		rows = append(rows, []any{k, result.Totals[k]})
	}
	for _, n := range result.Notes {
		rows = append(rows, []any{"Note", n})
	}
	for i, row := range rows {
		if err := setRow(f, sheetSummary, i+1, row); err != nil {
			return err
		}
	}
	return nil
}

func writeBreakdownSheet(f *excelize.File, result *metrics.Result) error {
	if _, err := f.NewSheet(sheetBreakdown); err != nil {
		return err
	}

	// Score and total columns are the union over all entries.
	scoreKeys := unionKeys(result.Breakdown, func(e metrics.Entry) map[string]float64 { return e.Scores })
	totalKeys := unionKeys(result.Breakdown, func(e metrics.Entry) map[string]float64 { return e.Totals })

	header := []any{"Rank", "Entity", "Value", "Classification", "Flags"}
	for _, k := range scoreKeys {
		header = append(header, k)
	}
	for _, k := range totalKeys {
		header = append(header, k)
	}
	if err := setRow(f, sheetBreakdown, 1, header); err != nil {
		return err
	}

	for i, e := range result.Breakdown {
		row := []any{i + 1, e.Entity, e.Value, e.Classification, strings.Join(e.Flags, ", ")}
		for _, k := range scoreKeys {
			row = append(row, e.Scores[k])
		}
		for _, k := range totalKeys {
			row = append(row, e.Totals[k])
		}
		if err := setRow(f, sheetBreakdown, i+2, row); err != nil {
			return err
		}
	}
	return nil
}

func writeChartSheet(f *excelize.File, result *metrics.Result) error {
	c := result.Chart
	if _, err := f.NewSheet(sheetChart); err != nil {
		return err
	}
	header := []any{"Label", "Value"}
	if len(c.Secondary) > 0 {
		header = append(header, "Secondary")
	}
	if err := setRow(f, sheetChart, 1, header); err != nil {
		return err
	}
	n := min(len(c.Labels), len(c.Values))
	for i := 0; i < n; i++ {
		row := []any{c.Labels[i], c.Values[i]}
		if i < len(c.Secondary) {
			row = append(row, c.Secondary[i])
		}
		if err := setRow(f, sheetChart, i+2, row); err != nil {
			return err
		}
	}
	if n == 0 {
		return nil
	}

	kind := excelize.Col
	if c.Kind == "line" {
		kind = excelize.Line
	}
	return f.AddChart(sheetChart, "E2", &excelize.Chart{
		Type: kind,
		Series: []excelize.ChartSeries{{
			Name:       fmt.Sprintf("%s!$B$1", sheetChart),
			Categories: fmt.Sprintf("%s!$A$2:$A$%d", sheetChart, n+1),
			Values:     fmt.Sprintf("%s!$B$2:$B$%d", sheetChart, n+1),
		}},
		Title: []excelize.RichTextRun{{Text: result.Name}},
	})
}

func unionKeys(entries []metrics.Entry, pick func(metrics.Entry) map[string]float64) []string {
	seen := map[string]bool{}
	var keys []string
	for _, e := range entries {
		for k := range pick(e) {
			if !seen[k] {
				seen[k] = true
				keys = append(keys, k)
			}
		}
	}
	sort.Strings(keys)
	return keys
}
