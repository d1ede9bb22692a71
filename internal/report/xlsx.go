package report

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"vetcare/internal/domain"
)

const (
	summarySheet = "Summary"
	dailySheet   = "Daily"
)

// WriteXLSX writes a two-sheet workbook: headline metrics and the daily
// breakdown.
func WriteXLSX(w io.Writer, r *domain.AnalyticsReport) error {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	if err := f.SetSheetName("Sheet1", summarySheet); err != nil {
		return fmt.Errorf("naming summary sheet: %w", err)
	}
	m := r.Metrics
	rows := [][]interface{}{
		{"Metric", "Value"},
		{"Period start", m.Start.Format("2006-01-02")},
		{"Period end", m.End.Format("2006-01-02")},
		{"Sales revenue", m.SalesRevenue},
		{"Sales count", m.SalesCount},
		{"Invoice revenue", m.InvoiceRevenue},
		{"Total revenue", m.TotalRevenue},
		{"Expenses", m.Expenses},
		{"Net income", m.NetIncome},
		{"New patients", m.NewPatients},
		{"Total patients", m.TotalPatients},
	}
	if err := writeRows(f, summarySheet, rows); err != nil {
		return err
	}

	if _, err := f.NewSheet(dailySheet); err != nil {
		return fmt.Errorf("creating daily sheet: %w", err)
	}
	daily := make([][]interface{}, 0, len(r.Daily)+1)
	daily = append(daily, []interface{}{"Day", "Sales", "Expenses", "Net"})
	for _, d := range r.Daily {
		daily = append(daily, []interface{}{d.Day.Format("2006-01-02"), d.Sales, d.Expenses, d.Sales - d.Expenses})
	}
	if err := writeRows(f, dailySheet, daily); err != nil {
		return err
	}

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err == nil {
		_ = f.SetCellStyle(summarySheet, "A1", "B1", bold)
		_ = f.SetCellStyle(dailySheet, "A1", "D1", bold)
	}
	_ = f.SetColWidth(summarySheet, "A", "A", 18)
	_ = f.SetColWidth(dailySheet, "A", "A", 12)

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("writing workbook: %w", err)
	}
	return nil
}

func writeRows(f *excelize.File, sheet string, rows [][]interface{}) error {
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return fmt.Errorf("writing %s row %d: %w", sheet, i+1, err)
		}
	}
	return nil
}
