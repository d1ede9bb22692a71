package report

import (
	"fmt"
	"io"

	"github.com/gocarina/gocsv"

	"vetcare/internal/domain"
)

// BOM is the UTF-8 byte order mark Excel needs to detect the encoding.
var BOM = []byte{0xEF, 0xBB, 0xBF}

type dailyRow struct {
	Day      string `csv:"Day"`
	Sales    string `csv:"Sales"`
	Expenses string `csv:"Expenses"`
	Net      string `csv:"Net"`
}

// WriteCSV writes the daily breakdown as CSV, prefixed with a BOM.
func WriteCSV(w io.Writer, r *domain.AnalyticsReport) error {
	if _, err := w.Write(BOM); err != nil {
		return err
	}
	rows := make([]*dailyRow, 0, len(r.Daily))
	for _, d := range r.Daily {
		rows = append(rows, &dailyRow{
			Day:      d.Day.Format("2006-01-02"),
			Sales:    money(d.Sales),
			Expenses: money(d.Expenses),
			Net:      money(d.Sales - d.Expenses),
		})
	}
	if err := gocsv.Marshal(rows, w); err != nil {
		return fmt.Errorf("writing csv: %w", err)
	}
	return nil
}

func money(v float64) string {
	return fmt.Sprintf("%.2f", v)
}
