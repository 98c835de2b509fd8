package report

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"

	"github.com/rustyeddy/investsim/journal"
)

const historySheet = "History"

var xlsxHeader = []string{
	"Month", "Calendar Month", "Year", "Phase",
	"Total Value", "Reserve", "ETF Value", "Stock Value",
	"Paid In", "Paid Out", "Tax", "Costs",
}

// WriteXLSX writes h as a single sheet workbook.
func WriteXLSX(w io.Writer, h journal.History) error {
	f := excelize.NewFile()
	defer func() {
		if err := f.Close(); err != nil {
			slog.Error("closing workbook", slog.String("err", err.Error()))
		}
	}()

	if err := f.SetSheetName("Sheet1", historySheet); err != nil {
		return fmt.Errorf("report: rename sheet: %w", err)
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Size: 11},
		Fill: excelize.Fill{
			Type:    "pattern",
			Pattern: 1,
			Color:   []string{"#cfe2f3"},
		},
		Alignment: &excelize.Alignment{Horizontal: "center"},
	})
	if err != nil {
		return fmt.Errorf("report: header style: %w", err)
	}

	for i, title := range xlsxHeader {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := f.SetCellStr(historySheet, cell, title); err != nil {
			return err
		}
	}
	last, _ := excelize.CoordinatesToCellName(len(xlsxHeader), 1)
	if err := f.SetCellStyle(historySheet, "A1", last, headerStyle); err != nil {
		return fmt.Errorf("report: apply header style: %w", err)
	}

	for i, r := range h {
		row := []any{
			r.Month, r.CalendarMonth, r.Year, string(r.Phase),
			cents(r.TotalValue), cents(r.Reserve), cents(r.ETFValue), cents(r.StockValue),
			cents(r.PaidIn), cents(r.PaidOut), cents(r.Tax), cents(r.Costs),
		}
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		if err := f.SetSheetRow(historySheet, cell, &row); err != nil {
			return fmt.Errorf("report: row %d: %w", r.Month, err)
		}
	}

	if err := f.SetPanes(historySheet, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	}); err != nil {
		return fmt.Errorf("report: freeze header: %w", err)
	}

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("report: write workbook: %w", err)
	}
	return nil
}

func cents(x float64) float64 {
	return decimal.NewFromFloat(x).Round(2).InexactFloat64()
}
