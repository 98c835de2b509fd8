package journal

import (
	"encoding/csv"
	"io"
	"os"
	"strconv"

	"github.com/shopspring/decimal"
)

var csvHeader = []string{
	"month",
	"calendar_month",
	"year",
	"phase",
	"total_value",
	"reserve",
	"etf_value",
	"stock_value",
	"paid_in",
	"paid_out",
	"tax",
	"costs",
}

// WriteCSV writes h with a header row.
func WriteCSV(w io.Writer, h History) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return err
	}
	for _, r := range h {
		row := []string{
			strconv.Itoa(r.Month),
			strconv.Itoa(r.CalendarMonth),
			strconv.Itoa(r.Year),
			string(r.Phase),
			f(r.TotalValue),
			f(r.Reserve),
			f(r.ETFValue),
			f(r.StockValue),
			f(r.PaidIn),
			f(r.PaidOut),
			f(r.Tax),
			f(r.Costs),
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteCSVFile writes h to path, replacing any existing file.
func WriteCSVFile(path string, h History) error {
	fh, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := WriteCSV(fh, h); err != nil {
		fh.Close()
		return err
	}
	return fh.Close()
}

// f renders money with cent precision.
func f(x float64) string {
	return decimal.NewFromFloat(x).StringFixed(2)
}
