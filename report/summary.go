// Package report renders simulation results for people: a text summary, an
// XLSX workbook and a PNG chart.
package report

import (
	"fmt"
	"io"
	"time"

	"github.com/shopspring/decimal"

	"github.com/rustyeddy/investsim/journal"
)

// Run describes what produced a history.
type Run struct {
	RunID       string
	Created     time.Time
	Strategy    string
	Model       string
	YearlyRate  float64
	Sigma       float64
	Trials      int
	Aggregation string
	Cached      bool
}

func money(x float64) string {
	return decimal.NewFromFloat(x).StringFixed(2)
}

// PrintSummary writes the run header and the final totals of h.
func PrintSummary(w io.Writer, r Run, h journal.History) {
	s := h.Summary()
	last := h.Last()

	fmt.Fprintln(w, "==================================================")
	fmt.Fprintln(w, " Investment Plan Result")
	fmt.Fprintln(w, "==================================================")

	fmt.Fprintf(w, "Run ID:        %s\n", r.RunID)
	if !r.Created.IsZero() {
		fmt.Fprintf(w, "Created:       %s\n", r.Created.Format(time.RFC3339))
	}
	fmt.Fprintf(w, "Strategy:      %s\n", r.Strategy)
	fmt.Fprintf(w, "Model:         %s (%.2f%%/yr", r.Model, r.YearlyRate)
	if r.Trials > 1 {
		fmt.Fprintf(w, ", sigma %.2f", r.Sigma)
	}
	fmt.Fprintln(w, ")")
	if r.Trials > 1 {
		fmt.Fprintf(w, "Trials:        %d\n", r.Trials)
		fmt.Fprintf(w, "Aggregation:   %s\n", r.Aggregation)
	}
	if r.Cached {
		fmt.Fprintln(w, "Source:        cache")
	}

	fmt.Fprintln(w)
	fmt.Fprintln(w, "Period")
	fmt.Fprintln(w, "--------------------------------------------------")
	if len(h) > 0 {
		fmt.Fprintf(w, "Start:         %02d/%d\n", h[0].CalendarMonth, h[0].Year)
		fmt.Fprintf(w, "End:           %02d/%d\n", last.CalendarMonth, last.Year)
	}
	fmt.Fprintf(w, "Months:        %d\n", s.Months)

	fmt.Fprintln(w)
	fmt.Fprintln(w, "Totals")
	fmt.Fprintln(w, "--------------------------------------------------")
	fmt.Fprintf(w, "Paid In:       %s\n", money(s.PaidIn))
	fmt.Fprintf(w, "Paid Out:      %s\n", money(s.PaidOut))
	fmt.Fprintf(w, "Tax:           %s\n", money(s.Tax))
	fmt.Fprintf(w, "Costs:         %s\n", money(s.Costs))
	fmt.Fprintf(w, "Final Value:   %s\n", money(s.TotalValue))
	fmt.Fprintf(w, "  Reserve:     %s\n", money(last.Reserve))
	fmt.Fprintf(w, "  ETF:         %s\n", money(last.ETFValue))
	if last.StockValue != 0 {
		fmt.Fprintf(w, "  Stock:       %s\n", money(last.StockValue))
	}
	fmt.Fprintf(w, "Return:        %.2f%%\n", s.ReturnPct())
	fmt.Fprintln(w, "==================================================")
}
