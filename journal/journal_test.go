package journal

import (
	"bytes"
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleHistory() History {
	return History{
		{Month: 0, CalendarMonth: 1, Year: 2024, Phase: PhaseStart, TotalValue: 100, Reserve: 100, PaidIn: 100},
		{Month: 1, CalendarMonth: 2, Year: 2024, Phase: PhaseAccumulation, TotalValue: 200.5, Reserve: 100.25, ETFValue: 100.25, PaidIn: 200, Costs: 1},
		{Month: 2, CalendarMonth: 3, Year: 2024, Phase: PhaseDecumulation, TotalValue: 150.333, Reserve: 100, ETFValue: 50.333, PaidIn: 200, PaidOut: 49, Tax: 0.5, Costs: 2},
	}
}

func TestHistoryLast(t *testing.T) {
	t.Parallel()

	assert.Equal(t, Record{}, History(nil).Last())
	h := sampleHistory()
	assert.Equal(t, 2, h.Last().Month)
}

func TestHistorySummary(t *testing.T) {
	t.Parallel()

	s := sampleHistory().Summary()
	assert.Equal(t, 2, s.Months)
	assert.Equal(t, 200.0, s.PaidIn)
	assert.Equal(t, 49.0, s.PaidOut)
	assert.Equal(t, 0.5, s.Tax)
	assert.Equal(t, 2.0, s.Costs)
	assert.InDelta(t, 150.333, s.TotalValue, 1e-9)
	assert.InDelta(t, -75.5, s.ReturnPct(), 1e-9)

	assert.Zero(t, Summary{}.ReturnPct())
}

func TestWriteCSV(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, sampleHistory()))

	rows, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 4)

	want := []string{"month", "calendar_month", "year", "phase", "total_value", "reserve",
		"etf_value", "stock_value", "paid_in", "paid_out", "tax", "costs"}
	assert.Equal(t, want, rows[0])

	assert.Equal(t, []string{"1", "2", "2024", "accumulation", "200.50", "100.25",
		"100.25", "0.00", "200.00", "0.00", "0.00", "1.00"}, rows[2])
	assert.Equal(t, "150.33", rows[3][4])
	assert.Equal(t, "decumulation", rows[3][3])
}

func TestWriteCSVFile(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "history.csv")
	require.NoError(t, WriteCSVFile(path, sampleHistory()))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "month,calendar_month,year,phase")
}
