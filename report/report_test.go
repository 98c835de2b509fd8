package report

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/rustyeddy/investsim/journal"
)

func history() journal.History {
	h := journal.History{{Month: 0, CalendarMonth: 1, Year: 2024, Phase: journal.PhaseStart}}
	for m := 1; m <= 24; m++ {
		phase := journal.PhaseAccumulation
		paidOut := 0.0
		if m > 12 {
			phase = journal.PhaseDecumulation
			paidOut = float64(m-12) * 50
		}
		h = append(h, journal.Record{
			Month:         m,
			CalendarMonth: m%12 + 1,
			Year:          2024 + m/12,
			Phase:         phase,
			TotalValue:    float64(m) * 101.005,
			Reserve:       10,
			ETFValue:      float64(m)*101.005 - 10,
			PaidIn:        float64(min(m, 12)) * 100,
			PaidOut:       paidOut,
			Costs:         float64(m),
		})
	}
	return h
}

func TestPrintSummary(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	PrintSummary(&buf, Run{
		RunID:       "01HZX",
		Created:     time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		Strategy:    "savings-plan",
		Model:       "normal",
		YearlyRate:  5,
		Sigma:       2,
		Trials:      100,
		Aggregation: "median",
	}, history())

	out := buf.String()
	assert.Contains(t, out, "Run ID:        01HZX")
	assert.Contains(t, out, "Created:       2024-01-01T00:00:00Z")
	assert.Contains(t, out, "Model:         normal (5.00%/yr, sigma 2.00)")
	assert.Contains(t, out, "Trials:        100")
	assert.Contains(t, out, "Months:        24")
	assert.Contains(t, out, "Paid In:       1200.00")
	assert.Contains(t, out, "Paid Out:      600.00")
	assert.Contains(t, out, "Final Value:   2424.12")
	assert.Contains(t, out, "Return:        -50.00%")
	assert.NotContains(t, out, "Stock:")
	assert.NotContains(t, out, "Source:")
}

func TestPrintSummaryDeterministic(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	PrintSummary(&buf, Run{Strategy: "flo", Model: "deterministic", YearlyRate: 5, Trials: 1, Cached: true}, history())

	out := buf.String()
	assert.Contains(t, out, "Model:         deterministic (5.00%/yr)")
	assert.NotContains(t, out, "Trials:")
	assert.Contains(t, out, "Source:        cache")
}

func TestWriteXLSX(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	require.NoError(t, WriteXLSX(&buf, history()))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{historySheet}, f.GetSheetList())

	rows, err := f.GetRows(historySheet)
	require.NoError(t, err)
	require.Len(t, rows, 26)
	assert.Equal(t, xlsxHeader, rows[0])

	v, err := f.GetCellValue(historySheet, "D15")
	require.NoError(t, err)
	assert.Equal(t, "decumulation", v)

	v, err = f.GetCellValue(historySheet, "E3")
	require.NoError(t, err)
	assert.Equal(t, "101.01", v)
}

func TestRenderChart(t *testing.T) {
	t.Parallel()

	png, err := RenderChart(history())
	require.NoError(t, err)
	require.Greater(t, len(png), 8)
	assert.Equal(t, []byte("\x89PNG\r\n\x1a\n"), png[:8])

	_, err = RenderChart(history()[:1])
	assert.Error(t, err)
}
