package report

import (
	"bytes"
	"fmt"

	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"github.com/rustyeddy/investsim/journal"
)

// RenderChart draws total value, paid-in and paid-out over the plan's months
// and returns PNG bytes.
func RenderChart(h journal.History) ([]byte, error) {
	if len(h) < 2 {
		return nil, fmt.Errorf("need at least 2 months, got %d", len(h))
	}

	xs := make([]float64, len(h))
	value := make([]float64, len(h))
	paidIn := make([]float64, len(h))
	paidOut := make([]float64, len(h))
	for i, r := range h {
		xs[i] = float64(r.Month)
		value[i] = r.TotalValue
		paidIn[i] = r.PaidIn
		paidOut[i] = r.PaidOut
	}

	startYear := h[0].Year
	startMonth := h[0].CalendarMonth

	graph := chart.Chart{
		Title:  "Plan Value",
		Width:  900,
		Height: 400,
		Background: chart.Style{
			Padding: chart.Box{Top: 40, Left: 10, Right: 20, Bottom: 10},
		},
		XAxis: chart.XAxis{
			ValueFormatter: func(v interface{}) string {
				if m, ok := v.(float64); ok {
					return fmt.Sprintf("%d", startYear+(startMonth-1+int(m))/12)
				}
				return ""
			},
		},
		YAxis: chart.YAxis{
			ValueFormatter: func(v interface{}) string {
				if f, ok := v.(float64); ok {
					return fmt.Sprintf("%.0fk", f/1000)
				}
				return ""
			},
		},
		Series: []chart.Series{
			chart.ContinuousSeries{
				Name:    "Total Value",
				Style:   chart.Style{StrokeColor: drawing.ColorFromHex("2563eb"), StrokeWidth: 2.5},
				XValues: xs,
				YValues: value,
			},
			chart.ContinuousSeries{
				Name: "Paid In",
				Style: chart.Style{
					StrokeColor:     drawing.ColorFromHex("9ca3af"),
					StrokeWidth:     1.5,
					StrokeDashArray: []float64{5.0, 3.0},
				},
				XValues: xs,
				YValues: paidIn,
			},
			chart.ContinuousSeries{
				Name:    "Paid Out",
				Style:   chart.Style{StrokeColor: drawing.ColorFromHex("16a34a"), StrokeWidth: 1.5},
				XValues: xs,
				YValues: paidOut,
			},
		},
	}
	graph.Elements = []chart.Renderable{chart.LegendLeft(&graph)}

	var buf bytes.Buffer
	if err := graph.Render(chart.PNG, &buf); err != nil {
		return nil, fmt.Errorf("chart render failed: %w", err)
	}
	return buf.Bytes(), nil
}
