package risk

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPriceSteps(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		price    float64
		average  float64
		step     float64
		expected int
	}{
		{"at average", 35, 35, 4, 0},
		{"below half step", 36.9, 35, 4, 0},
		{"one step up", 39, 35, 4, 1},
		{"one step down", 31, 35, 4, -1},
		{"half rounds to even (0)", 37, 35, 4, 0},
		{"half rounds to even (2)", 45, 35, 4, 2},
		{"clamped up", 100, 35, 4, 3},
		{"clamped down", 1, 35, 4, -3},
		{"zero step", 40, 35, 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, PriceSteps(tt.price, tt.average, tt.step))
		})
	}
}

func TestRebalance(t *testing.T) {
	t.Parallel()

	base := RebalanceInputs{
		AveragePrice: 35,
		TargetShares: 120,
		StepSize:     20,
		PriceStep:    4,
	}

	tests := []struct {
		name     string
		price    float64
		held     float64
		expected float64
	}{
		{"no deviation, empty", 35, 0, 120},
		{"no deviation, on target", 35, 120, 0},
		{"no deviation, over target", 35, 150, -30},
		{"one step above sells down", 39, 120, -20},
		{"two steps below buys up", 27, 120, 40},
		{"extreme rise capped at three steps", 200, 120, -60},
		{"extreme fall capped at three steps", 0.01, 0, 180},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := base
			in.Price = tt.price
			in.SharesHeld = tt.held
			assert.InDelta(t, tt.expected, Rebalance(in), 1e-9)
		})
	}
}
