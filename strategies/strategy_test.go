package strategies

import (
	"math/rand/v2"
	"testing"

	"github.com/rustyeddy/investsim/journal"
	"github.com/rustyeddy/investsim/pricing"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func flat() pricing.Model {
	return pricing.Model{Kind: pricing.KindDeterministic, YearlyRate: 0}
}

// flatParams saves 101 a month for a year at a constant price of 1, then
// withdraws 51 a month for a year.
func flatParams() Params {
	p := DefaultParams()
	p.MonthlySavings = 101
	p.MonthlySavingsReserves = 0
	p.YearlyInterestRateOnReserves = 0
	p.AccumulationYears = 1
	p.DurationYears = 2
	p.MonthlyPayoff = 51
	return p
}

func simulate(t *testing.T, kind Kind, p Params, m pricing.Model, rng *rand.Rand) journal.History {
	t.Helper()
	s, err := New(kind, p, m, rng)
	require.NoError(t, err)
	return s.Simulate()
}

func TestParseKind(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in      string
		want    Kind
		wantErr bool
	}{
		{"savings-plan", KindSavingsPlan, false},
		{" Savings ", KindSavingsPlan, false},
		{"FLO", KindFlo, false},
		{"martingale", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseKind(tt.in)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrUnknownStrategy)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNewUnknown(t *testing.T) {
	t.Parallel()

	_, err := New("martingale", DefaultParams(), flat(), nil)
	assert.ErrorIs(t, err, ErrUnknownStrategy)

	_, err = New(KindSavingsPlan, DefaultParams(), pricing.Model{Kind: "garch"}, nil)
	assert.ErrorIs(t, err, pricing.ErrUnknownModel)

	_, err = New(KindFlo, DefaultParams(), pricing.Model{Kind: pricing.KindNormal, Sigma: 1}, nil)
	assert.Error(t, err)
}

func TestSavingsPlanFlatPrice(t *testing.T) {
	t.Parallel()

	s, err := New(KindSavingsPlan, flatParams(), flat(), nil)
	require.NoError(t, err)
	assert.Equal(t, "savings-plan", s.Name())
	assert.False(t, s.Done())

	h := s.Simulate()
	assert.True(t, s.Done())
	assert.False(t, s.Step())
	require.Len(t, h, 25)
	assert.Equal(t, h, s.History())

	assert.Equal(t, journal.PhaseStart, h[0].Phase)
	assert.Equal(t, journal.PhaseAccumulation, h[12].Phase)
	assert.Equal(t, journal.PhaseDecumulation, h[13].Phase)

	assert.InDelta(t, 100, h[1].TotalValue, 1e-9)
	assert.InDelta(t, 101, h[1].PaidIn, 1e-9)
	assert.InDelta(t, 1, h[1].Costs, 1e-9)

	assert.InDelta(t, 1200, h[12].TotalValue, 1e-9)
	assert.InDelta(t, 1212, h[12].PaidIn, 1e-9)
	assert.InDelta(t, 12, h[12].Costs, 1e-9)

	last := h.Last()
	assert.Equal(t, 24, last.Month)
	assert.InDelta(t, 588, last.TotalValue, 1e-9)
	assert.InDelta(t, 588, last.ETFValue, 1e-9)
	assert.InDelta(t, 600, last.PaidOut, 1e-9)
	assert.InDelta(t, 24, last.Costs, 1e-9)
	assert.Zero(t, last.Tax)
	assert.Zero(t, last.StockValue)
}

func TestCalendarAdvances(t *testing.T) {
	t.Parallel()

	p := flatParams()
	p.StartMonth = 11
	p.StartYear = 2030
	h := simulate(t, KindSavingsPlan, p, flat(), nil)

	assert.Equal(t, 11, h[0].CalendarMonth)
	assert.Equal(t, 2030, h[0].Year)
	assert.Equal(t, 1, h[2].CalendarMonth)
	assert.Equal(t, 2031, h[2].Year)
}

func TestReserveInterestTaxedMonthly(t *testing.T) {
	t.Parallel()

	p := DefaultParams()
	p.MonthlySavings = 0
	p.MonthlySavingsReserves = 0
	p.Reserves = 1200
	p.YearlyInterestRateOnReserves = 12
	p.AccumulationYears = 1
	p.DurationYears = 1

	h := simulate(t, KindSavingsPlan, p, flat(), nil)
	assert.InDelta(t, 1200, h[0].PaidIn, 1e-9)
	assert.InDelta(t, 1209, h[1].Reserve, 1e-9)
	assert.InDelta(t, 3, h[1].Tax, 1e-9)
	assert.InDelta(t, 1209, h[1].TotalValue, 1e-9)
}

func TestReserveFloorsAtZero(t *testing.T) {
	t.Parallel()

	p := DefaultParams()
	p.MonthlySavings = 0
	p.MonthlySavingsReserves = 0
	p.Reserves = 100
	p.YearlyInterestRateOnReserves = 0
	p.AccumulationYears = 0
	p.DurationYears = 1
	p.MonthlyPayoff = 30

	h := simulate(t, KindSavingsPlan, p, flat(), nil)
	require.Len(t, h, 13)
	assert.Equal(t, journal.PhaseDecumulation, h[1].Phase)

	assert.InDelta(t, 70, h[1].Reserve, 1e-9)
	assert.InDelta(t, 10, h[3].Reserve, 1e-9)
	assert.InDelta(t, 100, h[4].PaidOut, 1e-9)
	for _, r := range h[4:] {
		assert.Zero(t, r.Reserve)
		assert.Zero(t, r.TotalValue)
		assert.InDelta(t, 100, r.PaidOut, 1e-9)
	}
}

func TestBuyBelowFeeGoesToReserve(t *testing.T) {
	t.Parallel()

	p := flatParams()
	p.MonthlySavings = 0.5
	p.DurationYears = 1

	h := simulate(t, KindSavingsPlan, p, flat(), nil)
	last := h.Last()
	assert.InDelta(t, 6, last.Reserve, 1e-9)
	assert.InDelta(t, 6, last.PaidIn, 1e-9)
	assert.Zero(t, last.ETFValue)
	assert.Zero(t, last.Costs)
}

func TestExtractAllAtOnce(t *testing.T) {
	t.Parallel()

	p := flatParams()
	p.ExtractAllAtOnce = true

	h := simulate(t, KindSavingsPlan, p, flat(), nil)
	require.Len(t, h, 25)

	assert.InDelta(t, 1200, h[12].ETFValue, 1e-9)
	for _, r := range h[13:] {
		assert.Zero(t, r.ETFValue)
	}
	assert.InDelta(t, 1148, h[13].Reserve, 1e-9)
	assert.InDelta(t, 51, h[13].PaidOut, 1e-9)
	assert.InDelta(t, 13, h[13].Costs, 1e-9)

	last := h.Last()
	assert.InDelta(t, 587, last.Reserve, 1e-9)
	assert.InDelta(t, 612, last.PaidOut, 1e-9)
}

func TestHistoryShapeAndMonotonic(t *testing.T) {
	t.Parallel()

	for _, kind := range []Kind{KindSavingsPlan, KindFlo} {
		t.Run(string(kind), func(t *testing.T) {
			p := DefaultParams()
			p.InitialSavings = 5000
			p.Reserves = 20000
			m := pricing.Model{Kind: pricing.KindNormal, YearlyRate: 5, Sigma: 2}
			rng := rand.New(rand.NewPCG(7, 0))

			h := simulate(t, kind, p, m, rng)
			require.Len(t, h, p.DurationYears*12+1)

			for i := 1; i < len(h); i++ {
				prev, cur := h[i-1], h[i]
				assert.Equal(t, i, cur.Month)
				assert.GreaterOrEqual(t, cur.PaidIn, prev.PaidIn)
				assert.GreaterOrEqual(t, cur.PaidOut, prev.PaidOut)
				assert.GreaterOrEqual(t, cur.Tax, prev.Tax)
				assert.GreaterOrEqual(t, cur.Costs, prev.Costs)
				assert.GreaterOrEqual(t, cur.Reserve, 0.0)
				assert.InDelta(t, cur.Reserve+cur.ETFValue+cur.StockValue, cur.TotalValue, 1e-6)
			}
		})
	}
}

func TestDeterminism(t *testing.T) {
	t.Parallel()

	p := DefaultParams()

	a := simulate(t, KindSavingsPlan, p, pricing.Model{Kind: pricing.KindDeterministic, YearlyRate: 5}, nil)
	b := simulate(t, KindSavingsPlan, p, pricing.Model{Kind: pricing.KindDeterministic, YearlyRate: 5}, nil)
	assert.Equal(t, a, b)

	m := pricing.Model{Kind: pricing.KindNormal, YearlyRate: 5, Sigma: 2}
	c := simulate(t, KindFlo, p, m, rand.New(rand.NewPCG(42, 3)))
	d := simulate(t, KindFlo, p, m, rand.New(rand.NewPCG(42, 3)))
	assert.Equal(t, c, d)

	e := simulate(t, KindFlo, p, m, rand.New(rand.NewPCG(42, 4)))
	assert.NotEqual(t, c.Last().TotalValue, e.Last().TotalValue)
}
