package backtest

import (
	"testing"

	"github.com/rustyeddy/investsim/journal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// trial builds a two row history ending with the given paid-out and value.
func trial(i int, paidOut, value float64) Trial {
	return Trial{
		Index: i,
		History: journal.History{
			{Month: 0, Phase: journal.PhaseStart, TotalValue: 10, PaidIn: 10},
			{Month: 1, Phase: journal.PhaseDecumulation, TotalValue: value, PaidIn: 10, PaidOut: paidOut, Tax: 1, Costs: 2},
		},
	}
}

func TestScore(t *testing.T) {
	t.Parallel()

	h := trial(0, 100, 40).History
	assert.InDelta(t, 40, Score(h, 0), 1e-9)
	assert.InDelta(t, 100, Score(h, 1), 1e-9)
	assert.InDelta(t, 70, Score(h, 0.5), 1e-9)
}

func TestParseMethod(t *testing.T) {
	t.Parallel()

	m, err := ParseMethod(" Median ")
	require.NoError(t, err)
	assert.Equal(t, MethodMedian, m)

	_, err = ParseMethod("mode")
	assert.ErrorIs(t, err, ErrUnknownAggregation)
}

func TestPercentilePicksFloorIndex(t *testing.T) {
	t.Parallel()

	// inserted out of order; scores 0..9 by value
	e := &Ensemble{}
	for _, v := range []int{7, 2, 9, 0, 5, 1, 8, 3, 6, 4} {
		e.Trials = append(e.Trials, trial(v, 0, float64(v)))
	}

	tests := []struct {
		p    float64
		want float64
	}{
		{0, 0},
		{9, 0},
		{10, 1},
		{50, 5},
		{55, 5},
		{99, 9},
		{100, 9},
	}
	for _, tt := range tests {
		got, err := e.Percentile(tt.p, 0)
		require.NoError(t, err)
		assert.Equal(t, tt.want, got.History.Last().TotalValue, "p=%v", tt.p)
	}

	med, err := e.Median(0)
	require.NoError(t, err)
	assert.Equal(t, 5.0, med.History.Last().TotalValue)

	_, err = e.Percentile(101, 0)
	assert.Error(t, err)
	_, err = e.Percentile(-1, 0)
	assert.Error(t, err)
}

func TestPercentileStableOnTies(t *testing.T) {
	t.Parallel()

	e := &Ensemble{Trials: []Trial{trial(0, 0, 5), trial(1, 0, 5), trial(2, 0, 5)}}
	got, err := e.Percentile(0, 0)
	require.NoError(t, err)
	assert.Equal(t, 0, got.Index)

	got, err = e.Percentile(50, 0)
	require.NoError(t, err)
	assert.Equal(t, 1, got.Index)
}

func TestWeightChangesRanking(t *testing.T) {
	t.Parallel()

	// a pays out more, b keeps more
	e := &Ensemble{Trials: []Trial{trial(0, 100, 0), trial(1, 0, 60)}}

	best, err := e.Percentile(100, 1)
	require.NoError(t, err)
	assert.Equal(t, 0, best.Index)

	best, err = e.Percentile(100, 0)
	require.NoError(t, err)
	assert.Equal(t, 1, best.Index)
}

func TestAverage(t *testing.T) {
	t.Parallel()

	e := &Ensemble{Trials: []Trial{trial(0, 10, 20), trial(1, 30, 40)}}
	avg, err := e.Average()
	require.NoError(t, err)
	require.Len(t, avg, 2)

	assert.Equal(t, journal.PhaseDecumulation, avg[1].Phase)
	assert.InDelta(t, 20, avg[1].PaidOut, 1e-9)
	assert.InDelta(t, 30, avg[1].TotalValue, 1e-9)
	assert.InDelta(t, 10, avg[0].TotalValue, 1e-9)
	assert.InDelta(t, 1, avg[1].Tax, 1e-9)

	// inputs untouched
	assert.InDelta(t, 20, e.Trials[0].History[1].TotalValue, 1e-9)
}

func TestAverageErrors(t *testing.T) {
	t.Parallel()

	_, err := (&Ensemble{}).Average()
	assert.ErrorIs(t, err, ErrEmptyEnsemble)

	_, err = (&Ensemble{}).Percentile(50, 0)
	assert.ErrorIs(t, err, ErrEmptyEnsemble)

	short := trial(1, 0, 0)
	short.History = short.History[:1]
	_, err = (&Ensemble{Trials: []Trial{trial(0, 0, 0), short}}).Average()
	assert.ErrorIs(t, err, ErrShapeMismatch)
}

func TestAggregate(t *testing.T) {
	t.Parallel()

	e := &Ensemble{Trials: []Trial{trial(0, 0, 1), trial(1, 0, 2), trial(2, 0, 3), trial(3, 0, 4)}}

	h, err := e.Aggregate(Aggregation{Method: MethodAverage})
	require.NoError(t, err)
	assert.InDelta(t, 2.5, h.Last().TotalValue, 1e-9)

	h, err = e.Aggregate(Aggregation{Method: MethodMedian})
	require.NoError(t, err)
	assert.Equal(t, 3.0, h.Last().TotalValue)

	h, err = e.Aggregate(Aggregation{Method: MethodPercentile, Percentile: 25})
	require.NoError(t, err)
	assert.Equal(t, 2.0, h.Last().TotalValue)

	_, err = e.Aggregate(Aggregation{Method: "mode"})
	assert.ErrorIs(t, err, ErrUnknownAggregation)
}
