package backtest

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/rustyeddy/investsim/journal"
)

var (
	ErrUnknownAggregation = errors.New("unknown aggregation")
	ErrEmptyEnsemble      = errors.New("empty ensemble")
	ErrShapeMismatch      = errors.New("trial histories differ in length")
)

// Method selects how an ensemble is reduced.
type Method string

const (
	MethodAverage    Method = "average"
	MethodMedian     Method = "median"
	MethodPercentile Method = "percentile"
)

func ParseMethod(s string) (Method, error) {
	switch m := Method(strings.ToLower(strings.TrimSpace(s))); m {
	case MethodAverage, MethodMedian, MethodPercentile:
		return m, nil
	default:
		return "", fmt.Errorf("%w %q (supported: average, median, percentile)", ErrUnknownAggregation, s)
	}
}

// Aggregation describes a reduction. Percentile is only read by
// MethodPercentile. Weight blends paid-out against remaining value when
// ranking trials.
type Aggregation struct {
	Method     Method  `json:"method"`
	Percentile float64 `json:"percentile"`
	Weight     float64 `json:"weight"`
}

// Score ranks a history by w × paid-out + (1-w) × final total value.
func Score(h journal.History, w float64) float64 {
	last := h.Last()
	return w*last.PaidOut + (1-w)*last.TotalValue
}

// Aggregate reduces the ensemble to one history.
func (e *Ensemble) Aggregate(a Aggregation) (journal.History, error) {
	switch a.Method {
	case MethodAverage:
		return e.Average()
	case MethodMedian:
		t, err := e.Median(a.Weight)
		return t.History, err
	case MethodPercentile:
		t, err := e.Percentile(a.Percentile, a.Weight)
		return t.History, err
	default:
		return nil, fmt.Errorf("%w %q", ErrUnknownAggregation, a.Method)
	}
}

// Average is the row by row, column by column mean of every trial. Calendar
// and phase columns are taken from the first trial.
func (e *Ensemble) Average() (journal.History, error) {
	if e == nil || len(e.Trials) == 0 {
		return nil, ErrEmptyEnsemble
	}
	rows := len(e.Trials[0].History)
	for _, t := range e.Trials[1:] {
		if len(t.History) != rows {
			return nil, fmt.Errorf("%w: trial %d has %d rows, want %d", ErrShapeMismatch, t.Index, len(t.History), rows)
		}
	}

	out := make(journal.History, rows)
	copy(out, e.Trials[0].History)
	for _, t := range e.Trials[1:] {
		for i, r := range t.History {
			o := &out[i]
			o.TotalValue += r.TotalValue
			o.Reserve += r.Reserve
			o.ETFValue += r.ETFValue
			o.StockValue += r.StockValue
			o.PaidIn += r.PaidIn
			o.PaidOut += r.PaidOut
			o.Tax += r.Tax
			o.Costs += r.Costs
		}
	}

	n := float64(len(e.Trials))
	for i := range out {
		o := &out[i]
		o.TotalValue /= n
		o.Reserve /= n
		o.ETFValue /= n
		o.StockValue /= n
		o.PaidIn /= n
		o.PaidOut /= n
		o.Tax /= n
		o.Costs /= n
	}
	return out, nil
}

// Percentile returns the literal trial at rank floor(p/100 × N) after a
// stable ascending sort by Score. p = 100 picks the best trial.
func (e *Ensemble) Percentile(p, w float64) (Trial, error) {
	if e == nil || len(e.Trials) == 0 {
		return Trial{}, ErrEmptyEnsemble
	}
	if p < 0 || p > 100 || math.IsNaN(p) {
		return Trial{}, fmt.Errorf("backtest: percentile %v out of range [0, 100]", p)
	}

	ranked := make([]Trial, len(e.Trials))
	copy(ranked, e.Trials)
	sort.SliceStable(ranked, func(i, j int) bool {
		return Score(ranked[i].History, w) < Score(ranked[j].History, w)
	})

	idx := int(math.Floor(p / 100 * float64(len(ranked))))
	if idx > len(ranked)-1 {
		idx = len(ranked) - 1
	}
	return ranked[idx], nil
}

func (e *Ensemble) Median(w float64) (Trial, error) {
	return e.Percentile(50, w)
}
