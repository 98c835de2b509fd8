package pricing

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"strings"
)

// ErrUnknownModel is returned for a price model kind that is not implemented.
var ErrUnknownModel = errors.New("unknown price model")

// minMonthlyRate keeps a drawn monthly return above -100% so prices stay positive.
const minMonthlyRate = -99.0

// MonthlyRate converts a yearly percentage rate into the monthly rate used by
// every process and by reserve interest. The conversion is a flat division:
// twelve monthly applications do not compound back to the yearly rate.
func MonthlyRate(yearly float64) float64 {
	return yearly / 12
}

// Process maps this month's unit price to next month's.
type Process interface {
	Next(current float64) float64
}

// Deterministic grows the price by a fixed monthly rate.
type Deterministic struct {
	monthlyRate float64
}

func NewDeterministic(yearlyRate float64) *Deterministic {
	return &Deterministic{monthlyRate: MonthlyRate(yearlyRate)}
}

func (d *Deterministic) Next(current float64) float64 {
	return current * (1 + d.monthlyRate/100)
}

// Normal draws an independent monthly rate ~ N(yearly/12, sigma) on every call.
type Normal struct {
	mean  float64
	sigma float64
	rng   *rand.Rand
}

// NewNormal returns a stochastic process. rng must not be shared with
// another goroutine.
func NewNormal(yearlyRate, sigma float64, rng *rand.Rand) *Normal {
	return &Normal{
		mean:  MonthlyRate(yearlyRate),
		sigma: sigma,
		rng:   rng,
	}
}

func (n *Normal) Next(current float64) float64 {
	rate := n.mean + n.sigma*n.rng.NormFloat64()
	if rate < minMonthlyRate {
		rate = minMonthlyRate
	}
	return current * (1 + rate/100)
}

// Kind selects a price process variant.
type Kind string

const (
	KindDeterministic Kind = "deterministic"
	KindNormal        Kind = "normal"
)

// ParseKind parses a model name, case-insensitively.
func ParseKind(s string) (Kind, error) {
	switch Kind(strings.ToLower(strings.TrimSpace(s))) {
	case KindDeterministic:
		return KindDeterministic, nil
	case KindNormal:
		return KindNormal, nil
	default:
		return "", fmt.Errorf("%w %q (supported: deterministic, normal)", ErrUnknownModel, s)
	}
}

// Stochastic reports whether runs of this kind need more than one trial.
func (k Kind) Stochastic() bool { return k == KindNormal }

// Model is the configuration of one price process.
type Model struct {
	Kind       Kind    `json:"kind"`
	YearlyRate float64 `json:"yearly_rate"`
	Sigma      float64 `json:"sigma"`
}

func (m Model) Validate() error {
	switch m.Kind {
	case KindDeterministic:
		return nil
	case KindNormal:
		if m.Sigma < 0 {
			return fmt.Errorf("sigma must be >= 0 (got %v)", m.Sigma)
		}
		return nil
	default:
		return fmt.Errorf("%w %q", ErrUnknownModel, m.Kind)
	}
}

// NewProcess builds the process for m. rng is only used by stochastic kinds
// and may be nil otherwise.
func (m Model) NewProcess(rng *rand.Rand) (Process, error) {
	switch m.Kind {
	case KindDeterministic:
		return NewDeterministic(m.YearlyRate), nil
	case KindNormal:
		if rng == nil {
			return nil, fmt.Errorf("normal model: random source is required")
		}
		return NewNormal(m.YearlyRate, m.Sigma, rng), nil
	default:
		return nil, fmt.Errorf("%w %q", ErrUnknownModel, m.Kind)
	}
}
