// Package strategies drives lot ledgers and a cash reserve through the
// accumulation and decumulation phases of an investment plan, one month at a
// time.
package strategies

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"strings"

	"github.com/rustyeddy/investsim/journal"
	"github.com/rustyeddy/investsim/pricing"
)

var ErrUnknownStrategy = errors.New("unknown strategy")

// Kind names a strategy variant.
type Kind string

const (
	KindSavingsPlan Kind = "savings-plan"
	KindFlo         Kind = "flo"
)

// ParseKind maps a user supplied name to a Kind.
func ParseKind(s string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "savings-plan", "savingsplan", "savings":
		return KindSavingsPlan, nil
	case "flo":
		return KindFlo, nil
	default:
		return "", fmt.Errorf("%w %q (supported: savings-plan, flo)", ErrUnknownStrategy, s)
	}
}

// Strategy is a monthly state machine. Step simulates one month and reports
// false once the configured duration has been reached.
type Strategy interface {
	Name() string
	Step() bool
	Simulate() journal.History
	History() journal.History
	Done() bool
}

// New builds a strategy of the given kind. rng feeds stochastic price models
// and may be nil for deterministic ones.
func New(kind Kind, p Params, m pricing.Model, rng *rand.Rand) (Strategy, error) {
	var (
		s   Strategy
		err error
	)
	switch kind {
	case KindSavingsPlan:
		s, err = NewSavingsPlan(p, m, rng)
	case KindFlo:
		s, err = NewFlo(p, m, rng)
	default:
		return nil, fmt.Errorf("%w %q", ErrUnknownStrategy, kind)
	}
	if err != nil {
		return nil, err
	}
	return s, nil
}
