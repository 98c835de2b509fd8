package strategies

import (
	"fmt"
	"math/rand/v2"

	"github.com/rustyeddy/investsim/journal"
	"github.com/rustyeddy/investsim/pricing"
	"github.com/rustyeddy/investsim/sim"
)

// SavingsPlan buys one ledger every month during accumulation and sells it
// down during decumulation.
type SavingsPlan struct {
	*account
}

func NewSavingsPlan(p Params, m pricing.Model, rng *rand.Rand) (*SavingsPlan, error) {
	proc, err := m.NewProcess(rng)
	if err != nil {
		return nil, fmt.Errorf("savings-plan: %w", err)
	}
	etf := sim.NewLedger(proc, p.ledgerConfig(1))
	return &SavingsPlan{account: newAccount(string(KindSavingsPlan), p, etf)}, nil
}

func (s *SavingsPlan) Step() bool { return s.step(s.accumulate) }

func (s *SavingsPlan) Simulate() journal.History { return s.simulate(s.Step) }

func (s *SavingsPlan) accumulate(month int) {
	if month == 1 {
		s.deposit(s.etf, s.p.InitialSavings)
	}
	s.deposit(s.etf, s.p.MonthlySavings)
	s.depositReserve(s.p.MonthlySavingsReserves)
}
