package strategies

import (
	"log/slog"
	"math"

	"github.com/rustyeddy/investsim/journal"
	"github.com/rustyeddy/investsim/pricing"
	"github.com/rustyeddy/investsim/sim"
)

// account is the state shared by every strategy: the month counter, the cash
// reserve, the ledgers and the running totals behind the history table.
type account struct {
	name string
	p    Params

	etf   *sim.Ledger
	stock *sim.Ledger

	// payoff order for decumulation
	ledgers []*sim.Ledger

	month     int
	months    int
	phase     journal.Phase
	extracted bool

	reserve float64
	paidIn  float64
	paidOut float64
	tax     float64
	costs   float64

	history journal.History
}

func newAccount(name string, p Params, etf *sim.Ledger) *account {
	a := &account{
		name:    name,
		p:       p,
		etf:     etf,
		ledgers: []*sim.Ledger{etf},
		months:  p.Months(),
		phase:   journal.PhaseStart,
		reserve: math.Max(0, p.Reserves),
		history: make(journal.History, 0, p.Months()+1),
	}
	a.paidIn = a.reserve
	a.record()
	return a
}

func (a *account) Name() string { return a.name }

func (a *account) Done() bool { return a.month >= a.months }

// History returns the rows recorded so far. Callers must not modify it.
func (a *account) History() journal.History { return a.history }

// step runs one month. accumulate holds the variant specific purchases.
func (a *account) step(accumulate func(month int)) bool {
	if a.Done() {
		return false
	}
	a.month++

	a.accrueInterest()

	a.enter(a.phaseOf(a.month))
	if a.phase == journal.PhaseAccumulation {
		accumulate(a.month)
	} else {
		a.decumulate()
	}

	for _, l := range a.ledgers {
		l.NextMonth()
	}
	a.record()
	return true
}

func (a *account) phaseOf(month int) journal.Phase {
	if month <= a.p.AccumulationMonths() {
		return journal.PhaseAccumulation
	}
	return journal.PhaseDecumulation
}

func (a *account) enter(phase journal.Phase) {
	if phase == a.phase {
		return
	}
	slog.Debug("strategy phase",
		slog.String("strategy", a.name),
		slog.String("phase", string(phase)),
		slog.Int("month", a.month),
		slog.Float64("value", a.totalValue()),
	)
	a.phase = phase
}

// accrueInterest grows the reserve by one month of interest and taxes the
// interest immediately.
func (a *account) accrueInterest() {
	if a.reserve <= 0 {
		return
	}
	interest := a.reserve * pricing.MonthlyRate(a.p.YearlyInterestRateOnReserves) / 100
	if interest <= 0 {
		a.reserve = math.Max(0, a.reserve+interest)
		return
	}
	tax := interest * a.p.CapitalYieldsTaxPercentage / 100
	a.reserve += interest - tax
	a.tax += tax
}

// deposit pays money into l. A purchase that cannot cover the fee lands in
// the reserve instead.
func (a *account) deposit(l *sim.Ledger, money float64) {
	if money <= 0 {
		return
	}
	a.paidIn += money
	if l.Buy(money, a.p.CostsBuy) {
		a.costs += a.p.CostsBuy
		return
	}
	a.reserve += money
}

func (a *account) depositReserve(money float64) {
	if money <= 0 {
		return
	}
	a.paidIn += money
	a.reserve += money
}

// settle books a sale whose proceeds stay inside the plan.
func (a *account) settle(s sim.Sale) {
	a.tax += s.Tax
	a.costs += s.Costs
	a.reserve = math.Max(0, a.reserve+s.Proceeds)
}

// decumulate pays out the monthly payoff from the first ledger holding value,
// or from the reserve once every ledger is empty.
func (a *account) decumulate() {
	if a.p.ExtractAllAtOnce && !a.extracted {
		for _, l := range a.ledgers {
			if l.Len() > 0 {
				a.settle(l.SellAll(a.p.CostsSell))
			}
		}
		a.extracted = true
	}

	payoff := a.p.MonthlyPayoff
	if payoff <= 0 {
		return
	}
	for _, l := range a.ledgers {
		if l.Len() == 0 || l.Value() <= 0 {
			continue
		}
		s := l.Sell(payoff, a.p.CostsSell)
		if s == (sim.Sale{}) {
			continue
		}
		a.tax += s.Tax
		a.costs += s.Costs
		if s.Proceeds >= 0 {
			a.paidOut += s.Proceeds
		} else {
			a.reserve = math.Max(0, a.reserve+s.Proceeds)
		}
		return
	}

	amount := math.Min(payoff, a.reserve)
	a.reserve -= amount
	a.paidOut += amount
}

func (a *account) totalValue() float64 {
	total := a.reserve
	for _, l := range a.ledgers {
		total += l.Value()
	}
	return total
}

func (a *account) record() {
	r := journal.Record{
		Month:         a.month,
		CalendarMonth: a.etf.Month(),
		Year:          a.etf.Year(),
		Phase:         a.phase,
		TotalValue:    a.totalValue(),
		Reserve:       a.reserve,
		ETFValue:      a.etf.Value(),
		PaidIn:        a.paidIn,
		PaidOut:       a.paidOut,
		Tax:           a.tax,
		Costs:         a.costs,
	}
	if a.stock != nil {
		r.StockValue = a.stock.Value()
	}
	a.history = append(a.history, r)
}

func (a *account) simulate(step func() bool) journal.History {
	for step() {
	}
	return a.history
}
