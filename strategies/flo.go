package strategies

import (
	"fmt"
	"math"
	"math/rand/v2"

	"github.com/rustyeddy/investsim/indicators"
	"github.com/rustyeddy/investsim/journal"
	"github.com/rustyeddy/investsim/pricing"
	"github.com/rustyeddy/investsim/risk"
	"github.com/rustyeddy/investsim/sim"
)

// minTradeShares ignores rebalance deltas that are float noise.
const minTradeShares = 1e-9

// Flo saves into an ETF ledger like SavingsPlan and keeps a second stock
// ledger near a target share count. The target moves against the price's
// deviation from its rolling mean, so the plan buys dips and trims rallies
// with money from the reserve.
type Flo struct {
	*account
	window *indicators.RollingMean
}

func NewFlo(p Params, m pricing.Model, rng *rand.Rand) (*Flo, error) {
	proc, err := m.NewProcess(rng)
	if err != nil {
		return nil, fmt.Errorf("flo: %w", err)
	}
	stockModel := pricing.Model{
		Kind:       m.Kind,
		YearlyRate: p.Flo.StockYearlyRate,
		Sigma:      p.Flo.StockSigma,
	}
	stockProc, err := stockModel.NewProcess(rng)
	if err != nil {
		return nil, fmt.Errorf("flo: stock: %w", err)
	}

	etf := sim.NewLedger(proc, p.ledgerConfig(1))
	stock := sim.NewLedger(stockProc, p.ledgerConfig(p.Flo.InitialStockPrice))

	a := newAccount(string(KindFlo), p, etf)
	a.stock = stock
	a.ledgers = []*sim.Ledger{stock, etf}
	// row 0 was recorded before the stock ledger existed
	a.history[0].StockValue = stock.Value()

	return &Flo{
		account: a,
		window:  indicators.NewRollingMean(p.Flo.RollingWindowMonths),
	}, nil
}

func (f *Flo) Step() bool { return f.step(f.accumulate) }

func (f *Flo) Simulate() journal.History { return f.simulate(f.Step) }

func (f *Flo) accumulate(month int) {
	if month == 1 {
		f.deposit(f.etf, f.p.InitialSavings)
	}
	f.deposit(f.etf, f.p.MonthlySavings)
	f.depositReserve(f.p.MonthlySavingsReserves)
	f.rebalance()
}

func (f *Flo) rebalance() {
	price := f.stock.Price()
	f.window.Update(price)

	delta := risk.Rebalance(risk.RebalanceInputs{
		Price:        price,
		AveragePrice: f.window.Value(),
		SharesHeld:   f.stock.Units(),
		TargetShares: f.p.Flo.TargetShares,
		StepSize:     f.p.Flo.StepSize,
		PriceStep:    f.p.Flo.PriceStep,
	})

	switch {
	case delta > minTradeShares:
		money := math.Min(delta*price+f.p.CostsBuy, f.reserve)
		if money <= f.p.CostsBuy {
			return
		}
		if f.stock.Buy(money, f.p.CostsBuy) {
			f.reserve -= money
			f.costs += f.p.CostsBuy
		}
	case delta < -minTradeShares:
		f.settle(f.stock.Sell(-delta*price, f.p.CostsSell))
	}
}
