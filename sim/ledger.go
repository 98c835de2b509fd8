package sim

import (
	"math"

	"github.com/rustyeddy/investsim/pricing"
)

const (
	DefaultYearlyAllowance = 1000.0
	DefaultTaxPercentage   = 25.0
	DefaultStartMonth      = 1
	DefaultStartYear       = 2024
)

// LedgerConfig holds the tax settings and starting point of a Ledger.
type LedgerConfig struct {
	InitialPrice    float64
	YearlyAllowance float64
	TaxPercentage   float64
	StartMonth      int
	StartYear       int
}

// DefaultLedgerConfig starts at price 1 in January 2024 with a 1000 allowance
// and 25% capital gains tax.
func DefaultLedgerConfig() LedgerConfig {
	return LedgerConfig{
		InitialPrice:    1,
		YearlyAllowance: DefaultYearlyAllowance,
		TaxPercentage:   DefaultTaxPercentage,
		StartMonth:      DefaultStartMonth,
		StartYear:       DefaultStartYear,
	}
}

// Sale is the outcome of one sell call. Proceeds is net of Costs and Tax.
type Sale struct {
	Proceeds float64
	Gross    float64
	Tax      float64
	Costs    float64
	Profit   float64
}

// Ledger holds the purchase lots of one asset in FIFO order together with the
// running capital gains tax state.
type Ledger struct {
	lots    []*Lot
	price   *pricing.Cell
	process pricing.Process

	month int
	year  int

	yearlyAllowance    float64
	remainingAllowance float64
	lossPot            float64
	taxPct             float64
}

// NewLedger returns an empty ledger whose price advances with p.
func NewLedger(p pricing.Process, cfg LedgerConfig) *Ledger {
	if cfg.InitialPrice <= 0 {
		cfg.InitialPrice = 1
	}
	if cfg.StartMonth < 1 || cfg.StartMonth > 12 {
		cfg.StartMonth = DefaultStartMonth
	}
	return &Ledger{
		price:              pricing.NewCell(cfg.InitialPrice),
		process:            p,
		month:              cfg.StartMonth,
		year:               cfg.StartYear,
		yearlyAllowance:    cfg.YearlyAllowance,
		remainingAllowance: cfg.YearlyAllowance,
		taxPct:             cfg.TaxPercentage,
	}
}

// Buy invests money minus the fee at the current price. It is a no-op and
// returns false when money does not cover the fee.
func (l *Ledger) Buy(money, cost float64) bool {
	money -= cost
	if money < 0 {
		return false
	}
	price := l.price.Value()
	l.lots = append(l.lots, &Lot{
		Units:         money / price,
		PurchasePrice: price,
		Month:         l.month,
		Year:          l.year,
		price:         l.price,
	})
	return true
}

// Sell disposes of lots oldest first until target gross proceeds are raised,
// splitting the last lot if needed. Nothing happens and a zero Sale is
// returned when target is below the fee or the ledger is empty.
func (l *Ledger) Sell(target, cost float64) Sale {
	if target < cost || len(l.lots) == 0 {
		return Sale{}
	}
	return l.dispose(target, cost)
}

// SellAll liquidates every lot in one sale.
func (l *Ledger) SellAll(cost float64) Sale {
	if len(l.lots) == 0 {
		return Sale{}
	}
	return l.dispose(math.Inf(1), cost)
}

func (l *Ledger) dispose(target, cost float64) Sale {
	var gross, profit float64

	sold := 0
	for _, lot := range l.lots {
		if target <= 0 {
			break
		}
		value := lot.Value()
		if value > target {
			units := target / lot.Price()
			lot.Units -= units
			profit += target - units*lot.PurchasePrice
			gross += target
			target = 0
			break
		}
		profit += value - lot.CostBasis()
		gross += value
		target -= value
		sold++
	}
	l.lots = l.lots[sold:]

	tax := l.tax(profit)
	return Sale{
		Proceeds: gross - cost - tax,
		Gross:    gross,
		Tax:      tax,
		Costs:    cost,
		Profit:   profit,
	}
}

// tax settles a realized profit against the loss pot first, then the yearly
// allowance, and taxes the remainder.
func (l *Ledger) tax(profit float64) float64 {
	if profit < 0 {
		l.lossPot += -profit
		return 0
	}

	offset := math.Min(l.lossPot, profit)
	l.lossPot -= offset
	profit -= offset

	free := math.Min(l.remainingAllowance, profit)
	l.remainingAllowance -= free
	profit -= free

	return profit * l.taxPct / 100
}

// NextMonth advances the calendar, restoring the allowance at the turn of the
// year, then applies one price update.
func (l *Ledger) NextMonth() {
	if l.month < 12 {
		l.month++
	} else {
		l.month = 1
		l.year++
		l.remainingAllowance = l.yearlyAllowance
	}
	l.price.Update(l.process)
}

// Value is the current market value of all lots.
func (l *Ledger) Value() float64 {
	v := 0.0
	for _, lot := range l.lots {
		v += lot.Value()
	}
	return v
}

// Units is the number of units held across all lots.
func (l *Ledger) Units() float64 {
	u := 0.0
	for _, lot := range l.lots {
		u += lot.Units
	}
	return u
}

// Invested is the cost basis of all lots.
func (l *Ledger) Invested() float64 {
	v := 0.0
	for _, lot := range l.lots {
		v += lot.CostBasis()
	}
	return v
}

// Lots returns a copy of the lots, oldest first.
func (l *Ledger) Lots() []Lot {
	out := make([]Lot, len(l.lots))
	for i, lot := range l.lots {
		out[i] = *lot
	}
	return out
}

func (l *Ledger) Len() int                    { return len(l.lots) }
func (l *Ledger) Price() float64              { return l.price.Value() }
func (l *Ledger) LossPot() float64            { return l.lossPot }
func (l *Ledger) RemainingAllowance() float64 { return l.remainingAllowance }
func (l *Ledger) Month() int                  { return l.month }
func (l *Ledger) Year() int                   { return l.year }
