package strategies

import "github.com/rustyeddy/investsim/sim"

// Params is the flat parameter set shared by every strategy. Amounts are in
// currency units, rates and percentages in percent.
type Params struct {
	InitialSavings               float64 `json:"initial_savings"`
	MonthlySavings               float64 `json:"monthly_savings"`
	Reserves                     float64 `json:"reserves"`
	MonthlySavingsReserves       float64 `json:"monthly_savings_reserves"`
	YearlyInterestRateOnReserves float64 `json:"yearly_interest_rate_on_reserves"`

	CostsBuy  float64 `json:"costs_buy"`
	CostsSell float64 `json:"costs_sell"`

	YearlyTaxFreeAllowance     float64 `json:"yearly_tax_free_allowance"`
	CapitalYieldsTaxPercentage float64 `json:"capital_yields_tax_percentage"`

	AccumulationYears int     `json:"accumulation_years"`
	MonthlyPayoff     float64 `json:"monthly_payoff"`
	ExtractAllAtOnce  bool    `json:"extract_all_at_once"`
	DurationYears     int     `json:"duration_years"`

	StartMonth int `json:"start_month"`
	StartYear  int `json:"start_year"`

	Flo FloParams `json:"flo"`
}

// FloParams configures the rebalanced stock ledger of the Flo strategy.
type FloParams struct {
	InitialStockPrice   float64 `json:"initial_stock_price"`
	TargetShares        float64 `json:"target_shares"`
	RollingWindowMonths int     `json:"rolling_window_months"`
	StepSize            float64 `json:"step_size"`
	PriceStep           float64 `json:"price_step"`
	StockYearlyRate     float64 `json:"stock_yearly_rate"`
	StockSigma          float64 `json:"stock_sigma"`
}

// DefaultParams returns the stock savings plan: 100 a month into the ledger
// and 100 into the reserve for 30 years, then 100 a month paid out until year 60.
func DefaultParams() Params {
	return Params{
		InitialSavings:               0,
		MonthlySavings:               100,
		Reserves:                     0,
		MonthlySavingsReserves:       100,
		YearlyInterestRateOnReserves: 2,
		CostsBuy:                     1,
		CostsSell:                    1,
		YearlyTaxFreeAllowance:       sim.DefaultYearlyAllowance,
		CapitalYieldsTaxPercentage:   sim.DefaultTaxPercentage,
		AccumulationYears:            30,
		MonthlyPayoff:                100,
		DurationYears:                60,
		StartMonth:                   sim.DefaultStartMonth,
		StartYear:                    sim.DefaultStartYear,
		Flo:                          DefaultFloParams(),
	}
}

func DefaultFloParams() FloParams {
	return FloParams{
		InitialStockPrice:   100,
		TargetShares:        120,
		RollingWindowMonths: 4,
		StepSize:            20,
		PriceStep:           4,
		StockYearlyRate:     5,
		StockSigma:          2,
	}
}

// Months is the number of simulated months.
func (p Params) Months() int {
	if p.DurationYears < 0 {
		return 0
	}
	return p.DurationYears * 12
}

// AccumulationMonths is the last month index of the accumulation phase.
func (p Params) AccumulationMonths() int {
	return p.AccumulationYears * 12
}

func (p Params) ledgerConfig(initialPrice float64) sim.LedgerConfig {
	cfg := sim.LedgerConfig{
		InitialPrice:    initialPrice,
		YearlyAllowance: p.YearlyTaxFreeAllowance,
		TaxPercentage:   p.CapitalYieldsTaxPercentage,
		StartMonth:      p.StartMonth,
		StartYear:       p.StartYear,
	}
	if cfg.StartYear == 0 {
		cfg.StartYear = sim.DefaultStartYear
	}
	return cfg
}
