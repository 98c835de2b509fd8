// Package config loads and validates investment plan files.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/rustyeddy/investsim/backtest"
	"github.com/rustyeddy/investsim/pricing"
	"github.com/rustyeddy/investsim/strategies"
)

// Config is a complete plan: what to simulate and how to summarize it.
type Config struct {
	Strategy    string            `json:"strategy" yaml:"strategy"`
	Savings     SavingsConfig     `json:"savings" yaml:"savings"`
	Reserve     ReserveConfig     `json:"reserve" yaml:"reserve"`
	Costs       CostsConfig       `json:"costs" yaml:"costs"`
	Tax         TaxConfig         `json:"tax" yaml:"tax"`
	Plan        PlanConfig        `json:"plan" yaml:"plan"`
	Model       ModelConfig       `json:"model" yaml:"model"`
	Simulation  SimulationConfig  `json:"simulation" yaml:"simulation"`
	Aggregation AggregationConfig `json:"aggregation" yaml:"aggregation"`
	Flo         FloConfig         `json:"flo" yaml:"flo"`
}

// SavingsConfig is money paid into the primary ledger.
type SavingsConfig struct {
	Initial float64 `json:"initial" yaml:"initial"`
	Monthly float64 `json:"monthly" yaml:"monthly"`
}

// ReserveConfig is the interest bearing cash reserve.
type ReserveConfig struct {
	Initial            float64 `json:"initial" yaml:"initial"`
	Monthly            float64 `json:"monthly" yaml:"monthly"`
	YearlyInterestRate float64 `json:"yearly_interest_rate" yaml:"yearly_interest_rate"`
}

// CostsConfig holds flat transaction fees.
type CostsConfig struct {
	Buy  float64 `json:"buy" yaml:"buy"`
	Sell float64 `json:"sell" yaml:"sell"`
}

type TaxConfig struct {
	YearlyAllowance        float64 `json:"yearly_allowance" yaml:"yearly_allowance"`
	CapitalGainsPercentage float64 `json:"capital_gains_percentage" yaml:"capital_gains_percentage"`
}

// PlanConfig sets the phases and the calendar start.
type PlanConfig struct {
	AccumulationYears int     `json:"accumulation_years" yaml:"accumulation_years"`
	DurationYears     int     `json:"duration_years" yaml:"duration_years"`
	MonthlyPayoff     float64 `json:"monthly_payoff" yaml:"monthly_payoff"`
	ExtractAllAtOnce  bool    `json:"extract_all_at_once" yaml:"extract_all_at_once"`
	StartMonth        int     `json:"start_month" yaml:"start_month"`
	StartYear         int     `json:"start_year" yaml:"start_year"`
}

// ModelConfig selects the price process. Sigma is only read by "normal".
type ModelConfig struct {
	Kind       string  `json:"kind" yaml:"kind"`
	YearlyRate float64 `json:"yearly_rate" yaml:"yearly_rate"`
	Sigma      float64 `json:"sigma" yaml:"sigma"`
}

type SimulationConfig struct {
	Trials int    `json:"trials" yaml:"trials"`
	Seed   uint64 `json:"seed" yaml:"seed"`
}

type AggregationConfig struct {
	Method     string  `json:"method" yaml:"method"`
	Percentile float64 `json:"percentile" yaml:"percentile"`
	Weight     float64 `json:"weight" yaml:"weight"`
}

// FloConfig configures the rebalanced stock ledger of the flo strategy.
type FloConfig struct {
	InitialStockPrice   float64 `json:"initial_stock_price" yaml:"initial_stock_price"`
	TargetShares        float64 `json:"target_shares" yaml:"target_shares"`
	RollingWindowMonths int     `json:"rolling_window_months" yaml:"rolling_window_months"`
	StepSize            float64 `json:"step_size" yaml:"step_size"`
	PriceStep           float64 `json:"price_step" yaml:"price_step"`
	StockYearlyRate     float64 `json:"stock_yearly_rate" yaml:"stock_yearly_rate"`
	StockSigma          float64 `json:"stock_sigma" yaml:"stock_sigma"`
}

// LoadFromFile loads a YAML or JSON plan and validates it.
func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		cfg = Default()
		if err := json.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config (tried YAML and JSON): %w", err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// SaveToFile writes YAML for .yaml/.yml paths and indented JSON otherwise.
func (c *Config) SaveToFile(path string) error {
	var (
		data []byte
		err  error
	)
	if strings.HasSuffix(path, ".yaml") || strings.HasSuffix(path, ".yml") {
		data, err = yaml.Marshal(c)
	} else {
		data, err = json.MarshalIndent(c, "", "  ")
	}
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write config file: %w", err)
	}
	return nil
}

// Validate reports the first invalid field by its path.
func (c *Config) Validate() error {
	kind, err := strategies.ParseKind(c.Strategy)
	if err != nil {
		return fmt.Errorf("strategy: %w", err)
	}
	if _, err := pricing.ParseKind(c.Model.Kind); err != nil {
		return fmt.Errorf("model.kind: %w", err)
	}
	if _, err := backtest.ParseMethod(c.Aggregation.Method); err != nil {
		return fmt.Errorf("aggregation.method: %w", err)
	}

	nonNegative := []struct {
		field string
		v     float64
	}{
		{"savings.initial", c.Savings.Initial},
		{"savings.monthly", c.Savings.Monthly},
		{"reserve.initial", c.Reserve.Initial},
		{"reserve.monthly", c.Reserve.Monthly},
		{"costs.buy", c.Costs.Buy},
		{"costs.sell", c.Costs.Sell},
		{"tax.yearly_allowance", c.Tax.YearlyAllowance},
		{"plan.monthly_payoff", c.Plan.MonthlyPayoff},
		{"model.sigma", c.Model.Sigma},
	}
	for _, f := range nonNegative {
		if f.v < 0 {
			return fmt.Errorf("%s must be >= 0", f.field)
		}
	}

	if c.Tax.CapitalGainsPercentage < 0 || c.Tax.CapitalGainsPercentage > 100 {
		return fmt.Errorf("tax.capital_gains_percentage must be between 0 and 100")
	}
	if c.Plan.DurationYears <= 0 {
		return fmt.Errorf("plan.duration_years must be positive")
	}
	if c.Plan.AccumulationYears < 0 || c.Plan.AccumulationYears > c.Plan.DurationYears {
		return fmt.Errorf("plan.accumulation_years must be between 0 and plan.duration_years")
	}
	if c.Plan.StartMonth < 1 || c.Plan.StartMonth > 12 {
		return fmt.Errorf("plan.start_month must be between 1 and 12")
	}
	if c.Simulation.Trials < 1 {
		return fmt.Errorf("simulation.trials must be positive")
	}
	if c.Aggregation.Percentile < 0 || c.Aggregation.Percentile > 100 {
		return fmt.Errorf("aggregation.percentile must be between 0 and 100")
	}
	if c.Aggregation.Weight < 0 || c.Aggregation.Weight > 1 {
		return fmt.Errorf("aggregation.weight must be between 0 and 1")
	}

	if kind == strategies.KindFlo {
		if c.Flo.InitialStockPrice <= 0 {
			return fmt.Errorf("flo.initial_stock_price must be positive")
		}
		if c.Flo.TargetShares < 0 || c.Flo.StepSize < 0 {
			return fmt.Errorf("flo.target_shares and flo.step_size must be >= 0")
		}
		if c.Flo.RollingWindowMonths < 1 {
			return fmt.Errorf("flo.rolling_window_months must be positive")
		}
		if c.Flo.PriceStep <= 0 {
			return fmt.Errorf("flo.price_step must be positive")
		}
		if c.Flo.StockSigma < 0 {
			return fmt.Errorf("flo.stock_sigma must be >= 0")
		}
	}
	return nil
}

// Default returns the stock savings plan under a deterministic 5% market.
func Default() *Config {
	p := strategies.DefaultParams()
	return &Config{
		Strategy: string(strategies.KindSavingsPlan),
		Savings: SavingsConfig{
			Initial: p.InitialSavings,
			Monthly: p.MonthlySavings,
		},
		Reserve: ReserveConfig{
			Initial:            p.Reserves,
			Monthly:            p.MonthlySavingsReserves,
			YearlyInterestRate: p.YearlyInterestRateOnReserves,
		},
		Costs: CostsConfig{Buy: p.CostsBuy, Sell: p.CostsSell},
		Tax: TaxConfig{
			YearlyAllowance:        p.YearlyTaxFreeAllowance,
			CapitalGainsPercentage: p.CapitalYieldsTaxPercentage,
		},
		Plan: PlanConfig{
			AccumulationYears: p.AccumulationYears,
			DurationYears:     p.DurationYears,
			MonthlyPayoff:     p.MonthlyPayoff,
			StartMonth:        p.StartMonth,
			StartYear:         p.StartYear,
		},
		Model: ModelConfig{
			Kind:       string(pricing.KindDeterministic),
			YearlyRate: 5,
			Sigma:      2,
		},
		Simulation: SimulationConfig{Trials: 100, Seed: 1},
		Aggregation: AggregationConfig{
			Method:     string(backtest.MethodMedian),
			Percentile: 50,
			Weight:     0.5,
		},
		Flo: FloConfig{
			InitialStockPrice:   p.Flo.InitialStockPrice,
			TargetShares:        p.Flo.TargetShares,
			RollingWindowMonths: p.Flo.RollingWindowMonths,
			StepSize:            p.Flo.StepSize,
			PriceStep:           p.Flo.PriceStep,
			StockYearlyRate:     p.Flo.StockYearlyRate,
			StockSigma:          p.Flo.StockSigma,
		},
	}
}

// StrategyKind returns the parsed strategy name. Call Validate first.
func (c *Config) StrategyKind() strategies.Kind {
	k, _ := strategies.ParseKind(c.Strategy)
	return k
}

// Params flattens the plan for the strategy engine.
func (c *Config) Params() strategies.Params {
	return strategies.Params{
		InitialSavings:               c.Savings.Initial,
		MonthlySavings:               c.Savings.Monthly,
		Reserves:                     c.Reserve.Initial,
		MonthlySavingsReserves:       c.Reserve.Monthly,
		YearlyInterestRateOnReserves: c.Reserve.YearlyInterestRate,
		CostsBuy:                     c.Costs.Buy,
		CostsSell:                    c.Costs.Sell,
		YearlyTaxFreeAllowance:       c.Tax.YearlyAllowance,
		CapitalYieldsTaxPercentage:   c.Tax.CapitalGainsPercentage,
		AccumulationYears:            c.Plan.AccumulationYears,
		MonthlyPayoff:                c.Plan.MonthlyPayoff,
		ExtractAllAtOnce:             c.Plan.ExtractAllAtOnce,
		DurationYears:                c.Plan.DurationYears,
		StartMonth:                   c.Plan.StartMonth,
		StartYear:                    c.Plan.StartYear,
		Flo: strategies.FloParams{
			InitialStockPrice:   c.Flo.InitialStockPrice,
			TargetShares:        c.Flo.TargetShares,
			RollingWindowMonths: c.Flo.RollingWindowMonths,
			StepSize:            c.Flo.StepSize,
			PriceStep:           c.Flo.PriceStep,
			StockYearlyRate:     c.Flo.StockYearlyRate,
			StockSigma:          c.Flo.StockSigma,
		},
	}
}

func (c *Config) PriceModel() pricing.Model {
	k, _ := pricing.ParseKind(c.Model.Kind)
	return pricing.Model{Kind: k, YearlyRate: c.Model.YearlyRate, Sigma: c.Model.Sigma}
}

func (c *Config) RunnerOptions() backtest.RunnerOptions {
	return backtest.RunnerOptions{Trials: c.Simulation.Trials, Seed: c.Simulation.Seed}
}

func (c *Config) Aggregate() backtest.Aggregation {
	m, _ := backtest.ParseMethod(c.Aggregation.Method)
	return backtest.Aggregation{
		Method:     m,
		Percentile: c.Aggregation.Percentile,
		Weight:     c.Aggregation.Weight,
	}
}
