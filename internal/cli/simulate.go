package cli

import (
	"bytes"
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/rustyeddy/investsim/backtest"
	"github.com/rustyeddy/investsim/cache"
	"github.com/rustyeddy/investsim/config"
	"github.com/rustyeddy/investsim/internal/id"
	"github.com/rustyeddy/investsim/journal"
	"github.com/rustyeddy/investsim/report"
)

type simulateFlags struct {
	file       string
	aggregate  string
	percentile float64
	weight     float64
	trials     int
	seed       uint64

	csvPath   string
	xlsxPath  string
	chartPath string
}

func newSimulateCmd(rc *rootConfig) *cobra.Command {
	var f simulateFlags

	cmd := &cobra.Command{
		Use:   "simulate",
		Short: "Run a plan and print its outcome",
		Long: `Run the plan in a config file and print a summary of the aggregated history.

Examples:
  investsim simulate -f plan.yaml
  investsim simulate -f plan.yaml --aggregate percentile --percentile 10 --csv p10.csv`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadFromFile(f.file)
			if err != nil {
				return err
			}
			applyOverrides(cmd, cfg, f)
			if err := cfg.Validate(); err != nil {
				return fmt.Errorf("invalid flags: %w", err)
			}
			return runSimulate(cmd, rc, cfg, f)
		},
	}

	fl := cmd.Flags()
	fl.StringVarP(&f.file, "file", "f", "", "plan file (required)")
	fl.StringVar(&f.aggregate, "aggregate", "", "average|median|percentile (default from plan)")
	fl.Float64Var(&f.percentile, "percentile", 50, "percentile for --aggregate percentile")
	fl.Float64Var(&f.weight, "weight", 0.5, "ranking weight of paid-out against final value")
	fl.IntVar(&f.trials, "trials", 0, "trials for stochastic models (default from plan)")
	fl.Uint64Var(&f.seed, "seed", 0, "random seed (default from plan)")
	fl.StringVar(&f.csvPath, "csv", "", "write the history as CSV")
	fl.StringVar(&f.xlsxPath, "xlsx", "", "write the history as an XLSX workbook")
	fl.StringVar(&f.chartPath, "chart", "", "write a PNG chart of the history")
	_ = cmd.MarkFlagRequired("file")

	return cmd
}

func applyOverrides(cmd *cobra.Command, cfg *config.Config, f simulateFlags) {
	fl := cmd.Flags()
	if fl.Changed("aggregate") {
		cfg.Aggregation.Method = f.aggregate
	}
	if fl.Changed("percentile") {
		cfg.Aggregation.Percentile = f.percentile
	}
	if fl.Changed("weight") {
		cfg.Aggregation.Weight = f.weight
	}
	if fl.Changed("trials") {
		cfg.Simulation.Trials = f.trials
	}
	if fl.Changed("seed") {
		cfg.Simulation.Seed = f.seed
	}
}

func runSimulate(cmd *cobra.Command, rc *rootConfig, cfg *config.Config, f simulateFlags) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	params := cfg.Params()
	runner := &backtest.Runner{
		Strategy: cfg.StrategyKind(),
		Params:   &params,
		Model:    cfg.PriceModel(),
		Options:  cfg.RunnerOptions(),
	}
	runner.Options.Workers = rc.Workers

	memo, closeStore, err := openMemo(ctx, rc)
	if err != nil {
		return err
	}
	defer closeStore()

	key, err := cache.Key(struct {
		Strategy string
		Params   any
		Model    any
		Options  backtest.RunnerOptions
	}{string(runner.Strategy), params, runner.Model, runner.Options})
	if err != nil {
		return err
	}

	ran := false
	ens, err := memo.Ensemble(ctx, key, func(ctx context.Context) (*backtest.Ensemble, error) {
		ran = true
		return runner.Run(ctx)
	})
	if err != nil {
		return err
	}

	agg := cfg.Aggregate()
	h, err := ens.Aggregate(agg)
	if err != nil {
		return err
	}

	created, _ := id.Time(ens.RunID)
	aggName := string(agg.Method)
	if agg.Method == backtest.MethodPercentile {
		aggName = fmt.Sprintf("p%g", agg.Percentile)
	}
	report.PrintSummary(cmd.OutOrStdout(), report.Run{
		RunID:       ens.RunID,
		Created:     created,
		Strategy:    string(runner.Strategy),
		Model:       string(runner.Model.Kind),
		YearlyRate:  runner.Model.YearlyRate,
		Sigma:       runner.Model.Sigma,
		Trials:      len(ens.Trials),
		Aggregation: aggName,
		Cached:      !ran,
	}, h)

	return writeOutputs(h, f)
}

func openMemo(ctx context.Context, rc *rootConfig) (*cache.Memo, func(), error) {
	opts := cache.Options{Kind: rc.Cache, SQLitePath: rc.DBPath}
	ttl := cache.DefaultTTL
	if rc.env != nil {
		opts.Redis = cache.RedisOptions{
			Addr:     rc.env.Cache.RedisAddr,
			Password: rc.env.Cache.RedisPassword,
			DB:       rc.env.Cache.RedisDB,
		}
		ttl = rc.env.Cache.TTL
	}

	store, err := cache.Open(ctx, opts)
	if err != nil {
		return nil, nil, err
	}
	closeStore := func() {}
	if store != nil {
		closeStore = func() { _ = store.Close() }
	}
	return &cache.Memo{Store: store, TTL: ttl}, closeStore, nil
}

func writeOutputs(h journal.History, f simulateFlags) error {
	if f.csvPath != "" {
		if err := journal.WriteCSVFile(f.csvPath, h); err != nil {
			return fmt.Errorf("write csv: %w", err)
		}
	}
	if f.xlsxPath != "" {
		var buf bytes.Buffer
		if err := report.WriteXLSX(&buf, h); err != nil {
			return err
		}
		if err := os.WriteFile(f.xlsxPath, buf.Bytes(), 0644); err != nil {
			return fmt.Errorf("write xlsx: %w", err)
		}
	}
	if f.chartPath != "" {
		png, err := report.RenderChart(h)
		if err != nil {
			return err
		}
		if err := os.WriteFile(f.chartPath, png, 0644); err != nil {
			return fmt.Errorf("write chart: %w", err)
		}
	}
	return nil
}
