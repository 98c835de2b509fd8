// Package backtest runs a strategy over many independent price paths and
// reduces the resulting ensemble to one representative history.
package backtest

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"runtime"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/rustyeddy/investsim/internal/id"
	"github.com/rustyeddy/investsim/journal"
	"github.com/rustyeddy/investsim/pricing"
	"github.com/rustyeddy/investsim/strategies"
)

// RunnerOptions controls how many trials run and how they are seeded.
type RunnerOptions struct {
	// Trials is ignored for deterministic models, which always run once.
	Trials int `json:"trials"`
	// Trial i draws from PCG(Seed, i).
	Seed uint64 `json:"seed"`
	// Workers bounds parallel trials. Zero means GOMAXPROCS.
	// It never changes the results.
	Workers int `json:"-"`
}

// Runner simulates one strategy configuration under a price model.
type Runner struct {
	Strategy strategies.Kind
	Params   *strategies.Params
	Model    pricing.Model
	Options  RunnerOptions
}

// Trial is one simulated price path.
type Trial struct {
	ID      string          `json:"id"`
	Index   int             `json:"index"`
	Seed    uint64          `json:"seed"`
	History journal.History `json:"history"`
}

// Ensemble holds every trial of a run in index order.
type Ensemble struct {
	RunID    string          `json:"run_id"`
	Strategy strategies.Kind `json:"strategy"`
	Model    pricing.Model   `json:"model"`
	Trials   []Trial         `json:"trials"`
}

// TrialCount is the number of trials Run will execute.
func (r *Runner) TrialCount() int {
	if !r.Model.Kind.Stochastic() || r.Options.Trials < 1 {
		return 1
	}
	return r.Options.Trials
}

func (r *Runner) validate() error {
	if r.Strategy == "" {
		return fmt.Errorf("backtest: Strategy is required")
	}
	if r.Params == nil {
		return fmt.Errorf("backtest: Params are required")
	}
	if _, err := strategies.ParseKind(string(r.Strategy)); err != nil {
		return fmt.Errorf("backtest: %w", err)
	}
	if err := r.Model.Validate(); err != nil {
		return fmt.Errorf("backtest: %w", err)
	}
	return nil
}

// Run executes every trial and returns the ensemble. Configuration errors
// are reported before any trial starts. Cancelling ctx stops scheduling new
// trials and returns ctx.Err().
func (r *Runner) Run(ctx context.Context) (*Ensemble, error) {
	if err := r.validate(); err != nil {
		return nil, err
	}

	n := r.TrialCount()
	workers := r.Options.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	runID := id.New()
	start := time.Now()
	trials := make([]Trial, n)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for i := range n {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			h, err := r.trial(i)
			if err != nil {
				return fmt.Errorf("backtest: trial %d: %w", i, err)
			}
			trials[i] = Trial{
				ID:      id.New(),
				Index:   i,
				Seed:    r.Options.Seed,
				History: h,
			}
			slog.Debug("trial done",
				slog.String("run", runID),
				slog.Int("trial", i),
				slog.Float64("value", h.Last().TotalValue),
			)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	slog.Info("backtest complete",
		slog.String("run", runID),
		slog.String("strategy", string(r.Strategy)),
		slog.String("model", string(r.Model.Kind)),
		slog.Int("trials", n),
		slog.Duration("elapsed", time.Since(start)),
	)

	return &Ensemble{
		RunID:    runID,
		Strategy: r.Strategy,
		Model:    r.Model,
		Trials:   trials,
	}, nil
}

func (r *Runner) trial(i int) (journal.History, error) {
	rng := rand.New(rand.NewPCG(r.Options.Seed, uint64(i)))
	s, err := strategies.New(r.Strategy, *r.Params, r.Model, rng)
	if err != nil {
		return nil, err
	}
	return s.Simulate(), nil
}
