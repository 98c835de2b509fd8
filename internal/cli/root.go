// Package cli is the investsim command tree.
package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/rustyeddy/investsim/config"
)

const version = "0.3.0"

// rootConfig holds persistent flags merged with the environment.
type rootConfig struct {
	LogLevel string
	Cache    string
	DBPath   string
	Workers  int

	env *config.Env
}

func NewRootCmd() *cobra.Command {
	rc := &rootConfig{}

	cmd := &cobra.Command{
		Use:   "investsim",
		Short: "Project savings and withdrawal plans under deterministic or random markets",
		Long: `investsim simulates a long running investment plan month by month:
contributions during accumulation, withdrawals during decumulation, FIFO lot
accounting with capital gains tax, and an interest bearing cash reserve.

Stochastic markets run many trials that are reduced to an average, the
median, or any percentile.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	pf := cmd.PersistentFlags()
	pf.StringVar(&rc.LogLevel, "log-level", "info", "Log level: debug|info|warn|error")
	pf.StringVar(&rc.Cache, "cache", "none", "Result cache: none|memory|sqlite|redis")
	pf.StringVar(&rc.DBPath, "db", "investsim-cache.db", "SQLite cache database")
	pf.IntVar(&rc.Workers, "workers", 0, "Parallel trials (0 = one per CPU)")

	cmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		env, err := config.LoadEnv()
		if err != nil {
			return err
		}
		rc.env = env

		flags := cmd.Flags()
		if !flags.Changed("log-level") {
			rc.LogLevel = env.LogLevel
		}
		if !flags.Changed("cache") {
			rc.Cache = env.Cache.Kind
		}
		if !flags.Changed("db") {
			rc.DBPath = env.Cache.SQLitePath
		}
		if !flags.Changed("workers") {
			rc.Workers = env.Workers
		}

		setupLogger(cmd.ErrOrStderr(), rc.LogLevel)
		return nil
	}

	cmd.AddCommand(
		newSimulateCmd(rc),
		newConfigCmd(),
		&cobra.Command{
			Use:   "version",
			Short: "Print the version number",
			Run: func(cmd *cobra.Command, args []string) {
				fmt.Fprintf(cmd.OutOrStdout(), "investsim version %s\n", version)
			},
		},
	)

	return cmd
}

func setupLogger(w io.Writer, level string) {
	log := slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: config.ParseLevel(level)}))
	slog.SetDefault(log)
}

// Execute runs the root command until it finishes or the process is
// interrupted.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := NewRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
