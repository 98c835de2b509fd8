package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rustyeddy/investsim/config"
)

func newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Generate or validate plan files",
		Long: `Manage plan files.

Examples:
  investsim config init -o plan.yaml
  investsim config validate -f plan.yaml`,
	}

	var output string
	initCmd := &cobra.Command{
		Use:   "init",
		Short: "Write a default plan file",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := config.Default().SaveToFile(output); err != nil {
				return fmt.Errorf("save config: %w", err)
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Created default plan: %s\n", output)
			fmt.Fprintf(out, "\nEdit the file and run with:\n  investsim simulate -f %s\n", output)
			return nil
		},
	}
	initCmd.Flags().StringVarP(&output, "output", "o", "plan.yaml", "output file (.yaml or .json)")

	var path string
	validateCmd := &cobra.Command{
		Use:   "validate",
		Short: "Validate a plan file",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadFromFile(path)
			if err != nil {
				return fmt.Errorf("validation failed: %w", err)
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Plan valid: %s\n", path)
			fmt.Fprintf(out, "  Strategy: %s\n", cfg.Strategy)
			fmt.Fprintf(out, "  Model:    %s (%.2f%%/yr)\n", cfg.Model.Kind, cfg.Model.YearlyRate)
			fmt.Fprintf(out, "  Phases:   %d years saving, %d years total\n", cfg.Plan.AccumulationYears, cfg.Plan.DurationYears)
			return nil
		},
	}
	validateCmd.Flags().StringVarP(&path, "file", "f", "", "plan file (required)")
	_ = validateCmd.MarkFlagRequired("file")

	cmd.AddCommand(initCmd, validateCmd)
	return cmd
}
