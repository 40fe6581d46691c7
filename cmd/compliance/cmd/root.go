package cmd

import (
	"os"

	"github.com/spf13/cobra"
)

var (
	// rulesFile overrides COMPLIANCE_RULES_FILE.
	rulesFile string

	rootCmd = &cobra.Command{
		Use:   "compliance",
		Short: "Evaluate attendance compliance rules outside the HTTP service.",
		Long: `Runs the attendance compliance engine against the configured database.

Connection settings and engine tuning are read from .env and the environment,
the same way the API service reads them.`,
		SilenceUsage: true,
	}
)

// Execute runs the compliance CLI and exits with non-zero status on error.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

//nolint:gochecknoinits // Required by Cobra CLI framework architecture.
func init() {
	rootCmd.PersistentFlags().StringVar(&rulesFile, "rules", "", "path to a YAML rule thresholds file")
	rootCmd.AddCommand(newEvaluateCommand(), newRulesCommand())
}
