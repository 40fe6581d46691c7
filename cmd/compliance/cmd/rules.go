package cmd

import (
	"fmt"

	"github.com/cmlabs-hris/attendance-compliance/internal/service/compliance"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

func newRulesCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "rules",
		Short: "Print the effective rule thresholds as YAML.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			thresholds, err := compliance.LoadThresholds(rulesFile)
			if err != nil {
				return err
			}

			encoder := yaml.NewEncoder(cmd.OutOrStdout())
			encoder.SetIndent(2)
			if err := encoder.Encode(thresholds); err != nil {
				return fmt.Errorf("failed to encode thresholds: %w", err)
			}
			return encoder.Close()
		},
	}
}
