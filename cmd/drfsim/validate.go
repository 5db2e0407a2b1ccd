package main

import (
	"fmt"

	"github.com/cuemby/drfsim/pkg/config"
	"github.com/spf13/cobra"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate a cluster configuration without running it",
	Long: `Load and validate a cluster configuration YAML file, reporting
dimension mismatches and out-of-range tuning or schedule values, without
constructing or running the engine.

Examples:
  # Validate a config file
  drfsim validate --config cluster.yaml`,
	RunE: runValidate,
}

func init() {
	validateCmd.Flags().StringP("config", "c", "", "Cluster configuration YAML file (required)")
	_ = validateCmd.MarkFlagRequired("config")
}

func runValidate(cmd *cobra.Command, args []string) error {
	path, _ := cmd.Flags().GetString("config")

	if _, err := config.Load(path); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	return nil
}
