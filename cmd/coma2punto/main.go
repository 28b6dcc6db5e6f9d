// Command coma2punto bundles the QA file utilities of the physics
// department: profiler export conversion, RT plan tolerance edits and the
// private annex for approved plans.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/fquilmes/coma2punto/internal/config"
	"github.com/fquilmes/coma2punto/internal/logging"
)

var (
	cfgPath string

	// Set by the root command before any subcommand runs.
	cfg    *config.Config
	logger *logging.Logger
)

var rootCmd = &cobra.Command{
	Use:   "coma2punto",
	Short: "QA file utilities for radiotherapy physics",
	Long: `coma2punto converts profiler exports (decimal comma to decimal point),
edits the tolerance tables of RT plans and appends the private annex to
approved plans.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		return setup(cmd)
	},
	PersistentPostRun: func(_ *cobra.Command, _ []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgPath, "config", "", "path to a YAML configuration file")
}

// setup loads the configuration and creates the run logger.
func setup(cmd *cobra.Command) error {
	var err error
	if cfgPath == "" {
		cfg = config.Default()
	} else if cfg, err = config.Load(cfgPath); err != nil {
		return fmt.Errorf("config load failed: %w", err)
	}
	if err := config.Validate(cfg); err != nil {
		return fmt.Errorf("config validation failed: %w", err)
	}

	base, err := logging.NewLogger(cfg.Logging)
	if err != nil {
		return fmt.Errorf("logger: %w", err)
	}
	logger, _ = base.WithRunID()
	logger = logger.WithField("command", cmd.CommandPath())
	logger.Debug("Command started", zap.String("config", cfgPath), zap.String("version", version))
	return nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
