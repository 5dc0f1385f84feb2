package main

import (
	"fmt"

	"forexradar/internal/config"
	"forexradar/internal/logger"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

type rootOptions struct {
	configPath string
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}
	cmd := &cobra.Command{
		Use:           "forexradar",
		Short:         "Forex trade dashboard with risk-based position sizing",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.PersistentFlags().StringVar(&opts.configPath, "config", "./configs", "directory containing config.yml")

	cmd.AddCommand(
		newServeCmd(opts),
		newCalcCmd(),
		newPingCmd(opts),
	)
	return cmd
}

// load reads the configuration and builds the logger from it.
func (o *rootOptions) load() (config.Config, *zap.Logger, error) {
	cfg, err := config.LoadConfig(o.configPath)
	if err != nil {
		return config.Config{}, nil, fmt.Errorf("could not load config: %w", err)
	}
	log, err := logger.NewLogger(cfg.Logger.Level, cfg.Logger.Format)
	if err != nil {
		return config.Config{}, nil, fmt.Errorf("could not create logger: %w", err)
	}
	return cfg, log, nil
}
