// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"log/slog"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/convertkit/internal/catalog"
	"github.com/pdiddy/convertkit/internal/convert"
	"github.com/pdiddy/convertkit/pkg/types"
)

// session holds what every conversion command needs.
type session struct {
	cfg    types.Config
	logger *slog.Logger
	driver *convert.Driver
}

// newSession loads the configuration, applies batch flag overrides and
// builds the registry and driver.
func newSession(cmd *cobra.Command) (*session, error) {
	cfg, err := loadConfig(viper.GetViper())
	if err != nil {
		return nil, err
	}
	if cmd.Flags().Lookup("workers") != nil && cmd.Flags().Changed("workers") {
		cfg.Batch.Workers, _ = cmd.Flags().GetInt("workers")
	}
	if cmd.Flags().Lookup("collision") != nil && cmd.Flags().Changed("collision") {
		cfg.Batch.Collision, _ = cmd.Flags().GetString("collision")
	}

	policy, err := convert.ParseCollisionPolicy(cfg.Batch.Collision)
	if err != nil {
		return nil, err
	}

	logger := newLogger(cmd)
	reg, err := catalog.Build(cmd.Context(), cfg, logger)
	if err != nil {
		return nil, err
	}

	d := convert.NewDriver(reg,
		convert.WithWorkers(cfg.Batch.Workers),
		convert.WithCollisionPolicy(policy),
		convert.WithLogger(logger),
	)
	return &session{cfg: cfg, logger: logger, driver: d}, nil
}

func addBatchFlags(cmd *cobra.Command) {
	cmd.Flags().String("from", "", "source format tag, e.g. csv or .csv (required)")
	cmd.Flags().String("to", "", "destination format tag (required)")
	cmd.Flags().Int("workers", 0, "concurrent conversions (default: batch.workers or number of CPUs)")
	cmd.Flags().String("collision", "", "existing destination policy: overwrite, skip, or suffix")
	_ = cmd.MarkFlagRequired("from")
	_ = cmd.MarkFlagRequired("to")
}
