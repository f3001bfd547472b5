// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package catalog assembles the conversion registry from every format
// family.
package catalog

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/pdiddy/convertkit/internal/container"
	"github.com/pdiddy/convertkit/internal/convert"
	"github.com/pdiddy/convertkit/internal/transform/document"
	"github.com/pdiddy/convertkit/internal/transform/markitdown"
	"github.com/pdiddy/convertkit/internal/transform/markup"
	"github.com/pdiddy/convertkit/internal/transform/media"
	"github.com/pdiddy/convertkit/internal/transform/numeric"
	"github.com/pdiddy/convertkit/internal/transform/structured"
	"github.com/pdiddy/convertkit/pkg/types"
)

// Detector finds a container runtime.
type Detector func(ctx context.Context) (container.Runtime, error)

// Build registers the built-in transforms. When cfg enables markitdown
// and a runtime with the image is present, the container transforms are
// added as well; their absence is logged, not returned.
func Build(ctx context.Context, cfg types.Config, logger *slog.Logger) (*convert.Registry, error) {
	return build(ctx, cfg, logger, container.DetectRuntime)
}

func build(ctx context.Context, cfg types.Config, logger *slog.Logger, detect Detector) (*convert.Registry, error) {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	b := convert.NewBuilder()
	families := [][]convert.Transform{
		markup.Transforms(),
		structured.Transforms(),
		numeric.Transforms(),
		media.Transforms(media.Options{JPEGQuality: cfg.Media.JPEGQuality}),
		document.Transforms(),
	}
	for _, ts := range families {
		if err := b.Add(ts...); err != nil {
			return nil, fmt.Errorf("registering transforms: %w", err)
		}
	}

	if cfg.Markitdown.Enabled {
		ts, err := containerTransforms(ctx, cfg.Markitdown, detect)
		if err != nil {
			logger.Warn("markitdown transforms unavailable", "error", err)
		} else if err := b.Add(ts...); err != nil {
			return nil, fmt.Errorf("registering markitdown transforms: %w", err)
		}
	}

	reg := b.Build()
	logger.Debug("registry built", "pairs", reg.Len())
	return reg, nil
}

func containerTransforms(ctx context.Context, cfg types.MarkitdownConfig, detect Detector) ([]convert.Transform, error) {
	rt, err := detect(ctx)
	if err != nil {
		return nil, err
	}
	return markitdown.Transforms(ctx, rt, cfg.Image)
}
