// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package markitdown converts PDF and DOCX files to Markdown by piping
// them through the markitdown container image.
package markitdown

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/pdiddy/convertkit/internal/container"
	"github.com/pdiddy/convertkit/internal/convert"
	"github.com/pdiddy/convertkit/pkg/types"
)

// DefaultImage is the image used when none is configured.
const DefaultImage = "markitdown:latest"

var sources = []types.FormatTag{".pdf", ".docx"}

// Transform converts one source format to Markdown through a container.
type Transform struct {
	key     types.ConversionKey
	runtime container.Runtime
	image   string
}

// Transforms verifies that image exists in rt and returns the pdf->md and
// docx->md transforms bound to it.
func Transforms(ctx context.Context, rt container.Runtime, image string) ([]convert.Transform, error) {
	if image == "" {
		image = DefaultImage
	}
	if err := rt.ImageExists(ctx, image); err != nil {
		return nil, fmt.Errorf("markitdown image not available in %s: %w", rt.Name(), err)
	}
	out := make([]convert.Transform, 0, len(sources))
	for _, from := range sources {
		out = append(out, &Transform{
			key:     types.ConversionKey{From: from, To: ".md"},
			runtime: rt,
			image:   image,
		})
	}
	return out, nil
}

func (t *Transform) Key() types.ConversionKey { return t.key }

func (t *Transform) Family() types.Family { return types.FamilyDocument }

// Convert streams src into the container and publishes its stdout, even
// when the container prints nothing.
func (t *Transform) Convert(ctx context.Context, src, dst string) error {
	f, err := os.Open(src)
	if err != nil {
		return convert.Wrap(convert.KindIO, src, fmt.Errorf("opening source: %w", err))
	}
	defer f.Close()

	return convert.WriteAtomic(dst, func(w io.Writer) error {
		if err := t.runtime.Run(ctx, t.image, f, w); err != nil {
			return convert.Wrap(convert.KindFormat, src, fmt.Errorf("converting with markitdown: %w", err))
		}
		return nil
	})
}
