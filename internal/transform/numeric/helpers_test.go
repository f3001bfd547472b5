// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package numeric

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/pdiddy/convertkit/internal/transform/structured"
	"github.com/pdiddy/convertkit/pkg/types"
)

func mustCodec(t *testing.T, tag types.FormatTag) structured.Codec {
	t.Helper()
	c, ok := structured.CodecFor(tag)
	require.True(t, ok)
	return c
}
