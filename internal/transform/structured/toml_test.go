// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package structured

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/convertkit/internal/convert"
)

func TestTOML_DecodeSortsKeys(t *testing.T) {
	n, err := tomlCodec{}.Decode([]byte(`
title = "demo"
count = 3
ratio = 0.5

[server]
port = 8080
tags = ["a", "b"]
`))
	require.NoError(t, err)
	assert.Equal(t, []string{"count", "ratio", "server", "title"}, n.Keys())

	server, _ := n.Get("server")
	port, _ := server.Get("port")
	assert.Equal(t, NumberNode("8080"), port)
}

func TestTOML_RoundTripFromJSON(t *testing.T) {
	orig, err := DecodeJSON([]byte(`{"a": 1, "b": {"c": [1.5, 2.0], "d": "x"}, "e": true}`))
	require.NoError(t, err)

	out := encode(t, tomlCodec{}, orig)
	back, err := tomlCodec{}.Decode([]byte(out))
	require.NoError(t, err)
	assert.True(t, orig.Equal(back), "toml output:\n%s", out)
}

func TestTOML_ShapeErrors(t *testing.T) {
	for _, doc := range []string{`[1, 2]`, `{"a": null}`, `{"a": [1, null]}`} {
		n, err := DecodeJSON([]byte(doc))
		require.NoError(t, err)
		err = tomlCodec{}.Encode(discard{}, n)
		assert.ErrorIs(t, err, convert.ErrShape, doc)
	}
}

func TestTOML_Malformed(t *testing.T) {
	_, err := tomlCodec{}.Decode([]byte("a = = 1"))
	assert.ErrorIs(t, err, convert.ErrFormat)
}
