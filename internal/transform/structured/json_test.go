// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package structured

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/convertkit/internal/convert"
)

func encode(t *testing.T, c Codec, n *Node) string {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, c.Encode(&buf, n))
	return buf.String()
}

func TestDecodeJSON_KeepsOrderAndLexemes(t *testing.T) {
	n, err := DecodeJSON([]byte(`{"z": 1.50, "a": [true, null, "x"], "m": {"k": -0e3}}`))
	require.NoError(t, err)

	assert.Equal(t, []string{"z", "a", "m"}, n.Keys())
	z, _ := n.Get("z")
	assert.Equal(t, NumberNode("1.50"), z)
	a, _ := n.Get("a")
	assert.True(t, a.Equal(SeqNode(BoolNode(true), NullNode(), StringNode("x"))))
}

func TestDecodeJSON_Errors(t *testing.T) {
	for _, in := range []string{"", "   ", "{", `{"a":1} extra`, `[1,]`} {
		_, err := DecodeJSON([]byte(in))
		require.Error(t, err, "input %q", in)
		assert.ErrorIs(t, err, convert.ErrFormat)
	}
}

func TestJSON_PrettyLayout(t *testing.T) {
	n := MapNode(
		Field{Key: "name", Value: StringNode("<b>")},
		Field{Key: "tags", Value: SeqNode(NumberNode("1"), NumberNode("2"))},
		Field{Key: "empty", Value: MapNode()},
		Field{Key: "none", Value: SeqNode()},
	)
	want := "{\n" +
		"  \"name\": \"<b>\",\n" +
		"  \"tags\": [\n" +
		"    1,\n" +
		"    2\n" +
		"  ],\n" +
		"  \"empty\": {},\n" +
		"  \"none\": []\n" +
		"}\n"
	assert.Equal(t, want, encode(t, jsonCodec{tag: ".json"}, n))
}

func TestJSON_CompactIsSingleLine(t *testing.T) {
	n, err := DecodeJSON([]byte("{\n  \"a\": [1, 2],\n  \"b\": \"c d\"\n}"))
	require.NoError(t, err)
	assert.Equal(t, `{"a":[1,2],"b":"c d"}`, encode(t, jsonCodec{tag: ".toon", compact: true}, n))
}

func TestJSON_MinifiedRoundTrip(t *testing.T) {
	docs := []string{
		`{"objects": {"nested": {"deep": [1, 2.5, -3e10]}}, "s": "ünïcode \"quoted\" \\ / \u0001", "b": false, "n": null}`,
		`[[], {}, [[]], "", 0, -0.0, 1E+2]`,
		`"just a string"`,
		`42`,
		`null`,
		`[{"a": 1, "a2": {"b": [true, false, null]}}]`,
	}
	pretty := jsonCodec{tag: ".json"}
	compact := jsonCodec{tag: ".toon", compact: true}

	for _, doc := range docs {
		orig, err := DecodeJSON([]byte(doc))
		require.NoError(t, err, doc)

		minified := encode(t, compact, orig)
		assert.NotContains(t, minified, "\n")
		back, err := compact.Decode([]byte(minified))
		require.NoError(t, err)

		prettyOut := encode(t, pretty, back)
		final, err := DecodeJSON([]byte(prettyOut))
		require.NoError(t, err)

		assert.True(t, orig.Equal(final), "round trip changed %s into %s", doc, prettyOut)
	}
}

func TestJSON_RejectsNonJSONNumbers(t *testing.T) {
	var buf bytes.Buffer
	err := jsonCodec{tag: ".json"}.Encode(&buf, NumberNode("+Inf"))
	assert.ErrorIs(t, err, convert.ErrShape)
}
