// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package structured

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/convertkit/internal/convert"
)

func TestDecodeYAML_Scalars(t *testing.T) {
	n, err := DecodeYAML([]byte(`
hex: 0x1F
float: 1.0
exp: 2e3
yes_is_string: yes
bool: true
nothing: ~
quoted: "123"
date: 2024-01-02
`))
	require.NoError(t, err)

	want := MapNode(
		Field{Key: "hex", Value: NumberNode("31")},
		Field{Key: "float", Value: NumberNode("1.0")},
		Field{Key: "exp", Value: NumberNode("2000.0")},
		Field{Key: "yes_is_string", Value: StringNode("yes")},
		Field{Key: "bool", Value: BoolNode(true)},
		Field{Key: "nothing", Value: NullNode()},
		Field{Key: "quoted", Value: StringNode("123")},
		Field{Key: "date", Value: StringNode("2024-01-02")},
	)
	assert.True(t, want.Equal(n), "got %#v", n)
}

func TestDecodeYAML_EmptyIsNull(t *testing.T) {
	n, err := DecodeYAML(nil)
	require.NoError(t, err)
	assert.Equal(t, Null, n.Kind)
}

func TestDecodeYAML_Aliases(t *testing.T) {
	n, err := DecodeYAML([]byte("base: &b {x: 1}\ncopy: *b\n"))
	require.NoError(t, err)
	cp, ok := n.Get("copy")
	require.True(t, ok)
	x, _ := cp.Get("x")
	assert.Equal(t, "1", x.Text)
}

func TestDecodeYAML_AliasExpansionIsBounded(t *testing.T) {
	doc := `a: &a ["x","x","x","x","x","x","x","x","x","x"]
b: &b [*a,*a,*a,*a,*a,*a,*a,*a,*a,*a]
c: &c [*b,*b,*b,*b,*b,*b,*b,*b,*b,*b]
d: &d [*c,*c,*c,*c,*c,*c,*c,*c,*c,*c]
e: &e [*d,*d,*d,*d,*d,*d,*d,*d,*d,*d]
f: &f [*e,*e,*e,*e,*e,*e,*e,*e,*e,*e]
g: &g [*f,*f,*f,*f,*f,*f,*f,*f,*f,*f]
h: &h [*g,*g,*g,*g,*g,*g,*g,*g,*g,*g]
`
	_, err := DecodeYAML([]byte(doc))
	require.Error(t, err)
	assert.True(t, convert.IsKind(err, convert.KindFormat), "got %v", err)
	assert.Contains(t, err.Error(), "node limit")
}

func TestDecodeYAML_Malformed(t *testing.T) {
	_, err := DecodeYAML([]byte("a: [1, 2\nb: }"))
	assert.ErrorIs(t, err, convert.ErrFormat)
}

func TestYAML_EncodePreservesOrderAndQuotesAmbiguousStrings(t *testing.T) {
	n := MapNode(
		Field{Key: "zeta", Value: NumberNode("1")},
		Field{Key: "alpha", Value: StringNode("true")},
		Field{Key: "list", Value: SeqNode(StringNode("a"), NullNode())},
	)
	out := encode(t, yamlCodec{tag: ".yaml"}, n)
	assert.Equal(t, "zeta: 1\nalpha: \"true\"\nlist:\n  - a\n  - null\n", out)

	back, err := DecodeYAML([]byte(out))
	require.NoError(t, err)
	assert.True(t, n.Equal(back))
}

func TestYAML_JSONRoundTrip(t *testing.T) {
	orig, err := DecodeJSON([]byte(`{"a": [1, 2.5, "3"], "b": {"c": null, "d": false}, "e": ""}`))
	require.NoError(t, err)

	back, err := DecodeYAML([]byte(encode(t, yamlCodec{tag: ".yaml"}, orig)))
	require.NoError(t, err)
	assert.True(t, orig.Equal(back))
}
