// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package structured

import (
	"context"
	"io"

	"github.com/pdiddy/convertkit/internal/convert"
	"github.com/pdiddy/convertkit/pkg/types"
)

// Codec reads and writes one structured format.
type Codec interface {
	Tag() types.FormatTag
	Decode(data []byte) (*Node, error)
	Encode(w io.Writer, n *Node) error
}

var codecs = map[types.FormatTag]Codec{
	".json": jsonCodec{tag: ".json"},
	".toon": jsonCodec{tag: ".toon", compact: true},
	".yaml": yamlCodec{tag: ".yaml"},
	".yml":  yamlCodec{tag: ".yml"},
	".xml":  xmlCodec{},
	".csv":  csvCodec{},
	".toml": tomlCodec{},
}

// CodecFor returns the codec for tag.
func CodecFor(tag types.FormatTag) (Codec, bool) {
	c, ok := codecs[tag]
	return c, ok
}

// pairs lists the registered directions.
var pairs = []types.ConversionKey{
	{From: ".json", To: ".yaml"},
	{From: ".json", To: ".yml"},
	{From: ".json", To: ".xml"},
	{From: ".json", To: ".csv"},
	{From: ".json", To: ".toon"},
	{From: ".json", To: ".toml"},

	{From: ".toon", To: ".json"},

	{From: ".yaml", To: ".json"},
	{From: ".yaml", To: ".xml"},
	{From: ".yaml", To: ".csv"},
	{From: ".yaml", To: ".toml"},
	{From: ".yml", To: ".json"},
	{From: ".yml", To: ".xml"},
	{From: ".yml", To: ".csv"},

	{From: ".xml", To: ".json"},
	{From: ".xml", To: ".yaml"},
	{From: ".xml", To: ".yml"},
	{From: ".xml", To: ".csv"},

	{From: ".csv", To: ".json"},
	{From: ".csv", To: ".yaml"},
	{From: ".csv", To: ".yml"},
	{From: ".csv", To: ".xml"},

	{From: ".toml", To: ".json"},
	{From: ".toml", To: ".yaml"},
}

// Transform decodes a source with one codec and encodes it with another.
type Transform struct {
	from Codec
	to   Codec
}

// New returns the transform between two structured tags.
func New(from, to types.FormatTag) (*Transform, error) {
	src, ok := CodecFor(from)
	if !ok {
		return nil, convert.Errorf(convert.KindNotSupported, "no structured codec for %s", from)
	}
	dst, ok := CodecFor(to)
	if !ok {
		return nil, convert.Errorf(convert.KindNotSupported, "no structured codec for %s", to)
	}
	return &Transform{from: src, to: dst}, nil
}

// Transforms returns every structured transform.
func Transforms() []convert.Transform {
	out := make([]convert.Transform, 0, len(pairs))
	for _, k := range pairs {
		t, err := New(k.From, k.To)
		if err != nil {
			panic(err)
		}
		out = append(out, t)
	}
	return out
}

func (t *Transform) Key() types.ConversionKey {
	return types.ConversionKey{From: t.from.Tag(), To: t.to.Tag()}
}

func (t *Transform) Family() types.Family { return types.FamilyStructured }

func (t *Transform) Convert(_ context.Context, src, dst string) error {
	data, err := convert.ReadSource(src)
	if err != nil {
		return err
	}
	root, err := t.from.Decode(data)
	if err != nil {
		return convert.Wrap(convert.KindFormat, src, err)
	}
	return convert.WriteAtomic(dst, func(w io.Writer) error {
		if err := t.to.Encode(w, root); err != nil {
			return convert.Wrap(convert.KindIO, src, err)
		}
		return nil
	})
}
