// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package media recodes raster images between PNG, JPEG and WebP. Pixel
// dimensions are preserved; alpha is dropped when the destination cannot
// store it.
package media

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/jpeg"
	"image/png"
	"io"

	"golang.org/x/image/webp"

	"github.com/pdiddy/convertkit/internal/convert"
	"github.com/pdiddy/convertkit/pkg/types"
)

// DefaultJPEGQuality is used when Options.JPEGQuality is unset.
const DefaultJPEGQuality = 90

// Options tunes encoding.
type Options struct {
	JPEGQuality int
}

type decoder func(io.Reader) (image.Image, error)

type encoder struct {
	alpha  bool
	encode func(w io.Writer, img image.Image) error
}

var decoders = map[types.FormatTag]decoder{
	".png":  png.Decode,
	".jpg":  jpeg.Decode,
	".jpeg": jpeg.Decode,
	".webp": webp.Decode,
}

var pairs = []types.ConversionKey{
	{From: ".png", To: ".jpg"},
	{From: ".png", To: ".jpeg"},
	{From: ".jpg", To: ".png"},
	{From: ".jpeg", To: ".png"},
	{From: ".webp", To: ".png"},
	{From: ".webp", To: ".jpg"},
	{From: ".webp", To: ".jpeg"},
}

// Transform recodes one source encoding into one destination encoding.
type Transform struct {
	key    types.ConversionKey
	decode decoder
	enc    encoder
}

// Transforms returns every image transform.
func Transforms(opts Options) []convert.Transform {
	quality := opts.JPEGQuality
	if quality <= 0 || quality > 100 {
		quality = DefaultJPEGQuality
	}
	encoders := map[types.FormatTag]encoder{
		".png": {alpha: true, encode: png.Encode},
		".jpg": {encode: jpegEncoder(quality)},
	}
	encoders[".jpeg"] = encoders[".jpg"]

	out := make([]convert.Transform, 0, len(pairs))
	for _, k := range pairs {
		out = append(out, &Transform{key: k, decode: decoders[k.From], enc: encoders[k.To]})
	}
	return out
}

func jpegEncoder(quality int) func(io.Writer, image.Image) error {
	return func(w io.Writer, img image.Image) error {
		return jpeg.Encode(w, img, &jpeg.Options{Quality: quality})
	}
}

func (t *Transform) Key() types.ConversionKey { return t.key }

func (t *Transform) Family() types.Family { return types.FamilyMedia }

func (t *Transform) Convert(_ context.Context, src, dst string) error {
	data, err := convert.ReadSource(src)
	if err != nil {
		return err
	}
	img, err := t.decode(bytes.NewReader(data))
	if err != nil {
		return &convert.Error{Kind: convert.KindFormat, Path: src, Message: "decoding " + t.key.From.Name(), Err: err}
	}

	out, err := coerce(img, t.enc.alpha)
	if err != nil {
		return convert.Wrap(convert.KindUnsupportedColorMode, src, err)
	}
	return convert.WriteAtomic(dst, func(w io.Writer) error {
		if err := t.enc.encode(w, out); err != nil {
			return convert.Wrap(convert.KindIO, dst, fmt.Errorf("encoding %s: %w", t.key.To.Name(), err))
		}
		return nil
	})
}

// coerce returns an image the destination can store. Alpha-only and
// unknown colour models are rejected. Without alpha support the colour
// channels are kept as they are and alpha is forced opaque.
func coerce(img image.Image, keepAlpha bool) (image.Image, error) {
	if !supportedModel(img.ColorModel()) {
		return nil, convert.Errorf(convert.KindUnsupportedColorMode, "colour model %s cannot be converted to RGB", modelName(img))
	}
	if keepAlpha || opaque(img) {
		return img, nil
	}
	return dropAlpha(img), nil
}

func supportedModel(m color.Model) bool {
	switch m {
	case color.RGBAModel, color.RGBA64Model, color.NRGBAModel, color.NRGBA64Model,
		color.GrayModel, color.Gray16Model, color.YCbCrModel, color.NYCbCrAModel, color.CMYKModel:
		return true
	}
	_, paletted := m.(color.Palette)
	return paletted
}

func modelName(img image.Image) string {
	switch img.ColorModel() {
	case color.AlphaModel:
		return "alpha"
	case color.Alpha16Model:
		return "alpha16"
	}
	return fmt.Sprintf("%T", img)
}

func opaque(img image.Image) bool {
	if o, ok := img.(interface{ Opaque() bool }); ok {
		return o.Opaque()
	}
	return false
}

// dropAlpha un-premultiplies every pixel and writes it back fully opaque.
func dropAlpha(img image.Image) *image.RGBA {
	b := img.Bounds()
	nrgba := image.NewNRGBA(b)
	draw.Draw(nrgba, b, img, b.Min, draw.Src)

	out := image.NewRGBA(b)
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			c := nrgba.NRGBAAt(x, y)
			out.SetRGBA(x, y, color.RGBA{R: c.R, G: c.G, B: c.B, A: 0xff})
		}
	}
	return out
}
