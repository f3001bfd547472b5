// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package convert routes (source, destination) format pairs to transforms
// and runs them over single files or whole directory trees.
//
// A Registry is built once at startup from a Builder and is read-only
// afterwards. A Driver resolves a transform from the registry and applies
// it to one file (ConvertOne) or to every matching file under a root
// (ConvertAll), isolating per-file failures in the latter case.
package convert

import (
	"context"

	"github.com/pdiddy/convertkit/pkg/types"
)

// Transform converts one file between the two formats of its key. Every
// implementation writes dst through WriteAtomic so a failed conversion
// never leaves a partial destination behind, and keeps no state between
// calls.
type Transform interface {
	// Key returns the conversion this transform performs.
	Key() types.ConversionKey

	// Family returns the format family whose contract the transform follows.
	Family() types.Family

	// Convert reads src and writes the converted result to dst.
	Convert(ctx context.Context, src, dst string) error
}

// Func adapts a plain conversion function to the Transform interface.
type Func struct {
	key    types.ConversionKey
	family types.Family
	fn     func(ctx context.Context, src, dst string) error
}

// NewFunc binds fn to the (from, to) pair. The tags are used as given;
// callers pass already normalized tags.
func NewFunc(from, to types.FormatTag, family types.Family, fn func(ctx context.Context, src, dst string) error) *Func {
	return &Func{
		key:    types.ConversionKey{From: from, To: to},
		family: family,
		fn:     fn,
	}
}

func (f *Func) Key() types.ConversionKey { return f.key }

func (f *Func) Family() types.Family { return f.family }

func (f *Func) Convert(ctx context.Context, src, dst string) error {
	return f.fn(ctx, src, dst)
}

// Job is one scheduled file conversion. Dest is the default destination;
// the driver's collision policy may pick another path when it exists.
type Job struct {
	Source string
	Dest   string
	Key    types.ConversionKey
}

// NewJob schedules src for conversion under key.
func NewJob(src string, key types.ConversionKey) Job {
	return Job{Source: src, Dest: DestPath(src, key.To), Key: key}
}
