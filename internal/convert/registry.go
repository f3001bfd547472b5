// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package convert

import (
	"errors"
	"slices"
	"strings"

	"github.com/pdiddy/convertkit/pkg/types"
)

// Builder collects transforms during startup. It is not safe for
// concurrent use and cannot be reused after Build.
type Builder struct {
	entries map[types.ConversionKey]Transform
	built   bool
}

// NewBuilder returns an empty registry builder.
func NewBuilder() *Builder {
	return &Builder{entries: make(map[types.ConversionKey]Transform)}
}

// Register binds t to key. It fails with KindConflict when key is already
// bound or when t declares a different key than the one it is registered
// under.
func (b *Builder) Register(key types.ConversionKey, t Transform) error {
	if b.built {
		return errors.New("registry builder already built")
	}
	if t == nil {
		return Errorf(KindConflict, "nil transform for %s", key)
	}
	nk, err := NormalizeKey(string(key.From), string(key.To))
	if err != nil {
		return err
	}
	if declared := t.Key(); declared != nk {
		return Errorf(KindConflict, "transform declares %s but is registered for %s", declared, nk)
	}
	if _, ok := b.entries[nk]; ok {
		return Errorf(KindConflict, "%s already registered", nk)
	}
	b.entries[nk] = t
	return nil
}

// Add registers each transform under its own declared key.
func (b *Builder) Add(ts ...Transform) error {
	for _, t := range ts {
		if t == nil {
			return Errorf(KindConflict, "nil transform")
		}
		if err := b.Register(t.Key(), t); err != nil {
			return err
		}
	}
	return nil
}

// Build freezes the collected transforms into a Registry.
func (b *Builder) Build() *Registry {
	b.built = true
	entries := b.entries
	b.entries = nil
	return &Registry{entries: entries}
}

// Registry maps conversion keys to transforms. It is immutable, so
// concurrent lookups need no synchronization.
type Registry struct {
	entries map[types.ConversionKey]Transform
}

// Lookup returns the transform bound to key, or a KindNotSupported error.
func (r *Registry) Lookup(key types.ConversionKey) (Transform, error) {
	if t, ok := r.entries[key]; ok {
		return t, nil
	}
	return nil, Errorf(KindNotSupported, "no transform for %s", key)
}

// ListTargets returns the sorted destination tags reachable from source.
func (r *Registry) ListTargets(source types.FormatTag) []types.FormatTag {
	var out []types.FormatTag
	for k := range r.entries {
		if k.From == source {
			out = append(out, k.To)
		}
	}
	slices.Sort(out)
	return out
}

// Sources returns the sorted set of tags that have at least one target.
func (r *Registry) Sources() []types.FormatTag {
	seen := make(map[types.FormatTag]bool)
	var out []types.FormatTag
	for k := range r.entries {
		if !seen[k.From] {
			seen[k.From] = true
			out = append(out, k.From)
		}
	}
	slices.Sort(out)
	return out
}

// Keys returns every registered key ordered by source then destination.
func (r *Registry) Keys() []types.ConversionKey {
	keys := make([]types.ConversionKey, 0, len(r.entries))
	for k := range r.entries {
		keys = append(keys, k)
	}
	slices.SortFunc(keys, func(a, b types.ConversionKey) int {
		if c := strings.Compare(string(a.From), string(b.From)); c != 0 {
			return c
		}
		return strings.Compare(string(a.To), string(b.To))
	})
	return keys
}

// Len returns the number of registered transforms.
func (r *Registry) Len() int { return len(r.entries) }
