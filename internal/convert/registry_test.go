// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package convert

import (
	"context"
	"io"
	"os"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/convertkit/pkg/types"
)

// fakeTransform upper-cases its source. Sources whose content starts with
// "bad" fail with a format error.
type fakeTransform struct {
	key types.ConversionKey

	mu    sync.Mutex
	calls []string
}

func newFake(from, to types.FormatTag) *fakeTransform {
	return &fakeTransform{key: types.ConversionKey{From: from, To: to}}
}

func (f *fakeTransform) Key() types.ConversionKey { return f.key }

func (f *fakeTransform) Family() types.Family { return types.FamilyStructured }

func (f *fakeTransform) Convert(_ context.Context, src, dst string) error {
	f.mu.Lock()
	f.calls = append(f.calls, src)
	f.mu.Unlock()

	data, err := os.ReadFile(src)
	if err != nil {
		return Wrap(KindIO, src, err)
	}
	if strings.HasPrefix(string(data), "bad") {
		return &Error{Kind: KindFormat, Path: src, Message: "cannot parse"}
	}
	return WriteAtomic(dst, func(w io.Writer) error {
		_, err := io.WriteString(w, strings.ToUpper(string(data)))
		return err
	})
}

func (f *fakeTransform) Calls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.calls...)
}

func key(from, to types.FormatTag) types.ConversionKey {
	return types.ConversionKey{From: from, To: to}
}

func TestRegistry_LookupIsDirectional(t *testing.T) {
	b := NewBuilder()
	fwd := newFake(".csv", ".json")
	require.NoError(t, b.Register(key(".csv", ".json"), fwd))
	reg := b.Build()

	got, err := reg.Lookup(key(".csv", ".json"))
	require.NoError(t, err)
	assert.Same(t, fwd, got)

	_, err = reg.Lookup(key(".json", ".csv"))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNotSupported)
}

func TestRegistry_BothDirectionsIndependent(t *testing.T) {
	b := NewBuilder()
	require.NoError(t, b.Add(newFake(".csv", ".json"), newFake(".json", ".csv")))
	reg := b.Build()

	assert.Equal(t, 2, reg.Len())
	a, _ := reg.Lookup(key(".csv", ".json"))
	c, _ := reg.Lookup(key(".json", ".csv"))
	assert.NotSame(t, a, c)
}

func TestBuilder_DuplicateIsConflict(t *testing.T) {
	b := NewBuilder()
	first := newFake(".md", ".html")
	require.NoError(t, b.Register(key(".md", ".html"), first))

	err := b.Register(key(".md", ".html"), newFake(".md", ".html"))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrConflict)

	reg := b.Build()
	got, err := reg.Lookup(key(".md", ".html"))
	require.NoError(t, err)
	assert.Same(t, first, got, "first registration wins, second is rejected")
}

func TestBuilder_NormalizesRegistrationKey(t *testing.T) {
	b := NewBuilder()
	require.NoError(t, b.Register(key("CSV", " json "), newFake(".csv", ".json")))
	reg := b.Build()

	_, err := reg.Lookup(key(".csv", ".json"))
	assert.NoError(t, err)
}

func TestBuilder_DeclaredKeyMismatch(t *testing.T) {
	b := NewBuilder()
	err := b.Register(key(".csv", ".json"), newFake(".csv", ".yaml"))
	require.Error(t, err)
	assert.True(t, IsKind(err, KindConflict))
}

func TestBuilder_RejectsNilAndReuse(t *testing.T) {
	b := NewBuilder()
	assert.Error(t, b.Register(key(".a", ".b"), nil))
	b.Build()
	assert.Error(t, b.Register(key(".a", ".b"), newFake(".a", ".b")))
}

func TestRegistry_ListTargets(t *testing.T) {
	b := NewBuilder()
	require.NoError(t, b.Add(
		newFake(".json", ".yaml"),
		newFake(".json", ".csv"),
		newFake(".json", ".xml"),
		newFake(".yaml", ".json"),
	))
	reg := b.Build()

	assert.Equal(t, []types.FormatTag{".csv", ".xml", ".yaml"}, reg.ListTargets(".json"))
	assert.Equal(t, []types.FormatTag{".json"}, reg.ListTargets(".yaml"))
	assert.Empty(t, reg.ListTargets(".png"))
	assert.Equal(t, []types.FormatTag{".json", ".yaml"}, reg.Sources())

	keys := reg.Keys()
	require.Len(t, keys, 4)
	assert.Equal(t, key(".json", ".csv"), keys[0])
	assert.Equal(t, key(".yaml", ".json"), keys[3])
}

func TestRegistry_ConcurrentLookups(t *testing.T) {
	b := NewBuilder()
	require.NoError(t, b.Add(newFake(".csv", ".json")))
	reg := b.Build()

	var wg sync.WaitGroup
	for i := 0; i < 32; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := reg.Lookup(key(".csv", ".json"))
			assert.NoError(t, err)
			_ = reg.ListTargets(".csv")
		}()
	}
	wg.Wait()
}
