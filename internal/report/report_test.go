// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package report

import (
	"bytes"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/pdiddy/convertkit/internal/convert"
	"github.com/pdiddy/convertkit/pkg/types"
)

func TestBatch(t *testing.T) {
	root := filepath.Join("data", "in")
	res := types.BatchResult{
		Root: root,
		Outcomes: []types.Outcome{
			{Source: filepath.Join(root, "a.json"), Dest: filepath.Join(root, "a.yaml"), Status: types.OutcomeConverted},
			{Source: filepath.Join(root, "b.json"), Status: types.OutcomeFailed, ErrorKind: "format", Message: "unexpected EOF"},
			{Source: filepath.Join(root, "c.json"), Dest: filepath.Join(root, "c.yaml"), Status: types.OutcomeSkipped},
		},
	}

	var buf bytes.Buffer
	New(&buf).Batch(res, 1500*time.Millisecond)

	want := "converted: a.json -> a.yaml\n" +
		"failed:  b.json (format: unexpected EOF)\n" +
		"skipped: c.json (already exists)\n" +
		"\nBatch summary: 1 converted, 1 skipped, 1 failed (total: 3) in 1.5s\n"
	assert.Equal(t, want, buf.String())
}

func TestError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{
			name: "typed",
			err:  convert.Errorf(convert.KindShape, "top-level value must be a sequence"),
			want: "failed:  x.yaml (shape: incompatible shape: top-level value must be a sequence)\n",
		},
		{
			name: "untyped",
			err:  errors.New("boom"),
			want: "failed:  x.yaml (error: boom)\n",
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			var buf bytes.Buffer
			New(&buf).Error("x.yaml", tc.err)
			assert.Equal(t, tc.want, buf.String())
		})
	}
}

func TestTargets(t *testing.T) {
	var buf bytes.Buffer
	p := New(&buf)
	p.Targets(".csv", []types.FormatTag{".json", ".npy"})
	p.Targets(".webp", nil)
	assert.Equal(t, ".csv -> .json .npy\n.webp -> (none)\n", buf.String())
}

func TestNew_BufferIsPlain(t *testing.T) {
	var buf bytes.Buffer
	p := New(&buf)
	p.Outcome(types.Outcome{Source: "a", Dest: "b", Status: types.OutcomeConverted})
	assert.NotContains(t, buf.String(), "\x1b[")
}
