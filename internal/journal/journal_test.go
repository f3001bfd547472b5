// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package journal

import (
	"bytes"
	"context"
	"encoding/json"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/convertkit/pkg/types"
)

func testStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "state", "journal.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func sampleResult(root string) types.BatchResult {
	return types.BatchResult{
		Key:  types.ConversionKey{From: ".json", To: ".yaml"},
		Root: root,
		Outcomes: []types.Outcome{
			{Source: root + "/b.json", Dest: root + "/b.yaml", Status: types.OutcomeConverted},
			{Source: root + "/a.json", Status: types.OutcomeFailed, ErrorKind: "format", Message: "bad json"},
			{Source: root + "/c.json", Dest: root + "/c.yaml", Status: types.OutcomeSkipped},
		},
	}
}

func TestRecordAndRecent(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	first, err := s.Record(ctx, sampleResult("/data/one"), base, base.Add(time.Second))
	require.NoError(t, err)
	second, err := s.Record(ctx, sampleResult("/data/two"), base.Add(time.Hour), base.Add(time.Hour+time.Second))
	require.NoError(t, err)
	assert.NotEqual(t, first, second)

	runs, err := s.Recent(ctx, 0)
	require.NoError(t, err)
	require.Len(t, runs, 2)
	assert.Equal(t, second, runs[0].ID, "newest first")
	assert.Equal(t, "/data/two", runs[0].Root)
	assert.Equal(t, ".json", runs[0].From)
	assert.Equal(t, ".yaml", runs[0].To)
	assert.Equal(t, 1, runs[0].Converted)
	assert.Equal(t, 1, runs[0].Skipped)
	assert.Equal(t, 1, runs[0].Failed)
	assert.True(t, runs[1].StartedAt.Equal(base))

	limited, err := s.Recent(ctx, 1)
	require.NoError(t, err)
	assert.Len(t, limited, 1)
}

func TestOutcomes(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()
	now := time.Now()

	id, err := s.Record(ctx, sampleResult("/r"), now, now)
	require.NoError(t, err)

	outs, err := s.Outcomes(ctx, id)
	require.NoError(t, err)
	require.Len(t, outs, 3)
	assert.Equal(t, "/r/a.json", outs[0].Source)
	assert.Equal(t, types.OutcomeFailed, outs[0].Status)
	assert.Equal(t, "format", outs[0].ErrorKind)
	assert.Equal(t, "bad json", outs[0].Message)
	assert.Equal(t, "/r/b.yaml", outs[1].Dest)

	none, err := s.Outcomes(ctx, "missing")
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestOpen_Reopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "journal.db")
	s, err := Open(path)
	require.NoError(t, err)
	_, err = s.Record(context.Background(), sampleResult("/x"), time.Now(), time.Now())
	require.NoError(t, err)
	require.NoError(t, s.Close())

	again, err := Open(path)
	require.NoError(t, err)
	defer again.Close()
	runs, err := again.Recent(context.Background(), 10)
	require.NoError(t, err)
	assert.Len(t, runs, 1)
}

func TestWriters(t *testing.T) {
	runs := []Run{{ID: "r1", Root: "/x", From: ".csv", To: ".json", Converted: 2}}

	var jb bytes.Buffer
	require.NoError(t, WriteJSON(&jb, runs))
	var decoded []Run
	require.NoError(t, json.Unmarshal(jb.Bytes(), &decoded))
	assert.Equal(t, "r1", decoded[0].ID)

	var yb bytes.Buffer
	require.NoError(t, WriteYAML(&yb, runs))
	var fromYAML []map[string]any
	require.NoError(t, yaml.Unmarshal(yb.Bytes(), &fromYAML))
	assert.Equal(t, 2, fromYAML[0]["converted"])

	jb.Reset()
	require.NoError(t, WriteJSON[Run](&jb, nil))
	assert.Equal(t, "[]\n", jb.String())

	outcomes := []types.Outcome{{Source: "/x/a.csv", Dest: "/x/a.json", Status: types.OutcomeConverted}}
	jb.Reset()
	require.NoError(t, WriteJSON(&jb, outcomes))
	assert.JSONEq(t, `[{"source": "/x/a.csv", "dest": "/x/a.json", "status": "converted", "duration": 0}]`, jb.String())
}
