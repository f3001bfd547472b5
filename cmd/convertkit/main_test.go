// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/convertkit/internal/journal"
)

func newTestViper() *viper.Viper {
	v := viper.New()
	setDefaults(v)
	v.SetEnvPrefix("CONVERTKIT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

func TestLoadConfig_Defaults(t *testing.T) {
	cfg, err := loadConfig(newTestViper())
	require.NoError(t, err)
	assert.Equal(t, 0, cfg.Batch.Workers)
	assert.Equal(t, "overwrite", cfg.Batch.Collision)
	assert.Equal(t, 90, cfg.Media.JPEGQuality)
	assert.Equal(t, "", cfg.Journal.Path)
	assert.False(t, cfg.Markitdown.Enabled)
	assert.Equal(t, "markitdown:latest", cfg.Markitdown.Image)
}

func TestLoadConfig_EnvOverrides(t *testing.T) {
	t.Setenv("CONVERTKIT_BATCH_WORKERS", "3")
	t.Setenv("CONVERTKIT_BATCH_COLLISION", "suffix")
	t.Setenv("CONVERTKIT_MEDIA_JPEG_QUALITY", "70")

	cfg, err := loadConfig(newTestViper())
	require.NoError(t, err)
	assert.Equal(t, 3, cfg.Batch.Workers)
	assert.Equal(t, "suffix", cfg.Batch.Collision)
	assert.Equal(t, 70, cfg.Media.JPEGQuality)
}

func TestLoadConfig_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "convertkit.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`batch:
  workers: 2
  collision: skip
journal:
  path: /tmp/journal.db
markitdown:
  enabled: true
`), 0o644))

	v := newTestViper()
	v.SetConfigFile(path)
	require.NoError(t, v.ReadInConfig())

	cfg, err := loadConfig(v)
	require.NoError(t, err)
	assert.Equal(t, 2, cfg.Batch.Workers)
	assert.Equal(t, "skip", cfg.Batch.Collision)
	assert.Equal(t, "/tmp/journal.db", cfg.Journal.Path)
	assert.True(t, cfg.Markitdown.Enabled)
	assert.Equal(t, 90, cfg.Media.JPEGQuality)
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	t.Cleanup(func() { rootCmd.SetArgs(nil) })
	err := rootCmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestConvertCommand(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, "people.csv"), []byte("name,age\nada,36\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(root, "broken.csv"), []byte("a,b\n\"unterminated,2\n"), 0o644))

	out, err := execute(t, "convert", root, "--from", "csv", "--to", "json")

	var ee *exitError
	require.True(t, errors.As(err, &ee), "one failed file gives a non-zero exit")
	assert.Equal(t, 1, ee.code)
	assert.Contains(t, out, "converted: people.csv -> people.json")
	assert.Contains(t, out, "failed:  broken.csv (format:")
	assert.Contains(t, out, "Batch summary: 1 converted, 0 skipped, 1 failed (total: 2)")

	got, err := os.ReadFile(filepath.Join(root, "people.json"))
	require.NoError(t, err)
	assert.JSONEq(t, `[["name", "age"], ["ada", "36"]]`, string(got))
}

func TestFormatsCommand(t *testing.T) {
	out, err := execute(t, "formats", "CSV")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, ".csv ->"))
	assert.Contains(t, out, ".npy")
}

func TestVersionCommand(t *testing.T) {
	out, err := execute(t, "version")
	require.NoError(t, err)
	assert.Equal(t, "convertkit dev\n", out)
}

func TestHistoryCommand(t *testing.T) {
	t.Setenv("CONVERTKIT_JOURNAL_PATH", filepath.Join(t.TempDir(), "journal.db"))

	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, "a.json"), []byte(`{"k": 1}`), 0o644))
	_, err := execute(t, "convert", root, "--from", "json", "--to", "toon")
	require.NoError(t, err)

	out, err := execute(t, "history", "--json")
	require.NoError(t, err)
	assert.Contains(t, out, `"from": ".json"`)
	assert.Contains(t, out, `"to": ".toon"`)
	assert.Contains(t, out, `"converted": 1`)
}

func TestHistoryCommand_RunOutcomes(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "journal.db")
	t.Setenv("CONVERTKIT_JOURNAL_PATH", dbPath)

	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, "a.json"), []byte(`{"k": 1}`), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(root, "b.json"), []byte(`{"k": `), 0o644))
	_, err := execute(t, "convert", root, "--from", "json", "--to", "yaml")
	require.Error(t, err)

	store, err := journal.Open(dbPath)
	require.NoError(t, err)
	runs, err := store.Recent(context.Background(), 1)
	require.NoError(t, store.Close())
	require.NoError(t, err)
	require.Len(t, runs, 1)

	out, err := execute(t, "history", runs[0].ID, "--json=false", "--format", "table")
	require.NoError(t, err)
	assert.Contains(t, out, "converted:")
	assert.Contains(t, out, filepath.Join(root, "a.yaml"))
	assert.Contains(t, out, "failed:")
	assert.Contains(t, out, "b.json (format:")

	out, err = execute(t, "history", runs[0].ID, "--format", "json")
	require.NoError(t, err)
	assert.Contains(t, out, `"status": "failed"`)

	_, err = execute(t, "history", "no-such-run", "--format", "table")
	assert.ErrorContains(t, err, "no outcomes recorded")
}

func TestConvertCommand_FileReportsSkip(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "doc.json")
	require.NoError(t, os.WriteFile(src, []byte(`{"k": 1}`), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "doc.yaml"), []byte("old: true\n"), 0o644))

	out, err := execute(t, "convert", "--file", src, "--from", "json", "--to", "yaml", "--collision", "skip")
	require.NoError(t, err)
	assert.Contains(t, out, "skipped:")
	assert.NotContains(t, out, "converted:")

	old, err := os.ReadFile(filepath.Join(dir, "doc.yaml"))
	require.NoError(t, err)
	assert.Equal(t, "old: true\n", string(old))
}
