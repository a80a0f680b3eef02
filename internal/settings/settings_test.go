package settings

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "isctransform.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadDefaults(t *testing.T) {
	s, err := Load("", nil)
	require.NoError(t, err)

	want := Settings{
		Format:    "json",
		LogLevel:  "info",
		LogFormat: "text",
		Workers:   4,
		Debounce:  200 * time.Millisecond,
	}
	if diff := cmp.Diff(want, s); diff != "" {
		t.Errorf("Load() mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadFile(t *testing.T) {
	path := writeConfig(t, `
input:
  - transforms
  - extra/one.hcl
output_dir: out
format: yaml
workers: 8
debounce: 1s
metrics_file: build.prom
check: true
`)
	s, err := Load(path, nil)
	require.NoError(t, err)

	assert.Equal(t, []string{"transforms", "extra/one.hcl"}, s.Input)
	assert.Equal(t, "out", s.OutputDir)
	assert.Equal(t, "yaml", s.Format)
	assert.Equal(t, 8, s.Workers)
	assert.Equal(t, time.Second, s.Debounce)
	assert.Equal(t, "build.prom", s.MetricsFile)
	assert.True(t, s.Check)
	assert.Equal(t, "info", s.LogLevel, "unset keys keep their defaults")
}

func TestLoadSingleInputString(t *testing.T) {
	path := writeConfig(t, "input: transforms\n")
	s, err := Load(path, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"transforms"}, s.Input)
}

func TestLoadPrecedence(t *testing.T) {
	path := writeConfig(t, `
format: yaml
workers: 8
log_level: warn
input: [from-file]
`)
	t.Setenv("ISCX_WORKERS", "2")
	t.Setenv("ISCX_LOG_LEVEL", "debug")
	t.Setenv("ISCX_INPUT", "a, b,")
	t.Setenv("ISCX_WATCH", "true")

	s, err := Load(path, map[string]any{KeyLogLevel: "error"})
	require.NoError(t, err)

	assert.Equal(t, "yaml", s.Format, "file beats defaults")
	assert.Equal(t, 2, s.Workers, "env beats file")
	assert.Equal(t, "error", s.LogLevel, "overrides beat env")
	assert.Equal(t, []string{"a", "b"}, s.Input)
	assert.True(t, s.Watch)
}

func TestLoadErrors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"), nil)
	assert.ErrorContains(t, err, "load config file")

	path := writeConfig(t, "workers: [1, 2]\n")
	_, err = Load(path, nil)
	assert.ErrorContains(t, err, "decode settings")

	path = writeConfig(t, "debounce: soon\n")
	_, err = Load(path, nil)
	assert.ErrorContains(t, err, "decode settings")
}
