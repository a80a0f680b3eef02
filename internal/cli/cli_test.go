package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/specialistvlad/isctransform/document"
)

func TestParse(t *testing.T) {
	var out bytes.Buffer
	cfg, exit, err := Parse([]string{
		"-format", "yaml",
		"-o", "out",
		"-workers", "7",
		"-log-level", "DEBUG",
		"-debounce", "1s",
		"-i", "a.hcl",
		"dir",
	}, &out)
	require.NoError(t, err)
	require.False(t, exit)

	assert.Equal(t, []string{"a.hcl", "dir"}, cfg.Input)
	assert.Equal(t, document.FormatYAML, cfg.Format)
	assert.Equal(t, "out", cfg.OutputDir)
	assert.Equal(t, 7, cfg.Workers)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, time.Second, cfg.Debounce)
	assert.False(t, cfg.ListFunctions)
}

func TestParseDefaults(t *testing.T) {
	var out bytes.Buffer
	cfg, exit, err := Parse([]string{"transforms"}, &out)
	require.NoError(t, err)
	require.False(t, exit)

	assert.Equal(t, document.FormatJSON, cfg.Format)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "text", cfg.LogFormat)
	assert.Equal(t, 4, cfg.Workers)
	assert.Empty(t, cfg.OutputDir)
}

func TestParseHelpAndUsage(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"help flag", []string{"-h"}},
		{"no input", nil},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			var out bytes.Buffer
			cfg, exit, err := Parse(tc.args, &out)
			require.NoError(t, err)
			assert.True(t, exit)
			assert.Nil(t, cfg)
			assert.Contains(t, out.String(), "Usage:")
		})
	}
}

func TestParseListFunctionsNeedsNoInput(t *testing.T) {
	var out bytes.Buffer
	cfg, exit, err := Parse([]string{"-list-functions"}, &out)
	require.NoError(t, err)
	require.False(t, exit)
	assert.True(t, cfg.ListFunctions)
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want string
	}{
		{"unknown flag", []string{"-nope"}, "flag provided but not defined: -nope"},
		{"bad format", []string{"-format", "xml", "x"}, "unknown output format"},
		{"bad log level", []string{"-log-level", "loud", "x"}, "invalid log level"},
		{"bad workers", []string{"-workers", "0", "x"}, "workers must be at least 1"},
		{"missing config", []string{"-config", "/does/not/exist.yaml", "x"}, "load config file"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			var out bytes.Buffer
			_, _, err := Parse(tc.args, &out)
			require.Error(t, err)
			exitErr, ok := err.(*ExitError)
			require.True(t, ok, "expected *ExitError, got %T", err)
			assert.Equal(t, 2, exitErr.Code)
			assert.Contains(t, exitErr.Message, tc.want)
		})
	}
}

func TestParsePrecedence(t *testing.T) {
	path := filepath.Join(t.TempDir(), "isctransform.yaml")
	require.NoError(t, os.WriteFile(path, []byte("input: [from-file]\nformat: yaml\nworkers: 9\nlog_level: warn\n"), 0o644))
	t.Setenv("ISCX_WORKERS", "5")

	var out bytes.Buffer
	cfg, _, err := Parse([]string{"-config", path, "-log-level", "error"}, &out)
	require.NoError(t, err)

	assert.Equal(t, []string{"from-file"}, cfg.Input)
	assert.Equal(t, document.FormatYAML, cfg.Format)
	assert.Equal(t, 5, cfg.Workers, "environment beats the file")
	assert.Equal(t, "error", cfg.LogLevel, "flags beat everything")

	cfg, _, err = Parse([]string{"-config", path, "cli-dir"}, &out)
	require.NoError(t, err)
	assert.Equal(t, []string{"cli-dir"}, cfg.Input)
}
