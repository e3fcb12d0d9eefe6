package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "salesdash.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load(writeConfig(t, "{}\n"), nil)
	require.NoError(t, err)

	assert.Equal(t, "csv", cfg.Source)
	assert.Equal(t, "data/sales.csv", cfg.Data.Sales)
	assert.Equal(t, "modelos", cfg.Models.Dir)
	assert.Equal(t, "modelo_%s.json", cfg.Models.Pattern)
	assert.Equal(t, 4, cfg.Models.Concurrency)
	assert.Equal(t, "text", cfg.Output.Format)
}

func TestLoad_FileThenEnvThenFlags(t *testing.T) {
	path := writeConfig(t, `
source: sqlite
sqlite:
  path: /tmp/sales.db
models:
  dir: /srv/models
log:
  level: debug
output:
  format: json
`)
	t.Setenv("SALESDASH_MODELS_DIR", "/env/models")

	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags.String("format", "text", "")
	require.NoError(t, flags.Parse([]string{"--format", "csv"}))

	cfg, err := Load(path, flags)
	require.NoError(t, err)

	assert.Equal(t, "sqlite", cfg.Source)
	assert.Equal(t, "/tmp/sales.db", cfg.SQLite.Path)
	assert.Equal(t, "/env/models", cfg.Models.Dir)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "csv", cfg.Output.Format)
}

func TestLoad_Invalid(t *testing.T) {
	testCases := []struct {
		name        string
		content     string
		expectError string
	}{
		{"bad source", "source: postgres\n", "unsupported source"},
		{"bad format", "output:\n  format: xml\n", "unsupported output format"},
		{"bad pattern", "models:\n  pattern: model.json\n", "must contain %s"},
		{"bad concurrency", "models:\n  concurrency: 0\n", "concurrency must be positive"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tc.content), nil)
			assert.ErrorContains(t, err, tc.expectError)
		})
	}
}

func TestLoad_MissingExplicitFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"), nil)
	assert.ErrorContains(t, err, "could not read config")
}
