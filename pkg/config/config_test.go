package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, ".", cfg.Output)
	assert.Equal(t, 0.2, cfg.Tolerance)
	assert.Equal(t, "first", cfg.MatchPolicy)
	assert.Equal(t, 1, cfg.Workers)
	assert.Equal(t, "info/Sequencing_Tech.xls", cfg.TechniquesFile)
	assert.Equal(t, "info/Sample_Type.xls", cfg.SamplesFile)
}

func TestLoadFileThenEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "paperminer.yaml")
	yaml := "input: paper.pdf\noutput: out\ntolerance: 0.1\nworkers: 4\n"
	require.NoError(t, os.WriteFile(path, []byte(yaml), 0o644))

	t.Setenv("PAPERMINER_WORKERS", "2")
	t.Setenv("PAPERMINER_MATCH_POLICY", "all")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "paper.pdf", cfg.Input)
	assert.Equal(t, "out", cfg.Output)
	assert.Equal(t, 0.1, cfg.Tolerance)
	assert.Equal(t, 2, cfg.Workers)
	assert.Equal(t, "all", cfg.MatchPolicy)
	assert.Equal(t, "info", cfg.LogLevel)
}

func TestLoadErrors(t *testing.T) {
	dir := t.TempDir()
	bad := filepath.Join(dir, "bad.yaml")
	require.NoError(t, os.WriteFile(bad, []byte("workers: [1"), 0o644))

	_, err := Load(filepath.Join(dir, "missing.yaml"))
	assert.Error(t, err)

	_, err = Load(bad)
	assert.Error(t, err)
}

func TestApplyEnvRejectsBadNumbers(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{"tolerance", map[string]string{"PAPERMINER_TOLERANCE": "wide"}},
		{"workers", map[string]string{"PAPERMINER_WORKERS": "many"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lookup := func(key string) (string, bool) {
				v, ok := tt.env[key]
				return v, ok
			}
			assert.Error(t, Default().applyEnv(lookup))
		})
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"valid", func(c *Config) {}, false},
		{"missing input", func(c *Config) { c.Input = "" }, true},
		{"zero tolerance", func(c *Config) { c.Tolerance = 0 }, true},
		{"tolerance too large", func(c *Config) { c.Tolerance = 1 }, true},
		{"no workers", func(c *Config) { c.Workers = 0 }, true},
		{"unknown policy", func(c *Config) { c.MatchPolicy = "best" }, true},
		{"fan-out policy", func(c *Config) { c.MatchPolicy = "all" }, false},
		{"json logs", func(c *Config) { c.LogFormat = "json" }, false},
		{"unknown log format", func(c *Config) { c.LogFormat = "xml" }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			cfg.Input = "paper.pdf"
			tt.mutate(cfg)

			err := cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
