// Package config loads paperminer settings from defaults, an optional YAML
// file, a .env file and PAPERMINER_* environment variables.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// EnvPrefix prefixes every environment variable read by Load
const EnvPrefix = "PAPERMINER_"

// Config holds the settings of one extraction run
type Config struct {
	Input          string  `yaml:"input"`
	Output         string  `yaml:"output"`
	Password       string  `yaml:"password"`
	TechniquesFile string  `yaml:"techniques_file"`
	SamplesFile    string  `yaml:"samples_file"`
	Tolerance      float64 `yaml:"tolerance"`
	MatchPolicy    string  `yaml:"match_policy"` // first | all
	Workers        int     `yaml:"workers"`
	LogLevel       string  `yaml:"log_level"`
	LogFormat      string  `yaml:"log_format"` // text | json
}

// Default returns the built-in settings
func Default() *Config {
	return &Config{
		Output:         ".",
		TechniquesFile: "info/Sequencing_Tech.xls",
		SamplesFile:    "info/Sample_Type.xls",
		Tolerance:      0.2,
		MatchPolicy:    "first",
		Workers:        1,
		LogLevel:       "info",
		LogFormat:      "text",
	}
}

// Load layers a YAML file (optional, skipped when path is empty), the .env
// file in the working directory (optional) and the environment over the defaults
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		if err := cfg.loadFile(path); err != nil {
			return nil, err
		}
	}

	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}

	if err := cfg.applyEnv(os.LookupEnv); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}
	return nil
}

// applyEnv overrides fields from PAPERMINER_* variables
func (c *Config) applyEnv(lookup func(string) (string, bool)) error {
	strs := map[string]*string{
		"INPUT":        &c.Input,
		"OUTPUT":       &c.Output,
		"PASSWORD":     &c.Password,
		"TECHNIQUES":   &c.TechniquesFile,
		"SAMPLES":      &c.SamplesFile,
		"MATCH_POLICY": &c.MatchPolicy,
		"LOG_LEVEL":    &c.LogLevel,
		"LOG_FORMAT":   &c.LogFormat,
	}
	for name, dst := range strs {
		if v, ok := lookup(EnvPrefix + name); ok {
			*dst = v
		}
	}

	if v, ok := lookup(EnvPrefix + "TOLERANCE"); ok {
		f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return fmt.Errorf("invalid %sTOLERANCE: %w", EnvPrefix, err)
		}
		c.Tolerance = f
	}
	if v, ok := lookup(EnvPrefix + "WORKERS"); ok {
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return fmt.Errorf("invalid %sWORKERS: %w", EnvPrefix, err)
		}
		c.Workers = n
	}
	return nil
}

// Validate checks that required fields are present and values are sane
func (c *Config) Validate() error {
	if c.Input == "" {
		return fmt.Errorf("input is required")
	}
	if c.Tolerance <= 0 || c.Tolerance >= 1 {
		return fmt.Errorf("tolerance must be in (0, 1), got %g", c.Tolerance)
	}
	if c.Workers < 1 {
		return fmt.Errorf("workers must be >= 1")
	}
	switch c.MatchPolicy {
	case "first", "all":
	default:
		return fmt.Errorf("match_policy must be first or all, got %q", c.MatchPolicy)
	}
	switch c.LogFormat {
	case "text", "json":
	default:
		return fmt.Errorf("log_format must be text or json, got %q", c.LogFormat)
	}
	return nil
}
