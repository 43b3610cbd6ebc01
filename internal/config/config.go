// Package config provides unified configuration loading for galton.
// It supports loading from YAML files and environment variables.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"gopkg.in/yaml.v3"
)

// GaltonConfig contains all galton configuration settings.
type GaltonConfig struct {
	// Simulation contains defaults for experiment runs.
	Simulation SimulationConfig `json:"simulation" yaml:"simulation"`

	// History contains settings for the run-history store.
	History HistoryConfig `json:"history" yaml:"history"`

	// Logging contains settings for operational and step logging.
	Logging LoggingConfig `json:"logging" yaml:"logging"`
}

// SimulationConfig configures experiment defaults.
type SimulationConfig struct {
	// Seed is the base random seed for a run. 0 means derive a seed from
	// the wall clock; any other value makes runs reproducible. The --seed
	// flag overrides it.
	Seed int64 `json:"seed" yaml:"seed"`
}

// HistoryConfig configures the run-history store.
type HistoryConfig struct {
	// Enabled records finished runs to the history database.
	Enabled bool `json:"enabled" yaml:"enabled"`
}

// LoggingConfig configures galton's logging behavior.
type LoggingConfig struct {
	// Level sets the log verbosity: "info" (default), "debug", or "trace".
	// "debug" enables step logging to .galton/steps.jsonl.
	// "trace" additionally includes full board renderings.
	Level string `json:"level" yaml:"level"`
}

// Default returns a GaltonConfig with sensible defaults.
func Default() *GaltonConfig {
	return &GaltonConfig{
		Simulation: SimulationConfig{
			Seed: 0,
		},
		History: HistoryConfig{
			Enabled: true,
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// Load loads configuration for the project rooted at root.
// Order: defaults -> root/.galton/config.yaml -> environment variables.
func Load(root string) (*GaltonConfig, error) {
	cfg := Default()

	configPath := filepath.Join(root, ".galton", "config.yaml")
	if _, err := os.Stat(configPath); err == nil {
		fileCfg, loadErr := LoadFromFile(configPath)
		if loadErr != nil {
			return nil, fmt.Errorf("loading config file: %w", loadErr)
		}
		cfg = fileCfg
	}

	applyEnvOverrides(cfg)

	return cfg, nil
}

// LoadFromFile loads configuration from a specific YAML file.
func LoadFromFile(path string) (*GaltonConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	return cfg, nil
}

// Validate checks that the configuration is valid.
func (c *GaltonConfig) Validate() error {
	if c.Simulation.Seed < 0 {
		return fmt.Errorf("seed must be non-negative, got %d", c.Simulation.Seed)
	}

	validLevels := map[string]bool{"info": true, "debug": true, "trace": true}
	if c.Logging.Level != "" && !validLevels[c.Logging.Level] {
		return fmt.Errorf("invalid log level: %s (valid: info, debug, trace, or empty for default)", c.Logging.Level)
	}

	return nil
}

// applyEnvOverrides applies environment variable overrides to the config.
func applyEnvOverrides(cfg *GaltonConfig) {
	if v := os.Getenv("GALTON_SEED"); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			cfg.Simulation.Seed = n
		}
	}

	if v := os.Getenv("GALTON_HISTORY_ENABLED"); v != "" {
		cfg.History.Enabled = v == "true" || v == "1"
	}

	if v := os.Getenv("GALTON_LOG_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}
}
