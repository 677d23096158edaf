// Package models defines data structures for configuration and parsing.
package models

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config holds runtime configuration for the generate pipeline.
// Values come from an optional config.yaml, overridable by CLI flags.
type Config struct {
	WorkerCount int    `yaml:"worker_count"`
	OutputDir   string `yaml:"output_dir"`
	DBPath      string `yaml:"db_path"`

	// Truncation budgets for synthesized schema text fields.
	HeadlineLimit    int `yaml:"headline_limit"`
	DescriptionLimit int `yaml:"description_limit"`
}

// DefaultConfig returns the built-in defaults used when no config file exists.
func DefaultConfig() *Config {
	return &Config{
		WorkerCount:      4,
		OutputDir:        "schemaforge-results",
		DBPath:           "schemaforge.db",
		HeadlineLimit:    110,
		DescriptionLimit: 300,
	}
}

// LoadConfig reads a yaml config file, filling unset values with defaults.
// A missing file is not an error.
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if cfg.WorkerCount <= 0 {
		cfg.WorkerCount = 4
	}
	if cfg.HeadlineLimit <= 0 {
		cfg.HeadlineLimit = 110
	}
	if cfg.DescriptionLimit <= 0 {
		cfg.DescriptionLimit = 300
	}

	return cfg, nil
}
