// Package config loads the driver configuration from an optional YAML
// file with environment-variable overrides.
package config

import (
	"fmt"
	"os"

	"github.com/ilyakaznacheev/cleanenv"
)

// Config carries the driver settings that are not per-invocation flags.
type Config struct {
	// SeverityOrder overrides the severity order used in report
	// summaries and groupings. Default: HIGH, MEDIUM, LOW.
	SeverityOrder []string `yaml:"severity_order" env:"LIVINGDOC_SEVERITY_ORDER" env-separator:","`

	// FindingFilter is an optional boolean expression applied to drift
	// findings before reporting, e.g. `severity == "HIGH"`.
	FindingFilter string `yaml:"finding_filter" env:"LIVINGDOC_FINDING_FILTER"`

	// Format is the default output format: text, json, markdown or sarif.
	Format string `yaml:"format" env:"LIVINGDOC_FORMAT" env-default:"markdown"`

	// FailOn lists severities that make the drift command exit nonzero.
	FailOn []string `yaml:"fail_on" env:"LIVINGDOC_FAIL_ON" env-separator:","`

	// DisableAnalytics turns off anonymous usage reporting.
	DisableAnalytics bool `yaml:"disable_analytics" env:"LIVINGDOC_DISABLE_ANALYTICS"`
}

// Load reads configuration from path (YAML) when it exists, then applies
// environment overrides. A missing file yields defaults, never an error.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	if path != "" {
		if _, err := os.Stat(path); err == nil {
			if err := cleanenv.ReadConfig(path, cfg); err != nil {
				return nil, fmt.Errorf("reading config %s: %w", path, err)
			}
			return cfg, nil
		}
	}
	if err := cleanenv.ReadEnv(cfg); err != nil {
		return nil, fmt.Errorf("reading config from environment: %w", err)
	}
	return cfg, nil
}
