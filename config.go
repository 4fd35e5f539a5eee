// Copyright (c) 2026 hitoshi.mukai.b@gmail.com. All rights reserved.
// You are free to use this source code for any purpose. The copyright remains with the author.
// The author accepts no liability for any damages arising from the use of this source code.
//
// Last modified: 2026.8.26
//

package gdrop

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config is the optional batch run configuration file. Everything in it can
// also come from command line flags or the project file; file values win
// over project values, flags win over both.
type Config struct {
	Ksol        int         `yaml:"ksol"`         // Light-time sign convention, +1 or -1
	Lpar        float64     `yaml:"lpar"`         // Parasitic wavelength [nm]
	FitRange    RangeConfig `yaml:"fit_range"`    // Fringe fit range (1-based, as in the project file)
	StatsRange  RangeConfig `yaml:"stats_range"`  // Scatter statistic range
	RejectLimit float64     `yaml:"reject_limit"` // Drop rejection threshold on ssres, 0 disables
	Workers     int         `yaml:"workers"`      // Concurrent drop workers, 0 means one per CPU
	OutDir      string      `yaml:"out_dir"`      // Directory for estim and report files
	Database    string      `yaml:"database"`     // SQLite results database path, empty disables
	Chart       bool        `yaml:"chart"`        // Write the HTML residual/series report
	Corrections Corrections `yaml:"corrections"`  // External load corrections
}

// RangeConfig is a 1-based fringe index window.
type RangeConfig struct {
	Min int `yaml:"min"`
	Max int `yaml:"max"`
}

// Corrections carries the externally sourced load corrections in the
// gTop/10 unit convention.
type Corrections struct {
	Tide  float64 `yaml:"tide"`
	Load  float64 `yaml:"load"`
	Baro  float64 `yaml:"baro"`
	Polar float64 `yaml:"polar"`
}

// NewConfig returns the default run configuration.
func NewConfig() *Config {
	return &Config{
		Ksol:   1,
		OutDir: ".",
	}
}

// LoadConfig reads a YAML run configuration over the defaults.
func LoadConfig(path string) (*Config, error) {
	cfg := NewConfig()
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	if err := yaml.Unmarshal(b, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the configuration invariants.
func (c *Config) Validate() error {
	if c.Ksol != 1 && c.Ksol != -1 {
		return fmt.Errorf("ksol must be +1 or -1, got %d", c.Ksol)
	}
	if c.FitRange.Min != 0 || c.FitRange.Max != 0 {
		if c.FitRange.Min < 1 || c.FitRange.Min >= c.FitRange.Max {
			return fmt.Errorf("invalid fit_range %d..%d", c.FitRange.Min, c.FitRange.Max)
		}
	}
	if c.StatsRange.Min != 0 || c.StatsRange.Max != 0 {
		if c.StatsRange.Min < 1 || c.StatsRange.Min >= c.StatsRange.Max {
			return fmt.Errorf("invalid stats_range %d..%d", c.StatsRange.Min, c.StatsRange.Max)
		}
	}
	if c.Workers < 0 {
		return fmt.Errorf("workers must not be negative, got %d", c.Workers)
	}
	return nil
}
