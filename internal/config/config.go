// Package config handles configuration for tb-diskreport.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config holds all tb-diskreport configuration. Flags override values
// loaded here.
type Config struct {
	TopN            int      `yaml:"topn"`
	MinFileSizeMB   int      `yaml:"min_file_size_mb"`
	WarnPercent     int      `yaml:"warn_percent"`
	CritPercent     int      `yaml:"crit_percent"`
	JournalLimitMB  int      `yaml:"journal_limit_mb"`
	ExcludeFSTypes  []string `yaml:"exclude_fstypes"`
	AssumeYes       bool     `yaml:"assume_yes"`
	CommandTimeout  int      `yaml:"command_timeout_seconds"`
	DirScanTimeout  int      `yaml:"dir_scan_timeout_seconds"`
	FileScanTimeout int      `yaml:"file_scan_timeout_seconds"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		TopN:            20,
		MinFileSizeMB:   100,
		WarnPercent:     80,
		CritPercent:     90,
		JournalLimitMB:  4096,
		CommandTimeout:  10,
		DirScanTimeout:  60,
		FileScanTimeout: 120,
	}
}

// Load reads a YAML config file over the defaults. An empty path returns
// the defaults untouched; a named file that cannot be read is an error.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config file %s: %w", path, err)
	}
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config file %s: %w", path, err)
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if c.TopN < 1 {
		return fmt.Errorf("topn must be at least 1, got %d", c.TopN)
	}
	if c.MinFileSizeMB < 0 {
		return fmt.Errorf("min_file_size_mb must not be negative, got %d", c.MinFileSizeMB)
	}
	if c.WarnPercent < 1 || c.WarnPercent > 100 {
		return fmt.Errorf("warn_percent must be in 1..100, got %d", c.WarnPercent)
	}
	if c.CritPercent < 1 || c.CritPercent > 100 {
		return fmt.Errorf("crit_percent must be in 1..100, got %d", c.CritPercent)
	}
	if c.CritPercent < c.WarnPercent {
		return fmt.Errorf("crit_percent (%d) must not be below warn_percent (%d)", c.CritPercent, c.WarnPercent)
	}
	return nil
}
