// Package config loads the tracker configuration file.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config is the application configuration, loaded once at startup. The
// engines never read it: the CLI resolves everything here into explicit
// parameters.
type Config struct {
	// Currency is the reporting currency for gains, dividends and summaries.
	Currency string `yaml:"currency"`
	// DBPath is the SQLite database holding orders, actions and feeds.
	DBPath string `yaml:"db_path"`
	Quote  Quote  `yaml:"quote"`
}

// Quote configures the market-data client.
type Quote struct {
	BaseURL string `yaml:"base_url,omitempty"`
}

// Default returns the configuration used when no file exists.
func Default() *Config {
	return &Config{
		Currency: "USD",
		DBPath:   "tracker.db",
	}
}

// Load reads the configuration from a YAML file. A missing file is not an
// error: defaults apply.
func Load(path string) (*Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %q: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %q: %w", path, err)
	}
	return cfg, nil
}

// Validate checks the configuration for basic sanity.
func (c *Config) Validate() error {
	if len(c.Currency) != 3 {
		return fmt.Errorf("currency must be a 3-letter code, got %q", c.Currency)
	}
	if c.DBPath == "" {
		return fmt.Errorf("db_path must not be empty")
	}
	return nil
}

// Save writes the configuration back as YAML, creating parent directories.
func (c *Config) Save(path string) error {
	if err := c.Validate(); err != nil {
		return err
	}
	data, err := yaml.Marshal(c)
	if err != nil {
		return err
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	return os.WriteFile(path, data, 0o644)
}
