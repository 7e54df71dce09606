// Package config loads the CLI's optional ~/.rex.yaml settings file and
// merges it underneath whatever flags the user passes on the command
// line, so the file only supplies defaults.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config holds the settings ~/.rex.yaml may declare. Dialect and
// TraceLevel become the defaults of the match command's --alt and
// --trace flags, which override them; no command reads Color.
type Config struct {
	Dialect    string `yaml:"dialect"`
	TraceLevel int    `yaml:"trace_level"`
	Color      bool   `yaml:"color"`
}

// Default returns the built-in defaults used when no file is present.
func Default() *Config {
	return &Config{Dialect: "traditional"}
}

// Load reads ~/.rex.yaml if it exists, returning Default() unchanged
// when the file is absent. A malformed file is an error; a missing one
// is not.
func Load() (*Config, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return Default(), nil
	}
	path := filepath.Join(home, ".rex.yaml")
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Default(), nil
		}
		return nil, fmt.Errorf("config: reading %s: %w", path, err)
	}
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("config: parsing %s: %w", path, err)
	}
	return cfg, nil
}
