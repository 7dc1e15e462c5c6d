// Package config loads application settings from an optional YAML file
// with environment variable overrides.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config holds the application settings
type Config struct {
	// DatabasePath is the SQLite database file location
	DatabasePath string `yaml:"database_path"`
}

// Load reads configuration in precedence order: defaults, then the YAML
// file at path (skipped when path is empty or the file does not exist),
// then environment variables.
func Load(path string) (*Config, error) {
	cfg := &Config{
		DatabasePath: DefaultDatabasePath(),
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil && !os.IsNotExist(err) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		if err == nil {
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("failed to parse config file: %w", err)
			}
		}
	}

	if v := os.Getenv("SNIPPETHUB_DB_PATH"); v != "" {
		cfg.DatabasePath = v
	}

	return cfg, nil
}

// DefaultDatabasePath returns the database location under the XDG data
// directory, falling back to ~/.local/share
func DefaultDatabasePath() string {
	dataDir := os.Getenv("XDG_DATA_HOME")
	if dataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "snippethub.db"
		}
		dataDir = filepath.Join(home, ".local", "share")
	}
	return filepath.Join(dataDir, "snippethub", "snippethub.db")
}

// EnsureParentDir creates the directory holding the database file
func EnsureParentDir(dbPath string) error {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create data directory: %w", err)
	}
	return nil
}
