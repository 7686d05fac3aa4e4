// Package config loads Meal Selector client configuration.
// Configuration lives in a YAML file under the user config dir; the API
// base URL can also be supplied through the environment, which wins over
// the file. Missing config is not an error: defaults apply.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

const (
	// DefaultBaseURL is the hard-coded fallback for local development.
	DefaultBaseURL = "http://127.0.0.1:8000"

	// EnvBaseURL overrides the configured API base URL when set.
	EnvBaseURL = "MEALSELECTOR_API_URL"

	configDirName  = ".mealselector"
	configFileName = "config.yaml"
)

// Config holds all client settings.
type Config struct {
	// APIBaseURL is the root of the meal-recommendation backend.
	APIBaseURL string `yaml:"api_base_url"`

	// Theme selects the color scheme: "light", "dark" or "" (auto).
	Theme string `yaml:"theme"`

	Logging LoggingConfig `yaml:"logging"`
}

// LoggingConfig configures the file logger. The TUI owns the terminal, so
// logs never go to stdout.
type LoggingConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error
	File  string `yaml:"file"`  // empty means <config dir>/logs/client.log
}

// DefaultConfig returns the configuration used when no file exists.
func DefaultConfig() Config {
	return Config{
		APIBaseURL: DefaultBaseURL,
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// Dir returns the directory where config, token and logs are stored.
func Dir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, configDirName), nil
}

// File returns the full path to the config file.
func File() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, configFileName), nil
}

// Load reads the configuration from disk and applies env overrides.
// A missing file yields the defaults.
func Load() (Config, error) {
	path, err := File()
	if err != nil {
		return DefaultConfig(), err
	}
	return LoadFrom(path)
}

// LoadFrom reads the configuration from an explicit path.
func LoadFrom(path string) (Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	switch {
	case os.IsNotExist(err):
		// No file: defaults plus env.
	case err != nil:
		return cfg, fmt.Errorf("read config: %w", err)
	default:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("parse config: %w", err)
		}
	}

	if cfg.APIBaseURL == "" {
		cfg.APIBaseURL = DefaultBaseURL
	}
	if url := os.Getenv(EnvBaseURL); url != "" {
		cfg.APIBaseURL = url
	}
	return cfg, nil
}

// Save writes the configuration to disk, creating the config dir if needed.
func Save(cfg Config) error {
	dir, err := Dir()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	path, err := File()
	if err != nil {
		return err
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	return os.WriteFile(path, data, 0644)
}
