package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Catalog configures the streaming-catalog HTTP client.
type Catalog struct {
	BaseURL        string `toml:"base_url"`
	Token          string `toml:"token"`
	CountryCode    string `toml:"country_code"`
	SearchLimit    int    `toml:"search_limit"`
	TimeoutSeconds int    `toml:"timeout_seconds"`
}

// GSelector configures the traffic system's import/export service.
type GSelector struct {
	URL            string `toml:"url"`
	TimeoutSeconds int    `toml:"timeout_seconds"`
	MinIntervalMS  int    `toml:"min_interval_ms"`
}

// Pipeline configures per-entry processing. The retry policy is fixed and
// not configurable.
type Pipeline struct {
	ParticipantMaxLength int `toml:"participant_max_length"`
}

// Logging contains configuration for log output.
type Logging struct {
	Level string `toml:"level"`
}

// Paths contains file locations.
type Paths struct {
	LockFile string `toml:"lock_file"`
}

// Config encapsulates all configuration values for credit-sync.
type Config struct {
	Catalog   Catalog   `toml:"catalog"`
	GSelector GSelector `toml:"gselector"`
	Pipeline  Pipeline  `toml:"pipeline"`
	Logging   Logging   `toml:"logging"`
	Paths     Paths     `toml:"paths"`
}

// DefaultConfigPath returns the absolute path to the default configuration file location.
func DefaultConfigPath() (string, error) {
	return ExpandPath(defaultConfigPath)
}

// Sample returns a commented configuration file holding the defaults.
func Sample() string {
	return sampleConfig
}

// Load locates, parses, and validates a configuration file. A missing file
// yields the defaults. The resolved path and whether it existed are returned
// alongside the config.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file).DisallowUnknownFields()
		if err := decoder.Decode(&cfg); err != nil {
			var strict *toml.StrictMissingError
			if errors.As(err, &strict) {
				keys := make([]string, 0, len(strict.Errors))
				for _, decodeErr := range strict.Errors {
					keys = append(keys, strings.Join(decodeErr.Key(), "."))
				}
				return nil, "", false, fmt.Errorf("parse config: unknown keys %s", strings.Join(keys, ", "))
			}
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

// CatalogTimeout is the HTTP timeout of catalog calls.
func (c *Config) CatalogTimeout() time.Duration {
	return time.Duration(c.Catalog.TimeoutSeconds) * time.Second
}

// GSelectorTimeout is the HTTP timeout of import/export service calls.
func (c *Config) GSelectorTimeout() time.Duration {
	return time.Duration(c.GSelector.TimeoutSeconds) * time.Second
}

// MinInterval is the minimum spacing between import/export service calls.
func (c *Config) MinInterval() time.Duration {
	return time.Duration(c.GSelector.MinIntervalMS) * time.Millisecond
}

func resolveConfigPath(path string) (string, bool, error) {
	if path == "" {
		path = defaultConfigPath
	}
	expanded, err := ExpandPath(path)
	if err != nil {
		return "", false, err
	}
	info, err := os.Stat(expanded)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return expanded, false, nil
		}
		return "", false, fmt.Errorf("stat config: %w", err)
	}
	if info.IsDir() {
		return "", false, fmt.Errorf("config path %q is a directory", expanded)
	}
	return expanded, true, nil
}

// ExpandPath resolves a leading "~" against the home directory and returns
// an absolute, cleaned path. An empty path stays empty.
func ExpandPath(path string) (string, error) {
	if path == "" {
		return "", nil
	}
	if path == "~" || strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("locate home directory: %w", err)
		}
		path = filepath.Join(home, strings.TrimPrefix(path, "~"))
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("make %q absolute: %w", path, err)
	}
	return abs, nil
}
