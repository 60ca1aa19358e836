package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"gopkg.in/yaml.v3"
)

const (
	defaultMaxDepth  = 64
	defaultProductID = "-//luxifer//icalfmt//EN"
	defaultLogLevel  = "warn"
)

// Config is the configuration of the icalfmt command.
type Config struct {
	// MaxDepth limits component nesting while parsing.
	MaxDepth int `yaml:"max_depth"`

	// ProductID is written as PRODID when a calendar has none.
	ProductID string `yaml:"product_id"`

	// LogLevel is a zap level name: debug, info, warn or error.
	LogLevel string `yaml:"log_level"`

	// SimpleErrors reports parse errors as a class and an offset only.
	SimpleErrors bool `yaml:"simple_errors"`
}

// DefaultConfig returns an in-memory default configuration.
func DefaultConfig() *Config {
	return &Config{
		MaxDepth:  defaultMaxDepth,
		ProductID: defaultProductID,
		LogLevel:  defaultLogLevel,
	}
}

// Normalize fills in missing/zero values with defaults so that
// partially-filled configs still behave correctly.
func (c *Config) Normalize() {
	if c.MaxDepth <= 0 {
		c.MaxDepth = defaultMaxDepth
	}
	if c.ProductID == "" {
		c.ProductID = defaultProductID
	}
	if c.LogLevel == "" {
		c.LogLevel = defaultLogLevel
	}
}

// Load reads the YAML configuration at path. An empty path yields the
// defaults; a path that does not exist is an error.
func Load(path string) (*Config, error) {
	if path == "" {
		return DefaultConfig(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("config %s does not exist", path)
		}
		return nil, err
	}

	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	cfg.Normalize()

	return cfg, nil
}
