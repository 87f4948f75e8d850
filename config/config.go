package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v2"
)

// DefaultPath is looked up in the working directory. A missing file means defaults.
const DefaultPath = "shopping.yaml"

type Config struct {
	Split struct {
		TestSize float64 `yaml:"test_size"`
		Seed     int64   `yaml:"seed"`
	} `yaml:"split"`
	Log     LogConfig `yaml:"log"`
	History struct {
		Enabled bool   `yaml:"enabled"`
		Path    string `yaml:"path"`
	} `yaml:"history"`
	Cache struct {
		Size int `yaml:"size"`
	} `yaml:"cache"`
}

type LogConfig struct {
	Level      string `yaml:"level"`
	File       string `yaml:"file"`
	MaxSizeMB  int    `yaml:"max_size_mb"`
	MaxBackups int    `yaml:"max_backups"`
	MaxAgeDays int    `yaml:"max_age_days"`
}

func Default() *Config {
	var cfg Config
	cfg.Split.TestSize = 0.4
	cfg.Log.Level = "info"
	cfg.Log.MaxSizeMB = 10
	cfg.Log.MaxBackups = 3
	cfg.Log.MaxAgeDays = 7
	cfg.History.Path = "shopping.db"
	cfg.Cache.Size = 8
	return &cfg
}

// Load decodes path over the defaults. A path that does not exist is not an error.
func Load(path string) (*Config, error) {
	cfg := Default()
	file, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return nil, err
	}
	defer file.Close()

	if err := yaml.NewDecoder(file).Decode(cfg); err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	if c.Split.TestSize <= 0 || c.Split.TestSize >= 1 {
		return fmt.Errorf("split.test_size must be between 0 and 1, got %v", c.Split.TestSize)
	}
	if c.Cache.Size <= 0 {
		return errors.New("cache.size must be positive")
	}
	if c.History.Enabled && c.History.Path == "" {
		return errors.New("history.path is required when history is enabled")
	}
	return nil
}
