package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
)

// fileConfig mirrors config.toml.
type fileConfig struct {
	BaseURL            string `toml:"base_url"`
	Username           string `toml:"username"`
	APIToken           string `toml:"api_token"`
	Timeout            string `toml:"timeout"`
	MaxParallelDeletes int    `toml:"max_parallel_deletes"`
	LogLevel           string `toml:"log_level"`
}

// Load creates a Config for configDir and layers settings in priority order:
// 1. Defaults
// 2. Config file (config.toml in the config directory, optional)
// 3. Environment variables
// Flags are applied by the caller afterwards.
func Load(configDir string) (*Config, error) {
	cfg, err := New(configDir)
	if err != nil {
		return nil, err
	}

	if err := loadFile(cfg, cfg.FilePath()); err != nil {
		return nil, fmt.Errorf("loading config file %s: %w", cfg.FilePath(), err)
	}

	if err := loadFromEnv(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// loadFile applies the settings present in path. A missing file is not an error.
func loadFile(cfg *Config, path string) error {
	var fc fileConfig
	md, err := toml.DecodeFile(path, &fc)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return err
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return fmt.Errorf("unknown keys: %s", strings.Join(keys, ", "))
	}

	if md.IsDefined("base_url") {
		cfg.BaseURL = strings.TrimRight(fc.BaseURL, "/")
	}
	if md.IsDefined("username") {
		cfg.Username = strings.TrimSpace(fc.Username)
	}
	if md.IsDefined("api_token") {
		cfg.APIToken = fc.APIToken
	}
	if md.IsDefined("timeout") {
		d, err := time.ParseDuration(fc.Timeout)
		if err != nil {
			return fmt.Errorf("invalid timeout: %w", err)
		}
		cfg.Timeout = d
	}
	if md.IsDefined("max_parallel_deletes") {
		cfg.MaxParallelDeletes = fc.MaxParallelDeletes
	}
	if md.IsDefined("log_level") {
		cfg.LogLevel = fc.LogLevel
	}
	return nil
}

// loadFromEnv overrides config from environment variables.
func loadFromEnv(cfg *Config) error {
	if v := os.Getenv("TODO_BASE_URL"); v != "" {
		cfg.BaseURL = strings.TrimRight(v, "/")
	}
	if v := os.Getenv("TODO_USERNAME"); v != "" {
		cfg.Username = strings.TrimSpace(v)
	}
	if v := os.Getenv("TODO_API_TOKEN"); v != "" {
		cfg.APIToken = v
	}
	if v := os.Getenv("TODO_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("invalid TODO_TIMEOUT: %w", err)
		}
		cfg.Timeout = d
	}
	if v := os.Getenv("TODO_LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
	}
	return nil
}
