// Package config handles the XDG configuration directory and the config file.
package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"
)

const (
	// AppName is the application directory name.
	AppName = "todo"

	// ConfigFile is the TOML settings filename inside the config directory.
	ConfigFile = "config.toml"

	// DefaultBaseURL is the public task store.
	DefaultBaseURL = "https://playground.4geeks.com/todo"

	// DefaultTimeout bounds each request to the task store.
	DefaultTimeout = 5 * time.Second

	// DefaultMaxParallelDeletes bounds the fan-out of clear.
	DefaultMaxParallelDeletes = 8

	// PlaceholderUsername is the value shipped in example configs.
	PlaceholderUsername = "YOUR_USERNAME_HERE"
)

// Config holds configuration paths and settings.
type Config struct {
	// Dir is the configuration directory path.
	Dir string

	// BaseURL is the task store root, without trailing slash.
	BaseURL string

	// Username owns the task list on the store.
	Username string

	// APIToken, when set, is sent as a bearer token.
	APIToken string

	// Timeout bounds each request.
	Timeout time.Duration

	// MaxParallelDeletes bounds concurrent deletes during clear.
	MaxParallelDeletes int

	// LogLevel is one of debug, info, warn, error.
	LogLevel string

	// Debug enables debug logging.
	Debug bool

	// Quiet suppresses informational output.
	Quiet bool

	// Interactive is set for commands that own the terminal.
	Interactive bool
}

// New creates a new Config with the default or specified config directory.
// If configDir is empty, uses XDG_CONFIG_HOME/todo or $HOME/.config/todo.
// Settings start at their defaults; see Load for the file and environment.
func New(configDir string) (*Config, error) {
	dir := configDir
	if dir == "" {
		dir = DefaultConfigDir()
	}
	cfg := &Config{Dir: dir}
	setDefaults(cfg)
	return cfg, nil
}

func setDefaults(cfg *Config) {
	cfg.BaseURL = DefaultBaseURL
	cfg.Timeout = DefaultTimeout
	cfg.MaxParallelDeletes = DefaultMaxParallelDeletes
	cfg.LogLevel = "info"
}

// DefaultConfigDir returns the default configuration directory.
// Uses XDG_CONFIG_HOME if set, otherwise $HOME/.config.
func DefaultConfigDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, AppName)
	}
	home, err := os.UserHomeDir()
	if err != nil {
		// Fallback to current directory if home can't be determined
		return AppName
	}
	return filepath.Join(home, ".config", AppName)
}

// FilePath returns the path to the TOML config file.
func (c *Config) FilePath() string {
	return filepath.Join(c.Dir, ConfigFile)
}

// HasFile checks if the config file exists.
func (c *Config) HasFile() bool {
	_, err := os.Stat(c.FilePath())
	return err == nil
}

// Validate reports settings the client cannot run with.
func (c *Config) Validate() error {
	user := strings.TrimSpace(c.Username)
	if user == "" {
		return fmt.Errorf("username not set (use --user, TODO_USERNAME or username in %s)", c.FilePath())
	}
	if strings.EqualFold(user, PlaceholderUsername) {
		return fmt.Errorf("username is the placeholder %q; set a unique username", PlaceholderUsername)
	}
	u, err := url.Parse(c.BaseURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("invalid base_url: %q", c.BaseURL)
	}
	if c.Timeout <= 0 {
		return fmt.Errorf("timeout must be positive, got %s", c.Timeout)
	}
	if c.MaxParallelDeletes < 1 {
		return fmt.Errorf("max_parallel_deletes must be at least 1, got %d", c.MaxParallelDeletes)
	}
	return nil
}
