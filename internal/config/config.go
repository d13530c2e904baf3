// Package config loads the optional config.yaml and applies environment overrides.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	// DirPermissions keeps the data directory private to the owner
	DirPermissions = 0700
	// FilePermissions keeps the config file private to the owner
	FilePermissions = 0600

	// FileName is the config file inside the home directory
	FileName = "config.yaml"

	EnvHome    = "APITESTER_HOME"
	EnvBackend = "APITESTER_BACKEND"
)

// Config holds user configuration
type Config struct {
	// DataDir holds the store; relative paths are resolved against the home directory
	DataDir string `yaml:"data_dir"`

	// Backend is sqlite (default), json or memory
	Backend string `yaml:"backend"`

	// Timeout bounds each request, as a Go duration. Empty means no timeout.
	Timeout string `yaml:"timeout"`

	// RedactHistory stores sensitive headers as [REDACTED]. Defaults to true.
	RedactHistory *bool `yaml:"redact_history,omitempty"`

	// ThemeDefault is used until a theme is chosen
	ThemeDefault string `yaml:"theme_default"`

	home string
}

// Home returns the configuration directory: $APITESTER_HOME or ~/.apitester
func Home() (string, error) {
	if dir := os.Getenv(EnvHome); dir != "" {
		return dir, nil
	}
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(homeDir, ".apitester"), nil
}

// Default returns the configuration used when no file exists
func Default(home string) *Config {
	return &Config{
		DataDir:      home,
		Backend:      "sqlite",
		ThemeDefault: "dark",
		home:         home,
	}
}

// Path returns the config file used for path: path itself, or
// <home>/config.yaml when path is empty
func Path(path string) (string, error) {
	home, err := Home()
	if err != nil {
		return "", err
	}
	return resolvePath(home, path), nil
}

func resolvePath(home, path string) string {
	if path == "" {
		return filepath.Join(home, FileName)
	}
	return path
}

// Load reads path (or <home>/config.yaml when path is empty), fills defaults
// and applies environment overrides. A missing file is not an error.
func Load(path string) (*Config, error) {
	home, err := Home()
	if err != nil {
		return nil, err
	}

	cfg := Default(home)
	path = resolvePath(home, path)

	data, err := os.ReadFile(path)
	switch {
	case os.IsNotExist(err):
	case err != nil:
		return nil, fmt.Errorf("failed to read config file: %w", err)
	default:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse YAML config: %w", err)
		}
	}

	if backend := os.Getenv(EnvBackend); backend != "" {
		cfg.Backend = backend
	}

	if err := cfg.normalize(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

func (c *Config) normalize() error {
	if c.DataDir == "" {
		c.DataDir = c.home
	}
	if strings.HasPrefix(c.DataDir, "~/") {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return fmt.Errorf("failed to get home directory: %w", err)
		}
		c.DataDir = filepath.Join(homeDir, c.DataDir[2:])
	}
	if !filepath.IsAbs(c.DataDir) {
		c.DataDir = filepath.Join(c.home, c.DataDir)
	}

	c.Backend = strings.ToLower(strings.TrimSpace(c.Backend))
	if c.Backend == "" {
		c.Backend = "sqlite"
	}
	switch c.Backend {
	case "sqlite", "json", "memory":
	default:
		return fmt.Errorf("backend must be sqlite, json or memory, got %q", c.Backend)
	}

	if _, err := c.RequestTimeout(); err != nil {
		return err
	}
	return nil
}

// RequestTimeout parses Timeout. Zero means no timeout.
func (c *Config) RequestTimeout() (time.Duration, error) {
	if c.Timeout == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(c.Timeout)
	if err != nil {
		return 0, fmt.Errorf("invalid timeout %q: %w", c.Timeout, err)
	}
	if d < 0 {
		return 0, fmt.Errorf("timeout must not be negative, got %s", c.Timeout)
	}
	return d, nil
}

// Redact reports whether history should redact sensitive headers
func (c *Config) Redact() bool {
	return c.RedactHistory == nil || *c.RedactHistory
}

// YAML renders the config as it is written to disk
func (c *Config) YAML() ([]byte, error) {
	data, err := yaml.Marshal(c)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal YAML: %w", err)
	}
	return data, nil
}

// Save writes the config to path with owner-only permissions
func (c *Config) Save(path string) error {
	data, err := c.YAML()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), DirPermissions); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", filepath.Dir(path), err)
	}
	if err := os.WriteFile(path, data, FilePermissions); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}
