package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/adrg/xdg"
	"gopkg.in/yaml.v3"
)

// Config represents the marktree configuration
type Config struct {
	LogFile         string   `yaml:"log_file,omitempty"`
	LogLevel        string   `yaml:"log_level"`
	Extensions      []string `yaml:"extensions"`
	ExcludePatterns []string `yaml:"exclude_patterns,omitempty"`
	Workers         int      `yaml:"workers"`
	OutputFormat    string   `yaml:"output_format"`
	GlamourStyle    string   `yaml:"glamour_style"`
	WordWrap        int      `yaml:"word_wrap"`
}

// DefaultConfig returns default configuration
func DefaultConfig() *Config {
	return &Config{
		LogLevel:        "info",
		Extensions:      []string{".md"},
		ExcludePatterns: []string{},
		Workers:         4,
		OutputFormat:    "yaml",
		GlamourStyle:    "auto",
		WordWrap:        100,
	}
}

// ConfigPath returns the path to the config file
// Uses ~/.config on all platforms for consistency
// Can be overridden for testing
var ConfigPath = func() string {
	home, err := os.UserHomeDir()
	if err != nil {
		// Fallback to XDG if home dir unavailable
		return filepath.Join(xdg.ConfigHome, "marktree", "config.yaml")
	}
	return filepath.Join(home, ".config", "marktree", "config.yaml")
}

// StateFilePath returns the path to the state file
// Uses platform-specific XDG data directory
// Can be overridden for testing
var StateFilePath = func() string {
	return filepath.Join(xdg.DataHome, "marktree", "state.json")
}

// Load reads configuration from the config path
func Load() (*Config, error) {
	return LoadFile(ConfigPath())
}

// LoadFile reads configuration from path. Keys missing from the file keep
// their default values.
func LoadFile(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		// Return default config if file doesn't exist
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, err
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if cfg.ExcludePatterns == nil {
		cfg.ExcludePatterns = []string{}
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	if err := cfg.ExpandPaths(); err != nil {
		return nil, fmt.Errorf("failed to expand paths: %w", err)
	}

	return cfg, nil
}

// SaveTo writes configuration to configPath, creating parent directories
func (c *Config) SaveTo(configPath string) error {
	if err := os.MkdirAll(filepath.Dir(configPath), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := c.Marshal()
	if err != nil {
		return err
	}

	if err := os.WriteFile(configPath, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// Marshal encodes the configuration as YAML
func (c *Config) Marshal() ([]byte, error) {
	data, err := yaml.Marshal(c)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal config: %w", err)
	}
	return data, nil
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if len(c.Extensions) == 0 {
		return fmt.Errorf("extensions cannot be empty")
	}
	for _, ext := range c.Extensions {
		if !strings.HasPrefix(ext, ".") {
			return fmt.Errorf("invalid extension '%s': must start with '.'", ext)
		}
	}

	for _, pattern := range c.ExcludePatterns {
		if _, err := filepath.Match(pattern, ""); err != nil {
			return fmt.Errorf("invalid exclude pattern '%s': %w", pattern, err)
		}
	}

	if c.Workers <= 0 {
		return fmt.Errorf("workers must be positive")
	}
	if c.WordWrap < 0 {
		return fmt.Errorf("word_wrap cannot be negative")
	}

	validFormats := map[string]bool{
		"yaml": true,
		"json": true,
		"pp":   true,
	}
	if !validFormats[c.OutputFormat] {
		return fmt.Errorf("invalid output_format '%s': must be one of: yaml, json, pp", c.OutputFormat)
	}

	validLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	if !validLevels[c.LogLevel] {
		return fmt.Errorf("invalid log_level '%s': must be one of: debug, info, warn, error", c.LogLevel)
	}

	return nil
}

// ExpandPaths expands any ~ or relative paths to absolute paths
func (c *Config) ExpandPaths() error {
	var err error

	c.LogFile, err = expandPath(c.LogFile)
	if err != nil {
		return fmt.Errorf("failed to expand log_file: %w", err)
	}

	return nil
}

// expandPath expands ~ to home directory and converts to absolute path
func expandPath(path string) (string, error) {
	if path == "" {
		return path, nil
	}

	// Expand ~ to home directory
	if path[0] == '~' {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		if len(path) == 1 {
			return homeDir, nil
		}
		path = filepath.Join(homeDir, path[1:])
	}

	// Convert to absolute path
	absPath, err := filepath.Abs(path)
	if err != nil {
		return "", err
	}

	return absPath, nil
}
