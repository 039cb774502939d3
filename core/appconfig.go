// Package core holds the application-level configuration for promptlab.
package core

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// Default values applied by ApplyDefaults when the config file leaves
// them unset.
const (
	DefaultAddr             = ":8601"
	DefaultAPIKeyEnv        = "PROMPTLAB_API_KEY"
	DefaultAdminPasswordEnv = "PROMPTLAB_ADMIN_PASSWORD"
	DefaultAdminPassword    = "admin123"
	DefaultSettingsPath     = "promptlab_settings.json"
	DefaultTemperature      = 0.7
	DefaultGeneratorModel   = "GPT-4o"
	DefaultRequestTimeout   = 2 * time.Minute
)

// Config holds application configuration loaded from .promptlab.yaml.
type Config struct {
	API    APIConfig    `yaml:"api"`
	Server ServerConfig `yaml:"server"`
	Paths  PathsConfig  `yaml:"paths"`
	Chat   ChatConfig   `yaml:"chat"`
}

// APIConfig describes the remote chat-completion endpoint.
type APIConfig struct {
	// Endpoint is the base URL of an OpenAI-compatible completion API.
	Endpoint string `yaml:"endpoint"`
	// APIKeyEnv is the environment variable holding the API key
	// (default: PROMPTLAB_API_KEY).
	APIKeyEnv string `yaml:"api_key_env"`
	// Timeout is the per-request timeout (e.g., "2m", "30s").
	Timeout string `yaml:"timeout"`
}

// ServerConfig controls the HTTP server.
type ServerConfig struct {
	// Addr is the listen address (default: ":8601").
	Addr string `yaml:"addr"`
	// AdminPasswordEnv is the environment variable holding the admin
	// password (default: PROMPTLAB_ADMIN_PASSWORD).
	AdminPasswordEnv string `yaml:"admin_password_env"`
}

// PathsConfig locates the on-disk data files.
type PathsConfig struct {
	// Settings is the path of the JSON settings document.
	Settings string `yaml:"settings"`
	// ModelTable is an optional JSON file overriding the built-in model
	// registry. Empty means use the built-in table.
	ModelTable string `yaml:"model_table"`
}

// ChatConfig holds completion defaults.
type ChatConfig struct {
	// DefaultTemperature is used when a request does not set one.
	DefaultTemperature float64 `yaml:"default_temperature"`
	// GeneratorModel is the display name of the model used for
	// system-prompt generation (default: "GPT-4o").
	GeneratorModel string `yaml:"generator_model"`
}

// LoadConfig reads .promptlab.yaml from root and returns the parsed config
// with defaults applied. If the file does not exist, a default config is
// returned with no error.
func LoadConfig(root string) (*Config, error) {
	path := filepath.Join(root, ".promptlab.yaml")

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			cfg := &Config{}
			cfg.ApplyDefaults()
			cfg.resolvePaths(root)
			return cfg, nil
		}
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}

	cfg.ApplyDefaults()
	cfg.resolvePaths(root)
	return &cfg, nil
}

// resolvePaths anchors relative file paths at the config root.
func (c *Config) resolvePaths(root string) {
	if c.Paths.Settings != "" && !filepath.IsAbs(c.Paths.Settings) {
		c.Paths.Settings = filepath.Join(root, c.Paths.Settings)
	}
	if c.Paths.ModelTable != "" && !filepath.IsAbs(c.Paths.ModelTable) {
		c.Paths.ModelTable = filepath.Join(root, c.Paths.ModelTable)
	}
}

// ApplyDefaults fills unset fields with their default values.
func (c *Config) ApplyDefaults() {
	if c.API.APIKeyEnv == "" {
		c.API.APIKeyEnv = DefaultAPIKeyEnv
	}
	if c.Server.Addr == "" {
		c.Server.Addr = DefaultAddr
	}
	if c.Server.AdminPasswordEnv == "" {
		c.Server.AdminPasswordEnv = DefaultAdminPasswordEnv
	}
	if c.Paths.Settings == "" {
		c.Paths.Settings = DefaultSettingsPath
	}
	if c.Chat.DefaultTemperature == 0 {
		c.Chat.DefaultTemperature = DefaultTemperature
	}
	if c.Chat.GeneratorModel == "" {
		c.Chat.GeneratorModel = DefaultGeneratorModel
	}
}

// APIKey resolves the API key from the configured environment variable.
func (c *Config) APIKey() string {
	return os.Getenv(c.API.APIKeyEnv)
}

// AdminPassword resolves the admin password from the configured
// environment variable, falling back to the built-in default.
func (c *Config) AdminPassword() string {
	if pw := os.Getenv(c.Server.AdminPasswordEnv); pw != "" {
		return pw
	}
	return DefaultAdminPassword
}

// RequestTimeout parses the configured API timeout, falling back to the
// default when unset or malformed.
func (c *Config) RequestTimeout() time.Duration {
	if c.API.Timeout == "" {
		return DefaultRequestTimeout
	}
	d, err := time.ParseDuration(c.API.Timeout)
	if err != nil || d <= 0 {
		return DefaultRequestTimeout
	}
	return d
}

// ValidateAPI checks that the remote endpoint is usable. Commands that
// perform completion calls treat a failure here as fatal at startup.
func (c *Config) ValidateAPI() error {
	if c.API.Endpoint == "" {
		return errors.New("api.endpoint must be set in .promptlab.yaml")
	}
	if c.APIKey() == "" {
		return fmt.Errorf("%s environment variable is required", c.API.APIKeyEnv)
	}
	return nil
}
