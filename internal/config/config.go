// Package config provides layered configuration loading.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"gopkg.in/yaml.v3"

	"github.com/atomx/atomx-cli/internal/endpoint"
)

// Defaults for the production API.
const (
	DefaultDomain  = "api.atomx.com"
	DefaultPort    = 443
	DefaultVersion = "v3"
)

// Config holds the resolved configuration.
type Config struct {
	// API endpoint settings
	Domain  string `yaml:"domain"`
	Port    int    `yaml:"port"`
	Version string `yaml:"version"`

	// Login settings. Both optional; the credential store keyed by domain
	// is consulted when either is empty.
	Email    string `yaml:"email,omitempty"`
	Password string `yaml:"password,omitempty"`

	// Output settings
	Format string `yaml:"format,omitempty"`

	// Sources tracks where each value came from (for debugging).
	Sources map[string]string `yaml:"-"`
}

// Source indicates where a config value came from.
type Source string

const (
	SourceDefault Source = "default"
	SourceGlobal  Source = "global"
	SourceEnv     Source = "env"
	SourceFlag    Source = "flag"
	SourceBuffer  Source = "buffer"
)

// FlagOverrides holds command-line flag values.
type FlagOverrides struct {
	Domain  string
	Port    int
	Version string
	Email   string
	Format  string
}

// Default returns the default configuration.
func Default() *Config {
	return &Config{
		Domain:  DefaultDomain,
		Port:    DefaultPort,
		Version: DefaultVersion,
		Sources: make(map[string]string),
	}
}

// Load loads configuration from all sources with proper precedence.
// Precedence: flags > env > global file > defaults.
func Load(overrides FlagOverrides) (*Config, error) {
	cfg := Default()
	loadFromFile(cfg, GlobalConfigPath())
	LoadFromEnv(cfg)
	ApplyOverrides(cfg, overrides)
	return cfg, nil
}

// fileConfig mirrors Config with pointer fields so absent keys are
// distinguishable from zero values.
type fileConfig struct {
	Domain   *string `yaml:"domain"`
	Port     *int    `yaml:"port"`
	Version  *string `yaml:"version"`
	Email    *string `yaml:"email"`
	Password *string `yaml:"password"`
	Format   *string `yaml:"format"`
}

func loadFromFile(cfg *Config, path string) {
	data, err := os.ReadFile(path) //nolint:gosec // G304: Path is from trusted config locations
	if err != nil {
		return // File doesn't exist, skip
	}

	var fc fileConfig
	if err := yaml.Unmarshal(data, &fc); err != nil {
		fmt.Fprintf(os.Stderr, "warning: skipping malformed config at %s: %v\n", path, err)
		return
	}

	if fc.Domain != nil && *fc.Domain != "" {
		cfg.Domain = *fc.Domain
		cfg.Sources["domain"] = string(SourceGlobal)
	}
	if fc.Port != nil && *fc.Port > 0 {
		cfg.Port = *fc.Port
		cfg.Sources["port"] = string(SourceGlobal)
	}
	if fc.Version != nil && *fc.Version != "" {
		cfg.Version = *fc.Version
		cfg.Sources["version"] = string(SourceGlobal)
	}
	if fc.Email != nil && *fc.Email != "" {
		cfg.Email = *fc.Email
		cfg.Sources["email"] = string(SourceGlobal)
	}
	if fc.Password != nil && *fc.Password != "" {
		cfg.Password = *fc.Password
		cfg.Sources["password"] = string(SourceGlobal)
	}
	if fc.Format != nil && *fc.Format != "" {
		cfg.Format = *fc.Format
		cfg.Sources["format"] = string(SourceGlobal)
	}
}

// LoadFromEnv loads configuration from environment variables.
func LoadFromEnv(cfg *Config) {
	if v := os.Getenv("ATOMX_DOMAIN"); v != "" {
		cfg.Domain = v
		cfg.Sources["domain"] = string(SourceEnv)
	}
	if v := os.Getenv("ATOMX_PORT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.Port = n
			cfg.Sources["port"] = string(SourceEnv)
		} else {
			fmt.Fprintf(os.Stderr, "warning: ignoring invalid ATOMX_PORT %q\n", v)
		}
	}
	if v := os.Getenv("ATOMX_API_VERSION"); v != "" {
		cfg.Version = v
		cfg.Sources["version"] = string(SourceEnv)
	}
	if v := os.Getenv("ATOMX_EMAIL"); v != "" {
		cfg.Email = v
		cfg.Sources["email"] = string(SourceEnv)
	}
	if v := os.Getenv("ATOMX_PASSWORD"); v != "" {
		cfg.Password = v
		cfg.Sources["password"] = string(SourceEnv)
	}
}

// ApplyOverrides applies non-empty flag overrides to cfg.
func ApplyOverrides(cfg *Config, o FlagOverrides) {
	if o.Domain != "" {
		cfg.Domain = o.Domain
		cfg.Sources["domain"] = string(SourceFlag)
	}
	if o.Port > 0 {
		cfg.Port = o.Port
		cfg.Sources["port"] = string(SourceFlag)
	}
	if o.Version != "" {
		cfg.Version = o.Version
		cfg.Sources["version"] = string(SourceFlag)
	}
	if o.Email != "" {
		cfg.Email = o.Email
		cfg.Sources["email"] = string(SourceFlag)
	}
	if o.Format != "" {
		cfg.Format = o.Format
		cfg.Sources["format"] = string(SourceFlag)
	}
}

// Endpoint builds the descriptor for the current settings. Called per
// request so later overrides (flags, buffer extraction) take effect.
func (cfg *Config) Endpoint() endpoint.Descriptor {
	return endpoint.Descriptor{
		Domain:  cfg.Domain,
		Port:    cfg.Port,
		Version: cfg.Version,
	}
}

// ApplyEndpoint overrides domain/port/version with values extracted from a
// request buffer's :api declaration.
func (cfg *Config) ApplyEndpoint(d endpoint.Descriptor) {
	cfg.Domain = d.Domain
	cfg.Port = d.Port
	cfg.Version = d.Version
	cfg.Sources["domain"] = string(SourceBuffer)
	cfg.Sources["port"] = string(SourceBuffer)
	cfg.Sources["version"] = string(SourceBuffer)
}

// Path helpers

// GlobalConfigDir returns the global config directory path.
func GlobalConfigDir() string {
	configDir := os.Getenv("XDG_CONFIG_HOME")
	if configDir == "" {
		home, _ := os.UserHomeDir()
		configDir = filepath.Join(home, ".config")
	}
	return filepath.Join(configDir, "atomx")
}

// GlobalConfigPath returns the global config file path.
func GlobalConfigPath() string {
	return filepath.Join(GlobalConfigDir(), "config.yml")
}
