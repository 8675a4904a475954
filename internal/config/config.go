// Package config loads the CLI configuration from .sakura-comments.yml with
// SAKURA_* environment overrides.
package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	yamlv3 "gopkg.in/yaml.v3"
)

// Config is the top-level configuration, corresponding to .sakura-comments.yml.
type Config struct {
	// APIURL is the base URL of the comments API, e.g. "https://blog.example.com/api".
	APIURL string `yaml:"api_url" koanf:"api_url"`
	// TurnstileSiteKey enables the human-verification gate for send/resend.
	// Empty disables the gate; loopback API hosts bypass it regardless.
	TurnstileSiteKey string `yaml:"turnstile_site_key" koanf:"turnstile_site_key"`
	// DefaultSlug is used when a command is not given a post slug.
	DefaultSlug string `yaml:"default_slug" koanf:"default_slug"`
	// TimeoutSeconds bounds every API request.
	TimeoutSeconds int `yaml:"timeout_seconds" koanf:"timeout_seconds"`
	// DataDir holds the session file and the drafts database.
	DataDir string `yaml:"data_dir" koanf:"data_dir"`
}

// DefaultConfig returns the built-in defaults.
func DefaultConfig() *Config {
	return &Config{
		TimeoutSeconds: 15,
	}
}

// Load reads configuration from the given YAML file, then overlays
// environment variable overrides (SAKURA_*).
func Load(path string) (*Config, error) {
	k := koanf.New(".")

	cfg := DefaultConfig()

	if _, err := os.Stat(path); err == nil {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("reading config %s: %w", path, err)
		}
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("accessing config %s: %w", path, err)
	}

	// SAKURA_API_URL -> api_url, etc.
	if err := k.Load(env.Provider("SAKURA_", ".", func(s string) string {
		return strings.ToLower(strings.TrimPrefix(s, "SAKURA_"))
	}), nil); err != nil {
		return nil, fmt.Errorf("loading env overrides: %w", err)
	}

	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("unmarshalling config: %w", err)
	}

	return cfg, nil
}

// Save writes the configuration to the given YAML file path.
func (c *Config) Save(path string) error {
	data, err := yamlv3.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshalling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config to %s: %w", path, err)
	}
	return nil
}

// Validate checks that the configuration contains usable values.
func (c *Config) Validate() error {
	if c.APIURL == "" {
		return fmt.Errorf("api_url is required (run 'sakura-comments init')")
	}
	u, err := url.Parse(c.APIURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("api_url %q is not a valid http(s) URL", c.APIURL)
	}
	if c.TimeoutSeconds <= 0 {
		return fmt.Errorf("timeout_seconds must be positive")
	}
	return nil
}

// Timeout returns the request timeout as a duration.
func (c *Config) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// ResolveDataDir returns the data directory, defaulting to
// ~/.sakura-comments when unset.
func (c *Config) ResolveDataDir() (string, error) {
	if c.DataDir != "" {
		return c.DataDir, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("getting home directory: %w", err)
	}
	return filepath.Join(home, ".sakura-comments"), nil
}

// SessionPath returns the session file location.
func (c *Config) SessionPath() (string, error) {
	dir, err := c.ResolveDataDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "session.json"), nil
}

// DraftsPath returns the drafts database location.
func (c *Config) DraftsPath() (string, error) {
	dir, err := c.ResolveDataDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "drafts.db"), nil
}
