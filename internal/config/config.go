// Package config loads the application configuration from an optional
// YAML file with LINKFORGE_* environment overrides.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/lepinkainen/link-forge/pkg/filesystem"
)

// Config holds the central application configuration.
type Config struct {
	// Server configuration
	Server struct {
		Port int `mapstructure:"port"` // HTTP listen port
	} `mapstructure:"server"`

	// Cache configuration
	Cache struct {
		Path string `mapstructure:"path"` // SQLite file path; empty disables caching
	} `mapstructure:"cache"`

	// Fetch configuration
	Fetch struct {
		TimeoutSeconds int `mapstructure:"timeout_seconds"` // Per-request deadline
	} `mapstructure:"fetch"`

	Debug bool `mapstructure:"debug"` // Enable debug logging
}

// Timeout returns the per-request deadline as a duration.
func (c *Config) Timeout() time.Duration {
	return time.Duration(c.Fetch.TimeoutSeconds) * time.Second
}

// CacheEnabled reports whether a cache path is configured.
func (c *Config) CacheEnabled() bool {
	return c.Cache.Path != ""
}

// LoadConfig loads the configuration from a file. A missing file is fine,
// defaults and environment variables still apply.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		path = "config.yaml"
	}

	// If path is relative, try current directory first, then executable directory
	if !filepath.IsAbs(path) {
		if _, err := os.Stat(path); err != nil {
			if execPath, err := filesystem.GetDefaultPath(path); err == nil {
				if _, err := os.Stat(execPath); err == nil {
					path = execPath
				}
			}
		}
	}

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	v.SetDefault("server.port", 8080)
	v.SetDefault("cache.path", "linkforge-cache.db")
	v.SetDefault("fetch.timeout_seconds", 8)
	v.SetDefault("debug", false)

	// LINKFORGE_SERVER_PORT, LINKFORGE_CACHE_PATH, ...
	v.SetEnvPrefix("LINKFORGE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		// A missing config file is fine, anything else is not.
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok && !os.IsNotExist(err) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	if config.Fetch.TimeoutSeconds < 2 || config.Fetch.TimeoutSeconds > 10 {
		return nil, fmt.Errorf("fetch.timeout_seconds must be between 2 and 10, got %d", config.Fetch.TimeoutSeconds)
	}

	return &config, nil
}
