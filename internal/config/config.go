// Package config loads application settings from an optional YAML file with
// environment-variable overrides on top of built-in defaults.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	configPathEnv = "TELLME_CONFIG"
	dbPathEnv     = "TELLME_DB"
	serverAddrEnv = "TELLME_ADDR"
	logLevelEnv   = "TELLME_LOG_LEVEL"
)

// Config holds high-level settings required across the application.
type Config struct {
	Database DatabaseConfig `yaml:"database"`
	Fetcher  FetcherConfig  `yaml:"fetcher"`
	Server   ServerConfig   `yaml:"server"`
	Quality  QualityConfig  `yaml:"quality"`
	Logging  LoggingConfig  `yaml:"logging"`
}

// DatabaseConfig describes where the SQLite file lives.
type DatabaseConfig struct {
	Path string `yaml:"path"`
}

// FetcherConfig controls the encyclopedia fetch run.
type FetcherConfig struct {
	UserAgent     string `yaml:"userAgent"`
	UnitsPerTopic int    `yaml:"unitsPerTopic"`
	RateLimitMS   int    `yaml:"rateLimitMs"`
}

// RateLimit returns the politeness delay between API requests.
func (f FetcherConfig) RateLimit() time.Duration {
	return time.Duration(f.RateLimitMS) * time.Millisecond
}

// ServerConfig describes the web front end listener.
type ServerConfig struct {
	Addr string `yaml:"addr"`
}

// QualityConfig parameterizes the ingestion quality policy.
type QualityConfig struct {
	Enabled  bool     `yaml:"enabled"`
	Engaging []string `yaml:"engaging"`
	Dull     []string `yaml:"dull"`
	MinScore int      `yaml:"minScore"`
}

// LoggingConfig selects verbosity.
type LoggingConfig struct {
	Level string `yaml:"level"`
}

// Load reads YAML configuration (if present) and applies environment
// overrides. A broken config file is an error rather than a silent
// fallback.
func Load() (Config, error) {
	cfg := Default()

	if path := os.Getenv(configPathEnv); path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("config: read %s: %w", path, err)
		}
		if err := yaml.Unmarshal(raw, &cfg); err != nil {
			return Config{}, fmt.Errorf("config: parse %s: %w", path, err)
		}
	}

	cfg.applyEnvOverrides()
	return cfg, nil
}

// LoadFile reads one specific YAML file over the defaults.
func LoadFile(path string) (Config, error) {
	cfg := Default()

	raw, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("config: read %s: %w", path, err)
	}
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return Config{}, fmt.Errorf("config: parse %s: %w", path, err)
	}

	cfg.applyEnvOverrides()
	return cfg, nil
}

func (c *Config) applyEnvOverrides() {
	if v := os.Getenv(dbPathEnv); v != "" {
		c.Database.Path = v
	}
	if v := os.Getenv(serverAddrEnv); v != "" {
		c.Server.Addr = v
	}
	if v := os.Getenv(logLevelEnv); v != "" {
		c.Logging.Level = v
	}
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Database: DatabaseConfig{Path: "tellme_data/tellme.db"},
		Fetcher: FetcherConfig{
			UserAgent:     "",
			UnitsPerTopic: 150,
			RateLimitMS:   500,
		},
		Server:  ServerConfig{Addr: "127.0.0.1:3000"},
		Quality: QualityConfig{Enabled: false},
		Logging: LoggingConfig{Level: "info"},
	}
}
