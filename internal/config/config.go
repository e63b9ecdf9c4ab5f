// Package config loads and finalizes the service configuration from TOML
// files, environment overlays, and environment variable overrides.
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/pelletier/go-toml/v2"

	"github.com/ymatsuda/toukei/internal/boundaries"
	"github.com/ymatsuda/toukei/internal/estat"
	"github.com/ymatsuda/toukei/pkg/database"
	"github.com/ymatsuda/toukei/pkg/storage"
)

const (
	BaseConfigFile       = "config.toml"
	OverlayConfigPattern = "config.%s.toml"

	EnvToukeiEnv             = "TOUKEI_ENV"
	EnvToukeiShutdownTimeout = "TOUKEI_SHUTDOWN_TIMEOUT"
	EnvToukeiVersion         = "TOUKEI_VERSION"
)

var databaseEnv = &database.Env{
	Host:            "TOUKEI_DB_HOST",
	Port:            "TOUKEI_DB_PORT",
	Name:            "TOUKEI_DB_NAME",
	User:            "TOUKEI_DB_USER",
	Password:        "TOUKEI_DB_PASSWORD",
	SSLMode:         "TOUKEI_DB_SSL_MODE",
	MaxOpenConns:    "TOUKEI_DB_MAX_OPEN_CONNS",
	MaxIdleConns:    "TOUKEI_DB_MAX_IDLE_CONNS",
	ConnMaxLifetime: "TOUKEI_DB_CONN_MAX_LIFETIME",
	ConnTimeout:     "TOUKEI_DB_CONN_TIMEOUT",
}

var storageEnv = &storage.Env{
	ContainerName:    "TOUKEI_STORAGE_CONTAINER_NAME",
	ConnectionString: "TOUKEI_STORAGE_CONNECTION_STRING",
}

var estatEnv = &estat.Env{
	AppKey:       "TOUKEI_ESTAT_APP_KEY",
	BaseURL:      "TOUKEI_ESTAT_BASE_URL",
	Timeout:      "TOUKEI_ESTAT_TIMEOUT",
	FetchLimit:   "TOUKEI_ESTAT_FETCH_LIMIT",
	SearchLimit:  "TOUKEI_ESTAT_SEARCH_LIMIT",
	DecodeRowCap: "TOUKEI_ESTAT_DECODE_ROW_CAP",
}

var boundariesEnv = &boundaries.Env{
	ContentsURL: "TOUKEI_BOUNDARIES_CONTENTS_URL",
	Timeout:     "TOUKEI_BOUNDARIES_TIMEOUT",
}

// Config is the root configuration for the statistics service.
type Config struct {
	Server          ServerConfig         `toml:"server"`
	Database        database.Config      `toml:"database"`
	Storage         storage.Config       `toml:"storage"`
	EStat           estat.Config         `toml:"estat"`
	Boundaries      boundaries.Config    `toml:"boundaries"`
	Agent           AgentConfig          `toml:"agent"`
	API             APIConfig            `toml:"api"`
	ShutdownTimeout string               `toml:"shutdown_timeout"`
	Version         string               `toml:"version"`
}

// Env returns the TOUKEI_ENV value, defaulting to "local".
func (c *Config) Env() string {
	if env := os.Getenv(EnvToukeiEnv); env != "" {
		return env
	}
	return "local"
}

// ShutdownTimeoutDuration returns ShutdownTimeout as a time.Duration.
func (c *Config) ShutdownTimeoutDuration() time.Duration {
	d, _ := time.ParseDuration(c.ShutdownTimeout)
	return d
}

// Load reads the base config (if present), applies any environment overlay,
// and finalizes all values. If no config.toml exists, defaults and environment
// variables provide all configuration.
func Load() (*Config, error) {
	cfg := &Config{}

	if _, err := os.Stat(BaseConfigFile); err == nil {
		loaded, err := load(BaseConfigFile)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	if path := overlayPath(); path != "" {
		overlay, err := load(path)
		if err != nil {
			return nil, fmt.Errorf("load overlay %s: %w", path, err)
		}
		cfg.Merge(overlay)
	}

	if err := cfg.finalize(); err != nil {
		return nil, fmt.Errorf("finalize config: %w", err)
	}

	return cfg, nil
}

// Merge overwrites non-zero fields from overlay across all sub-configs.
func (c *Config) Merge(overlay *Config) {
	if overlay.ShutdownTimeout != "" {
		c.ShutdownTimeout = overlay.ShutdownTimeout
	}
	if overlay.Version != "" {
		c.Version = overlay.Version
	}
	c.Server.Merge(&overlay.Server)
	c.Database.Merge(&overlay.Database)
	c.Storage.Merge(&overlay.Storage)
	c.EStat.Merge(&overlay.EStat)
	c.Boundaries.Merge(&overlay.Boundaries)
	c.Agent.Merge(&overlay.Agent)
	c.API.Merge(&overlay.API)
}

func (c *Config) finalize() error {
	c.loadDefaults()
	c.loadEnv()

	if err := c.validate(); err != nil {
		return err
	}
	if err := c.Server.Finalize(); err != nil {
		return fmt.Errorf("server: %w", err)
	}
	if err := c.Database.Finalize(databaseEnv); err != nil {
		return fmt.Errorf("database: %w", err)
	}
	if err := c.Storage.Finalize(storageEnv); err != nil {
		return fmt.Errorf("storage: %w", err)
	}
	if err := c.EStat.Finalize(estatEnv); err != nil {
		return fmt.Errorf("estat: %w", err)
	}
	if err := c.Boundaries.Finalize(boundariesEnv); err != nil {
		return fmt.Errorf("boundaries: %w", err)
	}
	if err := FinalizeAgent(&c.Agent); err != nil {
		return fmt.Errorf("agent: %w", err)
	}
	if err := c.API.Finalize(); err != nil {
		return fmt.Errorf("api: %w", err)
	}
	return nil
}

func (c *Config) loadDefaults() {
	if c.ShutdownTimeout == "" {
		c.ShutdownTimeout = "30s"
	}
	if c.Version == "" {
		c.Version = "0.1.0"
	}
}

func (c *Config) loadEnv() {
	if v := os.Getenv(EnvToukeiShutdownTimeout); v != "" {
		c.ShutdownTimeout = v
	}
	if v := os.Getenv(EnvToukeiVersion); v != "" {
		c.Version = v
	}
}

func (c *Config) validate() error {
	if _, err := time.ParseDuration(c.ShutdownTimeout); err != nil {
		return fmt.Errorf("invalid shutdown_timeout: %w", err)
	}
	return nil
}

func load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	var cfg Config
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	return &cfg, nil
}

func overlayPath() string {
	if env := os.Getenv(EnvToukeiEnv); env != "" {
		path := fmt.Sprintf(OverlayConfigPattern, env)
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}
