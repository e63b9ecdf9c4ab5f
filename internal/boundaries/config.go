package boundaries

import (
	"fmt"
	"os"
	"time"
)

// DefaultContentsURL is the GitHub contents API root for the boundary
// source repository.
const DefaultContentsURL = "https://api.github.com/repos/niiyz/JapanCityGeoJson/contents/geojson"

// Config holds boundary source parameters.
type Config struct {
	ContentsURL string `toml:"contents_url"`
	Timeout     string `toml:"timeout"`
}

// Env maps config fields to environment variable names for override injection.
type Env struct {
	ContentsURL string
	Timeout     string
}

// TimeoutDuration returns Timeout as a time.Duration.
func (c *Config) TimeoutDuration() time.Duration {
	d, _ := time.ParseDuration(c.Timeout)
	return d
}

// Finalize applies defaults, environment variable overrides, and validation.
func (c *Config) Finalize(env *Env) error {
	c.loadDefaults()
	if env != nil {
		c.loadEnv(env)
	}
	return c.validate()
}

// Merge overwrites non-zero fields from overlay.
func (c *Config) Merge(overlay *Config) {
	if overlay.ContentsURL != "" {
		c.ContentsURL = overlay.ContentsURL
	}
	if overlay.Timeout != "" {
		c.Timeout = overlay.Timeout
	}
}

func (c *Config) loadDefaults() {
	if c.ContentsURL == "" {
		c.ContentsURL = DefaultContentsURL
	}
	if c.Timeout == "" {
		c.Timeout = "60s"
	}
}

func (c *Config) loadEnv(env *Env) {
	if env.ContentsURL != "" {
		if v := os.Getenv(env.ContentsURL); v != "" {
			c.ContentsURL = v
		}
	}
	if env.Timeout != "" {
		if v := os.Getenv(env.Timeout); v != "" {
			c.Timeout = v
		}
	}
}

func (c *Config) validate() error {
	if c.ContentsURL == "" {
		return fmt.Errorf("contents_url required")
	}
	if _, err := time.ParseDuration(c.Timeout); err != nil {
		return fmt.Errorf("invalid timeout: %w", err)
	}
	return nil
}
