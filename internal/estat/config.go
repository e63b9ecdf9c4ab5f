package estat

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// DefaultBaseURL is the JSON endpoint root of the e-Stat REST API.
const DefaultBaseURL = "https://api.e-stat.go.jp/rest/3.0/app/json"

// Config holds e-Stat API access parameters.
type Config struct {
	AppKey       string `toml:"app_key"`
	BaseURL      string `toml:"base_url"`
	Timeout      string `toml:"timeout"`
	FetchLimit   int    `toml:"fetch_limit"`
	SearchLimit  int    `toml:"search_limit"`
	DecodeRowCap int    `toml:"decode_row_cap"`
}

// Env maps config fields to environment variable names for override injection.
type Env struct {
	AppKey       string
	BaseURL      string
	Timeout      string
	FetchLimit   string
	SearchLimit  string
	DecodeRowCap string
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
	if overlay.AppKey != "" {
		c.AppKey = overlay.AppKey
	}
	if overlay.BaseURL != "" {
		c.BaseURL = overlay.BaseURL
	}
	if overlay.Timeout != "" {
		c.Timeout = overlay.Timeout
	}
	if overlay.FetchLimit != 0 {
		c.FetchLimit = overlay.FetchLimit
	}
	if overlay.SearchLimit != 0 {
		c.SearchLimit = overlay.SearchLimit
	}
	if overlay.DecodeRowCap != 0 {
		c.DecodeRowCap = overlay.DecodeRowCap
	}
}

func (c *Config) loadDefaults() {
	if c.BaseURL == "" {
		c.BaseURL = DefaultBaseURL
	}
	if c.Timeout == "" {
		c.Timeout = "30s"
	}
	if c.FetchLimit == 0 {
		c.FetchLimit = 100
	}
	if c.SearchLimit == 0 {
		c.SearchLimit = 10
	}
	if c.DecodeRowCap == 0 {
		c.DecodeRowCap = 50
	}
}

func (c *Config) loadEnv(env *Env) {
	if env.AppKey != "" {
		if v := os.Getenv(env.AppKey); v != "" {
			c.AppKey = v
		}
	}
	if env.BaseURL != "" {
		if v := os.Getenv(env.BaseURL); v != "" {
			c.BaseURL = v
		}
	}
	if env.Timeout != "" {
		if v := os.Getenv(env.Timeout); v != "" {
			c.Timeout = v
		}
	}
	if env.FetchLimit != "" {
		if v := os.Getenv(env.FetchLimit); v != "" {
			if n, err := strconv.Atoi(v); err == nil && n > 0 {
				c.FetchLimit = n
			}
		}
	}
	if env.SearchLimit != "" {
		if v := os.Getenv(env.SearchLimit); v != "" {
			if n, err := strconv.Atoi(v); err == nil && n > 0 {
				c.SearchLimit = n
			}
		}
	}
	if env.DecodeRowCap != "" {
		if v := os.Getenv(env.DecodeRowCap); v != "" {
			if n, err := strconv.Atoi(v); err == nil && n > 0 {
				c.DecodeRowCap = n
			}
		}
	}
}

func (c *Config) validate() error {
	if c.AppKey == "" {
		return fmt.Errorf("app_key required")
	}
	if _, err := time.ParseDuration(c.Timeout); err != nil {
		return fmt.Errorf("invalid timeout: %w", err)
	}
	return nil
}
