package config

import (
	"fmt"
	"os"

	gaconfig "github.com/JaimeStill/go-agents/pkg/config"
)

const (
	EnvAgentProviderName = "TOUKEI_AGENT_PROVIDER_NAME"
	EnvAgentBaseURL      = "TOUKEI_AGENT_BASE_URL"
	EnvAgentToken        = "TOUKEI_AGENT_TOKEN"
	EnvAgentDeployment   = "TOUKEI_AGENT_DEPLOYMENT"
	EnvAgentAPIVersion   = "TOUKEI_AGENT_API_VERSION"
	EnvAgentAuthType     = "TOUKEI_AGENT_AUTH_TYPE"
	EnvAgentModelName    = "TOUKEI_AGENT_MODEL_NAME"
)

// AgentConfig mirrors the go-agents agent configuration with TOML field tags
// so it can live in the service config file alongside the other sections.
// ToAgent converts it for agent construction.
type AgentConfig struct {
	Name     string          `toml:"name"`
	Provider *ProviderConfig `toml:"provider"`
	Model    *ModelConfig    `toml:"model"`
}

// ProviderConfig holds LLM provider connection settings.
type ProviderConfig struct {
	Name    string         `toml:"name"`
	BaseURL string         `toml:"base_url"`
	Options map[string]any `toml:"options"`
}

// ModelConfig identifies the model served by the provider.
type ModelConfig struct {
	Name string `toml:"name"`
}

// ToAgent converts to the go-agents configuration type.
func (a *AgentConfig) ToAgent() gaconfig.AgentConfig {
	cfg := gaconfig.AgentConfig{Name: a.Name}
	if a.Provider != nil {
		cfg.Provider = &gaconfig.ProviderConfig{
			Name:    a.Provider.Name,
			BaseURL: a.Provider.BaseURL,
			Options: a.Provider.Options,
		}
	}
	if a.Model != nil {
		cfg.Model = &gaconfig.ModelConfig{Name: a.Model.Name}
	}
	return cfg
}

// Merge overwrites non-zero fields from overlay.
func (a *AgentConfig) Merge(overlay *AgentConfig) {
	if overlay.Name != "" {
		a.Name = overlay.Name
	}
	if overlay.Provider != nil {
		if a.Provider == nil {
			a.Provider = &ProviderConfig{}
		}
		if overlay.Provider.Name != "" {
			a.Provider.Name = overlay.Provider.Name
		}
		if overlay.Provider.BaseURL != "" {
			a.Provider.BaseURL = overlay.Provider.BaseURL
		}
		if overlay.Provider.Options != nil {
			a.Provider.Options = overlay.Provider.Options
		}
	}
	if overlay.Model != nil && overlay.Model.Name != "" {
		if a.Model == nil {
			a.Model = &ModelConfig{}
		}
		a.Model.Name = overlay.Model.Name
	}
}

// FinalizeAgent applies the service's three-phase finalize pattern: defaults
// from go-agents DefaultAgentConfig, environment variable overrides, and
// validation.
func FinalizeAgent(c *AgentConfig) error {
	loadAgentDefaults(c)
	loadAgentEnv(c)
	return validateAgent(c)
}

func loadAgentDefaults(c *AgentConfig) {
	defaults := gaconfig.DefaultAgentConfig()

	if c.Name == "" {
		c.Name = defaults.Name
	}
	if c.Provider == nil {
		c.Provider = &ProviderConfig{}
	}
	if defaults.Provider != nil {
		if c.Provider.Name == "" {
			c.Provider.Name = defaults.Provider.Name
		}
		if c.Provider.BaseURL == "" {
			c.Provider.BaseURL = defaults.Provider.BaseURL
		}
	}
	if c.Provider.Options == nil {
		c.Provider.Options = make(map[string]any)
	}
	if c.Model == nil {
		c.Model = &ModelConfig{}
	}
	if c.Model.Name == "" && defaults.Model != nil {
		c.Model.Name = defaults.Model.Name
	}
}

func loadAgentEnv(c *AgentConfig) {
	if v := os.Getenv(EnvAgentProviderName); v != "" {
		c.Provider.Name = v
	}
	if v := os.Getenv(EnvAgentBaseURL); v != "" {
		c.Provider.BaseURL = v
	}
	if v := os.Getenv(EnvAgentModelName); v != "" {
		c.Model.Name = v
	}

	setOption := func(envVar, key string) {
		if v := os.Getenv(envVar); v != "" {
			c.Provider.Options[key] = v
		}
	}

	setOption(EnvAgentToken, "token")
	setOption(EnvAgentDeployment, "deployment")
	setOption(EnvAgentAPIVersion, "api_version")
	setOption(EnvAgentAuthType, "auth_type")
}

func validateAgent(c *AgentConfig) error {
	if c.Name == "" {
		return fmt.Errorf("name required")
	}
	if c.Provider == nil || c.Provider.Name == "" {
		return fmt.Errorf("provider name required")
	}
	if c.Model == nil || c.Model.Name == "" {
		return fmt.Errorf("model name required")
	}
	return nil
}
