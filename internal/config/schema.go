package config

import "time"

// Config holds navigator configuration.
// Stored at: ~/.navigator/config.yaml
type Config struct {
	LLMProviders map[string]LLMProviderCfg `mapstructure:"llm_providers" yaml:"llm_providers"`
	Defaults     DefaultsCfg               `mapstructure:"defaults" yaml:"defaults"`
	Flows        map[string]FlowCfg        `mapstructure:"flows" yaml:"flows,omitempty"`
}

// LLMProviderCfg configures an LLM provider.
type LLMProviderCfg struct {
	Type      string  `mapstructure:"type" yaml:"type"`                     // "gemini", "openai", "openrouter", "mock"
	Model     string  `mapstructure:"model" yaml:"model"`                   // Model name
	APIKey    string  `mapstructure:"api_key" yaml:"api_key"`               // API key (supports ${ENV_VAR} syntax)
	BaseURL   string  `mapstructure:"base_url" yaml:"base_url,omitempty"`   // Endpoint override
	RateLimit float64 `mapstructure:"rate_limit" yaml:"rate_limit"`         // Requests per second, 0 disables
	Enabled   bool    `mapstructure:"enabled" yaml:"enabled"`
}

// DefaultsCfg holds workspace-wide defaults.
type DefaultsCfg struct {
	LLMProvider      string        `mapstructure:"llm_provider" yaml:"llm_provider"`           // Default LLM provider
	OrganizationType string        `mapstructure:"organization_type" yaml:"organization_type"` // "school" or "nonprofit"
	MaxRetries       int           `mapstructure:"max_retries" yaml:"max_retries"`             // Extra attempts on 429/5xx, 0 disables
	RequestTimeout   time.Duration `mapstructure:"request_timeout" yaml:"request_timeout"`     // Per-call timeout, 0 disables
}

// FlowCfg overrides provider selection for one flow.
type FlowCfg struct {
	Provider string `mapstructure:"provider" yaml:"provider,omitempty"`
	Model    string `mapstructure:"model" yaml:"model,omitempty"`
}

// DefaultConfig returns configuration with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		LLMProviders: map[string]LLMProviderCfg{
			"gemini": {
				Type:    "gemini",
				Model:   "gemini-2.5-flash",
				APIKey:  "${GEMINI_API_KEY}",
				Enabled: true,
			},
			"openai": {
				Type:   "openai",
				Model:  "gpt-4o-mini",
				APIKey: "${OPENAI_API_KEY}",
			},
			"openrouter": {
				Type:      "openrouter",
				Model:     "google/gemini-2.5-flash",
				APIKey:    "${OPENROUTER_API_KEY}",
				RateLimit: 2,
			},
		},
		Defaults: DefaultsCfg{
			LLMProvider:      "gemini",
			OrganizationType: "school",
		},
		Flows: map[string]FlowCfg{},
	}
}

// GetLLMProvider returns an LLM provider config by name.
func (c *Config) GetLLMProvider(name string) (LLMProviderCfg, bool) {
	cfg, ok := c.LLMProviders[name]
	return cfg, ok
}

// EnabledLLMProviders returns all enabled LLM providers.
func (c *Config) EnabledLLMProviders() map[string]LLMProviderCfg {
	result := make(map[string]LLMProviderCfg)
	for name, cfg := range c.LLMProviders {
		if cfg.Enabled {
			result[name] = cfg
		}
	}
	return result
}
