package config

import (
	"errors"
	"fmt"
	"regexp"
	"sort"
	"strings"
)

// ErrInvalidKey is returned when a settings key fails validation.
var ErrInvalidKey = errors.New("invalid settings key")

// ErrUnknownKey is returned when a settings key is well formed but not
// recognized.
var ErrUnknownKey = errors.New("unknown settings key")

var validKeyPattern = regexp.MustCompile(`^[a-z][a-z0-9_]*(\.[a-z0-9][a-z0-9_]*)*$`)

// ValidateKey checks that a key is a dotted lowercase path.
func ValidateKey(key string) error {
	if key == "" {
		return fmt.Errorf("%w: key cannot be empty", ErrInvalidKey)
	}
	if len(key) > 256 {
		return fmt.Errorf("%w: key too long (max 256 characters)", ErrInvalidKey)
	}
	if !validKeyPattern.MatchString(key) {
		return fmt.Errorf("%w: key must be lowercase dotted segments (e.g. defaults.llm_provider)", ErrInvalidKey)
	}
	return nil
}

// Entry is a single setting with its current value.
type Entry struct {
	Key         string `json:"key" yaml:"key"`
	Value       any    `json:"value" yaml:"value"`
	Description string `json:"description,omitempty" yaml:"description,omitempty"`
	Secret      bool   `json:"secret,omitempty" yaml:"secret,omitempty"`
}

// providerFields are the settable fields of each llm_providers entry.
var providerFields = map[string]string{
	"type":       "Provider type (gemini, openai, openrouter, mock)",
	"model":      "Model name",
	"api_key":    "API key (supports ${ENV_VAR} syntax)",
	"base_url":   "Endpoint override",
	"rate_limit": "Requests per second, 0 disables",
	"enabled":    "Whether the provider is registered",
}

var defaultsFields = map[string]string{
	"llm_provider":      "Provider used when a flow has no override",
	"organization_type": "Organization context for solutions (school, nonprofit)",
	"max_retries":       "Extra attempts on rate limit or server errors",
	"request_timeout":   "Per-call timeout (e.g. 30s), 0 disables",
}

// Entries flattens a config into sorted settings entries. API keys are
// masked unless they are ${ENV_VAR} references.
func Entries(cfg *Config) []Entry {
	var out []Entry
	for name, p := range cfg.LLMProviders {
		prefix := "llm_providers." + name + "."
		values := map[string]any{
			"type":       p.Type,
			"model":      p.Model,
			"api_key":    MaskSecret(p.APIKey),
			"base_url":   p.BaseURL,
			"rate_limit": p.RateLimit,
			"enabled":    p.Enabled,
		}
		for field, desc := range providerFields {
			out = append(out, Entry{
				Key:         prefix + field,
				Value:       values[field],
				Description: desc,
				Secret:      field == "api_key",
			})
		}
	}

	d := cfg.Defaults
	values := map[string]any{
		"llm_provider":      d.LLMProvider,
		"organization_type": d.OrganizationType,
		"max_retries":       d.MaxRetries,
		"request_timeout":   d.RequestTimeout.String(),
	}
	for field, desc := range defaultsFields {
		out = append(out, Entry{Key: "defaults." + field, Value: values[field], Description: desc})
	}

	for name, f := range cfg.Flows {
		out = append(out,
			Entry{Key: "flows." + name + ".provider", Value: f.Provider, Description: "Provider override for the " + name + " flow"},
			Entry{Key: "flows." + name + ".model", Value: f.Model, Description: "Model override for the " + name + " flow"},
		)
	}

	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	return out
}

// MaskSecret hides literal secrets, leaving ${ENV_VAR} references readable.
func MaskSecret(s string) string {
	if s == "" || envVarPattern.FindString(s) == s {
		return s
	}
	if len(s) <= 4 {
		return "****"
	}
	return "****" + s[len(s)-4:]
}

// Settable reports whether key names a recognized setting.
func Settable(key string) bool {
	parts := strings.Split(key, ".")
	switch {
	case len(parts) == 2 && parts[0] == "defaults":
		_, ok := defaultsFields[parts[1]]
		return ok
	case len(parts) == 3 && parts[0] == "llm_providers":
		_, ok := providerFields[parts[2]]
		return ok
	case len(parts) == 3 && parts[0] == "flows":
		return parts[2] == "provider" || parts[2] == "model"
	}
	return false
}

// Set applies a runtime override and notifies OnChange callbacks. Overrides
// live in memory only; the config file is not rewritten.
func (cm *Manager) Set(key string, value any) error {
	if err := ValidateKey(key); err != nil {
		return err
	}
	if !Settable(key) {
		return fmt.Errorf("%w: %s", ErrUnknownKey, key)
	}
	cm.v.Set(key, value)
	if err := cm.reload(); err != nil {
		return fmt.Errorf("failed to apply %s: %w", key, err)
	}
	cm.logger.Info("setting updated", "key", key)
	return nil
}

// Lookup returns the entry for a key.
func (cm *Manager) Lookup(key string) (Entry, bool) {
	for _, e := range Entries(cm.Get()) {
		if e.Key == key {
			return e, true
		}
	}
	return Entry{}, false
}
