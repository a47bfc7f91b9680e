package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write config file: %v", err)
	}
	return path
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	gemini, ok := cfg.GetLLMProvider("gemini")
	if !ok || !gemini.Enabled {
		t.Fatal("expected gemini to be enabled by default")
	}
	if gemini.APIKey != "${GEMINI_API_KEY}" {
		t.Errorf("expected gemini API key placeholder, got %q", gemini.APIKey)
	}
	if cfg.Defaults.LLMProvider != "gemini" {
		t.Errorf("expected default provider gemini, got %q", cfg.Defaults.LLMProvider)
	}
	if cfg.Defaults.OrganizationType != "school" {
		t.Errorf("expected organization type school, got %q", cfg.Defaults.OrganizationType)
	}
	if got := len(cfg.EnabledLLMProviders()); got != 1 {
		t.Errorf("expected 1 enabled provider, got %d", got)
	}
}

func TestResolveEnvVars(t *testing.T) {
	t.Run("resolves environment variable", func(t *testing.T) {
		t.Setenv("TEST_API_KEY", "secret123")
		if got := ResolveEnvVars("${TEST_API_KEY}"); got != "secret123" {
			t.Errorf("expected secret123, got %s", got)
		}
	})

	t.Run("returns empty for missing env var", func(t *testing.T) {
		if got := ResolveEnvVars("${DEFINITELY_NOT_SET_12345}"); got != "" {
			t.Errorf("expected empty string, got %s", got)
		}
	})

	t.Run("leaves literal values unchanged", func(t *testing.T) {
		if got := ResolveEnvVars("literal-value"); got != "literal-value" {
			t.Errorf("expected literal-value, got %s", got)
		}
	})

	t.Run("expands embedded references", func(t *testing.T) {
		t.Setenv("TEST_HOST", "example.com")
		if got := ResolveEnvVars("https://${TEST_HOST}/v1"); got != "https://example.com/v1" {
			t.Errorf("expected expanded URL, got %s", got)
		}
	})
}

func TestNewManager(t *testing.T) {
	t.Run("loads from config file", func(t *testing.T) {
		path := writeConfig(t, `
llm_providers:
  gemini:
    api_key: "literal-key"
    model: "gemini-2.5-pro"
defaults:
  organization_type: nonprofit
  request_timeout: 45s
flows:
  legal:
    provider: openai
`)
		mgr, err := NewManager(path)
		if err != nil {
			t.Fatalf("failed to create manager: %v", err)
		}

		cfg := mgr.Get()
		gemini := cfg.LLMProviders["gemini"]
		if gemini.APIKey != "literal-key" || gemini.Model != "gemini-2.5-pro" {
			t.Errorf("unexpected gemini config: %+v", gemini)
		}
		// Fields absent from the file keep their defaults.
		if !gemini.Enabled || gemini.Type != "gemini" {
			t.Errorf("expected gemini defaults to be merged, got %+v", gemini)
		}
		if cfg.Defaults.OrganizationType != "nonprofit" {
			t.Errorf("expected nonprofit, got %q", cfg.Defaults.OrganizationType)
		}
		if cfg.Defaults.RequestTimeout != 45*time.Second {
			t.Errorf("expected 45s timeout, got %v", cfg.Defaults.RequestTimeout)
		}
		if cfg.Flows["legal"].Provider != "openai" {
			t.Errorf("expected legal flow override, got %+v", cfg.Flows["legal"])
		}
		if mgr.ConfigFile() != path {
			t.Errorf("expected config file %s, got %s", path, mgr.ConfigFile())
		}
	})

	t.Run("missing file in search path uses defaults", func(t *testing.T) {
		mgr, err := NewManager("", t.TempDir())
		if err != nil {
			t.Fatalf("failed to create manager: %v", err)
		}
		if mgr.Get().Defaults.LLMProvider != "gemini" {
			t.Errorf("expected default provider, got %q", mgr.Get().Defaults.LLMProvider)
		}
	})

	t.Run("environment overrides file", func(t *testing.T) {
		t.Setenv("NAVIGATOR_DEFAULTS_LLM_PROVIDER", "openai")
		t.Setenv("NAVIGATOR_LLM_PROVIDERS_OPENAI_ENABLED", "true")
		mgr, err := NewManager(writeConfig(t, "defaults:\n  llm_provider: gemini\n"))
		if err != nil {
			t.Fatalf("failed to create manager: %v", err)
		}
		cfg := mgr.Get()
		if cfg.Defaults.LLMProvider != "openai" {
			t.Errorf("expected env override openai, got %q", cfg.Defaults.LLMProvider)
		}
		if !cfg.LLMProviders["openai"].Enabled {
			t.Error("expected openai to be enabled from env")
		}
	})

	t.Run("malformed file is an error", func(t *testing.T) {
		if _, err := NewManager(writeConfig(t, "defaults: [unclosed\n")); err == nil {
			t.Fatal("expected error for malformed config")
		}
	})
}

func TestToProviderRegistryConfig(t *testing.T) {
	t.Setenv("TEST_GEMINI_KEY", "g-key")
	cfg := &Config{
		LLMProviders: map[string]LLMProviderCfg{
			"gemini": {Type: "gemini", Model: "m", APIKey: "${TEST_GEMINI_KEY}", RateLimit: 1.5, Enabled: true},
		},
	}

	got := cfg.ToProviderRegistryConfig().LLMProviders["gemini"]
	if got.APIKey != "g-key" {
		t.Errorf("expected resolved key, got %q", got.APIKey)
	}
	if got.RateLimit != 1.5 || !got.Enabled || got.Model != "m" {
		t.Errorf("unexpected provider config: %+v", got)
	}
}

func TestToGenerateConfig(t *testing.T) {
	cfg := &Config{
		Defaults: DefaultsCfg{LLMProvider: "openai", MaxRetries: 2, RequestTimeout: time.Minute},
		Flows:    map[string]FlowCfg{"risk": {Provider: "gemini", Model: "gemini-2.5-pro"}},
	}

	got := cfg.ToGenerateConfig()
	if got.DefaultProvider != "openai" || got.MaxRetries != 2 || got.Timeout != time.Minute {
		t.Errorf("unexpected generate config: %+v", got)
	}
	if got.Flows["risk"].Model != "gemini-2.5-pro" {
		t.Errorf("expected risk flow model override, got %+v", got.Flows["risk"])
	}
}

func TestManager_OnChange(t *testing.T) {
	mgr, err := NewManager(writeConfig(t, "defaults:\n  llm_provider: gemini\n"))
	if err != nil {
		t.Fatalf("failed to create manager: %v", err)
	}

	var calls []string
	mgr.OnChange(func(cfg *Config) { calls = append(calls, "a:"+cfg.Defaults.LLMProvider) })
	mgr.OnChange(func(cfg *Config) { calls = append(calls, "b:"+cfg.Defaults.LLMProvider) })

	if err := mgr.Set("defaults.llm_provider", "openai"); err != nil {
		t.Fatalf("Set: %v", err)
	}

	if diff := cmp.Diff([]string{"a:openai", "b:openai"}, calls); diff != "" {
		t.Errorf("callbacks mismatch (-want +got):\n%s", diff)
	}
	if mgr.Get().Defaults.LLMProvider != "openai" {
		t.Errorf("expected openai after Set, got %q", mgr.Get().Defaults.LLMProvider)
	}
}

func TestManager_Get_ThreadSafe(t *testing.T) {
	mgr, err := NewManager(writeConfig(t, "defaults:\n  llm_provider: gemini\n"))
	if err != nil {
		t.Fatalf("failed to create manager: %v", err)
	}

	done := make(chan struct{})
	for i := 0; i < 10; i++ {
		go func() {
			for j := 0; j < 100; j++ {
				_ = mgr.Get().Defaults.LLMProvider
			}
			done <- struct{}{}
		}()
	}
	for i := 0; i < 5; i++ {
		if err := mgr.Set("defaults.max_retries", i); err != nil {
			t.Errorf("Set: %v", err)
		}
	}
	for i := 0; i < 10; i++ {
		<-done
	}
}

func TestWriteDefault(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := WriteDefault(path); err != nil {
		t.Fatalf("WriteDefault: %v", err)
	}

	mgr, err := NewManager(path)
	if err != nil {
		t.Fatalf("failed to load written config: %v", err)
	}
	if diff := cmp.Diff(DefaultConfig().LLMProviders, mgr.Get().LLMProviders); diff != "" {
		t.Errorf("round-tripped providers mismatch (-want +got):\n%s", diff)
	}
}

func TestSettings(t *testing.T) {
	t.Run("validate key", func(t *testing.T) {
		tests := []struct {
			key   string
			valid bool
		}{
			{"defaults.llm_provider", true},
			{"llm_providers.gemini.api_key", true},
			{"", false},
			{"Defaults.LLM", false},
			{"defaults..x", false},
			{"defaults.x; drop", false},
		}
		for _, tt := range tests {
			err := ValidateKey(tt.key)
			if tt.valid && err != nil {
				t.Errorf("ValidateKey(%q) = %v, want nil", tt.key, err)
			}
			if !tt.valid && !errors.Is(err, ErrInvalidKey) {
				t.Errorf("ValidateKey(%q) = %v, want ErrInvalidKey", tt.key, err)
			}
		}
	})

	t.Run("set rejects unknown keys", func(t *testing.T) {
		mgr, err := NewManager("", t.TempDir())
		if err != nil {
			t.Fatalf("failed to create manager: %v", err)
		}
		if err := mgr.Set("defaults.colour", "blue"); !errors.Is(err, ErrUnknownKey) {
			t.Errorf("expected ErrUnknownKey, got %v", err)
		}
		if err := mgr.Set("BAD KEY", 1); !errors.Is(err, ErrInvalidKey) {
			t.Errorf("expected ErrInvalidKey, got %v", err)
		}
	})

	t.Run("set converts values", func(t *testing.T) {
		mgr, err := NewManager("", t.TempDir())
		if err != nil {
			t.Fatalf("failed to create manager: %v", err)
		}
		if err := mgr.Set("defaults.request_timeout", "30s"); err != nil {
			t.Fatalf("Set: %v", err)
		}
		if err := mgr.Set("llm_providers.openai.enabled", true); err != nil {
			t.Fatalf("Set: %v", err)
		}
		cfg := mgr.Get()
		if cfg.Defaults.RequestTimeout != 30*time.Second {
			t.Errorf("expected 30s, got %v", cfg.Defaults.RequestTimeout)
		}
		if !cfg.LLMProviders["openai"].Enabled {
			t.Error("expected openai enabled")
		}
	})

	t.Run("entries mask secrets", func(t *testing.T) {
		cfg := DefaultConfig()
		p := cfg.LLMProviders["openai"]
		p.APIKey = "sk-abcdef123456"
		cfg.LLMProviders["openai"] = p

		byKey := map[string]Entry{}
		for _, e := range Entries(cfg) {
			byKey[e.Key] = e
		}
		if got := byKey["llm_providers.openai.api_key"].Value; got != "****3456" {
			t.Errorf("expected masked key, got %v", got)
		}
		if got := byKey["llm_providers.gemini.api_key"].Value; got != "${GEMINI_API_KEY}" {
			t.Errorf("expected env reference to stay visible, got %v", got)
		}
		if got := byKey["defaults.organization_type"].Value; got != "school" {
			t.Errorf("expected school, got %v", got)
		}
	})

	t.Run("lookup", func(t *testing.T) {
		mgr, err := NewManager("", t.TempDir())
		if err != nil {
			t.Fatalf("failed to create manager: %v", err)
		}
		if _, ok := mgr.Lookup("defaults.llm_provider"); !ok {
			t.Error("expected defaults.llm_provider entry")
		}
		if _, ok := mgr.Lookup("defaults.nope"); ok {
			t.Error("expected miss for unknown key")
		}
	})
}
