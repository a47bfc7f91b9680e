package generate

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/navigationiq/navigator/internal/content"
	"github.com/navigationiq/navigator/internal/llmcall"
	"github.com/navigationiq/navigator/internal/providers"
)

var answerSchema = map[string]any{
	"name":   "answer",
	"strict": true,
	"schema": map[string]any{
		"type": "object",
		"properties": map[string]any{
			"header": map[string]any{"type": "string"},
			"text":   map[string]any{"type": "string"},
		},
		"required": []string{"header", "text"},
	},
}

func newTestGenerator(t *testing.T, cfg Config, clients map[string]providers.LLMClient) (*Generator, *llmcall.Store) {
	t.Helper()
	reg := providers.NewRegistry()
	for name, c := range clients {
		reg.RegisterLLM(name, c)
	}
	store := llmcall.NewStore(0)
	return New(reg, llmcall.NewRecorder(store, nil), cfg, nil), store
}

func TestGenerate(t *testing.T) {
	t.Run("structured keeps key order", func(t *testing.T) {
		mock := providers.NewMockClient()
		mock.Latency = 0
		mock.ResponseJSON = json.RawMessage(`{"text":"See Section 3.4.","header":"Policy:"}`)
		g, store := newTestGenerator(t, Config{}, map[string]providers.LLMClient{"mock": mock})

		v, err := g.Generate(context.Background(), Request{
			Flow:        "risk",
			PromptKey:   "flows.risk.user",
			Prompt:      "assess",
			Schema:      answerSchema,
			Temperature: providers.Temperature(0.2),
		})
		if err != nil {
			t.Fatalf("Generate() error = %v", err)
		}
		obj, ok := v.(*content.Object)
		if !ok {
			t.Fatalf("Generate() = %T, want *content.Object", v)
		}
		if keys := obj.Keys(); len(keys) != 2 || keys[0] != "text" || keys[1] != "header" {
			t.Errorf("keys = %v, want [text header]", keys)
		}

		calls := store.List(llmcall.QueryFilter{})
		if len(calls) != 1 || calls[0].PromptKey != "flows.risk.user" || calls[0].Flow != "risk" {
			t.Errorf("recorded calls = %+v", calls)
		}
		if calls[0].Temperature == nil || *calls[0].Temperature != 0.2 {
			t.Errorf("recorded temperature = %v", calls[0].Temperature)
		}
	})

	t.Run("text", func(t *testing.T) {
		mock := providers.NewMockClient()
		mock.Latency = 0
		mock.ResponseText = "**Summary:**\nAll good."
		g, _ := newTestGenerator(t, Config{}, map[string]providers.LLMClient{"mock": mock})

		got, err := g.GenerateText(context.Background(), Request{Prompt: "q"})
		if err != nil {
			t.Fatalf("GenerateText() error = %v", err)
		}
		if got != "**Summary:**\nAll good." {
			t.Errorf("GenerateText() = %q", got)
		}
		if len(mock.LastRequest().Messages) != 1 {
			t.Errorf("messages = %+v, want only the user turn", mock.LastRequest().Messages)
		}
	})

	t.Run("system prompt goes first", func(t *testing.T) {
		mock := providers.NewMockClient()
		mock.Latency = 0
		g, _ := newTestGenerator(t, Config{}, map[string]providers.LLMClient{"mock": mock})

		if _, err := g.Generate(context.Background(), Request{System: "sys", Prompt: "user"}); err != nil {
			t.Fatalf("Generate() error = %v", err)
		}
		msgs := mock.LastRequest().Messages
		if len(msgs) != 2 || msgs[0].Role != "system" || msgs[1].Content != "user" {
			t.Errorf("messages = %+v", msgs)
		}
	})

	t.Run("schema mismatch is not repaired", func(t *testing.T) {
		mock := providers.NewMockClient()
		mock.Latency = 0
		mock.ResponseJSON = json.RawMessage(`{"header":"only"}`)
		g, store := newTestGenerator(t, Config{MaxRetries: 3, RetryDelay: time.Millisecond}, map[string]providers.LLMClient{"mock": mock})

		_, err := g.Generate(context.Background(), Request{Prompt: "x", Schema: answerSchema})
		if !errors.Is(err, ErrSchema) {
			t.Fatalf("Generate() error = %v, want ErrSchema", err)
		}
		if mock.RequestCount() != 1 {
			t.Errorf("RequestCount = %d, validation failures must not retry", mock.RequestCount())
		}
		if calls := store.List(llmcall.QueryFilter{}); len(calls) != 1 || calls[0].Success {
			t.Errorf("recorded calls = %+v", calls)
		}
	})

	t.Run("no provider", func(t *testing.T) {
		g, _ := newTestGenerator(t, Config{}, nil)
		if _, err := g.Generate(context.Background(), Request{Prompt: "x"}); !errors.Is(err, ErrNoProvider) {
			t.Errorf("Generate() error = %v, want ErrNoProvider", err)
		}
		if g.Available() {
			t.Error("Available() = true with empty registry")
		}

		bare := New(nil, nil, Config{}, nil)
		if _, err := bare.Generate(context.Background(), Request{}); !errors.Is(err, ErrNoProvider) {
			t.Errorf("Generate() error = %v, want ErrNoProvider", err)
		}
	})

	t.Run("unknown explicit provider", func(t *testing.T) {
		g, _ := newTestGenerator(t, Config{}, map[string]providers.LLMClient{"mock": providers.NewMockClient()})
		if _, err := g.Generate(context.Background(), Request{Provider: "gemini"}); !errors.Is(err, ErrNoProvider) {
			t.Errorf("Generate() error = %v, want ErrNoProvider", err)
		}
	})

	t.Run("503 is unavailable", func(t *testing.T) {
		mock := providers.NewMockClient()
		mock.ShouldFail = true
		mock.FailStatus = http.StatusServiceUnavailable
		g, _ := newTestGenerator(t, Config{}, map[string]providers.LLMClient{"mock": mock})

		_, err := g.Generate(context.Background(), Request{Prompt: "x"})
		if !IsUnavailable(err) {
			t.Errorf("IsUnavailable(%v) = false", err)
		}
		if mock.RequestCount() != 1 {
			t.Errorf("RequestCount = %d, default is a single attempt", mock.RequestCount())
		}
	})

	t.Run("opt-in retries", func(t *testing.T) {
		mock := providers.NewMockClient()
		mock.ShouldFail = true
		mock.FailStatus = http.StatusServiceUnavailable
		g, store := newTestGenerator(t, Config{MaxRetries: 2, RetryDelay: time.Millisecond}, map[string]providers.LLMClient{"mock": mock})

		_, err := g.Generate(context.Background(), Request{Prompt: "x"})
		if !IsUnavailable(err) {
			t.Errorf("IsUnavailable(%v) = false", err)
		}
		if mock.RequestCount() != 3 {
			t.Errorf("RequestCount = %d, want 3", mock.RequestCount())
		}
		if store.Len() != 3 {
			t.Errorf("recorded %d calls, want 3", store.Len())
		}
	})

	t.Run("cancellation", func(t *testing.T) {
		mock := providers.NewMockClient()
		mock.Latency = time.Minute
		g, _ := newTestGenerator(t, Config{}, map[string]providers.LLMClient{"mock": mock})

		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		if _, err := g.Generate(ctx, Request{Prompt: "x"}); !errors.Is(err, context.Canceled) {
			t.Errorf("Generate() error = %v, want context.Canceled", err)
		}
	})

	t.Run("timeout", func(t *testing.T) {
		mock := providers.NewMockClient()
		mock.Latency = time.Minute
		g, _ := newTestGenerator(t, Config{Timeout: 10 * time.Millisecond}, map[string]providers.LLMClient{"mock": mock})

		if _, err := g.Generate(context.Background(), Request{Prompt: "x"}); !errors.Is(err, context.DeadlineExceeded) {
			t.Errorf("Generate() error = %v, want context.DeadlineExceeded", err)
		}
	})
}

func TestSelectClient(t *testing.T) {
	a, b := providers.NewMockClient(), providers.NewMockClient()
	clients := map[string]providers.LLMClient{"alpha": a, "beta": b}

	tests := []struct {
		name      string
		cfg       Config
		req       Request
		want      providers.LLMClient
		wantModel string
	}{
		{"first registered", Config{}, Request{}, a, ""},
		{"default", Config{DefaultProvider: "beta"}, Request{}, b, ""},
		{"missing default falls back", Config{DefaultProvider: "gone"}, Request{}, a, ""},
		{"flow config", Config{DefaultProvider: "alpha", Flows: map[string]FlowConfig{"journal": {Provider: "beta", Model: "small"}}}, Request{Flow: "journal"}, b, "small"},
		{"request wins", Config{Flows: map[string]FlowConfig{"journal": {Provider: "beta", Model: "small"}}}, Request{Flow: "journal", Provider: "alpha"}, a, ""},
		{"request model", Config{}, Request{Provider: "beta", Model: "big"}, b, "big"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g, _ := newTestGenerator(t, tt.cfg, clients)
			got, model, err := g.selectClient(tt.cfg, tt.req)
			if err != nil {
				t.Fatalf("selectClient() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("selectClient() picked the wrong client")
			}
			if model != tt.wantModel {
				t.Errorf("model = %q, want %q", model, tt.wantModel)
			}
		})
	}
}

func TestResponseFormat(t *testing.T) {
	wrapped := map[string]any{"type": "json_schema", "json_schema": answerSchema}
	for name, schema := range map[string]map[string]any{"bare": answerSchema, "wrapped": wrapped} {
		t.Run(name, func(t *testing.T) {
			rf, err := ResponseFormat(schema)
			if err != nil {
				t.Fatalf("ResponseFormat() error = %v", err)
			}
			var got map[string]any
			if err := json.Unmarshal(rf.JSONSchema, &got); err != nil {
				t.Fatalf("unmarshal: %v", err)
			}
			if got["name"] != "answer" {
				t.Errorf("JSONSchema = %s", rf.JSONSchema)
			}
		})
	}
}
