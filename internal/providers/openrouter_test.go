package providers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"
)

func openRouterReply(content string) map[string]any {
	return map[string]any{
		"id":    "test-id",
		"model": "google/gemini-2.5-flash",
		"choices": []map[string]any{
			{
				"message":       map[string]any{"role": "assistant", "content": content},
				"finish_reason": "stop",
			},
		},
		"usage": map[string]any{
			"prompt_tokens":     10,
			"completion_tokens": 8,
			"total_tokens":      18,
			"cost":              0.0004,
		},
	}
}

func TestOpenRouterClient_Chat(t *testing.T) {
	t.Run("successful chat", func(t *testing.T) {
		var got openRouterRequest
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path != "/chat/completions" {
				t.Errorf("unexpected path: %s", r.URL.Path)
			}
			if r.Method != http.MethodPost {
				t.Errorf("unexpected method: %s", r.Method)
			}
			if auth := r.Header.Get("Authorization"); auth != "Bearer test-key" {
				t.Errorf("unexpected authorization: %s", auth)
			}
			json.NewDecoder(r.Body).Decode(&got)

			w.Header().Set("Content-Type", "application/json")
			json.NewEncoder(w).Encode(openRouterReply("Section 3.4 applies."))
		}))
		defer server.Close()

		client := NewOpenRouterClient(OpenRouterConfig{APIKey: "test-key", BaseURL: server.URL})

		result, err := client.Chat(context.Background(), &ChatRequest{
			Messages:    []Message{{Role: "user", Content: "Hello"}},
			Temperature: Temperature(0.2),
		})
		if err != nil {
			t.Fatalf("Chat() error = %v", err)
		}
		if !result.Success {
			t.Error("expected Success = true")
		}
		if result.Content != "Section 3.4 applies." {
			t.Errorf("Content = %q", result.Content)
		}
		if result.TotalTokens != 18 || result.CostUSD != 0.0004 {
			t.Errorf("usage = %d tokens, $%f", result.TotalTokens, result.CostUSD)
		}
		if result.Attempts != 1 {
			t.Errorf("Attempts = %d, want 1", result.Attempts)
		}
		if got.Temperature == nil || *got.Temperature != 0.2 {
			t.Errorf("temperature sent = %v, want 0.2", got.Temperature)
		}
	})

	t.Run("temperature omitted when unset", func(t *testing.T) {
		var raw map[string]any
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			json.NewDecoder(r.Body).Decode(&raw)
			json.NewEncoder(w).Encode(openRouterReply("ok"))
		}))
		defer server.Close()

		client := NewOpenRouterClient(OpenRouterConfig{APIKey: "k", BaseURL: server.URL})
		if _, err := client.Chat(context.Background(), &ChatRequest{Messages: []Message{{Role: "user", Content: "x"}}}); err != nil {
			t.Fatalf("Chat() error = %v", err)
		}
		if _, ok := raw["temperature"]; ok {
			t.Errorf("temperature should be omitted, got %v", raw["temperature"])
		}
	})

	t.Run("structured output keeps key order", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			json.NewEncoder(w).Encode(openRouterReply(`{"summary":"s","riskLevel":"Moderate"}`))
		}))
		defer server.Close()

		client := NewOpenRouterClient(OpenRouterConfig{APIKey: "k", BaseURL: server.URL})
		result, err := client.Chat(context.Background(), &ChatRequest{
			Messages:       []Message{{Role: "user", Content: "x"}},
			ResponseFormat: &ResponseFormat{Type: "json_schema", JSONSchema: json.RawMessage(reportSchema)},
		})
		if err != nil {
			t.Fatalf("Chat() error = %v", err)
		}
		if string(result.ParsedJSON) != `{"summary":"s","riskLevel":"Moderate"}` {
			t.Errorf("ParsedJSON = %s", result.ParsedJSON)
		}
	})

	t.Run("schema mismatch", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			json.NewEncoder(w).Encode(openRouterReply(`{"summary":"s"}`))
		}))
		defer server.Close()

		client := NewOpenRouterClient(OpenRouterConfig{APIKey: "k", BaseURL: server.URL})
		_, err := client.Chat(context.Background(), &ChatRequest{
			ResponseFormat: &ResponseFormat{Type: "json_schema", JSONSchema: json.RawMessage(reportSchema)},
		})
		if !errors.Is(err, ErrStructuredOutput) {
			t.Errorf("Chat() error = %v, want ErrStructuredOutput", err)
		}
	})

	t.Run("503 is unavailable and not retried by default", func(t *testing.T) {
		var calls atomic.Int32
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			calls.Add(1)
			http.Error(w, `{"error":{"message":"overloaded"}}`, http.StatusServiceUnavailable)
		}))
		defer server.Close()

		client := NewOpenRouterClient(OpenRouterConfig{APIKey: "k", BaseURL: server.URL})
		result, err := client.Chat(context.Background(), &ChatRequest{})
		if !IsUnavailable(err) {
			t.Fatalf("IsUnavailable(%v) = false", err)
		}
		if calls.Load() != 1 {
			t.Errorf("calls = %d, want 1", calls.Load())
		}
		if result.Success || result.ErrorType != "http_error" {
			t.Errorf("result = %+v", result)
		}
	})

	t.Run("opt-in retries recover from 429", func(t *testing.T) {
		var calls atomic.Int32
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if calls.Add(1) == 1 {
				http.Error(w, "slow down", http.StatusTooManyRequests)
				return
			}
			json.NewEncoder(w).Encode(openRouterReply("ok"))
		}))
		defer server.Close()

		client := NewOpenRouterClient(OpenRouterConfig{
			APIKey:     "k",
			BaseURL:    server.URL,
			MaxRetries: 2,
			RetryDelay: time.Millisecond,
		})
		result, err := client.Chat(context.Background(), &ChatRequest{})
		if err != nil {
			t.Fatalf("Chat() error = %v", err)
		}
		if result.Attempts != 2 {
			t.Errorf("Attempts = %d, want 2", result.Attempts)
		}
	})

	t.Run("client errors are not retried", func(t *testing.T) {
		var calls atomic.Int32
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			calls.Add(1)
			http.Error(w, "bad key", http.StatusUnauthorized)
		}))
		defer server.Close()

		client := NewOpenRouterClient(OpenRouterConfig{APIKey: "k", BaseURL: server.URL, MaxRetries: 3, RetryDelay: time.Millisecond})
		_, err := client.Chat(context.Background(), &ChatRequest{})
		var se *StatusError
		if !errors.As(err, &se) || se.StatusCode != http.StatusUnauthorized {
			t.Fatalf("Chat() error = %v, want 401 StatusError", err)
		}
		if calls.Load() != 1 {
			t.Errorf("calls = %d, want 1", calls.Load())
		}
	})

	t.Run("overloaded error in body", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			json.NewEncoder(w).Encode(map[string]any{"error": map[string]any{"message": "busy", "code": 503}})
		}))
		defer server.Close()

		client := NewOpenRouterClient(OpenRouterConfig{APIKey: "k", BaseURL: server.URL})
		_, err := client.Chat(context.Background(), &ChatRequest{})
		if !IsUnavailable(err) {
			t.Errorf("IsUnavailable(%v) = false", err)
		}
	})

	t.Run("empty choices", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			json.NewEncoder(w).Encode(map[string]any{"id": "x", "choices": []any{}})
		}))
		defer server.Close()

		client := NewOpenRouterClient(OpenRouterConfig{APIKey: "k", BaseURL: server.URL})
		result, err := client.Chat(context.Background(), &ChatRequest{})
		if err == nil {
			t.Fatal("expected error for empty choices")
		}
		if result.ErrorType != "empty_response" {
			t.Errorf("ErrorType = %q", result.ErrorType)
		}
	})
}
