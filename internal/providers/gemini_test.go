package providers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestGeminiClient_Chat(t *testing.T) {
	t.Run("requires key", func(t *testing.T) {
		if _, err := NewGeminiClient(GeminiConfig{}); err == nil {
			t.Error("expected error without API key")
		}
	})

	t.Run("structured chat", func(t *testing.T) {
		var body map[string]any
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !strings.HasSuffix(r.URL.Path, "gemini-2.5-flash:generateContent") {
				t.Errorf("unexpected path: %s", r.URL.Path)
			}
			json.NewDecoder(r.Body).Decode(&body)

			w.Header().Set("Content-Type", "application/json")
			json.NewEncoder(w).Encode(map[string]any{
				"candidates": []map[string]any{{
					"content": map[string]any{
						"role":  "model",
						"parts": []map[string]any{{"text": `{"summary":"ok","riskLevel":"High"}`}},
					},
					"finishReason": "STOP",
				}},
				"usageMetadata": map[string]any{
					"promptTokenCount":     4,
					"candidatesTokenCount": 6,
					"totalTokenCount":      10,
				},
			})
		}))
		defer server.Close()

		client, err := NewGeminiClient(GeminiConfig{APIKey: "test-key", BaseURL: server.URL})
		if err != nil {
			t.Fatalf("NewGeminiClient() error = %v", err)
		}
		result, err := client.Chat(context.Background(), &ChatRequest{
			Messages: []Message{
				{Role: "system", Content: "Answer as JSON."},
				{Role: "user", Content: "Assess."},
			},
			Temperature:    Temperature(0.2),
			ResponseFormat: &ResponseFormat{Type: "json_schema", JSONSchema: json.RawMessage(reportSchema)},
		})
		if err != nil {
			t.Fatalf("Chat() error = %v", err)
		}
		if string(result.ParsedJSON) != `{"summary":"ok","riskLevel":"High"}` {
			t.Errorf("ParsedJSON = %s", result.ParsedJSON)
		}
		if result.TotalTokens != 10 {
			t.Errorf("TotalTokens = %d, want 10", result.TotalTokens)
		}
		if _, ok := body["systemInstruction"]; !ok {
			t.Errorf("systemInstruction missing from request: %v", body)
		}
		gc, _ := body["generationConfig"].(map[string]any)
		if gc["responseMimeType"] != "application/json" {
			t.Errorf("generationConfig = %v", gc)
		}
	})

	t.Run("503 maps to unavailable", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusServiceUnavailable)
			w.Write([]byte(`{"error":{"code":503,"message":"The model is overloaded.","status":"UNAVAILABLE"}}`))
		}))
		defer server.Close()

		client, err := NewGeminiClient(GeminiConfig{APIKey: "k", BaseURL: server.URL})
		if err != nil {
			t.Fatalf("NewGeminiClient() error = %v", err)
		}
		_, err = client.Chat(context.Background(), &ChatRequest{Messages: []Message{{Role: "user", Content: "x"}}})
		if !IsUnavailable(err) {
			t.Errorf("IsUnavailable(%v) = false, want true", err)
		}
	})
}
