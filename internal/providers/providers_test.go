package providers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func TestMockClient(t *testing.T) {
	t.Run("chat", func(t *testing.T) {
		c := NewMockClient()
		c.ResponseText = "hello world"

		result, err := c.Chat(context.Background(), &ChatRequest{
			Model: "test-model",
			Messages: []Message{
				{Role: "user", Content: "test"},
			},
		})

		if err != nil {
			t.Fatalf("Chat() error = %v", err)
		}
		if !result.Success {
			t.Errorf("Success = false, want true")
		}
		if result.Content != "hello world" {
			t.Errorf("Content = %q, want %q", result.Content, "hello world")
		}
		if c.RequestCount() != 1 {
			t.Errorf("RequestCount = %d, want 1", c.RequestCount())
		}
		if c.LastRequest() == nil || c.LastRequest().Model != "test-model" {
			t.Errorf("LastRequest = %+v", c.LastRequest())
		}
	})

	t.Run("structured output", func(t *testing.T) {
		c := NewMockClient()
		c.ResponseJSON = json.RawMessage(`{"riskLevel":"Low","summary":"ok"}`)

		result, err := c.Chat(context.Background(), &ChatRequest{
			Messages:       []Message{{Role: "user", Content: "test"}},
			ResponseFormat: &ResponseFormat{Type: "json_schema", JSONSchema: json.RawMessage(reportSchema)},
		})

		if err != nil {
			t.Fatalf("Chat() error = %v", err)
		}
		if string(result.ParsedJSON) != `{"riskLevel":"Low","summary":"ok"}` {
			t.Errorf("ParsedJSON = %s", result.ParsedJSON)
		}
	})

	t.Run("structured output mismatch", func(t *testing.T) {
		c := NewMockClient()
		c.ResponseJSON = json.RawMessage(`{"riskLevel":"Unknown"}`)

		_, err := c.Chat(context.Background(), &ChatRequest{
			ResponseFormat: &ResponseFormat{Type: "json_schema", JSONSchema: json.RawMessage(reportSchema)},
		})
		if !errors.Is(err, ErrStructuredOutput) {
			t.Fatalf("Chat() error = %v, want ErrStructuredOutput", err)
		}
	})

	t.Run("respond func", func(t *testing.T) {
		c := NewMockClient()
		c.Respond = func(req *ChatRequest) string { return "echo: " + req.Messages[0].Content }

		result, err := c.Chat(context.Background(), &ChatRequest{Messages: []Message{{Role: "user", Content: "hi"}}})
		if err != nil {
			t.Fatalf("Chat() error = %v", err)
		}
		if result.Content != "echo: hi" {
			t.Errorf("Content = %q", result.Content)
		}
	})

	t.Run("failure", func(t *testing.T) {
		c := NewMockClient()
		c.ShouldFail = true

		result, err := c.Chat(context.Background(), &ChatRequest{})
		if err == nil {
			t.Error("expected error, got nil")
		}
		if result.Success {
			t.Error("expected Success = false")
		}
		if IsUnavailable(err) {
			t.Error("plain failure should not read as unavailable")
		}
	})

	t.Run("503 failure", func(t *testing.T) {
		c := NewMockClient()
		c.ShouldFail = true
		c.FailStatus = http.StatusServiceUnavailable

		_, err := c.Chat(context.Background(), &ChatRequest{})
		if !IsUnavailable(err) {
			t.Errorf("IsUnavailable(%v) = false, want true", err)
		}
	})

	t.Run("fail after N", func(t *testing.T) {
		c := NewMockClient()
		c.FailAfter = 2

		for i := 0; i < 2; i++ {
			if _, err := c.Chat(context.Background(), &ChatRequest{}); err != nil {
				t.Fatalf("request %d should succeed: %v", i+1, err)
			}
		}
		if _, err := c.Chat(context.Background(), &ChatRequest{}); err == nil {
			t.Error("third request should fail")
		}
	})

	t.Run("respects cancellation", func(t *testing.T) {
		c := NewMockClient()
		c.Latency = 5 * time.Second

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		_, err := c.Chat(ctx, &ChatRequest{})
		if err != context.Canceled {
			t.Errorf("expected context.Canceled, got %v", err)
		}
	})
}

func TestStatusError(t *testing.T) {
	tests := []struct {
		code        int
		unavailable bool
		retryable   bool
	}{
		{http.StatusServiceUnavailable, true, true},
		{http.StatusTooManyRequests, false, true},
		{http.StatusInternalServerError, false, true},
		{http.StatusBadRequest, false, false},
		{http.StatusUnauthorized, false, false},
	}
	for _, tt := range tests {
		t.Run(http.StatusText(tt.code), func(t *testing.T) {
			err := &StatusError{Provider: "test", StatusCode: tt.code, Message: "boom"}
			if got := IsUnavailable(err); got != tt.unavailable {
				t.Errorf("IsUnavailable() = %v, want %v", got, tt.unavailable)
			}
			if got := err.Retryable(); got != tt.retryable {
				t.Errorf("Retryable() = %v, want %v", got, tt.retryable)
			}
		})
	}

	wrapped := errors.Join(errors.New("context"), &StatusError{StatusCode: 503})
	if !IsUnavailable(wrapped) {
		t.Error("wrapped 503 should be unavailable")
	}
}

func TestSystemAndUser(t *testing.T) {
	system, rest := systemAndUser([]Message{
		{Role: "system", Content: "be brief"},
		{Role: "user", Content: "question"},
		{Role: "system", Content: "cite sections"},
	})
	if system != "be brief\n\ncite sections" {
		t.Errorf("system = %q", system)
	}
	if len(rest) != 1 || rest[0].Content != "question" {
		t.Errorf("rest = %+v", rest)
	}
}

func TestRateLimiter(t *testing.T) {
	t.Run("allows initial requests", func(t *testing.T) {
		limiter := NewRateLimiter(600) // 10 per second

		start := time.Now()
		for i := 0; i < 5; i++ {
			if err := limiter.Wait(context.Background()); err != nil {
				t.Fatalf("request %d failed: %v", i, err)
			}
		}
		if elapsed := time.Since(start); elapsed > time.Second {
			t.Errorf("took too long: %v", elapsed)
		}
	})

	t.Run("try consume", func(t *testing.T) {
		limiter := NewRateLimiter(1)

		if !limiter.TryConsume() {
			t.Error("first TryConsume should succeed")
		}
		if limiter.TryConsume() {
			t.Error("second TryConsume should fail")
		}
	})

	t.Run("status", func(t *testing.T) {
		limiter := NewRateLimiter(60)

		status := limiter.Status()
		if status.TokensLimit != 60 {
			t.Errorf("TokensLimit = %d, want 60", status.TokensLimit)
		}
		if status.TokensAvailable <= 0 {
			t.Error("expected positive tokens available")
		}
	})

	t.Run("respects cancellation", func(t *testing.T) {
		limiter := NewRateLimiter(1)
		limiter.Wait(context.Background())

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		if err := limiter.Wait(ctx); err != context.Canceled {
			t.Errorf("expected context.Canceled, got %v", err)
		}
	})

	t.Run("concurrent requests", func(t *testing.T) {
		limiter := NewRateLimiter(6000)

		var wg sync.WaitGroup
		var failures atomic.Int32
		for i := 0; i < 10; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				if err := limiter.Wait(context.Background()); err != nil {
					failures.Add(1)
				}
			}()
		}
		wg.Wait()

		if failures.Load() > 0 {
			t.Errorf("had %d errors", failures.Load())
		}
		if status := limiter.Status(); status.TotalConsumed != 10 {
			t.Errorf("TotalConsumed = %d, want 10", status.TotalConsumed)
		}
	})
}
