// Package generate is the single boundary between the workspace flows and
// the model providers. A Request carries a rendered prompt and an optional
// JSON schema; the answer comes back as ordered content values.
package generate

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/avast/retry-go/v4"

	"github.com/navigationiq/navigator/internal/content"
	"github.com/navigationiq/navigator/internal/llmcall"
	"github.com/navigationiq/navigator/internal/providers"
)

var (
	// ErrNoProvider is returned when no provider is configured or enabled.
	ErrNoProvider = errors.New("no generation provider configured")

	// ErrSchema marks an answer that is not JSON or does not match the schema.
	ErrSchema = providers.ErrStructuredOutput
)

// IsUnavailable reports whether the upstream model answered 503.
func IsUnavailable(err error) bool {
	return providers.IsUnavailable(err)
}

// Request is one generation call.
type Request struct {
	Flow      string
	PromptKey string
	PromptCID string

	System string
	Prompt string

	// Schema is a {"name","strict","schema"} wrapper, or the
	// {"type":"json_schema","json_schema":{...}} form. Nil asks for text.
	Schema map[string]any

	// Temperature is left to the model default when nil.
	Temperature *float64
	MaxTokens   int

	// Provider and Model override the flow and default selection.
	Provider string
	Model    string
}

// FlowConfig selects a provider and model for one flow.
type FlowConfig struct {
	Provider string
	Model    string
}

// Config controls provider selection and call policy.
type Config struct {
	DefaultProvider string
	Flows           map[string]FlowConfig

	// MaxRetries is the number of extra attempts on retryable upstream
	// errors. Zero means a single attempt.
	MaxRetries int
	RetryDelay time.Duration

	// Timeout bounds each call; zero leaves it to the caller's context.
	Timeout time.Duration
}

// Generator issues generation requests against the provider registry.
type Generator struct {
	registry *providers.Registry
	recorder *llmcall.Recorder
	logger   *slog.Logger

	mu  sync.RWMutex
	cfg Config
}

// New creates a Generator. recorder may be nil.
func New(registry *providers.Registry, recorder *llmcall.Recorder, cfg Config, logger *slog.Logger) *Generator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Generator{
		registry: registry,
		recorder: recorder,
		logger:   logger,
		cfg:      cfg,
	}
}

// SetConfig replaces the selection and call policy. Used on config reload.
func (g *Generator) SetConfig(cfg Config) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.cfg = cfg
}

func (g *Generator) config() Config {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.cfg
}

// Available reports whether any provider can serve requests.
func (g *Generator) Available() bool {
	return g.registry != nil && len(g.registry.ListLLM()) > 0
}

// Generate runs req. With a schema the result is the decoded document
// (*content.Object, []any, ...) in the order the model wrote it; without one
// it is the response text.
func (g *Generator) Generate(ctx context.Context, req Request) (any, error) {
	cfg := g.config()

	client, model, err := g.selectClient(cfg, req)
	if err != nil {
		return nil, err
	}

	chat, err := buildChatRequest(req, model)
	if err != nil {
		return nil, err
	}

	if cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, cfg.Timeout)
		defer cancel()
	}

	result, err := g.call(ctx, cfg, client, chat, req)
	if err != nil {
		return nil, err
	}

	if req.Schema == nil {
		return result.Content, nil
	}
	doc, err := content.Decode(result.ParsedJSON)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSchema, err)
	}
	return doc, nil
}

// GenerateText runs req without a schema and returns the response text.
func (g *Generator) GenerateText(ctx context.Context, req Request) (string, error) {
	req.Schema = nil
	v, err := g.Generate(ctx, req)
	if err != nil {
		return "", err
	}
	s, _ := v.(string)
	return s, nil
}

func (g *Generator) call(ctx context.Context, cfg Config, client providers.LLMClient, chat *providers.ChatRequest, req Request) (*providers.ChatResult, error) {
	var result *providers.ChatResult
	attempt := func() error {
		res, err := client.Chat(ctx, chat)
		g.record(res, req, err)
		if err != nil {
			return err
		}
		result = res
		return nil
	}

	if cfg.MaxRetries <= 0 {
		if err := attempt(); err != nil {
			return nil, g.wrap(client, req, err)
		}
		return result, nil
	}

	delay := cfg.RetryDelay
	if delay <= 0 {
		delay = time.Second
	}
	err := retry.Do(
		attempt,
		retry.Context(ctx),
		retry.Attempts(uint(cfg.MaxRetries)+1),
		retry.Delay(delay),
		retry.DelayType(retry.BackOffDelay),
		retry.RetryIf(retryable),
		retry.LastErrorOnly(true),
		retry.OnRetry(func(n uint, err error) {
			g.logger.Warn("retrying generation",
				"flow", req.Flow,
				"prompt_key", req.PromptKey,
				"attempt", n+1,
				"error", err)
		}),
	)
	if err != nil {
		return nil, g.wrap(client, req, err)
	}
	return result, nil
}

func (g *Generator) wrap(client providers.LLMClient, req Request, err error) error {
	if errors.Is(err, context.Canceled) {
		g.logger.Debug("generation cancelled", "flow", req.Flow, "prompt_key", req.PromptKey)
		return err
	}
	g.logger.Error("generation failed",
		"flow", req.Flow,
		"prompt_key", req.PromptKey,
		"provider", client.Name(),
		"error", err)
	return fmt.Errorf("%s: %w", client.Name(), err)
}

// retryable never retries validation failures or cancellation.
func retryable(err error) bool {
	if errors.Is(err, ErrSchema) || errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	var se *providers.StatusError
	if errors.As(err, &se) {
		return se.Retryable()
	}
	return false
}

func (g *Generator) record(res *providers.ChatResult, req Request, err error) {
	if g.recorder == nil || res == nil {
		return
	}
	opts := llmcall.RecordOptions{
		Flow:        req.Flow,
		PromptKey:   req.PromptKey,
		PromptCID:   req.PromptCID,
		Temperature: req.Temperature,
	}
	if err != nil && res.Success {
		opts.Err = err
	}
	g.recorder.Record(res, opts)
}

// selectClient resolves the provider: request, then flow config, then the
// default, then the first registered client.
func (g *Generator) selectClient(cfg Config, req Request) (providers.LLMClient, string, error) {
	if g.registry == nil {
		return nil, "", ErrNoProvider
	}

	name, model := req.Provider, req.Model
	if fc, ok := cfg.Flows[req.Flow]; ok {
		if name == "" {
			name = fc.Provider
		}
		if model == "" && (req.Provider == "" || req.Provider == fc.Provider) {
			model = fc.Model
		}
	}
	if name == "" {
		name = cfg.DefaultProvider
	}
	if name == "" || !g.registry.HasLLM(name) {
		if name != "" {
			g.logger.Warn("configured provider not available", "provider", name, "flow", req.Flow)
		}
		names := g.registry.ListLLM()
		if len(names) == 0 {
			return nil, "", ErrNoProvider
		}
		if name != "" && req.Provider != "" {
			return nil, "", fmt.Errorf("%w: %s", ErrNoProvider, name)
		}
		name = names[0]
	}

	client, err := g.registry.GetLLM(name)
	if err != nil {
		return nil, "", fmt.Errorf("%w: %v", ErrNoProvider, err)
	}
	return client, model, nil
}

func buildChatRequest(req Request, model string) (*providers.ChatRequest, error) {
	chat := &providers.ChatRequest{
		Model:       model,
		Temperature: req.Temperature,
		MaxTokens:   req.MaxTokens,
	}
	if req.System != "" {
		chat.Messages = append(chat.Messages, providers.Message{Role: "system", Content: req.System})
	}
	chat.Messages = append(chat.Messages, providers.Message{Role: "user", Content: req.Prompt})

	if req.Schema != nil {
		rf, err := ResponseFormat(req.Schema)
		if err != nil {
			return nil, err
		}
		chat.ResponseFormat = rf
	}
	return chat, nil
}

// ResponseFormat converts a schema map into a provider response format.
func ResponseFormat(schema map[string]any) (*providers.ResponseFormat, error) {
	inner := any(schema)
	if js, ok := schema["json_schema"]; ok {
		inner = js
	}
	raw, err := json.Marshal(inner)
	if err != nil {
		return nil, fmt.Errorf("marshal response schema: %w", err)
	}
	return &providers.ResponseFormat{Type: "json_schema", JSONSchema: raw}, nil
}
