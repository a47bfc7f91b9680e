package providers

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"google.golang.org/genai"
)

const (
	GeminiName         = "gemini"
	geminiDefaultModel = "gemini-2.5-flash"
)

// GeminiConfig holds configuration for the Gemini client.
type GeminiConfig struct {
	APIKey    string
	Model     string
	BaseURL   string  // Optional (tests)
	RateLimit float64 // Requests per second, 0 disables
}

// GeminiClient implements LLMClient on the Gemini API.
type GeminiClient struct {
	model   string
	limiter *RateLimiter
	client  *genai.Client
}

// NewGeminiClient creates a new Gemini client.
func NewGeminiClient(cfg GeminiConfig) (*GeminiClient, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("gemini API key is required")
	}
	if cfg.Model == "" {
		cfg.Model = geminiDefaultModel
	}

	cc := &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	}
	if cfg.BaseURL != "" {
		cc.HTTPOptions = genai.HTTPOptions{BaseURL: cfg.BaseURL}
	}

	client, err := genai.NewClient(context.Background(), cc)
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}

	c := &GeminiClient{
		model:  cfg.Model,
		client: client,
	}
	if cfg.RateLimit > 0 {
		c.limiter = NewRateLimiter(int(cfg.RateLimit * 60))
	}
	return c, nil
}

// Name returns the client identifier.
func (c *GeminiClient) Name() string {
	return GeminiName
}

// Model returns the configured default model.
func (c *GeminiClient) Model() string {
	return c.model
}

// Chat sends a GenerateContent request.
func (c *GeminiClient) Chat(ctx context.Context, req *ChatRequest) (*ChatResult, error) {
	start := time.Now()

	requestID := req.RequestID
	if requestID == "" {
		requestID = uuid.New().String()
	}
	model := req.Model
	if model == "" {
		model = c.model
	}

	result := &ChatResult{
		RequestID: requestID,
		Provider:  GeminiName,
		ModelUsed: model,
		Attempts:  1,
	}
	fail := func(kind string, err error) (*ChatResult, error) {
		result.ErrorType = kind
		result.ErrorMessage = err.Error()
		result.TotalTime = time.Since(start)
		return result, err
	}

	system, msgs := systemAndUser(req.Messages)
	contents := make([]*genai.Content, 0, len(msgs))
	for _, m := range msgs {
		role := genai.Role(genai.RoleUser)
		if m.Role == "assistant" {
			role = genai.RoleModel
		}
		contents = append(contents, genai.NewContentFromText(m.Content, role))
	}

	config := &genai.GenerateContentConfig{}
	if system != "" {
		config.SystemInstruction = genai.NewContentFromText(system, genai.RoleUser)
	}
	if req.Temperature != nil {
		config.Temperature = genai.Ptr(float32(*req.Temperature))
	}
	if req.MaxTokens > 0 {
		config.MaxOutputTokens = int32(req.MaxTokens)
	}
	w, err := decodeSchemaWrapper(req.ResponseFormat)
	if err != nil {
		return fail("invalid_request", err)
	}
	if w != nil {
		config.ResponseMIMEType = "application/json"
		config.ResponseJsonSchema = w.Schema
	}

	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return fail("context_cancelled", err)
		}
	}

	resp, err := c.client.Models.GenerateContent(ctx, model, contents, config)
	if err != nil {
		return fail("http_error", mapGeminiError(err))
	}

	result.Success = true
	result.Content = resp.Text()
	if resp.ModelVersion != "" {
		result.ModelUsed = resp.ModelVersion
	}
	if u := resp.UsageMetadata; u != nil {
		result.PromptTokens = int(u.PromptTokenCount)
		result.CompletionTokens = int(u.CandidatesTokenCount)
		result.TotalTokens = int(u.TotalTokenCount)
	}
	result.ExecutionTime = time.Since(start)
	result.TotalTime = result.ExecutionTime

	if result.Content == "" {
		result.Success = false
		return fail("empty_response", errors.New("no candidates in response"))
	}

	if err := finishStructured(result, req.ResponseFormat); err != nil {
		return result, err
	}
	return result, nil
}

// mapGeminiError converts genai API errors to StatusError so 503 answers
// surface as ErrUnavailable.
func mapGeminiError(err error) error {
	var apiErr genai.APIError
	if errors.As(err, &apiErr) {
		return &StatusError{Provider: GeminiName, StatusCode: apiErr.Code, Message: apiErr.Message}
	}
	var apiErrPtr *genai.APIError
	if errors.As(err, &apiErrPtr) {
		return &StatusError{Provider: GeminiName, StatusCode: apiErrPtr.Code, Message: apiErrPtr.Message}
	}
	return err
}

var _ LLMClient = (*GeminiClient)(nil)

// LimiterStatus reports the client-side rate limiter, when one is configured.
func (c *GeminiClient) LimiterStatus() (RateLimiterStatus, bool) {
	if c.limiter == nil {
		return RateLimiterStatus{}, false
	}
	return c.limiter.Status(), true
}
