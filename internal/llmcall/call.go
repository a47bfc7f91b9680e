// Package llmcall records every generation call for traceability.
// Each call keeps its prompt key, response and metrics.
package llmcall

import (
	"time"

	"github.com/google/uuid"

	"github.com/navigationiq/navigator/internal/providers"
)

// Call represents a recorded LLM API call.
type Call struct {
	// Unique identifier
	ID string `json:"id"`

	// Timing
	Timestamp time.Time `json:"timestamp"`
	LatencyMs int       `json:"latency_ms"`

	// Flow that issued the call (risk, legal, hosqa, ...)
	Flow string `json:"flow,omitempty"`

	// Prompt traceability
	PromptKey string `json:"prompt_key"`
	PromptCID string `json:"prompt_cid,omitempty"` // Content hash of the exact prompt text used

	// Model info
	Provider    string   `json:"provider"`
	Model       string   `json:"model"`
	Temperature *float64 `json:"temperature,omitempty"`
	Attempts    int      `json:"attempts"`

	// Token usage
	InputTokens  int     `json:"input_tokens"`
	OutputTokens int     `json:"output_tokens"`
	CostUSD      float64 `json:"cost_usd,omitempty"`

	// Response
	Response string `json:"response"`

	// Status
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
}

// RecordOptions provides context for recording an LLM call.
type RecordOptions struct {
	Flow string

	// Prompt identification (required for traceability)
	PromptKey string
	PromptCID string

	// Request parameters (pointer to distinguish "not set" from "set to 0")
	Temperature *float64

	// Err overrides the result's error message; validation failures are
	// reported here after the provider call itself succeeded.
	Err error
}

// FromChatResult creates a Call from a ChatResult.
// Returns nil if result is nil.
func FromChatResult(result *providers.ChatResult, opts RecordOptions) *Call {
	if result == nil {
		return nil
	}

	call := &Call{
		ID:           uuid.New().String(),
		Timestamp:    time.Now(),
		LatencyMs:    int(result.TotalTime.Milliseconds()),
		Flow:         opts.Flow,
		PromptKey:    opts.PromptKey,
		PromptCID:    opts.PromptCID,
		Provider:     result.Provider,
		Model:        result.ModelUsed,
		Temperature:  opts.Temperature,
		Attempts:     result.Attempts,
		InputTokens:  result.PromptTokens,
		OutputTokens: result.CompletionTokens,
		CostUSD:      result.CostUSD,
		Response:     result.Content,
		Success:      result.Success && opts.Err == nil,
	}

	switch {
	case opts.Err != nil:
		call.Error = opts.Err.Error()
	case !result.Success:
		call.Error = result.ErrorMessage
	}

	return call
}
