package llmcall

import (
	"log/slog"

	"github.com/navigationiq/navigator/internal/providers"
)

// Recorder writes LLM calls into a Store.
type Recorder struct {
	store  *Store
	logger *slog.Logger
}

// NewRecorder creates a new LLM call recorder. A nil store disables recording.
func NewRecorder(store *Store, logger *slog.Logger) *Recorder {
	if logger == nil {
		logger = slog.Default()
	}
	return &Recorder{store: store, logger: logger}
}

// Record captures an LLM call.
func (r *Recorder) Record(result *providers.ChatResult, opts RecordOptions) *Call {
	if r == nil || r.store == nil {
		return nil
	}

	call := FromChatResult(result, opts)
	r.RecordCall(call)
	return call
}

// RecordCall captures an already-constructed Call.
func (r *Recorder) RecordCall(call *Call) {
	if r == nil || r.store == nil || call == nil {
		return
	}
	r.store.Add(call)
	r.logger.Debug("recorded LLM call",
		"id", call.ID,
		"flow", call.Flow,
		"prompt_key", call.PromptKey,
		"provider", call.Provider,
		"success", call.Success,
		"latency_ms", call.LatencyMs)
}
