// Package prompts provides prompt management with embedded defaults and
// file-based overrides.
//
// Embedded .tmpl files in each flow subpackage are the source of truth for
// defaults. An override file in the prompts directory of the navigator home
// replaces the default text for a single key.
//
// Resolution order:
//  1. Override file (<home>/prompts/<key>.tmpl, if present)
//  2. Embedded default (from .tmpl files in code)
//
// Every resolved prompt carries a content hash that llmcall records link to.
package prompts

// EmbeddedPrompt represents a prompt loaded from an embedded .tmpl file.
type EmbeddedPrompt struct {
	Key         string   `json:"key"`                 // Hierarchical key: flows.risk.user
	Text        string   `json:"text"`                // The prompt text (Go template)
	Description string   `json:"description"`         // Human-readable description
	Variables   []string `json:"variables,omitempty"` // Extracted template variables
	Hash        string   `json:"hash"`                // SHA256 hash of the text for change detection
}

// ResolvedPrompt is the result of resolving a prompt key.
type ResolvedPrompt struct {
	Key        string   `json:"key"`
	Text       string   `json:"text"`
	Variables  []string `json:"variables,omitempty"`
	IsOverride bool     `json:"is_override"`
	CID        string   `json:"cid"` // Content hash for traceability
}
