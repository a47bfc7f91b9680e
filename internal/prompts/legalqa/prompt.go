// Package legalqa holds the legal question prompt.
package legalqa

import (
	_ "embed"

	"github.com/navigationiq/navigator/internal/prompts"
)

//go:embed user.tmpl
var userPromptTmpl string

// UserPromptKey is the hierarchical key for this prompt.
const UserPromptKey = "flows.legal.user"

// UserPromptData contains the variables for the user prompt template.
type UserPromptData struct {
	Question string
}

// UserPrompt renders the user prompt, preferring override when set.
func UserPrompt(data UserPromptData, override string) (string, error) {
	return prompts.ExecuteWithOverride(UserPromptKey, userPromptTmpl, override, data)
}

// RegisterPrompts registers the legal Q&A prompt with the resolver.
func RegisterPrompts(r *prompts.Resolver) {
	r.Register(prompts.EmbeddedPrompt{
		Key:         UserPromptKey,
		Text:        userPromptTmpl,
		Description: "Legal Q&A prompt - guidance, primary case reference and risk analysis",
	})
}
