// Package risk holds the six-step risk assessment prompt.
package risk

import (
	_ "embed"

	"github.com/navigationiq/navigator/internal/prompts"
)

//go:embed system.tmpl
var systemPrompt string

//go:embed user.tmpl
var userPromptTmpl string

// Prompt keys
const (
	SystemPromptKey = "flows.risk.system"
	UserPromptKey   = "flows.risk.user"
)

// Temperature keeps the assessment close to the source materials.
const Temperature = 0.2

// UserPromptData contains the variables for the user prompt template.
type UserPromptData struct {
	Handbook string
	Issue    string
}

// SystemPrompt returns the system prompt for risk assessment.
func SystemPrompt() string {
	return systemPrompt
}

// UserPrompt renders the user prompt, preferring override when set.
func UserPrompt(data UserPromptData, override string) (string, error) {
	return prompts.ExecuteWithOverride(UserPromptKey, userPromptTmpl, override, data)
}

// RegisterPrompts registers the risk prompts with the resolver.
func RegisterPrompts(r *prompts.Resolver) {
	r.Register(prompts.EmbeddedPrompt{
		Key:         SystemPromptKey,
		Text:        systemPrompt,
		Description: "Risk assessment system prompt - analyst role and tone",
	})
	r.Register(prompts.EmbeddedPrompt{
		Key:         UserPromptKey,
		Text:        userPromptTmpl,
		Description: "Risk assessment user prompt - six-step report rules, handbook and scenario",
	})
}
