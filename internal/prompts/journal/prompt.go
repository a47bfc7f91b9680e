// Package journal holds the legal reference lookup prompt.
package journal

import (
	_ "embed"

	"github.com/navigationiq/navigator/internal/generate"
	"github.com/navigationiq/navigator/internal/prompts"
	"github.com/navigationiq/navigator/internal/providers"
)

//go:embed user.tmpl
var userPromptTmpl string

// UserPromptKey is the hierarchical key for this prompt.
const UserPromptKey = "flows.journal.user"

// Temperature for reference summaries.
const Temperature = 0.2

// UserPromptData contains the variables for the user prompt template.
type UserPromptData struct {
	Name string
}

// UserPrompt renders the user prompt, preferring override when set.
func UserPrompt(data UserPromptData, override string) (string, error) {
	return prompts.ExecuteWithOverride(UserPromptKey, userPromptTmpl, override, data)
}

// RegisterPrompts registers the journal prompt with the resolver.
func RegisterPrompts(r *prompts.Resolver) {
	r.Register(prompts.EmbeddedPrompt{
		Key:         UserPromptKey,
		Text:        userPromptTmpl,
		Description: "Legal journal prompt - case or statute summary",
	})
}

// Schema returns the JSON schema for a reference summary.
func Schema() map[string]any {
	return map[string]any{
		"type": "json_schema",
		"json_schema": map[string]any{
			"name":   "legal_reference",
			"strict": true,
			"schema": map[string]any{
				"type": "object",
				"properties": map[string]any{
					"caseName": map[string]any{"type": "string"},
					"summary":  map[string]any{"type": "string"},
				},
				"required": []string{"caseName", "summary"},
			},
		},
	}
}

// Input contains the data needed for a reference lookup.
type Input struct {
	Name string

	UserPromptOverride string
	PromptCID          string
}

// NewRequest builds the generation request.
func NewRequest(in Input) (generate.Request, error) {
	user, err := UserPrompt(UserPromptData{Name: in.Name}, in.UserPromptOverride)
	if err != nil {
		return generate.Request{}, err
	}
	return generate.Request{
		Flow:        "journal",
		PromptKey:   UserPromptKey,
		PromptCID:   in.PromptCID,
		Prompt:      user,
		Schema:      Schema(),
		Temperature: providers.Temperature(Temperature),
	}, nil
}
