package risk

import (
	"github.com/navigationiq/navigator/internal/generate"
	"github.com/navigationiq/navigator/internal/providers"
)

// Input contains the data needed for a risk assessment request.
type Input struct {
	Handbook string
	Issue    string

	// UserPromptOverride replaces the embedded user template when set.
	UserPromptOverride string
	PromptCID          string
}

// NewRequest builds the generation request for a risk assessment.
func NewRequest(in Input) (generate.Request, error) {
	user, err := UserPrompt(UserPromptData{Handbook: in.Handbook, Issue: in.Issue}, in.UserPromptOverride)
	if err != nil {
		return generate.Request{}, err
	}
	return generate.Request{
		Flow:        "risk",
		PromptKey:   UserPromptKey,
		PromptCID:   in.PromptCID,
		System:      SystemPrompt(),
		Prompt:      user,
		Schema:      Schema(),
		Temperature: providers.Temperature(Temperature),
	}, nil
}
