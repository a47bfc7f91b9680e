package legalqa

import "github.com/navigationiq/navigator/internal/generate"

// Input contains the data needed for a legal question.
type Input struct {
	Question string

	UserPromptOverride string
	PromptCID          string
}

// NewRequest builds the generation request. Temperature is left to the
// model default.
func NewRequest(in Input) (generate.Request, error) {
	user, err := UserPrompt(UserPromptData{Question: in.Question}, in.UserPromptOverride)
	if err != nil {
		return generate.Request{}, err
	}
	return generate.Request{
		Flow:      "legal",
		PromptKey: UserPromptKey,
		PromptCID: in.PromptCID,
		Prompt:    user,
		Schema:    Schema(),
	}, nil
}
