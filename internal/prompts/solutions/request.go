package solutions

import (
	"github.com/navigationiq/navigator/internal/generate"
	"github.com/navigationiq/navigator/internal/providers"
)

// Input contains the data needed for a solution module request.
type Input struct {
	Module  string
	OrgType string
	Query   string

	UserPromptOverride string
	PromptCID          string
}

// NewRequest builds the generation request. An unknown module gets the
// default instruction.
func NewRequest(in Input) (generate.Request, error) {
	data := UserPromptData{
		Context:     OrgContext(in.OrgType),
		Instruction: DefaultInstruction,
		Kind:        "query",
		Query:       in.Query,
	}
	if m, ok := Find(in.Module); ok {
		data.Instruction = m.Instruction
		data.Kind = m.Kind
	}

	user, err := UserPrompt(data, in.UserPromptOverride)
	if err != nil {
		return generate.Request{}, err
	}
	return generate.Request{
		Flow:        "solutions",
		PromptKey:   UserPromptKey,
		PromptCID:   in.PromptCID,
		Prompt:      user,
		Schema:      Schema(),
		Temperature: providers.Temperature(Temperature),
	}, nil
}
