package hrcenter

import (
	"errors"

	"github.com/navigationiq/navigator/internal/generate"
	"github.com/navigationiq/navigator/internal/providers"
)

// ErrEmptyScenario is returned when neither a query nor a document is given.
var ErrEmptyScenario = errors.New("describe a scenario or upload a document")

// Input contains the data needed for an HR solution request.
type Input struct {
	Card     string
	Query    string
	Document string
	Handbook string

	UserPromptOverride string
	PromptCID          string
}

// NewRequest builds the generation request.
func NewRequest(in Input) (generate.Request, error) {
	if in.Query == "" && in.Document == "" {
		return generate.Request{}, ErrEmptyScenario
	}
	user, err := UserPrompt(UserPromptData{
		Card:     in.Card,
		Query:    in.Query,
		Document: in.Document,
		Handbook: in.Handbook,
	}, in.UserPromptOverride)
	if err != nil {
		return generate.Request{}, err
	}
	return generate.Request{
		Flow:        "hr",
		PromptKey:   UserPromptKey,
		PromptCID:   in.PromptCID,
		Prompt:      user,
		Schema:      Schema(),
		Temperature: providers.Temperature(Temperature),
	}, nil
}
