// Package hosqa holds the head-of-school question prompt. Answers are free
// text split into headed sections.
package hosqa

import (
	_ "embed"
	"regexp"
	"strings"

	"github.com/navigationiq/navigator/internal/content"
	"github.com/navigationiq/navigator/internal/generate"
	"github.com/navigationiq/navigator/internal/prompts"
	"github.com/navigationiq/navigator/internal/providers"
)

//go:embed user.tmpl
var userPromptTmpl string

// UserPromptKey is the hierarchical key for this prompt.
const UserPromptKey = "flows.hosqa.user"

// Temperature for head-of-school answers.
const Temperature = 0.3

// UserPromptData contains the variables for the user prompt template.
type UserPromptData struct {
	Question string
}

// UserPrompt renders the user prompt, preferring override when set.
func UserPrompt(data UserPromptData, override string) (string, error) {
	return prompts.ExecuteWithOverride(UserPromptKey, userPromptTmpl, override, data)
}

// RegisterPrompts registers the head-of-school prompt with the resolver.
func RegisterPrompts(r *prompts.Resolver) {
	r.Register(prompts.EmbeddedPrompt{
		Key:         UserPromptKey,
		Text:        userPromptTmpl,
		Description: "Head of School Q&A prompt - free text with **Header:** sections",
	})
}

// Input contains the data needed for a head-of-school question.
type Input struct {
	Question string

	UserPromptOverride string
	PromptCID          string
}

// NewRequest builds the text generation request.
func NewRequest(in Input) (generate.Request, error) {
	user, err := UserPrompt(UserPromptData{Question: in.Question}, in.UserPromptOverride)
	if err != nil {
		return generate.Request{}, err
	}
	return generate.Request{
		Flow:        "hosqa",
		PromptKey:   UserPromptKey,
		PromptCID:   in.PromptCID,
		Prompt:      user,
		Temperature: providers.Temperature(Temperature),
	}, nil
}

var sectionHeader = regexp.MustCompile(`\*\*(.*?):\*\*\s*\n`)

// SplitSections splits raw answer text on "**Header:**" lines into ordered
// {header, text} objects. Text with no headers comes back unchanged.
//
// Capture groups alternate with body text, and empty pieces are dropped
// before pairing, so a header with an empty body pairs with the next piece.
func SplitSections(raw string) any {
	var pieces []string
	last := 0
	for _, m := range sectionHeader.FindAllStringSubmatchIndex(raw, -1) {
		pieces = append(pieces, raw[last:m[0]], raw[m[2]:m[3]])
		last = m[1]
	}
	if len(pieces) == 0 {
		return raw
	}
	pieces = append(pieces, raw[last:])

	kept := pieces[:0]
	for _, p := range pieces {
		if strings.TrimSpace(p) != "" {
			kept = append(kept, p)
		}
	}

	var items []any
	for i := 0; i < len(kept); i += 2 {
		text := ""
		if i+1 < len(kept) {
			text = strings.TrimSpace(kept[i+1])
		}
		items = append(items, content.NewObject().
			Set("header", strings.TrimSpace(kept[i])+":").
			Set("text", text))
	}
	if len(items) == 0 {
		return raw
	}
	return items
}
