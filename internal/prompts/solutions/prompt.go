// Package solutions holds the solution module prompts. One template serves
// every module; the module picks the instruction block and the organization
// type picks the persona.
package solutions

import (
	_ "embed"

	"github.com/navigationiq/navigator/internal/prompts"
)

//go:embed user.tmpl
var userPromptTmpl string

// UserPromptKey is the hierarchical key for this prompt.
const UserPromptKey = "flows.solutions.user"

// Temperature for solution module answers.
const Temperature = 0.3

// Organization types.
const (
	OrgSchool    = "school"
	OrgNonprofit = "nonprofit"
)

var orgContext = map[string]string{
	OrgSchool:    "You are an expert AI consultant for K-12 private school leaders. Your tone is professional, clear, and authoritative.",
	OrgNonprofit: "You are an expert AI consultant for non-profit leaders. Your tone is professional, clear, and authoritative. You must not use school-specific terms like 'student' or 'parent'. Use 'client', 'staff', and 'volunteer' instead.",
}

// OrgContext returns the persona text for orgType. Unknown types use the
// school persona.
func OrgContext(orgType string) string {
	if c, ok := orgContext[orgType]; ok {
		return c
	}
	return orgContext[OrgSchool]
}

// UserPromptData contains the variables for the user prompt template.
type UserPromptData struct {
	Context     string
	Instruction string
	Kind        string
	Query       string
}

// UserPrompt renders the user prompt, preferring override when set.
func UserPrompt(data UserPromptData, override string) (string, error) {
	return prompts.ExecuteWithOverride(UserPromptKey, userPromptTmpl, override, data)
}

// RegisterPrompts registers the solution module prompt with the resolver.
func RegisterPrompts(r *prompts.Resolver) {
	r.Register(prompts.EmbeddedPrompt{
		Key:         UserPromptKey,
		Text:        userPromptTmpl,
		Description: "Solution module prompt - persona, module instruction and query",
	})
}
