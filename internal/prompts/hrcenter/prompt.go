// Package hrcenter holds the HR solution center prompt and its topic cards.
package hrcenter

import (
	_ "embed"

	"github.com/navigationiq/navigator/internal/prompts"
)

//go:embed user.tmpl
var userPromptTmpl string

// UserPromptKey is the hierarchical key for this prompt.
const UserPromptKey = "flows.hr.user"

// Temperature for HR solution answers.
const Temperature = 0.3

// UserPromptData contains the variables for the user prompt template.
type UserPromptData struct {
	Card     string
	Query    string
	Document string
	Handbook string
}

// UserPrompt renders the user prompt, preferring override when set.
func UserPrompt(data UserPromptData, override string) (string, error) {
	return prompts.ExecuteWithOverride(UserPromptKey, userPromptTmpl, override, data)
}

// RegisterPrompts registers the HR center prompt with the resolver.
func RegisterPrompts(r *prompts.Resolver) {
	r.Register(prompts.EmbeddedPrompt{
		Key:         UserPromptKey,
		Text:        userPromptTmpl,
		Description: "HR solution center prompt - five-part analysis of a scenario and optional document",
	})
}

// Card is one HR solution center topic.
type Card struct {
	Title       string `json:"title" yaml:"title"`
	Description string `json:"description" yaml:"description"`
}

// Cards lists the HR solution center topics in display order.
var Cards = []Card{
	{"Leave & Accommodation Navigator", "Navigate FMLA, ADA, state leave, and workers' comp."},
	{"Disciplinary Action Advisor", "Guidance on warnings, improvement plans, and terminations."},
	{"Wage & Hour Compliance", "Check employee classifications and overtime rules."},
	{"Workplace Investigation Manager", "Step-by-step protocols for harassment and discrimination claims."},
	{"Multi-State Compliance Checker", "Analyze policy gaps for remote employees in different states."},
	{"Hiring & Background Checks", "Ensure compliance with FCRA and 'Ban-the-Box' laws."},
	{"Benefits Compliance Assistant", "Guidance on COBRA, ACA, and HIPAA qualifying events."},
}

// FindCard returns the card with title.
func FindCard(title string) (Card, bool) {
	for _, c := range Cards {
		if c.Title == title {
			return c, true
		}
	}
	return Card{}, false
}

// Demo upload offered by the document picker.
const (
	DemoFileName    = "Employee FMLA Request Form.txt"
	DemoFileContent = "Employee Name: John Doe\nRequest Date: 2025-10-22\nReason for Leave: Spouse undergoing serious medical surgery.\nRequested Start Date: 2025-11-01\nExpected Duration: 4-6 weeks\n\nNotes: Employee has been with the school for 3 years, working full-time."
)
