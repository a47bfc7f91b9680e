package prompts_test

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/navigationiq/navigator/internal/generate"
	"github.com/navigationiq/navigator/internal/llmcall"
	"github.com/navigationiq/navigator/internal/prompts"
	"github.com/navigationiq/navigator/internal/prompts/hosqa"
	"github.com/navigationiq/navigator/internal/prompts/hrcenter"
	"github.com/navigationiq/navigator/internal/prompts/journal"
	"github.com/navigationiq/navigator/internal/prompts/legalqa"
	"github.com/navigationiq/navigator/internal/prompts/risk"
	"github.com/navigationiq/navigator/internal/prompts/solutions"
	"github.com/navigationiq/navigator/internal/providers"
)

const riskReport = `{
  "step1": {"title": "Issue Identification", "content": [{"header": "Core Issue:", "text": "Grade appeal."}]},
  "step2": {"title": "Policy Review", "content": [{"header": "Section 3.4:", "text": "Appeals go to the Head."}]},
  "step3": {"title": "Legal Framework", "content": [{"header": "Case Law:", "text": "No direct K-12 case law was found for this specific issue."}]},
  "step4": {"title": "Response Options", "content": {
    "optionA": {"title": "Uphold", "suggestedLanguage": "a", "policyMatch": "b", "riskScore": "Low", "legalReference": "c", "recommendation": "d"},
    "optionB": {"title": "Review", "suggestedLanguage": "a", "policyMatch": "b", "riskScore": "Low", "legalReference": "c", "recommendation": "d"},
    "optionC": {"title": "Reverse", "suggestedLanguage": "a", "policyMatch": "b", "riskScore": "High", "legalReference": "c", "recommendation": "d"}}},
  "step5": {"title": "Anticipated Responses", "content": {
    "optionA": {"title": "A", "likelyResponse": "x", "schoolRisk": "y", "legalReference": "z"},
    "optionB": {"title": "B", "likelyResponse": "x", "schoolRisk": "y", "legalReference": "z"},
    "optionC": {"title": "C", "likelyResponse": "x", "schoolRisk": "y", "legalReference": "z"}}},
  "step6": {"title": "Recommendation", "content": {"recommendationSummary": "Option B.", "implementationSteps": ["Meet.", "Document."]}}
}`

func newGenerator(t *testing.T, response string) (*generate.Generator, *providers.MockClient) {
	t.Helper()
	mock := providers.NewMockClient()
	mock.Latency = 0
	mock.ResponseText = response
	if json.Valid([]byte(response)) {
		mock.ResponseJSON = json.RawMessage(response)
	}
	reg := providers.NewRegistry()
	reg.RegisterLLM("mock", mock)
	return generate.New(reg, llmcall.NewRecorder(llmcall.NewStore(0), nil), generate.Config{}, nil), mock
}

func TestFlowRequests(t *testing.T) {
	mustRequest := func(req generate.Request, err error) generate.Request {
		t.Helper()
		if err != nil {
			t.Fatalf("NewRequest: %v", err)
		}
		return req
	}

	tests := []struct {
		name     string
		req      generate.Request
		response string
		temp     *float64
		contains []string
	}{
		{
			name:     "risk",
			req:      mustRequest(risk.NewRequest(risk.Input{Handbook: "SECTION 3", Issue: "A parent appeals a grade."})),
			response: riskReport,
			temp:     providers.Temperature(risk.Temperature),
			contains: []string{"SECTION 3", "A parent appeals a grade.", "No direct K-12 case law was found for this specific issue."},
		},
		{
			name:     "legal",
			req:      mustRequest(legalqa.NewRequest(legalqa.Input{Question: "Can we search lockers?"})),
			response: `{"guidance": "Under **FERPA**...", "references": {"citation": "*New Jersey v. T.L.O.*", "relevance": "Searches."}, "risk": {"level": "Moderate", "analysis": "a", "recommendation": ["b"]}}`,
			contains: []string{`Question: "Can we search lockers?"`, "**Statute Name**"},
		},
		{
			name:     "solutions",
			req:      mustRequest(solutions.NewRequest(solutions.Input{Module: "leave", OrgType: solutions.OrgNonprofit, Query: "Staff member needs surgery leave"})),
			response: `[{"header": "Eligibility", "text": "Check **FMLA**."}]`,
			temp:     providers.Temperature(solutions.Temperature),
			contains: []string{"non-profit leaders", "FMLA, ADA", `Analyze this leave request: "Staff member needs surgery leave"`, `"header" and a "text"`},
		},
		{
			name: "hr",
			req: mustRequest(hrcenter.NewRequest(hrcenter.Input{
				Card:     hrcenter.Cards[0].Title,
				Document: hrcenter.DemoFileContent,
				Handbook: "SECTION 5",
			})),
			response: `{"executiveSummary": "a", "documentAnalysis": "b", "handbookPolicyAnalysis": "c", "legalAndComplianceFramework": "d", "actionableRecommendations": ["e"]}`,
			temp:     providers.Temperature(hrcenter.Temperature),
			contains: []string{"Navigation IQ", "Leave & Accommodation Navigator", "--- BEGIN DOCUMENT ---", "John Doe", "SECTION 5"},
		},
		{
			name:     "journal",
			req:      mustRequest(journal.NewRequest(journal.Input{Name: "Tinker v. Des Moines"})),
			response: `{"caseName": "Tinker v. Des Moines Independent Community School District", "summary": "Student speech."}`,
			temp:     providers.Temperature(journal.Temperature),
			contains: []string{`"Tinker v. Des Moines"`},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for _, s := range tt.contains {
				if !strings.Contains(tt.req.Prompt, s) {
					t.Errorf("prompt missing %q", s)
				}
			}
			switch {
			case tt.temp == nil && tt.req.Temperature != nil:
				t.Errorf("temperature = %v, want model default", *tt.req.Temperature)
			case tt.temp != nil && (tt.req.Temperature == nil || *tt.req.Temperature != *tt.temp):
				t.Errorf("temperature = %v, want %v", tt.req.Temperature, *tt.temp)
			}

			g, _ := newGenerator(t, tt.response)
			if _, err := g.Generate(context.Background(), tt.req); err != nil {
				t.Fatalf("Generate with conforming response: %v", err)
			}

			bad, _ := newGenerator(t, `{"unexpected": true}`)
			if _, err := bad.Generate(context.Background(), tt.req); !errors.Is(err, generate.ErrSchema) {
				t.Errorf("non-conforming response error = %v, want ErrSchema", err)
			}
		})
	}
}

func TestRiskRequestSystemPrompt(t *testing.T) {
	req, err := risk.NewRequest(risk.Input{Issue: "x"})
	if err != nil {
		t.Fatal(err)
	}
	g, mock := newGenerator(t, riskReport)
	if _, err := g.Generate(context.Background(), req); err != nil {
		t.Fatalf("Generate: %v", err)
	}
	msgs := mock.LastRequest().Messages
	if len(msgs) != 2 || msgs[0].Role != "system" || msgs[0].Content != risk.SystemPrompt() {
		t.Errorf("messages = %+v, want system prompt first", msgs)
	}
}

func TestUserPromptOverride(t *testing.T) {
	req, err := legalqa.NewRequest(legalqa.Input{Question: "Q1", UserPromptOverride: "Short: {{.Question}}", PromptCID: "cid-1"})
	if err != nil {
		t.Fatal(err)
	}
	if req.Prompt != "Short: Q1" {
		t.Errorf("prompt = %q", req.Prompt)
	}
	if req.PromptCID != "cid-1" || req.PromptKey != legalqa.UserPromptKey {
		t.Errorf("request = %+v", req)
	}
}

func TestHosqaRequestIsText(t *testing.T) {
	req, err := hosqa.NewRequest(hosqa.Input{Question: "How do we handle re-enrollment?"})
	if err != nil {
		t.Fatal(err)
	}
	if req.Schema != nil {
		t.Error("hosqa answers are free text")
	}
	g, _ := newGenerator(t, "**Summary:**\nPlan ahead.")
	text, err := g.GenerateText(context.Background(), req)
	if err != nil || text != "**Summary:**\nPlan ahead." {
		t.Errorf("GenerateText = (%q, %v)", text, err)
	}
}

func TestSolutionsUnknownModule(t *testing.T) {
	req, err := solutions.NewRequest(solutions.Input{Module: "nope", OrgType: "other", Query: "q"})
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(req.Prompt, solutions.DefaultInstruction) {
		t.Error("unknown module should use the default instruction")
	}
	if !strings.Contains(req.Prompt, "K-12 private school leaders") {
		t.Error("unknown org type should use the school persona")
	}
}

func TestHRRequiresScenario(t *testing.T) {
	if _, err := hrcenter.NewRequest(hrcenter.Input{Card: "x"}); !errors.Is(err, hrcenter.ErrEmptyScenario) {
		t.Errorf("err = %v, want ErrEmptyScenario", err)
	}
	if _, ok := hrcenter.FindCard("Benefits Compliance Assistant"); !ok {
		t.Error("benefits card missing")
	}
	if len(hrcenter.Cards) != 7 {
		t.Errorf("cards = %d, want 7", len(hrcenter.Cards))
	}
}

func TestRegisterPrompts(t *testing.T) {
	r := prompts.NewResolver(nil)
	risk.RegisterPrompts(r)
	legalqa.RegisterPrompts(r)
	hosqa.RegisterPrompts(r)
	solutions.RegisterPrompts(r)
	hrcenter.RegisterPrompts(r)
	journal.RegisterPrompts(r)

	if got := len(r.AllEmbedded()); got != 7 {
		t.Errorf("registered %d prompts, want 7", got)
	}
	p, err := r.Resolve(risk.UserPromptKey)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if want := []string{"Handbook", "Issue"}; strings.Join(p.Variables, ",") != strings.Join(want, ",") {
		t.Errorf("variables = %v, want %v", p.Variables, want)
	}
}
