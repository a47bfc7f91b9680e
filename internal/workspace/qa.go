package workspace

import (
	"context"
	"fmt"
	"strings"

	"github.com/navigationiq/navigator/internal/content"
	"github.com/navigationiq/navigator/internal/prompts/hosqa"
	"github.com/navigationiq/navigator/internal/prompts/legalqa"
	"github.com/navigationiq/navigator/internal/prompts/solutions"
)

// AskLegal starts a legal question.
func (w *Workspace) AskLegal(ctx context.Context, question string) (*Run, error) {
	question = strings.TrimSpace(question)
	if question == "" {
		return nil, ErrEmptyInput
	}
	return w.flows[FlowLegal].start(ctx, question, false, func(ctx context.Context) (any, string) {
		override, cid := w.promptFor(legalqa.UserPromptKey)
		req, err := legalqa.NewRequest(legalqa.Input{Question: question, UserPromptOverride: override, PromptCID: cid})
		if err != nil {
			return legalFallback(err), ""
		}
		v, err := w.generator.Generate(ctx, req)
		if err != nil {
			return legalFallback(err), ""
		}
		return v, ""
	})
}

// legalFallback keeps the answer's shape so the three sections still render.
func legalFallback(err error) *content.Object {
	return content.NewObject().
		Set("guidance", fmt.Sprintf("Sorry, I encountered an error. %v", err)).
		Set("references", "N/A").
		Set("risk", content.NewObject().
			Set("level", "Unknown").
			Set("analysis", "Could not analyze risk.").
			Set("recommendation", []any{"Please rephrase your question or contact legal counsel directly."}))
}

// field is a result field rendered under a heading.
type field struct{ key, title string }

var legalSections = []field{
	{"guidance", "Guidance"},
	{"references", "Key References"},
	{"risk", "Risk Analysis"},
}

func (w *Workspace) renderLegal(f *Flow, result any) *content.Node {
	obj, ok := result.(*content.Object)
	if !ok {
		return w.renderer.RenderResult(result, w.Links(), f.Disclosure().Scope(f.Name()))
	}
	return w.renderSections(w.renderer, f, obj, legalSections)
}

// renderSections renders the named fields of obj under headings. Each field
// gets its own disclosure scope.
func (w *Workspace) renderSections(r *content.Renderer, f *Flow, obj *content.Object, sections []field) *content.Node {
	out := &content.Node{Kind: content.NodeBlock}
	for _, s := range sections {
		v, ok := obj.Get(s.key)
		if !ok {
			continue
		}
		heading := &content.Node{Kind: content.NodeHeading, Text: s.title}
		if body := r.Render(v, w.Links(), f.Disclosure().Scope(s.key)); body != nil {
			heading.Children = []*content.Node{body}
		}
		out.Children = append(out.Children, heading)
	}
	return out
}

// AskHeadOfSchool starts a head-of-school question. Answers are archived
// under ArchivedCategory and shown split into headed sections.
func (w *Workspace) AskHeadOfSchool(ctx context.Context, question string) (*Run, error) {
	question = strings.TrimSpace(question)
	if question == "" {
		return nil, ErrEmptyInput
	}
	return w.flows[FlowHOSQA].startCommit(ctx, question, false, func(ctx context.Context) (any, string, func()) {
		override, cid := w.promptFor(hosqa.UserPromptKey)
		req, err := hosqa.NewRequest(hosqa.Input{Question: question, UserPromptOverride: override, PromptCID: cid})
		if err != nil {
			return askFailure(err), "", nil
		}
		text, err := w.generator.GenerateText(ctx, req)
		if err != nil {
			return askFailure(err), "", nil
		}
		return hosqa.SplitSections(text), "", func() { w.questions.add(question, text) }
	})
}

func askFailure(err error) *content.Object {
	return content.ErrorValue(failureText(err))
}

func failureText(err error) string {
	return fmt.Sprintf("An error occurred: %v. Please check your API key and the console.", err)
}

// Questions returns industry questions in category, newest archived first.
// An empty category returns all of them.
func (w *Workspace) Questions(category string) []Question {
	return w.questions.filter(category)
}

// QuestionCategories returns the categories in first-seen order.
func (w *Workspace) QuestionCategories() []string {
	return w.questions.categories()
}

// AnalyzeSolution starts a solution module analysis. An empty orgType uses
// the workspace default.
func (w *Workspace) AnalyzeSolution(ctx context.Context, module, orgType, query string) (*Run, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, ErrEmptyInput
	}
	if orgType == "" {
		orgType = w.OrgType()
	}
	return w.flows[FlowSolutions].start(ctx, query, false, func(ctx context.Context) (any, string) {
		override, cid := w.promptFor(solutions.UserPromptKey)
		req, err := solutions.NewRequest(solutions.Input{
			Module:             module,
			OrgType:            orgType,
			Query:              query,
			UserPromptOverride: override,
			PromptCID:          cid,
		})
		if err != nil {
			return solutionFailure(err), ""
		}
		v, err := w.generator.Generate(ctx, req)
		if err != nil {
			return solutionFailure(err), ""
		}
		return v, ""
	})
}

func solutionFailure(err error) []any {
	return []any{content.NewObject().Set("header", "Error").Set("text", failureText(err))}
}

// Modules returns the solution modules.
func (w *Workspace) Modules() []solutions.Module {
	return append([]solutions.Module(nil), solutions.Modules...)
}
