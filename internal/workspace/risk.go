package workspace

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/navigationiq/navigator/internal/content"
	"github.com/navigationiq/navigator/internal/generate"
	"github.com/navigationiq/navigator/internal/prompts/risk"
)

// Risk flow messages.
const (
	NoticeDemoFallback = "The live AI model is temporarily unavailable. Displaying a pre-built demonstration scenario."
	MessageNoAPIKey    = "API key is not configured. Add an api_key under llm_providers in config.yaml or set NAVIGATOR_LLM_PROVIDERS_<NAME>_API_KEY."
)

// stepScope is the disclosure scope of the step cards.
const stepScope = "steps"

// Analyze starts a live risk assessment of issue. update keeps the panels
// the user had open; a new analysis collapses them.
//
// A 503 from the provider shows the parent complaint demo with a notice.
func (w *Workspace) Analyze(ctx context.Context, issue string, update bool) (*Run, error) {
	issue = strings.TrimSpace(issue)
	if issue == "" {
		return nil, ErrEmptyInput
	}
	return w.flows[FlowRisk].start(ctx, issue, update, func(ctx context.Context) (any, string) {
		override, cid := w.promptFor(risk.UserPromptKey)
		req, err := risk.NewRequest(risk.Input{
			Handbook:           w.handbook.FullText(),
			Issue:              issue,
			UserPromptOverride: override,
			PromptCID:          cid,
		})
		if err != nil {
			return riskFailure(err), ""
		}

		v, err := w.generator.Generate(ctx, req)
		switch {
		case err == nil:
			return v, ""
		case errors.Is(err, generate.ErrNoProvider):
			return content.ErrorValue(MessageNoAPIKey), ""
		case generate.IsUnavailable(err):
			w.logger.Warn("model unavailable, showing demo scenario", "scenario", ScenarioParentComplaint)
			return w.scenarios.byKey[ScenarioParentComplaint], NoticeDemoFallback
		default:
			return riskFailure(err), ""
		}
	})
}

func riskFailure(err error) *content.Object {
	return content.ErrorValue(fmt.Sprintf("Failed to generate AI response. %v. Please check your API key and network connection.", err))
}

// Scenarios returns the demo scenario keys in file order.
func (w *Workspace) Scenarios() []string {
	return append([]string(nil), w.scenarios.keys...)
}

// Demo shows a pre-built scenario with its archived issue text.
func (w *Workspace) Demo(key string) error {
	v, ok := w.scenarios.byKey[key]
	if !ok {
		return fmt.Errorf("%w: scenario %s", ErrNotFound, key)
	}
	w.flows[FlowRisk].Show(w.scenarios.issueFor(key), v, "")
	return nil
}

// Reports returns the archived risk reports.
func (w *Workspace) Reports() []Report {
	return append([]Report(nil), w.scenarios.reports...)
}

// OpenReport shows archived report id.
func (w *Workspace) OpenReport(id int) error {
	for _, r := range w.scenarios.reports {
		if r.ID == id {
			w.flows[FlowRisk].Show(r.Issue, w.scenarios.byKey[r.Scenario], "")
			return nil
		}
	}
	return fmt.Errorf("%w: report %d", ErrNotFound, id)
}

// renderRisk renders the six step cards. Card state lives in the "steps"
// scope; panels inside a step live in the step's own scope.
func (w *Workspace) renderRisk(f *Flow, result any) *content.Node {
	obj, ok := result.(*content.Object)
	if !ok {
		return w.renderer.Render(result, w.Links(), nil)
	}

	store := f.Disclosure()
	cards := store.Scope(stepScope)
	out := &content.Node{Kind: content.NodeBlock}
	for i, key := range risk.StepKeys {
		v, ok := obj.Get(key)
		if !ok {
			continue
		}
		step, _ := v.(*content.Object)
		title := fmt.Sprintf("Step %d", i+1)
		if step != nil && step.String("title") != "" {
			title += ": " + step.String("title")
		}

		stepKey := key
		out.Children = append(out.Children, content.NewPanel(title, cards, stepKey, func() *content.Node {
			var body any = v
			if step != nil {
				body, _ = step.Get("content")
			}
			return w.renderer.Render(body, w.Links(), store.Scope(stepKey))
		}))
	}
	return out
}
