package workspace

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/navigationiq/navigator/internal/content"
	"github.com/navigationiq/navigator/internal/prompts/hrcenter"
)

// HRArchive is a saved HR solution.
type HRArchive struct {
	ID          string          `json:"id" yaml:"id"`
	CardTitle   string          `json:"cardTitle" yaml:"cardTitle"`
	Query       string          `json:"query" yaml:"query"`
	FileContent string          `json:"fileContent,omitempty" yaml:"fileContent,omitempty"`
	Response    *content.Object `json:"response" yaml:"response"`
	CreatedAt   time.Time       `json:"createdAt" yaml:"createdAt"`
}

type hrArchive struct {
	mu      sync.RWMutex
	entries []HRArchive
}

func (a *hrArchive) add(e HRArchive) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.entries = append([]HRArchive{e}, a.entries...)
}

func (a *hrArchive) list() []HRArchive {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return append([]HRArchive(nil), a.entries...)
}

// find returns the entry with id, or the newest entry when id is empty.
func (a *hrArchive) find(id string) (HRArchive, bool) {
	a.mu.RLock()
	defer a.mu.RUnlock()
	for _, e := range a.entries {
		if id == "" || e.ID == id {
			return e, true
		}
	}
	return HRArchive{}, false
}

var hrSections = []field{
	{"executiveSummary", "Executive Summary"},
	{"documentAnalysis", "Document Analysis"},
	{"handbookPolicyAnalysis", "Handbook Policy Analysis"},
	{"legalAndComplianceFramework", "Legal & Compliance Framework"},
	{"actionableRecommendations", "Actionable Recommendations"},
}

// Cards returns the HR solution center topics.
func (w *Workspace) Cards() []hrcenter.Card {
	return append([]hrcenter.Card(nil), hrcenter.Cards...)
}

// AnalyzeHR starts an HR solution for card. Either query or document must be
// set. Successful answers are archived.
func (w *Workspace) AnalyzeHR(ctx context.Context, card, query, document string) (*Run, error) {
	if _, ok := hrcenter.FindCard(card); !ok {
		return nil, fmt.Errorf("%w: card %q", ErrNotFound, card)
	}
	query = strings.TrimSpace(query)
	if query == "" && strings.TrimSpace(document) == "" {
		return nil, hrcenter.ErrEmptyScenario
	}
	return w.flows[FlowHR].startCommit(ctx, query, false, func(ctx context.Context) (any, string, func()) {
		override, cid := w.promptFor(hrcenter.UserPromptKey)
		req, err := hrcenter.NewRequest(hrcenter.Input{
			Card:               card,
			Query:              query,
			Document:           document,
			Handbook:           w.handbook.FullText(),
			UserPromptOverride: override,
			PromptCID:          cid,
		})
		if err != nil {
			return askFailure(err), "", nil
		}
		v, err := w.generator.Generate(ctx, req)
		if err != nil {
			return askFailure(err), "", nil
		}
		obj, ok := v.(*content.Object)
		if !ok {
			return v, "", nil
		}
		return v, "", func() {
			w.archive.add(HRArchive{
				ID:          uuid.New().String(),
				CardTitle:   card,
				Query:       query,
				FileContent: document,
				Response:    obj,
				CreatedAt:   w.now(),
			})
		}
	})
}

// Archive returns saved HR solutions, newest first.
func (w *Workspace) Archive() []HRArchive {
	return w.archive.list()
}

// Download formats archive entry id as a text export. An empty id selects
// the newest entry.
func (w *Workspace) Download(id string) (filename, text string, err error) {
	e, ok := w.archive.find(id)
	if !ok {
		return "", "", fmt.Errorf("%w: archive %s", ErrNotFound, id)
	}
	return ArchiveFilename(w.now()), FormatArchive(e), nil
}

// Export writes archive entry id into the export directory and returns the
// file path.
func (w *Workspace) Export(id string) (string, error) {
	if w.exportDir == "" {
		return "", fmt.Errorf("no export directory configured")
	}
	name, text, err := w.Download(id)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(w.exportDir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create export directory: %w", err)
	}
	path := filepath.Join(w.exportDir, name)
	if err := os.WriteFile(path, []byte(text), 0o644); err != nil {
		return "", fmt.Errorf("failed to write export: %w", err)
	}
	w.logger.Info("exported HR archive", "path", path)
	return path, nil
}

// ArchiveFilename is the export file name for day t.
func ArchiveFilename(t time.Time) string {
	return "HR_Archive_" + t.UTC().Format("2006-01-02") + ".txt"
}

// FormatArchive renders an archive entry as plain text.
func FormatArchive(e HRArchive) string {
	var b strings.Builder
	b.WriteString("Navigation IQ - HR Solutions Center Archive\n")
	b.WriteString("========================================\n\n")
	fmt.Fprintf(&b, "TOPIC: %s\n\n", e.CardTitle)
	fmt.Fprintf(&b, "QUERY:\n%s\n\n", e.Query)
	if e.FileContent != "" {
		fmt.Fprintf(&b, "--- UPLOADED DOCUMENT CONTENT ---\n%s\n\n", e.FileContent)
	}
	b.WriteString("--- AI GENERATED SOLUTION ---\n")

	for _, s := range hrSections[:4] {
		fmt.Fprintf(&b, "%s:\n%s\n\n", s.title, archiveText(e.Response, s.key))
	}

	var recs []string
	if e.Response != nil {
		if v, ok := e.Response.Get("actionableRecommendations"); ok {
			if list, ok := v.([]any); ok {
				for _, r := range list {
					recs = append(recs, fmt.Sprint(r))
				}
			}
		}
	}
	fmt.Fprintf(&b, "Actionable Recommendations:\n%s\n\n", strings.Join(recs, "\n- "))
	return b.String()
}

func archiveText(obj *content.Object, key string) string {
	if obj == nil {
		return ""
	}
	return obj.String(key)
}

func (w *Workspace) renderHR(f *Flow, result any) *content.Node {
	obj, ok := result.(*content.Object)
	if !ok {
		return w.hrRenderer.RenderResult(result, w.Links(), f.Disclosure().Scope(f.Name()))
	}
	return w.renderSections(w.hrRenderer, f, obj, hrSections)
}
