package workspace

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/navigationiq/navigator/internal/content"
	"github.com/navigationiq/navigator/internal/handbook"
	"github.com/navigationiq/navigator/internal/prompts/journal"
)

// ModalKind identifies which modal is showing.
type ModalKind string

const (
	ModalNone      ModalKind = ""
	ModalSection   ModalKind = "section"
	ModalReference ModalKind = "reference"
)

type modal struct {
	mu      sync.Mutex
	kind    ModalKind
	section handbook.Section
}

func (m *modal) set(kind ModalKind, section handbook.Section) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.kind = kind
	m.section = section
}

func (m *modal) close() {
	m.set(ModalNone, handbook.Section{})
}

func (m *modal) get() (ModalKind, handbook.Section) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.kind, m.section
}

// ModalView is the state of the modal layer.
type ModalView struct {
	Kind      ModalKind         `json:"kind,omitempty" yaml:"kind,omitempty"`
	Section   *handbook.Section `json:"section,omitempty" yaml:"section,omitempty"`
	Reference string            `json:"reference,omitempty" yaml:"reference,omitempty"`
	Loading   bool              `json:"loading,omitempty" yaml:"loading,omitempty"`
	Result    any               `json:"result,omitempty" yaml:"result,omitempty"`
}

// Modal returns the current modal state.
func (w *Workspace) Modal() ModalView {
	kind, section := w.modal.get()
	switch kind {
	case ModalSection:
		return ModalView{Kind: kind, Section: &section}
	case ModalReference:
		snap := w.flows[FlowJournal].Snapshot()
		return ModalView{
			Kind:      kind,
			Reference: snap.Input,
			Loading:   snap.Status == StatusLoading,
			Result:    snap.Result,
		}
	}
	return ModalView{}
}

// OpenSection shows handbook section id in the modal. A miss is logged by
// the handbook and leaves the modal unchanged.
func (w *Workspace) OpenSection(id string) bool {
	s, ok := w.handbook.Lookup(id)
	if !ok {
		return false
	}
	w.flows[FlowJournal].Close()
	w.modal.set(ModalSection, s)
	return true
}

// OpenReference shows the reference modal for a case or statute in a loading
// state and looks the name up. A lookup already running for the same name is
// shared.
func (w *Workspace) OpenReference(ctx context.Context, name string) (*Run, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrEmptyInput
	}
	f := w.flows[FlowJournal]
	f.Close()
	w.modal.set(ModalReference, handbook.Section{})
	return f.start(ctx, name, false, func(ctx context.Context) (any, string) {
		return w.lookupReference(ctx, name), ""
	})
}

// CloseModal hides the modal and drops any pending lookup result.
func (w *Workspace) CloseModal() {
	w.flows[FlowJournal].Close()
	w.modal.close()
}

func (w *Workspace) lookupReference(ctx context.Context, name string) any {
	ch := w.references.DoChan(name, func() (any, error) {
		override, cid := w.promptFor(journal.UserPromptKey)
		req, err := journal.NewRequest(journal.Input{Name: name, UserPromptOverride: override, PromptCID: cid})
		if err != nil {
			return nil, err
		}
		return w.generator.Generate(w.ctx, req)
	})

	select {
	case res := <-ch:
		if res.Err != nil {
			return content.ErrorValue(fmt.Sprintf("Could not load details for %s. %v", name, res.Err))
		}
		if res.Shared {
			w.logger.Debug("reference lookup shared", "name", name)
		}
		return res.Val
	case <-ctx.Done():
		return nil
	}
}

// RenderModal renders the modal body.
func (w *Workspace) RenderModal() *content.Node {
	view := w.Modal()
	switch view.Kind {
	case ModalSection:
		body := w.renderer.Render(view.Section.Text, w.Links(), nil)
		return &content.Node{Kind: content.NodeBlock, Text: view.Section.Key, Children: []*content.Node{body}}
	case ModalReference:
		if view.Loading {
			return &content.Node{Kind: content.NodeBlock, Text: view.Reference, Children: []*content.Node{loadingNode()}}
		}
		body := w.renderer.RenderResult(view.Result, w.Links(), nil)
		return &content.Node{Kind: content.NodeBlock, Text: view.Reference, Children: nonNil(body)}
	}
	return nil
}

func loadingNode() *content.Node {
	return paragraph("Loading...")
}

func paragraph(text string) *content.Node {
	return &content.Node{
		Kind:     content.NodeParagraph,
		Children: []*content.Node{{Kind: content.NodeText, Text: text}},
	}
}

func nonNil(nodes ...*content.Node) []*content.Node {
	out := nodes[:0]
	for _, n := range nodes {
		if n != nil {
			out = append(out, n)
		}
	}
	return out
}
