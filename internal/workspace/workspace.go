// Package workspace runs the assistant's views. Each view is a Flow with one
// request in flight, its own disclosure state and a rendered result; the
// workspace also owns the section and reference modals that links open.
package workspace

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/navigationiq/navigator/internal/annotate"
	"github.com/navigationiq/navigator/internal/content"
	"github.com/navigationiq/navigator/internal/generate"
	"github.com/navigationiq/navigator/internal/handbook"
	"github.com/navigationiq/navigator/internal/prompts"
	"github.com/navigationiq/navigator/internal/prompts/hosqa"
	"github.com/navigationiq/navigator/internal/prompts/hrcenter"
	"github.com/navigationiq/navigator/internal/prompts/journal"
	"github.com/navigationiq/navigator/internal/prompts/legalqa"
	"github.com/navigationiq/navigator/internal/prompts/risk"
	"github.com/navigationiq/navigator/internal/prompts/solutions"
)

// Flow names.
const (
	FlowRisk      = "risk"
	FlowLegal     = "legal"
	FlowHOSQA     = "hosqa"
	FlowSolutions = "solutions"
	FlowHR        = "hr"
	FlowJournal   = "journal"
)

var (
	// ErrUnknownFlow is returned for a flow name the workspace does not own.
	ErrUnknownFlow = errors.New("unknown flow")
	// ErrNotFound is returned for missing reports, scenarios and archives.
	ErrNotFound = errors.New("not found")
	// ErrEmptyInput is returned when a submission has nothing to analyze.
	ErrEmptyInput = errors.New("input is empty")
)

// Options configures a Workspace.
type Options struct {
	Handbook  *handbook.Handbook
	Generator *generate.Generator
	Resolver  *prompts.Resolver
	Logger    *slog.Logger

	// OrgType is the default organization type for solution modules.
	OrgType string
	// ExportDir receives HR archive exports.
	ExportDir string
}

// Workspace owns every flow, the modal and the archives.
type Workspace struct {
	handbook  *handbook.Handbook
	generator *generate.Generator
	resolver  *prompts.Resolver
	logger    *slog.Logger
	exportDir string

	orgMu   sync.RWMutex
	orgType string

	ctx    context.Context
	cancel context.CancelFunc

	renderer   *content.Renderer
	hrRenderer *content.Renderer
	scenarios  *scenarioSet
	flows      map[string]*Flow
	modal      modal
	references singleflight.Group
	questions  *questionBank
	archive    *hrArchive

	now func() time.Time
}

// New builds a workspace. Handbook and Generator are required.
func New(opts Options) (*Workspace, error) {
	if opts.Handbook == nil {
		return nil, fmt.Errorf("workspace requires a handbook")
	}
	if opts.Generator == nil {
		return nil, fmt.Errorf("workspace requires a generator")
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	orgType := opts.OrgType
	if orgType == "" {
		orgType = solutions.OrgSchool
	}

	scenarios, err := loadScenarios(opts.Handbook)
	if err != nil {
		return nil, err
	}
	questions, err := loadQuestions()
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithCancel(context.Background())
	w := &Workspace{
		handbook:   opts.Handbook,
		generator:  opts.Generator,
		resolver:   opts.Resolver,
		logger:     logger,
		orgType:    orgType,
		exportDir:  opts.ExportDir,
		ctx:        ctx,
		cancel:     cancel,
		renderer:   content.NewRenderer(),
		hrRenderer: content.NewRenderer(content.WithScanner(annotate.New(annotate.WithStandaloneDecimals()))),
		scenarios:  scenarios,
		flows:      make(map[string]*Flow),
		questions:  questions,
		archive:    &hrArchive{},
		now:        time.Now,
	}
	for _, name := range []string{FlowRisk, FlowLegal, FlowHOSQA, FlowSolutions, FlowHR, FlowJournal} {
		w.flows[name] = newFlow(name, logger)
	}
	return w, nil
}

// OrgType returns the default organization type for solution modules.
func (w *Workspace) OrgType() string {
	w.orgMu.RLock()
	defer w.orgMu.RUnlock()
	return w.orgType
}

// SetOrgType changes the default organization type. Empty resets to school.
func (w *Workspace) SetOrgType(orgType string) {
	if orgType == "" {
		orgType = solutions.OrgSchool
	}
	w.orgMu.Lock()
	w.orgType = orgType
	w.orgMu.Unlock()
}

// RegisterPrompts registers every flow prompt with r.
func RegisterPrompts(r *prompts.Resolver) {
	risk.RegisterPrompts(r)
	legalqa.RegisterPrompts(r)
	hosqa.RegisterPrompts(r)
	solutions.RegisterPrompts(r)
	hrcenter.RegisterPrompts(r)
	journal.RegisterPrompts(r)
}

// Handbook returns the handbook the workspace resolves sections against.
func (w *Workspace) Handbook() *handbook.Handbook { return w.handbook }

// Flow returns the named flow.
func (w *Workspace) Flow(name string) (*Flow, error) {
	f, ok := w.flows[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownFlow, name)
	}
	return f, nil
}

// Flows returns the flow names, sorted.
func (w *Workspace) Flows() []string {
	names := make([]string, 0, len(w.flows))
	for name := range w.flows {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// CloseFlow closes the named flow. Closing the journal flow also closes the
// reference modal.
func (w *Workspace) CloseFlow(name string) error {
	f, err := w.Flow(name)
	if err != nil {
		return err
	}
	if name == FlowJournal {
		w.CloseModal()
		return nil
	}
	f.Close()
	return nil
}

// Close cancels every run in flight and any shared reference lookups.
func (w *Workspace) Close() {
	for _, f := range w.flows {
		f.Close()
	}
	w.modal.close()
	w.cancel()
}

// Links binds rendered section and reference links to the workspace modals.
func (w *Workspace) Links() content.Links {
	return content.Links{
		OnSectionRef: func(id string) { w.OpenSection(id) },
		OnCaseOrStatuteRef: func(name string) {
			if _, err := w.OpenReference(w.ctx, name); err != nil {
				w.logger.Warn("failed to open reference", "name", name, "error", err)
			}
		},
	}
}

// promptFor returns the override text and content hash for a prompt key.
func (w *Workspace) promptFor(key string) (override, cid string) {
	if w.resolver == nil {
		return "", ""
	}
	if p, err := w.resolver.Resolve(key); err == nil {
		cid = p.CID
	}
	return w.resolver.Override(key), cid
}
