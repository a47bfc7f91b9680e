package workspace

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/navigationiq/navigator/internal/disclosure"
)

// ErrBusy is returned when a flow already has a request in flight.
var ErrBusy = errors.New("flow is busy")

// Status is the lifecycle state of a flow.
type Status string

const (
	StatusIdle    Status = "idle"
	StatusLoading Status = "loading"
	StatusReady   Status = "ready"
)

// Flow is one view of the workspace. It holds at most one in-flight request,
// the last result, and the view's disclosure store.
//
// Every Begin, Show and Close bumps the flow's generation. A run that
// finishes under an older generation is dropped.
type Flow struct {
	name   string
	logger *slog.Logger

	mu        sync.Mutex
	status    Status
	gen       uint64
	cancel    context.CancelFunc
	done      chan struct{}
	input     string
	result    any
	notice    string
	updatedAt time.Time

	disclosure *disclosure.Store
}

func newFlow(name string, logger *slog.Logger) *Flow {
	done := make(chan struct{})
	close(done)
	return &Flow{
		name:       name,
		logger:     logger.With("flow", name),
		status:     StatusIdle,
		done:       done,
		disclosure: disclosure.New(),
	}
}

// Name returns the flow id.
func (f *Flow) Name() string { return f.name }

// Disclosure returns the flow's panel state.
func (f *Flow) Disclosure() *disclosure.Store { return f.disclosure }

// Run is a single in-flight request of a flow.
type Run struct {
	flow   *Flow
	gen    uint64
	ctx    context.Context
	cancel context.CancelFunc
	done   chan struct{}
}

// Context returns the run's context. It is cancelled when the flow closes or
// another result replaces this one.
func (r *Run) Context() context.Context { return r.ctx }

// Done is closed once the run has settled or been superseded.
func (r *Run) Done() <-chan struct{} { return r.done }

// Wait blocks until the run settles or ctx ends.
func (r *Run) Wait(ctx context.Context) error {
	select {
	case <-r.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Begin marks the flow loading and returns a run. keep preserves the
// disclosure state, as when updating an existing result.
//
// The run's context inherits values from ctx but not its cancellation, so an
// asynchronous submission outlives the request that started it.
func (f *Flow) Begin(ctx context.Context, input string, keep bool) (*Run, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.status == StatusLoading {
		return nil, ErrBusy
	}

	runCtx, cancel := context.WithCancel(context.WithoutCancel(ctx))
	f.gen++
	f.status = StatusLoading
	f.cancel = cancel
	f.done = make(chan struct{})
	f.input = input
	f.result = nil
	f.notice = ""
	if !keep {
		f.disclosure.Reset()
	}

	f.logger.Debug("flow started", "generation", f.gen)
	return &Run{flow: f, gen: f.gen, ctx: runCtx, cancel: cancel, done: f.done}, nil
}

// Finish stores the run's result. It reports false when the run is stale,
// in which case nothing changes.
func (r *Run) Finish(result any, notice string) bool {
	return r.FinishCommit(result, notice, nil)
}

// FinishCommit is Finish with a side effect that belongs to the result, such
// as an archive write. commit runs only when the result is stored, before
// waiters are released. It runs under the flow's lock and must not call back
// into the flow.
func (r *Run) FinishCommit(result any, notice string, commit func()) bool {
	f := r.flow
	f.mu.Lock()
	defer f.mu.Unlock()

	r.cancel()
	if r.gen != f.gen {
		f.logger.Debug("dropping stale response", "generation", r.gen, "current", f.gen)
		return false
	}

	if commit != nil {
		commit()
	}
	f.status = StatusReady
	f.result = result
	f.notice = notice
	f.cancel = nil
	f.updatedAt = time.Now()
	close(f.done)
	return true
}

// Show replaces the flow's result without a request, cancelling any run in
// flight. Disclosure state is reset.
func (f *Flow) Show(input string, result any, notice string) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.supersede()
	f.status = StatusReady
	f.input = input
	f.result = result
	f.notice = notice
	f.updatedAt = time.Now()
	f.disclosure.Reset()
}

// Close cancels any run in flight, clears the result and collapses every
// panel.
func (f *Flow) Close() {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.supersede()
	f.status = StatusIdle
	f.input = ""
	f.result = nil
	f.notice = ""
	f.updatedAt = time.Now()
	f.disclosure.Reset()
}

// supersede invalidates the current run. Caller holds f.mu.
func (f *Flow) supersede() {
	f.gen++
	if f.cancel != nil {
		f.cancel()
		f.cancel = nil
	}
	if f.status == StatusLoading {
		close(f.done)
	}
}

// Toggle flips a panel flag in scope and returns the new value.
func (f *Flow) Toggle(scope, option string) bool {
	return f.disclosure.Toggle(scope, option)
}

// Snapshot is a copy of a flow's state.
type Snapshot struct {
	Name      string    `json:"name" yaml:"name"`
	Status    Status    `json:"status" yaml:"status"`
	Input     string    `json:"input,omitempty" yaml:"input,omitempty"`
	Notice    string    `json:"notice,omitempty" yaml:"notice,omitempty"`
	Result    any       `json:"result,omitempty" yaml:"result,omitempty"`
	Expanded  []string  `json:"expanded,omitempty" yaml:"expanded,omitempty"`
	UpdatedAt time.Time `json:"updated_at,omitzero" yaml:"updated_at,omitempty"`
}

// Snapshot returns the flow's current state.
func (f *Flow) Snapshot() Snapshot {
	f.mu.Lock()
	defer f.mu.Unlock()
	return Snapshot{
		Name:      f.name,
		Status:    f.status,
		Input:     f.input,
		Notice:    f.notice,
		Result:    f.result,
		Expanded:  f.disclosure.Expanded(),
		UpdatedAt: f.updatedAt,
	}
}

// Result returns the current result and notice.
func (f *Flow) Result() (any, string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.result, f.notice
}

// Status returns the lifecycle state.
func (f *Flow) Status() Status {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.status
}

// Wait blocks until the flow is not loading or ctx ends.
func (f *Flow) Wait(ctx context.Context) error {
	f.mu.Lock()
	done := f.done
	f.mu.Unlock()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// start begins a run and executes fn on its own goroutine. fn's result is
// stored unless the run has been superseded.
func (f *Flow) start(ctx context.Context, input string, keep bool, fn func(ctx context.Context) (any, string)) (*Run, error) {
	return f.startCommit(ctx, input, keep, func(ctx context.Context) (any, string, func()) {
		result, notice := fn(ctx)
		return result, notice, nil
	})
}

// startCommit is start for runs whose result carries a commit, applied
// only if the result is stored.
func (f *Flow) startCommit(ctx context.Context, input string, keep bool, fn func(ctx context.Context) (any, string, func())) (*Run, error) {
	run, err := f.Begin(ctx, input, keep)
	if err != nil {
		return nil, err
	}
	go func() {
		result, notice, commit := fn(run.ctx)
		run.FinishCommit(result, notice, commit)
	}()
	return run, nil
}
