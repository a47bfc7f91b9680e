// Package disclosure tracks which collapsible panels of a view are expanded.
//
// A view owns one Store. Flags are addressed by "<scope>-<option>" keys, so
// option B of step 3 lives at "step3-optionB" and never collides with option
// B of step 5. Nested renderers receive a Scope, which reads and toggles flags
// on the owning store without holding any state of its own.
package disclosure

import (
	"sort"
	"strings"
	"sync"
)

// Key joins a scope and option into the composite flag key.
func Key(scope, option string) string {
	return scope + "-" + option
}

// Store is a flat map of expanded flags. Missing keys are collapsed.
type Store struct {
	mu   sync.RWMutex
	open map[string]bool
}

// New returns an empty store with every panel collapsed.
func New() *Store {
	return &Store{open: make(map[string]bool)}
}

// Toggle flips the flag for scope/option and returns the new value.
func (s *Store) Toggle(scope, option string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	k := Key(scope, option)
	s.open[k] = !s.open[k]
	return s.open[k]
}

// Set forces the flag for scope/option.
func (s *Store) Set(scope, option string, open bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.open[Key(scope, option)] = open
}

// IsOpen reports whether scope/option is expanded.
func (s *Store) IsOpen(scope, option string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.open[Key(scope, option)]
}

// ViewFor returns the flags under scope with the "<scope>-" prefix stripped.
// The returned map is a copy.
func (s *Store) ViewFor(scope string) map[string]bool {
	prefix := scope + "-"

	s.mu.RLock()
	defer s.mu.RUnlock()

	view := make(map[string]bool)
	for k, v := range s.open {
		if rest, ok := strings.CutPrefix(k, prefix); ok {
			view[rest] = v
		}
	}
	return view
}

// Reset collapses every panel in every scope.
func (s *Store) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.open = make(map[string]bool)
}

// Snapshot returns a copy of all flags keyed by composite key.
func (s *Store) Snapshot() map[string]bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make(map[string]bool, len(s.open))
	for k, v := range s.open {
		out[k] = v
	}
	return out
}

// Expanded lists the composite keys that are currently open, sorted.
func (s *Store) Expanded() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var keys []string
	for k, v := range s.open {
		if v {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	return keys
}

// Scope returns a view of the store restricted to one scope.
func (s *Store) Scope(scope string) *Scope {
	return &Scope{store: s, scope: scope}
}

// Scope reads and toggles flags of a single scope on the owning store.
type Scope struct {
	store *Store
	scope string
}

// Name returns the scope id.
func (v *Scope) Name() string { return v.scope }

// IsOpen reports whether option is expanded in this scope.
func (v *Scope) IsOpen(option string) bool {
	return v.store.IsOpen(v.scope, option)
}

// Toggle flips option in this scope on the owning store.
func (v *Scope) Toggle(option string) {
	v.store.Toggle(v.scope, option)
}

// View returns this scope's flags keyed by option id.
func (v *Scope) View() map[string]bool {
	return v.store.ViewFor(v.scope)
}
