package llmcall

import (
	"sort"
	"sync"
	"time"
)

// DefaultCapacity bounds how many calls the store keeps.
const DefaultCapacity = 500

// Store keeps recent LLM call records in memory, oldest evicted first.
type Store struct {
	mu       sync.RWMutex
	calls    []*Call
	byID     map[string]*Call
	capacity int
}

// NewStore creates a store holding at most capacity calls.
func NewStore(capacity int) *Store {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &Store{
		byID:     make(map[string]*Call),
		capacity: capacity,
	}
}

// QueryFilter specifies filters for listing LLM calls.
type QueryFilter struct {
	Flow      string
	PromptKey string
	Provider  string
	Model     string
	After     *time.Time
	Before    *time.Time
	Success   *bool
	Limit     int
	Offset    int
}

// Add stores a call, evicting the oldest when full.
func (s *Store) Add(call *Call) {
	if call == nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.calls) >= s.capacity {
		oldest := s.calls[0]
		delete(s.byID, oldest.ID)
		s.calls = s.calls[1:]
	}
	s.calls = append(s.calls, call)
	s.byID[call.ID] = call
}

// Get retrieves a single LLM call by ID. Returns nil when not found.
func (s *Store) Get(id string) *Call {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.byID[id]
}

// List returns calls matching the filter, newest first.
func (s *Store) List(filter QueryFilter) []Call {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []Call
	for i := len(s.calls) - 1; i >= 0; i-- {
		c := s.calls[i]
		if filter.matches(c) {
			out = append(out, *c)
		}
	}

	if filter.Offset > 0 {
		if filter.Offset >= len(out) {
			return nil
		}
		out = out[filter.Offset:]
	}
	if filter.Limit > 0 && len(out) > filter.Limit {
		out = out[:filter.Limit]
	}
	return out
}

// CountByPromptKey returns call counts grouped by prompt key.
func (s *Store) CountByPromptKey() map[string]int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	counts := make(map[string]int)
	for _, c := range s.calls {
		counts[c.PromptKey]++
	}
	return counts
}

// PromptKeys returns the distinct prompt keys seen, sorted.
func (s *Store) PromptKeys() []string {
	counts := s.CountByPromptKey()
	keys := make([]string, 0, len(counts))
	for k := range counts {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Len returns the number of stored calls.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.calls)
}

func (f QueryFilter) matches(c *Call) bool {
	if f.Flow != "" && c.Flow != f.Flow {
		return false
	}
	if f.PromptKey != "" && c.PromptKey != f.PromptKey {
		return false
	}
	if f.Provider != "" && c.Provider != f.Provider {
		return false
	}
	if f.Model != "" && c.Model != f.Model {
		return false
	}
	if f.Success != nil && c.Success != *f.Success {
		return false
	}
	if f.After != nil && !c.Timestamp.After(*f.After) {
		return false
	}
	if f.Before != nil && !c.Timestamp.Before(*f.Before) {
		return false
	}
	return true
}
