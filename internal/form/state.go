package form

import (
	"html/template"
	"sync"
)

// State is an in-memory View. Hosts that render after the submission
// completes (a server page, a terminal) read it back with Snapshot.
type State struct {
	mu             sync.RWMutex
	submitDisabled bool
	loading        bool
	result         template.HTML
	err            template.HTML
}

// Snapshot is a point-in-time copy of State.
type Snapshot struct {
	SubmitDisabled bool
	Loading        bool
	Result         template.HTML
	Error          template.HTML
}

func (s *State) SetSubmitEnabled(enabled bool) {
	s.mu.Lock()
	s.submitDisabled = !enabled
	s.mu.Unlock()
}

func (s *State) SetLoading(active bool) {
	s.mu.Lock()
	s.loading = active
	s.mu.Unlock()
}

func (s *State) SetResult(fragment template.HTML) {
	s.mu.Lock()
	s.result = fragment
	s.mu.Unlock()
}

func (s *State) SetError(fragment template.HTML) {
	s.mu.Lock()
	s.err = fragment
	s.mu.Unlock()
}

// Snapshot returns the current slot contents.
func (s *State) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return Snapshot{
		SubmitDisabled: s.submitDisabled,
		Loading:        s.loading,
		Result:         s.result,
		Error:          s.err,
	}
}
