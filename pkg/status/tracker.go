package status

import (
	"slices"
	"sync"
)

// Tracker stores phase outcomes in a thread-safe way.
// it is the single source of truth for phase states while a run is in progress.
type Tracker struct {
	mu       sync.RWMutex
	order    []string
	outcomes map[string]Outcome
	onChange func(name string, old, cur Outcome)
}

// NewTracker creates a tracker with every phase pending, in the given order.
func NewTracker(names ...string) *Tracker {
	t := &Tracker{outcomes: make(map[string]Outcome, len(names))}
	for _, n := range names {
		if _, ok := t.outcomes[n]; ok {
			continue
		}
		t.order = append(t.order, n)
		t.outcomes[n] = Pending
	}
	return t
}

// OnChange registers a callback that fires when a phase outcome changes.
// only one callback is supported; subsequent calls replace the previous one.
func (t *Tracker) OnChange(fn func(name string, old, cur Outcome)) {
	t.mu.Lock()
	t.onChange = fn
	t.mu.Unlock()
}

// Set updates the outcome of a phase and fires the OnChange callback if it changed.
// unknown phases are appended to the order.
func (t *Tracker) Set(name string, o Outcome) {
	t.mu.Lock()
	if t.outcomes == nil {
		t.outcomes = map[string]Outcome{}
	}
	old, ok := t.outcomes[name]
	if !ok {
		t.order = append(t.order, name)
	}
	t.outcomes[name] = o
	cb := t.onChange
	t.mu.Unlock()

	if old != o && cb != nil {
		cb(name, old, o)
	}
}

// Get returns the outcome of a phase, empty for unknown phases.
func (t *Tracker) Get(name string) Outcome {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.outcomes[name]
}

// Names returns phase names in registration order.
func (t *Tracker) Names() []string {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return slices.Clone(t.order)
}

// Count returns how many phases currently have the given outcome.
func (t *Tracker) Count(o Outcome) int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	n := 0
	for _, v := range t.outcomes {
		if v == o {
			n++
		}
	}
	return n
}
