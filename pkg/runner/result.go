package runner

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/playtest-app/phaserun/pkg/status"
)

// PhaseResult is the final state of one phase.
type PhaseResult struct {
	Name     string
	Outcome  status.Outcome
	Err      error         // failure of a failed phase
	Reason   string        // why a blocked or skipped phase never ran
	Duration time.Duration // zero for phases that never ran
}

// Result is the outcome of a whole run, phases in plan order.
type Result struct {
	mu       sync.Mutex
	order    []string
	phases   map[string]PhaseResult
	Duration time.Duration
}

func newResult(names []string) *Result {
	res := &Result{order: names, phases: make(map[string]PhaseResult, len(names))}
	for _, n := range names {
		res.phases[n] = PhaseResult{Name: n, Outcome: status.Pending}
	}
	return res
}

func (r *Result) set(pr PhaseResult) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.phases[pr.Name] = pr
}

// Phases returns all phase results in plan order.
func (r *Result) Phases() []PhaseResult {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]PhaseResult, 0, len(r.order))
	for _, n := range r.order {
		out = append(out, r.phases[n])
	}
	return out
}

// Phase returns the result of one phase.
func (r *Result) Phase(name string) (PhaseResult, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	pr, ok := r.phases[name]
	return pr, ok
}

// Count returns how many phases ended with o.
func (r *Result) Count(o status.Outcome) int {
	n := 0
	for _, pr := range r.Phases() {
		if pr.Outcome == o {
			n++
		}
	}
	return n
}

// Passed reports whether every phase passed.
func (r *Result) Passed() bool {
	return r.Count(status.Passed) == len(r.order)
}

// Status is the overall outcome: passed when every phase passed, failed otherwise.
func (r *Result) Status() status.Outcome {
	if r.Passed() {
		return status.Passed
	}
	return status.Failed
}

// ExitCode maps the run to a process exit code.
func (r *Result) ExitCode() int {
	if r.Passed() {
		return 0
	}
	return 1
}

// Err returns the failures of the run in plan order, nil when every phase passed.
func (r *Result) Err() error {
	if r.Passed() {
		return nil
	}
	var errs []error
	for _, pr := range r.Phases() {
		if pr.Outcome == status.Failed {
			errs = append(errs, pr.Err)
		}
	}
	if len(errs) == 0 {
		return fmt.Errorf("run incomplete: %d of %d phases passed", r.Count(status.Passed), len(r.order))
	}
	return errors.Join(errs...)
}
