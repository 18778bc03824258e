// Package workflow holds the named steps a phase is made of and the browser-backed
// executor running one phase per isolated page.
package workflow

import (
	"context"
	"fmt"
	"maps"
	"slices"

	"github.com/playtest-app/phaserun/pkg/scenario"
)

// StepFunc performs one workflow action on the phase's page.
type StepFunc func(ctx context.Context, env *Env, st scenario.Step) error

// Registry maps step names to their implementation.
type Registry struct {
	steps map[string]StepFunc
}

// Register adds or replaces a step.
func (r *Registry) Register(name string, fn StepFunc) {
	if r.steps == nil {
		r.steps = map[string]StepFunc{}
	}
	r.steps[name] = fn
}

// Lookup returns the step registered under name.
func (r *Registry) Lookup(name string) (StepFunc, bool) {
	fn, ok := r.steps[name]
	return fn, ok
}

// Names returns the registered step names sorted.
func (r *Registry) Names() []string {
	return slices.Sorted(maps.Keys(r.steps))
}

// StepError is a failed step with the phase and actor it ran for.
type StepError struct {
	Phase string
	Index int // 1-based position in the phase
	Step  string
	Actor string
	Err   error
}

func (e *StepError) Error() string {
	if e.Actor == "" {
		return fmt.Sprintf("phase %s, step %d (%s): %v", e.Phase, e.Index, e.Step, e.Err)
	}
	return fmt.Sprintf("phase %s, step %d (%s) as %s: %v", e.Phase, e.Index, e.Step, e.Actor, e.Err)
}

func (e *StepError) Unwrap() error { return e.Err }
