// Package runner executes a phase plan, one phase at a time by default.
package runner

import (
	"context"
	"errors"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/playtest-app/phaserun/pkg/plan"
	"github.com/playtest-app/phaserun/pkg/status"
)

//go:generate moq -out mocks/phase_executor.go -pkg mocks -skip-ensure -fmt goimports . PhaseExecutor
//go:generate moq -out mocks/logger.go -pkg mocks -skip-ensure -fmt goimports . Logger

// PhaseExecutor runs all steps of one phase.
type PhaseExecutor interface {
	Execute(ctx context.Context, phase string) error
}

// Logger provides logging functionality.
type Logger interface {
	SetStage(s status.Stage)
	Print(format string, args ...any)
	Error(format string, args ...any)
	PrintSection(s status.Section)
	PrintOutcome(name string, o status.Outcome, d time.Duration, msg string)
}

// Config holds runner configuration.
type Config struct {
	Workers       int           // concurrent phases, values above 1 switch to parallel mode
	FullyParallel bool          // parallel mode even with one worker, failures don't halt the run
	PhaseTimeout  time.Duration // bound of every phase, zero for none
}

// Parallel reports whether phases may run concurrently.
func (c Config) Parallel() bool {
	return c.Workers > 1 || c.FullyParallel
}

// Runner orchestrates the execution of a plan.
type Runner struct {
	cfg     Config
	plan    *plan.Plan
	exec    PhaseExecutor
	log     Logger
	tracker *status.Tracker
	now     func() time.Time
}

// New creates a runner for p. Every phase starts pending in the tracker.
func New(cfg Config, p *plan.Plan, exec PhaseExecutor, log Logger) *Runner {
	return &Runner{
		cfg:     cfg,
		plan:    p,
		exec:    exec,
		log:     log,
		tracker: status.NewTracker(p.Names()...),
		now:     time.Now,
	}
}

// Tracker returns the live phase outcomes.
func (r *Runner) Tracker() *status.Tracker {
	return r.tracker
}

// Run executes the plan and returns the result of every phase. The error is nil only
// when all phases passed.
func (r *Runner) Run(ctx context.Context) (*Result, error) {
	started := r.now()
	res := newResult(r.plan.Names())

	r.log.SetStage(status.StagePhase)
	if r.cfg.Parallel() {
		r.log.Print("running %d phases, up to %d at a time", r.plan.Len(), max(r.cfg.Workers, 1))
		r.runParallel(ctx, res)
	} else {
		r.log.Print("running %d phases sequentially", r.plan.Len())
		r.runSequential(ctx, res)
	}
	res.Duration = r.now().Sub(started)
	return res, res.Err()
}

// runSequential runs phases in plan order. The first failure halts the run: its dependents
// are blocked and every other phase not run yet is skipped.
func (r *Runner) runSequential(ctx context.Context, res *Result) {
	var failed string
	var blocked map[string]bool
	for i, name := range r.plan.Names() {
		switch {
		case failed != "" && blocked[name]:
			r.settle(res, name, status.Blocked, "prerequisite "+failed+" failed")
			continue
		case failed != "":
			r.settle(res, name, status.Skipped, "run halted after "+failed+" failed")
			continue
		case ctx.Err() != nil:
			r.settle(res, name, status.Skipped, "run interrupted")
			continue
		}
		if r.runPhase(ctx, res, i, name) != status.Passed {
			failed = name
			blocked = make(map[string]bool)
			for _, d := range r.plan.Dependents(name) {
				blocked[d] = true
			}
		}
	}
}

// runParallel starts every phase whose prerequisites all passed, up to Workers at a time.
// dependents of a failed phase are blocked, independent phases keep running.
func (r *Runner) runParallel(ctx context.Context, res *Result) {
	limit := max(r.cfg.Workers, 1)
	g := new(errgroup.Group)
	g.SetLimit(limit)

	done := make(chan string, r.plan.Len())
	pending := r.plan.Names()
	running := 0
	for len(pending) > 0 || running > 0 {
		var waiting []string
		for _, name := range pending {
			ready, blocker := r.readiness(name)
			switch {
			case blocker != "":
				r.settle(res, name, status.Blocked, "prerequisite "+blocker+" did not pass")
			case ctx.Err() != nil:
				r.settle(res, name, status.Skipped, "run interrupted")
			case ready && running < limit:
				running++
				idx := r.plan.Position(name)
				g.Go(func() error {
					r.runPhase(ctx, res, idx, name)
					done <- name
					return nil
				})
			default:
				waiting = append(waiting, name)
			}
		}
		pending = waiting
		if running == 0 {
			// nothing started and nothing to wait for
			for _, name := range pending {
				r.settle(res, name, status.Skipped, "prerequisites never completed")
			}
			break
		}
		<-done
		running--
	}
	_ = g.Wait()
}

// readiness reports whether all prerequisites of name passed, or the first prerequisite
// that ended in any other terminal outcome.
func (r *Runner) readiness(name string) (ready bool, blocker string) {
	ph, _ := r.plan.Phase(name)
	ready = true
	for _, dep := range ph.DependsOn {
		o := r.tracker.Get(dep)
		switch {
		case o == status.Passed:
		case o.Terminal():
			return false, dep
		default:
			ready = false
		}
	}
	return ready, ""
}

// runPhase executes one phase under the phase timeout and records its outcome.
func (r *Runner) runPhase(ctx context.Context, res *Result, idx int, name string) status.Outcome {
	r.log.PrintSection(status.NewPhaseSection(idx+1, r.plan.Len(), name))
	r.tracker.Set(name, status.Running)

	pctx, cancel := ctx, context.CancelFunc(func() {})
	if r.cfg.PhaseTimeout > 0 {
		pctx, cancel = context.WithTimeout(ctx, r.cfg.PhaseTimeout)
	}
	defer cancel()

	started := r.now()
	err := r.exec.Execute(pctx, name)
	if errors.Is(pctx.Err(), context.DeadlineExceeded) && ctx.Err() == nil {
		err = r.timeoutError(name, err)
	}
	d := r.now().Sub(started)

	if err != nil {
		r.log.Error("phase %s failed: %v", name, err)
		res.set(PhaseResult{Name: name, Outcome: status.Failed, Err: err, Duration: d})
		r.tracker.Set(name, status.Failed)
		r.log.PrintOutcome(name, status.Failed, d, "")
		return status.Failed
	}
	res.set(PhaseResult{Name: name, Outcome: status.Passed, Duration: d})
	r.tracker.Set(name, status.Passed)
	r.log.PrintOutcome(name, status.Passed, d, "")
	return status.Passed
}

func (r *Runner) timeoutError(name string, err error) error {
	if err == nil {
		err = context.DeadlineExceeded
	}
	return fmt.Errorf("phase %s timed out after %v: %w", name, r.cfg.PhaseTimeout, err)
}

// settle records a phase that never ran.
func (r *Runner) settle(res *Result, name string, o status.Outcome, reason string) {
	res.set(PhaseResult{Name: name, Outcome: o, Reason: reason})
	r.tracker.Set(name, o)
	r.log.PrintOutcome(name, o, 0, reason)
}
