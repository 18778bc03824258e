package workflow

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/playtest-app/phaserun/pkg/browser"
	"github.com/playtest-app/phaserun/pkg/config"
	"github.com/playtest-app/phaserun/pkg/scenario"
)

// Page is a driver owning its own browser context.
type Page interface {
	browser.Driver
	Close(keepVideo bool) (string, error)
}

// PageOpener opens a fresh isolated page for a phase.
type PageOpener func(phase string) (Page, error)

// LauncherPages opens every page in a new context of l. videos are recorded into
// videoDir when it is set.
func LauncherPages(l *browser.Launcher, t config.Timeouts, videoDir string) PageOpener {
	return func(phase string) (Page, error) {
		opts := browser.PageOptions{NavigationTimeout: t.Navigation, ActionTimeout: t.Action}
		if videoDir != "" {
			opts.VideoDir = filepath.Join(videoDir, phase)
		}
		p, err := l.NewPage(opts)
		if err != nil {
			return nil, err
		}
		return p, nil
	}
}

// Options configure an Executor.
type Options struct {
	Scenario            *scenario.Scenario
	Registry            *Registry
	Open                PageOpener
	Log                 Logger
	Timeouts            config.Timeouts
	BaseURL             string
	BackendURL          string
	MarkerSelector      string
	ArtifactsDir        string
	ScreenshotOnFailure bool
	VideoOnFailure      bool
	ListPoll            time.Duration // interval between listing checks, default 500ms
}

// Executor runs the steps of a phase in a fresh page, one step after another.
type Executor struct {
	opts    Options
	catalog *scenario.Catalog
}

// NewExecutor expands the scenario against the registry and returns the executor.
// a scenario referring to unknown steps or actors fails here, before any phase runs.
func NewExecutor(opts Options) (*Executor, error) {
	if opts.Scenario == nil || opts.Registry == nil || opts.Open == nil || opts.Log == nil {
		return nil, errors.New("executor needs scenario, registry, page opener and logger")
	}
	if err := opts.Scenario.Expand(opts.Registry.Names()); err != nil {
		return nil, err
	}
	if opts.ListPoll <= 0 {
		opts.ListPoll = 500 * time.Millisecond
	}
	return &Executor{opts: opts, catalog: opts.Scenario.Catalog()}, nil
}

// Execute runs one phase. the page is closed when the phase ends, its video is kept
// only for failed phases with video retention on.
func (e *Executor) Execute(ctx context.Context, phase string) (err error) {
	project, ok := e.opts.Scenario.Project(phase)
	if !ok {
		return fmt.Errorf("unknown phase %q", phase)
	}
	page, err := e.opts.Open(phase)
	if err != nil {
		return fmt.Errorf("open page for phase %s: %w", phase, err)
	}
	defer func() {
		video, cerr := page.Close(err != nil && e.opts.VideoOnFailure)
		if cerr != nil {
			e.opts.Log.Warn("close page of phase %s: %v", phase, cerr)
		}
		if video != "" {
			e.opts.Log.Print("video of phase %s kept at %s", phase, video)
		}
	}()

	env := e.env(page, phase)
	for i, st := range project.Steps {
		fn, ok := e.opts.Registry.Lookup(st.Use)
		if !ok {
			return &StepError{Phase: phase, Index: i + 1, Step: st.Use, Actor: st.Actor, Err: errors.New("step is not registered")}
		}
		e.opts.Log.Print("step %d/%d: %s", i+1, len(project.Steps), Describe(st))
		if serr := fn(ctx, env, st); serr != nil {
			e.screenshot(page, phase, i+1, st.Use)
			return &StepError{Phase: phase, Index: i + 1, Step: st.Use, Actor: st.Actor, Err: serr}
		}
	}
	return nil
}

func (e *Executor) env(d browser.Driver, phase string) *Env {
	t := e.opts.Timeouts
	return &Env{
		Driver:  d,
		Catalog: e.catalog,
		Login: browser.LoginOptions{
			BaseURL:           e.opts.BaseURL,
			MarkerSelector:    e.opts.MarkerSelector,
			NavigationTimeout: t.Navigation,
			FormTimeout:       t.Expect,
			LeaveLoginTimeout: t.Expect,
			MarkerTimeout:     t.Expect,
		},
		Extract:      browser.ExtractOptions{ContainerTimeout: t.Expect, StableTimeout: t.Action},
		Timeouts:     t,
		BackendURL:   e.opts.BackendURL,
		ArtifactsDir: e.opts.ArtifactsDir,
		Phase:        phase,
		Log:          e.opts.Log,
		ListTimeout:  max(t.Expect, t.Navigation),
		ListPoll:     e.opts.ListPoll,
	}
}

func (e *Executor) screenshot(d browser.Driver, phase string, index int, step string) {
	if !e.opts.ScreenshotOnFailure || e.opts.ArtifactsDir == "" {
		return
	}
	name := fmt.Sprintf("%s-%02d-%s.png", phase, index, strings.ReplaceAll(step, ".", "-"))
	path := filepath.Join(e.opts.ArtifactsDir, "screenshots", name)
	if err := d.Screenshot(path); err != nil {
		e.opts.Log.Warn("screenshot of phase %s: %v", phase, err)
		return
	}
	e.opts.Log.Print("screenshot saved to %s", path)
}

// Describe returns a one-line summary of a step, e.g. `block.load as JaiGon block "CE1978"`.
func Describe(st scenario.Step) string {
	parts := []string{st.Use}
	if st.Actor != "" {
		parts = append(parts, "as "+st.Actor)
	}
	if st.Block != "" {
		parts = append(parts, fmt.Sprintf("block %q", st.Block))
	}
	if st.Role != "" {
		parts = append(parts, "role "+st.Role)
	}
	if st.Absent {
		parts = append(parts, "absent")
	}
	return strings.Join(parts, " ")
}
