// Package scenario loads parameterized run configurations: the target, the timeout profile,
// the actors and the projects (phases) with their steps and prerequisites.
package scenario

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/samber/lo"
	"gopkg.in/yaml.v3"

	"github.com/playtest-app/phaserun/pkg/config"
	"github.com/playtest-app/phaserun/pkg/plan"
)

// Scenario is one run configuration. configurations are never merged,
// the selected scenario alone defines the phases and their order.
type Scenario struct {
	Name          string    `yaml:"name"`
	Description   string    `yaml:"description"`
	BaseURL       string    `yaml:"base_url"`
	BackendURL    string    `yaml:"backend_url"`
	Workers       int       `yaml:"workers"`
	FullyParallel bool      `yaml:"fully_parallel"`
	Timeouts      Timeouts  `yaml:"timeouts"`
	Actors        []Actor   `yaml:"actors"`
	Projects      []Project `yaml:"projects"`

	Path string `yaml:"-"` // file the scenario was loaded from
}

// Timeouts selects a timeout profile and optionally overrides single values, in milliseconds.
type Timeouts struct {
	Profile      string `yaml:"profile"`
	TestMs       int    `yaml:"test_ms"`
	NavigationMs int    `yaml:"navigation_ms"`
	ActionMs     int    `yaml:"action_ms"`
	ExpectMs     int    `yaml:"expect_ms"`
}

// Overrides returns the explicit values as config.Timeouts, zero for values not set.
func (t Timeouts) Overrides() config.Timeouts {
	return config.Timeouts{
		Test:       msToDuration(t.TestMs),
		Navigation: msToDuration(t.NavigationMs),
		Action:     msToDuration(t.ActionMs),
		Expect:     msToDuration(t.ExpectMs),
	}
}

// Project is one phase: a named group of steps run in one browser context.
type Project struct {
	Name      string   `yaml:"name"`
	Match     []string `yaml:"match"` // glob patterns over registered step names
	Steps     []Step   `yaml:"steps"`
	Actor     string   `yaml:"actor"` // default actor for steps without one
	Block     string   `yaml:"block"` // default block title for steps without one
	DependsOn []string `yaml:"depends_on"`
}

// Step is one workflow action inside a project.
type Step struct {
	Use    string   `yaml:"use"`
	Actor  string   `yaml:"actor"`
	Block  string   `yaml:"block"`
	Role   string   `yaml:"role"`   // extraction role filter, e.g. "Creador"
	Files  []string `yaml:"files"`  // files to upload, relative to the scenario file
	Absent bool     `yaml:"absent"` // block.verify expects the block to be missing
}

// Load reads and validates a scenario file.
func Load(path string) (*Scenario, error) {
	data, err := os.ReadFile(path) //nolint:gosec // scenario path is user input by design
	if err != nil {
		return nil, fmt.Errorf("read scenario %s: %w", path, err)
	}
	sc, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("scenario %s: %w", path, err)
	}
	sc.Path = path
	if sc.Name == "" {
		sc.Name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	return sc, nil
}

// Parse decodes a scenario document. unknown keys are rejected.
func Parse(data []byte) (*Scenario, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	var sc Scenario
	if err := dec.Decode(&sc); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, &plan.ConfigurationError{Msg: "scenario is empty"}
		}
		return nil, &plan.ConfigurationError{Msg: fmt.Sprintf("decode scenario: %v", err)}
	}
	if err := sc.validate(); err != nil {
		return nil, err
	}
	return &sc, nil
}

// validate checks everything that doesn't need the step registry.
func (s *Scenario) validate() error {
	if s.Workers < 0 {
		return &plan.ConfigurationError{Msg: fmt.Sprintf("workers must be non-negative, got %d", s.Workers)}
	}
	for _, v := range []struct {
		name string
		ms   int
	}{
		{"test_ms", s.Timeouts.TestMs},
		{"navigation_ms", s.Timeouts.NavigationMs},
		{"action_ms", s.Timeouts.ActionMs},
		{"expect_ms", s.Timeouts.ExpectMs},
	} {
		if v.ms < 0 {
			return &plan.ConfigurationError{Msg: fmt.Sprintf("timeouts.%s must be non-negative, got %d", v.name, v.ms)}
		}
	}
	for _, u := range []struct{ name, val string }{{"base_url", s.BaseURL}, {"backend_url", s.BackendURL}} {
		if u.val == "" {
			continue
		}
		if err := config.ValidateURL(u.name, u.val); err != nil {
			return &plan.ConfigurationError{Msg: err.Error()}
		}
	}
	for _, a := range s.Actors {
		if a.Nickname == "" {
			return &plan.ConfigurationError{Msg: "actor without nickname"}
		}
	}
	for _, p := range s.Projects {
		if len(p.Steps) == 0 && len(p.Match) == 0 {
			return &plan.ConfigurationError{Phase: p.Name, Msg: "no steps and no match patterns"}
		}
		for i, st := range p.Steps {
			if strings.TrimSpace(st.Use) == "" {
				return &plan.ConfigurationError{Phase: p.Name, Msg: fmt.Sprintf("step %d has no use", i+1)}
			}
		}
		for _, m := range p.Match {
			if _, err := path.Match(m, ""); err != nil {
				return &plan.ConfigurationError{Phase: p.Name, Msg: fmt.Sprintf("bad match pattern %q: %v", m, err)}
			}
		}
	}
	// names, prerequisites and cycles
	_, err := plan.Build(s.Phases())
	return err
}

// Phases returns the projects as plan phases, in declaration order.
func (s *Scenario) Phases() []plan.Phase {
	return lo.Map(s.Projects, func(p Project, _ int) plan.Phase {
		return plan.Phase{Name: p.Name, DependsOn: p.DependsOn}
	})
}

// Plan builds the execution plan of the scenario.
func (s *Scenario) Plan() (*plan.Plan, error) {
	return plan.Build(s.Phases())
}

// Sequential reports whether phases must run one at a time and halt on the first failure.
func (s *Scenario) Sequential() bool {
	return s.Workers <= 1 && !s.FullyParallel
}

// WorkerCount returns the number of phases allowed to run at once.
func (s *Scenario) WorkerCount() int {
	if s.Workers < 1 {
		return 1
	}
	return s.Workers
}

// Project returns a project by name.
func (s *Scenario) Project(name string) (Project, bool) {
	return lo.Find(s.Projects, func(p Project) bool { return p.Name == name })
}

// Catalog returns the preset actors with the scenario's actors added or overriding them.
func (s *Scenario) Catalog() *Catalog {
	c := PresetCatalog()
	for _, a := range s.Actors {
		c.Add(a)
	}
	return c
}

// Expand resolves match patterns against the registered step names, applies project defaults
// to every step and checks that each step is registered and names a known actor.
// matched steps are appended after explicit ones, in registry order.
func (s *Scenario) Expand(registered []string) error {
	catalog := s.Catalog()
	for i := range s.Projects {
		p := &s.Projects[i]
		for _, pattern := range p.Match {
			matched := lo.Filter(registered, func(name string, _ int) bool {
				ok, _ := path.Match(pattern, name)
				return ok
			})
			if len(matched) == 0 {
				return &plan.ConfigurationError{Phase: p.Name, Msg: fmt.Sprintf("match pattern %q selects no step", pattern)}
			}
			for _, name := range matched {
				p.Steps = append(p.Steps, Step{Use: name})
			}
		}
		p.Match = nil

		for j := range p.Steps {
			st := &p.Steps[j]
			if st.Actor == "" {
				st.Actor = p.Actor
			}
			if st.Block == "" {
				st.Block = p.Block
			}
			if !lo.Contains(registered, st.Use) {
				return &plan.ConfigurationError{Phase: p.Name, Msg: fmt.Sprintf("unknown step %q", st.Use)}
			}
			if st.Actor != "" {
				if _, ok := catalog.Lookup(st.Actor); !ok {
					return &plan.ConfigurationError{Phase: p.Name, Msg: fmt.Sprintf("unknown actor %q, known: %s", st.Actor, catalog)}
				}
			}
			st.Files = lo.Map(st.Files, func(f string, _ int) string { return s.resolvePath(f) })
		}
	}
	return nil
}

// resolvePath turns file references relative to the scenario file into absolute paths.
func (s *Scenario) resolvePath(p string) string {
	if p == "" || filepath.IsAbs(p) {
		return p
	}
	if s.Path != "" {
		p = filepath.Join(filepath.Dir(s.Path), p)
	}
	if abs, err := filepath.Abs(p); err == nil {
		return abs
	}
	return p
}

func msToDuration(ms int) time.Duration {
	return time.Duration(ms) * time.Millisecond
}

// ResolveTimeouts returns the scenario's timeout profile from cfg with explicit overrides applied.
func (s *Scenario) ResolveTimeouts(cfg *config.Config) (config.Timeouts, error) {
	base, err := cfg.Profile(s.Timeouts.Profile)
	if err != nil {
		return config.Timeouts{}, &plan.ConfigurationError{Msg: err.Error()}
	}
	return base.Merge(s.Timeouts.Overrides()), nil
}

// Target returns the frontend and backend urls, scenario values win over cfg.
func (s *Scenario) Target(cfg *config.Config) (baseURL, backendURL string) {
	baseURL, backendURL = cfg.BaseURL, cfg.BackendURL
	if s.BaseURL != "" {
		baseURL = s.BaseURL
	}
	if s.BackendURL != "" {
		backendURL = s.BackendURL
	}
	return baseURL, backendURL
}
