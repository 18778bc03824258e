// Package plan turns a set of named phases with prerequisites into an execution order.
package plan

import (
	"slices"
	"strconv"
	"strings"

	"github.com/samber/lo"
)

// Phase is one named workflow phase and the phases it depends on.
type Phase struct {
	Name      string
	DependsOn []string
}

// Plan is a validated, topologically ordered set of phases.
type Plan struct {
	phases     []Phase
	index      map[string]int // position in phases
	dependents map[string][]string
}

// Build validates phases and orders them so every phase follows all of its prerequisites.
// ties are broken by declaration order, so phases without edges between them keep the
// order they were declared in. Duplicate or empty names, self-dependencies, unknown
// prerequisites and cycles are reported as *ConfigurationError.
func Build(phases []Phase) (*Plan, error) {
	if len(phases) == 0 {
		return nil, &ConfigurationError{Msg: "no phases declared"}
	}

	declared := make(map[string]int, len(phases))
	for i, p := range phases {
		name := strings.TrimSpace(p.Name)
		if name == "" {
			return nil, &ConfigurationError{Msg: "phase name is empty"}
		}
		if name != p.Name {
			return nil, &ConfigurationError{Phase: p.Name, Msg: "phase name has leading or trailing spaces"}
		}
		if _, dup := declared[name]; dup {
			return nil, &ConfigurationError{Phase: name, Msg: "declared more than once"}
		}
		declared[name] = i
	}

	for _, p := range phases {
		if dups := lo.FindDuplicates(p.DependsOn); len(dups) > 0 {
			return nil, &ConfigurationError{Phase: p.Name, Msg: "duplicate prerequisite " + strconv.Quote(dups[0])}
		}
		for _, dep := range p.DependsOn {
			if dep == p.Name {
				return nil, &ConfigurationError{Phase: p.Name, Msg: "depends on itself"}
			}
			if _, ok := declared[dep]; !ok {
				return nil, &ConfigurationError{Phase: p.Name, Msg: "depends on undefined phase " + strconv.Quote(dep)}
			}
		}
	}

	order, ok := orderPhases(phases, declared)
	if !ok {
		return nil, &ConfigurationError{Cycle: findCycle(phases, declared)}
	}

	pl := &Plan{
		phases:     make([]Phase, 0, len(order)),
		index:      make(map[string]int, len(order)),
		dependents: make(map[string][]string, len(order)),
	}
	for i, idx := range order {
		p := phases[idx]
		pl.phases = append(pl.phases, Phase{Name: p.Name, DependsOn: slices.Clone(p.DependsOn)})
		pl.index[p.Name] = i
	}
	for _, p := range pl.phases {
		for _, dep := range p.DependsOn {
			pl.dependents[dep] = append(pl.dependents[dep], p.Name)
		}
	}
	return pl, nil
}

// orderPhases runs Kahn's algorithm, always picking the earliest declared ready phase.
// returns false if a cycle keeps some phases from ever becoming ready.
func orderPhases(phases []Phase, declared map[string]int) ([]int, bool) {
	pending := make([]int, len(phases)) // unmet prerequisites per phase
	children := make([][]int, len(phases))
	for i, p := range phases {
		pending[i] = len(p.DependsOn)
		for _, dep := range p.DependsOn {
			children[declared[dep]] = append(children[declared[dep]], i)
		}
	}

	var ready []int
	for i := range phases {
		if pending[i] == 0 {
			ready = append(ready, i)
		}
	}

	order := make([]int, 0, len(phases))
	for len(ready) > 0 {
		slices.Sort(ready)
		cur := ready[0]
		ready = ready[1:]
		order = append(order, cur)
		for _, child := range children[cur] {
			pending[child]--
			if pending[child] == 0 {
				ready = append(ready, child)
			}
		}
	}
	return order, len(order) == len(phases)
}

// findCycle returns one dependency cycle as a path starting and ending with the same phase.
func findCycle(phases []Phase, declared map[string]int) []string {
	const (
		unvisited = iota
		inStack
		done
	)
	state := make([]int, len(phases))
	var stack []string
	var cycle []string

	var visit func(i int) bool
	visit = func(i int) bool {
		state[i] = inStack
		stack = append(stack, phases[i].Name)
		for _, dep := range phases[i].DependsOn {
			j := declared[dep]
			switch state[j] {
			case inStack:
				start := slices.Index(stack, dep)
				cycle = append(slices.Clone(stack[start:]), dep)
				return true
			case unvisited:
				if visit(j) {
					return true
				}
			}
		}
		stack = stack[:len(stack)-1]
		state[i] = done
		return false
	}

	for i := range phases {
		if state[i] == unvisited && visit(i) {
			// edges point at prerequisites, reverse to show execution direction
			slices.Reverse(cycle)
			return cycle
		}
	}
	return nil
}

// Phases returns the phases in execution order.
func (p *Plan) Phases() []Phase {
	return slices.Clone(p.phases)
}

// Names returns phase names in execution order.
func (p *Plan) Names() []string {
	return lo.Map(p.phases, func(ph Phase, _ int) string { return ph.Name })
}

// Len returns the number of phases.
func (p *Plan) Len() int { return len(p.phases) }

// Phase returns a phase by name.
func (p *Plan) Phase(name string) (Phase, bool) {
	i, ok := p.index[name]
	if !ok {
		return Phase{}, false
	}
	return p.phases[i], true
}

// Position returns the 0-based execution position of a phase, -1 if unknown.
func (p *Plan) Position(name string) int {
	i, ok := p.index[name]
	if !ok {
		return -1
	}
	return i
}

// Dependents returns every phase that transitively depends on name, in execution order.
func (p *Plan) Dependents(name string) []string {
	seen := map[string]bool{}
	queue := slices.Clone(p.dependents[name])
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		if seen[cur] {
			continue
		}
		seen[cur] = true
		queue = append(queue, p.dependents[cur]...)
	}
	return lo.Filter(p.Names(), func(n string, _ int) bool { return seen[n] })
}

// Prerequisites returns every phase name transitively required by name, in execution order.
func (p *Plan) Prerequisites(name string) []string {
	seen := map[string]bool{}
	var walk func(string)
	walk = func(n string) {
		ph, ok := p.Phase(n)
		if !ok {
			return
		}
		for _, dep := range ph.DependsOn {
			if !seen[dep] {
				seen[dep] = true
				walk(dep)
			}
		}
	}
	walk(name)
	return lo.Filter(p.Names(), func(n string, _ int) bool { return seen[n] })
}
