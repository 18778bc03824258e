package plan

import (
	"fmt"
	"strings"
)

// ConfigurationError reports a dependency graph that can't be turned into a plan.
// it is always fatal: no phase executes when Build returns it.
type ConfigurationError struct {
	Phase string   // offending phase, empty if the problem isn't tied to one phase
	Cycle []string // phases forming a cycle, first element repeated at the end
	Msg   string
}

func (e *ConfigurationError) Error() string {
	switch {
	case len(e.Cycle) > 0:
		return "configuration error: dependency cycle " + strings.Join(e.Cycle, " -> ")
	case e.Phase != "":
		return fmt.Sprintf("configuration error: phase %q: %s", e.Phase, e.Msg)
	default:
		return "configuration error: " + e.Msg
	}
}
