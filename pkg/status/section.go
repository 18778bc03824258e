package status

import "fmt"

// SectionType represents the semantic type of a section header.
type SectionType int

const (
	// SectionGeneric is a static section header.
	SectionGeneric SectionType = iota
	// SectionPhase marks the start of one workflow phase.
	SectionPhase
	// SectionSummary marks the end-of-run summary.
	SectionSummary
)

// Section carries structured information about a section header.
// use the constructors to keep Type, Index and Label consistent.
type Section struct {
	Type  SectionType
	Index int    // 1-based position in the plan, 0 for non-phase sections
	Total int    // number of phases in the plan, 0 for non-phase sections
	Name  string // phase name, empty for non-phase sections
	Label string // human-readable display text
}

// NewPhaseSection creates a section for the index-th of total phases.
func NewPhaseSection(index, total int, name string) Section {
	return Section{
		Type:  SectionPhase,
		Index: index,
		Total: total,
		Name:  name,
		Label: fmt.Sprintf("phase %d/%d: %s", index, total, name),
	}
}

// NewSummarySection creates the end-of-run summary header.
func NewSummarySection(scenario string) Section {
	return Section{Type: SectionSummary, Label: "summary: " + scenario}
}

// NewGenericSection creates a static section header.
func NewGenericSection(label string) Section {
	return Section{Type: SectionGeneric, Label: label}
}
