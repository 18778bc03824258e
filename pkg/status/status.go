// Package status defines shared run-model types for phaserun.
// phase outcomes, run stages and section headers used by runner, progress, render and notify packages.
package status

// Outcome is the state of one workflow phase within a run.
type Outcome string

// Outcome constants.
const (
	Pending Outcome = "pending" // not started yet
	Running Outcome = "running" // started, no result yet
	Passed  Outcome = "passed"  // all steps succeeded
	Failed  Outcome = "failed"  // a step returned an error or the phase timed out
	Blocked Outcome = "blocked" // a prerequisite failed, never executed
	Skipped Outcome = "skipped" // run halted before the phase was reached
)

// Terminal reports whether the outcome is final.
func (o Outcome) Terminal() bool {
	switch o {
	case Passed, Failed, Blocked, Skipped:
		return true
	default:
		return false
	}
}

// Stage represents a run stage for color coding.
type Stage string

// Stage constants.
const (
	StagePlan   Stage = "plan"   // resolving scenario and plan (info color)
	StagePhase  Stage = "phase"  // executing workflow phases (phase color)
	StageReport Stage = "report" // writing summary and notifications (info color)
)
