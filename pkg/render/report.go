package render

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/samber/lo"

	"github.com/playtest-app/phaserun/pkg/git"
	"github.com/playtest-app/phaserun/pkg/notify"
	"github.com/playtest-app/phaserun/pkg/runner"
	"github.com/playtest-app/phaserun/pkg/status"
)

// Meta describes the run a report belongs to. an empty RunID gets a fresh one.
type Meta struct {
	RunID       string
	Scenario    string
	Description string
	BaseURL     string
	Stamp       git.Stamp
	Started     time.Time
}

// Report is the persisted outcome of a run.
type Report struct {
	RunID       string        `json:"run_id"`
	Scenario    string        `json:"scenario"`
	Description string        `json:"description,omitempty"`
	BaseURL     string        `json:"base_url"`
	Branch      string        `json:"branch,omitempty"`
	Commit      string        `json:"commit,omitempty"`
	Dirty       bool          `json:"dirty,omitempty"`
	Started     time.Time     `json:"started"`
	DurationMs  int64         `json:"duration_ms"`
	Status      string        `json:"status"`
	ExitCode    int           `json:"exit_code"`
	Phases      []PhaseReport `json:"phases"`
}

// PhaseReport is one phase of the report.
type PhaseReport struct {
	Name       string         `json:"name"`
	Outcome    status.Outcome `json:"outcome"`
	DurationMs int64          `json:"duration_ms"`
	Error      string         `json:"error,omitempty"`
	Reason     string         `json:"reason,omitempty"`
}

// NewReport builds the report of res.
func NewReport(meta Meta, res *runner.Result) Report {
	if meta.RunID == "" {
		meta.RunID = uuid.NewString()
	}
	return Report{
		RunID:       meta.RunID,
		Scenario:    meta.Scenario,
		Description: meta.Description,
		BaseURL:     meta.BaseURL,
		Branch:      meta.Stamp.Branch,
		Commit:      meta.Stamp.Commit,
		Dirty:       meta.Stamp.Dirty,
		Started:     meta.Started,
		DurationMs:  res.Duration.Milliseconds(),
		Status:      string(res.Status()),
		ExitCode:    res.ExitCode(),
		Phases: lo.Map(res.Phases(), func(pr runner.PhaseResult, _ int) PhaseReport {
			p := PhaseReport{Name: pr.Name, Outcome: pr.Outcome, DurationMs: pr.Duration.Milliseconds(), Reason: pr.Reason}
			if pr.Err != nil {
				p.Error = pr.Err.Error()
			}
			return p
		}),
	}
}

func (r Report) duration() time.Duration {
	return time.Duration(r.DurationMs) * time.Millisecond
}

// count returns the number of phases with outcome o.
func (r Report) count(o status.Outcome) int {
	return lo.CountBy(r.Phases, func(p PhaseReport) bool { return p.Outcome == o })
}

// Summary returns the report as markdown.
func (r Report) Summary() string {
	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n", r.Scenario)
	if r.Description != "" {
		fmt.Fprintf(&b, "%s\n\n", r.Description)
	}
	fmt.Fprintf(&b, "**%s** against %s in %s", strings.ToUpper(r.Status), r.BaseURL, r.duration())
	if stamp := (git.Stamp{Branch: r.Branch, Commit: r.Commit, Dirty: r.Dirty}).String(); stamp != "" {
		fmt.Fprintf(&b, ", revision `%s`", stamp)
	}
	b.WriteString("\n\n")
	if r.RunID != "" {
		fmt.Fprintf(&b, "run `%s`\n\n", r.RunID)
	}
	fmt.Fprintf(&b, "%d passed, %d failed, %d blocked, %d skipped\n\n",
		r.count(status.Passed), r.count(status.Failed), r.count(status.Blocked), r.count(status.Skipped))

	b.WriteString("| # | phase | outcome | duration | details |\n")
	b.WriteString("|---|---|---|---|---|\n")
	for i, p := range r.Phases {
		details := p.Error
		if details == "" {
			details = p.Reason
		}
		dur := "-"
		if p.DurationMs > 0 {
			dur = (time.Duration(p.DurationMs) * time.Millisecond).String()
		}
		fmt.Fprintf(&b, "| %d | %s | %s | %s | %s |\n", i+1, cell(p.Name), p.Outcome, dur, cell(details))
	}
	return b.String()
}

// cell makes text safe for a single markdown table cell.
func cell(s string) string {
	s = strings.ReplaceAll(s, "|", `\|`)
	return strings.Join(strings.Fields(s), " ")
}

// Notification converts the report for notification channels.
func (r Report) Notification() notify.Result {
	res := notify.Result{
		Status:   "failure",
		RunID:    r.RunID,
		Scenario: r.Scenario,
		BaseURL:  r.BaseURL,
		Branch:   r.Branch,
		Commit:   r.Commit,
		Duration: r.duration().Round(time.Second).String(),
		Passed:   r.count(status.Passed),
		Failed:   r.count(status.Failed),
		Blocked:  r.count(status.Blocked),
		Skipped:  r.count(status.Skipped),
	}
	if r.ExitCode == 0 {
		res.Status = "success"
	}
	for _, p := range r.Phases {
		if p.Outcome != status.Failed {
			continue
		}
		res.FailedPhases = append(res.FailedPhases, p.Name)
		if res.Error == "" {
			res.Error = p.Error
		}
	}
	return res
}

// Write stores the report as <scenario>-report.md and <scenario>-report.json in dir
// and returns both paths.
func (r Report) Write(dir string) (mdPath, jsonPath string, err error) {
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return "", "", fmt.Errorf("create report dir: %w", err)
	}
	base := filepath.Join(dir, sanitize(r.Scenario)+"-report")

	mdPath = base + ".md"
	if err := os.WriteFile(mdPath, []byte(r.Summary()), 0o600); err != nil {
		return "", "", fmt.Errorf("write summary: %w", err)
	}

	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return "", "", fmt.Errorf("marshal report: %w", err)
	}
	jsonPath = base + ".json"
	if err := os.WriteFile(jsonPath, append(data, '\n'), 0o600); err != nil {
		return "", "", fmt.Errorf("write report: %w", err)
	}
	return mdPath, jsonPath, nil
}

// sanitize turns a scenario name into a file name.
func sanitize(name string) string {
	name = strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_', r == '.':
			return r
		default:
			return '-'
		}
	}, strings.TrimSpace(name))
	if strings.Trim(name, "-.") == "" {
		return "run"
	}
	return name
}
