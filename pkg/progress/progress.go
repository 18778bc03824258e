// Package progress writes the run log: timestamped lines to a progress file and colored lines to stdout.
package progress

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/fatih/color"
	"golang.org/x/term"

	"github.com/playtest-app/phaserun/pkg/status"
)

const (
	stampLayout  = "06-01-02 15:04:05"
	headerLayout = "2006-01-02 15:04:05"
	stampWidth   = len("[06-01-02 15:04:05] ")
	ruleWidth    = 60
)

// Logger is the run log of one scenario. Lines from parallel phases never interleave.
type Logger struct {
	mu      sync.Mutex
	file    *os.File
	path    string
	stdout  io.Writer
	colors  *Colors
	started time.Time
	stage   status.Stage
}

// Config holds logger configuration.
type Config struct {
	Scenario string  // scenario name, part of the progress filename
	Dir      string  // directory for the progress file, current dir if empty
	BaseURL  string  // target deployment
	Branch   string  // git branch of the suite checkout, optional
	Commit   string  // short commit hash of the suite checkout, optional
	NoColor  bool    // disable color output (sets color.NoColor globally)
	Colors   *Colors // color set, DefaultColors if nil
}

// NewLogger creates the progress file and writes its header.
func NewLogger(cfg Config) (*Logger, error) {
	if cfg.NoColor {
		color.NoColor = true
	}
	colors := cfg.Colors
	if colors == nil {
		colors = DefaultColors()
	}

	path := progressFilename(cfg.Dir, cfg.Scenario)
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return nil, fmt.Errorf("create progress dir: %w", err)
	}
	f, err := os.Create(path) //nolint:gosec // path derived from scenario name
	if err != nil {
		return nil, fmt.Errorf("create progress file: %w", err)
	}

	l := &Logger{file: f, path: path, stdout: os.Stdout, colors: colors, started: time.Now(), stage: status.StagePlan}
	l.toFile(fileHeader(cfg, l.started))
	return l, nil
}

func fileHeader(cfg Config, started time.Time) string {
	var b strings.Builder
	b.WriteString("# Phaserun Progress Log\n")
	fmt.Fprintf(&b, "Scenario: %s\n", cfg.Scenario)
	fmt.Fprintf(&b, "Target: %s\n", cfg.BaseURL)
	if cfg.Branch != "" {
		fmt.Fprintf(&b, "Suite: %s@%s\n", cfg.Branch, cfg.Commit)
	}
	fmt.Fprintf(&b, "Started: %s\n", started.Format(headerLayout))
	b.WriteString(strings.Repeat("-", ruleWidth) + "\n\n")
	return b.String()
}

// Path returns the progress file path.
func (l *Logger) Path() string { return l.path }

// SetStage switches the color of plain lines.
func (l *Logger) SetStage(s status.Stage) {
	l.mu.Lock()
	l.stage = s
	l.mu.Unlock()
}

// Print writes one timestamped line in the current stage color.
func (l *Logger) Print(format string, args ...any) {
	l.stamped(nil, fmt.Sprintf(format, args...))
}

// PrintRaw writes text as is, for streamed subprocess output.
func (l *Logger) PrintRaw(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	l.mu.Lock()
	defer l.mu.Unlock()
	l.toFile(msg)
	fmt.Fprint(l.stdout, msg)
}

// PrintSection writes a section header, e.g. "--- phase 2/5: loading-jaigon ---".
func (l *Logger) PrintSection(s status.Section) {
	header := "--- " + s.Label + " ---"
	l.mu.Lock()
	defer l.mu.Unlock()
	l.toFile("\n" + header + "\n")
	fmt.Fprintf(l.stdout, "\n%s\n", l.colors.phase.Sprint(header))
}

// PrintOutcome writes the final state of a phase: "FAILED creation (1s): reason".
func (l *Logger) PrintOutcome(name string, o status.Outcome, d time.Duration, msg string) {
	line := strings.ToUpper(string(o)) + " " + name
	if d > 0 {
		line += " (" + d.Round(time.Millisecond).String() + ")"
	}
	if msg != "" {
		line += ": " + msg
	}
	l.stamped(l.colors.outcome(o), line)
}

// PrintAligned writes multi-line text under one timestamp, long lines wrap to the terminal.
func (l *Logger) PrintAligned(text string) {
	text = strings.TrimRight(text, "\n")
	if text == "" {
		return
	}
	width := contentWidth()
	var lines []string
	for line := range strings.SplitSeq(text, "\n") {
		lines = append(lines, wrapLines(line, width)...)
	}
	l.stamped(nil, lines...)
}

// Error writes "ERROR: msg" in the error color.
func (l *Logger) Error(format string, args ...any) {
	l.stamped(l.colors.err, "ERROR: "+fmt.Sprintf(format, args...))
}

// Warn writes "WARN: msg" in the warn color.
func (l *Logger) Warn(format string, args ...any) {
	l.stamped(l.colors.warn, "WARN: "+fmt.Sprintf(format, args...))
}

// stamped writes lines with the timestamp on the first one and continuation lines
// indented under it. c nil means the stage color.
func (l *Logger) stamped(c *color.Color, lines ...string) {
	ts := "[" + time.Now().Format(stampLayout) + "]"
	indent := strings.Repeat(" ", stampWidth)

	l.mu.Lock()
	defer l.mu.Unlock()
	if c == nil {
		c = l.colors.stage(l.stage)
	}
	for i, line := range lines {
		switch {
		case line == "":
			l.toFile("\n")
			fmt.Fprintln(l.stdout)
		case i == 0:
			l.toFile(ts + " " + line + "\n")
			fmt.Fprintf(l.stdout, "%s %s\n", l.colors.timestamp.Sprint(ts), c.Sprint(line))
		default:
			l.toFile(indent + line + "\n")
			fmt.Fprintf(l.stdout, "%s%s\n", indent, c.Sprint(line))
		}
	}
}

// Elapsed returns time since the logger was created, e.g. "3 minutes".
func (l *Logger) Elapsed() string {
	return humanize.RelTime(l.started, time.Now(), "", "")
}

// Close writes the footer and closes the progress file. Repeated calls do nothing.
func (l *Logger) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.file == nil {
		return nil
	}
	l.toFile(fmt.Sprintf("\n%s\nCompleted: %s (%s)\n", strings.Repeat("-", ruleWidth), time.Now().Format(headerLayout), l.Elapsed()))
	err := l.file.Close()
	l.file = nil
	if err != nil {
		return fmt.Errorf("close progress file: %w", err)
	}
	return nil
}

func (l *Logger) toFile(s string) {
	if l.file != nil {
		_, _ = l.file.WriteString(s)
	}
}

// contentWidth is the terminal width left after the timestamp, COLUMNS first, 80 columns when unknown.
func contentWidth() int {
	const minWidth = 40
	cols := 80
	if w, err := strconv.Atoi(os.Getenv("COLUMNS")); err == nil && w > 0 {
		cols = w
	} else if w, _, err := term.GetSize(int(os.Stdout.Fd())); err == nil && w > 0 {
		cols = w
	}
	return max(cols-stampWidth, minWidth)
}

// wrapLines splits text on word boundaries into lines of at most width runes.
// a single word longer than width stays whole.
func wrapLines(text string, width int) []string {
	if width <= 0 || len(text) <= width {
		return []string{text}
	}
	var lines []string
	cur := ""
	for _, word := range strings.Fields(text) {
		switch {
		case cur == "":
			cur = word
		case len(cur)+1+len(word) <= width:
			cur += " " + word
		default:
			lines = append(lines, cur)
			cur = word
		}
	}
	return append(lines, cur)
}

// progressFilename returns progress-<scenario>.txt inside dir.
func progressFilename(dir, scenario string) string {
	name := "progress.txt"
	if scenario != "" {
		name = "progress-" + scenario + ".txt"
	}
	return filepath.Join(dir, name)
}
