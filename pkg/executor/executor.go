// Package executor runs a command as a subprocess in its own process group and streams
// its output line by line.
package executor

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"
	"sync"
	"time"
)

//go:generate moq -out mocks/process_runner.go -pkg mocks -skip-ensure -fmt goimports . ProcessRunner

const (
	defaultTailLines = 40
	defaultKillGrace = 2 * time.Second
	maxLineSize      = 1024 * 1024
)

// ProcessRunner starts a process and returns its output streams. wait must be called
// once both streams are drained.
type ProcessRunner interface {
	Start(ctx context.Context, spec Spec) (stdout, stderr io.Reader, wait func() error, err error)
}

// Spec describes the process to start.
type Spec struct {
	Name      string
	Args      []string
	Dir       string
	Env       []string      // appended to the current environment
	KillGrace time.Duration // delay between SIGTERM and SIGKILL on cancellation
}

// SubprocessError reports a subprocess that exited non-zero or was interrupted.
type SubprocessError struct {
	Command  string
	ExitCode int      // -1 when the process was killed by a signal
	Tail     []string // last lines of combined output
	Err      error
}

func (e *SubprocessError) Error() string {
	if e.ExitCode < 0 {
		return fmt.Sprintf("%s was terminated: %v", e.Command, e.Err)
	}
	return fmt.Sprintf("%s exited with code %d", e.Command, e.ExitCode)
}

func (e *SubprocessError) Unwrap() error { return e.Err }

// Command is a subprocess with streamed output.
type Command struct {
	Name      string
	Args      []string
	Dir       string
	Env       []string
	Stdout    func(line string) // called for every stdout line, can be nil
	Stderr    func(line string) // called for every stderr line, can be nil
	TailLines int               // lines kept for SubprocessError, default 40
	KillGrace time.Duration     // default 2s
	runner    ProcessRunner     // for testing, nil uses default
}

// SetRunner sets the process runner for testing purposes.
func (c *Command) SetRunner(r ProcessRunner) {
	c.runner = r
}

// String returns the command line.
func (c *Command) String() string {
	return strings.Join(append([]string{c.Name}, c.Args...), " ")
}

// Run starts the command and blocks until it exits. Output handlers are never called
// concurrently. Canceling ctx kills the process group.
func (c *Command) Run(ctx context.Context) error {
	if c.Name == "" {
		return errors.New("command name is empty")
	}
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("context already canceled: %w", err)
	}

	runner := c.runner
	if runner == nil {
		runner = &execProcessRunner{}
	}
	grace := c.KillGrace
	if grace <= 0 {
		grace = defaultKillGrace
	}
	stdout, stderr, wait, err := runner.Start(ctx, Spec{Name: c.Name, Args: c.Args, Dir: c.Dir, Env: c.Env, KillGrace: grace})
	if err != nil {
		return fmt.Errorf("start %s: %w", c.Name, err)
	}

	out := &output{tail: newTail(c.TailLines)}
	var wg sync.WaitGroup
	wg.Add(2)
	go func() { defer wg.Done(); out.stream(stdout, c.Stdout) }()
	go func() { defer wg.Done(); out.stream(stderr, c.Stderr) }()
	wg.Wait()

	waitErr := wait()
	switch {
	case waitErr == nil && out.err != nil:
		return fmt.Errorf("read output of %s: %w", c.Name, out.err)
	case waitErr == nil:
		return nil
	case ctx.Err() != nil:
		return &SubprocessError{Command: c.String(), ExitCode: -1, Tail: out.tail.lines(), Err: ctx.Err()}
	}

	var ec interface{ ExitCode() int }
	if !errors.As(waitErr, &ec) {
		return fmt.Errorf("wait for %s: %w", c.Name, waitErr)
	}
	return &SubprocessError{Command: c.String(), ExitCode: ec.ExitCode(), Tail: out.tail.lines(), Err: waitErr}
}

// output serializes handler calls of both streams and keeps their common tail.
type output struct {
	mu   sync.Mutex
	tail *tail
	err  error
}

func (o *output) stream(r io.Reader, handler func(string)) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)
	for scanner.Scan() {
		line := scanner.Text()
		o.mu.Lock()
		o.tail.add(line)
		if handler != nil {
			handler(line)
		}
		o.mu.Unlock()
	}
	if err := scanner.Err(); err != nil {
		o.mu.Lock()
		if o.err == nil {
			o.err = err
		}
		o.mu.Unlock()
		// drain so the process never blocks on a full pipe
		_, _ = io.Copy(io.Discard, r)
	}
}

// tail is a ring of the last n lines.
type tail struct {
	buf  []string
	next int
	full bool
}

func newTail(n int) *tail {
	if n <= 0 {
		n = defaultTailLines
	}
	return &tail{buf: make([]string, n)}
}

func (t *tail) add(line string) {
	t.buf[t.next] = line
	t.next = (t.next + 1) % len(t.buf)
	if t.next == 0 {
		t.full = true
	}
}

func (t *tail) lines() []string {
	if !t.full {
		return append([]string(nil), t.buf[:t.next]...)
	}
	return append(append([]string(nil), t.buf[t.next:]...), t.buf[:t.next]...)
}

// execProcessRunner starts processes with os/exec in their own process group.
type execProcessRunner struct{}

func (r *execProcessRunner) Start(ctx context.Context, spec Spec) (io.Reader, io.Reader, func() error, error) {
	// exec.Command, not CommandContext: cancellation kills the whole group, not just the child
	cmd := exec.Command(spec.Name, spec.Args...) //nolint:gosec,noctx // command comes from the caller
	cmd.Dir = spec.Dir
	if len(spec.Env) > 0 {
		cmd.Env = append(os.Environ(), spec.Env...)
	}
	setupProcessGroup(cmd)

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, nil, nil, fmt.Errorf("stdout pipe: %w", err)
	}
	stderr, err := cmd.StderrPipe()
	if err != nil {
		return nil, nil, nil, fmt.Errorf("stderr pipe: %w", err)
	}
	if err := cmd.Start(); err != nil {
		return nil, nil, nil, fmt.Errorf("start command: %w", err)
	}

	cleanup := newProcessGroupCleanup(cmd, ctx.Done(), spec.KillGrace)
	return stdout, stderr, cleanup.Wait, nil
}
