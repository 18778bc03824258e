// Package input asks the user to pick one of several options on the terminal.
package input

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strconv"
	"strings"
)

//go:generate moq -out mocks/chooser.go -pkg mocks -skip-ensure -fmt goimports . Chooser

// ErrCanceled is returned when the user backs out of a selection.
var ErrCanceled = errors.New("selection canceled")

// Chooser picks one option interactively.
type Chooser interface {
	// Choose shows prompt with options and returns the selected option.
	Choose(ctx context.Context, prompt string, options []string) (string, error)
}

// TerminalChooser uses fzf when installed, otherwise a numbered menu on stdin/stdout.
type TerminalChooser struct {
	Preview string // fzf preview command, e.g. "head -50 {}", empty for none

	stdin  io.Reader // for testing, nil uses os.Stdin
	stdout io.Writer // for testing, nil uses os.Stdout
	lookup func(string) (string, error)
}

// NewTerminalChooser creates a TerminalChooser with an optional fzf preview command.
func NewTerminalChooser(preview string) *TerminalChooser {
	return &TerminalChooser{Preview: preview}
}

// Choose presents options with fzf if available, falling back to a numbered menu.
func (c *TerminalChooser) Choose(ctx context.Context, prompt string, options []string) (string, error) {
	if len(options) == 0 {
		return "", errors.New("no options provided")
	}
	if c.hasFzf() {
		return c.chooseWithFzf(ctx, prompt, options)
	}
	return c.chooseWithNumbers(prompt, options)
}

func (c *TerminalChooser) hasFzf() bool {
	lookup := c.lookup
	if lookup == nil {
		lookup = exec.LookPath
	}
	_, err := lookup("fzf")
	return err == nil
}

func (c *TerminalChooser) chooseWithFzf(ctx context.Context, prompt string, options []string) (string, error) {
	args := []string{"--prompt", prompt + ": ", "--height", "40%", "--layout=reverse"}
	if c.Preview != "" {
		args = append(args, "--preview", c.Preview, "--preview-window=right:60%")
	}
	cmd := exec.CommandContext(ctx, "fzf", args...) //nolint:gosec // fzf with our own prompt and preview
	cmd.Stdin = strings.NewReader(strings.Join(options, "\n"))
	cmd.Stderr = os.Stderr

	output, err := cmd.Output()
	if err != nil {
		// 130 is escape or ctrl-c, 1 is no match
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) && (exitErr.ExitCode() == 130 || exitErr.ExitCode() == 1) {
			return "", ErrCanceled
		}
		return "", fmt.Errorf("fzf selection failed: %w", err)
	}

	selected := strings.TrimSpace(string(output))
	if selected == "" {
		return "", ErrCanceled
	}
	return selected, nil
}

func (c *TerminalChooser) chooseWithNumbers(prompt string, options []string) (string, error) {
	stdout := c.stdout
	if stdout == nil {
		stdout = os.Stdout
	}
	stdin := c.stdin
	if stdin == nil {
		stdin = os.Stdin
	}

	_, _ = fmt.Fprintln(stdout)
	_, _ = fmt.Fprintln(stdout, prompt)
	for i, opt := range options {
		_, _ = fmt.Fprintf(stdout, "  %d) %s\n", i+1, opt)
	}
	_, _ = fmt.Fprintf(stdout, "enter number (1-%d): ", len(options))

	line, err := bufio.NewReader(stdin).ReadString('\n')
	if err != nil {
		if errors.Is(err, io.EOF) && strings.TrimSpace(line) == "" {
			return "", ErrCanceled
		}
		if !errors.Is(err, io.EOF) {
			return "", fmt.Errorf("read input: %w", err)
		}
	}

	line = strings.TrimSpace(line)
	num, err := strconv.Atoi(line)
	if err != nil {
		return "", fmt.Errorf("invalid number: %s", line)
	}
	if num < 1 || num > len(options) {
		return "", fmt.Errorf("selection out of range: %d (must be 1-%d)", num, len(options))
	}
	return options[num-1], nil
}
