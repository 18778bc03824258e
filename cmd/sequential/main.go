// Package main provides sequential, the fixed entry point running the SebDom
// multi-actor scenario through phaserun.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/fatih/color"

	"github.com/playtest-app/phaserun/pkg/executor"
)

// scenarioPath is relative to the suite root, the directory holding scenarios/.
const scenarioPath = "scenarios/sequential-sebdom.yaml"

// paths locates the phaserun binary and the suite root it runs in.
type paths struct {
	runner func() (string, error)
	root   func() (string, error)
}

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	err := run(ctx, os.Stdout, os.Stderr, paths{runner: locateRunner, root: locateRoot})
	cancel()
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

// run launches phaserun on the bundled scenario from the suite root and forwards its
// output line by line.
func run(ctx context.Context, stdout, stderr io.Writer, p paths) error {
	bin, err := p.runner()
	if err != nil {
		return err
	}
	root, err := p.root()
	if err != nil {
		return err
	}

	banner := color.New(color.FgCyan, color.Bold)
	banner.Fprintf(stdout, "starting sequential run: %s\n", scenarioPath)
	start := time.Now()

	cmd := &executor.Command{
		Name:   bin,
		Args:   []string{"--scenario", scenarioPath},
		Dir:    root,
		Stdout: func(line string) { fmt.Fprintln(stdout, line) },
		Stderr: func(line string) { fmt.Fprintln(stderr, line) },
	}
	if err := cmd.Run(ctx); err != nil {
		color.New(color.FgRed, color.Bold).Fprintf(stdout, "sequential run failed after %s\n",
			time.Since(start).Round(time.Second))
		var subErr *executor.SubprocessError
		if errors.As(err, &subErr) && subErr.ExitCode > 0 {
			if n := len(subErr.Tail); n > 0 {
				return fmt.Errorf("phaserun exited with code %d: %s", subErr.ExitCode, subErr.Tail[n-1])
			}
			return fmt.Errorf("phaserun exited with code %d", subErr.ExitCode)
		}
		return err
	}

	color.New(color.FgGreen, color.Bold).Fprintf(stdout, "sequential run completed in %s\n",
		time.Since(start).Round(time.Second))
	return nil
}

// locateRunner finds the phaserun binary next to this executable, then in PATH.
func locateRunner() (string, error) {
	if self, err := os.Executable(); err == nil {
		sibling := filepath.Join(filepath.Dir(self), "phaserun")
		if fi, err := os.Stat(sibling); err == nil && !fi.IsDir() {
			return sibling, nil
		}
	}
	bin, err := exec.LookPath("phaserun")
	if err != nil {
		return "", fmt.Errorf("phaserun binary not found next to this executable or in PATH: %w", err)
	}
	return bin, nil
}

// locateRoot finds the suite root above the working directory, then above this executable.
func locateRoot() (string, error) {
	var dirs []string
	if wd, err := os.Getwd(); err == nil {
		dirs = append(dirs, wd)
	}
	if self, err := os.Executable(); err == nil {
		dirs = append(dirs, filepath.Dir(self))
	}
	return findRoot(dirs...)
}

// findRoot returns the first of dirs, or of their parents, containing the bundled scenario.
func findRoot(dirs ...string) (string, error) {
	for _, dir := range dirs {
		for d := filepath.Clean(dir); ; d = filepath.Dir(d) {
			if fi, err := os.Stat(filepath.Join(d, filepath.FromSlash(scenarioPath))); err == nil && !fi.IsDir() {
				return d, nil
			}
			if filepath.Dir(d) == d {
				break
			}
		}
	}
	return "", fmt.Errorf("%s not found in %s or their parents", scenarioPath, strings.Join(dirs, ", "))
}
