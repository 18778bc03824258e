package scenario

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/playtest-app/phaserun/pkg/input"
	"github.com/playtest-app/phaserun/pkg/progress"
)

// ErrNoScenariosFound is returned when the scenarios directory holds no scenario files.
var ErrNoScenariosFound = errors.New("no scenarios found")

// Selector resolves a scenario selector, either a file path or a scenario name.
type Selector struct {
	Dir     string // directory searched for <name>.yaml
	Colors  *progress.Colors
	Chooser input.Chooser // asked when no selector is given and Dir holds several scenarios
}

// NewSelector creates a Selector for the given scenarios directory, choosing on the terminal.
func NewSelector(dir string, colors *progress.Colors) *Selector {
	return &Selector{Dir: dir, Colors: colors, Chooser: input.NewTerminalChooser("head -50 {}")}
}

// Resolve returns the absolute path of the selected scenario file.
// a selector naming an existing file, or containing a path separator or a yaml extension,
// is treated as a path. anything else is a name looked up in Dir.
// an empty selector auto-selects the only scenario in Dir or asks the Chooser.
func (s *Selector) Resolve(ctx context.Context, selector string) (string, error) {
	selected, err := s.resolve(ctx, selector)
	if err != nil {
		return "", err
	}
	abs, err := filepath.Abs(selected)
	if err != nil {
		return "", fmt.Errorf("resolve scenario path: %w", err)
	}
	return abs, nil
}

func (s *Selector) resolve(ctx context.Context, selector string) (string, error) {
	if selector == "" {
		return s.choose(ctx)
	}

	if looksLikePath(selector) {
		if _, err := os.Stat(selector); err != nil {
			return "", fmt.Errorf("scenario file not found: %s", selector)
		}
		return selector, nil
	}
	if info, err := os.Stat(selector); err == nil && !info.IsDir() {
		return selector, nil
	}

	for _, ext := range []string{".yaml", ".yml"} {
		candidate := filepath.Join(s.Dir, selector+ext)
		if _, err := os.Stat(candidate); err == nil {
			return candidate, nil
		}
	}

	names, _ := s.List()
	if len(names) == 0 {
		return "", fmt.Errorf("scenario %q not found in %s", selector, s.Dir)
	}
	return "", fmt.Errorf("scenario %q not found in %s, available: %s", selector, s.Dir, strings.Join(names, ", "))
}

// List returns the names of all scenarios in Dir, sorted.
func (s *Selector) List() ([]string, error) {
	files, err := s.files()
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(files))
	for _, f := range files {
		names = append(names, strings.TrimSuffix(filepath.Base(f), filepath.Ext(f)))
	}
	return names, nil
}

func (s *Selector) files() ([]string, error) {
	if _, err := os.Stat(s.Dir); err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s (directory missing)", ErrNoScenariosFound, s.Dir)
		}
		return nil, fmt.Errorf("cannot access scenarios directory %s: %w", s.Dir, err)
	}
	var files []string
	for _, pattern := range []string{"*.yaml", "*.yml"} {
		m, err := filepath.Glob(filepath.Join(s.Dir, pattern))
		if err != nil {
			return nil, fmt.Errorf("glob scenarios: %w", err)
		}
		files = append(files, m...)
	}
	slices.Sort(files)
	return files, nil
}

// choose picks a scenario interactively, or the only one without asking.
func (s *Selector) choose(ctx context.Context) (string, error) {
	files, err := s.files()
	if err != nil {
		return "", err
	}
	if len(files) == 0 {
		return "", fmt.Errorf("%w: %s", ErrNoScenariosFound, s.Dir)
	}

	if len(files) == 1 {
		if s.Colors != nil {
			s.Colors.Info().Printf("auto-selected: %s\n", files[0])
		}
		return files[0], nil
	}

	if s.Chooser == nil {
		return "", errors.New("several scenarios found, pass one with --scenario")
	}
	selected, err := s.Chooser.Choose(ctx, "select scenario", files)
	if err != nil {
		return "", fmt.Errorf("select scenario: %w", err)
	}
	if !slices.Contains(files, selected) {
		return "", fmt.Errorf("select scenario: %q is not in %s", selected, s.Dir)
	}
	return selected, nil
}

func looksLikePath(selector string) bool {
	if strings.ContainsRune(selector, os.PathSeparator) || strings.Contains(selector, "/") {
		return true
	}
	ext := filepath.Ext(selector)
	return ext == ".yaml" || ext == ".yml"
}
