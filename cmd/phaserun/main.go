// Package main provides phaserun, a runner of ordered multi-actor UI workflow phases
// against a hosted PlayTest deployment.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/jessevdk/go-flags"
	"golang.org/x/term"

	"github.com/playtest-app/phaserun/pkg/browser"
	"github.com/playtest-app/phaserun/pkg/config"
	"github.com/playtest-app/phaserun/pkg/git"
	"github.com/playtest-app/phaserun/pkg/notify"
	"github.com/playtest-app/phaserun/pkg/plan"
	"github.com/playtest-app/phaserun/pkg/progress"
	"github.com/playtest-app/phaserun/pkg/render"
	"github.com/playtest-app/phaserun/pkg/runner"
	"github.com/playtest-app/phaserun/pkg/scenario"
	"github.com/playtest-app/phaserun/pkg/status"
	"github.com/playtest-app/phaserun/pkg/workflow"
)

// opts holds all command-line options.
type opts struct {
	Scenario  string `short:"s" long:"scenario" description:"scenario file or name in the scenarios directory (uses fzf if omitted)"`
	ConfigDir string `long:"config-dir" env:"PHASERUN_CONFIG_DIR" description:"global config directory (default ~/.config/phaserun)"`
	BaseURL   string `long:"base-url" description:"frontend url, overrides scenario and config"`
	Headed    bool   `long:"headed" description:"show the browser window"`
	Install   bool   `long:"install" description:"download the playwright driver and chromium before running"`
	List      bool   `short:"l" long:"list" description:"print the execution plan and exit"`
	NoColor   bool   `long:"no-color" description:"disable color output"`
	Debug     bool   `short:"d" long:"debug" description:"enable debug logging"`
	Version   bool   `short:"v" long:"version" description:"print version and exit"`
}

var revision = "unknown"

// settings are the values a run needs after config, scenario and flags are merged.
type settings struct {
	BaseURL    string
	BackendURL string
	Timeouts   config.Timeouts
	Headless   bool
}

func main() {
	var o opts
	parser := flags.NewParser(&o, flags.Default)
	if _, err := parser.Parse(); err != nil {
		var flagsErr *flags.Error
		if errors.As(err, &flagsErr) && flagsErr.Type == flags.ErrHelp {
			os.Exit(0)
		}
		os.Exit(2)
	}

	if o.Version {
		fmt.Printf("phaserun %s\n", revision)
		os.Exit(0)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	restore := muteInterruptEcho(os.Stdin)
	err := run(ctx, o)
	restore()
	cancel()
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, o opts) error {
	cfg, err := config.Load(config.Options{ConfigDir: o.ConfigDir})
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	colors := progress.NewColors(cfg.Colors)

	path, err := scenario.NewSelector(cfg.ScenariosDir, colors).Resolve(ctx, o.Scenario)
	if err != nil {
		return err
	}
	sc, err := scenario.Load(path)
	if err != nil {
		return err
	}
	registry := workflow.NewRegistry()
	if err = sc.Expand(registry.Names()); err != nil {
		return err
	}
	p, err := sc.Plan()
	if err != nil {
		return err
	}

	if o.List {
		printPlan(os.Stdout, sc, p)
		return nil
	}

	s, err := resolveSettings(cfg, sc, o)
	if err != nil {
		return err
	}

	stamp, err := git.Read(filepath.Dir(path))
	if err != nil && o.Debug {
		colors.Info().Printf("no git revision for %s: %v\n", path, err)
	}

	log, err := progress.NewLogger(progress.Config{
		Scenario: sc.Name,
		Dir:      cfg.ArtifactsDir,
		BaseURL:  s.BaseURL,
		Branch:   stamp.Branch,
		Commit:   stamp.Commit,
		NoColor:  o.NoColor,
		Colors:   colors,
	})
	if err != nil {
		return fmt.Errorf("create progress logger: %w", err)
	}
	defer log.Close()

	printStartupInfo(colors, sc, p, s, stamp, log.Path())
	logPlan(log, sc, p)
	if o.Debug {
		log.Print("config dir %s, scenario %s", cfg.ConfigDir, path)
		log.Print("timeouts: test %v, navigation %v, action %v, expect %v",
			s.Timeouts.Test, s.Timeouts.Navigation, s.Timeouts.Action, s.Timeouts.Expect)
	}

	launcher, err := browser.Launch(browser.LaunchOptions{Headless: s.Headless, SlowMo: cfg.SlowMo, Install: o.Install})
	if err != nil {
		return fmt.Errorf("launch browser: %w", err)
	}
	defer func() {
		if cerr := launcher.Close(); cerr != nil {
			log.Warn("close browser: %v", cerr)
		}
	}()

	videoDir := ""
	if cfg.VideoOnFailure {
		videoDir = filepath.Join(cfg.ArtifactsDir, "videos")
	}
	ex, err := workflow.NewExecutor(workflow.Options{
		Scenario:            sc,
		Registry:            registry,
		Open:                workflow.LauncherPages(launcher, s.Timeouts, videoDir),
		Log:                 log,
		Timeouts:            s.Timeouts,
		BaseURL:             s.BaseURL,
		BackendURL:          s.BackendURL,
		MarkerSelector:      cfg.SessionMarkerSelector,
		ArtifactsDir:        cfg.ArtifactsDir,
		ScreenshotOnFailure: cfg.ScreenshotOnFailure,
		VideoOnFailure:      cfg.VideoOnFailure,
	})
	if err != nil {
		return err
	}

	started := time.Now()
	r := runner.New(runner.Config{Workers: sc.WorkerCount(), FullyParallel: sc.FullyParallel, PhaseTimeout: s.Timeouts.Test}, p, ex, log)
	if o.Debug {
		r.Tracker().OnChange(func(name string, old, cur status.Outcome) {
			log.Print("phase %s: %s -> %s", name, old, cur)
		})
	}
	res, runErr := r.Run(ctx)

	log.SetStage(status.StageReport)
	log.PrintSection(status.NewSummarySection(sc.Name))
	rep := render.NewReport(render.Meta{
		Scenario:    sc.Name,
		Description: sc.Description,
		BaseURL:     s.BaseURL,
		Stamp:       stamp,
		Started:     started,
	}, res)
	reportSummary(log, rep, cfg.ArtifactsDir, o.NoColor)

	svc, err := notify.New(cfg.NotifyParams, log)
	if err != nil {
		log.Warn("notifications disabled: %v", err)
	}
	// an interrupted run still reports
	svc.Send(context.WithoutCancel(ctx), rep.Notification())

	if runErr != nil {
		return fmt.Errorf("scenario %s failed (%d of %d phases passed): %w",
			sc.Name, res.Count(status.Passed), p.Len(), runErr)
	}
	colors.Info().Printf("\ncompleted in %s\n", log.Elapsed())
	return nil
}

// resolveSettings merges config, scenario and flags; flags win over the scenario,
// the scenario over config and environment.
func resolveSettings(cfg *config.Config, sc *scenario.Scenario, o opts) (settings, error) {
	timeouts, err := sc.ResolveTimeouts(cfg)
	if err != nil {
		return settings{}, err
	}
	s := settings{Timeouts: timeouts, Headless: cfg.Headless && !o.Headed}
	s.BaseURL, s.BackendURL = sc.Target(cfg)
	if o.BaseURL != "" {
		s.BaseURL = o.BaseURL
	}
	if err := config.ValidateURL("base url", s.BaseURL); err != nil {
		return settings{}, err
	}
	if s.BackendURL != "" {
		if err := config.ValidateURL("backend url", s.BackendURL); err != nil {
			return settings{}, err
		}
	}
	return s, nil
}

// reportSummary writes the report files and prints the rendered summary.
func reportSummary(log *progress.Logger, rep render.Report, dir string, noColor bool) {
	md, js, err := rep.Write(dir)
	if err != nil {
		log.Warn("write report: %v", err)
	} else {
		log.Print("report written to %s and %s", md, js)
	}

	width := 100
	if w, _, err := term.GetSize(int(os.Stdout.Fd())); err == nil && w > 0 {
		width = w
	}
	out, err := render.Markdown(rep.Summary(), noColor, width)
	if err != nil {
		log.Warn("render summary: %v", err)
		out = rep.Summary()
	}
	log.PrintRaw("%s\n", out)
}

// printPlan writes the execution order with the steps of every phase.
func printPlan(w io.Writer, sc *scenario.Scenario, p *plan.Plan) {
	fmt.Fprintf(w, "scenario %s (%s)\n", sc.Name, sc.Path)
	mode := "sequential, halts on first failure"
	if !sc.Sequential() {
		mode = fmt.Sprintf("parallel, %d workers", sc.WorkerCount())
	}
	fmt.Fprintf(w, "%d phases, %s\n\n", p.Len(), mode)

	for i, ph := range p.Phases() {
		line := fmt.Sprintf("%d. %s", i+1, ph.Name)
		if len(ph.DependsOn) > 0 {
			line += " (after " + strings.Join(ph.DependsOn, ", ") + ")"
		}
		fmt.Fprintln(w, line)
		project, _ := sc.Project(ph.Name)
		for _, st := range project.Steps {
			fmt.Fprintf(w, "     %s\n", workflow.Describe(st))
		}
	}
}

// logPlan writes the execution order into the progress log.
func logPlan(log *progress.Logger, sc *scenario.Scenario, p *plan.Plan) {
	log.PrintSection(status.NewGenericSection(fmt.Sprintf("plan: %s, %d phases", sc.Name, p.Len())))
	if sc.Description != "" {
		log.PrintAligned(sc.Description)
	}
	for i, name := range p.Names() {
		if reqs := p.Prerequisites(name); len(reqs) > 0 {
			log.Print("%d. %s, requires %s", i+1, name, strings.Join(reqs, ", "))
			continue
		}
		log.Print("%d. %s", i+1, name)
	}
}

func printStartupInfo(colors *progress.Colors, sc *scenario.Scenario, p *plan.Plan, s settings, stamp git.Stamp, progressPath string) {
	colors.Info().Printf("phaserun %s: scenario %s, %d phases\n", revision, sc.Name, p.Len())
	colors.Info().Printf("target: %s\n", s.BaseURL)
	if s.BackendURL != "" {
		colors.Info().Printf("backend: %s\n", s.BackendURL)
	}
	if stamp.Commit != "" {
		colors.Info().Printf("suite revision: %s\n", stamp)
	}
	colors.Info().Printf("progress log: %s\n\n", progressPath)
}
