package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/alexisbeaulieu97/gridrun/internal/config"
	"github.com/alexisbeaulieu97/gridrun/internal/engine"
	"github.com/alexisbeaulieu97/gridrun/internal/logger"
	"github.com/alexisbeaulieu97/gridrun/internal/matrix"
	"github.com/alexisbeaulieu97/gridrun/internal/model"
	"github.com/alexisbeaulieu97/gridrun/internal/report"
	"github.com/alexisbeaulieu97/gridrun/internal/trigger"
	"github.com/alexisbeaulieu97/gridrun/internal/tui"
	griderrors "github.com/alexisbeaulieu97/gridrun/pkg/errors"
)

type runOptions struct {
	ConfigPath     string
	Event          string
	RepoDir        string
	Parallel       int
	Timeout        int
	Verbose        bool
	NonInteractive bool
	Out            io.Writer
}

var runCmdRunner = runRun

func newRunCmd(root *rootFlags) *cobra.Command {
	opts := runOptions{}

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Execute every job of the build matrix",
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.Verbose = root.verbose
			opts.NonInteractive = !term.IsTerminal(int(os.Stdout.Fd()))
			opts.Out = cmd.OutOrStdout()

			return runCmdRunner(opts)
		},
	}

	cmd.Flags().StringVarP(&opts.ConfigPath, "config", "c", "", "Path to configuration file")
	cmd.MarkFlagRequired("config") //nolint:errcheck
	cmd.Flags().StringVar(&opts.Event, "event", trigger.KindPush, "Trigger event (push or pull_request)")
	cmd.Flags().StringVar(&opts.RepoDir, "repo", ".", "Repository directory used for report metadata")
	cmd.Flags().IntVar(&opts.Parallel, "parallel", -1, "Maximum simultaneous jobs, 0 for unbounded (overrides settings)")
	cmd.Flags().IntVar(&opts.Timeout, "timeout", -1, "Per-job timeout in seconds, 0 to disable (overrides settings)")

	return cmd
}

func runRun(opts runOptions) error {
	if !trigger.ValidKind(opts.Event) {
		return griderrors.NewValidationError("event", fmt.Sprintf("unknown trigger kind %q", opts.Event), nil)
	}

	cfg, err := config.ParseConfig(opts.ConfigPath)
	if err != nil {
		return err
	}

	if !cfg.AcceptsTrigger(opts.Event) {
		return griderrors.NewValidationError("on", fmt.Sprintf("configuration does not accept trigger %q", opts.Event), nil)
	}

	jobs, err := matrix.Expand(cfg)
	if err != nil {
		return err
	}

	effectiveVerbose := opts.Verbose || cfg.Settings.Verbose
	level := "info"
	if effectiveVerbose {
		level = "debug"
	}

	log, err := logger.New(logger.Options{Level: level, HumanReadable: true})
	if err != nil {
		return err
	}

	parallel := cfg.Settings.Parallel
	if opts.Parallel >= 0 {
		parallel = opts.Parallel
	}
	timeout := cfg.Settings.Timeout
	if opts.Timeout >= 0 {
		timeout = opts.Timeout
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	rc := &engine.RunContext{
		Context: ctx,
		Logger:  log,
		Timeout: time.Duration(timeout) * time.Second,
	}
	if parallel > 0 {
		rc.WorkerPool = make(chan struct{}, parallel)
	}

	interactive := !opts.NonInteractive

	var program *tea.Program
	var programErr error
	done := make(chan struct{})

	if interactive {
		modelState := tui.NewModel(cfg.Name, jobs)
		program = tea.NewProgram(modelState)
		go func() {
			_, programErr = program.Run()
			close(done)
		}()

		rc.Events = engine.Events{
			JobStarted: func(job matrix.JobSpec) {
				program.Send(tui.JobStartMsg{ID: job.ID})
			},
			StepDone: func(job matrix.JobSpec, res model.StepResult) {
				program.Send(tui.StepDoneMsg{JobID: job.ID, Result: res})
			},
			JobFinished: func(outcome model.JobOutcome) {
				program.Send(tui.JobFinishedMsg{Outcome: outcome})
			},
		}
	} else {
		rc.Stdout = opts.Out
		rc.Stderr = os.Stderr
	}

	outcomes, schedErr := engine.Schedule(rc, jobs)
	result := engine.Aggregate(outcomes)

	if interactive {
		program.Send(tui.RunCompleteMsg{Result: result})
		<-done
		if programErr != nil {
			return programErr
		}
	} else {
		rctx := report.Context{
			Name:  cfg.Name,
			Event: opts.Event,
			Meta:  trigger.Describe(opts.RepoDir),
		}
		fmt.Fprintln(opts.Out, report.Render(rctx, cfg.Matrix.AxisNames(), result))
	}

	if schedErr != nil {
		return schedErr
	}

	if !result.Succeeded() {
		return fmt.Errorf("run failed: %d required job(s) failed", requiredFailures(result))
	}

	return nil
}

func requiredFailures(result model.RunResult) int {
	n := 0
	for _, outcome := range result.Outcomes {
		if outcome.Failed() && !outcome.Tolerant {
			n++
		}
	}
	return n
}
