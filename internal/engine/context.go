package engine

import (
	"context"
	"io"
	"time"

	"github.com/alexisbeaulieu97/gridrun/internal/logger"
	"github.com/alexisbeaulieu97/gridrun/internal/matrix"
	"github.com/alexisbeaulieu97/gridrun/internal/model"
)

// Events carries optional scheduler notifications. Callbacks may be
// invoked concurrently from multiple job goroutines.
type Events struct {
	JobStarted  func(job matrix.JobSpec)
	StepDone    func(job matrix.JobSpec, result model.StepResult)
	JobFinished func(outcome model.JobOutcome)
}

// JobRunner executes one job specification and produces its outcome.
type JobRunner func(ctx context.Context, rc *RunContext, job matrix.JobSpec) model.JobOutcome

// RunContext contains runtime state shared across scheduler workers.
// Jobs own their execution contexts exclusively; the only shared state
// here is read-only configuration plus the write-once outcome slots the
// scheduler manages itself.
type RunContext struct {
	Context context.Context
	Logger  *logger.Logger

	// WorkerPool bounds simultaneous jobs when non-nil.
	WorkerPool chan struct{}

	// Timeout is the per-job limit; zero disables it.
	Timeout time.Duration

	// Stdout/Stderr receive live step output when set.
	Stdout io.Writer
	Stderr io.Writer

	Events Events

	// Runner defaults to RunJob; tests substitute lightweight runners.
	Runner JobRunner
}
