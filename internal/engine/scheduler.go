package engine

import (
	"context"
	"fmt"
	"sync"

	"github.com/alexisbeaulieu97/gridrun/internal/matrix"
	"github.com/alexisbeaulieu97/gridrun/internal/model"
	griderrors "github.com/alexisbeaulieu97/gridrun/pkg/errors"
)

// Schedule dispatches every job to its own executor goroutine and waits
// for all of them to reach a terminal state. Scheduling is fail-open: a
// failing job never cancels or skips sibling jobs. Outcomes are returned
// in job declaration order, one write-once slot per job index.
func Schedule(rc *RunContext, jobs []matrix.JobSpec) ([]model.JobOutcome, error) {
	if rc == nil {
		return nil, griderrors.NewValidationError("run", "run context is nil", nil)
	}
	if len(jobs) == 0 {
		return nil, griderrors.NewValidationError("run", "no jobs to schedule", nil)
	}

	ctx := rc.Context
	if ctx == nil {
		ctx = context.Background()
	}

	runner := rc.Runner
	if runner == nil {
		runner = RunJob
	}

	outcomes := make([]model.JobOutcome, len(jobs))
	var wg sync.WaitGroup

	for i := range jobs {
		wg.Add(1)
		go func(slot int, job matrix.JobSpec) {
			defer wg.Done()

			if rc.WorkerPool != nil {
				rc.WorkerPool <- struct{}{}
				defer func() { <-rc.WorkerPool }()
			}

			if rc.Events.JobStarted != nil {
				rc.Events.JobStarted(job)
			}
			rc.Logger.WithField("job", job.ID).Info("job started")

			outcome := runner(ctx, rc, job)
			outcomes[slot] = outcome

			rc.Logger.WithFields(map[string]any{
				"job":      job.ID,
				"status":   outcome.Status,
				"duration": outcome.Duration.String(),
			}).Info("job finished")
			if rc.Events.JobFinished != nil {
				rc.Events.JobFinished(outcome)
			}
		}(i, jobs[i])
	}

	wg.Wait()

	for i := range outcomes {
		if !model.IsTerminal(outcomes[i].Status) {
			return outcomes, griderrors.NewValidationError("run", fmt.Sprintf("job %q never reached a terminal state", jobs[i].ID), nil)
		}
	}

	return outcomes, nil
}
