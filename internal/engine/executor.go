package engine

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/alexisbeaulieu97/gridrun/internal/matrix"
	"github.com/alexisbeaulieu97/gridrun/internal/model"
	"github.com/alexisbeaulieu97/gridrun/internal/shellexec"
	griderrors "github.com/alexisbeaulieu97/gridrun/pkg/errors"
)

// RunJob executes a job specification's steps strictly in sequence on
// one execution context. The first step failure terminates the job:
// remaining steps are recorded as skipped, never executed. Step and
// environment failures are contained at the job boundary.
func RunJob(ctx context.Context, rc *RunContext, job matrix.JobSpec) model.JobOutcome {
	start := time.Now()

	jobCtx := ctx
	if rc.Timeout > 0 {
		var cancel context.CancelFunc
		jobCtx, cancel = context.WithTimeout(ctx, rc.Timeout)
		defer cancel()
	}

	log := rc.Logger.WithField("job", job.ID)

	outcome := model.JobOutcome{
		JobID:      job.ID,
		Values:     job.Values,
		Tolerant:   job.Tolerant,
		FailedStep: model.NoFailedStep,
		Steps:      make([]model.StepResult, 0, len(job.Steps)),
	}

	env := matrixEnviron(job.Values)

	for i, step := range job.Steps {
		if outcome.FailedStep != model.NoFailedStep {
			skipped := model.StepResult{
				StepID:  step.ID,
				Status:  model.StatusSkipped,
				Message: "not executed: earlier step failed",
			}
			outcome.Steps = append(outcome.Steps, skipped)
			notifyStep(rc, job, skipped)
			continue
		}

		result := runStep(jobCtx, rc, job, i, step, env)
		if result.Status == model.StatusFailed {
			outcome.FailedStep = i
			if errors.Is(jobCtx.Err(), context.DeadlineExceeded) {
				outcome.TimedOut = true
			}
			log.WithField("step", step.ID).Error(result.Error, "step failed")
		} else {
			log.WithField("step", step.ID).Debug("step completed")
		}

		outcome.Steps = append(outcome.Steps, result)
		notifyStep(rc, job, result)
	}

	if outcome.FailedStep == model.NoFailedStep {
		outcome.Status = model.StatusSuccess
	} else {
		outcome.Status = model.StatusFailed
	}
	outcome.Duration = time.Since(start)

	return outcome
}

func runStep(ctx context.Context, rc *RunContext, job matrix.JobSpec, index int, step matrix.StepSpec, jobEnv map[string]string) model.StepResult {
	stepStart := time.Now()

	env := make(map[string]string, len(jobEnv)+len(step.Env))
	for k, v := range jobEnv {
		env[k] = v
	}
	for k, v := range step.Env {
		env[k] = v
	}

	res, err := shellexec.Run(ctx, shellexec.Options{
		Command: step.Command,
		Shell:   step.Shell,
		WorkDir: step.WorkDir,
		Env:     env,
		Stdout:  rc.Stdout,
		Stderr:  rc.Stderr,
	})

	result := model.StepResult{
		StepID:   step.ID,
		Duration: time.Since(stepStart),
	}

	if err != nil {
		result.Status = model.StatusFailed
		result.Error = griderrors.NewExecutionError(job.ID, step.ID, err)
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			result.Message = "timeout exceeded"
		} else if output := shellexec.PrimaryOutput(res); output != "" {
			result.Message = output
		} else {
			result.Message = err.Error()
		}
		return result
	}

	result.Status = model.StatusSuccess
	result.Message = fmt.Sprintf("exit 0 in %s", result.Duration.Truncate(10*time.Millisecond))
	return result
}

func notifyStep(rc *RunContext, job matrix.JobSpec, result model.StepResult) {
	if rc.Events.StepDone != nil {
		rc.Events.StepDone(job, result)
	}
}

// matrixEnviron exposes each axis value to the job's steps as a
// MATRIX_<AXIS> environment variable.
func matrixEnviron(values map[string]string) map[string]string {
	env := make(map[string]string, len(values))
	for name, value := range values {
		env["MATRIX_"+strings.ToUpper(name)] = value
	}
	return env
}
