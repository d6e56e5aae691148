package model

import (
	"time"
)

// StepResult captures the outcome of executing a single step within a job.
type StepResult struct {
	StepID   string
	Status   string
	Message  string
	Error    error
	Duration time.Duration
}

// NoFailedStep is the FailedStep value of an outcome whose steps all succeeded.
const NoFailedStep = -1

// JobOutcome is the write-once result of executing one job specification.
// It is created by the executor and consumed by the aggregator and the
// reporting layer; it is never mutated after creation.
type JobOutcome struct {
	JobID      string
	Values     map[string]string
	Tolerant   bool
	Status     string
	FailedStep int
	TimedOut   bool
	Steps      []StepResult
	Duration   time.Duration
}

// Failed reports whether the job reached the failed terminal state.
func (o JobOutcome) Failed() bool {
	return o.Status == StatusFailed
}

// RunResult aggregates every job outcome of one triggered run.
type RunResult struct {
	Overall  string
	Outcomes []JobOutcome
}

// Succeeded reports whether the run as a whole passed.
func (r RunResult) Succeeded() bool {
	return r.Overall == StatusSuccess
}
