package engine

import (
	"github.com/alexisbeaulieu97/gridrun/internal/model"
)

// Aggregate folds the complete set of job outcomes into the run result.
// The run fails iff at least one non-tolerant job failed; tolerant job
// failures never flip the overall status. The fold is order-independent.
func Aggregate(outcomes []model.JobOutcome) model.RunResult {
	overall := model.StatusSuccess
	for _, outcome := range outcomes {
		if outcome.Failed() && !outcome.Tolerant {
			overall = model.StatusFailed
		}
	}

	return model.RunResult{
		Overall:  overall,
		Outcomes: append([]model.JobOutcome(nil), outcomes...),
	}
}
