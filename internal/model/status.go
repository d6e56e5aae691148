package model

const (
	// StatusPending indicates a job or step has not started yet.
	StatusPending = "pending"
	// StatusRunning indicates a job or step is actively executing.
	StatusRunning = "running"
	// StatusSuccess marks a successful execution.
	StatusSuccess = "success"
	// StatusSkipped marks a step never executed because an earlier step failed.
	StatusSkipped = "skipped"
	// StatusFailed marks a failure during execution.
	StatusFailed = "failed"
)

// IsTerminal reports whether a status is final. Terminal states never
// transition back to pending or running.
func IsTerminal(status string) bool {
	switch status {
	case StatusSuccess, StatusFailed, StatusSkipped:
		return true
	}
	return false
}
