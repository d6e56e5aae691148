package errors

import (
	"fmt"
)

// ParseError represents a YAML parsing failure with optional line metadata.
type ParseError struct {
	Path    string
	Line    int
	Message string
	Err     error
}

// NewParseError constructs a ParseError.
func NewParseError(path string, line int, err error) error {
	message := ""
	if err != nil {
		message = err.Error()
	}
	return &ParseError{Path: path, Line: line, Message: message, Err: err}
}

func (e *ParseError) Error() string {
	if e == nil {
		return ""
	}

	if e.Line > 0 {
		return fmt.Sprintf("parse error: %s:%d: %s", e.Path, e.Line, e.Message)
	}
	return fmt.Sprintf("parse error: %s: %s", e.Path, e.Message)
}

// Unwrap exposes the underlying error.
func (e *ParseError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// ValidationError captures configuration problems: malformed matrix or
// include declarations, unknown axes, unaccepted triggers. Always fatal
// before any job is dispatched.
type ValidationError struct {
	Field   string
	Message string
	Err     error
}

// NewValidationError constructs a ValidationError.
func NewValidationError(field, message string, err error) error {
	return &ValidationError{Field: field, Message: message, Err: err}
}

func (e *ValidationError) Error() string {
	if e == nil {
		return ""
	}
	if e.Field != "" {
		return fmt.Sprintf("validation error: %s: %s", e.Field, e.Message)
	}
	return fmt.Sprintf("validation error: %s", e.Message)
}

// Unwrap exposes the underlying error.
func (e *ValidationError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// ExecutionError represents a step failure inside one job. Environment
// failures (missing interpreter, spawn errors) use the same type: both
// terminate the owning job and never propagate to sibling jobs.
type ExecutionError struct {
	JobID  string
	StepID string
	Err    error
}

// NewExecutionError constructs an ExecutionError.
func NewExecutionError(jobID, stepID string, err error) error {
	return &ExecutionError{JobID: jobID, StepID: stepID, Err: err}
}

func (e *ExecutionError) Error() string {
	if e == nil {
		return ""
	}
	switch {
	case e.JobID != "" && e.StepID != "":
		return fmt.Sprintf("execution error: job %s step %s: %v", e.JobID, e.StepID, e.Err)
	case e.JobID != "":
		return fmt.Sprintf("execution error: job %s: %v", e.JobID, e.Err)
	default:
		return fmt.Sprintf("execution error: %v", e.Err)
	}
}

// Unwrap exposes the root error.
func (e *ExecutionError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}
