package errors

import (
	"fmt"
	"time"
)

// ParseError represents a platform manifest parsing failure with optional line metadata.
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

// ValidationError captures configuration validation issues.
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

// ExecutionError represents a runtime failure of an external control-plane
// command or a bootstrap step.
type ExecutionError struct {
	Step   string
	Stderr string
	Err    error
}

// NewExecutionError constructs an ExecutionError.
func NewExecutionError(step string, err error) error {
	return &ExecutionError{Step: step, Err: err}
}

// NewCommandError constructs an ExecutionError carrying captured stderr.
func NewCommandError(step, stderr string, err error) error {
	return &ExecutionError{Step: step, Stderr: stderr, Err: err}
}

func (e *ExecutionError) Error() string {
	if e == nil {
		return ""
	}
	if e.Step != "" {
		if e.Stderr != "" {
			return fmt.Sprintf("execution error on %s: %v: %s", e.Step, e.Err, e.Stderr)
		}
		return fmt.Sprintf("execution error on %s: %v", e.Step, e.Err)
	}
	return fmt.Sprintf("execution error: %v", e.Err)
}

// Unwrap exposes the root error.
func (e *ExecutionError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// TimeoutError indicates a control-plane command exceeded its deadline.
type TimeoutError struct {
	Command string
	Timeout time.Duration
	Err     error
}

// NewTimeoutError constructs a TimeoutError.
func NewTimeoutError(command string, timeout time.Duration, err error) error {
	return &TimeoutError{Command: command, Timeout: timeout, Err: err}
}

func (e *TimeoutError) Error() string {
	if e == nil {
		return ""
	}
	return fmt.Sprintf("timeout after %s: %s", e.Timeout, e.Command)
}

// Unwrap exposes the underlying error.
func (e *TimeoutError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// PrerequisiteError reports missing required tooling or cluster access.
// A prerequisite failure always aborts a bootstrap run.
type PrerequisiteError struct {
	Tool    string
	Message string
	Err     error
}

// NewPrerequisiteError constructs a PrerequisiteError.
func NewPrerequisiteError(tool, message string, err error) error {
	return &PrerequisiteError{Tool: tool, Message: message, Err: err}
}

func (e *PrerequisiteError) Error() string {
	if e == nil {
		return ""
	}
	if e.Tool != "" {
		return fmt.Sprintf("prerequisite missing: %s: %s", e.Tool, e.Message)
	}
	return fmt.Sprintf("prerequisite missing: %s", e.Message)
}

// Unwrap exposes the underlying error.
func (e *PrerequisiteError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// ProbeError indicates a health probe could not run at all, as opposed to a
// probe that ran and found the component degraded.
type ProbeError struct {
	Component string
	Err       error
}

// NewProbeError constructs a ProbeError for the given component.
func NewProbeError(component string, err error) error {
	return &ProbeError{Component: component, Err: err}
}

func (e *ProbeError) Error() string {
	if e == nil {
		return ""
	}
	if e.Component != "" {
		return fmt.Sprintf("probe error [%s]: %v", e.Component, e.Err)
	}
	return fmt.Sprintf("probe error: %v", e.Err)
}

// Unwrap exposes the underlying error.
func (e *ProbeError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// UnsupportedOperationError reports an operation verb the controller does not know.
type UnsupportedOperationError struct {
	Operation string
}

// NewUnsupportedOperationError constructs an UnsupportedOperationError.
func NewUnsupportedOperationError(operation string) error {
	return &UnsupportedOperationError{Operation: operation}
}

func (e *UnsupportedOperationError) Error() string {
	if e == nil {
		return ""
	}
	return fmt.Sprintf("unsupported operation: %q", e.Operation)
}
