package model

import (
	"fmt"
	"time"
)

const (
	// BootstrapRunning indicates the pipeline is still executing steps.
	BootstrapRunning = "running"
	// BootstrapCompleted indicates every step succeeded.
	BootstrapCompleted = "completed"
	// BootstrapCompletedWithWarnings indicates optional steps failed but the
	// platform is minimally usable.
	BootstrapCompletedWithWarnings = "completed_with_warnings"
	// BootstrapFailed indicates a critical step aborted the pipeline.
	BootstrapFailed = "failed"
)

// BootstrapResult aggregates the outcome of one pipeline run. The driving
// loop owns it exclusively: StepResults are appended in execution order and
// the final status is resolved once, after the loop ends.
type BootstrapResult struct {
	JobID     string            `json:"job_id"`
	Status    string            `json:"status"`
	Steps     []StepResult      `json:"steps"`
	URLs      map[string]string `json:"urls,omitempty"`
	Error     string            `json:"error,omitempty"`
	StartTime time.Time         `json:"start_time"`
	EndTime   time.Time         `json:"end_time"`
	Duration  time.Duration     `json:"duration"`
}

// Succeeded reports whether the run ended in a usable platform.
func (r BootstrapResult) Succeeded() bool {
	return r.Status == BootstrapCompleted || r.Status == BootstrapCompletedWithWarnings
}

// FailedSteps lists the names of steps that ended in failure.
func (r BootstrapResult) FailedSteps() []string {
	var names []string
	for _, step := range r.Steps {
		if step.Status == StatusFailed {
			names = append(names, step.Name)
		}
	}
	return names
}

// Warnings lists the names of steps that degraded but did not abort the run.
func (r BootstrapResult) Warnings() []string {
	var names []string
	for _, step := range r.Steps {
		if step.Status == StatusWarning {
			names = append(names, step.Name)
		}
	}
	return names
}

// Summary renders a one-line human-readable outcome.
func (r BootstrapResult) Summary() string {
	switch r.Status {
	case BootstrapCompleted:
		return fmt.Sprintf("bootstrap completed: %d steps in %s", len(r.Steps), r.Duration.Truncate(time.Millisecond))
	case BootstrapCompletedWithWarnings:
		return fmt.Sprintf("bootstrap completed with warnings (%d): %d steps in %s",
			len(r.Warnings()), len(r.Steps), r.Duration.Truncate(time.Millisecond))
	case BootstrapFailed:
		return fmt.Sprintf("bootstrap failed after %d steps: %s", len(r.Steps), r.Error)
	default:
		return "bootstrap " + r.Status
	}
}
