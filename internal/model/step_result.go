package model

import (
	"time"
)

const (
	// StatusCompleted marks a successful step execution.
	StatusCompleted = "completed"
	// StatusFailed marks a failure during step execution.
	StatusFailed = "failed"
	// StatusWarning marks a non-critical step failure the pipeline tolerated.
	StatusWarning = "warning"
	// StatusDryRun indicates the step was simulated without external mutation.
	StatusDryRun = "dry-run"
)

// StepResult captures the outcome of executing a single bootstrap step.
// Instances are created once per execution and never mutated afterwards.
type StepResult struct {
	Name      string         `json:"name"`
	Status    string         `json:"status"`
	Message   string         `json:"message,omitempty"`
	Output    map[string]any `json:"output,omitempty"`
	Err       error          `json:"-"`
	Duration  time.Duration  `json:"duration"`
	Timestamp time.Time      `json:"timestamp"`
}

// Failed reports whether the step ended in failure.
func (r StepResult) Failed() bool {
	return r.Status == StatusFailed
}
