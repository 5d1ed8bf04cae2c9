package model

import (
	"fmt"
	"time"
)

// Per-service action outcomes reported by the operations controller.
const (
	// ActionDone indicates the command for the service was issued and, unless
	// the operation ran async, converged.
	ActionDone = "done"
	// ActionSkippedPending indicates the service is declared but not yet
	// deployed, so the action was a no-op.
	ActionSkippedPending = "skipped-pending"
	// ActionSkippedRunning indicates a start against a service that was
	// already running.
	ActionSkippedRunning = "skipped-running"
	// ActionFailed indicates the underlying command failed.
	ActionFailed = "failed"
	// ActionDryRun indicates the action was simulated.
	ActionDryRun = "dry-run"
)

// ServiceActionResult records what happened to one service during an operation.
type ServiceActionResult struct {
	Action string `json:"action"`
	Status string `json:"status"`
	Detail string `json:"detail,omitempty"`
}

// OperationResult is the machine-readable summary of one controller operation.
type OperationResult struct {
	Operation string                         `json:"operation"`
	Success   bool                           `json:"success"`
	Services  map[string]ServiceActionResult `json:"services,omitempty"`
	Health    *HealthReport                  `json:"health,omitempty"`
	Available []ServiceDescriptor            `json:"available,omitempty"`
	Pending   []ServiceDescriptor            `json:"pending,omitempty"`
	Failed    []string                       `json:"failed_steps,omitempty"`
	Warnings  []string                       `json:"warnings,omitempty"`
	Summary   string                         `json:"summary"`
	StartTime time.Time                      `json:"start_time"`
	Duration  time.Duration                  `json:"duration"`
}

// Finish stamps the duration and derives the summary line.
func (r *OperationResult) Finish() {
	r.Duration = time.Since(r.StartTime)
	if r.Summary != "" {
		return
	}
	if r.Success {
		r.Summary = fmt.Sprintf("%s completed in %s", r.Operation, r.Duration.Truncate(time.Millisecond))
		if len(r.Warnings) > 0 {
			r.Summary += fmt.Sprintf(" (%d warnings)", len(r.Warnings))
		}
		return
	}
	r.Summary = fmt.Sprintf("%s failed: %d services affected", r.Operation, len(r.Failed))
}
