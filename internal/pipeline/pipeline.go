// Package pipeline drives an ordered list of idempotent bootstrap steps.
// Dependency order is encoded purely by list position; critical failures
// abort, optional failures degrade.
package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/idp-platform/platformctl/internal/logger"
	"github.com/idp-platform/platformctl/internal/model"
)

// HandlerFunc executes one step. Handlers catch their own failures and
// report them through the StepResult; they must not panic except on
// programming errors.
type HandlerFunc func(ctx context.Context, rc model.RunContext) model.StepResult

// Step is a named, idempotent unit of bootstrap work.
type Step struct {
	Name     string
	Critical bool
	Run      HandlerFunc
}

// Pipeline sequences steps and owns the result accumulator. Steps run
// strictly sequentially because later stages depend on resources created by
// earlier ones.
type Pipeline struct {
	log *logger.Logger

	// OnStepStart and OnStepComplete, when set, feed progress displays.
	OnStepStart    func(name string)
	OnStepComplete func(result model.StepResult)
}

// New creates a Pipeline.
func New(log *logger.Logger) *Pipeline {
	return &Pipeline{log: log}
}

// Run executes the steps in declared order and returns the frozen result.
// Under dry run every step is still visited, so misconfiguration surfaces,
// but a step failure never aborts: no external mutation happened that needs
// gating.
func (p *Pipeline) Run(ctx context.Context, rc model.RunContext, steps []Step) model.BootstrapResult {
	result := model.BootstrapResult{
		JobID:     rc.JobID,
		Status:    model.BootstrapRunning,
		StartTime: time.Now(),
		URLs:      make(map[string]string),
	}

	log := p.log.WithFields(map[string]any{"job_id": rc.JobID, "dry_run": rc.DryRun})

	aborted := false
	for _, step := range steps {
		if err := ctx.Err(); err != nil {
			result.Error = err.Error()
			aborted = true
			break
		}

		if p.OnStepStart != nil {
			p.OnStepStart(step.Name)
		}
		log.WithFields(map[string]any{"step": step.Name}).Info("step started")

		stepResult := p.runStep(ctx, rc, step)
		result.Steps = append(result.Steps, stepResult)

		if p.OnStepComplete != nil {
			p.OnStepComplete(stepResult)
		}

		for name, url := range urlsFromOutput(stepResult.Output) {
			result.URLs[name] = url
		}

		if stepResult.Status != model.StatusFailed {
			continue
		}

		if step.Critical && !rc.DryRun {
			result.Error = stepResult.Message
			log.WithFields(map[string]any{"step": step.Name}).Error(stepResult.Err, "critical step failed, aborting")
			aborted = true
			break
		}

		log.WithFields(map[string]any{"step": step.Name}).Warn("optional step failed, continuing")
	}

	if aborted {
		result.Status = model.BootstrapFailed
	} else {
		result.Status = resolveStatus(result.Steps)
	}

	result.EndTime = time.Now()
	result.Duration = result.EndTime.Sub(result.StartTime)
	return result
}

// runStep invokes the handler and normalizes the result so accumulated
// entries always carry a name, status and timestamp.
func (p *Pipeline) runStep(ctx context.Context, rc model.RunContext, step Step) model.StepResult {
	start := time.Now()
	res := step.Run(ctx, rc)

	if res.Name == "" {
		res.Name = step.Name
	}
	if res.Status == "" {
		if rc.DryRun {
			res.Status = model.StatusDryRun
		} else {
			res.Status = model.StatusCompleted
		}
	}
	if res.Duration == 0 {
		res.Duration = time.Since(start)
	}
	if res.Timestamp.IsZero() {
		res.Timestamp = time.Now()
	}
	if res.Status == model.StatusFailed && res.Message == "" && res.Err != nil {
		res.Message = res.Err.Error()
	}
	return res
}

func resolveStatus(steps []model.StepResult) string {
	for _, step := range steps {
		if step.Status == model.StatusFailed || step.Status == model.StatusWarning {
			return model.BootstrapCompletedWithWarnings
		}
	}
	return model.BootstrapCompleted
}

func urlsFromOutput(output map[string]any) map[string]string {
	if output == nil {
		return nil
	}

	collected := make(map[string]string)
	switch urls := output["urls"].(type) {
	case map[string]string:
		for name, url := range urls {
			collected[name] = url
		}
	case map[string]any:
		for name, raw := range urls {
			if url, ok := raw.(string); ok {
				collected[name] = url
			}
		}
	}
	if len(collected) == 0 {
		return nil
	}
	return collected
}

// Validate rejects step lists that violate the pipeline contract before any
// handler runs: empty lists, duplicate names, nil handlers.
func Validate(steps []Step) error {
	if len(steps) == 0 {
		return fmt.Errorf("pipeline requires at least one step")
	}

	seen := make(map[string]struct{}, len(steps))
	for i, step := range steps {
		if step.Name == "" {
			return fmt.Errorf("step %d has no name", i)
		}
		if step.Run == nil {
			return fmt.Errorf("step %q has no handler", step.Name)
		}
		if _, dup := seen[step.Name]; dup {
			return fmt.Errorf("duplicate step %q", step.Name)
		}
		seen[step.Name] = struct{}{}
	}
	return nil
}
