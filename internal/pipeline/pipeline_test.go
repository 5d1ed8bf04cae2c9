package pipeline

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/idp-platform/platformctl/internal/model"
)

var stageNames = []string{
	"prerequisites", "infrastructure", "authentication",
	"platform-core", "monitoring", "backstage", "health-check",
}

// fakeSteps builds a seven-stage pipeline whose handlers succeed unless the
// step name appears in failures. Executed names are recorded in order.
func fakeSteps(executed *[]string, failures map[string]bool) []Step {
	var steps []Step
	for _, name := range stageNames {
		name := name
		critical := name == "prerequisites" || name == "infrastructure" ||
			name == "authentication" || name == "platform-core"

		steps = append(steps, Step{
			Name:     name,
			Critical: critical,
			Run: func(ctx context.Context, rc model.RunContext) model.StepResult {
				*executed = append(*executed, name)

				if rc.DryRun {
					return model.StepResult{Name: name, Status: model.StatusDryRun}
				}
				if failures[name] {
					return model.StepResult{
						Name:   name,
						Status: model.StatusFailed,
						Err:    errors.New(name + " blew up"),
					}
				}

				res := model.StepResult{Name: name, Status: model.StatusCompleted}
				if name == "health-check" {
					res.Output = map[string]any{
						"urls": map[string]string{"argocd": "https://argocd.example.com"},
					}
				}
				return res
			},
		})
	}
	return steps
}

func newPipeline(t *testing.T) *Pipeline {
	t.Helper()
	return New(nil)
}

func TestRunAllStepsSucceed(t *testing.T) {
	t.Parallel()

	var executed []string
	rc := model.NewRunContext(model.EnvDevelopment, false)

	result := newPipeline(t).Run(context.Background(), rc, fakeSteps(&executed, nil))

	require.Equal(t, model.BootstrapCompleted, result.Status)
	require.Len(t, result.Steps, 7)
	require.Equal(t, stageNames, executed)
	require.NotEmpty(t, result.URLs)
	require.Equal(t, "https://argocd.example.com", result.URLs["argocd"])
	require.True(t, result.Succeeded())
	require.False(t, result.EndTime.IsZero())

	for i, step := range result.Steps {
		require.Equal(t, stageNames[i], step.Name, "results keep execution order")
	}
}

func TestRunNonCriticalFailureContinues(t *testing.T) {
	t.Parallel()

	var executed []string
	rc := model.NewRunContext(model.EnvDevelopment, false)

	result := newPipeline(t).Run(context.Background(), rc,
		fakeSteps(&executed, map[string]bool{"monitoring": true}))

	require.Equal(t, model.BootstrapCompletedWithWarnings, result.Status)
	require.Len(t, result.Steps, 7)
	require.Contains(t, executed, "backstage", "steps after the failure still run")
	require.Contains(t, executed, "health-check")
	require.Equal(t, []string{"monitoring"}, result.FailedSteps())
	require.True(t, result.Succeeded())
}

func TestRunCriticalFailureAborts(t *testing.T) {
	t.Parallel()

	var executed []string
	rc := model.NewRunContext(model.EnvDevelopment, false)

	result := newPipeline(t).Run(context.Background(), rc,
		fakeSteps(&executed, map[string]bool{"infrastructure": true}))

	require.Equal(t, model.BootstrapFailed, result.Status)
	require.Len(t, result.Steps, 2, "no results appear for steps after the abort")
	require.Equal(t, []string{"prerequisites", "infrastructure"}, executed)
	require.Contains(t, result.Error, "infrastructure")
	require.False(t, result.Succeeded())
}

func TestRunDryRunVisitsEverythingWithoutAborting(t *testing.T) {
	t.Parallel()

	var executed []string
	rc := model.NewRunContext(model.EnvDevelopment, true)

	result := newPipeline(t).Run(context.Background(), rc,
		fakeSteps(&executed, map[string]bool{"infrastructure": true}))

	require.NotEqual(t, model.BootstrapFailed, result.Status)
	require.Len(t, result.Steps, 7)
	for _, step := range result.Steps {
		require.Equal(t, model.StatusDryRun, step.Status)
	}
}

func TestRunCancelledContextStopsPipeline(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var executed []string
	rc := model.NewRunContext(model.EnvDevelopment, false)

	result := newPipeline(t).Run(ctx, rc, fakeSteps(&executed, nil))

	require.Equal(t, model.BootstrapFailed, result.Status)
	require.Empty(t, executed)
}

func TestRunInvokesHooksInOrder(t *testing.T) {
	t.Parallel()

	var started, completed []string
	p := newPipeline(t)
	p.OnStepStart = func(name string) { started = append(started, name) }
	p.OnStepComplete = func(res model.StepResult) { completed = append(completed, res.Name) }

	var executed []string
	rc := model.NewRunContext(model.EnvDevelopment, false)
	p.Run(context.Background(), rc, fakeSteps(&executed, nil))

	require.Equal(t, stageNames, started)
	require.Equal(t, stageNames, completed)
}

func TestRunNormalizesSparseResults(t *testing.T) {
	t.Parallel()

	steps := []Step{{
		Name: "bare",
		Run: func(ctx context.Context, rc model.RunContext) model.StepResult {
			return model.StepResult{}
		},
	}}

	rc := model.NewRunContext(model.EnvDevelopment, false)
	result := newPipeline(t).Run(context.Background(), rc, steps)

	require.Equal(t, "bare", result.Steps[0].Name)
	require.Equal(t, model.StatusCompleted, result.Steps[0].Status)
	require.False(t, result.Steps[0].Timestamp.IsZero())
}

func TestValidateRejectsBadStepLists(t *testing.T) {
	t.Parallel()

	noop := func(ctx context.Context, rc model.RunContext) model.StepResult {
		return model.StepResult{}
	}

	require.Error(t, Validate(nil))
	require.Error(t, Validate([]Step{{Name: "", Run: noop}}))
	require.Error(t, Validate([]Step{{Name: "a", Run: nil}}))
	require.Error(t, Validate([]Step{{Name: "a", Run: noop}, {Name: "a", Run: noop}}))
	require.NoError(t, Validate([]Step{{Name: "a", Run: noop}, {Name: "b", Run: noop}}))
}

func TestRunIdempotentSecondPass(t *testing.T) {
	t.Parallel()

	// Handlers that detect "already exists" report success, so a second run
	// over a bootstrapped platform completes cleanly.
	alreadyBootstrapped := func(name string) Step {
		return Step{
			Name:     name,
			Critical: true,
			Run: func(ctx context.Context, rc model.RunContext) model.StepResult {
				return model.StepResult{
					Name:    name,
					Status:  model.StatusCompleted,
					Message: "already present",
				}
			},
		}
	}

	steps := []Step{alreadyBootstrapped("infrastructure"), alreadyBootstrapped("platform-core")}
	rc := model.NewRunContext(model.EnvDevelopment, false)
	p := newPipeline(t)

	for i := 0; i < 2; i++ {
		result := p.Run(context.Background(), rc, steps)
		require.Equal(t, model.BootstrapCompleted, result.Status)
		require.Empty(t, result.FailedSteps())
	}
}
