package steps

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/idp-platform/platformctl/internal/model"
	platformerrors "github.com/idp-platform/platformctl/pkg/errors"
)

// prerequisites verifies the required CLI tools and cluster connectivity.
func (b *builder) prerequisites(ctx context.Context, rc model.RunContext) model.StepResult {
	if rc.DryRun {
		return dryRun("would verify kubectl, helm and cluster access")
	}

	tools := map[string]any{}
	for _, tool := range []string{"kubectl", "helm"} {
		res, err := b.run(ctx, tool, "version", "--client")
		if err != nil {
			perr := platformerrors.NewPrerequisiteError(tool, "not found on PATH or not executable", err)
			return failed(perr, fmt.Sprintf("prerequisite check failed: %s", tool))
		}
		tools[tool] = firstLine(res.Stdout)
	}

	if _, err := b.run(ctx, "kubectl", "get", "nodes", "-o", "name"); err != nil {
		perr := platformerrors.NewPrerequisiteError("kubectl", "cluster is not reachable", err)
		return failed(perr, "prerequisite check failed: cluster access")
	}

	return model.StepResult{
		Status:  model.StatusCompleted,
		Message: "all prerequisites satisfied",
		Output:  tools,
	}
}

// infrastructure installs the service mesh and certificate management layer.
func (b *builder) infrastructure(ctx context.Context, rc model.RunContext) model.StepResult {
	if rc.DryRun {
		return dryRun("would install istio and cert-manager")
	}

	installed, existing := []string{}, []string{}
	for _, rel := range infrastructureReleases {
		existed, err := b.ensureRelease(ctx, rel)
		if err != nil {
			return failed(err, fmt.Sprintf("failed to install %s", rel.name))
		}
		if existed {
			existing = append(existing, rel.name)
		} else {
			installed = append(installed, rel.name)
		}
	}

	return model.StepResult{
		Status:  model.StatusCompleted,
		Message: releaseSummary(installed, existing),
		Output:  map[string]any{"installed": installed, "existing": existing},
	}
}

// authentication invokes the credential provider command. The command is
// opaque: its output is never inspected or logged, only its exit status
// matters.
func (b *builder) authentication(ctx context.Context, rc model.RunContext) model.StepResult {
	if rc.DryRun {
		if !b.deps.Config.Bootstrap.EnableAuth {
			return dryRun("authentication disabled in manifest")
		}
		return dryRun("would install keycloak and vault and run the credential provider")
	}
	if !b.deps.Config.Bootstrap.EnableAuth {
		return model.StepResult{
			Status:  model.StatusCompleted,
			Message: "authentication disabled in manifest",
		}
	}

	for _, rel := range authReleases {
		if _, err := b.ensureRelease(ctx, rel); err != nil {
			return failed(err, fmt.Sprintf("failed to install %s", rel.name))
		}
	}

	credCmd := b.deps.Config.Bootstrap.CredentialCmd
	if credCmd == "" {
		credCmd = "platform-credentials sync"
	}
	parts := strings.Fields(credCmd)

	if _, err := b.run(ctx, parts[0], parts[1:]...); err != nil {
		return failed(err, "credential provider failed")
	}

	return model.StepResult{
		Status:  model.StatusCompleted,
		Message: "credentials provisioned",
	}
}

// platformCore installs Argo CD and Crossplane, then points Argo CD at the
// gitops repository when one is configured.
func (b *builder) platformCore(ctx context.Context, rc model.RunContext) model.StepResult {
	if rc.DryRun {
		return dryRun("would install argocd and crossplane and sync the gitops repository")
	}

	installed, existing := []string{}, []string{}
	for _, rel := range platformCoreReleases {
		existed, err := b.ensureRelease(ctx, rel)
		if err != nil {
			return failed(err, fmt.Sprintf("failed to install %s", rel.name))
		}
		if existed {
			existing = append(existing, rel.name)
		} else {
			installed = append(installed, rel.name)
		}
	}

	output := map[string]any{"installed": installed, "existing": existing}

	repoURL := b.deps.Config.Bootstrap.GitOpsRepo
	if repoURL != "" && b.deps.Syncer != nil {
		state, err := b.deps.Syncer.Ensure(ctx, repoURL, b.deps.Config.Bootstrap.GitOpsDir)
		if err != nil {
			return failed(err, "gitops repository sync failed")
		}
		output["gitops_head"] = state.Head

		rootApp := filepath.Join(state.Path, "bootstrap", "root-app.yaml")
		if _, err := b.run(ctx, "kubectl", "apply", "-n", "argocd", "-f", rootApp); err != nil {
			return failed(err, "failed to apply the root application")
		}
	}

	return model.StepResult{
		Status:  model.StatusCompleted,
		Message: releaseSummary(installed, existing),
		Output:  output,
	}
}

// monitoring installs the observability stack. Non-critical: a failure here
// degrades the run but never aborts it.
func (b *builder) monitoring(ctx context.Context, rc model.RunContext) model.StepResult {
	if rc.DryRun {
		if !b.deps.Config.Bootstrap.EnableMonitoring {
			return dryRun("monitoring disabled in manifest")
		}
		return dryRun("would install kube-prometheus-stack")
	}
	if !b.deps.Config.Bootstrap.EnableMonitoring {
		return model.StepResult{
			Status:  model.StatusCompleted,
			Message: "monitoring disabled in manifest",
		}
	}

	existed, err := b.ensureRelease(ctx, monitoringRelease)
	if err != nil {
		return failed(err, "failed to install the monitoring stack")
	}
	if existed {
		return model.StepResult{Status: model.StatusCompleted, Message: "monitoring stack already present"}
	}
	return model.StepResult{Status: model.StatusCompleted, Message: "monitoring stack installed"}
}

// backstage installs the developer portal.
func (b *builder) backstage(ctx context.Context, rc model.RunContext) model.StepResult {
	if rc.DryRun {
		if b.deps.Config.Bootstrap.SkipBackstage {
			return dryRun("backstage skipped by manifest")
		}
		return dryRun("would install backstage")
	}
	if b.deps.Config.Bootstrap.SkipBackstage {
		return model.StepResult{
			Status:  model.StatusCompleted,
			Message: "backstage skipped by manifest",
		}
	}

	existed, err := b.ensureRelease(ctx, backstageRelease)
	if err != nil {
		return failed(err, "failed to install backstage")
	}
	if existed {
		return model.StepResult{Status: model.StatusCompleted, Message: "backstage already present"}
	}
	return model.StepResult{Status: model.StatusCompleted, Message: "backstage installed"}
}

// healthCheck runs a comprehensive platform probe and publishes the access
// URLs for everything that came up.
func (b *builder) healthCheck(ctx context.Context, rc model.RunContext) model.StepResult {
	report := b.deps.Health.Check(ctx, rc, true)

	urls := map[string]string{}
	for name, url := range report.URLs {
		urls[name] = url
	}
	for _, svc := range b.deps.Config.Services {
		local, _, found := strings.Cut(svc.PortMapping, ":")
		if found {
			urls[svc.Name] = fmt.Sprintf("http://localhost:%s", local)
		}
	}

	output := map[string]any{
		"score":          report.Score,
		"overall_status": report.OverallStatus,
		"urls":           urls,
	}

	switch report.OverallStatus {
	case model.HealthError:
		err := fmt.Errorf("health probes failed: %s", strings.Join(report.Errors, "; "))
		res := failed(err, "platform health could not be determined")
		res.Output = output
		return res
	case model.HealthUnhealthy:
		return model.StepResult{
			Status:  model.StatusWarning,
			Message: fmt.Sprintf("platform is unhealthy (score %d)", report.Score),
			Output:  output,
		}
	case model.HealthDryRun:
		res := dryRun("would probe platform health")
		res.Output = output
		return res
	}

	return model.StepResult{
		Status:  model.StatusCompleted,
		Message: fmt.Sprintf("platform is %s (score %d)", report.OverallStatus, report.Score),
		Output:  output,
	}
}

func dryRun(message string) model.StepResult {
	return model.StepResult{Status: model.StatusDryRun, Message: message}
}

func failed(err error, message string) model.StepResult {
	return model.StepResult{Status: model.StatusFailed, Err: err, Message: message}
}

func releaseSummary(installed, existing []string) string {
	switch {
	case len(installed) == 0 && len(existing) == 0:
		return "nothing to install"
	case len(installed) == 0:
		return fmt.Sprintf("already present: %s", strings.Join(existing, ", "))
	case len(existing) == 0:
		return fmt.Sprintf("installed: %s", strings.Join(installed, ", "))
	default:
		return fmt.Sprintf("installed: %s; already present: %s",
			strings.Join(installed, ", "), strings.Join(existing, ", "))
	}
}

func firstLine(s string) string {
	line, _, _ := strings.Cut(s, "\n")
	return strings.TrimSpace(line)
}
