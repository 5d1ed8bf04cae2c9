// Package steps provides the bootstrap step handlers. Every handler is
// idempotent: re-running against an already-bootstrapped platform detects
// "already exists" and reports success.
package steps

import (
	"context"
	"time"

	"github.com/idp-platform/platformctl/internal/cmdexec"
	"github.com/idp-platform/platformctl/internal/config"
	"github.com/idp-platform/platformctl/internal/gitops"
	"github.com/idp-platform/platformctl/internal/health"
	"github.com/idp-platform/platformctl/internal/logger"
	"github.com/idp-platform/platformctl/internal/pipeline"
)

// Deps carries the collaborators shared by every step handler.
type Deps struct {
	Config *config.Config
	Runner cmdexec.Runner
	Syncer *gitops.Syncer
	Health *health.Aggregator
	Log    *logger.Logger

	// Async issues installs without waiting for workloads to converge.
	Async bool
}

// ForBootstrap builds the seven-stage pipeline in dependency order:
// prerequisites, infrastructure, authentication, platform-core, monitoring,
// backstage, health-check. Position in the list is the only ordering
// mechanism, so the list itself is the dependency declaration.
func ForBootstrap(deps Deps) []pipeline.Step {
	b := &builder{deps: deps}
	return []pipeline.Step{
		{Name: "prerequisites", Critical: true, Run: b.prerequisites},
		{Name: "infrastructure", Critical: true, Run: b.infrastructure},
		{Name: "authentication", Critical: true, Run: b.authentication},
		{Name: "platform-core", Critical: true, Run: b.platformCore},
		{Name: "monitoring", Critical: false, Run: b.monitoring},
		{Name: "backstage", Critical: false, Run: b.backstage},
		{Name: "health-check", Critical: false, Run: b.healthCheck},
	}
}

type builder struct {
	deps Deps
}

func (b *builder) timeout() time.Duration {
	seconds := b.deps.Config.Settings.CommandTimeout
	if seconds <= 0 {
		seconds = 120
	}
	return time.Duration(seconds) * time.Second
}

func (b *builder) run(ctx context.Context, name string, args ...string) (*cmdexec.Result, error) {
	return b.deps.Runner.Run(ctx, cmdexec.Command{
		Name:    name,
		Args:    args,
		Timeout: b.timeout(),
	})
}

// helmRelease pins one chart installation.
type helmRelease struct {
	name      string
	chart     string
	repo      string
	namespace string
	extraArgs []string
}

var (
	infrastructureReleases = []helmRelease{
		{name: "istio-base", chart: "base", repo: "https://istio-release.storage.googleapis.com/charts", namespace: "istio-system"},
		{name: "istiod", chart: "istiod", repo: "https://istio-release.storage.googleapis.com/charts", namespace: "istio-system"},
		{name: "cert-manager", chart: "cert-manager", repo: "https://charts.jetstack.io", namespace: "cert-manager",
			extraArgs: []string{"--set", "installCRDs=true"}},
	}

	authReleases = []helmRelease{
		{name: "keycloak", chart: "keycloak", repo: "https://charts.bitnami.com/bitnami", namespace: "keycloak"},
		{name: "vault", chart: "vault", repo: "https://helm.releases.hashicorp.com", namespace: "vault"},
	}

	platformCoreReleases = []helmRelease{
		{name: "argocd", chart: "argo-cd", repo: "https://argoproj.github.io/argo-helm", namespace: "argocd"},
		{name: "crossplane", chart: "crossplane", repo: "https://charts.crossplane.io/stable", namespace: "crossplane-system"},
	}

	monitoringRelease = helmRelease{
		name: "kube-prometheus-stack", chart: "kube-prometheus-stack",
		repo: "https://prometheus-community.github.io/helm-charts", namespace: "monitoring",
	}

	backstageRelease = helmRelease{
		name: "backstage", chart: "backstage",
		repo: "https://backstage.github.io/charts", namespace: "backstage",
	}
)

// ensureRelease installs the chart unless the release is already deployed.
// Returns true when it already existed.
func (b *builder) ensureRelease(ctx context.Context, rel helmRelease) (existed bool, err error) {
	if _, err := b.run(ctx, "helm", "status", rel.name, "-n", rel.namespace); err == nil {
		b.deps.Log.WithFields(map[string]any{"release": rel.name}).Debug("release already deployed")
		return true, nil
	}
	b.deps.Log.WithFields(map[string]any{"release": rel.name, "namespace": rel.namespace}).Info("installing release")

	args := []string{
		"upgrade", "--install", rel.name, rel.chart,
		"--repo", rel.repo,
		"-n", rel.namespace, "--create-namespace",
	}
	if !b.deps.Async {
		args = append(args, "--wait")
	}
	args = append(args, rel.extraArgs...)

	if _, err := b.run(ctx, "helm", args...); err != nil {
		return false, err
	}
	return false, nil
}
