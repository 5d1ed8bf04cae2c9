package health

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/idp-platform/platformctl/internal/cmdexec"
	"github.com/idp-platform/platformctl/internal/config"
	"github.com/idp-platform/platformctl/internal/model"
	platformerrors "github.com/idp-platform/platformctl/pkg/errors"
)

// Sub-check weights. They sum to 100 when every check passes; a
// non-comprehensive probe skips the endpoint check and rescales.
const (
	weightNamespace = 25
	weightWorkload  = 50
	weightEndpoint  = 25
)

// Prober scores a single component. Returning an error means the probe could
// not run at all (cluster unreachable), which is distinct from a probe that
// ran and found the component absent or degraded.
type Prober interface {
	Probe(ctx context.Context, spec config.ComponentSpec, comprehensive bool) (model.ComponentHealth, error)
}

// KubeProber inspects components through the control-plane command runner.
type KubeProber struct {
	runner cmdexec.Runner
}

// NewKubeProber creates a KubeProber over the given runner.
func NewKubeProber(runner cmdexec.Runner) *KubeProber {
	return &KubeProber{runner: runner}
}

var _ Prober = (*KubeProber)(nil)

// Probe sums weighted partial credit for the component's sub-checks:
// namespace exists, workload instances ready (proportional credit), and,
// when comprehensive, the service endpoint has addresses.
func (p *KubeProber) Probe(ctx context.Context, spec config.ComponentSpec, comprehensive bool) (model.ComponentHealth, error) {
	health := model.ComponentHealth{Name: spec.Name, Enabled: spec.Enabled}

	installed, err := p.namespaceExists(ctx, spec)
	if err != nil {
		return health, err
	}
	if !installed {
		health.Status = model.HealthNotInstalled
		health.Detail = fmt.Sprintf("namespace %s not found", spec.Namespace)
		return health, nil
	}

	score := weightNamespace
	maxScore := weightNamespace

	if spec.Workload != "" {
		ready, total, err := p.workloadReady(ctx, spec)
		if err != nil {
			return health, err
		}
		health.PodsReady = ready
		health.PodsTotal = total
		if total > 0 {
			score += int(math.Round(float64(weightWorkload) * float64(ready) / float64(total)))
		}
		maxScore += weightWorkload
	}

	if comprehensive && spec.Service != "" {
		reachable, err := p.endpointExists(ctx, spec)
		if err != nil {
			return health, err
		}
		if reachable {
			score += weightEndpoint
		}
		maxScore += weightEndpoint
	}

	health.Score = rescale(score, maxScore)
	health.Status = model.TierForScore(health.Score)
	return health, nil
}

// rescale normalizes a partial-weight score back onto [0,100] so skipping
// the endpoint check does not cap a healthy component at 75.
func rescale(score, maxScore int) int {
	if maxScore <= 0 {
		return 0
	}
	return int(math.Round(float64(score) / float64(maxScore) * 100))
}

func (p *KubeProber) namespaceExists(ctx context.Context, spec config.ComponentSpec) (bool, error) {
	_, err := p.runner.Run(ctx, cmdexec.Command{
		Name: "kubectl",
		Args: []string{"get", "namespace", spec.Namespace, "-o", "name"},
	})
	if err == nil {
		return true, nil
	}
	if isNotFound(err) {
		return false, nil
	}
	return false, platformerrors.NewProbeError(spec.Name, err)
}

func (p *KubeProber) workloadReady(ctx context.Context, spec config.ComponentSpec) (ready, total int, err error) {
	res, err := p.runner.Run(ctx, cmdexec.Command{
		Name: "kubectl",
		Args: []string{
			"get", spec.Workload, "-n", spec.Namespace,
			"-o", "jsonpath={.status.readyReplicas} {.status.replicas}",
		},
	})
	if err != nil {
		if isNotFound(err) {
			return 0, 0, nil
		}
		return 0, 0, platformerrors.NewProbeError(spec.Name, err)
	}

	ready, total = parseReplicaCounts(res.Stdout)
	return ready, total, nil
}

func (p *KubeProber) endpointExists(ctx context.Context, spec config.ComponentSpec) (bool, error) {
	res, err := p.runner.Run(ctx, cmdexec.Command{
		Name: "kubectl",
		Args: []string{
			"get", "endpoints", spec.Service, "-n", spec.Namespace,
			"-o", "jsonpath={.subsets[*].addresses[*].ip}",
		},
	})
	if err != nil {
		if isNotFound(err) {
			return false, nil
		}
		return false, platformerrors.NewProbeError(spec.Name, err)
	}
	return strings.TrimSpace(res.Stdout) != "", nil
}

// parseReplicaCounts reads "ready total" from kubectl jsonpath output.
// jsonpath omits readyReplicas entirely when zero, so the positions matter:
// a scaled-down workload produces " 3", not "3".
func parseReplicaCounts(out string) (ready, total int) {
	parts := strings.SplitN(strings.TrimRight(out, "\n"), " ", 2)
	ready, _ = strconv.Atoi(strings.TrimSpace(parts[0]))
	if len(parts) == 2 {
		total, _ = strconv.Atoi(strings.TrimSpace(parts[1]))
	}
	return ready, total
}

func isNotFound(err error) bool {
	var execErr *platformerrors.ExecutionError
	if errors.As(err, &execErr) {
		return strings.Contains(execErr.Stderr, "NotFound") ||
			strings.Contains(execErr.Stderr, "not found")
	}
	return false
}
