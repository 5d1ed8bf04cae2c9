package health

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/idp-platform/platformctl/internal/config"
	"github.com/idp-platform/platformctl/internal/model"
	platformerrors "github.com/idp-platform/platformctl/pkg/errors"
)

// fakeProber replays scripted outcomes keyed by component name.
type fakeProber struct {
	scores map[string]int
	status map[string]string
	errs   map[string]error
	calls  atomic.Int64
}

func (f *fakeProber) Probe(ctx context.Context, spec config.ComponentSpec, comprehensive bool) (model.ComponentHealth, error) {
	f.calls.Add(1)

	if err := f.errs[spec.Name]; err != nil {
		return model.ComponentHealth{Name: spec.Name, Status: model.HealthUnhealthy}, err
	}

	score := f.scores[spec.Name]
	status := f.status[spec.Name]
	if status == "" {
		status = model.TierForScore(score)
	}
	return model.ComponentHealth{Name: spec.Name, Score: score, Status: status}, nil
}

func testConfig(names ...string) *config.Config {
	cfg := &config.Config{
		Version:     "1.0",
		Name:        "test",
		Environment: model.EnvDevelopment,
		Settings:    config.Settings{Parallel: 2},
	}
	for _, name := range names {
		cfg.Components = append(cfg.Components, config.ComponentSpec{
			Name: name, Namespace: name, Weight: 1, Enabled: true,
		})
	}
	return cfg
}

func runCheck(t *testing.T, cfg *config.Config, prober Prober) model.HealthReport {
	t.Helper()
	agg := New(cfg, prober, nil)
	rc := model.NewRunContext(model.EnvDevelopment, false)
	return agg.Check(context.Background(), rc, true)
}

func TestCheckAveragesEnabledComponents(t *testing.T) {
	t.Parallel()

	cfg := testConfig("a", "b", "c")
	prober := &fakeProber{
		scores: map[string]int{"a": 100, "b": 80, "c": 0},
		status: map[string]string{"c": model.HealthNotInstalled},
	}

	report := runCheck(t, cfg, prober)

	require.Equal(t, 60, report.Score, "round((100+80+0)/3)")
	require.Equal(t, model.HealthUnhealthy, report.OverallStatus)
	require.Len(t, report.Components, 3)
	require.Contains(t, report.Warnings, "c is not installed")
}

func TestCheckExcludesDisabledComponents(t *testing.T) {
	t.Parallel()

	cfg := testConfig("a", "b")
	cfg.Components[1].Enabled = false
	prober := &fakeProber{scores: map[string]int{"a": 100}}

	report := runCheck(t, cfg, prober)

	require.Equal(t, 100, report.Score, "disabled components are excluded, not zero")
	require.Equal(t, model.HealthHealthy, report.OverallStatus)
	require.Contains(t, report.Components, "b", "declared components always appear")
	require.False(t, report.Components["b"].Enabled)
	require.Equal(t, model.HealthDisabled, report.Components["b"].Status,
		"turned-off components are not reported as missing")
	require.Empty(t, report.Warnings, "disabled components never warn")
}

func TestCheckStatusTierBoundaries(t *testing.T) {
	t.Parallel()

	cases := []struct {
		score int
		tier  string
	}{
		{90, model.HealthHealthy},
		{89, model.HealthDegraded},
		{70, model.HealthDegraded},
		{69, model.HealthUnhealthy},
	}

	for _, tc := range cases {
		cfg := testConfig("solo")
		prober := &fakeProber{scores: map[string]int{"solo": tc.score}}

		report := runCheck(t, cfg, prober)
		require.Equal(t, tc.score, report.Score)
		require.Equal(t, tc.tier, report.OverallStatus, "score %d", tc.score)
	}
}

func TestCheckScoreMonotonicity(t *testing.T) {
	t.Parallel()

	cfg := testConfig("a", "b", "c")

	healthy := runCheck(t, cfg, &fakeProber{scores: map[string]int{"a": 100, "b": 100, "c": 100}})
	oneGone := runCheck(t, cfg, &fakeProber{
		scores: map[string]int{"a": 100, "b": 100, "c": 0},
		status: map[string]string{"c": model.HealthNotInstalled},
	})

	require.LessOrEqual(t, oneGone.Score, healthy.Score)
	require.Less(t, oneGone.Score, healthy.Score, "removing a healthy component must not raise the score")
}

func TestCheckProbeErrorForcesErrorStatus(t *testing.T) {
	t.Parallel()

	cfg := testConfig("a", "b")
	prober := &fakeProber{
		scores: map[string]int{"a": 100},
		errs:   map[string]error{"b": platformerrors.NewProbeError("b", errors.New("connection refused"))},
	}

	report := runCheck(t, cfg, prober)

	require.Equal(t, model.HealthError, report.OverallStatus, "probe error outranks score")
	require.NotEmpty(t, report.Errors)
	require.Contains(t, report.Components, "b")
}

func TestCheckWeightsComponents(t *testing.T) {
	t.Parallel()

	cfg := testConfig("core", "extra")
	cfg.Components[0].Weight = 3
	prober := &fakeProber{scores: map[string]int{"core": 100, "extra": 0}}

	report := runCheck(t, cfg, prober)

	require.Equal(t, 75, report.Score, "(100*3+0*1)/4")
}

func TestCheckRecommendationsAreOrderStable(t *testing.T) {
	t.Parallel()

	cfg := testConfig("istio", "argocd", "vault")
	prober := &fakeProber{
		scores: map[string]int{"istio": 50, "argocd": 100, "vault": 0},
		status: map[string]string{"vault": model.HealthNotInstalled},
	}

	first := runCheck(t, cfg, prober)
	second := runCheck(t, cfg, prober)

	require.Equal(t, first.Recommendations, second.Recommendations)
	require.Len(t, first.Recommendations, 2)
	require.Contains(t, first.Recommendations[0], "istio", "declaration order")
	require.Contains(t, first.Recommendations[1], "vault")
}

func TestCheckHealthyPlatformGetsSingleRecommendation(t *testing.T) {
	t.Parallel()

	cfg := testConfig("a", "b")
	prober := &fakeProber{scores: map[string]int{"a": 100, "b": 100}}

	report := runCheck(t, cfg, prober)

	require.Equal(t, []string{"platform is healthy, no action required"}, report.Recommendations)
}

func TestCheckDryRunSkipsProbes(t *testing.T) {
	t.Parallel()

	cfg := testConfig("a", "b")
	prober := &fakeProber{scores: map[string]int{"a": 100, "b": 100}}

	agg := New(cfg, prober, nil)
	rc := model.NewRunContext(model.EnvDevelopment, true)
	report := agg.Check(context.Background(), rc, true)

	require.Zero(t, prober.calls.Load(), "dry run must not probe")
	require.Equal(t, model.HealthDryRun, report.OverallStatus)
	require.Equal(t, model.HealthDryRun, report.Components["a"].Status)
}

func TestCheckBoundedParallelismCoversAllComponents(t *testing.T) {
	t.Parallel()

	names := []string{"a", "b", "c", "d", "e", "f", "g", "h"}
	cfg := testConfig(names...)
	cfg.Settings.Parallel = 2

	scores := make(map[string]int, len(names))
	for _, name := range names {
		scores[name] = 100
	}
	prober := &fakeProber{scores: scores}

	report := runCheck(t, cfg, prober)

	require.Len(t, report.Components, len(names))
	require.EqualValues(t, len(names), prober.calls.Load())
	require.Equal(t, 100, report.Score)
}
