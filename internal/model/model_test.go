package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestTierForScoreBoundaries(t *testing.T) {
	t.Parallel()

	cases := []struct {
		score int
		tier  string
	}{
		{100, HealthHealthy},
		{90, HealthHealthy},
		{89, HealthDegraded},
		{70, HealthDegraded},
		{69, HealthUnhealthy},
		{0, HealthUnhealthy},
	}

	for _, tc := range cases {
		require.Equal(t, tc.tier, TierForScore(tc.score), "score %d", tc.score)
	}
}

func TestNewRunContextPopulatesIdentity(t *testing.T) {
	t.Parallel()

	rc := NewRunContext(EnvStaging, true)
	require.NotEmpty(t, rc.JobID)
	require.Equal(t, EnvStaging, rc.Environment)
	require.True(t, rc.DryRun)
	require.False(t, rc.StartedAt.IsZero())

	other := NewRunContext(EnvStaging, true)
	require.NotEqual(t, rc.JobID, other.JobID)
}

func TestBootstrapResultAccessors(t *testing.T) {
	t.Parallel()

	res := BootstrapResult{
		Status: BootstrapCompletedWithWarnings,
		Steps: []StepResult{
			{Name: "prerequisites", Status: StatusCompleted},
			{Name: "monitoring", Status: StatusWarning},
			{Name: "backstage", Status: StatusFailed},
		},
		Duration: 42 * time.Second,
	}

	require.Equal(t, []string{"backstage"}, res.FailedSteps())
	require.Equal(t, []string{"monitoring"}, res.Warnings())
	require.True(t, res.Succeeded())
	require.Contains(t, res.Summary(), "warnings")
}

func TestOperationResultFinishDerivesSummary(t *testing.T) {
	t.Parallel()

	res := OperationResult{
		Operation: "start",
		Success:   true,
		StartTime: time.Now(),
		Warnings:  []string{"workflows pending"},
	}
	res.Finish()

	require.Contains(t, res.Summary, "start completed")
	require.Contains(t, res.Summary, "1 warnings")
	require.NotZero(t, res.Duration)
}
