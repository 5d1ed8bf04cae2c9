package model

const (
	// HealthHealthy indicates the component or platform scored at or above 90.
	HealthHealthy = "healthy"
	// HealthDegraded indicates a score in [70, 90).
	HealthDegraded = "degraded"
	// HealthUnhealthy indicates a score below 70.
	HealthUnhealthy = "unhealthy"
	// HealthNotInstalled indicates the component could not be probed because it
	// is absent, which is distinct from a probe error.
	HealthNotInstalled = "not-installed"
	// HealthDisabled indicates the component is declared but turned off in the
	// manifest, so it was never probed. Distinct from not-installed, which
	// means an enabled component is missing from the cluster.
	HealthDisabled = "disabled"
	// HealthDryRun indicates the probe was simulated.
	HealthDryRun = "dry-run"
	// HealthError indicates at least one probe failed to run at all.
	HealthError = "error"
)

// ComponentHealth holds one component's probe outcome. Health is always
// recomputed fresh; instances are never carried across invocations.
type ComponentHealth struct {
	Name      string `json:"name"`
	Enabled   bool   `json:"enabled"`
	Score     int    `json:"score"`
	Status    string `json:"status"`
	PodsReady int    `json:"pods_ready,omitempty"`
	PodsTotal int    `json:"pods_total,omitempty"`
	Detail    string `json:"detail,omitempty"`
}

// TierForScore maps a 0-100 score to its status tier.
func TierForScore(score int) string {
	switch {
	case score >= 90:
		return HealthHealthy
	case score >= 70:
		return HealthDegraded
	default:
		return HealthUnhealthy
	}
}

// HealthReport aggregates component probes into a weighted platform view.
// OverallStatus is a pure function of Score except when a probe errored,
// which forces it to HealthError regardless of score.
type HealthReport struct {
	Components      map[string]ComponentHealth `json:"components"`
	Score           int                        `json:"health_score"`
	OverallStatus   string                     `json:"overall_status"`
	URLs            map[string]string          `json:"urls,omitempty"`
	Recommendations []string                   `json:"recommendations"`
	Errors          []string                   `json:"errors,omitempty"`
	Warnings        []string                   `json:"warnings,omitempty"`
}
