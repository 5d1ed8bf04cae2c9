// Package health probes platform components and aggregates the results into
// a weighted score, a status tier and actionable recommendations.
package health

import (
	"context"
	"fmt"
	"math"
	"sync"

	"github.com/idp-platform/platformctl/internal/config"
	"github.com/idp-platform/platformctl/internal/logger"
	"github.com/idp-platform/platformctl/internal/model"
)

// Aggregator runs component probes with bounded parallelism and merges the
// outcomes into a HealthReport.
type Aggregator struct {
	specs    []config.ComponentSpec
	prober   Prober
	parallel int
	log      *logger.Logger
}

// New creates an Aggregator for the manifest's declared components.
func New(cfg *config.Config, prober Prober, log *logger.Logger) *Aggregator {
	parallel := cfg.Settings.Parallel
	if parallel <= 0 {
		parallel = 4
	}
	return &Aggregator{
		specs:    cfg.Components,
		prober:   prober,
		parallel: parallel,
		log:      log.WithComponent("health"),
	}
}

type probeOutcome struct {
	health model.ComponentHealth
	err    error
}

// Check probes every declared component and returns the aggregated report.
// Probes for independent components run concurrently; each outcome lands in
// its own preallocated slot, so the only synchronization needed is the final
// join before merging.
func (a *Aggregator) Check(ctx context.Context, rc model.RunContext, comprehensive bool) model.HealthReport {
	report := model.HealthReport{
		Components: make(map[string]model.ComponentHealth, len(a.specs)),
		URLs:       make(map[string]string),
	}

	if rc.DryRun {
		for _, spec := range a.specs {
			report.Components[spec.Name] = model.ComponentHealth{
				Name:    spec.Name,
				Enabled: spec.Enabled,
				Status:  model.HealthDryRun,
			}
		}
		report.OverallStatus = model.HealthDryRun
		report.Recommendations = []string{"dry run: no probes executed"}
		return report
	}

	outcomes := make([]probeOutcome, len(a.specs))
	sem := make(chan struct{}, a.parallel)
	var wg sync.WaitGroup

	for i, spec := range a.specs {
		if !spec.Enabled {
			outcomes[i] = probeOutcome{health: model.ComponentHealth{
				Name:    spec.Name,
				Enabled: false,
				Status:  model.HealthDisabled,
				Detail:  "disabled in manifest",
			}}
			continue
		}

		wg.Add(1)
		go func(i int, spec config.ComponentSpec) {
			defer wg.Done()

			sem <- struct{}{}
			defer func() { <-sem }()

			health, err := a.prober.Probe(ctx, spec, comprehensive)
			health.Name = spec.Name
			health.Enabled = true
			outcomes[i] = probeOutcome{health: health, err: err}
		}(i, spec)
	}

	wg.Wait()

	probeFailed := false
	weightedSum := 0
	weightTotal := 0

	for i, spec := range a.specs {
		outcome := outcomes[i]
		report.Components[spec.Name] = outcome.health

		if !spec.Enabled {
			continue
		}

		if outcome.err != nil {
			probeFailed = true
			report.Errors = append(report.Errors, outcome.err.Error())
			a.log.Error(outcome.err, "component probe failed")
		}

		if outcome.health.Status == model.HealthNotInstalled {
			report.Warnings = append(report.Warnings, fmt.Sprintf("%s is not installed", spec.Name))
		}

		if spec.URL != "" && outcome.health.Score > 0 {
			report.URLs[spec.Name] = spec.URL
		}

		weight := spec.Weight
		if weight <= 0 {
			weight = 1
		}
		weightedSum += outcome.health.Score * weight
		weightTotal += weight
	}

	if weightTotal > 0 {
		report.Score = int(math.Round(float64(weightedSum) / float64(weightTotal)))
	}

	if probeFailed {
		report.OverallStatus = model.HealthError
	} else {
		report.OverallStatus = model.TierForScore(report.Score)
	}

	report.Recommendations = a.recommendations(report)
	return report
}

// recommendations is a pure function of the component map, ordered by the
// fixed component declaration order so output is deterministic.
func (a *Aggregator) recommendations(report model.HealthReport) []string {
	var recs []string
	for _, spec := range a.specs {
		if !spec.Enabled {
			continue
		}
		health := report.Components[spec.Name]
		if health.Score >= 100 {
			continue
		}

		switch health.Status {
		case model.HealthNotInstalled:
			recs = append(recs, fmt.Sprintf("install %s: component not found in namespace %s", spec.Name, spec.Namespace))
		case model.HealthUnhealthy:
			recs = append(recs, fmt.Sprintf("investigate %s: score %d/100, %d/%d instances ready",
				spec.Name, health.Score, health.PodsReady, health.PodsTotal))
		default:
			recs = append(recs, fmt.Sprintf("review %s: score %d/100", spec.Name, health.Score))
		}
	}

	if len(recs) == 0 && report.Score >= 90 {
		recs = append(recs, "platform is healthy, no action required")
	}
	return recs
}
