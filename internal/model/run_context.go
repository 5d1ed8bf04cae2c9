package model

import (
	"time"

	"github.com/google/uuid"
)

// Environments accepted by the orchestrator.
const (
	EnvDevelopment = "development"
	EnvStaging     = "staging"
	EnvProduction  = "production"
)

// RunContext identifies one orchestration invocation. It is immutable once
// created; steps receive it by value and must not communicate through it.
type RunContext struct {
	JobID       string
	Environment string
	DryRun      bool
	StartedAt   time.Time
}

// NewRunContext creates a RunContext with a fresh job ID.
func NewRunContext(environment string, dryRun bool) RunContext {
	return RunContext{
		JobID:       uuid.NewString(),
		Environment: environment,
		DryRun:      dryRun,
		StartedAt:   time.Now(),
	}
}
