package config

import (
	"github.com/caarlos0/env/v11"

	platformerrors "github.com/idp-platform/platformctl/pkg/errors"
)

// envOverrides are applied on top of the manifest so operators can retarget
// a run without editing files (CI, agents).
type envOverrides struct {
	Environment    string `env:"PLATFORMCTL_ENVIRONMENT"`
	CommandTimeout int    `env:"PLATFORMCTL_COMMAND_TIMEOUT"`
	Parallel       int    `env:"PLATFORMCTL_PARALLEL"`
	GitOpsRepo     string `env:"PLATFORMCTL_GITOPS_REPO"`
	GitOpsDir      string `env:"PLATFORMCTL_GITOPS_DIR"`
	CredentialCmd  string `env:"PLATFORMCTL_CREDENTIAL_COMMAND"`
}

func applyEnvOverrides(cfg *Config) error {
	var overrides envOverrides
	if err := env.Parse(&overrides); err != nil {
		return platformerrors.NewValidationError("env", "invalid environment override", err)
	}

	if overrides.Environment != "" {
		cfg.Environment = overrides.Environment
	}
	if overrides.CommandTimeout > 0 {
		cfg.Settings.CommandTimeout = overrides.CommandTimeout
	}
	if overrides.Parallel > 0 {
		cfg.Settings.Parallel = overrides.Parallel
	}
	if overrides.GitOpsRepo != "" {
		cfg.Bootstrap.GitOpsRepo = overrides.GitOpsRepo
	}
	if overrides.GitOpsDir != "" {
		cfg.Bootstrap.GitOpsDir = overrides.GitOpsDir
	}
	if overrides.CredentialCmd != "" {
		cfg.Bootstrap.CredentialCmd = overrides.CredentialCmd
	}

	return nil
}
