package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	platformerrors "github.com/idp-platform/platformctl/pkg/errors"
)

func writeManifest(t *testing.T, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "platform.yaml")
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o644))
	return path
}

const validManifest = `
version: "1.0"
name: IDP Platform
environment: staging
settings:
  command_timeout: 90
  parallel: 2
bootstrap:
  enable_monitoring: false
  gitops_repo: https://git.example.com/platform/config.git
components:
  - name: istio
    namespace: istio-system
    workload: deployment/istiod
  - name: argocd
    namespace: argocd
    workload: deployment/argocd-server
    enabled: false
services:
  - name: argocd
    namespace: argocd
    resource: deployment/argocd-server
    port_mapping: "8080:443"
`

func TestLoadParsesManifest(t *testing.T) {
	path := writeManifest(t, validManifest)

	cfg, err := Load(path)
	require.NoError(t, err)

	require.Equal(t, "staging", cfg.Environment)
	require.Equal(t, 90, cfg.Settings.CommandTimeout)
	require.False(t, cfg.Bootstrap.EnableMonitoring)
	require.True(t, cfg.Bootstrap.EnableAuth, "auth defaults on")

	require.Len(t, cfg.Components, 2)
	require.True(t, cfg.Components[0].Enabled, "enabled defaults on")
	require.Equal(t, 1, cfg.Components[0].Weight, "weight defaults to 1")
	require.False(t, cfg.Components[1].Enabled)

	enabled := cfg.EnabledComponents()
	require.Len(t, enabled, 1)
	require.Equal(t, "istio", enabled[0].Name)
}

func TestLoadWithoutBootstrapBlock(t *testing.T) {
	path := writeManifest(t, `
version: "1.0"
name: IDP Platform
environment: development
components:
  - name: istio
    namespace: istio-system
    workload: deployment/istiod
services:
  - name: argocd
    namespace: argocd
    resource: deployment/argocd-server
    port_mapping: "8080:443"
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	require.True(t, cfg.Bootstrap.EnableAuth, "auth defaults on when bootstrap is omitted")
	require.True(t, cfg.Bootstrap.EnableMonitoring, "monitoring defaults on when bootstrap is omitted")
	require.False(t, cfg.Bootstrap.SkipBackstage)
}

func TestLoadDefaultCatalog(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	require.Len(t, cfg.Services, 9)
	require.Contains(t, cfg.ServiceMap(), "workflows")
	require.Len(t, cfg.Components, 7)
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("PLATFORMCTL_ENVIRONMENT", "production")
	t.Setenv("PLATFORMCTL_PARALLEL", "8")

	cfg, err := Load("")
	require.NoError(t, err)

	require.Equal(t, "production", cfg.Environment)
	require.Equal(t, 8, cfg.Settings.Parallel)
}

func TestLoadRejectsMalformedYAML(t *testing.T) {
	path := writeManifest(t, "version: [unterminated")

	_, err := Load(path)
	require.Error(t, err)

	var parseErr *platformerrors.ParseError
	require.ErrorAs(t, err, &parseErr)
}

func TestValidateRules(t *testing.T) {
	t.Parallel()

	base := func() *Config {
		cfg := Default()
		return cfg
	}

	cases := []struct {
		name   string
		mutate func(*Config)
		field  string
	}{
		{
			name:   "unknown environment",
			mutate: func(c *Config) { c.Environment = "qa" },
			field:  "Environment",
		},
		{
			name:   "duplicate service",
			mutate: func(c *Config) { c.Services = append(c.Services, c.Services[0]) },
			field:  "name",
		},
		{
			name:   "bad resource kind",
			mutate: func(c *Config) { c.Services[0].Resource = "pod/argocd" },
			field:  "resource",
		},
		{
			name:   "bad port mapping",
			mutate: func(c *Config) { c.Services[0].PortMapping = "eight:443" },
			field:  "port_mapping",
		},
		{
			name:   "uppercase component name",
			mutate: func(c *Config) { c.Components[0].Name = "Istio" },
			field:  "Name",
		},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			cfg := base()
			tc.mutate(cfg)

			err := Validate(cfg)
			require.Error(t, err)

			var validationErr *platformerrors.ValidationError
			require.ErrorAs(t, err, &validationErr)
			require.Contains(t, validationErr.Field, tc.field)
		})
	}
}
