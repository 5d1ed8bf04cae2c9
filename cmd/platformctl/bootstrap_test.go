package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestBootstrapCommandParsesFlags(t *testing.T) {
	cfgDir := t.TempDir()
	cfgPath := filepath.Join(cfgDir, "platform.yaml")
	manifest := `version: "1.0"
name: test-platform
environment: development
components:
  - name: argocd
    namespace: argocd
    workload: deployment/argocd-server
`
	require.NoError(t, os.WriteFile(cfgPath, []byte(manifest), 0o644))

	original := bootstrapCmdRunner
	t.Cleanup(func() { bootstrapCmdRunner = original })

	var captured bootstrapOptions
	bootstrapCmdRunner = func(opts bootstrapOptions) error {
		captured = opts
		return nil
	}

	root := newRootCmd()
	require.NoError(t, executeCommand(root, "bootstrap", "--config", cfgPath, "--json", "--async", "--dry-run", "--verbose"))

	require.Equal(t, cfgPath, captured.ConfigPath)
	require.True(t, captured.JSON)
	require.True(t, captured.Async)
	require.True(t, captured.DryRun)
	require.True(t, captured.Verbose)
	require.True(t, captured.NonInteractive, "json output must not launch the interactive view")
}

func TestBootstrapCommandValidatesConfigFile(t *testing.T) {
	root := newRootCmd()
	err := executeCommand(root, "bootstrap", "--config", "/path/does/not/exist")
	require.Error(t, err)
	require.Contains(t, err.Error(), "does not exist")
}

func TestBootstrapCommandAllowsOmittedConfig(t *testing.T) {
	original := bootstrapCmdRunner
	t.Cleanup(func() { bootstrapCmdRunner = original })

	bootstrapCmdRunner = func(opts bootstrapOptions) error {
		require.Empty(t, opts.ConfigPath)
		return nil
	}

	root := newRootCmd()
	require.NoError(t, executeCommand(root, "bootstrap", "--dry-run"))
}
