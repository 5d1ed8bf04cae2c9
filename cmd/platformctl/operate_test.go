package main

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/idp-platform/platformctl/internal/ops"
	platformerrors "github.com/idp-platform/platformctl/pkg/errors"
)

func TestOperateCommandParsesVerbAndFlags(t *testing.T) {
	original := operateCmdRunner
	t.Cleanup(func() { operateCmdRunner = original })

	var capturedOp ops.Operation
	var captured operateOptions
	operateCmdRunner = func(op ops.Operation, opts operateOptions) error {
		capturedOp = op
		captured = opts
		return nil
	}

	root := newRootCmd()
	require.NoError(t, executeCommand(root,
		"operate", "restart", "--services", "argocd,grafana", "--async", "--json"))

	require.Equal(t, ops.OpRestart, capturedOp)
	require.Equal(t, []string{"argocd", "grafana"}, captured.Services)
	require.True(t, captured.Async)
	require.True(t, captured.JSON)
}

func TestOperateCommandRejectsUnknownVerb(t *testing.T) {
	root := newRootCmd()
	err := executeCommand(root, "operate", "reboot")

	var unsupported *platformerrors.UnsupportedOperationError
	require.ErrorAs(t, err, &unsupported)
	require.Equal(t, "reboot", unsupported.Operation)
}

func TestOperateCommandRequiresVerb(t *testing.T) {
	root := newRootCmd()
	require.Error(t, executeCommand(root, "operate"))
}
