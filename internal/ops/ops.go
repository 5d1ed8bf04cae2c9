// Package ops implements day-2 operations against the platform services:
// start, stop, restart, status and health, backed by live discovery of
// which services are actually deployed.
package ops

import (
	platformerrors "github.com/idp-platform/platformctl/pkg/errors"
)

// Operation is a closed verb set. Anything outside it is rejected at parse
// time, never dispatched.
type Operation string

const (
	OpStart   Operation = "start"
	OpStop    Operation = "stop"
	OpRestart Operation = "restart"
	OpStatus  Operation = "status"
	OpHealth  Operation = "health"
)

// ParseOperation maps a CLI verb onto the operation enum.
func ParseOperation(verb string) (Operation, error) {
	switch op := Operation(verb); op {
	case OpStart, OpStop, OpRestart, OpStatus, OpHealth:
		return op, nil
	default:
		return "", platformerrors.NewUnsupportedOperationError(verb)
	}
}

// Options tune how an operation runs.
type Options struct {
	// Services restricts the operation to the named services. Empty means
	// the full catalog.
	Services []string
	// Async issues the commands without waiting for workloads to converge.
	Async bool
}
