// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package resource

import (
	"errors"
	"fmt"
)

// ErrContractViolation is wrapped by every [ContractViolation].
var ErrContractViolation = errors.New("resource: contract violation")

// ContractViolation describes a misuse of the manager that indicates an
// internal lifecycle bug. It is raised with panic, never returned.
type ContractViolation struct {
	// Op is the manager operation that detected the violation.
	Op string

	// Handle is the offending handle, formatted.
	Handle string

	// Reason is a human readable diagnostic.
	Reason string
}

func (e *ContractViolation) Error() string {
	if e.Handle == "" {
		return fmt.Sprintf("resource: contract violation in %s: %s", e.Op, e.Reason)
	}
	return fmt.Sprintf("resource: contract violation in %s on %s: %s", e.Op, e.Handle, e.Reason)
}

func (e *ContractViolation) Unwrap() error {
	return ErrContractViolation
}

// violate panics with a ContractViolation.
func violate(op string, h fmt.Stringer, format string, args ...any) {
	v := &ContractViolation{Op: op, Reason: fmt.Sprintf(format, args...)}
	if h != nil {
		v.Handle = h.String()
	}
	panic(v)
}
