// Copyright 2024-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

package tf

// This file wraps the runtime's TF_Status objects. They stay internal: calls
// that can fail allocate one, check it and free it before returning, so no
// status handle ever escapes the package.

import (
	"fmt"

	"github.com/pkg/errors"
)

// status owns one native TF_Status for the duration of a call.
type status struct {
	ptr uintptr
}

func newStatus() *status {
	return &status{ptr: capi.NewStatus()}
}

// free releases the native status. Safe to call more than once.
func (s *status) free() {
	if s == nil || s.ptr == 0 {
		return
	}
	capi.DeleteStatus(s.ptr)
	s.ptr = 0
}

func (s *status) code() Code {
	return Code(capi.GetCode(s.ptr))
}

func (s *status) message() string {
	return capi.Message(s.ptr)
}

func (s *status) ok() bool {
	return s.code() == OK
}

// errf converts a non-OK status into an error annotated with the operation
// that failed. Returns nil when the status is OK.
func (s *status) errf(format string, args ...any) error {
	if s.ok() {
		return nil
	}
	return errors.Errorf("%s: %s (%s)", fmt.Sprintf(format, args...), s.message(), s.code())
}
