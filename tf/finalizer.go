// Copyright 2024-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

package tf

import "runtime"

// Finalizer is implemented by types owning native runtime objects.
type Finalizer interface {
	// Finalize releases the native object. It must be idempotent.
	Finalize()

	// IsNil reports whether the underlying native object is gone, either
	// never set or already finalized.
	IsNil() bool
}

// RegisterFinalizer makes sure f.Finalize is called when the object is
// garbage collected, for callers that don't finalize explicitly.
func RegisterFinalizer[F Finalizer](f F) {
	runtime.SetFinalizer(f, func(f F) { f.Finalize() })
}
