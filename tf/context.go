// Copyright 2024-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

package tf

import "github.com/gomlx/exceptions"

// Context is an eager execution context of the runtime, the object device
// queries are answered from. Concurrent queries on a live Context are safe,
// but don't Finalize it while calls are in flight.
//
// A Context holds native memory (on GPUs potentially a lot of it), so
// release it with Finalize as soon as it is no longer needed. A garbage
// collection finalizer is registered as a backstop, but there are no
// guarantees on when (or whether) it runs.
type Context struct {
	ptr uintptr
}

// NewContext creates an eager context with the runtime's default options.
func NewContext() (*Context, error) {
	if err := Load(); err != nil {
		return nil, err
	}
	options := capi.NewContextOptions()
	defer capi.DeleteContextOptions(options)

	st := newStatus()
	defer st.free()
	ptr := capi.NewContext(options, st.ptr)
	if !st.ok() {
		return nil, st.errf("creating an eager context")
	}
	ctx := &Context{ptr: ptr}
	RegisterFinalizer(ctx)
	return ctx, nil
}

// Finalize implements Finalizer, releasing the native context. Safe to call
// more than once; the Context is unusable afterwards.
func (c *Context) Finalize() {
	if c == nil || c.ptr == 0 {
		return
	}
	capi.DeleteContext(c.ptr)
	c.ptr = 0
}

// IsNil reports whether the Context is nil or already finalized.
func (c *Context) IsNil() bool {
	return c == nil || c.ptr == 0
}

// AssertValid panics if the Context cannot be used anymore.
func (c *Context) AssertValid() {
	if c.IsNil() {
		exceptions.Panicf("tf.Context is nil or was already finalized")
	}
}
