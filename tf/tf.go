// Copyright 2024-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

// Package tf is a thin Go layer over the TensorFlow C library
// (libtensorflow), dynamically loaded at runtime.
//
// It gives access to the runtime's metadata surface: the runtime version,
// the registry of operations (decoded into protos.OpList), plugin libraries
// with custom ops, and the devices the runtime can execute on. It does not
// build or run graphs.
//
// The C library is searched for and loaded on first use (see Load), so
// importing this package has no side effects. Loading can be steered with
// two environment variables: GOTF_LIBRARY points at the exact library file,
// GOTF_LIBRARY_PATH lists extra directories to search. Everything in this
// package goes through the process-wide runtime, so all functions are safe
// for concurrent use.
//
// Typical use:
//
//	fmt.Println(tf.Version())
//	ops, err := tf.RegisteredOpList()
//	...
//	ctx, err := tf.NewContext()
//	...
//	defer ctx.Finalize()
//	devices, err := tf.ListDevices(ctx, tf.GPU)
package tf

// Version returns the version string of the TensorFlow runtime, e.g.
// "2.16.1".
//
// It loads the runtime on first use and panics if none can be found. Use
// Load beforehand to handle that case as an error instead.
func Version() string {
	mustLoad()
	return capi.Version()
}
