// Copyright 2024-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

package tf

import "fmt"

// LoadError is returned by LoadLibrary when the runtime refuses to load a
// plugin library. Code and Message carry the runtime's own diagnosis, e.g.
// NOT_FOUND for a missing file or INVALID_ARGUMENT for an incompatible
// binary.
type LoadError struct {
	Path    string
	Code    Code
	Message string
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("loading plugin library %q: %s (%s)", e.Path, e.Message, e.Code)
}

// DecodeError is returned when the runtime handed back an op-list payload
// that could not be decoded. Source names where the payload came from: the
// runtime's own registry or the path of a plugin library.
//
// Getting one means the runtime's protocol-buffer encoding disagrees with
// this package, typically a runtime far newer or older than those tested.
type DecodeError struct {
	Source string
	Err    error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("decoding op list from %s: %v", e.Source, e.Err)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}
