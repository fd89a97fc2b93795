// Copyright 2024-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

//go:build !windows

package tf

import "github.com/ebitengine/purego"

// dlopenLibrary loads the shared library at path into the process. RTLD_GLOBAL
// because plugin libraries loaded later (see LoadLibrary) resolve their
// TensorFlow symbols against it.
func dlopenLibrary(path string) (uintptr, error) {
	handle, err := purego.Dlopen(path, purego.RTLD_NOW|purego.RTLD_GLOBAL)
	if err != nil {
		return 0, err
	}
	return handle, nil
}
