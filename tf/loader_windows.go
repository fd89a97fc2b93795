// Copyright 2024-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

//go:build windows

package tf

import "github.com/pkg/errors"

// Windows is not supported: purego cannot express the TF_Buffer by-value
// returns of the C API there. Use WSL2, where the Linux path works.
func dlopenLibrary(path string) (uintptr, error) {
	return 0, errors.Errorf("loading the TensorFlow C library is not supported on Windows (tried %q), use WSL2 instead", path)
}
