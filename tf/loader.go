// Copyright 2024-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

package tf

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync"

	"github.com/gomlx/exceptions"
	"github.com/pkg/errors"
	"k8s.io/klog/v2"
)

// Environment variables steering where the TensorFlow C library is loaded
// from.
const (
	// LibraryKey is the environment variable naming the exact library file
	// to load. When set, nothing else is tried.
	LibraryKey = "GOTF_LIBRARY"

	// LibraryPathKey is the environment variable with a list of directories
	// (separated like $PATH) searched before the standard locations.
	LibraryPathKey = "GOTF_LIBRARY_PATH"
)

var lib struct {
	once   sync.Once
	handle uintptr
	err    error
}

// Load finds the TensorFlow C library, loads it into the process and binds
// its symbols. The first call does the work; subsequent calls (from any
// goroutine) return the same result. Every function in this package that
// talks to the runtime calls it implicitly.
//
// There is no way to unload: the runtime stays in the process until it
// exits.
func Load() error {
	lib.once.Do(func() {
		lib.handle, lib.err = loadRuntime()
		if lib.err != nil {
			klog.Errorf("Failed to load the TensorFlow C library: %+v", lib.err)
		}
	})
	return lib.err
}

// mustLoad is Load for entry points without an error return, like Version.
func mustLoad() {
	if err := Load(); err != nil {
		exceptions.Panicf("tf: %v", err)
	}
}

func loadRuntime() (uintptr, error) {
	var attempts []string
	for _, path := range candidatePaths() {
		handle, err := dlopenLibrary(path)
		if err != nil {
			if fileExists(path) {
				klog.Warningf("Found TensorFlow C library candidate %q but it failed to load: %v", path, err)
			}
			attempts = append(attempts, fmt.Sprintf("\t%s: %v", path, err))
			continue
		}
		if err = registerFunctions(handle); err != nil {
			// Loaded, but it is not a usable TensorFlow library.
			return 0, errors.WithMessagef(err, "library %q found", path)
		}
		klog.V(1).Infof("Loaded TensorFlow C library from %q, version %s", path, capi.Version())
		return handle, nil
	}
	return 0, errors.Errorf(libraryNotFoundMessage, strings.Join(attempts, "\n"))
}

const libraryNotFoundMessage = `could not load the TensorFlow C library (libtensorflow), attempts:
%s

The library is searched in the following order:

1. The exact file set in the environment variable "$GOTF_LIBRARY", if set.
2. Directories set in "$GOTF_LIBRARY_PATH" (separated like $PATH), if set.
3. Standard installation directories ("/usr/local/lib", "/usr/lib", ...).
4. Whatever the system dynamic loader finds by itself ($LD_LIBRARY_PATH, ldconfig).

Pre-built libraries for Linux and macOS can be downloaded from
https://www.tensorflow.org/install/lang_c -- install one and, if needed, point
"$GOTF_LIBRARY" at the .so (Linux) or .dylib (macOS) file directly.

If you think there is a standard directory that should also be automatically
searched for your OS/architecture, please create an issue in
github.com/gomlx/gotf and we will include it in the default search.`

// libraryNames are the file names tried for the runtime, most specific
// first.
func libraryNames() []string {
	if runtime.GOOS == "darwin" {
		return []string{"libtensorflow.2.dylib", "libtensorflow.dylib"}
	}
	return []string{"libtensorflow.so.2", "libtensorflow.so"}
}

func defaultSearchDirs() []string {
	dirs := []string{"/usr/local/lib", "/usr/lib", "/opt/tensorflow/lib"}
	if runtime.GOOS == "darwin" {
		dirs = append([]string{"/opt/homebrew/lib"}, dirs...)
	}
	return dirs
}

// candidatePaths returns the paths tried, in order, when loading the
// runtime. Directory candidates are included only when the file exists; the
// trailing bare names are always handed to the system loader, which runs its
// own search.
func candidatePaths() []string {
	if exact := os.Getenv(LibraryKey); exact != "" {
		return []string{exact}
	}
	names := libraryNames()
	var paths []string
	addDir := func(dir string) {
		for _, name := range names {
			if path := filepath.Join(dir, name); fileExists(path) {
				paths = append(paths, path)
			}
		}
	}
	for _, dir := range filepath.SplitList(os.Getenv(LibraryPathKey)) {
		if dir != "" {
			addDir(dir)
		}
	}
	for _, dir := range defaultSearchDirs() {
		addDir(dir)
	}
	return append(paths, names...)
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
