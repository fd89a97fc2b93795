// Copyright 2024-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

package tf

import "github.com/gomlx/gotf/protos"

// LoadLibrary loads the dynamic library at path as a TensorFlow plugin and
// returns the definitions of the operations it contributes. The ops also
// become part of the runtime registry, so they show up in later
// RegisteredOpList calls.
//
// On failure the returned error is a *LoadError carrying the runtime's
// status code and message, or a *DecodeError if the library loaded but its
// op list could not be decoded. Either way no native state is left behind:
// the library handle, when one was created, is released before returning.
//
// The runtime keeps the library mapped in the process for its whole
// lifetime; only the query handle is released here.
func LoadLibrary(path string) (*protos.OpList, error) {
	if err := Load(); err != nil {
		return nil, err
	}
	st := newStatus()
	defer st.free()

	handle := capi.LoadLibrary(path, st.ptr)
	if !st.ok() {
		return nil, &LoadError{Path: path, Code: st.code(), Message: st.message()}
	}
	defer capi.DeleteLibraryHandle(handle)

	// The op-list payload is owned by the handle, copy it out while the
	// handle is still alive.
	buffer := capi.GetOpList(handle)
	data := buffer.bytes()

	list, err := protos.UnmarshalOpList(data)
	if err != nil {
		return nil, &DecodeError{Source: path, Err: err}
	}
	return list, nil
}
