// Copyright 2024-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

package tf

import "github.com/gomlx/gotf/protos"

// RegisteredOpList returns the definitions of every operation registered in
// the runtime, including ops contributed by plugin libraries loaded so far.
//
// The list is decoded from a fresh snapshot on every call. A *DecodeError is
// returned if the runtime's payload cannot be decoded.
func RegisteredOpList() (*protos.OpList, error) {
	if err := Load(); err != nil {
		return nil, err
	}
	buffer := capi.GetAllOpList()
	defer capi.DeleteBuffer(buffer)
	data := buffer.bytes()

	list, err := protos.UnmarshalOpList(data)
	if err != nil {
		return nil, &DecodeError{Source: "the runtime op registry", Err: err}
	}
	return list, nil
}
