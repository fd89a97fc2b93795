// Copyright 2024-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

package tf

import (
	"unsafe"

	"github.com/ebitengine/purego"
	"github.com/pkg/errors"
)

// cBuffer mirrors the C struct TF_Buffer: a pointer to a payload, its length
// and an optional deallocator. The runtime owns the payload; Go code copies
// it out (see cBuffer.bytes) and never calls the deallocator directly.
type cBuffer struct {
	Data        unsafe.Pointer
	Length      uintptr
	Deallocator uintptr
}

// capi is the dispatch table of native functions, bound by registerFunctions
// once the library is loaded. Handles for TF_Status, TF_Library, TFE_Context
// and TF_DeviceList are opaque uintptrs, only TF_Buffer is dereferenced on
// the Go side.
//
// Tests swap entries for instrumented fakes, which is why this is a table
// instead of direct symbol bindings.
var capi capiTable

type capiTable struct {
	Version func() string

	NewStatus    func() uintptr
	DeleteStatus func(status uintptr)
	GetCode      func(status uintptr) int32
	Message      func(status uintptr) string

	GetAllOpList        func() *cBuffer
	DeleteBuffer        func(buffer *cBuffer)
	LoadLibrary         func(path string, status uintptr) uintptr
	GetOpList           func(library uintptr) cBuffer
	DeleteLibraryHandle func(library uintptr)

	NewContextOptions    func() uintptr
	DeleteContextOptions func(options uintptr)
	NewContext           func(options, status uintptr) uintptr
	DeleteContext        func(ctx uintptr)
	ContextListDevices   func(ctx, status uintptr) uintptr

	DeviceListCount       func(devices uintptr) int32
	DeviceListName        func(devices uintptr, index int32, status uintptr) string
	DeviceListType        func(devices uintptr, index int32, status uintptr) string
	DeviceListMemoryBytes func(devices uintptr, index int32, status uintptr) int64
	DeleteDeviceList      func(devices uintptr)
}

// registerFunctions binds every entry of capi to its symbol in the loaded
// library. purego panics on a missing symbol, converted here to an error so
// a too-old or unrelated library reports cleanly.
func registerFunctions(handle uintptr) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = errors.Errorf("binding TensorFlow C API symbols: %v", r)
		}
	}()

	purego.RegisterLibFunc(&capi.Version, handle, "TF_Version")

	purego.RegisterLibFunc(&capi.NewStatus, handle, "TF_NewStatus")
	purego.RegisterLibFunc(&capi.DeleteStatus, handle, "TF_DeleteStatus")
	purego.RegisterLibFunc(&capi.GetCode, handle, "TF_GetCode")
	purego.RegisterLibFunc(&capi.Message, handle, "TF_Message")

	purego.RegisterLibFunc(&capi.GetAllOpList, handle, "TF_GetAllOpList")
	purego.RegisterLibFunc(&capi.DeleteBuffer, handle, "TF_DeleteBuffer")
	purego.RegisterLibFunc(&capi.LoadLibrary, handle, "TF_LoadLibrary")
	purego.RegisterLibFunc(&capi.GetOpList, handle, "TF_GetOpList")
	purego.RegisterLibFunc(&capi.DeleteLibraryHandle, handle, "TF_DeleteLibraryHandle")

	purego.RegisterLibFunc(&capi.NewContextOptions, handle, "TFE_NewContextOptions")
	purego.RegisterLibFunc(&capi.DeleteContextOptions, handle, "TFE_DeleteContextOptions")
	purego.RegisterLibFunc(&capi.NewContext, handle, "TFE_NewContext")
	purego.RegisterLibFunc(&capi.DeleteContext, handle, "TFE_DeleteContext")
	purego.RegisterLibFunc(&capi.ContextListDevices, handle, "TFE_ContextListDevices")

	purego.RegisterLibFunc(&capi.DeviceListCount, handle, "TF_DeviceListCount")
	purego.RegisterLibFunc(&capi.DeviceListName, handle, "TF_DeviceListName")
	purego.RegisterLibFunc(&capi.DeviceListType, handle, "TF_DeviceListType")
	purego.RegisterLibFunc(&capi.DeviceListMemoryBytes, handle, "TF_DeviceListMemoryBytes")
	purego.RegisterLibFunc(&capi.DeleteDeviceList, handle, "TF_DeleteDeviceList")
	return
}
