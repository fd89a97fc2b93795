// Copyright 2024-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

package tf

import (
	"fmt"
	"sync"
	"testing"
	"unsafe"

	"github.com/gomlx/gotf/protos"
)

// fakeRuntime is an in-process stand-in for the native library: it
// implements every entry of the capi table in pure Go, counting each
// acquire/release pair and poisoning released payloads, so tests catch
// leaked handles, double frees and use after free on every call path.
type fakeRuntime struct {
	t *testing.T

	version string

	mu         sync.Mutex
	registry   []byte                 // payload served as the op registry
	plugins    map[string]*fakePlugin // loadable libraries, keyed by path
	devices    []DeviceSpec
	nextHandle uintptr

	// Injectable failures, OK means succeed.
	contextErr     Code
	listDevicesErr Code
	deviceNameErr  Code

	statuses    map[uintptr]*fakeStatus
	buffers     map[*cBuffer][]byte
	libraries   map[uintptr]*loadedLibrary
	options     map[uintptr]bool
	contexts    map[uintptr]bool
	deviceLists map[uintptr]bool

	counts struct {
		status, buffer, library, options, context, deviceList allocCount
	}
}

type fakeStatus struct {
	code    Code
	message string
}

type fakePlugin struct {
	payload []byte // op list served once loaded
	code    Code   // load result, OK loads
	message string
}

type loadedLibrary struct {
	path string
	data []byte // this handle's op-list payload, poisoned on release
}

type allocCount struct {
	made, freed int
}

// setupFakeRuntime installs the fake as the process runtime and marks
// loading as already done. The registered cleanup restores the previous
// state and fails the test if any native object was left unreleased.
func setupFakeRuntime(t *testing.T) *fakeRuntime {
	t.Helper()
	f := &fakeRuntime{
		t:        t,
		version:  "2.16.1-fake",
		registry: encodeOps("NoOp", "Add", "MatMul"),
		plugins:  make(map[string]*fakePlugin),
		devices: []DeviceSpec{
			{Index: 0, Type: CPU, Name: "/job:localhost/replica:0/task:0/device:CPU:0"},
			{Index: 1, Type: GPU, Name: "/job:localhost/replica:0/task:0/device:GPU:0", MemoryBytes: 16 << 30},
			{Index: 2, Type: GPU, Name: "/job:localhost/replica:0/task:0/device:GPU:1", MemoryBytes: 16 << 30},
		},
		statuses:    make(map[uintptr]*fakeStatus),
		buffers:     make(map[*cBuffer][]byte),
		libraries:   make(map[uintptr]*loadedLibrary),
		options:     make(map[uintptr]bool),
		contexts:    make(map[uintptr]bool),
		deviceLists: make(map[uintptr]bool),
	}

	saved := capi
	capi = capiTable{
		Version:               f.tfVersion,
		NewStatus:             f.tfNewStatus,
		DeleteStatus:          f.tfDeleteStatus,
		GetCode:               f.tfGetCode,
		Message:               f.tfMessage,
		GetAllOpList:          f.tfGetAllOpList,
		DeleteBuffer:          f.tfDeleteBuffer,
		LoadLibrary:           f.tfLoadLibrary,
		GetOpList:             f.tfGetOpList,
		DeleteLibraryHandle:   f.tfDeleteLibraryHandle,
		NewContextOptions:     f.tfeNewContextOptions,
		DeleteContextOptions:  f.tfeDeleteContextOptions,
		NewContext:            f.tfeNewContext,
		DeleteContext:         f.tfeDeleteContext,
		ContextListDevices:    f.tfeContextListDevices,
		DeviceListCount:       f.tfDeviceListCount,
		DeviceListName:        f.tfDeviceListName,
		DeviceListType:        f.tfDeviceListType,
		DeviceListMemoryBytes: f.tfDeviceListMemoryBytes,
		DeleteDeviceList:      f.tfDeleteDeviceList,
	}
	lib.once.Do(func() {}) // pretend Load already ran
	lib.err = nil

	t.Cleanup(func() {
		f.assertBalanced()
		capi = saved
	})
	return f
}

// encodeOps builds an op-list payload with one minimal OpDef per name.
func encodeOps(names ...string) []byte {
	list := &protos.OpList{}
	for _, name := range names {
		list.Ops = append(list.Ops, &protos.OpDef{Name: name})
	}
	return list.Marshal()
}

func (f *fakeRuntime) setRegistry(payload []byte) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.registry = payload
}

func (f *fakeRuntime) addPlugin(path string, payload []byte) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.plugins[path] = &fakePlugin{payload: payload, code: OK}
}

func (f *fakeRuntime) addBrokenPlugin(path string, code Code, message string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.plugins[path] = &fakePlugin{code: code, message: message}
}

func (f *fakeRuntime) assertBalanced() {
	f.t.Helper()
	f.mu.Lock()
	defer f.mu.Unlock()
	check := func(kind string, c allocCount) {
		f.t.Helper()
		if c.made != c.freed {
			f.t.Errorf("%s objects leaked: %d acquired, %d released", kind, c.made, c.freed)
		}
	}
	check("TF_Status", f.counts.status)
	check("TF_Buffer", f.counts.buffer)
	check("TF_Library", f.counts.library)
	check("TFE_ContextOptions", f.counts.options)
	check("TFE_Context", f.counts.context)
	check("TF_DeviceList", f.counts.deviceList)
}

func (f *fakeRuntime) newHandleLocked() uintptr {
	f.nextHandle++
	return f.nextHandle
}

func (f *fakeRuntime) statusLocked(h uintptr) *fakeStatus {
	st, live := f.statuses[h]
	if !live {
		f.t.Errorf("use of unknown or freed TF_Status handle %#x", h)
		return &fakeStatus{}
	}
	return st
}

func (f *fakeRuntime) setStatusLocked(h uintptr, code Code, message string) {
	st := f.statusLocked(h)
	st.code = code
	st.message = message
}

func (f *fakeRuntime) tfVersion() string {
	return f.version
}

func (f *fakeRuntime) tfNewStatus() uintptr {
	f.mu.Lock()
	defer f.mu.Unlock()
	h := f.newHandleLocked()
	f.statuses[h] = &fakeStatus{code: OK}
	f.counts.status.made++
	return h
}

func (f *fakeRuntime) tfDeleteStatus(h uintptr) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, live := f.statuses[h]; !live {
		f.t.Errorf("TF_DeleteStatus of unknown or already freed handle %#x", h)
		return
	}
	delete(f.statuses, h)
	f.counts.status.freed++
}

func (f *fakeRuntime) tfGetCode(h uintptr) int32 {
	f.mu.Lock()
	defer f.mu.Unlock()
	return int32(f.statusLocked(h).code)
}

func (f *fakeRuntime) tfMessage(h uintptr) string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.statusLocked(h).message
}

// newCBufferLocked allocates a payload copy and a cBuffer pointing into it.
// The copy is registered in f.buffers, which both tracks liveness and keeps
// the memory reachable while the "native" side owns it.
func (f *fakeRuntime) newCBufferLocked(payload []byte) *cBuffer {
	data := append([]byte(nil), payload...)
	buffer := &cBuffer{}
	if len(data) > 0 {
		buffer.Data = unsafe.Pointer(&data[0])
		buffer.Length = uintptr(len(data))
	}
	f.buffers[buffer] = data
	f.counts.buffer.made++
	return buffer
}

func (f *fakeRuntime) tfGetAllOpList() *cBuffer {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.newCBufferLocked(f.registry)
}

func (f *fakeRuntime) tfDeleteBuffer(buffer *cBuffer) {
	if buffer == nil {
		return // mirrors the C API, deleting NULL is a no-op
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	data, live := f.buffers[buffer]
	if !live {
		f.t.Errorf("TF_DeleteBuffer of unknown or already freed buffer")
		return
	}
	poison(data)
	buffer.Data = nil
	buffer.Length = 0
	delete(f.buffers, buffer)
	f.counts.buffer.freed++
}

func (f *fakeRuntime) tfLoadLibrary(path string, status uintptr) uintptr {
	f.mu.Lock()
	defer f.mu.Unlock()
	plugin, found := f.plugins[path]
	if !found {
		f.setStatusLocked(status, NOT_FOUND,
			fmt.Sprintf("%s: cannot open shared object file: No such file or directory", path))
		return 0
	}
	if plugin.code != OK {
		f.setStatusLocked(status, plugin.code, plugin.message)
		return 0
	}
	f.setStatusLocked(status, OK, "")
	h := f.newHandleLocked()
	f.libraries[h] = &loadedLibrary{
		path: path,
		data: append([]byte(nil), plugin.payload...),
	}
	f.counts.library.made++
	return h
}

func (f *fakeRuntime) tfGetOpList(h uintptr) cBuffer {
	f.mu.Lock()
	defer f.mu.Unlock()
	loaded, live := f.libraries[h]
	if !live {
		f.t.Errorf("TF_GetOpList of unknown or already freed library handle %#x", h)
		return cBuffer{}
	}
	var buffer cBuffer
	if len(loaded.data) > 0 {
		buffer.Data = unsafe.Pointer(&loaded.data[0])
		buffer.Length = uintptr(len(loaded.data))
	}
	return buffer
}

func (f *fakeRuntime) tfDeleteLibraryHandle(h uintptr) {
	f.mu.Lock()
	defer f.mu.Unlock()
	loaded, live := f.libraries[h]
	if !live {
		f.t.Errorf("TF_DeleteLibraryHandle of unknown or already freed handle %#x", h)
		return
	}
	poison(loaded.data) // op-list payloads die with the handle
	delete(f.libraries, h)
	f.counts.library.freed++
}

func (f *fakeRuntime) tfeNewContextOptions() uintptr {
	f.mu.Lock()
	defer f.mu.Unlock()
	h := f.newHandleLocked()
	f.options[h] = true
	f.counts.options.made++
	return h
}

func (f *fakeRuntime) tfeDeleteContextOptions(h uintptr) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if !f.options[h] {
		f.t.Errorf("TFE_DeleteContextOptions of unknown or already freed handle %#x", h)
		return
	}
	delete(f.options, h)
	f.counts.options.freed++
}

func (f *fakeRuntime) tfeNewContext(options, status uintptr) uintptr {
	f.mu.Lock()
	defer f.mu.Unlock()
	if !f.options[options] {
		f.t.Errorf("TFE_NewContext with unknown or already freed options handle %#x", options)
	}
	if f.contextErr != OK {
		f.setStatusLocked(status, f.contextErr, "forced context failure")
		return 0
	}
	f.setStatusLocked(status, OK, "")
	h := f.newHandleLocked()
	f.contexts[h] = true
	f.counts.context.made++
	return h
}

func (f *fakeRuntime) tfeDeleteContext(h uintptr) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if !f.contexts[h] {
		f.t.Errorf("TFE_DeleteContext of unknown or already freed handle %#x", h)
		return
	}
	delete(f.contexts, h)
	f.counts.context.freed++
}

func (f *fakeRuntime) tfeContextListDevices(ctx, status uintptr) uintptr {
	f.mu.Lock()
	defer f.mu.Unlock()
	if !f.contexts[ctx] {
		f.t.Errorf("TFE_ContextListDevices with unknown or already freed context %#x", ctx)
	}
	if f.listDevicesErr != OK {
		f.setStatusLocked(status, f.listDevicesErr, "forced device listing failure")
		return 0
	}
	f.setStatusLocked(status, OK, "")
	h := f.newHandleLocked()
	f.deviceLists[h] = true
	f.counts.deviceList.made++
	return h
}

func (f *fakeRuntime) deviceLocked(h uintptr, index int32, status uintptr) (DeviceSpec, bool) {
	if !f.deviceLists[h] {
		f.t.Errorf("device query with unknown or already freed device list %#x", h)
		return DeviceSpec{}, false
	}
	if index < 0 || int(index) >= len(f.devices) {
		f.setStatusLocked(status, OUT_OF_RANGE, fmt.Sprintf("device index %d out of range", index))
		return DeviceSpec{}, false
	}
	f.setStatusLocked(status, OK, "")
	return f.devices[index], true
}

func (f *fakeRuntime) tfDeviceListCount(h uintptr) int32 {
	f.mu.Lock()
	defer f.mu.Unlock()
	if !f.deviceLists[h] {
		f.t.Errorf("TF_DeviceListCount with unknown or already freed device list %#x", h)
		return 0
	}
	return int32(len(f.devices))
}

func (f *fakeRuntime) tfDeviceListName(h uintptr, index int32, status uintptr) string {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.deviceNameErr != OK {
		f.setStatusLocked(status, f.deviceNameErr, "forced device name failure")
		return ""
	}
	device, ok := f.deviceLocked(h, index, status)
	if !ok {
		return ""
	}
	return device.Name
}

func (f *fakeRuntime) tfDeviceListType(h uintptr, index int32, status uintptr) string {
	f.mu.Lock()
	defer f.mu.Unlock()
	device, ok := f.deviceLocked(h, index, status)
	if !ok {
		return ""
	}
	return string(device.Type)
}

func (f *fakeRuntime) tfDeviceListMemoryBytes(h uintptr, index int32, status uintptr) int64 {
	f.mu.Lock()
	defer f.mu.Unlock()
	device, ok := f.deviceLocked(h, index, status)
	if !ok {
		return 0
	}
	return device.MemoryBytes
}

func (f *fakeRuntime) tfDeleteDeviceList(h uintptr) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if !f.deviceLists[h] {
		f.t.Errorf("TF_DeleteDeviceList of unknown or already freed handle %#x", h)
		return
	}
	delete(f.deviceLists, h)
	f.counts.deviceList.freed++
}

// poison overwrites released payloads so reads after release decode garbage
// instead of silently passing.
func poison(data []byte) {
	for i := range data {
		data[i] = 0xDB
	}
}
