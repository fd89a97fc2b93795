// Copyright 2024-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

package tf

import (
	"fmt"
	"slices"

	"github.com/dustin/go-humanize"
)

// DeviceType is the runtime's name for a kind of device, e.g. "CPU" or
// "GPU". It is an open set: plugins and newer runtimes introduce their own
// (e.g. "XLA_CPU"), which is why this is a string type and not an enum.
type DeviceType string

// Device types every runtime build knows about.
const (
	CPU DeviceType = "CPU"
	GPU DeviceType = "GPU"
	TPU DeviceType = "TPU"
)

// DeviceSpec describes one device the runtime can place operations on.
type DeviceSpec struct {
	// Index is the position in the runtime's device list, stable for the
	// lifetime of the context it was listed from.
	Index int

	Type DeviceType

	// Name is the fully qualified device name, e.g.
	// "/job:localhost/replica:0/task:0/device:GPU:0".
	Name string

	// MemoryBytes is the memory associated with the device, 0 when the
	// runtime doesn't report any.
	MemoryBytes int64
}

// String implements fmt.Stringer.
func (d DeviceSpec) String() string {
	if d.MemoryBytes <= 0 {
		return fmt.Sprintf("%s (%s)", d.Name, d.Type)
	}
	return fmt.Sprintf("%s (%s, %s)", d.Name, d.Type, humanize.Bytes(uint64(d.MemoryBytes)))
}

// ListDevices returns the devices the given context can execute on. With no
// further arguments all devices are returned; passing device types restricts
// the result to those types, e.g.
//
//	gpus, err := tf.ListDevices(ctx, tf.GPU)
//
// A runtime with none of the requested devices yields an empty (non-error)
// result. The context is only borrowed: callers keep ownership and finalize
// it themselves.
func ListDevices(ctx *Context, only ...DeviceType) ([]DeviceSpec, error) {
	ctx.AssertValid()
	if err := Load(); err != nil {
		return nil, err
	}
	specs, err := listAllDevices(ctx)
	if err != nil {
		return nil, err
	}
	return filterDevices(specs, only), nil
}

// listAllDevices snapshots the context's device list into Go memory. The
// native list is released before this returns, so callers work on the copy.
func listAllDevices(ctx *Context) ([]DeviceSpec, error) {
	st := newStatus()
	defer st.free()

	devices := capi.ContextListDevices(ctx.ptr, st.ptr)
	if !st.ok() {
		return nil, st.errf("listing devices")
	}
	defer capi.DeleteDeviceList(devices)

	count := int(capi.DeviceListCount(devices))
	specs := make([]DeviceSpec, 0, count)
	for i := 0; i < count; i++ {
		name := capi.DeviceListName(devices, int32(i), st.ptr)
		if !st.ok() {
			return nil, st.errf("querying name of device #%d", i)
		}
		deviceType := capi.DeviceListType(devices, int32(i), st.ptr)
		if !st.ok() {
			return nil, st.errf("querying type of device #%d", i)
		}
		memory := capi.DeviceListMemoryBytes(devices, int32(i), st.ptr)
		if !st.ok() {
			return nil, st.errf("querying memory of device #%d", i)
		}
		specs = append(specs, DeviceSpec{
			Index:       i,
			Type:        DeviceType(deviceType),
			Name:        name,
			MemoryBytes: memory,
		})
	}
	return specs, nil
}

// filterDevices keeps the devices matching any of the requested types.
// Requesting no types means no filtering.
func filterDevices(devices []DeviceSpec, only []DeviceType) []DeviceSpec {
	if len(only) == 0 {
		return devices
	}
	filtered := make([]DeviceSpec, 0, len(devices))
	for _, device := range devices {
		if slices.Contains(only, device.Type) {
			filtered = append(filtered, device)
		}
	}
	return filtered
}
