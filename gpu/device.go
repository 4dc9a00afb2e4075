// Copyright (c) 2024, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package gpu

import (
	"fmt"

	"github.com/cogentcore/webgpu/wgpu"
)

// Device is a WebGPU device with the instance and adapter it came from.
type Device struct {
	Instance *wgpu.Instance
	Adapter  *wgpu.Adapter
	Device   *wgpu.Device
}

// NewDevice returns a [Device] on the default high performance adapter.
// It fails when no adapter is available, as on headless machines
// without a software renderer.
func NewDevice() (*Device, error) {
	inst := wgpu.CreateInstance(nil)
	adapter, err := inst.RequestAdapter(&wgpu.RequestAdapterOptions{
		PowerPreference: wgpu.PowerPreferenceHighPerformance,
	})
	if err != nil {
		inst.Release()
		return nil, fmt.Errorf("gpu.NewDevice: request adapter: %w", err)
	}
	dev, err := adapter.RequestDevice(nil)
	if err != nil {
		adapter.Release()
		inst.Release()
		return nil, fmt.Errorf("gpu.NewDevice: request device: %w", err)
	}
	return &Device{Instance: inst, Adapter: adapter, Device: dev}, nil
}

// NewBuffer returns a new [Buffer] on the device.
func (dv *Device) NewBuffer(name string, usage wgpu.BufferUsage) *Buffer {
	return NewBuffer(dv.Device, name, usage)
}

// WaitDone blocks until the device has finished all submitted work.
func (dv *Device) WaitDone() {
	dv.Device.Poll(true, nil)
}

// Release releases the device along with its adapter and instance.
func (dv *Device) Release() {
	if dv.Device != nil {
		dv.Device.Release()
		dv.Device = nil
	}
	if dv.Adapter != nil {
		dv.Adapter.Release()
		dv.Adapter = nil
	}
	if dv.Instance != nil {
		dv.Instance.Release()
		dv.Instance = nil
	}
}
