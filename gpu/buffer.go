// Copyright (c) 2024, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package gpu

import (
	"fmt"

	"cogentcore.org/pipeline/base/errors"
	"cogentcore.org/pipeline/base/slicesx"
	"cogentcore.org/pipeline/dirtybuf"
	"github.com/cogentcore/webgpu/wgpu"
)

// CopyAlign is the alignment in bytes required for buffer
// copy offsets and sizes by WebGPU.
const CopyAlign = 4

// Buffer is a [dirtybuf.Provider] that keeps a host staging copy
// of the data and mirrors it into a WebGPU device buffer.
// Use it as the provider of a [dirtybuf.Buffer] and call [Buffer.Sync]
// to upload only the bytes written since the last sync.
// With a nil device, only the host memory is maintained.
type Buffer struct {
	// Name is used as the label of the device buffer.
	Name string

	// Usage is the usage of the device buffer. Copy source and
	// destination usages are always added.
	Usage wgpu.BufferUsage

	device *wgpu.Device
	queue  *wgpu.Queue

	// host is the staging copy exposed to the dirtybuf.Buffer.
	host []byte

	// buffer is the device buffer, of AllocSize bytes.
	buffer    *wgpu.Buffer
	allocSize int
}

// NewBuffer returns a new [Buffer] on the given device.
func NewBuffer(device *wgpu.Device, name string, usage wgpu.BufferUsage) *Buffer {
	gb := &Buffer{Name: name, Usage: usage, device: device}
	if device != nil {
		gb.queue = device.GetQueue()
	}
	return gb
}

// MemSizeAlign returns the size aligned according to align byte increments
// e.g., if align = 16 and size = 12, it returns 16
func MemSizeAlign(size, align int) int {
	if size%align == 0 {
		return size
	}
	nb := size / align
	return (nb + 1) * align
}

// AlignRange expands r outward to multiples of align,
// without going past limit, which must itself be aligned.
func AlignRange(r dirtybuf.Range, align, limit int) dirtybuf.Range {
	if r.Empty() {
		return dirtybuf.Range{}
	}
	lo := r.Lo - r.Lo%align
	hi := min(MemSizeAlign(r.Hi, align), limit)
	return dirtybuf.Range{Lo: lo, Hi: hi}
}

// AllocSize returns the size of the device buffer in bytes.
func (gb *Buffer) AllocSize() int { return gb.allocSize }

// DeviceBuffer returns the device buffer, which is nil
// before the first resize or without a device.
func (gb *Buffer) DeviceBuffer() *wgpu.Buffer { return gb.buffer }

// ResizeBuffer resizes the host copy and, if the aligned size changes,
// replaces the device buffer, copying the preserved prefix on the device.
// On failure, neither copy is changed.
func (gb *Buffer) ResizeBuffer(size int) error {
	alloc := MemSizeAlign(size, CopyAlign)
	if gb.device != nil && alloc != gb.allocSize {
		if err := gb.replaceDeviceBuffer(alloc); err != nil {
			return err
		}
	}
	gb.host = slicesx.SetLength(gb.host, size)
	return nil
}

func (gb *Buffer) replaceDeviceBuffer(alloc int) error {
	if alloc == 0 {
		gb.Release()
		return nil
	}
	buf, err := gb.device.CreateBuffer(&wgpu.BufferDescriptor{
		Label:            gb.Name,
		Size:             uint64(alloc),
		Usage:            gb.Usage | wgpu.BufferUsageCopyDst | wgpu.BufferUsageCopySrc,
		MappedAtCreation: false,
	})
	if errors.Log(err) != nil {
		return err
	}
	if keep := min(alloc, gb.allocSize); keep > 0 && gb.buffer != nil {
		if err := gb.copyOnDevice(gb.buffer, buf, keep); err != nil {
			buf.Release()
			return err
		}
	}
	gb.Release()
	gb.buffer = buf
	gb.allocSize = alloc
	return nil
}

// copyOnDevice copies the first n bytes of src to dst on the device.
func (gb *Buffer) copyOnDevice(src, dst *wgpu.Buffer, n int) error {
	cmd, err := gb.device.CreateCommandEncoder(nil)
	if errors.Log(err) != nil {
		return err
	}
	defer cmd.Release()
	if err := cmd.CopyBufferToBuffer(src, 0, dst, 0, uint64(n)); errors.Log(err) != nil {
		return err
	}
	cmdBuffer, err := cmd.Finish(nil)
	if errors.Log(err) != nil {
		return err
	}
	gb.queue.Submit(cmdBuffer)
	cmdBuffer.Release()
	return nil
}

// BufferBytes returns the host staging memory.
func (gb *Buffer) BufferBytes() ([]byte, error) {
	return gb.host, nil
}

// Sync uploads the dirty range of b to the device buffer,
// expanded to [CopyAlign], and clears the dirty range.
// The host copy must be the provider of b.
func (gb *Buffer) Sync(b *dirtybuf.Buffer) error {
	return dirtybuf.Flush(b, gb.commit)
}

func (gb *Buffer) commit(off int, data []byte) error {
	if gb.device == nil {
		return nil
	}
	if gb.buffer == nil {
		return fmt.Errorf("gpu.Buffer Sync %s: device buffer is nil", gb.Name)
	}
	span := AlignRange(dirtybuf.Range{Lo: off, Hi: off + len(data)}, CopyAlign, gb.allocSize)
	src := gb.host[span.Lo:min(span.Hi, len(gb.host))]
	if len(src) < span.Len() {
		// the aligned tail extends past the host data
		src = slicesx.SetLength(append([]byte(nil), src...), span.Len())
	}
	return errors.Log(gb.queue.WriteBuffer(gb.buffer, uint64(span.Lo), src))
}

// Release releases the device buffer.
func (gb *Buffer) Release() {
	if gb.buffer != nil {
		gb.buffer.Release()
		gb.buffer = nil
	}
	gb.allocSize = 0
}
