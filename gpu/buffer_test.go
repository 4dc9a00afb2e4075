// Copyright (c) 2024, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package gpu

import (
	"testing"

	"cogentcore.org/pipeline/dirtybuf"
	"github.com/cogentcore/webgpu/wgpu"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemSizeAlign(t *testing.T) {
	assert.Equal(t, 16, MemSizeAlign(12, 16))
	assert.Equal(t, 16, MemSizeAlign(16, 16))
	assert.Equal(t, 8, MemSizeAlign(5, 4))
	assert.Equal(t, 0, MemSizeAlign(0, 4))
}

func TestAlignRange(t *testing.T) {
	assert.Equal(t, dirtybuf.Range{Lo: 4, Hi: 12}, AlignRange(dirtybuf.Range{Lo: 5, Hi: 10}, 4, 16))
	assert.Equal(t, dirtybuf.Range{Lo: 0, Hi: 8}, AlignRange(dirtybuf.Range{Lo: 0, Hi: 8}, 4, 16))
	assert.Equal(t, dirtybuf.Range{Lo: 12, Hi: 16}, AlignRange(dirtybuf.Range{Lo: 13, Hi: 15}, 4, 16))
	assert.True(t, AlignRange(dirtybuf.Range{}, 4, 16).Empty())
}

func TestHostOnlyBuffer(t *testing.T) {
	gb := NewBuffer(nil, "verts", 0)
	b := dirtybuf.New(gb)
	require.NoError(t, b.Resize(10))
	ws, err := b.WriteSlice(2, 6)
	require.NoError(t, err)
	copy(ws, []byte{1, 2, 3, 4})

	host, err := gb.BufferBytes()
	require.NoError(t, err)
	assert.Equal(t, []byte{0, 0, 1, 2, 3, 4, 0, 0, 0, 0}, host)
	assert.Equal(t, 0, gb.AllocSize())
	assert.Nil(t, gb.DeviceBuffer())

	require.NoError(t, gb.Sync(b))
	assert.True(t, b.Dirty().Empty())
}

func TestDeviceBuffer(t *testing.T) {
	dv, err := NewDevice()
	if err != nil {
		t.Skip("no WebGPU adapter:", err)
	}
	defer dv.Release()

	gb := dv.NewBuffer("verts", wgpu.BufferUsageVertex)
	defer gb.Release()
	b := dirtybuf.New(gb)
	require.NoError(t, b.Resize(10))
	assert.Equal(t, 12, gb.AllocSize())
	require.NotNil(t, gb.DeviceBuffer())

	ws, err := b.WriteSlice(1, 3)
	require.NoError(t, err)
	copy(ws, []byte{7, 8})
	require.NoError(t, gb.Sync(b))
	assert.True(t, b.Dirty().Empty())

	require.NoError(t, b.Resize(30))
	assert.Equal(t, 32, gb.AllocSize())
	require.NoError(t, gb.Sync(b))
	dv.WaitDone()

	require.NoError(t, b.Resize(0))
	assert.Nil(t, gb.DeviceBuffer())
}
