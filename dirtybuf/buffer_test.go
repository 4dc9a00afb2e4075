// Copyright (c) 2025, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package dirtybuf

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// countingProvider wraps Memory, counting requests and
// optionally failing them.
type countingProvider struct {
	Memory
	resizes, fetches int
	failResize       bool
	failFetch        bool
}

func (cp *countingProvider) ResizeBuffer(size int) error {
	cp.resizes++
	if cp.failResize {
		return errors.New("out of device memory")
	}
	return cp.Memory.ResizeBuffer(size)
}

func (cp *countingProvider) BufferBytes() ([]byte, error) {
	cp.fetches++
	if cp.failFetch {
		return nil, errors.New("device lost")
	}
	return cp.Memory.BufferBytes()
}

func TestRange(t *testing.T) {
	assert.True(t, Range{}.Empty())
	assert.True(t, Range{5, 5}.Empty())
	assert.Equal(t, 0, Range{7, 3}.Len())
	assert.Equal(t, 4, Range{2, 6}.Len())
	assert.Equal(t, Range{2, 9}, Range{2, 6}.Union(Range{4, 9}))
	assert.Equal(t, Range{2, 6}, Range{2, 6}.Union(Range{}))
	assert.Equal(t, Range{4, 9}, Range{}.Union(Range{4, 9}))
	assert.Equal(t, Range{2, 5}, Range{2, 6}.Clamp(5))
	assert.Equal(t, Range{5, 5}, Range{6, 8}.Clamp(5))
	assert.Equal(t, "[2,6)", Range{2, 6}.String())
}

func TestResizeGrow(t *testing.T) {
	b := New(&Memory{})
	assert.Equal(t, 0, b.Size())
	assert.True(t, b.Dirty().Empty())

	require.NoError(t, b.Resize(16))
	assert.Equal(t, 16, b.Size())
	assert.Equal(t, Range{0, 16}, b.Dirty())

	b.ClearDirty()
	require.NoError(t, b.Resize(64))
	assert.Equal(t, Range{16, 64}, b.Dirty())

	// growing with pending writes keeps the low bound
	b.ClearDirty()
	_, err := b.WriteSlice(4, 8)
	require.NoError(t, err)
	require.NoError(t, b.Resize(100))
	assert.Equal(t, Range{4, 100}, b.Dirty())
}

func TestResizeShrink(t *testing.T) {
	b := New(&Memory{})
	require.NoError(t, b.Resize(100))
	b.ClearDirty()

	_, err := b.WriteSlice(10, 90)
	require.NoError(t, err)
	require.NoError(t, b.Resize(50))
	assert.Equal(t, Range{10, 50}, b.Dirty())

	require.NoError(t, b.Resize(5))
	assert.True(t, b.Dirty().Empty())
	assert.LessOrEqual(t, b.Dirty().Hi, b.Size())

	// shrinking never grows the dirty span
	b.ClearDirty()
	require.NoError(t, b.Resize(5))
	for _, n := range []int{4, 3, 0} {
		before := b.Dirty().Len()
		require.NoError(t, b.Resize(n))
		assert.LessOrEqual(t, b.Dirty().Len(), before)
	}
	assert.Error(t, b.Resize(-1))
}

func TestWriteSliceMergeLaw(t *testing.T) {
	spans := []Range{{40, 48}, {2, 6}, {20, 30}, {5, 12}}
	want := Range{2, 48}
	orders := [][]int{{0, 1, 2, 3}, {3, 2, 1, 0}, {1, 3, 0, 2}, {2, 0, 3, 1}}
	for _, order := range orders {
		b := New(&Memory{})
		require.NoError(t, b.Resize(64))
		b.ClearDirty()
		for _, i := range order {
			_, err := b.WriteSlice(spans[i].Lo, spans[i].Hi)
			require.NoError(t, err)
		}
		assert.Equal(t, want, b.Dirty(), "order %v", order)
	}
}

func TestReadWriteViews(t *testing.T) {
	mem := &Memory{}
	b := New(mem)
	require.NoError(t, b.Resize(8))
	b.ClearDirty()

	ws, err := b.WriteSlice(2, 4)
	require.NoError(t, err)
	copy(ws, []byte{7, 9})
	assert.Equal(t, []byte{0, 0, 7, 9, 0, 0, 0, 0}, mem.Bytes())

	rs, err := b.ReadSlice(0, 8)
	require.NoError(t, err)
	assert.Equal(t, []byte{0, 0, 7, 9, 0, 0, 0, 0}, rs)
	assert.Equal(t, Range{2, 4}, b.Dirty())

	_, err = b.ReadSlice(4, 9)
	assert.ErrorIs(t, err, ErrOutOfRange)
	_, err = b.WriteSlice(5, 3)
	assert.ErrorIs(t, err, ErrOutOfRange)
	_, err = b.WriteSlice(-1, 3)
	assert.ErrorIs(t, err, ErrOutOfRange)
	assert.Equal(t, Range{2, 4}, b.Dirty())

	full, err := b.FullMutableView()
	require.NoError(t, err)
	assert.Len(t, full, 8)
	assert.Equal(t, Range{0, 8}, b.Dirty())
}

func TestLazyMaterialize(t *testing.T) {
	cp := &countingProvider{}
	b := New(cp)
	require.NoError(t, b.Resize(32))
	assert.Equal(t, 1, cp.resizes)
	assert.Equal(t, 0, cp.fetches)

	_, err := b.ReadSlice(0, 4)
	require.NoError(t, err)
	_, err = b.WriteSlice(4, 8)
	require.NoError(t, err)
	_, err = b.FullMutableView()
	require.NoError(t, err)
	assert.Equal(t, 1, cp.fetches)

	require.NoError(t, b.Resize(32))
	assert.Equal(t, 1, cp.resizes, "same size does not request a resize")

	require.NoError(t, b.Resize(64))
	_, err = b.ReadSlice(0, 64)
	require.NoError(t, err)
	assert.Equal(t, 2, cp.fetches)
}

func TestResourceUnavailable(t *testing.T) {
	cp := &countingProvider{}
	b := New(cp)
	require.NoError(t, b.Resize(16))
	b.ClearDirty()
	_, err := b.WriteSlice(1, 3)
	require.NoError(t, err)

	cp.failResize = true
	err = b.Resize(1024)
	assert.ErrorIs(t, err, ErrResourceUnavailable)
	assert.Equal(t, 16, b.Size())
	assert.Equal(t, Range{1, 3}, b.Dirty())

	cp.failResize = false
	require.NoError(t, b.Resize(8))
	cp.failFetch = true
	_, err = b.WriteSlice(0, 8)
	assert.ErrorIs(t, err, ErrResourceUnavailable)
	assert.Equal(t, Range{1, 3}, b.Dirty())

	cp.failFetch = false
	_, err = b.WriteSlice(0, 8)
	require.NoError(t, err)
	assert.Equal(t, Range{0, 8}, b.Dirty())

	lim := New(&Memory{Limit: 10})
	assert.ErrorIs(t, lim.Resize(11), ErrResourceUnavailable)
	assert.Equal(t, 0, lim.Size())
}

func TestFlush(t *testing.T) {
	b := New(&Memory{})
	require.NoError(t, b.Resize(16))
	b.ClearDirty()

	calls := 0
	commit := func(off int, data []byte) error {
		calls++
		return nil
	}
	require.NoError(t, Flush(b, commit))
	assert.Equal(t, 0, calls)

	ws, err := b.WriteSlice(3, 5)
	require.NoError(t, err)
	copy(ws, []byte{1, 2})

	var gotOff int
	var got []byte
	require.NoError(t, Flush(b, func(off int, data []byte) error {
		gotOff = off
		got = append([]byte(nil), data...)
		return nil
	}))
	assert.Equal(t, 3, gotOff)
	assert.Equal(t, []byte{1, 2}, got)
	assert.True(t, b.Dirty().Empty())

	_, err = b.WriteSlice(0, 1)
	require.NoError(t, err)
	err = Flush(b, func(off int, data []byte) error { return errors.New("busy") })
	assert.Error(t, err)
	assert.Equal(t, Range{0, 1}, b.Dirty())
}

func TestFlushRetry(t *testing.T) {
	b := New(&Memory{})
	require.NoError(t, b.Resize(4))

	attempts := 0
	err := FlushRetry(context.Background(), b, func(off int, data []byte) error {
		attempts++
		if attempts < 3 {
			return ErrResourceUnavailable
		}
		return nil
	}, 5)
	require.NoError(t, err)
	assert.Equal(t, 3, attempts)
	assert.True(t, b.Dirty().Empty())

	_, err = b.WriteSlice(0, 4)
	require.NoError(t, err)
	attempts = 0
	err = FlushRetry(context.Background(), b, func(off int, data []byte) error {
		attempts++
		return ErrResourceUnavailable
	}, 1)
	assert.ErrorIs(t, err, ErrResourceUnavailable)
	assert.Equal(t, 2, attempts)
	assert.Equal(t, Range{0, 4}, b.Dirty())
}
