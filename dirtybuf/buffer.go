// Copyright (c) 2025, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package dirtybuf

import (
	"fmt"

	"cogentcore.org/pipeline/base/errors"
)

var (
	// ErrResourceUnavailable is returned when the [Provider] cannot
	// resize or expose the backing storage.
	ErrResourceUnavailable = errors.New("buffer resource unavailable")

	// ErrOutOfRange is returned for a span that is inverted or
	// extends past the end of the buffer.
	ErrOutOfRange = errors.New("buffer span out of range")
)

// Provider owns the backing storage of a [Buffer].
type Provider interface {
	// ResizeBuffer resizes or allocates the backing storage
	// to size bytes, preserving the existing prefix.
	ResizeBuffer(size int) error

	// BufferBytes returns the current backing storage, which
	// must be at least as long as the last requested size.
	// The result may be invalidated by the next ResizeBuffer.
	BufferBytes() ([]byte, error)
}

// Buffer is a resizable byte buffer that records the smallest single
// range covering every byte written since the last flush, so that an
// external flush step can synchronize only that range.
//
// The dirty range is a single bounding interval: two disjoint writes
// make the bytes between them dirty too. Clearing the dirty range is
// the job of the flush step ([Flush] or a custom one calling
// [Buffer.ClearDirty]); the buffer never clears it on its own.
//
// A Buffer is not safe for concurrent use.
type Buffer struct {
	provider Provider
	size     int
	dirty    Range

	// data is the cached backing view, valid while resident.
	data     []byte
	resident bool
}

// New returns an empty [Buffer] backed by p.
func New(p Provider) *Buffer {
	return &Buffer{provider: p}
}

// Size returns the current size of the buffer in bytes.
func (b *Buffer) Size() int { return b.size }

// Dirty returns the range written since the last flush.
func (b *Buffer) Dirty() Range { return b.dirty }

// ClearDirty empties the dirty range. It is called by the flush
// step after it has committed the dirty bytes.
func (b *Buffer) ClearDirty() { b.dirty = Range{} }

// Resize sets the size of the buffer. Growing makes the new bytes
// dirty, because they are not initialized in the backing store.
// Shrinking clamps the dirty range into the new size.
// If the provider fails, the buffer is left unchanged.
func (b *Buffer) Resize(n int) error {
	if n < 0 {
		return fmt.Errorf("%w: dirtybuf.Buffer Resize to %d", ErrOutOfRange, n)
	}
	if n == b.size {
		return nil
	}
	dirty := b.dirty
	if n > b.size {
		if dirty.Empty() {
			dirty = Range{Lo: b.size, Hi: n}
		} else {
			dirty.Hi = n
		}
	} else {
		dirty = dirty.Clamp(n)
		if dirty.Empty() {
			dirty = Range{}
		}
	}
	if err := b.provider.ResizeBuffer(n); err != nil {
		return fmt.Errorf("%w: dirtybuf.Buffer Resize to %d: %w", ErrResourceUnavailable, n, err)
	}
	b.size = n
	b.dirty = dirty
	b.data = nil
	b.resident = false
	return nil
}

// materialize fetches the backing view from the provider
// if it is not already resident.
func (b *Buffer) materialize() error {
	if b.resident {
		return nil
	}
	data, err := b.provider.BufferBytes()
	if err != nil {
		return fmt.Errorf("%w: dirtybuf.Buffer: %w", ErrResourceUnavailable, err)
	}
	if len(data) < b.size {
		return fmt.Errorf("%w: dirtybuf.Buffer: provider returned %d bytes, need %d", ErrResourceUnavailable, len(data), b.size)
	}
	b.data = data[:b.size]
	b.resident = true
	return nil
}

func (b *Buffer) checkSpan(op string, lo, hi int) error {
	if lo < 0 || hi < lo || hi > b.size {
		return fmt.Errorf("%w: dirtybuf.Buffer %s [%d,%d) of size %d", ErrOutOfRange, op, lo, hi, b.size)
	}
	return nil
}

// ReadSlice returns a read-only view of the bytes [lo, hi).
// The view must not be modified; it does not affect the dirty range.
func (b *Buffer) ReadSlice(lo, hi int) ([]byte, error) {
	if err := b.checkSpan("ReadSlice", lo, hi); err != nil {
		return nil, err
	}
	if err := b.materialize(); err != nil {
		return nil, err
	}
	return b.data[lo:hi:hi], nil
}

// WriteSlice returns a mutable view of the bytes [lo, hi),
// merging that span into the dirty range.
func (b *Buffer) WriteSlice(lo, hi int) ([]byte, error) {
	if err := b.checkSpan("WriteSlice", lo, hi); err != nil {
		return nil, err
	}
	if err := b.materialize(); err != nil {
		return nil, err
	}
	b.dirty = b.dirty.Union(Range{Lo: lo, Hi: hi})
	return b.data[lo:hi:hi], nil
}

// FullMutableView returns a mutable view of the whole buffer and
// marks all of it dirty, since writes through it cannot be tracked.
func (b *Buffer) FullMutableView() ([]byte, error) {
	return b.WriteSlice(0, b.size)
}
