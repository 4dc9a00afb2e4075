// Copyright (c) 2025, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package dirtybuf

import (
	"fmt"

	"cogentcore.org/pipeline/base/slicesx"
)

// Memory is a [Provider] backed by host memory.
type Memory struct {
	// Limit is the largest size that can be allocated, in bytes.
	// Zero means no limit.
	Limit int

	data []byte
}

// ResizeBuffer resizes the host memory, preserving its prefix.
func (m *Memory) ResizeBuffer(size int) error {
	if m.Limit > 0 && size > m.Limit {
		return fmt.Errorf("dirtybuf.Memory: size %d exceeds limit %d", size, m.Limit)
	}
	m.data = slicesx.SetLength(m.data, size)
	return nil
}

// BufferBytes returns the host memory.
func (m *Memory) BufferBytes() ([]byte, error) {
	return m.data, nil
}

// Bytes returns the host memory, for inspection by a flush step.
func (m *Memory) Bytes() []byte { return m.data }
