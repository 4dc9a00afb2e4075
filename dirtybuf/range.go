// Copyright (c) 2025, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package dirtybuf

import "fmt"

// Range is a half-open byte range [Lo, Hi).
// A range with Lo == Hi is empty.
type Range struct {
	Lo, Hi int
}

// Empty returns whether the range contains no bytes.
func (r Range) Empty() bool { return r.Lo >= r.Hi }

// Len returns the number of bytes in the range.
func (r Range) Len() int {
	if r.Empty() {
		return 0
	}
	return r.Hi - r.Lo
}

// Union returns the smallest range containing both r and o.
// An empty range contributes nothing.
func (r Range) Union(o Range) Range {
	switch {
	case o.Empty():
		return r
	case r.Empty():
		return o
	}
	return Range{Lo: min(r.Lo, o.Lo), Hi: max(r.Hi, o.Hi)}
}

// Clamp returns r limited to [0, n). A range that falls
// entirely outside becomes the empty range at n.
func (r Range) Clamp(n int) Range {
	r.Lo = min(max(r.Lo, 0), n)
	r.Hi = min(max(r.Hi, 0), n)
	if r.Empty() {
		return Range{Lo: n, Hi: n}
	}
	return r
}

func (r Range) String() string {
	return fmt.Sprintf("[%d,%d)", r.Lo, r.Hi)
}
