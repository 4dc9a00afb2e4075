// Copyright (c) 2024, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package slicesx provides additional slice functions
// beyond those in the standard [slices] package.
package slicesx

import "slices"

// SetLength sets the length of the given slice,
// re-using and preserving existing values to the extent possible.
// Newly exposed elements beyond the previous length are zeroed.
func SetLength[E any](s []E, n int) []E {
	ln := len(s)
	switch {
	case n == ln:
		return s
	case n < ln:
		return s[:n]
	}
	s = slices.Grow(s, n-ln)
	s = s[:n]
	clear(s[ln:])
	return s
}
