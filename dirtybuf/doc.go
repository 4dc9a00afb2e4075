// Copyright (c) 2025, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package dirtybuf provides [Buffer], a resizable byte buffer that
// tracks the single smallest range of bytes modified since the last
// flush, so that large resources such as vertex or storage buffers can
// be partially synchronized to their backing store.
//
// Backing storage is owned by a [Provider] and fetched lazily: the
// buffer asks for it on the first access after a resize and caches it
// until the next resize.
package dirtybuf
