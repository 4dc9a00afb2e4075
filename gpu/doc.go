// Copyright (c) 2024, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package gpu mirrors [dirtybuf.Buffer] contents into WebGPU device
// buffers, uploading only the bytes written since the last sync.
package gpu
