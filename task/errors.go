// Copyright (c) 2025, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package task

import "cogentcore.org/pipeline/base/errors"

var (
	// ErrUnhandledCase is returned when a [Switch] selector
	// has a value for which there is no case.
	ErrUnhandledCase = errors.New("unhandled switch case")

	// ErrMissingOutput is returned by [Checked] tasks that
	// return without writing a declared output.
	ErrMissingOutput = errors.New("declared output not written")
)
