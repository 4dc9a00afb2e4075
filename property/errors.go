// Copyright (c) 2025, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package property

import "cogentcore.org/pipeline/base/errors"

var (
	// ErrUnbound is returned when a property name has no
	// binding anywhere in the active scope chain.
	ErrUnbound = errors.New("unbound property")

	// ErrTypeMismatch is returned when a property is read or
	// written as a type other than the one it carries.
	ErrTypeMismatch = errors.New("property type mismatch")
)
