// Copyright (c) 2025, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package property

import "unique"

// ID is an interned property identifier. Two IDs are equal
// iff they were made from equal names, and comparing them
// compares a single pointer rather than the name strings.
// The zero ID is not a valid identifier.
type ID struct {
	h unique.Handle[string]
}

// Name returns the [ID] for the given human-readable name.
func Name(name string) ID {
	return ID{h: unique.Make(name)}
}

// IsValid returns whether the ID was made with [Name].
func (id ID) IsValid() bool {
	return id != ID{}
}

// String returns the name the ID was made from.
func (id ID) String() string {
	if !id.IsValid() {
		return "<invalid>"
	}
	return id.h.Value()
}

// Names returns the IDs for the given names, in order.
func Names(names ...string) []ID {
	ids := make([]ID, len(names))
	for i, n := range names {
		ids[i] = Name(n)
	}
	return ids
}
