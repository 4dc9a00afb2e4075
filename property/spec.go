// Copyright (c) 2025, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package property

import (
	"fmt"
	"reflect"
)

// Spec declares a named, typed parameter that a task
// consumes or produces.
type Spec struct {
	ID   ID
	Type reflect.Type
}

// NewSpec returns a [Spec] for the given name and type T.
func NewSpec[T any](name string) Spec {
	return Spec{ID: Name(name), Type: typeOf[T]()}
}

func (sp Spec) String() string {
	return fmt.Sprintf("%s %s", sp.ID, sp.Type)
}

// Check returns an error wrapping [ErrTypeMismatch]
// if vl does not carry the type of the spec.
func (sp Spec) Check(vl Value) error {
	if !vl.Valid() {
		return fmt.Errorf("%w: %s wants %s, got an empty value", ErrTypeMismatch, sp.ID, sp.Type)
	}
	if vl.typ != sp.Type {
		return fmt.Errorf("%w: %s wants %s, got %s", ErrTypeMismatch, sp.ID, sp.Type, vl.typ)
	}
	return nil
}

// Find returns the spec with the given id in specs, and whether it was found.
func Find(specs []Spec, id ID) (Spec, bool) {
	for _, sp := range specs {
		if sp.ID == id {
			return sp, true
		}
	}
	return Spec{}, false
}

// Merge appends to dst every spec in src whose ID is not already in dst,
// preserving order. It is used to form the union signature of composites.
func Merge(dst []Spec, src ...Spec) []Spec {
	for _, sp := range src {
		if _, has := Find(dst, sp.ID); !has {
			dst = append(dst, sp)
		}
	}
	return dst
}
