// Copyright (c) 2025, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package task

import (
	"reflect"

	"cogentcore.org/pipeline/property"
)

// Task is a unit of work with a declared signature.
// Run must write a value of the declared type to every
// declared output before returning; this is not checked
// unless the task is wrapped with [Checked].
type Task interface {
	// Name returns a human-readable name used in logs and errors.
	Name() string

	// Inputs returns the parameters the task reads.
	Inputs() []property.Spec

	// Outputs returns the parameters the task writes.
	Outputs() []property.Spec

	// Run performs the work, reading and writing through c.
	Run(c *Context) error

	// MemSize returns an advisory estimate of the memory held
	// by the task, in bytes, for use by external schedulers.
	MemSize() int
}

// Base holds the name and signature shared by all task types.
// The signature does not change after construction.
type Base struct {
	name    string
	inputs  []property.Spec
	outputs []property.Spec
}

func (b *Base) Name() string             { return b.name }
func (b *Base) Inputs() []property.Spec  { return b.inputs }
func (b *Base) Outputs() []property.Spec { return b.outputs }

// sizeOf returns the size of the struct pointed to by t
// plus its signature slices.
func sizeOf(t Task) int {
	sz := int(reflect.TypeOf(t).Elem().Size())
	specSize := int(reflect.TypeFor[property.Spec]().Size())
	return sz + specSize*(len(t.Inputs())+len(t.Outputs()))
}
