// Copyright (c) 2025, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package task

import (
	"fmt"

	"cogentcore.org/pipeline/property"
)

// Constant is a source task with no inputs that always writes
// the same value to its single output.
type Constant struct {
	Base
	value property.Value
}

// NewConstant returns a [Constant] writing value to the output
// parameter named output.
func NewConstant[T any](name, output string, value T) *Constant {
	return &Constant{
		Base:  Base{name: name, outputs: []property.Spec{property.NewSpec[T](output)}},
		value: property.NewValue(value),
	}
}

// Value returns the value written by the constant.
func (k *Constant) Value() property.Value { return k.value }

// Run writes a deep copy of the value, so that consumers
// that modify their input cannot change later runs.
func (k *Constant) Run(c *Context) error {
	vl, err := k.value.Clone()
	if err != nil {
		return fmt.Errorf("task.Constant %s: %w", k.name, err)
	}
	return c.SetOutputValue(k.outputs[0].ID, vl)
}

func (k *Constant) MemSize() int { return sizeOf(k) }

// Func is the signature of the callable run by a [Function].
type Func func(c *Context) error

// Function is a leaf task whose work is done by an external
// callable. This is how concrete rendering operations are
// plugged into a graph.
type Function struct {
	Base
	fn Func
}

// NewFunction returns a [Function] with the given signature
// that runs fn.
func NewFunction(name string, inputs, outputs []property.Spec, fn Func) *Function {
	return &Function{Base: Base{name: name, inputs: inputs, outputs: outputs}, fn: fn}
}

func (f *Function) Run(c *Context) error {
	if f.fn == nil {
		return fmt.Errorf("task.Function %s: nil function", f.name)
	}
	return f.fn(c)
}

func (f *Function) MemSize() int { return sizeOf(f) }
