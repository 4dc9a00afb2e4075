// Copyright (c) 2025, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package task

import (
	"context"
	"fmt"

	"cogentcore.org/pipeline/property"
)

// Mapping maps a task's parameter names to the names used for
// the same properties in the enclosing scope. Unmapped names
// map to themselves, so a nil Mapping is the identity.
type Mapping map[property.ID]property.ID

// Map returns the enclosing-scope name for the given parameter.
func (m Mapping) Map(param property.ID) property.ID {
	if to, ok := m[param]; ok {
		return to
	}
	return param
}

// Names returns a Mapping from pairs of parameter and scope names:
// Names("src", "albedo", "dst", "lit") maps src to albedo and dst to lit.
// It panics on an odd number of names.
func Names(pairs ...string) Mapping {
	if len(pairs)%2 != 0 {
		panic("task.Names: odd number of names")
	}
	m := make(Mapping, len(pairs)/2)
	for i := 0; i < len(pairs); i += 2 {
		m[property.Name(pairs[i])] = property.Name(pairs[i+1])
	}
	return m
}

type binding struct {
	spec property.Spec
	loc  *property.Value
}

// Context binds the declared parameters of one Run invocation
// to property locations chosen by the caller. It owns neither
// the scope nor the locations, which must outlive the call.
type Context struct {
	// Ctx carries request-scoped values such as tracing spans.
	// It is not used for cancellation.
	Ctx context.Context

	// Scope is the enclosing scope of the invocation.
	Scope *property.Store

	inputs  map[property.ID]binding
	outputs map[property.ID]binding
	writes  map[property.ID]int
}

// NewContext returns an empty [Context] for the given scope.
func NewContext(ctx context.Context, scope *property.Store) *Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return &Context{
		Ctx:     ctx,
		Scope:   scope,
		inputs:  make(map[property.ID]binding),
		outputs: make(map[property.ID]binding),
		writes:  make(map[property.ID]int),
	}
}

// BindInput binds the input parameter sp to the location loc.
func (c *Context) BindInput(sp property.Spec, loc *property.Value) {
	c.inputs[sp.ID] = binding{spec: sp, loc: loc}
}

// BindOutput binds the output parameter sp to the writable location loc.
func (c *Context) BindOutput(sp property.Spec, loc *property.Value) {
	c.outputs[sp.ID] = binding{spec: sp, loc: loc}
}

// Input returns the current value of the bound input parameter id.
func (c *Context) Input(id property.ID) (property.Value, error) {
	b, ok := c.inputs[id]
	if !ok {
		return property.Value{}, fmt.Errorf("%w: input %s is not bound", property.ErrUnbound, id)
	}
	if !b.loc.Valid() {
		return property.Value{}, fmt.Errorf("%w: input %s has no value", property.ErrUnbound, id)
	}
	return *b.loc, nil
}

// SetOutput writes v to the bound output parameter id.
func (c *Context) SetOutput(id property.ID, v any) error {
	return c.SetOutputValue(id, property.NewValue(v))
}

// SetOutputValue writes vl to the bound output parameter id,
// failing with [property.ErrTypeMismatch] if vl does not have
// the declared type of the output.
func (c *Context) SetOutputValue(id property.ID, vl property.Value) error {
	b, ok := c.outputs[id]
	if !ok {
		return fmt.Errorf("%w: output %s is not bound", property.ErrUnbound, id)
	}
	if err := b.spec.Check(vl); err != nil {
		return err
	}
	*b.loc = vl
	c.writes[id]++
	return nil
}

// Written returns whether the output parameter id has been
// written through this context.
func (c *Context) Written(id property.ID) bool {
	return c.writes[id] > 0
}

// In returns the bound input parameter id of c as type T.
func In[T any](c *Context, id property.ID) (T, error) {
	vl, err := c.Input(id)
	if err != nil {
		var z T
		return z, err
	}
	v, err := property.As[T](vl)
	if err != nil {
		return v, fmt.Errorf("input %s: %w", id, err)
	}
	return v, nil
}

// bindInputs binds each declared input of t to the location of
// its mapped name in scope.
func bindInputs(c *Context, scope *property.Store, t Task, inputs Mapping) error {
	for _, sp := range t.Inputs() {
		loc, err := scope.Lookup(inputs.Map(sp.ID))
		if err != nil {
			return fmt.Errorf("task %s input %s: %w", t.Name(), sp.ID, err)
		}
		c.BindInput(sp, loc)
	}
	return nil
}

// Bind returns a [Context] for running t in scope. Each declared
// input is bound to the location of its mapped name anywhere in
// the scope chain, and each declared output to the local slot of
// its mapped name, so results are visible in scope after Run.
func Bind(ctx context.Context, scope *property.Store, t Task, inputs, outputs Mapping) (*Context, error) {
	c := NewContext(ctx, scope)
	if err := bindInputs(c, scope, t, inputs); err != nil {
		return nil, err
	}
	for _, sp := range t.Outputs() {
		c.BindOutput(sp, scope.Slot(outputs.Map(sp.ID)))
	}
	return c, nil
}

// Execute binds t in the root scope and runs it once.
// This is the entry point into a task graph: scope must hold
// every input t needs, and receives its outputs. Errors are
// returned to the caller, not logged.
func Execute(ctx context.Context, t Task, scope *property.Store, inputs, outputs Mapping) error {
	c, err := Bind(ctx, scope, t, inputs, outputs)
	if err != nil {
		return err
	}
	return t.Run(c)
}
