// Copyright (c) 2025, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package task

import (
	"fmt"
	"log/slog"

	"cogentcore.org/pipeline/property"
)

// Binding is one child of a [Group], with the mappings from the
// child's parameter names to names in the group's local scope.
type Binding struct {
	Task    Task
	Inputs  Mapping
	Outputs Mapping
}

// Group runs a sequence of child tasks in a local scope of its own.
// The group's declared inputs are visible to children under their
// own names; children communicate through local names, later
// children seeing the outputs of earlier ones; and only the group's
// declared outputs are exported back to the caller.
type Group struct {
	Base

	// Children are run in order; order is significant.
	Children []Binding

	memSize int
}

// NewGroup returns an empty [Group] with the given signature.
func NewGroup(name string, inputs, outputs []property.Spec) *Group {
	return &Group{Base: Base{name: name, inputs: inputs, outputs: outputs}}
}

// Add appends t as the last child, with mappings from its
// parameter names to local names (nil for identity),
// and returns the group for chaining.
func (g *Group) Add(t Task, inputs, outputs Mapping) *Group {
	g.Children = append(g.Children, Binding{Task: t, Inputs: inputs, Outputs: outputs})
	g.memSize = 0
	return g
}

// Run executes the children in order in a new local scope and
// exports the group's declared outputs.
func (g *Group) Run(c *Context) error {
	local := property.NewStore(c.Scope)
	for _, sp := range g.inputs {
		vl, err := c.Input(sp.ID)
		if err != nil {
			return fmt.Errorf("task.Group %s: %w", g.name, err)
		}
		local.Set(sp.ID, vl)
	}
	for i, b := range g.Children {
		if err := g.runChild(c, local, i, b); err != nil {
			return err
		}
	}
	for _, sp := range g.outputs {
		vl, err := local.Get(sp.ID)
		if err != nil {
			return fmt.Errorf("task.Group %s output: %w", g.name, err)
		}
		if err := c.SetOutputValue(sp.ID, vl); err != nil {
			return fmt.Errorf("task.Group %s output: %w", g.name, err)
		}
	}
	return nil
}

// runChild runs one child with its inputs bound in the local scope
// and its outputs bound to fresh slots, then copies every written
// slot into the local scope under its mapped name.
func (g *Group) runChild(c *Context, local *property.Store, i int, b Binding) error {
	cc := NewContext(c.Ctx, local)
	if err := bindInputs(cc, local, b.Task, b.Inputs); err != nil {
		return fmt.Errorf("task.Group %s child %d: %w", g.name, i, err)
	}
	outs := b.Task.Outputs()
	slots := make([]property.Value, len(outs))
	for j, sp := range outs {
		cc.BindOutput(sp, &slots[j])
	}
	slog.Debug("task.Group run", "group", g.name, "index", i, "task", b.Task.Name())
	if err := b.Task.Run(cc); err != nil {
		return fmt.Errorf("task.Group %s child %d (%s): %w", g.name, i, b.Task.Name(), err)
	}
	for j, sp := range outs {
		if slots[j].Valid() {
			local.Set(b.Outputs.Map(sp.ID), slots[j])
		}
	}
	return nil
}

// MemSize returns the size of the group plus that of all children.
// It is cached until the next [Group.Add] on this group.
func (g *Group) MemSize() int {
	if g.memSize == 0 {
		sz := sizeOf(g)
		for _, b := range g.Children {
			sz += b.Task.MemSize()
		}
		g.memSize = sz
	}
	return g.memSize
}
