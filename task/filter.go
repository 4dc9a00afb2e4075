// Copyright (c) 2025, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package task

import (
	"fmt"

	"cogentcore.org/pipeline/property"
)

// Filter runs its child only when a bool condition input is true.
// When the condition is false nothing is written, so every bound
// output keeps its previous value.
type Filter struct {
	Base
	condition property.ID
	child     Task
	memSize   int
}

// NewFilter returns a [Filter] running child when the bool input
// named condition is true. The condition name must not also be
// one of the child's parameters.
func NewFilter(name, condition string, child Task) (*Filter, error) {
	cond := property.NewSpec[bool](condition)
	if _, has := property.Find(child.Inputs(), cond.ID); has {
		return nil, fmt.Errorf("task.NewFilter %s: condition %s is an input of %s", name, cond.ID, child.Name())
	}
	if _, has := property.Find(child.Outputs(), cond.ID); has {
		return nil, fmt.Errorf("task.NewFilter %s: condition %s is an output of %s", name, cond.ID, child.Name())
	}
	inputs := append([]property.Spec{cond}, child.Inputs()...)
	return &Filter{
		Base:      Base{name: name, inputs: inputs, outputs: child.Outputs()},
		condition: cond.ID,
		child:     child,
	}, nil
}

// Condition returns the name of the condition input.
func (f *Filter) Condition() property.ID { return f.condition }

// Child returns the filtered task.
func (f *Filter) Child() Task { return f.child }

// Run reads the condition and, if it is true, runs the child
// with the same context.
func (f *Filter) Run(c *Context) error {
	on, err := In[bool](c, f.condition)
	if err != nil {
		return fmt.Errorf("task.Filter %s: %w", f.name, err)
	}
	if !on {
		return nil
	}
	return f.child.Run(c)
}

// MemSize returns the size of the filter plus that of its child,
// computed once.
func (f *Filter) MemSize() int {
	if f.memSize == 0 {
		f.memSize = sizeOf(f) + f.child.MemSize()
	}
	return f.memSize
}
