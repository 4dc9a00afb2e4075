// Copyright (c) 2025, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package task

import (
	"fmt"
	"log/slog"

	"cogentcore.org/pipeline/base/keylist"
	"cogentcore.org/pipeline/property"
)

// Switch runs exactly one of its cases, chosen by the value of
// a selector input of enumerated type E. There is no default
// case: a selector value without a case is an [ErrUnhandledCase].
//
// The signature of a Switch is the selector plus the union of the
// signatures of its cases, in the order the cases were added; when
// two cases declare the same name, the first declaration is used.
type Switch[E comparable] struct {
	Base
	selector property.ID
	cases    keylist.List[E, Task]
	memSize  int
}

// NewSwitch returns an empty [Switch] selecting on the input
// named selector.
func NewSwitch[E comparable](name, selector string) *Switch[E] {
	sel := property.NewSpec[E](selector)
	return &Switch[E]{
		Base:     Base{name: name, inputs: []property.Spec{sel}},
		selector: sel.ID,
	}
}

// Case adds t as the task run when the selector equals value.
// Each value may have only one case, and the selector name must
// not also be one of t's parameters.
func (sw *Switch[E]) Case(value E, t Task) error {
	if _, has := property.Find(t.Inputs(), sw.selector); has {
		return fmt.Errorf("task.Switch %s: selector %s is an input of %s", sw.name, sw.selector, t.Name())
	}
	if _, has := property.Find(t.Outputs(), sw.selector); has {
		return fmt.Errorf("task.Switch %s: selector %s is an output of %s", sw.name, sw.selector, t.Name())
	}
	if err := sw.cases.Add(value, t); err != nil {
		return fmt.Errorf("task.Switch %s: %w", sw.name, err)
	}
	sw.inputs = property.Merge(sw.inputs, t.Inputs()...)
	sw.outputs = property.Merge(sw.outputs, t.Outputs()...)
	sw.memSize = 0
	return nil
}

// Selector returns the name of the selector input.
func (sw *Switch[E]) Selector() property.ID { return sw.selector }

// Cases returns the case values in the order they were added.
func (sw *Switch[E]) Cases() []E { return sw.cases.Keys }

// Run reads the selector and runs the matching case with the
// same context.
func (sw *Switch[E]) Run(c *Context) error {
	sel, err := In[E](c, sw.selector)
	if err != nil {
		return fmt.Errorf("task.Switch %s: %w", sw.name, err)
	}
	t, ok := sw.cases.AtTry(sel)
	if !ok {
		return fmt.Errorf("%w: task.Switch %s has no case for %v", ErrUnhandledCase, sw.name, sel)
	}
	slog.Debug("task.Switch run", "switch", sw.name, "case", sel, "task", t.Name())
	if err := t.Run(c); err != nil {
		return fmt.Errorf("task.Switch %s case %v: %w", sw.name, sel, err)
	}
	return nil
}

// MemSize returns the size of the switch plus that of all cases.
// It is cached until the next [Switch.Case] on this switch.
func (sw *Switch[E]) MemSize() int {
	if sw.memSize == 0 {
		sz := sizeOf(sw)
		for _, t := range sw.cases.Values {
			sz += t.MemSize()
		}
		sw.memSize = sz
	}
	return sw.memSize
}
