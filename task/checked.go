// Copyright (c) 2025, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package task

import "fmt"

// checked wraps a task, failing runs that return without
// writing every declared output.
type checked struct {
	Task
}

// Checked returns t wrapped so that a Run which returns without
// writing every declared output fails with [ErrMissingOutput].
// For a [Filter], this makes a false condition an error.
func Checked(t Task) Task {
	return &checked{Task: t}
}

func (ck *checked) Run(c *Context) error {
	outs := ck.Outputs()
	before := make([]int, len(outs))
	for i, sp := range outs {
		before[i] = c.writes[sp.ID]
	}
	if err := ck.Task.Run(c); err != nil {
		return err
	}
	for i, sp := range outs {
		if c.writes[sp.ID] == before[i] {
			return fmt.Errorf("%w: task %s did not write %s", ErrMissingOutput, ck.Name(), sp.ID)
		}
	}
	return nil
}

func (ck *checked) MemSize() int { return sizeOf(ck) + ck.Task.MemSize() }
