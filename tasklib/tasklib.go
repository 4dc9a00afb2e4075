// Copyright (c) 2025, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package tasklib provides stock leaf [task.Function]s for simple
// arithmetic and formatting, for use in graph files and tests.
// Each function has fixed parameter names, documented on its
// constructor; a [task.Group] maps them to local names.
package tasklib

import (
	"fmt"

	"cogentcore.org/pipeline/property"
	"cogentcore.org/pipeline/task"
	"github.com/chewxy/math32"
	"golang.org/x/exp/constraints"
)

// Number is the constraint for numeric parameter types.
type Number interface {
	constraints.Integer | constraints.Float
}

var (
	idA      = property.Name("a")
	idB      = property.Name("b")
	idT      = property.Name("t")
	idIn     = property.Name("in")
	idOut    = property.Name("out")
	idFactor = property.Name("factor")
	idLo     = property.Name("lo")
	idHi     = property.Name("hi")
)

// binary returns a Function computing out = op(a, b).
func binary[T any](name string, op func(a, b T) T) *task.Function {
	return task.NewFunction(name,
		[]property.Spec{property.NewSpec[T]("a"), property.NewSpec[T]("b")},
		[]property.Spec{property.NewSpec[T]("out")},
		func(c *task.Context) error {
			a, err := task.In[T](c, idA)
			if err != nil {
				return err
			}
			b, err := task.In[T](c, idB)
			if err != nil {
				return err
			}
			return c.SetOutput(idOut, op(a, b))
		})
}

// Add returns a Function writing out = a + b.
func Add[T Number](name string) *task.Function {
	return binary(name, func(a, b T) T { return a + b })
}

// Mul returns a Function writing out = a * b.
func Mul[T Number](name string) *task.Function {
	return binary(name, func(a, b T) T { return a * b })
}

// Scale returns a Function writing out = in * factor,
// where factor is a fixed value rather than an input.
func Scale[T Number](name string, factor T) *task.Function {
	return task.NewFunction(name,
		[]property.Spec{property.NewSpec[T]("in")},
		[]property.Spec{property.NewSpec[T]("out")},
		func(c *task.Context) error {
			v, err := task.In[T](c, idIn)
			if err != nil {
				return err
			}
			return c.SetOutput(idOut, v*factor)
		})
}

// ScaleBy returns a Function writing out = in * factor,
// with factor an input.
func ScaleBy[T Number](name string) *task.Function {
	return task.NewFunction(name,
		[]property.Spec{property.NewSpec[T]("in"), property.NewSpec[T]("factor")},
		[]property.Spec{property.NewSpec[T]("out")},
		func(c *task.Context) error {
			v, err := task.In[T](c, idIn)
			if err != nil {
				return err
			}
			f, err := task.In[T](c, idFactor)
			if err != nil {
				return err
			}
			return c.SetOutput(idOut, v*f)
		})
}

// Not returns a Function writing out = !in for bools.
func Not(name string) *task.Function {
	return task.NewFunction(name,
		[]property.Spec{property.NewSpec[bool]("in")},
		[]property.Spec{property.NewSpec[bool]("out")},
		func(c *task.Context) error {
			v, err := task.In[bool](c, idIn)
			if err != nil {
				return err
			}
			return c.SetOutput(idOut, !v)
		})
}

// Lerp returns a Function writing out = a + (b-a)*t for float32,
// as used for blending between two layers.
func Lerp(name string) *task.Function {
	return task.NewFunction(name,
		[]property.Spec{property.NewSpec[float32]("a"), property.NewSpec[float32]("b"), property.NewSpec[float32]("t")},
		[]property.Spec{property.NewSpec[float32]("out")},
		func(c *task.Context) error {
			a, err := task.In[float32](c, idA)
			if err != nil {
				return err
			}
			b, err := task.In[float32](c, idB)
			if err != nil {
				return err
			}
			t, err := task.In[float32](c, idT)
			if err != nil {
				return err
			}
			return c.SetOutput(idOut, a+(b-a)*t)
		})
}

// Clamp returns a Function writing in limited to [lo, hi] for float32.
func Clamp(name string) *task.Function {
	return task.NewFunction(name,
		[]property.Spec{property.NewSpec[float32]("in"), property.NewSpec[float32]("lo"), property.NewSpec[float32]("hi")},
		[]property.Spec{property.NewSpec[float32]("out")},
		func(c *task.Context) error {
			v, err := task.In[float32](c, idIn)
			if err != nil {
				return err
			}
			lo, err := task.In[float32](c, idLo)
			if err != nil {
				return err
			}
			hi, err := task.In[float32](c, idHi)
			if err != nil {
				return err
			}
			return c.SetOutput(idOut, math32.Max(lo, math32.Min(v, hi)))
		})
}

// Format returns a Function writing the string out = fmt.Sprintf(format, in).
func Format[T any](name, format string) *task.Function {
	return task.NewFunction(name,
		[]property.Spec{property.NewSpec[T]("in")},
		[]property.Spec{property.NewSpec[string]("out")},
		func(c *task.Context) error {
			v, err := task.In[T](c, idIn)
			if err != nil {
				return err
			}
			return c.SetOutput(idOut, fmt.Sprintf(format, v))
		})
}
