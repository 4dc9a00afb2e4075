// Copyright (c) 2025, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package tasklib

import (
	"context"
	"testing"

	"cogentcore.org/pipeline/property"
	"cogentcore.org/pipeline/task"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func run(t *testing.T, tk task.Task, vals map[string]any) *property.Store {
	scope := property.NewStore(nil)
	for k, v := range vals {
		scope.SetValue(property.Name(k), v)
	}
	require.NoError(t, task.Execute(context.Background(), tk, scope, nil, nil))
	return scope
}

func out[T any](t *testing.T, scope *property.Store) T {
	v, err := property.Get[T](scope, idOut)
	require.NoError(t, err)
	return v
}

func TestArithmetic(t *testing.T) {
	assert.Equal(t, 7, out[int](t, run(t, Add[int]("add"), map[string]any{"a": 3, "b": 4})))
	assert.Equal(t, 12.0, out[float64](t, run(t, Mul[float64]("mul"), map[string]any{"a": 3.0, "b": 4.0})))
	assert.Equal(t, 9, out[int](t, run(t, Scale("x3", 3), map[string]any{"in": 3})))
	assert.Equal(t, float32(1.5), out[float32](t, run(t, ScaleBy[float32]("by"), map[string]any{"in": float32(3), "factor": float32(0.5)})))
	assert.Equal(t, false, out[bool](t, run(t, Not("not"), map[string]any{"in": true})))
}

func TestBlendMath(t *testing.T) {
	assert.InDelta(t, 0.25, out[float32](t, run(t, Lerp("lerp"), map[string]any{"a": float32(0), "b": float32(1), "t": float32(0.25)})), 1e-6)
	assert.Equal(t, float32(1), out[float32](t, run(t, Clamp("clamp"), map[string]any{"in": float32(3), "lo": float32(0), "hi": float32(1)})))
	assert.Equal(t, float32(0), out[float32](t, run(t, Clamp("clamp"), map[string]any{"in": float32(-3), "lo": float32(0), "hi": float32(1)})))
}

func TestFormat(t *testing.T) {
	assert.Equal(t, "layer 2", out[string](t, run(t, Format[int]("fmt", "layer %d"), map[string]any{"in": 2})))
}

func TestTypeMismatch(t *testing.T) {
	scope := property.NewStore(nil)
	scope.SetValue(idA, 1.0)
	scope.SetValue(idB, 2.0)
	err := task.Execute(context.Background(), Add[int]("add"), scope, nil, nil)
	assert.ErrorIs(t, err, property.ErrTypeMismatch)
}
