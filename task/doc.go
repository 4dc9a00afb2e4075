// Copyright (c) 2025, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

/*
Package task provides composable units of rendering work that
exchange data only through named, typed properties.

Every [Task] declares input and output [property.Spec]s and runs
against a [Context], which binds those parameter names to locations
in the caller's [property.Store]. Leaf behavior is supplied by
[Function] and [Constant] tasks; [Group], [Filter], and [Switch]
compose other tasks into sequences, conditionals, and multi-way
branches.

A typical root invocation:

	scope := property.NewStore(nil)
	scope.SetValue(property.Name("width"), 640)
	err := task.Execute(ctx, pass, scope, nil, nil)
	out, err := property.Get[int](scope, property.Name("pixels"))

Execution is synchronous and single-threaded: a composite's Run
returns only after all of its children have returned, and stores
are mutated without synchronization.

A task whose Run returns without writing one of its declared outputs
(for example a [Filter] whose condition is false) leaves the bound
location with whatever it held before. Wrap a task with [Checked]
to turn that into an [ErrMissingOutput] failure instead.

The signature of a [Filter] or [Switch] includes the inputs of every
child it may run, and all of them are bound before Run starts. An
input of a child that will not run (a Filter whose condition is
false, or a Switch case that is not selected) must therefore still
be bound in the scope, or binding fails with [property.ErrUnbound].

Composites cache their MemSize on first call. Build a tree fully
before asking for its size: adding children to a nested [Group] or
[Switch] resets that composite's cache but not its ancestors'.
*/
package task
