// Copyright (c) 2025, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package graphfile

import (
	"fmt"

	"cogentcore.org/pipeline/property"
	"cogentcore.org/pipeline/task"
)

// Build constructs the task tree described by n using the types
// and functions of r. The node should already be validated;
// see [Validate].
func Build(r *Registry, n *Node) (task.Task, error) {
	t, err := build(r, n)
	if err != nil {
		return nil, fmt.Errorf("graphfile.Build %s %q: %w", n.Kind, n.Name, err)
	}
	if r.Wrap != nil {
		t = r.Wrap(t)
	}
	return t, nil
}

func build(r *Registry, n *Node) (task.Task, error) {
	switch n.Kind {
	case KindConstant:
		te, err := r.lookupType(n.Type)
		if err != nil {
			return nil, err
		}
		v, err := te.convert(n.Value)
		if err != nil {
			return nil, err
		}
		return te.constant(n.Name, n.Output, v), nil
	case KindFunction:
		f, ok := r.funcs[n.Func]
		if !ok {
			return nil, fmt.Errorf("unknown function %q%s", n.Func, suggest(n.Func, r.Funcs()))
		}
		return f(n.Name, n.Type, n.Args)
	case KindFilter:
		if n.Child == nil {
			return nil, fmt.Errorf("filter has no child")
		}
		child, err := Build(r, n.Child)
		if err != nil {
			return nil, err
		}
		return task.NewFilter(n.Name, n.Condition, child)
	case KindSwitch:
		return buildSwitch(r, n)
	case KindGroup:
		return buildGroup(r, n)
	}
	return nil, fmt.Errorf("unknown kind %q", n.Kind)
}

func buildSwitch(r *Registry, n *Node) (task.Task, error) {
	te, err := r.lookupType(n.Type)
	if err != nil {
		return nil, err
	}
	sw := te.newSwitch(n.Name, n.Selector)
	for i := range n.Cases {
		cs := &n.Cases[i]
		if cs.Value == nil {
			return nil, fmt.Errorf("case %d has no value", i)
		}
		v, err := te.convert(cs.Value)
		if err != nil {
			return nil, fmt.Errorf("case %d: %w", i, err)
		}
		t, err := Build(r, &cs.Task)
		if err != nil {
			return nil, err
		}
		if err := sw.addCase(v, t); err != nil {
			return nil, err
		}
	}
	return sw, nil
}

func buildGroup(r *Registry, n *Node) (task.Task, error) {
	inputs, err := specs(r, n.Inputs)
	if err != nil {
		return nil, err
	}
	outputs, err := specs(r, n.Outputs)
	if err != nil {
		return nil, err
	}
	g := task.NewGroup(n.Name, inputs, outputs)
	for i := range n.Children {
		ch := &n.Children[i]
		t, err := Build(r, &ch.Task)
		if err != nil {
			return nil, err
		}
		g.Add(t, mapping(ch.Inputs), mapping(ch.Outputs))
	}
	return g, nil
}

func specs(r *Registry, params []Param) ([]property.Spec, error) {
	sps := make([]property.Spec, len(params))
	for i, p := range params {
		sp, err := r.Spec(p.Name, p.Type)
		if err != nil {
			return nil, fmt.Errorf("parameter %s: %w", p.Name, err)
		}
		sps[i] = sp
	}
	return sps, nil
}

func mapping(m map[string]string) task.Mapping {
	if len(m) == 0 {
		return nil
	}
	tm := make(task.Mapping, len(m))
	for from, to := range m {
		tm[property.Name(from)] = property.Name(to)
	}
	return tm
}
