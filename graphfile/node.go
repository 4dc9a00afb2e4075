// Copyright (c) 2025, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package graphfile

// Node kinds.
const (
	KindConstant = "constant"
	KindFunction = "function"
	KindFilter   = "filter"
	KindSwitch   = "switch"
	KindGroup    = "group"
)

// Node describes one task of a graph file.
// Which fields apply depends on Kind.
type Node struct {
	// Kind is one of constant, function, filter, switch, or group.
	Kind string `yaml:"kind" toml:"kind" validate:"required,oneof=constant function filter switch group"`

	// Name names the task in logs and errors.
	Name string `yaml:"name" toml:"name" validate:"required"`

	// Type is the registered value type of a constant,
	// the parameter type of a function, or the selector type of a switch.
	Type string `yaml:"type,omitempty" toml:"type,omitempty" validate:"required_if=Kind constant,required_if=Kind switch"`

	// Value is the value of a constant, converted to Type.
	Value any `yaml:"value,omitempty" toml:"value,omitempty"`

	// Output is the output parameter name of a constant.
	Output string `yaml:"output,omitempty" toml:"output,omitempty" validate:"required_if=Kind constant"`

	// Func is the registered function of a function task.
	Func string `yaml:"func,omitempty" toml:"func,omitempty" validate:"required_if=Kind function"`

	// Args are fixed arguments passed to the function factory.
	Args map[string]any `yaml:"args,omitempty" toml:"args,omitempty"`

	// Condition is the bool input name of a filter.
	Condition string `yaml:"condition,omitempty" toml:"condition,omitempty" validate:"required_if=Kind filter"`

	// Child is the task run by a filter.
	Child *Node `yaml:"child,omitempty" toml:"child,omitempty" validate:"required_if=Kind filter"`

	// Selector is the input name of a switch.
	Selector string `yaml:"selector,omitempty" toml:"selector,omitempty" validate:"required_if=Kind switch"`

	// Cases are the cases of a switch.
	Cases []Case `yaml:"cases,omitempty" toml:"cases,omitempty" validate:"required_if=Kind switch,dive"`

	// Inputs and Outputs are the declared signature of a group.
	Inputs  []Param `yaml:"inputs,omitempty" toml:"inputs,omitempty" validate:"dive"`
	Outputs []Param `yaml:"outputs,omitempty" toml:"outputs,omitempty" validate:"dive"`

	// Children are the tasks of a group, run in order.
	Children []Child `yaml:"children,omitempty" toml:"children,omitempty" validate:"required_if=Kind group,dive"`
}

// Param is a named, typed parameter of a group.
type Param struct {
	Name string `yaml:"name" toml:"name" validate:"required"`
	Type string `yaml:"type" toml:"type" validate:"required"`
}

// Child is one task of a group with the mappings from its parameter
// names to names in the group's local scope.
type Child struct {
	Task    Node              `yaml:"task" toml:"task"`
	Inputs  map[string]string `yaml:"inputs,omitempty" toml:"inputs,omitempty"`
	Outputs map[string]string `yaml:"outputs,omitempty" toml:"outputs,omitempty"`
}

// Case is one case of a switch.
type Case struct {
	Value any  `yaml:"value" toml:"value"`
	Task  Node `yaml:"task" toml:"task"`
}
