// Copyright (c) 2025, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package graphfile

import (
	"fmt"
	"math"
	"reflect"
	"slices"
	"strconv"

	"cogentcore.org/pipeline/property"
	"cogentcore.org/pipeline/task"
	"cogentcore.org/pipeline/tasklib"
	"github.com/adrg/strutil"
	"github.com/adrg/strutil/metrics"
)

// Factory makes a leaf task for a function node. typ is the node's
// Type (possibly empty) and args its fixed arguments.
type Factory func(name, typ string, args map[string]any) (task.Task, error)

// caseAdder is a switch under construction.
type caseAdder interface {
	task.Task
	addCase(value any, t task.Task) error
}

type switchOf[E comparable] struct {
	*task.Switch[E]
}

func (sw switchOf[E]) addCase(value any, t task.Task) error {
	e, ok := value.(E)
	if !ok {
		return fmt.Errorf("case value %v is %T, not %s", value, value, reflect.TypeFor[E]())
	}
	return sw.Case(e, t)
}

// typeEntry holds the operations needed for one registered value type.
type typeEntry struct {
	typ       reflect.Type
	convert   func(v any) (any, error)
	parse     func(s string) (any, error)
	constant  func(name, output string, v any) task.Task
	newSwitch func(name, selector string) caseAdder
	spec      func(name string) property.Spec
}

// Registry holds the value types and leaf functions
// that graph files may refer to by name.
type Registry struct {
	// Wrap, if set, is applied to every task built from a node,
	// for example to add tracing.
	Wrap func(t task.Task) task.Task

	types map[string]*typeEntry
	funcs map[string]Factory
}

// NewRegistry returns a [Registry] with the builtin types
// (bool, int, float32, float64, string) and the [tasklib] functions.
func NewRegistry() *Registry {
	r := &Registry{types: make(map[string]*typeEntry), funcs: make(map[string]Factory)}
	RegisterType(r, "bool", convertBool, strconv.ParseBool)
	RegisterType(r, "int", convertInt, strconv.Atoi)
	RegisterType(r, "float32", convertFloat32, func(s string) (float32, error) {
		f, err := strconv.ParseFloat(s, 32)
		return float32(f), err
	})
	RegisterType(r, "float64", convertFloat64, func(s string) (float64, error) {
		return strconv.ParseFloat(s, 64)
	})
	RegisterType(r, "string", convertString, func(s string) (string, error) { return s, nil })
	registerBuiltins(r)
	return r
}

// RegisterType registers the value type T under name. convert turns
// a decoded file value into a T, and parse turns a command-line string
// into a T.
func RegisterType[T comparable](r *Registry, name string, convert func(v any) (T, error), parse func(s string) (T, error)) {
	r.types[name] = &typeEntry{
		typ: reflect.TypeFor[T](),
		convert: func(v any) (any, error) {
			return convert(v)
		},
		parse: func(s string) (any, error) {
			return parse(s)
		},
		constant: func(name, output string, v any) task.Task {
			return task.NewConstant(name, output, v.(T))
		},
		newSwitch: func(name, selector string) caseAdder {
			return switchOf[T]{task.NewSwitch[T](name, selector)}
		},
		spec: property.NewSpec[T],
	}
}

// RegisterFunc registers a leaf function factory under name.
func (r *Registry) RegisterFunc(name string, f Factory) {
	r.funcs[name] = f
}

// Types returns the sorted names of the registered types.
func (r *Registry) Types() []string {
	names := make([]string, 0, len(r.types))
	for n := range r.types {
		names = append(names, n)
	}
	slices.Sort(names)
	return names
}

// Funcs returns the sorted names of the registered functions.
func (r *Registry) Funcs() []string {
	names := make([]string, 0, len(r.funcs))
	for n := range r.funcs {
		names = append(names, n)
	}
	slices.Sort(names)
	return names
}

func (r *Registry) lookupType(name string) (*typeEntry, error) {
	te, ok := r.types[name]
	if !ok {
		return nil, fmt.Errorf("unknown type %q%s", name, suggest(name, r.Types()))
	}
	return te, nil
}

// suggest returns a hint naming the candidate most similar to name,
// or "" if none is close.
func suggest(name string, candidates []string) string {
	best, bestSim := "", 0.5
	for _, c := range candidates {
		if sim := strutil.Similarity(name, c, metrics.NewLevenshtein()); sim >= bestSim {
			best, bestSim = c, sim
		}
	}
	if best == "" {
		return ""
	}
	return fmt.Sprintf(" (did you mean %q?)", best)
}

// Spec returns the parameter spec for the given name and type name.
func (r *Registry) Spec(name, typ string) (property.Spec, error) {
	te, err := r.lookupType(typ)
	if err != nil {
		return property.Spec{}, err
	}
	return te.spec(name), nil
}

// Parse parses s as a value of the named type.
func (r *Registry) Parse(typ, s string) (property.Value, error) {
	te, err := r.lookupType(typ)
	if err != nil {
		return property.Value{}, err
	}
	v, err := te.parse(s)
	if err != nil {
		return property.Value{}, fmt.Errorf("parse %q as %s: %w", s, typ, err)
	}
	return property.NewValue(v), nil
}

// ParseFor parses s as a value of the type of sp,
// which must be a registered type.
func (r *Registry) ParseFor(sp property.Spec, s string) (property.Value, error) {
	for name, te := range r.types {
		if te.typ == sp.Type {
			return r.Parse(name, s)
		}
	}
	return property.Value{}, fmt.Errorf("%s: type %v is not registered", sp.ID, sp.Type)
}

// Convert converts a decoded file value to the named type.
func (r *Registry) Convert(typ string, v any) (property.Value, error) {
	te, err := r.lookupType(typ)
	if err != nil {
		return property.Value{}, err
	}
	cv, err := te.convert(v)
	if err != nil {
		return property.Value{}, err
	}
	return property.NewValue(cv), nil
}

func convertBool(v any) (bool, error) {
	b, ok := v.(bool)
	if !ok {
		return false, fmt.Errorf("%v (%T) is not a bool", v, v)
	}
	return b, nil
}

func convertString(v any) (string, error) {
	s, ok := v.(string)
	if !ok {
		return "", fmt.Errorf("%v (%T) is not a string", v, v)
	}
	return s, nil
}

// convertInt accepts the integer types produced by the YAML and
// TOML decoders, and floats with no fractional part.
func convertInt(v any) (int, error) {
	switch x := v.(type) {
	case int:
		return x, nil
	case int64:
		return int(x), nil
	case uint64:
		if x > math.MaxInt {
			return 0, fmt.Errorf("%d overflows int", x)
		}
		return int(x), nil
	case float64:
		if x != math.Trunc(x) {
			return 0, fmt.Errorf("%v is not an integer", x)
		}
		return int(x), nil
	}
	return 0, fmt.Errorf("%v (%T) is not an int", v, v)
}

func convertFloat64(v any) (float64, error) {
	switch x := v.(type) {
	case float64:
		return x, nil
	case float32:
		return float64(x), nil
	case int:
		return float64(x), nil
	case int64:
		return float64(x), nil
	case uint64:
		return float64(x), nil
	}
	return 0, fmt.Errorf("%v (%T) is not a number", v, v)
}

func convertFloat32(v any) (float32, error) {
	f, err := convertFloat64(v)
	return float32(f), err
}

// registerBuiltins registers the tasklib functions.
func registerBuiltins(r *Registry) {
	numeric := func(op string, f32 func(string) task.Task, f64 func(string) task.Task, i func(string) task.Task) Factory {
		return func(name, typ string, args map[string]any) (task.Task, error) {
			switch typ {
			case "int":
				return i(name), nil
			case "float32":
				return f32(name), nil
			case "float64", "":
				return f64(name), nil
			}
			return nil, fmt.Errorf("%s: unsupported type %q", op, typ)
		}
	}
	r.RegisterFunc("add", numeric("add",
		func(n string) task.Task { return tasklib.Add[float32](n) },
		func(n string) task.Task { return tasklib.Add[float64](n) },
		func(n string) task.Task { return tasklib.Add[int](n) }))
	r.RegisterFunc("mul", numeric("mul",
		func(n string) task.Task { return tasklib.Mul[float32](n) },
		func(n string) task.Task { return tasklib.Mul[float64](n) },
		func(n string) task.Task { return tasklib.Mul[int](n) }))
	r.RegisterFunc("scaleby", numeric("scaleby",
		func(n string) task.Task { return tasklib.ScaleBy[float32](n) },
		func(n string) task.Task { return tasklib.ScaleBy[float64](n) },
		func(n string) task.Task { return tasklib.ScaleBy[int](n) }))
	r.RegisterFunc("scale", func(name, typ string, args map[string]any) (task.Task, error) {
		factor, ok := args["factor"]
		if !ok {
			return nil, fmt.Errorf("scale: missing factor argument")
		}
		switch typ {
		case "int":
			f, err := convertInt(factor)
			if err != nil {
				return nil, fmt.Errorf("scale: %w", err)
			}
			return tasklib.Scale(name, f), nil
		case "float32":
			f, err := convertFloat32(factor)
			if err != nil {
				return nil, fmt.Errorf("scale: %w", err)
			}
			return tasklib.Scale(name, f), nil
		case "float64", "":
			f, err := convertFloat64(factor)
			if err != nil {
				return nil, fmt.Errorf("scale: %w", err)
			}
			return tasklib.Scale(name, f), nil
		}
		return nil, fmt.Errorf("scale: unsupported type %q", typ)
	})
	r.RegisterFunc("not", func(name, typ string, args map[string]any) (task.Task, error) {
		return tasklib.Not(name), nil
	})
	r.RegisterFunc("lerp", func(name, typ string, args map[string]any) (task.Task, error) {
		return tasklib.Lerp(name), nil
	})
	r.RegisterFunc("clamp", func(name, typ string, args map[string]any) (task.Task, error) {
		return tasklib.Clamp(name), nil
	})
	r.RegisterFunc("format", func(name, typ string, args map[string]any) (task.Task, error) {
		format, err := convertString(args["format"])
		if err != nil {
			return nil, fmt.Errorf("format: format argument: %w", err)
		}
		switch typ {
		case "int":
			return tasklib.Format[int](name, format), nil
		case "float32":
			return tasklib.Format[float32](name, format), nil
		case "float64":
			return tasklib.Format[float64](name, format), nil
		case "bool":
			return tasklib.Format[bool](name, format), nil
		case "string", "":
			return tasklib.Format[string](name, format), nil
		}
		return nil, fmt.Errorf("format: unsupported type %q", typ)
	})
}
