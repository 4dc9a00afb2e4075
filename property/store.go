// Copyright (c) 2025, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package property

import (
	"fmt"
	"slices"
)

// Store is one scope of property bindings. Lookups that miss
// locally continue in the parent scope, so an inner scope can
// shadow outer bindings. Writes only ever affect the local scope.
//
// A Store holds its parent by reference without owning it:
// the parent must outlive the child, which holds whenever the
// child is created and discarded within the parent's call frame.
type Store struct {
	parent *Store
	values map[ID]*Value
}

// NewStore returns a new scope whose lookups fall back to parent,
// which is nil for a root scope.
func NewStore(parent *Store) *Store {
	return &Store{parent: parent, values: make(map[ID]*Value)}
}

// Parent returns the enclosing scope, or nil for a root scope.
func (st *Store) Parent() *Store {
	return st.parent
}

// Lookup returns the location bound to id in the nearest scope
// of the chain, or an error wrapping [ErrUnbound]. Empty slots
// created by [Store.Slot] and not yet written are not bindings.
func (st *Store) Lookup(id ID) (*Value, error) {
	for s := st; s != nil; s = s.parent {
		if vl, ok := s.values[id]; ok && vl.Valid() {
			return vl, nil
		}
	}
	return nil, fmt.Errorf("%w: %s", ErrUnbound, id)
}

// Get returns the value bound to id in the nearest scope of the chain.
func (st *Store) Get(id ID) (Value, error) {
	vl, err := st.Lookup(id)
	if err != nil {
		return Value{}, err
	}
	return *vl, nil
}

// Set binds id to vl in the local scope, overwriting any local
// binding. Bindings in parent scopes are never modified.
func (st *Store) Set(id ID, vl Value) {
	if cur, ok := st.values[id]; ok {
		*cur = vl
		return
	}
	st.values[id] = &vl
}

// SetValue is a convenience for Set(id, NewValue(v)).
func (st *Store) SetValue(id ID, v any) {
	st.Set(id, NewValue(v))
}

// Slot returns the local location for id, creating an empty
// binding if there is none in this scope. It never returns a
// location owned by a parent scope.
func (st *Store) Slot(id ID) *Value {
	if vl, ok := st.values[id]; ok {
		return vl
	}
	vl := &Value{}
	st.values[id] = vl
	return vl
}

// Has returns whether id is bound anywhere in the chain.
func (st *Store) Has(id ID) bool {
	_, err := st.Lookup(id)
	return err == nil
}

// HasLocal returns whether id is bound in this scope itself.
func (st *Store) HasLocal(id ID) bool {
	vl, ok := st.values[id]
	return ok && vl.Valid()
}

// Len returns the number of local locations, including empty slots.
func (st *Store) Len() int {
	return len(st.values)
}

// Names returns the sorted names of the local locations.
func (st *Store) Names() []string {
	names := make([]string, 0, len(st.values))
	for id := range st.values {
		names = append(names, id.String())
	}
	slices.Sort(names)
	return names
}

// Get returns the value bound to id in the scope chain of st as type T.
func Get[T any](st *Store, id ID) (T, error) {
	vl, err := st.Get(id)
	if err != nil {
		var z T
		return z, err
	}
	v, err := As[T](vl)
	if err != nil {
		return v, fmt.Errorf("%s: %w", id, err)
	}
	return v, nil
}
