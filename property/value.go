// Copyright (c) 2025, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package property

import (
	"fmt"
	"reflect"

	"github.com/jinzhu/copier"
)

// Value holds exactly one value of an arbitrary concrete type,
// along with that type. The zero Value is empty.
// Values have value semantics: assigning one copies it,
// and [Value.Set] discards whatever was stored before.
type Value struct {
	v   any
	typ reflect.Type
}

// NewValue returns a [Value] holding v.
func NewValue(v any) Value {
	var vl Value
	vl.Set(v)
	return vl
}

// Set replaces the stored value and its type with v.
// Setting nil empties the value.
func (vl *Value) Set(v any) {
	vl.v = v
	vl.typ = reflect.TypeOf(v)
}

// Valid returns whether a value has been stored.
func (vl Value) Valid() bool {
	return vl.typ != nil
}

// Type returns the stored type, or nil for an empty value.
func (vl Value) Type() reflect.Type {
	return vl.typ
}

// Any returns the stored value as an any.
func (vl Value) Any() any {
	return vl.v
}

func (vl Value) String() string {
	if !vl.Valid() {
		return "<empty>"
	}
	return fmt.Sprintf("%v (%s)", vl.v, vl.typ)
}

// Clone returns a deep copy of the value, so that mutating
// the contents of a returned slice, map, or pointer does
// not affect the original.
func (vl Value) Clone() (Value, error) {
	if !vl.Valid() {
		return vl, nil
	}
	rv := reflect.ValueOf(vl.v)
	var dst reflect.Value
	switch vl.typ.Kind() {
	case reflect.Pointer:
		if rv.IsNil() {
			return vl, nil
		}
		dst = reflect.New(vl.typ.Elem())
	case reflect.Slice, reflect.Map:
		if rv.IsNil() {
			return vl, nil
		}
		dst = reflect.New(vl.typ)
	case reflect.Struct:
		dst = reflect.New(vl.typ)
	default:
		return vl, nil
	}
	err := copier.CopyWithOption(dst.Interface(), vl.v, copier.Option{DeepCopy: true})
	if err != nil {
		return Value{}, fmt.Errorf("property.Value Clone %s: %w", vl.typ, err)
	}
	if vl.typ.Kind() == reflect.Pointer {
		return NewValue(dst.Interface()), nil
	}
	return NewValue(dst.Elem().Interface()), nil
}

// As returns the stored value as type T. It fails with an error
// wrapping [ErrTypeMismatch] if the value is empty or the stored
// type is not exactly T; no conversions are performed.
func As[T any](vl Value) (T, error) {
	var z T
	if !vl.Valid() {
		return z, fmt.Errorf("%w: requested %s from an empty value", ErrTypeMismatch, typeOf[T]())
	}
	if want := typeOf[T](); vl.typ != want {
		return z, fmt.Errorf("%w: requested %s, stored %s", ErrTypeMismatch, want, vl.typ)
	}
	return vl.v.(T), nil
}

// typeOf returns the reflect.Type of T, including interface types.
func typeOf[T any]() reflect.Type {
	return reflect.TypeFor[T]()
}
