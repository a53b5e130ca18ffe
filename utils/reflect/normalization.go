/*
   Copyright 2025 The DIRPX Authors.

   Licensed under the Apache License, Version 2.0 (the "License");
   you may not use this file except in compliance with the License.
   You may obtain a copy of the License at

       http://www.apache.org/licenses/LICENSE-2.0

   Unless required by applicable law or agreed to in writing, software
   distributed under the License is distributed on an "AS IS" BASIS,
   WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
   See the License for the specific language governing permissions and
   limitations under the License.
*/

package reflect

import (
	"errors"
	"path"
	"reflect"
	"strings"
)

// MaxUnwrap limits container unwrapping depth (ptr/slice/array/chan).
// Acts as a safety guard against pathological nesting.
const MaxUnwrap = 8

var (
	// ErrReflectNilType is returned when a nil reflect.Type is provided.
	ErrReflectNilType = errors.New("reflect: nil reflect.Type provided")
	// ErrReflectTypeNotNamed indicates that the provided type (after unwrapping containers)
	// does not contain a named type (e.g., anonymous struct, func, interface{}).
	ErrReflectTypeNotNamed = errors.New("reflect: type has no name")
)

// Normalize unwraps ptr/slice/array/chan containers and returns the nearest
// named inner type, or an error if none is found within MaxUnwrap steps.
// This is what makes *Inventory and Inventory the same key.
func Normalize(t reflect.Type) (reflect.Type, error) {
	if t == nil {
		return nil, ErrReflectNilType
	}
	for i := 0; t != nil && i < MaxUnwrap; i++ {
		switch t.Kind() {
		case reflect.Ptr, reflect.Slice, reflect.Array, reflect.Chan:
			if t.Name() != "" {
				return t, nil
			}
			t = t.Elem()
		default:
			if t.Name() != "" {
				return t, nil
			}
			return nil, ErrReflectTypeNotNamed
		}
	}
	if t != nil && t.Name() != "" {
		return t, nil
	}
	return nil, ErrReflectTypeNotNamed
}

// Key is Normalize without the error: unnamed types are returned as-is so
// they can still serve as (less forgiving) map keys. Nil stays nil.
func Key(t reflect.Type) reflect.Type {
	if n, err := Normalize(t); err == nil {
		return n
	}
	return t
}

// KeyFor returns the normalized key of T.
func KeyFor[T any]() reflect.Type {
	return Key(reflect.TypeFor[T]())
}

// SimpleName returns the bare type name of the normalized t ("Inventory"),
// with generic instantiation parameters stripped. Unnamed types yield "".
func SimpleName(t reflect.Type) string {
	n, err := Normalize(t)
	if err != nil {
		return ""
	}
	return stripTypeParams(n.Name())
}

// QualifiedName returns "pkg.Type" for the normalized t, using the last
// element of the package path. Builtins yield their bare name.
func QualifiedName(t reflect.Type) string {
	n, err := Normalize(t)
	if err != nil {
		return ""
	}
	name := stripTypeParams(n.Name())
	if p := n.PkgPath(); p != "" {
		return path.Base(p) + "." + name
	}
	return name
}

// stripTypeParams removes generic type instantiation suffix: "T[int,string]" -> "T".
func stripTypeParams(s string) string {
	if i := strings.IndexByte(s, '['); i >= 0 {
		return s[:i]
	}
	return s
}
