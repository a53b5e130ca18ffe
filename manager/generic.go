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

package manager

import (
	"reflect"

	"dirpx.dev/uix/apis"
)

// ShowView is Show for the type parameter T.
func ShowView[T any](m *Manager, opts ...apis.ShowOption) *Future {
	return m.Show(reflect.TypeFor[T](), opts...)
}

// HideView is Hide for the type parameter T.
func HideView[T any](m *Manager) {
	m.Hide(reflect.TypeFor[T]())
}

// GetView returns the cached view for T as a T. Use the pointer type for
// views with pointer receivers: GetView[*Inventory].
func GetView[T any](m *Manager) (T, bool) {
	var zero T
	v, ok := m.Get(reflect.TypeFor[T]())
	if !ok {
		return zero, false
	}
	tv, ok := v.(T)
	if !ok {
		return zero, false
	}
	return tv, true
}

// RemoveView evicts the cache entry for T.
func RemoveView[T any](m *Manager) (apis.View, bool) {
	return m.RemoveView(reflect.TypeFor[T]())
}

// Lookup returns the manager tracked by reg, if any.
func Lookup(reg apis.Registry) (*Manager, bool) {
	if reg == nil {
		return nil, false
	}
	v, ok := reg.Lookup(Type)
	if !ok {
		return nil, false
	}
	m, ok := v.(*Manager)
	return m, ok
}
