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

package registry

import (
	"reflect"
	"sync"

	"dirpx.dev/uix/apis"
)

// Slot is a process-wide cached reference declared as T, the Go analogue of
// a static field typed as a component class. Slots bound to a registry are
// reset whenever T, or any type whose declared-type chain contains T, is
// deregistered.
type Slot[T any] struct {
	mu  sync.RWMutex
	v   T
	set bool
}

// NewSlot creates an empty slot and binds its reset to reg's teardown of T.
// A nil reg yields an unbound slot.
func NewSlot[T any](reg apis.Registry) *Slot[T] {
	s := &Slot[T]{}
	if reg != nil {
		reg.OnTeardown(reflect.TypeFor[T](), func(reflect.Type) { s.Reset() })
	}
	return s
}

// Get returns the cached value and whether one is set.
func (s *Slot[T]) Get() (T, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.v, s.set
}

// Set caches v.
func (s *Slot[T]) Set(v T) {
	s.mu.Lock()
	s.v, s.set = v, true
	s.mu.Unlock()
}

// Reset clears the slot back to T's zero value.
func (s *Slot[T]) Reset() {
	s.mu.Lock()
	var zero T
	s.v, s.set = zero, false
	s.mu.Unlock()
}
