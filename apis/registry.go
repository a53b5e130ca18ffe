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

package apis

import "reflect"

// Registry tracks at most one live instance per component type.
// The registry observes instances but never owns them: components call
// Register on creation and Deregister on teardown themselves.
type Registry interface {
	// Register tracks instance under the (normalized) type t.
	// A second registration for a present key keeps the incumbent and
	// returns an error; it never overwrites.
	Register(t reflect.Type, instance any) error
	// Deregister removes the entry for t and runs the teardown hooks of t and
	// its ancestors. If instance is non-nil, only the tracked instance may
	// deregister; any other instance is a no-op. Reports whether an entry was removed.
	Deregister(t reflect.Type, instance any) bool
	// Lookup returns the tracked instance for t, if any.
	Lookup(t reflect.Type) (instance any, ok bool)
	// OnTeardown registers a hook invoked whenever t, or a type whose
	// declared-type chain contains t, is deregistered.
	OnTeardown(t reflect.Type, hook TeardownHook)
	// Entries returns a snapshot for diagnostics (order is unspecified).
	Entries() []Entry
	// Count returns the number of tracked instances.
	Count() int
	// Reset drops all entries. Teardown hooks are kept.
	Reset()
}

// TeardownHook resets type-scoped cached state. It receives the
// type that was deregistered, which may be a descendant of the hook's type.
type TeardownHook func(deregistered reflect.Type)

// Entry is a single (type, instance) association in a Registry snapshot.
type Entry struct {
	// Type is the normalized registered type.
	Type reflect.Type
	// Instance is the tracked instance.
	Instance any
}
