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
	"errors"
	"fmt"
	"log/slog"
	"reflect"
	"sync"

	"dirpx.dev/uix/apis"
	uref "dirpx.dev/uix/utils/reflect"
)

var (
	// ErrNilType is returned when a nil reflect.Type is provided.
	ErrNilType = errors.New("uix(registry): nil reflect.Type provided")
	// ErrNilInstance is returned when a nil instance is provided.
	ErrNilInstance = errors.New("uix(registry): nil instance provided")
	// ErrDuplicateRegistration indicates a second live instance of an
	// already-registered type. The first instance stays tracked.
	ErrDuplicateRegistration = errors.New("uix(registry): duplicate registration")
)

// Option configures a registry built by New.
type Option func(*registry)

// WithLogger sets the logger used to report duplicates and teardown.
func WithLogger(l *slog.Logger) Option {
	return func(r *registry) {
		if l != nil {
			r.log = l
		}
	}
}

// New constructs an empty Registry.
func New(opts ...Option) apis.Registry {
	r := &registry{
		log:   slog.Default(),
		m:     make(map[reflect.Type]any),
		hooks: make(map[reflect.Type][]apis.TeardownHook),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// registry is a map-backed Registry guarded by a RWMutex.
type registry struct {
	log *slog.Logger
	// mu guards m and hooks.
	mu sync.RWMutex
	// m maps the normalized type to its tracked instance.
	m map[reflect.Type]any
	// hooks maps a type to the teardown hooks registered for it.
	hooks map[reflect.Type][]apis.TeardownHook
}

// Ensure registry implements apis.Registry.
var _ apis.Registry = (*registry)(nil)

// Register tracks instance under the normalized t.
func (r *registry) Register(t reflect.Type, instance any) error {
	if t == nil {
		return ErrNilType
	}
	if isNil(instance) {
		return ErrNilInstance
	}
	k := uref.Key(t)

	r.mu.Lock()
	if _, exists := r.m[k]; exists {
		r.mu.Unlock()
		r.log.Error("Duplicate registration detected.", "type", uref.QualifiedName(k))
		return fmt.Errorf("%w: %s", ErrDuplicateRegistration, uref.QualifiedName(k))
	}
	r.m[k] = instance
	r.mu.Unlock()

	r.log.Debug("Registered instance.", "type", uref.QualifiedName(k))
	return nil
}

// Deregister removes the entry for t and runs the teardown hook chain.
func (r *registry) Deregister(t reflect.Type, instance any) bool {
	if t == nil {
		return false
	}
	k := uref.Key(t)

	r.mu.Lock()
	cur, exists := r.m[k]
	if !exists {
		r.mu.Unlock()
		return false
	}
	if !isNil(instance) && !sameInstance(cur, instance) {
		r.mu.Unlock()
		r.log.Debug("Ignoring deregistration of untracked instance.", "type", uref.QualifiedName(k))
		return false
	}
	delete(r.m, k)

	// Collect hooks for k and its ancestors, most derived first.
	var run []apis.TeardownHook
	for _, c := range uref.Chain(k) {
		run = append(run, r.hooks[c]...)
	}
	r.mu.Unlock()

	for _, h := range run {
		h(k)
	}
	r.log.Debug("Deregistered instance.", "type", uref.QualifiedName(k), "hooks", len(run))
	return true
}

// Lookup returns the tracked instance for t.
func (r *registry) Lookup(t reflect.Type) (any, bool) {
	if t == nil {
		return nil, false
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	v, ok := r.m[uref.Key(t)]
	return v, ok
}

// OnTeardown registers hook for t. Nil hooks are ignored.
func (r *registry) OnTeardown(t reflect.Type, hook apis.TeardownHook) {
	if t == nil || hook == nil {
		return
	}
	k := uref.Key(t)
	r.mu.Lock()
	r.hooks[k] = append(r.hooks[k], hook)
	r.mu.Unlock()
}

// Entries returns a snapshot for diagnostics (order is unspecified).
func (r *registry) Entries() []apis.Entry {
	r.mu.RLock()
	defer r.mu.RUnlock()
	entries := make([]apis.Entry, 0, len(r.m))
	for t, v := range r.m {
		entries = append(entries, apis.Entry{Type: t, Instance: v})
	}
	return entries
}

// Count returns the number of tracked instances.
func (r *registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.m)
}

// Reset drops all entries without running hooks.
func (r *registry) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.m = make(map[reflect.Type]any)
}

// isNil reports whether v is nil or a typed nil pointer/map/func/etc.
func isNil(v any) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Ptr, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan, reflect.Interface:
		return rv.IsNil()
	}
	return false
}

// sameInstance compares instances by identity without panicking on
// uncomparable dynamic types.
func sameInstance(a, b any) bool {
	va, vb := reflect.ValueOf(a), reflect.ValueOf(b)
	if va.Type() != vb.Type() {
		return false
	}
	switch va.Kind() {
	case reflect.Ptr, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan, reflect.UnsafePointer:
		return va.Pointer() == vb.Pointer()
	}
	if va.Comparable() {
		return va.Equal(vb)
	}
	return false
}
