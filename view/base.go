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

// Package view provides the embeddable base for views managed by a
// manager.Manager.
//
// A concrete view embeds Base and may override Show or Hide, calling through
// to the embedded implementation:
//
//	type Inventory struct {
//		view.Base
//		items []string
//	}
//
//	func (v *Inventory) Show(opts apis.ShowOptions) {
//		v.Base.Show(opts)
//		v.items = toItems(opts.Args)
//		v.NotifyShown()
//	}
package view

import (
	"reflect"
	"sync"

	"github.com/google/uuid"

	"dirpx.dev/uix/apis"
)

// Base implements apis.View and apis.Liveness. The zero value is a hidden,
// unbound view that keeps its cache entry when hidden.
type Base struct {
	mu            sync.Mutex
	id            uuid.UUID
	owner         apis.Owner
	key           reflect.Type
	self          apis.View
	target        apis.Activatable
	active        bool
	destroyed     bool
	destroyOnHide bool
	opts          apis.ShowOptions
}

// Ensure Base implements apis.View.
var _ apis.View = (*Base)(nil)

// Ensure Base implements apis.Liveness.
var _ apis.Liveness = (*Base)(nil)

// Ensure Base implements apis.SelfBinder.
var _ apis.SelfBinder = (*Base)(nil)

// Initialize binds owner and key. Re-binding overwrites the previous owner.
func (b *Base) Initialize(owner apis.Owner, key reflect.Type) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.owner = owner
	b.key = key
	if b.id == uuid.Nil {
		b.id = uuid.New()
	}
}

// BindSelf records the outermost view embedding b. Destroy-on-hide evicts
// and destroys that view; an unbound Base only deactivates.
func (b *Base) BindSelf(self apis.View) {
	b.mu.Lock()
	b.self = self
	b.mu.Unlock()
}

// Show activates the view and records opts. A destroyed view stays destroyed.
func (b *Base) Show(opts apis.ShowOptions) {
	b.mu.Lock()
	if b.destroyed {
		b.mu.Unlock()
		return
	}
	b.active = true
	b.opts = opts
	target := b.target
	b.mu.Unlock()

	if target != nil {
		target.SetActive(true)
	}
}

// Hide deactivates the view. Hiding a hidden or destroyed view is a no-op.
// With destroy-on-hide set and an owner and self bound, the owner's cache
// entry is evicted if it still holds this view, then this view is destroyed.
func (b *Base) Hide() {
	b.mu.Lock()
	if b.destroyed || !b.active {
		b.mu.Unlock()
		return
	}
	b.active = false
	target, owner, key, self, destroy := b.target, b.owner, b.key, b.self, b.destroyOnHide
	b.mu.Unlock()

	if target != nil {
		target.SetActive(false)
	}
	if !destroy || owner == nil || self == nil {
		return
	}
	owner.EvictView(key, self)
	owner.DestroyView(self)
}

// DestroyOnHide reports the destroy-on-hide policy.
func (b *Base) DestroyOnHide() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.destroyOnHide
}

// SetDestroyOnHide sets the destroy-on-hide policy.
func (b *Base) SetDestroyOnHide(destroy bool) {
	b.mu.Lock()
	b.destroyOnHide = destroy
	b.mu.Unlock()
}

// State reports Active, Hidden or Destroyed.
func (b *Base) State() apis.State {
	b.mu.Lock()
	defer b.mu.Unlock()
	switch {
	case b.destroyed:
		return apis.StateDestroyed
	case b.active:
		return apis.StateActive
	default:
		return apis.StateHidden
	}
}

// Attach sets the visual object toggled by Show and Hide, and syncs it to
// the current state.
func (b *Base) Attach(target apis.Activatable) {
	b.mu.Lock()
	b.target = target
	active := b.active
	b.mu.Unlock()
	if target != nil {
		target.SetActive(active)
	}
}

// MarkDestroyed records that the underlying object was released.
// Resolvers call it from Destroy.
func (b *Base) MarkDestroyed() {
	b.mu.Lock()
	b.destroyed = true
	b.active = false
	b.mu.Unlock()
}

// Alive reports whether the view has not been destroyed.
func (b *Base) Alive() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return !b.destroyed
}

// ID returns the instance id assigned on first Initialize.
func (b *Base) ID() uuid.UUID {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.id
}

// Key returns the key the view was initialized with.
func (b *Base) Key() reflect.Type {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.key
}

// Owner returns the bound owner, or nil.
func (b *Base) Owner() apis.Owner {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.owner
}

// Args returns the arguments of the last Show.
func (b *Base) Args() []any {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.opts.Args
}

// NotifyShown invokes the OnShown callback of the last Show, if any.
func (b *Base) NotifyShown() {
	b.mu.Lock()
	fn := b.opts.OnShown
	b.mu.Unlock()
	if fn != nil {
		fn()
	}
}

// NotifyHidden invokes the OnHidden callback of the last Show, if any.
func (b *Base) NotifyHidden() {
	b.mu.Lock()
	fn := b.opts.OnHidden
	b.mu.Unlock()
	if fn != nil {
		fn()
	}
}
