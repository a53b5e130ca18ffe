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

import (
	"fmt"
	"reflect"
)

// State is the lifecycle state of a view entry.
// Absent and Loading describe the owning cache; a view itself is only ever
// Active, Hidden or Destroyed.
type State int

const (
	// StateAbsent means no view is cached and no load is pending.
	StateAbsent State = iota
	// StateLoading means a resolution for the key is in flight.
	StateLoading
	// StateActive means the view is shown.
	StateActive
	// StateHidden means the view exists but is deactivated.
	StateHidden
	// StateDestroyed means the underlying object was released.
	StateDestroyed
)

// String implements fmt.Stringer.
func (s State) String() string {
	switch s {
	case StateAbsent:
		return "Absent"
	case StateLoading:
		return "Loading"
	case StateActive:
		return "Active"
	case StateHidden:
		return "Hidden"
	case StateDestroyed:
		return "Destroyed"
	default:
		return fmt.Sprintf("Unknown(%d)", int(s))
	}
}

// View is a unit with an activation toggle and an opt-in destroy-on-hide policy.
type View interface {
	// Initialize binds the owning manager and the key the view is cached under.
	// Re-binding overwrites the previous owner.
	Initialize(owner Owner, key reflect.Type)
	// Show activates the view. Embedding types may use opts for setup.
	Show(opts ShowOptions)
	// Hide deactivates the view and, when DestroyOnHide is set, evicts and destroys it.
	Hide()
	// DestroyOnHide reports the destroy-on-hide policy.
	DestroyOnHide() bool
	// State reports Active, Hidden or Destroyed.
	State() State
}

// ViewProvider is an instantiated object that carries a View facet
// without being a View itself.
type ViewProvider interface {
	View() View
}

// SelfBinder is implemented by views whose embedded base needs the outermost
// view value. Owners call BindSelf right after Initialize.
type SelfBinder interface {
	BindSelf(self View)
}

// Liveness is implemented by views that can report whether their
// underlying object still exists.
type Liveness interface {
	Alive() bool
}

// Activatable is the external visual object whose activation a view toggles.
type Activatable interface {
	SetActive(active bool)
}

// Owner is what a view may ask of the manager that caches it.
type Owner interface {
	// RemoveView evicts the cache entry for key and returns the evicted view.
	RemoveView(key reflect.Type) (View, bool)
	// EvictView evicts the cache entry for key only if it holds v.
	EvictView(key reflect.Type, v View) bool
	// DestroyView releases v through the owner's resolver.
	DestroyView(v View)
}

// ShowOptions is the single configuration bundle passed to View.Show.
type ShowOptions struct {
	// Args are optional positional arguments for view setup.
	Args []any
	// OnShown is invoked by the view at its show event, if the view supports it.
	OnShown func()
	// OnHidden is invoked by the view at its hide event, if the view supports it.
	OnHidden func()
}

// ShowOption mutates ShowOptions.
type ShowOption func(*ShowOptions)

// NewShowOptions applies opts in order (last wins for callbacks, args accumulate).
func NewShowOptions(opts ...ShowOption) ShowOptions {
	var so ShowOptions
	for _, opt := range opts {
		if opt != nil {
			opt(&so)
		}
	}
	return so
}
