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
	"context"
	"errors"
	"reflect"
)

var (
	// ErrNotFound is the resolver's explicit "not found" signal for an unmapped key.
	ErrNotFound = errors.New("uix: view not found")
	// ErrNoView indicates the instantiated object carries no View facet.
	ErrNoView = errors.New("uix: instantiated object has no view")
	// ErrUnknownView is returned by Destroy for a view the resolver did not produce.
	ErrUnknownView = errors.New("uix: view was not produced by this resolver")
)

// Completion receives the outcome of a resolution. It is invoked exactly once,
// with either a usable view and a nil error or a nil view and a non-nil error.
type Completion func(v View, err error)

// Host is what a resolver may ask of the requesting manager.
type Host interface {
	Owner
	// Parent is the designated container for newly instantiated views.
	Parent() Container
	// Dispatch posts fn to the manager's cooperative loop.
	Dispatch(fn func())
}

// Resolver turns a type key into a loaded view.
type Resolver interface {
	// HasView reports synchronously whether key is resolvable at all.
	HasView(key reflect.Type) bool
	// Resolve begins resolution of key and invokes done exactly once.
	// An unmapped key completes immediately with ErrNotFound.
	Resolve(ctx context.Context, key reflect.Type, host Host, done Completion)
	// Destroy releases the object behind v and any resources it holds.
	Destroy(v View) error
}

// Dispatcher runs posted work on its owner's schedule.
type Dispatcher interface {
	Dispatch(fn func())
}
