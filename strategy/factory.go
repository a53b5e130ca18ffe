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

package strategy

import (
	"context"
	"fmt"
	"log/slog"
	"reflect"
	"sync"

	"dirpx.dev/uix/apis"
	uref "dirpx.dev/uix/utils/reflect"
	"dirpx.dev/uix/view"
)

// Constructor builds a code-authored view.
type Constructor func(ctx context.Context) (apis.View, error)

// Factory resolves keys through registered constructors. Construction is
// posted to the host's dispatcher.
type Factory struct {
	log *slog.Logger

	mu    sync.RWMutex
	ctors map[reflect.Type]Constructor
	made  map[any]apis.Container // keyed by view.Identity
}

// Ensure Factory implements apis.Resolver.
var _ apis.Resolver = (*Factory)(nil)

// NewFactory returns an empty factory.
func NewFactory(opts ...Option) *Factory {
	o := newOptions(opts)
	return &Factory{
		log:   o.log,
		ctors: make(map[reflect.Type]Constructor),
		made:  make(map[any]apis.Container),
	}
}

// Register binds t to ctor, replacing any previous constructor.
func (f *Factory) Register(t reflect.Type, ctor Constructor) error {
	if t == nil {
		return ErrNilType
	}
	if ctor == nil {
		return ErrNilConstructor
	}
	f.mu.Lock()
	f.ctors[uref.Key(t)] = ctor
	f.mu.Unlock()
	return nil
}

// RegisterFunc binds T to fn.
func RegisterFunc[T apis.View](f *Factory, fn func() T) error {
	if fn == nil {
		return ErrNilConstructor
	}
	return f.Register(reflect.TypeFor[T](), func(context.Context) (apis.View, error) {
		return fn(), nil
	})
}

// HasView reports whether a constructor is registered for key.
func (f *Factory) HasView(key reflect.Type) bool {
	if key == nil {
		return false
	}
	f.mu.RLock()
	defer f.mu.RUnlock()
	_, ok := f.ctors[uref.Key(key)]
	return ok
}

// Resolve constructs the view for key on the host's dispatcher and attaches
// it to the host's parent.
func (f *Factory) Resolve(ctx context.Context, key reflect.Type, host apis.Host, done apis.Completion) {
	done = once(done)
	k := uref.Key(key)

	f.mu.RLock()
	ctor, ok := f.ctors[k]
	f.mu.RUnlock()
	if !ok {
		done(nil, fmt.Errorf("%w: %s", apis.ErrNotFound, uref.QualifiedName(k)))
		return
	}

	host.Dispatch(func() {
		if err := ctx.Err(); err != nil {
			done(nil, err)
			return
		}
		v, err := ctor(ctx)
		if err != nil {
			done(nil, fmt.Errorf("construct %s: %w", uref.QualifiedName(k), err))
			return
		}
		if isNilView(v) {
			done(nil, fmt.Errorf("%w: %s", ErrNilView, uref.QualifiedName(k)))
			return
		}
		id, ok := view.Identity(v)
		if !ok {
			done(nil, fmt.Errorf("%w: %s (%T)", ErrNoIdentity, uref.QualifiedName(k), v))
			return
		}
		parent := host.Parent()
		if parent != nil {
			if err := parent.Attach(v); err != nil {
				done(nil, fmt.Errorf("attach %s: %w", uref.QualifiedName(k), err))
				return
			}
		}
		f.mu.Lock()
		f.made[id] = parent
		f.mu.Unlock()
		f.log.Debug("Constructed view.", "type", uref.QualifiedName(k))
		done(v, nil)
	})
}

// Destroy detaches v from the parent it was attached to and releases it
// with view.Release.
func (f *Factory) Destroy(v apis.View) error {
	id, ok := view.Identity(v)
	if !ok {
		return ErrUnknownView
	}
	f.mu.Lock()
	parent, ok := f.made[id]
	delete(f.made, id)
	f.mu.Unlock()
	if !ok {
		return ErrUnknownView
	}
	return view.Release(v, parent)
}

func isNilView(v apis.View) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	return rv.Kind() == reflect.Pointer && rv.IsNil()
}
