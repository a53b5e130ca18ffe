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
	"context"
	"reflect"
	"sync"

	"dirpx.dev/uix/apis"
)

// Future is the eventual outcome of a Show or Preload request. Requests for
// a key that is already loading share the pending Future.
type Future struct {
	key  reflect.Type
	done chan struct{}
	once sync.Once
	view apis.View
	err  error

	// opts and completed are guarded by the manager mutex.
	opts      []apis.ShowOptions
	completed bool
}

func newFuture(key reflect.Type) *Future {
	return &Future{key: key, done: make(chan struct{})}
}

func settled(key reflect.Type, v apis.View, err error) *Future {
	f := newFuture(key)
	f.settle(v, err)
	return f
}

func (f *Future) settle(v apis.View, err error) {
	f.once.Do(func() {
		f.view, f.err = v, err
		close(f.done)
	})
}

// Key returns the normalized key the request was made for.
func (f *Future) Key() reflect.Type { return f.key }

// Done is closed once the request has an outcome.
func (f *Future) Done() <-chan struct{} { return f.done }

// IsDone reports whether Done is closed.
func (f *Future) IsDone() bool {
	select {
	case <-f.done:
		return true
	default:
		return false
	}
}

// Result returns the outcome without blocking. While pending it returns
// ErrPending.
func (f *Future) Result() (apis.View, error) {
	if !f.IsDone() {
		return nil, ErrPending
	}
	return f.view, f.err
}

// Wait blocks until the outcome is known or ctx ends.
func (f *Future) Wait(ctx context.Context) (apis.View, error) {
	select {
	case <-f.done:
		return f.view, f.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}
