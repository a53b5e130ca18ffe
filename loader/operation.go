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

// Package loader provides asynchronous load-by-path sources for
// strategy.Path: an io/fs backed loader and a bbolt backed loader.
package loader

import (
	"sync"

	"dirpx.dev/uix/apis"
)

// Operation is a settable apis.Operation. The first Complete wins.
type Operation struct {
	once  sync.Once
	done  chan struct{}
	asset any
	err   error
}

// Ensure Operation implements apis.Operation.
var _ apis.Operation = (*Operation)(nil)

// NewOperation returns a pending operation.
func NewOperation() *Operation {
	return &Operation{done: make(chan struct{})}
}

// Completed returns an operation that is already settled.
func Completed(asset any, err error) *Operation {
	op := NewOperation()
	op.Complete(asset, err)
	return op
}

// Complete settles the operation and reports whether this call did so.
func (o *Operation) Complete(asset any, err error) bool {
	settled := false
	o.once.Do(func() {
		if err != nil {
			asset = nil
		}
		o.asset, o.err = asset, err
		close(o.done)
		settled = true
	})
	return settled
}

// Done is closed once the operation is settled.
func (o *Operation) Done() <-chan struct{} { return o.done }

// IsDone reports whether the operation is settled.
func (o *Operation) IsDone() bool {
	select {
	case <-o.done:
		return true
	default:
		return false
	}
}

// Asset returns the loaded asset, or nil while pending or on failure.
func (o *Operation) Asset() any {
	if !o.IsDone() {
		return nil
	}
	return o.asset
}

// Err returns the load failure, or nil while pending or on success.
func (o *Operation) Err() error {
	if !o.IsDone() {
		return nil
	}
	return o.err
}
