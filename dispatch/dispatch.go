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

// Package dispatch provides apis.Dispatcher implementations.
//
// A Queue models the single-threaded cooperative loop of an interactive
// application: resolvers may finish loading on any goroutine, but the work
// they post (instantiation, cache insertion, show) runs only on the goroutine
// draining the queue.
package dispatch

import (
	"context"
	"sync"

	"dirpx.dev/uix/apis"
)

// Direct runs posted work immediately on the posting goroutine.
var Direct apis.Dispatcher = direct{}

type direct struct{}

func (direct) Dispatch(fn func()) {
	if fn != nil {
		fn()
	}
}

// Queue is an unbounded FIFO of posted work. Dispatch never blocks.
type Queue struct {
	mu     sync.Mutex
	items  []func()
	signal chan struct{}
}

// Ensure Queue implements apis.Dispatcher.
var _ apis.Dispatcher = (*Queue)(nil)

// NewQueue returns an empty queue.
func NewQueue() *Queue {
	return &Queue{signal: make(chan struct{}, 1)}
}

// Dispatch enqueues fn. Nil is ignored.
func (q *Queue) Dispatch(fn func()) {
	if fn == nil {
		return
	}
	q.mu.Lock()
	q.items = append(q.items, fn)
	q.mu.Unlock()
	select {
	case q.signal <- struct{}{}:
	default:
	}
}

// Len returns the number of queued items.
func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.items)
}

// Drain runs queued work on the caller until the queue is empty, including
// work posted while draining. It returns the number of items run.
func (q *Queue) Drain() int {
	n := 0
	for {
		fn, ok := q.pop()
		if !ok {
			return n
		}
		fn()
		n++
	}
}

// RunOne blocks until one item is available, runs it, and returns.
// It returns ctx.Err() if ctx ends first.
func (q *Queue) RunOne(ctx context.Context) error {
	for {
		if fn, ok := q.pop(); ok {
			fn()
			return nil
		}
		select {
		case <-q.signal:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

// Run drains the queue until ctx ends and returns ctx.Err().
func (q *Queue) Run(ctx context.Context) error {
	for {
		if err := q.RunOne(ctx); err != nil {
			return err
		}
	}
}

func (q *Queue) pop() (func(), bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if len(q.items) == 0 {
		return nil, false
	}
	fn := q.items[0]
	q.items[0] = nil
	q.items = q.items[1:]
	return fn, true
}
