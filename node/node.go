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

// Package node provides a minimal parent container for instantiated views.
package node

import (
	"errors"
	"reflect"
	"slices"
	"sync"

	"dirpx.dev/uix/apis"
)

var (
	// ErrNilChild is returned when attaching nil.
	ErrNilChild = errors.New("uix(node): nil child")
	// ErrNotComparable is returned for children that cannot be identified.
	ErrNotComparable = errors.New("uix(node): child type is not comparable")
	// ErrAlreadyAttached is returned when a child is attached twice.
	ErrAlreadyAttached = errors.New("uix(node): child already attached")
)

// Node is an ordered set of children.
type Node struct {
	mu       sync.Mutex
	name     string
	children []any
}

// Ensure Node implements apis.Container.
var _ apis.Container = (*Node)(nil)

// New returns an empty node.
func New(name string) *Node {
	return &Node{name: name}
}

// Name returns the node name.
func (n *Node) Name() string { return n.name }

// Attach appends child.
func (n *Node) Attach(child any) error {
	if child == nil {
		return ErrNilChild
	}
	if !reflect.TypeOf(child).Comparable() {
		return ErrNotComparable
	}
	n.mu.Lock()
	defer n.mu.Unlock()
	if slices.Contains(n.children, child) {
		return ErrAlreadyAttached
	}
	n.children = append(n.children, child)
	return nil
}

// Detach removes child. Unknown children are ignored.
func (n *Node) Detach(child any) {
	if child == nil || !reflect.TypeOf(child).Comparable() {
		return
	}
	n.mu.Lock()
	defer n.mu.Unlock()
	if i := slices.Index(n.children, child); i >= 0 {
		n.children = slices.Delete(n.children, i, i+1)
	}
}

// Children returns a copy of the children in attach order.
func (n *Node) Children() []any {
	n.mu.Lock()
	defer n.mu.Unlock()
	return slices.Clone(n.children)
}

// Len returns the number of children.
func (n *Node) Len() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.children)
}
