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

package node_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"dirpx.dev/uix/node"
)

type child struct{ name string }

func TestNode_AttachDetach(t *testing.T) {
	n := node.New("root")
	a, b, c := &child{"a"}, &child{"b"}, &child{"c"}

	assert.NoError(t, n.Attach(a))
	assert.NoError(t, n.Attach(b))
	assert.NoError(t, n.Attach(c))
	assert.Equal(t, 3, n.Len())

	n.Detach(b)
	n.Detach(&child{"b"}) // distinct pointer: ignored
	assert.Equal(t, []any{a, c}, n.Children())
	assert.Equal(t, "root", n.Name())
}

func TestNode_AttachErrors(t *testing.T) {
	n := node.New("root")
	a := &child{"a"}

	assert.ErrorIs(t, n.Attach(nil), node.ErrNilChild)
	assert.ErrorIs(t, n.Attach([]int{1}), node.ErrNotComparable)
	assert.NoError(t, n.Attach(a))
	assert.ErrorIs(t, n.Attach(a), node.ErrAlreadyAttached)

	n.Detach(nil)
	n.Detach([]int{1})
	assert.Equal(t, 1, n.Len())
}

func TestNode_ChildrenIsACopy(t *testing.T) {
	n := node.New("root")
	a := &child{"a"}
	_ = n.Attach(a)

	got := n.Children()
	got[0] = nil
	assert.Equal(t, []any{a}, n.Children())
}
