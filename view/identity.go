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

package view

import (
	"io"
	"reflect"

	"dirpx.dev/uix/apis"
)

// based is satisfied by any view embedding Base, by value or by pointer.
type based interface {
	base() *Base
}

func (b *Base) base() *Base { return b }

// Identity returns a comparable token for v: v itself when its dynamic type
// is comparable, otherwise the Base it embeds. It reports false when v has
// neither.
func Identity(v apis.View) (any, bool) {
	if v == nil {
		return nil, false
	}
	if reflect.TypeOf(v).Comparable() {
		return v, true
	}
	if h, ok := v.(based); ok {
		if b := h.base(); b != nil {
			return b, true
		}
	}
	return nil, false
}

// Same reports whether a and b denote the same view.
func Same(a, b apis.View) bool {
	ia, ok := Identity(a)
	if !ok {
		return false
	}
	ib, ok := Identity(b)
	return ok && ia == ib
}

// Release disposes of a view no resolver produced: it is detached from
// parent, closed or destroyed when it supports either, and marked destroyed.
func Release(v apis.View, parent apis.Container) error {
	if v == nil {
		return nil
	}
	if parent != nil {
		parent.Detach(v)
	}
	var err error
	switch o := v.(type) {
	case io.Closer:
		err = o.Close()
	case interface{ Destroy() }:
		o.Destroy()
	}
	if d, ok := v.(interface{ MarkDestroyed() }); ok {
		d.MarkDestroyed()
	}
	return err
}
