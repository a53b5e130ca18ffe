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

import "dirpx.dev/uix/apis"

// WithArgs appends positional arguments for view setup.
func WithArgs(args ...any) apis.ShowOption {
	return func(o *apis.ShowOptions) {
		o.Args = append(o.Args, args...)
	}
}

// OnShown sets the callback a view invokes at its show event.
func OnShown(fn func()) apis.ShowOption {
	return func(o *apis.ShowOptions) {
		o.OnShown = fn
	}
}

// OnHidden sets the callback a view invokes at its hide event.
func OnHidden(fn func()) apis.ShowOption {
	return func(o *apis.ShowOptions) {
		o.OnHidden = fn
	}
}

// Options applies opts into a ShowOptions bundle.
func Options(opts ...apis.ShowOption) apis.ShowOptions {
	return apis.NewShowOptions(opts...)
}

// Extract returns the View facet of an instantiated object: the object
// itself when it is a View, otherwise the view of an apis.ViewProvider.
func Extract(obj any) (apis.View, bool) {
	switch o := obj.(type) {
	case nil:
		return nil, false
	case apis.View:
		return o, true
	case apis.ViewProvider:
		v := o.View()
		return v, v != nil
	default:
		return nil, false
	}
}

// IsAlive reports whether v is still backed by a live object. Views that do
// not implement apis.Liveness are assumed alive.
func IsAlive(v apis.View) bool {
	if l, ok := v.(apis.Liveness); ok {
		return l.Alive()
	}
	return true
}
