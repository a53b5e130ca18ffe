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

package resolver

import (
	"context"
	"fmt"
	"reflect"
	"sync"

	"dirpx.dev/uix/apis"
	uref "dirpx.dev/uix/utils/reflect"
	"dirpx.dev/uix/view"
)

// ErrUnknownView is returned by Destroy for views no chained resolver produced.
var ErrUnknownView = apis.ErrUnknownView

// New constructs an apis.Resolver that tries the given resolvers in order.
// Nil resolvers are ignored. The first resolver whose HasView reports true
// resolves the key; Destroy is routed back to it.
func New(resolvers ...apis.Resolver) apis.Resolver {
	// Filter out nils to avoid nil-interface panics on call sites.
	out := make([]apis.Resolver, 0, len(resolvers))
	for _, r := range resolvers {
		if r != nil {
			out = append(out, r)
		}
	}
	return &chain{links: out, owners: make(map[any]apis.Resolver)}
}

// chain is an order-preserving resolver over a fixed set of resolvers.
type chain struct {
	links []apis.Resolver

	mu     sync.Mutex
	owners map[any]apis.Resolver // keyed by view.Identity
}

// HasView reports whether any chained resolver can resolve key.
func (c *chain) HasView(key reflect.Type) bool {
	return c.pick(key) != nil
}

// Resolve delegates to the first resolver that has key. With none, it
// completes immediately with apis.ErrNotFound.
func (c *chain) Resolve(ctx context.Context, key reflect.Type, host apis.Host, done apis.Completion) {
	r := c.pick(key)
	if r == nil {
		if done != nil {
			done(nil, fmt.Errorf("%w: %s", apis.ErrNotFound, uref.QualifiedName(key)))
		}
		return
	}
	r.Resolve(ctx, key, host, func(v apis.View, err error) {
		if err == nil {
			if id, ok := view.Identity(v); ok {
				c.mu.Lock()
				c.owners[id] = r
				c.mu.Unlock()
			}
		}
		if done != nil {
			done(v, err)
		}
	})
}

// Destroy routes v to the resolver that produced it.
func (c *chain) Destroy(v apis.View) error {
	id, ok := view.Identity(v)
	if !ok {
		return ErrUnknownView
	}
	c.mu.Lock()
	r, ok := c.owners[id]
	delete(c.owners, id)
	c.mu.Unlock()
	if !ok {
		return ErrUnknownView
	}
	return r.Destroy(v)
}

func (c *chain) pick(key reflect.Type) apis.Resolver {
	if key == nil {
		return nil
	}
	for _, r := range c.links {
		if r.HasView(key) {
			return r
		}
	}
	return nil
}
