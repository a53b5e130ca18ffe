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

// Path resolves keys through a mapping table: the entry's path is loaded
// asynchronously and the resulting asset is instantiated on the host's
// dispatcher.
type Path struct {
	mapping apis.Mapping
	loader  apis.Loader
	inst    apis.Instantiator
	mode    apis.MatchMode
	log     *slog.Logger

	mu        sync.Mutex
	instances map[any]any // view.Identity to instantiated object
}

// Ensure Path implements apis.Resolver.
var _ apis.Resolver = (*Path)(nil)

// NewPath returns a path-mapped resolver.
func NewPath(m apis.Mapping, l apis.Loader, in apis.Instantiator, opts ...Option) *Path {
	o := newOptions(opts)
	return &Path{
		mapping:   m,
		loader:    l,
		inst:      in,
		mode:      o.mode,
		log:       o.log,
		instances: make(map[any]any),
	}
}

// HasView reports whether the mapping has an entry for key.
func (p *Path) HasView(key reflect.Type) bool {
	if p.mapping == nil || key == nil {
		return false
	}
	return p.mapping.Has(uref.Key(key), p.mode)
}

// Resolve loads and instantiates the view for key. Unmapped keys and empty
// paths complete before Resolve returns. Mapped keys always complete after,
// on the host's dispatcher.
func (p *Path) Resolve(ctx context.Context, key reflect.Type, host apis.Host, done apis.Completion) {
	done = once(done)
	k := uref.Key(key)
	name := uref.QualifiedName(k)

	var (
		entry apis.MappingEntry
		ok    bool
	)
	if p.mapping != nil && k != nil {
		entry, ok = p.mapping.Find(k, p.mode)
	}
	if !ok {
		done(nil, fmt.Errorf("%w: %s", apis.ErrNotFound, name))
		return
	}
	if entry.Path == "" {
		done(nil, fmt.Errorf("%w: %s", ErrEmptyPath, name))
		return
	}

	returned := make(chan struct{})
	defer close(returned)

	op := p.loader.Load(ctx, entry.Path)
	go func() {
		<-returned
		select {
		case <-op.Done():
		case <-ctx.Done():
			err := ctx.Err()
			host.Dispatch(func() { done(nil, err) })
			return
		}
		if err := op.Err(); err != nil {
			err = fmt.Errorf("load %s for %s: %w", entry.Path, name, err)
			host.Dispatch(func() { done(nil, err) })
			return
		}
		asset := op.Asset()
		host.Dispatch(func() {
			done(p.instantiate(asset, entry, host.Parent()))
		})
	}()
}

func (p *Path) instantiate(asset any, entry apis.MappingEntry, parent apis.Container) (apis.View, error) {
	obj, err := p.inst.Instantiate(asset, parent)
	if err != nil {
		return nil, fmt.Errorf("instantiate %s: %w", entry.Path, err)
	}
	v, ok := view.Extract(obj)
	if !ok {
		if derr := p.inst.DestroyInstance(obj); derr != nil {
			p.log.Error("Failed to destroy faceless instance.", "path", entry.Path, "err", derr)
		}
		return nil, fmt.Errorf("%w: %s (%T)", apis.ErrNoView, entry.Path, obj)
	}

	id, ok := view.Identity(v)
	if !ok {
		if derr := p.inst.DestroyInstance(obj); derr != nil {
			p.log.Error("Failed to destroy unidentifiable instance.", "path", entry.Path, "err", derr)
		}
		return nil, fmt.Errorf("%w: %s (%T)", ErrNoIdentity, entry.Path, v)
	}

	switch entry.OnHide {
	case apis.Keep, apis.Destroy:
		if s, ok := v.(interface{ SetDestroyOnHide(bool) }); ok {
			s.SetDestroyOnHide(entry.OnHide == apis.Destroy)
		}
	}

	p.mu.Lock()
	p.instances[id] = obj
	p.mu.Unlock()
	p.log.Debug("Instantiated view.", "path", entry.Path, "type", fmt.Sprintf("%T", obj))
	return v, nil
}

// Destroy releases the instance behind v and marks v destroyed.
func (p *Path) Destroy(v apis.View) error {
	id, ok := view.Identity(v)
	if !ok {
		return ErrUnknownView
	}
	p.mu.Lock()
	obj, ok := p.instances[id]
	delete(p.instances, id)
	p.mu.Unlock()
	if !ok {
		return ErrUnknownView
	}
	err := p.inst.DestroyInstance(obj)
	markDestroyed(v)
	return err
}

// Len returns the number of live instances produced by p.
func (p *Path) Len() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.instances)
}
