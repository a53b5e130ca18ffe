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

// Package manager implements the view cache: views are resolved lazily by
// type, cached, shown, hidden and destroyed.
//
// A Manager registers itself in a singleton registry on Start. Requests for
// a key that is already loading coalesce onto one Future, so a key is never
// resolved twice concurrently.
package manager

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"reflect"
	"slices"
	"strings"
	"sync"

	"github.com/google/uuid"

	"dirpx.dev/uix/apis"
	"dirpx.dev/uix/config"
	"dirpx.dev/uix/dispatch"
	"dirpx.dev/uix/registry"
	"dirpx.dev/uix/resolver"
	uref "dirpx.dev/uix/utils/reflect"
	"dirpx.dev/uix/view"
)

var (
	// ErrUnresolvableKey is reported when no resolver maps the requested type.
	ErrUnresolvableKey = errors.New("uix(manager): unresolvable view type")
	// ErrResolutionFailure is reported when a mapped type fails to produce a view.
	ErrResolutionFailure = errors.New("uix(manager): view resolution failed")
	// ErrClosed is reported for requests made to, or completed after, a closed manager.
	ErrClosed = errors.New("uix(manager): manager is closed")
	// ErrNilType is returned when a nil reflect.Type is provided.
	ErrNilType = errors.New("uix(manager): nil reflect.Type provided")
	// ErrPending is returned by Future.Result while the request is in flight.
	ErrPending = errors.New("uix(manager): resolution pending")
)

// Type is the registry key managers register under.
var Type = reflect.TypeFor[Manager]()

// Manager caches views by normalized type.
type Manager struct {
	id      uuid.UUID
	reg     apis.Registry
	res     apis.Resolver
	cfg     apis.Config
	log     *slog.Logger
	parent  apis.Container
	disp    apis.Dispatcher
	initial []apis.View

	// mu guards the fields below. No view, resolver or registry call
	// is made while it is held.
	mu      sync.Mutex
	ctx     context.Context
	cancel  context.CancelFunc
	views   map[reflect.Type]apis.View
	pending map[reflect.Type]*Future
	started bool
	closed  bool
	tracked bool
}

// Ensure Manager implements apis.Host.
var _ apis.Host = (*Manager)(nil)

// New returns a manager over res. A nil reg selects registry.Default and a
// nil res an empty resolver chain.
func New(reg apis.Registry, res apis.Resolver, opts ...Option) *Manager {
	if reg == nil {
		reg = registry.Default()
	}
	if res == nil {
		res = resolver.New()
	}
	m := &Manager{
		id:      uuid.New(),
		reg:     reg,
		res:     res,
		cfg:     config.DefaultConfig(),
		log:     slog.Default(),
		disp:    dispatch.Direct,
		views:   make(map[reflect.Type]apis.View),
		pending: make(map[reflect.Type]*Future),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(m)
		}
	}
	m.ctx, m.cancel = context.WithCancel(context.Background())
	for _, v := range m.initial {
		m.views[uref.Key(reflect.TypeOf(v))] = v
	}
	return m
}

// Start registers the manager and binds pre-existing views. Cancelling ctx
// cancels in-flight resolutions. A duplicate registration is returned, but
// the manager stays usable, untracked by the registry.
func (m *Manager) Start(ctx context.Context) error {
	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return ErrClosed
	}
	if m.started {
		m.mu.Unlock()
		return nil
	}
	m.started = true
	if ctx != nil {
		base := m.cancel
		var cancel context.CancelFunc
		m.ctx, cancel = context.WithCancel(ctx)
		m.cancel = func() {
			cancel()
			base()
		}
	}
	initial := make(map[reflect.Type]apis.View, len(m.initial))
	for _, v := range m.initial {
		k := uref.Key(reflect.TypeOf(v))
		if view.Same(m.views[k], v) {
			initial[k] = v
		}
	}
	m.mu.Unlock()

	err := m.reg.Register(Type, m)
	m.mu.Lock()
	m.tracked = err == nil
	m.mu.Unlock()

	for k, v := range initial {
		m.bind(v, k)
	}
	m.log.Debug("Manager started.", "id", m.id, "tracked", err == nil, "views", len(initial))
	return err
}

// Close discards pending requests, destroys cached views and deregisters
// the manager. Completions that arrive later are destroyed.
func (m *Manager) Close() error {
	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return nil
	}
	m.closed = true
	views := make([]apis.View, 0, len(m.views))
	for _, v := range m.views {
		views = append(views, v)
	}
	clear(m.views)
	tracked, cancel := m.tracked, m.cancel
	m.mu.Unlock()

	cancel()
	if tracked {
		m.reg.Deregister(Type, m)
	}

	var errs []error
	for _, v := range views {
		if err := m.destroy(v); err != nil {
			errs = append(errs, err)
		}
	}
	m.log.Debug("Manager closed.", "id", m.id, "destroyed", len(views))
	return errors.Join(errs...)
}

// Show shows the view for t, resolving it first on a miss.
func (m *Manager) Show(t reflect.Type, opts ...apis.ShowOption) *Future {
	so := apis.NewShowOptions(opts...)
	return m.request(t, &so)
}

// preload requests t without show options.
func (m *Manager) preload(t reflect.Type) *Future {
	return m.request(t, nil)
}

func (m *Manager) request(t reflect.Type, so *apis.ShowOptions) *Future {
	if t == nil {
		return settled(nil, nil, ErrNilType)
	}
	k := uref.Key(t)

	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return settled(k, nil, ErrClosed)
	}
	stale := false
	if v, ok := m.views[k]; ok {
		if !m.cfg.ValidateOnHit || view.IsAlive(v) {
			m.mu.Unlock()
			if so != nil {
				v.Show(*so)
			}
			return settled(k, v, nil)
		}
		delete(m.views, k)
		stale = true
	}
	if f, ok := m.pending[k]; ok {
		if so != nil {
			f.opts = append(f.opts, *so)
		}
		m.mu.Unlock()
		return f
	}
	f := newFuture(k)
	if so != nil {
		f.opts = append(f.opts, *so)
	}
	m.pending[k] = f
	ctx := m.ctx
	m.mu.Unlock()

	if stale {
		m.log.Warn("Purged stale view from cache.", "type", uref.QualifiedName(k))
	}
	m.res.Resolve(ctx, k, m, func(v apis.View, err error) {
		m.complete(f, v, err)
	})
	return f
}

func (m *Manager) complete(f *Future, v apis.View, err error) {
	name := uref.QualifiedName(f.key)
	if err == nil && v == nil {
		err = apis.ErrNoView
	}

	m.mu.Lock()
	if f.completed {
		m.mu.Unlock()
		return
	}
	f.completed = true
	if m.pending[f.key] == f {
		delete(m.pending, f.key)
	}
	closed := m.closed
	if err != nil || closed {
		m.mu.Unlock()
		switch {
		case closed:
			if v != nil && err == nil {
				m.DestroyView(v)
			}
			m.log.Debug("Discarded late completion.", "type", name)
			f.settle(nil, ErrClosed)
		case errors.Is(err, apis.ErrNotFound):
			m.log.Error("Unresolvable view type.", "type", name, "err", err)
			f.settle(nil, fmt.Errorf("%w: %s: %w", ErrUnresolvableKey, name, err))
		default:
			m.log.Error("View resolution failed.", "type", name, "err", err)
			f.settle(nil, fmt.Errorf("%w: %s: %w", ErrResolutionFailure, name, err))
		}
		return
	}
	m.views[f.key] = v
	bundles := f.opts
	f.opts = nil
	m.mu.Unlock()

	m.bind(v, f.key)
	for _, so := range bundles {
		v.Show(so)
	}
	m.log.Debug("View resolved.", "type", name, "shows", len(bundles))
	f.settle(v, nil)
}

// Hide hides the cached view for t. A miss is a no-op.
func (m *Manager) Hide(t reflect.Type) {
	if v, ok := m.Get(t); ok {
		v.Hide()
	}
}

// Get returns the cached view for t without side effects.
func (m *Manager) Get(t reflect.Type) (apis.View, bool) {
	if t == nil {
		return nil, false
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.views[uref.Key(t)]
	return v, ok
}

// RemoveView evicts the cache entry for key and returns the evicted view.
func (m *Manager) RemoveView(key reflect.Type) (apis.View, bool) {
	if key == nil {
		return nil, false
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	k := uref.Key(key)
	v, ok := m.views[k]
	delete(m.views, k)
	return v, ok
}

// EvictView evicts the cache entry for key only if it holds v.
func (m *Manager) EvictView(key reflect.Type, v apis.View) bool {
	if key == nil || v == nil {
		return false
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	k := uref.Key(key)
	if cur, ok := m.views[k]; ok && view.Same(cur, v) {
		delete(m.views, k)
		return true
	}
	return false
}

// DestroyView releases v through the resolver. Views no resolver produced,
// such as those seeded with WithViews, are released with view.Release.
// Failures are logged.
func (m *Manager) DestroyView(v apis.View) {
	if v == nil {
		return
	}
	if err := m.destroy(v); err != nil {
		m.log.Error("Failed to destroy view.", "view", fmt.Sprintf("%T", v), "err", err)
	}
}

func (m *Manager) destroy(v apis.View) error {
	err := m.res.Destroy(v)
	if errors.Is(err, apis.ErrUnknownView) {
		return view.Release(v, m.parent)
	}
	return err
}

// bind initializes v as the entry for key.
func (m *Manager) bind(v apis.View, key reflect.Type) {
	v.Initialize(m, key)
	if b, ok := v.(apis.SelfBinder); ok {
		b.BindSelf(v)
	}
}

// State reports Loading for pending keys, Absent for unknown keys, and the
// view's own state otherwise.
func (m *Manager) State(t reflect.Type) apis.State {
	if t == nil {
		return apis.StateAbsent
	}
	k := uref.Key(t)
	m.mu.Lock()
	v, ok := m.views[k]
	_, loading := m.pending[k]
	m.mu.Unlock()
	switch {
	case ok:
		return v.State()
	case loading:
		return apis.StateLoading
	default:
		return apis.StateAbsent
	}
}

// Len returns the number of cached views.
func (m *Manager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.views)
}

// Keys returns the cached keys ordered by qualified name.
func (m *Manager) Keys() []reflect.Type {
	m.mu.Lock()
	keys := make([]reflect.Type, 0, len(m.views))
	for k := range m.views {
		keys = append(keys, k)
	}
	m.mu.Unlock()
	slices.SortFunc(keys, func(a, b reflect.Type) int {
		return strings.Compare(uref.QualifiedName(a), uref.QualifiedName(b))
	})
	return keys
}

// Parent returns the container new views are instantiated under.
func (m *Manager) Parent() apis.Container { return m.parent }

// Dispatch posts fn to the manager's dispatcher.
func (m *Manager) Dispatch(fn func()) { m.disp.Dispatch(fn) }

// ID returns the manager's instance id.
func (m *Manager) ID() uuid.UUID { return m.id }

// Config returns the manager's configuration.
func (m *Manager) Config() apis.Config { return m.cfg }
