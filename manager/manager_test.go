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

package manager_test

import (
	"bytes"
	"context"
	"errors"
	"reflect"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dirpx.dev/uix/apis"
	"dirpx.dev/uix/config"
	"dirpx.dev/uix/logging"
	"dirpx.dev/uix/manager"
	"dirpx.dev/uix/node"
	"dirpx.dev/uix/registry"
	"dirpx.dev/uix/strategy"
	"dirpx.dev/uix/view"
)

// Inventory records every Show it receives.
type Inventory struct {
	view.Base
	shows [][]any
}

func (v *Inventory) Show(opts apis.ShowOptions) {
	v.Base.Show(opts)
	v.shows = append(v.shows, opts.Args)
	v.NotifyShown()
}

type Settings struct{ view.Base }

var (
	inventoryT = reflect.TypeOf(Inventory{})
	settingsT  = reflect.TypeOf(Settings{})
)

// manual holds completions until the test releases them.
type manual struct {
	mu        sync.Mutex
	keys      map[reflect.Type]bool
	calls     int
	waiting   []apis.Completion
	destroyed []apis.View
}

func newManual(keys ...reflect.Type) *manual {
	r := &manual{keys: map[reflect.Type]bool{}}
	for _, k := range keys {
		r.keys[k] = true
	}
	return r
}

func (r *manual) HasView(key reflect.Type) bool { return r.keys[key] }

func (r *manual) Resolve(_ context.Context, key reflect.Type, _ apis.Host, done apis.Completion) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls++
	if !r.keys[key] {
		done(nil, apis.ErrNotFound)
		return
	}
	r.waiting = append(r.waiting, done)
}

func (r *manual) Destroy(v apis.View) error {
	r.mu.Lock()
	r.destroyed = append(r.destroyed, v)
	r.mu.Unlock()
	if d, ok := v.(interface{ MarkDestroyed() }); ok {
		d.MarkDestroyed()
	}
	return nil
}

// release completes the oldest waiting resolution.
func (r *manual) release(v apis.View, err error) {
	r.mu.Lock()
	done := r.waiting[0]
	r.waiting = r.waiting[1:]
	r.mu.Unlock()
	done(v, err)
}

func result(t *testing.T, f *manager.Future) (apis.View, error) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	v, err := f.Wait(ctx)
	require.NotErrorIs(t, err, context.DeadlineExceeded)
	return v, err
}

func TestShow_MissThenPopulate(t *testing.T) {
	res := newManual(inventoryT)
	m := manager.New(registry.New(), res)

	f := manager.ShowView[*Inventory](m, view.WithArgs("bag"))
	assert.Equal(t, apis.StateLoading, m.State(inventoryT))
	_, err := f.Result()
	assert.ErrorIs(t, err, manager.ErrPending)
	assert.Zero(t, m.Len(), "nothing cached while loading")

	inv := &Inventory{}
	res.release(inv, nil)

	v, err := result(t, f)
	require.NoError(t, err)
	assert.Same(t, inv, v)
	assert.Equal(t, 1, m.Len())
	assert.Equal(t, apis.StateActive, m.State(inventoryT))
	assert.Equal(t, [][]any{{"bag"}}, inv.shows)
	assert.Same(t, m, inv.Owner(), "view bound to its manager")
	assert.Equal(t, inventoryT, inv.Key())
	assert.Equal(t, inventoryT, f.Key())
}

func TestShow_CacheHitShortCircuits(t *testing.T) {
	res := newManual(inventoryT)
	m := manager.New(registry.New(), res)

	f := m.Show(inventoryT)
	inv := &Inventory{}
	res.release(inv, nil)
	_, err := result(t, f)
	require.NoError(t, err)

	var shown int
	f2 := m.Show(reflect.TypeOf(&Inventory{}), view.WithArgs(2), view.OnShown(func() { shown++ }))
	require.True(t, f2.IsDone(), "a hit completes immediately")
	v, err := f2.Result()
	require.NoError(t, err)
	assert.Same(t, inv, v)
	assert.Equal(t, 1, res.calls, "no second resolution")
	assert.Equal(t, [][]any{nil, {2}}, inv.shows)
	assert.Equal(t, 1, shown)
}

func TestShow_CoalescesPendingRequests(t *testing.T) {
	res := newManual(inventoryT)
	m := manager.New(registry.New(), res)

	f1 := m.Show(inventoryT, view.WithArgs(1))
	f2 := m.Show(inventoryT, view.WithArgs(2))
	assert.Same(t, f1, f2)
	assert.Equal(t, 1, res.calls)

	inv := &Inventory{}
	res.release(inv, nil)
	_, err := result(t, f1)
	require.NoError(t, err)
	assert.Equal(t, [][]any{{1}, {2}}, inv.shows, "attached options applied in request order")
	assert.Equal(t, 1, m.Len())
}

func TestShow_UnresolvableKey(t *testing.T) {
	var buf bytes.Buffer
	res := newManual()
	m := manager.New(registry.New(), res, manager.WithLogger(logging.New("debug", "json", &buf)))

	f := m.Show(settingsT)
	require.True(t, f.IsDone())
	_, err := f.Result()
	assert.ErrorIs(t, err, manager.ErrUnresolvableKey)
	assert.ErrorIs(t, err, apis.ErrNotFound)
	assert.Contains(t, err.Error(), "manager_test.Settings")
	assert.Zero(t, m.Len())
	assert.Equal(t, apis.StateAbsent, m.State(settingsT))
	assert.Equal(t, 1, strings.Count(buf.String(), "Unresolvable view type."))
}

func TestShow_ResolutionFailure(t *testing.T) {
	res := newManual(inventoryT)
	m := manager.New(registry.New(), res, manager.WithLogger(logging.Discard()))

	f := m.Show(inventoryT)
	res.release(nil, apis.ErrNoView)
	_, err := result(t, f)
	assert.ErrorIs(t, err, manager.ErrResolutionFailure)
	assert.NotErrorIs(t, err, manager.ErrUnresolvableKey)
	assert.Zero(t, m.Len())

	f = m.Show(inventoryT)
	res.release(nil, nil)
	_, err = result(t, f)
	assert.ErrorIs(t, err, manager.ErrResolutionFailure, "nil view without error")
	assert.Equal(t, apis.StateAbsent, m.State(inventoryT))
}

func TestShow_NilType(t *testing.T) {
	m := manager.New(registry.New(), nil)
	_, err := m.Show(nil).Result()
	assert.ErrorIs(t, err, manager.ErrNilType)
}

func TestHide_DestroyOnHideEvictsAndDestroys(t *testing.T) {
	res := newManual(inventoryT)
	m := manager.New(registry.New(), res)

	f := manager.ShowView[Inventory](m)
	inv := &Inventory{}
	inv.SetDestroyOnHide(true)
	res.release(inv, nil)
	_, err := result(t, f)
	require.NoError(t, err)

	manager.HideView[Inventory](m)
	assert.Zero(t, m.Len())
	assert.Equal(t, []apis.View{inv}, res.destroyed)
	assert.Equal(t, apis.StateDestroyed, inv.State())

	manager.HideView[Inventory](m) // miss: no-op
	assert.Len(t, res.destroyed, 1)
}

func TestHide_KeepsCacheEntry(t *testing.T) {
	res := newManual(inventoryT)
	m := manager.New(registry.New(), res)

	f := m.Show(inventoryT)
	inv := &Inventory{}
	res.release(inv, nil)
	_, err := result(t, f)
	require.NoError(t, err)

	m.Hide(inventoryT)
	m.Hide(inventoryT)
	assert.Equal(t, 1, m.Len())
	assert.Equal(t, apis.StateHidden, m.State(inventoryT))
	assert.Empty(t, res.destroyed)

	got, ok := manager.GetView[*Inventory](m)
	require.True(t, ok)
	assert.Same(t, inv, got)
	_, ok = manager.GetView[*Settings](m)
	assert.False(t, ok)
}

func TestShow_PurgesStaleEntry(t *testing.T) {
	var buf bytes.Buffer
	fac := strategy.NewFactory()
	made := 0
	require.NoError(t, strategy.RegisterFunc(fac, func() *Inventory {
		made++
		return &Inventory{}
	}))
	m := manager.New(registry.New(), fac, manager.WithLogger(logging.New("debug", "json", &buf)))

	v1, err := result(t, m.Show(inventoryT))
	require.NoError(t, err)
	v1.(*Inventory).MarkDestroyed() // destroyed behind the manager's back

	v2, err := result(t, m.Show(inventoryT))
	require.NoError(t, err)
	assert.NotSame(t, v1, v2)
	assert.Equal(t, 2, made)
	assert.Equal(t, 1, strings.Count(buf.String(), "Purged stale view from cache."))
}

func TestShow_StaleEntryKeptWithoutValidation(t *testing.T) {
	fac := strategy.NewFactory()
	require.NoError(t, strategy.RegisterFunc(fac, func() *Inventory { return &Inventory{} }))
	cfg := config.NewConfig(config.WithValidateOnHit(false))
	m := manager.New(registry.New(), fac, manager.WithConfig(cfg))

	v1, err := result(t, m.Show(inventoryT))
	require.NoError(t, err)
	v1.(*Inventory).MarkDestroyed()

	v2, err := result(t, m.Show(inventoryT))
	require.NoError(t, err)
	assert.Same(t, v1, v2)
}

func TestRemoveView(t *testing.T) {
	res := newManual(inventoryT)
	m := manager.New(registry.New(), res)
	f := m.Show(inventoryT)
	inv := &Inventory{}
	res.release(inv, nil)
	_, err := result(t, f)
	require.NoError(t, err)

	v, ok := manager.RemoveView[*Inventory](m)
	require.True(t, ok)
	assert.Same(t, inv, v)
	_, ok = m.RemoveView(inventoryT)
	assert.False(t, ok)
	_, ok = m.RemoveView(nil)
	assert.False(t, ok)
	assert.Empty(t, res.destroyed, "eviction alone does not destroy")
}

func TestStart_SingletonDiscipline(t *testing.T) {
	reg := registry.New(registry.WithLogger(logging.Discard()))
	first := manager.New(reg, nil)
	second := manager.New(reg, nil)

	require.NoError(t, first.Start(context.Background()))
	err := second.Start(context.Background())
	assert.ErrorIs(t, err, registry.ErrDuplicateRegistration)

	got, ok := manager.Lookup(reg)
	require.True(t, ok)
	assert.Same(t, first, got)

	require.NoError(t, second.Close())
	got, ok = manager.Lookup(reg)
	require.True(t, ok, "duplicate teardown leaves the incumbent")
	assert.Same(t, first, got)

	require.NoError(t, first.Close())
	_, ok = manager.Lookup(reg)
	assert.False(t, ok)
	_, ok = manager.Lookup(nil)
	assert.False(t, ok)
}

func TestStart_BindsExistingViews(t *testing.T) {
	res := newManual()
	inv := &Inventory{}
	m := manager.New(registry.New(), res, manager.WithViews(inv, nil))
	require.NoError(t, m.Start(context.Background()))
	require.NoError(t, m.Start(context.Background()), "second start is a no-op")

	assert.Same(t, m, inv.Owner())
	f := m.Show(inventoryT)
	require.True(t, f.IsDone())
	assert.Zero(t, res.calls)
	assert.Equal(t, apis.StateActive, m.State(inventoryT))
}

func TestClose_DestroysCachedViewsAndDiscardsLateCompletions(t *testing.T) {
	res := newManual(inventoryT, settingsT)
	m := manager.New(registry.New(), res, manager.WithLogger(logging.Discard()))
	require.NoError(t, m.Start(context.Background()))

	f := m.Show(inventoryT)
	inv := &Inventory{}
	res.release(inv, nil)
	_, err := result(t, f)
	require.NoError(t, err)

	late := m.Show(settingsT)
	require.NoError(t, m.Close())
	require.NoError(t, m.Close(), "close is idempotent")
	assert.Zero(t, m.Len())
	assert.Equal(t, []apis.View{inv}, res.destroyed)

	s := &Settings{}
	res.release(s, nil)
	_, err = result(t, late)
	assert.ErrorIs(t, err, manager.ErrClosed)
	assert.Equal(t, []apis.View{inv, s}, res.destroyed, "late view destroyed")
	assert.Zero(t, m.Len())

	_, err = m.Show(inventoryT).Result()
	assert.ErrorIs(t, err, manager.ErrClosed)
	assert.ErrorIs(t, m.Start(context.Background()), manager.ErrClosed)
}

func TestStart_ContextCancelsInFlight(t *testing.T) {
	fac := strategy.NewFactory()
	require.NoError(t, strategy.RegisterFunc(fac, func() *Inventory { return &Inventory{} }))
	block := make(chan func(), 1)
	d := dispatcherFunc(func(fn func()) { block <- fn })
	m := manager.New(registry.New(), fac, manager.WithDispatcher(d), manager.WithLogger(logging.Discard()))

	ctx, cancel := context.WithCancel(context.Background())
	require.NoError(t, m.Start(ctx))
	f := m.Show(inventoryT)
	cancel()
	(<-block)()

	_, err := result(t, f)
	assert.ErrorIs(t, err, manager.ErrResolutionFailure)
	assert.ErrorIs(t, err, context.Canceled)
}

type dispatcherFunc func(func())

func (d dispatcherFunc) Dispatch(fn func()) { d(fn) }

func TestPreload(t *testing.T) {
	fac := strategy.NewFactory()
	require.NoError(t, strategy.RegisterFunc(fac, func() *Inventory { return &Inventory{} }))
	require.NoError(t, strategy.RegisterFunc(fac, func() *Settings { return &Settings{} }))
	m := manager.New(registry.New(), fac)

	require.NoError(t, m.Preload(context.Background(), inventoryT, settingsT))
	assert.Equal(t, []reflect.Type{inventoryT, settingsT}, m.Keys())
	assert.Equal(t, apis.StateHidden, m.State(inventoryT), "preloaded views are not shown")

	inv, _ := manager.GetView[*Inventory](m)
	assert.Empty(t, inv.shows)

	err := m.Preload(context.Background(), inventoryT, reflect.TypeOf(struct{ X int }{}))
	assert.ErrorIs(t, err, manager.ErrUnresolvableKey)
}

// Toast counts Close calls.
type Toast struct {
	view.Base
	closed int
	err    error
}

func (v *Toast) Close() error {
	v.closed++
	return v.err
}

var toastT = reflect.TypeOf(Toast{})

func TestDestroyView_LogsFailures(t *testing.T) {
	var buf bytes.Buffer
	fac := strategy.NewFactory()
	m := manager.New(registry.New(), fac, manager.WithLogger(logging.New("debug", "json", &buf)))

	inv := &Inventory{}
	m.DestroyView(inv)
	m.DestroyView(nil)
	assert.False(t, inv.Alive(), "unknown views are released directly")
	assert.Zero(t, strings.Count(buf.String(), "Failed to destroy view."))

	broken := &Toast{err: errors.New("boom")}
	m.DestroyView(broken)
	assert.Equal(t, 1, broken.closed)
	assert.Equal(t, 1, strings.Count(buf.String(), "Failed to destroy view."))
	assert.True(t, errors.Is(fac.Destroy(&Inventory{}), strategy.ErrUnknownView))
}

// Popup is destroyed whenever it is hidden.
type Popup struct{ view.Base }

var popupT = reflect.TypeOf(Popup{})

func newPopupManager(t *testing.T) *manager.Manager {
	t.Helper()
	fac := strategy.NewFactory()
	require.NoError(t, strategy.RegisterFunc(fac, func() *Popup {
		p := &Popup{}
		p.SetDestroyOnHide(true)
		return p
	}))
	return manager.New(registry.New(), fac)
}

func TestHide_EvictedViewDestroysItselfNotItsReplacement(t *testing.T) {
	m := newPopupManager(t)

	first, err := result(t, m.Show(popupT))
	require.NoError(t, err)
	_, ok := m.RemoveView(popupT)
	require.True(t, ok)

	second, err := result(t, m.Show(popupT))
	require.NoError(t, err)
	require.NotSame(t, first, second)

	first.Hide()

	cached, ok := manager.GetView[*Popup](m)
	require.True(t, ok, "replacement stays cached")
	assert.Same(t, second, cached)
	assert.Equal(t, apis.StateDestroyed, first.State())
	assert.Equal(t, apis.StateActive, second.State())
}

func TestHide_EvictedViewIsStillDestroyed(t *testing.T) {
	m := newPopupManager(t)

	v, err := result(t, m.Show(popupT))
	require.NoError(t, err)
	_, ok := m.RemoveView(popupT)
	require.True(t, ok)

	v.Hide()
	assert.Equal(t, apis.StateDestroyed, v.State())
	assert.Zero(t, m.Len())
}

func TestEvictView_OnlyRemovesMatchingEntry(t *testing.T) {
	m := newPopupManager(t)
	v, err := result(t, m.Show(popupT))
	require.NoError(t, err)

	assert.False(t, m.EvictView(popupT, &Popup{}))
	assert.Equal(t, 1, m.Len())
	assert.False(t, m.EvictView(nil, v))
	assert.True(t, m.EvictView(popupT, v))
	assert.Zero(t, m.Len())
	assert.False(t, m.EvictView(popupT, v))
}

// Ledger has a slice field, so its value type cannot be hashed.
type Ledger struct {
	*view.Base
	rows []string
}

// bare is a view with neither a comparable type nor an embedded Base.
type bare struct{ rows []string }

func (bare) Initialize(apis.Owner, reflect.Type) {}
func (bare) Show(apis.ShowOptions)               {}
func (bare) Hide()                               {}
func (bare) DestroyOnHide() bool                 { return false }
func (bare) State() apis.State                   { return apis.StateActive }

func TestShow_UnhashableValueView(t *testing.T) {
	fac := strategy.NewFactory()
	require.NoError(t, strategy.RegisterFunc(fac, func() Ledger {
		l := Ledger{Base: &view.Base{}, rows: []string{"a", "b"}}
		l.SetDestroyOnHide(true)
		return l
	}))
	require.NoError(t, strategy.RegisterFunc(fac, func() bare { return bare{} }))
	m := manager.New(registry.New(), fac, manager.WithLogger(logging.Discard()))

	ledgerT := reflect.TypeOf(Ledger{})
	v, err := result(t, m.Show(ledgerT))
	require.NoError(t, err)
	assert.Equal(t, apis.StateActive, v.State())

	m.Hide(ledgerT)
	assert.Zero(t, m.Len())
	assert.Equal(t, apis.StateDestroyed, v.State())

	_, err = result(t, m.Show(reflect.TypeOf(bare{})))
	assert.ErrorIs(t, err, manager.ErrResolutionFailure)
	assert.ErrorIs(t, err, strategy.ErrNoIdentity)
}

func TestWithViews_DestroyOnHideReleasesSeededView(t *testing.T) {
	parent := node.New("root")
	seeded := &Toast{}
	seeded.SetDestroyOnHide(true)
	require.NoError(t, parent.Attach(seeded))
	kept := &Inventory{}

	m := manager.New(registry.New(), strategy.NewFactory(),
		manager.WithParent(parent), manager.WithViews(seeded, kept))
	require.NoError(t, m.Start(context.Background()))

	f := m.Show(toastT)
	require.True(t, f.IsDone())
	m.Hide(toastT)

	assert.Equal(t, apis.StateDestroyed, seeded.State())
	assert.Equal(t, 1, seeded.closed)
	assert.Zero(t, parent.Len(), "released view is detached")
	assert.Equal(t, 1, m.Len())

	require.NoError(t, m.Close(), "seeded views release cleanly")
	assert.False(t, kept.Alive())
}

func TestManager_Accessors(t *testing.T) {
	cfg := config.NewConfig(config.WithMatchMode(apis.MatchName))
	m := manager.New(registry.New(), nil, manager.WithConfig(cfg))
	assert.Equal(t, apis.MatchName, m.Config().MatchMode)
	assert.NotEqual(t, [16]byte{}, [16]byte(m.ID()))
	assert.Nil(t, m.Parent())
	_, ok := m.Get(nil)
	assert.False(t, ok)
	assert.Equal(t, apis.StateAbsent, m.State(nil))
}
