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

package uix

import (
	"log/slog"
	"os"
	"reflect"
	"sync"
	"sync/atomic"

	"dirpx.dev/uix/apis"
	"dirpx.dev/uix/builder"
	"dirpx.dev/uix/config"
	"dirpx.dev/uix/logging"
	"dirpx.dev/uix/manager"
	"dirpx.dev/uix/registry"
)

// state is an immutable snapshot of the process-wide facade.
type state struct {
	cfg apis.Config
	log *slog.Logger
	reg apis.Registry
	// plog and preg mark layers set explicitly; they survive SetConfig.
	plog bool
	preg bool
}

var (
	st       atomic.Pointer[state]
	buildMu  sync.Mutex
	initOnce sync.Once
)

// load returns the current snapshot, building the default one on first use.
func load() *state {
	initOnce.Do(func() {
		buildMu.Lock()
		defer buildMu.Unlock()
		if st.Load() == nil {
			st.Store(defaultState())
		}
	})
	return st.Load()
}

func defaultState() *state {
	cfg := config.FromEnv()
	log := newLogger(cfg)
	return &state{
		cfg: cfg,
		log: log,
		reg: builder.New(builder.WithLogger(log)).BuildRegistry(cfg, nil),
	}
}

func newLogger(cfg apis.Config) *slog.Logger {
	return logging.New(cfg.LogLevel, cfg.LogFormat, os.Stderr)
}

// Config returns the global configuration.
func Config() apis.Config {
	return load().cfg
}

// SetConfig sets the global configuration. The logger and registry are
// rebuilt for cfg unless they were set explicitly; a rebuilt registry keeps
// the tracked instances of the previous one.
func SetConfig(cfg apis.Config) {
	load()
	buildMu.Lock()
	defer buildMu.Unlock()
	old := st.Load()

	nlog := old.log
	if !old.plog {
		nlog = newLogger(cfg)
	}
	nreg := old.reg
	if !old.preg {
		nreg = builder.New(builder.WithLogger(nlog)).BuildRegistry(cfg, old.reg)
	}

	st.Store(&state{cfg: cfg, log: nlog, reg: nreg, plog: old.plog, preg: old.preg})
}

// Logger returns the global logger.
func Logger() *slog.Logger {
	return load().log
}

// SetLogger replaces the global logger and pins it. Nil is ignored.
func SetLogger(l *slog.Logger) {
	if l == nil {
		return
	}
	load()
	buildMu.Lock()
	defer buildMu.Unlock()
	old := st.Load()
	st.Store(&state{cfg: old.cfg, log: l, reg: old.reg, plog: true, preg: old.preg})
}

// Registry returns the global singleton registry.
func Registry() apis.Registry {
	return load().reg
}

// SetRegistry replaces the global registry and pins it. Nil is ignored.
func SetRegistry(reg apis.Registry) {
	if reg == nil {
		return
	}
	load()
	buildMu.Lock()
	defer buildMu.Unlock()
	old := st.Load()
	st.Store(&state{cfg: old.cfg, log: old.log, reg: reg, plog: old.plog, preg: true})
}

// Reset restores the default snapshot and clears pins. Intended for tests.
func Reset() {
	load()
	buildMu.Lock()
	defer buildMu.Unlock()
	st.Store(defaultState())
}

// Register tracks instance in the global registry under its own type.
func Register(instance any) error {
	if instance == nil {
		return registry.ErrNilInstance
	}
	return load().reg.Register(reflect.TypeOf(instance), instance)
}

// Deregister removes instance from the global registry if it is the tracked
// instance of its type, running teardown hooks.
func Deregister(instance any) bool {
	if instance == nil {
		return false
	}
	return load().reg.Deregister(reflect.TypeOf(instance), instance)
}

// Lookup returns the tracked instance of T from the global registry.
func Lookup[T any]() (T, bool) {
	var zero T
	v, ok := load().reg.Lookup(reflect.TypeFor[T]())
	if !ok {
		return zero, false
	}
	tv, ok := v.(T)
	if !ok {
		return zero, false
	}
	return tv, true
}

// NewResolver assembles a resolver chain for the global configuration.
func NewResolver(opts ...builder.Option) (apis.Resolver, error) {
	s := load()
	opts = append([]builder.Option{builder.WithLogger(s.log)}, opts...)
	return builder.New(opts...).Build(s.cfg)
}

// NewManager returns a manager over res bound to the global registry,
// configuration and logger. opts are applied after those defaults.
func NewManager(res apis.Resolver, opts ...manager.Option) *manager.Manager {
	s := load()
	opts = append([]manager.Option{manager.WithConfig(s.cfg), manager.WithLogger(s.log)}, opts...)
	return manager.New(s.reg, res, opts...)
}
