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

package builder

import (
	"errors"
	"log/slog"

	"dirpx.dev/uix/apis"
	"dirpx.dev/uix/registry"
	"dirpx.dev/uix/resolver"
	"dirpx.dev/uix/strategy"
)

var (
	// ErrIncomplete is returned when a mapping is configured without a
	// loader or an instantiator.
	ErrIncomplete = errors.New("uix(builder): mapping needs both a loader and an instantiator")
	// ErrEmpty is returned when no resolver is configured.
	ErrEmpty = errors.New("uix(builder): no resolvers configured")
)

// Option configures a builder.
type Option func(*builder)

// WithMapping sets the table used by the path-mapped strategy.
func WithMapping(m apis.Mapping) Option {
	return func(b *builder) { b.mapping = m }
}

// WithLoader sets the loader used by the path-mapped strategy.
func WithLoader(l apis.Loader) Option {
	return func(b *builder) { b.loader = l }
}

// WithInstantiator sets the instantiator used by the path-mapped strategy.
func WithInstantiator(in apis.Instantiator) Option {
	return func(b *builder) { b.inst = in }
}

// WithFactory adds a constructor table, consulted before the mapping.
func WithFactory(f *strategy.Factory) Option {
	return func(b *builder) { b.factory = f }
}

// WithResolvers appends resolvers consulted after the built-in strategies.
func WithResolvers(rs ...apis.Resolver) Option {
	return func(b *builder) { b.extra = append(b.extra, rs...) }
}

// WithLogger sets the logger handed to built registries and strategies.
func WithLogger(l *slog.Logger) Option {
	return func(b *builder) {
		if l != nil {
			b.log = l
		}
	}
}

// New creates and returns a new instance of an apis.Builder.
func New(opts ...Option) apis.Builder {
	b := &builder{log: slog.Default()}
	for _, opt := range opts {
		if opt != nil {
			opt(b)
		}
	}
	return b
}

// builder holds the pieces a resolver chain is assembled from.
type builder struct {
	mapping apis.Mapping
	loader  apis.Loader
	inst    apis.Instantiator
	factory *strategy.Factory
	extra   []apis.Resolver
	log     *slog.Logger
}

// BuildRegistry builds and returns a new apis.Registry. If a pre-existing
// registry is provided, its entries are copied into the new registry.
func (b *builder) BuildRegistry(_ apis.Config, prev apis.Registry) apis.Registry {
	nreg := registry.New(registry.WithLogger(b.log))
	if prev != nil {
		for _, e := range prev.Entries() {
			_ = nreg.Register(e.Type, e.Instance)
		}
	}
	return nreg
}

// Build assembles the factory, then the path-mapped strategy, then any extra
// resolvers into a chain. The path strategy matches keys with cfg.MatchMode.
func (b *builder) Build(cfg apis.Config) (apis.Resolver, error) {
	var links []apis.Resolver
	if b.factory != nil {
		links = append(links, b.factory)
	}
	if b.mapping != nil {
		if b.loader == nil || b.inst == nil {
			return nil, ErrIncomplete
		}
		links = append(links, strategy.NewPath(b.mapping, b.loader, b.inst,
			strategy.WithMatchMode(cfg.MatchMode),
			strategy.WithLogger(b.log),
		))
	}
	for _, r := range b.extra {
		if r != nil {
			links = append(links, r)
		}
	}
	if len(links) == 0 {
		return nil, ErrEmpty
	}
	return resolver.New(links...), nil
}
