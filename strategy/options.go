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

// Package strategy provides apis.Resolver implementations: a path-mapped
// loader that instantiates templates, and an in-process constructor table.
package strategy

import (
	"errors"
	"log/slog"
	"sync"

	"dirpx.dev/uix/apis"
)

var (
	// ErrNilType is returned when a nil reflect.Type is provided.
	ErrNilType = errors.New("uix(strategy): nil reflect.Type provided")
	// ErrEmptyPath is reported for a mapped key whose entry has no path.
	ErrEmptyPath = errors.New("uix(strategy): mapping entry has an empty path")
	// ErrUnknownView is returned by Destroy for views this resolver did not produce.
	ErrUnknownView = apis.ErrUnknownView
	// ErrNoIdentity is reported for a view that can be neither hashed nor
	// traced to an embedded view.Base.
	ErrNoIdentity = errors.New("uix(strategy): view has no comparable identity")
	// ErrNilConstructor is returned when registering a nil constructor.
	ErrNilConstructor = errors.New("uix(strategy): nil constructor")
	// ErrNilView is reported when a constructor returns no view.
	ErrNilView = errors.New("uix(strategy): constructor returned nil view")
)

type options struct {
	mode apis.MatchMode
	log  *slog.Logger
}

// Option configures a strategy.
type Option func(*options)

// WithMatchMode sets how mapping entries are compared to keys.
func WithMatchMode(m apis.MatchMode) Option {
	return func(o *options) { o.mode = m }
}

// WithLogger sets the strategy's logger.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.log = l
		}
	}
}

func newOptions(opts []Option) options {
	o := options{mode: apis.MatchType, log: slog.Default()}
	for _, opt := range opts {
		if opt != nil {
			opt(&o)
		}
	}
	return o
}

// once wraps done so that only its first invocation is delivered.
func once(done apis.Completion) apis.Completion {
	var o sync.Once
	return func(v apis.View, err error) {
		o.Do(func() {
			if done != nil {
				done(v, err)
			}
		})
	}
}

// markDestroyed flags v as released when it supports it.
func markDestroyed(v apis.View) {
	if d, ok := v.(interface{ MarkDestroyed() }); ok {
		d.MarkDestroyed()
	}
}
