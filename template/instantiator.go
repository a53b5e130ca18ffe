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

package template

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"reflect"
	"sync"

	"dirpx.dev/uix/apis"
	"dirpx.dev/uix/view"
)

var (
	// ErrUnknownKind is returned when no factory is registered for a kind.
	ErrUnknownKind = errors.New("uix(template): unknown kind")
	// ErrDuplicateKind is returned when a kind is registered twice.
	ErrDuplicateKind = errors.New("uix(template): kind already registered")
	// ErrInvalidFactory is returned for an empty kind or nil factory.
	ErrInvalidFactory = errors.New("uix(template): invalid factory")
	// ErrUnsupportedAsset is returned for assets that are not templates.
	ErrUnsupportedAsset = errors.New("uix(template): unsupported asset")
	// ErrNilInstance is returned when a factory produces nothing.
	ErrNilInstance = errors.New("uix(template): factory returned nil")
)

// Factory builds an object from a decoded template.
type Factory func(t Template) (any, error)

// Destroyer is implemented by objects that release resources on destruction.
type Destroyer interface {
	Destroy()
}

// Option configures an Instantiator.
type Option func(*Instantiator)

// WithCodec sets the encoding used for byte assets.
func WithCodec(c Codec) Option {
	return func(in *Instantiator) { in.codec = c }
}

// WithLogger sets the instantiator's logger.
func WithLogger(l *slog.Logger) Option {
	return func(in *Instantiator) {
		if l != nil {
			in.log = l
		}
	}
}

// Instantiator implements apis.Instantiator over a kind-keyed factory table.
type Instantiator struct {
	mu        sync.RWMutex
	factories map[string]Factory
	parents   map[any]apis.Container
	codec     Codec
	log       *slog.Logger
}

// Ensure Instantiator implements apis.Instantiator.
var _ apis.Instantiator = (*Instantiator)(nil)

// NewInstantiator returns an instantiator with no factories.
func NewInstantiator(opts ...Option) *Instantiator {
	in := &Instantiator{
		factories: make(map[string]Factory),
		parents:   make(map[any]apis.Container),
		log:       slog.Default(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(in)
		}
	}
	return in
}

// Register binds kind to f.
func (in *Instantiator) Register(kind string, f Factory) error {
	if kind == "" || f == nil {
		return ErrInvalidFactory
	}
	in.mu.Lock()
	defer in.mu.Unlock()
	if _, ok := in.factories[kind]; ok {
		return fmt.Errorf("%w: %s", ErrDuplicateKind, kind)
	}
	in.factories[kind] = f
	return nil
}

// Instantiate builds exactly one object from asset and attaches it to
// parent when parent is non-nil. The asset may be a Template, a *Template
// or encoded bytes.
func (in *Instantiator) Instantiate(asset any, parent apis.Container) (any, error) {
	t, err := in.template(asset)
	if err != nil {
		return nil, err
	}

	in.mu.RLock()
	f, ok := in.factories[t.Kind]
	in.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownKind, t.Kind)
	}

	obj, err := f(t)
	if err != nil {
		return nil, fmt.Errorf("instantiate %s: %w", t.Kind, err)
	}
	if obj == nil {
		return nil, fmt.Errorf("%w: %s", ErrNilInstance, t.Kind)
	}

	if t.DestroyOnHide {
		if v, ok := view.Extract(obj); ok {
			if s, ok := v.(interface{ SetDestroyOnHide(bool) }); ok {
				s.SetDestroyOnHide(true)
			}
		}
	}

	if parent != nil {
		if err := parent.Attach(obj); err != nil {
			release(obj)
			return nil, fmt.Errorf("attach %s: %w", t.Kind, err)
		}
		if reflect.TypeOf(obj).Comparable() {
			in.mu.Lock()
			in.parents[obj] = parent
			in.mu.Unlock()
		}
	}

	in.log.Debug("Instantiated template.", "kind", t.Kind, "name", t.Name)
	return obj, nil
}

// DestroyInstance detaches obj from the parent it was attached to, then
// calls Destroy or Close when obj implements them.
func (in *Instantiator) DestroyInstance(obj any) error {
	if obj == nil {
		return ErrNilInstance
	}
	if reflect.TypeOf(obj).Comparable() {
		in.mu.Lock()
		parent, ok := in.parents[obj]
		delete(in.parents, obj)
		in.mu.Unlock()
		if ok {
			parent.Detach(obj)
		}
	}
	return release(obj)
}

func (in *Instantiator) template(asset any) (Template, error) {
	switch a := asset.(type) {
	case Template:
		return a, validate(a)
	case *Template:
		if a == nil {
			return Template{}, ErrUnsupportedAsset
		}
		return *a, validate(*a)
	case []byte:
		return in.codec.decode(a)
	default:
		return Template{}, fmt.Errorf("%w: %T", ErrUnsupportedAsset, asset)
	}
}

func release(obj any) error {
	switch o := obj.(type) {
	case Destroyer:
		o.Destroy()
		return nil
	case io.Closer:
		return o.Close()
	default:
		return nil
	}
}
