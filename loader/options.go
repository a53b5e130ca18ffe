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

package loader

import (
	"errors"
	"log/slog"
	"strings"
)

var (
	// ErrNotFound is reported when no resource exists at the requested path.
	ErrNotFound = errors.New("uix(loader): resource not found")
	// ErrEmptyPath is reported for an empty resource path.
	ErrEmptyPath = errors.New("uix(loader): empty path")
)

// DefaultExtension is appended to paths by the FS loader.
const DefaultExtension = ".cbor"

// DefaultBucket is the bbolt bucket read by the Bolt loader.
const DefaultBucket = "templates"

type options struct {
	exts   []string
	bucket string
	log    *slog.Logger
}

// Option configures a loader.
type Option func(*options)

// WithExtensions replaces the extensions tried after the bare path.
// An empty list makes the FS loader try only the path itself.
func WithExtensions(exts ...string) Option {
	return func(o *options) {
		o.exts = o.exts[:0]
		for _, e := range exts {
			e = strings.TrimSpace(e)
			if e == "" {
				continue
			}
			if !strings.HasPrefix(e, ".") {
				e = "." + e
			}
			o.exts = append(o.exts, e)
		}
	}
}

// WithBucket sets the bbolt bucket the Bolt loader reads.
func WithBucket(name string) Option {
	return func(o *options) {
		if name = strings.TrimSpace(name); name != "" {
			o.bucket = name
		}
	}
}

// WithLogger sets the loader's logger.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.log = l
		}
	}
}

func newOptions(opts []Option) options {
	o := options{
		exts:   []string{DefaultExtension},
		bucket: DefaultBucket,
		log:    slog.Default(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(&o)
		}
	}
	return o
}

// cleanPath strips leading slashes so authored paths like "/UI/Inventory"
// are valid fs paths.
func cleanPath(p string) string {
	return strings.TrimLeft(strings.TrimSpace(p), "/")
}
