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

package apis

import (
	"fmt"
	"strings"
)

// HidePolicy controls what happens to a view when it is hidden.
//
// # Values
//
//   - Inherit: keep whatever policy the view itself declares.
//   - Keep: deactivate only; the cache entry survives and the next show reuses it.
//   - Destroy: evict the cache entry, then release the underlying object.
//
// HidePolicy is authored in mapping tables (e.g. `on_hide = "destroy"`) and
// applied by resolvers to freshly created views. The textual forms are a
// stable format: changing their spelling is a breaking change for persisted
// tables.
type HidePolicy int

const (
	// Inherit leaves the view's own destroy-on-hide flag untouched.
	Inherit HidePolicy = iota
	// Keep forces destroy-on-hide off.
	Keep
	// Destroy forces destroy-on-hide on.
	Destroy
)

// String returns "inherit", "keep" or "destroy", and "Unknown(<n>)" for
// out-of-range values. It never panics.
func (p HidePolicy) String() string {
	switch p {
	case Inherit:
		return "inherit"
	case Keep:
		return "keep"
	case Destroy:
		return "destroy"
	default:
		return fmt.Sprintf("Unknown(%d)", int(p))
	}
}

// ParseHidePolicy parses a textual HidePolicy, case-insensitive.
// The empty string parses as Inherit so optional fields can be left out.
// On failure it returns Inherit and a non-nil error.
func ParseHidePolicy(s string) (HidePolicy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "inherit":
		return Inherit, nil
	case "keep":
		return Keep, nil
	case "destroy":
		return Destroy, nil
	default:
		return Inherit, fmt.Errorf("uix: unknown hide policy %q", s)
	}
}

// MustParseHidePolicy is like ParseHidePolicy but panics on invalid input.
// Use it for hard-coded values only.
func MustParseHidePolicy(s string) HidePolicy {
	p, err := ParseHidePolicy(s)
	if err != nil {
		panic(err)
	}
	return p
}

// MarshalText implements encoding.TextMarshaler. Unknown values are an error
// rather than a persisted "Unknown(...)" form.
func (p HidePolicy) MarshalText() ([]byte, error) {
	switch p {
	case Inherit, Keep, Destroy:
		return []byte(p.String()), nil
	default:
		return nil, fmt.Errorf("uix: cannot marshal unknown hide policy %d", int(p))
	}
}

// UnmarshalText implements encoding.TextUnmarshaler. On failure *p is left unchanged.
func (p *HidePolicy) UnmarshalText(text []byte) error {
	v, err := ParseHidePolicy(string(text))
	if err != nil {
		return err
	}
	*p = v
	return nil
}
