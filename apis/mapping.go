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
	"reflect"
	"strings"
)

// MatchMode selects how a mapping entry is compared to a type key.
type MatchMode int

const (
	// MatchType compares by exact (normalized) type identity. This is the default.
	MatchType MatchMode = iota
	// MatchName compares by the type's simple name. It is a compatibility mode
	// for tables authored without access to Go type values.
	MatchName
)

// String implements fmt.Stringer.
func (m MatchMode) String() string {
	switch m {
	case MatchType:
		return "type"
	case MatchName:
		return "name"
	default:
		return fmt.Sprintf("Unknown(%d)", int(m))
	}
}

// ParseMatchMode parses "type" or "name" (case-insensitive, trimmed).
func ParseMatchMode(s string) (MatchMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "type", "":
		return MatchType, nil
	case "name":
		return MatchName, nil
	default:
		return MatchType, fmt.Errorf("uix: unknown match mode %q", s)
	}
}

// MappingEntry associates a view type with the resource that backs it.
type MappingEntry struct {
	// Type is the Go type of the view; nil when the entry was authored by name only.
	Type reflect.Type
	// TypeName is the authored type name, either simple ("Inventory")
	// or package-qualified ("ui.Inventory").
	TypeName string
	// Path is the resource path handed to the Loader.
	Path string
	// OnHide overrides the view's destroy-on-hide policy unless Inherit.
	OnHide HidePolicy
}

// Mapping is a read-only, ordered lookup table of MappingEntry values.
type Mapping interface {
	// Find returns the first entry matching key under mode.
	Find(key reflect.Type, mode MatchMode) (MappingEntry, bool)
	// Has reports whether any entry matches key under mode.
	Has(key reflect.Type, mode MatchMode) bool
	// Entries returns a copy of the entries in table order.
	Entries() []MappingEntry
}
