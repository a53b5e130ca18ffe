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

// Package mapping holds the ordered table that maps view types to resource
// paths, and parses it from HCL, YAML, JSON or a bbolt store.
package mapping

import (
	"errors"
	"reflect"
	"slices"
	"strings"

	"dirpx.dev/uix/apis"
	uref "dirpx.dev/uix/utils/reflect"
)

var (
	// ErrInvalidMapping is returned for malformed mapping sources.
	ErrInvalidMapping = errors.New("uix(mapping): invalid mapping")
	// ErrUnsupportedFormat is returned by LoadFile for unknown extensions.
	ErrUnsupportedFormat = errors.New("uix(mapping): unsupported file format")
)

// Table is an ordered, read-only list of mapping entries. Lookups return the
// first matching entry.
type Table struct {
	entries []apis.MappingEntry
}

// Ensure Table implements apis.Mapping.
var _ apis.Mapping = (*Table)(nil)

// New builds a table. Entry types are normalized and an empty TypeName is
// filled in from the type.
func New(entries ...apis.MappingEntry) *Table {
	out := make([]apis.MappingEntry, 0, len(entries))
	for _, e := range entries {
		if e.Type != nil {
			e.Type = uref.Key(e.Type)
			if e.TypeName == "" {
				e.TypeName = uref.QualifiedName(e.Type)
			}
		}
		e.TypeName = strings.TrimSpace(e.TypeName)
		out = append(out, e)
	}
	return &Table{entries: out}
}

// Entry is a convenience constructor for a type-bound entry.
func Entry(t reflect.Type, path string, onHide apis.HidePolicy) apis.MappingEntry {
	return apis.MappingEntry{Type: t, Path: path, OnHide: onHide}
}

// EntryFor is Entry for the type parameter T.
func EntryFor[T any](path string, onHide apis.HidePolicy) apis.MappingEntry {
	return Entry(reflect.TypeFor[T](), path, onHide)
}

// Find returns the first entry matching key under mode. Under MatchType,
// entries without a Go type never match.
func (t *Table) Find(key reflect.Type, mode apis.MatchMode) (apis.MappingEntry, bool) {
	if t == nil || key == nil {
		return apis.MappingEntry{}, false
	}
	k := uref.Key(key)
	for _, e := range t.entries {
		if matches(e, k, mode) {
			return e, true
		}
	}
	return apis.MappingEntry{}, false
}

// Has reports whether any entry matches key under mode.
func (t *Table) Has(key reflect.Type, mode apis.MatchMode) bool {
	_, ok := t.Find(key, mode)
	return ok
}

// Entries returns a copy of the entries in table order.
func (t *Table) Entries() []apis.MappingEntry {
	if t == nil {
		return nil
	}
	return slices.Clone(t.entries)
}

// Len returns the number of entries.
func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.entries)
}

// Bind returns a copy of t in which entries authored by name only are bound
// to the first of types whose name matches. A qualified name ("ui.Inventory")
// must match the package-qualified name; a simple name matches the bare name.
func (t *Table) Bind(types ...reflect.Type) *Table {
	out := t.Entries()
	for i, e := range out {
		if e.Type != nil || e.TypeName == "" {
			continue
		}
		for _, typ := range types {
			if typ == nil {
				continue
			}
			if nameMatches(e.TypeName, uref.Key(typ)) {
				out[i].Type = uref.Key(typ)
				break
			}
		}
	}
	return &Table{entries: out}
}

func matches(e apis.MappingEntry, key reflect.Type, mode apis.MatchMode) bool {
	switch mode {
	case apis.MatchName:
		name := uref.SimpleName(key)
		return name != "" && simpleName(e) == name
	default:
		return e.Type != nil && e.Type == key
	}
}

func simpleName(e apis.MappingEntry) string {
	if e.Type != nil {
		return uref.SimpleName(e.Type)
	}
	n := e.TypeName
	if i := strings.LastIndexByte(n, '.'); i >= 0 {
		n = n[i+1:]
	}
	return n
}

func nameMatches(authored string, t reflect.Type) bool {
	if strings.Contains(authored, ".") {
		return authored == uref.QualifiedName(t)
	}
	return authored == uref.SimpleName(t)
}
