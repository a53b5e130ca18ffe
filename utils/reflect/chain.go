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

package reflect

import "reflect"

// Base returns the declared base of t: the type of its first embedded field,
// normalized. Go has no inheritance; by convention the first embedded struct
// plays that role (type Derived struct { Base; ... }).
func Base(t reflect.Type) (reflect.Type, bool) {
	n, err := Normalize(t)
	if err != nil || n.Kind() != reflect.Struct || n.NumField() == 0 {
		return nil, false
	}
	f := n.Field(0)
	if !f.Anonymous {
		return nil, false
	}
	b, err := Normalize(f.Type)
	if err != nil || b.Kind() != reflect.Struct {
		return nil, false
	}
	return b, true
}

// Chain returns t (normalized) followed by each ancestor found by walking
// Base upward until no further ancestor exists. Cycles through pointer
// embedding are cut at the first repeat.
func Chain(t reflect.Type) []reflect.Type {
	n := Key(t)
	if n == nil {
		return nil
	}
	out := []reflect.Type{n}
	seen := map[reflect.Type]struct{}{n: {}}
	for {
		b, ok := Base(n)
		if !ok {
			return out
		}
		if _, dup := seen[b]; dup {
			return out
		}
		seen[b] = struct{}{}
		out = append(out, b)
		n = b
	}
}
