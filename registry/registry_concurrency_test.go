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

package registry_test

import (
	"reflect"
	"runtime"
	"sync"
	"sync/atomic"
	"testing"

	"dirpx.dev/uix/apis"
	"dirpx.dev/uix/logging"
	"dirpx.dev/uix/registry"
)

// A few named, non-zero-size types so every instance has its own address.
type T0 struct{ n int }
type T1 struct{ n int }
type T2 struct{ n int }
type T3 struct{ n int }
type T4 struct{ n int }
type T5 struct{ n int }
type T6 struct{ n int }
type T7 struct{ n int }
type T8 struct{ n int }
type T9 struct{ n int }

func sampleTypes() []any {
	return []any{&T0{}, &T1{}, &T2{}, &T3{}, &T4{}, &T5{}, &T6{}, &T7{}, &T8{}, &T9{}}
}

// TestConcurrentRegisterDeregister verifies the map is never corrupted and
// uniqueness holds under concurrent register/deregister from many instances.
func TestConcurrentRegisterDeregister(t *testing.T) {
	reg := registry.New(registry.WithLogger(logging.Discard()))
	types := sampleTypes()

	var hooks atomic.Int64
	for _, v := range types {
		reg.OnTeardown(reflect.TypeOf(v), func(reflect.Type) { hooks.Add(1) })
	}

	var removed atomic.Int64
	wg := sync.WaitGroup{}
	workers := runtime.GOMAXPROCS(0) * 4
	wg.Add(workers)
	for w := 0; w < workers; w++ {
		go func(id int) {
			defer wg.Done()
			for i := 0; i < 2000; i++ {
				proto := types[(i+id)%len(types)]
				// Fresh instance of the same type each time.
				inst := reflect.New(reflect.TypeOf(proto).Elem()).Interface()
				if err := reg.Register(reflect.TypeOf(inst), inst); err == nil {
					if got, ok := reg.Lookup(reflect.TypeOf(inst)); !ok || got != inst {
						// Another goroutine may only remove our own entry via our instance.
						t.Errorf("lookup after register: ok=%v", ok)
						return
					}
					if reg.Deregister(reflect.TypeOf(inst), inst) {
						removed.Add(1)
					}
				}
				if n := reg.Count(); n > len(types) {
					t.Errorf("count %d exceeds distinct types %d", n, len(types))
					return
				}
				_ = reg.Entries()
			}
		}(w)
	}
	wg.Wait()

	if reg.Count() != 0 {
		t.Fatalf("count after drain: got %d want 0", reg.Count())
	}
	if hooks.Load() != removed.Load() {
		t.Fatalf("hooks ran %d times, want %d (one per removal)", hooks.Load(), removed.Load())
	}
}

// TestDefault_ConcurrentFirstAccess ensures concurrent first accesses
// observe one shared registry.
func TestDefault_ConcurrentFirstAccess(t *testing.T) {
	registry.ResetDefault()
	t.Cleanup(registry.ResetDefault)

	workers := runtime.GOMAXPROCS(0) * 4
	got := make([]apis.Registry, workers)
	wg := sync.WaitGroup{}
	wg.Add(workers)
	for w := 0; w < workers; w++ {
		go func(id int) {
			defer wg.Done()
			got[id] = registry.Default()
		}(w)
	}
	wg.Wait()

	for i := 1; i < workers; i++ {
		if got[i] != got[0] {
			t.Fatalf("worker %d saw a different registry", i)
		}
	}
}

// This ensures the interface is satisfied; not a test but a compile-time check.
var _ apis.Registry = registry.New()
