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

package registry

import (
	"sync"

	"dirpx.dev/uix/apis"
)

// Process-wide registry, created lazily on first access.
var (
	defaultRegistry     apis.Registry
	defaultRegistryOnce sync.Once
)

// Default returns the process-wide registry. Concurrent first calls race
// safely to a single shared instance.
func Default() apis.Registry {
	defaultRegistryOnce.Do(func() {
		defaultRegistry = New()
	})
	return defaultRegistry
}

// ResetDefault drops the process-wide registry (for testing only).
func ResetDefault() {
	defaultRegistry = nil
	defaultRegistryOnce = sync.Once{}
}
