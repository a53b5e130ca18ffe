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

// Builder composes a Registry and a Resolver from a Config.
//
// Implementations must be safe to call repeatedly: the root facade rebuilds
// the registry on every configuration change.
type Builder interface {
	// BuildRegistry constructs a Registry for cfg. Entries of prev, when
	// non-nil, are migrated into it; teardown hooks are not.
	BuildRegistry(cfg Config, prev Registry) Registry
	// Build assembles the configured resolvers into one Resolver for cfg.
	Build(cfg Config) (Resolver, error)
}
