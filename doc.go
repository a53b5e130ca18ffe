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

// Package uix provides the process-wide facade over the uix singleton
// registry and view managers.
//
// Most applications need exactly one registry of long-lived singletons
// (managers, services) and one logger and configuration shared by every
// view manager. uix holds those in a global snapshot so packages can reach
// them without threading them through every constructor:
//
//	res, err := uix.NewResolver(
//		builder.WithMapping(table),
//		builder.WithLoader(loader.NewFS(assets)),
//		builder.WithInstantiator(inst),
//	)
//	if err != nil {
//		return err
//	}
//	m := uix.NewManager(res, manager.WithDispatcher(queue))
//	if err := m.Start(ctx); err != nil {
//		return err
//	}
//	inv := manager.ShowView[*Inventory](m)
//
// # Design
//
// The snapshot (state) holds three layers:
//
//   - Config: match mode, hit validation and logging settings, read from
//     the UIX_* environment variables on first use.
//   - Logger: a log/slog logger built from Config by package logging.
//   - Registry: the singleton registry, an apis.Registry.
//
// The snapshot is immutable and published through an atomic pointer.
// Readers (Config, Logger, Registry, Lookup) never take a lock.
//
// # Global API
//
//   - Config / SetConfig
//   - Logger / SetLogger
//   - Registry / SetRegistry
//   - Register / Deregister / Lookup
//   - NewResolver / NewManager
//   - Reset
//
// # Concurrency model
//
// Writers serialize on a single mutex and swap in a fresh snapshot. A reader
// that loaded the previous snapshot keeps using it; nothing it holds is
// mutated in place. The registry itself is safe for concurrent use.
//
// # Pinning
//
// SetConfig rebuilds the logger and the registry from the new configuration.
// The rebuilt registry carries over the tracked instances of the old one,
// but not its teardown hooks.
//
// A logger or registry installed with SetLogger or SetRegistry is pinned:
// later SetConfig calls keep it. Reset clears all pins and restores the
// environment-derived defaults.
package uix
