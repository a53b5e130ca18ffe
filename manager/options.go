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

package manager

import (
	"log/slog"

	"dirpx.dev/uix/apis"
)

// Option configures a Manager.
type Option func(*Manager)

// WithParent sets the container new views are instantiated under.
func WithParent(c apis.Container) Option {
	return func(m *Manager) { m.parent = c }
}

// WithLogger sets the manager's logger.
func WithLogger(l *slog.Logger) Option {
	return func(m *Manager) {
		if l != nil {
			m.log = l
		}
	}
}

// WithConfig replaces the manager's configuration.
func WithConfig(cfg apis.Config) Option {
	return func(m *Manager) { m.cfg = cfg }
}

// WithDispatcher sets the cooperative loop resolvers post work to.
func WithDispatcher(d apis.Dispatcher) Option {
	return func(m *Manager) {
		if d != nil {
			m.disp = d
		}
	}
}

// WithViews seeds the cache with views that already exist, keyed by their
// own type. They are bound to the manager by Start.
func WithViews(views ...apis.View) Option {
	return func(m *Manager) {
		for _, v := range views {
			if v != nil {
				m.initial = append(m.initial, v)
			}
		}
	}
}
