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

// Config carries read-only knobs shared by managers and resolvers.
// It is passed by value and should be treated as immutable by implementations.
type Config struct {
	// MatchMode selects how mapping entries are compared to type keys.
	MatchMode MatchMode

	// ValidateOnHit makes managers check the liveness of a cached view
	// before reusing it, purging stale entries.
	ValidateOnHit bool

	// LogLevel is one of "debug", "info", "warn", "error".
	LogLevel string

	// LogFormat is "json" or "text".
	LogFormat string
}
