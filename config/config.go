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

package config

import (
	"os"
	"strconv"
	"strings"

	"dirpx.dev/uix/apis"
)

const (
	// DefaultMatchMode represents the default for MatchMode.
	// Exact type identity; name matching is an explicit compatibility mode.
	DefaultMatchMode = apis.MatchType
	// DefaultValidateOnHit represents the default for ValidateOnHit.
	// When true, stale cached views are purged instead of reused.
	DefaultValidateOnHit = true
	// DefaultLogLevel represents the default for LogLevel.
	DefaultLogLevel = "info"
	// DefaultLogFormat represents the default for LogFormat.
	DefaultLogFormat = "text"
)

// Environment variables read by FromEnv.
const (
	EnvLogLevel      = "UIX_LOG_LEVEL"
	EnvLogFormat     = "UIX_LOG_FORMAT"
	EnvMatchMode     = "UIX_MATCH_MODE"
	EnvValidateOnHit = "UIX_VALIDATE_ON_HIT"
)

// NewConfig constructs an apis.Config from the given options.
func NewConfig(opts ...Option) apis.Config {
	cfg := DefaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	// Ensure log knobs are never empty.
	if cfg.LogLevel == "" {
		cfg.LogLevel = DefaultLogLevel
	}
	if cfg.LogFormat == "" {
		cfg.LogFormat = DefaultLogFormat
	}
	return cfg
}

// DefaultConfig is the default configuration used when none is provided.
func DefaultConfig() apis.Config {
	return apis.Config{
		MatchMode:     DefaultMatchMode,
		ValidateOnHit: DefaultValidateOnHit,
		LogLevel:      DefaultLogLevel,
		LogFormat:     DefaultLogFormat,
	}
}

// FromEnv returns the default configuration overlaid with UIX_* environment
// variables, then opts. Unparseable values are ignored.
func FromEnv(opts ...Option) apis.Config {
	var envOpts []Option
	if v := os.Getenv(EnvLogLevel); v != "" {
		envOpts = append(envOpts, WithLogLevel(v))
	}
	if v := os.Getenv(EnvLogFormat); v != "" {
		envOpts = append(envOpts, WithLogFormat(v))
	}
	if v := os.Getenv(EnvMatchMode); v != "" {
		if mode, err := apis.ParseMatchMode(v); err == nil {
			envOpts = append(envOpts, WithMatchMode(mode))
		}
	}
	if v := os.Getenv(EnvValidateOnHit); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			envOpts = append(envOpts, WithValidateOnHit(b))
		}
	}
	return NewConfig(append(envOpts, opts...)...)
}

// Option is a functional option that mutates an apis.Config during construction.
type Option func(*apis.Config)

// WithMatchMode sets the MatchMode option.
func WithMatchMode(mode apis.MatchMode) Option {
	return func(c *apis.Config) {
		c.MatchMode = mode
	}
}

// WithValidateOnHit sets the ValidateOnHit option.
func WithValidateOnHit(validate bool) Option {
	return func(c *apis.Config) {
		c.ValidateOnHit = validate
	}
}

// WithLogLevel sets the LogLevel option. The value is lowercased.
func WithLogLevel(level string) Option {
	return func(c *apis.Config) {
		c.LogLevel = strings.ToLower(strings.TrimSpace(level))
	}
}

// WithLogFormat sets the LogFormat option. The value is lowercased.
func WithLogFormat(format string) Option {
	return func(c *apis.Config) {
		c.LogFormat = strings.ToLower(strings.TrimSpace(format))
	}
}
