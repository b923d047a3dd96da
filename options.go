// Copyright 2025 The Rivaas Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package dispatch

import "log/slog"

// WithLogger sets the structured logger the router emits registration and
// dispatch debug logs through. Defaults to a no-op logger.
//
// Example:
//
//	r := dispatch.MustNew(dispatch.WithLogger(slog.Default()))
func WithLogger(logger *slog.Logger) Option {
	return func(r *Router) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// WithBasePath sets a prefix stripped from every request path before
// matching, for routers mounted below the server root.
//
// The path must start with "/" and not end with "/"; validation happens in
// New.
//
// Example:
//
//	r := dispatch.MustNew(dispatch.WithBasePath("/api/v2"))
//	r.GET("/users/{id}", handler) // matches /api/v2/users/42
func WithBasePath(path string) Option {
	return func(r *Router) {
		r.basePath = path
	}
}

// WithObservability sets the observability recorder wrapping each dispatch.
// Pass nil to disable (the default).
//
// Example:
//
//	rec, _ := dispatch.NewOTelRecorder()
//	r := dispatch.MustNew(dispatch.WithObservability(rec))
func WithObservability(recorder ObservabilityRecorder) Option {
	return func(r *Router) {
		r.observability = recorder
	}
}
