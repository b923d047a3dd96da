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

// Package dispatch maps an incoming (method, path) pair to a registered
// handler, threading an ordered middleware chain, a scoped service registry,
// and cross-origin policy through the dispatch.
//
// Routes are declared during a build phase, then a single Run call resolves
// one request:
//
//	r := dispatch.MustNew()
//	r.GET("/users/{id}", func(c *dispatch.Context) *dispatch.Response {
//	    id, _ := c.Request.Param("id")
//	    return dispatch.Text(http.StatusOK, "user "+id)
//	})
//	resp, err := r.Run(context.Background(), dispatch.NewRequest(http.MethodGet, "/users/42"))
//
// Matching semantics:
//
//   - Routes are identified by (verb, normalized template); registering the
//     same pair twice replaces the earlier route in place (last write wins).
//   - Within a verb's bucket, templates are tried in registration order and
//     the first structural match wins; there is no best-match scoring.
//   - Trailing slashes are insignificant except for the root path, and
//     matching is case-insensitive (see the compiler package).
//
// A Router dispatches at most once. Run flips a per-instance guard on its
// first call; later calls are no-ops. Processes that serve requests
// concurrently use Clone to obtain a fresh un-dispatched Router per request,
// sharing the read-only route, service, and CORS registries. Handler wraps
// exactly that pattern into a net/http adapter.
//
// The engine classifies routing failures (ErrRouteNotFound,
// ErrUnsupportedMethod, ErrUnexpectedResult) and leaves rendering them to
// the caller; Response.WriteTo is the one-line transport binding.
package dispatch
