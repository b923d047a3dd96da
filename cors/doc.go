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

// Package cors decides cross-origin policy for the dispatch engine.
//
// A Config holds per-origin policies. An origin pattern is one of:
//
//   - "*": the wildcard policy
//   - "^...": an anchored regular expression (leading caret marks it)
//   - anything else: an exact origin, compared case-insensitively
//
// When a wildcard policy is registered it is selected for every origin,
// before any literal or regex policy is consulted. This priority override
// differs from the router's first-match route precedence.
//
// Negotiate classifies a request as a preflight probe (OPTIONS with both
// Origin and Access-Control-Request-Method), a simple cross-origin request,
// or not a CORS request at all. An origin with no matching policy, or a
// method outside the matched policy's allowed set, degrades silently to "no
// CORS headers"; disallowed origins are never told a policy exists.
//
// The package is transport-neutral: Negotiate consumes plain strings and
// produces a Decision carrying headers and a status code, which the
// dispatcher folds into its Response type.
package cors
