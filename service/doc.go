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

// Package service provides a named, lazily-constructed dependency registry.
//
// Services are registered once during application setup as name → factory
// pairs. Factories are invoked only when a consumer first asks for the
// service by name; the constructed value is then memoized for subsequent
// lookups on the same registry.
//
// Only produces a scoped copy exposing a subset of the registered names,
// which the dispatcher hands to routes that declare a service whitelist.
// Scoping never mutates the source registry.
//
// Unlike route registration, registering a duplicate service name is an
// error, not an overwrite.
package service
