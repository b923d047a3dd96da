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

// Package compiler turns route path templates into compiled matchers.
//
// A template is a sequence of literal segments and named placeholders:
//
//	/users/{id}
//	/users/{id:[0-9]+}/posts/{slug}
//
// A placeholder without an inline pattern matches one or more non-slash
// characters. Literal text is matched verbatim (regex metacharacters in
// literals are escaped during compilation). The compiled matcher is anchored:
// it either matches the entire request path or not at all.
//
// Matching is case-insensitive end to end, for literals and placeholder
// patterns alike. Templates are normalized before compilation: backslashes
// become forward slashes, a leading slash is ensured, and a trailing slash is
// stripped (except for the root template "/").
//
// Compilation is pure: the same template always yields an equivalent Pattern,
// and compiling has no side effects. Every placeholder must be named; bare
// positional patterns are not supported.
package compiler
