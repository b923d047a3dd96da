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

import "errors"

var (
	// ErrRouteNotFound indicates no registered template matched the
	// normalized request path for the request's verb. Callers typically map
	// this to HTTP 404.
	ErrRouteNotFound = errors.New("no route matched")

	// ErrUnsupportedMethod indicates the request method is outside the fixed
	// supported verb set. Callers typically map this to HTTP 405.
	ErrUnsupportedMethod = errors.New("unsupported HTTP method")

	// ErrUnexpectedResult indicates a handler chain returned something other
	// than a well-formed Response.
	ErrUnexpectedResult = errors.New("handler returned a malformed response")

	// ErrInvalidBasePath indicates the configured base path is not absolute
	// or carries a trailing slash.
	ErrInvalidBasePath = errors.New("base path must start with '/' and not end with '/'")
)
