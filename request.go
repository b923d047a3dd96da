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

import (
	"maps"
	"net/http"
)

// Request is the view of an incoming request the dispatcher consumes. The
// engine reads the verb, path, and headers, and writes extracted route
// parameters into the request's parameter bag on a match.
//
// Two implementations ship with the package: NewRequest builds an in-memory
// request, FromHTTP adapts a *net/http.Request.
type Request interface {
	// Method returns the HTTP verb, upper-case.
	Method() string

	// Path returns the request path as received, before the dispatcher's
	// percent-decoding and normalization.
	Path() string

	// Header returns the first value of the named header, or "" if unset.
	Header(name string) string

	// Param returns a route parameter extracted during dispatch.
	Param(name string) (string, bool)

	// SetParam stores a route parameter. Called by the dispatcher during
	// parameter extraction; middleware may also use it to pass values inward.
	SetParam(name, value string)

	// Params returns a copy of the parameter bag.
	Params() map[string]string
}

// MemoryRequest is an in-memory Request implementation, convenient for tests
// and for callers whose transport is not net/http.
type MemoryRequest struct {
	method string
	path   string
	header http.Header
	params map[string]string
}

// NewRequest builds an in-memory request for the given verb and path.
func NewRequest(method, path string) *MemoryRequest {
	return &MemoryRequest{
		method: method,
		path:   path,
		header: make(http.Header),
		params: make(map[string]string),
	}
}

// WithHeader sets a header and returns the request for chaining.
func (r *MemoryRequest) WithHeader(name, value string) *MemoryRequest {
	r.header.Set(name, value)
	return r
}

// Method implements Request.
func (r *MemoryRequest) Method() string { return r.method }

// Path implements Request.
func (r *MemoryRequest) Path() string { return r.path }

// Header implements Request.
func (r *MemoryRequest) Header(name string) string { return r.header.Get(name) }

// Param implements Request.
func (r *MemoryRequest) Param(name string) (string, bool) {
	v, ok := r.params[name]
	return v, ok
}

// SetParam implements Request.
func (r *MemoryRequest) SetParam(name, value string) {
	r.params[name] = value
}

// Params implements Request.
func (r *MemoryRequest) Params() map[string]string {
	return maps.Clone(r.params)
}

// httpRequest adapts *http.Request to the dispatcher's Request view.
type httpRequest struct {
	req    *http.Request
	params map[string]string
}

// FromHTTP wraps a *net/http.Request. The underlying request stays reachable
// for handlers that need the body or context; the dispatcher itself only
// touches method, escaped path, and headers.
func FromHTTP(req *http.Request) Request {
	return &httpRequest{
		req:    req,
		params: make(map[string]string),
	}
}

func (r *httpRequest) Method() string { return r.req.Method }

// Path returns the escaped path so the dispatcher's percent-decoding pass
// operates on the wire form exactly once.
func (r *httpRequest) Path() string { return r.req.URL.EscapedPath() }

func (r *httpRequest) Header(name string) string { return r.req.Header.Get(name) }

func (r *httpRequest) Param(name string) (string, bool) {
	v, ok := r.params[name]
	return v, ok
}

func (r *httpRequest) SetParam(name, value string) {
	r.params[name] = value
}

func (r *httpRequest) Params() map[string]string {
	return maps.Clone(r.params)
}
