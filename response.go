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
	"encoding/json"
	"fmt"
	"net/http"
)

// Response is the value a handler chain produces: a status code, a header
// multimap, and a body. The engine hands a completed Response back to the
// caller; WriteTo is the one-line binding to a net/http transport.
type Response struct {
	status int
	header http.Header
	body   []byte
}

// NewResponse returns an empty 200 response.
func NewResponse() *Response {
	return &Response{
		status: http.StatusOK,
		header: make(http.Header),
	}
}

// Text returns a text/plain response with the given status and body.
func Text(status int, body string) *Response {
	r := NewResponse()
	r.status = status
	r.header.Set("Content-Type", "text/plain; charset=utf-8")
	r.body = []byte(body)
	return r
}

// JSON returns an application/json response with v marshaled as the body.
// A value that cannot be marshaled yields a 500 text response describing the
// failure, so a handler can always return the result directly.
func JSON(status int, v any) *Response {
	body, err := json.Marshal(v)
	if err != nil {
		return Text(http.StatusInternalServerError, fmt.Sprintf("dispatch: encoding response: %v", err))
	}
	r := NewResponse()
	r.status = status
	r.header.Set("Content-Type", "application/json; charset=utf-8")
	r.body = body
	return r
}

// Redirect returns a response with a Location header and the given 3xx
// status.
func Redirect(status int, location string) *Response {
	r := NewResponse()
	r.status = status
	r.header.Set("Location", location)
	return r
}

// Status returns the HTTP status code.
func (r *Response) Status() int { return r.status }

// SetStatus sets the HTTP status code and returns the response for chaining.
func (r *Response) SetStatus(status int) *Response {
	r.status = status
	return r
}

// Header returns the mutable header multimap.
func (r *Response) Header() http.Header { return r.header }

// Body returns the response body.
func (r *Response) Body() []byte { return r.body }

// SetBody replaces the response body and returns the response for chaining.
func (r *Response) SetBody(body []byte) *Response {
	r.body = body
	return r
}

// wellFormed reports whether the response can be emitted: a non-nil header
// map and a status inside the valid HTTP range.
func (r *Response) wellFormed() bool {
	return r != nil && r.header != nil && r.status >= 100 && r.status < 600
}

// WriteTo emits the response on a net/http ResponseWriter: headers first,
// then status, then body.
func (r *Response) WriteTo(w http.ResponseWriter) error {
	for key, values := range r.header {
		for _, v := range values {
			w.Header().Add(key, v)
		}
	}
	w.WriteHeader(r.status)
	if len(r.body) == 0 {
		return nil
	}
	_, err := w.Write(r.body)
	return err
}
