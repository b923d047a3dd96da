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
	"context"

	"rivaas.dev/dispatch/service"
)

// Context carries the dispatch arguments through a middleware chain: the
// request, and the service registry scoped to the matched route (nil when
// the router has no registry configured).
type Context struct {
	ctx context.Context

	// Request is the request being dispatched. Route parameters extracted
	// during matching are available through its parameter bag.
	Request Request

	// Services is the route's scoped service registry, or nil.
	Services *service.Registry
}

// Context returns the request context.
func (c *Context) Context() context.Context {
	if c.ctx == nil {
		return context.Background()
	}
	return c.ctx
}

// Param is shorthand for looking up a route parameter, returning "" when the
// parameter was not extracted.
func (c *Context) Param(name string) string {
	v, _ := c.Request.Param(name)
	return v
}

// Service resolves a named service from the scoped registry. When the route
// has no registry the lookup fails with service.ErrNotFound, the same error
// a scoped-out name produces.
func (c *Context) Service(name string) (any, error) {
	if c.Services == nil {
		return nil, service.ErrNotFound
	}
	return c.Services.Get(name)
}

// Handler is the innermost layer of a route's chain. It receives the
// dispatch context and returns the completed Response.
type Handler func(*Context) *Response

// Next is the continuation a middleware forwards to.
type Next func(*Context) *Response

// Middleware wraps a continuation. A middleware may call next zero times to
// short-circuit (for example to redirect) or exactly once to continue.
// Calling next more than once is a usage error with undefined behavior; the
// chain does not defend against it.
type Middleware func(c *Context, next Next) *Response

// buildChain folds a middleware list around a handler, right to left: the
// innermost continuation invokes the handler, and each middleware (walked
// from the end of the list) wraps the previous continuation. The first
// declared middleware therefore runs outermost.
func buildChain(middleware []Middleware, handler Handler) Next {
	next := Next(handler)
	for i := len(middleware) - 1; i >= 0; i-- {
		m, inner := middleware[i], next
		next = func(c *Context) *Response {
			return m(c, inner)
		}
	}
	return next
}
