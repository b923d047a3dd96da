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
	"slices"

	"rivaas.dev/dispatch/compiler"
)

// Route binds one (verb, template) pair to a handler, together with the
// route's middleware list and optional service whitelist.
//
// Routes are configured with the fluent Before and UseServices calls during
// the build phase and are read-only once the router compiles its registry
// on the first dispatch.
type Route struct {
	method   string
	template string // canonical normalized template
	pattern  *compiler.Pattern
	handler  Handler

	middleware []Middleware
	services   []string // nil = no whitelist declared
}

// newRoute compiles the template and builds a Route. The caller validates
// the verb; an invalid template panics, as route declarations are static
// program configuration.
func newRoute(method, template string, handler Handler) *Route {
	pattern := compiler.MustCompile(template)
	return &Route{
		method:   method,
		template: pattern.Template(),
		pattern:  pattern,
		handler:  handler,
	}
}

// Method returns the route's HTTP verb.
func (r *Route) Method() string { return r.method }

// Template returns the canonical normalized path template.
func (r *Route) Template() string { return r.template }

// Before appends middleware to the route's chain, in declaration order: the
// first middleware passed runs outermost. Declaring any route-level
// middleware overrides group-level middleware rather than stacking onto it.
func (r *Route) Before(middleware ...Middleware) *Route {
	r.middleware = append(r.middleware, middleware...)
	return r
}

// UseServices declares the route's service whitelist. At dispatch the route
// receives the router registry scoped down to exactly these names. A route
// that never calls UseServices receives the full registry.
func (r *Route) UseServices(names ...string) *Route {
	if r.services == nil {
		r.services = make([]string, 0, len(names))
	}
	r.services = append(r.services, names...)
	return r
}

// withPrefix returns a copy of the route re-rooted under prefix, inheriting
// the group's middleware and service whitelist wherever the route declares
// none of its own. Used when a group flattens into the registry.
func (r *Route) withPrefix(prefix string, middleware []Middleware, services []string) *Route {
	flat := &Route{
		method:     r.method,
		handler:    r.handler,
		middleware: r.middleware,
		services:   r.services,
	}
	if len(flat.middleware) == 0 {
		flat.middleware = slices.Clone(middleware)
	}
	if flat.services == nil {
		flat.services = slices.Clone(services)
	}

	pattern := compiler.MustCompile(joinTemplate(prefix, r.template))
	flat.template = pattern.Template()
	flat.pattern = pattern
	return flat
}

// joinTemplate concatenates a group prefix and a child template, letting
// normalization settle duplicate or missing slashes.
func joinTemplate(prefix, template string) string {
	if template == "/" {
		return prefix
	}
	return prefix + template
}
