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
	"net/http"

	"rivaas.dev/dispatch/compiler"
)

// Group collects routes that share a path prefix, default middleware, and a
// default service whitelist.
//
// A Group is a two-phase builder: route declarations made through it are
// recorded on the group itself, and the router flattens every group into its
// flat registry once, before the first dispatch. Group-level middleware and
// services apply to a child route only when the route declares none of its
// own: an override, not a stack.
//
// Example:
//
//	r.Group("/admin", func(g *dispatch.Group) {
//	    g.Before(authMiddleware)
//	    g.GET("/reports", reportsHandler)           // runs authMiddleware
//	    g.GET("/ping", pingHandler).Before(noop)    // runs noop instead
//	})
type Group struct {
	prefix     string
	middleware []Middleware
	services   []string

	// Child declarations in order, the same device Router.pending uses:
	// routes and nested groups share one list so flattening preserves
	// declaration-order precedence when they interleave.
	children []registration
}

// newGroup builds a group for the normalized prefix and runs the
// registration body, during which the group records child declarations.
func newGroup(prefix string, body func(*Group)) *Group {
	g := &Group{prefix: compiler.Normalize(prefix)}
	if body != nil {
		body(g)
	}
	return g
}

// Before sets the group's default middleware, applied to every child route
// that declares no middleware of its own.
func (g *Group) Before(middleware ...Middleware) *Group {
	g.middleware = append(g.middleware, middleware...)
	return g
}

// UseServices sets the group's default service whitelist, applied to every
// child route that declares no whitelist of its own.
func (g *Group) UseServices(names ...string) *Group {
	if g.services == nil {
		g.services = make([]string, 0, len(names))
	}
	g.services = append(g.services, names...)
	return g
}

// Prefix returns the group's normalized path prefix.
func (g *Group) Prefix() string { return g.prefix }

// Route records a child route under the group. The template is relative to
// the group prefix; the prefix is applied when the router flattens the group.
func (g *Group) Route(method, template string, handler Handler) *Route {
	mustSupportedMethod(method)
	rt := newRoute(method, template, handler)
	g.children = append(g.children, registration{route: rt})
	return rt
}

// GET records a GET route under the group.
func (g *Group) GET(template string, handler Handler) *Route {
	return g.Route(http.MethodGet, template, handler)
}

// POST records a POST route under the group.
func (g *Group) POST(template string, handler Handler) *Route {
	return g.Route(http.MethodPost, template, handler)
}

// PUT records a PUT route under the group.
func (g *Group) PUT(template string, handler Handler) *Route {
	return g.Route(http.MethodPut, template, handler)
}

// PATCH records a PATCH route under the group.
func (g *Group) PATCH(template string, handler Handler) *Route {
	return g.Route(http.MethodPatch, template, handler)
}

// DELETE records a DELETE route under the group.
func (g *Group) DELETE(template string, handler Handler) *Route {
	return g.Route(http.MethodDelete, template, handler)
}

// Group records a nested group. The child's prefix is appended to this
// group's, and it inherits this group's middleware and service defaults
// unless it sets its own.
func (g *Group) Group(prefix string, body func(*Group)) *Group {
	child := newGroup(joinTemplate(g.prefix, compiler.Normalize(prefix)), body)
	g.children = append(g.children, registration{group: child})
	return child
}

// flatten produces the group's routes re-rooted under its prefix, walking
// child routes and nested groups in declaration order. parentMiddleware and
// parentServices are the defaults inherited from an enclosing group.
func (g *Group) flatten(parentMiddleware []Middleware, parentServices []string) []*Route {
	middleware := g.middleware
	if len(middleware) == 0 {
		middleware = parentMiddleware
	}
	services := g.services
	if services == nil {
		services = parentServices
	}

	flat := make([]*Route, 0, len(g.children))
	for _, child := range g.children {
		switch {
		case child.route != nil:
			flat = append(flat, child.route.withPrefix(g.prefix, middleware, services))
		case child.group != nil:
			// The nested group's prefix already carries this group's prefix;
			// only the defaults propagate here.
			flat = append(flat, child.group.flatten(middleware, services)...)
		}
	}
	return flat
}
