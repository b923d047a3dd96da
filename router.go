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
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"slices"
	"strings"
	"sync"
	"sync/atomic"

	"rivaas.dev/dispatch/cors"
	"rivaas.dev/dispatch/service"
)

// noopLogger is a singleton no-op logger used when no logger is configured.
var noopLogger = slog.New(slog.NewTextHandler(io.Discard, nil))

// NoopLogger returns the singleton no-op logger.
func NoopLogger() *slog.Logger {
	return noopLogger
}

// supportedMethods is the fixed verb set the dispatcher accepts. OPTIONS is
// not dispatchable; it only appears as a CORS preflight probe, which the
// negotiator answers before route matching.
var supportedMethods = []string{
	http.MethodGet,
	http.MethodPost,
	http.MethodPut,
	http.MethodPatch,
	http.MethodDelete,
}

// Methods returns the supported verb set. The returned slice must not be
// modified.
func Methods() []string {
	return supportedMethods
}

// mustSupportedMethod panics when the verb is outside the supported set.
// Route declarations are static program configuration, so a bad verb is a
// programmer error surfaced at registration, not a runtime condition.
func mustSupportedMethod(method string) {
	if !slices.Contains(supportedMethods, method) {
		panic(fmt.Sprintf("dispatch: unsupported route verb %q (supported: %s)",
			method, strings.Join(supportedMethods, ", ")))
	}
}

// Option defines functional options for router configuration.
type Option func(*Router)

// registration is one build-phase declaration, either a route or a group.
// Both the router and groups record children through it: keeping both kinds
// in a single declaration-order list preserves
// registration-order precedence across interleaved route and group
// declarations when the registry is compiled.
type registration struct {
	route *Route
	group *Group
}

// Router owns the route registry and resolves one request per instance.
//
// Routes and groups are declared in a build phase; the first Run call
// compiles the registry (flattening groups), negotiates CORS, matches the
// request, and executes the matched route's middleware chain. The router's
// registries are read-only from that point on.
//
// A Router dispatches at most once: Run flips a per-instance guard on entry
// and later calls return (nil, nil) without side effects. Concurrent servers
// take a fresh instance per request via Clone, which shares the read-only
// configuration.
type Router struct {
	logger        *slog.Logger
	observability ObservabilityRecorder
	basePath      string

	services   *service.Registry
	corsConfig *cors.Config

	// Build phase, declaration order.
	pending []registration

	// Compiled registry: verb → ordered route bucket, plus a position index
	// for in-place overwrite of duplicate (verb, template) registrations.
	compileOnce sync.Once
	buckets     map[string][]*Route
	index       map[string]map[string]int

	dispatched atomic.Bool
}

// New creates a router with optional configuration. Configuration is
// validated immediately rather than at dispatch time.
//
// Example:
//
//	r, err := dispatch.New(dispatch.WithBasePath("/api"))
//	if err != nil {
//	    log.Fatalf("invalid router configuration: %v", err)
//	}
func New(opts ...Option) (*Router, error) {
	r := &Router{
		logger: noopLogger,
	}
	for _, opt := range opts {
		opt(r)
	}
	if err := r.validate(); err != nil {
		return nil, fmt.Errorf("router configuration validation failed: %w", err)
	}
	return r, nil
}

// MustNew creates a router and panics if configuration is invalid. Use for
// static configuration that should fail the application at startup.
func MustNew(opts ...Option) *Router {
	r, err := New(opts...)
	if err != nil {
		panic(fmt.Sprintf("dispatch.MustNew: %v", err))
	}
	return r
}

// validate checks the router configuration for common errors.
func (r *Router) validate() error {
	if r.basePath != "" {
		if !strings.HasPrefix(r.basePath, "/") || strings.HasSuffix(r.basePath, "/") {
			return fmt.Errorf("%w: got %q", ErrInvalidBasePath, r.basePath)
		}
	}
	return nil
}

// SetServices attaches the service registry routes draw from. Routes without
// a whitelist receive this registry unscoped; routes with a whitelist
// receive a scoped copy per dispatch.
func (r *Router) SetServices(registry *service.Registry) {
	r.services = registry
}

// SetCORS attaches the cross-origin policy configuration consulted before
// route matching.
func (r *Router) SetCORS(config *cors.Config) {
	r.corsConfig = config
}

// Route registers a handler for the given verb and template and returns the
// Route for fluent configuration (Before, UseServices).
//
// The template is normalized before registration; registering the same
// (verb, normalized template) pair twice silently replaces the earlier
// route, keeping its position in the bucket: last write wins.
//
// An unsupported verb or an invalid template panics: route declarations are
// static configuration and fail at startup, not per request.
func (r *Router) Route(method, template string, handler Handler) *Route {
	mustSupportedMethod(method)
	rt := newRoute(method, template, handler)
	r.pending = append(r.pending, registration{route: rt})
	r.logger.Debug("route registered", "method", rt.method, "template", rt.template)
	return rt
}

// GET registers a GET route.
func (r *Router) GET(template string, handler Handler) *Route {
	return r.Route(http.MethodGet, template, handler)
}

// POST registers a POST route.
func (r *Router) POST(template string, handler Handler) *Route {
	return r.Route(http.MethodPost, template, handler)
}

// PUT registers a PUT route.
func (r *Router) PUT(template string, handler Handler) *Route {
	return r.Route(http.MethodPut, template, handler)
}

// PATCH registers a PATCH route.
func (r *Router) PATCH(template string, handler Handler) *Route {
	return r.Route(http.MethodPatch, template, handler)
}

// DELETE registers a DELETE route.
func (r *Router) DELETE(template string, handler Handler) *Route {
	return r.Route(http.MethodDelete, template, handler)
}

// Group declares a route group under prefix. The body, when non-nil, runs
// immediately and records child routes on the group; the routes enter the
// registry when the router compiles before the first dispatch. The returned
// group also accepts declarations after Group returns, up to that point.
//
// Example:
//
//	r.Group("/admin", func(g *dispatch.Group) {
//	    g.Before(requireAdmin)
//	    g.GET("/reports", reportsHandler) // reachable at /admin/reports
//	})
func (r *Router) Group(prefix string, body func(*Group)) *Group {
	g := newGroup(prefix, body)
	r.pending = append(r.pending, registration{group: g})
	r.logger.Debug("group registered", "prefix", g.prefix)
	return g
}

// compile flattens the declaration-order registration list into the verb →
// bucket registry. Runs exactly once, before the first dispatch.
func (r *Router) compile() {
	r.compileOnce.Do(func() {
		r.buckets = make(map[string][]*Route, len(supportedMethods))
		r.index = make(map[string]map[string]int, len(supportedMethods))

		for _, reg := range r.pending {
			if reg.route != nil {
				r.insert(reg.route)
				continue
			}
			for _, rt := range reg.group.flatten(nil, nil) {
				r.insert(rt)
			}
		}
		r.logger.Debug("registry compiled", "routes", r.routeCount())
	})
}

// insert adds a route to its verb bucket. A duplicate (verb, template) pair
// replaces the earlier route in place, keeping its bucket position.
func (r *Router) insert(rt *Route) {
	bucket := r.buckets[rt.method]
	positions := r.index[rt.method]
	if positions == nil {
		positions = make(map[string]int)
		r.index[rt.method] = positions
	}

	if pos, exists := positions[rt.template]; exists {
		bucket[pos] = rt
		r.logger.Debug("route replaced", "method", rt.method, "template", rt.template)
		return
	}
	positions[rt.template] = len(bucket)
	r.buckets[rt.method] = append(bucket, rt)
}

// routeCount returns the number of compiled routes across all verbs.
func (r *Router) routeCount() int {
	n := 0
	for _, bucket := range r.buckets {
		n += len(bucket)
	}
	return n
}

// RouteInfo describes one compiled route for introspection.
type RouteInfo struct {
	Method   string
	Template string
	Services []string
}

// Routes compiles the registry if needed and returns a snapshot of the
// registered routes, grouped by verb in registration order.
func (r *Router) Routes() []RouteInfo {
	r.compile()
	infos := make([]RouteInfo, 0, r.routeCount())
	for _, method := range supportedMethods {
		for _, rt := range r.buckets[method] {
			infos = append(infos, RouteInfo{
				Method:   rt.method,
				Template: rt.template,
				Services: slices.Clone(rt.services),
			})
		}
	}
	return infos
}

// Run dispatches one request and returns the Response its handler chain
// produced, or a routing error the caller classifies (ErrRouteNotFound,
// ErrUnsupportedMethod, ErrUnexpectedResult).
//
// The first call flips the router's dispatch guard irreversibly; any later
// call is a no-op returning (nil, nil). Dispatch order: compile pending
// groups, negotiate CORS (a preflight probe short-circuits with a terminal
// 204 before route matching), normalize the path, validate the verb, then
// scan the verb's bucket in registration order and execute the first
// structural match.
//
// An empty registry returns a fixed informational response instead of an
// error, so a first-run setup sees something actionable rather than a 404.
func (r *Router) Run(ctx context.Context, req Request) (*Response, error) {
	if !r.dispatched.CompareAndSwap(false, true) {
		return nil, nil
	}
	r.compile()

	ctx, state := r.observeStart(ctx, req)

	resp, template, err := r.dispatch(ctx, req)
	r.observeEnd(ctx, state, template, resp, err)
	return resp, err
}

// dispatch performs the guarded body of Run and reports the matched template
// (or a sentinel) for observability.
func (r *Router) dispatch(ctx context.Context, req Request) (*Response, string, error) {
	method := req.Method()

	// CORS resolution precedes everything else: a preflight probe never
	// touches the registry.
	var corsHeaders http.Header
	if r.corsConfig != nil {
		decision := r.corsConfig.Negotiate(
			method,
			req.Header("Origin"),
			req.Header("Access-Control-Request-Method"),
			supportedMethods,
		)
		switch decision.Kind {
		case cors.DecisionPreflight:
			resp := NewResponse().SetStatus(decision.Status)
			mergeHeaders(resp.Header(), decision.Headers)
			r.logger.Debug("preflight answered", "origin", req.Header("Origin"))
			return resp, templatePreflight, nil
		case cors.DecisionSimple:
			corsHeaders = decision.Headers
		}
	}

	if r.routeCount() == 0 {
		resp := welcomeResponse()
		mergeHeaders(resp.Header(), corsHeaders)
		return resp, templateWelcome, nil
	}

	path, err := r.normalizePath(req.Path())
	if err != nil {
		return nil, templateNotFound, err
	}

	if !slices.Contains(supportedMethods, method) {
		return nil, templateUnsupported, fmt.Errorf("%w: %s", ErrUnsupportedMethod, method)
	}

	for _, rt := range r.buckets[method] {
		params, ok := rt.pattern.Match(path)
		if !ok {
			continue
		}

		// Parameter extraction in declaration order keeps the bag
		// deterministic for multi-placeholder templates.
		for _, name := range rt.pattern.Params() {
			req.SetParam(name, params[name])
		}

		c := &Context{
			ctx:      ctx,
			Request:  req,
			Services: r.scopeServices(rt),
		}
		resp := buildChain(rt.middleware, rt.handler)(c)
		if !resp.wellFormed() {
			return nil, rt.template, fmt.Errorf("%w: route %s %s", ErrUnexpectedResult, rt.method, rt.template)
		}
		mergeHeaders(resp.Header(), corsHeaders)
		return resp, rt.template, nil
	}

	return nil, templateNotFound, fmt.Errorf("%w: %s %s", ErrRouteNotFound, method, path)
}

// normalizePath decodes percent-escapes, strips the configured base path,
// and strips the trailing slash (except for the root path).
func (r *Router) normalizePath(raw string) (string, error) {
	path, err := url.PathUnescape(raw)
	if err != nil {
		return "", fmt.Errorf("%w: undecodable path %q: %v", ErrRouteNotFound, raw, err)
	}

	if r.basePath != "" {
		if trimmed, ok := strings.CutPrefix(path, r.basePath); ok {
			path = trimmed
		}
	}

	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	if len(path) > 1 {
		path = strings.TrimRight(path, "/")
		if path == "" {
			path = "/"
		}
	}
	return path, nil
}

// scopeServices resolves the registry a route dispatches with: none when the
// router has no registry, the full registry when the route declares no
// whitelist, and a copy-on-scope intersection otherwise.
func (r *Router) scopeServices(rt *Route) *service.Registry {
	if r.services == nil {
		return nil
	}
	if rt.services == nil {
		return r.services
	}
	return r.services.Only(rt.services...)
}

// mergeHeaders folds src into dst, appending value-by-value so multi-valued
// headers like Vary accumulate rather than clobber.
func mergeHeaders(dst, src http.Header) {
	for key, values := range src {
		for _, v := range values {
			dst.Add(key, v)
		}
	}
}

// welcomeResponse is the fixed informational response an entirely empty
// registry produces instead of a routing error.
func welcomeResponse() *Response {
	return Text(http.StatusOK,
		"dispatch: no routes registered.\n"+
			"Declare routes with Router.Route, the verb shortcuts (GET, POST, ...), or Router.Group before calling Run.\n")
}

// Clone returns a fresh, un-dispatched router sharing this router's
// configuration and declarations. The clone compiles its own registry view
// from the shared declaration list; group bodies are not re-executed. Use
// one clone per in-flight request when serving concurrently.
func (r *Router) Clone() *Router {
	return &Router{
		logger:        r.logger,
		observability: r.observability,
		basePath:      r.basePath,
		services:      r.services,
		corsConfig:    r.corsConfig,
		pending:       r.pending,
	}
}

// Handler adapts the router to net/http: each incoming request runs on its
// own Clone, and routing errors map to their conventional status codes
// (404 for no match, 405 for an unsupported method).
func (r *Router) Handler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, hr *http.Request) {
		resp, err := r.Clone().Run(hr.Context(), FromHTTP(hr))
		switch {
		case err == nil && resp != nil:
			_ = resp.WriteTo(w)
		case errors.Is(err, ErrRouteNotFound):
			http.Error(w, "404 page not found", http.StatusNotFound)
		case errors.Is(err, ErrUnsupportedMethod):
			http.Error(w, "405 method not allowed", http.StatusMethodNotAllowed)
		default:
			http.Error(w, "500 internal server error", http.StatusInternalServerError)
		}
	})
}
