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

package cors

import (
	"errors"
	"fmt"
	"net/http"
	"regexp"
	"slices"
	"strconv"
	"strings"
)

// Wildcard is the origin pattern that matches every origin. A wildcard
// policy takes priority over all other registered policies.
const Wildcard = "*"

// ErrInvalidOriginPattern indicates an origin pattern beginning with "^"
// failed to compile as a regular expression.
var ErrInvalidOriginPattern = errors.New("invalid origin pattern")

// defaultMaxAge is the preflight cache lifetime applied when a policy does
// not set one explicitly.
const defaultMaxAge = 3600

// defaultAllowedHeaders are the request headers allowed when a policy does
// not configure its own list.
var defaultAllowedHeaders = []string{"Origin", "Content-Type", "Accept", "Authorization"}

// Policy holds the cross-origin rules for one origin pattern.
type Policy struct {
	origin      string         // pattern as registered
	re          *regexp.Regexp // non-nil for regex patterns
	methods     []string       // explicit method list; empty means allow all
	headers     []string
	maxAge      int
	credentials bool
}

// Option configures a Policy.
type Option func(*Policy)

// WithMethods restricts the policy to the given HTTP methods. Passing
// Wildcard (or nothing) allows every method the dispatcher supports.
func WithMethods(methods ...string) Option {
	return func(p *Policy) {
		p.methods = p.methods[:0]
		for _, m := range methods {
			if m == Wildcard {
				p.methods = p.methods[:0]
				return
			}
			p.methods = append(p.methods, strings.ToUpper(m))
		}
	}
}

// WithHeaders sets the request headers the policy allows.
func WithHeaders(headers ...string) Option {
	return func(p *Policy) {
		p.headers = slices.Clone(headers)
	}
}

// WithMaxAge sets the preflight cache lifetime in seconds.
func WithMaxAge(seconds int) Option {
	return func(p *Policy) {
		p.maxAge = seconds
	}
}

// WithCredentials marks the policy as supporting credentialed requests.
// Credentialed responses echo the concrete origin instead of "*".
func WithCredentials(allow bool) Option {
	return func(p *Policy) {
		p.credentials = allow
	}
}

// Origin returns the pattern the policy was registered under.
func (p *Policy) Origin() string {
	return p.origin
}

// matches reports whether the policy applies to the given request origin.
// Wildcard policies are handled by Config before this is consulted.
func (p *Policy) matches(origin string) bool {
	if p.re != nil {
		return p.re.MatchString(origin)
	}
	return strings.EqualFold(p.origin, origin)
}

// allowsMethod reports whether the policy permits the given HTTP method.
// An empty method list means every supported method is allowed.
func (p *Policy) allowsMethod(method string) bool {
	if len(p.methods) == 0 {
		return true
	}
	return slices.Contains(p.methods, strings.ToUpper(method))
}

// Config is an ordered set of per-origin policies built during application
// setup and read-only afterwards.
type Config struct {
	wildcard *Policy
	policies []*Policy // literal and regex policies, declaration order
}

// New returns an empty CORS configuration.
func New() *Config {
	return &Config{}
}

// Allow registers a policy for the given origin pattern and returns it.
//
// Patterns beginning with "^" are compiled as regular expressions; the
// Wildcard pattern matches every origin and wins over all other policies;
// any other pattern is an exact, case-insensitive origin.
func (c *Config) Allow(origin string, opts ...Option) (*Policy, error) {
	p := &Policy{
		origin:  origin,
		headers: slices.Clone(defaultAllowedHeaders),
		maxAge:  defaultMaxAge,
	}
	if origin != Wildcard && strings.HasPrefix(origin, "^") {
		re, err := regexp.Compile(origin)
		if err != nil {
			return nil, fmt.Errorf("%w: %q: %v", ErrInvalidOriginPattern, origin, err)
		}
		p.re = re
	}
	for _, opt := range opts {
		opt(p)
	}

	if origin == Wildcard {
		c.wildcard = p
	} else {
		c.policies = append(c.policies, p)
	}
	return p, nil
}

// MustAllow is like Allow but panics on an invalid pattern. Intended for
// static configuration known to be valid.
func (c *Config) MustAllow(origin string, opts ...Option) *Policy {
	p, err := c.Allow(origin, opts...)
	if err != nil {
		panic(fmt.Sprintf("cors.MustAllow(%q): %v", origin, err))
	}
	return p
}

// policyFor selects the policy for an origin. The wildcard policy, when
// present, is returned before any literal or regex policy is consulted.
func (c *Config) policyFor(origin string) *Policy {
	if c.wildcard != nil {
		return c.wildcard
	}
	for _, p := range c.policies {
		if p.matches(origin) {
			return p
		}
	}
	return nil
}

// DecisionKind classifies the outcome of a CORS negotiation.
type DecisionKind int

const (
	// DecisionNone means CORS does not apply: no Origin header, no matching
	// policy, or a method outside the matched policy's allowed set. Dispatch
	// proceeds with no CORS headers attached.
	DecisionNone DecisionKind = iota

	// DecisionSimple means the request is an ordinary cross-origin request.
	// The Decision's headers are merged into the handler's response.
	DecisionSimple

	// DecisionPreflight means the request is a preflight probe. The Decision
	// carries a complete terminal response; route matching is bypassed.
	DecisionPreflight
)

// Decision is the transport-neutral outcome of a negotiation.
type Decision struct {
	Kind    DecisionKind
	Status  int // meaningful for DecisionPreflight only
	Headers http.Header
}

// Negotiate resolves CORS for one request.
//
// method is the request's HTTP method and origin its Origin header (empty if
// absent). requestMethod is the Access-Control-Request-Method header value;
// its presence, together with an OPTIONS method and an Origin, marks a
// preflight probe. supportedMethods is the dispatcher's verb set, used to
// expand a policy that allows every method.
//
// Unmatched origins and disallowed methods yield DecisionNone, never an
// error, so disallowed origins cannot probe for policy existence.
func (c *Config) Negotiate(method, origin, requestMethod string, supportedMethods []string) Decision {
	if origin == "" {
		return Decision{Kind: DecisionNone}
	}

	p := c.policyFor(origin)
	if p == nil {
		return Decision{Kind: DecisionNone}
	}

	preflight := strings.EqualFold(method, http.MethodOptions) && requestMethod != ""

	// Preflight probes are vetted against the method the browser intends to
	// send; simple requests against the method actually used.
	effective := method
	if preflight {
		effective = requestMethod
	}
	if !p.allowsMethod(effective) {
		return Decision{Kind: DecisionNone}
	}

	h := make(http.Header, 6)
	h.Set("Access-Control-Allow-Origin", p.allowOriginValue(origin))
	if p.credentials {
		h.Set("Access-Control-Allow-Credentials", "true")
	}
	h.Add("Vary", "Origin")

	if !preflight {
		return Decision{Kind: DecisionSimple, Headers: h}
	}

	methods := p.methods
	if len(methods) == 0 {
		methods = supportedMethods
	}
	h.Set("Access-Control-Allow-Methods", strings.Join(methods, ", "))
	if len(p.headers) > 0 {
		h.Set("Access-Control-Allow-Headers", strings.Join(p.headers, ", "))
	}
	if p.maxAge > 0 {
		h.Set("Access-Control-Max-Age", strconv.Itoa(p.maxAge))
	}

	return Decision{
		Kind:    DecisionPreflight,
		Status:  http.StatusNoContent,
		Headers: h,
	}
}

// allowOriginValue picks the Allow-Origin header value. Wildcard policies
// answer "*" unless credentials are in play, in which case the concrete
// origin is echoed (the wildcard is invalid with credentials).
func (p *Policy) allowOriginValue(origin string) string {
	if p.origin == Wildcard && !p.credentials {
		return Wildcard
	}
	return origin
}
