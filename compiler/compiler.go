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

package compiler

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

var (
	// ErrEmptyPlaceholder indicates a template contains "{}" or "{:pattern}".
	ErrEmptyPlaceholder = errors.New("placeholder name must not be empty")

	// ErrInvalidPlaceholderName indicates a placeholder name is not a valid identifier.
	ErrInvalidPlaceholderName = errors.New("placeholder name must be a valid identifier")

	// ErrUnbalancedBrace indicates a "{" without a matching "}" in a template.
	ErrUnbalancedBrace = errors.New("unbalanced brace in template")

	// ErrDuplicatePlaceholder indicates the same placeholder name appears twice in one template.
	ErrDuplicatePlaceholder = errors.New("duplicate placeholder name in template")

	// ErrInvalidPattern indicates an inline placeholder pattern failed to compile.
	ErrInvalidPattern = errors.New("invalid placeholder pattern")
)

// defaultPlaceholderPattern matches one or more non-slash characters.
// It is used for placeholders declared without an inline pattern.
const defaultPlaceholderPattern = "[^/]+"

// identifierPattern validates placeholder names.
var identifierPattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// Pattern is a compiled route template. It pairs the canonical normalized
// template with an anchored, case-insensitive regular expression whose named
// capture groups correspond to the template's placeholders.
//
// A Pattern is immutable and safe for concurrent use.
type Pattern struct {
	template string         // canonical normalized template
	re       *regexp.Regexp // anchored matcher with named groups
	params   []string       // placeholder names in declaration order
}

// Normalize returns the canonical form of a template: backslashes converted
// to forward slashes, exactly one leading slash, and no trailing slash except
// for the root template "/".
//
// Normalization is idempotent; Normalize(Normalize(t)) == Normalize(t).
func Normalize(template string) string {
	t := strings.ReplaceAll(template, `\`, "/")
	t = strings.Trim(t, "/")
	if t == "" {
		return "/"
	}
	return "/" + t
}

// Compile parses a route template and returns its compiled Pattern.
//
// Placeholders take the form {name} or {name:pattern}. Braces inside an
// inline pattern (such as repetition counts like [0-9]{2,4}) are supported;
// the placeholder ends at the brace that balances its opening one.
//
// Compile returns an error if a placeholder is unnamed, its name is not an
// identifier, a name repeats within the template, a brace is unbalanced, or
// an inline pattern is not a valid regular expression.
func Compile(template string) (*Pattern, error) {
	normalized := Normalize(template)

	var sb strings.Builder
	sb.WriteString("(?i)^")

	params := make([]string, 0, 4)
	seen := make(map[string]struct{}, 4)

	rest := normalized
	for {
		open := strings.IndexByte(rest, '{')
		if open < 0 {
			sb.WriteString(regexp.QuoteMeta(rest))
			break
		}

		sb.WriteString(regexp.QuoteMeta(rest[:open]))

		body, length, ok := placeholderBody(rest[open:])
		if !ok {
			return nil, fmt.Errorf("%w: %q", ErrUnbalancedBrace, normalized)
		}

		name, inline := body, ""
		if colon := strings.IndexByte(body, ':'); colon >= 0 {
			name, inline = body[:colon], body[colon+1:]
		}

		if name == "" {
			return nil, fmt.Errorf("%w: %q", ErrEmptyPlaceholder, normalized)
		}
		if !identifierPattern.MatchString(name) {
			return nil, fmt.Errorf("%w: %q in %q", ErrInvalidPlaceholderName, name, normalized)
		}
		if _, dup := seen[name]; dup {
			return nil, fmt.Errorf("%w: %q in %q", ErrDuplicatePlaceholder, name, normalized)
		}
		seen[name] = struct{}{}
		params = append(params, name)

		sub := defaultPlaceholderPattern
		if inline != "" {
			if _, err := regexp.Compile(inline); err != nil {
				return nil, fmt.Errorf("%w: {%s:%s}: %v", ErrInvalidPattern, name, inline, err)
			}
			sub = inline
		}

		sb.WriteString("(?P<")
		sb.WriteString(name)
		sb.WriteString(">")
		sb.WriteString(sub)
		sb.WriteString(")")

		rest = rest[open+length:]
	}

	sb.WriteString("$")

	re, err := regexp.Compile(sb.String())
	if err != nil {
		// Inline patterns compile in isolation above, so this only triggers
		// when composition itself produces an invalid expression.
		return nil, fmt.Errorf("%w: template %q: %v", ErrInvalidPattern, normalized, err)
	}

	return &Pattern{
		template: normalized,
		re:       re,
		params:   params,
	}, nil
}

// MustCompile is like Compile but panics on error. It is intended for
// templates known to be valid at registration time.
func MustCompile(template string) *Pattern {
	p, err := Compile(template)
	if err != nil {
		panic(fmt.Sprintf("compiler.MustCompile(%q): %v", template, err))
	}
	return p
}

// placeholderBody extracts the body of the placeholder starting at s[0] == '{'.
// It returns the text between the outer braces, the total length of the
// placeholder including both braces, and whether the braces balance.
func placeholderBody(s string) (body string, length int, ok bool) {
	depth := 0
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return s[1:i], i + 1, true
			}
		}
	}
	return "", 0, false
}

// Template returns the canonical normalized template this Pattern was
// compiled from.
func (p *Pattern) Template() string {
	return p.template
}

// Params returns the placeholder names in declaration order. The returned
// slice must not be modified.
func (p *Pattern) Params() []string {
	return p.params
}

// Static reports whether the template contains no placeholders.
func (p *Pattern) Static() bool {
	return len(p.params) == 0
}

// Match tests path against the compiled template. On a match it returns the
// placeholder name → captured value map and true; otherwise nil and false.
//
// Matching is anchored (whole-path) and case-insensitive.
func (p *Pattern) Match(path string) (map[string]string, bool) {
	m := p.re.FindStringSubmatch(path)
	if m == nil {
		return nil, false
	}
	if len(p.params) == 0 {
		return nil, true
	}
	values := make(map[string]string, len(p.params))
	for _, name := range p.params {
		if idx := p.re.SubexpIndex(name); idx >= 0 && idx < len(m) {
			values[name] = m[idx]
		}
	}
	return values, true
}

// String implements fmt.Stringer and returns the normalized template.
func (p *Pattern) String() string {
	return p.template
}
