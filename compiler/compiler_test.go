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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalize(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		template string
		want     string
	}{
		{"already canonical", "/users", "/users"},
		{"missing leading slash", "users", "/users"},
		{"trailing slash stripped", "/users/", "/users"},
		{"both added and stripped", "users/", "/users"},
		{"backslashes converted", `\users\42`, "/users/42"},
		{"root stays root", "/", "/"},
		{"empty is root", "", "/"},
		{"only slashes is root", "///", "/"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, Normalize(tt.template))
		})
	}
}

func TestNormalizeIdempotent(t *testing.T) {
	t.Parallel()

	for _, template := range []string{"/users/", `api\v1`, "/", "posts/{id}/"} {
		once := Normalize(template)
		assert.Equal(t, once, Normalize(once), "Normalize must be idempotent for %q", template)
	}
}

func TestCompileDefaultPlaceholder(t *testing.T) {
	t.Parallel()

	p, err := Compile("/users/{id}")
	require.NoError(t, err)
	assert.Equal(t, "/users/{id}", p.Template())
	assert.Equal(t, []string{"id"}, p.Params())
	assert.False(t, p.Static())

	params, ok := p.Match("/users/42")
	require.True(t, ok)
	assert.Equal(t, map[string]string{"id": "42"}, params)

	// A default placeholder never crosses a slash boundary.
	_, ok = p.Match("/users/42/posts")
	assert.False(t, ok)

	// Nor does it match the empty string.
	_, ok = p.Match("/users/")
	assert.False(t, ok)
}

func TestCompileInlinePattern(t *testing.T) {
	t.Parallel()

	p, err := Compile("/users/{id:[0-9]+}")
	require.NoError(t, err)

	params, ok := p.Match("/users/42")
	require.True(t, ok)
	assert.Equal(t, "42", params["id"])

	_, ok = p.Match("/users/abc")
	assert.False(t, ok, "inline pattern must constrain the capture")
}

func TestCompileInlinePatternWithBraces(t *testing.T) {
	t.Parallel()

	// Repetition counts use braces inside the placeholder body.
	p, err := Compile("/years/{year:[0-9]{4}}")
	require.NoError(t, err)

	params, ok := p.Match("/years/2026")
	require.True(t, ok)
	assert.Equal(t, "2026", params["year"])

	_, ok = p.Match("/years/26")
	assert.False(t, ok)
}

func TestCompileMultiplePlaceholders(t *testing.T) {
	t.Parallel()

	p, err := Compile("/users/{userID}/posts/{slug}")
	require.NoError(t, err)
	assert.Equal(t, []string{"userID", "slug"}, p.Params())

	params, ok := p.Match("/users/7/posts/hello-world")
	require.True(t, ok)
	assert.Equal(t, map[string]string{"userID": "7", "slug": "hello-world"}, params)
}

func TestCompileLiteralMetacharactersEscaped(t *testing.T) {
	t.Parallel()

	p, err := Compile("/files/v1.2/{name}")
	require.NoError(t, err)

	// The "." in the literal must not act as a regex wildcard.
	_, ok := p.Match("/files/v1x2/readme")
	assert.False(t, ok)

	params, ok := p.Match("/files/v1.2/readme")
	require.True(t, ok)
	assert.Equal(t, "readme", params["name"])
}

func TestCompileCaseInsensitive(t *testing.T) {
	t.Parallel()

	p, err := Compile("/Admin/{name}")
	require.NoError(t, err)

	for _, path := range []string{"/admin/bob", "/ADMIN/bob", "/Admin/Bob"} {
		_, ok := p.Match(path)
		assert.True(t, ok, "expected %q to match case-insensitively", path)
	}
}

func TestCompileAnchored(t *testing.T) {
	t.Parallel()

	p, err := Compile("/users")
	require.NoError(t, err)

	for _, path := range []string{"/users/extra", "/api/users", "/user"} {
		_, ok := p.Match(path)
		assert.False(t, ok, "expected %q not to match anchored /users", path)
	}
}

func TestCompileRoot(t *testing.T) {
	t.Parallel()

	p, err := Compile("/")
	require.NoError(t, err)
	assert.True(t, p.Static())

	_, ok := p.Match("/")
	assert.True(t, ok)

	_, ok = p.Match("/anything")
	assert.False(t, ok)
}

func TestCompileStaticMatchReturnsNilParams(t *testing.T) {
	t.Parallel()

	p, err := Compile("/health")
	require.NoError(t, err)

	params, ok := p.Match("/health")
	assert.True(t, ok)
	assert.Nil(t, params)
}

func TestCompileErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		template string
		wantErr  error
	}{
		{"empty placeholder", "/users/{}", ErrEmptyPlaceholder},
		{"pattern without name", "/users/{:[0-9]+}", ErrEmptyPlaceholder},
		{"invalid identifier", "/users/{user-id}", ErrInvalidPlaceholderName},
		{"leading digit", "/users/{1st}", ErrInvalidPlaceholderName},
		{"unbalanced brace", "/users/{id", ErrUnbalancedBrace},
		{"duplicate name", "/{id}/{id}", ErrDuplicatePlaceholder},
		{"invalid inline pattern", "/users/{id:[}", ErrInvalidPattern},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, err := Compile(tt.template)
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestCompileIsPure(t *testing.T) {
	t.Parallel()

	a, err := Compile("/users/{id:[0-9]+}/posts/{slug}")
	require.NoError(t, err)
	b, err := Compile("/users/{id:[0-9]+}/posts/{slug}")
	require.NoError(t, err)

	assert.Equal(t, a.Template(), b.Template())
	assert.Equal(t, a.Params(), b.Params())

	pa, oka := a.Match("/users/9/posts/x")
	pb, okb := b.Match("/users/9/posts/x")
	assert.Equal(t, oka, okb)
	assert.Equal(t, pa, pb)
}

func TestMustCompilePanicsOnInvalidTemplate(t *testing.T) {
	t.Parallel()

	assert.Panics(t, func() {
		MustCompile("/users/{")
	})
}
