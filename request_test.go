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
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMemoryRequest(t *testing.T) {
	t.Parallel()

	req := NewRequest(http.MethodPost, "/users").
		WithHeader("Origin", "https://app.example.com")

	assert.Equal(t, http.MethodPost, req.Method())
	assert.Equal(t, "/users", req.Path())
	assert.Equal(t, "https://app.example.com", req.Header("Origin"))
	assert.Empty(t, req.Header("Missing"))

	req.SetParam("id", "42")
	v, ok := req.Param("id")
	assert.True(t, ok)
	assert.Equal(t, "42", v)

	_, ok = req.Param("missing")
	assert.False(t, ok)
}

func TestMemoryRequestParamsReturnsCopy(t *testing.T) {
	t.Parallel()

	req := NewRequest(http.MethodGet, "/")
	req.SetParam("id", "1")

	params := req.Params()
	params["id"] = "mutated"

	v, _ := req.Param("id")
	assert.Equal(t, "1", v, "Params must hand out a copy of the bag")
}

func TestFromHTTPExposesEscapedPath(t *testing.T) {
	t.Parallel()

	hr := httptest.NewRequest(http.MethodGet, "/files/hello%20world", nil)
	hr.Header.Set("Origin", "https://app.example.com")

	req := FromHTTP(hr)
	assert.Equal(t, http.MethodGet, req.Method())
	assert.Equal(t, "/files/hello%20world", req.Path(),
		"the adapter must expose the wire form so dispatch decodes exactly once")
	assert.Equal(t, "https://app.example.com", req.Header("Origin"))

	req.SetParam("name", "hello world")
	v, ok := req.Param("name")
	assert.True(t, ok)
	assert.Equal(t, "hello world", v)
}
