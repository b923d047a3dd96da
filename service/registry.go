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

package service

import (
	"fmt"
	"slices"
	"strings"
	"sync"
)

// Factory constructs a service value. It is invoked at most once per
// registry, on the first Get for its name.
type Factory func() any

// reservedNames are the registry's own accessor names. Registering a service
// under one of these (case-insensitively) is rejected so that the name space
// of services never shadows the registry API.
var reservedNames = []string{"register", "get", "has", "names", "only"}

// Registry maps service names to factories. The zero value is not usable;
// construct with NewRegistry.
//
// Registration happens during application setup; Get and Only may be called
// concurrently during request handling.
type Registry struct {
	mu        sync.RWMutex
	factories map[string]Factory
	instances map[string]any
	order     []string // registration order, for Names
}

// NewRegistry returns an empty service registry.
func NewRegistry() *Registry {
	return &Registry{
		factories: make(map[string]Factory),
		instances: make(map[string]any),
	}
}

// Register adds a named factory to the registry.
//
// The name must be non-empty, contain no whitespace, and not collide with a
// registry method name. Registering a name twice is an error; duplicate
// services are rejected, never overwritten.
func (r *Registry) Register(name string, factory Factory) error {
	if err := validateName(name); err != nil {
		return err
	}
	if factory == nil {
		return fmt.Errorf("%w: %q", ErrNilFactory, name)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.factories[name]; exists {
		return fmt.Errorf("%w: %q", ErrDuplicateName, name)
	}
	r.factories[name] = factory
	r.order = append(r.order, name)
	return nil
}

// validateName checks a service name against the registration rules.
func validateName(name string) error {
	if name == "" || strings.ContainsFunc(name, isSpace) {
		return fmt.Errorf("%w: %q", ErrInvalidName, name)
	}
	if slices.Contains(reservedNames, strings.ToLower(name)) {
		return fmt.Errorf("%w: %q", ErrReservedName, name)
	}
	return nil
}

func isSpace(r rune) bool {
	switch r {
	case ' ', '\t', '\n', '\v', '\f', '\r':
		return true
	}
	return false
}

// Has reports whether a service is registered under name.
func (r *Registry) Has(name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.factories[name]
	return ok
}

// Names returns the registered service names in registration order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return slices.Clone(r.order)
}

// Len returns the number of registered services.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.factories)
}

// Get returns the service registered under name, constructing it on first
// access. Subsequent calls on the same registry return the memoized value.
//
// Requesting an unknown name fails with ErrNotFound.
func (r *Registry) Get(name string) (any, error) {
	r.mu.RLock()
	if v, ok := r.instances[name]; ok {
		r.mu.RUnlock()
		return v, nil
	}
	factory, ok := r.factories[name]
	r.mu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrNotFound, name)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	// Another goroutine may have constructed the value between the read
	// unlock and here.
	if v, ok := r.instances[name]; ok {
		return v, nil
	}
	v := factory()
	r.instances[name] = v
	return v, nil
}

// Only returns a new registry exposing exactly the intersection of the
// registered names and the requested names. Factories (and any values already
// constructed on this registry) are carried over unchanged; the source
// registry is not modified.
//
// Requested names with no registration are silently dropped from the scope.
func (r *Registry) Only(names ...string) *Registry {
	r.mu.RLock()
	defer r.mu.RUnlock()

	scoped := NewRegistry()
	for _, name := range r.order {
		if !slices.Contains(names, name) {
			continue
		}
		scoped.factories[name] = r.factories[name]
		scoped.order = append(scoped.order, name)
		if v, ok := r.instances[name]; ok {
			scoped.instances[name] = v
		}
	}
	return scoped
}
