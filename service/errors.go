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

import "errors"

var (
	// ErrDuplicateName indicates a service name is already registered.
	ErrDuplicateName = errors.New("service name already registered")

	// ErrReservedName indicates a service name collides with a registry method name.
	ErrReservedName = errors.New("service name is reserved")

	// ErrInvalidName indicates a service name is empty or contains whitespace.
	ErrInvalidName = errors.New("invalid service name")

	// ErrNilFactory indicates a nil factory was passed to Register.
	ErrNilFactory = errors.New("service factory must not be nil")

	// ErrNotFound indicates no service is registered under the requested name.
	ErrNotFound = errors.New("service not found")
)
