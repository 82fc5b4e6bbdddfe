// Copyright 2024 Google, LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     https://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package cor provides the building blocks for pipelines. This file defines
// BaseContext, the default Context implementation: a property bag for data
// flowing between commands, an error map keyed by command name, and a run id
// minted at construction so one video's execution can be correlated across
// logs and spans. One context serves exactly one workflow execution and is
// discarded afterwards; there is no shared state between videos.
package cor

import (
	"context"

	"github.com/google/uuid"
)

// BaseContext is the default implementation of the Context interface.
type BaseContext struct {
	runID   string
	data    map[string]interface{}
	errors  map[string]error
	context context.Context
}

// NewBaseContext creates an empty context with a fresh run id.
func NewBaseContext() Context {
	return &BaseContext{
		runID:  uuid.NewString(),
		data:   make(map[string]interface{}),
		errors: make(map[string]error),
	}
}

// SetContext sets the underlying standard Go context. The chain uses this to
// scope each command under its own trace span.
func (c *BaseContext) SetContext(context context.Context) {
	c.context = context
}

// GetContext returns the underlying standard Go context.
func (c *BaseContext) GetContext() context.Context {
	return c.context
}

// GetRunID returns the correlation id for this execution.
func (c *BaseContext) GetRunID() string {
	return c.runID
}

// Add stores a key-value pair and returns the context for chaining.
func (c *BaseContext) Add(key string, value interface{}) Context {
	c.data[key] = value
	return c
}

// AddError records an error under the producing command's name.
func (c *BaseContext) AddError(key string, err error) {
	c.errors[key] = err
}

// GetErrors returns all errors collected during the execution.
func (c *BaseContext) GetErrors() map[string]error {
	return c.errors
}

// Get returns the value stored under key, or nil.
func (c *BaseContext) Get(key string) interface{} {
	return c.data[key]
}

// Remove deletes a key-value pair.
func (c *BaseContext) Remove(key string) {
	delete(c.data, key)
}

// HasErrors reports whether any command has recorded an error.
func (c *BaseContext) HasErrors() bool {
	return len(c.errors) > 0
}
