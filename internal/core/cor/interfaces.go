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

// Package cor (Chain of Responsibility) provides the building blocks for
// the per-video consolidation pipeline. A workflow is a chain of commands;
// each command reads its input from a shared context, does one unit of
// work, and writes its output back for the next command. This file defines
// the interfaces the rest of the package implements.
package cor

import (
	"context"

	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

// CtxIn and CtxOut are the context keys a BaseChain uses to pipe data
// between commands.
const (
	// CtxIn is the default key a command reads its primary input from. The
	// chain populates it with the previous command's output.
	CtxIn = "__IN__"
	// CtxOut is the default key a command writes its primary output to. The
	// chain moves it to CtxIn before running the next command.
	CtxOut = "__OUT__"
)

// Context is the shared state object passed through a chain. It carries
// data, collected errors, a per-execution correlation id, and the standard
// Go context used for cancellation and trace propagation.
type Context interface {
	// SetContext sets the standard Go context (cancellation, trace spans).
	SetContext(context context.Context)

	// GetContext returns the standard Go context.
	GetContext() context.Context

	// GetRunID returns the correlation id minted when this context was
	// created, used to tie one video's log lines and spans together.
	GetRunID() string

	// Add stores a key-value pair; returns the Context for chaining.
	Add(key string, value interface{}) Context

	// AddError records an error under the name of the command that hit it.
	AddError(key string, err error)

	// GetErrors returns every error collected during the execution.
	GetErrors() map[string]error

	// Get returns the value stored under key, or nil.
	Get(key string) interface{}

	// Remove deletes a key-value pair.
	Remove(key string)

	// HasErrors reports whether any command has recorded an error.
	HasErrors() bool
}

// Executable is anything with a core execution step.
type Executable interface {
	// Execute runs the business logic, reading and writing via the Context.
	Execute(context Context)
}

// Command is an atomic, testable unit of work in a pipeline.
type Command interface {
	Executable

	// GetName returns the command's unique name for logs and telemetry.
	GetName() string

	// GetInputParam returns the context key of the command's primary input.
	GetInputParam() string

	// GetOutputParam returns the context key of the command's primary output.
	GetOutputParam() string

	// IsExecutable is the precondition check run before Execute. A command
	// whose inputs are missing is skipped, not failed; soft skips in the
	// pipeline (a video without scene data) lean on this.
	IsExecutable(context Context) bool

	// GetTracer returns the command's OpenTelemetry tracer.
	GetTracer() trace.Tracer

	// GetMeter returns the command's OpenTelemetry meter.
	GetMeter() metric.Meter

	// GetSuccessCounter returns the counter incremented on success.
	GetSuccessCounter() metric.Int64Counter

	// GetErrorCounter returns the counter incremented on failure.
	GetErrorCounter() metric.Int64Counter
}

// Chain is a sequence of commands. A Chain is itself a Command, so chains
// can nest (composite pattern).
type Chain interface {
	Command

	// ContinueOnFailure configures whether the chain keeps executing after
	// a command records an error. Default is to stop.
	ContinueOnFailure(bool) Chain

	// AddCommand appends a command to the execution sequence.
	AddCommand(command Command) Chain
}
