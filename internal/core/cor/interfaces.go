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

// Package cor (Chain of Responsibility) is the small workflow engine the
// editorial pipelines are built on. A pipeline stage is a Command; an ordered
// sequence of stages is a Chain; the shared state for one request is a Context.
// The verdict and pointers flows are expressed as chains of prompt-building,
// model-invocation and response-decoding commands, so each stage stays an
// atomic, independently testable unit.
package cor

import (
	"context"

	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

// CtxIn and CtxOut are the keys used to pipe data between commands in a chain.
const (
	// CtxIn is the default key a command reads its primary input from. The
	// chain populates it with the previous command's output.
	CtxIn = "__IN__"
	// CtxOut is the default key a command writes its primary output to.
	CtxOut = "__OUT__"
)

// Context is the property bag passed through a chain for a single request.
// It carries data between commands, collects errors, and tracks temporary
// files (sampled frame images) so they can be cleaned up when the request
// finishes.
type Context interface {
	// SetContext sets the standard Go context.Context used for cancellation
	// and trace propagation.
	SetContext(context context.Context)

	// GetContext retrieves the standard Go context.Context.
	GetContext() context.Context

	// Add stores a key-value pair. Returns the Context for fluent chaining.
	Add(key string, value interface{}) Context

	// AddError records a command failure, keyed by the command name.
	AddError(key string, err error)

	// GetErrors returns all errors collected during the workflow.
	GetErrors() map[string]error

	// Get retrieves a value by key, or nil.
	Get(key string) interface{}

	// Remove deletes a key-value pair.
	Remove(key string)

	// HasErrors reports whether any command has failed.
	HasErrors() bool

	// AddTempFile tracks a temporary file created during the workflow.
	AddTempFile(file string)

	// GetTempFiles returns all tracked temporary file paths.
	GetTempFiles() []string

	// Close removes all tracked temporary files. Defer it when the context
	// is created.
	Close()
}

// Executable is anything with a core execution step.
type Executable interface {
	// Execute runs the unit of work, reading inputs from and writing outputs
	// to the given Context.
	Execute(context Context)
}

// Command is an atomic, thread-safe unit of work within a pipeline.
type Command interface {
	Executable

	// GetName returns the command's name, used for logging and telemetry.
	GetName() string

	// GetInputParam returns the context key the command reads its input from.
	GetInputParam() string

	// GetOutputParam returns the context key the command writes its output to.
	GetOutputParam() string

	// IsExecutable is the precondition check run before Execute.
	IsExecutable(context Context) bool

	// GetTracer returns the OpenTelemetry tracer for this command.
	GetTracer() trace.Tracer

	// GetMeter returns the OpenTelemetry meter for creating metrics.
	GetMeter() metric.Meter

	// GetSuccessCounter returns the counter incremented on success.
	GetSuccessCounter() metric.Int64Counter

	// GetErrorCounter returns the counter incremented on failure.
	GetErrorCounter() metric.Int64Counter
}

// Chain is an ordered sequence of commands. A Chain is itself a Command, so
// chains can nest (the verdict flow nests its vision and verdict passes).
type Chain interface {
	Command

	// ContinueOnFailure configures whether the chain keeps executing after a
	// command records an error. The editorial chains leave this false: a
	// failed vision pass must abort before the verdict pass runs.
	ContinueOnFailure(bool) Chain

	// AddCommand appends a command to the execution sequence.
	AddCommand(command Command) Chain
}
