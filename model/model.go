//
// Copyright (C) 2026 agentgraph authors.  All rights reserved.
//
// agentgraph is licensed under the Apache License Version 2.0.
//
//

// Package model provides the canonical message types and the interface that
// hides the differences between reasoning-model backends.
package model

import (
	"context"
	"fmt"

	"github.com/agentgraph-ai/agentgraph/tool"
)

// Model is the uniform interface over reasoning-model backends.
//
// Invoke maps the canonical message sequence into the backend's expected
// shape, prepends the system message the adapter was constructed with, and
// returns exactly one new assistant message. The returned message may carry
// zero or more tool calls. Transport, auth and rate-limit failures from the
// backend are surfaced unmodified, wrapped in *InvocationError; adapters
// perform no silent retry.
type Model interface {
	// Invoke sends the conversation to the backend and returns its reply.
	Invoke(ctx context.Context, messages []Message) (Message, error)

	// Info returns basic information about the model.
	Info() Info
}

// Info contains basic information about a Model.
type Info struct {
	Name string
}

// Options carries the per-run binding applied when a model is resolved from
// the registry: the system message text (already augmented with any few-shot
// examples) and the tool declarations the model may call.
type Options struct {
	// SystemMessage is prepended as a leading system message on every invoke.
	SystemMessage string
	// Tools are the declarations bound to the model for this run.
	Tools []*tool.Declaration
}

// InvocationError wraps a backend failure. The underlying error is kept
// intact and reachable through Unwrap.
type InvocationError struct {
	// Model is the name of the model that failed.
	Model string
	// Err is the backend error, unmodified.
	Err error
}

// Error implements the error interface.
func (e *InvocationError) Error() string {
	return fmt.Sprintf("model %s invocation failed: %v", e.Model, e.Err)
}

// Unwrap returns the underlying backend error.
func (e *InvocationError) Unwrap() error { return e.Err }

// NewInvocationError creates an InvocationError for the named model.
func NewInvocationError(model string, err error) *InvocationError {
	return &InvocationError{Model: model, Err: err}
}
