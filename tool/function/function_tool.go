//
// Copyright (C) 2026 agentgraph authors.  All rights reserved.
//
// agentgraph is licensed under the Apache License Version 2.0.
//
//

// Package function wraps plain Go functions as callable tools.
package function

import (
	"context"
	"encoding/json"
	"fmt"
	"reflect"

	"github.com/agentgraph-ai/agentgraph/internal/schema"
	"github.com/agentgraph-ai/agentgraph/tool"
)

// FunctionTool implements tool.CallableTool by decoding JSON arguments into
// the input type and delegating to the wrapped function.
type FunctionTool[I, O any] struct {
	name        string
	description string
	inputSchema *tool.Schema
	fn          func(ctx context.Context, input I) (O, error)
}

// Option configures a FunctionTool.
type Option func(*options)

type options struct {
	name        string
	description string
}

// WithName sets the name of the function tool.
func WithName(name string) Option {
	return func(o *options) { o.name = name }
}

// WithDescription sets the description of the function tool.
func WithDescription(description string) Option {
	return func(o *options) { o.description = description }
}

// New creates a function tool around fn. The input schema is generated from
// the input type via reflection.
func New[I, O any](fn func(ctx context.Context, input I) (O, error), opts ...Option) *FunctionTool[I, O] {
	var o options
	for _, opt := range opts {
		opt(&o)
	}
	var emptyI I
	return &FunctionTool[I, O]{
		name:        o.name,
		description: o.description,
		inputSchema: schema.Generate(reflect.TypeOf(emptyI)),
		fn:          fn,
	}
}

// Declaration implements tool.Tool.
func (t *FunctionTool[I, O]) Declaration() *tool.Declaration {
	return &tool.Declaration{
		Name:        t.name,
		Description: t.description,
		InputSchema: t.inputSchema,
	}
}

// Call implements tool.CallableTool. Empty argument payloads decode to the
// zero input value.
func (t *FunctionTool[I, O]) Call(ctx context.Context, jsonArgs []byte) (any, error) {
	var input I
	if len(jsonArgs) > 0 {
		if err := json.Unmarshal(jsonArgs, &input); err != nil {
			return nil, fmt.Errorf("tool %s: decode arguments: %w", t.name, err)
		}
	}
	return t.fn(ctx, input)
}
