//
// Copyright (C) 2026 agentgraph authors.  All rights reserved.
//
// agentgraph is licensed under the Apache License Version 2.0.
//
//

// Package toolexec dispatches the tool calls requested by an assistant
// message and collects their correlated results.
package toolexec

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/panjf2000/ants/v2"

	"github.com/agentgraph-ai/agentgraph/model"
	"github.com/agentgraph-ai/agentgraph/tool"
)

// defaultPoolSize is the worker pool size used when none is configured.
const defaultPoolSize = 16

// Error wraps a failure of a single tool call. A failure anywhere in a batch
// aborts the whole batch: already-collected results are discarded and the
// error terminates the run step.
type Error struct {
	// Tool is the name of the failing tool.
	Tool string
	// CallID is the id of the failing call.
	CallID string
	// Err is the underlying failure.
	Err error
}

// Error implements the error interface.
func (e *Error) Error() string {
	return fmt.Sprintf("tool %s (call %s) execution failed: %v", e.Tool, e.CallID, e.Err)
}

// Unwrap returns the underlying tool error.
func (e *Error) Unwrap() error { return e.Err }

// Invoker executes batches of tool calls concurrently on a shared worker
// pool. It holds no per-call state and is safe for concurrent use by
// multiple runs.
type Invoker struct {
	pool *ants.Pool
}

// Option configures an Invoker.
type Option func(*options)

type options struct {
	poolSize int
}

// WithPoolSize sets the size of the worker pool shared by all batches.
func WithPoolSize(size int) Option {
	return func(o *options) { o.poolSize = size }
}

// NewInvoker creates an invoker with its worker pool.
func NewInvoker(opts ...Option) (*Invoker, error) {
	o := options{poolSize: defaultPoolSize}
	for _, opt := range opts {
		opt(&o)
	}
	pool, err := ants.NewPool(o.poolSize)
	if err != nil {
		return nil, fmt.Errorf("create tool worker pool: %w", err)
	}
	return &Invoker{pool: pool}, nil
}

// Close releases the worker pool.
func (inv *Invoker) Close() {
	inv.pool.Release()
}

// Execute dispatches every call in the batch concurrently and waits for all
// of them to return before it does (join barrier). Each result is wrapped as
// a tool-role message correlated to its call id. The first failure cancels
// the remaining calls, and after the barrier the batch error is returned
// with no partial results.
func (inv *Invoker) Execute(
	ctx context.Context,
	tools map[string]tool.CallableTool,
	calls []model.ToolCall,
) ([]model.Message, error) {
	if len(calls) == 0 {
		return nil, nil
	}
	// Resolve every call before dispatching anything.
	resolved := make([]tool.CallableTool, len(calls))
	for i, call := range calls {
		t, ok := tools[call.Function.Name]
		if !ok {
			return nil, &Error{
				Tool:   call.Function.Name,
				CallID: call.ID,
				Err:    fmt.Errorf("tool not found in roster"),
			}
		}
		resolved[i] = t
	}

	callCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		firstErr *Error
	)
	results := make([]model.Message, len(calls))
	fail := func(call model.ToolCall, err error) {
		mu.Lock()
		defer mu.Unlock()
		if firstErr == nil {
			firstErr = &Error{Tool: call.Function.Name, CallID: call.ID, Err: err}
			cancel()
		}
	}
	for i, call := range calls {
		idx, call, t := i, call, resolved[i]
		wg.Add(1)
		if err := inv.pool.Submit(func() {
			defer wg.Done()
			out, err := t.Call(callCtx, call.Function.Arguments)
			if err != nil {
				fail(call, err)
				return
			}
			content, err := encodeResult(out)
			if err != nil {
				fail(call, err)
				return
			}
			results[idx] = model.NewToolMessage(call.ID, call.Function.Name, content)
		}); err != nil {
			wg.Done()
			fail(call, fmt.Errorf("submit to worker pool: %w", err))
		}
	}
	wg.Wait()

	if firstErr != nil {
		return nil, firstErr
	}
	return results, nil
}

// encodeResult renders a tool result as message content. Strings pass
// through; everything else is JSON-encoded.
func encodeResult(out any) (string, error) {
	switch v := out.(type) {
	case nil:
		return "", nil
	case string:
		return v, nil
	case []byte:
		return string(v), nil
	default:
		data, err := json.Marshal(v)
		if err != nil {
			return "", fmt.Errorf("encode tool result: %w", err)
		}
		return string(data), nil
	}
}
