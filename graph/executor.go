//
// Copyright (C) 2026 agentgraph authors.  All rights reserved.
//
// agentgraph is licensed under the Apache License Version 2.0.
//
//

package graph

import (
	"context"
	"errors"
	"fmt"

	"go.opentelemetry.io/otel/attribute"
	otrace "go.opentelemetry.io/otel/trace"

	"github.com/agentgraph-ai/agentgraph/event"
	"github.com/agentgraph-ai/agentgraph/graph/checkpoint"
	"github.com/agentgraph-ai/agentgraph/log"
	"github.com/agentgraph-ai/agentgraph/model"
	"github.com/agentgraph-ai/agentgraph/telemetry/trace"
)

// Executor defaults.
const (
	// DefaultMaxSteps is the step bound applied when none is configured.
	DefaultMaxSteps = 50
	// defaultChannelBufferSize is the buffer of the event channel returned
	// by Execute.
	defaultChannelBufferSize = 64
)

// AgentFunc runs the reasoning node: it invokes the model on the message
// sequence and returns the one assistant message to append.
type AgentFunc func(ctx context.Context, messages []model.Message) (model.Message, error)

// ActionFunc runs the tool-execution node: it executes every tool call of
// the last assistant message and returns the tool messages to append, one
// per call, in call order.
type ActionFunc func(ctx context.Context, messages []model.Message) ([]model.Message, error)

// Executor drives a thread through the agent/action cycle. It is stateless
// between calls: all durable state lives in the checkpoint saver, so any
// executor instance can advance any thread.
type Executor struct {
	agentFn               AgentFunc
	actionFn              ActionFunc
	saver                 checkpoint.Saver
	interruptBeforeAction bool
	maxSteps              int
	bufferSize            int
}

// Option configures an Executor.
type Option func(*Executor)

// WithMaxSteps bounds the number of node steps a single run may take.
func WithMaxSteps(n int) Option {
	return func(e *Executor) { e.maxSteps = n }
}

// WithInterruptBeforeAction makes the executor suspend for external
// confirmation before every entry into the action node.
func WithInterruptBeforeAction(interrupt bool) Option {
	return func(e *Executor) { e.interruptBeforeAction = interrupt }
}

// WithChannelBufferSize sets the buffer of the event channel returned by
// Execute.
func WithChannelBufferSize(n int) Option {
	return func(e *Executor) { e.bufferSize = n }
}

// New creates an executor over the two node functions and the saver.
func New(agentFn AgentFunc, actionFn ActionFunc, saver checkpoint.Saver, opts ...Option) (*Executor, error) {
	if agentFn == nil {
		return nil, errors.New("agent function is required")
	}
	if actionFn == nil {
		return nil, errors.New("action function is required")
	}
	if saver == nil {
		return nil, errors.New("checkpoint saver is required")
	}
	e := &Executor{
		agentFn:    agentFn,
		actionFn:   actionFn,
		saver:      saver,
		maxSteps:   DefaultMaxSteps,
		bufferSize: defaultChannelBufferSize,
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.maxSteps <= 0 {
		e.maxSteps = DefaultMaxSteps
	}
	return e, nil
}

// Run advances the thread synchronously and returns the full message
// sequence at the point the run stopped. A suspension is reported as an
// *InterruptError alongside the messages accumulated so far.
func (e *Executor) Run(ctx context.Context, threadID string, input []model.Message) ([]model.Message, error) {
	return e.run(ctx, threadID, input, func(*event.Event) {})
}

// Execute advances the thread asynchronously and streams events on the
// returned channel. The channel is closed when the run completes, suspends
// or fails; failures surface as error events rather than a return value.
func (e *Executor) Execute(ctx context.Context, threadID string, input []model.Message) (<-chan *event.Event, error) {
	if threadID == "" {
		return nil, errors.New("thread id is required")
	}
	ch := make(chan *event.Event, e.bufferSize)
	emit := func(evt *event.Event) {
		select {
		case ch <- evt:
		case <-ctx.Done():
		}
	}
	go func() {
		defer close(ch)
		if _, err := e.run(ctx, threadID, input, emit); err != nil && !IsInterruptError(err) {
			log.Errorf("run failed for thread %s: %v", threadID, err)
			emit(event.NewError(threadID, errorType(err), err.Error()))
		}
	}()
	return ch, nil
}

// run is the step loop shared by Run and Execute.
func (e *Executor) run(
	ctx context.Context,
	threadID string,
	input []model.Message,
	emit func(*event.Event),
) ([]model.Message, error) {
	latest, err := e.saver.Latest(ctx, threadID)
	if err != nil {
		return nil, fmt.Errorf("load latest checkpoint: %w", err)
	}

	var messages []model.Message
	step := 0
	if latest != nil {
		messages = latest.Messages
		step = latest.Step
	}

	node := NodeAgent
	resuming := false
	switch {
	case len(input) > 0:
		// New input supersedes any pending confirmation: the reasoning node
		// runs again on the extended sequence and will re-request any tool
		// calls it still wants.
		messages = append(messages, input...)
		step++
		ckpt := checkpoint.New(threadID, step, NodeAgent, messages)
		ckpt.Source = checkpoint.SourceInput
		if err := e.saver.Put(ctx, ckpt); err != nil {
			return nil, &CheckpointWriteError{ThreadID: threadID, Step: step, Err: err}
		}
	case latest != nil && latest.PendingConfirmation:
		// Empty input on a suspended thread is the confirmation signal.
		node = latest.NextNode
		resuming = true
	default:
		return nil, ErrNoInput
	}

	steps := 0
	for node != End {
		steps++
		if steps > e.maxSteps {
			return messages, &RecursionLimitError{Limit: e.maxSteps}
		}

		if node == NodeAction && e.interruptBeforeAction && !resuming {
			step++
			ckpt := checkpoint.New(threadID, step, NodeAction, messages)
			ckpt.Source = checkpoint.SourceInterrupt
			ckpt.PendingConfirmation = true
			if err := e.saver.Put(ctx, ckpt); err != nil {
				return messages, &CheckpointWriteError{ThreadID: threadID, Step: step, Err: err}
			}
			emit(event.NewInterrupted(threadID, NodeAction))
			return messages, NewInterruptError(threadID, step)
		}
		// A confirmation is consumed by the first action entry; any later
		// entry in the same run interrupts again.
		resuming = false

		appended, next, err := e.step(ctx, threadID, node, step+1, messages)
		if err != nil {
			return messages, err
		}
		messages = append(messages, appended...)

		step++
		if err := e.saver.Put(ctx, checkpoint.New(threadID, step, next, messages)); err != nil {
			return messages, &CheckpointWriteError{ThreadID: threadID, Step: step, Err: err}
		}
		for _, msg := range appended {
			emit(event.NewMessage(threadID, node, msg))
		}
		node = next
	}

	emit(event.NewDone(threadID))
	return messages, nil
}

// step executes one node and returns the messages it appended plus the node
// to run next.
func (e *Executor) step(
	ctx context.Context,
	threadID, node string,
	step int,
	messages []model.Message,
) (appended []model.Message, next string, err error) {
	ctx, span := trace.Tracer.Start(ctx, "graph.node."+node,
		otrace.WithAttributes(
			attribute.String("agentgraph.thread_id", threadID),
			attribute.Int("agentgraph.step", step),
		))
	defer span.End()

	switch node {
	case NodeAgent:
		msg, err := e.agentFn(ctx, messages)
		if err != nil {
			return nil, "", err
		}
		appended = []model.Message{msg}
		next = NextNode(NodeAgent, ShouldContinue(appended))
	case NodeAction:
		results, err := e.actionFn(ctx, messages)
		if err != nil {
			return nil, "", err
		}
		appended = results
		next = NextNode(NodeAction, "")
	default:
		return nil, "", fmt.Errorf("unknown node %q", node)
	}
	log.Debugf("thread %s step %d: node %s appended %d message(s), next %s",
		threadID, step, node, len(appended), next)
	return appended, next, nil
}

// errorType maps a run failure to the event error type reported to callers.
func errorType(err error) string {
	var (
		recursionErr  *RecursionLimitError
		checkpointErr *CheckpointWriteError
		modelErr      *model.InvocationError
	)
	switch {
	case errors.As(err, &recursionErr):
		return "recursion_limit"
	case errors.As(err, &checkpointErr):
		return "checkpoint_write"
	case errors.As(err, &modelErr):
		return "model_invocation"
	case errors.Is(err, ErrNoInput):
		return "no_input"
	default:
		return "internal"
	}
}
