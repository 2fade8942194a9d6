//
// Copyright (C) 2026 agentgraph authors.  All rights reserved.
//
// agentgraph is licensed under the Apache License Version 2.0.
//
//

// Package runner assembles a resolved configuration into a runnable graph:
// it builds the tool roster, binds the model, and wires both into the
// executor over the shared checkpoint saver.
package runner

import (
	"context"
	"errors"
	"fmt"

	"github.com/agentgraph-ai/agentgraph/config"
	"github.com/agentgraph-ai/agentgraph/event"
	"github.com/agentgraph-ai/agentgraph/fewshot"
	"github.com/agentgraph-ai/agentgraph/graph"
	"github.com/agentgraph-ai/agentgraph/graph/checkpoint"
	"github.com/agentgraph-ai/agentgraph/log"
	"github.com/agentgraph-ai/agentgraph/model"
	"github.com/agentgraph-ai/agentgraph/tool"
	"github.com/agentgraph-ai/agentgraph/tool/retrieval"
	"github.com/agentgraph-ai/agentgraph/toolexec"
)

// Runner builds and drives runs. It holds the long-lived pieces shared by
// all runs: the checkpoint saver, the tool invoker and the optional
// retrieval store and few-shot sampler.
type Runner struct {
	saver          checkpoint.Saver
	invoker        *toolexec.Invoker
	retrievalStore retrieval.Store
	sampler        *fewshot.Sampler
}

// Option configures a Runner.
type Option func(*Runner)

// WithRetrievalStore enables the retrieval tool over the given store.
func WithRetrievalStore(store retrieval.Store) Option {
	return func(r *Runner) { r.retrievalStore = store }
}

// WithFewShotSampler augments every run's system message with sampled
// examples.
func WithFewShotSampler(sampler *fewshot.Sampler) Option {
	return func(r *Runner) { r.sampler = sampler }
}

// New creates a runner over the saver and invoker.
func New(saver checkpoint.Saver, invoker *toolexec.Invoker, opts ...Option) (*Runner, error) {
	if saver == nil {
		return nil, errors.New("checkpoint saver is required")
	}
	if invoker == nil {
		return nil, errors.New("tool invoker is required")
	}
	r := &Runner{saver: saver, invoker: invoker}
	for _, opt := range opts {
		opt(r)
	}
	return r, nil
}

// Run advances the thread synchronously under the given configuration.
func (r *Runner) Run(ctx context.Context, cfg *config.RunConfig, input []model.Message) ([]model.Message, error) {
	executor, err := r.build(ctx, cfg)
	if err != nil {
		return nil, err
	}
	return executor.Run(ctx, cfg.ThreadID, input)
}

// RunStream advances the thread asynchronously and streams its events.
func (r *Runner) RunStream(ctx context.Context, cfg *config.RunConfig, input []model.Message) (<-chan *event.Event, error) {
	executor, err := r.build(ctx, cfg)
	if err != nil {
		return nil, err
	}
	return executor.Execute(ctx, cfg.ThreadID, input)
}

// build assembles the executor for one run. Assembly is cheap: models and
// tools are constructed per run so that per-thread bindings (retrieval
// scope, system message) never leak across runs.
func (r *Runner) build(ctx context.Context, cfg *config.RunConfig) (*graph.Executor, error) {
	tools, err := r.buildTools(cfg)
	if err != nil {
		return nil, err
	}
	declarations := make([]*tool.Declaration, 0, len(tools))
	for _, t := range tools {
		declarations = append(declarations, t.Declaration())
	}

	// Examples live in per-assistant datasets, so augmentation needs an
	// assistant to sample for.
	systemMessage := cfg.SystemMessage
	if r.sampler != nil && cfg.AssistantID != "" {
		examples, err := r.sampler.Sample(ctx, cfg.AssistantID)
		if err != nil {
			// Few-shot augmentation is advisory, never fatal.
			log.Warnf("few-shot sampling failed, continuing without examples: %v", err)
		} else {
			format := fewshot.FormatChat
			if cfg.BotType == config.BotTypeAgent {
				format = fewshot.FormatTrajectory
			}
			systemMessage = fewshot.Augment(systemMessage, examples, format)
		}
	}

	modelTag := cfg.ModelTag()
	m, err := model.Resolve(modelTag, model.Options{
		SystemMessage: systemMessage,
		Tools:         declarations,
	})
	if err != nil {
		return nil, fmt.Errorf("resolve model %q: %w", modelTag, err)
	}

	agentFn := func(ctx context.Context, messages []model.Message) (model.Message, error) {
		return m.Invoke(ctx, messages)
	}
	actionFn := func(ctx context.Context, messages []model.Message) ([]model.Message, error) {
		if len(messages) == 0 {
			return nil, errors.New("action node reached with no messages")
		}
		last := messages[len(messages)-1]
		return r.invoker.Execute(ctx, tools, last.ToolCalls)
	}
	return graph.New(agentFn, actionFn, r.saver,
		graph.WithMaxSteps(cfg.RecursionLimit),
		graph.WithInterruptBeforeAction(cfg.InterruptBeforeAction),
	)
}

// buildTools constructs the run's tool roster from its selections.
func (r *Runner) buildTools(cfg *config.RunConfig) (map[string]tool.CallableTool, error) {
	tools := make(map[string]tool.CallableTool, len(cfg.Tools))
	for _, selection := range cfg.Tools {
		var (
			t   tool.CallableTool
			err error
		)
		if selection.Type == tool.TypeRetrieval {
			if r.retrievalStore == nil {
				return nil, fmt.Errorf("retrieval tool selected but no retrieval store is configured")
			}
			t, err = retrieval.New(r.retrievalStore, cfg.AssistantID, cfg.ThreadID, cfg.RetrievalDescription)
		} else {
			t, err = tool.Resolve(selection.Type, selection.Config)
		}
		if err != nil {
			return nil, fmt.Errorf("build tool %q: %w", selection.Type, err)
		}
		tools[t.Declaration().Name] = t
	}
	return tools, nil
}
