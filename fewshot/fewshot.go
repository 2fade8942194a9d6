//
// Copyright (C) 2026 agentgraph authors.  All rights reserved.
//
// agentgraph is licensed under the Apache License Version 2.0.
//
//

// Package fewshot samples past interaction examples from an assistant's
// dataset and folds them into a run's system message.
package fewshot

import (
	"context"
	"fmt"
	"math/rand"
	"strings"

	"github.com/agentgraph-ai/agentgraph/model"
)

// MaxExamples is the most examples a sampler will return regardless of how
// many the source holds.
const MaxExamples = 10

// preamble introduces the examples inside the augmented system message.
const preamble = "Here are some previous interactions with a user trying " +
	"to accomplish a similar task. You should assume that the final output " +
	"is the desired one, and any intermediate steps were wrong in some way, " +
	"and the human then tried to improve upon them in specific ways. Learn " +
	"from these previous interactions and do not repeat past mistakes!"

// Format selects how sampled examples are rendered into the system message.
type Format string

const (
	// FormatChat renders the original input, intermediate human feedback and
	// the final output of each example.
	FormatChat Format = "chat"
	// FormatTrajectory renders the full message trajectory of each example,
	// tool calls included.
	FormatTrajectory Format = "trajectory"
)

// Example is one past interaction worth imitating.
type Example struct {
	// Input is the user side of the interaction.
	Input string `json:"input"`
	// Output is the reply worth imitating.
	Output string `json:"output"`
	// Feedback holds intermediate human corrections, oldest first.
	Feedback []string `json:"feedback,omitempty"`
	// Trajectory is the full message sequence of the interaction. When empty
	// the trajectory format falls back to the input/output pair.
	Trajectory []model.Message `json:"trajectory,omitempty"`
}

// Source supplies candidate examples per assistant dataset.
type Source interface {
	// Examples returns all candidate examples for the assistant.
	Examples(ctx context.Context, assistantID string) ([]Example, error)
}

// StaticSource is a fixed in-memory example source serving every assistant.
type StaticSource []Example

// Examples implements Source.
func (s StaticSource) Examples(ctx context.Context, assistantID string) ([]Example, error) {
	out := make([]Example, len(s))
	copy(out, s)
	return out, nil
}

// DatasetSource holds one example dataset per assistant id. Assistants
// without a dataset get no examples.
type DatasetSource map[string][]Example

// Examples implements Source.
func (s DatasetSource) Examples(ctx context.Context, assistantID string) ([]Example, error) {
	dataset := s[assistantID]
	out := make([]Example, len(dataset))
	copy(out, dataset)
	return out, nil
}

// Sampler draws a bounded random subset of an assistant's examples. The draw
// is seedable so tests are deterministic.
type Sampler struct {
	source Source
	max    int
	rng    *rand.Rand
}

// Option configures a Sampler.
type Option func(*Sampler)

// WithMax bounds the sample size. Values above MaxExamples are clamped.
func WithMax(n int) Option {
	return func(s *Sampler) { s.max = n }
}

// WithSeed fixes the sampler's random source.
func WithSeed(seed int64) Option {
	return func(s *Sampler) { s.rng = rand.New(rand.NewSource(seed)) }
}

// NewSampler creates a sampler over the source.
func NewSampler(source Source, opts ...Option) *Sampler {
	s := &Sampler{source: source, max: MaxExamples}
	for _, opt := range opts {
		opt(s)
	}
	if s.max <= 0 || s.max > MaxExamples {
		s.max = MaxExamples
	}
	return s
}

// Sample draws up to the configured number of the assistant's examples, in
// random order.
func (s *Sampler) Sample(ctx context.Context, assistantID string) ([]Example, error) {
	examples, err := s.source.Examples(ctx, assistantID)
	if err != nil {
		return nil, fmt.Errorf("fetch examples: %w", err)
	}
	shuffle := func(n int, swap func(i, j int)) {
		if s.rng != nil {
			s.rng.Shuffle(n, swap)
			return
		}
		rand.Shuffle(n, swap)
	}
	shuffle(len(examples), func(i, j int) {
		examples[i], examples[j] = examples[j], examples[i]
	})
	if len(examples) > s.max {
		examples = examples[:s.max]
	}
	return examples, nil
}

// Augment appends the formatted examples to the system message. An empty
// sample leaves the message untouched.
func Augment(systemMessage string, examples []Example, format Format) string {
	if len(examples) == 0 {
		return systemMessage
	}
	var b strings.Builder
	b.WriteString(systemMessage)
	b.WriteString("\n\n")
	b.WriteString(preamble)
	b.WriteString("\n")
	for _, example := range examples {
		if format == FormatTrajectory {
			writeTrajectoryExample(&b, example)
		} else {
			writeChatExample(&b, example)
		}
	}
	return b.String()
}

func writeChatExample(b *strings.Builder, example Example) {
	b.WriteString("\n<original_input>\n")
	b.WriteString(example.Input)
	b.WriteString("\n</original_input>")
	for _, correction := range example.Feedback {
		b.WriteString("\n<human_feedback>\n")
		b.WriteString(correction)
		b.WriteString("\n</human_feedback>")
	}
	b.WriteString("\n<output>\n")
	b.WriteString(example.Output)
	b.WriteString("\n</output>")
}

func writeTrajectoryExample(b *strings.Builder, example Example) {
	messages := example.Trajectory
	if len(messages) == 0 {
		messages = []model.Message{
			model.NewHumanMessage(example.Input),
			model.NewAssistantMessage(example.Output),
		}
	}
	b.WriteString("\n<trajectory>")
	for _, msg := range messages {
		if msg.Content != "" {
			fmt.Fprintf(b, "\n%s: %s", msg.Role, msg.Content)
		}
		for _, call := range msg.ToolCalls {
			fmt.Fprintf(b, "\n%s: %s(%s)", msg.Role, call.Function.Name, call.Function.Arguments)
		}
	}
	b.WriteString("\n</trajectory>")
}
