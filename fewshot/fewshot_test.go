//
// Copyright (C) 2026 agentgraph authors.  All rights reserved.
//
// agentgraph is licensed under the Apache License Version 2.0.
//
//

package fewshot

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentgraph-ai/agentgraph/model"
)

func examples(n int) StaticSource {
	out := make(StaticSource, n)
	for i := range out {
		out[i] = Example{Input: "in", Output: "out"}
	}
	return out
}

func TestSamplerBoundsSampleSize(t *testing.T) {
	sampler := NewSampler(examples(25), WithSeed(1))
	sample, err := sampler.Sample(context.Background(), "a1")
	require.NoError(t, err)
	assert.Len(t, sample, MaxExamples)

	sampler = NewSampler(examples(25), WithSeed(1), WithMax(3))
	sample, err = sampler.Sample(context.Background(), "a1")
	require.NoError(t, err)
	assert.Len(t, sample, 3)

	// Fewer candidates than the bound.
	sampler = NewSampler(examples(2), WithSeed(1))
	sample, err = sampler.Sample(context.Background(), "a1")
	require.NoError(t, err)
	assert.Len(t, sample, 2)
}

func TestSamplerIsDeterministicWithSeed(t *testing.T) {
	source := StaticSource{
		{Input: "a", Output: "1"},
		{Input: "b", Output: "2"},
		{Input: "c", Output: "3"},
		{Input: "d", Output: "4"},
	}
	first, err := NewSampler(source, WithSeed(42), WithMax(2)).Sample(context.Background(), "a1")
	require.NoError(t, err)
	second, err := NewSampler(source, WithSeed(42), WithMax(2)).Sample(context.Background(), "a1")
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestSamplerClampsExcessiveMax(t *testing.T) {
	sampler := NewSampler(examples(30), WithSeed(1), WithMax(100))
	sample, err := sampler.Sample(context.Background(), "a1")
	require.NoError(t, err)
	assert.Len(t, sample, MaxExamples)
}

func TestDatasetSourceScopesByAssistant(t *testing.T) {
	source := DatasetSource{
		"a1": {{Input: "ping", Output: "pong"}},
	}
	sampler := NewSampler(source, WithSeed(1))

	sample, err := sampler.Sample(context.Background(), "a1")
	require.NoError(t, err)
	assert.Len(t, sample, 1)

	// An assistant without a dataset gets no examples.
	sample, err = sampler.Sample(context.Background(), "a2")
	require.NoError(t, err)
	assert.Empty(t, sample)
}

func TestAugmentChatFormat(t *testing.T) {
	base := "You are a helpful assistant."

	assert.Equal(t, base, Augment(base, nil, FormatChat))

	augmented := Augment(base, []Example{{
		Input:    "hi",
		Output:   "hello",
		Feedback: []string{"shorter please"},
	}}, FormatChat)
	assert.Contains(t, augmented, base)
	assert.Contains(t, augmented, "<original_input>\nhi\n</original_input>")
	assert.Contains(t, augmented, "<human_feedback>\nshorter please\n</human_feedback>")
	assert.Contains(t, augmented, "<output>\nhello\n</output>")
}

func TestAugmentTrajectoryFormat(t *testing.T) {
	trajectory := []model.Message{
		model.NewHumanMessage("what is 2+2"),
		{
			Role: model.RoleAssistant,
			ToolCalls: []model.ToolCall{{
				ID:   "call-1",
				Type: model.ToolCallType,
				Function: model.FunctionCall{
					Name:      "calculator",
					Arguments: []byte(`{"expr":"2+2"}`),
				},
			}},
		},
		model.NewToolMessage("call-1", "calculator", "4"),
		model.NewAssistantMessage("2+2 is 4"),
	}
	augmented := Augment("base", []Example{{Trajectory: trajectory}}, FormatTrajectory)
	assert.Contains(t, augmented, "<trajectory>")
	assert.Contains(t, augmented, `calculator({"expr":"2+2"})`)
	assert.Contains(t, augmented, "tool: 4")
	assert.Contains(t, augmented, "assistant: 2+2 is 4")
	assert.Contains(t, augmented, "</trajectory>")

	// Without a recorded trajectory the input/output pair stands in.
	augmented = Augment("base", []Example{{Input: "hi", Output: "hello"}}, FormatTrajectory)
	assert.Contains(t, augmented, "human: hi")
	assert.Contains(t, augmented, "assistant: hello")
}
