//
// Copyright (C) 2026 agentgraph authors.  All rights reserved.
//
// agentgraph is licensed under the Apache License Version 2.0.
//
//

package config

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentgraph-ai/agentgraph/model"
	"github.com/agentgraph-ai/agentgraph/tool"
	"github.com/agentgraph-ai/agentgraph/tool/function"
)

const testModelTag = "test-model"

func init() {
	model.Register(testModelTag, func(opts model.Options) (model.Model, error) {
		return nil, nil
	})
	tool.Register("test-tool", func(cfg map[string]any) (tool.CallableTool, error) {
		return function.New(func(ctx context.Context, in struct{}) (string, error) {
			return "", nil
		}, function.WithName("test-tool")), nil
	})
}

func TestDecodeRejectsUnknownFields(t *testing.T) {
	_, err := Decode([]byte(`{"thread_id":"t1","sytem_message":"oops"}`))
	var cfgErr *Error
	require.ErrorAs(t, err, &cfgErr)
	assert.Equal(t, "sytem_message", cfgErr.Field)
}

func TestDecodeValidPayload(t *testing.T) {
	p, err := Decode([]byte(`{
		"type": "agent",
		"agent_type": "test-model",
		"thread_id": "t1",
		"tools": [{"type": "test-tool", "config": {"k": "v"}}],
		"recursion_limit": 7
	}`))
	require.NoError(t, err)
	assert.Equal(t, "agent", p.Type)
	assert.Equal(t, testModelTag, p.AgentType)
	require.Len(t, p.Tools, 1)
	assert.Equal(t, "v", p.Tools[0].Config["k"])
	require.NotNil(t, p.RecursionLimit)
	assert.Equal(t, 7, *p.RecursionLimit)
}

func TestResolveDefaults(t *testing.T) {
	cfg, err := Resolve(&Payload{AgentType: testModelTag, ThreadID: "t1"})
	require.NoError(t, err)
	assert.Equal(t, BotTypeAgent, cfg.BotType)
	assert.Equal(t, testModelTag, cfg.AgentType)
	assert.Equal(t, DefaultSystemMessage, cfg.SystemMessage)
	assert.Equal(t, DefaultRecursionLimit, cfg.RecursionLimit)
	assert.False(t, cfg.InterruptBeforeAction)
	assert.Empty(t, cfg.Tools)
}

func TestResolveOverrides(t *testing.T) {
	system := "You are terse."
	interrupt := true
	limit := 5
	cfg, err := Resolve(&Payload{
		AgentType:             testModelTag,
		ThreadID:              "t1",
		SystemMessage:         &system,
		InterruptBeforeAction: &interrupt,
		RecursionLimit:        &limit,
	})
	require.NoError(t, err)
	assert.Equal(t, "You are terse.", cfg.SystemMessage)
	assert.True(t, cfg.InterruptBeforeAction)
	assert.Equal(t, 5, cfg.RecursionLimit)
}

func TestResolveRequiresThreadID(t *testing.T) {
	_, err := Resolve(&Payload{AgentType: testModelTag})
	var cfgErr *Error
	require.ErrorAs(t, err, &cfgErr)
	assert.Equal(t, "thread_id", cfgErr.Field)
}

func TestResolveUnknownModelTag(t *testing.T) {
	_, err := Resolve(&Payload{AgentType: "no-such-model", ThreadID: "t1"})
	var cfgErr *Error
	require.ErrorAs(t, err, &cfgErr)
	assert.Equal(t, "agent_type", cfgErr.Field)
}

func TestResolveUnknownToolTag(t *testing.T) {
	_, err := Resolve(&Payload{
		AgentType: testModelTag,
		ThreadID:  "t1",
		Tools:     []ToolSelection{{Type: "no-such-tool"}},
	})
	var cfgErr *Error
	require.ErrorAs(t, err, &cfgErr)
	assert.Equal(t, "tools", cfgErr.Field)
}

func TestResolveRetrievalRequiresAssistantAndThread(t *testing.T) {
	// Missing assistant id.
	_, err := Resolve(&Payload{
		AgentType: testModelTag,
		ThreadID:  "t1",
		Tools:     []ToolSelection{{Type: tool.TypeRetrieval}},
	})
	var cfgErr *Error
	require.ErrorAs(t, err, &cfgErr)
	assert.Equal(t, "tools", cfgErr.Field)

	// Both present.
	cfg, err := Resolve(&Payload{
		AgentType:   testModelTag,
		ThreadID:    "t1",
		AssistantID: "a1",
		Tools:       []ToolSelection{{Type: tool.TypeRetrieval}},
	})
	require.NoError(t, err)
	require.Len(t, cfg.Tools, 1)
}

func TestResolveChatbotRejectsTools(t *testing.T) {
	_, err := Resolve(&Payload{
		Type:     BotTypeChatbot,
		LLMType:  testModelTag,
		ThreadID: "t1",
		Tools:    []ToolSelection{{Type: "test-tool"}},
	})
	var cfgErr *Error
	require.ErrorAs(t, err, &cfgErr)
	assert.Equal(t, "tools", cfgErr.Field)
}

func TestResolveChatbotLLMType(t *testing.T) {
	// The chatbot selects its model with llm_type; agent_type is carried
	// but not validated for it.
	cfg, err := Resolve(&Payload{
		Type:      BotTypeChatbot,
		LLMType:   testModelTag,
		AgentType: "no-such-model",
		ThreadID:  "t1",
	})
	require.NoError(t, err)
	assert.Equal(t, testModelTag, cfg.ModelTag())

	_, err = Resolve(&Payload{
		Type:     BotTypeChatbot,
		LLMType:  "no-such-model",
		ThreadID: "t1",
	})
	var cfgErr *Error
	require.ErrorAs(t, err, &cfgErr)
	assert.Equal(t, "llm_type", cfgErr.Field)
}

func TestDecodeAcceptsLLMType(t *testing.T) {
	p, err := Decode([]byte(`{"type":"chatbot","llm_type":"test-model","thread_id":"t1"}`))
	require.NoError(t, err)
	assert.Equal(t, testModelTag, p.LLMType)
}

func TestModelTagSelectsPerBotType(t *testing.T) {
	cfg, err := Resolve(&Payload{AgentType: testModelTag, ThreadID: "t1"})
	require.NoError(t, err)
	assert.Equal(t, testModelTag, cfg.ModelTag())
	assert.Equal(t, DefaultLLMType, cfg.LLMType)
}

func TestResolveRejectsNonPositiveRecursionLimit(t *testing.T) {
	zero := 0
	_, err := Resolve(&Payload{
		AgentType:      testModelTag,
		ThreadID:       "t1",
		RecursionLimit: &zero,
	})
	var cfgErr *Error
	require.ErrorAs(t, err, &cfgErr)
	assert.Equal(t, "recursion_limit", cfgErr.Field)
}

func TestSchemaIsStableJSON(t *testing.T) {
	first := Schema()
	second := Schema()
	assert.Equal(t, first, second)

	var doc map[string]any
	require.NoError(t, json.Unmarshal(first, &doc))
	props, ok := doc["properties"].(map[string]any)
	require.True(t, ok)
	for _, field := range []string{
		"type", "agent_type", "llm_type", "system_message", "tools",
		"interrupt_before_action", "thread_id", "recursion_limit",
	} {
		assert.Contains(t, props, field)
	}
	assert.Contains(t, doc["required"], "thread_id")
}
