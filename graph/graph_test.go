//
// Copyright (C) 2026 agentgraph authors.  All rights reserved.
//
// agentgraph is licensed under the Apache License Version 2.0.
//
//

package graph

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/agentgraph-ai/agentgraph/model"
)

func TestShouldContinue(t *testing.T) {
	call := model.ToolCall{
		ID:   "call-1",
		Type: model.ToolCallType,
		Function: model.FunctionCall{
			Name:      "search",
			Arguments: []byte(`{"query":"weather"}`),
		},
	}

	tests := []struct {
		name     string
		messages []model.Message
		want     string
	}{
		{
			name: "empty sequence ends",
			want: RouteEnd,
		},
		{
			name:     "assistant without tool calls ends",
			messages: []model.Message{model.NewAssistantMessage("4")},
			want:     RouteEnd,
		},
		{
			name: "assistant with one tool call continues",
			messages: []model.Message{
				{Role: model.RoleAssistant, ToolCalls: []model.ToolCall{call}},
			},
			want: RouteContinue,
		},
		{
			name: "assistant with several tool calls continues",
			messages: []model.Message{
				{Role: model.RoleAssistant, ToolCalls: []model.ToolCall{call, call, call}},
			},
			want: RouteContinue,
		},
		{
			name:     "human last message ends",
			messages: []model.Message{model.NewHumanMessage("hello")},
			want:     RouteEnd,
		},
		{
			name: "only the last message counts",
			messages: []model.Message{
				{Role: model.RoleAssistant, ToolCalls: []model.ToolCall{call}},
				model.NewToolMessage("call-1", "search", "sunny"),
			},
			want: RouteEnd,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ShouldContinue(tt.messages))
		})
	}
}

func TestNextNode(t *testing.T) {
	assert.Equal(t, NodeAction, NextNode(NodeAgent, RouteContinue))
	assert.Equal(t, End, NextNode(NodeAgent, RouteEnd))
	assert.Equal(t, NodeAgent, NextNode(NodeAction, ""))
	assert.Equal(t, End, NextNode("bogus", RouteContinue))
}
