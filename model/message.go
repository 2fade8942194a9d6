//
// Copyright (C) 2026 agentgraph authors.  All rights reserved.
//
// agentgraph is licensed under the Apache License Version 2.0.
//
//

package model

// Role represents the role of a message author.
type Role string

// Role constants for message authors.
const (
	RoleSystem    Role = "system"
	RoleHuman     Role = "human"
	RoleAssistant Role = "assistant"
	RoleTool      Role = "tool"
)

// String returns the string representation of the role.
func (r Role) String() string {
	return string(r)
}

// IsValid checks if the role is one of the defined constants.
func (r Role) IsValid() bool {
	switch r {
	case RoleSystem, RoleHuman, RoleAssistant, RoleTool:
		return true
	default:
		return false
	}
}

// Message represents a single message in a conversation.
// Messages are immutable once created: callers append new messages to a
// sequence and never modify ones already in it.
type Message struct {
	// Role is the author of the message.
	Role Role `json:"role"`
	// Content is the message payload.
	Content string `json:"content"`
	// ToolCalls carries the tool invocations requested by an assistant message.
	ToolCalls []ToolCall `json:"tool_calls,omitempty"`
	// ToolCallID references the tool call a tool-role message responds to.
	ToolCallID string `json:"tool_call_id,omitempty"`
	// ToolName is the name of the tool that produced a tool-role message.
	ToolName string `json:"tool_name,omitempty"`
}

// ToolCall represents a call to a tool requested by the model.
type ToolCall struct {
	// Type of the tool. Currently only `function` is supported.
	Type string `json:"type"`
	// Function holds the tool name and its JSON-encoded arguments.
	Function FunctionCall `json:"function"`
	// ID is the call identifier returned by the model. Tool results are
	// correlated back to their call through this id.
	ID string `json:"id,omitempty"`
}

// FunctionCall holds the callee and arguments of a single tool call.
type FunctionCall struct {
	// Name of the tool to call.
	Name string `json:"name"`
	// Arguments for the call, JSON-encoded.
	Arguments []byte `json:"arguments,omitempty"`
}

// ToolCallType is the only tool call type emitted by the supported backends.
const ToolCallType = "function"

// NewSystemMessage creates a new system message.
func NewSystemMessage(content string) Message {
	return Message{Role: RoleSystem, Content: content}
}

// NewHumanMessage creates a new human message.
func NewHumanMessage(content string) Message {
	return Message{Role: RoleHuman, Content: content}
}

// NewAssistantMessage creates a new assistant message.
func NewAssistantMessage(content string) Message {
	return Message{Role: RoleAssistant, Content: content}
}

// NewToolMessage creates a new tool result message correlated to a tool call.
func NewToolMessage(callID, toolName, content string) Message {
	return Message{
		Role:       RoleTool,
		Content:    content,
		ToolCallID: callID,
		ToolName:   toolName,
	}
}

// CloneMessages returns a copy of the message slice. Individual messages are
// values and treated as immutable, so a shallow copy of the slice suffices.
func CloneMessages(messages []Message) []Message {
	if messages == nil {
		return nil
	}
	cloned := make([]Message, len(messages))
	copy(cloned, messages)
	return cloned
}
