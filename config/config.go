//
// Copyright (C) 2026 agentgraph authors.  All rights reserved.
//
// agentgraph is licensed under the Apache License Version 2.0.
//
//

// Package config turns a caller-supplied configuration payload into the
// validated, defaulted run configuration the runner executes.
package config

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/agentgraph-ai/agentgraph/model"
	"github.com/agentgraph-ai/agentgraph/tool"
)

// Bot types.
const (
	// BotTypeAgent is the tool-using agent driven by the execution graph.
	BotTypeAgent = "agent"
	// BotTypeChatbot is a plain conversational bot without tools.
	BotTypeChatbot = "chatbot"
)

// Defaults applied during resolution.
const (
	// DefaultBotType is used when the payload omits the bot type.
	DefaultBotType = BotTypeAgent
	// DefaultAgentType is used when the payload omits the agent model tag.
	DefaultAgentType = "gpt-3.5-turbo"
	// DefaultLLMType is used when a chatbot payload omits the model tag.
	DefaultLLMType = "gpt-3.5-turbo"
	// DefaultSystemMessage is used when the payload omits the system message.
	DefaultSystemMessage = "You are a helpful assistant."
	// DefaultRecursionLimit bounds a run's node steps when the payload does
	// not override it.
	DefaultRecursionLimit = 50
)

// Error reports a configuration payload that cannot be resolved. Resolution
// fails on the first offending field.
type Error struct {
	// Field is the payload field at fault.
	Field string
	// Reason explains the rejection.
	Reason string
}

// Error implements the error interface.
func (e *Error) Error() string {
	return fmt.Sprintf("invalid configuration field %q: %s", e.Field, e.Reason)
}

// ToolSelection selects one tool for a run, with its per-tool settings.
type ToolSelection struct {
	// Type is the registered tool tag.
	Type string `json:"type"`
	// Config carries tool-specific settings, passed to the tool factory.
	Config map[string]any `json:"config,omitempty"`
}

// Payload is the caller-supplied configuration document. Optional fields are
// pointers so that absence and explicit zero values stay distinguishable.
type Payload struct {
	// Type is the bot type, "agent" (default) or "chatbot".
	Type string `json:"type,omitempty"`
	// AgentType is the model tag the agent reasons with.
	AgentType string `json:"agent_type,omitempty"`
	// LLMType is the model tag the chatbot replies with.
	LLMType string `json:"llm_type,omitempty"`
	// SystemMessage overrides the default system message.
	SystemMessage *string `json:"system_message,omitempty"`
	// Tools are the tools offered to the model.
	Tools []ToolSelection `json:"tools,omitempty"`
	// InterruptBeforeAction suspends execution for confirmation before every
	// tool execution step.
	InterruptBeforeAction *bool `json:"interrupt_before_action,omitempty"`
	// AssistantID identifies the assistant the run belongs to.
	AssistantID string `json:"assistant_id,omitempty"`
	// ThreadID identifies the conversation thread. Required.
	ThreadID string `json:"thread_id,omitempty"`
	// UserID identifies the calling user.
	UserID string `json:"user_id,omitempty"`
	// RetrievalDescription overrides the retrieval tool's description.
	RetrievalDescription *string `json:"retrieval_description,omitempty"`
	// RecursionLimit overrides the default step bound.
	RecursionLimit *int `json:"recursion_limit,omitempty"`
}

// RunConfig is a fully resolved configuration: every optional field has its
// default applied and every reference has been validated.
type RunConfig struct {
	BotType               string
	AgentType             string
	LLMType               string
	SystemMessage         string
	Tools                 []ToolSelection
	InterruptBeforeAction bool
	AssistantID           string
	ThreadID              string
	UserID                string
	RetrievalDescription  string
	RecursionLimit        int
}

// Decode parses a payload document. Unknown fields are rejected rather than
// silently dropped, so misspelled settings fail loudly.
func Decode(data []byte) (*Payload, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	var p Payload
	if err := dec.Decode(&p); err != nil {
		if strings.Contains(err.Error(), "unknown field") {
			return nil, &Error{Field: unknownFieldName(err), Reason: "unknown field"}
		}
		return nil, &Error{Field: "", Reason: err.Error()}
	}
	return &p, nil
}

// unknownFieldName extracts the field name from an unknown-field decode
// error, e.g. `json: unknown field "foo"`.
func unknownFieldName(err error) string {
	msg := err.Error()
	if i := strings.Index(msg, `"`); i >= 0 {
		if j := strings.LastIndex(msg, `"`); j > i {
			return msg[i+1 : j]
		}
	}
	return msg
}

// Resolve validates the payload and applies defaults. Resolution is pure:
// it builds no models and no tools, it only checks that every referenced
// tag exists and that cross-field requirements hold.
func Resolve(p *Payload) (*RunConfig, error) {
	if p == nil {
		return nil, &Error{Field: "", Reason: "payload is required"}
	}
	cfg := &RunConfig{
		BotType:        DefaultBotType,
		AgentType:      DefaultAgentType,
		LLMType:        DefaultLLMType,
		SystemMessage:  DefaultSystemMessage,
		RecursionLimit: DefaultRecursionLimit,
		AssistantID:    p.AssistantID,
		ThreadID:       p.ThreadID,
		UserID:         p.UserID,
	}
	if p.Type != "" {
		if p.Type != BotTypeAgent && p.Type != BotTypeChatbot {
			return nil, &Error{Field: "type", Reason: fmt.Sprintf("unknown bot type %q", p.Type)}
		}
		cfg.BotType = p.Type
	}
	if p.AgentType != "" {
		cfg.AgentType = p.AgentType
	}
	if p.LLMType != "" {
		cfg.LLMType = p.LLMType
	}
	// Only the tag the bot type actually selects with is validated; the
	// other one is carried but unused.
	switch cfg.BotType {
	case BotTypeAgent:
		if !model.Registered(cfg.AgentType) {
			return nil, &Error{Field: "agent_type", Reason: fmt.Sprintf("unknown model tag %q", cfg.AgentType)}
		}
	case BotTypeChatbot:
		if !model.Registered(cfg.LLMType) {
			return nil, &Error{Field: "llm_type", Reason: fmt.Sprintf("unknown model tag %q", cfg.LLMType)}
		}
	}
	if p.SystemMessage != nil {
		cfg.SystemMessage = *p.SystemMessage
	}
	if p.InterruptBeforeAction != nil {
		cfg.InterruptBeforeAction = *p.InterruptBeforeAction
	}
	if p.RetrievalDescription != nil {
		cfg.RetrievalDescription = *p.RetrievalDescription
	}
	if p.RecursionLimit != nil {
		if *p.RecursionLimit <= 0 {
			return nil, &Error{Field: "recursion_limit", Reason: "must be positive"}
		}
		cfg.RecursionLimit = *p.RecursionLimit
	}
	if p.ThreadID == "" {
		return nil, &Error{Field: "thread_id", Reason: "is required"}
	}

	if len(p.Tools) > 0 && cfg.BotType == BotTypeChatbot {
		return nil, &Error{Field: "tools", Reason: "chatbot does not accept tools"}
	}
	for _, selection := range p.Tools {
		if !tool.Registered(selection.Type) {
			return nil, &Error{Field: "tools", Reason: fmt.Sprintf("unknown tool tag %q", selection.Type)}
		}
		if selection.Type == tool.TypeRetrieval && (p.AssistantID == "" || p.ThreadID == "") {
			return nil, &Error{
				Field:  "tools",
				Reason: "retrieval tool requires assistant_id and thread_id",
			}
		}
	}
	cfg.Tools = p.Tools
	return cfg, nil
}

// ModelTag returns the model tag the bot type selects with: llm_type for
// chatbots, agent_type otherwise.
func (c *RunConfig) ModelTag() string {
	if c.BotType == BotTypeChatbot {
		return c.LLMType
	}
	return c.AgentType
}
