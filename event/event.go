//
// Copyright (C) 2026 agentgraph authors.  All rights reserved.
//
// agentgraph is licensed under the Apache License Version 2.0.
//
//

// Package event defines the events a run emits as it advances.
package event

import (
	"time"

	"github.com/google/uuid"

	"github.com/agentgraph-ai/agentgraph/model"
)

// Event types.
const (
	TypeMessage     = "message"
	TypeDone        = "done"
	TypeInterrupted = "interrupted"
	TypeError       = "error"
)

// Event is a single occurrence in a run: one produced message, the final
// completion, an interrupt suspension, or a failure.
type Event struct {
	// ID is the unique identifier of the event.
	ID string `json:"id"`
	// ThreadID is the thread the run belongs to.
	ThreadID string `json:"thread_id"`
	// Type is one of the Type constants.
	Type string `json:"type"`
	// Author names the node that produced the event.
	Author string `json:"author,omitempty"`
	// Message is set on message events.
	Message *model.Message `json:"message,omitempty"`
	// Error is set on error events.
	Error *ErrorDetail `json:"error,omitempty"`
	// Timestamp is when the event was created.
	Timestamp time.Time `json:"timestamp"`
}

// ErrorDetail describes a run failure.
type ErrorDetail struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

// New creates an event of the given type.
func New(threadID, eventType, author string) *Event {
	return &Event{
		ID:        uuid.NewString(),
		ThreadID:  threadID,
		Type:      eventType,
		Author:    author,
		Timestamp: time.Now().UTC(),
	}
}

// NewMessage creates a message event.
func NewMessage(threadID, author string, msg model.Message) *Event {
	e := New(threadID, TypeMessage, author)
	e.Message = &msg
	return e
}

// NewDone creates a completion event.
func NewDone(threadID string) *Event {
	return New(threadID, TypeDone, "")
}

// NewInterrupted creates a suspension event.
func NewInterrupted(threadID, author string) *Event {
	return New(threadID, TypeInterrupted, author)
}

// NewError creates an error event.
func NewError(threadID, errType, message string) *Event {
	e := New(threadID, TypeError, "")
	e.Error = &ErrorDetail{Type: errType, Message: message}
	return e
}
