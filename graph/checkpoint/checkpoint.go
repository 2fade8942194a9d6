//
// Copyright (C) 2026 agentgraph authors.  All rights reserved.
//
// agentgraph is licensed under the Apache License Version 2.0.
//
//

// Package checkpoint defines the durable per-thread execution record written
// after every graph step, and the storage contract savers implement.
package checkpoint

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/agentgraph-ai/agentgraph/model"
)

// Checkpoint sources.
const (
	// SourceInput marks a checkpoint written when caller input was appended.
	SourceInput = "input"
	// SourceLoop marks a checkpoint written by a completed node step.
	SourceLoop = "loop"
	// SourceInterrupt marks a checkpoint written when execution suspended
	// before the action node, pending external confirmation.
	SourceInterrupt = "interrupt"
)

// Errors returned by savers.
var (
	// ErrStepConflict reports a write whose step index is not exactly one
	// past the thread's latest checkpoint. It indicates two executions
	// interleaving on the same thread.
	ErrStepConflict = errors.New("checkpoint step conflict")
)

// Checkpoint is a snapshot of a thread's state after one completed step.
// Each checkpoint holds the full ordered message sequence at that step, not
// a diff, so a thread can be resumed from its latest checkpoint and its
// whole history replayed. Checkpoints are never rewritten in place.
type Checkpoint struct {
	// ID is the unique identifier of this checkpoint.
	ID string `json:"id"`
	// ThreadID is the thread this checkpoint belongs to.
	ThreadID string `json:"thread_id"`
	// Step is the index of the completed step. Indices for a thread are
	// strictly increasing by exactly one per completed step, starting at 1.
	Step int `json:"step"`
	// NextNode is the node the executor will run next.
	NextNode string `json:"next_node"`
	// Messages is the full ordered state at this step.
	Messages []model.Message `json:"messages"`
	// PendingConfirmation is set when execution suspended before the action
	// node and is waiting for external confirmation.
	PendingConfirmation bool `json:"pending_confirmation,omitempty"`
	// Source records why the checkpoint was written.
	Source string `json:"source"`
	// CreatedAt is when the checkpoint was written.
	CreatedAt time.Time `json:"created_at"`
}

// New creates a checkpoint for the given thread and step.
func New(threadID string, step int, nextNode string, messages []model.Message) *Checkpoint {
	return &Checkpoint{
		ID:        uuid.NewString(),
		ThreadID:  threadID,
		Step:      step,
		NextNode:  nextNode,
		Messages:  model.CloneMessages(messages),
		Source:    SourceLoop,
		CreatedAt: time.Now().UTC(),
	}
}

// Saver is the storage contract for checkpoints. Implementations must
// guarantee at most one writer in flight per thread: concurrent attempts to
// advance the same thread's checkpoint are serialized, and an out-of-order
// step fails with ErrStepConflict. Different threads are fully independent.
type Saver interface {
	// Put persists a checkpoint atomically.
	Put(ctx context.Context, ckpt *Checkpoint) error
	// Latest returns the most recent checkpoint for the thread, or nil when
	// the thread has none.
	Latest(ctx context.Context, threadID string) (*Checkpoint, error)
	// List returns all checkpoints of the thread in step order.
	List(ctx context.Context, threadID string) ([]*Checkpoint, error)
	// Close releases resources held by the saver.
	Close() error
}
