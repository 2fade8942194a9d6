//
// Copyright (C) 2026 agentgraph authors.  All rights reserved.
//
// agentgraph is licensed under the Apache License Version 2.0.
//
//

// Package inmemory provides an in-memory checkpoint saver. It is suitable
// for tests and local development, not for durable deployments.
package inmemory

import (
	"context"
	"sync"

	"github.com/agentgraph-ai/agentgraph/graph/checkpoint"
	"github.com/agentgraph-ai/agentgraph/model"
)

// Saver is an in-memory implementation of checkpoint.Saver. A single mutex
// serializes writers; step ordering per thread is validated on every Put.
type Saver struct {
	mu      sync.RWMutex
	threads map[string][]*checkpoint.Checkpoint
}

// NewSaver creates an empty in-memory checkpoint saver.
func NewSaver() *Saver {
	return &Saver{threads: make(map[string][]*checkpoint.Checkpoint)}
}

// Put implements checkpoint.Saver. The checkpoint's step must be exactly one
// past the thread's latest step.
func (s *Saver) Put(ctx context.Context, ckpt *checkpoint.Checkpoint) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	history := s.threads[ckpt.ThreadID]
	last := 0
	if n := len(history); n > 0 {
		last = history[n-1].Step
	}
	if ckpt.Step != last+1 {
		return checkpoint.ErrStepConflict
	}
	stored := *ckpt
	stored.Messages = model.CloneMessages(ckpt.Messages)
	s.threads[ckpt.ThreadID] = append(history, &stored)
	return nil
}

// Latest implements checkpoint.Saver.
func (s *Saver) Latest(ctx context.Context, threadID string) (*checkpoint.Checkpoint, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	history := s.threads[threadID]
	if len(history) == 0 {
		return nil, nil
	}
	return copyCheckpoint(history[len(history)-1]), nil
}

// List implements checkpoint.Saver.
func (s *Saver) List(ctx context.Context, threadID string) ([]*checkpoint.Checkpoint, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	history := s.threads[threadID]
	out := make([]*checkpoint.Checkpoint, len(history))
	for i, ckpt := range history {
		out[i] = copyCheckpoint(ckpt)
	}
	return out, nil
}

// Close implements checkpoint.Saver.
func (s *Saver) Close() error { return nil }

func copyCheckpoint(ckpt *checkpoint.Checkpoint) *checkpoint.Checkpoint {
	out := *ckpt
	out.Messages = model.CloneMessages(ckpt.Messages)
	return &out
}
