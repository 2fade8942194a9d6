//
// Copyright (C) 2026 agentgraph authors.  All rights reserved.
//
// agentgraph is licensed under the Apache License Version 2.0.
//
//

// Package storage keeps the thread and assistant records the HTTP surface
// serves. Message history itself lives in the checkpoint saver; this store
// holds the metadata around it.
package storage

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

// ErrNotFound is returned when a thread or assistant does not exist.
var ErrNotFound = errors.New("not found")

// Thread is one conversation.
type Thread struct {
	ID          string    `json:"thread_id"`
	AssistantID string    `json:"assistant_id,omitempty"`
	UserID      string    `json:"user_id,omitempty"`
	Name        string    `json:"name,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Assistant is a named, shareable configuration payload.
type Assistant struct {
	ID        string         `json:"assistant_id"`
	UserID    string         `json:"user_id,omitempty"`
	Name      string         `json:"name,omitempty"`
	Config    map[string]any `json:"config,omitempty"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
}

// Store is the metadata storage contract.
type Store interface {
	// PutThread creates or updates a thread. A missing id is generated.
	PutThread(ctx context.Context, thread *Thread) (*Thread, error)
	// GetThread returns the thread or ErrNotFound.
	GetThread(ctx context.Context, threadID string) (*Thread, error)
	// ListThreads returns the user's threads, most recently updated first.
	ListThreads(ctx context.Context, userID string) ([]*Thread, error)
	// PutAssistant creates or updates an assistant. A missing id is generated.
	PutAssistant(ctx context.Context, assistant *Assistant) (*Assistant, error)
	// GetAssistant returns the assistant or ErrNotFound.
	GetAssistant(ctx context.Context, assistantID string) (*Assistant, error)
}

// InMemoryStore is a Store for tests and local development.
type InMemoryStore struct {
	mu         sync.RWMutex
	threads    map[string]*Thread
	assistants map[string]*Assistant
}

// NewInMemoryStore creates an empty store.
func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{
		threads:    make(map[string]*Thread),
		assistants: make(map[string]*Assistant),
	}
}

// PutThread implements Store.
func (s *InMemoryStore) PutThread(ctx context.Context, thread *Thread) (*Thread, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := time.Now().UTC()
	stored := *thread
	if stored.ID == "" {
		stored.ID = uuid.NewString()
		stored.CreatedAt = now
	} else if existing, ok := s.threads[stored.ID]; ok {
		stored.CreatedAt = existing.CreatedAt
	} else {
		stored.CreatedAt = now
	}
	stored.UpdatedAt = now
	s.threads[stored.ID] = &stored
	out := stored
	return &out, nil
}

// GetThread implements Store.
func (s *InMemoryStore) GetThread(ctx context.Context, threadID string) (*Thread, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	thread, ok := s.threads[threadID]
	if !ok {
		return nil, ErrNotFound
	}
	out := *thread
	return &out, nil
}

// ListThreads implements Store.
func (s *InMemoryStore) ListThreads(ctx context.Context, userID string) ([]*Thread, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []*Thread
	for _, thread := range s.threads {
		if userID != "" && thread.UserID != userID {
			continue
		}
		t := *thread
		out = append(out, &t)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].UpdatedAt.After(out[j].UpdatedAt)
	})
	return out, nil
}

// PutAssistant implements Store.
func (s *InMemoryStore) PutAssistant(ctx context.Context, assistant *Assistant) (*Assistant, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := time.Now().UTC()
	stored := *assistant
	if stored.ID == "" {
		stored.ID = uuid.NewString()
		stored.CreatedAt = now
	} else if existing, ok := s.assistants[stored.ID]; ok {
		stored.CreatedAt = existing.CreatedAt
	} else {
		stored.CreatedAt = now
	}
	stored.UpdatedAt = now
	s.assistants[stored.ID] = &stored
	out := stored
	return &out, nil
}

// GetAssistant implements Store.
func (s *InMemoryStore) GetAssistant(ctx context.Context, assistantID string) (*Assistant, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	assistant, ok := s.assistants[assistantID]
	if !ok {
		return nil, ErrNotFound
	}
	out := *assistant
	return &out, nil
}
