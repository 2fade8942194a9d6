//
// Copyright (C) 2026 agentgraph authors.  All rights reserved.
//
// agentgraph is licensed under the Apache License Version 2.0.
//
//

// Package retrieval provides the per-assistant document lookup tool. The
// tool is scoped to an assistant id and a thread id: documents uploaded to
// either are visible to it, and both ids must be known before the tool can
// be constructed.
package retrieval

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/agentgraph-ai/agentgraph/tool"
	"github.com/agentgraph-ai/agentgraph/tool/function"
)

// DefaultDescription is the tool description shown to the model when the
// configuration does not override it.
const DefaultDescription = "Can be used to look up information that was " +
	"uploaded to this assistant. If the user is referencing particular files, " +
	"that is often a good hint that information may be here."

// Document is an indexed piece of content owned by an assistant or thread.
type Document struct {
	ID       string            `json:"id"`
	Content  string            `json:"content"`
	Metadata map[string]string `json:"metadata,omitempty"`
}

// Store is the index the retrieval tool queries. Implementations must be
// safe for concurrent use.
type Store interface {
	// Search returns the documents relevant to query that are visible to the
	// given assistant or thread.
	Search(ctx context.Context, assistantID, threadID, query string) ([]Document, error)
}

type queryRequest struct {
	Query string `json:"query" jsonschema:"description=The lookup query"`
}

type queryResponse struct {
	Documents []Document `json:"documents"`
}

// New creates a retrieval tool bound to the given assistant and thread.
func New(store Store, assistantID, threadID, description string) (tool.CallableTool, error) {
	if store == nil {
		return nil, fmt.Errorf("retrieval store is required")
	}
	if assistantID == "" || threadID == "" {
		return nil, fmt.Errorf("retrieval requires both assistant id and thread id")
	}
	if description == "" {
		description = DefaultDescription
	}
	run := func(ctx context.Context, req queryRequest) (queryResponse, error) {
		docs, err := store.Search(ctx, assistantID, threadID, req.Query)
		if err != nil {
			return queryResponse{}, fmt.Errorf("retrieval search failed: %w", err)
		}
		return queryResponse{Documents: docs}, nil
	}
	return function.New(run,
		function.WithName(tool.TypeRetrieval),
		function.WithDescription(description),
	), nil
}

// InMemoryStore is a naive substring-matching Store, sufficient for tests
// and local development.
type InMemoryStore struct {
	mu   sync.RWMutex
	docs map[string][]Document // owner id (assistant or thread) -> documents
}

// NewInMemoryStore creates an empty in-memory store.
func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{docs: make(map[string][]Document)}
}

// Add indexes a document under the given owner id.
func (s *InMemoryStore) Add(ownerID string, doc Document) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.docs[ownerID] = append(s.docs[ownerID], doc)
}

// Search implements Store with case-insensitive substring matching over the
// documents of both owners.
func (s *InMemoryStore) Search(ctx context.Context, assistantID, threadID, query string) ([]Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	needle := strings.ToLower(query)
	var found []Document
	for _, owner := range []string{assistantID, threadID} {
		for _, doc := range s.docs[owner] {
			if needle == "" || strings.Contains(strings.ToLower(doc.Content), needle) {
				found = append(found, doc)
			}
		}
	}
	return found, nil
}
