//
// Copyright (C) 2026 agentgraph authors.  All rights reserved.
//
// agentgraph is licensed under the Apache License Version 2.0.
//
//

package storage

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestThreadLifecycle(t *testing.T) {
	ctx := context.Background()
	store := NewInMemoryStore()

	created, err := store.PutThread(ctx, &Thread{UserID: "u1", Name: "chat"})
	require.NoError(t, err)
	assert.NotEmpty(t, created.ID)
	assert.False(t, created.CreatedAt.IsZero())

	got, err := store.GetThread(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "chat", got.Name)

	// Update keeps the creation time.
	got.Name = "renamed"
	updated, err := store.PutThread(ctx, got)
	require.NoError(t, err)
	assert.Equal(t, created.CreatedAt, updated.CreatedAt)
	assert.Equal(t, "renamed", updated.Name)

	_, err = store.GetThread(ctx, "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestListThreadsFiltersByUser(t *testing.T) {
	ctx := context.Background()
	store := NewInMemoryStore()

	_, err := store.PutThread(ctx, &Thread{UserID: "u1"})
	require.NoError(t, err)
	_, err = store.PutThread(ctx, &Thread{UserID: "u1"})
	require.NoError(t, err)
	_, err = store.PutThread(ctx, &Thread{UserID: "u2"})
	require.NoError(t, err)

	threads, err := store.ListThreads(ctx, "u1")
	require.NoError(t, err)
	assert.Len(t, threads, 2)

	all, err := store.ListThreads(ctx, "")
	require.NoError(t, err)
	assert.Len(t, all, 3)
}

func TestAssistantLifecycle(t *testing.T) {
	ctx := context.Background()
	store := NewInMemoryStore()

	created, err := store.PutAssistant(ctx, &Assistant{
		UserID: "u1",
		Name:   "researcher",
		Config: map[string]any{"agent_type": "gpt-4-turbo"},
	})
	require.NoError(t, err)
	assert.NotEmpty(t, created.ID)

	got, err := store.GetAssistant(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "researcher", got.Name)
	assert.Equal(t, "gpt-4-turbo", got.Config["agent_type"])

	_, err = store.GetAssistant(ctx, "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}
