//
// Copyright (C) 2026 agentgraph authors.  All rights reserved.
//
// agentgraph is licensed under the Apache License Version 2.0.
//
//

package inmemory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentgraph-ai/agentgraph/graph/checkpoint"
	"github.com/agentgraph-ai/agentgraph/model"
)

func TestSaverRoundTrip(t *testing.T) {
	ctx := context.Background()
	saver := NewSaver()

	latest, err := saver.Latest(ctx, "thread-1")
	require.NoError(t, err)
	assert.Nil(t, latest)

	first := checkpoint.New("thread-1", 1, "agent",
		[]model.Message{model.NewHumanMessage("hello")})
	first.Source = checkpoint.SourceInput
	require.NoError(t, saver.Put(ctx, first))

	second := checkpoint.New("thread-1", 2, "__end__", []model.Message{
		model.NewHumanMessage("hello"),
		model.NewAssistantMessage("hi"),
	})
	require.NoError(t, saver.Put(ctx, second))

	latest, err = saver.Latest(ctx, "thread-1")
	require.NoError(t, err)
	assert.Equal(t, 2, latest.Step)
	assert.Equal(t, second.ID, latest.ID)
	require.Len(t, latest.Messages, 2)
	assert.Equal(t, "hi", latest.Messages[1].Content)

	history, err := saver.List(ctx, "thread-1")
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, checkpoint.SourceInput, history[0].Source)
	assert.Equal(t, checkpoint.SourceLoop, history[1].Source)
}

func TestSaverStepConflict(t *testing.T) {
	ctx := context.Background()
	saver := NewSaver()

	require.NoError(t, saver.Put(ctx,
		checkpoint.New("thread-1", 1, "agent", nil)))

	// Same step again.
	err := saver.Put(ctx, checkpoint.New("thread-1", 1, "agent", nil))
	assert.ErrorIs(t, err, checkpoint.ErrStepConflict)

	// Skipped step.
	err = saver.Put(ctx, checkpoint.New("thread-1", 3, "agent", nil))
	assert.ErrorIs(t, err, checkpoint.ErrStepConflict)

	// First step must be 1.
	err = saver.Put(ctx, checkpoint.New("thread-2", 5, "agent", nil))
	assert.ErrorIs(t, err, checkpoint.ErrStepConflict)
}

func TestSaverThreadsAreIndependent(t *testing.T) {
	ctx := context.Background()
	saver := NewSaver()

	require.NoError(t, saver.Put(ctx, checkpoint.New("thread-1", 1, "agent", nil)))
	require.NoError(t, saver.Put(ctx, checkpoint.New("thread-2", 1, "agent", nil)))
	require.NoError(t, saver.Put(ctx, checkpoint.New("thread-1", 2, "agent", nil)))

	latest, err := saver.Latest(ctx, "thread-2")
	require.NoError(t, err)
	assert.Equal(t, 1, latest.Step)
}

func TestSaverCopiesMessages(t *testing.T) {
	ctx := context.Background()
	saver := NewSaver()

	messages := []model.Message{model.NewHumanMessage("original")}
	require.NoError(t, saver.Put(ctx, checkpoint.New("thread-1", 1, "agent", messages)))
	messages[0] = model.NewHumanMessage("mutated")

	latest, err := saver.Latest(ctx, "thread-1")
	require.NoError(t, err)
	assert.Equal(t, "original", latest.Messages[0].Content)
}
