//
// Copyright (C) 2026 agentgraph authors.  All rights reserved.
//
// agentgraph is licensed under the Apache License Version 2.0.
//
//

// Package redis provides a Redis-backed checkpoint saver. Each checkpoint is
// stored under its own (thread, step) key; a Lua script checks the thread's
// latest step and writes the checkpoint and the latest pointer in one atomic
// unit, so a writer racing on the same step gets a step conflict and a
// half-written pair cannot occur.
package redis

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/agentgraph-ai/agentgraph/graph/checkpoint"
)

const keyPrefix = "agentgraph:ckpt"

// putScript writes a checkpoint and advances the latest pointer atomically.
// KEYS[1] is the step key, KEYS[2] the latest key; ARGV[1] is the step,
// ARGV[2] the encoded checkpoint. Returns 0 on a step conflict.
var putScript = redis.NewScript(`
local latest = tonumber(redis.call('GET', KEYS[2]) or '0')
if tonumber(ARGV[1]) ~= latest + 1 then
  return 0
end
redis.call('SET', KEYS[1], ARGV[2])
redis.call('SET', KEYS[2], ARGV[1])
return 1
`)

// Saver is a Redis implementation of checkpoint.Saver.
type Saver struct {
	client *redis.Client
}

// NewSaver creates a saver on the given client.
func NewSaver(client *redis.Client) *Saver {
	return &Saver{client: client}
}

func stepKey(threadID string, step int) string {
	return fmt.Sprintf("%s:{%s}:%d", keyPrefix, threadID, step)
}

func latestKey(threadID string) string {
	return fmt.Sprintf("%s:{%s}:latest", keyPrefix, threadID)
}

// Put implements checkpoint.Saver.
func (s *Saver) Put(ctx context.Context, ckpt *checkpoint.Checkpoint) error {
	data, err := json.Marshal(ckpt)
	if err != nil {
		return fmt.Errorf("encode checkpoint: %w", err)
	}
	keys := []string{stepKey(ckpt.ThreadID, ckpt.Step), latestKey(ckpt.ThreadID)}
	ok, err := putScript.Run(ctx, s.client, keys, ckpt.Step, data).Int()
	if err != nil {
		return fmt.Errorf("write checkpoint: %w", err)
	}
	if ok == 0 {
		return checkpoint.ErrStepConflict
	}
	return nil
}

// Latest implements checkpoint.Saver.
func (s *Saver) Latest(ctx context.Context, threadID string) (*checkpoint.Checkpoint, error) {
	step, err := s.latestStep(ctx, threadID)
	if err != nil {
		return nil, err
	}
	if step == 0 {
		return nil, nil
	}
	return s.get(ctx, threadID, step)
}

// List implements checkpoint.Saver.
func (s *Saver) List(ctx context.Context, threadID string) ([]*checkpoint.Checkpoint, error) {
	latest, err := s.latestStep(ctx, threadID)
	if err != nil {
		return nil, err
	}
	out := make([]*checkpoint.Checkpoint, 0, latest)
	for step := 1; step <= latest; step++ {
		ckpt, err := s.get(ctx, threadID, step)
		if err != nil {
			return nil, err
		}
		out = append(out, ckpt)
	}
	return out, nil
}

// Close implements checkpoint.Saver.
func (s *Saver) Close() error { return s.client.Close() }

func (s *Saver) latestStep(ctx context.Context, threadID string) (int, error) {
	step, err := s.client.Get(ctx, latestKey(threadID)).Int()
	if err == redis.Nil {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("read latest step: %w", err)
	}
	return step, nil
}

func (s *Saver) get(ctx context.Context, threadID string, step int) (*checkpoint.Checkpoint, error) {
	data, err := s.client.Get(ctx, stepKey(threadID, step)).Bytes()
	if err != nil {
		return nil, fmt.Errorf("read checkpoint %d: %w", step, err)
	}
	var ckpt checkpoint.Checkpoint
	if err := json.Unmarshal(data, &ckpt); err != nil {
		return nil, fmt.Errorf("decode checkpoint %d: %w", step, err)
	}
	return &ckpt, nil
}
