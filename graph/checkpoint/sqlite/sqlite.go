//
// Copyright (C) 2026 agentgraph authors.  All rights reserved.
//
// agentgraph is licensed under the Apache License Version 2.0.
//
//

// Package sqlite provides a SQLite-backed checkpoint saver. The caller
// supplies an opened *sql.DB with a sqlite driver registered (for example
// github.com/mattn/go-sqlite3).
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/agentgraph-ai/agentgraph/graph/checkpoint"
	"github.com/agentgraph-ai/agentgraph/model"
)

const (
	createCheckpoints = "CREATE TABLE IF NOT EXISTS checkpoints (" +
		"thread_id TEXT NOT NULL, " +
		"step INTEGER NOT NULL, " +
		"checkpoint_id TEXT NOT NULL, " +
		"next_node TEXT NOT NULL, " +
		"pending_confirmation INTEGER NOT NULL, " +
		"source TEXT NOT NULL, " +
		"ts INTEGER NOT NULL, " +
		"messages_json BLOB NOT NULL, " +
		"PRIMARY KEY (thread_id, step)" +
		")"

	// A plain INSERT, never INSERT OR REPLACE: the primary key makes a
	// duplicate (thread, step) write fail, which is how two interleaving
	// executions of the same thread are detected.
	insertCheckpoint = "INSERT INTO checkpoints (" +
		"thread_id, step, checkpoint_id, next_node, pending_confirmation, " +
		"source, ts, messages_json) VALUES (?, ?, ?, ?, ?, ?, ?, ?)"

	selectLatest = "SELECT step, checkpoint_id, next_node, pending_confirmation, " +
		"source, ts, messages_json FROM checkpoints WHERE thread_id = ? " +
		"ORDER BY step DESC LIMIT 1"

	selectAll = "SELECT step, checkpoint_id, next_node, pending_confirmation, " +
		"source, ts, messages_json FROM checkpoints WHERE thread_id = ? " +
		"ORDER BY step ASC"

	selectMaxStep = "SELECT COALESCE(MAX(step), 0) FROM checkpoints WHERE thread_id = ?"
)

// Saver is a SQLite implementation of checkpoint.Saver.
type Saver struct {
	db *sql.DB
}

// NewSaver creates the saver and its table.
func NewSaver(db *sql.DB) (*Saver, error) {
	if db == nil {
		return nil, errors.New("db is required")
	}
	if _, err := db.Exec(createCheckpoints); err != nil {
		return nil, fmt.Errorf("create checkpoints table: %w", err)
	}
	return &Saver{db: db}, nil
}

// Put implements checkpoint.Saver. The write is a single transaction that
// validates the step index against the thread's current maximum and inserts
// the new row; the (thread_id, step) primary key backstops the check.
func (s *Saver) Put(ctx context.Context, ckpt *checkpoint.Checkpoint) error {
	data, err := json.Marshal(ckpt.Messages)
	if err != nil {
		return fmt.Errorf("encode checkpoint messages: %w", err)
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin checkpoint write: %w", err)
	}
	defer tx.Rollback()

	var last int
	if err := tx.QueryRowContext(ctx, selectMaxStep, ckpt.ThreadID).Scan(&last); err != nil {
		return fmt.Errorf("read latest step: %w", err)
	}
	if ckpt.Step != last+1 {
		return checkpoint.ErrStepConflict
	}
	pending := 0
	if ckpt.PendingConfirmation {
		pending = 1
	}
	if _, err := tx.ExecContext(ctx, insertCheckpoint,
		ckpt.ThreadID, ckpt.Step, ckpt.ID, ckpt.NextNode, pending,
		ckpt.Source, ckpt.CreatedAt.UnixNano(), data); err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed") {
			return checkpoint.ErrStepConflict
		}
		return fmt.Errorf("insert checkpoint: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit checkpoint write: %w", err)
	}
	return nil
}

// Latest implements checkpoint.Saver.
func (s *Saver) Latest(ctx context.Context, threadID string) (*checkpoint.Checkpoint, error) {
	row := s.db.QueryRowContext(ctx, selectLatest, threadID)
	ckpt, err := scanCheckpoint(threadID, row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	return ckpt, err
}

// List implements checkpoint.Saver.
func (s *Saver) List(ctx context.Context, threadID string) ([]*checkpoint.Checkpoint, error) {
	rows, err := s.db.QueryContext(ctx, selectAll, threadID)
	if err != nil {
		return nil, fmt.Errorf("list checkpoints: %w", err)
	}
	defer rows.Close()

	var out []*checkpoint.Checkpoint
	for rows.Next() {
		ckpt, err := scanCheckpoint(threadID, rows)
		if err != nil {
			return nil, err
		}
		out = append(out, ckpt)
	}
	return out, rows.Err()
}

// Close implements checkpoint.Saver. The saver owns the handed-in DB.
func (s *Saver) Close() error { return s.db.Close() }

type scanner interface {
	Scan(dest ...any) error
}

func scanCheckpoint(threadID string, row scanner) (*checkpoint.Checkpoint, error) {
	var (
		ckpt    checkpoint.Checkpoint
		pending int
		ts      int64
		data    []byte
	)
	if err := row.Scan(&ckpt.Step, &ckpt.ID, &ckpt.NextNode, &pending,
		&ckpt.Source, &ts, &data); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scan checkpoint: %w", err)
	}
	var messages []model.Message
	if err := json.Unmarshal(data, &messages); err != nil {
		return nil, fmt.Errorf("decode checkpoint messages: %w", err)
	}
	ckpt.ThreadID = threadID
	ckpt.PendingConfirmation = pending != 0
	ckpt.CreatedAt = time.Unix(0, ts).UTC()
	ckpt.Messages = messages
	return &ckpt, nil
}
