//
// Copyright (C) 2026 agentgraph authors.  All rights reserved.
//
// agentgraph is licensed under the Apache License Version 2.0.
//
//

package graph

import (
	"errors"
	"fmt"
)

// ErrNoInput is returned when Execute is called with no input messages on a
// thread that has no suspended confirmation to resume.
var ErrNoInput = errors.New("no input messages and nothing to resume")

// RecursionLimitError is returned when a single run exceeds its step bound
// without reaching End. The thread's checkpoints up to the bound are kept.
type RecursionLimitError struct {
	// Limit is the configured step bound.
	Limit int
}

// Error implements the error interface.
func (e *RecursionLimitError) Error() string {
	return fmt.Sprintf("graph execution exceeded the step limit of %d without completing", e.Limit)
}

// IsRecursionLimitError checks whether err is a RecursionLimitError.
func IsRecursionLimitError(err error) bool {
	var target *RecursionLimitError
	return errors.As(err, &target)
}

// CheckpointWriteError is returned when persisting a step's checkpoint
// fails. The step's effects are not observable as committed: the run halts
// and the thread stays at its previous checkpoint.
type CheckpointWriteError struct {
	// ThreadID is the thread whose checkpoint write failed.
	ThreadID string
	// Step is the step index that could not be written.
	Step int
	// Err is the saver error.
	Err error
}

// Error implements the error interface.
func (e *CheckpointWriteError) Error() string {
	return fmt.Sprintf("checkpoint write failed for thread %s at step %d: %v", e.ThreadID, e.Step, e.Err)
}

// Unwrap returns the underlying saver error.
func (e *CheckpointWriteError) Unwrap() error { return e.Err }
