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
	"time"
)

// InterruptError reports that execution suspended before the action node and
// is waiting for external confirmation. It is an orderly suspension, not a
// failure: the thread's checkpoint records the pending confirmation and a
// later Execute call with no input resumes the suspended action.
type InterruptError struct {
	// ThreadID is the suspended thread.
	ThreadID string
	// NodeID is the node execution suspended before. Always the action node.
	NodeID string
	// Step is the step index of the interrupt checkpoint.
	Step int
	// Timestamp is when the suspension occurred.
	Timestamp time.Time
}

// Error implements the error interface.
func (e *InterruptError) Error() string {
	return fmt.Sprintf("execution of thread %s interrupted before node %s at step %d",
		e.ThreadID, e.NodeID, e.Step)
}

// NewInterruptError creates an InterruptError for the given thread and step.
func NewInterruptError(threadID string, step int) *InterruptError {
	return &InterruptError{
		ThreadID:  threadID,
		NodeID:    NodeAction,
		Step:      step,
		Timestamp: time.Now().UTC(),
	}
}

// IsInterruptError checks whether err is an InterruptError.
func IsInterruptError(err error) bool {
	var target *InterruptError
	return errors.As(err, &target)
}

// AsInterruptError extracts an InterruptError from err, if any.
func AsInterruptError(err error) (*InterruptError, bool) {
	var target *InterruptError
	if errors.As(err, &target) {
		return target, true
	}
	return nil, false
}
