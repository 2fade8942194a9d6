//
// Copyright (C) 2026 agentgraph authors.  All rights reserved.
//
// agentgraph is licensed under the Apache License Version 2.0.
//
//

// Package feedback records caller feedback on runs. Submission is best
// effort: a failing feedback backend never fails the run it scores.
package feedback

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/agentgraph-ai/agentgraph/log"
)

// Feedback scores one run.
type Feedback struct {
	// RunID is the run being scored.
	RunID string `json:"run_id"`
	// Key names the feedback dimension, e.g. "user_score".
	Key string `json:"key"`
	// Score is the caller's rating. Numeric and boolean ratings are both
	// accepted, so the field stays untyped.
	Score any `json:"score,omitempty"`
	// Value is the display value of the feedback, distinct from the score.
	Value any `json:"value,omitempty"`
	// Comment is free-form caller commentary.
	Comment string `json:"comment,omitempty"`
}

// Client submits feedback to a backend.
type Client interface {
	// Submit records the feedback.
	Submit(ctx context.Context, fb *Feedback) error
}

// NopClient discards all feedback.
type NopClient struct{}

// Submit implements Client.
func (NopClient) Submit(ctx context.Context, fb *Feedback) error { return nil }

// HTTPClient posts feedback as JSON to a collector endpoint.
type HTTPClient struct {
	endpoint string
	client   *http.Client
}

// NewHTTPClient creates a client posting to the given endpoint.
func NewHTTPClient(endpoint string, httpClient *http.Client) *HTTPClient {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &HTTPClient{endpoint: endpoint, client: httpClient}
}

// Submit implements Client.
func (c *HTTPClient) Submit(ctx context.Context, fb *Feedback) error {
	data, err := json.Marshal(fb)
	if err != nil {
		return fmt.Errorf("encode feedback: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("build feedback request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("post feedback: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode >= http.StatusBadRequest {
		return fmt.Errorf("feedback collector returned status %d", resp.StatusCode)
	}
	log.Debugf("feedback submitted for run %s", fb.RunID)
	return nil
}
