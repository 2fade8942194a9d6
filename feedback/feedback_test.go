//
// Copyright (C) 2026 agentgraph authors.  All rights reserved.
//
// agentgraph is licensed under the Apache License Version 2.0.
//
//

package feedback

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHTTPClientSubmit(t *testing.T) {
	var received Feedback
	collector := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&received))
		w.WriteHeader(http.StatusOK)
	}))
	defer collector.Close()

	client := NewHTTPClient(collector.URL, nil)
	err := client.Submit(context.Background(), &Feedback{
		RunID:   "run-1",
		Key:     "user_score",
		Score:   true,
		Value:   "thumbs up",
		Comment: "helpful",
	})
	require.NoError(t, err)
	assert.Equal(t, "run-1", received.RunID)
	assert.Equal(t, "user_score", received.Key)
	assert.Equal(t, true, received.Score)
	assert.Equal(t, "thumbs up", received.Value)
}

func TestHTTPClientSubmitCollectorError(t *testing.T) {
	collector := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer collector.Close()

	client := NewHTTPClient(collector.URL, nil)
	err := client.Submit(context.Background(), &Feedback{RunID: "run-1", Key: "user_score"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "500")
}

func TestNopClient(t *testing.T) {
	assert.NoError(t, NopClient{}.Submit(context.Background(), &Feedback{RunID: "run-1"}))
}
