//
// Copyright (C) 2026 agentgraph authors.  All rights reserved.
//
// agentgraph is licensed under the Apache License Version 2.0.
//
//

// Package server exposes the HTTP surface: thread management, run creation,
// run streaming, the configuration schema and feedback submission.
package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/rs/cors"

	"github.com/agentgraph-ai/agentgraph/config"
	"github.com/agentgraph-ai/agentgraph/feedback"
	"github.com/agentgraph-ai/agentgraph/graph"
	"github.com/agentgraph-ai/agentgraph/graph/checkpoint"
	"github.com/agentgraph-ai/agentgraph/log"
	"github.com/agentgraph-ai/agentgraph/model"
	"github.com/agentgraph-ai/agentgraph/runner"
	"github.com/agentgraph-ai/agentgraph/storage"
)

// Server is the HTTP front of the runner.
type Server struct {
	router   *mux.Router
	runner   *runner.Runner
	store    storage.Store
	saver    checkpoint.Saver
	feedback feedback.Client
}

// Option configures the Server.
type Option func(*Server)

// WithFeedbackClient sets the feedback backend. Defaults to a no-op client.
func WithFeedbackClient(client feedback.Client) Option {
	return func(s *Server) { s.feedback = client }
}

// New creates the server and its routes.
func New(rn *runner.Runner, store storage.Store, saver checkpoint.Saver, opts ...Option) (*Server, error) {
	if rn == nil {
		return nil, errors.New("runner is required")
	}
	if store == nil {
		return nil, errors.New("store is required")
	}
	if saver == nil {
		return nil, errors.New("checkpoint saver is required")
	}
	s := &Server{
		router:   mux.NewRouter(),
		runner:   rn,
		store:    store,
		saver:    saver,
		feedback: feedback.NopClient{},
	}
	for _, opt := range opts {
		opt(s)
	}

	c := cors.New(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowCredentials: true,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"*"},
		ExposedHeaders:   []string{"Content-Length", "Content-Type"},
	})
	s.router.Use(c.Handler)
	s.registerRoutes()
	return s, nil
}

// Handler returns the http.Handler for the server.
func (s *Server) Handler() http.Handler { return s.router }

func (s *Server) registerRoutes() {
	s.router.HandleFunc("/threads", s.handleCreateThread).Methods(http.MethodPost)
	s.router.HandleFunc("/threads", s.handleListThreads).Methods(http.MethodGet)
	s.router.HandleFunc("/threads/{threadID}", s.handleGetThread).Methods(http.MethodGet)
	s.router.HandleFunc("/threads/{threadID}/history", s.handleThreadHistory).Methods(http.MethodGet)

	s.router.HandleFunc("/runs", s.handleCreateRun).Methods(http.MethodPost)
	s.router.HandleFunc("/runs/stream", s.handleStreamRun).Methods(http.MethodPost)
	s.router.HandleFunc("/runs/config_schema", s.handleConfigSchema).Methods(http.MethodGet)
	s.router.HandleFunc("/runs/feedback", s.handleFeedback).Methods(http.MethodPost)

	preflight := func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}
	s.router.HandleFunc("/runs", preflight).Methods(http.MethodOptions)
	s.router.HandleFunc("/runs/stream", preflight).Methods(http.MethodOptions)
}

// ---- Threads ------------------------------------------------------------

type createThreadRequest struct {
	AssistantID string `json:"assistant_id,omitempty"`
	UserID      string `json:"user_id,omitempty"`
	Name        string `json:"name,omitempty"`
}

func (s *Server) handleCreateThread(w http.ResponseWriter, r *http.Request) {
	var req createThreadRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	defer r.Body.Close()

	thread, err := s.store.PutThread(r.Context(), &storage.Thread{
		AssistantID: req.AssistantID,
		UserID:      req.UserID,
		Name:        req.Name,
	})
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.writeJSON(w, thread)
}

func (s *Server) handleListThreads(w http.ResponseWriter, r *http.Request) {
	threads, err := s.store.ListThreads(r.Context(), r.URL.Query().Get("user_id"))
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if threads == nil {
		threads = []*storage.Thread{}
	}
	s.writeJSON(w, threads)
}

func (s *Server) handleGetThread(w http.ResponseWriter, r *http.Request) {
	thread, err := s.store.GetThread(r.Context(), mux.Vars(r)["threadID"])
	if errors.Is(err, storage.ErrNotFound) {
		s.writeError(w, http.StatusNotFound, "Thread not found")
		return
	}
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.writeJSON(w, thread)
}

func (s *Server) handleThreadHistory(w http.ResponseWriter, r *http.Request) {
	threadID := mux.Vars(r)["threadID"]
	if _, err := s.store.GetThread(r.Context(), threadID); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			s.writeError(w, http.StatusNotFound, "Thread not found")
			return
		}
		s.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	checkpoints, err := s.saver.List(r.Context(), threadID)
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if checkpoints == nil {
		checkpoints = []*checkpoint.Checkpoint{}
	}
	s.writeJSON(w, checkpoints)
}

// ---- Runs ---------------------------------------------------------------

type runRequest struct {
	Input  []model.Message `json:"input,omitempty"`
	Config json.RawMessage `json:"config"`
}

// resolveRun decodes and resolves a run request. The thread named by the
// configuration must already exist.
func (s *Server) resolveRun(w http.ResponseWriter, r *http.Request) (*config.RunConfig, []model.Message, bool) {
	var req runRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, err.Error())
		return nil, nil, false
	}
	defer r.Body.Close()

	payload, err := config.Decode(req.Config)
	if err != nil {
		s.writeError(w, http.StatusUnprocessableEntity, err.Error())
		return nil, nil, false
	}
	cfg, err := config.Resolve(payload)
	if err != nil {
		s.writeError(w, http.StatusUnprocessableEntity, err.Error())
		return nil, nil, false
	}
	if _, err := s.store.GetThread(r.Context(), cfg.ThreadID); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			s.writeError(w, http.StatusNotFound, "Thread not found")
			return nil, nil, false
		}
		s.writeError(w, http.StatusInternalServerError, err.Error())
		return nil, nil, false
	}
	return cfg, req.Input, true
}

func (s *Server) handleCreateRun(w http.ResponseWriter, r *http.Request) {
	cfg, input, ok := s.resolveRun(w, r)
	if !ok {
		return
	}
	messages, err := s.runner.Run(r.Context(), cfg, input)
	if err != nil {
		if interrupt, ok := graph.AsInterruptError(err); ok {
			s.writeJSON(w, map[string]any{
				"status":    "interrupted",
				"thread_id": interrupt.ThreadID,
				"messages":  messages,
			})
			return
		}
		var cfgErr *config.Error
		if errors.As(err, &cfgErr) {
			s.writeError(w, http.StatusUnprocessableEntity, cfgErr.Error())
			return
		}
		s.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.writeJSON(w, map[string]any{
		"status":    "done",
		"thread_id": cfg.ThreadID,
		"messages":  messages,
	})
}

func (s *Server) handleStreamRun(w http.ResponseWriter, r *http.Request) {
	cfg, input, ok := s.resolveRun(w, r)
	if !ok {
		return
	}
	flusher, ok := w.(http.Flusher)
	if !ok {
		s.writeError(w, http.StatusInternalServerError, "streaming unsupported")
		return
	}

	events, err := s.runner.RunStream(r.Context(), cfg, input)
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	for evt := range events {
		data, err := json.Marshal(evt)
		if err != nil {
			log.Errorf("failed to marshal SSE event: %v", err)
			continue
		}
		fmt.Fprintf(w, "event: %s\ndata: %s\n\n", evt.Type, data)
		flusher.Flush()
	}
}

func (s *Server) handleConfigSchema(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Write(config.Schema())
}

func (s *Server) handleFeedback(w http.ResponseWriter, r *http.Request) {
	var fb feedback.Feedback
	if err := json.NewDecoder(r.Body).Decode(&fb); err != nil {
		s.writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	defer r.Body.Close()

	// Feedback is best effort: a failing collector never fails the caller.
	if err := s.feedback.Submit(r.Context(), &fb); err != nil {
		log.Warnf("feedback submission failed for run %s: %v", fb.RunID, err)
	}
	s.writeJSON(w, map[string]string{"status": "ok"})
}

// ---- Helpers ------------------------------------------------------------

func (s *Server) writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Errorf("failed to encode response: %v", err)
	}
}

func (s *Server) writeError(w http.ResponseWriter, status int, detail string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(map[string]string{"detail": detail}); err != nil {
		log.Errorf("failed to encode error response: %v", err)
	}
}
