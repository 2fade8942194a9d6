//
// Copyright (C) 2026 agentgraph authors.  All rights reserved.
//
// agentgraph is licensed under the Apache License Version 2.0.
//
//

// Command agentgraph runs the HTTP server over a configurable checkpoint
// backend. Configuration comes from the environment, optionally seeded from
// a .env file.
package main

import (
	"context"
	"database/sql"
	"net/http"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	_ "github.com/mattn/go-sqlite3"
	goredis "github.com/redis/go-redis/v9"

	"github.com/agentgraph-ai/agentgraph/feedback"
	"github.com/agentgraph-ai/agentgraph/graph/checkpoint"
	"github.com/agentgraph-ai/agentgraph/graph/checkpoint/inmemory"
	"github.com/agentgraph-ai/agentgraph/graph/checkpoint/redis"
	"github.com/agentgraph-ai/agentgraph/graph/checkpoint/sqlite"
	"github.com/agentgraph-ai/agentgraph/log"
	_ "github.com/agentgraph-ai/agentgraph/model/gemini"
	_ "github.com/agentgraph-ai/agentgraph/model/openai"
	"github.com/agentgraph-ai/agentgraph/runner"
	"github.com/agentgraph-ai/agentgraph/server"
	"github.com/agentgraph-ai/agentgraph/storage"
	"github.com/agentgraph-ai/agentgraph/telemetry/trace"
	_ "github.com/agentgraph-ai/agentgraph/tool/duckduckgo"
	"github.com/agentgraph-ai/agentgraph/tool/retrieval"
	"github.com/agentgraph-ai/agentgraph/toolexec"
)

// appConfig is the environment configuration, prefixed AGENTGRAPH_.
type appConfig struct {
	Addr              string `default:":8100"`
	LogLevel          string `split_words:"true" default:"info"`
	CheckpointBackend string `split_words:"true" default:"inmemory"`
	SQLitePath        string `envconfig:"SQLITE_PATH" default:"agentgraph.db"`
	RedisAddr         string `split_words:"true" default:"localhost:6379"`
	ToolPoolSize      int    `split_words:"true" default:"16"`
	TraceEnabled      bool   `split_words:"true"`
	TraceProtocol     string `split_words:"true" default:"grpc"`
	FeedbackEndpoint  string `split_words:"true"`
}

func main() {
	// Missing .env is fine; the environment itself may be fully configured.
	if err := godotenv.Load(); err != nil {
		log.Debugf("no .env file loaded: %v", err)
	}
	var cfg appConfig
	if err := envconfig.Process("agentgraph", &cfg); err != nil {
		log.Fatalf("failed to process environment configuration: %v", err)
	}
	log.SetLevel(cfg.LogLevel)

	ctx := context.Background()
	if cfg.TraceEnabled {
		clean, err := trace.Start(ctx, trace.WithProtocol(cfg.TraceProtocol))
		if err != nil {
			log.Fatalf("failed to start trace export: %v", err)
		}
		defer func() {
			if err := clean(); err != nil {
				log.Errorf("failed to shut down trace export: %v", err)
			}
		}()
	}

	saver, err := newSaver(cfg)
	if err != nil {
		log.Fatalf("failed to create checkpoint saver: %v", err)
	}
	defer saver.Close()

	invoker, err := toolexec.NewInvoker(toolexec.WithPoolSize(cfg.ToolPoolSize))
	if err != nil {
		log.Fatalf("failed to create tool invoker: %v", err)
	}
	defer invoker.Close()

	rn, err := runner.New(saver, invoker,
		runner.WithRetrievalStore(retrieval.NewInMemoryStore()),
	)
	if err != nil {
		log.Fatalf("failed to create runner: %v", err)
	}

	var serverOpts []server.Option
	if cfg.FeedbackEndpoint != "" {
		serverOpts = append(serverOpts,
			server.WithFeedbackClient(feedback.NewHTTPClient(cfg.FeedbackEndpoint, nil)))
	}
	srv, err := server.New(rn, storage.NewInMemoryStore(), saver, serverOpts...)
	if err != nil {
		log.Fatalf("failed to create server: %v", err)
	}

	log.Infof("agentgraph listening on %s (checkpoints: %s)", cfg.Addr, cfg.CheckpointBackend)
	if err := http.ListenAndServe(cfg.Addr, srv.Handler()); err != nil {
		log.Fatalf("server stopped: %v", err)
	}
}

func newSaver(cfg appConfig) (checkpoint.Saver, error) {
	switch cfg.CheckpointBackend {
	case "sqlite":
		db, err := sql.Open("sqlite3", cfg.SQLitePath)
		if err != nil {
			return nil, err
		}
		return sqlite.NewSaver(db)
	case "redis":
		client := goredis.NewClient(&goredis.Options{Addr: cfg.RedisAddr})
		return redis.NewSaver(client), nil
	default:
		return inmemory.NewSaver(), nil
	}
}
