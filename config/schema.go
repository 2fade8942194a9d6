//
// Copyright (C) 2026 agentgraph authors.  All rights reserved.
//
// agentgraph is licensed under the Apache License Version 2.0.
//
//

package config

import (
	"encoding/json"
	"sync"

	"github.com/agentgraph-ai/agentgraph/log"
	"github.com/agentgraph-ai/agentgraph/model"
	"github.com/agentgraph-ai/agentgraph/tool"
)

var (
	schemaOnce sync.Once
	schemaDoc  []byte
)

// Schema returns the JSON schema of the configuration payload. The document
// is generated once, after adapter and tool registration has settled, and
// served verbatim afterwards.
func Schema() []byte {
	schemaOnce.Do(func() {
		doc := map[string]any{
			"$schema": "https://json-schema.org/draft/2020-12/schema",
			"title":   "AgentConfig",
			"type":    "object",
			"properties": map[string]any{
				"type": map[string]any{
					"type":    "string",
					"enum":    []string{BotTypeAgent, BotTypeChatbot},
					"default": DefaultBotType,
				},
				"agent_type": map[string]any{
					"type":    "string",
					"enum":    model.Tags(),
					"default": DefaultAgentType,
				},
				"llm_type": map[string]any{
					"type":    "string",
					"enum":    model.Tags(),
					"default": DefaultLLMType,
				},
				"system_message": map[string]any{
					"type":    "string",
					"default": DefaultSystemMessage,
				},
				"tools": map[string]any{
					"type": "array",
					"items": map[string]any{
						"type": "object",
						"properties": map[string]any{
							"type": map[string]any{
								"type": "string",
								"enum": tool.Tags(),
							},
							"config": map[string]any{
								"type": "object",
							},
						},
						"required": []string{"type"},
					},
				},
				"interrupt_before_action": map[string]any{
					"type":    "boolean",
					"default": false,
				},
				"assistant_id": map[string]any{"type": "string"},
				"thread_id":    map[string]any{"type": "string"},
				"user_id":      map[string]any{"type": "string"},
				"retrieval_description": map[string]any{
					"type": "string",
				},
				"recursion_limit": map[string]any{
					"type":    "integer",
					"minimum": 1,
					"default": DefaultRecursionLimit,
				},
			},
			"required":             []string{"thread_id"},
			"additionalProperties": false,
		}
		data, err := json.Marshal(doc)
		if err != nil {
			log.Errorf("failed to generate configuration schema: %v", err)
			data = []byte(`{}`)
		}
		schemaDoc = data
	})
	return schemaDoc
}
