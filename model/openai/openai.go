//
// Copyright (C) 2026 agentgraph authors.  All rights reserved.
//
// agentgraph is licensed under the Apache License Version 2.0.
//
//

// Package openai implements the model interface over OpenAI-compatible chat
// completion APIs. Any endpoint speaking the same protocol can be targeted
// through WithBaseURL.
package openai

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/openai/openai-go"
	openaiopt "github.com/openai/openai-go/option"
	"github.com/openai/openai-go/shared"

	"github.com/agentgraph-ai/agentgraph/log"
	"github.com/agentgraph-ai/agentgraph/model"
	"github.com/agentgraph-ai/agentgraph/tool"
)

// Configuration tags registered by this adapter. A tag names a selectable
// backend, not the exact upstream model version.
const (
	TagGPT35Turbo = "gpt-3.5-turbo"
	TagGPT4Turbo  = "gpt-4-turbo"
	TagClaude3    = "claude-3"
)

// anthropicBaseURL is the OpenAI-compatible endpoint of the Anthropic API.
const anthropicBaseURL = "https://api.anthropic.com/v1/"

func init() {
	model.Register(TagGPT35Turbo, func(opts model.Options) (model.Model, error) {
		return New("gpt-3.5-turbo-0125", opts)
	})
	model.Register(TagGPT4Turbo, func(opts model.Options) (model.Model, error) {
		return New("gpt-4-turbo", opts)
	})
	model.Register(TagClaude3, func(opts model.Options) (model.Model, error) {
		return New("claude-3-haiku-20240307", opts,
			WithBaseURL(anthropicBaseURL),
			WithAPIKey(os.Getenv("ANTHROPIC_API_KEY")),
		)
	})
}

// Model implements model.Model over an OpenAI-compatible API.
type Model struct {
	client        openai.Client
	name          string
	systemMessage string
	tools         []openai.ChatCompletionToolParam
}

// Option configures the adapter beyond the per-run model.Options binding.
type Option func(*clientOptions)

type clientOptions struct {
	apiKey    string
	baseURL   string
	extraOpts []openaiopt.RequestOption
}

// WithAPIKey sets the API key. When unset the client falls back to the
// OPENAI_API_KEY environment variable.
func WithAPIKey(key string) Option {
	return func(o *clientOptions) { o.apiKey = key }
}

// WithBaseURL points the client at a different OpenAI-compatible endpoint.
func WithBaseURL(baseURL string) Option {
	return func(o *clientOptions) { o.baseURL = baseURL }
}

// WithOpenAIOptions appends raw request options of the underlying client.
func WithOpenAIOptions(opts ...openaiopt.RequestOption) Option {
	return func(o *clientOptions) { o.extraOpts = append(o.extraOpts, opts...) }
}

// New creates an adapter for the named upstream model, bound to the run's
// system message and tool declarations.
func New(name string, opts model.Options, modelOpts ...Option) (*Model, error) {
	if name == "" {
		return nil, fmt.Errorf("model name is required")
	}
	var co clientOptions
	for _, opt := range modelOpts {
		opt(&co)
	}
	clientOpts := co.extraOpts
	if co.apiKey != "" {
		clientOpts = append(clientOpts, openaiopt.WithAPIKey(co.apiKey))
	}
	if co.baseURL != "" {
		clientOpts = append(clientOpts, openaiopt.WithBaseURL(co.baseURL))
	}
	return &Model{
		client:        openai.NewClient(clientOpts...),
		name:          name,
		systemMessage: opts.SystemMessage,
		tools:         convertTools(opts.Tools),
	}, nil
}

// Info implements model.Model.
func (m *Model) Info() model.Info {
	return model.Info{Name: m.name}
}

// Invoke implements model.Model. The bound system message is prepended ahead
// of the conversation on every call; the backend reply is mapped back to one
// assistant message.
func (m *Model) Invoke(ctx context.Context, messages []model.Message) (model.Message, error) {
	chatRequest := openai.ChatCompletionNewParams{
		Model:    shared.ChatModel(m.name),
		Messages: m.convertMessages(messages),
	}
	if len(m.tools) > 0 {
		chatRequest.Tools = m.tools
	}

	chatCompletion, err := m.client.Chat.Completions.New(ctx, chatRequest)
	if err != nil {
		return model.Message{}, model.NewInvocationError(m.name, err)
	}
	if len(chatCompletion.Choices) == 0 {
		return model.Message{}, model.NewInvocationError(m.name,
			fmt.Errorf("response contains no choices"))
	}

	choice := chatCompletion.Choices[0]
	reply := model.Message{
		Role:    model.RoleAssistant,
		Content: choice.Message.Content,
	}
	for i, toolCall := range choice.Message.ToolCalls {
		callID := toolCall.ID
		if callID == "" {
			// Some providers omit call ids; synthesize one so tool results
			// can still be correlated.
			callID = fmt.Sprintf("auto_call_%d", i)
		}
		reply.ToolCalls = append(reply.ToolCalls, model.ToolCall{
			ID:   callID,
			Type: model.ToolCallType,
			Function: model.FunctionCall{
				Name:      toolCall.Function.Name,
				Arguments: []byte(toolCall.Function.Arguments),
			},
		})
	}
	return reply, nil
}

func (m *Model) convertMessages(messages []model.Message) []openai.ChatCompletionMessageParamUnion {
	result := make([]openai.ChatCompletionMessageParamUnion, 0, len(messages)+1)
	if m.systemMessage != "" {
		result = append(result, openai.ChatCompletionMessageParamUnion{
			OfSystem: &openai.ChatCompletionSystemMessageParam{
				Content: openai.ChatCompletionSystemMessageParamContentUnion{
					OfString: openai.String(m.systemMessage),
				},
			},
		})
	}
	for _, msg := range messages {
		switch msg.Role {
		case model.RoleSystem:
			result = append(result, openai.ChatCompletionMessageParamUnion{
				OfSystem: &openai.ChatCompletionSystemMessageParam{
					Content: openai.ChatCompletionSystemMessageParamContentUnion{
						OfString: openai.String(msg.Content),
					},
				},
			})
		case model.RoleAssistant:
			result = append(result, openai.ChatCompletionMessageParamUnion{
				OfAssistant: &openai.ChatCompletionAssistantMessageParam{
					Content: openai.ChatCompletionAssistantMessageParamContentUnion{
						OfString: openai.String(msg.Content),
					},
					ToolCalls: convertToolCalls(msg.ToolCalls),
				},
			})
		case model.RoleTool:
			result = append(result, openai.ChatCompletionMessageParamUnion{
				OfTool: &openai.ChatCompletionToolMessageParam{
					Content: openai.ChatCompletionToolMessageParamContentUnion{
						OfString: openai.String(msg.Content),
					},
					ToolCallID: msg.ToolCallID,
				},
			})
		default:
			// Human and unknown roles both map to user messages.
			result = append(result, openai.ChatCompletionMessageParamUnion{
				OfUser: &openai.ChatCompletionUserMessageParam{
					Content: openai.ChatCompletionUserMessageParamContentUnion{
						OfString: openai.String(msg.Content),
					},
				},
			})
		}
	}
	return result
}

func convertToolCalls(toolCalls []model.ToolCall) []openai.ChatCompletionMessageToolCallParam {
	var result []openai.ChatCompletionMessageToolCallParam
	for _, toolCall := range toolCalls {
		result = append(result, openai.ChatCompletionMessageToolCallParam{
			ID: toolCall.ID,
			Function: openai.ChatCompletionMessageToolCallFunctionParam{
				Name:      toolCall.Function.Name,
				Arguments: string(toolCall.Function.Arguments),
			},
		})
	}
	return result
}

func convertTools(declarations []*tool.Declaration) []openai.ChatCompletionToolParam {
	var result []openai.ChatCompletionToolParam
	for _, declaration := range declarations {
		// Round-trip through JSON to map the schema into OpenAI's expected shape.
		schemaBytes, err := json.Marshal(declaration.InputSchema)
		if err != nil {
			log.Errorf("failed to marshal tool schema for %s: %v", declaration.Name, err)
			continue
		}
		var parameters shared.FunctionParameters
		if err := json.Unmarshal(schemaBytes, &parameters); err != nil {
			log.Errorf("failed to unmarshal tool schema for %s: %v", declaration.Name, err)
			continue
		}
		result = append(result, openai.ChatCompletionToolParam{
			Function: openai.FunctionDefinitionParam{
				Name:        declaration.Name,
				Description: openai.String(declaration.Description),
				Parameters:  parameters,
			},
		})
	}
	return result
}
