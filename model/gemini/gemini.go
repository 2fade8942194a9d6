//
// Copyright (C) 2026 agentgraph authors.  All rights reserved.
//
// agentgraph is licensed under the Apache License Version 2.0.
//
//

// Package gemini implements the model interface over the Gemini API.
package gemini

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"google.golang.org/genai"

	"github.com/agentgraph-ai/agentgraph/model"
	"github.com/agentgraph-ai/agentgraph/tool"
)

// TagGeminiPro is the configuration tag registered by this adapter.
const TagGeminiPro = "gemini-pro"

// GoogleAPIKeyEnv is the environment variable name for the Google API key.
const GoogleAPIKeyEnv = "GOOGLE_API_KEY"

func init() {
	model.Register(TagGeminiPro, func(opts model.Options) (model.Model, error) {
		return New(context.Background(), "gemini-1.5-pro", opts)
	})
}

// Model implements model.Model over the Gemini API.
type Model struct {
	client        *genai.Client
	name          string
	systemMessage string
	tools         []*genai.Tool
}

// Option configures the adapter beyond the per-run model.Options binding.
type Option func(*clientOptions)

type clientOptions struct {
	apiKey  string
	baseURL string
}

// WithAPIKey sets the Google API key. When unset the GOOGLE_API_KEY
// environment variable is used.
func WithAPIKey(key string) Option {
	return func(o *clientOptions) { o.apiKey = key }
}

// WithBaseURL points the client at a different endpoint.
func WithBaseURL(baseURL string) Option {
	return func(o *clientOptions) { o.baseURL = baseURL }
}

// New creates an adapter for the named Gemini model, bound to the run's
// system message and tool declarations.
func New(ctx context.Context, name string, opts model.Options, modelOpts ...Option) (*Model, error) {
	if name == "" {
		return nil, fmt.Errorf("model name is required")
	}
	co := clientOptions{apiKey: os.Getenv(GoogleAPIKeyEnv)}
	for _, opt := range modelOpts {
		opt(&co)
	}
	if co.apiKey == "" {
		return nil, fmt.Errorf("%s is not provided", GoogleAPIKeyEnv)
	}
	clientCfg := &genai.ClientConfig{
		APIKey:  co.apiKey,
		Backend: genai.BackendGeminiAPI,
	}
	if co.baseURL != "" {
		clientCfg.HTTPOptions.BaseURL = co.baseURL
	}
	client, err := genai.NewClient(ctx, clientCfg)
	if err != nil {
		return nil, fmt.Errorf("create gemini client: %w", err)
	}
	return &Model{
		client:        client,
		name:          name,
		systemMessage: opts.SystemMessage,
		tools:         convertTools(opts.Tools),
	}, nil
}

// Info implements model.Model.
func (m *Model) Info() model.Info {
	return model.Info{Name: m.name}
}

// Invoke implements model.Model. The system message travels as the system
// instruction; tool results go back as function responses.
func (m *Model) Invoke(ctx context.Context, messages []model.Message) (model.Message, error) {
	config := &genai.GenerateContentConfig{}
	if m.systemMessage != "" {
		config.SystemInstruction = genai.NewContentFromText(m.systemMessage, genai.RoleUser)
	}
	if len(m.tools) > 0 {
		config.Tools = m.tools
	}

	contents, err := convertMessages(messages)
	if err != nil {
		return model.Message{}, model.NewInvocationError(m.name, err)
	}
	name := strings.TrimPrefix(m.name, "models/")
	response, err := m.client.Models.GenerateContent(ctx, name, contents, config)
	if err != nil {
		return model.Message{}, model.NewInvocationError(m.name, err)
	}
	if len(response.Candidates) == 0 || response.Candidates[0].Content == nil {
		return model.Message{}, model.NewInvocationError(m.name,
			fmt.Errorf("response contains no candidates"))
	}

	reply := model.Message{Role: model.RoleAssistant}
	var text strings.Builder
	for _, part := range response.Candidates[0].Content.Parts {
		if part.Text != "" {
			text.WriteString(part.Text)
		}
		if part.FunctionCall == nil {
			continue
		}
		args, err := json.Marshal(part.FunctionCall.Args)
		if err != nil {
			return model.Message{}, model.NewInvocationError(m.name,
				fmt.Errorf("encode function call args: %w", err))
		}
		callID := part.FunctionCall.ID
		if callID == "" {
			callID = fmt.Sprintf("auto_call_%d", len(reply.ToolCalls))
		}
		reply.ToolCalls = append(reply.ToolCalls, model.ToolCall{
			ID:   callID,
			Type: model.ToolCallType,
			Function: model.FunctionCall{
				Name:      part.FunctionCall.Name,
				Arguments: args,
			},
		})
	}
	reply.Content = text.String()
	return reply, nil
}

// convertMessages maps the canonical sequence into Gemini contents. Gemini
// knows only user and model roles: system messages inside the sequence are
// downgraded to user text, and tool results become function-response parts
// on a user content.
func convertMessages(messages []model.Message) ([]*genai.Content, error) {
	contents := make([]*genai.Content, 0, len(messages))
	for _, msg := range messages {
		switch msg.Role {
		case model.RoleAssistant:
			parts := make([]*genai.Part, 0, 1+len(msg.ToolCalls))
			if msg.Content != "" {
				parts = append(parts, genai.NewPartFromText(msg.Content))
			}
			for _, call := range msg.ToolCalls {
				var args map[string]any
				if len(call.Function.Arguments) > 0 {
					if err := json.Unmarshal(call.Function.Arguments, &args); err != nil {
						return nil, fmt.Errorf("decode tool call args for %s: %w", call.Function.Name, err)
					}
				}
				parts = append(parts, &genai.Part{
					FunctionCall: &genai.FunctionCall{
						ID:   call.ID,
						Name: call.Function.Name,
						Args: args,
					},
				})
			}
			contents = append(contents, &genai.Content{Role: genai.RoleModel, Parts: parts})
		case model.RoleTool:
			contents = append(contents, &genai.Content{
				Role: genai.RoleUser,
				Parts: []*genai.Part{{
					FunctionResponse: &genai.FunctionResponse{
						ID:       msg.ToolCallID,
						Name:     msg.ToolName,
						Response: map[string]any{"output": msg.Content},
					},
				}},
			})
		default:
			contents = append(contents, genai.NewContentFromText(msg.Content, genai.RoleUser))
		}
	}
	return contents, nil
}

func convertTools(declarations []*tool.Declaration) []*genai.Tool {
	if len(declarations) == 0 {
		return nil
	}
	fns := make([]*genai.FunctionDeclaration, 0, len(declarations))
	for _, declaration := range declarations {
		fns = append(fns, &genai.FunctionDeclaration{
			Name:        declaration.Name,
			Description: declaration.Description,
			Parameters:  convertSchema(declaration.InputSchema),
		})
	}
	return []*genai.Tool{{FunctionDeclarations: fns}}
}

func convertSchema(s *tool.Schema) *genai.Schema {
	if s == nil {
		return nil
	}
	out := &genai.Schema{
		Type:        schemaType(s.Type),
		Description: s.Description,
		Required:    s.Required,
		Items:       convertSchema(s.Items),
	}
	if len(s.Properties) > 0 {
		out.Properties = make(map[string]*genai.Schema, len(s.Properties))
		for name, prop := range s.Properties {
			out.Properties[name] = convertSchema(prop)
		}
	}
	return out
}

func schemaType(t string) genai.Type {
	switch t {
	case "object":
		return genai.TypeObject
	case "array":
		return genai.TypeArray
	case "string":
		return genai.TypeString
	case "number":
		return genai.TypeNumber
	case "integer":
		return genai.TypeInteger
	case "boolean":
		return genai.TypeBoolean
	default:
		return genai.TypeUnspecified
	}
}
