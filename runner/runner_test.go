//
// Copyright (C) 2026 agentgraph authors.  All rights reserved.
//
// agentgraph is licensed under the Apache License Version 2.0.
//
//

package runner

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentgraph-ai/agentgraph/config"
	"github.com/agentgraph-ai/agentgraph/fewshot"
	"github.com/agentgraph-ai/agentgraph/graph/checkpoint/inmemory"
	"github.com/agentgraph-ai/agentgraph/model"
	"github.com/agentgraph-ai/agentgraph/tool"
	"github.com/agentgraph-ai/agentgraph/tool/function"
	"github.com/agentgraph-ai/agentgraph/tool/retrieval"
	"github.com/agentgraph-ai/agentgraph/toolexec"
)

const (
	testModelTag = "runner-test-model"
	testToolTag  = "runner-test-tool"
)

// capturedOptions records the binding the runner hands to the model factory.
var (
	captureMu       sync.Mutex
	capturedOptions model.Options
)

type scriptedModel struct {
	mu      sync.Mutex
	replies []model.Message
	calls   int
}

func (m *scriptedModel) Invoke(ctx context.Context, messages []model.Message) (model.Message, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	reply := m.replies[m.calls%len(m.replies)]
	m.calls++
	return reply, nil
}

func (m *scriptedModel) Info() model.Info { return model.Info{Name: testModelTag} }

var script = &scriptedModel{replies: []model.Message{
	{
		Role: model.RoleAssistant,
		ToolCalls: []model.ToolCall{{
			ID:   "call-1",
			Type: model.ToolCallType,
			Function: model.FunctionCall{
				Name:      testToolTag,
				Arguments: []byte(`{"text":"hi"}`),
			},
		}},
	},
	model.NewAssistantMessage("all done"),
}}

func init() {
	model.Register(testModelTag, func(opts model.Options) (model.Model, error) {
		captureMu.Lock()
		capturedOptions = opts
		captureMu.Unlock()
		return script, nil
	})
	tool.Register(testToolTag, func(cfg map[string]any) (tool.CallableTool, error) {
		return function.New(func(ctx context.Context, in struct {
			Text string `json:"text"`
		}) (string, error) {
			return "echo: " + in.Text, nil
		}, function.WithName(testToolTag)), nil
	})
}

func newRunner(t *testing.T, opts ...Option) *Runner {
	t.Helper()
	invoker, err := toolexec.NewInvoker()
	require.NoError(t, err)
	t.Cleanup(invoker.Close)
	r, err := New(inmemory.NewSaver(), invoker, opts...)
	require.NoError(t, err)
	return r
}

func runConfig(threadID string) *config.RunConfig {
	return &config.RunConfig{
		BotType:        config.BotTypeAgent,
		AgentType:      testModelTag,
		SystemMessage:  config.DefaultSystemMessage,
		Tools:          []config.ToolSelection{{Type: testToolTag}},
		ThreadID:       threadID,
		RecursionLimit: config.DefaultRecursionLimit,
	}
}

func TestRunnerRunsToolLoop(t *testing.T) {
	script.calls = 0
	r := newRunner(t)

	messages, err := r.Run(context.Background(), runConfig("thread-1"),
		[]model.Message{model.NewHumanMessage("say hi through the tool")})
	require.NoError(t, err)

	require.Len(t, messages, 4)
	assert.Equal(t, model.RoleTool, messages[2].Role)
	assert.Equal(t, "echo: hi", messages[2].Content)
	assert.Equal(t, "all done", messages[3].Content)

	// The tool roster was declared to the model.
	captureMu.Lock()
	defer captureMu.Unlock()
	require.Len(t, capturedOptions.Tools, 1)
	assert.Equal(t, testToolTag, capturedOptions.Tools[0].Name)
}

func TestRunnerAugmentsSystemMessageWithExamples(t *testing.T) {
	// Start at the plain reply so the run ends without tool execution.
	script.calls = 1
	sampler := fewshot.NewSampler(fewshot.DatasetSource{
		"a1": {{Input: "ping", Output: "pong"}},
	}, fewshot.WithSeed(1))
	r := newRunner(t, WithFewShotSampler(sampler))

	cfg := runConfig("thread-1")
	cfg.AssistantID = "a1"
	cfg.Tools = nil
	_, err := r.Run(context.Background(), cfg,
		[]model.Message{model.NewHumanMessage("hello")})
	require.NoError(t, err)

	// Agent runs get the trajectory rendering of the assistant's dataset.
	captureMu.Lock()
	defer captureMu.Unlock()
	assert.Contains(t, capturedOptions.SystemMessage, config.DefaultSystemMessage)
	assert.Contains(t, capturedOptions.SystemMessage, "<trajectory>")
	assert.Contains(t, capturedOptions.SystemMessage, "human: ping")
}

func TestRunnerScopesExamplesToAssistant(t *testing.T) {
	script.calls = 1
	sampler := fewshot.NewSampler(fewshot.DatasetSource{
		"a1": {{Input: "ping", Output: "pong"}},
	}, fewshot.WithSeed(1))
	r := newRunner(t, WithFewShotSampler(sampler))

	// No assistant, no augmentation.
	cfg := runConfig("thread-1")
	cfg.Tools = nil
	_, err := r.Run(context.Background(), cfg,
		[]model.Message{model.NewHumanMessage("hello")})
	require.NoError(t, err)

	captureMu.Lock()
	defer captureMu.Unlock()
	assert.Equal(t, config.DefaultSystemMessage, capturedOptions.SystemMessage)
}

func TestRunnerChatbotUsesLLMTypeAndChatExamples(t *testing.T) {
	script.calls = 1
	sampler := fewshot.NewSampler(fewshot.DatasetSource{
		"a1": {{Input: "ping", Output: "pong"}},
	}, fewshot.WithSeed(1))
	r := newRunner(t, WithFewShotSampler(sampler))

	cfg := runConfig("thread-2")
	cfg.BotType = config.BotTypeChatbot
	cfg.LLMType = testModelTag
	cfg.AgentType = "not-a-registered-tag"
	cfg.AssistantID = "a1"
	cfg.Tools = nil
	_, err := r.Run(context.Background(), cfg,
		[]model.Message{model.NewHumanMessage("hello")})
	require.NoError(t, err)

	captureMu.Lock()
	defer captureMu.Unlock()
	assert.Contains(t, capturedOptions.SystemMessage, "<original_input>\nping\n</original_input>")
	assert.NotContains(t, capturedOptions.SystemMessage, "<trajectory>")
}

func TestRunnerRetrievalRequiresStore(t *testing.T) {
	r := newRunner(t)
	cfg := runConfig("thread-1")
	cfg.AssistantID = "a1"
	cfg.Tools = []config.ToolSelection{{Type: tool.TypeRetrieval}}

	_, err := r.Run(context.Background(), cfg,
		[]model.Message{model.NewHumanMessage("look it up")})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "retrieval")
}

func TestRunnerBuildsRetrievalTool(t *testing.T) {
	script.calls = 0
	store := retrieval.NewInMemoryStore()
	store.Add("a1", retrieval.Document{ID: "d1", Content: "the capital of France is Paris"})
	r := newRunner(t, WithRetrievalStore(store))

	cfg := runConfig("thread-1")
	cfg.AssistantID = "a1"
	cfg.Tools = []config.ToolSelection{{Type: tool.TypeRetrieval}}
	cfg.Tools = append(cfg.Tools, config.ToolSelection{Type: testToolTag})

	_, err := r.Run(context.Background(), cfg,
		[]model.Message{model.NewHumanMessage("hello")})
	require.NoError(t, err)

	captureMu.Lock()
	defer captureMu.Unlock()
	names := make([]string, 0, len(capturedOptions.Tools))
	for _, declaration := range capturedOptions.Tools {
		names = append(names, declaration.Name)
	}
	assert.ElementsMatch(t, []string{tool.TypeRetrieval, testToolTag}, names)
}
