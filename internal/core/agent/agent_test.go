package agent

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agenthands/staygraph/internal/llm"
)

func echoTool(name string) Tool {
	return Tool{
		Name:        name,
		Description: "echoes its input",
		Schema:      map[string]any{"type": "object"},
		Handler: func(_ context.Context, args map[string]any) (string, error) {
			if v, ok := args["query"].(string); ok {
				return "echo: " + v, nil
			}
			return "echo", nil
		},
	}
}

func TestRun_DirectAnswerWithoutTools(t *testing.T) {
	chat := &MockChatClient{Script: []llm.ChatResponse{{Content: "Hi there!"}}}
	tools := NewRegistry()
	tools.Register(echoTool("recommend_hotels"))
	a := New(chat, tools, "You are a hotel assistant.")

	result, err := a.Run(context.Background(), "hello")
	require.NoError(t, err)
	assert.Equal(t, "Hi there!", result.Output)
	assert.Empty(t, result.Sources)
	assert.Equal(t, 1, chat.Calls)

	// The system prompt leads every request.
	require.NotEmpty(t, chat.Messages[0])
	assert.Equal(t, llm.RoleSystem, chat.Messages[0][0].Role)
}

func TestRun_ToolCallFeedsBackAndRecordsSource(t *testing.T) {
	chat := &MockChatClient{Script: []llm.ChatResponse{
		{ToolCalls: []llm.ToolCall{{ID: "call-1", Name: "recommend_hotels", Arguments: `{"query": "pool"}`}}},
		{Content: "Here are your hotels."},
	}}
	tools := NewRegistry()
	tools.Register(echoTool("recommend_hotels"))
	a := New(chat, tools, "")

	result, err := a.Run(context.Background(), "find me a hotel with a pool")
	require.NoError(t, err)
	assert.Equal(t, "Here are your hotels.", result.Output)
	require.Len(t, result.Sources, 1)
	assert.Equal(t, "recommend_hotels", result.Sources[0].ToolName)
	assert.Equal(t, "call-1", result.Sources[0].CallID)
	assert.Equal(t, "echo: pool", result.Sources[0].Content)

	// The second request carries the tool message.
	second := chat.Messages[1]
	last := second[len(second)-1]
	assert.Equal(t, llm.RoleTool, last.Role)
	assert.Equal(t, "echo: pool", last.Content)
	assert.Equal(t, "call-1", last.ToolCallID)
}

func TestRun_UnknownToolBecomesVisibleMessage(t *testing.T) {
	chat := &MockChatClient{Script: []llm.ChatResponse{
		{ToolCalls: []llm.ToolCall{{ID: "c1", Name: "book_flight", Arguments: `{}`}}},
		{Content: "Sorry, I can only help with hotels."},
	}}
	a := New(chat, NewRegistry(), "")

	result, err := a.Run(context.Background(), "book me a flight")
	require.NoError(t, err)
	assert.Equal(t, "Sorry, I can only help with hotels.", result.Output)
	assert.Empty(t, result.Sources)

	second := chat.Messages[1]
	last := second[len(second)-1]
	assert.Equal(t, llm.RoleTool, last.Role)
	assert.Equal(t, "Tool book_flight does not exist", last.Content)
}

func TestRun_HandlerErrorContinuesLoop(t *testing.T) {
	chat := &MockChatClient{Script: []llm.ChatResponse{
		{ToolCalls: []llm.ToolCall{{ID: "c1", Name: "flaky", Arguments: `{}`}}},
		{Content: "recovered"},
	}}
	tools := NewRegistry()
	tools.Register(Tool{
		Name: "flaky",
		Handler: func(context.Context, map[string]any) (string, error) {
			return "", errors.New("backend down")
		},
	})
	a := New(chat, tools, "")

	result, err := a.Run(context.Background(), "try the flaky tool")
	require.NoError(t, err)
	assert.Equal(t, "recovered", result.Output)
	assert.Empty(t, result.Sources)

	second := chat.Messages[1]
	last := second[len(second)-1]
	assert.Contains(t, last.Content, "Encountered error in tool call: backend down")
}

func TestRun_InvalidArgumentsReported(t *testing.T) {
	chat := &MockChatClient{Script: []llm.ChatResponse{
		{ToolCalls: []llm.ToolCall{{ID: "c1", Name: "recommend_hotels", Arguments: "not json"}}},
		{Content: "ok"},
	}}
	tools := NewRegistry()
	tools.Register(echoTool("recommend_hotels"))
	a := New(chat, tools, "")

	result, err := a.Run(context.Background(), "hi")
	require.NoError(t, err)
	assert.Equal(t, "ok", result.Output)
	assert.Empty(t, result.Sources)
}

func TestRun_SourcesResetBetweenRuns(t *testing.T) {
	chat := &MockChatClient{Script: []llm.ChatResponse{
		{ToolCalls: []llm.ToolCall{{ID: "c1", Name: "recommend_hotels", Arguments: `{"query": "pool"}`}}},
		{Content: "first answer"},
		{Content: "second answer"},
	}}
	tools := NewRegistry()
	tools.Register(echoTool("recommend_hotels"))
	a := New(chat, tools, "")

	first, err := a.Run(context.Background(), "find hotels")
	require.NoError(t, err)
	require.Len(t, first.Sources, 1)

	second, err := a.Run(context.Background(), "thanks")
	require.NoError(t, err)
	assert.Equal(t, "second answer", second.Output)
	assert.Empty(t, second.Sources)

	// Memory persists: the third request still contains the first user turn.
	third := chat.Messages[2]
	assert.Equal(t, "find hotels", third[0].Content)
}

func TestRun_TimeoutSurfaces(t *testing.T) {
	blocked := make(chan struct{})
	chat := &MockChatClient{Script: []llm.ChatResponse{
		{ToolCalls: []llm.ToolCall{{ID: "c1", Name: "slow", Arguments: `{}`}}},
	}}
	tools := NewRegistry()
	tools.Register(Tool{
		Name: "slow",
		Handler: func(ctx context.Context, _ map[string]any) (string, error) {
			select {
			case <-ctx.Done():
				return "", ctx.Err()
			case <-blocked:
				return "never", nil
			}
		},
	})
	a := New(chat, tools, "")
	a.Timeout = 20 * time.Millisecond

	start := time.Now()
	_, err := a.Run(context.Background(), "slow request")
	require.Error(t, err)
	assert.Less(t, time.Since(start), 5*time.Second)
	close(blocked)
}

func TestRun_MissingCallIDGetsGenerated(t *testing.T) {
	chat := &MockChatClient{Script: []llm.ChatResponse{
		{ToolCalls: []llm.ToolCall{{Name: "recommend_hotels", Arguments: `{}`}}},
		{Content: "ok"},
	}}
	tools := NewRegistry()
	tools.Register(echoTool("recommend_hotels"))
	a := New(chat, tools, "")

	result, err := a.Run(context.Background(), "hi")
	require.NoError(t, err)
	require.Len(t, result.Sources, 1)
	assert.NotEmpty(t, result.Sources[0].CallID)
}
