package llm

import (
	"context"
)

// Chat roles.
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
	RoleTool      = "tool"
)

// ChatMessage is one turn in a chat conversation. Tool-role messages carry
// the originating call id and tool name; assistant messages may carry the
// tool invocations the model requested.
type ChatMessage struct {
	Role       string     `json:"role"`
	Content    string     `json:"content"`
	ToolCallID string     `json:"tool_call_id,omitempty"`
	Name       string     `json:"name,omitempty"`
	ToolCalls  []ToolCall `json:"tool_calls,omitempty"`
}

// ToolCall is a request from the model to invoke a named tool.
type ToolCall struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Arguments string `json:"arguments"` // JSON-encoded keyword arguments
}

// ToolSpec describes a callable tool to the model.
type ToolSpec struct {
	Name        string         `json:"name"`
	Description string         `json:"description"`
	Parameters  map[string]any `json:"parameters"`
}

// ChatResponse is the model's reply to a chat-with-tools request. When
// ToolCalls is empty, Content is the final answer.
type ChatResponse struct {
	Content   string
	ToolCalls []ToolCall
}

type LLMClient interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

type EmbedderClient interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}

// ChatClient is implemented by providers that support structured function
// calling. The agent loop requires it; everything else runs on LLMClient.
type ChatClient interface {
	ChatWithTools(ctx context.Context, messages []ChatMessage, tools []ToolSpec) (*ChatResponse, error)
}
