package agent

import (
	"context"
	"sync"

	"github.com/agenthands/staygraph/internal/llm"
)

// MockChatClient replays a script of responses, one per ChatWithTools call.
type MockChatClient struct {
	Script []llm.ChatResponse
	Err    error

	mu       sync.Mutex
	Calls    int
	Messages [][]llm.ChatMessage
}

func (m *MockChatClient) ChatWithTools(_ context.Context, messages []llm.ChatMessage, _ []llm.ToolSpec) (*llm.ChatResponse, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return nil, m.Err
	}
	copied := append([]llm.ChatMessage(nil), messages...)
	m.Messages = append(m.Messages, copied)
	idx := m.Calls
	m.Calls++
	if idx >= len(m.Script) {
		return &llm.ChatResponse{Content: "done"}, nil
	}
	resp := m.Script[idx]
	return &resp, nil
}
