package extraction

import (
	"context"
	"sync"
)

// MockLLMClient is a test double for llm.LLMClient. Fn, when set, computes
// the response from the prompt so concurrent callers can be told apart.
type MockLLMClient struct {
	Response string
	Err      error
	Fn       func(prompt string) (string, error)

	mu      sync.Mutex
	Prompts []string
}

func (m *MockLLMClient) Generate(ctx context.Context, prompt string) (string, error) {
	m.mu.Lock()
	m.Prompts = append(m.Prompts, prompt)
	m.mu.Unlock()

	if m.Fn != nil {
		return m.Fn(prompt)
	}
	if m.Err != nil {
		return "", m.Err
	}
	return m.Response, nil
}
