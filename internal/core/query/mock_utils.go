package query

import (
	"context"
	"sync"

	"github.com/agenthands/staygraph/internal/core/model"
)

// MockLLMClient is a scriptable llm.LLMClient for tests.
type MockLLMClient struct {
	Response string
	Err      error
	Fn       func(prompt string) (string, error)

	mu      sync.Mutex
	Calls   int
	Prompts []string
}

func (m *MockLLMClient) Generate(_ context.Context, prompt string) (string, error) {
	m.mu.Lock()
	m.Calls++
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

// MockRetriever returns fixed fragments regardless of the query.
type MockRetriever struct {
	Fragments []string
	Err       error

	LastQuery string
	LastTopK  int
}

func (m *MockRetriever) Retrieve(_ context.Context, query string, topK int) ([]string, error) {
	m.LastQuery = query
	m.LastTopK = topK
	return m.Fragments, m.Err
}

// MockCommunityProvider serves a fixed membership map and summary set.
type MockCommunityProvider struct {
	Info      model.EntityInfo
	Summaries map[int]string
	Err       error
}

func (m *MockCommunityProvider) EntityInfo() model.EntityInfo {
	return m.Info
}

func (m *MockCommunityProvider) CommunitySummaries(context.Context) (map[int]string, error) {
	return m.Summaries, m.Err
}
