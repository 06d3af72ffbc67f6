package recommend

import (
	"context"
	"sync"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"

	"github.com/agenthands/staygraph/internal/core/model"
)

// MockLLMClient is a scriptable llm.LLMClient for tests.
type MockLLMClient struct {
	Response string
	Err      error

	mu      sync.Mutex
	Calls   int
	Prompts []string
}

func (m *MockLLMClient) Generate(_ context.Context, prompt string) (string, error) {
	m.mu.Lock()
	m.Calls++
	m.Prompts = append(m.Prompts, prompt)
	m.mu.Unlock()
	if m.Err != nil {
		return "", m.Err
	}
	return m.Response, nil
}

// MockGraphDriver returns a fixed eager result and records the last query.
type MockGraphDriver struct {
	Result neo4j.EagerResult
	Err    error

	LastQuery  string
	LastParams map[string]interface{}
}

func (m *MockGraphDriver) ExecuteQuery(_ context.Context, query string, params map[string]interface{}) (neo4j.EagerResult, error) {
	m.LastQuery = query
	m.LastParams = params
	return m.Result, m.Err
}

func (m *MockGraphDriver) EnsureSchema(context.Context) error { return nil }

func (m *MockGraphDriver) Close(context.Context) error { return nil }

type mockStructuredSource struct {
	items []model.RecommendationItem
	err   error
}

func (m *mockStructuredSource) Recommend(context.Context, RecommendParams) ([]model.RecommendationItem, error) {
	return m.items, m.err
}

type mockRAGSource struct {
	items []model.RecommendationItem
	err   error
}

func (m *mockRAGSource) Recommend(context.Context, string) ([]model.RecommendationItem, error) {
	return m.items, m.err
}
