package llm

import (
	"context"
	"fmt"
	"strings"

	"github.com/agenthands/staygraph/internal/config"
)

// Clients bundles the capabilities a provider supports. Chat is nil for
// providers without structured function calling; Embedder is nil where the
// provider has no embedding endpoint.
type Clients struct {
	LLM      LLMClient
	Embedder EmbedderClient
	Chat     ChatClient
}

func NewClients(ctx context.Context, cfg config.LLMConfig) (*Clients, error) {
	provider := strings.ToLower(cfg.Provider)

	switch provider {
	case "openai":
		c := NewOpenAIClient(cfg.APIKey, cfg.Model, cfg.EmbeddingModel, cfg.BaseURL)
		return &Clients{LLM: c, Embedder: c, Chat: c}, nil

	case "gemini":
		c, err := NewGeminiClient(ctx, cfg.APIKey, cfg.Model, cfg.EmbeddingModel)
		if err != nil {
			return nil, err
		}
		return &Clients{LLM: c, Embedder: c}, nil

	case "claude":
		c := NewClaudeClient(cfg.APIKey, cfg.Model, cfg.BaseURL)
		return &Clients{LLM: c}, nil

	case "ollama":
		// Ollama speaks the OpenAI-compatible API; route it through the
		// OpenAI client rather than a bespoke transport.
		baseURL := cfg.BaseURL
		if !strings.HasSuffix(baseURL, "/v1") {
			baseURL = fmt.Sprintf("%s/v1", strings.TrimRight(baseURL, "/"))
		}
		apiKey := cfg.APIKey
		if apiKey == "" {
			apiKey = "ollama" // ignored by Ollama but required by the client
		}
		c := NewOpenAIClient(apiKey, cfg.Model, cfg.EmbeddingModel, baseURL)
		return &Clients{LLM: c, Embedder: c, Chat: c}, nil

	default:
		return nil, fmt.Errorf("unsupported llm provider: %s", cfg.Provider)
	}
}
