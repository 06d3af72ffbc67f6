package config

import (
	"fmt"
	"os"

	"github.com/pelletier/go-toml/v2"
)

type LLMConfig struct {
	Provider       string `toml:"provider"`
	Model          string `toml:"model"`
	EmbeddingModel string `toml:"embedding_model"`
	APIKey         string `toml:"api_key"`
	BaseURL        string `toml:"base_url"`
}

type Neo4jConfig struct {
	URI      string `toml:"uri"`
	User     string `toml:"user"`
	Password string `toml:"password"`
}

// VectorConfig points at the Postgres instance holding the pgvector chunk
// index.
type VectorConfig struct {
	DSN   string `toml:"dsn"`
	Table string `toml:"table"`
}

type GraphRAGConfig struct {
	MaxClusterSize    int `toml:"max_cluster_size"`
	MaxPathsPerChunk  int `toml:"max_paths_per_chunk"`
	SimilarityTopK    int `toml:"similarity_top_k"`
	ExtractionWorkers int `toml:"extraction_workers"`
}

type AgentConfig struct {
	TimeoutSeconds int `toml:"timeout_seconds"`
}

// Prompts overrides the built-in prompt templates. Empty fields fall back to
// the defaults compiled into each component.
type Prompts struct {
	Extraction       string `toml:"extraction"`
	CommunitySummary string `toml:"community_summary"`
	LocalAnswer      string `toml:"local_answer"`
	Reduce           string `toml:"reduce"`
	Format           string `toml:"format"`
	Params           string `toml:"params"`
}

type Config struct {
	LLM      LLMConfig      `toml:"llm"`
	Neo4j    Neo4jConfig    `toml:"neo4j"`
	Vector   VectorConfig   `toml:"vector"`
	GraphRAG GraphRAGConfig `toml:"graphrag"`
	Agent    AgentConfig    `toml:"agent"`
	Prompts  Prompts        `toml:"prompts"`
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file '%s': %w", path, err)
	}

	var cfg Config
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse TOML: %w", err)
	}

	cfg.ApplyEnv()
	return &cfg, nil
}

// ApplyEnv overrides file config with environment variables where present.
// Secrets normally arrive this way rather than through the TOML file.
func (c *Config) ApplyEnv() {
	setIfPresent(&c.LLM.Provider, "LLM_PROVIDER")
	setIfPresent(&c.LLM.Model, "LLM_MODEL")
	setIfPresent(&c.LLM.EmbeddingModel, "LLM_EMBEDDING_MODEL")
	setIfPresent(&c.LLM.APIKey, "LLM_API_KEY")
	setIfPresent(&c.LLM.BaseURL, "LLM_BASE_URL")

	setIfPresent(&c.Neo4j.URI, "NEO4J_URI")
	setIfPresent(&c.Neo4j.User, "NEO4J_USERNAME")
	setIfPresent(&c.Neo4j.Password, "NEO4J_PASSWORD")

	setIfPresent(&c.Vector.DSN, "VECTOR_DSN")
}

func setIfPresent(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}
