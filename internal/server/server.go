// Package server exposes the pipeline over HTTP: ingestion, community
// builds, GraphRAG queries, hybrid recommendations and the conversational
// agent.
package server

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gin-gonic/gin"

	"github.com/agenthands/staygraph/internal/config"
	"github.com/agenthands/staygraph/internal/core"
	"github.com/agenthands/staygraph/internal/core/agent"
	"github.com/agenthands/staygraph/internal/core/community"
	"github.com/agenthands/staygraph/internal/core/extraction"
	"github.com/agenthands/staygraph/internal/core/query"
	"github.com/agenthands/staygraph/internal/core/recommend"
	"github.com/agenthands/staygraph/internal/driver"
	"github.com/agenthands/staygraph/internal/llm"
	"github.com/agenthands/staygraph/internal/retriever"
)

const agentSystemPrompt = `You are a hotel recommendation assistant. Use the recommend_hotels tool for hotel searches with concrete preferences, and the graph_rag_query tool for open questions about hotels, guests and amenities. Answer directly when no tool is needed.`

type Server struct {
	router   *gin.Engine
	pipeline *core.Pipeline
	agent    *agent.Agent

	graph   driver.GraphDriver
	vectors *retriever.VectorStore
}

// New connects every backing service and assembles the pipeline. Unreachable
// databases are fatal; callers abort startup on error.
func New(ctx context.Context, cfg *config.Config) (*Server, error) {
	graph, err := driver.NewNeo4jDriver(cfg.Neo4j.URI, cfg.Neo4j.User, cfg.Neo4j.Password)
	if err != nil {
		return nil, err
	}
	if err := graph.EnsureSchema(ctx); err != nil {
		return nil, fmt.Errorf("failed to ensure graph schema: %w", err)
	}

	clients, err := llm.NewClients(ctx, cfg.LLM)
	if err != nil {
		return nil, err
	}
	if clients.Embedder == nil {
		return nil, fmt.Errorf("provider %q does not support embeddings, which the retriever requires", cfg.LLM.Provider)
	}

	vectors, err := retriever.NewVectorStore(ctx, cfg.Vector.DSN, cfg.Vector.Table, clients.Embedder)
	if err != nil {
		return nil, err
	}

	extractor := extraction.NewExtractor(clients.LLM, cfg.Prompts.Extraction)
	if cfg.GraphRAG.MaxPathsPerChunk > 0 {
		extractor.MaxPathsPerChunk = cfg.GraphRAG.MaxPathsPerChunk
	}
	if cfg.GraphRAG.ExtractionWorkers > 0 {
		extractor.Workers = cfg.GraphRAG.ExtractionWorkers
	}

	store := community.NewStore(clients.LLM, cfg.Prompts.CommunitySummary, cfg.GraphRAG.MaxClusterSize)

	engine := query.NewEngine(clients.LLM, vectors, store)
	if cfg.GraphRAG.SimilarityTopK > 0 {
		engine.TopK = cfg.GraphRAG.SimilarityTopK
	}
	engine.Prompts = query.Prompts{
		LocalAnswer: cfg.Prompts.LocalAnswer,
		Reduce:      cfg.Prompts.Reduce,
		Format:      cfg.Prompts.Format,
	}

	params := recommend.NewParamExtractor(clients.LLM)
	if cfg.Prompts.Params != "" {
		params.Prompt = cfg.Prompts.Params
	}

	reconciler := recommend.NewReconciler(
		recommend.NewCypherRecommender(graph),
		recommend.NewRAGRecommender(engine),
		llm.NewReranker(clients.LLM),
	)

	pipeline := core.NewPipeline(extractor, store, vectors, engine, params, reconciler)

	var chatAgent *agent.Agent
	if clients.Chat != nil {
		chatAgent = agent.New(clients.Chat, newToolRegistry(pipeline), agentSystemPrompt)
		if cfg.Agent.TimeoutSeconds > 0 {
			chatAgent.Timeout = time.Duration(cfg.Agent.TimeoutSeconds) * time.Second
		}
	} else {
		log.Warn("provider does not support function calling, /chat disabled", "provider", cfg.LLM.Provider)
	}

	s := newServer(pipeline, chatAgent)
	s.graph = graph
	s.vectors = vectors
	return s, nil
}

func newServer(pipeline *core.Pipeline, chatAgent *agent.Agent) *Server {
	s := &Server{
		router:   gin.Default(),
		pipeline: pipeline,
		agent:    chatAgent,
	}
	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	s.router.GET("/health", s.handleHealth)
	s.router.POST("/chunks", s.handleIngest)
	s.router.POST("/communities/build", s.handleBuildCommunities)
	s.router.POST("/query", s.handleQuery)
	s.router.POST("/recommend", s.handleRecommend)
	s.router.POST("/chat", s.handleChat)
}

func (s *Server) Run(addr string) error {
	log.Info("starting server", "addr", addr)
	return s.router.Run(addr)
}

func (s *Server) Close(ctx context.Context) {
	if s.vectors != nil {
		s.vectors.Close()
	}
	if s.graph != nil {
		if err := s.graph.Close(ctx); err != nil {
			log.Error("failed to close graph driver", "err", err)
		}
	}
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "healthy"})
}

type ingestRequest struct {
	Texts []string `json:"texts" binding:"required"`
}

func (s *Server) handleIngest(c *gin.Context) {
	var req ingestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	chunks, err := s.pipeline.Ingest(c.Request.Context(), req.Texts)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	ids := make([]string, len(chunks))
	entities := 0
	for i, chunk := range chunks {
		ids[i] = chunk.ID
		entities += len(chunk.Entities)
	}
	c.JSON(http.StatusOK, gin.H{"chunk_ids": ids, "entities_extracted": entities})
}

func (s *Server) handleBuildCommunities(c *gin.Context) {
	if err := s.pipeline.BuildCommunities(c.Request.Context()); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	communities := s.pipeline.Store.Communities()
	c.JSON(http.StatusOK, gin.H{"communities": len(communities)})
}

type queryRequest struct {
	Query  string `json:"query" binding:"required"`
	Format bool   `json:"format"`
}

func (s *Server) handleQuery(c *gin.Context) {
	var req queryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	answer, err := s.pipeline.Answer(c.Request.Context(), req.Query, req.Format)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"answer": answer})
}

type recommendRequest struct {
	Query string `json:"query" binding:"required"`
}

func (s *Server) handleRecommend(c *gin.Context) {
	var req recommendRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	items, err := s.pipeline.Recommend(c.Request.Context(), req.Query)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"recommendations": items})
}

type chatRequest struct {
	Message string `json:"message" binding:"required"`
}

func (s *Server) handleChat(c *gin.Context) {
	if s.agent == nil {
		c.JSON(http.StatusNotImplemented, gin.H{"error": "chat requires a provider with function calling support"})
		return
	}

	var req chatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, err := s.agent.Run(c.Request.Context(), req.Message)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"response": result.Output, "sources": result.Sources})
}

// newToolRegistry exposes the pipeline to the agent. Both tools take the
// user's request as free text; the pipeline handles parameter extraction.
func newToolRegistry(pipeline *core.Pipeline) *agent.Registry {
	registry := agent.NewRegistry()

	registry.Register(agent.Tool{
		Name: "recommend_hotels",
		Description: fmt.Sprintf(
			"Search for hotel recommendations. Understands amenities (%s), stay types (%s) and stay durations (%s).",
			joinQuoted(driver.AmenityNames), joinQuoted(driver.StayTypeNames), joinQuoted(driver.StayDurationNames)),
		Schema: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"query": map[string]any{
					"type":        "string",
					"description": "The hotel search request, including any amenity, stay type, duration or rating preferences",
				},
			},
			"required": []string{"query"},
		},
		Handler: func(ctx context.Context, args map[string]any) (string, error) {
			q, _ := args["query"].(string)
			if q == "" {
				return "", fmt.Errorf("query argument is required")
			}
			items, err := pipeline.Recommend(ctx, q)
			if err != nil {
				return "", err
			}
			encoded, err := json.Marshal(items)
			if err != nil {
				return "", err
			}
			return string(encoded), nil
		},
	})

	registry.Register(agent.Tool{
		Name:        "graph_rag_query",
		Description: "Answer open questions about hotels, guests and amenities from the knowledge graph.",
		Schema: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"query": map[string]any{
					"type":        "string",
					"description": "The question to answer",
				},
			},
			"required": []string{"query"},
		},
		Handler: func(ctx context.Context, args map[string]any) (string, error) {
			q, _ := args["query"].(string)
			if q == "" {
				return "", fmt.Errorf("query argument is required")
			}
			return pipeline.Answer(ctx, q, false)
		},
	})

	return registry
}

func joinQuoted(values []string) string {
	out := ""
	for i, v := range values {
		if i > 0 {
			out += ", "
		}
		out += fmt.Sprintf("%q", v)
	}
	return out
}
