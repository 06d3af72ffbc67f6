// Package core wires the GraphRAG stages into one pipeline: extraction,
// community building, similarity indexing, map-reduce querying and hybrid
// recommendation.
package core

import (
	"context"
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/agenthands/staygraph/internal/core/community"
	"github.com/agenthands/staygraph/internal/core/extraction"
	"github.com/agenthands/staygraph/internal/core/model"
	"github.com/agenthands/staygraph/internal/core/query"
	"github.com/agenthands/staygraph/internal/core/recommend"
)

// Indexer receives extracted chunks for similarity search.
type Indexer interface {
	IndexChunks(ctx context.Context, chunks []model.TextChunk) error
}

// Pipeline is the application facade the HTTP layer and the agent tools call
// into.
type Pipeline struct {
	Extractor  *extraction.Extractor
	Store      *community.Store
	Indexer    Indexer
	Engine     *query.Engine
	Params     *recommend.ParamExtractor
	Reconciler *recommend.Reconciler

	log *log.Logger
}

func NewPipeline(
	extractor *extraction.Extractor,
	store *community.Store,
	indexer Indexer,
	engine *query.Engine,
	params *recommend.ParamExtractor,
	reconciler *recommend.Reconciler,
) *Pipeline {
	return &Pipeline{
		Extractor:  extractor,
		Store:      store,
		Indexer:    indexer,
		Engine:     engine,
		Params:     params,
		Reconciler: reconciler,
		log:        log.With("component", "pipeline"),
	}
}

// Ingest extracts entities and relations from the given texts, merges them
// into the community graph and indexes the chunks for similarity search. It
// returns the processed chunks. Communities are not rebuilt here; callers
// batch ingests and rebuild once.
func (p *Pipeline) Ingest(ctx context.Context, texts []string) ([]model.TextChunk, error) {
	chunks := make([]model.TextChunk, len(texts))
	for i, text := range texts {
		chunks[i] = model.TextChunk{ID: uuid.New().String(), Text: text}
	}

	chunks = p.Extractor.Extract(ctx, chunks)
	p.Store.AddChunks(chunks)

	if err := p.Indexer.IndexChunks(ctx, chunks); err != nil {
		return nil, fmt.Errorf("failed to index chunks: %w", err)
	}

	p.log.Info("ingested chunks", "count", len(chunks))
	return chunks, nil
}

// BuildCommunities partitions the accumulated graph and refreshes the
// community summaries.
func (p *Pipeline) BuildCommunities(ctx context.Context) error {
	return p.Store.BuildCommunities(ctx)
}

// Answer runs the map-reduce query engine; with format set, the answer goes
// through the presentation pass as well.
func (p *Pipeline) Answer(ctx context.Context, q string, format bool) (string, error) {
	answer, err := p.Engine.Query(ctx, q)
	if err != nil {
		return "", err
	}
	if format {
		answer = p.Engine.Format(ctx, answer)
	}
	return answer, nil
}

// Recommend serves a free-text recommendation request: extract structured
// filters, gather both sources concurrently and reconcile. Parameter
// extraction failing degrades to an unfiltered structured query.
func (p *Pipeline) Recommend(ctx context.Context, q string) ([]model.RecommendationItem, error) {
	params, err := p.Params.Extract(ctx, q)
	if err != nil {
		p.log.Warn("parameter extraction unavailable, using empty filters", "err", err)
		params = recommend.RecommendParams{}
	}

	structured, rag := p.Reconciler.Gather(ctx, q, params)
	items := p.Reconciler.Reconcile(ctx, q, structured, rag)
	if items == nil {
		items = []model.RecommendationItem{}
	}
	return items, nil
}
