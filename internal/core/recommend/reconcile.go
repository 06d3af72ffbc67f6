package recommend

import (
	"context"
	"fmt"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"

	"github.com/agenthands/staygraph/internal/core/model"
	"github.com/agenthands/staygraph/internal/llm"
)

// StructuredSource produces recommendations from explicit filters.
type StructuredSource interface {
	Recommend(ctx context.Context, params RecommendParams) ([]model.RecommendationItem, error)
}

// RAGSource produces recommendations from the free-text query.
type RAGSource interface {
	Recommend(ctx context.Context, query string) ([]model.RecommendationItem, error)
}

// Reconciler gathers both recommendation sources concurrently and merges
// their results with an LLM rerank. Either source failing degrades that side
// to empty rather than failing the request.
type Reconciler struct {
	Structured StructuredSource
	RAG        RAGSource
	Reranker   *llm.Reranker

	log *log.Logger
}

func NewReconciler(structured StructuredSource, rag RAGSource, reranker *llm.Reranker) *Reconciler {
	return &Reconciler{
		Structured: structured,
		RAG:        rag,
		Reranker:   reranker,
		log:        log.With("component", "recommend"),
	}
}

// Gather runs both sources concurrently. It never returns an error: a failed
// side is logged and contributes nothing.
func (r *Reconciler) Gather(ctx context.Context, query string, params RecommendParams) (structured, rag []model.RecommendationItem) {
	var g errgroup.Group
	g.Go(func() error {
		items, err := r.Structured.Recommend(ctx, params)
		if err != nil {
			r.log.Warn("structured recommendations unavailable", "err", err)
			return nil
		}
		structured = items
		return nil
	})
	g.Go(func() error {
		items, err := r.RAG.Recommend(ctx, query)
		if err != nil {
			r.log.Warn("rag recommendations unavailable", "err", err)
			return nil
		}
		rag = items
		return nil
	})
	g.Wait()
	return structured, rag
}

// Reconcile merges the two result lists. With only one non-empty side that
// side passes through untouched. Otherwise the combined list, structured
// results first, is reranked; an unusable ranking keeps the combined order
// with no items dropped or duplicated.
func (r *Reconciler) Reconcile(ctx context.Context, query string, structured, rag []model.RecommendationItem) []model.RecommendationItem {
	switch {
	case len(structured) == 0:
		return rag
	case len(rag) == 0:
		return structured
	}

	combined := make([]model.RecommendationItem, 0, len(structured)+len(rag))
	combined = append(combined, structured...)
	combined = append(combined, rag...)

	docs := make([]string, len(combined))
	for i, item := range combined {
		docs[i] = formatItemDoc(item)
	}

	indices, err := r.Reranker.Rank(ctx, query, docs)
	if err != nil {
		r.log.Warn("rerank failed, keeping combined order", "err", err)
		return combined
	}
	if len(indices) == 0 {
		return combined
	}

	ranked := make([]model.RecommendationItem, 0, len(combined))
	used := make(map[int]bool, len(indices))
	for _, i := range indices {
		ranked = append(ranked, combined[i])
		used[i] = true
	}
	// Items the model left out keep their original relative order at the end.
	for i, item := range combined {
		if !used[i] {
			ranked = append(ranked, item)
		}
	}
	return ranked
}

func formatItemDoc(item model.RecommendationItem) string {
	if item.Description == "" {
		return item.Name
	}
	return fmt.Sprintf("%s: %s", item.Name, item.Description)
}
