package recommend

import (
	"context"
	"regexp"
	"strings"

	"github.com/agenthands/staygraph/internal/core/model"
)

// QueryEngine is the GraphRAG answering surface the RAG side consumes.
type QueryEngine interface {
	Query(ctx context.Context, query string) (string, error)
	Format(ctx context.Context, answer string) string
}

// RAGRecommender turns a map-reduce answer into recommendation items by
// running the formatting pass and parsing its numbered list.
type RAGRecommender struct {
	Engine QueryEngine
}

func NewRAGRecommender(engine QueryEngine) *RAGRecommender {
	return &RAGRecommender{Engine: engine}
}

func (r *RAGRecommender) Recommend(ctx context.Context, query string) ([]model.RecommendationItem, error) {
	answer, err := r.Engine.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	formatted := r.Engine.Format(ctx, answer)
	return ParseRecommendationList(formatted), nil
}

var listItemPattern = regexp.MustCompile(`(?m)^\s*\d+[.)]\s+(.*\S)\s*$`)

// ParseRecommendationList extracts items from a numbered list. Each line may
// carry the name in bold and an optional description after a colon or dash.
// Prose without a numbered list yields no items.
func ParseRecommendationList(text string) []model.RecommendationItem {
	var items []model.RecommendationItem
	for _, match := range listItemPattern.FindAllStringSubmatch(text, -1) {
		name, description := splitListItem(match[1])
		if name == "" {
			continue
		}
		items = append(items, model.RecommendationItem{Name: name, Description: description})
	}
	return items
}

func splitListItem(line string) (name, description string) {
	if strings.HasPrefix(line, "**") {
		if end := strings.Index(line[2:], "**"); end >= 0 {
			name = strings.TrimSpace(line[2 : 2+end])
			description = trimItemSeparator(line[4+end:])
			return name, description
		}
	}
	for _, sep := range []string{":", " - "} {
		if i := strings.Index(line, sep); i > 0 {
			return strings.TrimSpace(line[:i]), strings.TrimSpace(line[i+len(sep):])
		}
	}
	return strings.TrimSpace(line), ""
}

func trimItemSeparator(s string) string {
	return strings.TrimSpace(strings.TrimLeft(s, " :-–"))
}
