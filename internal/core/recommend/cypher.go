package recommend

import (
	"context"
	"fmt"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"

	"github.com/agenthands/staygraph/internal/core/model"
	"github.com/agenthands/staygraph/internal/driver"
)

// CypherRecommender is the structured recommendation source. It scores hotels
// directly in the graph database with the fixed rating/popularity blend.
type CypherRecommender struct {
	Driver driver.GraphDriver
}

func NewCypherRecommender(d driver.GraphDriver) *CypherRecommender {
	return &CypherRecommender{Driver: d}
}

func (r *CypherRecommender) Recommend(ctx context.Context, params RecommendParams) ([]model.RecommendationItem, error) {
	query, queryParams := driver.BuildRecommendQuery(params.Amenities, params.StayType, params.StayDuration)
	queryParams["min_rating"] = params.MinRating
	limit := params.Limit
	if limit <= 0 {
		limit = DefaultLimit
	}
	queryParams["limit"] = limit

	result, err := r.Driver.ExecuteQuery(ctx, query, queryParams)
	if err != nil {
		return nil, fmt.Errorf("recommendation query failed: %w", err)
	}

	items := make([]model.RecommendationItem, 0, len(result.Records))
	for _, record := range result.Records {
		items = append(items, model.RecommendationItem{
			ID:          recordString(record, "hotel_id"),
			Name:        recordString(record, "name"),
			Description: recordString(record, "description"),
			Address:     recordString(record, "address"),
			AvgRating:   recordFloat(record, "avg_rating"),
			ReviewCount: recordInt(record, "review_count"),
			Score:       recordFloat(record, "score"),
		})
	}
	return items, nil
}

func recordString(record *neo4j.Record, key string) string {
	value, ok := record.Get(key)
	if !ok || value == nil {
		return ""
	}
	switch v := value.(type) {
	case string:
		return v
	case int64:
		return fmt.Sprintf("%d", v)
	default:
		return fmt.Sprintf("%v", v)
	}
}

func recordFloat(record *neo4j.Record, key string) float64 {
	value, ok := record.Get(key)
	if !ok {
		return 0
	}
	switch v := value.(type) {
	case float64:
		return v
	case int64:
		return float64(v)
	default:
		return 0
	}
}

func recordInt(record *neo4j.Record, key string) int64 {
	value, ok := record.Get(key)
	if !ok {
		return 0
	}
	switch v := value.(type) {
	case int64:
		return v
	case float64:
		return int64(v)
	default:
		return 0
	}
}
