package model

// RecommendationItem is the common shape produced by both the structured
// recommender and the graph-RAG recommender so the reconciler can merge them
// uniformly. Structured results carry ratings and the blended score; RAG
// results carry prose in Description with a zero score.
type RecommendationItem struct {
	ID          string  `json:"id,omitempty"`
	Name        string  `json:"name"`
	Description string  `json:"description,omitempty"`
	Address     string  `json:"address,omitempty"`
	AvgRating   float64 `json:"avg_rating,omitempty"`
	ReviewCount int64   `json:"review_count,omitempty"`
	Score       float64 `json:"score,omitempty"`
}
