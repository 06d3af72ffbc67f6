package model

// TextChunk is one immutable fragment of review text. The Text never changes
// after ingestion; extraction only appends to Entities and Relations, so
// repeated extraction passes are additive.
type TextChunk struct {
	ID        string                 `json:"id"`
	Text      string                 `json:"text"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
	Entities  []ExtractedEntity      `json:"entities,omitempty"`
	Relations []ExtractedRelation    `json:"relations,omitempty"`
}
