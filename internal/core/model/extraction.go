package model

// ExtractedEntity is one entity tuple decoded from LLM output. Name is the
// join key for community lookup; duplicates across chunks are expected and
// reconciled by name equality when the graph is built.
type ExtractedEntity struct {
	Name        string `json:"name"`
	Type        string `json:"type"`
	Description string `json:"description"`
	Attributes  string `json:"attributes,omitempty"`
}

// ExtractedRelation is one relationship tuple decoded from LLM output.
// Strength is coerced at parse time; malformed values become 0.
type ExtractedRelation struct {
	Source      string  `json:"source"`
	Target      string  `json:"target"`
	Label       string  `json:"label"`
	Strength    float64 `json:"strength"`
	Description string  `json:"description"`
	Features    string  `json:"features,omitempty"`
}

// Triple is a match of the terse `subject -> relation -> object` grammar used
// for query-time entity spotting.
type Triple struct {
	Subject  string `json:"subject"`
	Relation string `json:"relation"`
	Object   string `json:"object"`
}
