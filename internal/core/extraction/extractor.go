package extraction

import (
	"context"
	"fmt"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"

	"github.com/agenthands/staygraph/internal/core/model"
	"github.com/agenthands/staygraph/internal/core/parser"
	"github.com/agenthands/staygraph/internal/llm"
)

const (
	DefaultMaxPathsPerChunk = 100
	DefaultWorkers          = 4
)

// DefaultPrompt instructs the model to emit entity/relationship tuples in the
// wire grammar. The first placeholder is the triplet budget, the second the
// chunk text.
const DefaultPrompt = `-Goal-
Given a text document, identify entities, their attributes, and relationships that are relevant for making recommendations.
Extract up to %d entity-relation triplets focusing on characteristics that influence recommendations.

-Steps-
1. Identify all entities, focusing on items, users, and categories. For each entity, extract:
- entity_name: Name of the entity, capitalized
- entity_type: Type (Item, User, Category, Feature, etc.)
- entity_description: Detailed description including preferences, characteristics, and attributes relevant for recommendations
- entity_attributes: Key features that could influence recommendations (price, genre, style, etc.)
Format: ("entity"$$$$"<entity_name>"$$$$"<entity_type>"$$$$"<entity_description>"$$$$"<entity_attributes>")

2. Identify meaningful relationships between entities that could drive recommendations:
- source_entity: Source entity name
- target_entity: Target entity name
- relation: Relationship type (likes, similar_to, belongs_to, recommends, etc.)
- relationship_strength: Numerical score (0-1) indicating relationship strength
- relationship_description: Detailed explanation of why these entities are related
- recommendation_features: Specific features that make this relationship relevant for recommendations
Format: ("relationship"$$$$"<source_entity>"$$$$"<target_entity>"$$$$"<relation>"$$$$"<relationship_strength>"$$$$"<relationship_description>"$$$$"<recommendation_features>")

3. When finished, output all entities and relationships.

-Real Data-
######################
text: %s
######################
output:`

// Extractor drives the LLM over text chunks and attaches decoded entities
// and relations to each chunk.
type Extractor struct {
	LLM              llm.LLMClient
	Prompt           string
	MaxPathsPerChunk int
	Workers          int

	log *log.Logger
}

func NewExtractor(client llm.LLMClient, prompt string) *Extractor {
	if prompt == "" {
		prompt = DefaultPrompt
	}
	return &Extractor{
		LLM:              client,
		Prompt:           prompt,
		MaxPathsPerChunk: DefaultMaxPathsPerChunk,
		Workers:          DefaultWorkers,
		log:              log.With("component", "extraction"),
	}
}

// Extract runs extraction over all chunks with a bounded worker pool.
// Extraction is total: the output always has one result per input chunk, in
// input order. A failed or unparsable model call leaves that chunk with empty
// entity/relation lists; pre-existing metadata is kept and new results are
// appended, so repeated passes are additive.
func (e *Extractor) Extract(ctx context.Context, chunks []model.TextChunk) []model.TextChunk {
	out := make([]model.TextChunk, len(chunks))
	copy(out, chunks)

	workers := e.Workers
	if workers <= 0 {
		workers = DefaultWorkers
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for i := range out {
		i := i
		g.Go(func() error {
			e.extractChunk(gctx, &out[i])
			return nil
		})
	}

	// Workers never return errors; per-chunk failures degrade locally.
	_ = g.Wait()

	return out
}

func (e *Extractor) extractChunk(ctx context.Context, chunk *model.TextChunk) {
	if chunk.Entities == nil {
		chunk.Entities = []model.ExtractedEntity{}
	}
	if chunk.Relations == nil {
		chunk.Relations = []model.ExtractedRelation{}
	}

	prompt := fmt.Sprintf(e.Prompt, e.MaxPathsPerChunk, chunk.Text)
	response, err := e.LLM.Generate(ctx, prompt)
	if err != nil {
		e.log.Warn("chunk extraction failed", "chunk", chunk.ID, "err", err)
		return
	}

	entities, relations := parser.ParseExtraction(response)
	chunk.Entities = append(chunk.Entities, entities...)
	chunk.Relations = append(chunk.Relations, relations...)
}
