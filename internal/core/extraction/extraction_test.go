package extraction

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/agenthands/staygraph/internal/core/model"
)

func TestExtract_AttachesParsedTuples(t *testing.T) {
	mock := &MockLLMClient{
		Response: `("entity"$$$$"Hotel X"$$$$"Hotel"$$$$"Family hotel"$$$$"AC, TV")
("relationship"$$$$"Families"$$$$"Hotel X"$$$$"likes"$$$$"0.8"$$$$"Families love it"$$$$"AC")`,
	}
	extractor := NewExtractor(mock, "")

	chunks := []model.TextChunk{{ID: "c1", Text: "Hotel X: has air conditioning and TV, loved by families"}}
	out := extractor.Extract(context.Background(), chunks)

	assert.Len(t, out, 1)
	assert.Len(t, out[0].Entities, 1)
	assert.Equal(t, "Hotel X", out[0].Entities[0].Name)
	assert.Len(t, out[0].Relations, 1)
	assert.Equal(t, "likes", out[0].Relations[0].Label)
}

func TestExtract_TotalOnFailure(t *testing.T) {
	mock := &MockLLMClient{Err: errors.New("model unavailable")}
	extractor := NewExtractor(mock, "")

	chunks := []model.TextChunk{
		{ID: "c1", Text: "first"},
		{ID: "c2", Text: "second"},
		{ID: "c3", Text: "third"},
	}
	out := extractor.Extract(context.Background(), chunks)

	assert.Len(t, out, len(chunks))
	for _, c := range out {
		assert.NotNil(t, c.Entities)
		assert.NotNil(t, c.Relations)
		assert.Empty(t, c.Entities)
		assert.Empty(t, c.Relations)
	}
}

func TestExtract_ResultsAttributedToOwnChunk(t *testing.T) {
	// Response names the entity after the chunk text so completion order
	// cannot matter.
	mock := &MockLLMClient{
		Fn: func(prompt string) (string, error) {
			for i := 0; i < 8; i++ {
				marker := fmt.Sprintf("hotel%d", i)
				if strings.Contains(prompt, marker) {
					return fmt.Sprintf(`("entity"$$$$"%s"$$$$"Hotel"$$$$"d"$$$$"a")`, marker), nil
				}
			}
			return "", errors.New("unknown chunk")
		},
	}
	extractor := NewExtractor(mock, "")
	extractor.Workers = 3

	var chunks []model.TextChunk
	for i := 0; i < 8; i++ {
		chunks = append(chunks, model.TextChunk{ID: fmt.Sprintf("c%d", i), Text: fmt.Sprintf("review of hotel%d", i)})
	}

	out := extractor.Extract(context.Background(), chunks)

	assert.Len(t, out, 8)
	for i, c := range out {
		assert.Len(t, c.Entities, 1)
		assert.Equal(t, fmt.Sprintf("hotel%d", i), c.Entities[0].Name)
	}
}

func TestExtract_AppendsToExistingMetadata(t *testing.T) {
	mock := &MockLLMClient{
		Response: `("entity"$$$$"New Entity"$$$$"Feature"$$$$"d"$$$$"a")`,
	}
	extractor := NewExtractor(mock, "")

	chunks := []model.TextChunk{{
		ID:       "c1",
		Text:     "text",
		Entities: []model.ExtractedEntity{{Name: "Old Entity", Type: "Hotel"}},
	}}
	out := extractor.Extract(context.Background(), chunks)

	assert.Len(t, out[0].Entities, 2)
	assert.Equal(t, "Old Entity", out[0].Entities[0].Name)
	assert.Equal(t, "New Entity", out[0].Entities[1].Name)
}

func TestExtract_PromptCarriesBudgetAndText(t *testing.T) {
	mock := &MockLLMClient{Response: ""}
	extractor := NewExtractor(mock, "")
	extractor.MaxPathsPerChunk = 7

	extractor.Extract(context.Background(), []model.TextChunk{{ID: "c1", Text: "some review text"}})

	assert.Len(t, mock.Prompts, 1)
	assert.Contains(t, mock.Prompts[0], "up to 7 entity-relation triplets")
	assert.Contains(t, mock.Prompts[0], "some review text")
}
