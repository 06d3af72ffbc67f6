// Package recommend produces hotel recommendations from two sources, a
// structured Cypher query over the graph database and the GraphRAG query
// engine, and reconciles them into a single ranked list.
package recommend

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/agenthands/staygraph/internal/core/common"
	"github.com/agenthands/staygraph/internal/driver"
	"github.com/agenthands/staygraph/internal/llm"
)

const DefaultLimit = 5

// RecommendParams are the structured filters extracted from a free-text
// query. Zero values mean "no filter" except Limit, which defaults to
// DefaultLimit.
type RecommendParams struct {
	Amenities    []string `json:"amenities"`
	StayType     string   `json:"stay_type"`
	StayDuration string   `json:"stay_duration"`
	MinRating    float64  `json:"min_rating"`
	Limit        int      `json:"limit"`
}

const defaultParamsPrompt = `Extract hotel search parameters from the user query below. Respond with a single JSON object and nothing else, using exactly these fields:

- "amenities": array of amenities mentioned, chosen only from: %s
- "stay_type": one of %s, or null if not mentioned
- "stay_duration": one of %s, or null if not mentioned
- "min_rating": minimum acceptable average rating from 0 to 10, or null if not mentioned

Query: %s`

// ParamExtractor turns a free-text query into RecommendParams with one model
// call. Malformed model output degrades to empty params rather than failing
// the request.
type ParamExtractor struct {
	LLM    llm.LLMClient
	Prompt string

	log *log.Logger
}

func NewParamExtractor(client llm.LLMClient) *ParamExtractor {
	return &ParamExtractor{
		LLM:    client,
		Prompt: defaultParamsPrompt,
		log:    log.With("component", "recommend"),
	}
}

func (p *ParamExtractor) Extract(ctx context.Context, query string) (RecommendParams, error) {
	prompt := fmt.Sprintf(p.Prompt,
		quoteList(driver.AmenityNames),
		quoteList(driver.StayTypeNames),
		quoteList(driver.StayDurationNames),
		query)

	response, err := p.LLM.Generate(ctx, prompt)
	if err != nil {
		return RecommendParams{}, fmt.Errorf("parameter extraction failed: %w", err)
	}

	params, err := common.ParseJSON[RecommendParams](response)
	if err != nil {
		p.log.Warn("unparsable parameter response, using empty filters", "err", err)
		return RecommendParams{}, nil
	}
	return normalizeParams(params), nil
}

// normalizeParams keeps only values from the canonical vocabularies, matched
// case-insensitively, so a creative model answer never reaches the database
// as a filter that matches nothing.
func normalizeParams(p RecommendParams) RecommendParams {
	var amenities []string
	for _, a := range p.Amenities {
		if canonical, ok := matchVocabulary(a, driver.AmenityNames); ok {
			amenities = append(amenities, canonical)
		}
	}
	p.Amenities = amenities

	if canonical, ok := matchVocabulary(p.StayType, driver.StayTypeNames); ok {
		p.StayType = canonical
	} else {
		p.StayType = ""
	}
	if canonical, ok := matchVocabulary(p.StayDuration, driver.StayDurationNames); ok {
		p.StayDuration = canonical
	} else {
		p.StayDuration = ""
	}

	if p.MinRating < 0 {
		p.MinRating = 0
	}
	return p
}

func matchVocabulary(value string, vocabulary []string) (string, bool) {
	for _, v := range vocabulary {
		if strings.EqualFold(strings.TrimSpace(value), v) {
			return v, true
		}
	}
	return "", false
}

func quoteList(values []string) string {
	quoted := make([]string, len(values))
	for i, v := range values {
		quoted[i] = fmt.Sprintf("%q", v)
	}
	return strings.Join(quoted, ", ")
}
