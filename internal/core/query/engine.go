// Package query answers a natural-language query with map-reduce over
// community summaries: spot entities in retrieved fragments, map them to
// communities, answer per community, then reduce to one response.
package query

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/agenthands/staygraph/internal/core/model"
	"github.com/agenthands/staygraph/internal/core/parser"
	"github.com/agenthands/staygraph/internal/llm"
)

const DefaultSimilarityTopK = 20

// NoInformationResponse is returned when no spotted entity maps to any
// community. The caller always gets prose, never an error, on this path.
const NoInformationResponse = "I could not find any relevant information in the knowledge graph for this query. Try rephrasing it or mentioning specific hotels or amenities."

const defaultLocalAnswerPrompt = `Given the community information below and the query, generate relevant recommendations. Focus on items that match the query intent and have strong relationships within the community.

Community Summary: %s
Query Entities: %s

Query: %s`

const defaultReducePrompt = `Combine and prioritize the following recommendations based on relevance to the query, relationship strength, and diversity. Eliminate redundant information while preserving coverage of every distinct recommendation. Provide a clear explanation for each recommendation.

Query: %s

Community Recommendations:
----------------------------------------
%s`

const defaultFormatPrompt = `Format the recommendations below in a clear, structured way: a numbered list with each recommendation's name in bold, followed by a concise description of its key features and why it fits. Match the language of the recommendations.

%s`

// Retriever is the external similarity retriever over indexed chunks.
type Retriever interface {
	Retrieve(ctx context.Context, query string, topK int) ([]string, error)
}

// CommunityProvider is the read surface of the community store.
type CommunityProvider interface {
	EntityInfo() model.EntityInfo
	CommunitySummaries(ctx context.Context) (map[int]string, error)
}

// Prompts overrides the engine's built-in prompt templates; zero values keep
// the defaults.
type Prompts struct {
	LocalAnswer string
	Reduce      string
	Format      string
}

type Engine struct {
	LLM         llm.LLMClient
	Retriever   Retriever
	Communities CommunityProvider
	TopK        int
	Prompts     Prompts

	log *log.Logger
}

func NewEngine(client llm.LLMClient, retriever Retriever, communities CommunityProvider) *Engine {
	return &Engine{
		LLM:         client,
		Retriever:   retriever,
		Communities: communities,
		TopK:        DefaultSimilarityTopK,
		log:         log.With("component", "query"),
	}
}

// SpotEntities retrieves the top-k fragments for the query and parses entity
// mentions out of them with the terse triple grammar. The result is a sorted,
// deduplicated set of entity names.
func (e *Engine) SpotEntities(ctx context.Context, query string) ([]string, error) {
	topK := e.TopK
	if topK <= 0 {
		topK = DefaultSimilarityTopK
	}

	fragments, err := e.Retriever.Retrieve(ctx, query, topK)
	if err != nil {
		return nil, fmt.Errorf("similarity retrieval failed: %w", err)
	}

	seen := make(map[string]bool)
	var entities []string
	for _, fragment := range fragments {
		for _, triple := range parser.ParseTriples(fragment) {
			for _, name := range []string{triple.Subject, triple.Object} {
				if name == "" || seen[name] {
					continue
				}
				seen[name] = true
				entities = append(entities, name)
			}
		}
	}
	sort.Strings(entities)
	return entities, nil
}

// Query runs the full map-reduce pipeline and returns the reduced answer.
func (e *Engine) Query(ctx context.Context, query string) (string, error) {
	entities, err := e.SpotEntities(ctx, query)
	if err != nil {
		return "", err
	}

	communityIDs := e.Communities.EntityInfo().Communities(entities)
	sort.Ints(communityIDs)

	summaries, err := e.Communities.CommunitySummaries(ctx)
	if err != nil {
		return "", fmt.Errorf("community summaries unavailable: %w", err)
	}

	// Map: one independent answer per matched community.
	var localAnswers []string
	for _, id := range communityIDs {
		summary, ok := summaries[id]
		if !ok {
			continue
		}
		answer, err := e.localAnswer(ctx, summary, entities, query)
		if err != nil {
			e.log.Warn("local answer failed, skipping community", "community", id, "err", err)
			continue
		}
		localAnswers = append(localAnswers, answer)
	}

	return e.reduce(ctx, query, localAnswers)
}

func (e *Engine) localAnswer(ctx context.Context, summary string, entities []string, query string) (string, error) {
	tmpl := e.Prompts.LocalAnswer
	if tmpl == "" {
		tmpl = defaultLocalAnswerPrompt
	}
	prompt := fmt.Sprintf(tmpl, summary, strings.Join(entities, ", "), query)
	return e.LLM.Generate(ctx, prompt)
}

// reduce synthesizes the local answers into one coherent response. An empty
// answer list yields the graceful no-information response without a model
// call.
func (e *Engine) reduce(ctx context.Context, query string, localAnswers []string) (string, error) {
	if len(localAnswers) == 0 {
		return NoInformationResponse, nil
	}

	tmpl := e.Prompts.Reduce
	if tmpl == "" {
		tmpl = defaultReducePrompt
	}
	prompt := fmt.Sprintf(tmpl, query, strings.Join(localAnswers, "\n"))
	answer, err := e.LLM.Generate(ctx, prompt)
	if err != nil {
		return "", fmt.Errorf("reduce step failed: %w", err)
	}
	return strings.TrimSpace(answer), nil
}

// Format is the optional presentation pass. It is stateless; callers wanting
// raw text simply skip it. A failed call falls back to the unformatted
// answer.
func (e *Engine) Format(ctx context.Context, answer string) string {
	tmpl := e.Prompts.Format
	if tmpl == "" {
		tmpl = defaultFormatPrompt
	}
	formatted, err := e.LLM.Generate(ctx, fmt.Sprintf(tmpl, answer))
	if err != nil {
		e.log.Warn("formatting pass failed, returning raw answer", "err", err)
		return answer
	}
	return strings.TrimSpace(formatted)
}
