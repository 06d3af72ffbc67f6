package community

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/charmbracelet/log"

	"github.com/agenthands/staygraph/internal/core/model"
	"github.com/agenthands/staygraph/internal/llm"
)

const DefaultMaxClusterSize = 5

// DefaultSummaryPrompt synthesizes a community's edge details into prose.
// The placeholder receives the newline-joined
// "entity1 -> entity2 -> relation -> relationship_description" lines.
const DefaultSummaryPrompt = `You are provided with a set of relationships from a knowledge graph, each represented as entity1->entity2->relation->relationship_description. Your task is to create a summary of these relationships. The summary should include the names of the entities involved and a concise synthesis of the relationship descriptions. The goal is to capture the most critical and relevant details that highlight the nature and significance of each relationship. Ensure that the summary is coherent and integrates the information in a way that emphasizes the key aspects of the relationships.

Relationships:
%s`

// Store accumulates extracted entities and relations into a graph, partitions
// it into bounded communities and caches one summary per community.
//
// BuildCommunities is an exclusive phase: it is the only writer of the
// community state, and it replaces that state wholesale, so summaries from an
// earlier build never leak into a later one. Reads go through the same lock.
type Store struct {
	LLM            llm.LLMClient
	Partitioner    Partitioner
	MaxClusterSize int
	Prompt         string

	mu          sync.RWMutex
	graph       *Graph
	communities []model.Community
	entityInfo  model.EntityInfo
	summaries   map[int]string
	built       bool

	log *log.Logger
}

func NewStore(client llm.LLMClient, prompt string, maxClusterSize int) *Store {
	if prompt == "" {
		prompt = DefaultSummaryPrompt
	}
	if maxClusterSize <= 0 {
		maxClusterSize = DefaultMaxClusterSize
	}
	return &Store{
		LLM:            client,
		Partitioner:    NewLabelPropagation(),
		MaxClusterSize: maxClusterSize,
		Prompt:         prompt,
		graph:          NewGraph(),
		log:            log.With("component", "community"),
	}
}

// AddEntities merges extracted entities into the graph by name equality.
func (s *Store) AddEntities(entities []model.ExtractedEntity) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, e := range entities {
		s.graph.AddNode(GraphNode{Name: e.Name, Type: e.Type, Description: e.Description})
	}
}

// AddRelations merges extracted relations into the graph. Endpoints never
// seen as entities are created with type "unknown".
func (s *Store) AddRelations(relations []model.ExtractedRelation) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, r := range relations {
		s.graph.AddEdge(GraphEdge{
			Source:      r.Source,
			Target:      r.Target,
			Label:       r.Label,
			Description: r.Description,
		})
	}
}

// AddChunks merges the extraction metadata of all chunks.
func (s *Store) AddChunks(chunks []model.TextChunk) {
	for _, c := range chunks {
		s.AddEntities(c.Entities)
		s.AddRelations(c.Relations)
	}
}

// BuildCommunities partitions the current graph and summarizes every
// community. A failed summarization is logged and recorded as an empty
// summary; the community is never dropped from the map. Previous community
// state is replaced, never merged.
func (s *Store) BuildCommunities(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.buildLocked(ctx)
}

func (s *Store) buildLocked(ctx context.Context) error {
	communities := s.Partitioner.Partition(s.graph, s.MaxClusterSize)

	entityInfo := make(model.EntityInfo)
	summaries := make(map[int]string, len(communities))

	for _, c := range communities {
		for _, member := range c.Members {
			entityInfo.Add(member, c.ID)
		}
	}

	for _, c := range communities {
		if err := ctx.Err(); err != nil {
			return err
		}

		details := s.collectDetails(c)
		if details == "" {
			summaries[c.ID] = ""
			continue
		}

		summary, err := s.LLM.Generate(ctx, fmt.Sprintf(s.Prompt, details))
		if err != nil {
			s.log.Error("community summarization failed, recording empty summary",
				"community", c.ID, "err", err)
			summaries[c.ID] = ""
			continue
		}
		summaries[c.ID] = strings.TrimSpace(summary)
	}

	s.communities = communities
	s.entityInfo = entityInfo
	s.summaries = summaries
	s.built = true

	s.log.Info("built communities", "count", len(communities), "entities", s.graph.NodeCount())
	return nil
}

// collectDetails gathers the textual detail of every edge internal to the
// community, one line per node/neighbor direction. Communities without
// internal edges fall back to the member nodes themselves so isolated
// entities still get a usable summary.
func (s *Store) collectDetails(c model.Community) string {
	inSet := make(map[string]bool, len(c.Members))
	for _, m := range c.Members {
		inSet[m] = true
	}

	var lines []string
	for _, member := range c.Members {
		for _, neighbor := range s.graph.Neighbors(member) {
			if !inSet[neighbor] {
				continue
			}
			e, ok := s.graph.Edge(member, neighbor)
			if !ok {
				continue
			}
			lines = append(lines, fmt.Sprintf("%s -> %s -> %s -> %s.", member, neighbor, e.Label, e.Description))
		}
	}

	if len(lines) == 0 {
		for _, member := range c.Members {
			node, ok := s.graph.Node(member)
			if !ok {
				continue
			}
			line := node.Name
			if node.Type != "" && node.Type != "unknown" {
				line = fmt.Sprintf("%s (%s)", node.Name, node.Type)
			}
			if node.Description != "" {
				line = fmt.Sprintf("%s: %s", line, node.Description)
			}
			lines = append(lines, line+".")
		}
	}

	return strings.Join(lines, "\n")
}

// CommunitySummaries returns the summary cache, building it on first use.
func (s *Store) CommunitySummaries(ctx context.Context) (map[int]string, error) {
	s.mu.RLock()
	if s.built {
		out := copySummaries(s.summaries)
		s.mu.RUnlock()
		return out, nil
	}
	s.mu.RUnlock()

	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.built {
		if err := s.buildLocked(ctx); err != nil {
			return nil, err
		}
	}
	return copySummaries(s.summaries), nil
}

// EntityInfo returns the entity-to-community membership of the last build.
func (s *Store) EntityInfo() model.EntityInfo {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make(model.EntityInfo, len(s.entityInfo))
	for name, ids := range s.entityInfo {
		copied := make(map[int]struct{}, len(ids))
		for id := range ids {
			copied[id] = struct{}{}
		}
		out[name] = copied
	}
	return out
}

// Communities returns the communities of the last build.
func (s *Store) Communities() []model.Community {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]model.Community(nil), s.communities...)
}

func copySummaries(in map[int]string) map[int]string {
	out := make(map[int]string, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}
