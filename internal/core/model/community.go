package model

// Community is a cluster of entity names produced by hierarchical
// partitioning. IDs are stable within one build but not across rebuilds.
type Community struct {
	ID      int      `json:"id"`
	Level   int      `json:"level"`
	Members []string `json:"members"`
}

// CommunitySummary is the LLM synthesis of one community's internal edges.
// Summary may be empty for isolated nodes or for a failed summarization call.
type CommunitySummary struct {
	CommunityID int    `json:"community_id"`
	Summary     string `json:"summary"`
}

// EntityInfo maps an entity name to the set of community ids it belongs to.
// An entity appears once per hierarchy level it survives, so the set may hold
// more than one id.
type EntityInfo map[string]map[int]struct{}

// Add records membership of entity in the given community.
func (e EntityInfo) Add(entity string, communityID int) {
	ids, ok := e[entity]
	if !ok {
		ids = make(map[int]struct{})
		e[entity] = ids
	}
	ids[communityID] = struct{}{}
}

// Communities returns the union of community ids for the given entities.
// Entities without membership are ignored.
func (e EntityInfo) Communities(entities []string) []int {
	seen := make(map[int]struct{})
	var ids []int
	for _, entity := range entities {
		for id := range e[entity] {
			if _, ok := seen[id]; ok {
				continue
			}
			seen[id] = struct{}{}
			ids = append(ids, id)
		}
	}
	return ids
}
