package community

import (
	"sort"

	"github.com/agenthands/staygraph/internal/core/model"
)

// Partitioner wraps the clustering algorithm behind a narrow interface so the
// store depends on explicit value types, not a library's native shapes.
type Partitioner interface {
	Partition(g *Graph, maxSize int) []model.Community
}

// LabelPropagation is a hierarchical community partitioner. Each level runs
// label propagation over the (sub)graph; groups still larger than maxSize are
// partitioned again one level down until every leaf fits. All levels are
// emitted, so an entity can belong to several communities, one per level it
// appears at. Deterministic for a fixed graph: nodes are visited in sorted
// order and ties break to the lexicographically largest label.
type LabelPropagation struct {
	MaxIterations int
}

func NewLabelPropagation() *LabelPropagation {
	return &LabelPropagation{MaxIterations: 20}
}

func (p *LabelPropagation) Partition(g *Graph, maxSize int) []model.Community {
	if g.NodeCount() == 0 {
		return nil
	}
	if maxSize <= 0 {
		maxSize = 1
	}

	var communities []model.Community
	nextID := 0

	type task struct {
		members []string
		level   int
	}
	queue := []task{{members: g.Nodes(), level: -1}}

	for len(queue) > 0 {
		t := queue[0]
		queue = queue[1:]

		groups := p.propagate(g, t.members)
		if t.level >= 0 && len(groups) == 1 {
			// Propagation could not split an oversized group (e.g. a clique);
			// fall back to fixed-size slices so the recursion terminates.
			groups = chunkMembers(t.members, maxSize)
		}

		for _, members := range groups {
			communities = append(communities, model.Community{
				ID:      nextID,
				Level:   t.level + 1,
				Members: members,
			})
			nextID++
			if len(members) > maxSize {
				queue = append(queue, task{members: members, level: t.level + 1})
			}
		}
	}

	return communities
}

// propagate runs label propagation restricted to the given member set and
// returns the resulting groups, each sorted, ordered by their first member.
// Singletons are kept: an isolated entity is still a community of one.
func (p *LabelPropagation) propagate(g *Graph, members []string) [][]string {
	inSet := make(map[string]bool, len(members))
	for _, m := range members {
		inSet[m] = true
	}

	names := append([]string(nil), members...)
	sort.Strings(names)

	labels := make(map[string]string, len(names))
	for _, n := range names {
		labels[n] = n
	}

	maxIter := p.MaxIterations
	if maxIter <= 0 {
		maxIter = 20
	}

	for iter := 0; iter < maxIter; iter++ {
		changed := 0
		for _, u := range names {
			counts := make(map[string]int)
			maxCount := 0
			for _, v := range g.Neighbors(u) {
				if !inSet[v] {
					continue
				}
				label := labels[v]
				counts[label]++
				if counts[label] > maxCount {
					maxCount = counts[label]
				}
			}
			if maxCount == 0 {
				continue
			}

			var candidates []string
			for label, count := range counts {
				if count == maxCount {
					candidates = append(candidates, label)
				}
			}
			sort.Strings(candidates)
			best := candidates[len(candidates)-1]

			if labels[u] != best {
				labels[u] = best
				changed++
			}
		}
		if changed == 0 {
			break
		}
	}

	byLabel := make(map[string][]string)
	for _, n := range names {
		byLabel[labels[n]] = append(byLabel[labels[n]], n)
	}

	var groups [][]string
	for _, members := range byLabel {
		sort.Strings(members)
		groups = append(groups, members)
	}
	sort.Slice(groups, func(i, j int) bool {
		return groups[i][0] < groups[j][0]
	})
	return groups
}

func chunkMembers(members []string, size int) [][]string {
	sorted := append([]string(nil), members...)
	sort.Strings(sorted)

	var chunks [][]string
	for i := 0; i < len(sorted); i += size {
		end := i + size
		if end > len(sorted) {
			end = len(sorted)
		}
		chunks = append(chunks, sorted[i:end])
	}
	return chunks
}
