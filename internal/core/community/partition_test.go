package community

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func triangle(g *Graph, a, b, c string) {
	g.AddEdge(GraphEdge{Source: a, Target: b, Label: "near", Description: "close by"})
	g.AddEdge(GraphEdge{Source: b, Target: c, Label: "near", Description: "close by"})
	g.AddEdge(GraphEdge{Source: c, Target: a, Label: "near", Description: "close by"})
}

func TestPartition_DisconnectedTriangles(t *testing.T) {
	g := NewGraph()
	triangle(g, "a1", "a2", "a3")
	triangle(g, "b1", "b2", "b3")

	communities := NewLabelPropagation().Partition(g, 5)

	assert.Len(t, communities, 2)
	assert.Equal(t, []string{"a1", "a2", "a3"}, communities[0].Members)
	assert.Equal(t, []string{"b1", "b2", "b3"}, communities[1].Members)
	for _, c := range communities {
		assert.Equal(t, 0, c.Level)
	}
}

func TestPartition_SingletonKept(t *testing.T) {
	g := NewGraph()
	g.AddNode(GraphNode{Name: "Hotel X", Type: "Hotel"})

	communities := NewLabelPropagation().Partition(g, 5)

	assert.Len(t, communities, 1)
	assert.Equal(t, []string{"Hotel X"}, communities[0].Members)
}

func TestPartition_OversizedCliqueSplitsHierarchically(t *testing.T) {
	g := NewGraph()
	var names []string
	for i := 0; i < 7; i++ {
		names = append(names, fmt.Sprintf("n%d", i))
	}
	for i := range names {
		for j := i + 1; j < len(names); j++ {
			g.AddEdge(GraphEdge{Source: names[i], Target: names[j], Label: "linked", Description: "d"})
		}
	}

	communities := NewLabelPropagation().Partition(g, 3)

	// The whole clique is a level-0 community; its level-1 children all fit.
	assert.Equal(t, 7, len(communities[0].Members))
	assert.Equal(t, 0, communities[0].Level)
	assert.Greater(t, len(communities), 1)
	for _, c := range communities[1:] {
		assert.Equal(t, 1, c.Level)
		assert.LessOrEqual(t, len(c.Members), 3)
	}

	// Members of the oversized community belong to more than one community.
	membership := make(map[string]int)
	for _, c := range communities {
		for _, m := range c.Members {
			membership[m]++
		}
	}
	for _, n := range names {
		assert.GreaterOrEqual(t, membership[n], 2)
	}
}

func TestPartition_Deterministic(t *testing.T) {
	g := NewGraph()
	triangle(g, "a1", "a2", "a3")
	triangle(g, "b1", "b2", "b3")
	g.AddEdge(GraphEdge{Source: "a3", Target: "b1", Label: "bridge", Description: "d"})

	p := NewLabelPropagation()
	first := p.Partition(g, 5)
	second := p.Partition(g, 5)

	assert.Equal(t, first, second)
}
