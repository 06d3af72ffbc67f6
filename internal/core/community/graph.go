package community

import (
	"sort"
)

// GraphNode is a deduplicated entity. Name is the identity; later additions
// fill in type/description when the first sighting lacked them.
type GraphNode struct {
	Name        string
	Type        string
	Description string
}

// GraphEdge carries the relation label and description used later for
// community summarization.
type GraphEdge struct {
	Source      string
	Target      string
	Label       string
	Description string
}

// Graph is the lightweight in-memory entity graph, undirected, with at most
// one edge per node pair (last write wins on the edge data).
type Graph struct {
	nodes map[string]GraphNode
	adj   map[string]map[string]GraphEdge
}

func NewGraph() *Graph {
	return &Graph{
		nodes: make(map[string]GraphNode),
		adj:   make(map[string]map[string]GraphEdge),
	}
}

func (g *Graph) AddNode(n GraphNode) {
	if n.Name == "" {
		return
	}
	existing, ok := g.nodes[n.Name]
	if !ok {
		g.nodes[n.Name] = n
		g.adj[n.Name] = make(map[string]GraphEdge)
		return
	}
	if existing.Type == "" || existing.Type == "unknown" {
		existing.Type = n.Type
	}
	if existing.Description == "" {
		existing.Description = n.Description
	}
	g.nodes[n.Name] = existing
}

// AddEdge inserts an undirected edge. Endpoints that were never seen as
// entities are created with type "unknown" rather than rejected.
func (g *Graph) AddEdge(e GraphEdge) {
	if e.Source == "" || e.Target == "" || e.Source == e.Target {
		return
	}
	for _, name := range []string{e.Source, e.Target} {
		if _, ok := g.nodes[name]; !ok {
			g.AddNode(GraphNode{Name: name, Type: "unknown"})
		}
	}
	g.adj[e.Source][e.Target] = e
	g.adj[e.Target][e.Source] = e
}

func (g *Graph) NodeCount() int {
	return len(g.nodes)
}

// Nodes returns all node names in sorted order.
func (g *Graph) Nodes() []string {
	names := make([]string, 0, len(g.nodes))
	for name := range g.nodes {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Neighbors returns the sorted neighbor names of a node.
func (g *Graph) Neighbors(name string) []string {
	out := make([]string, 0, len(g.adj[name]))
	for n := range g.adj[name] {
		out = append(out, n)
	}
	sort.Strings(out)
	return out
}

// Node returns the node with the given name, if present.
func (g *Graph) Node(name string) (GraphNode, bool) {
	n, ok := g.nodes[name]
	return n, ok
}

// Edge returns the edge data between two nodes, if any.
func (g *Graph) Edge(a, b string) (GraphEdge, bool) {
	e, ok := g.adj[a][b]
	return e, ok
}
