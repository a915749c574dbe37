package service

type nodeSet map[string]struct{}

// RelationshipGraph is a directed supplier→buyer graph. Edges are recorded once
// per ordered pair; only the structure matters. It is not safe for concurrent use;
// RelationshipScorer serializes access to it.
type RelationshipGraph struct {
	out map[string]nodeSet
	in  map[string]nodeSet
}

// NewRelationshipGraph creates an empty graph.
func NewRelationshipGraph() *RelationshipGraph {
	return &RelationshipGraph{
		out: make(map[string]nodeSet),
		in:  make(map[string]nodeSet),
	}
}

// HasEdge reports whether from→to is present.
func (g *RelationshipGraph) HasEdge(from, to string) bool {
	_, ok := g.out[from][to]
	return ok
}

// AddEdge records from→to and reports whether the edge was new.
func (g *RelationshipGraph) AddEdge(from, to string) bool {
	if g.HasEdge(from, to) {
		return false
	}
	if g.out[from] == nil {
		g.out[from] = make(nodeSet)
	}
	if g.in[to] == nil {
		g.in[to] = make(nodeSet)
	}
	g.out[from][to] = struct{}{}
	g.in[to][from] = struct{}{}
	return true
}

// Degree returns in-degree plus out-degree over distinct edges. A self-loop
// counts twice.
func (g *RelationshipGraph) Degree(node string) int {
	return len(g.out[node]) + len(g.in[node])
}

// DegreeWith returns the degree node would have once from→to is recorded,
// without recording it.
func (g *RelationshipGraph) DegreeWith(node, from, to string) int {
	degree := g.Degree(node)
	if g.HasEdge(from, to) {
		return degree
	}
	if from == node {
		degree++
	}
	if to == node {
		degree++
	}
	return degree
}

// NodeCount returns the number of parties touching at least one edge.
func (g *RelationshipGraph) NodeCount() int {
	nodes := make(nodeSet, len(g.out)+len(g.in))
	for n := range g.out {
		nodes[n] = struct{}{}
	}
	for n := range g.in {
		nodes[n] = struct{}{}
	}
	return len(nodes)
}

// EdgeCount returns the number of distinct edges.
func (g *RelationshipGraph) EdgeCount() int {
	count := 0
	for _, targets := range g.out {
		count += len(targets)
	}
	return count
}
