// Package graph provides a directed-graph abstraction and the analyses run
// over it: shortest and k-shortest paths, cycle enumeration, strongly
// connected components and their condensation, reachability, and ranking.
//
// Algorithms consume the DirectedGraph interface, so callers can adapt their
// own node types (modules, build targets) without copying them into a Graph.
// A graph must not change while an algorithm runs over it. Unknown nodes are
// treated as having no edges; use Validate to check a graph up front.
package graph

// DirectedGraph is the read-only view every algorithm works on.
//
// Implementations must keep both edge directions consistent: B is in Out(A)
// if and only if A is in In(B).
type DirectedGraph[N comparable] interface {
	Nodes() []N
	In(n N) []N
	Out(n N) []N
}

// Graph is a mutable adjacency-list graph. Nodes and edges keep insertion
// order; duplicate edges are ignored.
type Graph[N comparable] struct {
	nodes   []N
	nodeIdx map[N]int

	// outEdges[i] and inEdges[i] hold neighbor indices of node i.
	outEdges [][]int
	inEdges  [][]int

	edgeSet  map[[2]int]struct{}
	numEdges int
}

// NewGraph creates an empty graph.
func NewGraph[N comparable]() *Graph[N] {
	return &Graph[N]{
		nodeIdx: make(map[N]int),
		edgeSet: make(map[[2]int]struct{}),
	}
}

// AddNode adds a node if it doesn't exist and returns its index.
func (g *Graph[N]) AddNode(n N) int {
	if idx, ok := g.nodeIdx[n]; ok {
		return idx
	}
	idx := len(g.nodes)
	g.nodes = append(g.nodes, n)
	g.nodeIdx[n] = idx
	g.outEdges = append(g.outEdges, nil)
	g.inEdges = append(g.inEdges, nil)
	return idx
}

// AddEdge adds a directed edge from src to dst, adding missing nodes.
func (g *Graph[N]) AddEdge(src, dst N) {
	s := g.AddNode(src)
	d := g.AddNode(dst)
	key := [2]int{s, d}
	if _, dup := g.edgeSet[key]; dup {
		return
	}
	g.edgeSet[key] = struct{}{}
	g.outEdges[s] = append(g.outEdges[s], d)
	g.inEdges[d] = append(g.inEdges[d], s)
	g.numEdges++
}

// HasNode reports whether n is in the graph.
func (g *Graph[N]) HasNode(n N) bool {
	_, ok := g.nodeIdx[n]
	return ok
}

// HasEdge reports whether the edge src->dst exists.
func (g *Graph[N]) HasEdge(src, dst N) bool {
	s, ok := g.nodeIdx[src]
	if !ok {
		return false
	}
	d, ok := g.nodeIdx[dst]
	if !ok {
		return false
	}
	_, ok = g.edgeSet[[2]int{s, d}]
	return ok
}

// NumNodes returns the number of nodes in the graph.
func (g *Graph[N]) NumNodes() int {
	return len(g.nodes)
}

// NumEdges returns the total number of edges.
func (g *Graph[N]) NumEdges() int {
	return g.numEdges
}

func (g *Graph[N]) Nodes() []N {
	out := make([]N, len(g.nodes))
	copy(out, g.nodes)
	return out
}

func (g *Graph[N]) Out(n N) []N {
	idx, ok := g.nodeIdx[n]
	if !ok {
		return nil
	}
	return g.resolve(g.outEdges[idx])
}

func (g *Graph[N]) In(n N) []N {
	idx, ok := g.nodeIdx[n]
	if !ok {
		return nil
	}
	return g.resolve(g.inEdges[idx])
}

func (g *Graph[N]) resolve(indices []int) []N {
	if len(indices) == 0 {
		return nil
	}
	out := make([]N, len(indices))
	for i, idx := range indices {
		out[i] = g.nodes[idx]
	}
	return out
}

// Copy builds a Graph holding the same nodes and edges as src.
func Copy[N comparable](src DirectedGraph[N]) *Graph[N] {
	g := NewGraph[N]()
	nodes := src.Nodes()
	for _, n := range nodes {
		g.AddNode(n)
	}
	for _, n := range nodes {
		for _, m := range src.Out(n) {
			g.AddEdge(n, m)
		}
	}
	return g
}

// Stats summarizes a graph.
type Stats struct {
	TotalNodes   int     `json:"totalNodes"`
	TotalEdges   int     `json:"totalEdges"`
	SelfLoops    int     `json:"selfLoops"`
	AvgOutDegree float64 `json:"avgOutDegree"`
}

// ComputeStats returns node, edge, and degree counts for g.
func ComputeStats[N comparable](g DirectedGraph[N]) Stats {
	var stats Stats
	for _, n := range g.Nodes() {
		stats.TotalNodes++
		for _, m := range g.Out(n) {
			stats.TotalEdges++
			if m == n {
				stats.SelfLoops++
			}
		}
	}
	if stats.TotalNodes > 0 {
		stats.AvgOutDegree = float64(stats.TotalEdges) / float64(stats.TotalNodes)
	}
	return stats
}
