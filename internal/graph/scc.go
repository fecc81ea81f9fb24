package graph

// Chunk is one strongly connected component. Its node set is fixed at
// creation.
type Chunk[N comparable] struct {
	nodes []N
	set   map[N]struct{}
}

func newChunk[N comparable](nodes []N) *Chunk[N] {
	c := &Chunk[N]{nodes: nodes, set: make(map[N]struct{}, len(nodes))}
	for _, n := range nodes {
		c.set[n] = struct{}{}
	}
	return c
}

// Nodes returns the members of the component in discovery order.
func (c *Chunk[N]) Nodes() []N {
	out := make([]N, len(c.nodes))
	copy(out, c.nodes)
	return out
}

// Contains reports whether n belongs to the component.
func (c *Chunk[N]) Contains(n N) bool {
	_, ok := c.set[n]
	return ok
}

// Len returns the number of nodes in the component.
func (c *Chunk[N]) Len() int {
	return len(c.nodes)
}

// ComputeSCCGraph condenses g into a graph of its strongly connected
// components. There is an edge from chunk A to chunk B, A != B, when some node
// of A has an edge to some node of B. Chunks appear in topological order.
func ComputeSCCGraph[N comparable](g DirectedGraph[N]) DirectedGraph[*Chunk[N]] {
	chunks, owner := chunksOf(g)

	return Generate(CacheSemiGraph[*Chunk[N]](SemiGraphFunc[*Chunk[N]]{
		NodeList: chunks,
		InFunc: func(c *Chunk[N]) []*Chunk[N] {
			var in []*Chunk[N]
			seen := make(map[*Chunk[N]]struct{})
			for _, n := range c.nodes {
				for _, src := range g.In(n) {
					from, ok := owner[src]
					if !ok || from == c {
						continue
					}
					if _, dup := seen[from]; dup {
						continue
					}
					seen[from] = struct{}{}
					in = append(in, from)
				}
			}
			return in
		},
	}))
}

// ComputeStronglyConnectedComponents returns the components of g in
// topological order.
func ComputeStronglyConnectedComponents[N comparable](g DirectedGraph[N]) []*Chunk[N] {
	chunks, _ := chunksOf(g)
	return chunks
}

func chunksOf[N comparable](g DirectedGraph[N]) ([]*Chunk[N], map[N]*Chunk[N]) {
	components := NewDFST(g).Components()
	chunks := make([]*Chunk[N], 0, len(components))
	owner := make(map[N]*Chunk[N])
	for _, comp := range components {
		c := newChunk(comp)
		chunks = append(chunks, c)
		for _, n := range comp {
			owner[n] = c
		}
	}
	return chunks, owner
}
