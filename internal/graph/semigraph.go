package graph

// InboundSemiGraph describes a graph by its nodes and incoming edges only,
// which is how dependency data is usually available: each node knows what it
// depends on.
type InboundSemiGraph[N comparable] interface {
	Nodes() []N
	In(n N) []N
}

// SemiGraphFunc adapts a node list and an In function to InboundSemiGraph.
type SemiGraphFunc[N comparable] struct {
	NodeList []N
	InFunc   func(N) []N
}

func (s SemiGraphFunc[N]) Nodes() []N  { return s.NodeList }
func (s SemiGraphFunc[N]) In(n N) []N { return s.InFunc(n) }

type cachingSemiGraph[N comparable] struct {
	base  InboundSemiGraph[N]
	nodes []N
	in    map[N][]N
}

// CacheSemiGraph memoizes the node list and each node's In set of base.
func CacheSemiGraph[N comparable](base InboundSemiGraph[N]) InboundSemiGraph[N] {
	if c, ok := base.(*cachingSemiGraph[N]); ok {
		return c
	}
	return &cachingSemiGraph[N]{base: base, in: make(map[N][]N)}
}

func (c *cachingSemiGraph[N]) Nodes() []N {
	if c.nodes == nil {
		c.nodes = c.base.Nodes()
	}
	return c.nodes
}

func (c *cachingSemiGraph[N]) In(n N) []N {
	if in, ok := c.in[n]; ok {
		return in
	}
	in := c.base.In(n)
	c.in[n] = in
	return in
}

// Generate completes a semi-graph into a DirectedGraph by deriving every
// node's Out set from the In sets. In edges from nodes outside Nodes() are
// dropped.
func Generate[N comparable](semi InboundSemiGraph[N]) DirectedGraph[N] {
	g := NewGraph[N]()
	nodes := semi.Nodes()
	for _, n := range nodes {
		g.AddNode(n)
	}
	for _, n := range nodes {
		for _, src := range semi.In(n) {
			if g.HasNode(src) {
				g.AddEdge(src, n)
			}
		}
	}
	return g
}
