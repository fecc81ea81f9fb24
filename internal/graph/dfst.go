package graph

// DFST decomposes a graph into strongly connected components with an
// iterative Tarjan search and orders them topologically.
//
// For every edge A->B whose endpoints lie in different components, the
// component of A comes before the component of B.
type DFST[N comparable] struct {
	graph      DirectedGraph[N]
	components [][]N
	compIndex  map[N]int
	nodeNumber map[N]int

	// backEdge is an edge that closes a cycle, when one exists.
	backEdge    [2]N
	hasBackEdge bool
}

// NewDFST runs the decomposition over g.
func NewDFST[N comparable](g DirectedGraph[N]) *DFST[N] {
	d := &DFST[N]{
		graph:      g,
		compIndex:  make(map[N]int),
		nodeNumber: make(map[N]int),
	}
	d.build()
	return d
}

type tarjanFrame[N comparable] struct {
	node  N
	out   []N
	next  int
	child N
	// hasChild is set while returning from the child search.
	hasChild bool
}

func (d *DFST[N]) build() {
	index := 0
	nodeIndex := make(map[N]int)
	lowLink := make(map[N]int)
	onStack := make(map[N]bool)
	var stack []N
	var reversed [][]N

	for _, root := range d.graph.Nodes() {
		if _, visited := nodeIndex[root]; visited {
			continue
		}

		nodeIndex[root] = index
		lowLink[root] = index
		index++
		stack = append(stack, root)
		onStack[root] = true
		calls := []tarjanFrame[N]{{node: root, out: d.graph.Out(root)}}

		for len(calls) > 0 {
			frame := &calls[len(calls)-1]

			if frame.hasChild {
				if lowLink[frame.child] < lowLink[frame.node] {
					lowLink[frame.node] = lowLink[frame.child]
				}
				frame.hasChild = false
			}

			descended := false
			for frame.next < len(frame.out) {
				w := frame.out[frame.next]
				frame.next++

				if _, visited := nodeIndex[w]; !visited {
					nodeIndex[w] = index
					lowLink[w] = index
					index++
					stack = append(stack, w)
					onStack[w] = true
					frame.child = w
					frame.hasChild = true
					calls = append(calls, tarjanFrame[N]{node: w, out: d.graph.Out(w)})
					descended = true
					break
				}
				if onStack[w] {
					if !d.hasBackEdge {
						d.backEdge = [2]N{frame.node, w}
						d.hasBackEdge = true
					}
					if nodeIndex[w] < lowLink[frame.node] {
						lowLink[frame.node] = nodeIndex[w]
					}
				}
			}
			if descended {
				continue
			}

			if lowLink[frame.node] == nodeIndex[frame.node] {
				var comp []N
				for {
					w := stack[len(stack)-1]
					stack = stack[:len(stack)-1]
					onStack[w] = false
					comp = append(comp, w)
					if w == frame.node {
						break
					}
				}
				// Keep discovery order inside a component.
				for i, j := 0, len(comp)-1; i < j; i, j = i+1, j-1 {
					comp[i], comp[j] = comp[j], comp[i]
				}
				reversed = append(reversed, comp)
			}
			calls = calls[:len(calls)-1]
		}
	}

	// Tarjan emits components sinks first.
	d.components = make([][]N, len(reversed))
	for i, comp := range reversed {
		d.components[len(reversed)-1-i] = comp
	}

	number := 0
	for i, comp := range d.components {
		for _, n := range comp {
			d.compIndex[n] = i
			d.nodeNumber[n] = number
			number++
		}
	}
}

// Components returns the strongly connected components in topological order.
func (d *DFST[N]) Components() [][]N {
	return d.components
}

// ComponentIndex returns the position of n's component in Components.
func (d *DFST[N]) ComponentIndex(n N) (int, bool) {
	i, ok := d.compIndex[n]
	return i, ok
}

// IsAcyclic reports whether the graph has no cycles, self-loops included.
func (d *DFST[N]) IsAcyclic() bool {
	return !d.hasBackEdge
}

// CircularDependency returns an edge that closes a cycle, if the graph has one.
func (d *DFST[N]) CircularDependency() (from, to N, ok bool) {
	return d.backEdge[0], d.backEdge[1], d.hasBackEdge
}

// SortedNodes returns all nodes in topological order of their components.
func (d *DFST[N]) SortedNodes() []N {
	out := make([]N, 0, len(d.nodeNumber))
	for _, comp := range d.components {
		out = append(out, comp...)
	}
	return out
}

// Compare orders nodes by their position in SortedNodes. Unknown nodes sort
// last.
func (d *DFST[N]) Compare(a, b N) int {
	na, okA := d.nodeNumber[a]
	nb, okB := d.nodeNumber[b]
	switch {
	case !okA && !okB:
		return 0
	case !okA:
		return 1
	case !okB:
		return -1
	case na < nb:
		return -1
	case na > nb:
		return 1
	default:
		return 0
	}
}
