package graph

// FindShortestPath returns a shortest path from start to finish, both
// included, using breadth-first search. Among equally short paths the first
// one discovered wins. It returns nil when finish is unreachable and [start]
// when start == finish.
func FindShortestPath[N comparable](g DirectedGraph[N], start, finish N) []N {
	if start == finish {
		return []N{start}
	}

	parent := map[N]N{}
	visited := map[N]bool{start: true}
	queue := []N{start}

	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]

		for _, next := range g.Out(current) {
			if visited[next] {
				continue
			}
			visited[next] = true
			parent[next] = current
			if next == finish {
				return tracePath(parent, start, finish)
			}
			queue = append(queue, next)
		}
	}
	return nil
}

func tracePath[N comparable](parent map[N]N, start, finish N) []N {
	path := []N{finish}
	for n := finish; n != start; {
		n = parent[n]
		path = append(path, n)
	}
	for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
		path[i], path[j] = path[j], path[i]
	}
	return path
}

// FindCycles returns every simple cycle that passes through node. Each cycle
// starts at node and lists the nodes in edge order without repeating node at
// the end; a self-loop yields [node]. The number of cycles can be exponential
// in the size of the graph.
func FindCycles[N comparable](g DirectedGraph[N], node N) [][]N {
	// Only nodes that can reach node back can lie on a cycle through it.
	canReturn := make(map[N]struct{})
	CollectOutsRecursively(InvertEdgeDirections(g), node, canReturn)

	type frame struct {
		out  []N
		next int
	}

	var cycles [][]N
	path := []N{node}
	onPath := map[N]bool{node: true}
	stack := []frame{{out: distinct(g.Out(node))}}

	for len(stack) > 0 {
		top := &stack[len(stack)-1]
		if top.next == len(top.out) {
			stack = stack[:len(stack)-1]
			delete(onPath, path[len(path)-1])
			path = path[:len(path)-1]
			continue
		}

		w := top.out[top.next]
		top.next++

		if w == node {
			cycle := make([]N, len(path))
			copy(cycle, path)
			cycles = append(cycles, cycle)
			continue
		}
		if onPath[w] {
			continue
		}
		if _, ok := canReturn[w]; !ok {
			continue
		}
		path = append(path, w)
		onPath[w] = true
		stack = append(stack, frame{out: distinct(g.Out(w))})
	}
	return cycles
}

// CollectOutsRecursively adds start and every node reachable from it to set.
// Nodes already in set are not expanded again, so a caller can accumulate
// reachability from several starts into one set.
func CollectOutsRecursively[N comparable](g DirectedGraph[N], start N, set map[N]struct{}) {
	if _, seen := set[start]; seen {
		return
	}
	set[start] = struct{}{}
	stack := []N{start}
	for len(stack) > 0 {
		n := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		for _, m := range g.Out(n) {
			if _, seen := set[m]; seen {
				continue
			}
			set[m] = struct{}{}
			stack = append(stack, m)
		}
	}
}

// RemovePathsWithCycles drops every path that visits some node more than once.
func RemovePathsWithCycles[N comparable](paths [][]N) [][]N {
	result := make([][]N, 0, len(paths))
	for _, path := range paths {
		set := make(map[N]struct{}, len(path))
		for _, n := range path {
			set[n] = struct{}{}
		}
		if len(set) == len(path) {
			result = append(result, path)
		}
	}
	return result
}

type invertedGraph[N comparable] struct {
	base DirectedGraph[N]
}

// InvertEdgeDirections returns a view of g with every edge reversed. The view
// reads through to g; inverting it again returns g itself.
func InvertEdgeDirections[N comparable](g DirectedGraph[N]) DirectedGraph[N] {
	if inv, ok := g.(invertedGraph[N]); ok {
		return inv.base
	}
	return invertedGraph[N]{base: g}
}

func (v invertedGraph[N]) Nodes() []N  { return v.base.Nodes() }
func (v invertedGraph[N]) In(n N) []N  { return v.base.Out(n) }
func (v invertedGraph[N]) Out(n N) []N { return v.base.In(n) }

func distinct[N comparable](list []N) []N {
	if len(list) < 2 {
		return list
	}
	seen := make(map[N]struct{}, len(list))
	out := make([]N, 0, len(list))
	for _, n := range list {
		if _, ok := seen[n]; ok {
			continue
		}
		seen[n] = struct{}{}
		out = append(out, n)
	}
	return out
}
