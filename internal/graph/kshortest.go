package graph

import (
	"strconv"
	"strings"

	"modgraph/internal/progress"
)

// FindKShortestPaths returns up to k loopless paths from start to finish in
// non-decreasing length order (Yen's algorithm over unweighted edges).
//
// The indicator is checked before every spur-path search and on every node
// the underlying searches dequeue. When it reports cancellation the search
// stops and returns progress.ErrProcessCanceled with no paths.
func FindKShortestPaths[N comparable](g DirectedGraph[N], start, finish N, k int, indicator progress.Indicator) ([][]N, error) {
	if indicator == nil {
		indicator = progress.Never
	}
	if k <= 0 {
		return [][]N{}, nil
	}
	if start == finish {
		return [][]N{{start}}, nil
	}

	y := &yen[N]{g: g, indicator: indicator, ids: make(map[N]int)}

	first, err := y.search(start, finish, nil, nil)
	if err != nil {
		return nil, err
	}
	if first == nil {
		return [][]N{}, nil
	}

	accepted := [][]N{first}
	seen := map[string]struct{}{y.key(first): {}}
	var candidates [][]N

	for len(accepted) < k {
		prev := accepted[len(accepted)-1]

		for i := 0; i < len(prev)-1; i++ {
			if err := indicator.CheckCanceled(); err != nil {
				return nil, err
			}

			spur := prev[i]
			root := prev[:i+1]

			removedEdges := make(map[[2]int]struct{})
			for _, p := range accepted {
				if len(p) > i+1 && samePrefix(p, root) {
					removedEdges[[2]int{y.id(p[i]), y.id(p[i+1])}] = struct{}{}
				}
			}
			removedNodes := make(map[N]struct{}, i)
			for _, n := range root[:i] {
				removedNodes[n] = struct{}{}
			}

			spurPath, err := y.search(spur, finish, removedNodes, removedEdges)
			if err != nil {
				return nil, err
			}
			if spurPath == nil {
				continue
			}

			total := make([]N, 0, i+len(spurPath))
			total = append(total, root[:i]...)
			total = append(total, spurPath...)

			key := y.key(total)
			if _, dup := seen[key]; dup {
				continue
			}
			seen[key] = struct{}{}
			candidates = append(candidates, total)
		}

		if len(candidates) == 0 {
			break
		}

		best := 0
		for j := 1; j < len(candidates); j++ {
			if len(candidates[j]) < len(candidates[best]) {
				best = j
			}
		}
		accepted = append(accepted, candidates[best])
		candidates = append(candidates[:best], candidates[best+1:]...)
	}

	return accepted, nil
}

type yen[N comparable] struct {
	g         DirectedGraph[N]
	indicator progress.Indicator
	ids       map[N]int
}

func (y *yen[N]) id(n N) int {
	if id, ok := y.ids[n]; ok {
		return id
	}
	id := len(y.ids)
	y.ids[n] = id
	return id
}

func (y *yen[N]) key(path []N) string {
	var sb strings.Builder
	for i, n := range path {
		if i > 0 {
			sb.WriteByte(',')
		}
		sb.WriteString(strconv.Itoa(y.id(n)))
	}
	return sb.String()
}

// search is a breadth-first shortest path that skips removed nodes and edges.
func (y *yen[N]) search(start, finish N, removedNodes map[N]struct{}, removedEdges map[[2]int]struct{}) ([]N, error) {
	parent := map[N]N{}
	visited := map[N]bool{start: true}
	queue := []N{start}

	for len(queue) > 0 {
		if err := y.indicator.CheckCanceled(); err != nil {
			return nil, err
		}
		current := queue[0]
		queue = queue[1:]

		for _, next := range y.g.Out(current) {
			if visited[next] {
				continue
			}
			if _, removed := removedNodes[next]; removed {
				continue
			}
			if len(removedEdges) > 0 {
				if _, removed := removedEdges[[2]int{y.id(current), y.id(next)}]; removed {
					continue
				}
			}
			visited[next] = true
			parent[next] = current
			if next == finish {
				return tracePath(parent, start, finish), nil
			}
			queue = append(queue, next)
		}
	}
	return nil, nil
}

func samePrefix[N comparable](path, prefix []N) bool {
	if len(path) < len(prefix) {
		return false
	}
	for i := range prefix {
		if path[i] != prefix[i] {
			return false
		}
	}
	return true
}
