package graph

import (
	"errors"
	"fmt"
)

// Sentinel errors for graph validation.
var (
	// ErrNodeNotFound is returned when a node is expected in a graph but is
	// not one of its Nodes.
	ErrNodeNotFound = errors.New("node not found")

	// ErrInconsistentEdges is returned when Out and In disagree about an edge.
	ErrInconsistentEdges = errors.New("inconsistent in/out edges")
)

// Validate checks that every edge endpoint is a node of g and that each edge
// appears in both Out of its source and In of its target.
func Validate[N comparable](g DirectedGraph[N]) error {
	nodes := g.Nodes()
	known := make(map[N]struct{}, len(nodes))
	for _, n := range nodes {
		known[n] = struct{}{}
	}

	type edge struct{ from, to N }
	outSet := make(map[edge]struct{})
	for _, n := range nodes {
		for _, m := range g.Out(n) {
			if _, ok := known[m]; !ok {
				return fmt.Errorf("edge %v -> %v: %w: %v", n, m, ErrNodeNotFound, m)
			}
			outSet[edge{n, m}] = struct{}{}
		}
	}

	inCount := 0
	for _, n := range nodes {
		seen := make(map[N]struct{})
		for _, m := range g.In(n) {
			if _, ok := known[m]; !ok {
				return fmt.Errorf("edge %v -> %v: %w: %v", m, n, ErrNodeNotFound, m)
			}
			if _, ok := outSet[edge{m, n}]; !ok {
				return fmt.Errorf("%w: %v in In(%v) but %v not in Out(%v)", ErrInconsistentEdges, m, n, n, m)
			}
			if _, dup := seen[m]; !dup {
				seen[m] = struct{}{}
				inCount++
			}
		}
	}

	if inCount != len(outSet) {
		for e := range outSet {
			if !contains(g.In(e.to), e.from) {
				return fmt.Errorf("%w: %v in Out(%v) but %v not in In(%v)", ErrInconsistentEdges, e.to, e.from, e.from, e.to)
			}
		}
	}
	return nil
}

// RequireNodes returns ErrNodeNotFound for the first of nodes missing from g.
func RequireNodes[N comparable](g DirectedGraph[N], nodes ...N) error {
	known := make(map[N]struct{})
	for _, n := range g.Nodes() {
		known[n] = struct{}{}
	}
	for _, n := range nodes {
		if _, ok := known[n]; !ok {
			return fmt.Errorf("%w: %v", ErrNodeNotFound, n)
		}
	}
	return nil
}

func contains[N comparable](list []N, n N) bool {
	for _, m := range list {
		if m == n {
			return true
		}
	}
	return false
}
