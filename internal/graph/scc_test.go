package graph

import (
	"sort"
	"testing"
)

func sortedChunk(c *Chunk[string]) []string {
	nodes := c.Nodes()
	sort.Strings(nodes)
	return nodes
}

func TestComputeStronglyConnectedComponents(t *testing.T) {
	g := buildGraph(t, "A->B", "B->C", "C->A", "A->D")

	chunks := ComputeStronglyConnectedComponents[string](g)
	if len(chunks) != 2 {
		t.Fatalf("Expected 2 chunks, got %d", len(chunks))
	}
	if !equalPath(sortedChunk(chunks[0]), []string{"A", "B", "C"}) {
		t.Errorf("chunks[0] = %v, want {A,B,C}", chunks[0].Nodes())
	}
	if !equalPath(sortedChunk(chunks[1]), []string{"D"}) {
		t.Errorf("chunks[1] = %v, want {D}", chunks[1].Nodes())
	}
	if !chunks[0].Contains("B") || chunks[0].Contains("D") {
		t.Error("Contains should reflect chunk membership")
	}
	if chunks[0].Len() != 3 {
		t.Errorf("chunks[0].Len() = %d, want 3", chunks[0].Len())
	}
}

func TestEveryNodeInExactlyOneChunk(t *testing.T) {
	g := buildGraph(t, "A->B", "B->A", "B->C", "C->D", "D->C", "D->E", "F->F")
	chunks := ComputeStronglyConnectedComponents[string](g)

	owner := make(map[string]int)
	for i, c := range chunks {
		for _, n := range c.Nodes() {
			if prev, dup := owner[n]; dup {
				t.Errorf("Node %s in chunks %d and %d", n, prev, i)
			}
			owner[n] = i
		}
	}
	if len(owner) != g.NumNodes() {
		t.Errorf("Chunks cover %d nodes, want %d", len(owner), g.NumNodes())
	}

	// Same chunk iff mutually reachable.
	for _, a := range g.Nodes() {
		for _, b := range g.Nodes() {
			mutual := FindShortestPath[string](g, a, b) != nil && FindShortestPath[string](g, b, a) != nil
			if mutual != (owner[a] == owner[b]) {
				t.Errorf("%s,%s: mutual=%v sameChunk=%v", a, b, mutual, owner[a] == owner[b])
			}
		}
	}
}

func TestComputeSCCGraph(t *testing.T) {
	// {A,B} -> {C,D} -> {E}, plus {A,B} -> {E}
	g := buildGraph(t, "A->B", "B->A", "B->C", "C->D", "D->C", "D->E", "A->E")
	scc := ComputeSCCGraph[string](g)

	chunks := scc.Nodes()
	if len(chunks) != 3 {
		t.Fatalf("Expected 3 chunks, got %d", len(chunks))
	}

	byNode := make(map[string]*Chunk[string])
	for _, c := range chunks {
		for _, n := range c.Nodes() {
			byNode[n] = c
		}
	}
	ab, cd, e := byNode["A"], byNode["C"], byNode["E"]

	out := scc.Out(ab)
	if len(out) != 2 || !containsChunk(out, cd) || !containsChunk(out, e) {
		t.Errorf("Out({A,B}) = %d chunks, want {C,D} and {E}", len(out))
	}
	if containsChunk(scc.Out(cd), cd) {
		t.Error("Chunk graph must not contain self-loops")
	}
	if in := scc.In(e); len(in) != 2 {
		t.Errorf("In({E}) has %d chunks, want 2", len(in))
	}
	if len(scc.Out(e)) != 0 {
		t.Error("{E} should have no outgoing edges")
	}

	if err := Validate(scc); err != nil {
		t.Errorf("SCC graph should be consistent: %v", err)
	}
	if !NewDFST(scc).IsAcyclic() {
		t.Error("SCC graph must be acyclic")
	}
	if chunks[0] != ab || chunks[2] != e {
		t.Error("Chunks should be in topological order")
	}
}

func containsChunk(list []*Chunk[string], c *Chunk[string]) bool {
	for _, x := range list {
		if x == c {
			return true
		}
	}
	return false
}
