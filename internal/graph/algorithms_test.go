package graph

import (
	"sort"
	"strings"
	"testing"
)

func TestFindShortestPath(t *testing.T) {
	g := buildGraph(t, "A->B", "B->C", "A->D", "D->C")

	path := FindShortestPath[string](g, "A", "C")
	if len(path) != 3 {
		t.Fatalf("FindShortestPath(A, C) = %v, want 3 nodes", path)
	}
	if path[0] != "A" || path[2] != "C" || (path[1] != "B" && path[1] != "D") {
		t.Errorf("FindShortestPath(A, C) = %v", path)
	}
	// First discovered in BFS order.
	if path[1] != "B" {
		t.Errorf("Expected B branch to win the tie, got %v", path)
	}
}

func TestFindShortestPathEdgeCases(t *testing.T) {
	g := buildGraph(t, "A->B", "B->C", "C->A", "X->Y")

	tests := []struct {
		name          string
		start, finish string
		want          []string
	}{
		{"same node", "A", "A", []string{"A"}},
		{"unreachable", "A", "X", nil},
		{"against direction", "Y", "X", nil},
		{"around cycle", "B", "A", []string{"B", "C", "A"}},
		{"unknown start", "Q", "A", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FindShortestPath[string](g, tt.start, tt.finish)
			if !equalPath(got, tt.want) {
				t.Errorf("FindShortestPath(%s, %s) = %v, want %v", tt.start, tt.finish, got, tt.want)
			}
		})
	}
}

func cycleKeys(cycles [][]string) []string {
	keys := make([]string, len(cycles))
	for i, c := range cycles {
		keys[i] = strings.Join(c, ",")
	}
	sort.Strings(keys)
	return keys
}

func TestFindCycles(t *testing.T) {
	// Two cycles through A: A->B->A and A->C->D->A. E hangs off the side.
	g := buildGraph(t, "A->B", "B->A", "A->C", "C->D", "D->A", "D->E", "E->D")

	got := cycleKeys(FindCycles[string](g, "A"))
	want := []string{"A,B", "A,C,D"}
	if !equalPath(got, want) {
		t.Errorf("FindCycles(A) = %v, want %v", got, want)
	}

	got = cycleKeys(FindCycles[string](g, "D"))
	want = []string{"D,A,C", "D,E"}
	if !equalPath(got, want) {
		t.Errorf("FindCycles(D) = %v, want %v", got, want)
	}
}

func TestFindCyclesSelfLoopAndAcyclic(t *testing.T) {
	g := buildGraph(t, "A->A", "A->B", "B->C")

	got := FindCycles[string](g, "A")
	if len(got) != 1 || !equalPath(got[0], []string{"A"}) {
		t.Errorf("FindCycles(A) = %v, want [[A]]", got)
	}
	if got := FindCycles[string](g, "B"); len(got) != 0 {
		t.Errorf("FindCycles(B) = %v, want none", got)
	}
}

func TestFindCyclesComplete(t *testing.T) {
	// Complete digraph on 4 nodes: cycles through node 0 are every ordering
	// of every non-empty subset of {1,2,3}: 3 + 6 + 6 = 15.
	g := NewGraph[int]()
	for i := 0; i < 4; i++ {
		for j := 0; j < 4; j++ {
			if i != j {
				g.AddEdge(i, j)
			}
		}
	}
	cycles := FindCycles[int](g, 0)
	if len(cycles) != 15 {
		t.Errorf("Expected 15 cycles, got %d", len(cycles))
	}
	for _, c := range cycles {
		if len(RemovePathsWithCycles([][]int{c})) != 1 {
			t.Errorf("Cycle %v repeats a node", c)
		}
	}
}

func TestCollectOutsRecursively(t *testing.T) {
	g := buildGraph(t, "A->B", "B->C", "C->A", "C->D", "X->A")

	set := make(map[string]struct{})
	CollectOutsRecursively[string](g, "B", set)

	if len(set) != 4 {
		t.Errorf("Expected {A,B,C,D}, got %v", set)
	}
	if _, ok := set["X"]; ok {
		t.Error("X is not reachable from B")
	}

	// A pre-populated set stops expansion at known nodes.
	set = map[string]struct{}{"C": {}}
	CollectOutsRecursively[string](g, "A", set)
	if len(set) != 3 {
		t.Errorf("Expected {A,B,C}, got %v", set)
	}
}

func TestCollectOutsRecursivelyDeep(t *testing.T) {
	g := NewGraph[int]()
	const depth = 500000
	for i := 0; i < depth; i++ {
		g.AddEdge(i, i+1)
	}
	set := make(map[int]struct{})
	CollectOutsRecursively[int](g, 0, set)
	if len(set) != depth+1 {
		t.Errorf("Expected %d reachable nodes, got %d", depth+1, len(set))
	}
}

func TestRemovePathsWithCycles(t *testing.T) {
	paths := [][]string{
		{"A", "B", "C"},
		{"A", "B", "A"},
		{},
		{"X"},
	}
	got := RemovePathsWithCycles(paths)
	if len(got) != 3 {
		t.Fatalf("RemovePathsWithCycles() = %v", got)
	}
	if !equalPath(got[0], []string{"A", "B", "C"}) {
		t.Errorf("First kept path = %v", got[0])
	}
}

func TestInvertEdgeDirections(t *testing.T) {
	g := buildGraph(t, "A->B", "B->C", "A->C")
	inv := InvertEdgeDirections[string](g)

	for _, n := range g.Nodes() {
		if !equalPath(inv.Out(n), g.In(n)) {
			t.Errorf("inv.Out(%s) = %v, want %v", n, inv.Out(n), g.In(n))
		}
		if !equalPath(inv.In(n), g.Out(n)) {
			t.Errorf("inv.In(%s) = %v, want %v", n, inv.In(n), g.Out(n))
		}
	}

	back := InvertEdgeDirections(inv)
	for _, n := range g.Nodes() {
		if !equalPath(back.Out(n), g.Out(n)) || !equalPath(back.In(n), g.In(n)) {
			t.Errorf("Double inversion differs at %s", n)
		}
	}

	// The view reads through to the base graph.
	g.AddEdge("C", "D")
	if !equalPath(inv.Out("D"), []string{"C"}) {
		t.Errorf("inv.Out(D) = %v, want [C]", inv.Out("D"))
	}

	if path := FindShortestPath(inv, "C", "A"); len(path) != 2 {
		t.Errorf("Shortest path C->A on inverted graph = %v", path)
	}
}
