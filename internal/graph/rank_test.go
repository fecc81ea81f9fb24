package graph

import (
	"context"
	"strconv"
	"testing"
)

func TestRankBasic(t *testing.T) {
	// A -> B -> C
	// A -> D
	// B -> D
	g := NewGraph[string]()
	g.AddEdge("A", "B")
	g.AddEdge("B", "C")
	g.AddEdge("A", "D")
	g.AddEdge("B", "D")

	opts := DefaultRankOptions()
	opts.TopK = 10

	result, err := Rank[string](context.Background(), g, []string{"A"}, opts)
	if err != nil {
		t.Fatalf("Rank failed: %v", err)
	}

	if len(result.Results) != 4 {
		t.Fatalf("Expected 4 results, got %d", len(result.Results))
	}
	if result.Results[0].Node != "A" {
		t.Errorf("Expected seed A as top result, got %s", result.Results[0].Node)
	}
	if result.TotalNodes != 4 {
		t.Errorf("Expected 4 nodes, got %d", result.TotalNodes)
	}
}

func TestRankUnreachableNodesScoreZero(t *testing.T) {
	g := NewGraph[string]()
	g.AddEdge("A", "B")
	g.AddEdge("X", "Y")

	result, err := Rank[string](context.Background(), g, []string{"A"}, DefaultRankOptions())
	if err != nil {
		t.Fatalf("Rank failed: %v", err)
	}
	for _, r := range result.Results {
		if r.Node == "X" || r.Node == "Y" {
			t.Errorf("Unreachable node %s should not be ranked", r.Node)
		}
	}
}

func TestRankMultipleSeeds(t *testing.T) {
	g := NewGraph[string]()
	g.AddEdge("A", "B")
	g.AddEdge("C", "B")
	g.AddEdge("B", "D")

	result, err := Rank[string](context.Background(), g, []string{"A", "C"}, DefaultRankOptions())
	if err != nil {
		t.Fatalf("Rank failed: %v", err)
	}
	if len(result.Seeds) != 2 {
		t.Errorf("Expected 2 seeds, got %v", result.Seeds)
	}

	foundB := false
	for _, r := range result.Results {
		if r.Node == "B" {
			foundB = true
		}
	}
	if !foundB {
		t.Error("Expected B in results")
	}
}

func TestRankEmptySeeds(t *testing.T) {
	g := NewGraph[string]()
	g.AddEdge("A", "B")

	if _, err := Rank[string](context.Background(), g, nil, DefaultRankOptions()); err == nil {
		t.Error("Expected error for empty seeds")
	}
}

func TestRankNonexistentSeeds(t *testing.T) {
	g := NewGraph[string]()
	g.AddEdge("A", "B")

	result, err := Rank[string](context.Background(), g, []string{"X", "Y"}, DefaultRankOptions())
	if err != nil {
		t.Fatalf("Rank failed: %v", err)
	}
	if len(result.Results) != 0 {
		t.Errorf("Expected 0 results for nonexistent seeds, got %d", len(result.Results))
	}
}

func TestRankPathBacktracking(t *testing.T) {
	g := NewGraph[string]()
	g.AddEdge("A", "B")
	g.AddEdge("B", "C")
	g.AddEdge("C", "D")

	result, err := Rank[string](context.Background(), g, []string{"A"}, DefaultRankOptions())
	if err != nil {
		t.Fatalf("Rank failed: %v", err)
	}

	for _, r := range result.Results {
		if r.Node != "D" {
			continue
		}
		want := []string{"A", "B", "C", "D"}
		if !equalPath(r.Path, want) {
			t.Errorf("Path to D = %v, want %v", r.Path, want)
		}
		return
	}
	t.Error("Expected D in results")
}

func TestRankCanceled(t *testing.T) {
	g := NewGraph[string]()
	g.AddEdge("A", "B")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := Rank[string](ctx, g, []string{"A"}, DefaultRankOptions()); err == nil {
		t.Error("Expected error for canceled context")
	}
}

func BenchmarkRank(b *testing.B) {
	g := NewGraph[string]()
	numNodes := 1000
	for i := 0; i < numNodes; i++ {
		for j := 1; j <= 5; j++ {
			g.AddEdge(nodeID(i), nodeID((i+j)%numNodes))
		}
	}

	ctx := context.Background()
	opts := DefaultRankOptions()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = Rank[string](ctx, g, []string{"node_0"}, opts)
	}
}

func nodeID(i int) string {
	return "node_" + strconv.Itoa(i)
}
