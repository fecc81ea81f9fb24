package graph

import (
	"errors"
	"testing"
)

// buildGraph creates a string graph from "from->to" pairs.
func buildGraph(t *testing.T, edges ...string) *Graph[string] {
	t.Helper()
	g := NewGraph[string]()
	for _, e := range edges {
		var from, to string
		for i := 0; i+1 < len(e); i++ {
			if e[i] == '-' && e[i+1] == '>' {
				from, to = e[:i], e[i+2:]
				break
			}
		}
		if from == "" || to == "" {
			t.Fatalf("bad edge spec %q", e)
		}
		g.AddEdge(from, to)
	}
	return g
}

func equalPath[N comparable](a, b []N) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestGraphAddEdge(t *testing.T) {
	g := NewGraph[string]()
	g.AddEdge("A", "B")
	g.AddEdge("A", "B")
	g.AddEdge("B", "C")
	g.AddNode("D")

	if g.NumNodes() != 4 {
		t.Errorf("NumNodes() = %d, want 4", g.NumNodes())
	}
	if g.NumEdges() != 2 {
		t.Errorf("NumEdges() = %d, want 2 (duplicates ignored)", g.NumEdges())
	}
	if !g.HasEdge("A", "B") || g.HasEdge("B", "A") {
		t.Error("HasEdge should respect direction")
	}
	if !equalPath(g.Out("A"), []string{"B"}) {
		t.Errorf("Out(A) = %v", g.Out("A"))
	}
	if !equalPath(g.In("C"), []string{"B"}) {
		t.Errorf("In(C) = %v", g.In("C"))
	}
	if g.Out("missing") != nil || g.In("missing") != nil {
		t.Error("Unknown nodes should have no edges")
	}
	if !equalPath(g.Nodes(), []string{"A", "B", "C", "D"}) {
		t.Errorf("Nodes() = %v, want insertion order", g.Nodes())
	}
}

func TestCopyAndStats(t *testing.T) {
	g := buildGraph(t, "A->B", "B->B", "B->C")
	c := Copy[string](g)

	for _, n := range g.Nodes() {
		if !equalPath(c.Out(n), g.Out(n)) || !equalPath(c.In(n), g.In(n)) {
			t.Errorf("Copy differs at %s", n)
		}
	}

	stats := ComputeStats[string](g)
	if stats.TotalNodes != 3 || stats.TotalEdges != 3 || stats.SelfLoops != 1 {
		t.Errorf("ComputeStats = %+v", stats)
	}
	if stats.AvgOutDegree != 1 {
		t.Errorf("AvgOutDegree = %v, want 1", stats.AvgOutDegree)
	}
}

// brokenGraph reports edges in Out that In does not know about.
type brokenGraph struct {
	out map[string][]string
	in  map[string][]string
}

func (b brokenGraph) Nodes() []string       { return []string{"A", "B"} }
func (b brokenGraph) Out(n string) []string { return b.out[n] }
func (b brokenGraph) In(n string) []string  { return b.in[n] }

func TestValidate(t *testing.T) {
	t.Run("consistent", func(t *testing.T) {
		g := buildGraph(t, "A->B", "B->A", "A->A")
		if err := Validate[string](g); err != nil {
			t.Errorf("Validate() = %v, want nil", err)
		}
	})

	t.Run("missing in edge", func(t *testing.T) {
		g := brokenGraph{out: map[string][]string{"A": {"B"}}, in: map[string][]string{}}
		if err := Validate[string](g); !errors.Is(err, ErrInconsistentEdges) {
			t.Errorf("Validate() = %v, want ErrInconsistentEdges", err)
		}
	})

	t.Run("missing out edge", func(t *testing.T) {
		g := brokenGraph{out: map[string][]string{}, in: map[string][]string{"B": {"A"}}}
		if err := Validate[string](g); !errors.Is(err, ErrInconsistentEdges) {
			t.Errorf("Validate() = %v, want ErrInconsistentEdges", err)
		}
	})

	t.Run("unknown node", func(t *testing.T) {
		g := brokenGraph{out: map[string][]string{"A": {"Z"}}, in: map[string][]string{}}
		if err := Validate[string](g); !errors.Is(err, ErrNodeNotFound) {
			t.Errorf("Validate() = %v, want ErrNodeNotFound", err)
		}
	})
}

func TestRequireNodes(t *testing.T) {
	g := buildGraph(t, "A->B")
	if err := RequireNodes[string](g, "A", "B"); err != nil {
		t.Errorf("RequireNodes() = %v, want nil", err)
	}
	if err := RequireNodes[string](g, "A", "Z"); !errors.Is(err, ErrNodeNotFound) {
		t.Errorf("RequireNodes() = %v, want ErrNodeNotFound", err)
	}
}

func TestGenerateFromInbound(t *testing.T) {
	deps := map[string][]string{
		"app":  {"lib", "util"},
		"lib":  {"util"},
		"util": nil,
		"test": {"app", "external"},
	}
	calls := 0
	semi := CacheSemiGraph[string](SemiGraphFunc[string]{
		NodeList: []string{"util", "lib", "app", "test"},
		InFunc: func(n string) []string {
			calls++
			return deps[n]
		},
	})
	g := Generate(semi)

	if !equalPath(g.Out("util"), []string{"lib", "app"}) {
		t.Errorf("Out(util) = %v, want [lib app]", g.Out("util"))
	}
	if !equalPath(g.In("test"), []string{"app"}) {
		t.Errorf("In(test) = %v, want [app] (external dropped)", g.In("test"))
	}
	if err := Validate(g); err != nil {
		t.Errorf("Generated graph should be consistent: %v", err)
	}

	semi.In("app")
	if calls != 4 {
		t.Errorf("In called %d times, want 4 (cached)", calls)
	}
}
