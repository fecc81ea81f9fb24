package modules

import (
	"modgraph/internal/graph"
	"modgraph/internal/progress"
)

// CyclicGroup is a strongly connected set of more than one module.
type CyclicGroup struct {
	Modules []string `json:"modules"`
	// Cycles holds, per module, the elementary cycles through it.
	Cycles map[string][][]string `json:"cycles"`
}

// Report summarizes the dependency structure of a module set.
type Report struct {
	Modules      int           `json:"modules"`
	Dependencies int           `json:"dependencies"`
	Acyclic      bool          `json:"acyclic"`
	CyclicGroups []CyclicGroup `json:"cyclicGroups,omitempty"`
	// BuildOrder lists every module after all of its dependencies, except
	// within a cyclic group.
	BuildOrder []string `json:"buildOrder"`
	// Components are the strongly connected components, dependents first.
	Components [][]string `json:"components"`
}

// Analyze computes cyclic groups, per-module cycles and a build order.
// The indicator is checked between modules.
func Analyze(set *Set, indicator progress.Indicator) (*Report, error) {
	if indicator == nil {
		indicator = progress.Never
	}
	g := set.Graph()

	report := &Report{
		Modules:      g.NumNodes(),
		Dependencies: g.NumEdges(),
	}

	for _, chunk := range graph.ComputeStronglyConnectedComponents[string](g) {
		if err := indicator.CheckCanceled(); err != nil {
			return nil, err
		}
		nodes := chunk.Nodes()
		report.Components = append(report.Components, nodes)
		if chunk.Len() < 2 {
			continue
		}

		group := CyclicGroup{Modules: nodes, Cycles: make(map[string][][]string, len(nodes))}
		for _, id := range nodes {
			if err := indicator.CheckCanceled(); err != nil {
				return nil, err
			}
			group.Cycles[id] = graph.FindCycles[string](g, id)
		}
		report.CyclicGroups = append(report.CyclicGroups, group)
	}

	dfst := graph.NewDFST(graph.InvertEdgeDirections[string](g))
	report.BuildOrder = dfst.SortedNodes()
	report.Acyclic = dfst.IsAcyclic()

	return report, nil
}
