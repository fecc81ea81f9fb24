package main

import (
	"github.com/spf13/cobra"

	"modgraph/internal/graph"
)

var (
	sccGraph   string
	sccReverse bool
)

var sccCmd = &cobra.Command{
	Use:   "scc",
	Short: "Show strongly connected components and their condensation",
	Long: `Compute the strongly connected components of a graph in topological order,
the edges between components, and a node order where every node comes after
the nodes that reach it (ties inside a cyclic component are arbitrary).

Examples:
  modgraph scc --graph deps.yaml
  modgraph scc --graph deps.yaml --reverse --format=human`,
	Args: cobra.NoArgs,
	Run:  runSCC,
}

func init() {
	sccCmd.Flags().StringVar(&sccGraph, "graph", "", "Graph file (.json, .yaml, .toml)")
	sccCmd.Flags().BoolVar(&sccReverse, "reverse", false, "Follow edges backwards")
	rootCmd.AddCommand(sccCmd)
}

func runSCC(cmd *cobra.Command, args []string) {
	mustLoadConfig(mustGetRepoRoot())

	resp, err := stronglyConnected(sccGraph, sccReverse)
	if err != nil {
		exitWithError(err)
	}
	printResponse(resp)
}

func stronglyConnected(graphPath string, reverse bool) (*SCCResponseCLI, error) {
	g, err := loadGraph(graphPath, reverse)
	if err != nil {
		return nil, err
	}

	condensed := graph.ComputeSCCGraph(g)
	chunks := condensed.Nodes()
	index := make(map[*graph.Chunk[string]]int, len(chunks))
	for i, c := range chunks {
		index[c] = i
	}

	dfst := graph.NewDFST(g)
	resp := &SCCResponseCLI{
		Acyclic:    dfst.IsAcyclic(),
		Components: make([]ComponentCLI, 0, len(chunks)),
		Edges:      []ComponentEdgeCLI{},
		Order:      dfst.SortedNodes(),
	}
	for i, c := range chunks {
		cyclic := c.Len() > 1
		if !cyclic {
			n := c.Nodes()[0]
			for _, m := range g.Out(n) {
				if m == n {
					cyclic = true
				}
			}
		}
		resp.Components = append(resp.Components, ComponentCLI{Index: i, Nodes: c.Nodes(), Cyclic: cyclic})
		for _, dst := range condensed.Out(c) {
			resp.Edges = append(resp.Edges, ComponentEdgeCLI{From: i, To: index[dst]})
		}
	}
	return resp, nil
}
