package main

import (
	"github.com/spf13/cobra"

	"modgraph/internal/graph"
	"modgraph/internal/output"
)

var (
	reachGraph   string
	reachReverse bool
)

var reachCmd = &cobra.Command{
	Use:   "reach <node>...",
	Short: "List every node reachable from the given nodes",
	Long: `List the start nodes and every node reachable from them. With --reverse,
list every node that reaches one of the start nodes.

Examples:
  modgraph reach --graph deps.yaml app
  modgraph reach --graph deps.yaml --reverse core`,
	Args: cobra.MinimumNArgs(1),
	Run:  runReach,
}

func init() {
	reachCmd.Flags().StringVar(&reachGraph, "graph", "", "Graph file (.json, .yaml, .toml)")
	reachCmd.Flags().BoolVar(&reachReverse, "reverse", false, "Follow edges backwards")
	rootCmd.AddCommand(reachCmd)
}

func runReach(cmd *cobra.Command, args []string) {
	mustLoadConfig(mustGetRepoRoot())

	resp, err := reachable(reachGraph, reachReverse, args)
	if err != nil {
		exitWithError(err)
	}
	printResponse(resp)
}

func reachable(graphPath string, reverse bool, starts []string) (*ReachResponseCLI, error) {
	g, err := loadGraph(graphPath, reverse)
	if err != nil {
		return nil, err
	}
	if err := graph.RequireNodes(g, starts...); err != nil {
		return nil, err
	}

	set := make(map[string]struct{})
	for _, s := range starts {
		graph.CollectOutsRecursively(g, s, set)
	}
	nodes := output.SortedKeys(set)

	return &ReachResponseCLI{Start: starts, Reverse: reverse, Reachable: nodes, Count: len(nodes)}, nil
}
